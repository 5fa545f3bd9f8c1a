package domain

import "errors"

var (
	ErrModNotFound         = errors.New("mod not found")
	ErrPluginNotFound      = errors.New("plugin not found")
	ErrInvalidIndex        = errors.New("index out of range")
	ErrPendingChanges      = errors.New("uncommitted changes exist; commit or refresh first")
	ErrPageBoundary        = errors.New("can't go back from here")
	ErrOwnerDisabled       = errors.New("owning mod is disabled")
	ErrNotConfigurable     = errors.New("mod has no installer descriptor")
	ErrUnconfigured        = errors.New("mod must be configured before it can be enabled")
	ErrMalformedDescriptor = errors.New("installer descriptor is malformed")
	ErrNoInstallableFiles  = errors.New("the selections failed to map to any installable file")
	ErrMissingSource       = errors.New("descriptor references a missing source path")
	ErrDestinationExists   = errors.New("destination already exists")
	ErrNotManaged          = errors.New("file was not deployed by us")
	ErrInvalidName         = errors.New("names can only contain alphanumeric characters or underscores")
	ErrNameTaken           = errors.New("a mod with that name already exists")
)
