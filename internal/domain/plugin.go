package domain

// Plugin is a load-order entry: one named file the game consumes in a
// specific sequence. Ownership is recorded by mod name and re-resolved
// on each access; an empty Owner means base-game content that no mod
// provides.
type Plugin struct {
	Name     string
	Owner    string
	Enabled  bool
	Conflict bool
}

// Owned reports whether any mod currently provides this plugin.
func (p *Plugin) Owned() bool {
	return p.Owner != ""
}
