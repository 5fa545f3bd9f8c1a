package main

import (
	"fmt"
	"strconv"

	"omm/internal/core"
)

// parseKind maps the mod|plugin positional argument to a list kind.
func parseKind(s string) (core.Kind, error) {
	switch s {
	case "mod", "mods":
		return core.KindMod, nil
	case "plugin", "plugins":
		return core.KindPlugin, nil
	default:
		return core.KindMod, fmt.Errorf("unknown list %q; expected mod or plugin", s)
	}
}

// parseIndex parses a positional list index.
func parseIndex(s string) (int, error) {
	index, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return index, nil
}

// yesNo renders a boolean for table output.
func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// printCollisions reports the destinations commit refused to clobber.
func printCollisions(collisions []core.Collision) {
	if len(collisions) == 0 {
		return
	}
	fmt.Println(colorYellow(fmt.Sprintf("%d destination(s) were already occupied by unmanaged files and were left alone:", len(collisions))))
	for _, c := range collisions {
		fmt.Printf("  %s (wanted by %s)\n", c.Dest, c.ModName)
	}
}
