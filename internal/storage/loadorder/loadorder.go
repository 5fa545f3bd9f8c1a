// Package loadorder reads and writes the line-oriented ordering files
// that persist mod and plugin priority between sessions.
//
// The format is one entry per line in ascending priority order: an
// optional leading '*' marks the entry enabled, the remainder is the
// entry's name. Blank lines and lines starting with '#' are ignored on
// read and never produced on write.
package loadorder

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one (name, enabled) pair in priority order.
type Entry struct {
	Name    string
	Enabled bool
}

// Load reads an ordering file. A missing file is not an error; it loads
// as an empty order. When inverted is set the marker means disabled
// rather than enabled, for games whose plugin file works that way.
func Load(path string, inverted bool) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening order file: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		marked := strings.HasPrefix(line, "*")
		name := strings.TrimSpace(strings.TrimPrefix(line, "*"))
		if name == "" {
			continue
		}
		entries = append(entries, Entry{Name: name, Enabled: marked != inverted})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading order file: %w", err)
	}
	return entries, nil
}

// Save writes the current in-memory order and enabled flags, one line
// per entry, replacing the file's previous contents.
func Save(path string, entries []Entry, inverted bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating order dir: %w", err)
	}

	var b strings.Builder
	for _, entry := range entries {
		if entry.Enabled != inverted {
			b.WriteString("*")
		}
		b.WriteString(entry.Name)
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing order file: %w", err)
	}
	return nil
}
