package db

import (
	"fmt"
)

// Link is one committed destination and the mod that won it.
type Link struct {
	Dest    string
	ModName string
	Source  string
}

// SaveLink records that a destination is linked for a specific mod.
// Uses upsert so re-commits simply take ownership.
func (d *DB) SaveLink(gameID, dest, modName, source string) error {
	_, err := d.Exec(`
		INSERT INTO committed_links (game_id, dest, mod_name, source)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(game_id, dest) DO UPDATE SET
			mod_name = excluded.mod_name,
			source = excluded.source,
			committed_at = CURRENT_TIMESTAMP
	`, gameID, dest, modName, source)
	if err != nil {
		return fmt.Errorf("saving link: %w", err)
	}
	return nil
}

// Links returns every committed link for a game, ordered by destination.
func (d *DB) Links(gameID string) ([]Link, error) {
	rows, err := d.Query(`
		SELECT dest, mod_name, source FROM committed_links
		WHERE game_id = ? ORDER BY dest
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("querying links: %w", err)
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var link Link
		if err := rows.Scan(&link.Dest, &link.ModName, &link.Source); err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// LinksForMod returns the committed links owned by one mod.
func (d *DB) LinksForMod(gameID, modName string) ([]Link, error) {
	rows, err := d.Query(`
		SELECT dest, mod_name, source FROM committed_links
		WHERE game_id = ? AND mod_name = ? ORDER BY dest
	`, gameID, modName)
	if err != nil {
		return nil, fmt.Errorf("querying mod links: %w", err)
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var link Link
		if err := rows.Scan(&link.Dest, &link.ModName, &link.Source); err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// DeleteLinks removes every committed link record for a game. Called at
// the start of each commit before the new plan is recorded.
func (d *DB) DeleteLinks(gameID string) error {
	if _, err := d.Exec(`DELETE FROM committed_links WHERE game_id = ?`, gameID); err != nil {
		return fmt.Errorf("deleting links: %w", err)
	}
	return nil
}
