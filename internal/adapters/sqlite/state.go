package sqlite

import (
	"database/sql"
	"fmt"

	"segnalibro/internal/ports"
)

// State implements ports.StateStore on the bookmark database's state
// table.
type State struct {
	db *sql.DB
}

// Ensure State implements StateStore
var _ ports.StateStore = (*State)(nil)

// State returns the session state store sharing this database.
func (s *Store) State() *State {
	return &State{db: s.db}
}

// Get reads a state value. ok is false when the key has never been set.
func (s *State) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read state %s: %w", key, err)
	}
	return value, true, nil
}

// Set writes a state value, replacing any previous one.
func (s *State) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO state (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write state %s: %w", key, err)
	}
	return nil
}
