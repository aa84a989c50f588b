// Package sessions persists the username considered "logged in" for the
// running client installation, as a single row of key-value storage. The rest
// of the persistence layer treats the stored username as an opaque reference
// and performs no validation of it.
package sessions

import (
	"database/sql"
	"errors"
)

const usernameKey = "username"

type Store struct {
	Connection *sql.DB
}

func NewStore(connection *sql.DB) *Store {
	return &Store{connection}
}

// CurrentUsername returns the session user, or an empty string when nobody is
// logged in; the absence of a session isn't an error.
func (s *Store) CurrentUsername() (string, error) {
	var username string
	if err := s.Connection.QueryRow(
		"SELECT value FROM sessions WHERE key = ?", usernameKey).Scan(&username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return username, nil
}

func (s *Store) SetCurrentUsername(username string) error {
	_, err := s.Connection.Exec(`
		INSERT INTO sessions (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = ?`,
		usernameKey, username, username)
	return err
}

// Clear logs the session user out; clearing an absent session is a no-op.
func (s *Store) Clear() error {
	_, err := s.Connection.Exec("DELETE FROM sessions WHERE key = ?", usernameKey)
	return err
}
