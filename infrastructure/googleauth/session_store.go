package googleauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"videoverse/domain/auth"
)

// SessionStore persists the session snapshot between runs. This is the
// CLI's stand-in for browser local storage.
type SessionStore interface {
	// Load returns the stored session, or nil when none is stored.
	Load() (*auth.Session, error)

	// Save writes the session snapshot.
	Save(s *auth.Session) error

	// Clear removes the stored session. Clearing an absent session is
	// not an error.
	Clear() error
}

// FileSessionStore stores the session as a JSON file.
type FileSessionStore struct {
	path string
}

// NewFileSessionStore creates a session store backed by the given file.
func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

// Load returns the stored session. A missing or unreadable file is
// treated as "no session", not an error.
func (s *FileSessionStore) Load() (*auth.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session auth.Session
	if err := json.Unmarshal(data, &session); err != nil {
		// A corrupt snapshot is discarded rather than surfaced; the
		// user simply signs in again.
		return nil, nil
	}
	return &session, nil
}

// Save writes the session snapshot with owner-only permissions.
func (s *FileSessionStore) Save(session *auth.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Clear removes the stored session.
func (s *FileSessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// Ensure FileSessionStore implements SessionStore
var _ SessionStore = (*FileSessionStore)(nil)
