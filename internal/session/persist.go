package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sciencehub/shx/internal/models"
)

// Persister stores and restores a session across runs.
type Persister interface {
	// Save writes the session. A logged-out session clears the stored state.
	Save(models.Session) error
	// Load restores the previously saved session. Absence is not an error;
	// implementations return the zero session.
	Load() (models.Session, error)
}

// FilePersister keeps the session as a single JSON file. The file is removed
// on logout so a missing file means logged out.
type FilePersister struct {
	Path string
}

// NewFilePersister creates a FilePersister at the given path.
func NewFilePersister(path string) FilePersister {
	return FilePersister{Path: path}
}

func (p FilePersister) Save(sess models.Session) error {
	if !sess.Authenticated() {
		if err := os.Remove(p.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove session file: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(p.Path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	// The token is a credential; keep the file owner-only.
	if err := os.WriteFile(p.Path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

func (p FilePersister) Load() (models.Session, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Session{}, nil
		}
		return models.Session{}, fmt.Errorf("failed to read session file: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return models.Session{}, fmt.Errorf("failed to decode session file: %w", err)
	}

	if err := sess.Validate(); err != nil {
		return models.Session{}, fmt.Errorf("persisted session invalid: %w", err)
	}

	return sess, nil
}

// NullPersister discards saves and always loads the logged-out state.
type NullPersister struct{}

func (NullPersister) Save(models.Session) error     { return nil }
func (NullPersister) Load() (models.Session, error) { return models.Session{}, nil }

// MemoryPersister keeps the session in memory, for tests and ephemeral runs.
type MemoryPersister struct {
	Session models.Session
}

func (p *MemoryPersister) Save(sess models.Session) error {
	p.Session = sess
	return nil
}

func (p *MemoryPersister) Load() (models.Session, error) {
	return p.Session, nil
}
