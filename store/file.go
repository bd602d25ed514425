package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const fileSchemaVersion = 1

type fileRecord struct {
	Version int    `json:"version"`
	Token   string `json:"token"`
	User    *User  `json:"user,omitempty"`
}

// FileStore persists the session as a single JSON file scoped to the client
// installation. Writes go through a temp file and rename so a crash mid-save
// never leaves a torn record.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("session file path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the location of the session file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Save(_ context.Context, token string, user *User) error {
	data, err := json.Marshal(fileRecord{
		Version: fileSchemaVersion,
		Token:   token,
		User:    user,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *FileStore) Load(context.Context) (string, *User, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		// corrupt session file: same as no session
		return "", nil, nil
	}
	if rec.Version != fileSchemaVersion {
		return "", nil, nil
	}
	return rec.Token, rec.User, nil
}

func (s *FileStore) Clear(context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
