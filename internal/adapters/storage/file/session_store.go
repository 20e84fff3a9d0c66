// Package file persiste la sesión del CLI en un archivo JSON (clave -> valor).
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pet-care-portal/internal/domain/session"

	"github.com/spf13/afero"
)

const filePerm = 0o600

type SessionStore struct {
	fs   afero.Fs
	path string

	mu sync.Mutex
}

// NewSessionStore usa fs para poder testear con afero.NewMemMapFs.
func NewSessionStore(fs afero.Fs, path string) (*SessionStore, error) {
	if path == "" {
		return nil, errors.New("file: session path required")
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &SessionStore{fs: fs, path: path}, nil
}

func (s *SessionStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return "", err
	}
	v, ok := data[key]
	if !ok {
		return "", session.ErrNotFound
	}
	return v, nil
}

func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	data[key] = value
	return s.save(data)
}

func (s *SessionStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	if len(data) == 0 {
		if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file: remove session: %w", err)
		}
		return nil
	}
	return s.save(data)
}

// load trata un archivo ilegible como vacío: el holder ya descarta sesiones corruptas.
func (s *SessionStore) load() (map[string]string, error) {
	b, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file: read session: %w", err)
	}

	data := map[string]string{}
	if len(b) > 0 && json.Unmarshal(b, &data) != nil {
		return map[string]string{}, nil
	}
	return data, nil
}

// save escribe en un temporal y renombra para no dejar archivos a medias.
func (s *SessionStore) save(data map[string]string) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("file: create dir: %w", err)
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, b, filePerm); err != nil {
		return fmt.Errorf("file: write session: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("file: rename session: %w", err)
	}
	return nil
}

var _ session.Store = (*SessionStore)(nil)
