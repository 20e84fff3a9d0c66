package memory

import (
	"context"
	"sync"

	"pet-care-portal/internal/domain/session"
)

// SessionStore guarda la sesión solo mientras vive el proceso.
type SessionStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{data: make(map[string]string)}
}

func (s *SessionStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return "", session.ErrNotFound
	}
	return v, nil
}

func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

var _ session.Store = (*SessionStore)(nil)
