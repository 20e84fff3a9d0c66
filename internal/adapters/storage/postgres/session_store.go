package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"pet-care-portal/internal/domain/session"
)

const sessionSchema = `
	CREATE TABLE IF NOT EXISTS client_session (
		profile    TEXT        NOT NULL,
		key        TEXT        NOT NULL,
		value      TEXT        NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (profile, key)
	)
`

// SessionStore guarda la sesión en la tabla client_session.
// profile separa sesiones de distintos usuarios del mismo sistema.
type SessionStore struct {
	db      *sql.DB
	profile string
	now     func() time.Time
}

func NewSessionStore(db *sql.DB, profile string) *SessionStore {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		profile = "default"
	}
	return &SessionStore{db: db, profile: profile, now: time.Now}
}

// EnsureSchema crea la tabla si no existe.
func (s *SessionStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sessionSchema)
	return err
}

func (s *SessionStore) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM client_session
		WHERE profile = $1 AND key = $2
	`, s.profile, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", session.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO client_session (profile, key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (profile, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, s.profile, key, value, s.now().UTC())
	return err
}

func (s *SessionStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM client_session
		WHERE profile = $1 AND key = $2
	`, s.profile, key)
	return err
}

var _ session.Store = (*SessionStore)(nil)
