// Package redis guarda la sesión en Redis, compartible entre máquinas.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-care-portal/internal/domain/session"

	goredis "github.com/redis/go-redis/v9"
)

const DefaultPrefix = "petcare:session:"

// Client es el subconjunto de *goredis.Client que usa el store.
type Client interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

type Options struct {
	Prefix string
	// TTL 0 = sin vencimiento.
	TTL time.Duration
}

type SessionStore struct {
	rdb    Client
	prefix string
	ttl    time.Duration
}

func NewSessionStore(rdb Client, opts Options) *SessionStore {
	prefix := opts.Prefix
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultPrefix
	}
	return &SessionStore{rdb: rdb, prefix: prefix, ttl: opts.TTL}
}

// Dial crea el cliente y verifica la conexión con PING.
func Dial(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}

func (s *SessionStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", session.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis: get %s: %w", key, err)
	}
	return v, nil
}

func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis: del %s: %w", key, err)
	}
	return nil
}

var _ session.Store = (*SessionStore)(nil)
