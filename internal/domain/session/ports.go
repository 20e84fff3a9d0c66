package session

import (
	"context"
	"encoding/json"
	"errors"
)

// Claves del almacenamiento durable; siempre se borran juntas.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// ErrNotFound lo devuelve Store.Get cuando la clave no existe.
var ErrNotFound = errors.New("session: key not found")

// Store es el almacenamiento clave/valor durable del cliente.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// AuthAPI es la parte del backend que usa el holder.
// Devuelve el body crudo porque el login tiene varias formas de respuesta.
type AuthAPI interface {
	Login(ctx context.Context, c Credentials) (json.RawMessage, error)
	Register(ctx context.Context, r Registration) (json.RawMessage, error)
}
