package appointments

import (
	"context"

	"pet-care-portal/internal/domain/session"
)

// API es la parte del backend que usa el flujo de reserva.
type API interface {
	CheckAvailability(ctx context.Context, veterinarianID int64, date, time string) (bool, error)
	Create(ctx context.Context, a Appointment) (Appointment, error)
}

// Notifier muestra mensajes al usuario (toasts en la UI, stderr en el CLI).
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Identity expone el usuario logueado, si hay. *session.Holder la implementa.
type Identity interface {
	CurrentUser() (session.User, bool)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

type anonymous struct{}

func (anonymous) CurrentUser() (session.User, bool) { return session.User{}, false }
