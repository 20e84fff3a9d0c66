package session

import (
	"errors"
	"net/http"

	"pet-care-portal/internal/platform/httpclient"
)

var (
	ErrNotAuthenticated = errors.New("session: not authenticated")
	ErrNoUser           = errors.New("session: no user data received")
)

const (
	MsgLoginFailed        = "Login failed. Please check your credentials."
	MsgRegisterFailed     = "Registration failed. Please try again."
	MsgLoggedOut          = "Logged out successfully!"
	msgLoginFallback      = "Login failed."
	msgRegisterFallback   = "Registration failed."
	msgInvalidCredentials = "Invalid credentials format."
	msgBadCredentials     = "Invalid email/username or password."
	msgDisabled           = "Account is disabled."
	msgUserNotFound       = "User not found."
	msgInvalidRegister    = "Invalid registration data."
	msgEmailExists        = "Email already exists."
	msgValidation         = "Validation error."
)

// AuthError es una falla de login/registro con mensaje apto para mostrar.
// Status = 0 cuando no hubo respuesta HTTP.
type AuthError struct {
	Status  int
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

func loginError(err error) *AuthError {
	status, ok := httpclient.StatusCode(err)
	if !ok {
		return &AuthError{Message: MsgLoginFailed, Err: err}
	}

	msg := msgLoginFallback
	switch status {
	case http.StatusBadRequest:
		msg = msgInvalidCredentials
	case http.StatusUnauthorized:
		msg = msgBadCredentials
	case http.StatusForbidden:
		msg = msgDisabled
	case http.StatusNotFound:
		msg = msgUserNotFound
	default:
		if m := httpclient.ServerMessage(err); m != "" {
			msg = m
		}
	}
	return &AuthError{Status: status, Message: msg, Err: err}
}

func registerError(err error) *AuthError {
	status, ok := httpclient.StatusCode(err)
	if !ok {
		return &AuthError{Message: MsgRegisterFailed, Err: err}
	}

	msg := msgRegisterFallback
	switch status {
	case http.StatusBadRequest:
		msg = msgInvalidRegister
	case http.StatusConflict:
		msg = msgEmailExists
	case http.StatusUnprocessableEntity:
		msg = msgValidation
	default:
		if m := httpclient.ServerMessage(err); m != "" {
			msg = m
		}
	}
	return &AuthError{Status: status, Message: msg, Err: err}
}
