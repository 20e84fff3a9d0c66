package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// TempToken se guarda cuando el backend no entrega token (su login solo
// devuelve el usuario); sin token la sesión no se restauraría al reiniciar.
const TempToken = "temp-token"

type loginEnvelope struct {
	Success     *bool           `json:"success"`
	Message     string          `json:"message"`
	User        json.RawMessage `json:"user"`
	Token       string          `json:"token"`
	AccessToken string          `json:"accessToken"`
}

// parseLogin acepta las tres formas conocidas:
//   - {success, user, token}
//   - {token, user}
//   - el usuario a secas (token opcional en token/accessToken)
func parseLogin(raw json.RawMessage) (User, string, error) {
	var env loginEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return User{}, "", err
	}

	if env.Success != nil && !*env.Success {
		msg := strings.TrimSpace(env.Message)
		if msg == "" {
			msg = MsgLoginFailed
		}
		return User{}, "", &AuthError{Message: msg}
	}

	userRaw := env.User
	if isEmptyJSON(userRaw) && env.Success == nil {
		userRaw = raw
	}
	if isEmptyJSON(userRaw) {
		return User{}, "", ErrNoUser
	}

	var u User
	if err := json.Unmarshal(userRaw, &u); err != nil {
		return User{}, "", err
	}
	if u.ID == 0 && u.Username == "" && u.Email == "" {
		return User{}, "", ErrNoUser
	}

	token := strings.TrimSpace(env.Token)
	if token == "" {
		token = strings.TrimSpace(env.AccessToken)
	}
	if token == "" {
		token = TempToken
	}
	return u, token, nil
}

func parseRegister(raw json.RawMessage) error {
	if isEmptyJSON(raw) {
		return nil
	}
	var env loginEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// el body no es un objeto: el 2xx alcanza
		return nil
	}
	if env.Success != nil && !*env.Success {
		msg := strings.TrimSpace(env.Message)
		if msg == "" {
			msg = MsgRegisterFailed
		}
		return &AuthError{Message: msg}
	}
	return nil
}

func isEmptyJSON(b json.RawMessage) bool {
	b = bytes.TrimSpace(b)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}

func asAuthError(err error, fallback string) *AuthError {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae
	}
	return &AuthError{Message: fallback, Err: err}
}
