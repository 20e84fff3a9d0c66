package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrRejected: el backend respondió 2xx con success=false.
var ErrRejected = errors.New("apiclient: request rejected")

// envelope es la forma {success, data, message} que usan productos y usuarios.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// decode desenvuelve data cuando la respuesta viene en envelope; si no,
// decodifica el body tal cual.
func decode[T any](raw json.RawMessage) (T, error) {
	var out T
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return out, nil
	}

	if raw[0] == '{' {
		var env envelope
		if err := json.Unmarshal(raw, &env); err == nil && env.Success != nil {
			if !*env.Success {
				msg := strings.TrimSpace(env.Message)
				if msg == "" {
					return out, ErrRejected
				}
				return out, fmt.Errorf("%w: %s", ErrRejected, msg)
			}
			if len(env.Data) > 0 {
				raw = env.Data
			}
		}
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("apiclient: decode: %w", err)
	}
	return out, nil
}
