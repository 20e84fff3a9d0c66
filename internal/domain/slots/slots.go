package slots

import (
	"errors"
	"strings"
	"time"

	"pet-care-portal/internal/platform/jsontime"
)

var (
	ErrInvalidTime = errors.New("invalid time of day")
)

// Step es la granularidad de un slot reservable.
const Step = 30 * time.Minute

// DefaultSlots se ofrece cuando el veterinario no publica horario.
var DefaultSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
}

// Generate devuelve los slots entre from (incluido) y to (excluido) cada Step minutos.
// Si falta alguno de los dos límites se usa DefaultSlots.
func Generate(from, to string) ([]string, error) {
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		out := make([]string, len(DefaultSlots))
		copy(out, DefaultSlots)
		return out, nil
	}

	start, err := jsontime.ParseClock(from)
	if err != nil {
		return nil, ErrInvalidTime
	}
	end, err := jsontime.ParseClock(to)
	if err != nil {
		return nil, ErrInvalidTime
	}

	step := int(Step / time.Minute)
	out := make([]string, 0)
	for cur := start; cur < end; cur += step {
		out = append(out, jsontime.FormatClock(cur))
	}
	return out, nil
}

// Contains indica si t ("HH:MM") es uno de los slots.
func Contains(slots []string, t string) bool {
	t = strings.TrimSpace(t)
	for _, s := range slots {
		if s == t {
			return true
		}
	}
	return false
}
