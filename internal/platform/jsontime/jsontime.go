// Package jsontime decodifica los formatos de fecha/hora del backend
// (LocalDate, LocalTime y LocalDateTime sin zona).
package jsontime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

func isNull(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}

// ParseDateIn parsea un LocalDate ("2006-01-02") a medianoche en loc.
func ParseDateIn(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("jsontime: invalid date %q", s)
	}
	return t, nil
}

func ParseDate(s string) (time.Time, error) { return ParseDateIn(s, time.Local) }

// DateTime es un LocalDateTime; el valor cero se serializa como null.
type DateTime struct {
	time.Time
}

func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("jsontime: invalid date-time %q", s)
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("jsontime: date-time must be a string: %w", err)
	}
	if strings.TrimSpace(s) == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02T15:04:05"))
}

// Clock normaliza un LocalTime ("09:00" o "09:00:00") a "HH:MM".
type Clock string

// ParseClock devuelve los minutos desde medianoche.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{ClockLayout, "15:04:05", "15:04:05.999999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("jsontime: invalid time of day %q", s)
}

// FormatClock es la inversa de ParseClock.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func (c *Clock) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		*c = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("jsontime: time of day must be a string: %w", err)
	}
	if strings.TrimSpace(s) == "" {
		*c = ""
		return nil
	}
	m, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = Clock(FormatClock(m))
	return nil
}

func (c Clock) String() string { return string(c) }
