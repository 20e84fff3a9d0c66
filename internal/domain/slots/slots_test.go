package slots

import (
	"reflect"
	"testing"
	"time"

	"pet-care-portal/internal/platform/jsontime"
)

func TestGenerate_NineToEleven(t *testing.T) {
	got, err := Generate("09:00", "11:00")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	want := []string{"09:00", "09:30", "10:00", "10:30"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestGenerate_AcceptsSeconds(t *testing.T) {
	got, err := Generate("09:00:00", "10:00:00")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"09:00", "09:30"}) {
		t.Fatalf("unexpected slots %v", got)
	}
}

func TestGenerate_MissingBoundUsesDefaults(t *testing.T) {
	for _, tc := range [][2]string{{"", "17:00"}, {"09:00", ""}, {" ", " "}} {
		got, err := Generate(tc[0], tc[1])
		if err != nil {
			t.Fatalf("Generate(%q,%q) error: %v", tc[0], tc[1], err)
		}
		if !reflect.DeepEqual(got, DefaultSlots) {
			t.Fatalf("expected defaults, got %v", got)
		}
	}

	// la copia no debe compartir backing array con DefaultSlots
	got, _ := Generate("", "")
	got[0] = "00:00"
	if DefaultSlots[0] != "09:00" {
		t.Fatalf("DefaultSlots was mutated")
	}
}

func TestGenerate_InvalidFormat(t *testing.T) {
	if _, err := Generate("nine", "11:00"); err != ErrInvalidTime {
		t.Fatalf("expected ErrInvalidTime, got %v", err)
	}
}

func TestGenerate_EmptyWhenFromNotBeforeTo(t *testing.T) {
	got, err := Generate("11:00", "11:00")
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty slots, got %v err=%v", got, err)
	}
}

func TestGenerate_Properties(t *testing.T) {
	// Todas las combinaciones de medias horas y cuartos de hora del día.
	for from := 0; from < 24*60; from += 15 {
		for to := from + 1; to <= 24*60-1; to += 45 {
			f, tt := jsontime.FormatClock(from), jsontime.FormatClock(to)
			got, err := Generate(f, tt)
			if err != nil {
				t.Fatalf("Generate(%s,%s): %v", f, tt, err)
			}
			if len(got) == 0 {
				t.Fatalf("Generate(%s,%s) returned no slots", f, tt)
			}
			if got[0] != f {
				t.Fatalf("first slot %s != from %s", got[0], f)
			}
			prev := -1
			for _, s := range got {
				m, err := jsontime.ParseClock(s)
				if err != nil {
					t.Fatalf("invalid slot %q", s)
				}
				if m >= to {
					t.Fatalf("slot %s not before %s", s, tt)
				}
				if prev >= 0 && time.Duration(m-prev)*time.Minute != Step {
					t.Fatalf("slots %s not spaced by %v", s, Step)
				}
				prev = m
			}
		}
	}
}

func TestContains(t *testing.T) {
	s := []string{"09:00", "09:30"}
	if !Contains(s, "09:30") || Contains(s, "10:00") {
		t.Fatalf("Contains mismatch")
	}
}
