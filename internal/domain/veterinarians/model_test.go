package veterinarians

import (
	"encoding/json"
	"reflect"
	"testing"

	"pet-care-portal/internal/domain/slots"
)

func TestVeterinarian_DecodeBackendPayload(t *testing.T) {
	raw := `{"id":3,"fullName":"Dr. Silva","consultationFee":2500.00,"rating":4.75,
		"availableFrom":"09:00:00","availableTo":"11:00:00","workingDays":"MON,WED",
		"createdAt":"2025-01-02T10:00:00.123"}`

	var v Veterinarian
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.ConsultationFee.String() != "2500" || v.Rating.String() != "4.75" {
		t.Fatalf("unexpected decimals fee=%s rating=%s", v.ConsultationFee, v.Rating)
	}

	got, err := v.Slots()
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"09:00", "09:30", "10:00", "10:30"}) {
		t.Fatalf("unexpected slots %v", got)
	}
	if !v.WorksOn("wed") || v.WorksOn("FRI") {
		t.Fatalf("WorksOn mismatch")
	}
}

func TestVeterinarian_NoHoursFallsBackToDefaults(t *testing.T) {
	got, err := Veterinarian{}.Slots()
	if err != nil || !reflect.DeepEqual(got, slots.DefaultSlots) {
		t.Fatalf("expected default slots, got %v err=%v", got, err)
	}
}
