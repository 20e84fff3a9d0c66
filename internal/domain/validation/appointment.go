package validation

import (
	"regexp"
	"strings"
	"time"

	"pet-care-portal/internal/domain/slots"
	"pet-care-portal/internal/platform/jsontime"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	msgName         = "Name is required"
	msgEmail        = "Email is required"
	msgPetName      = "Pet name is required"
	msgPetType      = "Pet type is required"
	msgDate         = "Date is required"
	msgTime         = "Time is required"
	msgReason       = "Reason for visit is required"
	msgInvalidEmail = "Please enter a valid email address"
	msgPastDate     = "Please select a future date"
	msgInvalidDate  = "Please select a valid date"
	msgUnknownSlot  = "Please select an available time"
	msgVeterinarian = "Veterinarian is required"
)

// AppointmentDraft es el formulario de reserva tal como lo edita el usuario.
type AppointmentDraft struct {
	VeterinarianID  int64
	ClientName      string
	ClientEmail     string
	ClientPhone     string
	PetName         string
	PetType         string
	PetAge          string
	AppointmentDate string // YYYY-MM-DD
	AppointmentTime string // HH:MM
	ReasonForVisit  string
	AdditionalNotes string
}

// IsValidEmail aplica el patrón local@dominio.tld.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// ValidateAppointment valida el draft contra el día de now (en su location).
// allowedSlots nil = no se restringe la hora a los slots del veterinario.
func ValidateAppointment(d AppointmentDraft, now time.Time, allowedSlots []string) Errors {
	errs := Errors{}

	if d.VeterinarianID <= 0 {
		errs.set(FieldVeterinarianID, msgVeterinarian)
	}
	if strings.TrimSpace(d.ClientName) == "" {
		errs.set(FieldClientName, msgName)
	}
	if strings.TrimSpace(d.ClientEmail) == "" {
		errs.set(FieldClientEmail, msgEmail)
	} else if !IsValidEmail(strings.TrimSpace(d.ClientEmail)) {
		errs.set(FieldClientEmail, msgInvalidEmail)
	}
	if strings.TrimSpace(d.PetName) == "" {
		errs.set(FieldPetName, msgPetName)
	}
	if strings.TrimSpace(d.PetType) == "" {
		errs.set(FieldPetType, msgPetType)
	}
	if strings.TrimSpace(d.ReasonForVisit) == "" {
		errs.set(FieldReasonForVisit, msgReason)
	}

	if date := strings.TrimSpace(d.AppointmentDate); date == "" {
		errs.set(FieldAppointmentDate, msgDate)
	} else {
		day, err := jsontime.ParseDateIn(date, now.Location())
		switch {
		case err != nil:
			errs.set(FieldAppointmentDate, msgInvalidDate)
		case day.Before(startOfDay(now)):
			errs.set(FieldAppointmentDate, msgPastDate)
		}
	}

	if tm := strings.TrimSpace(d.AppointmentTime); tm == "" {
		errs.set(FieldAppointmentTime, msgTime)
	} else if allowedSlots != nil && !slots.Contains(allowedSlots, tm) {
		errs.set(FieldAppointmentTime, msgUnknownSlot)
	}

	return errs
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
