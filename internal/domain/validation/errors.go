// Package validation contiene los validadores locales de formularios.
// Nunca hacen I/O: devuelven Errors vacío cuando el draft es válido.
package validation

import (
	"sort"
	"strings"
)

// Field es el conjunto cerrado de campos que pueden tener error.
type Field string

const (
	// Cita
	FieldVeterinarianID  Field = "veterinarianId"
	FieldClientName      Field = "clientName"
	FieldClientEmail     Field = "clientEmail"
	FieldClientPhone     Field = "clientPhone"
	FieldPetName         Field = "petName"
	FieldPetType         Field = "petType"
	FieldPetAge          Field = "petAge"
	FieldAppointmentDate Field = "appointmentDate"
	FieldAppointmentTime Field = "appointmentTime"
	FieldReasonForVisit  Field = "reasonForVisit"
	FieldAdditionalNotes Field = "additionalNotes"

	// Registro
	FieldUsername        Field = "username"
	FieldEmail           Field = "email"
	FieldFirstName       Field = "firstName"
	FieldLastName        Field = "lastName"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirmPassword"

	// Login
	FieldUsernameOrEmail Field = "usernameOrEmail"
)

var knownFields = map[Field]struct{}{
	FieldVeterinarianID: {}, FieldClientName: {}, FieldClientEmail: {}, FieldClientPhone: {},
	FieldPetName: {}, FieldPetType: {}, FieldPetAge: {}, FieldAppointmentDate: {},
	FieldAppointmentTime: {}, FieldReasonForVisit: {}, FieldAdditionalNotes: {},
	FieldUsername: {}, FieldEmail: {}, FieldFirstName: {}, FieldLastName: {},
	FieldPassword: {}, FieldConfirmPassword: {}, FieldUsernameOrEmail: {},
}

// Valid reporta si f pertenece al enum.
func (f Field) Valid() bool {
	_, ok := knownFields[f]
	return ok
}

// Errors mapea campo -> mensaje para el usuario. Vacío = válido.
type Errors map[Field]string

func (e Errors) set(f Field, msg string) {
	e[f] = msg
}

func (e Errors) Has(f Field) bool {
	_, ok := e[f]
	return ok
}

// Clear borra el error de un campo (al editarlo).
func (e Errors) Clear(f Field) {
	delete(e, f)
}

func (e Errors) Empty() bool { return len(e) == 0 }

// Fields devuelve los campos con error en orden estable.
func (e Errors) Fields() []Field {
	out := make([]Field, 0, len(e))
	for f := range e {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range e.Fields() {
		parts = append(parts, string(f)+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
