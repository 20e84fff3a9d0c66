package devapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-care-portal/internal/adapters/storage/memory"
	"pet-care-portal/internal/domain/appointments"
	"pet-care-portal/internal/domain/validation"
	"pet-care-portal/internal/platform/jsontime"
	"pet-care-portal/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

const (
	msgSlotTaken = "This time slot is already booked"
	msgDayOff    = "The veterinarian does not work on that day"
)

type validationResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  validation.Errors `json:"errors"`
}

func (a *API) appointmentRoutes(r chi.Router) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Get("/", a.listAppointments)
		ar.Post("/", a.createAppointment)
		ar.Get("/check-availability", a.checkAvailability)
		ar.Get("/veterinarian/{vetID}", a.appointmentsByVet)
		ar.Get("/user/{userID}", a.appointmentsByUser)
		ar.Get("/{appointmentID}", a.getAppointment)
		ar.Put("/{appointmentID}", a.updateAppointment)
		ar.Delete("/{appointmentID}", a.deleteAppointment)
	})
}

// sameSlot: un turno cancelado libera el horario.
func sameSlot(s appointments.Slot) func(appointments.Appointment) bool {
	return func(ap appointments.Appointment) bool {
		return ap.Status != appointments.StatusCancelled &&
			ap.VeterinarianID == s.VeterinarianID &&
			ap.AppointmentDate == s.Date &&
			ap.AppointmentTime.String() == s.Time
	}
}

func (a *API) listAppointments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Appointments.List(r.Context(), nil))
}

func (a *API) checkAvailability(w http.ResponseWriter, r *http.Request) {
	vetID, err := strconv.ParseInt(queryParam(r, "veterinarianId"), 10, 64)
	if err != nil || vetID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid veterinarianId")
		return
	}
	date := queryParam(r, "date")
	if _, err := jsontime.ParseDate(date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	m, err := jsontime.ParseClock(queryParam(r, "time"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "time must be HH:MM")
		return
	}

	slot := appointments.Slot{VeterinarianID: vetID, Date: date, Time: jsontime.FormatClock(m)}
	_, err = a.store.Appointments.Find(r.Context(), sameSlot(slot))
	writeJSON(w, http.StatusOK, errors.Is(err, memory.ErrNotFound))
}

func (a *API) appointmentsByVet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "vetID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid veterinarian id")
		return
	}
	list := a.store.Appointments.List(r.Context(), func(ap appointments.Appointment) bool {
		return ap.VeterinarianID == id
	})
	writeJSON(w, http.StatusOK, list)
}

func (a *API) appointmentsByUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "userID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if !a.requireSelf(w, r, id, capabilities.ManageAppointments) {
		return
	}
	list := a.store.Appointments.List(r.Context(), func(ap appointments.Appointment) bool {
		return ap.UserID != nil && *ap.UserID == id
	})
	writeJSON(w, http.StatusOK, list)
}

func (a *API) getAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "appointmentID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}
	ap, err := a.store.Appointments.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "appointment")
		return
	}
	writeJSON(w, http.StatusOK, ap)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// weekday devuelve "MON".."SUN", el formato de WorkingDays.
func weekday(t time.Time) string {
	return strings.ToUpper(t.Weekday().String()[:3])
}

// validateAppointment aplica las mismas reglas que el formulario, con los
// horarios del veterinario.
func (a *API) validateAppointment(r *http.Request, ap appointments.Appointment) (validation.Errors, bool) {
	vet, err := a.store.Veterinarians.Get(r.Context(), ap.VeterinarianID)
	if err != nil {
		return validation.Errors{validation.FieldVeterinarianID: "Veterinarian not found"}, false
	}
	allowed, err := vet.Slots()
	if err != nil {
		allowed = nil
	}

	errs := validation.ValidateAppointment(validation.AppointmentDraft{
		VeterinarianID:  ap.VeterinarianID,
		ClientName:      ap.ClientName,
		ClientEmail:     ap.ClientEmail,
		ClientPhone:     deref(ap.ClientPhone),
		PetName:         ap.PetName,
		PetType:         string(ap.PetType),
		PetAge:          deref(ap.PetAge),
		AppointmentDate: ap.AppointmentDate,
		AppointmentTime: ap.AppointmentTime.String(),
		ReasonForVisit:  string(ap.ReasonForVisit),
		AdditionalNotes: deref(ap.AdditionalNotes),
	}, a.now(), allowed)

	if d, err := jsontime.ParseDate(ap.AppointmentDate); err == nil && !errs.Has(validation.FieldAppointmentDate) {
		if !vet.WorksOn(weekday(d)) {
			errs[validation.FieldAppointmentDate] = msgDayOff
		}
	}
	return errs, errs.Empty()
}

func (a *API) createAppointment(w http.ResponseWriter, r *http.Request) {
	var in appointments.Appointment
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if errs, ok := a.validateAppointment(r, in); !ok {
		writeJSON(w, http.StatusBadRequest, validationResponse{Message: "validation failed", Errors: errs})
		return
	}

	slot := appointments.Slot{VeterinarianID: in.VeterinarianID, Date: in.AppointmentDate, Time: in.AppointmentTime.String()}
	now := jsontime.DateTime{Time: a.now()}
	ap, err := a.store.Appointments.CreateIf(r.Context(), sameSlot(slot), func(id int64) appointments.Appointment {
		in.ID = id
		in.Status = appointments.StatusScheduled
		in.CreatedAt, in.UpdatedAt = now, now
		return in
	})
	if errors.Is(err, memory.ErrConflict) {
		writeError(w, http.StatusConflict, msgSlotTaken)
		return
	}
	if err != nil {
		writeStoreError(w, err, "appointment")
		return
	}

	a.log.Info("appointment booked", map[string]any{
		"appointment_id": ap.ID,
		"vet_id":         ap.VeterinarianID,
		"date":           ap.AppointmentDate,
		"time":           ap.AppointmentTime.String(),
	})
	writeJSON(w, http.StatusCreated, ap)
}

// ownsAppointment: dueño del turno o quien gestiona citas.
func (a *API) ownsAppointment(w http.ResponseWriter, r *http.Request, ap appointments.Appointment) bool {
	claims, ok := a.requireUser(w, r)
	if !ok {
		return false
	}
	if (ap.UserID != nil && *ap.UserID == claims.UserID) || a.can(r.Context(), claims, capabilities.ManageAppointments) {
		return true
	}
	writeError(w, http.StatusForbidden, "forbidden")
	return false
}

func (a *API) updateAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "appointmentID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}
	cur, err := a.store.Appointments.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "appointment")
		return
	}
	if !a.ownsAppointment(w, r, cur) {
		return
	}

	var in appointments.Appointment
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if errs, ok := a.validateAppointment(r, in); !ok {
		writeJSON(w, http.StatusBadRequest, validationResponse{Message: "validation failed", Errors: errs})
		return
	}

	// un turno cancelado no ocupa horario
	var conflict func(appointments.Appointment) bool
	if in.Status != appointments.StatusCancelled {
		conflict = sameSlot(appointments.Slot{VeterinarianID: in.VeterinarianID, Date: in.AppointmentDate, Time: in.AppointmentTime.String()})
	}

	ap, err := a.store.Appointments.UpdateIf(r.Context(), id, conflict, func(cur appointments.Appointment) (appointments.Appointment, error) {
		in.ID = cur.ID
		in.UserID = cur.UserID
		if in.Status == "" {
			in.Status = cur.Status
		}
		in.CreatedAt = cur.CreatedAt
		in.UpdatedAt = jsontime.DateTime{Time: a.now()}
		return in, nil
	})
	if errors.Is(err, memory.ErrConflict) {
		writeError(w, http.StatusConflict, msgSlotTaken)
		return
	}
	if err != nil {
		writeStoreError(w, err, "appointment")
		return
	}
	writeJSON(w, http.StatusOK, ap)
}

func (a *API) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "appointmentID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}
	cur, err := a.store.Appointments.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "appointment")
		return
	}
	if !a.ownsAppointment(w, r, cur) {
		return
	}
	if err := a.store.Appointments.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "appointment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
