package appointments

import "pet-care-portal/internal/platform/jsontime"

// PetType
// @Enum Dog, Cat, Bird, Rabbit, Hamster, Fish, Reptile, Other
type PetType string

const (
	PetDog     PetType = "Dog"
	PetCat     PetType = "Cat"
	PetBird    PetType = "Bird"
	PetRabbit  PetType = "Rabbit"
	PetHamster PetType = "Hamster"
	PetFish    PetType = "Fish"
	PetReptile PetType = "Reptile"
	PetOther   PetType = "Other"
)

var PetTypes = []PetType{PetDog, PetCat, PetBird, PetRabbit, PetHamster, PetFish, PetReptile, PetOther}

type Reason string

const (
	ReasonCheckup     Reason = "Regular Checkup"
	ReasonVaccination Reason = "Vaccination"
	ReasonSurgery     Reason = "Surgery Consultation"
	ReasonEmergency   Reason = "Emergency Care"
	ReasonDental      Reason = "Dental Care"
	ReasonGrooming    Reason = "Grooming"
	ReasonBehavioral  Reason = "Behavioral Issues"
	ReasonSkin        Reason = "Skin Problems"
	ReasonOther       Reason = "Other"
)

var Reasons = []Reason{
	ReasonCheckup, ReasonVaccination, ReasonSurgery, ReasonEmergency, ReasonDental,
	ReasonGrooming, ReasonBehavioral, ReasonSkin, ReasonOther,
}

// Status
// @Enum SCHEDULED, CONFIRMED, COMPLETED, CANCELLED
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Appointment es la cita tal como viaja por la API. Los opcionales son
// punteros para que un campo vacío se envíe como null.
type Appointment struct {
	ID              int64             `json:"id,omitempty"`
	VeterinarianID  int64             `json:"veterinarianId"`
	UserID          *int64            `json:"userId"`
	ClientName      string            `json:"clientName"`
	ClientEmail     string            `json:"clientEmail"`
	ClientPhone     *string           `json:"clientPhone"`
	PetName         string            `json:"petName"`
	PetType         PetType           `json:"petType"`
	PetAge          *string           `json:"petAge"`
	AppointmentDate string            `json:"appointmentDate"` // YYYY-MM-DD
	AppointmentTime jsontime.Clock    `json:"appointmentTime"`
	ReasonForVisit  Reason            `json:"reasonForVisit"`
	AdditionalNotes *string           `json:"additionalNotes"`
	Status          Status            `json:"status"`
	CreatedAt       jsontime.DateTime `json:"createdAt,omitzero"`
	UpdatedAt       jsontime.DateTime `json:"updatedAt,omitzero"`
}

// Slot identifica un turno de un veterinario.
type Slot struct {
	VeterinarianID int64
	Date           string // YYYY-MM-DD
	Time           string // HH:MM
}
