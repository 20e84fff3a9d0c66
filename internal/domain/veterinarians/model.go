package veterinarians

import (
	"strings"

	"pet-care-portal/internal/domain/slots"
	"pet-care-portal/internal/platform/jsontime"

	"github.com/shopspring/decimal"
)

// Veterinarian es de solo lectura para el cliente.
type Veterinarian struct {
	ID                int64             `json:"id"`
	FullName          string            `json:"fullName"`
	Email             string            `json:"email"`
	PhoneNumber       string            `json:"phoneNumber,omitempty"`
	LicenseNumber     string            `json:"licenseNumber"`
	Specialization    string            `json:"specialization"`
	YearsOfExperience int               `json:"yearsOfExperience"`
	Education         string            `json:"education,omitempty"`
	Bio               string            `json:"bio,omitempty"`
	ConsultationFee   decimal.Decimal   `json:"consultationFee"`
	AvailableFrom     jsontime.Clock    `json:"availableFrom,omitempty"`
	AvailableTo       jsontime.Clock    `json:"availableTo,omitempty"`
	WorkingDays       string            `json:"workingDays,omitempty"` // "MON,TUE,..."
	IsAvailable       bool              `json:"isAvailable"`
	Rating            decimal.Decimal   `json:"rating"`
	TotalReviews      int               `json:"totalReviews"`
	ImageURL          string            `json:"imageUrl,omitempty"`
	CreatedAt         jsontime.DateTime `json:"createdAt"`
	UpdatedAt         jsontime.DateTime `json:"updatedAt"`
}

// Slots devuelve los horarios reservables según su jornada.
func (v Veterinarian) Slots() ([]string, error) {
	return slots.Generate(v.AvailableFrom.String(), v.AvailableTo.String())
}

// WorksOn indica si day ("MON".."SUN") está en WorkingDays. Vacío = todos los días.
func (v Veterinarian) WorksOn(day string) bool {
	if strings.TrimSpace(v.WorkingDays) == "" {
		return true
	}
	day = strings.ToUpper(strings.TrimSpace(day))
	for _, d := range strings.Split(v.WorkingDays, ",") {
		if strings.ToUpper(strings.TrimSpace(d)) == day {
			return true
		}
	}
	return false
}
