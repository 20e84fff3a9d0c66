package capabilities

import (
	"context"

	"pet-care-portal/internal/ports/auth"
)

// Capability es una acción protegida del devapi.
type Capability string

const (
	ManageUsers         Capability = "users:manage"
	ManageProducts      Capability = "products:manage"
	ManageVeterinarians Capability = "veterinarians:manage"
	ManageOrders        Capability = "orders:manage"
	ApproveTestimonials Capability = "testimonials:approve"
	ManageAppointments  Capability = "appointments:manage"
)

type CapabilityCheck struct {
	Claims     auth.Claims
	Capability Capability
}

type CapabilitiesResolver interface {
	HasFeature(ctx context.Context, in CapabilityCheck) (bool, error)
}
