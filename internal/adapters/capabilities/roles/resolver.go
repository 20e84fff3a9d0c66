// Package roles resuelve capabilities a partir del rol del token.
package roles

import (
	"context"
	"errors"
	"strings"

	"pet-care-portal/internal/domain/session"
	"pet-care-portal/internal/ports/capabilities"
)

var ErrCapabilityRequired = errors.New("capability required")

// Resolver decide con una tabla fija rol -> capabilities.
type Resolver struct {
	byRole   map[session.Role]map[capabilities.Capability]bool
	allowAll bool
}

// DefaultTable: ADMIN administra todo; VET gestiona citas.
func DefaultTable() map[session.Role][]capabilities.Capability {
	return map[session.Role][]capabilities.Capability{
		session.RoleAdmin: {
			capabilities.ManageUsers,
			capabilities.ManageProducts,
			capabilities.ManageVeterinarians,
			capabilities.ManageOrders,
			capabilities.ApproveTestimonials,
			capabilities.ManageAppointments,
		},
		session.RoleVet: {
			capabilities.ManageAppointments,
		},
	}
}

// NewResolver crea un resolver. allowAll = modo dev: todo devuelve true.
func NewResolver(table map[session.Role][]capabilities.Capability, allowAll bool) *Resolver {
	byRole := make(map[session.Role]map[capabilities.Capability]bool, len(table))
	for role, caps := range table {
		set := make(map[capabilities.Capability]bool, len(caps))
		for _, c := range caps {
			set[c] = true
		}
		byRole[role] = set
	}
	return &Resolver{byRole: byRole, allowAll: allowAll}
}

func (r *Resolver) HasFeature(ctx context.Context, in capabilities.CapabilityCheck) (bool, error) {
	if strings.TrimSpace(string(in.Capability)) == "" {
		return false, ErrCapabilityRequired
	}
	if r.allowAll {
		return true, nil
	}
	if in.Claims.IsZero() {
		return false, nil
	}

	role := session.Role(strings.ToUpper(strings.TrimSpace(in.Claims.Role)))
	return r.byRole[role][in.Capability], nil
}

var _ capabilities.CapabilitiesResolver = (*Resolver)(nil)
