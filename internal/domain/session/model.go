package session

import "strings"

// Role del usuario según el backend.
// @Enum USER, ADMIN, VET
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
	RoleVet   Role = "VET"
)

// User es la identidad persistida junto al token.
type User struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Role            Role   `json:"role,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// FullName es "Nombre Apellido", usado para precargar formularios.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Credentials es el body de POST /auth/login.
type Credentials struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// Registration es el body de POST /auth/register.
type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

// UserPatch: nil = no tocar.
type UserPatch struct {
	Username        *string `json:"username,omitempty"`
	Email           *string `json:"email,omitempty"`
	FirstName       *string `json:"firstName,omitempty"`
	LastName        *string `json:"lastName,omitempty"`
	ProfileImageURL *string `json:"profileImageUrl,omitempty"`
}

// Apply devuelve u con los campos presentes en p.
func (p UserPatch) Apply(u User) User {
	if p.Username != nil {
		u.Username = strings.TrimSpace(*p.Username)
	}
	if p.Email != nil {
		u.Email = strings.TrimSpace(*p.Email)
	}
	if p.FirstName != nil {
		u.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		u.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.ProfileImageURL != nil {
		u.ProfileImageURL = strings.TrimSpace(*p.ProfileImageURL)
	}
	return u
}
