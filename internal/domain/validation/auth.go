package validation

import "strings"

const (
	MinPasswordLength = 6

	msgUsername      = "Username is required"
	msgFirstName     = "First name is required"
	msgLastName      = "Last name is required"
	msgPassword      = "Password is required"
	msgShortPassword = "Password must be at least 6 characters"
	msgMismatch      = "Passwords do not match"
	msgFillAll       = "Please fill in all fields"
)

type SignupDraft struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Password        string
	ConfirmPassword string
}

func ValidateSignup(d SignupDraft) Errors {
	errs := Errors{}

	if strings.TrimSpace(d.Username) == "" {
		errs.set(FieldUsername, msgUsername)
	}
	if email := strings.TrimSpace(d.Email); email == "" {
		errs.set(FieldEmail, msgEmail)
	} else if !IsValidEmail(email) {
		errs.set(FieldEmail, msgInvalidEmail)
	}
	if strings.TrimSpace(d.FirstName) == "" {
		errs.set(FieldFirstName, msgFirstName)
	}
	if strings.TrimSpace(d.LastName) == "" {
		errs.set(FieldLastName, msgLastName)
	}

	// la contraseña no se recorta: los espacios cuentan
	switch {
	case d.Password == "":
		errs.set(FieldPassword, msgPassword)
	case len([]rune(d.Password)) < MinPasswordLength:
		errs.set(FieldPassword, msgShortPassword)
	}
	if d.Password != "" && d.Password != d.ConfirmPassword {
		errs.set(FieldConfirmPassword, msgMismatch)
	}

	return errs
}

type LoginDraft struct {
	UsernameOrEmail string
	Password        string
}

// ValidateLogin marca los campos vacíos con el mismo mensaje genérico.
func ValidateLogin(d LoginDraft) Errors {
	errs := Errors{}
	if strings.TrimSpace(d.UsernameOrEmail) == "" {
		errs.set(FieldUsernameOrEmail, msgFillAll)
	}
	if d.Password == "" {
		errs.set(FieldPassword, msgFillAll)
	}
	return errs
}
