package auth

// Claims representa la información extraída del token.
type Claims struct {
	UserID int64
	Email  string
	Role   string
}

// IsZero: claims sin usuario = request anónimo.
func (c Claims) IsZero() bool { return c.UserID == 0 }
