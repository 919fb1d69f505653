package auth

import "errors"

var (
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrInvalidEmail          = errors.New("Invalid Email")
	ErrIncorrectPassword     = errors.New("Incorrect Password")
	ErrNotAuthenticated      = errors.New("Not authenticated")
	ErrEmailTaken            = errors.New("Email already registered")
	ErrInvalidEmailFormat    = errors.New("Invalid email format")
	ErrInvalidPassword       = errors.New("Invalid password format")
	ErrInvalidFullname       = errors.New("Full name is required")
	ErrInvalidRole           = errors.New("Role must be owner or tenant")
	ErrInvalidPhone          = errors.New("Invalid phone number")
	ErrInvalidToken          = errors.New("Invalid or expired token")
)
