package auth

import "errors"

// deviceIDHeader distinguishes concurrent sessions for one user. Requests
// without it fall back to the legacy single-session storage.
const deviceIDHeader = "x-device-id"

type SignupDTO struct {
	Name     string `json:"name"     binding:"required,min=1"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

var (
	errUserExists = errors.New("user already exists")
	// errInvalidCredentials covers both unknown email and wrong password so
	// the two cases stay indistinguishable to callers.
	errInvalidCredentials = errors.New("invalid email or password")
	errMissingToken       = errors.New("refresh token not found")
	errInvalidToken       = errors.New("invalid refresh token")
)
