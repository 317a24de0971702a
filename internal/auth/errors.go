package auth

import "errors"

var (
	// ErrInvalidCredentials covers both unknown username and password
	// mismatch so a caller cannot tell which one occurred.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrAccountDeactivated is returned for a deactivated admin regardless
	// of credential correctness. It is user-visible.
	ErrAccountDeactivated = errors.New("auth: account deactivated")

	ErrInvalidToken = errors.New("auth: invalid token")
	ErrForbidden    = errors.New("auth: forbidden")
	ErrNotFound     = errors.New("auth: not found")
	ErrConflict     = errors.New("auth: already exists")
	ErrInvalidInput = errors.New("auth: invalid input")
)
