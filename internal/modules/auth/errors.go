package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("account not verified")
	ErrVerificationFailed = errors.New("verification failed")
	ErrNoToken            = errors.New("login answer carried no token")
)
