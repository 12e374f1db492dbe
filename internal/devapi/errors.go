package devapi

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotVerified        = errors.New("email not verified")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrCarNotFound        = errors.New("car not found")
	ErrCarBooked          = errors.New("car is already booked for these dates")
	ErrInvalidDates       = errors.New("rental end date must be after start date")
	ErrForbidden          = errors.New("not allowed")
)
