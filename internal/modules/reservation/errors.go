package reservation

import "errors"

var (
	ErrNotOwner        = errors.New("booking belongs to another customer")
	ErrBookingNotFound = errors.New("booking not found")
	ErrBookingEnded    = errors.New("booking has already ended")
)
