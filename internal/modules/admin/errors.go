package admin

import "errors"

var (
	ErrSelfDelete  = errors.New("cannot delete your own account")
	ErrInvalidRole = errors.New("invalid role filter")
)
