package auth

import (
	"context"

	"rentcar/internal/domain"
	"rentcar/internal/gateway"
	"rentcar/internal/session"
)

type UsersGateway interface {
	CreateUser(ctx context.Context, in domain.CustomerInput) (domain.Customer, error)
	VerifyUser(ctx context.Context, email, code string) (gateway.Ack, error)
}

type LoginGateway interface {
	LoginUser(ctx context.Context, email, password string) (gateway.LoginResponse, error)
}

// SessionStore is the slice of session.Store the auth flow drives.
type SessionStore interface {
	State() session.State
	LoginSuccess(ctx context.Context, token string, user domain.Profile) error
	Logout(ctx context.Context) error
}
