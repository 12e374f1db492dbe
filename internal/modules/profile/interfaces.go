package profile

import (
	"context"

	"rentcar/internal/domain"
	"rentcar/internal/gateway"
)

type UsersGateway interface {
	GetUserByID(ctx context.Context, id int64, opts gateway.QueryOptions) (domain.Customer, error)
	UpdateUser(ctx context.Context, id int64, upd domain.CustomerUpdate) (domain.Customer, error)
}

type SessionStore interface {
	Token() string
	User() *domain.Profile
	RefreshUser(ctx context.Context, token string, user domain.Profile) error
}
