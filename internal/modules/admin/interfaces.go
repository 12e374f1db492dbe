package admin

import (
	"context"

	"rentcar/internal/domain"
	"rentcar/internal/gateway"
)

type UsersGateway interface {
	GetUsers(ctx context.Context, opts gateway.QueryOptions) ([]domain.Customer, error)
	DeleteUser(ctx context.Context, id int64) (gateway.Ack, error)
}
