package catalog

import (
	"context"

	"rentcar/internal/domain"
	"rentcar/internal/gateway"
)

type CarsGateway interface {
	GetCars(ctx context.Context, opts gateway.QueryOptions) ([]domain.Car, error)
	CreateCar(ctx context.Context, in domain.CarInput) (domain.Car, error)
	UpdateCar(ctx context.Context, id int64, in domain.CarInput) (domain.Car, error)
	DeleteCar(ctx context.Context, id int64) (gateway.Ack, error)
}
