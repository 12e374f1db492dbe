package dashboard

import (
	"context"

	"rentcar/internal/domain"
	"rentcar/internal/gateway"
)

type CarsGateway interface {
	GetCars(ctx context.Context, opts gateway.QueryOptions) ([]domain.Car, error)
}

type BookingsGateway interface {
	GetAllBookings(ctx context.Context, opts gateway.QueryOptions) ([]domain.Booking, error)
	GetBookingsByCustomerID(ctx context.Context, customerID int64, opts gateway.QueryOptions) ([]domain.Booking, error)
}

type UsersGateway interface {
	GetUsers(ctx context.Context, opts gateway.QueryOptions) ([]domain.Customer, error)
}
