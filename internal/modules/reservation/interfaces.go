package reservation

import (
	"context"

	"rentcar/internal/domain"
	"rentcar/internal/gateway"
)

type BookingsGateway interface {
	GetAllBookings(ctx context.Context, opts gateway.QueryOptions) ([]domain.Booking, error)
	GetBookingByID(ctx context.Context, id int64, opts gateway.QueryOptions) (domain.Booking, error)
	GetBookingsByCustomerID(ctx context.Context, customerID int64, opts gateway.QueryOptions) ([]domain.Booking, error)
	UpdateBooking(ctx context.Context, id int64, upd domain.BookingUpdate) (domain.Booking, error)
	DeleteBooking(ctx context.Context, id int64) (gateway.Ack, error)
}

type CarsGateway interface {
	GetCars(ctx context.Context, opts gateway.QueryOptions) ([]domain.Car, error)
}
