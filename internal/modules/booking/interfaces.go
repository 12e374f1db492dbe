package booking

import (
	"context"

	"rentcar/internal/domain"
	"rentcar/internal/gateway"
	"rentcar/internal/wizard"
)

type CarsGateway interface {
	GetCars(ctx context.Context, opts gateway.QueryOptions) ([]domain.Car, error)
	GetCarByID(ctx context.Context, id int64, opts gateway.QueryOptions) (domain.Car, error)
}

// Flow is the wizard as seen by the handlers.
type Flow interface {
	Update(p wizard.Patch) error
	SelectCar(car domain.Car) error
	Next() error
	Previous() error
	Submit(ctx context.Context, creator wizard.BookingCreator, customerID int64) (domain.Booking, error)
	Reset() error
	View() wizard.View
}
