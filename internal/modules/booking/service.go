package booking

import (
	"context"
	"fmt"

	"rentcar/internal/domain"
	"rentcar/internal/gateway"
	"rentcar/internal/wizard"
)

type Service struct {
	flow      Flow
	cars      CarsGateway
	bookings  wizard.BookingCreator
	locations []domain.Location
}

func NewService(flow Flow, cars CarsGateway, bookings wizard.BookingCreator, locations []domain.Location) *Service {
	return &Service{flow: flow, cars: cars, bookings: bookings, locations: locations}
}

func (s *Service) View() wizard.View {
	return s.flow.View()
}

func (s *Service) Locations() []domain.Location {
	return s.locations
}

func (s *Service) location(id *int64) *domain.Location {
	if id == nil {
		return nil
	}
	for i := range s.locations {
		if s.locations[i].LocationID == *id {
			l := s.locations[i]
			return &l
		}
	}
	return nil
}

// CarOptions lists the available cars with a price preview for the dates
// entered so far.
func (s *Service) CarOptions(ctx context.Context) ([]CarOption, error) {
	cars, err := s.cars.GetCars(ctx, gateway.QueryOptions{})
	if err != nil {
		return nil, err
	}

	form := s.flow.View().Form
	available := domain.AvailableCars(cars)
	out := make([]CarOption, 0, len(available))
	for _, car := range available {
		opt := CarOption{Car: car, Location: s.location(car.LocationID)}
		if q, err := domain.QuoteDates(form.RentalStartDate, form.RentalEndDate, car.RentalRate); err == nil {
			opt.EstimatedTotal = q.AmountString()
		}
		out = append(out, opt)
	}
	return out, nil
}

func (s *Service) Update(p wizard.Patch) (wizard.View, error) {
	if err := s.flow.Update(p); err != nil {
		return wizard.View{}, err
	}
	return s.flow.View(), nil
}

// SelectCar resolves the id against the backend so the quote uses the
// current rate.
func (s *Service) SelectCar(ctx context.Context, carID int64) (wizard.View, error) {
	car, err := s.cars.GetCarByID(ctx, carID, gateway.QueryOptions{})
	if gateway.IsNotFound(err) {
		return wizard.View{}, ErrCarNotFound
	}
	if err != nil {
		return wizard.View{}, err
	}
	if err := s.flow.SelectCar(car); err != nil {
		return wizard.View{}, err
	}
	return s.flow.View(), nil
}

func (s *Service) Next() (wizard.View, error) {
	if err := s.flow.Next(); err != nil {
		return s.flow.View(), err
	}
	return s.flow.View(), nil
}

func (s *Service) Previous() (wizard.View, error) {
	if err := s.flow.Previous(); err != nil {
		return wizard.View{}, err
	}
	return s.flow.View(), nil
}

func (s *Service) Submit(ctx context.Context, customerID int64) (wizard.View, error) {
	if _, err := s.flow.Submit(ctx, s.bookings, customerID); err != nil {
		return s.flow.View(), fmt.Errorf("submit booking: %w", err)
	}
	return s.flow.View(), nil
}

func (s *Service) Reset() (wizard.View, error) {
	if err := s.flow.Reset(); err != nil {
		return wizard.View{}, err
	}
	return s.flow.View(), nil
}
