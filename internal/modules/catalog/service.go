package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"rentcar/internal/domain"
	"rentcar/internal/gateway"
	"rentcar/internal/pkg/validator"
)

var carMessages = validator.Messages{
	"carModel.required":   "Car model is required",
	"year.required":       "Manufacture year is required",
	"rentalRate.required": "Rental rate is required",
	"locationID.gt":       "Location ID must be positive",
}

type Service struct {
	cars      CarsGateway
	locations map[int64]domain.Location
}

func NewService(cars CarsGateway, locations []domain.Location) *Service {
	s := &Service{cars: cars, locations: make(map[int64]domain.Location, len(locations))}
	for _, l := range locations {
		s.locations[l.LocationID] = l
	}
	return s
}

func (s *Service) withLocation(car domain.Car) CarView {
	v := CarView{Car: car}
	if car.LocationID != nil {
		if l, ok := s.locations[*car.LocationID]; ok {
			v.Location = &l
		}
	}
	return v
}

// List returns the whole fleet. A missing list reads as empty.
func (s *Service) List(ctx context.Context, opts gateway.QueryOptions) ([]CarView, error) {
	cars, err := s.cars.GetCars(ctx, opts)
	if gateway.IsNotFound(err) {
		return []CarView{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]CarView, 0, len(cars))
	for _, c := range cars {
		out = append(out, s.withLocation(c))
	}
	return out, nil
}

func (s *Service) input(req CarRequest) (domain.CarInput, error) {
	req.CarModel = strings.TrimSpace(req.CarModel)
	req.Year = strings.TrimSpace(req.Year)
	req.Color = strings.TrimSpace(req.Color)

	errs := validator.Validate(req, carMessages)
	if errs == nil {
		errs = validator.FieldErrors{}
	}

	var rate decimal.Decimal
	if _, bad := errs["rentalRate"]; !bad {
		r, err := decimal.NewFromString(strings.TrimSpace(string(req.RentalRate)))
		switch {
		case err != nil:
			errs["rentalRate"] = "Rental rate must be a number"
		case !r.IsPositive():
			errs["rentalRate"] = "Rental rate must be positive"
		default:
			rate = r
		}
	}
	if _, bad := errs["locationID"]; !bad && req.LocationID != nil && len(s.locations) > 0 {
		if _, ok := s.locations[*req.LocationID]; !ok {
			errs["locationID"] = "Unknown location"
		}
	}
	if len(errs) > 0 {
		return domain.CarInput{}, validator.FieldErrors(errs)
	}

	available := true
	if req.Availability != nil {
		available = *req.Availability
	}
	return domain.CarInput{
		CarModel:     req.CarModel,
		Year:         req.Year,
		Color:        req.Color,
		RentalRate:   rate.StringFixed(2),
		Availability: &available,
		LocationID:   req.LocationID,
	}, nil
}

func (s *Service) Create(ctx context.Context, req CarRequest) (CarView, error) {
	in, err := s.input(req)
	if err != nil {
		return CarView{}, err
	}
	car, err := s.cars.CreateCar(ctx, in)
	if err != nil {
		return CarView{}, fmt.Errorf("create car: %w", err)
	}
	return s.withLocation(car), nil
}

func (s *Service) Update(ctx context.Context, id int64, req CarRequest) (CarView, error) {
	in, err := s.input(req)
	if err != nil {
		return CarView{}, err
	}
	car, err := s.cars.UpdateCar(ctx, id, in)
	if err != nil {
		return CarView{}, fmt.Errorf("update car %d: %w", id, err)
	}
	return s.withLocation(car), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.cars.DeleteCar(ctx, id); err != nil {
		return fmt.Errorf("delete car %d: %w", id, err)
	}
	return nil
}
