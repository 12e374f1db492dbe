package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"rentcar/internal/domain"
	"rentcar/internal/gateway"
	"rentcar/internal/pkg/validator"
)

// DefaultExtensionDays is how far an extension moves the end date when the
// caller does not say.
const DefaultExtensionDays = 3

type Service struct {
	bookings BookingsGateway
	cars     CarsGateway
	now      func() time.Time
}

func NewService(bookings BookingsGateway, cars CarsGateway, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{bookings: bookings, cars: cars, now: now}
}

// carIndex is best effort: a booking list renders without car details
// when the fleet cannot be read.
func (s *Service) carIndex(ctx context.Context) map[int64]domain.Car {
	cars, err := s.cars.GetCars(ctx, gateway.QueryOptions{})
	if err != nil {
		log.Warn().Err(err).Msg("booking list without car details")
		return nil
	}
	idx := make(map[int64]domain.Car, len(cars))
	for _, c := range cars {
		idx[c.CarID] = c
	}
	return idx
}

func dailyRate(b domain.Booking, car *domain.Car) decimal.Decimal {
	if car != nil {
		if r, err := decimal.NewFromString(car.RentalRate); err == nil {
			return r
		}
	}
	if days := b.Days(); days > 0 {
		return b.Amount().Div(decimal.NewFromInt(int64(days)))
	}
	return decimal.Zero
}

func (s *Service) view(bookings []domain.Booking, cars map[int64]domain.Car) BookingList {
	now := s.now()
	out := BookingList{Bookings: make([]BookingView, 0, len(bookings))}
	spent := decimal.Zero

	for _, b := range bookings {
		v := BookingView{Booking: b, Status: b.Status(now), Days: b.Days()}
		if car, ok := cars[b.CarID]; ok {
			c := car
			v.Car = &c
		}
		v.DailyRate = dailyRate(b, v.Car).StringFixed(2)
		out.Bookings = append(out.Bookings, v)

		switch v.Status {
		case domain.BookingActive:
			out.Summary.Active++
		case domain.BookingUpcoming:
			out.Summary.Upcoming++
		default:
			out.Summary.Completed++
		}
		spent = spent.Add(b.Amount())
	}
	out.Summary.Total = len(bookings)
	out.Summary.Spent = spent.StringFixed(2)
	return out
}

// ListMine returns a customer's bookings; a missing list reads as empty.
func (s *Service) ListMine(ctx context.Context, customerID int64, opts gateway.QueryOptions) (BookingList, error) {
	bookings, err := s.bookings.GetBookingsByCustomerID(ctx, customerID, opts)
	if gateway.IsNotFound(err) {
		bookings, err = nil, nil
	}
	if err != nil {
		return BookingList{}, err
	}
	return s.view(bookings, s.carIndex(ctx)), nil
}

func (s *Service) ListAll(ctx context.Context, opts gateway.QueryOptions) (BookingList, error) {
	bookings, err := s.bookings.GetAllBookings(ctx, opts)
	if gateway.IsNotFound(err) {
		bookings, err = nil, nil
	}
	if err != nil {
		return BookingList{}, err
	}
	return s.view(bookings, s.carIndex(ctx)), nil
}

func (s *Service) owned(ctx context.Context, customerID, bookingID int64) (domain.Booking, error) {
	b, err := s.bookings.GetBookingByID(ctx, bookingID, gateway.QueryOptions{RefetchOnMount: true})
	if gateway.IsNotFound(err) {
		return domain.Booking{}, ErrBookingNotFound
	}
	if err != nil {
		return domain.Booking{}, err
	}
	if b.CustomerID != customerID {
		return domain.Booking{}, ErrNotOwner
	}
	return b, nil
}

// Extend moves the end date by days and recomputes the total at the car's
// daily rate.
func (s *Service) Extend(ctx context.Context, customerID, bookingID int64, req ExtendRequest) (BookingView, error) {
	if err := validator.Check(req, validator.Messages{"days": "Extension must be between 1 and 30 days"}); err != nil {
		return BookingView{}, err
	}
	days := req.Days
	if days == 0 {
		days = DefaultExtensionDays
	}

	b, err := s.owned(ctx, customerID, bookingID)
	if err != nil {
		return BookingView{}, err
	}
	if b.Status(s.now()) == domain.BookingCompleted {
		return BookingView{}, ErrBookingEnded
	}

	end, err := domain.ParseDate(b.RentalEndDate)
	if err != nil {
		return BookingView{}, fmt.Errorf("booking %d: %w", bookingID, err)
	}
	newEnd := domain.FormatDate(end.AddDate(0, 0, days))

	cars := s.carIndex(ctx)
	var car *domain.Car
	if c, ok := cars[b.CarID]; ok {
		car = &c
	}
	q, err := domain.QuoteDates(b.RentalStartDate, newEnd, dailyRate(b, car).String())
	if err != nil {
		return BookingView{}, fmt.Errorf("booking %d: %w", bookingID, err)
	}
	total := q.AmountString()

	updated, err := s.bookings.UpdateBooking(ctx, bookingID, domain.BookingUpdate{
		RentalEndDate: &newEnd,
		TotalAmount:   &total,
	})
	if err != nil {
		return BookingView{}, fmt.Errorf("extend booking %d: %w", bookingID, err)
	}
	return s.view([]domain.Booking{updated}, cars).Bookings[0], nil
}

func (s *Service) Cancel(ctx context.Context, customerID, bookingID int64) error {
	if _, err := s.owned(ctx, customerID, bookingID); err != nil {
		return err
	}
	if _, err := s.bookings.DeleteBooking(ctx, bookingID); err != nil {
		return fmt.Errorf("cancel booking %d: %w", bookingID, err)
	}
	return nil
}

// Delete is the admin removal; no ownership check.
func (s *Service) Delete(ctx context.Context, bookingID int64) error {
	if _, err := s.bookings.DeleteBooking(ctx, bookingID); err != nil {
		return fmt.Errorf("delete booking %d: %w", bookingID, err)
	}
	return nil
}
