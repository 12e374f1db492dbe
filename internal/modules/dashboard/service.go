package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"rentcar/internal/domain"
	"rentcar/internal/gateway"
)

type Service struct {
	cars     CarsGateway
	bookings BookingsGateway
	users    UsersGateway
	now      func() time.Time
}

func NewService(cars CarsGateway, bookings BookingsGateway, users UsersGateway, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{cars: cars, bookings: bookings, users: users, now: now}
}

// NewShell describes the dashboard frame for a signed-in profile. The
// first drawer entry is the landing page.
func NewShell(user domain.Profile) Shell {
	drawer := Drawer(user.Role)
	return Shell{Role: user.Role, User: &user, Landing: drawer[0].Link, Drawer: drawer}
}

func normalisePeriod(p string) (string, error) {
	if p == "" {
		return DefaultPeriod, nil
	}
	if _, ok := Periods[p]; !ok {
		return "", ErrInvalidPeriod
	}
	return p, nil
}

// emptyOnNotFound treats a missing collection as an empty one.
func emptyOnNotFound[T any](v []T, err error) ([]T, error) {
	if gateway.IsNotFound(err) {
		return []T{}, nil
	}
	return v, err
}

func (s *Service) AdminAnalytics(ctx context.Context, period string, opts gateway.QueryOptions) (AdminAnalytics, error) {
	period, err := normalisePeriod(period)
	if err != nil {
		return AdminAnalytics{}, err
	}

	var (
		cars     []domain.Car
		bookings []domain.Booking
		users    []domain.Customer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cars, err = emptyOnNotFound(s.cars.GetCars(gctx, opts))
		return err
	})
	g.Go(func() (err error) {
		bookings, err = emptyOnNotFound(s.bookings.GetAllBookings(gctx, opts))
		return err
	})
	g.Go(func() (err error) {
		users, err = emptyOnNotFound(s.users.GetUsers(gctx, opts))
		return err
	})
	if err := g.Wait(); err != nil {
		return AdminAnalytics{}, err
	}

	return BuildAdmin(period, s.now(), cars, bookings, users), nil
}

func (s *Service) UserAnalytics(ctx context.Context, customerID int64, period string, opts gateway.QueryOptions) (UserAnalytics, error) {
	period, err := normalisePeriod(period)
	if err != nil {
		return UserAnalytics{}, err
	}

	var (
		cars     []domain.Car
		bookings []domain.Booking
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cars, err = emptyOnNotFound(s.cars.GetCars(gctx, opts))
		return err
	})
	g.Go(func() (err error) {
		bookings, err = emptyOnNotFound(s.bookings.GetBookingsByCustomerID(gctx, customerID, opts))
		return err
	})
	if err := g.Wait(); err != nil {
		return UserAnalytics{}, err
	}

	return BuildUser(period, s.now(), cars, bookings), nil
}
