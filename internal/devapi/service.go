package devapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"rentcar/internal/domain"
	"rentcar/internal/repository"
)

// Caller is the authenticated identity of a request.
type Caller struct {
	ID   int64
	Role domain.Role
}

func (c Caller) IsAdmin() bool { return c.Role == domain.RoleAdmin }

// may reports whether the caller can act on the customer's data.
func (c Caller) may(customerID int64) bool {
	return c.IsAdmin() || c.ID == customerID
}

type Service struct {
	customers  CustomerRepository
	cars       CarRepository
	bookings   BookingRepository
	tokens     TokenIssuer
	verifyCode string
}

func NewService(customers CustomerRepository, cars CarRepository, bookings BookingRepository, tokens TokenIssuer, verifyCode string) *Service {
	return &Service{
		customers:  customers,
		cars:       cars,
		bookings:   bookings,
		tokens:     tokens,
		verifyCode: verifyCode,
	}
}

// -------------------- Auth --------------------

func (s *Service) Register(ctx context.Context, req registerRequest) (domain.Customer, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("hash password: %w", err)
	}

	c, err := s.customers.Create(ctx, domain.Customer{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       req.Email,
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Address:     strings.TrimSpace(req.Address),
		Role:        domain.RoleUser,
	}, string(hash), s.verifyCode)
	if errors.Is(err, repository.ErrDuplicate) {
		return domain.Customer{}, ErrEmailTaken
	}
	if err != nil {
		return domain.Customer{}, err
	}

	// There is no mailer; the code is logged for local use.
	log.Info().Str("email", c.Email).Str("code", s.verifyCode).Msg("verification code issued")
	return c, nil
}

func (s *Service) Verify(ctx context.Context, req verifyRequest) (domain.Customer, error) {
	creds, err := s.customers.GetCredentials(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Customer{}, ErrInvalidCode
	}
	if err != nil {
		return domain.Customer{}, err
	}
	if creds.Customer.IsVerified {
		return creds.Customer, nil
	}
	if creds.VerifyCode == "" || creds.VerifyCode != strings.TrimSpace(req.Code) {
		return domain.Customer{}, ErrInvalidCode
	}
	if err := s.customers.MarkVerified(ctx, creds.Customer.CustomerID); err != nil {
		return domain.Customer{}, err
	}
	creds.Customer.IsVerified = true
	return creds.Customer, nil
}

func (s *Service) Login(ctx context.Context, req loginRequest) (loginResponse, error) {
	creds, err := s.customers.GetCredentials(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return loginResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return loginResponse{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(req.Password)) != nil {
		return loginResponse{}, ErrInvalidCredentials
	}
	if !creds.Customer.IsVerified {
		return loginResponse{}, ErrNotVerified
	}

	c := creds.Customer
	token, err := s.tokens.GenerateToken(c.CustomerID, string(c.Role))
	if err != nil {
		return loginResponse{}, fmt.Errorf("issue token: %w", err)
	}
	return loginResponse{
		Token: token,
		User: loginUser{
			UserID:     c.CustomerID,
			FirstName:  c.FirstName,
			LastName:   c.LastName,
			Email:      c.Email,
			Role:       c.Role,
			IsVerified: c.IsVerified,
		},
	}, nil
}

// -------------------- Customers --------------------

func (s *Service) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.List(ctx)
}

func (s *Service) GetCustomer(ctx context.Context, caller Caller, id int64) (domain.Customer, error) {
	if !caller.may(id) {
		return domain.Customer{}, ErrForbidden
	}
	return s.customers.GetByID(ctx, id)
}

// UpdateCustomer lets a customer edit themselves; only admins change roles.
func (s *Service) UpdateCustomer(ctx context.Context, caller Caller, id int64, upd domain.CustomerUpdate) (domain.Customer, error) {
	if !caller.may(id) {
		return domain.Customer{}, ErrForbidden
	}
	if upd.Role != nil && (!caller.IsAdmin() || !upd.Role.Valid()) {
		return domain.Customer{}, ErrForbidden
	}
	return s.customers.Update(ctx, id, upd)
}

func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	return s.customers.Delete(ctx, id)
}

// -------------------- Cars --------------------

func (s *Service) ListCars(ctx context.Context) ([]domain.Car, error) {
	return s.cars.List(ctx)
}

func (s *Service) GetCar(ctx context.Context, id int64) (domain.Car, error) {
	return s.cars.GetByID(ctx, id)
}

func (s *Service) CreateCar(ctx context.Context, in domain.CarInput) (domain.Car, error) {
	return s.cars.Create(ctx, in)
}

func (s *Service) UpdateCar(ctx context.Context, id int64, in domain.CarInput) (domain.Car, error) {
	return s.cars.Update(ctx, id, in)
}

func (s *Service) DeleteCar(ctx context.Context, id int64) error {
	return s.cars.Delete(ctx, id)
}

// -------------------- Bookings --------------------

func (s *Service) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.List(ctx)
}

func (s *Service) GetBooking(ctx context.Context, caller Caller, id int64) (domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if !caller.may(b.CustomerID) {
		return domain.Booking{}, ErrForbidden
	}
	return b, nil
}

func (s *Service) ListCustomerBookings(ctx context.Context, caller Caller, customerID int64) ([]domain.Booking, error) {
	if !caller.may(customerID) {
		return nil, ErrForbidden
	}
	return s.bookings.ListByCustomer(ctx, customerID)
}

// parseStoredDate accepts only the stored YYYY-MM-DD form; overlap checks
// compare the strings directly.
func parseStoredDate(v string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, v)
	}
	return t, nil
}

func checkRange(start, end string) error {
	s, err := parseStoredDate(start)
	if err != nil {
		return err
	}
	e, err := parseStoredDate(end)
	if err != nil {
		return err
	}
	if !e.After(s) {
		return ErrInvalidDates
	}
	return nil
}

func (s *Service) CreateBooking(ctx context.Context, caller Caller, in domain.BookingInput) (domain.Booking, error) {
	if !caller.may(in.CustomerID) {
		return domain.Booking{}, ErrForbidden
	}
	if err := checkRange(in.RentalStartDate, in.RentalEndDate); err != nil {
		return domain.Booking{}, err
	}
	if _, err := s.cars.GetByID(ctx, in.CarID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Booking{}, ErrCarNotFound
		}
		return domain.Booking{}, err
	}

	busy, err := s.bookings.Overlaps(ctx, in.CarID, in.RentalStartDate, in.RentalEndDate, 0)
	if err != nil {
		return domain.Booking{}, err
	}
	if busy {
		return domain.Booking{}, ErrCarBooked
	}
	return s.bookings.Create(ctx, in)
}

func (s *Service) UpdateBooking(ctx context.Context, caller Caller, id int64, upd domain.BookingUpdate) (domain.Booking, error) {
	current, err := s.GetBooking(ctx, caller, id)
	if err != nil {
		return domain.Booking{}, err
	}

	start, end := current.RentalStartDate, current.RentalEndDate
	if upd.RentalStartDate != nil {
		start = *upd.RentalStartDate
	}
	if upd.RentalEndDate != nil {
		end = *upd.RentalEndDate
	}
	if err := checkRange(start, end); err != nil {
		return domain.Booking{}, err
	}

	busy, err := s.bookings.Overlaps(ctx, current.CarID, start, end, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if busy {
		return domain.Booking{}, ErrCarBooked
	}
	return s.bookings.Update(ctx, id, upd)
}

func (s *Service) DeleteBooking(ctx context.Context, caller Caller, id int64) error {
	if _, err := s.GetBooking(ctx, caller, id); err != nil {
		return err
	}
	return s.bookings.Delete(ctx, id)
}
