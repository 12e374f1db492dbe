package devapi

import (
	"context"

	"rentcar/internal/domain"
	"rentcar/internal/repository"
)

type CustomerRepository interface {
	Create(ctx context.Context, c domain.Customer, passwordHash, verifyCode string) (domain.Customer, error)
	GetByID(ctx context.Context, id int64) (domain.Customer, error)
	GetCredentials(ctx context.Context, email string) (repository.Credentials, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Update(ctx context.Context, id int64, upd domain.CustomerUpdate) (domain.Customer, error)
	MarkVerified(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type CarRepository interface {
	Create(ctx context.Context, in domain.CarInput) (domain.Car, error)
	GetByID(ctx context.Context, id int64) (domain.Car, error)
	List(ctx context.Context) ([]domain.Car, error)
	Update(ctx context.Context, id int64, in domain.CarInput) (domain.Car, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type BookingRepository interface {
	Create(ctx context.Context, in domain.BookingInput) (domain.Booking, error)
	GetByID(ctx context.Context, id int64) (domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error)
	Overlaps(ctx context.Context, carID int64, start, end string, exceptID int64) (bool, error)
	Update(ctx context.Context, id int64, upd domain.BookingUpdate) (domain.Booking, error)
	Delete(ctx context.Context, id int64) error
}

type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}
