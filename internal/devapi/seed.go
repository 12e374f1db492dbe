package devapi

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"rentcar/internal/domain"
)

// SeedOptions names the bootstrap admin.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
}

var seedCars = []domain.CarInput{
	{CarModel: "Toyota Corolla", Year: "2020", Color: "White", RentalRate: "45.00", LocationID: ptr(int64(1))},
	{CarModel: "Honda CR-V", Year: "2021", Color: "Silver", RentalRate: "70.00", LocationID: ptr(int64(2))},
	{CarModel: "Subaru Forester", Year: "2019", Color: "Blue", RentalRate: "65.50", LocationID: ptr(int64(3))},
	{CarModel: "Mercedes C-Class", Year: "2022", Color: "Black", RentalRate: "120.00", LocationID: ptr(int64(4))},
}

func ptr[T any](v T) *T { return &v }

// Seed creates a verified admin when there are no customers and a starter
// fleet when there are no cars. It is a no-op on a populated database.
func Seed(ctx context.Context, customers CustomerRepository, cars CarRepository, opts SeedOptions) error {
	n, err := customers.Count(ctx)
	if err != nil {
		return fmt.Errorf("count customers: %w", err)
	}
	if n == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		admin, err := customers.Create(ctx, domain.Customer{
			FirstName:  "Fleet",
			LastName:   "Admin",
			Email:      opts.AdminEmail,
			Role:       domain.RoleAdmin,
			IsVerified: true,
		}, string(hash), "")
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		log.Info().Str("email", admin.Email).Msg("seeded admin")
	}

	n, err = cars.Count(ctx)
	if err != nil {
		return fmt.Errorf("count cars: %w", err)
	}
	if n == 0 {
		for _, in := range seedCars {
			if _, err := cars.Create(ctx, in); err != nil {
				return fmt.Errorf("create car %s: %w", in.CarModel, err)
			}
		}
		log.Info().Int("cars", len(seedCars)).Msg("seeded fleet")
	}
	return nil
}
