package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"rentcar/internal/config"
	"rentcar/internal/database"
	"rentcar/internal/devapi"
	"rentcar/internal/domain"
	"rentcar/internal/pkg/logger"
	"rentcar/internal/repository"
)

var demoNames = [][2]string{
	{"Amina", "Otieno"},
	{"Brian", "Kamau"},
	{"Cynthia", "Wanjiru"},
	{"David", "Mutua"},
	{"Esther", "Njeri"},
}

// Seeds the devapi database: the bootstrap admin and fleet, and with -demo
// a few verified customers with bookings spread over the past months.
func main() {
	demo := flag.Bool("demo", false, "also create demo customers and bookings")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadDevAPIConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("DB connection failed")
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	ctx := context.Background()
	customers := repository.NewCustomerRepository(db)
	cars := repository.NewCarRepository(db)
	bookings := repository.NewBookingRepository(db)

	if err := devapi.Seed(ctx, customers, cars, devapi.SeedOptions{AdminEmail: cfg.AdminEmail, AdminPassword: cfg.AdminPassword}); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	if !*demo {
		return
	}

	n, err := seedDemo(ctx, customers, cars, bookings, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		log.Fatal().Err(err).Msg("demo seed failed")
	}
	log.Info().Int("bookings", n).Msg("demo data created")
}

func seedDemo(ctx context.Context, customers *repository.CustomerRepository, cars *repository.CarRepository, bookings *repository.BookingRepository, rnd *rand.Rand) (int, error) {
	fleet, err := cars.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(fleet) == 0 {
		return 0, fmt.Errorf("no cars to book")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	today := domain.Today(time.Now())
	created := 0
	for i, name := range demoNames {
		email := fmt.Sprintf("demo%d@rentcar.local", i+1)
		c, err := customers.Create(ctx, domain.Customer{
			FirstName:   name[0],
			LastName:    name[1],
			Email:       email,
			PhoneNumber: fmt.Sprintf("07001000%02d", i+1),
			Role:        domain.RoleUser,
			IsVerified:  true,
		}, string(hash), "")
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				log.Info().Str("email", email).Msg("demo customer exists, skipping")
				continue
			}
			return created, fmt.Errorf("create customer %s: %w", email, err)
		}

		for j := 0; j < 3; j++ {
			car := fleet[rnd.Intn(len(fleet))]
			start := today.AddDate(0, 0, rnd.Intn(300)-240)
			end := start.AddDate(0, 0, 1+rnd.Intn(10))

			busy, err := bookings.Overlaps(ctx, car.CarID, domain.FormatDate(start), domain.FormatDate(end), 0)
			if err != nil {
				return created, err
			}
			if busy {
				continue
			}
			q, err := domain.QuoteRental(start, end, car.RentalRate)
			if err != nil {
				return created, err
			}
			if _, err := bookings.Create(ctx, domain.BookingInput{
				CarID:           car.CarID,
				CustomerID:      c.CustomerID,
				RentalStartDate: domain.FormatDate(start),
				RentalEndDate:   domain.FormatDate(end),
				TotalAmount:     q.AmountString(),
			}); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}
