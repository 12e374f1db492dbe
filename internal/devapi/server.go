package devapi

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rentcar/internal/middleware"
	"rentcar/internal/pkg/jwt"
	"rentcar/internal/pkg/logger"
	"rentcar/internal/repository"
)

type Options struct {
	JWTSecret  string
	JWTTTL     time.Duration
	VerifyCode string
	Seed       bool
	SeedAdmin  SeedOptions
}

// NewRouter migrates db, optionally seeds it, and returns the REST engine.
func NewRouter(ctx context.Context, db *gorm.DB, opts Options) (*gin.Engine, error) {
	if err := repository.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	customers := repository.NewCustomerRepository(db)
	cars := repository.NewCarRepository(db)
	bookings := repository.NewBookingRepository(db)

	if opts.Seed {
		if err := Seed(ctx, customers, cars, opts.SeedAdmin); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	j := jwt.New(opts.JWTSecret, opts.JWTTTL)
	h := NewHandler(NewService(customers, cars, bookings, j, opts.VerifyCode))

	r := gin.New()
	r.Use(middleware.ErrorLogger(), logger.GinLogger())
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	h.RegisterRoutes(r, j)
	return r, nil
}
