package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"rentcar/internal/config"
	"rentcar/internal/database"
	"rentcar/internal/domain"
	"rentcar/internal/gateway"
	"rentcar/internal/middleware"
	"rentcar/internal/modules/admin"
	"rentcar/internal/modules/auth"
	"rentcar/internal/modules/booking"
	"rentcar/internal/modules/catalog"
	"rentcar/internal/modules/dashboard"
	"rentcar/internal/modules/profile"
	"rentcar/internal/modules/realtime"
	"rentcar/internal/modules/reservation"
	"rentcar/internal/pkg/logger"
	"rentcar/internal/session"
	"rentcar/internal/workspace"
)

const shutdownTimeout = 10 * time.Second

// App is the web application: the workspace registry, the realtime hub and
// the HTTP router over them.
type App struct {
	cfg      *config.Config
	db       *gorm.DB
	registry *workspace.Registry
	hub      *realtime.Hub
	router   *gin.Engine
}

// New opens session storage and wires every module. httpClient may be nil.
func New(cfg *config.Config, httpClient *http.Client) (*App, error) {
	locations, err := config.LoadLocations(cfg.LocationsFile)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg.SessionDSN)
	if err != nil {
		return nil, fmt.Errorf("open session storage: %w", err)
	}
	persister := session.NewGormPersister(db)
	if err := persister.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate session storage: %w", err)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}
	registry := workspace.NewRegistry(
		gateway.NewTransport(cfg.APIOrigin, httpClient, nil),
		persister,
		workspace.Options{
			RequestTimeout:   cfg.RequestTimeout,
			IdleTTL:          cfg.WorkspaceIdleTTL,
			SessionRetention: cfg.SessionRetention,
			SweepSchedule:    cfg.SweepSchedule,
			Locations:        locations,
		},
	)
	hub := realtime.NewHub(cfg.FleetPollInterval)

	a := &App{
		cfg:      cfg,
		db:       db,
		registry: registry,
		hub:      hub,
	}
	a.router = NewRouter(registry, hub, locations, RouterOptions{
		Cookie: middleware.CookieOptions{
			Name:     cfg.CookieName,
			Secure:   cfg.CookieSecure,
			SameSite: middleware.ParseSameSite(cfg.CookieSameSite),
			MaxAge:   cfg.SessionRetention,
		},
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	return a, nil
}

func (a *App) Handler() http.Handler { return a.router }

// RouterOptions are the HTTP-facing knobs of NewRouter.
type RouterOptions struct {
	Cookie         middleware.CookieOptions
	AllowedOrigins []string
}

// NewRouter mounts the /api surface. Every /api request runs inside the
// caller's workspace; the user and admin groups add the role guard.
func NewRouter(registry *workspace.Registry, hub *realtime.Hub, locations []domain.Location, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorLogger(), logger.GinLogger())
	if len(opts.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(opts.AllowedOrigins))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "workspaces": registry.Len(), "sockets": hub.Len()})
	})

	api := r.Group("/api", middleware.Workspace(registry, opts.Cookie))
	user := api.Group("/user", middleware.RequireSession(domain.RoleUser))
	adminGroup := api.Group("/admin", middleware.RequireSession(domain.RoleAdmin))

	auth.NewHandler().RegisterRoutes(api)
	booking.NewHandler(locations).RegisterRoutes(api)
	catalog.NewHandler(locations).RegisterRoutes(user, adminGroup)
	reservation.NewHandler().RegisterRoutes(user, adminGroup)
	profile.NewHandler().RegisterRoutes(user, adminGroup)
	dashboard.NewHandler().RegisterRoutes(user, adminGroup)
	admin.NewHandler().RegisterRoutes(adminGroup)
	realtime.NewHandler(hub, opts.AllowedOrigins).RegisterRoutes(api)

	return r
}

// Run serves until ctx is canceled, then drains HTTP, closes sockets and
// stops the workspace sweep.
func (a *App) Run(ctx context.Context) error {
	if err := a.registry.Start(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           a.router,
		ReadHeaderTimeout: 20 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", a.cfg.HTTPAddr).Str("api_origin", a.cfg.APIOrigin).Msg("web server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown.
	a.hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to stop http server")
	}
	a.registry.Stop()

	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	if serveErr != nil {
		return fmt.Errorf("http server: %w", serveErr)
	}
	log.Info().Msg("web server stopped gracefully")
	return nil
}
