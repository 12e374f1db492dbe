package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"rentcar/internal/domain"
	"rentcar/internal/gateway"
	"rentcar/internal/session"
	"rentcar/internal/wizard"
)

var ErrStopped = errors.New("workspace registry stopped")

// Pruner drops persisted sessions nobody has written for a while.
type Pruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Toucher records that persisted sessions are still in use, so retention
// counts from the last activity rather than from the login.
type Toucher interface {
	Touch(ctx context.Context, at time.Time, keys ...string) error
}

type Options struct {
	RequestTimeout   time.Duration
	IdleTTL          time.Duration
	SessionRetention time.Duration
	SweepSchedule    string
	Locations        []domain.Location
	Now              func() time.Time
}

// Registry owns every live client, keyed by the browser's cookie id.
type Registry struct {
	mu      sync.Mutex
	clients map[string]*Client
	stopped bool

	base      *gateway.Transport
	persister session.Persister
	opts      Options
	cron      *cron.Cron
}

func NewRegistry(base *gateway.Transport, persister session.Persister, opts Options) *Registry {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 2 * time.Hour
	}
	return &Registry{
		clients:   make(map[string]*Client),
		base:      base,
		persister: persister,
		opts:      opts,
	}
}

// NewID mints a fresh client id for a browser without a cookie.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one we minted.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Get returns the live client for id, rehydrating its session from storage
// the first time it is seen.
func (r *Registry) Get(ctx context.Context, id string) (*Client, error) {
	if !ValidID(id) {
		return nil, fmt.Errorf("invalid client id %q", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return nil, ErrStopped
	}
	if c, ok := r.clients[id]; ok {
		c.Touch(r.opts.Now())
		return c, nil
	}

	store, err := session.Open(ctx, r.persister, id)
	if err != nil {
		return nil, err
	}

	cache := gateway.NewCache(r.opts.RequestTimeout)
	c := &Client{
		ID:      id,
		Session: store,
		API:     gateway.New(r.base.WithTokens(store), cache),
		Wizard:  wizard.New(r.opts.Now, r.opts.Locations),
	}
	c.watchSession()
	c.Touch(r.opts.Now())
	r.clients[id] = c

	if store.State().Authenticated() {
		r.touchSessions(ctx, session.PersistKey(id))
	}

	log.Debug().Str("client_id", id).Bool("authenticated", store.State().Authenticated()).Msg("workspace opened")
	return c, nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Sweep evicts clients idle longer than IdleTTL and prunes session blobs
// past retention. The persisted session survives eviction.
func (r *Registry) Sweep(ctx context.Context) int {
	now := r.opts.Now()
	cutoff := now.Add(-r.opts.IdleTTL)

	r.mu.Lock()
	var (
		idle []*Client
		live []string
	)
	for id, c := range r.clients {
		if c.LastSeen().Before(cutoff) {
			idle = append(idle, c)
			delete(r.clients, id)
			continue
		}
		if c.Session.State().Authenticated() {
			live = append(live, session.PersistKey(id))
		}
	}
	r.mu.Unlock()

	for _, c := range idle {
		c.Close()
	}

	r.touchSessions(ctx, live...)

	if pruner, ok := r.persister.(Pruner); ok && r.opts.SessionRetention > 0 {
		n, err := pruner.DeleteOlderThan(ctx, now.Add(-r.opts.SessionRetention))
		if err != nil {
			log.Error().Err(err).Msg("failed to prune persisted sessions")
		} else if n > 0 {
			log.Info().Int64("count", n).Msg("pruned persisted sessions")
		}
	}

	if len(idle) > 0 {
		log.Info().Int("count", len(idle)).Msg("evicted idle workspaces")
	}
	return len(idle)
}

func (r *Registry) touchSessions(ctx context.Context, keys ...string) {
	toucher, ok := r.persister.(Toucher)
	if !ok || len(keys) == 0 {
		return
	}
	if err := toucher.Touch(ctx, r.opts.Now(), keys...); err != nil {
		log.Warn().Err(err).Int("count", len(keys)).Msg("failed to mark sessions in use")
	}
}

// Start runs the sweep on the configured cron schedule.
func (r *Registry) Start() error {
	schedule := r.opts.SweepSchedule
	if schedule == "" {
		schedule = "0 */5 * * * *"
	}

	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)
	if _, err := c.AddFunc(schedule, func() { r.Sweep(context.Background()) }); err != nil {
		return fmt.Errorf("register workspace sweep: %w", err)
	}

	r.mu.Lock()
	r.cron = c
	r.mu.Unlock()

	c.Start()
	log.Info().Str("schedule", schedule).Msg("workspace sweep started")
	return nil
}

// Stop halts the sweep and closes every client.
func (r *Registry) Stop() {
	r.mu.Lock()
	r.stopped = true
	c := r.cron
	clients := r.clients
	r.clients = make(map[string]*Client)
	r.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	for _, cl := range clients {
		cl.Close()
	}
}
