package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Tag names an entity family; mutations invalidate by tag.
type Tag string

const (
	TagUsers    Tag = "Users"
	TagCars     Tag = "Cars"
	TagBookings Tag = "Bookings"
)

type EventType string

const (
	EventInvalidated   EventType = "invalidated"
	EventRefetched     EventType = "refetched"
	EventRefetchFailed EventType = "refetch_failed"
)

// Event is what the cache tells its listeners.
type Event struct {
	Type  EventType `json:"type"`
	Tags  []Tag     `json:"tags,omitempty"`
	Key   string    `json:"key,omitempty"`
	Error string    `json:"error,omitempty"`
	At    time.Time `json:"at"`
}

// QueryOptions tunes a single read.
type QueryOptions struct {
	// RefetchOnMount ignores a fresh cached value and goes to the network.
	RefetchOnMount bool
}

type fetchFunc func(ctx context.Context) (any, error)

type call struct {
	done chan struct{}
	data any
	err  error
}

type entry struct {
	key         string
	tags        []Tag
	fetch       fetchFunc
	data        any
	hasData     bool
	stale       bool
	generation  int
	fetchedAt   time.Time
	subscribers int
	inflight    *call
}

// Cache is the per-client query cache. Values handed out are shared and
// must be treated as read-only.
type Cache struct {
	mu        sync.Mutex
	entries   map[string]*entry
	byTag     map[Tag]map[string]struct{}
	listeners map[int]func(Event)
	nextID    int

	refetchTimeout time.Duration
	now            func() time.Time

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewCache(refetchTimeout time.Duration) *Cache {
	if refetchTimeout <= 0 {
		refetchTimeout = 15 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Cache{
		entries:        make(map[string]*entry),
		byTag:          make(map[Tag]map[string]struct{}),
		listeners:      make(map[int]func(Event)),
		refetchTimeout: refetchTimeout,
		now:            time.Now,
		baseCtx:        ctx,
		cancel:         cancel,
	}
}

// Key is the cache identity of one read: operation name plus its arguments.
func Key(op string, arg any) string {
	if arg == nil {
		return op + "()"
	}
	b, err := json.Marshal(arg)
	if err != nil {
		return op + "(?)"
	}
	return op + "(" + string(b) + ")"
}

// OnEvent registers a listener and returns its cancel func.
func (c *Cache) OnEvent(fn func(Event)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Cache) emit(ev Event) {
	ev.At = c.now().UTC()
	c.mu.Lock()
	fns := make([]func(Event), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// entryLocked finds or registers an entry. The latest fetch closure wins so
// refetches use the current arguments' closure.
func (c *Cache) entryLocked(key string, tags []Tag, fetch fetchFunc) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{key: key, tags: tags}
		c.entries[key] = e
		for _, t := range tags {
			keys, ok := c.byTag[t]
			if !ok {
				keys = make(map[string]struct{})
				c.byTag[t] = keys
			}
			keys[key] = struct{}{}
		}
	}
	if fetch != nil {
		e.fetch = fetch
	}
	return e
}

// Query returns the cached value for key, fetching when absent, stale or
// when RefetchOnMount is set. Concurrent fetches of one key are shared.
func (c *Cache) Query(ctx context.Context, key string, tags []Tag, fetch func(context.Context) (any, error), opts QueryOptions) (any, error) {
	c.mu.Lock()
	e := c.entryLocked(key, tags, fetch)
	if e.hasData && !e.stale && !opts.RefetchOnMount {
		data := e.data
		c.mu.Unlock()
		return data, nil
	}
	return c.fetchLocked(ctx, e)
}

// fetchLocked is entered with c.mu held and releases it.
func (c *Cache) fetchLocked(ctx context.Context, e *entry) (any, error) {
	if cl := e.inflight; cl != nil {
		c.mu.Unlock()
		select {
		case <-cl.done:
			return cl.data, cl.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	cl := &call{done: make(chan struct{})}
	e.inflight = cl
	gen := e.generation
	fetch := e.fetch
	c.mu.Unlock()

	cl.data, cl.err = fetch(ctx)

	c.mu.Lock()
	if cl.err == nil {
		e.data = cl.data
		e.hasData = true
		e.fetchedAt = c.now()
		// An invalidation that raced this fetch leaves the entry stale.
		e.stale = e.generation != gen
	}
	e.inflight = nil
	c.mu.Unlock()
	close(cl.done)

	return cl.data, cl.err
}

// Peek returns the cached value without fetching.
func (c *Cache) Peek(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || !e.hasData {
		return nil, false
	}
	return e.data, true
}

// IsStale reports whether key is cached but invalidated.
func (c *Cache) IsStale(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return ok && e.stale
}

// Invalidate marks every entry carrying one of tags stale and refetches the
// subscribed ones in the background.
func (c *Cache) Invalidate(tags ...Tag) {
	if len(tags) == 0 {
		return
	}

	c.mu.Lock()
	var refetch []string
	seen := make(map[string]bool)
	for _, t := range tags {
		for key := range c.byTag[t] {
			if seen[key] {
				continue
			}
			seen[key] = true
			e := c.entries[key]
			e.stale = true
			e.generation++
			if e.subscribers > 0 {
				refetch = append(refetch, key)
			}
		}
	}
	c.mu.Unlock()

	c.emit(Event{Type: EventInvalidated, Tags: tags})

	for _, key := range refetch {
		c.wg.Add(1)
		go func(key string) {
			defer c.wg.Done()
			c.refetch(key)
		}(key)
	}
}

// refetch reloads one entry on the cache's own context with the transport
// timeout; the caller's request may already be gone.
func (c *Cache) refetch(key string) {
	ctx, cancel := context.WithTimeout(c.baseCtx, c.refetchTimeout)
	defer cancel()

	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || e.fetch == nil {
		c.mu.Unlock()
		return
	}
	if e.inflight != nil {
		// Wait for the running fetch, then go again so the result reflects
		// the invalidation.
		cl := e.inflight
		c.mu.Unlock()
		select {
		case <-cl.done:
		case <-ctx.Done():
			return
		}
		c.mu.Lock()
	}

	_, err := c.fetchLocked(ctx, e)
	if err != nil {
		if c.baseCtx.Err() != nil {
			return
		}
		log.Warn().Err(err).Str("key", key).Msg("cache refetch failed")
		c.emit(Event{Type: EventRefetchFailed, Key: key, Tags: e.tags, Error: err.Error()})
		return
	}
	c.emit(Event{Type: EventRefetched, Key: key, Tags: e.tags})
}

// Subscription keeps an entry live: it is refetched after invalidation and,
// with a poll interval, on a timer.
type Subscription struct {
	cache *Cache
	key   string
	stop  chan struct{}
	once  sync.Once
}

// Subscribe registers interest in key. fetch is required so that a
// subscription made before the first read can still refetch.
func (c *Cache) Subscribe(key string, tags []Tag, fetch func(context.Context) (any, error), poll time.Duration) *Subscription {
	c.mu.Lock()
	e := c.entryLocked(key, tags, fetch)
	e.subscribers++
	c.mu.Unlock()

	sub := &Subscription{cache: c, key: key, stop: make(chan struct{})}
	if poll > 0 {
		c.wg.Add(1)
		go c.poll(sub, poll)
	}
	return sub
}

func (c *Cache) poll(sub *Subscription, every time.Duration) {
	defer c.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.refetch(sub.key)
		case <-sub.stop:
			return
		case <-c.baseCtx.Done():
			return
		}
	}
}

func (s *Subscription) Key() string { return s.key }

// Unsubscribe is idempotent.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		close(s.stop)
		s.cache.mu.Lock()
		if e, ok := s.cache.entries[s.key]; ok && e.subscribers > 0 {
			e.subscribers--
		}
		s.cache.mu.Unlock()
	})
}

// Close stops pollers and background refetches and waits for them.
func (c *Cache) Close() {
	c.cancel()
	c.wg.Wait()
}

// query is the typed face of Cache.Query.
func query[T any](ctx context.Context, c *Cache, key string, tags []Tag, opts QueryOptions, fetch func(context.Context) (T, error)) (T, error) {
	v, err := c.Query(ctx, key, tags, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}, opts)
	if err != nil {
		var zero T
		return zero, err
	}
	out, _ := v.(T)
	return out, nil
}

// subscribe is the typed face of Cache.Subscribe.
func subscribe[T any](c *Cache, key string, tags []Tag, poll time.Duration, fetch func(context.Context) (T, error)) *Subscription {
	return c.Subscribe(key, tags, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}, poll)
}

// mutate runs one write and, only on success, invalidates tags.
func mutate[T any](ctx context.Context, c *Cache, tags []Tag, do func(context.Context) (T, error)) (T, error) {
	out, err := do(ctx)
	if err != nil {
		return out, err
	}
	c.Invalidate(tags...)
	return out, nil
}
