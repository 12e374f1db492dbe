package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"rentcar/internal/domain"
)

// PersistKey is the storage key of a namespace, "persist:root" for the default one.
func PersistKey(namespace string) string {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return "persist:" + namespace
}

const (
	DefaultNamespace = "root"
	persistVersion   = 1
)

// Persister stores the session blob of one namespace.
type Persister interface {
	Load(ctx context.Context, key string) (blob []byte, version int, err error)
	Save(ctx context.Context, key string, blob []byte, version int) error
	Delete(ctx context.Context, key string) error
}

var (
	// ErrNotPersisted is returned by Persister.Load when nothing is stored.
	ErrNotPersisted = errors.New("no persisted session")
	// ErrSessionChanged means the login a caller started from is gone.
	ErrSessionChanged = errors.New("session changed")
)

// Listener is told about every state change.
type Listener func(State)

// Store holds the session of one client. Reads are safe from any goroutine;
// writes go through LoginSuccess, RefreshUser and Logout only.
type Store struct {
	// wmu serialises transitions together with their listeners and
	// persistence, so a logout cannot be overtaken by an older save.
	wmu sync.Mutex

	mu        sync.RWMutex
	state     State
	key       string
	persister Persister
	listeners map[int]Listener
	nextID    int
}

// Open rehydrates the namespace before returning, so the first read already
// sees a persisted login.
func Open(ctx context.Context, p Persister, namespace string) (*Store, error) {
	s := &Store{key: PersistKey(namespace), persister: p, listeners: make(map[int]Listener)}
	if p == nil {
		return s, nil
	}

	blob, version, err := p.Load(ctx, s.key)
	switch {
	case errors.Is(err, ErrNotPersisted):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("rehydrate session: %w", err)
	}

	state, err := decode(blob, version)
	if err != nil {
		// A blob we cannot read is dropped rather than blocking the client.
		_ = p.Delete(ctx, s.key)
		return s, nil
	}
	s.state = state
	return s, nil
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token is read by the gateways on every request.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.TokenValue()
}

func (s *Store) User() *domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

// Subscribe registers l and returns its cancel func. Listeners run after
// the state changed, one transition at a time, and must not dispatch.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) LoginSuccess(ctx context.Context, token string, user domain.Profile) error {
	return s.dispatch(ctx, func(State) (Action, error) {
		return LoginSuccess{Token: token, User: user}, nil
	})
}

// RefreshUser replaces the profile of the login identified by token. It
// returns ErrSessionChanged when that login has since ended or been
// replaced, leaving the state alone.
func (s *Store) RefreshUser(ctx context.Context, token string, user domain.Profile) error {
	return s.dispatch(ctx, func(cur State) (Action, error) {
		if !cur.Authenticated() || cur.TokenValue() != token {
			return nil, ErrSessionChanged
		}
		return LoginSuccess{Token: token, User: user}, nil
	})
}

// Logout clears the state and removes the persisted blob.
func (s *Store) Logout(ctx context.Context) error {
	return s.dispatch(ctx, func(State) (Action, error) {
		return Logout{}, nil
	})
}

// dispatch picks an action against the current state and applies it.
func (s *Store) dispatch(ctx context.Context, pick func(State) (Action, error)) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	s.mu.Lock()
	a, err := pick(s.state)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	next := Reduce(s.state, a)
	s.state = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}

	if s.persister == nil {
		return nil
	}
	if _, ok := a.(Logout); ok {
		if err := s.persister.Delete(ctx, s.key); err != nil {
			return fmt.Errorf("remove persisted session: %w", err)
		}
		return nil
	}
	blob, err := encode(next)
	if err != nil {
		return err
	}
	if err := s.persister.Save(ctx, s.key, blob, persistVersion); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}
