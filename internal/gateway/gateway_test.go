package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentcar/internal/domain"
)

// fakeBackend serves a tiny bookings store and records request headers.
type fakeBackend struct {
	mu       sync.Mutex
	bookings []domain.Booking
	auth     []string
	ctype    []string
	listHits atomic.Int32
	carHits  atomic.Int32
	failNext atomic.Bool
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	record := func(r *http.Request) {
		f.mu.Lock()
		f.auth = append(f.auth, r.Header.Get("Authorization"))
		f.ctype = append(f.ctype, r.Header.Get("Content-Type"))
		f.mu.Unlock()
	}
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("/bookings/customer/", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		f.listHits.Add(1)
		f.mu.Lock()
		out := append([]domain.Booking(nil), f.bookings...)
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"data": out})
	})
	mux.HandleFunc("/booking/", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if f.failNext.Swap(false) {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "boom"})
			return
		}
		if r.Method != http.MethodDelete {
			writeJSON(w, http.StatusMethodNotAllowed, nil)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/booking/")
		f.mu.Lock()
		kept := f.bookings[:0]
		for _, b := range f.bookings {
			if id != jsonInt(b.BookingID) {
				kept = append(kept, b)
			}
		}
		f.bookings = kept
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": 7})
	})
	mux.HandleFunc("/cars", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		f.carHits.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{"data": []domain.Car{{CarID: 1, CarModel: "Corolla", RentalRate: "45.00", Availability: true}}})
	})
	mux.HandleFunc("/customers", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": map[string]string{"message": "token expired"}})
	})
	mux.HandleFunc("/car/99", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "car not found"})
	})
	return mux
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func newTestAPI(t *testing.T, f *fakeBackend, token *atomic.Value) *API {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	tokens := TokenFunc(func() string {
		if token == nil {
			return ""
		}
		s, _ := token.Load().(string)
		return s
	})
	cache := NewCache(2 * time.Second)
	t.Cleanup(cache.Close)
	return New(NewTransport(srv.URL, srv.Client(), tokens), cache)
}

func TestTransport_TokenReadAtCallTime(t *testing.T) {
	f := &fakeBackend{}
	var token atomic.Value
	token.Store("")
	api := newTestAPI(t, f, &token)
	ctx := context.Background()

	_, err := api.Cars.GetCars(ctx, QueryOptions{})
	require.NoError(t, err)

	token.Store("abc")
	_, err = api.Cars.GetCars(ctx, QueryOptions{RefetchOnMount: true})
	require.NoError(t, err)

	f.mu.Lock()
	defer f.mu.Unlock()
	require.Len(t, f.auth, 2)
	assert.Equal(t, "", f.auth[0], "no token means no header")
	assert.Equal(t, "Bearer abc", f.auth[1])
	for _, ct := range f.ctype {
		assert.Equal(t, "application/json", ct)
	}
}

func TestCache_ServesFreshValueWithoutNetwork(t *testing.T) {
	f := &fakeBackend{}
	api := newTestAPI(t, f, nil)
	ctx := context.Background()

	cars, err := api.Cars.GetCars(ctx, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, "45.00", cars[0].RentalRate)

	_, err = api.Cars.GetCars(ctx, QueryOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.carHits.Load())

	_, err = api.Cars.GetCars(ctx, QueryOptions{RefetchOnMount: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, f.carHits.Load())
}

func TestDeleteBooking_InvalidatesAndRefetchesSubscribedList(t *testing.T) {
	f := &fakeBackend{bookings: []domain.Booking{
		{BookingID: 7, CarID: 1, CustomerID: 3, RentalStartDate: "2025-06-10", RentalEndDate: "2025-06-13", TotalAmount: "135.00"},
		{BookingID: 8, CarID: 2, CustomerID: 3, RentalStartDate: "2025-07-01", RentalEndDate: "2025-07-02", TotalAmount: "45.00"},
	}}
	api := newTestAPI(t, f, nil)
	ctx := context.Background()

	sub := api.Bookings.SubscribeCustomerBookings(3)
	defer sub.Unsubscribe()

	list, err := api.Bookings.GetBookingsByCustomerID(ctx, 3, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, list, 2)

	refetched := make(chan Event, 4)
	cancel := api.Cache.OnEvent(func(ev Event) {
		if ev.Type == EventRefetched {
			refetched <- ev
		}
	})
	defer cancel()

	ack, err := api.Bookings.DeleteBooking(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ack.Success)

	select {
	case ev := <-refetched:
		assert.Equal(t, sub.Key(), ev.Key)
	case <-time.After(2 * time.Second):
		t.Fatal("subscribed list was not refetched")
	}

	v, ok := api.Cache.Peek(sub.Key())
	require.True(t, ok)
	after := v.([]domain.Booking)
	require.Len(t, after, 1)
	assert.EqualValues(t, 8, after[0].BookingID)
}

func TestMutation_InvalidatesOnlyItsTag(t *testing.T) {
	f := &fakeBackend{bookings: []domain.Booking{{BookingID: 7}}}
	api := newTestAPI(t, f, nil)
	ctx := context.Background()

	_, err := api.Cars.GetCars(ctx, QueryOptions{})
	require.NoError(t, err)
	_, err = api.Bookings.GetBookingsByCustomerID(ctx, 3, QueryOptions{})
	require.NoError(t, err)

	_, err = api.Bookings.DeleteBooking(ctx, 7)
	require.NoError(t, err)

	assert.True(t, api.Cache.IsStale(Key("getBookingsByCustomerId", int64(3))))
	assert.False(t, api.Cache.IsStale(Key("getCars", nil)))
}

func TestMutation_FailureLeavesCacheUntouched(t *testing.T) {
	f := &fakeBackend{bookings: []domain.Booking{{BookingID: 7}}}
	api := newTestAPI(t, f, nil)
	ctx := context.Background()

	_, err := api.Bookings.GetBookingsByCustomerID(ctx, 3, QueryOptions{})
	require.NoError(t, err)

	f.failNext.Store(true)
	_, err = api.Bookings.DeleteBooking(ctx, 7)
	require.Error(t, err)
	assert.Equal(t, "boom", MessageOf(err))
	assert.False(t, api.Cache.IsStale(Key("getBookingsByCustomerId", int64(3))))
}

func TestAPIError_Classification(t *testing.T) {
	f := &fakeBackend{}
	api := newTestAPI(t, f, nil)
	ctx := context.Background()

	_, err := api.Users.GetUsers(ctx, QueryOptions{})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "token expired", MessageOf(err))

	_, err = api.Cars.GetCarByID(ctx, 99, QueryOptions{})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "car not found", MessageOf(err))
}

func TestTransport_Unreachable(t *testing.T) {
	tr := NewTransport("http://127.0.0.1:1", &http.Client{Timeout: time.Second}, nil)
	err := tr.Do(context.Background(), http.MethodGet, "/cars", nil, nil)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestSubscription_Polls(t *testing.T) {
	f := &fakeBackend{}
	api := newTestAPI(t, f, nil)

	sub := api.Cars.SubscribeCars(20 * time.Millisecond)
	assert.Eventually(t, func() bool { return f.carHits.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	sub.Unsubscribe()
	sub.Unsubscribe()

	time.Sleep(50 * time.Millisecond)
	hits := f.carHits.Load()
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, hits, f.carHits.Load(), "polling stops after unsubscribe")
}

func TestKey(t *testing.T) {
	assert.Equal(t, "getCars()", Key("getCars", nil))
	assert.Equal(t, "getBookingsByCustomerId(3)", Key("getBookingsByCustomerId", int64(3)))
}

func TestLoginUser_Profile(t *testing.T) {
	u := LoginUser{UserID: 4, FirstName: "Ann", LastName: "Wanjiru", Email: "ann@example.com", Role: domain.RoleUser, IsVerified: true}
	p := u.Profile()
	assert.EqualValues(t, 4, p.CustomerID)
	assert.Equal(t, domain.RoleUser, p.Role)
	assert.True(t, p.IsVerified)
}
