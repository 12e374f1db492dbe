package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentcar/internal/database"
	"rentcar/internal/devapi"
	"rentcar/internal/domain"
	"rentcar/internal/gateway"
	"rentcar/internal/middleware"
	"rentcar/internal/modules/realtime"
	"rentcar/internal/session"
	"rentcar/internal/workspace"
)

const verifyCode = "123456"

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success      bool            `json:"success"`
	Data         json.RawMessage `json:"data"`
	Notification string          `json:"notification"`
	Error        struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

// newServer starts the REST stand-in and the web app in front of it.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	name := strings.NewReplacer("/", "_").Replace(t.Name())

	backendDB, err := database.Connect(database.MemoryDSN("app_backend_" + name))
	require.NoError(t, err)
	backendRouter, err := devapi.NewRouter(context.Background(), backendDB, devapi.Options{
		JWTSecret:  "test-secret",
		JWTTTL:     time.Hour,
		VerifyCode: verifyCode,
		Seed:       true,
		SeedAdmin:  devapi.SeedOptions{AdminEmail: "admin@rentcar.local", AdminPassword: "admin123"},
	})
	require.NoError(t, err)
	backend := httptest.NewServer(backendRouter)
	t.Cleanup(backend.Close)

	sessionDB, err := database.Connect(database.MemoryDSN("app_sessions_" + name))
	require.NoError(t, err)
	persister := session.NewGormPersister(sessionDB)
	require.NoError(t, persister.Migrate())

	registry := workspace.NewRegistry(
		gateway.NewTransport(backend.URL, backend.Client(), nil),
		persister,
		workspace.Options{RequestTimeout: 5 * time.Second},
	)
	t.Cleanup(registry.Stop)
	hub := realtime.NewHub(time.Minute)
	t.Cleanup(hub.Close)

	router := NewRouter(registry, hub, nil, RouterOptions{
		Cookie: middleware.CookieOptions{Name: "rentcar_sid", SameSite: http.SameSiteLaxMode, MaxAge: time.Hour},
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// browser is one cookie jar against the web app.
type browser struct {
	t    *testing.T
	base string
	http *http.Client
}

func newBrowser(t *testing.T, srv *httptest.Server) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, base: srv.URL, http: &http.Client{Jar: jar, Timeout: 10 * time.Second}}
}

func (b *browser) do(method, path string, body any) (int, envelope) {
	b.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(b.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, b.base+path, &buf)
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.http.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(b.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (b *browser) ok(method, path string, body any, want int) envelope {
	b.t.Helper()
	status, env := b.do(method, path, body)
	require.Equal(b.t, want, status, "%s %s: %+v", method, path, env.Error)
	return env
}

func data[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func (b *browser) signUpAndLogin(email string) {
	b.t.Helper()
	b.ok(http.MethodPost, "/api/auth/register", map[string]string{
		"firstName": "Jane", "lastName": "Doe", "email": email, "phoneNumber": "0712345678",
		"password": "secret1", "confirmPassword": "secret1",
	}, http.StatusCreated)
	b.ok(http.MethodPost, "/api/auth/verify", map[string]string{"email": email, "code": verifyCode}, http.StatusOK)
	b.login(email, "secret1")
}

func (b *browser) login(email, password string) {
	b.t.Helper()
	env := b.ok(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, http.StatusOK)
	assert.Equal(b.t, "Login successful!", env.Notification)
}

func TestHealthz(t *testing.T) {
	srv := newServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBookingJourney(t *testing.T) {
	srv := newServer(t)
	jane := newBrowser(t, srv)

	sess := data[map[string]any](t, jane.ok(http.MethodGet, "/api/session", nil, http.StatusOK))
	assert.Equal(t, false, sess["authenticated"])

	status, env := jane.do(http.MethodGet, "/api/user/bookings", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	jane.signUpAndLogin("jane@example.com")

	sess = data[map[string]any](t, jane.ok(http.MethodGet, "/api/session", nil, http.StatusOK))
	assert.Equal(t, true, sess["authenticated"])
	assert.Equal(t, "/user/dashboard/cars", sess["landing"])

	today := domain.Today(time.Now())
	start := domain.FormatDate(today.AddDate(0, 0, 2))
	end := domain.FormatDate(today.AddDate(0, 0, 5))

	status, env = jane.do(http.MethodPost, "/api/booking/next", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Pickup date is required", env.Error.Details["rentalStartDate"])

	jane.ok(http.MethodPatch, "/api/booking", map[string]string{"rentalStartDate": start, "rentalEndDate": end}, http.StatusOK)
	jane.ok(http.MethodPost, "/api/booking/next", nil, http.StatusOK)

	options := data[[]map[string]any](t, jane.ok(http.MethodGet, "/api/booking/cars", nil, http.StatusOK))
	require.NotEmpty(t, options)
	assert.Equal(t, "135.00", options[0]["estimatedTotal"])

	view := data[map[string]any](t, jane.ok(http.MethodPost, "/api/booking/car", map[string]int64{"carID": 1}, http.StatusOK))
	assert.Equal(t, "135.00", view["quote"].(map[string]any)["totalAmount"])
	jane.ok(http.MethodPost, "/api/booking/next", nil, http.StatusOK)

	jane.ok(http.MethodPatch, "/api/booking", map[string]string{
		"firstName": "Jane", "lastName": "Doe", "email": "jane@example.com",
		"phoneNumber": "0712345678", "address": "Kenyatta Avenue",
	}, http.StatusOK)
	jane.ok(http.MethodPost, "/api/booking/next", nil, http.StatusOK)

	env = jane.ok(http.MethodPost, "/api/booking/submit", nil, http.StatusCreated)
	assert.Equal(t, "Booking submitted successfully", env.Notification)

	list := data[struct {
		Bookings []struct {
			BookingID   int64  `json:"bookingID"`
			TotalAmount string `json:"totalAmount"`
			Status      string `json:"status"`
		} `json:"bookings"`
		Summary struct {
			Total    int    `json:"total"`
			Upcoming int    `json:"upcoming"`
			Spent    string `json:"spent"`
		} `json:"summary"`
	}](t, jane.ok(http.MethodGet, "/api/user/bookings", nil, http.StatusOK))
	require.Len(t, list.Bookings, 1)
	assert.Equal(t, "135.00", list.Bookings[0].TotalAmount)
	assert.Equal(t, "upcoming", list.Bookings[0].Status)
	assert.Equal(t, 1, list.Summary.Upcoming)
	assert.Equal(t, "135.00", list.Summary.Spent)

	// A second customer cannot take the same car for overlapping dates.
	bob := newBrowser(t, srv)
	bob.signUpAndLogin("bob@example.com")
	bob.ok(http.MethodPatch, "/api/booking", map[string]string{"rentalStartDate": start, "rentalEndDate": end}, http.StatusOK)
	bob.ok(http.MethodPost, "/api/booking/next", nil, http.StatusOK)
	bob.ok(http.MethodPost, "/api/booking/car", map[string]int64{"carID": 1}, http.StatusOK)
	bob.ok(http.MethodPost, "/api/booking/next", nil, http.StatusOK)
	bob.ok(http.MethodPatch, "/api/booking", map[string]string{
		"firstName": "Bob", "lastName": "Roe", "email": "bob@example.com",
		"phoneNumber": "0712345679", "address": "Westlands",
	}, http.StatusOK)
	bob.ok(http.MethodPost, "/api/booking/next", nil, http.StatusOK)
	status, env = bob.do(http.MethodPost, "/api/booking/submit", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	bookingID := list.Bookings[0].BookingID
	env = jane.ok(http.MethodPut, fmt.Sprintf("/api/user/bookings/%d/extend", bookingID), map[string]int{"days": 2}, http.StatusOK)
	assert.Equal(t, "Rental end date extended by 2 days!", env.Notification)
	extended := data[map[string]any](t, env)
	assert.Equal(t, domain.FormatDate(today.AddDate(0, 0, 7)), extended["rentalEndDate"])
	assert.Equal(t, "225.00", extended["totalAmount"])

	status, _ = bob.do(http.MethodDelete, fmt.Sprintf("/api/user/bookings/%d", bookingID), nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = jane.do(http.MethodGet, "/api/admin/users", nil)
	assert.Equal(t, http.StatusForbidden, status)

	admin := newBrowser(t, srv)
	admin.login("admin@rentcar.local", "admin123")
	users := data[struct {
		Users []domain.Customer `json:"users"`
		Total int               `json:"total"`
	}](t, admin.ok(http.MethodGet, "/api/admin/users?role=user", nil, http.StatusOK))
	assert.Equal(t, 2, users.Total)

	all := data[struct {
		Bookings []json.RawMessage `json:"bookings"`
	}](t, admin.ok(http.MethodGet, "/api/admin/bookings", nil, http.StatusOK))
	assert.Len(t, all.Bookings, 1)

	jane.ok(http.MethodDelete, fmt.Sprintf("/api/user/bookings/%d", bookingID), nil, http.StatusOK)
	jane.ok(http.MethodPost, "/api/auth/logout", nil, http.StatusOK)
	status, _ = jane.do(http.MethodGet, "/api/user/bookings", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLogoutClearsBookingForm(t *testing.T) {
	srv := newServer(t)
	jane := newBrowser(t, srv)
	jane.signUpAndLogin("jane@example.com")

	jane.ok(http.MethodPatch, "/api/booking", map[string]string{
		"firstName": "Jane", "lastName": "Doe", "email": "jane@example.com",
		"phoneNumber": "0712345678", "address": "Secret St 1",
	}, http.StatusOK)
	jane.ok(http.MethodPost, "/api/auth/logout", nil, http.StatusOK)

	view := data[struct {
		Form map[string]any `json:"form"`
	}](t, jane.ok(http.MethodGet, "/api/booking", nil, http.StatusOK))
	assert.Empty(t, view.Form["firstName"])
	assert.Empty(t, view.Form["email"])
	assert.Empty(t, view.Form["phoneNumber"])
	assert.Empty(t, view.Form["address"])
}

func TestCORSPreflight(t *testing.T) {
	registry := workspace.NewRegistry(gateway.NewTransport("http://backend.invalid", nil, nil), nil, workspace.Options{})
	t.Cleanup(registry.Stop)
	hub := realtime.NewHub(time.Minute)
	t.Cleanup(hub.Close)

	router := NewRouter(registry, hub, nil, RouterOptions{
		Cookie:         middleware.CookieOptions{Name: "rentcar_sid", SameSite: http.SameSiteLaxMode, MaxAge: time.Hour},
		AllowedOrigins: []string{"http://localhost:5173"},
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/session", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
