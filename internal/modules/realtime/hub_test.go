package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentcar/internal/domain"
	"rentcar/internal/gateway"
	"rentcar/internal/middleware"
	"rentcar/internal/workspace"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type env struct {
	reg           *workspace.Registry
	hub           *Hub
	server        *httptest.Server
	carReads      *atomic.Int32
	customerReads *atomic.Int32
}

func newEnv(t *testing.T, poll time.Duration) *env {
	t.Helper()

	var carReads, customerReads atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/cars":
			carReads.Add(1)
			_, _ = w.Write([]byte(`{"data":[{"carID":1,"carModel":"Toyota Corolla","rentalRate":"45.00","availability":true}]}`))
		case "/bookings/customer/1":
			customerReads.Add(1)
			_, _ = w.Write([]byte(`{"data":[]}`))
		default:
			_, _ = w.Write([]byte(`{"data":[]}`))
		}
	}))
	t.Cleanup(backend.Close)

	reg := workspace.NewRegistry(gateway.NewTransport(backend.URL, backend.Client(), nil), nil, workspace.Options{RequestTimeout: time.Second})
	t.Cleanup(reg.Stop)

	hub := NewHub(poll)
	t.Cleanup(hub.Close)

	router := gin.New()
	api := router.Group("/api", middleware.Workspace(reg, middleware.CookieOptions{Name: "sid", SameSite: http.SameSiteLaxMode, MaxAge: time.Hour}))
	NewHandler(hub, nil).RegisterRoutes(api)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &env{reg: reg, hub: hub, server: srv, carReads: &carReads, customerReads: &customerReads}
}

func (e *env) dial(t *testing.T, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/api/ws"
	header := http.Header{"Cookie": []string{"sid=" + id}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// next reads until a message of type typ arrives.
func next(t *testing.T, conn *websocket.Conn, typ string) ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg ServerMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		if msg.Type == typ {
			return msg
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, msg ClientMessage) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

func TestHub_FleetSubscribedOnConnect(t *testing.T) {
	e := newEnv(t, 0)
	conn := e.dial(t, workspace.NewID())

	msg := next(t, conn, TypeSubscribed)
	assert.Equal(t, QueryCars, msg.Query)
	assert.Equal(t, gateway.Key("getCars", nil), msg.Key)
	assert.Eventually(t, func() bool { return e.hub.Len() == 1 }, time.Second, 10*time.Millisecond)
}

func TestHub_InvalidationRefetchesAndPushesData(t *testing.T) {
	e := newEnv(t, 0)
	id := workspace.NewID()
	conn := e.dial(t, id)
	next(t, conn, TypeSubscribed)

	client, err := e.reg.Get(context.Background(), id)
	require.NoError(t, err)
	client.API.Cache.Invalidate(gateway.TagCars)

	inv := next(t, conn, string(gateway.EventInvalidated))
	assert.Equal(t, []gateway.Tag{gateway.TagCars}, inv.Tags)

	ref := next(t, conn, string(gateway.EventRefetched))
	assert.Equal(t, QueryCars, ref.Query)
	raw, err := json.Marshal(ref.Data)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Toyota Corolla")
	assert.EqualValues(t, 1, e.carReads.Load())
}

func TestHub_PollsFleet(t *testing.T) {
	e := newEnv(t, 30*time.Millisecond)
	conn := e.dial(t, workspace.NewID())
	next(t, conn, TypeSubscribed)

	next(t, conn, string(gateway.EventRefetched))
	assert.GreaterOrEqual(t, e.carReads.Load(), int32(1))
}

func TestHub_AdminQueriesNeedAdminSession(t *testing.T) {
	e := newEnv(t, 0)
	id := workspace.NewID()
	conn := e.dial(t, id)
	next(t, conn, TypeSubscribed)

	send(t, conn, ClientMessage{Type: "subscribe", Query: QueryUsers})
	msg := next(t, conn, TypeError)
	assert.Equal(t, ErrNotAllowed.Error(), msg.Error)

	client, err := e.reg.Get(context.Background(), id)
	require.NoError(t, err)
	require.NoError(t, client.Session.LoginSuccess(context.Background(), "opaque", domain.Profile{CustomerID: 1, Role: domain.RoleAdmin}))

	send(t, conn, ClientMessage{Type: "subscribe", Query: QueryUsers})
	ok := next(t, conn, TypeSubscribed)
	assert.Equal(t, QueryUsers, ok.Query)
	assert.Equal(t, gateway.Key("getUsers", nil), ok.Key)

	send(t, conn, ClientMessage{Type: "subscribe", Query: "weather"})
	assert.Equal(t, ErrUnknownQuery.Error(), next(t, conn, TypeError).Error)
}

func TestHub_LogoutRevokesCustomerSubscriptions(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, 0)
	id := workspace.NewID()
	conn := e.dial(t, id)
	next(t, conn, TypeSubscribed)

	client, err := e.reg.Get(ctx, id)
	require.NoError(t, err)
	jane := domain.Profile{CustomerID: 1, FirstName: "Jane", Role: domain.RoleUser}
	require.NoError(t, client.Session.LoginSuccess(ctx, "tok-jane", jane))

	send(t, conn, ClientMessage{Type: "subscribe", Query: QueryMyBookings})
	assert.Equal(t, QueryMyBookings, next(t, conn, TypeSubscribed).Query)

	// Same login with a new name keeps the subscription.
	jane.FirstName = "Janet"
	require.NoError(t, client.Session.RefreshUser(ctx, "tok-jane", jane))
	client.API.Cache.Invalidate(gateway.TagBookings)
	assert.Equal(t, QueryMyBookings, next(t, conn, string(gateway.EventRefetched)).Query)
	assert.EqualValues(t, 1, e.customerReads.Load())

	require.NoError(t, client.Session.Logout(ctx))
	assert.Equal(t, QueryMyBookings, next(t, conn, TypeUnsubscribed).Query)

	require.NoError(t, client.Session.LoginSuccess(ctx, "tok-bob", domain.Profile{CustomerID: 2, Role: domain.RoleUser}))
	client.API.Cache.Invalidate(gateway.TagBookings)
	next(t, conn, string(gateway.EventInvalidated))
	send(t, conn, ClientMessage{Type: "ping"})
	next(t, conn, TypePong)
	assert.EqualValues(t, 1, e.customerReads.Load())
}

func TestHub_PingAndUnsubscribe(t *testing.T) {
	e := newEnv(t, 0)
	conn := e.dial(t, workspace.NewID())
	next(t, conn, TypeSubscribed)

	send(t, conn, ClientMessage{Type: "ping"})
	next(t, conn, TypePong)

	send(t, conn, ClientMessage{Type: "unsubscribe", Query: QueryCars})
	assert.Equal(t, QueryCars, next(t, conn, TypeUnsubscribed).Query)
}

func TestHub_CloseEndsSockets(t *testing.T) {
	e := newEnv(t, 0)
	conn := e.dial(t, workspace.NewID())
	next(t, conn, TypeSubscribed)

	e.hub.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var err error
	for err == nil {
		_, _, err = conn.ReadMessage()
	}
	var closeErr *websocket.CloseError
	assert.ErrorAs(t, err, &closeErr)
	assert.Zero(t, e.hub.Len())
}
