package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"rentcar/internal/domain"
	"rentcar/internal/gateway"
	"rentcar/internal/session"
	"rentcar/internal/workspace"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 64
)

// connection is one browser tab following its workspace's cache.
type connection struct {
	client *workspace.Client
	conn   *websocket.Conn
	send   chan []byte

	mu     sync.Mutex
	subs   map[Query]*gateway.Subscription
	token  string
	closed bool
}

// gated reports whether q needs a login, and so belongs to one.
func gated(q Query) bool {
	return q == QueryMyBookings || q == QueryBookings || q == QueryUsers
}

// Hub tracks every open socket so they can be closed on shutdown.
type Hub struct {
	mu     sync.RWMutex
	conns  map[*connection]struct{}
	closed bool

	poll time.Duration
	now  func() time.Time
}

// NewHub returns a hub whose fleet subscriptions poll every poll interval.
func NewHub(poll time.Duration) *Hub {
	return &Hub{
		conns: make(map[*connection]struct{}),
		poll:  poll,
		now:   time.Now,
	}
}

func (h *Hub) register(c *connection) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}
	h.conns[c] = struct{}{}
	return nil
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	_, ok := h.conns[c]
	delete(h.conns, c)
	h.mu.Unlock()
	if ok {
		c.shutdown()
	}
}

// Len is the number of open sockets.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Close ends every socket with a close frame and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	conns := make([]*connection, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.conns = make(map[*connection]struct{})
	h.mu.Unlock()

	for _, c := range conns {
		c.shutdown()
	}
}

// ServeWS follows client's cache on conn until the socket closes. The fleet
// list is subscribed up front; other reads on request.
func (h *Hub) ServeWS(client *workspace.Client, conn *websocket.Conn) {
	c := &connection{
		client: client,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		subs:   make(map[Query]*gateway.Subscription),
	}
	if err := h.register(c); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		_ = conn.Close()
		return
	}

	stopEvents := client.API.Cache.OnEvent(func(ev gateway.Event) { h.forward(c, ev) })
	defer stopEvents()
	stopSession := client.Session.Subscribe(func(st session.State) { h.sessionChanged(c, st) })
	defer stopSession()
	c.mu.Lock()
	c.token = client.Session.Token()
	c.mu.Unlock()

	h.subscribe(c, QueryCars)

	log.Debug().Str("client_id", client.ID).Msg("realtime connected")
	go h.writePump(c)
	h.readPump(c)
	log.Debug().Str("client_id", client.ID).Msg("realtime disconnected")
}

// forward turns a cache event into a push. Refetched events carry the fresh
// value so the browser can render without another round trip.
func (h *Hub) forward(c *connection, ev gateway.Event) {
	msg := ServerMessage{Type: string(ev.Type), Tags: ev.Tags, Key: ev.Key, Error: ev.Error, At: ev.At}
	if ev.Key != "" {
		q, ok := c.queryFor(ev.Key)
		if !ok {
			return
		}
		msg.Query = q
		if ev.Type == gateway.EventRefetched {
			msg.Data, _ = c.client.API.Cache.Peek(ev.Key)
		}
	}
	c.push(msg)
}

// sessionChanged drops the login-bound subscriptions once the token they
// were opened under is gone. A profile refresh keeps the token and them.
func (h *Hub) sessionChanged(c *connection, st session.State) {
	token := st.TokenValue()

	c.mu.Lock()
	if c.closed || token == c.token {
		c.mu.Unlock()
		return
	}
	c.token = token
	var revoked []Query
	for q, sub := range c.subs {
		if gated(q) {
			sub.Unsubscribe()
			delete(c.subs, q)
			revoked = append(revoked, q)
		}
	}
	c.mu.Unlock()

	for _, q := range revoked {
		c.push(ServerMessage{Type: TypeUnsubscribed, Query: q, At: h.now().UTC()})
	}
	if len(revoked) > 0 {
		log.Debug().Str("client_id", c.client.ID).Int("count", len(revoked)).Msg("realtime subscriptions revoked")
	}
}

func (h *Hub) subscribe(c *connection, q Query) {
	token := c.client.Session.Token()
	sub, err := h.open(c.client, q)
	if err != nil {
		c.push(ServerMessage{Type: TypeError, Query: q, Error: err.Error(), At: h.now().UTC()})
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	// The login changed between the check in open and now.
	if gated(q) && token != c.token {
		c.mu.Unlock()
		sub.Unsubscribe()
		c.push(ServerMessage{Type: TypeError, Query: q, Error: ErrNotAllowed.Error(), At: h.now().UTC()})
		return
	}
	if old, ok := c.subs[q]; ok {
		old.Unsubscribe()
	}
	c.subs[q] = sub
	c.mu.Unlock()

	msg := ServerMessage{Type: TypeSubscribed, Query: q, Key: sub.Key(), At: h.now().UTC()}
	msg.Data, _ = c.client.API.Cache.Peek(sub.Key())
	c.push(msg)
}

// open checks the session against the query's audience and subscribes.
func (h *Hub) open(client *workspace.Client, q Query) (*gateway.Subscription, error) {
	state := client.Session.State()
	now := h.now()
	api := client.API

	switch q {
	case QueryCars:
		return api.Cars.SubscribeCars(h.poll), nil
	case QueryMyBookings:
		if !session.CanAccess(state, "", now) {
			return nil, ErrNotAllowed
		}
		return api.Bookings.SubscribeCustomerBookings(state.User.CustomerID), nil
	case QueryBookings:
		if !session.CanAccess(state, domain.RoleAdmin, now) {
			return nil, ErrNotAllowed
		}
		return api.Bookings.SubscribeAllBookings(), nil
	case QueryUsers:
		if !session.CanAccess(state, domain.RoleAdmin, now) {
			return nil, ErrNotAllowed
		}
		return api.Users.SubscribeUsers(), nil
	}
	return nil, ErrUnknownQuery
}

func (h *Hub) unsubscribe(c *connection, q Query) {
	c.mu.Lock()
	sub, ok := c.subs[q]
	delete(c.subs, q)
	c.mu.Unlock()
	if ok {
		sub.Unsubscribe()
	}
	c.push(ServerMessage{Type: TypeUnsubscribed, Query: q, At: h.now().UTC()})
}

func (h *Hub) readPump(c *connection) {
	defer h.unregister(c)

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.client.Touch(h.now())
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("client_id", c.client.ID).Msg("realtime read failed")
			}
			return
		}
		c.client.Touch(h.now())

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.push(ServerMessage{Type: TypeError, Error: "invalid message", At: h.now().UTC()})
			continue
		}

		switch msg.Type {
		case "subscribe":
			h.subscribe(c, msg.Query)
		case "unsubscribe":
			h.unsubscribe(c, msg.Query)
		case "ping":
			c.push(ServerMessage{Type: TypePong, At: h.now().UTC()})
		default:
			c.push(ServerMessage{Type: TypeError, Error: "unknown message type: " + msg.Type, At: h.now().UTC()})
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *connection) queryFor(key string) (Query, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for q, sub := range c.subs {
		if sub.Key() == key {
			return q, true
		}
	}
	return "", false
}

// push drops the message when the client is too slow.
func (c *connection) push(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("type", msg.Type).Msg("realtime marshal failed")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Warn().Str("client_id", c.client.ID).Str("type", msg.Type).Msg("realtime client too slow, message dropped")
	}
}

// shutdown releases the subscriptions and lets the write pump send a close
// frame. Safe to call more than once.
func (c *connection) shutdown() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	subs := c.subs
	c.subs = make(map[Query]*gateway.Subscription)
	close(c.send)
	c.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}
