package realtime

import (
	"time"

	"rentcar/internal/gateway"
)

// Query names a live read a socket can follow.
type Query string

const (
	QueryCars       Query = "cars"
	QueryMyBookings Query = "my_bookings"
	QueryBookings   Query = "bookings"
	QueryUsers      Query = "users"
)

// Outbound message types besides the cache event types.
const (
	TypeSubscribed   = "subscribed"
	TypeUnsubscribed = "unsubscribed"
	TypeError        = "error"
	TypePong         = "pong"
)

// ServerMessage is everything pushed to the browser.
type ServerMessage struct {
	Type  string        `json:"type"`
	Query Query         `json:"query,omitempty"`
	Tags  []gateway.Tag `json:"tags,omitempty"`
	Key   string        `json:"key,omitempty"`
	Data  any           `json:"data,omitempty"`
	Error string        `json:"error,omitempty"`
	At    time.Time     `json:"at"`
}

// ClientMessage is what the browser may send.
type ClientMessage struct {
	Type  string `json:"type"`
	Query Query  `json:"query,omitempty"`
}
