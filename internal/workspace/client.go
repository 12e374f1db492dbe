package workspace

import (
	"sync"
	"sync/atomic"
	"time"

	"rentcar/internal/gateway"
	"rentcar/internal/session"
	"rentcar/internal/wizard"
)

// Client is the server-side state of one browser: its session, its query
// cache with the four gateways, and its booking wizard.
type Client struct {
	ID      string
	Session *session.Store
	API     *gateway.API
	Wizard  *wizard.Wizard

	lastSeen     atomic.Int64
	closeOnce    sync.Once
	stopWatching func()
}

// watchSession starts the wizard over when a login ends or is replaced by
// another one. Signing in from an anonymous session keeps the form.
func (c *Client) watchSession() {
	last := c.Session.Token()
	c.stopWatching = c.Session.Subscribe(func(st session.State) {
		token := st.TokenValue()
		if token == last {
			return
		}
		ended := last != ""
		last = token
		if ended {
			c.Wizard.Clear()
		}
	})
}

// Touch records activity; idle clients are evicted by the sweep.
func (c *Client) Touch(now time.Time) {
	c.lastSeen.Store(now.UnixNano())
}

func (c *Client) LastSeen() time.Time {
	return time.Unix(0, c.lastSeen.Load())
}

// Close stops the client's pollers and background refetches.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		if c.stopWatching != nil {
			c.stopWatching()
		}
		c.API.Cache.Close()
	})
}
