package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"rentcar/internal/domain"
	"rentcar/internal/gateway"
	"rentcar/internal/pkg/response"
	"rentcar/internal/session"
	"rentcar/internal/workspace"
)

const (
	ClientIDKey = "client_id"
	clientKey   = "workspace_client"
)

// CookieOptions shapes the workspace cookie.
type CookieOptions struct {
	Name     string
	Secure   bool
	SameSite http.SameSite
	MaxAge   time.Duration
}

// ParseSameSite maps the config spelling to http.SameSite.
func ParseSameSite(v string) http.SameSite {
	switch v {
	case "None", "none":
		return http.SameSiteNoneMode
	case "Strict", "strict":
		return http.SameSiteStrictMode
	}
	return http.SameSiteLaxMode
}

// Workspace attaches the caller's client workspace, minting a cookie for
// browsers that do not have one yet.
func Workspace(reg *workspace.Registry, opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(opts.Name)
		if err != nil || !workspace.ValidID(id) {
			id = workspace.NewID()
		}

		client, err := reg.Get(c.Request.Context(), id)
		if err != nil {
			log.Error().Err(err).Str("client_id", id).Msg("failed to open workspace")
			response.Abort(c, http.StatusServiceUnavailable, response.CodeInternal, "Session storage unavailable")
			return
		}

		c.SetSameSite(opts.SameSite)
		c.SetCookie(opts.Name, id, int(opts.MaxAge.Seconds()), "/", "", opts.Secure, true)
		c.Set(ClientIDKey, id)
		c.Set(clientKey, client)
		c.Next()
	}
}

// ClientFrom returns the workspace attached by Workspace.
func ClientFrom(c *gin.Context) *workspace.Client {
	v, ok := c.Get(clientKey)
	if !ok {
		return nil
	}
	client, _ := v.(*workspace.Client)
	return client
}

// RequireSession is the route guard. An empty role admits any signed-in
// user; otherwise the role must match.
func RequireSession(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		client := ClientFrom(c)
		if client == nil {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "Please log in again")
			return
		}

		state := client.Session.State()
		now := time.Now()
		if !session.CanAccess(state, "", now) {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "Please log in again")
			return
		}
		if !session.CanAccess(state, role, now) {
			response.Abort(c, http.StatusForbidden, response.CodeForbidden, "Access denied: insufficient permissions")
			return
		}

		c.Set("user_id", state.User.CustomerID)
		c.Set("role", string(state.User.Role))
		c.Next()
	}
}

// QueryOptions maps ?refresh=true to a refetch-on-mount read.
func QueryOptions(c *gin.Context) gateway.QueryOptions {
	return gateway.QueryOptions{RefetchOnMount: c.Query("refresh") == "true"}
}
