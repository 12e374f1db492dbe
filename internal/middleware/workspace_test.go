package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentcar/internal/domain"
	"rentcar/internal/gateway"
	"rentcar/internal/workspace"
)

func newGuardedRouter(t *testing.T) (*gin.Engine, *workspace.Registry) {
	t.Helper()
	reg := workspace.NewRegistry(gateway.NewTransport("http://127.0.0.1:1", nil, nil), nil, workspace.Options{})
	t.Cleanup(reg.Stop)

	router := gin.New()
	router.Use(Workspace(reg, CookieOptions{Name: "sid", SameSite: http.SameSiteLaxMode, MaxAge: time.Hour}))
	router.GET("/any", RequireSession(""), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/admin", RequireSession(domain.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	return router, reg
}

func TestWorkspace_MintsCookie(t *testing.T) {
	router, reg := newGuardedRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/any", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Please log in again")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, workspace.ValidID(cookies[0].Value))
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 1, reg.Len())
}

func TestRequireSession_RoleGate(t *testing.T) {
	router, reg := newGuardedRouter(t)
	ctx := context.Background()

	id := workspace.NewID()
	client, err := reg.Get(ctx, id)
	require.NoError(t, err)
	require.NoError(t, client.Session.LoginSuccess(ctx, "opaque", domain.Profile{CustomerID: 3, Role: domain.RoleUser}))

	do := func(path string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(&http.Cookie{Name: "sid", Value: id})
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("/any"))
	assert.Equal(t, http.StatusForbidden, do("/admin"))

	require.NoError(t, client.Session.Logout(ctx))
	assert.Equal(t, http.StatusUnauthorized, do("/any"))
}

func TestParseSameSite(t *testing.T) {
	assert.Equal(t, http.SameSiteNoneMode, ParseSameSite("None"))
	assert.Equal(t, http.SameSiteStrictMode, ParseSameSite("strict"))
	assert.Equal(t, http.SameSiteLaxMode, ParseSameSite("Lax"))
}
