package realtime

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"rentcar/internal/middleware"
	"rentcar/internal/pkg/response"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler accepts upgrades from the same host or one of allowedOrigins.
func NewHandler(hub *Hub, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = true
	}

	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || allowed[origin] {
					return true
				}
				u, err := url.Parse(origin)
				return err == nil && strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/ws", h.HandleWebSocket)
}

// HandleWebSocket streams cache events of the caller's workspace.
//
// Endpoint: GET /api/ws (the workspace cookie identifies the caller)
func (h *Handler) HandleWebSocket(c *gin.Context) {
	client := middleware.ClientFrom(c)
	if client == nil {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Please log in again")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("client_id", client.ID).Msg("websocket upgrade failed")
		return
	}
	h.hub.ServeWS(client, conn)
}
