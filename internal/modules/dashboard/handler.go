package dashboard

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rentcar/internal/middleware"
	"rentcar/internal/pkg/response"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes mounts the shell and analytics endpoints on both role
// groups. The guard on each group decides which shell a caller gets.
func (h *Handler) RegisterRoutes(user, admin *gin.RouterGroup) {
	user.GET("/dashboard", h.GetShell)
	user.GET("/analytics", h.GetUserAnalytics)

	admin.GET("/dashboard", h.GetShell)
	admin.GET("/analytics", h.GetAdminAnalytics)
}

func (h *Handler) service(c *gin.Context) *Service {
	api := middleware.ClientFrom(c).API
	return NewService(api.Cars, api.Bookings, api.Users, nil)
}

func (h *Handler) GetShell(c *gin.Context) {
	user := middleware.ClientFrom(c).Session.User()
	if user == nil {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Please log in again")
		return
	}
	response.Success(c, http.StatusOK, NewShell(*user))
}

// GetAdminAnalytics computes fleet analytics from live data.
// @Summary		Admin analytics
// @Tags		Admin - Analytics
// @Param		period	query	string	false	"3months, 6months or 12months"	default(6months)
// @Success		200	{object}	map[string]interface{}
// @Router		/admin/analytics [GET]
func (h *Handler) GetAdminAnalytics(c *gin.Context) {
	data, err := h.service(c).AdminAnalytics(c.Request.Context(), c.Query("period"), middleware.QueryOptions(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, data)
}

func (h *Handler) GetUserAnalytics(c *gin.Context) {
	data, err := h.service(c).UserAnalytics(c.Request.Context(), c.GetInt64("user_id"), c.Query("period"), middleware.QueryOptions(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, data)
}

func writeError(c *gin.Context, err error) {
	if errors.Is(err, ErrInvalidPeriod) {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Period must be 3months, 6months or 12months")
		return
	}
	response.FromError(c, err, "Error loading analytics. Please try again.")
}
