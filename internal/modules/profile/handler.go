package profile

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

// RegisterRoutes mounts the same profile endpoints in each role group.
func (h *Handler) RegisterRoutes(groups ...*gin.RouterGroup) {
	for _, g := range groups {
		g.GET("/profile", h.GetProfile)
		g.PUT("/profile", h.UpdateProfile)
	}
}

func (h *Handler) service(c *gin.Context) *Service {
	client := middleware.ClientFrom(c)
	return NewService(client.API.Users, client.Session)
}

// GetProfile returns the current customer.
// @Summary		Get profile
// @Tags		Profile
// @Success		200	{object}	map[string]interface{}
// @Failure		401	{object}	map[string]interface{}
// @Router		/user/profile [GET]
func (h *Handler) GetProfile(c *gin.Context) {
	customer, err := h.service(c).Get(c.Request.Context(), middleware.QueryOptions(c))
	if err != nil {
		writeError(c, err, "Error fetching profile. Please try again.")
		return
	}
	response.Success(c, http.StatusOK, customer)
}

// UpdateProfile changes names and avatar URL.
// @Summary		Update profile
// @Tags		Profile
// @Param		request	body	UpdateRequest	true	"Profile fields"
// @Success		200	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{}
// @Router		/user/profile [PUT]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	customer, err := h.service(c).Update(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Failed to update profile. Please try again.")
		return
	}
	response.SuccessWithNotice(c, http.StatusOK, customer, "Profile updated successfully!")
}

func writeError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, ErrNoProfile) {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Please log in again")
		return
	}
	response.FromError(c, err, fallback)
}
