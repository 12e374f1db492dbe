package reservation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rentcar/internal/gateway"
	"rentcar/internal/middleware"
	"rentcar/internal/pkg/response"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(user, admin *gin.RouterGroup) {
	mine := user.Group("/bookings")
	{
		mine.GET("", h.ListMine)
		mine.PUT("/:id/extend", h.Extend)
		mine.DELETE("/:id", h.Cancel)
	}

	all := admin.Group("/bookings")
	{
		all.GET("", h.ListAll)
		all.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) service(c *gin.Context) *Service {
	api := middleware.ClientFrom(c).API
	return NewService(api.Bookings, api.Cars, nil)
}

// ListMine always goes to the network so a returning customer sees fresh data.
func (h *Handler) ListMine(c *gin.Context) {
	list, err := h.service(c).ListMine(c.Request.Context(), c.GetInt64("user_id"), gateway.QueryOptions{RefetchOnMount: true})
	if err != nil {
		response.FromError(c, err, "Error fetching bookings. Please try again.")
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) ListAll(c *gin.Context) {
	list, err := h.service(c).ListAll(c.Request.Context(), middleware.QueryOptions(c))
	if err != nil {
		response.FromError(c, err, "Error fetching bookings. Please try again.")
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) Extend(c *gin.Context) {
	id, ok := response.ParseID(c, "id")
	if !ok {
		return
	}
	var req ExtendRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
			return
		}
	}

	view, err := h.service(c).Extend(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		writeError(c, err, "Failed to update booking. Please try again.")
		return
	}
	days := req.Days
	if days == 0 {
		days = DefaultExtensionDays
	}
	response.SuccessWithNotice(c, http.StatusOK, view, extendNotice(days))
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := response.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service(c).Cancel(c.Request.Context(), c.GetInt64("user_id"), id); err != nil {
		writeError(c, err, "Failed to cancel booking. Try again.")
		return
	}
	response.SuccessWithNotice(c, http.StatusOK, gin.H{"bookingID": id}, "Booking canceled successfully!")
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := response.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service(c).Delete(c.Request.Context(), id); err != nil {
		writeError(c, err, "Failed to delete booking. Try again.")
		return
	}
	response.SuccessWithNotice(c, http.StatusOK, gin.H{"bookingID": id}, "Booking deleted successfully!")
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Booking not found")
	case errors.Is(err, ErrNotOwner):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "You don't own this booking")
	case errors.Is(err, ErrBookingEnded):
		response.Error(c, http.StatusConflict, response.CodeConflict, "Booking has already ended")
	default:
		response.FromError(c, err, fallback)
	}
}
