package booking

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rentcar/internal/domain"
	"rentcar/internal/middleware"
	"rentcar/internal/pkg/response"
	"rentcar/internal/wizard"
)

const submitFailed = "Booking failed. Please try again."

type Handler struct {
	locations []domain.Location
}

func NewHandler(locations []domain.Location) *Handler {
	return &Handler{locations: locations}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/booking")
	{
		g.GET("", h.GetWizard)
		g.PATCH("", h.UpdateWizard)
		g.GET("/locations", h.ListLocations)
		g.GET("/cars", h.ListCars)
		g.POST("/car", h.SelectCar)
		g.POST("/next", h.Next)
		g.POST("/previous", h.Previous)
		g.POST("/submit", middleware.RequireSession(""), h.Submit)
		g.POST("/reset", h.Reset)
	}
}

func (h *Handler) service(c *gin.Context) *Service {
	cl := middleware.ClientFrom(c)
	return NewService(cl.Wizard, cl.API.Cars, cl.API.Bookings, h.locations)
}

func (h *Handler) GetWizard(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service(c).View())
}

func (h *Handler) UpdateWizard(c *gin.Context) {
	var p wizard.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	view, err := h.service(c).Update(p)
	if err != nil {
		writeWizardError(c, err, view)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) ListLocations(c *gin.Context) {
	response.Success(c, http.StatusOK, h.locations)
}

func (h *Handler) ListCars(c *gin.Context) {
	cars, err := h.service(c).CarOptions(c.Request.Context())
	if err != nil {
		response.FromError(c, err, "Failed to load cars")
		return
	}
	response.Success(c, http.StatusOK, cars)
}

func (h *Handler) SelectCar(c *gin.Context) {
	var req SelectCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Validation failed",
			map[string]string{"carID": "Please select a car"})
		return
	}
	view, err := h.service(c).SelectCar(c.Request.Context(), req.CarID)
	if err != nil {
		writeWizardError(c, err, view)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) Next(c *gin.Context) {
	view, err := h.service(c).Next()
	if err != nil {
		writeWizardError(c, err, view)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) Previous(c *gin.Context) {
	view, err := h.service(c).Previous()
	if err != nil {
		writeWizardError(c, err, view)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Submit sends the booking for the signed-in customer.
// @Summary	Submit the booking wizard
// @Tags		Booking
// @Success	201	{object}	map[string]interface{}
// @Failure	400	{object}	map[string]interface{}
// @Failure	502	{object}	map[string]interface{}
// @Router		/booking/submit [POST]
func (h *Handler) Submit(c *gin.Context) {
	view, err := h.service(c).Submit(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		writeWizardError(c, err, view)
		return
	}
	response.SuccessWithNotice(c, http.StatusCreated, view, view.Notification)
}

func (h *Handler) Reset(c *gin.Context) {
	view, err := h.service(c).Reset()
	if err != nil {
		writeWizardError(c, err, view)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func writeWizardError(c *gin.Context, err error, view wizard.View) {
	switch {
	case errors.Is(err, wizard.ErrWrongStep),
		errors.Is(err, wizard.ErrNoPrevious),
		errors.Is(err, wizard.ErrNotSubmitted),
		errors.Is(err, wizard.ErrSubmitted),
		errors.Is(err, wizard.ErrSubmitting):
		response.Error(c, http.StatusConflict, response.CodeConflict, err.Error())
	case errors.Is(err, wizard.ErrCarUnavailable):
		response.ErrorWithDetails(c, http.StatusConflict, response.CodeConflict, "Car is not available",
			map[string]string{"carID": "Please select an available car"})
	case errors.Is(err, ErrCarNotFound):
		response.ErrorWithDetails(c, http.StatusNotFound, response.CodeNotFound, "Car not found",
			map[string]string{"carID": "Please select a car"})
	case errors.Is(err, wizard.ErrNoCustomer):
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Please log in again")
	case errors.Is(err, wizard.ErrNoQuote):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Rental total could not be computed")
	default:
		msg := submitFailed
		if view.Notification != "" {
			msg = view.Notification
		}
		response.FromError(c, err, msg)
	}
}
