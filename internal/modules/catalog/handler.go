package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentcar/internal/domain"
	"rentcar/internal/middleware"
	"rentcar/internal/pkg/response"
)

type Handler struct {
	locations []domain.Location
}

func NewHandler(locations []domain.Location) *Handler {
	return &Handler{locations: locations}
}

// RegisterRoutes mounts the fleet list for customers and fleet management
// for admins.
func (h *Handler) RegisterRoutes(user, admin *gin.RouterGroup) {
	user.GET("/cars", h.ListCars)

	cars := admin.Group("/cars")
	{
		cars.GET("", h.ListCars)
		cars.POST("", h.CreateCar)
		cars.PUT("/:id", h.UpdateCar)
		cars.DELETE("/:id", h.DeleteCar)
	}
}

func (h *Handler) service(c *gin.Context) *Service {
	return NewService(middleware.ClientFrom(c).API.Cars, h.locations)
}

func (h *Handler) ListCars(c *gin.Context) {
	cars, err := h.service(c).List(c.Request.Context(), middleware.QueryOptions(c))
	if err != nil {
		response.FromError(c, err, "Error fetching cars. Please try again.")
		return
	}
	response.Success(c, http.StatusOK, cars)
}

func (h *Handler) CreateCar(c *gin.Context) {
	var req CarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	car, err := h.service(c).Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err, "Failed to add car. Please try again.")
		return
	}
	response.SuccessWithNotice(c, http.StatusCreated, car, "Car added successfully!")
}

func (h *Handler) UpdateCar(c *gin.Context) {
	id, ok := response.ParseID(c, "id")
	if !ok {
		return
	}
	var req CarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	car, err := h.service(c).Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err, "Failed to update car. Please try again.")
		return
	}
	response.SuccessWithNotice(c, http.StatusOK, car, "Car updated successfully!")
}

func (h *Handler) DeleteCar(c *gin.Context) {
	id, ok := response.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service(c).Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err, "Failed to delete car. Please try again.")
		return
	}
	response.SuccessWithNotice(c, http.StatusOK, gin.H{"carID": id}, "Car deleted successfully!")
}
