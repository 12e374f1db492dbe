package devapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"rentcar/internal/domain"
	"rentcar/internal/middleware"
	"rentcar/internal/pkg/jwt"
	"rentcar/internal/pkg/response"
	"rentcar/internal/pkg/validator"
	"rentcar/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the REST surface. Reads answer {data: T}; writes
// answer the written object; failures answer {message}.
func (h *Handler) RegisterRoutes(r gin.IRouter, jwtService *jwt.Service) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/verify", h.Verify)
		auth.POST("/login", h.Login)
	}

	r.GET("/cars", h.ListCars)
	r.GET("/car/:id", h.GetCar)

	protected := r.Group("", middleware.JWTAuth(jwtService))
	{
		protected.GET("/customer/:id", h.GetCustomer)
		protected.PUT("/customer/:id", h.UpdateCustomer)

		protected.GET("/booking/:id", h.GetBooking)
		protected.GET("/bookings/customer/:customerID", h.ListCustomerBookings)
		protected.POST("/booking/register", h.CreateBooking)
		protected.PUT("/booking/:id", h.UpdateBooking)
		protected.DELETE("/booking/:id", h.DeleteBooking)
	}

	admin := r.Group("", middleware.JWTAuth(jwtService), middleware.RequireRole(string(domain.RoleAdmin)))
	{
		admin.GET("/customers", h.ListCustomers)
		admin.DELETE("/customer/:id", h.DeleteCustomer)

		admin.POST("/car/register", h.CreateCar)
		admin.PUT("/car/:id", h.UpdateCar)
		admin.DELETE("/car/:id", h.DeleteCar)

		admin.GET("/bookings", h.ListBookings)
	}
}

func caller(c *gin.Context) Caller {
	return Caller{ID: c.GetInt64("user_id"), Role: domain.Role(c.GetString("role"))}
}

// bind decodes and validates a JSON body, answering 400 itself on failure.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Message(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if errs := validator.Validate(req, nil); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": validator.FieldErrors(errs).Error(), "errors": errs})
		return false
	}
	return true
}

// -------------------- Auth --------------------

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if !bind(c, &req) {
		return
	}
	customer, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) Verify(c *gin.Context) {
	var req verifyRequest
	if !bind(c, &req) {
		return
	}
	customer, err := h.service.Verify(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ack{Success: true, ID: customer.CustomerID, Message: "Email verified"})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}
	out, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// -------------------- Customers --------------------

func (h *Handler) ListCustomers(c *gin.Context) {
	list, err := h.service.ListCustomers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Envelope(c, http.StatusOK, list)
}

func (h *Handler) GetCustomer(c *gin.Context) {
	cid, ok := response.ParseID(c, "id")
	if !ok {
		return
	}
	customer, err := h.service.GetCustomer(c.Request.Context(), caller(c), cid)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Envelope(c, http.StatusOK, customer)
}

func (h *Handler) UpdateCustomer(c *gin.Context) {
	cid, ok := response.ParseID(c, "id")
	if !ok {
		return
	}
	var upd domain.CustomerUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		response.Message(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	customer, err := h.service.UpdateCustomer(c.Request.Context(), caller(c), cid, upd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) DeleteCustomer(c *gin.Context) {
	cid, ok := response.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteCustomer(c.Request.Context(), cid); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ack{Success: true, ID: cid, Message: "Customer deleted"})
}

// -------------------- Cars --------------------

func (h *Handler) ListCars(c *gin.Context) {
	cars, err := h.service.ListCars(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Envelope(c, http.StatusOK, cars)
}

func (h *Handler) GetCar(c *gin.Context) {
	carID, ok := response.ParseID(c, "id")
	if !ok {
		return
	}
	car, err := h.service.GetCar(c.Request.Context(), carID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Envelope(c, http.StatusOK, car)
}

func (h *Handler) CreateCar(c *gin.Context) {
	var req carRequest
	if !bind(c, &req) {
		return
	}
	car, err := h.service.CreateCar(c.Request.Context(), req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, car)
}

func (h *Handler) UpdateCar(c *gin.Context) {
	carID, ok := response.ParseID(c, "id")
	if !ok {
		return
	}
	var req carRequest
	if !bind(c, &req) {
		return
	}
	car, err := h.service.UpdateCar(c.Request.Context(), carID, req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (h *Handler) DeleteCar(c *gin.Context) {
	carID, ok := response.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteCar(c.Request.Context(), carID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ack{Success: true, ID: carID, Message: "Car deleted"})
}

// -------------------- Bookings --------------------

func (h *Handler) ListBookings(c *gin.Context) {
	list, err := h.service.ListBookings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Envelope(c, http.StatusOK, list)
}

func (h *Handler) GetBooking(c *gin.Context) {
	bid, ok := response.ParseID(c, "id")
	if !ok {
		return
	}
	b, err := h.service.GetBooking(c.Request.Context(), caller(c), bid)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Envelope(c, http.StatusOK, b)
}

func (h *Handler) ListCustomerBookings(c *gin.Context) {
	cid, ok := response.ParseID(c, "customerID")
	if !ok {
		return
	}
	list, err := h.service.ListCustomerBookings(c.Request.Context(), caller(c), cid)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Envelope(c, http.StatusOK, list)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req bookingRequest
	if !bind(c, &req) {
		return
	}
	b, err := h.service.CreateBooking(c.Request.Context(), caller(c), domain.BookingInput(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) UpdateBooking(c *gin.Context) {
	bid, ok := response.ParseID(c, "id")
	if !ok {
		return
	}
	var upd domain.BookingUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		response.Message(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	b, err := h.service.UpdateBooking(c.Request.Context(), caller(c), bid, upd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) DeleteBooking(c *gin.Context) {
	bid, ok := response.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteBooking(c.Request.Context(), caller(c), bid); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ack{Success: true, ID: bid, Message: "Booking deleted"})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrCarBooked):
		response.Message(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		response.Message(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNotVerified), errors.Is(err, ErrForbidden):
		response.Message(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrCarNotFound), errors.Is(err, repository.ErrNotFound):
		response.Message(c, http.StatusNotFound, "Not found")
	case errors.Is(err, ErrInvalidCode), errors.Is(err, ErrInvalidDates), errors.Is(err, domain.ErrInvalidDate):
		response.Message(c, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("devapi request failed")
		response.Message(c, http.StatusInternalServerError, "Internal server error")
	}
}
