package auth

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

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/session", h.Session)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/verify", h.Verify)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
	}
}

func (h *Handler) service(c *gin.Context) *Service {
	cl := middleware.ClientFrom(c)
	return NewService(cl.API.Users, cl.API.Login, cl.Session)
}

// Register creates a customer account.
// @Summary	Register a customer
// @Tags		Auth
// @Param		request	body	RegisterRequest	true	"Customer details"
// @Success	201	{object}	map[string]interface{}
// @Failure	400	{object}	map[string]interface{}
// @Router		/auth/register [POST]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	customer, err := h.service(c).Register(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err, "Registration failed. Please try again.")
		return
	}
	response.SuccessWithNotice(c, http.StatusCreated, gin.H{"user": customer, "next": "/register/verify"},
		"Registration successful! Please check your email.")
}

func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	ack, err := h.service(c).Verify(c.Request.Context(), req)
	if errors.Is(err, ErrVerificationFailed) {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Verification failed. Please check your code and try again.")
		return
	}
	if err != nil {
		response.FromError(c, err, "Verification failed. Please check your code and try again.")
		return
	}
	response.SuccessWithNotice(c, http.StatusOK, gin.H{"result": ack, "next": "/login"}, "Account verified successfully!")
}

// Login signs the browser in; the token stays on the server.
// @Summary	Log in
// @Tags		Auth
// @Param		request	body	LoginRequest	true	"Credentials"
// @Success	200	{object}	map[string]interface{}
// @Failure	401	{object}	map[string]interface{}
// @Router		/auth/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	sess, err := h.service(c).Login(c.Request.Context(), req)
	switch {
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrNoToken):
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Login failed. Please check your credentials and try again.")
		return
	case errors.Is(err, ErrNotVerified):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "Please verify your account before logging in.")
		return
	case err != nil:
		response.FromError(c, err, "Login failed. Please check your credentials and try again.")
		return
	}
	response.SuccessWithNotice(c, http.StatusOK, sess, "Login successful!")
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.service(c).Logout(c.Request.Context()); err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Logout failed")
		return
	}
	response.SuccessWithNotice(c, http.StatusOK, SessionResponse{}, "Logged out")
}

func (h *Handler) Session(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service(c).Current())
}
