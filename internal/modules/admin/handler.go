package admin

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

func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	// users moderation
	admin.GET("/users", h.GetUsers)
	admin.DELETE("/users/:id", h.DeleteUser)
}

func (h *Handler) service(c *gin.Context) *Service {
	return NewService(middleware.ClientFrom(c).API.Users)
}

// GetUsers lists customers for the admin shell.
// @Summary		List customers
// @Description	Returns a page of customers, optionally filtered by role or a name/email search. Admin only.
// @Tags		Admin - Users
// @Param		role	query	string	false	"admin or user"
// @Param		q		query	string	false	"Search in name and email"
// @Param		page	query	int		false	"Page number"	default(1)
// @Param		limit	query	int		false	"Page size"	default(20)
// @Success		200	{object}	map[string]interface{}
// @Failure		403	{object}	map[string]interface{}
// @Router		/admin/users [GET]
func (h *Handler) GetUsers(c *gin.Context) {
	var f UserFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid query parameters")
		return
	}

	list, err := h.service(c).ListUsers(c.Request.Context(), f, middleware.QueryOptions(c))
	if err != nil {
		if errors.Is(err, ErrInvalidRole) {
			response.Error(c, http.StatusBadRequest, response.CodeValidation, "Role must be admin or user")
			return
		}
		response.FromError(c, err, "Error fetching users. Please try again.")
		return
	}
	response.Success(c, http.StatusOK, list)
}

// DeleteUser removes a customer.
// @Summary		Delete customer
// @Tags		Admin - Users
// @Param		id	path	int	true	"Customer ID"
// @Success		200	{object}	map[string]interface{}
// @Failure		409	{object}	map[string]interface{}
// @Router		/admin/users/{id} [DELETE]
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := response.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service(c).DeleteUser(c.Request.Context(), c.GetInt64("user_id"), id); err != nil {
		if errors.Is(err, ErrSelfDelete) {
			response.Error(c, http.StatusConflict, response.CodeConflict, "You cannot delete your own account")
			return
		}
		response.FromError(c, err, "Failed to delete user. Try again.")
		return
	}
	response.SuccessWithNotice(c, http.StatusOK, gin.H{"customerID": id}, "User deleted successfully!")
}
