package admin

import "rentcar/internal/domain"

// UserFilter narrows the customer list; zero values mean no filter.
type UserFilter struct {
	Role   domain.Role `form:"role"`
	Search string      `form:"q"`
	Page   int         `form:"page"`
	Limit  int         `form:"limit"`
}

type UserListResponse struct {
	Users []domain.Customer `json:"users"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
