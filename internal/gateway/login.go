package gateway

import (
	"context"
	"net/http"

	"rentcar/internal/domain"
)

// LoginUser is the user object of a login answer, in the backend's naming.
type LoginUser struct {
	UserID     int64       `json:"user_id"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	IsVerified bool        `json:"isVerified"`
}

func (u LoginUser) Profile() domain.Profile {
	return domain.Profile{
		CustomerID: u.UserID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
	}
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

type Login struct {
	t *Transport
}

// LoginUser exchanges credentials for a token. Nothing is cached.
func (g *Login) LoginUser(ctx context.Context, email, password string) (LoginResponse, error) {
	var out LoginResponse
	body := map[string]string{"email": email, "password": password}
	if err := g.t.Do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return LoginResponse{}, err
	}
	return out, nil
}
