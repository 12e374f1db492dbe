package auth

import "rentcar/internal/domain"

type RegisterRequest struct {
	FirstName       string `json:"firstName" validate:"required,max=50"`
	LastName        string `json:"lastName" validate:"required,max=50"`
	Email           string `json:"email" validate:"required,email,max=100"`
	PhoneNumber     string `json:"phoneNumber" validate:"required,max=15"`
	Address         string `json:"address" validate:"omitempty,max=255"`
	Password        string `json:"password" validate:"required,min=6,max=255"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type VerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=255"`
}

// SessionResponse is what the browser needs to render the shell.
type SessionResponse struct {
	Authenticated bool            `json:"authenticated"`
	User          *domain.Profile `json:"user"`
	Landing       string          `json:"landing,omitempty"`
}
