package auth

import (
	"context"
	"fmt"
	"strings"

	"rentcar/internal/domain"
	"rentcar/internal/gateway"
	"rentcar/internal/pkg/validator"
)

const (
	adminLanding = "/admin/dashboard/users"
	userLanding  = "/user/dashboard/cars"
)

var registerMessages = validator.Messages{
	"firstName.required":       "First name is required",
	"lastName.required":        "Last name is required",
	"phoneNumber.required":     "Phone number is required",
	"email.required":           "Email is required",
	"password.required":        "Password is required",
	"confirmPassword.required": "Confirm password is required",
	"confirmPassword.eqfield":  "Passwords must match",
}

var verifyMessages = validator.Messages{
	"email.required": "Email is required",
	"code.required":  "Verification code is required",
	"code.len":       "Code must be a 6 digit number",
	"code.numeric":   "Code must be a 6 digit number",
}

var loginMessages = validator.Messages{
	"email.required":    "Email is required",
	"password.required": "Password is required",
}

// Landing is the first page of a role's shell.
func Landing(role domain.Role) string {
	if role == domain.RoleAdmin {
		return adminLanding
	}
	return userLanding
}

type Service struct {
	users   UsersGateway
	login   LoginGateway
	session SessionStore
}

func NewService(users UsersGateway, login LoginGateway, session SessionStore) *Service {
	return &Service{users: users, login: login, session: session}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (domain.Customer, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validator.Check(req, registerMessages); err != nil {
		return domain.Customer{}, err
	}

	created, err := s.users.CreateUser(ctx, domain.CustomerInput{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       req.Email,
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Address:     strings.TrimSpace(req.Address),
		Password:    req.Password,
	})
	if err != nil {
		return domain.Customer{}, fmt.Errorf("register: %w", err)
	}
	return created.Public(), nil
}

func (s *Service) Verify(ctx context.Context, req VerifyRequest) (gateway.Ack, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validator.Check(req, verifyMessages); err != nil {
		return gateway.Ack{}, err
	}

	ack, err := s.users.VerifyUser(ctx, req.Email, req.Code)
	if err != nil {
		if gateway.IsClientError(err) {
			return gateway.Ack{}, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
		}
		return gateway.Ack{}, fmt.Errorf("verify: %w", err)
	}
	return ack, nil
}

// Login exchanges credentials for a token and stores the session.
func (s *Service) Login(ctx context.Context, req LoginRequest) (SessionResponse, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validator.Check(req, loginMessages); err != nil {
		return SessionResponse{}, err
	}

	resp, err := s.login.LoginUser(ctx, req.Email, req.Password)
	switch {
	case gateway.IsUnauthorized(err), gateway.IsNotFound(err):
		return SessionResponse{}, ErrInvalidCredentials
	case gateway.IsForbidden(err):
		return SessionResponse{}, ErrNotVerified
	case err != nil:
		return SessionResponse{}, fmt.Errorf("login: %w", err)
	}
	if resp.Token == "" {
		return SessionResponse{}, ErrNoToken
	}

	profile := resp.User.Profile()
	if err := s.session.LoginSuccess(ctx, resp.Token, profile); err != nil {
		return SessionResponse{}, err
	}
	return SessionResponse{Authenticated: true, User: &profile, Landing: Landing(profile.Role)}, nil
}

func (s *Service) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}

func (s *Service) Current() SessionResponse {
	st := s.session.State()
	if !st.Authenticated() {
		return SessionResponse{}
	}
	u := *st.User
	return SessionResponse{Authenticated: true, User: &u, Landing: Landing(u.Role)}
}
