package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"rentcar/internal/domain"
	"rentcar/internal/gateway"
	"rentcar/internal/pkg/validator"
	"rentcar/internal/session"
)

var updateMessages = validator.Messages{
	"firstName.required": "First name is required",
	"lastName.required":  "Last name is required",
	"image_url.required": "Image URL is required",
}

type Service struct {
	users   UsersGateway
	session SessionStore
}

func NewService(users UsersGateway, session SessionStore) *Service {
	return &Service{users: users, session: session}
}

func (s *Service) current() (domain.Profile, error) {
	p := s.session.User()
	if p == nil {
		return domain.Profile{}, ErrNoProfile
	}
	return *p, nil
}

// Get returns the signed-in customer's record without the credential hash.
func (s *Service) Get(ctx context.Context, opts gateway.QueryOptions) (domain.Customer, error) {
	p, err := s.current()
	if err != nil {
		return domain.Customer{}, err
	}
	c, err := s.users.GetUserByID(ctx, p.CustomerID, opts)
	if err != nil {
		return domain.Customer{}, err
	}
	return c.Public(), nil
}

// Update changes names and avatar, then refreshes the session profile so
// the shell header shows the new name.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (domain.Customer, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	if err := validator.Check(req, updateMessages); err != nil {
		return domain.Customer{}, err
	}

	p, err := s.current()
	if err != nil {
		return domain.Customer{}, err
	}
	token := s.session.Token()

	updated, err := s.users.UpdateUser(ctx, p.CustomerID, domain.CustomerUpdate{
		FirstName: &req.FirstName,
		LastName:  &req.LastName,
		ImageURL:  &req.ImageURL,
	})
	if err != nil {
		return domain.Customer{}, fmt.Errorf("update profile %d: %w", p.CustomerID, err)
	}

	p.FirstName, p.LastName = updated.FirstName, updated.LastName
	err = s.session.RefreshUser(ctx, token, p)
	switch {
	case errors.Is(err, session.ErrSessionChanged):
		log.Debug().Int64("customer_id", p.CustomerID).Msg("session ended during profile update")
	case err != nil:
		log.Warn().Err(err).Int64("customer_id", p.CustomerID).Msg("session profile not refreshed")
	}
	return updated.Public(), nil
}
