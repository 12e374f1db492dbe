package admin

import (
	"context"
	"fmt"
	"strings"

	"rentcar/internal/domain"
	"rentcar/internal/gateway"
)

type Service struct {
	users UsersGateway
}

func NewService(users UsersGateway) *Service {
	return &Service{users: users}
}

// -------------------- Users --------------------

// ListUsers filters and pages the customer list. The backend returns every
// customer in one read, so paging happens here.
func (s *Service) ListUsers(ctx context.Context, f UserFilter, opts gateway.QueryOptions) (UserListResponse, error) {
	if f.Role != "" && !f.Role.Valid() {
		return UserListResponse{}, ErrInvalidRole
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}

	all, err := s.users.GetUsers(ctx, opts)
	if gateway.IsNotFound(err) {
		all, err = nil, nil
	}
	if err != nil {
		return UserListResponse{}, err
	}

	q := strings.ToLower(strings.TrimSpace(f.Search))
	matched := make([]domain.Customer, 0, len(all))
	for _, u := range all {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(u.FullName()+" "+u.Email), q) {
			continue
		}
		matched = append(matched, u.Public())
	}

	offset := (f.Page - 1) * f.Limit
	page := []domain.Customer{}
	if offset < len(matched) {
		end := offset + f.Limit
		if end > len(matched) {
			end = len(matched)
		}
		page = matched[offset:end]
	}

	return UserListResponse{Users: page, Total: len(matched), Page: f.Page, Limit: f.Limit}, nil
}

// DeleteUser removes a customer. An admin cannot remove their own account
// from the shell they are signed into.
func (s *Service) DeleteUser(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return ErrSelfDelete
	}
	if _, err := s.users.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}
