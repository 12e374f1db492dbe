package gateway

import (
	"context"
	"fmt"
	"net/http"

	"rentcar/internal/domain"
)

// Ack is the body the backend returns for deletes and verification.
type Ack struct {
	Success bool   `json:"success,omitempty"`
	ID      int64  `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

// Users is the customer gateway.
type Users struct {
	t *Transport
	c *Cache
}

var usersTags = []Tag{TagUsers}

func (u *Users) CreateUser(ctx context.Context, in domain.CustomerInput) (domain.Customer, error) {
	return mutate(ctx, u.c, usersTags, func(ctx context.Context) (domain.Customer, error) {
		var out domain.Customer
		err := u.t.Do(ctx, http.MethodPost, "/auth/register", in, &out)
		return out, err
	})
}

// VerifyUser confirms an email with the code sent at registration.
func (u *Users) VerifyUser(ctx context.Context, email, code string) (Ack, error) {
	var out Ack
	body := map[string]string{"email": email, "code": code}
	if err := u.t.Do(ctx, http.MethodPost, "/auth/verify", body, &out); err != nil {
		return Ack{}, err
	}
	return out, nil
}

func (u *Users) GetUsers(ctx context.Context, opts QueryOptions) ([]domain.Customer, error) {
	return query(ctx, u.c, Key("getUsers", nil), usersTags, opts, u.fetchUsers)
}

func (u *Users) fetchUsers(ctx context.Context) ([]domain.Customer, error) {
	return getData[[]domain.Customer](ctx, u.t, "/customers")
}

// SubscribeUsers keeps the customer list fresh after invalidation.
func (u *Users) SubscribeUsers() *Subscription {
	return subscribe(u.c, Key("getUsers", nil), usersTags, 0, u.fetchUsers)
}

func (u *Users) GetUserByID(ctx context.Context, id int64, opts QueryOptions) (domain.Customer, error) {
	return query(ctx, u.c, Key("getUserById", id), usersTags, opts, func(ctx context.Context) (domain.Customer, error) {
		return getData[domain.Customer](ctx, u.t, fmt.Sprintf("/customer/%d", id))
	})
}

func (u *Users) UpdateUser(ctx context.Context, id int64, upd domain.CustomerUpdate) (domain.Customer, error) {
	return mutate(ctx, u.c, usersTags, func(ctx context.Context) (domain.Customer, error) {
		var out domain.Customer
		err := u.t.Do(ctx, http.MethodPut, fmt.Sprintf("/customer/%d", id), upd, &out)
		return out, err
	})
}

func (u *Users) DeleteUser(ctx context.Context, id int64) (Ack, error) {
	return mutate(ctx, u.c, usersTags, func(ctx context.Context) (Ack, error) {
		var out Ack
		err := u.t.Do(ctx, http.MethodDelete, fmt.Sprintf("/customer/%d", id), nil, &out)
		return out, err
	})
}
