package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentcar/internal/domain"
	"rentcar/internal/gateway"
)

/* ==================== MOCKS ==================== */

type MockUsersGateway struct {
	mock.Mock
}

func (m *MockUsersGateway) GetUsers(ctx context.Context, opts gateway.QueryOptions) ([]domain.Customer, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockUsersGateway) DeleteUser(ctx context.Context, id int64) (gateway.Ack, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(gateway.Ack), args.Error(1)
}

/* ==================== TESTS ==================== */

var customers = []domain.Customer{
	{CustomerID: 1, FirstName: "Grace", LastName: "Admin", Email: "grace@rentcar.test", Role: domain.RoleAdmin, Password: "h1"},
	{CustomerID: 2, FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Role: domain.RoleUser, Password: "h2"},
	{CustomerID: 3, FirstName: "Bob", LastName: "Otieno", Email: "bob@example.com", Role: domain.RoleUser, Password: "h3"},
}

func TestService_ListUsers(t *testing.T) {
	tests := []struct {
		name    string
		filter  UserFilter
		wantIDs []int64
		total   int
	}{
		{"all", UserFilter{}, []int64{1, 2, 3}, 3},
		{"role filter", UserFilter{Role: domain.RoleUser}, []int64{2, 3}, 2},
		{"search by email", UserFilter{Search: "BOB@"}, []int64{3}, 1},
		{"search by full name", UserFilter{Search: "ann lee"}, []int64{2}, 1},
		{"second page", UserFilter{Page: 2, Limit: 2}, []int64{3}, 3},
		{"page past end", UserFilter{Page: 5, Limit: 2}, []int64{}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUsersGateway)
			users.On("GetUsers", mock.Anything, gateway.QueryOptions{}).Return(customers, nil)

			list, err := NewService(users).ListUsers(context.Background(), tt.filter, gateway.QueryOptions{})
			require.NoError(t, err)

			ids := make([]int64, 0, len(list.Users))
			for _, u := range list.Users {
				ids = append(ids, u.CustomerID)
				assert.Empty(t, u.Password)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.total, list.Total)
		})
	}
}

func TestService_ListUsers_Defaults(t *testing.T) {
	users := new(MockUsersGateway)
	users.On("GetUsers", mock.Anything, mock.Anything).Return(nil, &gateway.APIError{Status: 404})

	list, err := NewService(users).ListUsers(context.Background(), UserFilter{Limit: 500}, gateway.QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 20, list.Limit)
	assert.NotNil(t, list.Users)
	assert.Zero(t, list.Total)
}

func TestService_ListUsers_InvalidRole(t *testing.T) {
	users := new(MockUsersGateway)
	_, err := NewService(users).ListUsers(context.Background(), UserFilter{Role: "owner"}, gateway.QueryOptions{})
	assert.ErrorIs(t, err, ErrInvalidRole)
	users.AssertNotCalled(t, "GetUsers", mock.Anything, mock.Anything)
}

func TestService_DeleteUser(t *testing.T) {
	users := new(MockUsersGateway)
	users.On("DeleteUser", mock.Anything, int64(2)).Return(gateway.Ack{Success: true}, nil)
	users.On("DeleteUser", mock.Anything, int64(3)).Return(gateway.Ack{}, &gateway.APIError{Status: 500})
	svc := NewService(users)

	assert.ErrorIs(t, svc.DeleteUser(context.Background(), 1, 1), ErrSelfDelete)
	require.NoError(t, svc.DeleteUser(context.Background(), 1, 2))

	var apiErr *gateway.APIError
	require.ErrorAs(t, svc.DeleteUser(context.Background(), 1, 3), &apiErr)
	users.AssertNumberOfCalls(t, "DeleteUser", 2)
}
