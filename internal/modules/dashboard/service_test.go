package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentcar/internal/domain"
	"rentcar/internal/gateway"
)

type mockGateways struct {
	mock.Mock
}

func (m *mockGateways) GetCars(ctx context.Context, opts gateway.QueryOptions) ([]domain.Car, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Car), args.Error(1)
}

func (m *mockGateways) GetAllBookings(ctx context.Context, opts gateway.QueryOptions) ([]domain.Booking, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *mockGateways) GetBookingsByCustomerID(ctx context.Context, customerID int64, opts gateway.QueryOptions) ([]domain.Booking, error) {
	args := m.Called(ctx, customerID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *mockGateways) GetUsers(ctx context.Context, opts gateway.QueryOptions) ([]domain.Customer, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func newTestService(m *mockGateways) *Service {
	return NewService(m, m, m, func() time.Time { return june10 })
}

func TestService_AdminAnalytics(t *testing.T) {
	m := new(mockGateways)
	m.On("GetCars", mock.Anything, gateway.QueryOptions{}).Return(testCars, nil)
	m.On("GetAllBookings", mock.Anything, gateway.QueryOptions{}).Return(nil, &gateway.APIError{Status: 404})
	m.On("GetUsers", mock.Anything, gateway.QueryOptions{}).Return([]domain.Customer{{CustomerID: 1}}, nil)

	a, err := newTestService(m).AdminAnalytics(context.Background(), "", gateway.QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPeriod, a.Period)
	assert.Equal(t, 3, a.Overview.TotalCars)
	assert.Zero(t, a.Overview.TotalBookings)
	assert.Equal(t, 1, a.Overview.TotalUsers)
}

func TestService_AdminAnalytics_UpstreamFailure(t *testing.T) {
	m := new(mockGateways)
	m.On("GetCars", mock.Anything, mock.Anything).Return(testCars, nil)
	m.On("GetAllBookings", mock.Anything, mock.Anything).Return(nil, gateway.ErrUnavailable)
	m.On("GetUsers", mock.Anything, mock.Anything).Return(nil, nil)

	_, err := newTestService(m).AdminAnalytics(context.Background(), "6months", gateway.QueryOptions{})
	assert.ErrorIs(t, err, gateway.ErrUnavailable)
}

func TestService_UserAnalytics(t *testing.T) {
	m := new(mockGateways)
	opts := gateway.QueryOptions{RefetchOnMount: true}
	m.On("GetCars", mock.Anything, opts).Return(testCars, nil)
	m.On("GetBookingsByCustomerID", mock.Anything, int64(7), opts).Return(testBookings[:2], nil)

	u, err := newTestService(m).UserAnalytics(context.Background(), 7, "12months", opts)
	require.NoError(t, err)
	assert.Equal(t, 2, u.Overview.TotalBookings)
	assert.Len(t, u.MonthlySpending, 12)
	m.AssertNotCalled(t, "GetAllBookings", mock.Anything, mock.Anything)
}

func TestService_InvalidPeriod(t *testing.T) {
	m := new(mockGateways)
	_, err := newTestService(m).UserAnalytics(context.Background(), 7, "forever", gateway.QueryOptions{})
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	m.AssertNotCalled(t, "GetCars", mock.Anything, mock.Anything)
}
