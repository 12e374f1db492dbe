package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentcar/internal/domain"
	"rentcar/internal/gateway"
	"rentcar/internal/wizard"
)

type MockCars struct {
	mock.Mock
}

func (m *MockCars) GetCars(ctx context.Context, opts gateway.QueryOptions) ([]domain.Car, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Car), args.Error(1)
}

func (m *MockCars) GetCarByID(ctx context.Context, id int64, opts gateway.QueryOptions) (domain.Car, error) {
	args := m.Called(ctx, id, opts)
	return args.Get(0).(domain.Car), args.Error(1)
}

type MockCreator struct {
	mock.Mock
}

func (m *MockCreator) CreateBooking(ctx context.Context, in domain.BookingInput) (domain.Booking, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.Booking), args.Error(1)
}

var (
	airport   = int64(1)
	locations = []domain.Location{{LocationID: 1, LocationName: "Nairobi Airport"}}
	fleet     = []domain.Car{
		{CarID: 5, CarModel: "Toyota Corolla", RentalRate: "45.00", Availability: true, LocationID: &airport},
		{CarID: 6, CarModel: "Subaru Forester", RentalRate: "80.00", Availability: false},
	}
)

func strp(s string) *string { return &s }

func newService(cars *MockCars, creator *MockCreator) *Service {
	now := func() time.Time { return time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC) }
	return NewService(wizard.New(now, locations), cars, creator, locations)
}

func TestService_CarOptions(t *testing.T) {
	cars := new(MockCars)
	cars.On("GetCars", mock.Anything, gateway.QueryOptions{}).Return(fleet, nil)
	svc := newService(cars, new(MockCreator))

	opts, err := svc.CarOptions(context.Background())
	require.NoError(t, err)
	require.Len(t, opts, 1, "unavailable cars are hidden")
	assert.EqualValues(t, 5, opts[0].CarID)
	assert.Empty(t, opts[0].EstimatedTotal)
	require.NotNil(t, opts[0].Location)
	assert.Equal(t, "Nairobi Airport", opts[0].Location.LocationName)

	_, err = svc.Update(wizard.Patch{RentalStartDate: strp("2025-06-10"), RentalEndDate: strp("2025-06-13")})
	require.NoError(t, err)
	opts, err = svc.CarOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "135.00", opts[0].EstimatedTotal)
}

func TestService_FullFlow(t *testing.T) {
	cars := new(MockCars)
	creator := new(MockCreator)
	svc := newService(cars, creator)
	ctx := context.Background()

	cars.On("GetCarByID", mock.Anything, int64(5), gateway.QueryOptions{}).Return(fleet[0], nil)
	creator.On("CreateBooking", mock.Anything, domain.BookingInput{
		CarID: 5, CustomerID: 3, RentalStartDate: "2025-06-10", RentalEndDate: "2025-06-13", TotalAmount: "135.00",
	}).Return(domain.Booking{BookingID: 21, TotalAmount: "135.00"}, nil)

	_, err := svc.Update(wizard.Patch{RentalStartDate: strp("2025-06-10"), RentalEndDate: strp("2025-06-13")})
	require.NoError(t, err)
	_, err = svc.Next()
	require.NoError(t, err)

	view, err := svc.SelectCar(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "135.00", view.Quote.AmountString())

	_, err = svc.Next()
	require.NoError(t, err)
	_, err = svc.Update(wizard.Patch{
		FirstName: strp("Ann"), LastName: strp("Wanjiru"), Email: strp("ann@example.com"),
		PhoneNumber: strp("0700000001"), Address: strp("Ngong Road"),
	})
	require.NoError(t, err)
	_, err = svc.Next()
	require.NoError(t, err)

	view, err = svc.Submit(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepSubmitted, view.Step)
	assert.EqualValues(t, 21, view.Booking.BookingID)

	view, err = svc.Reset()
	require.NoError(t, err)
	assert.Equal(t, wizard.StepRentalDetails, view.Step)
	creator.AssertExpectations(t)
}

func TestService_SelectCarNotFound(t *testing.T) {
	cars := new(MockCars)
	cars.On("GetCarByID", mock.Anything, int64(99), gateway.QueryOptions{}).
		Return(domain.Car{}, &gateway.APIError{Status: 404})
	svc := newService(cars, new(MockCreator))

	_, err := svc.SelectCar(context.Background(), 99)
	assert.ErrorIs(t, err, ErrCarNotFound)
}

func TestService_NextReturnsViewWithErrors(t *testing.T) {
	svc := newService(new(MockCars), new(MockCreator))
	view, err := svc.Next()
	require.Error(t, err)
	assert.Equal(t, "Pickup date is required", view.Errors["rentalStartDate"])
}
