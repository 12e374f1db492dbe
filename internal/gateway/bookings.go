package gateway

import (
	"context"
	"fmt"
	"net/http"

	"rentcar/internal/domain"
)

// Bookings is the reservation gateway.
type Bookings struct {
	t *Transport
	c *Cache
}

var bookingsTags = []Tag{TagBookings}

func (g *Bookings) GetAllBookings(ctx context.Context, opts QueryOptions) ([]domain.Booking, error) {
	return query(ctx, g.c, Key("getAllBookings", nil), bookingsTags, opts, g.fetchAll)
}

func (g *Bookings) fetchAll(ctx context.Context) ([]domain.Booking, error) {
	return getData[[]domain.Booking](ctx, g.t, "/bookings")
}

func (g *Bookings) SubscribeAllBookings() *Subscription {
	return subscribe(g.c, Key("getAllBookings", nil), bookingsTags, 0, g.fetchAll)
}

func (g *Bookings) GetBookingByID(ctx context.Context, id int64, opts QueryOptions) (domain.Booking, error) {
	return query(ctx, g.c, Key("getBookingById", id), bookingsTags, opts, func(ctx context.Context) (domain.Booking, error) {
		return getData[domain.Booking](ctx, g.t, fmt.Sprintf("/booking/%d", id))
	})
}

func (g *Bookings) GetBookingsByCustomerID(ctx context.Context, customerID int64, opts QueryOptions) ([]domain.Booking, error) {
	return query(ctx, g.c, Key("getBookingsByCustomerId", customerID), bookingsTags, opts, g.fetchByCustomer(customerID))
}

func (g *Bookings) fetchByCustomer(customerID int64) func(context.Context) ([]domain.Booking, error) {
	return func(ctx context.Context) ([]domain.Booking, error) {
		return getData[[]domain.Booking](ctx, g.t, fmt.Sprintf("/bookings/customer/%d", customerID))
	}
}

// SubscribeCustomerBookings keeps one customer's list fresh after invalidation.
func (g *Bookings) SubscribeCustomerBookings(customerID int64) *Subscription {
	return subscribe(g.c, Key("getBookingsByCustomerId", customerID), bookingsTags, 0, g.fetchByCustomer(customerID))
}

func (g *Bookings) CreateBooking(ctx context.Context, in domain.BookingInput) (domain.Booking, error) {
	return mutate(ctx, g.c, bookingsTags, func(ctx context.Context) (domain.Booking, error) {
		var out domain.Booking
		err := g.t.Do(ctx, http.MethodPost, "/booking/register", in, &out)
		return out, err
	})
}

func (g *Bookings) UpdateBooking(ctx context.Context, id int64, upd domain.BookingUpdate) (domain.Booking, error) {
	return mutate(ctx, g.c, bookingsTags, func(ctx context.Context) (domain.Booking, error) {
		var out domain.Booking
		err := g.t.Do(ctx, http.MethodPut, fmt.Sprintf("/booking/%d", id), upd, &out)
		return out, err
	})
}

func (g *Bookings) DeleteBooking(ctx context.Context, id int64) (Ack, error) {
	return mutate(ctx, g.c, bookingsTags, func(ctx context.Context) (Ack, error) {
		var out Ack
		err := g.t.Do(ctx, http.MethodDelete, fmt.Sprintf("/booking/%d", id), nil, &out)
		return out, err
	})
}
