package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"rentcar/internal/domain"
)

// Cars is the fleet gateway.
type Cars struct {
	t *Transport
	c *Cache
}

var carsTags = []Tag{TagCars}

func (g *Cars) GetCars(ctx context.Context, opts QueryOptions) ([]domain.Car, error) {
	return query(ctx, g.c, Key("getCars", nil), carsTags, opts, g.fetchCars)
}

func (g *Cars) fetchCars(ctx context.Context) ([]domain.Car, error) {
	return getData[[]domain.Car](ctx, g.t, "/cars")
}

// SubscribeCars keeps the fleet list live, polling every interval when it is
// positive.
func (g *Cars) SubscribeCars(poll time.Duration) *Subscription {
	return subscribe(g.c, Key("getCars", nil), carsTags, poll, g.fetchCars)
}

func (g *Cars) GetCarByID(ctx context.Context, id int64, opts QueryOptions) (domain.Car, error) {
	return query(ctx, g.c, Key("getCarById", id), carsTags, opts, func(ctx context.Context) (domain.Car, error) {
		return getData[domain.Car](ctx, g.t, fmt.Sprintf("/car/%d", id))
	})
}

func (g *Cars) CreateCar(ctx context.Context, in domain.CarInput) (domain.Car, error) {
	return mutate(ctx, g.c, carsTags, func(ctx context.Context) (domain.Car, error) {
		var out domain.Car
		err := g.t.Do(ctx, http.MethodPost, "/car/register", in, &out)
		return out, err
	})
}

func (g *Cars) UpdateCar(ctx context.Context, id int64, in domain.CarInput) (domain.Car, error) {
	return mutate(ctx, g.c, carsTags, func(ctx context.Context) (domain.Car, error) {
		var out domain.Car
		err := g.t.Do(ctx, http.MethodPut, fmt.Sprintf("/car/%d", id), in, &out)
		return out, err
	})
}

func (g *Cars) DeleteCar(ctx context.Context, id int64) (Ack, error) {
	return mutate(ctx, g.c, carsTags, func(ctx context.Context) (Ack, error) {
		var out Ack
		err := g.t.Do(ctx, http.MethodDelete, fmt.Sprintf("/car/%d", id), nil, &out)
		return out, err
	})
}
