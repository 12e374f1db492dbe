package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"rentcar/internal/domain"
)

type CarRepository struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) *CarRepository {
	return &CarRepository{db: db}
}

// Rates are stored as text so the decimal string round-trips unchanged on
// every driver.
type carModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	CarModel     string    `gorm:"column:car_model"`
	Year         string    `gorm:"column:year"`
	Color        *string   `gorm:"column:color"`
	RentalRate   string    `gorm:"column:rental_rate;type:varchar(32)"`
	Availability bool      `gorm:"column:availability"`
	LocationID   *int64    `gorm:"column:location_id"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (carModel) TableName() string { return "cars" }

func toDomainCar(m carModel) domain.Car {
	return domain.Car{
		CarID:        m.ID,
		CarModel:     m.CarModel,
		Year:         m.Year,
		Color:        deref(m.Color),
		RentalRate:   m.RentalRate,
		Availability: m.Availability,
		LocationID:   m.LocationID,
	}
}

func toCarModel(in domain.CarInput) carModel {
	available := true
	if in.Availability != nil {
		available = *in.Availability
	}
	return carModel{
		CarModel:     in.CarModel,
		Year:         in.Year,
		Color:        optional(in.Color),
		RentalRate:   in.RentalRate,
		Availability: available,
		LocationID:   in.LocationID,
	}
}

func (r *CarRepository) Create(ctx context.Context, in domain.CarInput) (domain.Car, error) {
	m := toCarModel(in)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Car{}, translate(err)
	}
	return toDomainCar(m), nil
}

func (r *CarRepository) GetByID(ctx context.Context, id int64) (domain.Car, error) {
	var m carModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.Car{}, translate(err)
	}
	return toDomainCar(m), nil
}

func (r *CarRepository) List(ctx context.Context) ([]domain.Car, error) {
	var ms []carModel
	if err := r.db.WithContext(ctx).Order("id").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Car, 0, len(ms))
	for _, m := range ms {
		out = append(out, toDomainCar(m))
	}
	return out, nil
}

// Update replaces the car's fields. Availability is left alone when nil.
func (r *CarRepository) Update(ctx context.Context, id int64, in domain.CarInput) (domain.Car, error) {
	fields := map[string]any{
		"car_model":   in.CarModel,
		"year":        in.Year,
		"color":       optional(in.Color),
		"rental_rate": in.RentalRate,
		"location_id": in.LocationID,
	}
	if in.Availability != nil {
		fields["availability"] = *in.Availability
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m carModel
		if err := tx.First(&m, id).Error; err != nil {
			return err
		}
		return tx.Model(&m).Updates(fields).Error
	})
	if err != nil {
		return domain.Car{}, translate(err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes the car and its bookings.
func (r *CarRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("car_id = ?", id).Delete(&bookingModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&carModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *CarRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&carModel{}).Count(&n).Error
	return n, err
}
