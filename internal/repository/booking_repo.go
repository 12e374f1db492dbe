package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"rentcar/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Dates are YYYY-MM-DD text, which orders correctly as strings.
type bookingModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	CarID           int64     `gorm:"column:car_id;index"`
	CustomerID      int64     `gorm:"column:customer_id;index"`
	RentalStartDate string    `gorm:"column:rental_start_date;type:varchar(10)"`
	RentalEndDate   string    `gorm:"column:rental_end_date;type:varchar(10)"`
	TotalAmount     string    `gorm:"column:total_amount;type:varchar(32)"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) domain.Booking {
	return domain.Booking{
		BookingID:       m.ID,
		CarID:           m.CarID,
		CustomerID:      m.CustomerID,
		RentalStartDate: m.RentalStartDate,
		RentalEndDate:   m.RentalEndDate,
		TotalAmount:     m.TotalAmount,
	}
}

func toDomainBookings(ms []bookingModel) []domain.Booking {
	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		out = append(out, toDomainBooking(m))
	}
	return out
}

func (r *BookingRepository) Create(ctx context.Context, in domain.BookingInput) (domain.Booking, error) {
	m := bookingModel{
		CarID:           in.CarID,
		CustomerID:      in.CustomerID,
		RentalStartDate: in.RentalStartDate,
		RentalEndDate:   in.RentalEndDate,
		TotalAmount:     in.TotalAmount,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Booking{}, translate(err)
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.Booking{}, translate(err)
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	var ms []bookingModel
	if err := r.db.WithContext(ctx).Order("id").Find(&ms).Error; err != nil {
		return nil, err
	}
	return toDomainBookings(ms), nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	var ms []bookingModel
	tx := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("rental_start_date DESC, id").
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(ms), nil
}

// Overlaps reports whether the car has another booking whose [start, end)
// range intersects the given one. exceptID excludes the booking being edited.
func (r *BookingRepository) Overlaps(ctx context.Context, carID int64, start, end string, exceptID int64) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("car_id = ? AND id <> ?", carID, exceptID).
		Where("rental_start_date < ? AND rental_end_date > ?", end, start).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

// Update applies the non-nil fields of upd.
func (r *BookingRepository) Update(ctx context.Context, id int64, upd domain.BookingUpdate) (domain.Booking, error) {
	fields := map[string]any{}
	if upd.RentalStartDate != nil {
		fields["rental_start_date"] = *upd.RentalStartDate
	}
	if upd.RentalEndDate != nil {
		fields["rental_end_date"] = *upd.RentalEndDate
	}
	if upd.TotalAmount != nil {
		fields["total_amount"] = *upd.TotalAmount
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m bookingModel
		if err := tx.First(&m, id).Error; err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		return tx.Model(&m).Updates(fields).Error
	})
	if err != nil {
		return domain.Booking{}, translate(err)
	}
	return r.GetByID(ctx, id)
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&bookingModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
