package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"rentcar/internal/domain"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

type customerModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	FirstName    string    `gorm:"column:first_name"`
	LastName     string    `gorm:"column:last_name"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	PhoneNumber  *string   `gorm:"column:phone_number"`
	Address      *string   `gorm:"column:address"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role;default:user"`
	IsVerified   bool      `gorm:"column:is_verified"`
	VerifyCode   *string   `gorm:"column:verification_code"`
	ImageURL     *string   `gorm:"column:image_url"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (customerModel) TableName() string { return "customers" }

// Credentials is what login needs beyond the public record.
type Credentials struct {
	Customer     domain.Customer
	PasswordHash string
	VerifyCode   string
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toDomainCustomer(m customerModel) domain.Customer {
	return domain.Customer{
		CustomerID:  m.ID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Email:       m.Email,
		PhoneNumber: deref(m.PhoneNumber),
		Address:     deref(m.Address),
		Role:        domain.Role(m.Role),
		IsVerified:  m.IsVerified,
		ImageURL:    deref(m.ImageURL),
	}
}

func normaliseEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// Create stores a customer with its credential hash and pending
// verification code.
func (r *CustomerRepository) Create(ctx context.Context, c domain.Customer, passwordHash, verifyCode string) (domain.Customer, error) {
	role := c.Role
	if role == "" {
		role = domain.RoleUser
	}
	m := customerModel{
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        normaliseEmail(c.Email),
		PhoneNumber:  optional(c.PhoneNumber),
		Address:      optional(c.Address),
		PasswordHash: passwordHash,
		Role:         string(role),
		IsVerified:   c.IsVerified,
		VerifyCode:   optional(verifyCode),
		ImageURL:     optional(c.ImageURL),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Customer{}, translate(err)
	}
	return toDomainCustomer(m), nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (domain.Customer, error) {
	var m customerModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.Customer{}, translate(err)
	}
	return toDomainCustomer(m), nil
}

func (r *CustomerRepository) GetCredentials(ctx context.Context, email string) (Credentials, error) {
	var m customerModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", normaliseEmail(email)).
		First(&m)
	if tx.Error != nil {
		return Credentials{}, translate(tx.Error)
	}
	return Credentials{Customer: toDomainCustomer(m), PasswordHash: m.PasswordHash, VerifyCode: deref(m.VerifyCode)}, nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	var ms []customerModel
	if err := r.db.WithContext(ctx).Order("id").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Customer, 0, len(ms))
	for _, m := range ms {
		out = append(out, toDomainCustomer(m))
	}
	return out, nil
}

// Update applies the non-nil fields of upd.
func (r *CustomerRepository) Update(ctx context.Context, id int64, upd domain.CustomerUpdate) (domain.Customer, error) {
	fields := map[string]any{}
	if upd.FirstName != nil {
		fields["first_name"] = *upd.FirstName
	}
	if upd.LastName != nil {
		fields["last_name"] = *upd.LastName
	}
	if upd.PhoneNumber != nil {
		fields["phone_number"] = optional(*upd.PhoneNumber)
	}
	if upd.Address != nil {
		fields["address"] = optional(*upd.Address)
	}
	if upd.ImageURL != nil {
		fields["image_url"] = optional(*upd.ImageURL)
	}
	if upd.Role != nil {
		fields["role"] = string(*upd.Role)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m customerModel
		if err := tx.First(&m, id).Error; err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		return tx.Model(&m).Updates(fields).Error
	})
	if err != nil {
		return domain.Customer{}, translate(err)
	}
	return r.GetByID(ctx, id)
}

// MarkVerified clears the pending code.
func (r *CustomerRepository) MarkVerified(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Model(&customerModel{}).Where("id = ?", id).
		Updates(map[string]any{"is_verified": true, "verification_code": nil})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the customer and their bookings.
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&bookingModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&customerModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&customerModel{}).Count(&n).Error
	return n, err
}
