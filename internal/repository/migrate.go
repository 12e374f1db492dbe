package repository

import "gorm.io/gorm"

// Migrate creates or updates the backend tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&customerModel{}, &carModel{}, &bookingModel{})
}
