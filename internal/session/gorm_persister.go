package session

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type persistedState struct {
	Key       string    `gorm:"column:persist_key;primaryKey;size:128"`
	Version   int       `gorm:"column:version;not null"`
	Blob      string    `gorm:"column:blob;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (persistedState) TableName() string { return "persisted_state" }

// GormPersister keeps session blobs in a SQL table.
type GormPersister struct {
	db *gorm.DB
}

func NewGormPersister(db *gorm.DB) *GormPersister {
	return &GormPersister{db: db}
}

func (p *GormPersister) Migrate() error {
	return p.db.AutoMigrate(&persistedState{})
}

func (p *GormPersister) Load(ctx context.Context, key string) ([]byte, int, error) {
	var row persistedState
	err := p.db.WithContext(ctx).Where("persist_key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, ErrNotPersisted
	}
	if err != nil {
		return nil, 0, err
	}
	return []byte(row.Blob), row.Version, nil
}

func (p *GormPersister) Save(ctx context.Context, key string, blob []byte, version int) error {
	row := persistedState{Key: key, Version: version, Blob: string(blob), UpdatedAt: time.Now().UTC()}
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "persist_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"version", "blob", "updated_at"}),
	}).Create(&row).Error
}

func (p *GormPersister) Delete(ctx context.Context, key string) error {
	return p.db.WithContext(ctx).Where("persist_key = ?", key).Delete(&persistedState{}).Error
}

// Touch moves updated_at of the blobs under keys forward to at.
func (p *GormPersister) Touch(ctx context.Context, at time.Time, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return p.db.WithContext(ctx).Model(&persistedState{}).
		Where("persist_key IN ?", keys).
		Update("updated_at", at.UTC()).Error
}

// DeleteOlderThan drops blobs neither written nor touched since cutoff.
func (p *GormPersister) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := p.db.WithContext(ctx).Where("updated_at < ?", cutoff).Delete(&persistedState{})
	return res.RowsAffected, res.Error
}
