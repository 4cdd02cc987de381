package sqlite

import (
	"context"

	"devicesim/internal/domain"
	"devicesim/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type behaviorProfileRepository struct {
	db *gorm.DB
}

// NewBehaviorProfileRepository creates a new behavior-profile catalog
// repository.
func NewBehaviorProfileRepository(db *gorm.DB) repository.BehaviorProfileRepository {
	return &behaviorProfileRepository{db: db}
}

func (r *behaviorProfileRepository) Upsert(ctx context.Context, record *domain.BehaviorProfileRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_type"}},
		UpdateAll: true,
	}).Create(record).Error
}

func (r *behaviorProfileRepository) GetByDeviceType(ctx context.Context, deviceType domain.DeviceType) (*domain.BehaviorProfileRecord, error) {
	var record domain.BehaviorProfileRecord
	if err := r.db.WithContext(ctx).First(&record, "device_type = ?", deviceType).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *behaviorProfileRepository) GetAll(ctx context.Context) ([]domain.BehaviorProfileRecord, error) {
	var records []domain.BehaviorProfileRecord
	if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *behaviorProfileRepository) Delete(ctx context.Context, deviceType domain.DeviceType) error {
	return r.db.WithContext(ctx).Delete(&domain.BehaviorProfileRecord{}, "device_type = ?", deviceType).Error
}
