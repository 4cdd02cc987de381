package sqlite

import (
	"context"
	"errors"

	"devicesim/internal/domain"
	"devicesim/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type runtimeSettingRepository struct {
	db *gorm.DB
}

// NewRuntimeSettingRepository creates a new runtime setting repository.
func NewRuntimeSettingRepository(db *gorm.DB) repository.RuntimeSettingRepository {
	return &runtimeSettingRepository{db: db}
}

func (r *runtimeSettingRepository) Get(ctx context.Context, key string) (string, error) {
	var setting domain.RuntimeSetting
	if err := r.db.WithContext(ctx).First(&setting, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return setting.Value, nil
}

func (r *runtimeSettingRepository) Set(ctx context.Context, key, value string) error {
	setting := domain.RuntimeSetting{Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&setting).Error
}

func (r *runtimeSettingRepository) GetAll(ctx context.Context) ([]domain.RuntimeSetting, error) {
	var settings []domain.RuntimeSetting
	if err := r.db.WithContext(ctx).Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *runtimeSettingRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Delete(&domain.RuntimeSetting{}, "key = ?", key).Error
}
