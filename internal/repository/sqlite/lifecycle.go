package sqlite

import (
	"context"
	"time"

	"devicesim/internal/domain"
	"devicesim/internal/repository"

	"gorm.io/gorm"
)

type lifecycleEventRepository struct {
	db *gorm.DB
}

// NewLifecycleEventRepository creates a new lifecycle-event audit trail
// repository.
func NewLifecycleEventRepository(db *gorm.DB) repository.LifecycleEventRepository {
	return &lifecycleEventRepository{db: db}
}

func (r *lifecycleEventRepository) Create(ctx context.Context, event *domain.LifecycleEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *lifecycleEventRepository) GetAll(ctx context.Context, filter domain.LifecycleEventFilter) ([]domain.LifecycleEvent, int64, error) {
	var events []domain.LifecycleEvent
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.LifecycleEvent{})

	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.Port != nil {
		query = query.Where("port = ?", *filter.Port)
	}
	if filter.StartTime != nil {
		query = query.Where("occurred_at >= ?", filter.StartTime)
	}
	if filter.EndTime != nil {
		query = query.Where("occurred_at <= ?", filter.EndTime)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("occurred_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	if err := query.Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *lifecycleEventRepository) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().Add(-age)
	result := r.db.WithContext(ctx).Where("occurred_at < ?", cutoff).Delete(&domain.LifecycleEvent{})
	return result.RowsAffected, result.Error
}
