package repository

import (
	"context"
	"time"

	"devicesim/internal/domain"
)

// BehaviorProfileRepository defines the interface for behavior-profile
// catalog persistence, keyed by device type.
type BehaviorProfileRepository interface {
	Upsert(ctx context.Context, record *domain.BehaviorProfileRecord) error
	GetByDeviceType(ctx context.Context, deviceType domain.DeviceType) (*domain.BehaviorProfileRecord, error)
	GetAll(ctx context.Context) ([]domain.BehaviorProfileRecord, error)
	Delete(ctx context.Context, deviceType domain.DeviceType) error
}

// LifecycleEventRepository defines the interface for the lifecycle audit
// trail persistence.
type LifecycleEventRepository interface {
	Create(ctx context.Context, event *domain.LifecycleEvent) error
	GetAll(ctx context.Context, filter domain.LifecycleEventFilter) ([]domain.LifecycleEvent, int64, error)
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

// RuntimeSettingRepository defines the interface for runtime setting
// override persistence.
type RuntimeSettingRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	GetAll(ctx context.Context) ([]domain.RuntimeSetting, error)
	Delete(ctx context.Context, key string) error
}
