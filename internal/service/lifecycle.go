package service

import (
	"context"
	"log"
	"time"

	"devicesim/internal/domain"
	"devicesim/internal/repository"

	"github.com/google/uuid"
)

// LifecycleEventService records and serves the pool's device lifecycle
// audit trail. It implements pool.LifecycleRecorder.
type LifecycleEventService struct {
	repo repository.LifecycleEventRepository
}

// NewLifecycleEventService creates a new lifecycle event service.
func NewLifecycleEventService(repo repository.LifecycleEventRepository) *LifecycleEventService {
	return &LifecycleEventService{repo: repo}
}

// RecordLifecycleEvent implements pool.LifecycleRecorder. It logs and best-
// effort persists the event; persistence failures are logged, not
// propagated, so a database hiccup never terminates a device actor.
func (s *LifecycleEventService) RecordLifecycleEvent(ctx context.Context, kind domain.LifecycleEventKind, port domain.Port, deviceType domain.DeviceType, detail string) {
	event := domain.LifecycleEvent{
		ID:         uuid.New().String(),
		Kind:       kind,
		Port:       port,
		DeviceType: deviceType,
		Detail:     detail,
		OccurredAt: time.Now(),
	}
	if s.repo == nil {
		return
	}
	if err := s.repo.Create(ctx, &event); err != nil {
		log.Printf("[ERROR] lifecycle: failed to persist event kind=%s port=%d: %v", kind, port, err)
	}
}

// GetAll retrieves lifecycle events matching filter.
func (s *LifecycleEventService) GetAll(ctx context.Context, filter domain.LifecycleEventFilter) ([]domain.LifecycleEvent, int64, error) {
	return s.repo.GetAll(ctx, filter)
}

// DeleteOlderThan purges lifecycle events older than age and returns the
// number deleted.
func (s *LifecycleEventService) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	return s.repo.DeleteOlderThan(ctx, age)
}
