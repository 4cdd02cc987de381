package domain

import "time"

// LifecycleEventKind is the closed tag set of pool-observed device
// lifecycle events, extending the pool's process-monitoring of actor
// termination into an operator-visible audit trail.
type LifecycleEventKind string

const (
	LifecycleCreate      LifecycleEventKind = "create"
	LifecycleCrash       LifecycleEventKind = "crash"
	LifecycleEvict       LifecycleEventKind = "evict"
	LifecycleShutdownAll LifecycleEventKind = "shutdown_all"
)

// LifecycleEvent is one row of the lifecycle audit trail, adapted from a
// trap-log-shaped table: the pool appends one per creation, crash,
// deliberate eviction, and bulk shutdown.
type LifecycleEvent struct {
	ID         string     `json:"id" gorm:"primaryKey;type:text"`
	Kind       LifecycleEventKind `json:"kind" gorm:"not null;type:text;index"`
	Port       Port       `json:"port" gorm:"index"`
	DeviceType DeviceType `json:"device_type" gorm:"type:text"`
	Detail     string     `json:"detail" gorm:"type:text"`
	OccurredAt time.Time  `json:"occurred_at" gorm:"index"`
}

// LifecycleEventFilter narrows a lifecycle event query.
type LifecycleEventFilter struct {
	Kind      LifecycleEventKind
	Port      *Port
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int
	Offset    int
}
