package pool

import "devicesim/internal/domain"

type lifecycleKind int

const (
	deviceLifecycleCreate lifecycleKind = iota
	deviceLifecycleCrash
	deviceLifecycleEvict
	deviceLifecycleShutdownAll
)

func toDomainEventKind(k lifecycleKind) domain.LifecycleEventKind {
	switch k {
	case deviceLifecycleCreate:
		return domain.LifecycleCreate
	case deviceLifecycleCrash:
		return domain.LifecycleCrash
	case deviceLifecycleEvict:
		return domain.LifecycleEvict
	case deviceLifecycleShutdownAll:
		return domain.LifecycleShutdownAll
	default:
		return ""
	}
}
