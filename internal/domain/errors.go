package domain

import "errors"

// Error kinds recognized across the pool, startup, and actor subsystems.
// Callers should use errors.Is against these sentinels;
// ActorStartFailed and ActorCrashed are typically wrapped with context via
// fmt.Errorf("...: %w", ...).
var (
	ErrUnknownPortRange   = errors.New("devicesim: port is not within any configured assignment")
	ErrPoolExhausted      = errors.New("devicesim: creating a device would exceed max_devices")
	ErrInsufficientPorts  = errors.New("devicesim: candidate port range is smaller than the requested mix")
	ErrActorStartFailed   = errors.New("devicesim: device actor failed to start")
	ErrActorCrashed       = errors.New("devicesim: device actor terminated unexpectedly")
	ErrPopulationIncomplete = errors.New("devicesim: startup did not reach the 0.8 success threshold")
	ErrInvalidBehavior    = errors.New("devicesim: behavior descriptor is not recognized")
)
