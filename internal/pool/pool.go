// Package pool implements the Lazy Device Pool (C5): an on-demand
// registry, factory, and reaper for device actors. It admits tens of
// thousands of ports, materializes actors only on first query, deduplicates
// concurrent creation with a single-flight group, evicts idle actors, and
// enforces a process-wide cap.
package pool

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"devicesim/internal/actor"
	"devicesim/internal/distribution"
	"devicesim/internal/domain"
	"devicesim/internal/simulate"
)

// Config recognizes the options listed in the configuration surface:
// idle_timeout_ms, max_devices, reaper_interval_ms.
type Config struct {
	IdleTimeout      time.Duration
	MaxDevices       int
	ReaperInterval   time.Duration
}

// DefaultConfig returns the documented defaults: a 30 minute idle timeout,
// a 10,000 device cap, and a reaper period of half the idle timeout.
func DefaultConfig() Config {
	idle := 30 * time.Minute
	return Config{
		IdleTimeout:    idle,
		MaxDevices:     10_000,
		ReaperInterval: idle / 2,
	}
}

func (c *Config) applyDefaults() {
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 30 * time.Minute
	}
	if c.MaxDevices <= 0 {
		c.MaxDevices = 10_000
	}
	if c.ReaperInterval <= 0 {
		c.ReaperInterval = c.IdleTimeout / 2
	}
}

// ProfileLoader supplies the {oid -> (ProfileDatum, BehaviorDescriptor)}
// bindings for a freshly materialized device, per the profile loader →
// actor collaborator contract. A real implementation resolves this from
// the builtin embedded catalog or a repository; tests can stub it.
type ProfileLoader interface {
	LoadProfile(deviceType domain.DeviceType) domain.BehaviorProfile
}

// LifecycleRecorder receives an append-only audit trail of pool-observed
// device lifecycle events. It is optional; a nil recorder is a silent
// no-op.
type LifecycleRecorder interface {
	RecordLifecycleEvent(ctx context.Context, event domain.LifecycleEventKind, port domain.Port, deviceType domain.DeviceType, detail string)
}

// LazyDevicePool is the registry + factory + reaper described by C5. The
// zero value is not usable; construct with New.
type LazyDevicePool struct {
	cfg      Config
	loader   ProfileLoader
	recorder LifecycleRecorder
	newSim   func() *simulate.Simulator

	mu       sync.RWMutex
	pa       *domain.PortAssignments
	actors   map[domain.Port]*actor.Device

	flight singleflight.Group

	statsMu             sync.Mutex
	devicesCreatedTotal uint64
	devicesCleanedUp    uint64
	peakCount           int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs a pool against a background context. Callers should call
// Shutdown when done to stop the reaper and every live actor.
func New(cfg Config, loader ProfileLoader, recorder LifecycleRecorder) *LazyDevicePool {
	cfg.applyDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &LazyDevicePool{
		cfg:      cfg,
		loader:   loader,
		recorder: recorder,
		newSim:   simulate.New,
		pa:       domain.NewPortAssignments(),
		actors:   make(map[domain.Port]*actor.Device),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// StartReaper launches the periodic idle-eviction task. It is safe to call
// at most once per pool.
func (p *LazyDevicePool) StartReaper() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.cfg.ReaperInterval)
		defer ticker.Stop()
		for {
			select {
			case <-p.ctx.Done():
				return
			case <-ticker.C:
				if n := p.CleanupIdleDevices(); n > 0 {
					log.Printf("[INFO] pool: reaper evicted %d idle device(s)", n)
				}
			}
		}
	}()
}

// ConfigurePortAssignments replaces the active assignments. Pre-existing
// devices are unaffected even if their port falls outside the new
// assignments.
func (p *LazyDevicePool) ConfigurePortAssignments(pa *domain.PortAssignments) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pa = pa
}

// GetOrCreateDevice returns the existing actor for port, or materializes
// one. At most one actor is created per port under concurrent callers.
func (p *LazyDevicePool) GetOrCreateDevice(ctx context.Context, port domain.Port) (*actor.Device, error) {
	p.mu.RLock()
	if d, ok := p.actors[port]; ok {
		p.mu.RUnlock()
		return d, nil
	}
	pa := p.pa
	p.mu.RUnlock()

	deviceType, ok := distribution.DetermineDeviceType(port, pa)
	if !ok {
		return nil, fmt.Errorf("%w: port %d", domain.ErrUnknownPortRange, port)
	}

	key := fmt.Sprintf("%d", port)
	v, err, _ := p.flight.Do(key, func() (any, error) {
		deviceID := fmt.Sprintf("%s-%d", deviceType, port)
		var profile domain.BehaviorProfile
		if p.loader != nil {
			profile = p.loader.LoadProfile(deviceType)
		}

		// Re-check under the single-flight group in case a previous
		// winner finished while this caller queued, and keep the
		// max_devices bound check, the spawn and the registry insert in
		// one p.mu critical section: the registry map is only ever
		// written under p.mu, and concurrent creates on distinct ports
		// must not all pass the bound check before any of them inserts.
		p.mu.Lock()
		if d, ok := p.actors[port]; ok {
			p.mu.Unlock()
			return d, nil
		}
		if len(p.actors) >= p.cfg.MaxDevices {
			p.mu.Unlock()
			return nil, fmt.Errorf("%w: at %d devices", domain.ErrPoolExhausted, p.cfg.MaxDevices)
		}

		d, spawnErr := actor.Spawn(p.ctx, deviceID, port, deviceType, profile, p.newSim(), p)
		if spawnErr != nil {
			p.mu.Unlock()
			return nil, fmt.Errorf("%w: %v", domain.ErrActorStartFailed, spawnErr)
		}

		p.actors[port] = d
		count := len(p.actors)
		p.mu.Unlock()

		p.statsMu.Lock()
		p.devicesCreatedTotal++
		if count > p.peakCount {
			p.peakCount = count
		}
		p.statsMu.Unlock()

		p.record(deviceLifecycleCreate, port, deviceType, deviceID)
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*actor.Device), nil
}

// ActorTerminated implements actor.TerminationObserver. It is invoked from
// the actor's own goroutine on exit, before the actor's Done channel
// closes, so the registry never outlives a crashed actor: a caller that
// has seen the actor terminate gets a fresh one from GetOrCreateDevice.
func (p *LazyDevicePool) ActorTerminated(port domain.Port, err error) {
	p.mu.Lock()
	_, ok := p.actors[port]
	deviceType, _ := distribution.DetermineDeviceType(port, p.pa)
	if ok {
		delete(p.actors, port)
	}
	p.mu.Unlock()
	if !ok {
		return
	}

	if err != nil {
		log.Printf("[ERROR] pool: actor port=%d crashed: %v", port, err)
		p.record(deviceLifecycleCrash, port, deviceType, err.Error())
	}
}

// ShutdownDevice stops the actor for port, if one exists. Idempotent.
func (p *LazyDevicePool) ShutdownDevice(port domain.Port) {
	p.mu.Lock()
	d, ok := p.actors[port]
	if ok {
		delete(p.actors, port)
	}
	p.mu.Unlock()
	if !ok {
		return
	}
	deviceType, _ := distribution.DetermineDeviceType(port, p.pa)
	d.Stop(time.Second)
	p.record(deviceLifecycleEvict, port, deviceType, "deliberate shutdown")
}

// ShutdownAllDevices stops every actor, clears the registry, and resets
// active_count to 0. Lifetime counters are not reset.
func (p *LazyDevicePool) ShutdownAllDevices() {
	p.mu.Lock()
	actors := p.actors
	p.actors = make(map[domain.Port]*actor.Device)
	p.mu.Unlock()

	var wg sync.WaitGroup
	for port, d := range actors {
		wg.Add(1)
		go func(port domain.Port, d *actor.Device) {
			defer wg.Done()
			d.Stop(time.Second)
		}(port, d)
	}
	wg.Wait()
	p.record(deviceLifecycleShutdownAll, 0, "", fmt.Sprintf("%d devices", len(actors)))
}

// CleanupIdleDevices shuts down every actor idle beyond the configured
// timeout and returns the number evicted.
func (p *LazyDevicePool) CleanupIdleDevices() int {
	now := time.Now().UnixNano()
	threshold := p.cfg.IdleTimeout.Nanoseconds()

	p.mu.RLock()
	var stale []domain.Port
	for port, d := range p.actors {
		if now-d.LastActivityNanos() >= threshold {
			stale = append(stale, port)
		}
	}
	p.mu.RUnlock()

	for _, port := range stale {
		p.mu.Lock()
		d, ok := p.actors[port]
		if ok {
			delete(p.actors, port)
		}
		p.mu.Unlock()
		if !ok {
			continue
		}
		deviceType, _ := distribution.DetermineDeviceType(port, p.pa)
		d.Stop(time.Second)
		p.statsMu.Lock()
		p.devicesCleanedUp++
		p.statsMu.Unlock()
		p.record(deviceLifecycleEvict, port, deviceType, "idle timeout")
	}
	return len(stale)
}

// GetStats returns a point-in-time snapshot of PoolStats.
func (p *LazyDevicePool) GetStats() domain.PoolStats {
	p.mu.RLock()
	active := len(p.actors)
	p.mu.RUnlock()

	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	return domain.PoolStats{
		ActiveCount:           active,
		DevicesCreatedTotal:   p.devicesCreatedTotal,
		DevicesCleanedUpTotal: p.devicesCleanedUp,
		PeakCount:             p.peakCount,
	}
}

// Shutdown stops the reaper and every live actor, and releases the pool's
// background context.
func (p *LazyDevicePool) Shutdown() {
	p.cancel()
	p.ShutdownAllDevices()
	p.wg.Wait()
}

func (p *LazyDevicePool) record(kind lifecycleKind, port domain.Port, deviceType domain.DeviceType, detail string) {
	if p.recorder == nil {
		return
	}
	p.recorder.RecordLifecycleEvent(context.Background(), toDomainEventKind(kind), port, deviceType, detail)
}
