// Package startup implements Multi-Device Startup (C6): the bulk
// population builder that fans creation out across a bounded worker pool,
// aggregates per-type results, and orchestrates shutdown.
package startup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"devicesim/internal/distribution"
	"devicesim/internal/domain"
	"devicesim/internal/pool"
)

// Spec is one (device_type, count) entry in a population request.
type Spec struct {
	DeviceType domain.DeviceType
	Count      int
}

// Options recognizes the options listed in the configuration surface:
// port_range, parallel_workers, per_task_timeout_ms. A zero PortRange
// defaults to 30000-60000, the same range as the startup config defaults.
type Options struct {
	PortRange         domain.PortRange
	ParallelWorkers   int
	PerTaskTimeout    time.Duration
}

func (o *Options) applyDefaults() {
	if o.PortRange.Start == 0 && o.PortRange.End == 0 {
		o.PortRange = domain.PortRange{Start: 30_000, End: 60_000}
	}
	if o.ParallelWorkers <= 0 {
		o.ParallelWorkers = 10
	}
	if o.PerTaskTimeout <= 0 {
		o.PerTaskTimeout = 10 * time.Second
	}
}

// Manager drives bulk population start/stop against a LazyDevicePool.
type Manager struct {
	devicePool *pool.LazyDevicePool

	mu        sync.Mutex
	active    int
	startedAt time.Time
	lastError error
}

// NewManager returns a Manager fronting devicePool.
func NewManager(devicePool *pool.LazyDevicePool) *Manager {
	return &Manager{devicePool: devicePool}
}

// StartDevicePopulation partitions opts.PortRange across specs in spec
// order, configures the pool's port assignments, and fans creation across
// a bounded worker pool. It reports success once total_devices reaches 0.8
// of the requested sum; otherwise it returns domain.ErrPopulationIncomplete
// alongside the partial StartupResult.
func (m *Manager) StartDevicePopulation(ctx context.Context, specs []Spec, opts Options) (domain.StartupResult, error) {
	opts.applyDefaults()

	mix := make(domain.DeviceMix, len(specs))
	requested := 0
	for _, s := range specs {
		mix[s.DeviceType] = s.Count
		requested += s.Count
	}

	pa, err := distribution.BuildPortAssignments(mix, opts.PortRange)
	if err != nil {
		m.recordError(err)
		return domain.StartupResult{}, err
	}
	m.devicePool.ConfigurePortAssignments(pa)

	result := domain.StartupResult{PerTypeCreated: make(map[domain.DeviceType]int)}
	var resultMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.ParallelWorkers)

	for _, s := range specs {
		ports := pa.Ports(s.DeviceType)
		for _, port := range ports {
			deviceType, port := s.DeviceType, port
			g.Go(func() error {
				taskCtx, cancel := context.WithTimeout(gctx, opts.PerTaskTimeout)
				defer cancel()

				_, err := m.devicePool.GetOrCreateDevice(taskCtx, port)
				resultMu.Lock()
				defer resultMu.Unlock()
				if err != nil {
					result.Failures = append(result.Failures, domain.StartupFailure{
						DeviceType: deviceType,
						Port:       port,
						Err:        err,
					})
					return nil // aggregate; never collapse the whole orchestration for one failure
				}
				result.PerTypeCreated[deviceType]++
				result.TotalDevices++
				return nil
			})
		}
	}

	// Every worker returns nil, so g.Wait reports no error here;
	// per-worker failures, including those caused by a canceled ctx, are
	// aggregated into result.Failures above and never propagate.
	if err := g.Wait(); err != nil {
		m.recordError(err)
		return result, err
	}

	m.mu.Lock()
	m.active = result.TotalDevices
	m.startedAt = time.Now()
	m.mu.Unlock()

	if requested > 0 && float64(result.TotalDevices) < 0.8*float64(requested) {
		incomplete := fmt.Errorf("%w: %d/%d devices started", domain.ErrPopulationIncomplete, result.TotalDevices, requested)
		m.recordError(incomplete)
		return result, incomplete
	}
	m.recordError(nil)
	return result, nil
}

// StartDeviceMix resolves name via distribution.GetDeviceMix and starts the
// corresponding population.
func (m *Manager) StartDeviceMix(ctx context.Context, name string, opts Options) (domain.StartupResult, error) {
	mix, err := distribution.GetDeviceMix(name)
	if err != nil {
		return domain.StartupResult{}, err
	}
	specs := make([]Spec, 0, len(mix))
	for _, dt := range domain.DeviceTypeOrder {
		if n, ok := mix[dt]; ok && n > 0 {
			specs = append(specs, Spec{DeviceType: dt, Count: n})
		}
	}
	return m.StartDevicePopulation(ctx, specs, opts)
}

// ShutdownDevicePopulation stops every actor in the pool and resets
// startup-tracked bookkeeping.
func (m *Manager) ShutdownDevicePopulation() {
	m.devicePool.ShutdownAllDevices()
	m.mu.Lock()
	m.active = 0
	m.mu.Unlock()
}

// GetStartupStatus reports the current population state.
func (m *Manager) GetStartupStatus() domain.StartupStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	status := domain.StartupStatus{
		ActiveDevices: m.active,
		LastError:     m.lastError,
	}
	if !m.startedAt.IsZero() {
		status.StartedAt = m.startedAt.UnixNano()
	}
	return status
}

func (m *Manager) recordError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastError = err
}
