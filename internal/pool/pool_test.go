package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devicesim/internal/actor"
	"devicesim/internal/domain"
)

type stubLoader struct{}

func (stubLoader) LoadProfile(domain.DeviceType) domain.BehaviorProfile {
	return domain.BehaviorProfile{}
}

type recordedEvent struct {
	kind   domain.LifecycleEventKind
	port   domain.Port
	detail string
}

type stubRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *stubRecorder) RecordLifecycleEvent(_ context.Context, kind domain.LifecycleEventKind, port domain.Port, _ domain.DeviceType, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{kind: kind, port: port, detail: detail})
}

func (r *stubRecorder) count(kind domain.LifecycleEventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.kind == kind {
			n++
		}
	}
	return n
}

func cableModemAssignments(start, end domain.Port) *domain.PortAssignments {
	pa := domain.NewPortAssignments()
	pa.Add(domain.DeviceCableModem, start, end)
	return pa
}

func TestGetOrCreateDevice_SameHandleOnRepeat(t *testing.T) {
	p := New(Config{IdleTimeout: time.Hour}, stubLoader{}, nil)
	t.Cleanup(p.Shutdown)
	p.ConfigurePortAssignments(cableModemAssignments(30000, 30099))

	ctx := context.Background()
	d1, err := p.GetOrCreateDevice(ctx, 30050)
	require.NoError(t, err)
	d2, err := p.GetOrCreateDevice(ctx, 30050)
	require.NoError(t, err)

	assert.Same(t, d1, d2)

	stats := p.GetStats()
	assert.Equal(t, 1, stats.ActiveCount)
	assert.Equal(t, uint64(1), stats.DevicesCreatedTotal)
}

func TestGetOrCreateDevice_UnknownPortRange(t *testing.T) {
	p := New(Config{}, stubLoader{}, nil)
	t.Cleanup(p.Shutdown)
	p.ConfigurePortAssignments(cableModemAssignments(30000, 30099))

	_, err := p.GetOrCreateDevice(context.Background(), 9)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownPortRange)
}

func TestGetOrCreateDevice_PoolExhausted(t *testing.T) {
	p := New(Config{MaxDevices: 1}, stubLoader{}, nil)
	t.Cleanup(p.Shutdown)
	p.ConfigurePortAssignments(cableModemAssignments(30000, 30099))

	ctx := context.Background()
	_, err := p.GetOrCreateDevice(ctx, 30000)
	require.NoError(t, err)

	_, err = p.GetOrCreateDevice(ctx, 30001)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPoolExhausted)
}

func TestGetOrCreateDevice_ConcurrentStampedeSinglePort(t *testing.T) {
	p := New(Config{IdleTimeout: time.Hour}, stubLoader{}, nil)
	t.Cleanup(p.Shutdown)
	p.ConfigurePortAssignments(cableModemAssignments(30000, 30099))

	const n = 50
	handles := make([]*actor.Device, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := p.GetOrCreateDevice(context.Background(), 30010)
			assert.NoError(t, err)
			handles[i] = d
		}(i)
	}
	wg.Wait()

	first := handles[0]
	for _, h := range handles {
		assert.Same(t, first, h)
	}
	assert.Equal(t, uint64(1), p.GetStats().DevicesCreatedTotal)
}

func TestGetOrCreateDevice_ConcurrentStampedeDistinctPorts(t *testing.T) {
	p := New(Config{IdleTimeout: time.Hour, MaxDevices: 2000}, stubLoader{}, nil)
	t.Cleanup(p.Shutdown)
	p.ConfigurePortAssignments(cableModemAssignments(30000, 30999))

	const n = 100
	var successes int64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := p.GetOrCreateDevice(context.Background(), domain.Port(30000+i))
			if err == nil {
				atomic.AddInt64(&successes, 1)
			}
		}(i)
	}
	wg.Wait()

	assert.Greater(t, float64(successes), 0.9*float64(n))
	assert.GreaterOrEqual(t, p.GetStats().DevicesCreatedTotal, uint64(successes))
}

func TestShutdownDevice_Idempotent(t *testing.T) {
	p := New(Config{}, stubLoader{}, nil)
	t.Cleanup(p.Shutdown)
	p.ConfigurePortAssignments(cableModemAssignments(30000, 30099))

	_, err := p.GetOrCreateDevice(context.Background(), 30005)
	require.NoError(t, err)

	p.ShutdownDevice(30005)
	assert.Equal(t, 0, p.GetStats().ActiveCount)

	// idempotent: no-op on an absent port, must not panic or error.
	p.ShutdownDevice(30005)
	p.ShutdownDevice(40000)
}

func TestShutdownDevice_FreshHandleAfterEviction(t *testing.T) {
	p := New(Config{}, stubLoader{}, nil)
	t.Cleanup(p.Shutdown)
	p.ConfigurePortAssignments(cableModemAssignments(30000, 30099))

	ctx := context.Background()
	d1, err := p.GetOrCreateDevice(ctx, 30005)
	require.NoError(t, err)
	p.ShutdownDevice(30005)

	d2, err := p.GetOrCreateDevice(ctx, 30005)
	require.NoError(t, err)
	assert.NotSame(t, d1, d2)
}

func TestCleanupIdleDevices_EvictsPastTimeout(t *testing.T) {
	rec := &stubRecorder{}
	p := New(Config{IdleTimeout: 200 * time.Millisecond}, stubLoader{}, rec)
	t.Cleanup(p.Shutdown)
	p.ConfigurePortAssignments(cableModemAssignments(30000, 30099))

	ctx := context.Background()
	for _, port := range []domain.Port{30000, 30001, 30002} {
		_, err := p.GetOrCreateDevice(ctx, port)
		require.NoError(t, err)
	}

	time.Sleep(300 * time.Millisecond)
	evicted := p.CleanupIdleDevices()
	assert.GreaterOrEqual(t, evicted, 3)

	stats := p.GetStats()
	assert.Equal(t, 0, stats.ActiveCount)
	assert.GreaterOrEqual(t, stats.DevicesCleanedUpTotal, uint64(3))
	assert.GreaterOrEqual(t, rec.count(domain.LifecycleEvict), 3)

	// a fresh call after eviction must materialize a new device.
	d, err := p.GetOrCreateDevice(ctx, 30000)
	require.NoError(t, err)
	assert.NotNil(t, d)
	assert.Equal(t, uint64(4), p.GetStats().DevicesCreatedTotal)
}

func TestActorTerminated_CrashIsRemovedAndNotCountedAsCleanup(t *testing.T) {
	rec := &stubRecorder{}
	p := New(Config{}, stubLoader{}, rec)
	t.Cleanup(p.Shutdown)
	p.ConfigurePortAssignments(cableModemAssignments(30000, 30099))

	ctx := context.Background()
	d1, err := p.GetOrCreateDevice(ctx, 30010)
	require.NoError(t, err)

	p.ActorTerminated(30010, assertErr)

	assert.Equal(t, 0, p.GetStats().ActiveCount)
	assert.Equal(t, uint64(0), p.GetStats().DevicesCleanedUpTotal)
	assert.Equal(t, 1, rec.count(domain.LifecycleCrash))

	d2, err := p.GetOrCreateDevice(ctx, 30010)
	require.NoError(t, err)
	assert.NotSame(t, d1, d2)

	// the simulated-crash actor was pulled from the registry but never
	// actually stopped; stop it directly so its goroutine doesn't leak
	// past the test.
	d1.Stop(time.Second)
}

func TestShutdownAllDevices_ResetsActiveButNotLifetimeCounters(t *testing.T) {
	p := New(Config{}, stubLoader{}, nil)
	t.Cleanup(p.Shutdown)
	p.ConfigurePortAssignments(cableModemAssignments(30000, 30099))

	ctx := context.Background()
	for _, port := range []domain.Port{30000, 30001, 30002} {
		_, err := p.GetOrCreateDevice(ctx, port)
		require.NoError(t, err)
	}

	p.ShutdownAllDevices()

	stats := p.GetStats()
	assert.Equal(t, 0, stats.ActiveCount)
	assert.Equal(t, uint64(3), stats.DevicesCreatedTotal)
}

var assertErr = errSentinel{}

type errSentinel struct{}

func (errSentinel) Error() string { return "simulated crash" }
