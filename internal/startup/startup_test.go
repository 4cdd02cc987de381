package startup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devicesim/internal/domain"
	"devicesim/internal/pool"
)

type stubLoader struct{}

func (stubLoader) LoadProfile(domain.DeviceType) domain.BehaviorProfile {
	return domain.BehaviorProfile{}
}

func newPool(t *testing.T, maxDevices int) *pool.LazyDevicePool {
	t.Helper()
	p := pool.New(pool.Config{IdleTimeout: time.Hour, MaxDevices: maxDevices}, stubLoader{}, nil)
	t.Cleanup(p.Shutdown)
	return p
}

func TestStartDevicePopulation_Success(t *testing.T) {
	p := newPool(t, 10_000)
	m := NewManager(p)

	specs := []Spec{
		{DeviceType: domain.DeviceCableModem, Count: 50},
		{DeviceType: domain.DeviceMTA, Count: 10},
	}
	result, err := m.StartDevicePopulation(context.Background(), specs, Options{
		PortRange:       domain.PortRange{Start: 31000, End: 31999},
		ParallelWorkers: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, 60, result.TotalDevices)
	assert.Equal(t, 50, result.PerTypeCreated[domain.DeviceCableModem])
	assert.Equal(t, 10, result.PerTypeCreated[domain.DeviceMTA])
	assert.Empty(t, result.Failures)

	status := m.GetStartupStatus()
	assert.Equal(t, 60, status.ActiveDevices)
	assert.NoError(t, status.LastError)
}

func TestStartDevicePopulation_PartialFailureBelowThreshold(t *testing.T) {
	p := newPool(t, 30) // cap well under the 100 requested
	m := NewManager(p)

	specs := []Spec{{DeviceType: domain.DeviceCableModem, Count: 100}}
	result, err := m.StartDevicePopulation(context.Background(), specs, Options{
		PortRange:       domain.PortRange{Start: 32000, End: 32999},
		ParallelWorkers: 10,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPopulationIncomplete)
	assert.Less(t, float64(result.TotalDevices), 0.8*100)
	assert.NotEmpty(t, result.Failures)

	status := m.GetStartupStatus()
	assert.Error(t, status.LastError)
}

func TestStartDevicePopulation_InsufficientPortRange(t *testing.T) {
	p := newPool(t, 10_000)
	m := NewManager(p)

	specs := []Spec{{DeviceType: domain.DeviceCableModem, Count: 500}}
	_, err := m.StartDevicePopulation(context.Background(), specs, Options{
		PortRange: domain.PortRange{Start: 1, End: 10},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientPorts)
}

func TestStartDeviceMix_ResolvesPreset(t *testing.T) {
	p := newPool(t, 10_000)
	m := NewManager(p)

	result, err := m.StartDeviceMix(context.Background(), "small_test", Options{
		PortRange: domain.PortRange{Start: 33000, End: 33999},
	})
	require.NoError(t, err)
	assert.Greater(t, result.TotalDevices, 0)
}

func TestStartDeviceMix_UnknownName(t *testing.T) {
	p := newPool(t, 10_000)
	m := NewManager(p)

	_, err := m.StartDeviceMix(context.Background(), "no_such_mix", Options{
		PortRange: domain.PortRange{Start: 33000, End: 33999},
	})
	assert.Error(t, err)
}

func TestShutdownDevicePopulation_ResetsBookkeeping(t *testing.T) {
	p := newPool(t, 10_000)
	m := NewManager(p)

	specs := []Spec{{DeviceType: domain.DeviceCableModem, Count: 20}}
	_, err := m.StartDevicePopulation(context.Background(), specs, Options{
		PortRange: domain.PortRange{Start: 34000, End: 34999},
	})
	require.NoError(t, err)

	m.ShutdownDevicePopulation()

	status := m.GetStartupStatus()
	assert.Equal(t, 0, status.ActiveDevices)
	assert.Equal(t, 0, p.GetStats().ActiveCount)
}
