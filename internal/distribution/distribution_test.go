package distribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devicesim/internal/domain"
)

func TestGetDeviceMix_KnownPresets(t *testing.T) {
	for _, name := range []string{"small_test", "medium_test", "cable_network", "enterprise_network"} {
		mix, err := GetDeviceMix(name)
		require.NoError(t, err)
		assert.NotEmpty(t, mix)
		for _, n := range mix {
			assert.GreaterOrEqual(t, n, 0)
		}
	}
}

func TestGetDeviceMix_Unknown(t *testing.T) {
	_, err := GetDeviceMix("no_such_mix")
	assert.Error(t, err)
}

func TestGetDeviceMix_ReturnsACopy(t *testing.T) {
	mix, err := GetDeviceMix("small_test")
	require.NoError(t, err)
	mix[domain.DeviceCableModem] = 999

	again, err := GetDeviceMix("small_test")
	require.NoError(t, err)
	assert.NotEqual(t, 999, again[domain.DeviceCableModem])
}

func TestBuildPortAssignments_DisjointAndConsistent(t *testing.T) {
	mix := domain.DeviceMix{
		domain.DeviceCableModem: 100,
		domain.DeviceMTA:        20,
		domain.DeviceSwitch:     5,
	}
	pa, err := BuildPortAssignments(mix, domain.PortRange{Start: 30000, End: 30999})
	require.NoError(t, err)
	require.NoError(t, ValidatePortAssignments(pa, domain.PortRange{Start: 30000, End: 30999}))

	assert.Equal(t, 125, pa.TotalDevices())

	for dt, ports := range map[domain.DeviceType][]domain.Port{
		domain.DeviceCableModem: pa.Ports(domain.DeviceCableModem),
		domain.DeviceMTA:        pa.Ports(domain.DeviceMTA),
		domain.DeviceSwitch:     pa.Ports(domain.DeviceSwitch),
	} {
		for _, p := range ports {
			got, ok := DetermineDeviceType(p, pa)
			require.True(t, ok)
			assert.Equal(t, dt, got)
		}
	}
}

func TestBuildPortAssignments_InsufficientPorts(t *testing.T) {
	mix := domain.DeviceMix{domain.DeviceCableModem: 500}
	_, err := BuildPortAssignments(mix, domain.PortRange{Start: 1, End: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientPorts)
}

func TestBuildPortAssignments_NegativeCount(t *testing.T) {
	mix := domain.DeviceMix{domain.DeviceCableModem: -1}
	_, err := BuildPortAssignments(mix, domain.PortRange{Start: 1, End: 10})
	assert.Error(t, err)
}

func TestDetermineDeviceType_Unassigned(t *testing.T) {
	mix := domain.DeviceMix{domain.DeviceCableModem: 10}
	pa, err := BuildPortAssignments(mix, domain.PortRange{Start: 100, End: 200})
	require.NoError(t, err)

	_, ok := DetermineDeviceType(domain.Port(9999), pa)
	assert.False(t, ok)
}

func TestCalculateDensityStats(t *testing.T) {
	mix := domain.DeviceMix{
		domain.DeviceCableModem: 100,
		domain.DeviceSwitch:     5,
	}
	pa, err := BuildPortAssignments(mix, domain.PortRange{Start: 1, End: 200})
	require.NoError(t, err)

	stats := CalculateDensityStats(pa)
	assert.Equal(t, 105, stats.TotalDevices)
	assert.Equal(t, domain.DeviceCableModem, stats.LargestGroup.Type)
	assert.Equal(t, 100, stats.LargestGroup.Count)
	assert.Equal(t, 100, stats.PerTypeCounts[domain.DeviceCableModem])
	assert.Equal(t, 5, stats.PerTypeCounts[domain.DeviceSwitch])
}

func TestValidatePortAssignments_OutsideUniverse(t *testing.T) {
	pa := domain.NewPortAssignments()
	pa.Add(domain.DeviceCableModem, 100, 110)

	err := ValidatePortAssignments(pa, domain.PortRange{Start: 200, End: 300})
	assert.Error(t, err)
}
