package simulate

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devicesim/internal/domain"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func TestSimulateValue_TrafficCounterGrowth(t *testing.T) {
	sim := &Simulator{Rand: rand.New(rand.NewSource(1)), Clock: fixedClock(time.Date(2026, 1, 1, 14, 0, 0, 0, time.UTC))}
	datum := domain.ProfileDatum{Type: domain.SnmpCounter32, Value: 1_000_000}
	behavior := domain.BehaviorDescriptor{
		Kind: domain.BehaviorTrafficCounter,
		TrafficCounter: &domain.TrafficCounterParams{
			RateRange:          domain.Range{Lo: 1_000, Hi: 125_000_000},
			TimeOfDayVariation: true,
			BurstProbability:   0.1,
		},
	}
	state := domain.NewDeviceState("d1", 30050, domain.DeviceCableModem)
	state.UptimeSeconds = 3600
	state.InterfaceUtilization = 0.5

	out := sim.SimulateValue(datum, behavior, state)

	require.Equal(t, domain.ValueCounter32, out.Kind)
	assert.Greater(t, out.Counter32, uint32(1_000_000))
}

func TestSimulateValue_CounterWrap(t *testing.T) {
	sim := &Simulator{Rand: rand.New(rand.NewSource(7)), Clock: fixedClock(time.Now())}
	datum := domain.ProfileDatum{Type: domain.SnmpCounter32, Value: 4_294_967_290}
	behavior := domain.BehaviorDescriptor{
		Kind:           domain.BehaviorTrafficCounter,
		TrafficCounter: &domain.TrafficCounterParams{RateRange: domain.Range{Lo: 1000, Hi: 10000}},
	}
	state := domain.NewDeviceState("d2", 30051, domain.DeviceCableModem)
	state.UptimeSeconds = 3600
	state.InterfaceUtilization = 0.8

	out := sim.SimulateValue(datum, behavior, state)

	require.Equal(t, domain.ValueCounter32, out.Kind)
	assert.Less(t, uint64(out.Counter32), uint64(1)<<32)
}

func TestSimulateValue_UptimeTicks(t *testing.T) {
	sim := &Simulator{Rand: rand.New(rand.NewSource(1))}
	datum := domain.ProfileDatum{Type: domain.SnmpTimeticks, Value: 0}
	behavior := domain.BehaviorDescriptor{
		Kind:          domain.BehaviorUptimeCounter,
		UptimeCounter: &domain.UptimeCounterParams{IncrementRate: 100, ResetProbability: 0},
	}
	state := domain.NewDeviceState("d3", 30052, domain.DeviceCableModem)
	state.UptimeSeconds = 3600

	out := sim.SimulateValue(datum, behavior, state)

	require.Equal(t, domain.ValueTimeticks, out.Kind)
	assert.GreaterOrEqual(t, out.Timeticks, uint32(350_000))
	assert.LessOrEqual(t, out.Timeticks, uint32(370_000))
}

func TestSimulateValue_StatusHealthy(t *testing.T) {
	sim := New()
	state := domain.NewDeviceState("d4", 30053, domain.DeviceCableModem)
	state.HealthScore = 0.9
	state.ErrorRate = 0.01

	out := sim.SimulateValue(domain.ProfileDatum{}, domain.BehaviorDescriptor{Kind: domain.BehaviorStatusEnum}, state)

	require.Equal(t, domain.ValueString, out.Kind)
	assert.Equal(t, "up", string(out.String))
}

func TestSimulateValue_StatusDegradedAndDown(t *testing.T) {
	sim := New()
	state := domain.NewDeviceState("d5", 30054, domain.DeviceCableModem)

	state.HealthScore, state.ErrorRate = 0.7, 0.05
	out := sim.SimulateValue(domain.ProfileDatum{}, domain.BehaviorDescriptor{Kind: domain.BehaviorStatusEnum}, state)
	assert.Equal(t, "degraded", string(out.String))

	state.HealthScore, state.ErrorRate = 0.3, 0.2
	out = sim.SimulateValue(domain.ProfileDatum{}, domain.BehaviorDescriptor{Kind: domain.BehaviorStatusEnum}, state)
	assert.Equal(t, "down", string(out.String))
}

func TestSimulateValue_StaticValueRoundTrip(t *testing.T) {
	sim := New()
	cases := []struct {
		datum domain.ProfileDatum
		check func(t *testing.T, v domain.TypedValue)
	}{
		{domain.ProfileDatum{Type: domain.SnmpInteger, Value: 42}, func(t *testing.T, v domain.TypedValue) {
			assert.Equal(t, domain.ValueInteger, v.Kind)
			assert.Equal(t, 42, v.Integer)
		}},
		{domain.ProfileDatum{Type: domain.SnmpString, Value: "hello"}, func(t *testing.T, v domain.TypedValue) {
			assert.Equal(t, domain.ValueString, v.Kind)
			assert.Equal(t, "hello", string(v.String))
		}},
		{domain.ProfileDatum{Type: domain.SnmpCounter32, Value: 99}, func(t *testing.T, v domain.TypedValue) {
			assert.Equal(t, domain.ValueCounter32, v.Kind)
			assert.Equal(t, uint32(99), v.Counter32)
		}},
	}

	for _, tc := range cases {
		behavior := domain.BehaviorDescriptor{Kind: domain.BehaviorStaticValue}
		out := sim.SimulateValue(tc.datum, behavior, domain.NewDeviceState("d", 1, domain.DeviceServer))
		tc.check(t, out)
	}
}

func TestSimulateValue_UnknownBehaviorFallsBackToStatic(t *testing.T) {
	sim := New()
	datum := domain.ProfileDatum{Type: domain.SnmpInteger, Value: 7}
	out := sim.SimulateValue(datum, domain.BehaviorDescriptor{Kind: "made_up_kind"}, nil)
	require.Equal(t, domain.ValueInteger, out.Kind)
	assert.Equal(t, 7, out.Integer)
}

func TestSimulateValue_GaugesStayWithinRange(t *testing.T) {
	sim := &Simulator{Rand: rand.New(rand.NewSource(42)), Clock: fixedClock(time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC))}
	state := domain.NewDeviceState("d6", 30055, domain.DeviceCMTS)

	util := sim.SimulateValue(domain.ProfileDatum{}, domain.BehaviorDescriptor{
		Kind: domain.BehaviorUtilizationGauge,
		UtilizationGauge: &domain.UtilizationGaugeParams{
			Range:     domain.Range{Lo: 0, Hi: 100},
			Pattern:   "daily_variation",
			PeakHours: domain.HourRange{Start: 19, End: 23},
		},
	}, state)
	assert.GreaterOrEqual(t, util.Gauge32, int32(0))
	assert.LessOrEqual(t, util.Gauge32, int32(100))

	snr := sim.SimulateValue(domain.ProfileDatum{}, domain.BehaviorDescriptor{
		Kind:     domain.BehaviorSNRGauge,
		SNRGauge: &domain.SNRGaugeParams{Range: domain.Range{Lo: 20, Hi: 40}, DegradationFactor: 0.3},
	}, state)
	assert.GreaterOrEqual(t, snr.Gauge32, int32(20))
	assert.LessOrEqual(t, snr.Gauge32, int32(40))
}
