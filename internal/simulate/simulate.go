// Package simulate is the value-simulation engine (C3): a pure function
// that turns a static profile value and a behavior descriptor into a typed
// SNMP value exhibiting realistic temporal dynamics, given the owning
// device's current state.
package simulate

import (
	"math"
	"math/rand"
	"time"

	"devicesim/internal/domain"
)

// Clock returns the current wall-clock time; it exists so time-of-day
// modulation can be pinned in tests. time.Now has this signature.
type Clock func() time.Time

// Simulator evaluates BehaviorDescriptors against device state. It holds
// no state of its own beyond an injectable RNG and clock, per the "no
// hidden global state" requirement; a single Simulator is safe to reuse
// across devices as long as Rand is itself safe for concurrent use (the
// zero-value *rand.Rand is not — each device actor should own one).
type Simulator struct {
	Rand  *rand.Rand
	Clock Clock
}

// New returns a Simulator seeded from the current time, suitable for
// production use. Tests should construct Simulator{} directly with a
// seeded rand.Rand and a fixed Clock.
func New() *Simulator {
	return &Simulator{
		Rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
		Clock: time.Now,
	}
}

func (s *Simulator) rng() *rand.Rand {
	if s.Rand != nil {
		return s.Rand
	}
	return rand.New(rand.NewSource(1))
}

func (s *Simulator) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// SimulateValue is the single entry point of the value simulator. It never
// fails: an unrecognized behavior kind falls back to static_value.
func (s *Simulator) SimulateValue(datum domain.ProfileDatum, behavior domain.BehaviorDescriptor, state *domain.DeviceState) domain.TypedValue {
	switch behavior.Kind {
	case domain.BehaviorTrafficCounter:
		if behavior.TrafficCounter != nil {
			return s.trafficCounter(datum, *behavior.TrafficCounter, state)
		}
	case domain.BehaviorUtilizationGauge:
		if behavior.UtilizationGauge != nil {
			return s.utilizationGauge(*behavior.UtilizationGauge, state)
		}
	case domain.BehaviorSNRGauge:
		if behavior.SNRGauge != nil {
			return s.snrGauge(*behavior.SNRGauge, state)
		}
	case domain.BehaviorPowerGauge:
		if behavior.PowerGauge != nil {
			return s.powerGauge(*behavior.PowerGauge, state)
		}
	case domain.BehaviorErrorCounter:
		if behavior.ErrorCounter != nil {
			return s.errorCounter(datum, *behavior.ErrorCounter, state)
		}
	case domain.BehaviorUptimeCounter:
		if behavior.UptimeCounter != nil {
			return s.uptimeCounter(*behavior.UptimeCounter, state)
		}
	case domain.BehaviorStatusEnum:
		return s.statusEnum(state)
	case domain.BehaviorTemperatureGauge:
		if behavior.TemperatureGauge != nil {
			return s.temperatureGauge(*behavior.TemperatureGauge, state)
		}
	}
	// static_value, and the graceful fallback for anything unrecognized
	// or missing its parameter record.
	return s.staticValue(datum)
}

func (s *Simulator) staticValue(datum domain.ProfileDatum) domain.TypedValue {
	switch datum.Type {
	case domain.SnmpInteger:
		v, _ := datum.Value.(int)
		return domain.IntegerValue(v)
	case domain.SnmpString:
		switch v := datum.Value.(type) {
		case string:
			return domain.StringValue([]byte(v))
		case []byte:
			return domain.StringValue(v)
		}
		return domain.StringValue(nil)
	case domain.SnmpCounter32:
		return domain.Counter32Value(toUint32(datum.Value))
	case domain.SnmpGauge32:
		return domain.Gauge32Value(toInt32(datum.Value))
	case domain.SnmpTimeticks:
		return domain.TimeticksValue(toUint32(datum.Value))
	default:
		return domain.OpaqueValue(nil)
	}
}

func toUint32(v any) uint32 {
	switch n := v.(type) {
	case uint32:
		return n
	case int:
		return uint32(int64(n) & 0xFFFFFFFF)
	case int64:
		return uint32(n & 0xFFFFFFFF)
	case uint64:
		return uint32(n)
	}
	return 0
}

func toInt32(v any) int32 {
	switch n := v.(type) {
	case int32:
		return n
	case int:
		return int32(n)
	case int64:
		return int32(n)
	}
	return 0
}

// baseUint32 extracts the profile base value as a uint64 accumulator seed,
// consistent with the datum's declared type.
func baseUint32(datum domain.ProfileDatum) uint64 {
	switch n := datum.Value.(type) {
	case int:
		return uint64(n)
	case int64:
		return uint64(n)
	case uint32:
		return uint64(n)
	case uint64:
		return n
	}
	return 0
}

const wrapMod = uint64(1) << 32

// timeOfDayFactor produces a bell-shaped multiplier peaking around 14:00
// local time and bottoming out around 04:00, with the given amplitude
// capped at 0.6.
func timeOfDayFactor(t time.Time, amplitude float64) float64 {
	if amplitude > 0.6 {
		amplitude = 0.6
	}
	hour := float64(t.Hour()) + float64(t.Minute())/60.0
	// Two half-cosines: one rising from the 04:00 trough to the 14:00
	// peak over 10 hours, one falling from the peak back to the next
	// 04:00 trough over 14 hours.
	var radians float64
	if hour >= 4 && hour < 14 {
		radians = math.Pi * (14 - hour) / 10
	} else {
		if hour < 4 {
			hour += 24
		}
		radians = math.Pi * (hour - 14) / 14
	}
	return 1 + amplitude*math.Cos(radians)
}

// trafficCounter samples a bit rate from RateRange, scales it by the
// time-of-day factor, interface utilization and an occasional burst, and
// adds one second's worth of that rate to the profile base. The increment
// is in bytes: the bit rate times one second, divided by 8.
func (s *Simulator) trafficCounter(datum domain.ProfileDatum, p domain.TrafficCounterParams, state *domain.DeviceState) domain.TypedValue {
	lo, hi := p.RateRange.Lo, p.RateRange.Hi
	if hi < lo {
		lo, hi = hi, lo
	}
	r := lo + s.rng().Float64()*(hi-lo)

	if p.TimeOfDayVariation {
		r *= timeOfDayFactor(s.now(), 0.6)
	}

	utilization := 0.5
	if state != nil {
		utilization = state.InterfaceUtilization
	}
	r *= utilization

	if p.BurstProbability > 0 && s.rng().Float64() < p.BurstProbability {
		burst := 2 + s.rng().Float64()*3 // [2,5]
		r *= burst
	}

	// elapsed is a per-sample delta of one second; the actor advances real
	// elapsed time by calling Tick once per wall-clock second rather than
	// this function tracking its own clock.
	const elapsed = 1.0
	increment := uint64(math.Floor(r * elapsed / 8))

	base := baseUint32(datum)
	accum := base + increment
	return domain.Counter32Value(uint32(accum % wrapMod))
}

func (s *Simulator) utilizationGauge(p domain.UtilizationGaugeParams, state *domain.DeviceState) domain.TypedValue {
	lo, hi := p.Range.Lo, p.Range.Hi
	mid := (lo + hi) / 2
	v := mid

	if p.Pattern == "daily_variation" {
		amplitude := (hi - lo) / 4
		hour := float64(s.now().Hour())
		peakMid := float64(p.PeakHours.Start+p.PeakHours.End) / 2
		radians := 2 * math.Pi * (hour - peakMid) / 24
		v += amplitude * math.Cos(radians)
	}

	bias := 1.0
	if state != nil && state.UtilizationBias != 0 {
		bias = state.UtilizationBias
	}
	v *= bias

	v += s.rng().NormFloat64() * (hi - lo) * 0.02
	v = clamp(v, lo, hi)
	return domain.Gauge32Value(int32(math.Round(v)))
}

func (s *Simulator) snrGauge(p domain.SNRGaugeParams, state *domain.DeviceState) domain.TypedValue {
	lo, hi := p.Range.Lo, p.Range.Hi
	v := (lo + hi) / 2

	utilization := 0.5
	if state != nil {
		utilization = state.InterfaceUtilization
	}
	v -= p.DegradationFactor * utilization * (hi - lo)
	v += s.rng().NormFloat64() * (hi - lo) * 0.02
	v = clamp(v, lo, hi)
	return domain.Gauge32Value(int32(math.Round(v)))
}

func (s *Simulator) powerGauge(p domain.PowerGaugeParams, state *domain.DeviceState) domain.TypedValue {
	lo, hi := p.Range.Lo, p.Range.Hi
	v := 0.0
	if lo > 0 || hi < 0 {
		v = (lo + hi) / 2
	}

	signalQuality := 0.8
	if state != nil {
		signalQuality = state.SignalQuality
	}
	v += (signalQuality - 0.5) * (hi - lo)

	if p.WeatherCorrelation && state != nil {
		excess := state.TemperatureCelsius - 25
		if excess > 0 {
			v -= excess * 0.05 * (hi - lo)
		}
	}

	v = clamp(v, lo, hi)
	return domain.Gauge32Value(int32(math.Round(v)))
}

func (s *Simulator) errorCounter(datum domain.ProfileDatum, p domain.ErrorCounterParams, state *domain.DeviceState) domain.TypedValue {
	lo, hi := p.RateRange.Lo, p.RateRange.Hi
	if hi < lo {
		lo, hi = hi, lo
	}
	rate := lo + s.rng().Float64()*(hi-lo)

	if p.CorrelationWithUtilization && state != nil {
		rate *= (1 - state.SignalQuality) + state.InterfaceUtilization
	}

	if p.ErrorBurstProbability > 0 && s.rng().Float64() < p.ErrorBurstProbability {
		burst := 10 + s.rng().Float64()*40 // [10,50]
		rate *= burst
	}

	delta := uint64(math.Max(0, math.Floor(rate)))
	base := baseUint32(datum)
	return domain.Counter32Value(uint32((base + delta) % wrapMod))
}

func (s *Simulator) uptimeCounter(p domain.UptimeCounterParams, state *domain.DeviceState) domain.TypedValue {
	if p.ResetProbability > 0 && s.rng().Float64() < p.ResetProbability {
		return domain.TimeticksValue(0)
	}
	uptime := uint64(0)
	if state != nil {
		uptime = state.UptimeSeconds
	}
	ticks := uint64(math.Floor(float64(uptime) * p.IncrementRate))
	return domain.TimeticksValue(uint32(ticks % wrapMod))
}

func (s *Simulator) statusEnum(state *domain.DeviceState) domain.TypedValue {
	health, errRate := 0.95, 0.01
	if state != nil {
		health, errRate = state.HealthScore, state.ErrorRate
	}
	score := health - 2*errRate
	switch {
	case score > 0.7:
		return domain.StringValue([]byte("up"))
	case score > 0.4:
		return domain.StringValue([]byte("degraded"))
	default:
		return domain.StringValue([]byte("down"))
	}
}

func (s *Simulator) temperatureGauge(p domain.TemperatureGaugeParams, state *domain.DeviceState) domain.TypedValue {
	lo, hi := p.Range.Lo, p.Range.Hi
	base := (lo + hi) / 2
	if state != nil {
		base = state.TemperatureCelsius
	}
	v := base
	if p.LoadCorrelation && state != nil {
		v += state.CPUUtilization * 30
	}
	v += s.rng().NormFloat64() * (hi - lo) * 0.01
	v = clamp(v, lo, hi)
	return domain.Gauge32Value(int32(math.Round(v)))
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
