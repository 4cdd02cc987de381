package domain

// BehaviorKind is the closed tag set of per-OID behavior descriptors.
type BehaviorKind string

const (
	BehaviorTrafficCounter   BehaviorKind = "traffic_counter"
	BehaviorUtilizationGauge BehaviorKind = "utilization_gauge"
	BehaviorSNRGauge         BehaviorKind = "snr_gauge"
	BehaviorPowerGauge       BehaviorKind = "power_gauge"
	BehaviorErrorCounter     BehaviorKind = "error_counter"
	BehaviorUptimeCounter    BehaviorKind = "uptime_counter"
	BehaviorStatusEnum       BehaviorKind = "status_enum"
	BehaviorTemperatureGauge BehaviorKind = "temperature_gauge"
	BehaviorStaticValue      BehaviorKind = "static_value"
)

// Range is an inclusive numeric [Lo, Hi] bound shared by gauge-shaped
// behaviors.
type Range struct {
	Lo float64
	Hi float64
}

// HourRange is an inclusive [Start, End] hour-of-day window, 0-23.
type HourRange struct {
	Start int
	End   int
}

// TrafficCounterParams backs BehaviorTrafficCounter.
type TrafficCounterParams struct {
	RateRange          Range
	TimeOfDayVariation bool
	BurstProbability   float64
}

// UtilizationGaugeParams backs BehaviorUtilizationGauge.
type UtilizationGaugeParams struct {
	Range     Range
	Pattern   string
	PeakHours HourRange
}

// SNRGaugeParams backs BehaviorSNRGauge.
type SNRGaugeParams struct {
	Range            Range
	Pattern          string
	DegradationFactor float64
}

// PowerGaugeParams backs BehaviorPowerGauge.
type PowerGaugeParams struct {
	Range              Range
	Pattern            string
	WeatherCorrelation bool
}

// ErrorCounterParams backs BehaviorErrorCounter.
type ErrorCounterParams struct {
	RateRange                  Range
	ErrorBurstProbability      float64
	CorrelationWithUtilization bool
}

// UptimeCounterParams backs BehaviorUptimeCounter.
type UptimeCounterParams struct {
	IncrementRate    float64
	ResetProbability float64
}

// TemperatureGaugeParams backs BehaviorTemperatureGauge.
type TemperatureGaugeParams struct {
	Range           Range
	LoadCorrelation bool
}

// BehaviorDescriptor is the closed sum type describing how a single OID's
// value evolves over the lifetime of a device. Exactly one of the *Params
// fields is populated, selected by Kind; status_enum and static_value carry
// no parameters.
type BehaviorDescriptor struct {
	Kind BehaviorKind

	TrafficCounter   *TrafficCounterParams
	UtilizationGauge *UtilizationGaugeParams
	SNRGauge         *SNRGaugeParams
	PowerGauge       *PowerGaugeParams
	ErrorCounter     *ErrorCounterParams
	UptimeCounter    *UptimeCounterParams
	TemperatureGauge *TemperatureGaugeParams
}

// SnmpType is the closed tag set of profile-datum wire types.
type SnmpType string

const (
	SnmpInteger   SnmpType = "INTEGER"
	SnmpString    SnmpType = "STRING"
	SnmpCounter32 SnmpType = "Counter32"
	SnmpGauge32   SnmpType = "Gauge32"
	SnmpTimeticks SnmpType = "Timeticks"
)

// ProfileDatum is the static seed value loaded for an OID before simulation
// takes over; Value holds the native representation for Type (int64 for
// INTEGER/Counter32/Gauge32/Timeticks, string for STRING).
type ProfileDatum struct {
	Type  SnmpType
	Value any
}

// OID is an SNMP object identifier, opaque to the core beyond being a
// stable map key.
type OID string

// BehaviorProfile pairs every OID on a device with its static seed and its
// evolution rule; it is what a profile loader supplies to a freshly
// materialized actor.
type BehaviorProfile map[OID]ProfileBinding

// ProfileBinding is one OID's (ProfileDatum, BehaviorDescriptor) pair.
type ProfileBinding struct {
	Datum    ProfileDatum
	Behavior BehaviorDescriptor
}
