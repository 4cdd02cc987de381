package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// BehaviorProfileJSON adapts BehaviorProfile for gorm persistence, the way
// the original OIDMappings adapted a slice of OID mappings: it is the
// serialized catalog stored alongside a device type.
type BehaviorProfileJSON BehaviorProfile

func (b BehaviorProfileJSON) Value() (driver.Value, error) {
	if b == nil {
		return "{}", nil
	}
	return json.Marshal(b)
}

func (b *BehaviorProfileJSON) Scan(value interface{}) error {
	if value == nil {
		*b = make(BehaviorProfileJSON)
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for BehaviorProfileJSON")
	}

	return json.Unmarshal(data, b)
}

// BehaviorProfileRecord is the persisted catalog entry for one device
// type's full set of OID -> (ProfileDatum, BehaviorDescriptor) bindings:
// the profile loader's on-disk backing store. Builtin catalogs come from
// the embedded YAML set; operators may upsert overrides over HTTP.
type BehaviorProfileRecord struct {
	DeviceType DeviceType          `json:"device_type" gorm:"primaryKey;type:text"`
	Catalog    BehaviorProfileJSON `json:"catalog" gorm:"type:text"`
	IsBuiltin  bool                `json:"is_builtin" gorm:"default:false"`
}

// BehaviorProfileYAML is the YAML shape of one device type's builtin
// catalog file, mirroring the structure of a profile's wire
// representation without the gorm persistence concerns.
type BehaviorProfileYAML struct {
	DeviceType DeviceType            `yaml:"device_type"`
	OIDs       []BehaviorBindingYAML `yaml:"oids"`
}

// BehaviorBindingYAML is one OID entry within a BehaviorProfileYAML file.
type BehaviorBindingYAML struct {
	OID      string                `yaml:"oid"`
	Datum    ProfileDatumYAML      `yaml:"datum"`
	Behavior BehaviorDescriptorYAML `yaml:"behavior"`
}

// ProfileDatumYAML is the YAML shape of a ProfileDatum.
type ProfileDatumYAML struct {
	Type  SnmpType `yaml:"type"`
	Value any      `yaml:"value"`
}

// BehaviorDescriptorYAML is the YAML shape of a BehaviorDescriptor: a flat
// bag of fields, since only the ones relevant to Kind are populated in any
// given entry, mirroring the closed-sum-type-as-tagged-record convention
// used by BehaviorDescriptor itself.
type BehaviorDescriptorYAML struct {
	Kind BehaviorKind `yaml:"kind"`

	RateRangeMin float64 `yaml:"rate_range_min,omitempty"`
	RateRangeMax float64 `yaml:"rate_range_max,omitempty"`

	RangeLo float64 `yaml:"range_lo,omitempty"`
	RangeHi float64 `yaml:"range_hi,omitempty"`

	Pattern            string  `yaml:"pattern,omitempty"`
	PeakHourStart      int     `yaml:"peak_hour_start,omitempty"`
	PeakHourEnd        int     `yaml:"peak_hour_end,omitempty"`
	TimeOfDayVariation bool    `yaml:"time_of_day_variation,omitempty"`
	BurstProbability   float64 `yaml:"burst_probability,omitempty"`

	DegradationFactor float64 `yaml:"degradation_factor,omitempty"`

	WeatherCorrelation bool `yaml:"weather_correlation,omitempty"`

	ErrorBurstProbability      float64 `yaml:"error_burst_probability,omitempty"`
	CorrelationWithUtilization bool    `yaml:"correlation_with_utilization,omitempty"`

	IncrementRate    float64 `yaml:"increment_rate,omitempty"`
	ResetProbability float64 `yaml:"reset_probability,omitempty"`

	LoadCorrelation bool `yaml:"load_correlation,omitempty"`
}

// ToDescriptor materializes the tagged BehaviorDescriptor sum type from its
// flat YAML representation.
func (y BehaviorDescriptorYAML) ToDescriptor() BehaviorDescriptor {
	d := BehaviorDescriptor{Kind: y.Kind}
	switch y.Kind {
	case BehaviorTrafficCounter:
		d.TrafficCounter = &TrafficCounterParams{
			RateRange:          Range{Lo: y.RateRangeMin, Hi: y.RateRangeMax},
			TimeOfDayVariation: y.TimeOfDayVariation,
			BurstProbability:   y.BurstProbability,
		}
	case BehaviorUtilizationGauge:
		d.UtilizationGauge = &UtilizationGaugeParams{
			Range:     Range{Lo: y.RangeLo, Hi: y.RangeHi},
			Pattern:   y.Pattern,
			PeakHours: HourRange{Start: y.PeakHourStart, End: y.PeakHourEnd},
		}
	case BehaviorSNRGauge:
		d.SNRGauge = &SNRGaugeParams{
			Range:             Range{Lo: y.RangeLo, Hi: y.RangeHi},
			Pattern:           y.Pattern,
			DegradationFactor: y.DegradationFactor,
		}
	case BehaviorPowerGauge:
		d.PowerGauge = &PowerGaugeParams{
			Range:              Range{Lo: y.RangeLo, Hi: y.RangeHi},
			Pattern:            y.Pattern,
			WeatherCorrelation: y.WeatherCorrelation,
		}
	case BehaviorErrorCounter:
		d.ErrorCounter = &ErrorCounterParams{
			RateRange:                  Range{Lo: y.RateRangeMin, Hi: y.RateRangeMax},
			ErrorBurstProbability:      y.ErrorBurstProbability,
			CorrelationWithUtilization: y.CorrelationWithUtilization,
		}
	case BehaviorUptimeCounter:
		d.UptimeCounter = &UptimeCounterParams{
			IncrementRate:    y.IncrementRate,
			ResetProbability: y.ResetProbability,
		}
	case BehaviorTemperatureGauge:
		d.TemperatureGauge = &TemperatureGaugeParams{
			Range:           Range{Lo: y.RangeLo, Hi: y.RangeHi},
			LoadCorrelation: y.LoadCorrelation,
		}
	}
	return d
}

// ToBehaviorProfile materializes a full BehaviorProfile from its YAML file
// shape.
func (y BehaviorProfileYAML) ToBehaviorProfile() BehaviorProfile {
	profile := make(BehaviorProfile, len(y.OIDs))
	for _, entry := range y.OIDs {
		profile[OID(entry.OID)] = ProfileBinding{
			Datum:    ProfileDatum(entry.Datum),
			Behavior: entry.Behavior.ToDescriptor(),
		}
	}
	return profile
}
