// Package domain holds the data model shared by every core subsystem:
// device distribution, characteristics, the value simulator, the device
// actor, the lazy pool, and multi-device startup.
package domain

import "fmt"

// Port is the UDP port a device instance listens on; it is also the unique
// key of the device instance itself.
type Port uint16

// DeviceType is the closed tag set of simulated device kinds.
type DeviceType string

const (
	DeviceCableModem DeviceType = "cable_modem"
	DeviceMTA        DeviceType = "mta"
	DeviceCMTS       DeviceType = "cmts"
	DeviceSwitch     DeviceType = "switch"
	DeviceRouter     DeviceType = "router"
	DeviceServer     DeviceType = "server"
)

// DeviceTypeOrder is the fixed assignment order used by
// distribution.BuildPortAssignments so port slices are deterministic across
// runs for the same mix and range.
var DeviceTypeOrder = []DeviceType{
	DeviceCableModem,
	DeviceMTA,
	DeviceCMTS,
	DeviceSwitch,
	DeviceRouter,
	DeviceServer,
}

// Valid reports whether d is one of the closed DeviceType tags.
func (d DeviceType) Valid() bool {
	switch d {
	case DeviceCableModem, DeviceMTA, DeviceCMTS, DeviceSwitch, DeviceRouter, DeviceServer:
		return true
	}
	return false
}

// DeviceMix is a named preset mapping device type to instance count.
type DeviceMix map[DeviceType]int

// PortRange is an inclusive [Start, End] candidate range of ports.
type PortRange struct {
	Start Port
	End   Port
}

// Size returns the number of ports in the range.
func (r PortRange) Size() int {
	if r.End < r.Start {
		return 0
	}
	return int(r.End) - int(r.Start) + 1
}

func (r PortRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// DeviceCharacteristics describes immutable, per-type metadata. Neither the
// device actor nor the simulator reads it; NewDeviceState's defaults do
// not depend on the device type.
type DeviceCharacteristics struct {
	TypicalInterfaces  int
	SignalMonitoring   bool
	ExpectedUptimeDays int
	// PowerSupplies is the number of power supplies a device of this type
	// has. No behavior reads it; power_gauge reports a single value.
	PowerSupplies int
}

// DeviceState is the mutable state owned exclusively by one device actor.
// No component other than the owning actor may mutate it.
type DeviceState struct {
	DeviceID   string
	Port       Port
	DeviceType DeviceType

	UptimeSeconds       uint64
	InterfaceUtilization float64 // [0,1]
	CPUUtilization       float64 // [0,1]
	SignalQuality        float64 // [0,1]
	TemperatureCelsius   float64
	HealthScore          float64 // [0,1]
	ErrorRate            float64 // [0,1]
	UtilizationBias      float64

	// LastActivityMonotonicNS is not written by the actor. The activity
	// timestamp the reaper compares against idle_timeout_ms is kept on
	// actor.Device and read through LastActivityNanos.
	LastActivityMonotonicNS int64

	// CounterAccumulators holds true cumulative growth per OID so
	// Counter32 wraps are derived from accumulated state, not re-derived
	// from uptime on every call.
	CounterAccumulators map[string]uint64
}

// NewDeviceState returns a DeviceState with the conservative defaults the
// simulator falls back to when fields are otherwise unset.
func NewDeviceState(deviceID string, port Port, deviceType DeviceType) *DeviceState {
	return &DeviceState{
		DeviceID:             deviceID,
		Port:                 port,
		DeviceType:           deviceType,
		InterfaceUtilization: 0.5,
		CPUUtilization:       0.3,
		SignalQuality:        0.8,
		TemperatureCelsius:   35,
		HealthScore:          0.95,
		ErrorRate:            0.01,
		UtilizationBias:      1.0,
		CounterAccumulators:  make(map[string]uint64),
	}
}
