// Package characteristics holds the static, per-device-type metadata (C2).
// The device actor does not read it when it starts; its initial state comes
// from domain.NewDeviceState.
package characteristics

import "devicesim/internal/domain"

var table = map[domain.DeviceType]domain.DeviceCharacteristics{
	domain.DeviceCableModem: {
		TypicalInterfaces:  2,
		SignalMonitoring:   true,
		ExpectedUptimeDays: 45,
		PowerSupplies:      1,
	},
	domain.DeviceMTA: {
		TypicalInterfaces:  1,
		SignalMonitoring:   true,
		ExpectedUptimeDays: 45,
		PowerSupplies:      1,
	},
	domain.DeviceCMTS: {
		TypicalInterfaces:  48,
		SignalMonitoring:   true,
		ExpectedUptimeDays: 180,
		PowerSupplies:      2,
	},
	domain.DeviceSwitch: {
		TypicalInterfaces:  24,
		SignalMonitoring:   false,
		ExpectedUptimeDays: 90,
		PowerSupplies:      2,
	},
	domain.DeviceRouter: {
		TypicalInterfaces:  8,
		SignalMonitoring:   false,
		ExpectedUptimeDays: 120,
		PowerSupplies:      2,
	},
	domain.DeviceServer: {
		TypicalInterfaces:  4,
		SignalMonitoring:   false,
		ExpectedUptimeDays: 60,
		PowerSupplies:      2,
	},
}

// fallback is used for any DeviceType not present in table, which should
// not occur for the closed tag set but keeps Lookup total.
var fallback = domain.DeviceCharacteristics{
	TypicalInterfaces:  1,
	SignalMonitoring:   false,
	ExpectedUptimeDays: 30,
	PowerSupplies:      1,
}

// Lookup returns the immutable characteristics for deviceType.
func Lookup(deviceType domain.DeviceType) domain.DeviceCharacteristics {
	if c, ok := table[deviceType]; ok {
		return c
	}
	return fallback
}
