// Package distribution derives per-type port assignments from named
// population mixes and classifies ports into device types (C1).
package distribution

import (
	"fmt"

	"devicesim/internal/domain"
)

// builtinMixes are the named presets resolvable by GetDeviceMix. They
// mirror the population shapes a cable operator's lab would actually
// stand up: a small smoke-test fleet, a mid-size regression fleet, a
// cable-access-dominated fleet, and an enterprise-leaning fleet.
var builtinMixes = map[string]domain.DeviceMix{
	"small_test": {
		domain.DeviceCableModem: 8,
		domain.DeviceMTA:        2,
		domain.DeviceSwitch:     1,
	},
	"medium_test": {
		domain.DeviceCableModem: 200,
		domain.DeviceMTA:        50,
		domain.DeviceCMTS:       2,
		domain.DeviceSwitch:     10,
		domain.DeviceRouter:     2,
	},
	"cable_network": {
		domain.DeviceCableModem: 5000,
		domain.DeviceMTA:        1200,
		domain.DeviceCMTS:       8,
		domain.DeviceSwitch:     40,
	},
	"enterprise_network": {
		domain.DeviceSwitch: 300,
		domain.DeviceRouter: 40,
		domain.DeviceServer: 150,
	},
}

// GetDeviceMix resolves a named preset. The returned map is a copy; callers
// may mutate it freely.
func GetDeviceMix(name string) (domain.DeviceMix, error) {
	mix, ok := builtinMixes[name]
	if !ok {
		return nil, fmt.Errorf("distribution: unknown device mix %q", name)
	}
	out := make(domain.DeviceMix, len(mix))
	for t, n := range mix {
		out[t] = n
	}
	return out, nil
}

// BuildPortAssignments assigns the first N ports of portRange to each
// device type present in mix, in domain.DeviceTypeOrder, where N is
// mix[type]. It fails with domain.ErrInsufficientPorts if the range cannot
// hold the sum of all counts.
func BuildPortAssignments(mix domain.DeviceMix, portRange domain.PortRange) (*domain.PortAssignments, error) {
	total := 0
	for _, n := range mix {
		if n < 0 {
			return nil, fmt.Errorf("distribution: negative count for device type in mix")
		}
		total += n
	}
	if total > portRange.Size() {
		return nil, fmt.Errorf("%w: range %s holds %d ports, mix needs %d", domain.ErrInsufficientPorts, portRange, portRange.Size(), total)
	}

	pa := domain.NewPortAssignments()
	cursor := portRange.Start
	for _, dt := range domain.DeviceTypeOrder {
		n := mix[dt]
		if n <= 0 {
			continue
		}
		end := cursor + domain.Port(n) - 1
		pa.Add(dt, cursor, end)
		cursor = end + 1
	}
	return pa, nil
}

// ValidatePortAssignments confirms pairwise disjointness of pa's slices and
// that every assigned port lies within universe.
func ValidatePortAssignments(pa *domain.PortAssignments, universe domain.PortRange) error {
	if !pa.Disjoint() {
		return fmt.Errorf("distribution: port assignments are not pairwise disjoint")
	}
	for dt, ports := range groupedPorts(pa) {
		for _, p := range ports {
			if p < universe.Start || p > universe.End {
				return fmt.Errorf("distribution: port %d assigned to %s lies outside universe %s", p, dt, universe)
			}
		}
	}
	return nil
}

func groupedPorts(pa *domain.PortAssignments) map[domain.DeviceType][]domain.Port {
	out := make(map[domain.DeviceType][]domain.Port)
	for dt := range pa.PerTypeCounts() {
		out[dt] = pa.Ports(dt)
	}
	return out
}

// DetermineDeviceType classifies port against pa. It reports false if the
// port is not covered by any assignment (Unassigned).
func DetermineDeviceType(port domain.Port, pa *domain.PortAssignments) (domain.DeviceType, bool) {
	return pa.Lookup(port)
}

// CalculateDensityStats summarizes pa for operator-facing reporting.
func CalculateDensityStats(pa *domain.PortAssignments) domain.DensityStats {
	counts := pa.PerTypeCounts()
	stats := domain.DensityStats{
		TotalDevices:  pa.TotalDevices(),
		PerTypeCounts: counts,
	}
	for dt, n := range counts {
		if n > stats.LargestGroup.Count {
			stats.LargestGroup.Type = dt
			stats.LargestGroup.Count = n
		}
	}
	return stats
}
