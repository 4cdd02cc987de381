package domain

import "sort"

// slice is one contiguous, type-tagged run of ports within a PortAssignments.
type slice struct {
	deviceType DeviceType
	start      Port
	end        Port // inclusive
}

// PortAssignments maps DeviceType to a disjoint set of ports, stored as
// sorted contiguous slices so DetermineDeviceType can binary-search them.
type PortAssignments struct {
	slices []slice
}

// NewPortAssignments builds an empty assignment set.
func NewPortAssignments() *PortAssignments {
	return &PortAssignments{}
}

// Add registers a contiguous run of ports [start, end] for deviceType. The
// caller (distribution.BuildPortAssignments) is responsible for ensuring
// disjointness across calls.
func (pa *PortAssignments) Add(deviceType DeviceType, start, end Port) {
	if end < start {
		return
	}
	pa.slices = append(pa.slices, slice{deviceType: deviceType, start: start, end: end})
	sort.Slice(pa.slices, func(i, j int) bool { return pa.slices[i].start < pa.slices[j].start })
}

// Lookup returns the DeviceType owning port, and whether one was found.
func (pa *PortAssignments) Lookup(port Port) (DeviceType, bool) {
	i := sort.Search(len(pa.slices), func(i int) bool { return pa.slices[i].end >= port })
	if i < len(pa.slices) && pa.slices[i].start <= port && port <= pa.slices[i].end {
		return pa.slices[i].deviceType, true
	}
	return "", false
}

// Ports returns every port assigned to deviceType, in ascending order.
func (pa *PortAssignments) Ports(deviceType DeviceType) []Port {
	var out []Port
	for _, s := range pa.slices {
		if s.deviceType != deviceType {
			continue
		}
		for p := s.start; p <= s.end; p++ {
			out = append(out, p)
		}
	}
	return out
}

// PerTypeCounts returns the number of ports assigned to each device type
// present in pa.
func (pa *PortAssignments) PerTypeCounts() map[DeviceType]int {
	counts := make(map[DeviceType]int)
	for _, s := range pa.slices {
		counts[s.deviceType] += int(s.end) - int(s.start) + 1
	}
	return counts
}

// TotalDevices returns the total number of ports assigned across all types.
func (pa *PortAssignments) TotalDevices() int {
	total := 0
	for _, s := range pa.slices {
		total += int(s.end) - int(s.start) + 1
	}
	return total
}

// Disjoint reports whether no two slices in pa overlap. It is an O(n log n)
// check used by ValidatePortAssignments.
func (pa *PortAssignments) Disjoint() bool {
	sorted := append([]slice(nil), pa.slices...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].start <= sorted[i-1].end {
			return false
		}
	}
	return true
}

// DensityStats summarizes a PortAssignments for operator-facing reporting.
type DensityStats struct {
	TotalDevices  int
	LargestGroup  struct {
		Type  DeviceType
		Count int
	}
	PerTypeCounts map[DeviceType]int
}
