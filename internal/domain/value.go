package domain

// ValueKind is the closed tag set of the simulator's typed output.
type ValueKind string

const (
	ValueCounter32 ValueKind = "counter32"
	ValueGauge32   ValueKind = "gauge32"
	ValueTimeticks ValueKind = "timeticks"
	ValueInteger   ValueKind = "integer"
	ValueString    ValueKind = "string"
	ValueOpaque    ValueKind = "opaque"
)

// TypedValue is the simulator's tagged output variant. Exactly one field
// is meaningful, selected by Kind.
type TypedValue struct {
	Kind ValueKind

	Counter32 uint32
	Gauge32   int32
	Timeticks uint32
	Integer   int
	String    []byte
	Opaque    []byte
}

func Counter32Value(v uint32) TypedValue { return TypedValue{Kind: ValueCounter32, Counter32: v} }
func Gauge32Value(v int32) TypedValue    { return TypedValue{Kind: ValueGauge32, Gauge32: v} }
func TimeticksValue(v uint32) TypedValue { return TypedValue{Kind: ValueTimeticks, Timeticks: v} }
func IntegerValue(v int) TypedValue      { return TypedValue{Kind: ValueInteger, Integer: v} }
func StringValue(v []byte) TypedValue    { return TypedValue{Kind: ValueString, String: v} }
func OpaqueValue(v []byte) TypedValue    { return TypedValue{Kind: ValueOpaque, Opaque: v} }
