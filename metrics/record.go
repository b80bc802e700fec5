package metrics

import "time"

// MetricType is rendered verbatim as the last component of a Graphite path.
type MetricType string

const (
	TypeCounter = MetricType("COUNTER")
	TypeGauge   = MetricType("GAUGE")
)

// Tag is a named piece of record metadata. A nil Value is a tag that was reported
// without a value.
type Tag struct {
	Name  string
	Value *string
}

func NewTag(name, value string) Tag {
	return Tag{Name: name, Value: &value}
}

func NullTag(name string) Tag {
	return Tag{Name: name}
}

// String returns the tag's value, or "null" when it has none.
func (t Tag) String() string {
	if t.Value == nil {
		return nullValue
	}
	return *t.Value
}

type Metric struct {
	Name  string
	Type  MetricType
	Value float64
}

// Record is one timestamped batch of tagged measurements. Tags are kept in the
// order they were reported; Metrics carry no order.
type Record struct {
	Name      string
	Timestamp time.Time
	Tags      []Tag
	Metrics   []Metric
}
