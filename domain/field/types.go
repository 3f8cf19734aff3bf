// Package field defines the input data model supplied by ingestion collaborators.
package field

import "math"

// Kind tags the declared value type of a field. The ingestion layer guarantees
// the tag matches the values; the engine still filters non-finite numbers.
type Kind string

const (
	KindNumber  Kind = "number"
	KindText    Kind = "text"
	KindDate    Kind = "date"
	KindBoolean Kind = "boolean"
)

// Trend is the coarse direction of a series, from comparing first-half and
// second-half means.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// DataField is one named column of raw values. It is owned by the caller and
// never mutated by the engine.
type DataField struct {
	Name   string        `json:"name"`
	Kind   Kind          `json:"kind"`
	Values []interface{} `json:"values"`
}

// IsNumeric reports whether the field is tagged as numeric.
func (f DataField) IsNumeric() bool {
	return f.Kind == KindNumber
}

// Numeric extracts the finite numeric values of the field in order.
// NaN, infinities and non-numeric entries are dropped.
func (f DataField) Numeric() []float64 {
	out := make([]float64, 0, len(f.Values))
	for _, raw := range f.Values {
		var v float64
		switch x := raw.(type) {
		case float64:
			v = x
		case float32:
			v = float64(x)
		case int:
			v = float64(x)
		case int64:
			v = float64(x)
		default:
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// NumberField builds a numeric DataField from a float slice. Convenience for
// callers that already hold clean numeric columns.
func NumberField(name string, values []float64) DataField {
	raw := make([]interface{}, len(values))
	for i, v := range values {
		raw[i] = v
	}
	return DataField{Name: name, Kind: KindNumber, Values: raw}
}
