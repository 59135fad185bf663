// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import "fmt"

// Type is the base type of a metric family.
type Type uint8

const (
	TypeCounter Type = iota
	TypeRealCounter
	TypeGauge
	TypeHistogram
	TypeSummary
)

func (t Type) String() string {
	switch t {
	case TypeCounter:
		return "counter"
	case TypeRealCounter:
		return "real_counter"
	case TypeGauge:
		return "gauge"
	case TypeHistogram:
		return "histogram"
	case TypeSummary:
		return "summary"
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

func (t Type) holdsHistogram() bool {
	return t == TypeHistogram || t == TypeSummary
}

// Value is one produced measurement: a scalar for counters and gauges, a
// histogram for histogram and summary families.
type Value struct {
	typ  Type
	val  float64
	hist *Histogram
}

// GaugeValue wraps a scalar gauge sample.
func GaugeValue(v float64) Value {
	return Value{typ: TypeGauge, val: v}
}

// CounterValue wraps a monotonic counter sample.
func CounterValue(v float64) Value {
	return Value{typ: TypeCounter, val: v}
}

// RealCounterValue wraps a derived (real) counter sample.
func RealCounterValue(v float64) Value {
	return Value{typ: TypeRealCounter, val: v}
}

// HistogramValue wraps a histogram sample. The histogram is copied.
func HistogramValue(h Histogram) Value {
	return Value{typ: TypeHistogram, hist: h.Clone()}
}

// SummaryValue wraps a summary sample. The histogram is copied.
func SummaryValue(h Histogram) Value {
	return Value{typ: TypeSummary, hist: h.Clone()}
}

// Type returns the value's base type.
func (v Value) Type() Type { return v.typ }

// Float returns the scalar sample. For histogram-shaped values it is zero.
func (v Value) Float() float64 { return v.val }

// Histogram returns a copy of the histogram sample and whether the value
// holds one.
func (v Value) Histogram() (Histogram, bool) {
	if v.hist == nil {
		return Histogram{}, false
	}
	return *v.hist.Clone(), true
}

// Add merges two values of the same shape: scalars sum, histograms merge
// elementwise. Merging histograms with different bucket bounds fails.
func (v Value) Add(o Value) (Value, error) {
	if v.typ.holdsHistogram() {
		if o.hist == nil {
			return Value{}, errNotHistogram
		}
		merged := v.hist.Clone()
		if err := merged.Add(o.hist); err != nil {
			return Value{}, err
		}
		return Value{typ: v.typ, hist: merged}, nil
	}
	return Value{typ: v.typ, val: v.val + o.val}, nil
}

// MetricFn produces the current value of one registered metric. It is
// invoked at scrape time, outside the registry's write path.
type MetricFn func() Value
