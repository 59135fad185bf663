// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

// Definition describes one metric at its declaration site. Definitions
// are plain values; nothing happens until they are handed to
// Groups.AddGroup.
type Definition struct {
	name            string
	typ             Type
	inheritedType   string
	fn              MetricFn
	description     string
	labels          Labels
	enabled         bool
	skipWhenEmpty   bool
	aggregateLabels []string
}

// DefinitionOption customizes a metric definition.
type DefinitionOption func(*Definition)

// WithDescription sets the human-readable help text.
func WithDescription(d string) DefinitionOption {
	return func(def *Definition) { def.description = d }
}

// WithLabel adds one label pair to the definition.
func WithLabel(key, value string) DefinitionOption {
	return func(def *Definition) { def.labels[key] = value }
}

// WithLabels adds all given label pairs to the definition.
func WithLabels(labels Labels) DefinitionOption {
	return func(def *Definition) {
		for k, v := range labels {
			def.labels[k] = v
		}
	}
}

// Disabled registers the metric disabled; it is kept out of snapshots
// until a relabel rule or reconfiguration enables it.
func Disabled() DefinitionOption {
	return func(def *Definition) { def.enabled = false }
}

// SkipWhenEmpty marks the metric to be skipped by the exposition layer
// when it carries no samples.
func SkipWhenEmpty() DefinitionOption {
	return func(def *Definition) { def.skipWhenEmpty = true }
}

// WithInheritedType overrides the reported type name, customizing one of
// the base types.
func WithInheritedType(name string) DefinitionOption {
	return func(def *Definition) { def.inheritedType = name }
}

// WithAggregateLabels hints which labels a consumer may aggregate over.
func WithAggregateLabels(keys ...string) DefinitionOption {
	return func(def *Definition) {
		def.aggregateLabels = append([]string(nil), keys...)
	}
}

func newDefinition(name string, typ Type, fn MetricFn, opts []DefinitionOption) Definition {
	def := Definition{
		name:          name,
		typ:           typ,
		inheritedType: typ.String(),
		fn:            fn,
		labels:        Labels{},
		enabled:       true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&def)
		}
	}
	return def
}

// NewGauge defines a gauge metric.
func NewGauge(name string, fn MetricFn, opts ...DefinitionOption) Definition {
	return newDefinition(name, TypeGauge, fn, opts)
}

// NewCounter defines a monotonic counter metric.
func NewCounter(name string, fn MetricFn, opts ...DefinitionOption) Definition {
	return newDefinition(name, TypeCounter, fn, opts)
}

// NewRealCounter defines a derived (real) counter metric.
func NewRealCounter(name string, fn MetricFn, opts ...DefinitionOption) Definition {
	return newDefinition(name, TypeRealCounter, fn, opts)
}

// NewHistogram defines a histogram metric.
func NewHistogram(name string, fn MetricFn, opts ...DefinitionOption) Definition {
	return newDefinition(name, TypeHistogram, fn, opts)
}

// NewSummary defines a summary metric.
func NewSummary(name string, fn MetricFn, opts ...DefinitionOption) Definition {
	return newDefinition(name, TypeSummary, fn, opts)
}
