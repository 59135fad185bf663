// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"fmt"
	"sort"

	"github.com/prometheus/common/model"

	"github.com/shardrun/shardrun/logger"
)

// MetricInfo is the per-metric metadata exposed in snapshots.
// OriginalLabels is the immutable label set at registration time;
// relabeling always recomputes from it.
type MetricInfo struct {
	ID             ID
	OriginalLabels Labels
	Enabled        bool
	SkipWhenEmpty  bool
}

// FamilyInfo is the metadata shared between all metrics of one family.
type FamilyInfo struct {
	Type            Type
	InheritedType   string
	Description     string
	Name            string
	AggregateLabels []string
}

// Registration carries everything besides the id that AddRegistration
// needs to store a metric.
type Registration struct {
	Type            Type
	InheritedType   string
	Fn              MetricFn
	Description     string
	Enabled         bool
	SkipWhenEmpty   bool
	AggregateLabels []string
}

type registeredMetric struct {
	info MetricInfo
	fn   MetricFn
}

// family holds all label-set variants of one full name. Instances are
// keyed by the canonical packed label key.
type family struct {
	info      FamilyInfo
	instances map[string]*registeredMetric
}

// sortedKeys returns the instance keys in deterministic order.
func (f *family) sortedKeys() []string {
	keys := make([]string, 0, len(f.instances))
	for k := range f.instances {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Registry is the per-handle authoritative metric store. It is owned by a
// single execution context and does no locking; see the package doc.
type Registry struct {
	dir    *Directory
	handle int
	log    *logger.Logger

	families    map[string]*family
	knownLabels map[string]struct{}

	dirty bool
	snap  *valuesSnapshot

	relabelRules []relabelRule
	replicate    []ReplicationTarget
}

func newRegistry(dir *Directory, handle int, log *logger.Logger) *Registry {
	return &Registry{
		dir:         dir,
		handle:      handle,
		log:         log,
		families:    make(map[string]*family),
		knownLabels: make(map[string]struct{}),
		dirty:       true,
		snap:        &valuesSnapshot{},
	}
}

// Handle returns the handle this registry is bound to.
func (r *Registry) Handle() int { return r.handle }

// AddRegistration validates and stores one metric. Active relabel rules
// are applied to it first, so a metric born under a live relabeling
// policy inherits it. Registering the same full name with an identical
// label set, or with a different base type, fails.
func (r *Registry) AddRegistration(id ID, reg Registration) error {
	return r.insertRegistration(id, reg, true)
}

func (r *Registry) insertRegistration(id ID, reg Registration, applyRules bool) error {
	rm := &registeredMetric{
		info: MetricInfo{
			ID:             id.clone(),
			OriginalLabels: id.Labels(),
			Enabled:        reg.Enabled,
			SkipWhenEmpty:  reg.SkipWhenEmpty,
		},
		fn: reg.Fn,
	}
	if applyRules {
		for i := range r.relabelRules {
			r.relabelRules[i].apply(&rm.info)
		}
	}

	name := id.FullName()
	if !model.IsValidMetricName(model.LabelValue(name)) {
		r.logWarningf("metric name %q is not a valid exposition name", name)
	}

	key := rm.info.ID.labels.key()
	if fam, ok := r.families[name]; ok {
		if _, dup := fam.instances[key]; dup {
			return fmt.Errorf("%w: %s", ErrDoubleRegistration, name)
		}
		if fam.info.Type != reg.Type {
			return fmt.Errorf("%w: %s declared as %s, registered again as %s",
				ErrTypeMismatch, name, fam.info.Type, reg.Type)
		}
		fam.instances[key] = rm
	} else {
		r.families[name] = &family{
			info: FamilyInfo{
				Type:            reg.Type,
				InheritedType:   reg.InheritedType,
				Description:     reg.Description,
				Name:            name,
				AggregateLabels: append([]string(nil), reg.AggregateLabels...),
			},
			instances: map[string]*registeredMetric{key: rm},
		}
	}

	for k := range rm.info.ID.labels {
		r.knownLabels[k] = struct{}{}
	}
	r.markDirty()

	return r.replicateMetricIfRequired(rm)
}

// RemoveRegistration removes the metric and any replicas of it. Removing
// an unknown id is a no-op; teardown paths call this unconditionally.
func (r *Registry) RemoveRegistration(id ID) {
	r.removeMetricReplicaIfRequired(id)

	name := id.FullName()
	fam, ok := r.families[name]
	if !ok {
		return
	}
	key := id.labels.key()
	if _, ok := fam.instances[key]; !ok {
		return
	}
	delete(fam.instances, key)
	if len(fam.instances) == 0 {
		delete(r.families, name)
	}
	r.markDirty()
}

// KnownLabels returns every label key this registry has ever seen, sorted.
func (r *Registry) KnownLabels() []string {
	keys := make([]string, 0, len(r.knownLabels))
	for k := range r.knownLabels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *Registry) markDirty() { r.dirty = true }

func (r *Registry) logErrorf(format string, args ...any) {
	if r == nil || r.log == nil {
		return
	}
	r.log.Errorf(format, args...)
}

func (r *Registry) logWarningf(format string, args ...any) {
	if r == nil || r.log == nil {
		return
	}
	r.log.Warningf(format, args...)
}
