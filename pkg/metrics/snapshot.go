// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import "sort"

// FamilyMetadata pairs a family's shared metadata with the metadata of
// its enabled metrics, in stable label order.
type FamilyMetadata struct {
	Info    FamilyInfo
	Metrics []MetricInfo
}

// Values is the scrape contract: family/metric metadata and a nested
// value-producer sequence of exactly the same shape. The consumer invokes
// each producer at scrape time and pairs results positionally.
//
// A Values snapshot is immutable once built, so it may be handed to
// another execution context wholesale.
type Values struct {
	Metadata  []FamilyMetadata
	Functions [][]MetricFn
}

// Collect invokes every value producer and returns the results in the
// same nested shape as the metadata.
func (v Values) Collect() [][]Value {
	out := make([][]Value, len(v.Functions))
	for i, fns := range v.Functions {
		vals := make([]Value, len(fns))
		for j, fn := range fns {
			vals[j] = fn()
		}
		out[i] = vals
	}
	return out
}

type valuesSnapshot struct {
	metadata  []FamilyMetadata
	functions [][]MetricFn
}

// rebuildIfNeeded rebuilds the cached snapshot when the registry is
// dirty. The new snapshot is constructed fully off to the side and
// swapped in whole; until the swap the previous (or an empty) snapshot
// stays valid.
func (r *Registry) rebuildIfNeeded() {
	if !r.dirty {
		return
	}

	// Keep a valid empty snapshot installed while rebuilding.
	r.snap = &valuesSnapshot{}

	names := make([]string, 0, len(r.families))
	for name := range r.families {
		names = append(names, name)
	}
	sort.Strings(names)

	next := &valuesSnapshot{
		metadata:  make([]FamilyMetadata, 0, len(names)),
		functions: make([][]MetricFn, 0, len(names)),
	}
	for _, name := range names {
		fam := r.families[name]

		var metrics []MetricInfo
		var fns []MetricFn
		for _, key := range fam.sortedKeys() {
			rm := fam.instances[key]
			if rm == nil || !rm.info.Enabled {
				// Disabled metrics are excluded from the snapshot
				// entirely, not merely hidden.
				continue
			}
			metrics = append(metrics, rm.info)
			fns = append(fns, rm.fn)
		}
		if len(metrics) == 0 {
			continue
		}
		next.metadata = append(next.metadata, FamilyMetadata{Info: fam.info, Metrics: metrics})
		next.functions = append(next.functions, fns)
	}

	r.snap = next
	r.dirty = false
}

// Metadata returns the cached snapshot's metadata, rebuilding it lazily
// if any mutation happened since the last call.
func (r *Registry) Metadata() []FamilyMetadata {
	r.rebuildIfNeeded()
	return r.snap.metadata
}

// Functions returns the cached snapshot's value producers, matching
// Metadata positionally.
func (r *Registry) Functions() [][]MetricFn {
	r.rebuildIfNeeded()
	return r.snap.functions
}

// Values returns the paired metadata/producer snapshot.
func (r *Registry) Values() Values {
	r.rebuildIfNeeded()
	return Values{Metadata: r.snap.metadata, Functions: r.snap.functions}
}
