// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"errors"
	"fmt"
)

// ReplicationTarget names one (family full name, destination handle)
// pair. The full mapping is multi-valued: the same family may be
// replicated to several handles.
type ReplicationTarget struct {
	Name   string
	Handle int
}

// SetFamiliesToReplicate reconfigures which metric families this registry
// mirrors into other registries of the same directory.
//
// All metrics of previously replicated families are removed from their
// destinations first, so replicas never linger after reconfiguration.
// Then every currently registered metric of each newly targeted family is
// copied to its destination with its live (already relabeled) identity,
// enabled state, skip flag and family metadata. The mapping stays in
// force afterwards: new registrations and removals on a targeted family
// are mirrored incrementally.
//
// Replicas are inserted verbatim at the destination; they are not run
// through the destination's relabel rules.
func (r *Registry) SetFamiliesToReplicate(targets []ReplicationTarget) error {
	for _, t := range targets {
		if t.Handle == r.handle {
			return fmt.Errorf("%w: %s -> %d", errReplicateSelf, t.Name, t.Handle)
		}
	}

	for _, t := range r.replicate {
		r.removeMetricReplicaFamily(t.Name, t.Handle)
	}

	r.replicate = append([]ReplicationTarget(nil), targets...)

	var errs []error
	for _, t := range r.replicate {
		if err := r.replicateFamily(t.Name, t.Handle); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FamiliesToReplicate returns the active replication mapping.
func (r *Registry) FamiliesToReplicate() []ReplicationTarget {
	return append([]ReplicationTarget(nil), r.replicate...)
}

func (r *Registry) replicateFamily(name string, destHandle int) error {
	fam, ok := r.families[name]
	if !ok {
		return nil
	}
	dest := r.dir.Get(destHandle)
	for _, key := range fam.sortedKeys() {
		if err := replicateMetric(fam.instances[key], fam, dest); err != nil {
			return err
		}
	}
	return nil
}

// replicateMetricIfRequired mirrors a freshly registered metric to every
// destination its family is mapped to.
func (r *Registry) replicateMetricIfRequired(rm *registeredMetric) error {
	fullName := rm.info.ID.FullName()
	for _, t := range r.replicate {
		if t.Name != fullName {
			continue
		}
		fam := r.families[fullName]
		if err := replicateMetric(rm, fam, r.dir.Get(t.Handle)); err != nil {
			return err
		}
	}
	return nil
}

func replicateMetric(rm *registeredMetric, fam *family, dest *Registry) error {
	return dest.insertRegistration(rm.info.ID, Registration{
		Type:            fam.info.Type,
		InheritedType:   fam.info.InheritedType,
		Fn:              rm.fn,
		Description:     fam.info.Description,
		Enabled:         rm.info.Enabled,
		SkipWhenEmpty:   rm.info.SkipWhenEmpty,
		AggregateLabels: fam.info.AggregateLabels,
	}, false)
}

// removeMetricReplicaIfRequired removes the replicas of one metric from
// every destination its family is mapped to.
func (r *Registry) removeMetricReplicaIfRequired(id ID) {
	fullName := id.FullName()
	for _, t := range r.replicate {
		if t.Name != fullName {
			continue
		}
		r.dir.Get(t.Handle).RemoveRegistration(id)
	}
}

// removeMetricReplicaFamily removes every replica of the named family
// from the destination, identified by the source's live metric ids.
func (r *Registry) removeMetricReplicaFamily(name string, destHandle int) {
	fam, ok := r.families[name]
	if !ok {
		return
	}
	dest := r.dir.Get(destHandle)
	for _, key := range fam.sortedKeys() {
		dest.RemoveRegistration(fam.instances[key].info.ID)
	}
}
