// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDirectory() *Directory {
	return NewDirectory()
}

func mustAddGauge(t *testing.T, reg *Registry, group, name string, labels Labels, v float64) ID {
	t.Helper()
	id := NewID(group, name, labels)
	require.NoError(t, reg.AddRegistration(id, Registration{
		Type:          TypeGauge,
		InheritedType: "gauge",
		Fn:            func() Value { return GaugeValue(v) },
		Enabled:       true,
	}))
	return id
}

// findMetric looks a metric up by its live (post-relabel) labels.
func findMetric(reg *Registry, fullName string, labels Labels) *registeredMetric {
	fam, ok := reg.families[fullName]
	if !ok {
		return nil
	}
	return fam.instances[labels.key()]
}

func familySize(reg *Registry, fullName string) int {
	fam, ok := reg.families[fullName]
	if !ok {
		return 0
	}
	return len(fam.instances)
}
