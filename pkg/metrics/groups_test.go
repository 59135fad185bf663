// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroups(t *testing.T) {
	t.Run("add group registers every definition", func(t *testing.T) {
		dir := newTestDirectory()
		g := NewGroups(dir, DefaultHandle)

		err := g.AddGroup("cpu",
			NewGauge("busy", func() Value { return GaugeValue(1) },
				WithDescription("busy time"),
				WithLabel("mode", "user"),
			),
			NewCounter("switches", func() Value { return CounterValue(2) }),
		)
		require.NoError(t, err)

		reg := dir.Get(DefaultHandle)
		assert.Equal(t, 1, familySize(reg, "cpu_busy"))
		assert.Equal(t, 1, familySize(reg, "cpu_switches"))
		assert.Equal(t, "busy time", reg.families["cpu_busy"].info.Description)
	})

	t.Run("close unregisters everything declared", func(t *testing.T) {
		dir := newTestDirectory()
		g := NewGroups(dir, DefaultHandle)
		require.NoError(t, g.AddGroup("cpu",
			NewGauge("busy", func() Value { return GaugeValue(1) }),
		))
		require.NoError(t, g.AddGroup("mem",
			NewGauge("used", func() Value { return GaugeValue(2) }),
		))

		g.Close()
		reg := dir.Get(DefaultHandle)
		assert.Zero(t, familySize(reg, "cpu_busy"))
		assert.Zero(t, familySize(reg, "mem_used"))
		assert.Empty(t, reg.Metadata())
	})

	t.Run("duplicate declaration surfaces the registration error", func(t *testing.T) {
		dir := newTestDirectory()
		g := NewGroups(dir, DefaultHandle)
		def := func() Definition {
			return NewGauge("busy", func() Value { return GaugeValue(1) })
		}
		require.NoError(t, g.AddGroup("cpu", def()))
		err := g.AddGroup("cpu", def())
		require.ErrorIs(t, err, ErrDoubleRegistration)

		// The earlier registration stays; Clear removes it.
		g.Clear()
		assert.Zero(t, familySize(dir.Get(DefaultHandle), "cpu_busy"))
	})

	t.Run("definition options shape the registration", func(t *testing.T) {
		dir := NewDirectory(WithShardID("2"))
		g := NewGroups(dir, DefaultHandle)
		require.NoError(t, g.AddGroup("io",
			NewHistogram("latency", func() Value {
				return HistogramValue(Histogram{SampleCount: 1, Buckets: []Bucket{{UpperBound: 1, Count: 1}}})
			},
				WithLabels(Labels{"class": "commitlog"}),
				WithInheritedType("histogram"),
				WithAggregateLabels(ShardLabel),
				SkipWhenEmpty(),
			),
			NewGauge("depth", func() Value { return GaugeValue(0) }, Disabled()),
		))

		reg := dir.Get(DefaultHandle)
		fam := reg.families["io_latency"]
		require.NotNil(t, fam)
		assert.Equal(t, TypeHistogram, fam.info.Type)
		assert.Equal(t, []string{ShardLabel}, fam.info.AggregateLabels)

		var rm *registeredMetric
		for _, m := range fam.instances {
			rm = m
		}
		require.NotNil(t, rm)
		assert.Equal(t, "2", rm.info.ID.InstanceID())
		assert.Equal(t, "commitlog", rm.info.ID.Labels()["class"])
		assert.True(t, rm.info.SkipWhenEmpty)

		md := reg.Metadata()
		require.Len(t, md, 1, "disabled gauge must not appear")
		assert.Equal(t, "io_latency", md[0].Info.Name)
	})
}
