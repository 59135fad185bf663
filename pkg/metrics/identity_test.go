// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeName(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"plain name untouched":  {in: "memory_used_bytes", want: "memory_used_bytes"},
		"dash becomes under":    {in: "io-queue", want: "io_queue"},
		"space becomes under":   {in: "io queue", want: "io_queue"},
		"plus parens stripped":  {in: "cpu(+busy)", want: "cpubusy"},
		"mixed":                 {in: "a-b c+(d)", want: "a_b_cd"},
		"empty":                 {in: "", want: ""},
		"already sanitized mix": {in: "a_b_cd", want: "a_b_cd"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got := safeName(test.in)
			assert.Equal(t, test.want, got)
			assert.Equal(t, got, safeName(got), "sanitization must be idempotent")
			assert.NotContains(t, got, "-")
			assert.NotContains(t, got, " ")
			assert.NotContains(t, got, "+")
			assert.NotContains(t, got, "(")
			assert.NotContains(t, got, ")")
		})
	}
}

func TestIDConstruction(t *testing.T) {
	t.Run("shard label auto populated", func(t *testing.T) {
		id := NewID("reactor", "utilization", nil)
		assert.Equal(t, defaultShardID, id.InstanceID())
	})

	t.Run("explicit shard label preserved", func(t *testing.T) {
		id := NewID("reactor", "utilization", Labels{ShardLabel: "3"})
		assert.Equal(t, "3", id.InstanceID())
	})

	t.Run("labels are copied", func(t *testing.T) {
		ls := Labels{"mount": "/"}
		id := NewID("fs", "free", ls)
		ls["mount"] = "/var"
		assert.Equal(t, "/", id.Labels()["mount"])
	})

	t.Run("full name joins group and name", func(t *testing.T) {
		id := NewID("io-queue", "total ops", nil)
		assert.Equal(t, "io_queue_total_ops", id.FullName())
	})
}

func TestIDIdentity(t *testing.T) {
	base := NewID("cpu", "busy", Labels{"mount": "/"})

	tests := map[string]struct {
		other     ID
		wantEqual bool
	}{
		"same everything": {
			other:     NewID("cpu", "busy", Labels{"mount": "/"}),
			wantEqual: true,
		},
		"different group": {
			other: NewID("mem", "busy", Labels{"mount": "/"}),
		},
		"different name": {
			other: NewID("cpu", "idle", Labels{"mount": "/"}),
		},
		"different shard": {
			other: NewID("cpu", "busy", Labels{"mount": "/", ShardLabel: "7"}),
		},
		"same group name shard but extra label": {
			other: NewID("cpu", "busy", Labels{"mount": "/", "extra": "x"}),
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.wantEqual, base.Equal(test.other))
			if !test.wantEqual {
				assert.True(t, base.Less(test.other) || test.other.Less(base))
			} else {
				assert.False(t, base.Less(test.other))
				assert.False(t, test.other.Less(base))
			}
		})
	}
}

func TestLabelsHash(t *testing.T) {
	a := Labels{"a": "1", "b": "2", "c": "3"}
	b := Labels{"c": "3", "a": "1", "b": "2"}
	require.Equal(t, a.Hash(), b.Hash(), "hash must be order independent")

	c := Labels{"a": "1", "b": "2", "c": "4"}
	assert.NotEqual(t, a.Hash(), c.Hash())

	var empty Labels
	assert.Zero(t, empty.Hash())
}

func TestLabelsCloneAndEqual(t *testing.T) {
	a := Labels{"a": "1"}
	b := a.Clone()
	b["a"] = "2"
	assert.Equal(t, "1", a["a"])

	assert.True(t, Labels{"a": "1"}.Equal(Labels{"a": "1"}))
	assert.False(t, Labels{"a": "1"}.Equal(Labels{"a": "2"}))
	assert.False(t, Labels{"a": "1"}.Equal(Labels{"a": "1", "b": "2"}))

	var nilLabels Labels
	cloned := nilLabels.Clone()
	require.NotNil(t, cloned)
	cloned["k"] = "v"
	assert.Equal(t, "v", cloned["k"])
}
