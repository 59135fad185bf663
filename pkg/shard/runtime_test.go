// SPDX-License-Identifier: GPL-3.0-or-later

package shard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimeRunOn(t *testing.T) {
	rt := NewRuntime(2)
	defer rt.Stop()

	t.Run("runs on the addressed shard and waits", func(t *testing.T) {
		var got int
		rt.RunOn(1, func() { got = 42 })
		assert.Equal(t, 42, got)
	})

	t.Run("tasks on one shard are serialized", func(t *testing.T) {
		var n int
		for i := 0; i < 100; i++ {
			rt.RunOn(0, func() { n++ })
		}
		assert.Equal(t, 100, n)
	})

	t.Run("panic is rethrown on the caller", func(t *testing.T) {
		require.Panics(t, func() {
			rt.RunOn(0, func() { panic("boom") })
		})
		// The shard executor survives the panic.
		var ok bool
		rt.RunOn(0, func() { ok = true })
		assert.True(t, ok)
	})

	t.Run("out of range shard panics", func(t *testing.T) {
		require.Panics(t, func() { rt.RunOn(7, func() {}) })
		require.Panics(t, func() { rt.RunOn(-1, func() {}) })
	})
}

func TestRuntimeInvokeOnAll(t *testing.T) {
	rt := NewRuntime(4)
	defer rt.Stop()

	visited := make([]int, rt.Shards())
	rt.InvokeOnAll(func(shard int) {
		visited[shard]++
	})
	assert.Equal(t, []int{1, 1, 1, 1}, visited, "every shard exactly once")
}

func TestRuntimeShape(t *testing.T) {
	assert.Equal(t, 1, NewRuntime(0).Shards(), "below one clamps to one")
	assert.Equal(t, 3, NewRuntime(3).Shards())
}

func TestRuntimeStop(t *testing.T) {
	rt := NewRuntime(2)
	rt.Stop()
	rt.Stop() // idempotent
}
