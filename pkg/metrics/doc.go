// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics is the per-shard metric registration and presentation
// engine.
//
// Subsystems declare named, labeled measurements (counters, gauges,
// histograms) through Groups; a collector retrieves a consistent snapshot
// of everything currently enabled through Registry.Values. Registries are
// selected by an integer handle via a Directory, so several independent
// metric namespaces can coexist on one shard.
//
// A registry is owned by a single execution context and does no locking of
// its own. Process-wide reconfiguration (relabel rules, replication
// mappings) is broadcast to every shard through Sharded, which runs the
// local mutation on each shard's pinned goroutine.
//
// Relabeling follows the Prometheus relabel_config conventions: rules are
// applied in order, always starting from the labels a metric was declared
// with, and the metric full name is addressable as the __name__ source
// label. Names cannot be changed, labels can.
package metrics
