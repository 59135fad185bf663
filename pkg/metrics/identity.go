// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ID identifies one concrete metric: the logical group it belongs to, the
// measurement name within the group, and its full label set. The shard
// label is always present; NewID fills it with the default sentinel when
// the caller did not.
type ID struct {
	group  string
	name   string
	labels Labels
}

// NewID builds a metric id. The given labels are copied.
func NewID(group, name string, labels Labels) ID {
	ls := labels.Clone()
	if _, ok := ls[ShardLabel]; !ok {
		ls[ShardLabel] = defaultShardID
	}
	return ID{group: group, name: name, labels: ls}
}

// Group returns the metric group name.
func (id ID) Group() string { return id.group }

// Name returns the metric name within its group.
func (id ID) Name() string { return id.name }

// Labels returns a copy of the id's label set.
func (id ID) Labels() Labels { return id.labels.Clone() }

// InstanceID returns the owning shard's identity, taken from the reserved
// shard label.
func (id ID) InstanceID() string { return id.labels[ShardLabel] }

// FullName returns the sanitized group_name concatenation used as the
// metric family lookup key. Sanitization is idempotent.
func (id ID) FullName() string {
	return safeName(id.group + "_" + id.name)
}

// Equal reports whether two ids name the same metric, labels included.
func (id ID) Equal(o ID) bool {
	return id.group == o.group &&
		id.InstanceID() == o.InstanceID() &&
		id.name == o.name &&
		id.labels.Equal(o.labels)
}

// Less orders ids by (group, instance id, name, labels).
func (id ID) Less(o ID) bool {
	if id.group != o.group {
		return id.group < o.group
	}
	if a, b := id.InstanceID(), o.InstanceID(); a != b {
		return a < b
	}
	if id.name != o.name {
		return id.name < o.name
	}
	return id.labels.key() < o.labels.key()
}

// Hash returns a stable hash over the full identity tuple.
func (id ID) Hash() uint64 {
	var b strings.Builder
	b.WriteString(id.group)
	b.WriteByte('\xfe')
	b.WriteString(id.name)
	b.WriteByte('\xfe')
	b.WriteString(id.labels.key())
	return xxhash.Sum64String(b.String())
}

// clone returns an id whose label set is independent of the receiver's.
func (id ID) clone() ID {
	return ID{group: id.group, name: id.name, labels: id.labels.Clone()}
}

// safeName maps '-' and ' ' to '_' and strips '+', '(' and ')'.
func safeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch r {
		case '-', ' ':
			b.WriteRune('_')
		case '+', '(', ')':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
