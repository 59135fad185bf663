// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ShardLabel is the reserved label key identifying the owning shard.
// Every metric id carries it; definitions that omit it are auto-populated
// at declaration time.
const ShardLabel = "shard"

// collisionLabel is the sentinel label key injected to disambiguate
// runtime relabeling name collisions.
const collisionLabel = "err"

// defaultShardID is the shard label value used outside a shard runtime.
const defaultShardID = "0"

// Labels is a set of label key/value pairs. Keys are unique.
type Labels map[string]string

// Clone returns a copy of l. A nil receiver yields an empty, writable set.
func (l Labels) Clone() Labels {
	out := make(Labels, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// Equal reports whether l and o hold exactly the same pairs.
func (l Labels) Equal(o Labels) bool {
	if len(l) != len(o) {
		return false
	}
	for k, v := range l {
		if ov, ok := o[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Hash returns an order-independent hash of the full label set.
func (l Labels) Hash() uint64 {
	if len(l) == 0 {
		return 0
	}
	return xxhash.Sum64String(l.key())
}

// key packs the labels into one canonical sorted string, usable as a map
// key and as a deterministic ordering tiebreaker.
func (l Labels) key() string {
	if len(l) == 0 {
		return ""
	}

	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('\xff')
		b.WriteString(l[k])
		b.WriteByte('\xff')
	}
	return b.String()
}
