// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"errors"
	"strconv"

	"github.com/shardrun/shardrun/logger"
	"github.com/shardrun/shardrun/pkg/shard"
)

// Sharded owns one handle directory per shard of a shard.Runtime and
// expresses process-wide reconfiguration as "run this local mutation on
// every shard" broadcasts. Per-shard metric registration and scraping go
// through Directory(i), from code already running on shard i.
type Sharded struct {
	rt   *shard.Runtime
	dirs []*Directory
}

// NewSharded builds one directory per runtime shard. Each directory
// stamps its shard index as the reserved shard label.
func NewSharded(rt *shard.Runtime, log *logger.Logger) *Sharded {
	dirs := make([]*Directory, rt.Shards())
	for i := range dirs {
		dirs[i] = NewDirectory(
			WithShardID(strconv.Itoa(i)),
			WithLogger(log),
		)
	}
	return &Sharded{rt: rt, dirs: dirs}
}

// Directory returns shard i's handle directory. It must only be used
// from that shard's execution context.
func (s *Sharded) Directory(i int) *Directory {
	return s.dirs[i]
}

// SetRelabelConfigs applies the rule list on every shard's registry for
// the handle and sums the per-shard collision counts. The configuration
// is validated once up front; a config error leaves every shard
// untouched.
func (s *Sharded) SetRelabelConfigs(handle int, cfgs []RelabelConfig) (RelabelingResult, error) {
	if _, err := compileRelabelConfigs(cfgs); err != nil {
		return RelabelingResult{}, err
	}

	results := make([]RelabelingResult, s.rt.Shards())
	s.rt.InvokeOnAll(func(sh int) {
		// Compiled above; per-shard application cannot fail.
		results[sh], _ = s.dirs[sh].Get(handle).SetRelabelConfigs(cfgs)
	})

	var total RelabelingResult
	for _, res := range results {
		total.MetricsRelabeledDueToCollision += res.MetricsRelabeledDueToCollision
	}
	return total, nil
}

// ReplicateFamilies reconfigures replication from the source handle on
// every shard at once.
func (s *Sharded) ReplicateFamilies(sourceHandle int, targets []ReplicationTarget) error {
	errs := make([]error, s.rt.Shards())
	s.rt.InvokeOnAll(func(sh int) {
		errs[sh] = s.dirs[sh].Get(sourceHandle).SetFamiliesToReplicate(targets)
	})
	return errors.Join(errs...)
}

// ValuesOn fetches shard i's snapshot for the handle from that shard's
// execution context. The returned snapshot is immutable and safe to use
// from the calling context.
func (s *Sharded) ValuesOn(i, handle int) Values {
	var v Values
	s.rt.RunOn(i, func() {
		v = s.dirs[i].Get(handle).Values()
	})
	return v
}

// Stop tears down every shard's directories.
func (s *Sharded) Stop() {
	s.rt.InvokeOnAll(func(sh int) {
		s.dirs[sh].Stop()
	})
}
