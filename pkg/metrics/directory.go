// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import "github.com/shardrun/shardrun/logger"

// DefaultHandle selects the default registry of a directory.
const DefaultHandle = 0

// Directory maps integer handles to their registry instances, letting
// several independent registries coexist on one shard. Registries are
// created lazily on first use and live until Stop.
//
// A Directory and everything reached through it belong to one execution
// context; it is deliberately unsynchronized.
type Directory struct {
	shardID string
	log     *logger.Logger
	impls   map[int]*Registry
}

// DirectoryOption customizes a Directory.
type DirectoryOption func(*Directory)

// WithShardID sets the value of the reserved shard label for every metric
// declared through this directory.
func WithShardID(id string) DirectoryOption {
	return func(d *Directory) { d.shardID = id }
}

// WithLogger sets the logger used by the directory's registries.
func WithLogger(log *logger.Logger) DirectoryOption {
	return func(d *Directory) { d.log = log }
}

// NewDirectory creates an empty handle directory. Without WithShardID the
// shard label defaults to the fixed sentinel "0".
func NewDirectory(opts ...DirectoryOption) *Directory {
	d := &Directory{
		shardID: defaultShardID,
		impls:   make(map[int]*Registry),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	if d.log == nil {
		d.log = logger.New()
	}
	return d
}

// Get returns the registry for the handle, creating it on first use.
// Double-create returns the existing instance.
func (d *Directory) Get(handle int) *Registry {
	reg, ok := d.impls[handle]
	if !ok {
		reg = newRegistry(d, handle, d.log)
		d.impls[handle] = reg
	}
	return reg
}

// ShardID returns the shard label value this directory stamps on
// declarations.
func (d *Directory) ShardID() string { return d.shardID }

// UnregisterMetric removes one metric from the handle's registry.
func (d *Directory) UnregisterMetric(id ID, handle int) {
	d.Get(handle).RemoveRegistration(id)
}

// Stop releases all registries. Registries hold no external resources, so
// teardown resolves immediately.
func (d *Directory) Stop() {
	d.impls = make(map[int]*Registry)
}

// newID builds an id whose shard label defaults to this directory's
// shard identity.
func (d *Directory) newID(group, name string, labels Labels) ID {
	ls := labels.Clone()
	if _, ok := ls[ShardLabel]; !ok {
		ls[ShardLabel] = d.shardID
	}
	return NewID(group, name, ls)
}
