// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

// Groups is the registration token a producer holds for the metrics it
// declared. It records the id of every successful registration and is
// the only way a producer interacts with registry internals: keep it to
// unregister, never to mutate.
type Groups struct {
	dir    *Directory
	handle int
	ids    []ID
}

// NewGroups binds a registration token to a directory handle.
func NewGroups(dir *Directory, handle int) *Groups {
	return &Groups{dir: dir, handle: handle}
}

// AddGroup registers all definitions under one group name. On error the
// definitions registered so far stay registered and recorded; Clear
// removes them.
func (g *Groups) AddGroup(group string, defs ...Definition) error {
	reg := g.dir.Get(g.handle)
	for i := range defs {
		def := &defs[i]
		id := g.dir.newID(group, def.name, def.labels)
		err := reg.AddRegistration(id, Registration{
			Type:            def.typ,
			InheritedType:   def.inheritedType,
			Fn:              def.fn,
			Description:     def.description,
			Enabled:         def.enabled,
			SkipWhenEmpty:   def.skipWhenEmpty,
			AggregateLabels: def.aggregateLabels,
		})
		if err != nil {
			return err
		}
		g.ids = append(g.ids, id)
	}
	return nil
}

// Clear unregisters everything this token declared.
func (g *Groups) Clear() {
	for _, id := range g.ids {
		g.dir.UnregisterMetric(id, g.handle)
	}
	g.ids = nil
}

// Close unregisters everything this token declared. Call it when the
// owning subsystem shuts down.
func (g *Groups) Close() {
	g.Clear()
}

// Handle returns the directory handle this token registers against.
func (g *Groups) Handle() int { return g.handle }
