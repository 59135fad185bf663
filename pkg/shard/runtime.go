// SPDX-License-Identifier: GPL-3.0-or-later

// Package shard runs work on pinned per-shard goroutines.
//
// Each shard owns exactly one goroutine; tasks submitted to a shard are
// executed there one at a time, so shard-local state needs no locking as
// long as it is touched only through its owning shard.
package shard

import (
	"fmt"
	"sync"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

type task struct {
	fn   func()
	done chan struct{}

	recovered *panics.Recovered
}

type executor struct {
	tasks chan *task
}

func (e *executor) run() {
	for t := range e.tasks {
		var c panics.Catcher
		c.Try(t.fn)
		t.recovered = c.Recovered()
		close(t.done)
	}
}

// Runtime is a fixed-size group of shard executors.
type Runtime struct {
	execs    []*executor
	stopOnce sync.Once
}

// NewRuntime starts shards pinned executors. shards below 1 is treated as 1.
func NewRuntime(shards int) *Runtime {
	if shards < 1 {
		shards = 1
	}
	r := &Runtime{execs: make([]*executor, shards)}
	for i := range r.execs {
		e := &executor{tasks: make(chan *task)}
		go e.run()
		r.execs[i] = e
	}
	return r
}

// Shards returns the number of shards.
func (r *Runtime) Shards() int {
	return len(r.execs)
}

// RunOn executes fn on the shard's pinned goroutine and waits for it to
// finish. A panic inside fn is rethrown on the calling goroutine.
// Calling RunOn after Stop panics.
func (r *Runtime) RunOn(shard int, fn func()) {
	if shard < 0 || shard >= len(r.execs) {
		panic(fmt.Sprintf("shard: no such shard %d (have %d)", shard, len(r.execs)))
	}
	t := &task{fn: fn, done: make(chan struct{})}
	r.execs[shard].tasks <- t
	<-t.done
	if t.recovered != nil {
		panic(t.recovered)
	}
}

// InvokeOnAll runs fn on every shard's pinned goroutine and waits for all
// of them to finish.
func (r *Runtime) InvokeOnAll(fn func(shard int)) {
	var wg conc.WaitGroup
	for i := range r.execs {
		wg.Go(func() {
			r.RunOn(i, func() { fn(i) })
		})
	}
	wg.Wait()
}

// Stop shuts down all shard executors. Tasks already submitted run to
// completion; Stop is idempotent.
func (r *Runtime) Stop() {
	r.stopOnce.Do(func() {
		for _, e := range r.execs {
			close(e.tasks)
		}
	})
}
