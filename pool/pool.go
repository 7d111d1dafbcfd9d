// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package pool implements the fork-join scheduler: a fixed set of worker
// goroutines executing index-range tasks. Workers expose their index so that
// callers can keep thread-local state (accumulators, neighbour lists, random
// number generators) in per-worker slots without locking.
package pool

import (
	"runtime"
	"sync"

	"github.com/cpmech/gosl/chk"
	"golang.org/x/exp/rand"
)

// DefaultGranularity is the largest number of particles handed to a worker in
// one task
const DefaultGranularity = 1000

// task is one contiguous index range to be processed
type task struct {
	lo, hi int
}

// round is one parallel-for: the per-worker task lists and the function to
// apply. Tasks are assigned to workers statically (round robin) so that the
// grouping of partial sums is identical between runs; work stealing would
// break bitwise reproducibility of the accumulator reduction.
type round struct {
	tasks [][]task
	fn    func(w, lo, hi int)
	wg    *sync.WaitGroup
}

// Pool is a fixed-size worker pool. Workers are persistent: during a
// parallel-for they drain the task queue without suspending, then block
// waiting for the next dispatch. The only suspension points are dispatch and
// wait-for-all.
type Pool struct {
	nw       int            // number of workers
	dispatch []chan *round  // per-worker dispatch of the next round
	rngs     []*rand.Rand   // per-worker random number generators
	mu       sync.Mutex     // guards busy
	busy     bool           // a parallel-for is running
}

// New returns a pool with n workers; n <= 0 selects the hardware parallelism
func New(n int) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	o := &Pool{
		nw:       n,
		dispatch: make([]chan *round, n),
		rngs:     make([]*rand.Rand, n),
	}
	for w := 0; w < n; w++ {
		o.dispatch[w] = make(chan *round, 1)
		o.rngs[w] = rand.New(rand.NewSource(uint64(2654435761 * (w + 1))))
		go o.worker(w)
	}
	return o
}

// worker drains its task list of each dispatched round, then blocks until
// the next dispatch
func (o *Pool) worker(w int) {
	for r := range o.dispatch[w] {
		for _, t := range r.tasks[w] {
			r.fn(w, t.lo, t.hi)
		}
		r.wg.Done()
	}
}

// default pool, lazily constructed for entry points that do not pass one
var (
	defaultPool *Pool
	defaultOnce sync.Once
)

// Default returns the lazily-constructed process-wide pool
func Default() *Pool {
	defaultOnce.Do(func() {
		defaultPool = New(0)
	})
	return defaultPool
}

// Size returns the number of workers
func (o *Pool) Size() int { return o.nw }

// Rng returns the random number generator of worker w
func (o *Pool) Rng(w int) *rand.Rand { return o.rngs[w] }

// Granularity returns the task size for n items: min(DefaultGranularity, n/P)
// and at least one
func (o *Pool) Granularity(n int) int {
	g := n / o.nw
	if g > DefaultGranularity {
		g = DefaultGranularity
	}
	if g < 1 {
		g = 1
	}
	return g
}

// RangeFor executes fn(worker, lo, hi) over [0, n) split into tasks of the
// given granularity and blocks until all tasks finish. The same range is
// never handed to two workers; no ordering between workers is guaranteed.
// Nested calls are forbidden.
func (o *Pool) RangeFor(n, granularity int, fn func(w, lo, hi int)) {
	if n == 0 {
		return
	}
	if granularity < 1 {
		granularity = o.Granularity(n)
	}
	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		chk.Panic("nested parallel-for is forbidden")
	}
	o.busy = true
	o.mu.Unlock()

	r := &round{
		tasks: make([][]task, o.nw),
		fn:    fn,
		wg:    new(sync.WaitGroup),
	}
	k := 0
	for lo := 0; lo < n; lo += granularity {
		hi := lo + granularity
		if hi > n {
			hi = n
		}
		w := k % o.nw
		r.tasks[w] = append(r.tasks[w], task{lo, hi})
		k++
	}

	r.wg.Add(o.nw)
	for w := 0; w < o.nw; w++ {
		o.dispatch[w] <- r
	}
	r.wg.Wait()

	o.mu.Lock()
	o.busy = false
	o.mu.Unlock()
}

// For executes fn(worker, i) for every i in [0, n) using the default
// granularity
func (o *Pool) For(n int, fn func(w, i int)) {
	o.RangeFor(n, 0, func(w, lo, hi int) {
		for i := lo; i < hi; i++ {
			fn(w, i)
		}
	})
}
