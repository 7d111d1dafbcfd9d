// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package deriv

import (
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/quant"
)

// Derivative computes pair contributions of one equation term. A separate
// instance exists per thread, bound to the thread's accumulator buffers by
// Init, so that EvalPair needs no synchronization.
type Derivative interface {
	Create(acc *Accumulated)                           // declares written buffers
	Init(s *quant.Storage, acc *Accumulated, thread int) // binds views for one thread
	EvalPair(i, j int, grad geom.Vec, symmetric bool)  // accumulates the pair (i, j); with symmetric also (j, i)
}

// Term is one equation of the solved system: it requires derivatives and may
// hook into the per-step lifecycle
type Term interface {
	SetDerivatives(h *Holder, settings *inp.Settings) // registers pair derivatives
	Initialize(s *quant.Storage)                      // runs before the derivative sweep
	Finalize(s *quant.Storage)                        // runs after accumulators are stored
	Create(s *quant.Storage, mat quant.Material)      // ensures quantities exist; called once
}

// Holder owns the equation terms, their per-thread derivative instances and
// the accumulator set
type Holder struct {
	nthreads  int
	acc       *Accumulated
	terms     []Term
	factories []func() Derivative
	perThread [][]Derivative // [thread][derivative]
}

// NewHolder returns a holder for the given number of threads
func NewHolder(nthreads int) *Holder {
	o := &Holder{
		nthreads: nthreads,
		acc:      NewAccumulated(nthreads),
	}
	o.perThread = make([][]Derivative, nthreads)
	return o
}

// AddTerm registers an equation term and collects its derivatives
func (o *Holder) AddTerm(t Term, settings *inp.Settings) {
	o.terms = append(o.terms, t)
	t.SetDerivatives(o, settings)
}

// Require registers a pair derivative: one instance per thread plus the
// buffer declarations
func (o *Holder) Require(factory func() Derivative) {
	o.factories = append(o.factories, factory)
	proto := factory()
	proto.Create(o.acc)
	for w := 0; w < o.nthreads; w++ {
		o.perThread[w] = append(o.perThread[w], factory())
	}
}

// Terms returns the registered equation terms
func (o *Holder) Terms() []Term { return o.terms }

// Accumulated exposes the accumulator set
func (o *Holder) Accumulated() *Accumulated { return o.acc }

// Initialize prepares one derivative sweep: zeroes accumulators and binds the
// per-thread views
func (o *Holder) Initialize(s *quant.Storage) {
	o.acc.Resize(s.Size())
	for w := 0; w < o.nthreads; w++ {
		for _, d := range o.perThread[w] {
			d.Init(s, o.acc, w)
		}
	}
	for _, t := range o.terms {
		t.Initialize(s)
	}
}

// EvalPair feeds the pair (i, j) to every derivative of the given thread
func (o *Holder) EvalPair(thread, i, j int, grad geom.Vec, symmetric bool) {
	for _, d := range o.perThread[thread] {
		d.EvalPair(i, j, grad, symmetric)
	}
}

// SumAndStore reduces accumulators deterministically and writes them into
// the storage
func (o *Holder) SumAndStore(s *quant.Storage) {
	o.acc.Sum()
	o.acc.Store(s)
}

// Finalize runs the term epilogues
func (o *Holder) Finalize(s *quant.Storage) {
	for _, t := range o.terms {
		t.Finalize(s)
	}
}

// Create ensures all quantities of all terms exist
func (o *Holder) Create(s *quant.Storage, mat quant.Material) {
	for _, t := range o.terms {
		t.Create(s, mat)
	}
}
