// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"github.com/cpmech/gosl/chk"
	"github.com/xupeiwust/OpenSPH/deriv"
	"github.com/xupeiwust/OpenSPH/grav"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/kern"
	"github.com/xupeiwust/OpenSPH/pool"
	"github.com/xupeiwust/OpenSPH/quant"
	"github.com/xupeiwust/OpenSPH/stat"
	"github.com/xupeiwust/OpenSPH/tree"
)

// genericSolver runs one derivative sweep per step: neighbour queries feed
// the equation terms through per-thread accumulators, which are reduced
// deterministically and stored back into the storage. The symmetric variant
// visits each pair once through lower-rank queries; the asymmetric variant
// queries all neighbours and writes only the i-side.
type genericSolver struct {
	pool      *pool.Pool
	settings  *inp.Settings
	symmetric bool
	kernel    *kern.Kernel
	finder    tree.Finder
	holder    *deriv.Holder
	gravity   grav.Solver
	hmin      float64
	gran      int

	// per-thread scratch
	neighs [][]tree.Neighbour
	counts [][]int
}

// newGenericSolver builds the solver and its equation set from settings
func newGenericSolver(p *pool.Pool, settings *inp.Settings, symmetric, withContinuity bool) *genericSolver {
	o := &genericSolver{
		pool:      p,
		settings:  settings,
		symmetric: symmetric,
		kernel:    kern.MustNew(settings.GetString("sph.kernel")),
		holder:    deriv.NewHolder(p.Size()),
		hmin:      settings.GetFloat("sph.hmin"),
		gran:      settings.GetInt("pool.granularity"),
	}
	finder, err := tree.New(settings.GetString("sph.finder"))
	if err != nil {
		chk.Panic("%v", err)
	}
	o.finder = finder

	// equation set
	o.holder.AddTerm(new(deriv.PressureForce), settings)
	if withContinuity {
		o.holder.AddTerm(new(deriv.ContinuityEquation), settings)
	}
	if settings.GetBool("sph.stress.enable") {
		o.holder.AddTerm(new(deriv.StressForce), settings)
	}
	if settings.GetString("sph.av.type") != "none" {
		o.holder.AddTerm(new(deriv.ArtificialViscosity), settings)
	}
	if settings.GetBool("sph.xsph.enable") {
		o.holder.AddTerm(new(deriv.XSph), settings)
	}
	if settings.GetBool("sph.friction.enable") {
		o.holder.AddTerm(new(deriv.Friction), settings)
	}
	o.holder.AddTerm(new(deriv.InertialForce), settings)

	if settings.GetBool("gravity.enable") {
		bh := grav.NewBarnesHut(
			settings.GetFloat("gravity.theta"),
			settings.GetFloat("gravity.constant"),
			settings.GetInt("gravity.order"),
		)
		if settings.GetString("gravity.kernel") == "sph" {
			bh.Soft = kern.NewGravityKernel(o.kernel)
		}
		o.gravity = bh
	}

	o.neighs = make([][]tree.Neighbour, p.Size())
	o.counts = make([][]int, p.Size())
	return o
}

// Create ensures all required columns exist; called once before the first
// integration
func (o *genericSolver) Create(s *quant.Storage, mat quant.Material) {
	if mat != nil {
		mat.Create(s, 0, s.Size())
	}
	o.holder.Create(s, mat)
	s.InsertIndex(quant.NeighbourCnt, quant.OrderZero, 0)
}

// Integrate computes all highest derivatives
func (o *genericSolver) Integrate(s *quant.Storage, stats *stat.Statistics) {
	n := s.Size()
	if n == 0 {
		return
	}
	s.ZeroHighestDerivatives()

	// clamp smoothing lengths from below
	r := s.Vec(quant.Position)
	for i := range r {
		if r[i][3] < o.hmin {
			r[i][3] = o.hmin
		}
	}

	// materials update pressure and sound speed before the sweep
	for _, mr := range s.Materials() {
		mr.Mat.Initialize(s, mr.From, mr.To)
	}

	o.holder.Initialize(s)
	o.finder.Build(r)

	// per-thread neighbour count scratch
	for w := range o.counts {
		if len(o.counts[w]) != n {
			o.counts[w] = make([]int, n)
		} else {
			for i := range o.counts[w] {
				o.counts[w][i] = 0
			}
		}
	}

	// the derivative sweep; pair work is done once in the symmetric variant
	o.pool.RangeFor(n, o.gran, func(w, lo, hi int) {
		ns := o.neighs[w]
		for i := lo; i < hi; i++ {
			radius := o.kernel.Radius() * r[i].H()
			if o.symmetric {
				ns = o.finder.FindLowerRank(i, radius, ns)
			} else {
				ns = o.finder.FindAll(i, radius, ns)
			}
			for _, nb := range ns {
				j := nb.Index
				grad := o.kernel.SymGrad(r[i], r[j])
				o.holder.EvalPair(w, i, j, grad, o.symmetric)
				o.counts[w][i]++
				if o.symmetric {
					o.counts[w][j]++
				}
			}
		}
		o.neighs[w] = ns
	})

	// the wait above is the fence: reduce deterministically, store, then let
	// the terms run their epilogues
	o.holder.SumAndStore(s)

	if o.gravity != nil {
		m := s.Scalar(quant.Mass)
		o.gravity.Build(r, m)
		dv := s.VecD2t(quant.Position)
		o.pool.RangeFor(n, o.gran, func(w, lo, hi int) {
			for i := lo; i < hi; i++ {
				dv[i] = dv[i].Add(o.gravity.Eval(i))
			}
		})
	}

	o.holder.Finalize(s)

	// neighbour counts, merged in thread index order
	cnt := s.Index(quant.NeighbourCnt)
	for i := 0; i < n; i++ {
		c := 0
		for w := range o.counts {
			c += o.counts[w][i]
		}
		cnt[i] = c
		stats.Accum(stat.NeighbourCnt, float64(c))
	}

	// materials apply rheology after the sweep
	for _, mr := range s.Materials() {
		mr.Mat.Finalize(s, mr.From, mr.To)
	}

	o.assertFinite(s)
}

// Collide implements discrete events (none for continuous SPH evolution)
func (o *genericSolver) Collide(s *quant.Storage, stats *stat.Statistics, dt float64) {}

// assertFinite panics on non-finite accelerations, which indicate a bug
// rather than a recoverable state
func (o *genericSolver) assertFinite(s *quant.Storage) {
	dv := s.VecD2t(quant.Position)
	for i := range dv {
		if !dv[i].IsReal() {
			chk.Panic("acceleration of particle %d is not finite: %v", i, dv[i])
		}
	}
}
