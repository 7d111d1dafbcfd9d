// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"

	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/pool"
	"github.com/xupeiwust/OpenSPH/quant"
	"github.com/xupeiwust/OpenSPH/stat"
)

// summationSolver obtains the density by direct summation over neighbours
// instead of evolving the continuity equation. The smoothing length and
// density are iterated to mutual consistency; non-convergence within the
// iteration budget is surfaced through statistics, not an error.
type summationSolver struct {
	*genericSolver
	η       float64
	maxIter int
	tol     float64
	ρnew    []float64
}

// newSummationSolver builds the solver from settings
func newSummationSolver(p *pool.Pool, settings *inp.Settings) *summationSolver {
	return &summationSolver{
		genericSolver: newGenericSolver(p, settings, false, false),
		η:             settings.GetFloat("sph.eta"),
		maxIter:       settings.GetInt("sph.summation.iterations"),
		tol:           settings.GetFloat("sph.summation.tolerance"),
	}
}

// Create ensures all required columns exist
func (o *summationSolver) Create(s *quant.Storage, mat quant.Material) {
	o.genericSolver.Create(s, mat)
	// density is summed, not evolved
	s.InsertScalar(quant.Density, quant.OrderZero, 0.0)
}

// Integrate sums the density and then runs the derivative sweep
func (o *summationSolver) Integrate(s *quant.Storage, stats *stat.Statistics) {
	n := s.Size()
	if n == 0 {
		return
	}
	r := s.Vec(quant.Position)
	m := s.Scalar(quant.Mass)
	ρ := s.Scalar(quant.Density)
	if len(o.ρnew) != n {
		o.ρnew = make([]float64, n)
	}

	// fixed-point iteration of density and smoothing length
	iter := 0
	for ; iter < o.maxIter; iter++ {
		o.finder.Build(r)
		maxDiff := 0.0
		diffs := make([]float64, o.pool.Size())
		o.pool.RangeFor(n, o.gran, func(w, lo, hi int) {
			ns := o.neighs[w]
			for i := lo; i < hi; i++ {
				radius := o.kernel.Radius() * r[i].H()
				ns = o.finder.FindAll(i, radius, ns)
				// self contribution plus neighbours
				sum := m[i] * o.kernel.Value(0, r[i].H())
				for _, nb := range ns {
					sum += m[nb.Index] * o.kernel.SymValue(r[i], r[nb.Index])
				}
				o.ρnew[i] = sum
				if ρ[i] > 0 {
					d := math.Abs(sum-ρ[i]) / ρ[i]
					if d > diffs[w] {
						diffs[w] = d
					}
				}
			}
			o.neighs[w] = ns
		})
		for _, d := range diffs {
			maxDiff = math.Max(maxDiff, d)
		}
		copy(ρ, o.ρnew)
		// new smoothing lengths from the updated density
		for i := 0; i < n; i++ {
			h := o.η * math.Cbrt(m[i]/ρ[i])
			if h < o.hmin {
				h = o.hmin
			}
			r[i][3] = h
		}
		if maxDiff < o.tol {
			iter++
			break
		}
	}
	stats.SetInt(stat.SummationIters, iter)

	o.genericSolver.Integrate(s, stats)
}
