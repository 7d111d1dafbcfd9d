// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tint

import (
	"math"

	"github.com/xupeiwust/OpenSPH/quant"
	"github.com/xupeiwust/OpenSPH/solver"
	"github.com/xupeiwust/OpenSPH/stat"
)

// bsSequence is the substep sequence of the trial integrations
var bsSequence = []int{2, 4, 8}

// BulirschStoer integrates each trial with successively more substeps and
// extrapolates the states to zero step size (Richardson). It is the only
// integrator that may reject a step: when the extrapolation error exceeds
// the tolerance, the step is halved and retried internally; the combiner
// only ever sees the accepted step size.
type BulirschStoer struct {
	Tol float64 // relative tolerance of the extrapolation error
}

// Step advances the storage by at most dt; the returned value is the step
// actually taken
func (o *BulirschStoer) Step(s *quant.Storage, slv solver.Solver, stats *stat.Statistics, dt float64) float64 {
	const maxRejections = 8
	h := dt
	for reject := 0; ; reject++ {
		trials := make([]*quant.Storage, len(bsSequence))
		for k, n := range bsSequence {
			trials[k] = o.midpoint(s, slv, stats, h, n)
		}

		// Richardson extrapolation to zero substep using Neville's scheme on
		// the trial states
		for col := 1; col < len(trials); col++ {
			for k := len(trials) - 1; k >= col; k-- {
				ra := float64(bsSequence[k])
				rb := float64(bsSequence[k-col])
				f := 1.0 / (ra/rb - 1.0)
				extrapolate(trials[k], trials[k-1], f)
			}
		}
		err := maxDifference(trials[len(trials)-1], trials[len(trials)-2])
		if err <= o.Tol || reject >= maxRejections {
			adopt(s, trials[len(trials)-1])
			clampAll(s)
			slv.Collide(s, stats, h)
			return h
		}
		stats.AddInt(stat.BsRejectCnt, 1)
		h *= 0.5
	}
}

// midpoint advances a clone of s by h using n explicit substeps
func (o *BulirschStoer) midpoint(s *quant.Storage, slv solver.Solver, stats *stat.Statistics, h float64, n int) *quant.Storage {
	sub := h / float64(n)
	c := s.Clone(quant.CloneAll)
	for k := 0; k < n; k++ {
		slv.Integrate(c, stats)
		advanceDerivatives(c, sub)
		advanceValues(c, sub)
	}
	return c
}

// extrapolate performs t = t + f*(t - u) elementwise on values and first
// derivatives of all evolved quantities
func extrapolate(t, u *quant.Storage, f float64) {
	eachEvolved(t, func(id quant.Id, q *quant.Quantity) {
		switch q.Type() {
		case quant.Scalar:
			a, b := t.Scalar(id), u.Scalar(id)
			for i := range a {
				a[i] += f * (a[i] - b[i])
			}
			if q.Order() == quant.OrderSecond {
				a, b = t.ScalarDt(id), u.ScalarDt(id)
				for i := range a {
					a[i] += f * (a[i] - b[i])
				}
			}
		case quant.Vector:
			a, b := t.Vec(id), u.Vec(id)
			for i := range a {
				d := a[i]
				for c := 0; c < 4; c++ {
					d[c] += f * (a[i][c] - b[i][c])
				}
				a[i] = d
			}
			if q.Order() == quant.OrderSecond {
				a, b = t.VecDt(id), u.VecDt(id)
				for i := range a {
					d := a[i]
					for c := 0; c < 4; c++ {
						d[c] += f * (a[i][c] - b[i][c])
					}
					a[i] = d
				}
			}
		case quant.SymTensor, quant.TracelessTensor:
			a, b := t.SymTens(id), u.SymTens(id)
			for i := range a {
				a[i] = a[i].Add(a[i].Sub(b[i]).Scale(f))
			}
		}
	})
}

// maxDifference returns the largest relative difference of the position
// values and evolved scalars between two states
func maxDifference(a, b *quant.Storage) float64 {
	worst := 0.0
	eachEvolved(a, func(id quant.Id, q *quant.Quantity) {
		switch q.Type() {
		case quant.Scalar:
			x, y := a.Scalar(id), b.Scalar(id)
			for i := range x {
				scale := math.Max(math.Abs(x[i]), 1.0)
				worst = math.Max(worst, math.Abs(x[i]-y[i])/scale)
			}
		case quant.Vector:
			x, y := a.Vec(id), b.Vec(id)
			for i := range x {
				d := x[i].Sub(y[i]).Len()
				scale := math.Max(x[i].Len(), 1.0)
				worst = math.Max(worst, d/scale)
			}
		}
	})
	return worst
}

// adopt copies the accepted state (values and first derivatives) into the
// main storage
func adopt(s, from *quant.Storage) {
	eachEvolved(s, func(id quant.Id, q *quant.Quantity) {
		switch q.Type() {
		case quant.Scalar:
			copy(s.Scalar(id), from.Scalar(id))
			copy(s.ScalarDt(id), from.ScalarDt(id))
			if q.Order() == quant.OrderSecond {
				copy(s.ScalarD2t(id), from.ScalarD2t(id))
			}
		case quant.Vector:
			copy(s.Vec(id), from.Vec(id))
			copy(s.VecDt(id), from.VecDt(id))
			if q.Order() == quant.OrderSecond {
				copy(s.VecD2t(id), from.VecD2t(id))
			}
		case quant.SymTensor, quant.TracelessTensor:
			copy(s.SymTens(id), from.SymTens(id))
			copy(s.SymTensDt(id), from.SymTensDt(id))
		}
	})
}
