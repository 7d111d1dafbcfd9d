// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tint

import (
	"github.com/xupeiwust/OpenSPH/quant"
	"github.com/xupeiwust/OpenSPH/solver"
	"github.com/xupeiwust/OpenSPH/stat"
)

// RungeKutta is the classical four-stage RK4 scheme applied to all
// time-dependent quantities. Stage states are full clones of the storage;
// the stage slopes (value of the first derivative and the highest
// derivative) are taken from the advanced clones.
type RungeKutta struct{}

// Step advances the storage by dt
func (o *RungeKutta) Step(s *quant.Storage, slv solver.Solver, stats *stat.Statistics, dt float64) float64 {

	// k1 at the initial state
	slv.Integrate(s, stats)
	k1 := s.Clone(quant.CloneAll)

	// k2 at the half step advanced with k1
	s2 := s.Clone(quant.CloneAll)
	advanceStage(s2, k1, 0.5*dt)
	slv.Integrate(s2, stats)

	// k3 at the half step advanced with k2
	s3 := s.Clone(quant.CloneAll)
	advanceStage(s3, s2, 0.5*dt)
	slv.Integrate(s3, stats)

	// k4 at the full step advanced with k3
	s4 := s.Clone(quant.CloneAll)
	advanceStage(s4, s3, dt)
	slv.Integrate(s4, stats)

	// combine: y += dt/6 (k1 + 2 k2 + 2 k3 + k4)
	combineStage(s, k1, dt/6.0)
	combineStage(s, s2, dt/3.0)
	combineStage(s, s3, dt/3.0)
	combineStage(s, s4, dt/6.0)
	clampAll(s)

	slv.Collide(s, stats, dt)
	return dt
}

// advanceStage sets dst to the base state advanced by c using the slopes of
// the stage storage: values advance with the stage first derivatives,
// first derivatives with the stage highest derivatives
func advanceStage(dst, stage *quant.Storage, c float64) {
	eachEvolved(dst, func(id quant.Id, q *quant.Quantity) {
		switch q.Type() {
		case quant.Scalar:
			y := dst.Scalar(id)
			dy := stage.ScalarDt(id)
			for i := range y {
				y[i] += c * dy[i]
			}
			if q.Order() == quant.OrderSecond {
				v := dst.ScalarDt(id)
				a := stage.ScalarD2t(id)
				for i := range v {
					v[i] += c * a[i]
				}
			}
		case quant.Vector:
			y := dst.Vec(id)
			dy := stage.VecDt(id)
			for i := range y {
				y[i] = add4(y[i], c, dy[i])
			}
			if q.Order() == quant.OrderSecond {
				v := dst.VecDt(id)
				a := stage.VecD2t(id)
				for i := range v {
					v[i] = add4(v[i], c, a[i])
				}
			}
		case quant.SymTensor, quant.TracelessTensor:
			y := dst.SymTens(id)
			dy := stage.SymTensDt(id)
			for i := range y {
				y[i] = y[i].Add(dy[i].Scale(c))
			}
		}
	})
}

// combineStage accumulates one weighted stage slope into the base storage
func combineStage(s, stage *quant.Storage, w float64) {
	advanceStage(s, stage, w)
}
