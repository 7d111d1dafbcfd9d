// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tint

import (
	"github.com/xupeiwust/OpenSPH/quant"
	"github.com/xupeiwust/OpenSPH/solver"
	"github.com/xupeiwust/OpenSPH/stat"
)

// PredictorCorrector predicts with the derivatives of the previous step,
// evaluates the solver on the predicted state and corrects with the averaged
// derivatives. The previous derivatives live in a shadow storage cloned with
// the highest-derivatives selector and registered as a dependent of the main
// storage.
type PredictorCorrector struct {
	shadow *quant.Storage
}

// Step advances the storage by dt
func (o *PredictorCorrector) Step(s *quant.Storage, slv solver.Solver, stats *stat.Statistics, dt float64) float64 {
	if o.shadow == nil || o.shadow.Size() != s.Size() {
		// first step (or the particle count changed): prime the derivatives
		slv.Integrate(s, stats)
		if o.shadow == nil {
			o.shadow = s.Clone(quant.CloneHighestDt)
			s.AddDependent(o.shadow)
		} else {
			// refill the registered shadow in place
			*o.shadow = *s.Clone(quant.CloneHighestDt)
		}
	}

	// predictor: drift with the old derivatives
	// r += v dt + a dt²/2, v += a dt, y += y' dt
	advanceValues(s, dt)
	secondOrderDrift(s, 0.5*dt*dt)
	advanceDerivatives(s, dt)
	clampAll(s)

	// save predictor derivatives, then evaluate the corrector derivatives
	copyHighest(o.shadow, s)
	slv.Integrate(s, stats)

	// corrector: blend towards the new derivatives
	correct(s, o.shadow, dt)
	clampAll(s)

	slv.Collide(s, stats, dt)
	copyHighest(o.shadow, s)
	return dt
}

// secondOrderDrift adds c * y'' to the values of second-order quantities
func secondOrderDrift(s *quant.Storage, c float64) {
	eachEvolved(s, func(id quant.Id, q *quant.Quantity) {
		if q.Order() != quant.OrderSecond {
			return
		}
		switch q.Type() {
		case quant.Scalar:
			y := s.Scalar(id)
			d2y := s.ScalarD2t(id)
			for i := range y {
				y[i] += c * d2y[i]
			}
		case quant.Vector:
			y := s.Vec(id)
			d2y := s.VecD2t(id)
			for i := range y {
				y[i] = add4(y[i], c, d2y[i])
			}
		}
	})
}

// copyHighest copies the highest derivative of every evolved quantity from
// src into dst
func copyHighest(dst, src *quant.Storage) {
	eachEvolved(src, func(id quant.Id, q *quant.Quantity) {
		switch q.Type() {
		case quant.Scalar:
			var from, to []float64
			if q.Order() == quant.OrderSecond {
				from, to = src.ScalarD2t(id), dst.ScalarD2t(id)
			} else {
				from, to = src.ScalarDt(id), dst.ScalarDt(id)
			}
			copy(to, from)
		case quant.Vector:
			if q.Order() == quant.OrderSecond {
				copy(dst.VecD2t(id), src.VecD2t(id))
			} else {
				copy(dst.VecDt(id), src.VecDt(id))
			}
		case quant.SymTensor, quant.TracelessTensor:
			copy(dst.SymTensDt(id), src.SymTensDt(id))
		}
	})
}

// correct applies the corrector: values and first derivatives move towards
// the freshly evaluated derivatives
func correct(s, shadow *quant.Storage, dt float64) {
	eachEvolved(s, func(id quant.Id, q *quant.Quantity) {
		switch q.Type() {
		case quant.Scalar:
			if q.Order() == quant.OrderSecond {
				y := s.Scalar(id)
				dy := s.ScalarDt(id)
				aNew := s.ScalarD2t(id)
				aOld := shadow.ScalarD2t(id)
				for i := range y {
					d := aNew[i] - aOld[i]
					y[i] += dt * dt / 6.0 * d
					dy[i] += 0.5 * dt * d
				}
			} else {
				y := s.Scalar(id)
				dNew := s.ScalarDt(id)
				dOld := shadow.ScalarDt(id)
				for i := range y {
					y[i] += 0.5 * dt * (dNew[i] - dOld[i])
				}
			}
		case quant.Vector:
			if q.Order() == quant.OrderSecond {
				y := s.Vec(id)
				dy := s.VecDt(id)
				aNew := s.VecD2t(id)
				aOld := shadow.VecD2t(id)
				for i := range y {
					d := aNew[i].Sub(aOld[i])
					d[3] = aNew[i][3] - aOld[i][3]
					y[i] = add4(y[i], dt*dt/6.0, d)
					dy[i] = add4(dy[i], 0.5*dt, d)
				}
			} else {
				y := s.Vec(id)
				dNew := s.VecDt(id)
				dOld := shadow.VecDt(id)
				for i := range y {
					d := dNew[i].Sub(dOld[i])
					d[3] = dNew[i][3] - dOld[i][3]
					y[i] = add4(y[i], 0.5*dt, d)
				}
			}
		case quant.SymTensor, quant.TracelessTensor:
			y := s.SymTens(id)
			dNew := s.SymTensDt(id)
			dOld := shadow.SymTensDt(id)
			for i := range y {
				y[i] = y[i].Add(dNew[i].Sub(dOld[i]).Scale(0.5 * dt))
			}
		}
	})
}
