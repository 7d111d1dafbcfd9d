// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tint implements the time integrators (Euler, leap-frog,
// predictor-corrector, Runge-Kutta, Bulirsch-Stoer) and the adaptive
// timestep criteria
package tint

import (
	"github.com/cpmech/gosl/chk"
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/quant"
	"github.com/xupeiwust/OpenSPH/solver"
	"github.com/xupeiwust/OpenSPH/stat"
)

// Integrator advances a storage by one step of length dt, calling the solver
// for derivatives and discrete events. Step returns the dt actually used;
// only the Bulirsch-Stoer integrator may use less than requested.
type Integrator interface {
	Step(s *quant.Storage, slv solver.Solver, stats *stat.Statistics, dt float64) float64
}

// New returns an integrator by name
func New(name string, settings *inp.Settings) (Integrator, error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("integrator %q is not available in database", name)
	}
	return allocator(settings), nil
}

// allocators holds all available integrators; integratorname => allocator
var allocators = map[string]func(settings *inp.Settings) Integrator{
	"euler":               func(settings *inp.Settings) Integrator { return new(Euler) },
	"leap-frog":           func(settings *inp.Settings) Integrator { return new(LeapFrog) },
	"predictor-corrector": func(settings *inp.Settings) Integrator { return new(PredictorCorrector) },
	"runge-kutta":         func(settings *inp.Settings) Integrator { return new(RungeKutta) },
	"bulirsch-stoer": func(settings *inp.Settings) Integrator {
		return &BulirschStoer{Tol: settings.GetFloat("timestep.bs.tolerance")}
	},
}

// advance helpers ///////////////////////////////////////////////////////////

// add4 returns u + s*v over all four lanes; the fourth lane carries the
// smoothing length and its derivative
func add4(u geom.Vec, s float64, v geom.Vec) geom.Vec {
	return geom.Vec{u[0] + s*v[0], u[1] + s*v[1], u[2] + s*v[2], u[3] + s*v[3]}
}

// eachEvolved visits every first- and second-order quantity
func eachEvolved(s *quant.Storage, fn func(id quant.Id, q *quant.Quantity)) {
	for _, id := range s.Ids() {
		q := s.Quantity(id)
		if q.Order() == quant.OrderZero {
			continue
		}
		fn(id, q)
	}
}

// advanceValues performs y += dt * y' for every evolved quantity, where y'
// is the first derivative; for second-order quantities this drifts the
// positions only
func advanceValues(s *quant.Storage, dt float64) {
	eachEvolved(s, func(id quant.Id, q *quant.Quantity) {
		switch q.Type() {
		case quant.Scalar:
			y := s.Scalar(id)
			dy := s.ScalarDt(id)
			for i := range y {
				y[i] += dt * dy[i]
			}
		case quant.Vector:
			y := s.Vec(id)
			dy := s.VecDt(id)
			for i := range y {
				y[i] = add4(y[i], dt, dy[i])
			}
		case quant.SymTensor, quant.TracelessTensor:
			y := s.SymTens(id)
			dy := s.SymTensDt(id)
			for i := range y {
				y[i] = y[i].Add(dy[i].Scale(dt))
			}
		}
	})
}

// advanceDerivatives performs y' += dt * y'' for every second-order quantity
// (the kick)
func advanceDerivatives(s *quant.Storage, dt float64) {
	eachEvolved(s, func(id quant.Id, q *quant.Quantity) {
		if q.Order() != quant.OrderSecond {
			return
		}
		switch q.Type() {
		case quant.Scalar:
			dy := s.ScalarDt(id)
			d2y := s.ScalarD2t(id)
			for i := range dy {
				dy[i] += dt * d2y[i]
			}
		case quant.Vector:
			dy := s.VecDt(id)
			d2y := s.VecD2t(id)
			for i := range dy {
				dy[i] = add4(dy[i], dt, d2y[i])
			}
		}
	})
}

// clampAll limits every scalar quantity into its allowed interval and zeroes
// the derivative component that would push the value further out of range
func clampAll(s *quant.Storage) {
	eachEvolved(s, func(id quant.Id, q *quant.Quantity) {
		if q.Type() != quant.Scalar || q.Range().IsUnbounded() {
			return
		}
		rng := q.Range()
		y := s.Scalar(id)
		dy := s.ScalarDt(id)
		for i := range y {
			if y[i] < rng.Lo {
				y[i] = rng.Lo
				if dy[i] < 0 {
					dy[i] = 0
				}
			} else if y[i] > rng.Hi {
				y[i] = rng.Hi
				if dy[i] > 0 {
					dy[i] = 0
				}
			}
		}
	})
}
