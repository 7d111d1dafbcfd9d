// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tint

import (
	"github.com/xupeiwust/OpenSPH/quant"
	"github.com/xupeiwust/OpenSPH/solver"
	"github.com/xupeiwust/OpenSPH/stat"
)

// Euler is the explicit first-order scheme: the highest derivatives are
// computed once per step and all levels advance by dt
type Euler struct{}

// Step advances the storage by dt
func (o *Euler) Step(s *quant.Storage, slv solver.Solver, stats *stat.Statistics, dt float64) float64 {
	slv.Integrate(s, stats)
	advanceDerivatives(s, dt)
	advanceValues(s, dt)
	clampAll(s)
	slv.Collide(s, stats, dt)
	return dt
}

// LeapFrog is the kick-drift-kick scheme, second-order accurate for
// conservative forces; one derivative evaluation per step
type LeapFrog struct {
	primed bool
}

// Step advances the storage by dt
func (o *LeapFrog) Step(s *quant.Storage, slv solver.Solver, stats *stat.Statistics, dt float64) float64 {
	if !o.primed {
		// the first kick needs accelerations of the initial state
		slv.Integrate(s, stats)
		o.primed = true
	}

	// kick
	advanceDerivatives(s, 0.5*dt)
	// drift
	advanceValues(s, dt)
	clampAll(s)
	// accelerations at the drifted state
	slv.Integrate(s, stats)
	// kick
	advanceDerivatives(s, 0.5*dt)
	clampAll(s)

	slv.Collide(s, stats, dt)
	return dt
}
