// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package deriv

import (
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/quant"
)

// Friction implements internal friction: a dissipative force damping the
// relative tangential velocity between neighbouring particles, used to
// stabilize rubble-pile targets
type Friction struct{}

type frictionDeriv struct {
	μ float64

	r  []geom.Vec
	v  []geom.Vec
	m  []float64
	ρ  []float64
	cs []float64
	dv []geom.Vec
	du []float64
}

// SetDerivatives registers pair derivatives
func (o *Friction) SetDerivatives(h *Holder, settings *inp.Settings) {
	μ := settings.GetFloat("sph.friction.coefficient")
	h.Require(func() Derivative {
		return &frictionDeriv{μ: μ}
	})
}

// Initialize runs before the derivative sweep
func (o *Friction) Initialize(s *quant.Storage) {}

// Finalize runs after accumulators are stored
func (o *Friction) Finalize(s *quant.Storage) {}

// Create ensures quantities exist
func (o *Friction) Create(s *quant.Storage, mat quant.Material) {}

// Create declares written buffers
func (o *frictionDeriv) Create(acc *Accumulated) {
	acc.InsertVec(quant.Position, quant.OrderSecond, Shared)
	acc.InsertScalar(quant.Energy, quant.OrderFirst, Shared)
}

// Init binds views for one thread
func (o *frictionDeriv) Init(s *quant.Storage, acc *Accumulated, thread int) {
	o.r = s.Vec(quant.Position)
	o.v = s.VecDt(quant.Position)
	o.m = s.Scalar(quant.Mass)
	o.ρ = s.Scalar(quant.Density)
	o.cs = s.Scalar(quant.SoundSpeed)
	o.dv = acc.VecBuf(thread, quant.Position)
	o.du = acc.ScalarBuf(thread, quant.Energy)
}

// EvalPair accumulates the pair (i, j)
func (o *frictionDeriv) EvalPair(i, j int, grad geom.Vec, symmetric bool) {
	rij := o.r[i].Sub(o.r[j])
	l := rij.Len()
	if l == 0 {
		return
	}
	n := rij.Scale(1.0 / l)
	vij := o.v[i].Sub(o.v[j])
	vt := vij.Sub(n.Scale(vij.Dot(n)))
	vtl := vt.Len()
	if vtl == 0 {
		return
	}
	// damping scaled by the sound speed and the kernel gradient magnitude
	csbar := 0.5 * (o.cs[i] + o.cs[j])
	ρbar := 0.5 * (o.ρ[i] + o.ρ[j])
	f := o.μ * csbar * grad.Len() / ρbar

	o.dv[i] = o.dv[i].AddScaled(-o.m[j]*f, vt.Scale(1.0/vtl))
	o.du[i] += o.m[j] * f * vtl * 0.5
	if symmetric {
		o.dv[j] = o.dv[j].AddScaled(o.m[i]*f, vt.Scale(1.0/vtl))
		o.du[j] += o.m[i] * f * vtl * 0.5
	}
}
