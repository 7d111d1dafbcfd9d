// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package deriv

import (
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/quant"
)

// PressureForce implements the symmetric pressure gradient and the
// compressional heating of the energy equation
type PressureForce struct{}

type pressureDeriv struct {
	r  []geom.Vec
	v  []geom.Vec
	m  []float64
	ρ  []float64
	p  []float64
	dv []geom.Vec
	du []float64
}

// SetDerivatives registers pair derivatives
func (o *PressureForce) SetDerivatives(h *Holder, settings *inp.Settings) {
	h.Require(func() Derivative { return new(pressureDeriv) })
}

// Initialize runs before the derivative sweep
func (o *PressureForce) Initialize(s *quant.Storage) {}

// Finalize runs after accumulators are stored
func (o *PressureForce) Finalize(s *quant.Storage) {}

// Create ensures quantities exist
func (o *PressureForce) Create(s *quant.Storage, mat quant.Material) {
	s.InsertScalar(quant.Energy, quant.OrderFirst, 0.0)
	s.SetRange(quant.Energy, geom.Positive(), 1.0)
}

// Create declares written buffers
func (o *pressureDeriv) Create(acc *Accumulated) {
	acc.InsertVec(quant.Position, quant.OrderSecond, Shared)
	acc.InsertScalar(quant.Energy, quant.OrderFirst, Shared)
}

// Init binds views for one thread
func (o *pressureDeriv) Init(s *quant.Storage, acc *Accumulated, thread int) {
	o.r = s.Vec(quant.Position)
	o.v = s.VecDt(quant.Position)
	o.m = s.Scalar(quant.Mass)
	o.ρ = s.Scalar(quant.Density)
	o.p = s.Scalar(quant.Pressure)
	o.dv = acc.VecBuf(thread, quant.Position)
	o.du = acc.ScalarBuf(thread, quant.Energy)
}

// EvalPair accumulates the pair (i, j)
func (o *pressureDeriv) EvalPair(i, j int, grad geom.Vec, symmetric bool) {
	fi := o.p[i] / (o.ρ[i] * o.ρ[i])
	fj := o.p[j] / (o.ρ[j] * o.ρ[j])
	f := fi + fj
	vijGrad := o.v[i].Sub(o.v[j]).Dot(grad)
	o.dv[i] = o.dv[i].AddScaled(-o.m[j]*f, grad)
	o.du[i] += fi * o.m[j] * vijGrad
	if symmetric {
		o.dv[j] = o.dv[j].AddScaled(o.m[i]*f, grad)
		o.du[j] += fj * o.m[i] * vijGrad
	}
}
