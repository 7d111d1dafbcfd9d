// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package deriv

import (
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/kern"
	"github.com/xupeiwust/OpenSPH/quant"
)

// XSph implements the XSPH correction partially averaging velocities over
// neighbours, keeping particles ordered in the absence of viscosity. The
// correction is applied to the integrated positions: Initialize removes the
// previous correction before the sweep, Finalize applies the fresh one.
type XSph struct {
	ε float64
}

type xsphDeriv struct {
	ε      float64
	kernel *kern.Kernel

	r  []geom.Vec
	v  []geom.Vec
	m  []float64
	ρ  []float64
	dr []geom.Vec
}

// SetDerivatives registers pair derivatives
func (o *XSph) SetDerivatives(h *Holder, settings *inp.Settings) {
	o.ε = settings.GetFloat("sph.xsph.epsilon")
	kernel := kern.MustNew(settings.GetString("sph.kernel"))
	ε := o.ε
	h.Require(func() Derivative {
		return &xsphDeriv{ε: ε, kernel: kernel}
	})
}

// Initialize removes the correction of the previous step
func (o *XSph) Initialize(s *quant.Storage) {
	if !s.Has(quant.XsphVelocities) {
		return
	}
	v := s.VecDt(quant.Position)
	dr := s.Vec(quant.XsphVelocities)
	for i := range v {
		v[i] = v[i].Sub(dr[i])
	}
}

// Finalize applies the fresh correction
func (o *XSph) Finalize(s *quant.Storage) {
	v := s.VecDt(quant.Position)
	dr := s.Vec(quant.XsphVelocities)
	for i := range v {
		v[i] = v[i].Add(dr[i])
	}
}

// Create ensures quantities exist
func (o *XSph) Create(s *quant.Storage, mat quant.Material) {
	s.InsertVec(quant.XsphVelocities, quant.OrderZero, geom.Vec{})
}

// Create declares written buffers
func (o *xsphDeriv) Create(acc *Accumulated) {
	acc.InsertVec(quant.XsphVelocities, quant.OrderZero, Unique)
}

// Init binds views for one thread
func (o *xsphDeriv) Init(s *quant.Storage, acc *Accumulated, thread int) {
	o.r = s.Vec(quant.Position)
	o.v = s.VecDt(quant.Position)
	o.m = s.Scalar(quant.Mass)
	o.ρ = s.Scalar(quant.Density)
	o.dr = acc.VecBuf(thread, quant.XsphVelocities)
}

// EvalPair accumulates the pair (i, j)
func (o *xsphDeriv) EvalPair(i, j int, grad geom.Vec, symmetric bool) {
	w := o.kernel.SymValue(o.r[i], o.r[j])
	f := o.v[j].Sub(o.v[i]).Scale(o.ε * w / (0.5 * (o.ρ[i] + o.ρ[j])))
	o.dr[i] = o.dr[i].AddScaled(o.m[j], f)
	if symmetric {
		o.dr[j] = o.dr[j].AddScaled(-o.m[i], f)
	}
}
