// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package deriv

import (
	"math"

	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/quant"
)

// ArtificialViscosity implements the standard Monaghan viscosity with
// constant coefficients, or the time-dependent Morris & Monaghan variant
// where alpha evolves per particle between a floor and the configured value
type ArtificialViscosity struct {
	timeDependent bool
	α             float64
	αmin          float64
}

type avDeriv struct {
	timeDependent bool
	αconst        float64
	β             float64

	r  []geom.Vec
	v  []geom.Vec
	m  []float64
	ρ  []float64
	cs []float64
	α  []float64
	dv []geom.Vec
	du []float64
}

// SetDerivatives registers pair derivatives
func (o *ArtificialViscosity) SetDerivatives(h *Holder, settings *inp.Settings) {
	o.timeDependent = settings.GetString("sph.av.type") == "morris-monaghan"
	o.α = settings.GetFloat("sph.av.alpha")
	o.αmin = 0.05
	α := o.α
	β := settings.GetFloat("sph.av.beta")
	td := o.timeDependent
	h.Require(func() Derivative {
		return &avDeriv{timeDependent: td, αconst: α, β: β}
	})
}

// Initialize runs before the derivative sweep
func (o *ArtificialViscosity) Initialize(s *quant.Storage) {}

// Finalize evolves the Morris-Monaghan alpha from the velocity divergence
func (o *ArtificialViscosity) Finalize(s *quant.Storage) {
	if !o.timeDependent {
		return
	}
	r := s.Vec(quant.Position)
	cs := s.Scalar(quant.SoundSpeed)
	α := s.Scalar(quant.AvAlpha)
	dα := s.ScalarDt(quant.AvAlpha)
	divv := s.Scalar(quant.VelocityDivergence)
	for i := range α {
		// decay towards the floor plus a source in compression
		τ := r[i].H() / (0.2 * math.Max(cs[i], 1e-20))
		dα[i] = -(α[i]-o.αmin)/τ + math.Max(-divv[i], 0)*(o.α-α[i])
	}
}

// Create ensures quantities exist
func (o *ArtificialViscosity) Create(s *quant.Storage, mat quant.Material) {
	if o.timeDependent {
		s.InsertScalar(quant.AvAlpha, quant.OrderFirst, o.α)
		s.SetRange(quant.AvAlpha, geom.Interval{Lo: o.αmin, Hi: o.α}, o.αmin)
	}
}

// Create declares written buffers
func (o *avDeriv) Create(acc *Accumulated) {
	acc.InsertVec(quant.Position, quant.OrderSecond, Shared)
	acc.InsertScalar(quant.Energy, quant.OrderFirst, Shared)
}

// Init binds views for one thread
func (o *avDeriv) Init(s *quant.Storage, acc *Accumulated, thread int) {
	o.r = s.Vec(quant.Position)
	o.v = s.VecDt(quant.Position)
	o.m = s.Scalar(quant.Mass)
	o.ρ = s.Scalar(quant.Density)
	o.cs = s.Scalar(quant.SoundSpeed)
	if o.timeDependent {
		o.α = s.Scalar(quant.AvAlpha)
	}
	o.dv = acc.VecBuf(thread, quant.Position)
	o.du = acc.ScalarBuf(thread, quant.Energy)
}

// EvalPair accumulates the pair (i, j)
func (o *avDeriv) EvalPair(i, j int, grad geom.Vec, symmetric bool) {
	rij := o.r[i].Sub(o.r[j])
	vij := o.v[i].Sub(o.v[j])
	vr := vij.Dot(rij)
	if vr >= 0 {
		// receding pair: no viscosity
		return
	}
	hbar := 0.5 * (o.r[i].H() + o.r[j].H())
	csbar := 0.5 * (o.cs[i] + o.cs[j])
	ρbar := 0.5 * (o.ρ[i] + o.ρ[j])
	α := o.αconst
	β := o.β
	if o.timeDependent {
		α = 0.5 * (o.α[i] + o.α[j])
		β = 2.0 * α
	}
	μ := hbar * vr / (rij.SqrLen() + 0.01*hbar*hbar)
	Π := (-α*csbar*μ + β*μ*μ) / ρbar

	o.dv[i] = o.dv[i].AddScaled(-o.m[j]*Π, grad)
	heat := 0.5 * Π * vij.Dot(grad)
	o.du[i] += o.m[j] * heat
	if symmetric {
		o.dv[j] = o.dv[j].AddScaled(o.m[i]*Π, grad)
		o.du[j] += o.m[i] * heat
	}
}
