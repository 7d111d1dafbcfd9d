// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package deriv

import (
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/quant"
)

// ContinuityEquation evolves the density by the SPH continuity equation and,
// when the smoothing length is evolved, derives dh/dt from the velocity
// divergence
type ContinuityEquation struct {
	evolveH   bool
	hmin      float64
	enforcing bool
	nlo, nhi  float64
}

type continuityDeriv struct {
	v    []geom.Vec
	m    []float64
	ρ    []float64
	dρ   []float64
	divv []float64
}

// SetDerivatives registers pair derivatives
func (o *ContinuityEquation) SetDerivatives(h *Holder, settings *inp.Settings) {
	o.evolveH = settings.GetString("sph.smoothing-length") == "continuity"
	o.hmin = settings.GetFloat("sph.hmin")
	o.enforcing = settings.GetBool("sph.neighbour.enforcing")
	rng := settings.GetInterval("sph.neighbour.range")
	o.nlo, o.nhi = rng.Lo, rng.Hi
	h.Require(func() Derivative { return new(continuityDeriv) })
}

// Initialize runs before the derivative sweep
func (o *ContinuityEquation) Initialize(s *quant.Storage) {}

// Finalize derives the smoothing length evolution
func (o *ContinuityEquation) Finalize(s *quant.Storage) {
	if !o.evolveH {
		return
	}
	r := s.Vec(quant.Position)
	v := s.VecDt(quant.Position)
	divv := s.Scalar(quant.VelocityDivergence)
	cs := s.Scalar(quant.SoundSpeed)
	var cnt []int
	if o.enforcing && s.Has(quant.NeighbourCnt) {
		cnt = s.Index(quant.NeighbourCnt)
	}
	for i := range r {
		// dh/dt = h div v / 3, frozen at the lower bound
		if r[i].H() <= o.hmin && divv[i] < 0 {
			v[i][3] = 0
			continue
		}
		v[i][3] = r[i].H() * divv[i] / 3.0

		// keep the neighbour count inside the configured band by nudging h
		// at the local signal speed (counts are from the previous sweep)
		if cnt != nil {
			if float64(cnt[i]) < o.nlo {
				v[i][3] += 0.1 * cs[i]
			} else if float64(cnt[i]) > o.nhi {
				v[i][3] -= 0.1 * cs[i]
			}
		}
	}
}

// Create ensures quantities exist
func (o *ContinuityEquation) Create(s *quant.Storage, mat quant.Material) {
	s.InsertScalar(quant.VelocityDivergence, quant.OrderZero, 0.0)
}

// Create declares written buffers
func (o *continuityDeriv) Create(acc *Accumulated) {
	acc.InsertScalar(quant.Density, quant.OrderFirst, Unique)
	acc.InsertScalar(quant.VelocityDivergence, quant.OrderZero, Shared)
}

// Init binds views for one thread
func (o *continuityDeriv) Init(s *quant.Storage, acc *Accumulated, thread int) {
	o.v = s.VecDt(quant.Position)
	o.m = s.Scalar(quant.Mass)
	o.ρ = s.Scalar(quant.Density)
	o.dρ = acc.ScalarBuf(thread, quant.Density)
	o.divv = acc.ScalarBuf(thread, quant.VelocityDivergence)
}

// EvalPair accumulates the pair (i, j)
func (o *continuityDeriv) EvalPair(i, j int, grad geom.Vec, symmetric bool) {
	vijGrad := o.v[i].Sub(o.v[j]).Dot(grad)
	o.dρ[i] += o.m[j] * vijGrad
	o.divv[i] -= o.m[j] / o.ρ[j] * vijGrad
	if symmetric {
		o.dρ[j] += o.m[i] * vijGrad
		o.divv[j] -= o.m[i] / o.ρ[i] * vijGrad
	}
}
