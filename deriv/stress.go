// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package deriv

import (
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/quant"
)

// StressForce implements the divergence of the deviatoric stress in the
// momentum equation, the stress heating in the energy equation, and the
// Hooke evolution of the deviatoric stress from the accumulated velocity
// gradient. With the correction tensor enabled, the strain rate is corrected
// by the inverse of the accumulated kernel-geometry tensor.
type StressForce struct {
	useCorrection bool
}

type stressDeriv struct {
	v     []geom.Vec
	m     []float64
	ρ     []float64
	S     []geom.SymTensor
	dv    []geom.Vec
	gradv []geom.SymTensor
}

type correctionDeriv struct {
	r []geom.Vec
	m []float64
	ρ []float64
	C []geom.SymTensor
}

// SetDerivatives registers pair derivatives
func (o *StressForce) SetDerivatives(h *Holder, settings *inp.Settings) {
	o.useCorrection = settings.GetBool("sph.correction-tensor")
	h.Require(func() Derivative { return new(stressDeriv) })
	if o.useCorrection {
		h.Require(func() Derivative { return new(correctionDeriv) })
	}
}

// Initialize runs before the derivative sweep
func (o *StressForce) Initialize(s *quant.Storage) {}

// Finalize evolves the deviatoric stress and adds the stress heating
func (o *StressForce) Finalize(s *quant.Storage) {
	ρ := s.Scalar(quant.Density)
	S := s.SymTens(quant.DeviatoricStress)
	dS := s.SymTensDt(quant.DeviatoricStress)
	du := s.ScalarDt(quant.Energy)
	gradv := s.SymTens(quant.VelocityGradient)

	var C []geom.SymTensor
	if o.useCorrection && s.Has(quant.CorrectionTensor) {
		C = s.SymTens(quant.CorrectionTensor)
	}

	for _, mr := range s.Materials() {
		G := 0.0
		if m, ok := mr.Mat.(*inp.Material); ok {
			G = m.ParamOr("G", 0)
		}
		for i := mr.From; i < mr.To; i++ {
			// strain rate; gradv accumulates rho times the symmetrized gradient
			ε := gradv[i].Scale(1.0 / ρ[i])
			if C != nil {
				// correct the kernel geometry error; fall back to the raw
				// gradient when the correction is singular
				inv, ok := invertSafe(C[i])
				if ok {
					ε = symMul(inv, ε)
				}
			}

			// stress heating: (S : eps) / rho
			du[i] += S[i].DoubleDot(ε) / ρ[i]

			// Hooke: dS/dt = 2 G (eps - tr(eps)/3 I)
			if G > 0 {
				dS[i] = ε.Deviator().Scale(2.0 * G)
			}
		}
	}
}

// Create ensures quantities exist
func (o *StressForce) Create(s *quant.Storage, mat quant.Material) {
	s.InsertTraceless(quant.DeviatoricStress, quant.OrderFirst, geom.SymTensor{})
	if o.useCorrection {
		s.InsertSymTens(quant.CorrectionTensor, quant.OrderZero, geom.SymIdentity())
	}
}

// invertSafe inverts t, reporting failure instead of panicking on singular
// input
func invertSafe(t geom.SymTensor) (inv geom.SymTensor, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return t.Inverse(), true
}

// symMul returns the symmetrized product of two symmetric tensors
func symMul(a, b geom.SymTensor) geom.SymTensor {
	var r geom.SymTensor
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			s := 0.0
			for k := 0; k < 3; k++ {
				s += 0.5 * (a.Get(i, k)*b.Get(k, j) + b.Get(i, k)*a.Get(k, j))
			}
			switch {
			case i == j:
				r[i] = s
			case i+j == 1:
				r[geom.XY] = s
			case i+j == 2 && i == 0:
				r[geom.XZ] = s
			default:
				r[geom.YZ] = s
			}
		}
	}
	return r
}

// Create declares written buffers
func (o *stressDeriv) Create(acc *Accumulated) {
	acc.InsertVec(quant.Position, quant.OrderSecond, Shared)
	acc.InsertSymTens(quant.VelocityGradient, quant.OrderZero, Unique)
}

// Init binds views for one thread
func (o *stressDeriv) Init(s *quant.Storage, acc *Accumulated, thread int) {
	o.v = s.VecDt(quant.Position)
	o.m = s.Scalar(quant.Mass)
	o.ρ = s.Scalar(quant.Density)
	o.S = s.SymTens(quant.DeviatoricStress)
	o.dv = acc.VecBuf(thread, quant.Position)
	o.gradv = acc.SymBuf(thread, quant.VelocityGradient)
}

// EvalPair accumulates the pair (i, j)
func (o *stressDeriv) EvalPair(i, j int, grad geom.Vec, symmetric bool) {
	// momentum: dv += m (S_i/rho_i² + S_j/rho_j²) · grad
	t := o.S[i].Scale(1.0 / (o.ρ[i] * o.ρ[i])).Add(o.S[j].Scale(1.0 / (o.ρ[j] * o.ρ[j])))
	f := t.MulVec(grad)
	o.dv[i] = o.dv[i].AddScaled(o.m[j], f)

	// velocity gradient: rho eps = sym(m v_ji ⊗ grad)
	vji := o.v[j].Sub(o.v[i])
	g := geom.SymOuter(vji, grad)
	o.gradv[i] = o.gradv[i].Add(g.Scale(o.m[j]))

	if symmetric {
		o.dv[j] = o.dv[j].AddScaled(-o.m[i], f)
		o.gradv[j] = o.gradv[j].Add(g.Scale(o.m[i]))
	}
}

// Create declares written buffers
func (o *correctionDeriv) Create(acc *Accumulated) {
	acc.InsertSymTens(quant.CorrectionTensor, quant.OrderZero, Unique)
}

// Init binds views for one thread
func (o *correctionDeriv) Init(s *quant.Storage, acc *Accumulated, thread int) {
	o.r = s.Vec(quant.Position)
	o.m = s.Scalar(quant.Mass)
	o.ρ = s.Scalar(quant.Density)
	o.C = acc.SymBuf(thread, quant.CorrectionTensor)
}

// EvalPair accumulates the pair (i, j)
func (o *correctionDeriv) EvalPair(i, j int, grad geom.Vec, symmetric bool) {
	rji := o.r[j].Sub(o.r[i])
	g := geom.SymOuter(rji, grad)
	o.C[i] = o.C[i].Add(g.Scale(o.m[j] / o.ρ[j]))
	if symmetric {
		o.C[j] = o.C[j].Add(g.Scale(o.m[i] / o.ρ[i]))
	}
}
