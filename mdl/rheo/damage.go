// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rheo

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/rnd"
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/quant"
)

// GradyKipp implements scalar Grady-Kipp fragmentation: Weibull-distributed
// flaws activate when the local scalar strain exceeds their activation
// threshold, and damage grows at a rate set by the crack propagation speed
// over the particle size. Damage weakens the deviatoric stress and tensile
// pressure.
type GradyKipp struct {
	m    float64 // Weibull exponent
	k    float64 // Weibull coefficient (flaw density)
	E    float64 // Young modulus used to convert stress to scalar strain
	cgf  float64 // crack growth speed as a fraction of the sound speed
	seed int     // rng seed for flaw distribution
}

// add model to factory
func init() {
	damageAllocators["scalar-grady-kipp"] = func() DamageModel { return new(GradyKipp) }
}

// Init initialises model
func (o *GradyKipp) Init(prms fun.Prms) (err error) {
	o.m = 9.0
	o.k = 1e27
	o.E = 8.0e10
	o.cgf = 0.4
	o.seed = 1234
	for _, p := range prms {
		switch p.N {
		case "weibull_m":
			o.m = p.V
		case "weibull_k":
			o.k = p.V
		case "E":
			o.E = p.V
		case "cg":
			o.cgf = p.V
		case "seed":
			o.seed = int(p.V)
		}
	}
	if o.m <= 0 || o.k <= 0 || o.E <= 0 {
		return chk.Err("grady-kipp requires positive weibull_m, weibull_k and E")
	}
	return
}

// GetPrms gets (an example) of parameters (basalt)
func (o *GradyKipp) GetPrms() fun.Prms {
	return []*fun.Prm{
		&fun.Prm{N: "weibull_m", V: 9},
		&fun.Prm{N: "weibull_k", V: 1e27},
		&fun.Prm{N: "E", V: 8.0e10},
		&fun.Prm{N: "cg", V: 0.4},
	}
}

// Seed distributes Weibull flaws over the particles of a body with given
// volume. The distribution is deterministic for a fixed seed.
func (o *GradyKipp) Seed(s *quant.Storage, from, to int, vol float64) {
	s.InsertScalar(quant.Damage, quant.OrderFirst, 0.0)
	s.SetRange(quant.Damage, geom.Interval{Lo: 0, Hi: 1}, 0.1)
	s.InsertScalar(quant.EpsMin, quant.OrderZero, 0.0)
	s.InsertIndex(quant.NFlaws, quant.OrderZero, 0)

	n := to - from
	if n == 0 {
		return
	}
	εmin := s.Scalar(quant.EpsMin)
	nflaws := s.Index(quant.NFlaws)

	// the i-th flaw over the whole body activates at eps_i = (i / (k V))^(1/m);
	// flaws are assigned to particles round-robin through a shuffled order so
	// that every particle receives at least one
	rnd.Init(o.seed)
	total := 3 * n
	order := make([]int, n)
	for i := range order {
		order[i] = from + i
	}
	rnd.IntShuffle(order)
	for f := 0; f < total; f++ {
		i := order[f%n]
		ε := math.Pow(float64(f+1)/(o.k*vol), 1.0/o.m)
		if nflaws[i] == 0 || ε < εmin[i] {
			εmin[i] = ε
		}
		nflaws[i]++
	}
}

// Update evolves the damage derivative and weakens failed material
func (o *GradyKipp) Update(s *quant.Storage, from, to int) {
	D := s.Scalar(quant.Damage)
	dD := s.ScalarDt(quant.Damage)
	εmin := s.Scalar(quant.EpsMin)
	p := s.Scalar(quant.Pressure)
	S := s.SymTens(quant.DeviatoricStress)
	cs := s.Scalar(quant.SoundSpeed)
	r := s.Vec(quant.Position)

	for i := from; i < to; i++ {
		// scalar strain from the largest tensile principal stress
		σ := S[i]
		σ[geom.XX] -= p[i]
		σ[geom.YY] -= p[i]
		σ[geom.ZZ] -= p[i]
		vals, _ := σ.Eigen()
		σmax := math.Max(vals[0], math.Max(vals[1], vals[2]))
		ε := σmax / o.E

		if ε > εmin[i] && D[i] < 1.0 {
			// crack grows through the particle at a fraction of the sound speed
			dD[i] = 3.0 * o.cgf * cs[i] / r[i].H() * math.Pow(math.Max(D[i], 1e-4), 2.0/3.0)
		} else {
			dD[i] = 0
		}

		// weaken deviatoric stress and tensile pressure
		f := 1.0 - D[i]
		S[i] = S[i].Scale(f)
		if p[i] < 0 {
			p[i] *= f
		}
	}
}
