// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eos

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Tillotson implements the Tillotson (1962) equation of state for impact
// physics: a compressed/cold branch, an expanded/hot branch and a linear
// blend between incipient and complete vaporization
type Tillotson struct {
	ρ0  float64 // reference density
	A   float64 // bulk modulus
	B   float64 // second-order compressive coefficient
	a   float64 // Tillotson parameter a
	b   float64 // Tillotson parameter b
	α   float64 // expansion exponent alpha
	β   float64 // expansion exponent beta
	u0  float64 // sublimation energy
	uiv float64 // energy of incipient vaporization
	ucv float64 // energy of complete vaporization
}

// add model to factory
func init() {
	allocators["tillotson"] = func() Model { return new(Tillotson) }
}

// Init initialises model
func (o *Tillotson) Init(prms fun.Prms) (err error) {
	// defaults: basalt
	o.ρ0 = 2700
	o.A = 2.67e10
	o.B = 2.67e10
	o.a = 0.5
	o.b = 1.5
	o.α = 5.0
	o.β = 5.0
	o.u0 = 4.87e8
	o.uiv = 4.72e6
	o.ucv = 1.82e7
	for _, p := range prms {
		switch p.N {
		case "rho0":
			o.ρ0 = p.V
		case "A":
			o.A = p.V
		case "B":
			o.B = p.V
		case "a":
			o.a = p.V
		case "b":
			o.b = p.V
		case "alpha":
			o.α = p.V
		case "beta":
			o.β = p.V
		case "u0":
			o.u0 = p.V
		case "uiv":
			o.uiv = p.V
		case "ucv":
			o.ucv = p.V
		}
	}
	if o.ρ0 <= 0 || o.A <= 0 {
		return chk.Err("tillotson eos requires positive rho0 and A (rho0=%g, A=%g)", o.ρ0, o.A)
	}
	return
}

// GetPrms gets (an example) of parameters (basalt)
func (o *Tillotson) GetPrms() fun.Prms {
	return []*fun.Prm{
		&fun.Prm{N: "rho0", V: 2700},
		&fun.Prm{N: "A", V: 2.67e10},
		&fun.Prm{N: "B", V: 2.67e10},
		&fun.Prm{N: "a", V: 0.5},
		&fun.Prm{N: "b", V: 1.5},
		&fun.Prm{N: "alpha", V: 5.0},
		&fun.Prm{N: "beta", V: 5.0},
		&fun.Prm{N: "u0", V: 4.87e8},
		&fun.Prm{N: "uiv", V: 4.72e6},
		&fun.Prm{N: "ucv", V: 1.82e7},
	}
}

// compressed evaluates the cold/compressed branch
func (o *Tillotson) compressed(ρ, u, η, μ float64) float64 {
	ω := u/(o.u0*η*η) + 1.0
	return (o.a+o.b/ω)*ρ*u + o.A*μ + o.B*μ*μ
}

// expanded evaluates the hot/expanded branch
func (o *Tillotson) expanded(ρ, u, η, μ float64) float64 {
	ω := u/(o.u0*η*η) + 1.0
	x := o.ρ0/ρ - 1.0
	return o.a*ρ*u + (o.b*ρ*u/ω+o.A*μ*math.Exp(-o.β*x))*math.Exp(-o.α*x*x)
}

// Eval computes pressure and sound speed
func (o *Tillotson) Eval(ρ, u float64) (p, cs float64) {
	η := ρ / o.ρ0
	μ := η - 1.0
	switch {
	case μ >= 0 || u < o.uiv:
		p = o.compressed(ρ, u, η, μ)
	case u > o.ucv:
		p = o.expanded(ρ, u, η, μ)
	default:
		// hybrid regime: linear blend in energy
		pc := o.compressed(ρ, u, η, μ)
		pe := o.expanded(ρ, u, η, μ)
		f := (u - o.uiv) / (o.ucv - o.uiv)
		p = pc*(1.0-f) + pe*f
	}
	// bulk estimate of the sound speed, floored by the cold reference value
	cs2 := o.A/o.ρ0 + (o.a+o.b)*math.Max(u, 0)
	if p > 0 {
		cs2 += p / (ρ * ρ) * o.ρ0
	}
	cs = math.Sqrt(math.Max(cs2, 0.25*o.A/o.ρ0))
	return
}
