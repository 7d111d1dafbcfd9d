// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eos

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// IdealGas implements the ideal gas equation of state
//  p = (γ - 1) ρ u
type IdealGas struct {
	γ float64 // adiabatic index
}

// add model to factory
func init() {
	allocators["ideal-gas"] = func() Model { return new(IdealGas) }
}

// Init initialises model
func (o *IdealGas) Init(prms fun.Prms) (err error) {
	o.γ = 1.4
	for _, p := range prms {
		switch p.N {
		case "gamma":
			o.γ = p.V
		}
	}
	if o.γ <= 1.0 {
		return chk.Err("adiabatic index must be greater than one (%g given)", o.γ)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o *IdealGas) GetPrms() fun.Prms {
	return []*fun.Prm{
		&fun.Prm{N: "gamma", V: 1.4},
	}
}

// Eval computes pressure and sound speed
func (o *IdealGas) Eval(ρ, u float64) (p, cs float64) {
	p = (o.γ - 1.0) * ρ * u
	cs = math.Sqrt(o.γ * (o.γ - 1.0) * math.Max(u, 0))
	return
}
