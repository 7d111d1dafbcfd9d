// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eos

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Murnaghan implements the stiffened (Murnaghan) equation of state used for
// nearly incompressible solids
//  p = c₀² (ρ - ρ₀)
type Murnaghan struct {
	ρ0 float64 // reference density
	c0 float64 // bulk sound speed
}

// add model to factory
func init() {
	allocators["murnaghan"] = func() Model { return new(Murnaghan) }
}

// Init initialises model
func (o *Murnaghan) Init(prms fun.Prms) (err error) {
	for _, p := range prms {
		switch p.N {
		case "rho0":
			o.ρ0 = p.V
		case "cs0":
			o.c0 = p.V
		case "A": // bulk modulus alternative
			if o.c0 == 0 && o.ρ0 > 0 {
				o.c0 = math.Sqrt(p.V / o.ρ0)
			}
		}
	}
	if o.ρ0 <= 0 || o.c0 <= 0 {
		return chk.Err("murnaghan eos requires positive rho0 and cs0 (rho0=%g, cs0=%g)", o.ρ0, o.c0)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o *Murnaghan) GetPrms() fun.Prms {
	return []*fun.Prm{
		&fun.Prm{N: "rho0", V: 2700},
		&fun.Prm{N: "cs0", V: 5000},
	}
}

// Eval computes pressure and sound speed
func (o *Murnaghan) Eval(ρ, u float64) (p, cs float64) {
	p = o.c0 * o.c0 * (ρ - o.ρ0)
	cs = o.c0
	return
}
