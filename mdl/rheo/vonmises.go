// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rheo

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/xupeiwust/OpenSPH/quant"
)

// Elastic is the trivial rheology: Hookean deformation without yielding
type Elastic struct{}

// VonMises limits the deviatoric stress by the von Mises criterion: the
// stress is scaled so that sqrt(3 J₂) never exceeds the yield stress
type VonMises struct {
	Y float64 // yield stress
}

// DruckerPrager limits the deviatoric stress by a pressure-dependent yield
// stress, interpolating between cohesion at zero pressure and internal
// friction under compression
type DruckerPrager struct {
	Y0 float64 // cohesion (yield stress at zero pressure)
	μi float64 // coefficient of internal friction
	Ym float64 // upper bound of the yield stress
}

// add models to factory
func init() {
	allocators["elastic"] = func() Model { return new(Elastic) }
	allocators["von-mises"] = func() Model { return new(VonMises) }
	allocators["drucker-prager"] = func() Model { return new(DruckerPrager) }
}

// Elastic ///////////////////////////////////////////////////////////////////

// Init initialises model
func (o *Elastic) Init(prms fun.Prms) (err error) { return }

// GetPrms gets (an example) of parameters
func (o *Elastic) GetPrms() fun.Prms { return nil }

// Create ensures required quantities exist
func (o *Elastic) Create(s *quant.Storage, from, to int) {}

// Update applies yielding (no-op for elastic material)
func (o *Elastic) Update(s *quant.Storage, from, to int) {}

// VonMises //////////////////////////////////////////////////////////////////

// Init initialises model
func (o *VonMises) Init(prms fun.Prms) (err error) {
	for _, p := range prms {
		switch p.N {
		case "Y":
			o.Y = p.V
		}
	}
	if o.Y <= 0 {
		return chk.Err("von Mises yield stress must be positive (%g given)", o.Y)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o *VonMises) GetPrms() fun.Prms {
	return []*fun.Prm{
		&fun.Prm{N: "Y", V: 3.5e9},
	}
}

// Create ensures required quantities exist
func (o *VonMises) Create(s *quant.Storage, from, to int) {
	s.InsertScalar(quant.StressReducing, quant.OrderZero, 1.0)
}

// Update applies yielding
func (o *VonMises) Update(s *quant.Storage, from, to int) {
	S := s.SymTens(quant.DeviatoricStress)
	red := s.Scalar(quant.StressReducing)
	for i := from; i < to; i++ {
		J2 := S[i].SecondInvariant()
		f := 1.0
		if J2 > 0 {
			f = math.Min(1.0, o.Y/math.Sqrt(3.0*J2))
		}
		S[i] = S[i].Scale(f)
		red[i] = f
	}
}

// DruckerPrager /////////////////////////////////////////////////////////////

// Init initialises model
func (o *DruckerPrager) Init(prms fun.Prms) (err error) {
	o.Ym = math.Inf(1)
	for _, p := range prms {
		switch p.N {
		case "Y0":
			o.Y0 = p.V
		case "mu":
			o.μi = p.V
		case "Ymax":
			o.Ym = p.V
		}
	}
	if o.Y0 < 0 || o.μi < 0 {
		return chk.Err("drucker-prager requires non-negative Y0 and mu (Y0=%g, mu=%g)", o.Y0, o.μi)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o *DruckerPrager) GetPrms() fun.Prms {
	return []*fun.Prm{
		&fun.Prm{N: "Y0", V: 1e7},
		&fun.Prm{N: "mu", V: 0.8},
		&fun.Prm{N: "Ymax", V: 3.5e9},
	}
}

// Create ensures required quantities exist
func (o *DruckerPrager) Create(s *quant.Storage, from, to int) {
	s.InsertScalar(quant.StressReducing, quant.OrderZero, 1.0)
}

// Update applies yielding
func (o *DruckerPrager) Update(s *quant.Storage, from, to int) {
	S := s.SymTens(quant.DeviatoricStress)
	p := s.Scalar(quant.Pressure)
	red := s.Scalar(quant.StressReducing)
	for i := from; i < to; i++ {
		Y := o.Y0 + o.μi*math.Max(p[i], 0)
		if Y > o.Ym {
			Y = o.Ym
		}
		J2 := S[i].SecondInvariant()
		f := 1.0
		if J2 > 0 {
			f = math.Min(1.0, Y/math.Sqrt(3.0*J2))
		}
		S[i] = S[i].Scale(f)
		red[i] = f
	}
}
