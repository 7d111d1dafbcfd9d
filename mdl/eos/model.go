// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package eos implements equations of state relating density and specific
// internal energy to pressure and sound speed
package eos

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Model defines the interface of equations of state
type Model interface {
	Init(prms fun.Prms) error        // initialises the model with material parameters
	Eval(ρ, u float64) (p, cs float64) // evaluates pressure and sound speed
	GetPrms() fun.Prms               // gets an example of parameters
}

// New returns a new equation of state
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("equation of state %q is not available in 'eos' database", name)
	}
	return allocator(), nil
}

// allocators holds all available equations of state; name => allocator
var allocators = map[string]func() Model{}
