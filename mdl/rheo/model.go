// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package rheo implements rheology closures: yielding criteria reducing the
// deviatoric stress and fragmentation (damage) models weakening failed
// material
package rheo

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/xupeiwust/OpenSPH/quant"
)

// Model defines the interface of yielding criteria
type Model interface {
	Init(prms fun.Prms) error            // initialises model with material parameters
	Create(s *quant.Storage, from, to int) // ensures required quantities exist
	Update(s *quant.Storage, from, to int) // applies yielding after derivative evaluation
	GetPrms() fun.Prms                   // gets (an example) of parameters
}

// DamageModel defines the interface of fragmentation models
type DamageModel interface {
	Init(prms fun.Prms) error                          // initialises model with material parameters
	Seed(s *quant.Storage, from, to int, vol float64)  // distributes flaws over a body of given volume
	Update(s *quant.Storage, from, to int)             // evolves damage and weakens failed material
	GetPrms() fun.Prms                                 // gets (an example) of parameters
}

// New returns a new yielding model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("rheology %q is not available in 'rheo' database", name)
	}
	return allocator(), nil
}

// NewDamage returns a new damage model
func NewDamage(name string) (model DamageModel, err error) {
	allocator, ok := damageAllocators[name]
	if !ok {
		return nil, chk.Err("damage model %q is not available in 'rheo' database", name)
	}
	return allocator(), nil
}

// allocators holds all available yielding models; name => allocator
var allocators = map[string]func() Model{}

// damageAllocators holds all available damage models; name => allocator
var damageAllocators = map[string]func() DamageModel{}
