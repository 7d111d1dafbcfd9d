// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package solver implements the SPH derivative evaluators: the symmetric
// solver visiting each pair once through lower-rank neighbour queries, the
// asymmetric solver, and the density summation solver
package solver

import (
	"github.com/cpmech/gosl/chk"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/pool"
	"github.com/xupeiwust/OpenSPH/quant"
	"github.com/xupeiwust/OpenSPH/stat"
)

// Solver evolves a storage: Integrate computes the highest derivatives of
// all evolved quantities, Collide resolves discrete events. Create must be
// called once before the first integration to ensure required columns exist.
type Solver interface {
	Create(s *quant.Storage, mat quant.Material)
	Integrate(s *quant.Storage, stats *stat.Statistics)
	Collide(s *quant.Storage, stats *stat.Statistics, dt float64)
}

// New returns a solver by name
func New(name string, p *pool.Pool, settings *inp.Settings) (Solver, error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("solver %q is not available in database", name)
	}
	return allocator(p, settings), nil
}

// Register adds a solver allocator; called from init functions
func Register(name string, allocator func(p *pool.Pool, settings *inp.Settings) Solver) {
	if _, ok := allocators[name]; ok {
		chk.Panic("solver %q is already registered", name)
	}
	allocators[name] = allocator
}

// allocators holds all available solvers; solvername => allocator
var allocators = map[string]func(p *pool.Pool, settings *inp.Settings) Solver{}

func init() {
	Register("continuity", func(p *pool.Pool, settings *inp.Settings) Solver {
		return newGenericSolver(p, settings, true, true)
	})
	Register("asymmetric", func(p *pool.Pool, settings *inp.Settings) Solver {
		return newGenericSolver(p, settings, false, true)
	})
	Register("summation", func(p *pool.Pool, settings *inp.Settings) Solver {
		return newSummationSolver(p, settings)
	})
}
