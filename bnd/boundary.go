// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package bnd implements boundary conditions: ghost particles mirrored
// across the domain boundary, frozen particles near the boundary, periodic
// wrapping and projection of escaped particles back onto the domain
package bnd

import (
	"github.com/cpmech/gosl/chk"
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/quant"
)

// Condition applies a boundary condition around the derivative evaluation:
// Initialize may add helper particles before the solver runs, Finalize
// removes them and fixes up the state afterwards
type Condition interface {
	Initialize(s *quant.Storage)
	Finalize(s *quant.Storage)
}

// New returns a boundary condition by name over the given domain; "none"
// yields nil
func New(name string, domain geom.Domain, settings *inp.Settings) (Condition, error) {
	switch name {
	case "none":
		return nil, nil
	case "ghost":
		if domain == nil {
			return nil, chk.Err("ghost particles require a computational domain")
		}
		return &GhostParticles{domain: domain}, nil
	case "frozen":
		if domain == nil {
			return nil, chk.Err("frozen particles require a computational domain")
		}
		return &FrozenParticles{domain: domain, band: settings.GetFloat("boundary.frozen.band")}, nil
	case "periodic":
		if domain == nil {
			return nil, chk.Err("periodic boundary requires a computational domain")
		}
		block, ok := domain.(*geom.BlockDomain)
		if !ok {
			return nil, chk.Err("periodic boundary requires a block domain")
		}
		return &Periodic{box: block.Box}, nil
	case "project":
		if domain == nil {
			return nil, chk.Err("domain projection requires a computational domain")
		}
		return &Projection{domain: domain}, nil
	}
	return nil, chk.Err("boundary condition %q is not available", name)
}

// GhostParticles mirrors particles near the boundary to the outside so that
// kernel sums near the surface see a full support. Ghosts copy all
// quantities of their source; the velocity component normal to the boundary
// is reflected. Ghosts are appended before the derivative sweep and removed
// after it.
type GhostParticles struct {
	domain geom.Domain
	ghosts []geom.Ghost
	nReal  int
}

// Initialize appends ghosts
func (o *GhostParticles) Initialize(s *quant.Storage) {
	o.nReal = s.Size()
	r := s.Vec(quant.Position)

	// the search distance follows the largest smoothing length
	eps := 0.0
	for i := range r {
		if h := 2.0 * r[i].H(); h > eps {
			eps = h
		}
	}
	o.ghosts = o.domain.AddGhosts(r, eps, o.ghosts[:0])
	if len(o.ghosts) == 0 {
		return
	}

	// clone the sources into a ghost body and mirror the velocities
	idx := make([]int, 0, len(o.ghosts))
	for _, g := range o.ghosts {
		idx = append(idx, g.Index)
	}
	ghost := s.Gather(idx)
	gr := ghost.Vec(quant.Position)
	gv := ghost.VecDt(quant.Position)
	for k, g := range o.ghosts {
		gr[k] = g.Position
		// reflect the normal velocity component at the boundary
		n := gr[k].Sub(o.domain.Project(gr[k]))
		if l := n.Len(); l > 0 {
			n = n.Scale(1.0 / l)
			gv[k] = gv[k].AddScaled(-2.0*gv[k].Dot(n), n)
		}
	}
	s.Merge(ghost)
}

// Finalize removes the ghosts
func (o *GhostParticles) Finalize(s *quant.Storage) {
	if s.Size() == o.nReal {
		return
	}
	idx := make([]int, 0, s.Size()-o.nReal)
	for i := o.nReal; i < s.Size(); i++ {
		idx = append(idx, i)
	}
	s.Remove(idx)
}

// FrozenParticles zeroes the highest derivatives of particles closer to the
// boundary than the configured band, pinning them in place
type FrozenParticles struct {
	domain geom.Domain
	band   float64
}

// Initialize does nothing
func (o *FrozenParticles) Initialize(s *quant.Storage) {}

// Finalize zeroes the derivatives of boundary particles
func (o *FrozenParticles) Finalize(s *quant.Storage) {
	r := s.Vec(quant.Position)
	frozen := make([]bool, len(r))
	for i := range r {
		d := r[i].Sub(o.domain.Project(r[i])).Len()
		if !o.domain.Contains(r[i]) || d < o.band {
			frozen[i] = true
		}
	}
	for _, id := range s.Ids() {
		q := s.Quantity(id)
		if q.Order() == quant.OrderZero {
			continue
		}
		switch q.Type() {
		case quant.Scalar:
			var dy []float64
			if q.Order() == quant.OrderSecond {
				dy = s.ScalarD2t(id)
			} else {
				dy = s.ScalarDt(id)
			}
			for i := range dy {
				if frozen[i] {
					dy[i] = 0
				}
			}
		case quant.Vector:
			var dy []geom.Vec
			if q.Order() == quant.OrderSecond {
				dy = s.VecD2t(id)
			} else {
				dy = s.VecDt(id)
			}
			for i := range dy {
				if frozen[i] {
					dy[i] = geom.Vec{}
				}
			}
		case quant.SymTensor, quant.TracelessTensor:
			dy := s.SymTensDt(id)
			for i := range dy {
				if frozen[i] {
					dy[i] = geom.SymTensor{}
				}
			}
		}
	}
}

// Periodic wraps positions into the block domain
type Periodic struct {
	box geom.Box
}

// Initialize does nothing
func (o *Periodic) Initialize(s *quant.Storage) {}

// Finalize wraps escaped particles to the opposite side
func (o *Periodic) Finalize(s *quant.Storage) {
	r := s.Vec(quant.Position)
	size := o.box.Size()
	for i := range r {
		for ax := 0; ax < 3; ax++ {
			for r[i][ax] < o.box.Lo[ax] {
				r[i][ax] += size[ax]
			}
			for r[i][ax] > o.box.Hi[ax] {
				r[i][ax] -= size[ax]
			}
		}
	}
}

// Projection moves escaped particles back onto the domain boundary and
// removes the outward velocity component
type Projection struct {
	domain geom.Domain
}

// Initialize does nothing
func (o *Projection) Initialize(s *quant.Storage) {}

// Finalize projects escaped particles
func (o *Projection) Finalize(s *quant.Storage) {
	r := s.Vec(quant.Position)
	v := s.VecDt(quant.Position)
	for i := range r {
		if o.domain.Contains(r[i]) {
			continue
		}
		proj := o.domain.Project(r[i])
		n := r[i].Sub(proj)
		if l := n.Len(); l > 0 {
			n = n.Scale(1.0 / l)
			if out := v[i].Dot(n); out > 0 {
				v[i] = v[i].AddScaled(-out, n)
			}
		}
		r[i] = proj
	}
}
