// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ic implements the initial-conditions stage: particle distributions
// filling computational domains and the body setup assigning quantities,
// materials and bulk motion
package ic

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/rnd"
	"github.com/xupeiwust/OpenSPH/geom"
)

// Distribution generates approximately n particle positions inside a domain
type Distribution interface {
	Generate(n int, domain geom.Domain) []geom.Vec
}

// NewDistribution returns a distribution by name
func NewDistribution(name string, seed int) (Distribution, error) {
	switch name {
	case "cubic":
		return &CubicLattice{}, nil
	case "hcp":
		return &HexagonalLattice{}, nil
	case "random":
		return &RandomDistribution{Seed: seed}, nil
	case "stratified":
		return &StratifiedDistribution{Seed: seed}, nil
	}
	return nil, chk.Err("distribution %q is not available", name)
}

// CubicLattice fills the domain with a simple cubic lattice; exact spacing
// follows from the requested particle count and the domain volume
type CubicLattice struct{}

// Generate returns the positions
func (o *CubicLattice) Generate(n int, domain geom.Domain) []geom.Vec {
	spacing := math.Cbrt(domain.Volume() / float64(n))
	box := domain.Bounds()
	var pts []geom.Vec
	for z := box.Lo[2] + 0.5*spacing; z < box.Hi[2]; z += spacing {
		for y := box.Lo[1] + 0.5*spacing; y < box.Hi[1]; y += spacing {
			for x := box.Lo[0] + 0.5*spacing; x < box.Hi[0]; x += spacing {
				p := geom.V(x, y, z)
				if domain.Contains(p) {
					pts = append(pts, p)
				}
			}
		}
	}
	return pts
}

// HexagonalLattice fills the domain with hexagonal close packing, the
// densest regular arrangement; preferred for stable SPH initial conditions
type HexagonalLattice struct{}

// Generate returns the positions
func (o *HexagonalLattice) Generate(n int, domain geom.Domain) []geom.Vec {
	// hcp packs particles at ~0.74 density: scale the spacing accordingly
	spacing := math.Cbrt(domain.Volume() / float64(n) * math.Sqrt2)
	box := domain.Bounds()
	dy := spacing * math.Sqrt(3.0) / 2.0
	dz := spacing * math.Sqrt(6.0) / 3.0
	var pts []geom.Vec
	row, layer := 0, 0
	for z := box.Lo[2] + 0.5*spacing; z < box.Hi[2]; z += dz {
		for y := box.Lo[1] + 0.5*spacing; y < box.Hi[1]; y += dy {
			xoff := 0.0
			if row%2 == 1 {
				xoff += 0.5 * spacing
			}
			if layer%2 == 1 {
				xoff += 0.25 * spacing
			}
			for x := box.Lo[0] + 0.5*spacing + xoff; x < box.Hi[0]; x += spacing {
				p := geom.V(x, y, z)
				if domain.Contains(p) {
					pts = append(pts, p)
				}
			}
			row++
		}
		layer++
		row = 0
	}
	return pts
}

// RandomDistribution samples positions uniformly; the seed makes runs
// reproducible
type RandomDistribution struct {
	Seed int
}

// Generate returns the positions
func (o *RandomDistribution) Generate(n int, domain geom.Domain) []geom.Vec {
	rnd.Init(o.Seed)
	box := domain.Bounds()
	pts := make([]geom.Vec, 0, n)
	for len(pts) < n {
		p := geom.V(
			rnd.Float64(box.Lo[0], box.Hi[0]),
			rnd.Float64(box.Lo[1], box.Hi[1]),
			rnd.Float64(box.Lo[2], box.Hi[2]),
		)
		if domain.Contains(p) {
			pts = append(pts, p)
		}
	}
	return pts
}

// StratifiedDistribution jitters a cubic lattice by uniform offsets within
// each cell, combining low discrepancy with randomness
type StratifiedDistribution struct {
	Seed int
}

// Generate returns the positions
func (o *StratifiedDistribution) Generate(n int, domain geom.Domain) []geom.Vec {
	rnd.Init(o.Seed)
	spacing := math.Cbrt(domain.Volume() / float64(n))
	box := domain.Bounds()
	var pts []geom.Vec
	for z := box.Lo[2]; z < box.Hi[2]; z += spacing {
		for y := box.Lo[1]; y < box.Hi[1]; y += spacing {
			for x := box.Lo[0]; x < box.Hi[0]; x += spacing {
				p := geom.V(
					x+rnd.Float64(0, spacing),
					y+rnd.Float64(0, spacing),
					z+rnd.Float64(0, spacing),
				)
				if domain.Contains(p) {
					pts = append(pts, p)
				}
			}
		}
	}
	return pts
}
