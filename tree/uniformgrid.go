// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"math"

	"github.com/xupeiwust/OpenSPH/geom"
)

// UniformGrid partitions the bounding box into cubic cells holding particle
// lists. The cell edge follows the largest smoothing length so that a query
// of kernel-support radius touches a bounded number of cells.
type UniformGrid struct {
	pts    []geom.Vec
	rank   []int
	box    geom.Box
	cell   float64 // cell edge length
	ndiv   [3]int  // number of cells per axis
	cells  [][]int // particle lists per flattened cell
}

// Build snapshots the positions and fills the cell lists
func (o *UniformGrid) Build(points []geom.Vec) {
	o.pts = points
	o.rank = rankByH(points)
	o.box = geom.EmptyBox()
	hmax := 0.0
	for _, p := range points {
		o.box.Extend(p)
		hmax = math.Max(hmax, p.H())
	}
	if len(points) == 0 {
		o.cells = nil
		return
	}
	size := o.box.Size()
	// cells sized to twice the largest smoothing length, one cell minimum
	o.cell = 2.0 * hmax
	if o.cell == 0 {
		o.cell = math.Max(size.Len(), 1.0)
	}
	ncells := 1
	for ax := 0; ax < 3; ax++ {
		o.ndiv[ax] = int(size[ax]/o.cell) + 1
		ncells *= o.ndiv[ax]
	}
	o.cells = make([][]int, ncells)
	for i, p := range points {
		c := o.cellOf(p)
		o.cells[c] = append(o.cells[c], i)
	}
}

// cellOf returns the flattened cell index of a point inside the box
func (o *UniformGrid) cellOf(p geom.Vec) int {
	var c [3]int
	for ax := 0; ax < 3; ax++ {
		c[ax] = int((p[ax] - o.box.Lo[ax]) / o.cell)
		if c[ax] < 0 {
			c[ax] = 0
		}
		if c[ax] >= o.ndiv[ax] {
			c[ax] = o.ndiv[ax] - 1
		}
	}
	return (c[2]*o.ndiv[1]+c[1])*o.ndiv[0] + c[0]
}

func (o *UniformGrid) find(p geom.Vec, radius float64, omit, maxRank int, out []Neighbour) []Neighbour {
	out = out[:0]
	if len(o.pts) == 0 {
		return out
	}
	r2 := radius * radius
	span := int(radius/o.cell) + 1
	var lo, hi [3]int
	for ax := 0; ax < 3; ax++ {
		c := int((p[ax] - o.box.Lo[ax]) / o.cell)
		lo[ax] = c - span
		hi[ax] = c + span
		if lo[ax] < 0 {
			lo[ax] = 0
		}
		if hi[ax] >= o.ndiv[ax] {
			hi[ax] = o.ndiv[ax] - 1
		}
	}
	for cz := lo[2]; cz <= hi[2]; cz++ {
		for cy := lo[1]; cy <= hi[1]; cy++ {
			for cx := lo[0]; cx <= hi[0]; cx++ {
				cell := o.cells[(cz*o.ndiv[1]+cy)*o.ndiv[0]+cx]
				for _, j := range cell {
					if j == omit {
						continue
					}
					if maxRank >= 0 && o.rank[j] >= maxRank {
						continue
					}
					d2 := geom.SqrDist(o.pts[j], p)
					if d2 < r2 {
						out = append(out, Neighbour{Index: j, DistSqr: d2})
					}
				}
			}
		}
	}
	return out
}

// FindAll returns every particle j != i within radius of particle i
func (o *UniformGrid) FindAll(i int, radius float64, out []Neighbour) []Neighbour {
	return o.find(o.pts[i], radius, i, -1, out)
}

// FindAt returns every particle within radius of an arbitrary point
func (o *UniformGrid) FindAt(p geom.Vec, radius float64, out []Neighbour) []Neighbour {
	return o.find(p, radius, -1, -1, out)
}

// FindLowerRank restricts FindAll to neighbours of strictly smaller rank
func (o *UniformGrid) FindLowerRank(i int, radius float64, out []Neighbour) []Neighbour {
	return o.find(o.pts[i], radius, i, o.rank[i], out)
}
