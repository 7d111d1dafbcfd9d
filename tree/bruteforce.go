// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import "github.com/xupeiwust/OpenSPH/geom"

// BruteForce answers neighbour queries by scanning every particle pair; it
// serves as the reference implementation for the other finders
type BruteForce struct {
	pts  []geom.Vec
	rank []int
}

// Build snapshots the particle positions
func (o *BruteForce) Build(points []geom.Vec) {
	o.pts = points
	o.rank = rankByH(points)
}

func (o *BruteForce) find(p geom.Vec, radius float64, omit, maxRank int, out []Neighbour) []Neighbour {
	out = out[:0]
	r2 := radius * radius
	for j := range o.pts {
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
	return out
}

// FindAll returns every particle j != i within radius of particle i
func (o *BruteForce) FindAll(i int, radius float64, out []Neighbour) []Neighbour {
	return o.find(o.pts[i], radius, i, -1, out)
}

// FindAt returns every particle within radius of an arbitrary point
func (o *BruteForce) FindAt(p geom.Vec, radius float64, out []Neighbour) []Neighbour {
	return o.find(p, radius, -1, -1, out)
}

// FindLowerRank restricts FindAll to neighbours of strictly smaller rank
func (o *BruteForce) FindLowerRank(i int, radius float64, out []Neighbour) []Neighbour {
	return o.find(o.pts[i], radius, i, o.rank[i], out)
}
