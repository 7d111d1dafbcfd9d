// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tree implements spatial indices for neighbour queries: a k-d tree
// with a flat node arena (also serving the gravity solver), a brute-force
// finder and a uniform grid. Finders rank particles by smoothing length so
// that symmetric evaluators can visit each pair exactly once.
package tree

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/xupeiwust/OpenSPH/geom"
)

// Neighbour holds one neighbour record: the index of the neighbour and the
// squared distance to the query point
type Neighbour struct {
	Index   int     // neighbour index in the original particle order
	DistSqr float64 // squared distance to the queried particle
}

// Finder answers fixed-radius neighbour queries over a particle set. Build
// may be called repeatedly; query result slices are owned by the caller and
// reused across iterations.
type Finder interface {
	Build(points []geom.Vec)                                            // (re)builds the index over a snapshot of points
	FindAll(i int, radius float64, out []Neighbour) []Neighbour         // all j != i within radius of particle i
	FindAt(p geom.Vec, radius float64, out []Neighbour) []Neighbour     // all particles within radius of an arbitrary point
	FindLowerRank(i int, radius float64, out []Neighbour) []Neighbour   // as FindAll, restricted to rank(h_j) < rank(h_i)
}

// New returns a finder by name: "kd-tree", "brute-force" or "uniform-grid"
func New(name string) (Finder, error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("finder %q is not available in database", name)
	}
	return allocator(), nil
}

// allocators holds all available finders; findername => allocator
var allocators = map[string]func() Finder{
	"kd-tree":      func() Finder { return NewKdTree(DefaultLeafSize) },
	"brute-force":  func() Finder { return &BruteForce{} },
	"uniform-grid": func() Finder { return &UniformGrid{} },
}

// rankByH assigns each particle its position in the sort by smoothing length,
// ties broken by index
func rankByH(points []geom.Vec) []int {
	n := len(points)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ha, hb := points[idx[a]].H(), points[idx[b]].H()
		if ha != hb {
			return ha < hb
		}
		return idx[a] < idx[b]
	})
	rank := make([]int, n)
	for pos, i := range idx {
		rank[i] = pos
	}
	return rank
}
