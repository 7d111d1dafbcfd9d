// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package run

import (
	"math"
	"sort"

	"github.com/xupeiwust/OpenSPH/quant"
	"github.com/xupeiwust/OpenSPH/tree"
	"gonum.org/v1/gonum/stat"
)

// Fragment is one gravitationally connected clump of particles
type Fragment struct {
	Particles []int   // member indices
	Mass      float64 // total mass
}

// FindFragments identifies fragments by connecting particles closer than
// linkFactor times the sum of their interaction radii (union-find over the
// neighbour graph)
func FindFragments(s *quant.Storage, linkFactor float64) []Fragment {
	n := s.Size()
	if n == 0 {
		return nil
	}
	r := s.Vec(quant.Position)
	m := s.Scalar(quant.Mass)

	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	kd := tree.NewKdTree(tree.DefaultLeafSize)
	kd.Build(r)
	maxH := 0.0
	for i := range r {
		maxH = math.Max(maxH, r[i].H())
	}
	var ns []tree.Neighbour
	for i := 0; i < n; i++ {
		ns = kd.FindAll(i, linkFactor*(r[i].H()+maxH), ns)
		for _, nb := range ns {
			j := nb.Index
			link := linkFactor * (r[i].H() + r[j].H())
			if nb.DistSqr < link*link {
				union(i, j)
			}
		}
	}

	groups := make(map[int]*Fragment)
	for i := 0; i < n; i++ {
		root := find(i)
		f, ok := groups[root]
		if !ok {
			f = &Fragment{}
			groups[root] = f
		}
		f.Particles = append(f.Particles, i)
		f.Mass += m[i]
	}
	frags := make([]Fragment, 0, len(groups))
	for _, f := range groups {
		frags = append(frags, *f)
	}
	// largest first; ties broken by the first member index for determinism
	sort.Slice(frags, func(a, b int) bool {
		if frags[a].Mass != frags[b].Mass {
			return frags[a].Mass > frags[b].Mass
		}
		return frags[a].Particles[0] < frags[b].Particles[0]
	})
	return frags
}

// SizeFrequency summarises the fragment size-frequency distribution: the
// sorted fragment masses, the mass fraction of the largest remnant and the
// slope of the cumulative distribution fitted in log-log space
type SizeFrequency struct {
	Masses          []float64 // fragment masses, descending
	LargestFraction float64   // mass fraction of the largest remnant
	Slope           float64   // power-law slope of the cumulative counts
}

// AnalyzeSFD computes the size-frequency distribution of the fragments
func AnalyzeSFD(frags []Fragment) SizeFrequency {
	o := SizeFrequency{}
	if len(frags) == 0 {
		return o
	}
	total := 0.0
	for _, f := range frags {
		o.Masses = append(o.Masses, f.Mass)
		total += f.Mass
	}
	o.LargestFraction = o.Masses[0] / total

	// cumulative count N(>m) against m in log-log space
	if len(o.Masses) > 2 {
		var logm, logn []float64
		for k, mass := range o.Masses {
			if mass <= 0 {
				continue
			}
			logm = append(logm, math.Log10(mass))
			logn = append(logn, math.Log10(float64(k+1)))
		}
		_, o.Slope = stat.LinearRegression(logm, logn, nil, false)
	}
	return o
}
