// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"sort"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/rnd"
	"github.com/xupeiwust/OpenSPH/geom"
)

// randomCloud returns n particles in the unit box with varying h
func randomCloud(n int) []geom.Vec {
	rnd.Init(1234)
	pts := make([]geom.Vec, n)
	for i := range pts {
		pts[i] = geom.VH(
			rnd.Float64(0, 1),
			rnd.Float64(0, 1),
			rnd.Float64(0, 1),
			rnd.Float64(0.01, 0.1),
		)
	}
	return pts
}

// sortedIndices extracts the neighbour indices in ascending order
func sortedIndices(ns []Neighbour) []int {
	idx := make([]int, len(ns))
	for i, n := range ns {
		idx[i] = n.Index
	}
	sort.Ints(idx)
	return idx
}

func Test_tree01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tree01. kd-tree vs brute force")

	pts := randomCloud(500)
	kd := NewKdTree(DefaultLeafSize)
	kd.Build(pts)
	bf := &BruteForce{}
	bf.Build(pts)

	var a, b []Neighbour
	radius := 0.15
	for i := 0; i < len(pts); i++ {
		a = kd.FindAll(i, radius, a)
		b = bf.FindAll(i, radius, b)
		chk.Ints(tst, "findAll", sortedIndices(a), sortedIndices(b))
	}
}

func Test_tree02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tree02. lower-rank query exactness")

	pts := randomCloud(1000)
	kd := NewKdTree(DefaultLeafSize)
	kd.Build(pts)

	radius := 0.1
	var res []Neighbour
	for i := 0; i < len(pts); i++ {
		res = kd.FindLowerRank(i, radius, res)

		// no self, no duplicates
		seen := make(map[int]bool)
		for _, n := range res {
			if n.Index == i {
				tst.Errorf("query %d returned itself", i)
				return
			}
			if seen[n.Index] {
				tst.Errorf("query %d returned duplicate %d", i, n.Index)
				return
			}
			seen[n.Index] = true
		}

		// exactly the set {j : rank(j) < rank(i), |r_j - r_i| < radius}
		var want []int
		for j := range pts {
			if j == i || kd.Rank(j) >= kd.Rank(i) {
				continue
			}
			if geom.SqrDist(pts[j], pts[i]) < radius*radius {
				want = append(want, j)
			}
		}
		sort.Ints(want)
		chk.Ints(tst, "lower rank set", sortedIndices(res), want)
	}
}

func Test_tree03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tree03. degenerate inputs")

	// empty particle set: build succeeds, queries return empty
	kd := NewKdTree(DefaultLeafSize)
	kd.Build(nil)
	res := kd.FindAt(geom.V(0, 0, 0), 1.0, nil)
	chk.IntAssert(len(res), 0)

	// coincident points must not blow up the build
	pts := make([]geom.Vec, 100)
	for i := range pts {
		pts[i] = geom.VH(0.5, 0.5, 0.5, 0.1)
	}
	kd.Build(pts)
	res = kd.FindAll(0, 0.01, res)
	chk.IntAssert(len(res), 99)
}

func Test_tree04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tree04. rank ordering with ties")

	pts := []geom.Vec{
		geom.VH(0, 0, 0, 0.2),
		geom.VH(1, 0, 0, 0.1),
		geom.VH(2, 0, 0, 0.1),
		geom.VH(3, 0, 0, 0.3),
	}
	rank := rankByH(pts)
	chk.Ints(tst, "rank", rank, []int{2, 0, 1, 3})
}

func Test_tree05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tree05. uniform grid agrees with brute force")

	pts := randomCloud(300)
	ug := &UniformGrid{}
	ug.Build(pts)
	bf := &BruteForce{}
	bf.Build(pts)

	var a, b []Neighbour
	for i := 0; i < len(pts); i++ {
		a = ug.FindAll(i, 0.12, a)
		b = bf.FindAll(i, 0.12, b)
		chk.Ints(tst, "grid findAll", sortedIndices(a), sortedIndices(b))
	}

	// registry
	for _, name := range []string{"kd-tree", "brute-force", "uniform-grid"} {
		f, err := New(name)
		if err != nil {
			tst.Errorf("finder %q not available: %v", name, err)
			return
		}
		f.Build(pts)
	}
}
