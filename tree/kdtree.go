// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"sort"

	"github.com/xupeiwust/OpenSPH/geom"
)

// DefaultLeafSize is the largest number of particles held by one leaf
const DefaultLeafSize = 25

// KdNode is one node of the flat k-d tree arena. Leaves reference a range of
// the permuted particle array; inner nodes reference their children by index.
// The gravity fields (mass, center of mass and traceless moments about it)
// are filled by the gravity solver during its bottom-up pass.
type KdNode struct {
	Box   geom.Box // bounding box of contained particles
	Left  int      // left child index; -1 for leaves
	Right int      // right child index; -1 for leaves
	Axis  int      // split axis (inner nodes)
	Split float64  // split coordinate (inner nodes)
	From  int      // first slot in the permuted array (leaves)
	To    int      // one-past-last slot (leaves)

	// gravity payload
	M   float64        // total mass
	Com geom.Vec       // center of mass
	Q2  geom.SymTensor // traceless quadrupole about Com
	Q3  geom.Octupole  // traceless octupole about Com
}

// IsLeaf reports whether the node is a leaf
func (o *KdNode) IsLeaf() bool { return o.Left < 0 }

// KdTree is a median-split k-d tree over a permuted copy of the particle
// positions. The node arena is flat; the root is node 0.
type KdTree struct {
	leafSize int        // particle budget per leaf
	nodes    []KdNode   // flat node arena
	pts      []geom.Vec // permuted positions (owned by the tree)
	perm     []int      // slot => original particle index
	orig     []geom.Vec // original positions, for queries by index
	rank     []int      // smoothing-length ranks in original order
}

// NewKdTree returns a tree with the given leaf size
func NewKdTree(leafSize int) *KdTree {
	if leafSize < 1 {
		leafSize = DefaultLeafSize
	}
	return &KdTree{leafSize: leafSize}
}

// Build constructs the tree over a snapshot of points
func (o *KdTree) Build(points []geom.Vec) {
	n := len(points)
	o.orig = points
	o.nodes = o.nodes[:0]
	o.pts = append(o.pts[:0], points...)
	o.perm = o.perm[:0]
	for i := 0; i < n; i++ {
		o.perm = append(o.perm, i)
	}
	o.rank = rankByH(points)
	if n == 0 {
		// degenerate tree: a single empty leaf
		o.nodes = append(o.nodes, KdNode{Box: geom.EmptyBox(), Left: -1, Right: -1})
		return
	}
	o.buildNode(0, n)
}

// buildNode recursively builds the subtree over permuted slots [from, to) and
// returns its node index
func (o *KdTree) buildNode(from, to int) int {
	box := geom.EmptyBox()
	for k := from; k < to; k++ {
		box.Extend(o.pts[k])
	}
	id := len(o.nodes)
	o.nodes = append(o.nodes, KdNode{Box: box, Left: -1, Right: -1, From: from, To: to})
	if to-from <= o.leafSize {
		return id
	}

	// split the longest axis at the median coordinate
	axis := box.Size().MaxAxis()
	sub := newSlotSorter(o, from, to, axis)
	sort.Sort(sub)
	mid := (from + to) / 2

	o.nodes[id].Axis = axis
	o.nodes[id].Split = o.pts[mid][axis]
	o.nodes[id].From = 0
	o.nodes[id].To = 0
	left := o.buildNode(from, mid)
	right := o.buildNode(mid, to)
	o.nodes[id].Left = left
	o.nodes[id].Right = right
	return id
}

// slotSorter sorts a permuted sub-range by one coordinate, keeping pts and
// perm in step
type slotSorter struct {
	t        *KdTree
	from, to int
	axis     int
}

func newSlotSorter(t *KdTree, from, to, axis int) *slotSorter {
	return &slotSorter{t: t, from: from, to: to, axis: axis}
}

func (s *slotSorter) Len() int { return s.to - s.from }

func (s *slotSorter) Less(i, j int) bool {
	a := s.t.pts[s.from+i][s.axis]
	b := s.t.pts[s.from+j][s.axis]
	if a != b {
		return a < b
	}
	return s.t.perm[s.from+i] < s.t.perm[s.from+j]
}

func (s *slotSorter) Swap(i, j int) {
	t := s.t
	t.pts[s.from+i], t.pts[s.from+j] = t.pts[s.from+j], t.pts[s.from+i]
	t.perm[s.from+i], t.perm[s.from+j] = t.perm[s.from+j], t.perm[s.from+i]
}

// Nodes exposes the flat node arena; the root is node 0
func (o *KdTree) Nodes() []KdNode { return o.nodes }

// LeafSlot returns the original index and position of permuted slot k
func (o *KdTree) LeafSlot(k int) (int, geom.Vec) {
	return o.perm[k], o.pts[k]
}

// Rank returns the smoothing-length rank of a particle (original order)
func (o *KdTree) Rank(i int) int { return o.rank[i] }

// queries ///////////////////////////////////////////////////////////////////

// find traverses top-down, pruning by box-sphere overlap; maxRank restricts
// results to ranks strictly below it, omit skips one index
func (o *KdTree) find(p geom.Vec, radius float64, omit, maxRank int, out []Neighbour) []Neighbour {
	if len(o.pts) == 0 {
		return out[:0]
	}
	out = out[:0]
	r2 := radius * radius
	stack := make([]int, 0, 64)
	stack = append(stack, 0)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &o.nodes[id]
		if !node.Box.OverlapsSphere(p, radius) {
			continue
		}
		if node.IsLeaf() {
			for k := node.From; k < node.To; k++ {
				j := o.perm[k]
				if j == omit {
					continue
				}
				if maxRank >= 0 && o.rank[j] >= maxRank {
					continue
				}
				d2 := geom.SqrDist(o.pts[k], p)
				if d2 < r2 {
					out = append(out, Neighbour{Index: j, DistSqr: d2})
				}
			}
			continue
		}
		stack = append(stack, node.Left, node.Right)
	}
	return out
}

// FindAll returns every particle j != i within radius of particle i
func (o *KdTree) FindAll(i int, radius float64, out []Neighbour) []Neighbour {
	return o.find(o.orig[i], radius, i, -1, out)
}

// FindAt returns every particle within radius of an arbitrary point
func (o *KdTree) FindAt(p geom.Vec, radius float64, out []Neighbour) []Neighbour {
	return o.find(p, radius, -1, -1, out)
}

// FindLowerRank returns the neighbours of particle i whose smoothing-length
// rank is strictly smaller than i's
func (o *KdTree) FindLowerRank(i int, radius float64, out []Neighbour) []Neighbour {
	return o.find(o.orig[i], radius, i, o.rank[i], out)
}
