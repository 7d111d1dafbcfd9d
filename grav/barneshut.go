// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grav

import (
	"github.com/cpmech/gosl/chk"
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/kern"
	"github.com/xupeiwust/OpenSPH/tree"
)

// GravityConstant is the Newtonian constant in SI units
const GravityConstant = 6.6743e-11

// eps regularizes the opening criterion so that an evaluation point inside a
// node never divides by zero
const eps = 1e-20

// Solver evaluates gravitational accelerations over a particle snapshot
type Solver interface {
	Build(points []geom.Vec, masses []float64) // builds internal structures over a snapshot
	Eval(i int) geom.Vec                       // acceleration of particle i (self omitted)
	EvalAt(p geom.Vec) geom.Vec                // acceleration at an arbitrary point
}

// BarnesHut approximates gravity by opening-angle traversal of the k-d tree
// with traceless multipole moments up to octupole
type BarnesHut struct {
	Theta  float64             // opening angle
	G      float64             // gravitational constant
	Order  int                 // multipole order: 0 (monopole) to 3 (octupole)
	Soft   *kern.GravityKernel // optional softening of the pairwise leg
	kd     *tree.KdTree
	r      []geom.Vec
	m      []float64
	theta2 float64
}

// NewBarnesHut returns a solver with the given opening angle and multipole
// order; G is the gravitational constant to apply
func NewBarnesHut(theta, G float64, order int) *BarnesHut {
	if order < 0 || order > 3 {
		chk.Panic("multipole order must be within [0, 3] (%d given)", order)
	}
	return &BarnesHut{
		Theta: theta,
		G:     G,
		Order: order,
		kd:    tree.NewKdTree(tree.DefaultLeafSize),
	}
}

// Tree exposes the underlying k-d tree so that the SPH solver can reuse it
// for neighbour queries
func (o *BarnesHut) Tree() *tree.KdTree { return o.kd }

// Build constructs the tree and the node moments bottom-up
func (o *BarnesHut) Build(points []geom.Vec, masses []float64) {
	o.r = points
	o.m = masses
	o.theta2 = o.Theta * o.Theta
	o.kd.Build(points)
	if len(points) == 0 {
		return
	}

	// children are allocated after their parent: a reverse sweep visits both
	// children before combining them into the inner node
	nodes := o.kd.Nodes()
	for id := len(nodes) - 1; id >= 0; id-- {
		node := &nodes[id]
		if node.IsLeaf() {
			o.buildLeaf(node)
		} else {
			o.buildInner(node, &nodes[node.Left], &nodes[node.Right])
		}
	}
}

// buildLeaf computes mass, center of mass and traceless moments from the
// particles of a leaf
func (o *BarnesHut) buildLeaf(node *tree.KdNode) {
	node.M = 0
	node.Com = geom.Vec{}
	node.Q2 = geom.SymTensor{}
	node.Q3 = geom.Octupole{}
	if node.From == node.To {
		// empty leaves carry zero moments so that parents combine correctly
		return
	}
	for k := node.From; k < node.To; k++ {
		j, p := o.kd.LeafSlot(k)
		node.M += o.m[j]
		node.Com = node.Com.AddScaled(o.m[j], p)
	}
	if node.M <= 0 {
		chk.Panic("leaf with %d particles has non-positive mass", node.To-node.From)
	}
	node.Com = node.Com.Scale(1.0 / node.M).WithH(0)
	for k := node.From; k < node.To; k++ {
		j, p := o.kd.LeafSlot(k)
		x := p.Sub(node.Com)
		quadrupole(&node.Q2, o.m[j], x)
		octupole(&node.Q3, o.m[j], x)
	}
}

// buildInner combines children moments using the parallel-axis theorem
func (o *BarnesHut) buildInner(node, left, right *tree.KdNode) {
	node.Box = geom.EmptyBox()
	node.Box.ExtendBox(left.Box)
	node.Box.ExtendBox(right.Box)

	ml, mr := left.M, right.M
	node.M = ml + mr
	if node.M == 0 {
		node.Com = geom.Vec{}
		node.Q2 = geom.SymTensor{}
		node.Q3 = geom.Octupole{}
		return
	}
	node.Com = left.Com.Scale(ml).AddScaled(mr, right.Com).Scale(1.0 / node.M).WithH(0)
	if !node.Com.IsReal() {
		chk.Panic("inner node has non-finite center of mass")
	}

	dl := left.Com.Sub(node.Com)
	dr := right.Com.Sub(node.Com)
	node.Q2 = translateQuadrupole(left.Q2, ml, dl).Add(translateQuadrupole(right.Q2, mr, dr))
	node.Q3 = translateOctupole(left.Q3, left.Q2, ml, dl).Add(translateOctupole(right.Q3, right.Q2, mr, dr))
}

// Eval returns the acceleration of particle i
func (o *BarnesHut) Eval(i int) geom.Vec {
	return o.eval(o.r[i], i)
}

// EvalAt returns the acceleration at an arbitrary point
func (o *BarnesHut) EvalAt(p geom.Vec) geom.Vec {
	return o.eval(p, -1)
}

// eval walks the tree top-down: nodes passing the opening criterion
// contribute their multipole expansion, large leaves contribute exact
// pairwise terms
func (o *BarnesHut) eval(p geom.Vec, omit int) geom.Vec {
	if len(o.r) == 0 {
		return geom.Vec{}
	}
	var f geom.Vec
	nodes := o.kd.Nodes()
	stack := make([]int, 0, 64)
	stack = append(stack, 0)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &nodes[id]
		if node.Box.IsEmpty() {
			continue
		}
		boxSize2 := node.Box.Size().SqrLen()
		boxDist2 := geom.SqrDist(node.Box.Center(), p)
		if boxSize2/(boxDist2+eps) < o.theta2 {
			f = f.Add(evalMultipole(p, node.Com, node.M, node.Q2, node.Q3, o.Order))
			continue
		}
		if node.IsLeaf() {
			for k := node.From; k < node.To; k++ {
				j, pj := o.kd.LeafSlot(k)
				if j == omit {
					continue
				}
				d := pj.Sub(p)
				f = f.AddScaled(o.m[j]*o.accFactor(d, pj.H()), d)
			}
			continue
		}
		stack = append(stack, node.Left, node.Right)
	}
	return f.Scale(o.G).WithH(0)
}

// accFactor returns the pairwise factor so that a = m·d·factor; the optional
// softening kernel replaces the point-mass law inside the support
func (o *BarnesHut) accFactor(d geom.Vec, h float64) float64 {
	l := d.Len()
	if l == 0 {
		return 0
	}
	if o.Soft != nil {
		return o.Soft.AccFactor(l, h)
	}
	return 1.0 / (l * l * l)
}

// TotalMoments returns the root moments, diagnostics of the mass distribution
func (o *BarnesHut) TotalMoments() (m float64, com geom.Vec, q2 geom.SymTensor, q3 geom.Octupole) {
	root := &o.kd.Nodes()[0]
	return root.M, root.Com, root.Q2, root.Q3
}

// BruteForce sums exact pairwise gravity; the reference for Barnes-Hut
type BruteForce struct {
	G    float64             // gravitational constant
	Soft *kern.GravityKernel // optional softening
	r    []geom.Vec
	m    []float64
}

// NewBruteForce returns a brute-force gravity solver
func NewBruteForce(G float64) *BruteForce {
	return &BruteForce{G: G}
}

// Build snapshots positions and masses
func (o *BruteForce) Build(points []geom.Vec, masses []float64) {
	o.r = points
	o.m = masses
}

// Eval returns the acceleration of particle i
func (o *BruteForce) Eval(i int) geom.Vec {
	return o.eval(o.r[i], i)
}

// EvalAt returns the acceleration at an arbitrary point
func (o *BruteForce) EvalAt(p geom.Vec) geom.Vec {
	return o.eval(p, -1)
}

func (o *BruteForce) eval(p geom.Vec, omit int) geom.Vec {
	var f geom.Vec
	for j := range o.r {
		if j == omit {
			continue
		}
		d := o.r[j].Sub(p)
		l := d.Len()
		if l == 0 {
			continue
		}
		factor := 1.0 / (l * l * l)
		if o.Soft != nil {
			factor = o.Soft.AccFactor(l, o.r[j].H())
		}
		f = f.AddScaled(o.m[j]*factor, d)
	}
	return f.Scale(o.G).WithH(0)
}
