// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_geom01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("geom01. vectors and the fourth lane")

	u := VH(1, 2, 3, 0.5)
	v := V(4, -5, 6)

	chk.Scalar(tst, "dot", 1e-15, u.Dot(v), 1*4-2*5+3*6)
	w := u.Cross(v)
	chk.Scalar(tst, "cross orthogonal u", 1e-15, w.Dot(u), 0.0)
	chk.Scalar(tst, "cross orthogonal v", 1e-15, w.Dot(v), 0.0)

	// algebra keeps the receiver's smoothing length
	chk.Scalar(tst, "h after add", 1e-17, u.Add(v).H(), 0.5)
	chk.Scalar(tst, "h after scale", 1e-17, u.Scale(2).H(), 0.5)
	chk.Scalar(tst, "h ignored by len", 1e-15, V(3, 4, 0).WithH(99).Len(), 5.0)
}

func Test_geom02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("geom02. symmetric tensors")

	t := SymTensor{2, -1, 3, 0.5, -0.25, 1}
	chk.Scalar(tst, "trace", 1e-15, t.Trace(), 4.0)
	chk.Scalar(tst, "deviator trace", 1e-15, t.Deviator().Trace(), 0.0)

	// inverse
	inv := t.Inverse()
	r := inv.MulVec(t.MulVec(V(1, 2, 3)))
	chk.Scalar(tst, "inv x", 1e-12, r[0], 1.0)
	chk.Scalar(tst, "inv y", 1e-12, r[1], 2.0)
	chk.Scalar(tst, "inv z", 1e-12, r[2], 3.0)

	// eigen decomposition reproduces t v = lambda v
	vals, vecs := t.Eigen()
	for k := 0; k < 3; k++ {
		v := V(vecs.Get(0, k), vecs.Get(1, k), vecs.Get(2, k))
		tv := t.MulVec(v)
		for c := 0; c < 3; c++ {
			chk.Scalar(tst, "eigen", 1e-10, tv[c], vals[k]*v[c])
		}
	}
}

func Test_geom03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("geom03. rotations")

	// rotating the x axis about z by pi/2 gives the y axis
	R := RotationAxisAngle(V(0, 0, 1), math.Pi/2.0)
	y := R.MulVec(V(1, 0, 0))
	chk.Scalar(tst, "rot x", 1e-14, y[0], 0.0)
	chk.Scalar(tst, "rot y", 1e-14, y[1], 1.0)

	// rotation preserves the tensor invariants
	t := SymTensor{3, 3, 1.2, 0, 0, 0}
	rt := R.TransformSym(t)
	chk.Scalar(tst, "trace invariant", 1e-13, rt.Trace(), t.Trace())
	chk.Scalar(tst, "J2 invariant", 1e-13, rt.SecondInvariant(), t.SecondInvariant())
}

func Test_geom04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("geom04. boxes and intervals")

	box := EmptyBox()
	if !box.IsEmpty() {
		tst.Errorf("fresh box must be empty")
	}
	box.Extend(V(1, 1, 1))
	box.Extend(V(-1, 2, 0))
	chk.Scalar(tst, "size x", 1e-15, box.Size()[0], 2.0)
	if !box.Contains(V(0, 1.5, 0.5)) {
		tst.Errorf("point should be inside")
	}
	chk.Scalar(tst, "dist inside", 1e-15, box.SqrDist(V(0, 1.5, 0.5)), 0.0)
	chk.Scalar(tst, "dist outside", 1e-15, box.SqrDist(V(2, 1, 1)), 1.0)

	r := Interval{Lo: 0, Hi: 1}
	chk.Scalar(tst, "clamp hi", 1e-17, r.Clamp(1.5), 1.0)
	chk.Scalar(tst, "clamp lo", 1e-17, r.Clamp(-0.5), 0.0)
	if Unbounded().Contains(1e300) != true {
		tst.Errorf("unbounded interval must contain everything")
	}
}

func Test_geom05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("geom05. domains")

	sph := &SphericalDomain{Cen: V(0, 0, 0), R: 2.0}
	chk.Scalar(tst, "sphere volume", 1e-12, sph.Volume(), 4.0/3.0*math.Pi*8.0)
	if !sph.Contains(V(1, 1, 1)) || sph.Contains(V(2, 2, 2)) {
		tst.Errorf("sphere containment wrong")
	}
	p := sph.Project(V(4, 0, 0))
	chk.Scalar(tst, "projection", 1e-14, p[0], 2.0)

	cyl := &CylinderDomain{Cen: V(0, 0, 0), R: 1.0, H: 2.0}
	chk.Scalar(tst, "cylinder volume", 1e-12, cyl.Volume(), 2.0*math.Pi)
	if !cyl.Contains(V(0.5, 0.5, 0.9)) || cyl.Contains(V(0.5, 0.5, 1.1)) {
		tst.Errorf("cylinder containment wrong")
	}

	// octupole contraction identities
	var oct Octupole
	oct.Set(0, 0, 0, 2)
	oct.Set(0, 1, 2, 3)
	n := V(1, 0, 0)
	chk.Scalar(tst, "contract", 1e-15, oct.ContractThrice(n), 2.0)
	chk.Scalar(tst, "symmetry", 1e-17, oct.Get(2, 1, 0), 3.0)
}
