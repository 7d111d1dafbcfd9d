// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grav

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/rnd"
	"github.com/xupeiwust/OpenSPH/geom"
)

// cloud returns n random particles and masses
func cloud(n int) ([]geom.Vec, []float64) {
	rnd.Init(4321)
	r := make([]geom.Vec, n)
	m := make([]float64, n)
	for i := range r {
		r[i] = geom.VH(rnd.Float64(-1, 1), rnd.Float64(-1, 1), rnd.Float64(-1, 1), 0.05)
		m[i] = rnd.Float64(0.5, 2.0)
	}
	return r, m
}

// relErr returns |a-b| / max(|b|, tiny)
func relErr(a, b geom.Vec) float64 {
	d := a.Sub(b).Len()
	l := b.Len()
	if l < 1e-30 {
		l = 1e-30
	}
	return d / l
}

func Test_grav01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grav01. theta=0 equals brute force")

	r, m := cloud(500)
	bh := NewBarnesHut(0.0, 1.0, 3)
	bh.Build(r, m)
	bf := NewBruteForce(1.0)
	bf.Build(r, m)

	worst := 0.0
	for i := range r {
		e := relErr(bh.Eval(i), bf.Eval(i))
		worst = math.Max(worst, e)
	}
	if worst > 1e-10 {
		tst.Errorf("worst relative error %g exceeds 1e-10", worst)
	}
}

func Test_grav02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grav02. theta=0.8 within 1e-2")

	r, m := cloud(500)
	bh := NewBarnesHut(0.8, 1.0, 3)
	bh.Build(r, m)
	bf := NewBruteForce(1.0)
	bf.Build(r, m)

	worst := 0.0
	for i := range r {
		e := relErr(bh.Eval(i), bf.Eval(i))
		worst = math.Max(worst, e)
	}
	if worst > 1e-2 {
		tst.Errorf("worst relative error %g exceeds 1e-2", worst)
	}
}

func Test_grav03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grav03. moments of the root node")

	r, m := cloud(200)
	bh := NewBarnesHut(0.5, 1.0, 3)
	bh.Build(r, m)

	mtot, com, q2, _ := bh.TotalMoments()

	// direct sums
	wantM := 0.0
	var wantCom geom.Vec
	for i := range r {
		wantM += m[i]
		wantCom = wantCom.AddScaled(m[i], r[i])
	}
	wantCom = wantCom.Scale(1.0 / wantM)
	chk.Scalar(tst, "total mass", 1e-12, mtot, wantM)
	for c := 0; c < 3; c++ {
		chk.Scalar(tst, "com", 1e-12, com[c], wantCom[c])
	}

	var wantQ geom.SymTensor
	for i := range r {
		quadrupole(&wantQ, m[i], r[i].Sub(wantCom))
	}
	for c := 0; c < 6; c++ {
		chk.Scalar(tst, "quadrupole", 1e-10*math.Abs(wantQ[c])+1e-10, q2[c], wantQ[c])
	}

	// traceless by construction
	chk.Scalar(tst, "trace", 1e-10, q2.Trace()/wantM, 0.0)
}

func Test_grav04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grav04. degenerate inputs")

	// empty set: zero acceleration
	bh := NewBarnesHut(0.5, 1.0, 3)
	bh.Build(nil, nil)
	a := bh.EvalAt(geom.V(1, 2, 3))
	for c := 0; c < 3; c++ {
		chk.Scalar(tst, "empty", 1e-17, a[c], 0.0)
	}

	// evaluation at a particle position must not produce NaN
	r := []geom.Vec{geom.VH(0, 0, 0, 0.1), geom.VH(1, 0, 0, 0.1)}
	m := []float64{1, 1}
	bh.Build(r, m)
	a = bh.Eval(0)
	if !a.IsReal() {
		tst.Errorf("acceleration is not finite: %v", a)
	}
	// two bodies attract along the line of centers
	if a[0] <= 0 {
		tst.Errorf("particle 0 should be pulled towards +x (a=%v)", a)
	}
}

func Test_grav05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grav05. octupole improves over monopole")

	r, m := cloud(300)
	bf := NewBruteForce(1.0)
	bf.Build(r, m)

	errAtOrder := func(order int) float64 {
		bh := NewBarnesHut(0.7, 1.0, order)
		bh.Build(r, m)
		sum := 0.0
		for i := range r {
			sum += relErr(bh.Eval(i), bf.Eval(i))
		}
		return sum / float64(len(r))
	}

	e0 := errAtOrder(0)
	e3 := errAtOrder(3)
	if e3 >= e0 {
		tst.Errorf("octupole error %g should be below monopole error %g", e3, e0)
	}
}
