// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nbody

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/rnd"
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/pool"
	"github.com/xupeiwust/OpenSPH/quant"
	"github.com/xupeiwust/OpenSPH/stat"
	"github.com/xupeiwust/OpenSPH/tint"
	"gonum.org/v1/gonum/mat"
)

// newTestSolver builds a hard-sphere solver over serial execution
func newTestSolver(settings *inp.Settings) *HardSphere {
	return NewHardSphere(pool.New(1), settings)
}

// twoBody builds a storage with the two-body bounce initial conditions
func twoBody(dy float64) *quant.Storage {
	s := quant.NewStorage()
	s.InsertVecData(quant.Position, quant.OrderSecond, []geom.Vec{
		geom.VH(2, 0, 0, 1.0),
		geom.VH(-2, dy, 0, 0.5),
	})
	v := s.VecDt(quant.Position)
	v[0] = geom.V(-5, 0, 0)
	v[1] = geom.V(5, 0, 0)
	s.InsertScalar(quant.Mass, quant.OrderZero, 1.0)
	return s
}

func Test_nbody01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("nbody01. flywheel with small timestep")

	settings := inp.NewRunSettings()
	settings.SetBool("nbody.rotation.enable", true)
	settings.SetString("nbody.overlap", "repel")
	hs := newTestSolver(settings)

	s := quant.NewStorage()
	s.InsertVecData(quant.Position, quant.OrderSecond, []geom.Vec{geom.VH(0, 0, 0, 1.0)})
	s.InsertScalar(quant.Mass, quant.OrderZero, 1.0)
	hs.Create(s, nil)

	I0 := geom.SymTensor{3, 3, 1.2, 0, 0, 0}
	ω0 := geom.V(2.5, -4, 9)
	s.SymTens(quant.MomentOfInertia)[0] = I0
	s.Vec(quant.AngularVelocity)[0] = ω0
	L0 := I0.MulVec(ω0)
	wl0 := ω0.Len()
	wDotL0 := ω0.Dot(L0)

	integ, _ := tint.New("euler", settings)
	stats := stat.New()
	dt := 1e-5
	for k := 0; k < 10000; k++ {
		integ.Step(s, hs, stats, dt)
	}

	ω := s.Vec(quant.AngularVelocity)[0]
	I := s.SymTens(quant.MomentOfInertia)[0]
	L := I.MulVec(ω)

	tol := 4e-5
	chk.Scalar(tst, "|L|", tol*L0.Len(), L.Len(), L0.Len())
	chk.Scalar(tst, "|w|", tol*wl0, ω.Len(), wl0)
	chk.Scalar(tst, "w.L", tol*math.Abs(wDotL0), ω.Dot(L), wDotL0)

	// the principal moments are unchanged
	vals, _ := I.Eigen()
	sorted := []float64{vals[0], vals[1], vals[2]}
	if sorted[0] > sorted[1] {
		sorted[0], sorted[1] = sorted[1], sorted[0]
	}
	if sorted[1] > sorted[2] {
		sorted[1], sorted[2] = sorted[2], sorted[1]
	}
	if sorted[0] > sorted[1] {
		sorted[0], sorted[1] = sorted[1], sorted[0]
	}
	chk.Scalar(tst, "I principal 1", tol*1.2, sorted[0], 1.2)
	chk.Scalar(tst, "I principal 2", tol*3.0, sorted[1], 3.0)
	chk.Scalar(tst, "I principal 3", tol*3.0, sorted[2], 3.0)
}

func Test_nbody02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("nbody02. two-body elastic bounce")

	settings := inp.NewRunSettings()
	settings.SetString("nbody.collision.handler", "elastic-bounce")
	settings.SetFloat("nbody.restitution.normal", 1.0)
	settings.SetFloat("nbody.restitution.tangent", 1.0)
	settings.SetString("nbody.overlap", "repel")
	hs := newTestSolver(settings)

	s := twoBody(0)
	hs.Create(s, nil)
	m := s.Scalar(quant.Mass)

	// conserved quantities before
	v := s.VecDt(quant.Position)
	p0 := v[0].Scale(m[0]).AddScaled(m[1], v[1])
	e0 := 0.5*m[0]*v[0].SqrLen() + 0.5*m[1]*v[1].SqrLen()

	integ, _ := tint.New("euler", settings)
	stats := stat.New()
	dt := 1e-4
	tcoll := (4.0 - 1.5) / 10.0

	t := 0.0
	for t < tcoll-2.0*dt {
		integ.Step(s, hs, stats, dt)
		t += dt
	}
	// before the collision the motion is linear
	r := s.Vec(quant.Position)
	chk.Scalar(tst, "linear x0", 1e-10, r[0][0], 2.0-5.0*t)
	chk.Scalar(tst, "linear x1", 1e-10, r[1][0], -2.0+5.0*t)

	for t < 2.0*tcoll {
		integ.Step(s, hs, stats, dt)
		t += dt
	}

	// velocities swapped
	v = s.VecDt(quant.Position)
	chk.Scalar(tst, "v0 after", 1e-6, v[0][0], 5.0)
	chk.Scalar(tst, "v1 after", 1e-6, v[1][0], -5.0)

	// momentum and kinetic energy conserved
	p1 := v[0].Scale(m[0]).AddScaled(m[1], v[1])
	e1 := 0.5*m[0]*v[0].SqrLen() + 0.5*m[1]*v[1].SqrLen()
	chk.Scalar(tst, "momentum", 1e-12, p1.Sub(p0).Len(), 0.0)
	chk.Scalar(tst, "energy", 1e-10, e1, e0)

	if stats.GetInt(stat.BounceCnt) < 1 {
		tst.Errorf("no bounce was recorded")
	}
}

func Test_nbody03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("nbody03. off-center perfect merge")

	settings := inp.NewRunSettings()
	settings.SetString("nbody.collision.handler", "perfect-merge")
	settings.SetBool("nbody.rotation.enable", true)
	settings.SetString("nbody.overlap", "force-merge")
	hs := newTestSolver(settings)

	s := twoBody(1.5 - 1e-5)
	hs.Create(s, nil)
	m := s.Scalar(quant.Mass)
	r := s.Vec(quant.Position)
	v := s.VecDt(quant.Position)
	W := s.Vec(quant.AngularVelocity)
	I := s.SymTens(quant.MomentOfInertia)

	m0 := m[0] + m[1]
	var l0 geom.Vec
	for i := 0; i < 2; i++ {
		l0 = l0.Add(r[i].Cross(v[i]).Scale(m[i]))
		l0 = l0.Add(I[i].MulVec(W[i]))
	}

	integ, _ := tint.New("euler", settings)
	stats := stat.New()
	dt := 1e-4
	for k := 0; k < 10000 && s.Size() > 1; k++ {
		integ.Step(s, hs, stats, dt)
	}

	chk.IntAssert(s.Size(), 1)

	// the off-center impact spins the merged body up
	W = s.Vec(quant.AngularVelocity)
	if W[0].Len() == 0 {
		tst.Errorf("merged body must rotate")
	}

	// conservation to 1e-6
	m = s.Scalar(quant.Mass)
	r = s.Vec(quant.Position)
	v = s.VecDt(quant.Position)
	I = s.SymTens(quant.MomentOfInertia)
	chk.Scalar(tst, "mass", 1e-6, m[0], m0)
	l1 := r[0].Cross(v[0]).Scale(m[0]).Add(I[0].MulVec(W[0]))
	chk.Scalar(tst, "angular momentum", 1e-6*l0.Len(), l1.Len(), l0.Len())

	// the combined inertia diagonalizes with the smallest moment along the
	// line of centers
	sym := mat.NewSymDense(3, nil)
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			sym.SetSym(a, b, I[0].Get(a, b))
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		tst.Errorf("eigen factorization failed")
		return
	}
	vals := eig.Values(nil)
	// values are sorted ascending: Ixx < Iyy = Izz
	if !(vals[0] < vals[1]) {
		tst.Errorf("expected distinct smallest moment: %v", vals)
	}
	chk.Scalar(tst, "Iyy = Izz", 1e-6*vals[2], vals[1], vals[2])
}

func Test_nbody04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("nbody04. cloud collapse merges to one body")

	settings := inp.NewRunSettings()
	settings.SetString("nbody.collision.handler", "perfect-merge")
	settings.SetString("nbody.overlap", "force-merge")
	hs := newTestSolver(settings)

	rnd.Init(77)
	n := 100
	pts := make([]geom.Vec, n)
	for i := range pts {
		// random points in the unit sphere
		for {
			p := geom.V(rnd.Float64(-1, 1), rnd.Float64(-1, 1), rnd.Float64(-1, 1))
			if p.SqrLen() <= 1.0 {
				pts[i] = p.WithH(0.01)
				break
			}
		}
	}
	s := quant.NewStorage()
	s.InsertVecData(quant.Position, quant.OrderSecond, pts)
	v := s.VecDt(quant.Position)
	for i := range v {
		v[i] = pts[i].Scale(-4.0).WithH(0)
	}
	s.InsertScalar(quant.Mass, quant.OrderZero, 1.0)
	hs.Create(s, nil)

	integ, _ := tint.New("euler", settings)
	stats := stat.New()
	dt := 1e-4
	for k := 0; k < 10000 && s.Size() > 1; k++ {
		integ.Step(s, hs, stats, dt)
	}
	chk.IntAssert(s.Size(), 1)
}

func Test_nbody05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("nbody05. zero-radius pair is rejected")

	st := &State{
		R: []geom.Vec{geom.VH(0, 0, 0, 0), geom.VH(0.1, 0, 0, 0)},
		V: []geom.Vec{geom.V(1, 0, 0), geom.V(-1, 0, 0)},
		M: []float64{1, 1},
		W: make([]geom.Vec, 2),
		I: []geom.SymTensor{geom.SymIdentity(), geom.SymIdentity()},
	}
	_, _, hit := collisionTime(st, 0, 1, 1e-3)
	if hit {
		tst.Errorf("zero-radius pair must not collide")
	}
	h := &ElasticBounce{En: 1, Et: 1}
	if h.Collide(st, 0, 1, geom.V(1, 0, 0)) != None {
		tst.Errorf("zero-radius pair must be rejected by the handler")
	}
}
