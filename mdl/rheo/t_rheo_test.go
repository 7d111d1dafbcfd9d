// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rheo

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/quant"
)

// stressStorage builds a two-particle storage with stress state quantities
func stressStorage() *quant.Storage {
	s := quant.NewStorage()
	s.InsertVecData(quant.Position, quant.OrderSecond, []geom.Vec{
		geom.VH(0, 0, 0, 0.1),
		geom.VH(1, 0, 0, 0.1),
	})
	s.InsertScalar(quant.Pressure, quant.OrderZero, 0.0)
	s.InsertScalar(quant.SoundSpeed, quant.OrderZero, 5000.0)
	s.InsertTraceless(quant.DeviatoricStress, quant.OrderFirst, geom.SymTensor{})
	return s
}

func Test_rheo01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("rheo01. von Mises yielding")

	m, err := New("von-mises")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	Y := 100.0
	err = m.Init([]*fun.Prm{&fun.Prm{N: "Y", V: Y}})
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	s := stressStorage()
	m.Create(s, 0, 2)

	// particle 0 far above yield, particle 1 below
	S := s.SymTens(quant.DeviatoricStress)
	S[0] = geom.SymTensor{1000, -500, -500, 0, 0, 0}
	S[1] = geom.SymTensor{10, -5, -5, 0, 0, 0}
	m.Update(s, 0, 2)

	// after yielding, sqrt(3 J2) == Y for the overstressed particle
	J2 := S[0].SecondInvariant()
	chk.Scalar(tst, "yield surface", 1e-10, math.Sqrt(3.0*J2), Y)

	// the elastic particle is untouched
	chk.Scalar(tst, "elastic Sxx", 1e-17, S[1][geom.XX], 10.0)

	red := s.Scalar(quant.StressReducing)
	if red[0] >= 1.0 || red[1] != 1.0 {
		tst.Errorf("reduction factors wrong: %v", red)
	}
}

func Test_rheo02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("rheo02. Drucker-Prager pressure dependence")

	m, err := New("drucker-prager")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	err = m.Init([]*fun.Prm{
		&fun.Prm{N: "Y0", V: 50},
		&fun.Prm{N: "mu", V: 1.0},
	})
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	s := stressStorage()
	m.Create(s, 0, 2)
	S := s.SymTens(quant.DeviatoricStress)
	p := s.Scalar(quant.Pressure)

	// identical stress, but particle 1 sits under confining pressure
	S[0] = geom.SymTensor{1000, -500, -500, 0, 0, 0}
	S[1] = S[0]
	p[0] = 0
	p[1] = 100
	m.Update(s, 0, 2)

	chk.Scalar(tst, "unconfined", 1e-10, math.Sqrt(3.0*S[0].SecondInvariant()), 50.0)
	chk.Scalar(tst, "confined", 1e-10, math.Sqrt(3.0*S[1].SecondInvariant()), 150.0)
}

func Test_rheo03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("rheo03. Grady-Kipp flaw seeding and growth")

	m, err := NewDamage("scalar-grady-kipp")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	gk := m.(*GradyKipp)
	err = gk.Init(gk.GetPrms())
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	s := stressStorage()
	m.Seed(s, 0, 2, 1.0)

	// every particle has at least one flaw
	nflaws := s.Index(quant.NFlaws)
	for i := 0; i < 2; i++ {
		if nflaws[i] < 1 {
			tst.Errorf("particle %d received no flaws", i)
			return
		}
	}

	// strong tension activates damage growth
	p := s.Scalar(quant.Pressure)
	p[0] = -1e10
	D := s.Scalar(quant.Damage)
	D[0] = 0.1
	m.Update(s, 0, 2)
	dD := s.ScalarDt(quant.Damage)
	if dD[0] <= 0 {
		tst.Errorf("tension must grow damage (dD=%g)", dD[0])
	}
	if dD[1] != 0 {
		tst.Errorf("unstressed particle must not accumulate damage (dD=%g)", dD[1])
	}

	// damage weakens tensile pressure
	if p[0] <= -1e10 {
		tst.Errorf("damaged tensile pressure must be reduced (p=%g)", p[0])
	}
}
