// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eos

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

func Test_eos01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("eos01. ideal gas")

	m, err := New("ideal-gas")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	err = m.Init([]*fun.Prm{&fun.Prm{N: "gamma", V: 1.4}})
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	p, cs := m.Eval(1.2, 1e5)
	chk.Scalar(tst, "p", 1e-10, p, 0.4*1.2*1e5)
	if cs <= 0 {
		tst.Errorf("sound speed must be positive")
	}

	// invalid gamma
	err = m.Init([]*fun.Prm{&fun.Prm{N: "gamma", V: 0.9}})
	if err == nil {
		tst.Errorf("gamma < 1 must be rejected")
	}
}

func Test_eos02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("eos02. murnaghan")

	m, err := New("murnaghan")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	err = m.Init([]*fun.Prm{
		&fun.Prm{N: "rho0", V: 2700},
		&fun.Prm{N: "cs0", V: 5000},
	})
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	// zero pressure at the reference density
	p, cs := m.Eval(2700, 0)
	chk.Scalar(tst, "p(rho0)", 1e-10, p, 0.0)
	chk.Scalar(tst, "cs", 1e-10, cs, 5000.0)

	// compression raises pressure, expansion lowers it
	pc, _ := m.Eval(2800, 0)
	pe, _ := m.Eval(2600, 0)
	if pc <= 0 || pe >= 0 {
		tst.Errorf("murnaghan pressure has wrong sign: pc=%g pe=%g", pc, pe)
	}
}

func Test_eos03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("eos03. tillotson branches")

	m, err := New("tillotson")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	till := m.(*Tillotson)
	err = till.Init(till.GetPrms())
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	// cold compressed state: positive pressure
	p, cs := till.Eval(3000, 1e5)
	if p <= 0 {
		tst.Errorf("compressed state must have positive pressure (p=%g)", p)
	}
	if cs <= 0 {
		tst.Errorf("sound speed must be positive")
	}

	// cold expanded state: tension
	p, _ = till.Eval(2500, 1e5)
	if p >= 0 {
		tst.Errorf("cold expanded state must be under tension (p=%g)", p)
	}

	// the hybrid regime blends continuously towards both branches
	ρ := 2500.0
	pb, _ := till.Eval(ρ, till.uiv*(1.0+1e-9))
	pc2, _ := till.Eval(ρ, till.uiv*(1.0-1e-9))
	chk.Scalar(tst, "continuity at uiv", 1e-3*math.Abs(pc2)+1e-6, pb, pc2)
}
