// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ic

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/quant"
)

func Test_ic01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ic01. distributions fill the domain")

	domain := &geom.SphericalDomain{Cen: geom.V(0, 0, 0), R: 1.0}
	for _, name := range []string{"cubic", "hcp", "random", "stratified"} {
		dist, err := NewDistribution(name, 1234)
		if err != nil {
			tst.Errorf("test failed: %v\n", err)
			return
		}
		pts := dist.Generate(1000, domain)
		if len(pts) < 500 {
			tst.Errorf("%s generated only %d particles", name, len(pts))
			return
		}
		for _, p := range pts {
			if !domain.Contains(p) {
				tst.Errorf("%s generated a particle outside the domain", name)
				return
			}
		}
	}
}

func Test_ic02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ic02. body setup")

	run := inp.NewRunSettings()
	body := inp.NewBodySettings()
	body.SetInt("body.particle.count", 500)
	body.SetString("body.distribution", "hcp")
	body.SetFloat("body.density", 2700)
	body.SetVec("body.spin", geom.V(0, 0, 1e-3))

	mat := inp.DefaultBasalt()
	s := quant.NewStorage()
	stage := New(run)
	domain := &geom.SphericalDomain{Cen: geom.V(0, 0, 0), R: 100.0}
	from, to, err := stage.AddBody(s, mat, domain, body)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.IntAssert(from, 0)
	chk.IntAssert(to, s.Size())

	// the total mass matches rho * V
	m := s.Scalar(quant.Mass)
	mtot := 0.0
	for i := range m {
		mtot += m[i]
	}
	chk.Scalar(tst, "total mass", 1e-8*mtot, mtot, 2700.0*domain.Volume())

	// solid-body rotation: v = w x r
	r := s.Vec(quant.Position)
	v := s.VecDt(quant.Position)
	for i := from; i < to; i++ {
		want := geom.V(0, 0, 1e-3).Cross(r[i])
		chk.Scalar(tst, "spin", 1e-12, v[i][0], want[0])
	}

	// flaws were seeded by the damage model
	chk.IntAssert(boolToInt(s.Has(quant.Damage)), 1)
	chk.IntAssert(boolToInt(s.Has(quant.NFlaws)), 1)

	// a second body extends the flags and material ranges
	from2, to2, err := stage.AddBody(s, mat, &geom.SphericalDomain{Cen: geom.V(300, 0, 0), R: 10}, body)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.IntAssert(len(s.Materials()), 2)
	flags := s.Index(quant.Flag)
	chk.IntAssert(flags[from], 0)
	chk.IntAssert(flags[from2], 1)
	chk.IntAssert(to2, s.Size())

	// recentring kills the total momentum
	MoveToCenterOfMass(s)
	m = s.Scalar(quant.Mass)
	var mom geom.Vec
	for i := range m {
		mom = mom.AddScaled(m[i], s.VecDt(quant.Position)[i])
	}
	chk.Scalar(tst, "momentum", 1e-9, mom.Len(), 0.0)
}

func Test_ic03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ic03. impactor placement")

	run := inp.NewRunSettings()
	body := inp.NewBodySettings()
	body.SetInt("body.particle.count", 100)
	body.SetString("body.damage", "none")

	mat := inp.DefaultBasalt()
	s := quant.NewStorage()
	stage := New(run)
	target := &geom.SphericalDomain{Cen: geom.V(0, 0, 0), R: 100.0}
	_, _, err := stage.AddBody(s, mat, target, body)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	angle := 45.0 * math.Pi / 180.0
	from, to, err := stage.AddImpactor(s, mat, target, body, 10.0, angle, 5000.0)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	// impactor particles move towards the target along -x
	v := s.VecDt(quant.Position)
	for i := from; i < to; i++ {
		chk.Scalar(tst, "impact speed", 1e-12, v[i][0], -5000.0)
	}

	// the impactor center sits at distance R+r from the target center
	r := s.Vec(quant.Position)
	var com geom.Vec
	for i := from; i < to; i++ {
		com = com.Add(r[i])
	}
	com = com.Scale(1.0 / float64(to-from))
	chk.Scalar(tst, "touching distance", 2.0, com.Len(), 110.0)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
