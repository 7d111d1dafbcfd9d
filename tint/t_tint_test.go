// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tint

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/quant"
	"github.com/xupeiwust/OpenSPH/stat"
)

// oscillator drives x'' = -x for a single particle: the harmonic oscillator
// with angular frequency one
type oscillator struct{}

func (o *oscillator) Create(s *quant.Storage, mat quant.Material) {}

func (o *oscillator) Integrate(s *quant.Storage, stats *stat.Statistics) {
	r := s.Vec(quant.Position)
	dv := s.VecD2t(quant.Position)
	for i := range r {
		dv[i] = r[i].Scale(-1.0).WithH(0)
	}
}

func (o *oscillator) Collide(s *quant.Storage, stats *stat.Statistics, dt float64) {}

// decay drives y' = -y for a first-order scalar quantity
type decay struct{}

func (o *decay) Create(s *quant.Storage, mat quant.Material) {}

func (o *decay) Integrate(s *quant.Storage, stats *stat.Statistics) {
	y := s.Scalar(quant.Energy)
	dy := s.ScalarDt(quant.Energy)
	for i := range y {
		dy[i] = -y[i]
	}
}

func (o *decay) Collide(s *quant.Storage, stats *stat.Statistics, dt float64) {}

// oscState builds a one-particle storage at x=1, v=0
func oscState() *quant.Storage {
	s := quant.NewStorage()
	s.InsertVecData(quant.Position, quant.OrderSecond, []geom.Vec{geom.VH(1, 0, 0, 0.1)})
	return s
}

// integrateOsc runs the oscillator for one period and returns the position
// error
func integrateOsc(integ Integrator, dt float64) float64 {
	s := oscState()
	stats := stat.New()
	slv := &oscillator{}
	t := 0.0
	for t < 2.0*math.Pi {
		integ.Step(s, slv, stats, dt)
		t += dt
	}
	// after an integer number of periods minus the overshoot, compare with
	// the analytic solution cos(t)
	x := s.Vec(quant.Position)[0][0]
	return math.Abs(x - math.Cos(t))
}

func Test_tint01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tint01. integrator accuracy ordering")

	settings := inp.NewRunSettings()
	names := []string{"euler", "leap-frog", "predictor-corrector", "runge-kutta", "bulirsch-stoer"}
	errs := make(map[string]float64)
	for _, name := range names {
		integ, err := New(name, settings)
		if err != nil {
			tst.Errorf("test failed: %v\n", err)
			return
		}
		errs[name] = integrateOsc(integ, 1e-3)
	}

	// all integrators track the oscillator
	for name, e := range errs {
		if e > 2e-2 {
			tst.Errorf("%s error %g is too large", name, e)
		}
	}

	// higher order schemes beat the explicit Euler
	if errs["leap-frog"] >= errs["euler"] {
		tst.Errorf("leap-frog (%g) should beat euler (%g)", errs["leap-frog"], errs["euler"])
	}
	if errs["runge-kutta"] >= errs["euler"] {
		tst.Errorf("runge-kutta (%g) should beat euler (%g)", errs["runge-kutta"], errs["euler"])
	}
}

func Test_tint02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tint02. first order decay")

	settings := inp.NewRunSettings()
	for _, name := range []string{"euler", "predictor-corrector", "runge-kutta"} {
		integ, err := New(name, settings)
		if err != nil {
			tst.Errorf("test failed: %v\n", err)
			return
		}
		s := quant.NewStorage()
		s.InsertVecData(quant.Position, quant.OrderSecond, []geom.Vec{geom.VH(0, 0, 0, 0.1)})
		s.InsertScalar(quant.Energy, quant.OrderFirst, 1.0)
		stats := stat.New()
		slv := &decay{}
		dt := 1e-3
		t := 0.0
		for t < 1.0 {
			integ.Step(s, slv, stats, dt)
			t += dt
		}
		y := s.Scalar(quant.Energy)[0]
		chk.Scalar(tst, "exp decay "+name, 1e-2, y, math.Exp(-t))
	}
}

func Test_tint03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tint03. clamping zeroes the outgoing derivative")

	s := quant.NewStorage()
	s.InsertVecData(quant.Position, quant.OrderSecond, []geom.Vec{geom.VH(0, 0, 0, 0.1)})
	s.InsertScalar(quant.Damage, quant.OrderFirst, 0.9)
	s.SetRange(quant.Damage, geom.Interval{Lo: 0, Hi: 1}, 0.1)

	D := s.Scalar(quant.Damage)
	dD := s.ScalarDt(quant.Damage)
	D[0] = 1.5
	dD[0] = 2.0
	clampAll(s)
	chk.Scalar(tst, "clamped", 1e-17, D[0], 1.0)
	chk.Scalar(tst, "derivative zeroed", 1e-17, dD[0], 0.0)

	// derivative pulling back inside is kept
	D[0] = 1.5
	dD[0] = -2.0
	clampAll(s)
	chk.Scalar(tst, "kept", 1e-17, dD[0], -2.0)
}

func Test_tint04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tint04. multi-criterion band limiting")

	settings := inp.NewRunSettings()
	settings.SetString("timestep.criteria", "courant acceleration")
	settings.SetFloat("run.timestep.initial", 0.01)
	mc := NewMultiCriterion(settings)

	s := quant.NewStorage()
	s.InsertVecData(quant.Position, quant.OrderSecond, []geom.Vec{geom.VH(0, 0, 0, 0.1)})
	s.InsertScalar(quant.SoundSpeed, quant.OrderZero, 1e9)
	stats := stat.New()

	// the raw courant step would be tiny; the band limits the drop to
	// ratio.min per step
	dt, src, _ := mc.Compute(s, 1.0, stats)
	chk.Scalar(tst, "band-limited", 1e-14, dt, 0.2*0.01)
	chk.String(tst, src, "courant")

	// successive steps keep shrinking within the band
	dt2, _, _ := mc.Compute(s, 1.0, stats)
	chk.Scalar(tst, "second step", 1e-14, dt2, 0.2*dt)
}
