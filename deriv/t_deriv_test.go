// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package deriv

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/quant"
)

// pairStorage builds a simple two-particle gas state
func pairStorage() *quant.Storage {
	s := quant.NewStorage()
	s.InsertVecData(quant.Position, quant.OrderSecond, []geom.Vec{
		geom.VH(0, 0, 0, 1.0),
		geom.VH(1, 0, 0, 1.0),
	})
	s.InsertScalar(quant.Mass, quant.OrderZero, 2.0)
	s.InsertScalar(quant.Density, quant.OrderFirst, 1000.0)
	s.InsertScalar(quant.Pressure, quant.OrderZero, 100.0)
	s.InsertScalar(quant.SoundSpeed, quant.OrderZero, 10.0)
	s.InsertScalar(quant.Energy, quant.OrderFirst, 0.0)
	return s
}

func Test_deriv01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("deriv01. pressure force pair symmetry")

	settings := inp.NewRunSettings()
	h := NewHolder(1)
	h.AddTerm(new(PressureForce), settings)

	s := pairStorage()
	h.Initialize(s)

	grad := geom.V(0.5, 0, 0) // gradient of W wrt r_i points towards j
	h.EvalPair(0, 0, 1, grad, true)
	h.SumAndStore(s)

	dv := s.VecD2t(quant.Position)

	// momentum conservation: m_0 dv_0 + m_1 dv_1 = 0
	m := s.Scalar(quant.Mass)
	for c := 0; c < 3; c++ {
		chk.Scalar(tst, "momentum", 1e-14, m[0]*dv[0][c]+m[1]*dv[1][c], 0.0)
	}

	// positive pressure pushes the pair apart
	if dv[0][0] >= 0 || dv[1][0] <= 0 {
		tst.Errorf("pressure must push particles apart: dv0=%v dv1=%v", dv[0], dv[1])
	}
}

func Test_deriv02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("deriv02. deterministic reduction across threads")

	run := func(nthreads int, order []int) []float64 {
		settings := inp.NewRunSettings()
		h := NewHolder(nthreads)
		h.AddTerm(new(ContinuityEquation), settings)

		s := quant.NewStorage()
		n := 64
		pts := make([]geom.Vec, n)
		for i := range pts {
			pts[i] = geom.VH(float64(i)*0.01, 0, 0, 1.0)
		}
		s.InsertVecData(quant.Position, quant.OrderSecond, pts)
		v := s.VecDt(quant.Position)
		for i := range v {
			v[i] = geom.V(float64(i%7)*0.1, float64(i%3), 0)
		}
		s.InsertScalar(quant.Mass, quant.OrderZero, 1.5)
		s.InsertScalar(quant.Density, quant.OrderFirst, 1000.0)
		s.InsertScalar(quant.VelocityDivergence, quant.OrderZero, 0.0)
		h.Initialize(s)

		// feed pairs in the given thread assignment; pair work itself is
		// order independent within a thread-local buffer
		grad := geom.V(0.1, 0.2, 0.3)
		for k, w := range order {
			i := k % n
			j := (k*31 + 7) % n
			if i == j {
				continue
			}
			h.EvalPair(w%nthreads, i, j, grad, false)
		}
		h.SumAndStore(s)
		out := make([]float64, n)
		copy(out, s.ScalarDt(quant.Density))
		return out
	}

	// same pair-to-thread assignment twice: bitwise identical
	order := make([]int, 500)
	for i := range order {
		order[i] = (i * 13) % 4
	}
	a := run(4, order)
	b := run(4, order)
	for i := range a {
		if a[i] != b[i] {
			tst.Errorf("reduction not bitwise reproducible at particle %d", i)
			return
		}
	}
}

func Test_deriv03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("deriv03. unique buffer conflict panics")

	defer func() {
		if r := recover(); r == nil {
			tst.Errorf("conflicting unique buffers did not panic")
		}
	}()
	acc := NewAccumulated(1)
	acc.InsertScalar(quant.Density, quant.OrderFirst, Unique)
	acc.InsertScalar(quant.Density, quant.OrderFirst, Unique)
}

func Test_deriv04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("deriv04. inertial frame with zero spin is a no-op")

	settings := inp.NewRunSettings()
	h := NewHolder(1)
	h.AddTerm(new(InertialForce), settings)

	s := pairStorage()
	h.Initialize(s)
	dv := s.VecD2t(quant.Position)
	dv[0] = geom.V(1, 2, 3)
	h.Finalize(s)
	chk.Scalar(tst, "unchanged", 1e-17, dv[0][0], 1.0)
	chk.Scalar(tst, "unchanged", 1e-17, dv[0][1], 2.0)
	chk.Scalar(tst, "unchanged", 1e-17, dv[0][2], 3.0)
}
