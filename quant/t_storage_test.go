// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package quant

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/xupeiwust/OpenSPH/geom"
)

func Test_storage01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("storage01. insert and typed views")

	s := NewStorage()
	s.InsertVecData(Position, OrderSecond, []geom.Vec{
		geom.VH(0, 0, 0, 1),
		geom.VH(1, 0, 0, 1),
		geom.VH(0, 1, 0, 1),
	})
	s.InsertScalar(Density, OrderFirst, 2700.0)
	s.InsertScalar(Mass, OrderZero, 1.5)

	chk.IntAssert(s.Size(), 3)
	chk.IntAssert(s.QuantityCnt(), 3)

	ρ := s.Scalar(Density)
	chk.Scalar(tst, "rho[1]", 1e-17, ρ[1], 2700.0)

	v := s.VecDt(Position)
	chk.IntAssert(len(v), 3)

	dρ := s.ScalarDt(Density)
	chk.IntAssert(len(dρ), 3)

	// re-inserting an existing quantity at the same order keeps its order
	s.InsertScalar(Density, OrderFirst, 2700.0)
	chk.IntAssert(int(s.Quantity(Density).Order()), int(OrderFirst))

	// type mismatch must panic
	defer func() {
		if r := recover(); r == nil {
			tst.Errorf("type mismatch did not panic")
		}
	}()
	s.Vec(Density)
}

func Test_storage02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("storage02. clone selectors")

	s := NewStorage()
	s.InsertVecData(Position, OrderSecond, make([]geom.Vec, 10))
	s.InsertScalar(Density, OrderFirst, 1000.0)
	s.InsertScalar(Mass, OrderZero, 1.0)

	// highest derivatives only
	c := s.Clone(CloneHighestDt)
	chk.IntAssert(c.Size(), s.Size())
	chk.IntAssert(c.QuantityCnt(), s.QuantityCnt())
	chk.IntAssert(c.Quantity(Position).Buffer(2).Len(), 10)
	chk.IntAssert(c.Quantity(Position).Buffer(0).Len(), 0)
	chk.IntAssert(c.Quantity(Position).Buffer(1).Len(), 0)
	chk.IntAssert(c.Quantity(Density).Buffer(1).Len(), 10)
	chk.IntAssert(c.Quantity(Density).Buffer(0).Len(), 0)
	chk.IntAssert(c.Quantity(Mass).Buffer(0).Len(), 10)

	// all levels
	a := s.Clone(CloneAll)
	chk.IntAssert(a.Quantity(Position).Buffer(0).Len(), 10)
	chk.IntAssert(a.Quantity(Position).Buffer(1).Len(), 10)
	chk.IntAssert(a.Quantity(Position).Buffer(2).Len(), 10)

	// deep copy: mutating the clone must not touch the original
	a.Scalar(Density)[0] = 42.0
	chk.Scalar(tst, "rho orig", 1e-17, s.Scalar(Density)[0], 1000.0)

	// resize after partial clone keeps empty buffers empty
	c.Resize(20, false)
	chk.IntAssert(c.Size(), 20)
	chk.IntAssert(c.Quantity(Position).Buffer(2).Len(), 20)
	chk.IntAssert(c.Quantity(Position).Buffer(0).Len(), 0)
}

type testMat struct{ ρ0 float64 }

func (o *testMat) Create(s *Storage, from, to int)     {}
func (o *testMat) Initialize(s *Storage, from, to int) {}
func (o *testMat) Finalize(s *Storage, from, to int)   {}
func (o *testMat) Param(name string) float64           { return o.ρ0 }

func Test_storage03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("storage03. merge, materials and remove")

	a := NewStorage()
	a.InsertVecData(Position, OrderSecond, make([]geom.Vec, 4))
	a.InsertScalar(Mass, OrderZero, 1.0)
	a.AddMaterialRange(&testMat{ρ0: 1}, 4)

	b := NewStorage()
	b.InsertVecData(Position, OrderSecond, make([]geom.Vec, 3))
	b.InsertScalar(Mass, OrderZero, 2.0)
	b.InsertScalar(Damage, OrderFirst, 0.5)
	b.AddMaterialRange(&testMat{ρ0: 2}, 3)

	a.Merge(b)
	chk.IntAssert(a.Size(), 7)

	// quantity missing on the left side is zero-filled there
	D := a.Scalar(Damage)
	chk.Vector(tst, "damage", 1e-17, D, []float64{0, 0, 0, 0, 0.5, 0.5, 0.5})

	m := a.Scalar(Mass)
	chk.Vector(tst, "mass", 1e-17, m, []float64{1, 1, 1, 1, 2, 2, 2})

	// material lookup
	chk.IntAssert(len(a.Materials()), 2)
	chk.Scalar(tst, "mat of 2", 1e-17, a.MaterialOf(2).Param("rho0"), 1.0)
	chk.Scalar(tst, "mat of 5", 1e-17, a.MaterialOf(5).Param("rho0"), 2.0)

	// remove two particles of the first material and one of the second
	a.Remove([]int{1, 3, 5})
	chk.IntAssert(a.Size(), 4)
	chk.Vector(tst, "mass after remove", 1e-17, a.Scalar(Mass), []float64{1, 1, 2, 2})
	mats := a.Materials()
	chk.IntAssert(len(mats), 2)
	chk.IntAssert(mats[0].From, 0)
	chk.IntAssert(mats[0].To, 2)
	chk.IntAssert(mats[1].From, 2)
	chk.IntAssert(mats[1].To, 4)

	// removing the rest of a material drops its range
	a.Remove([]int{2, 3})
	chk.IntAssert(len(a.Materials()), 1)
}

func Test_storage04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("storage04. merge with empty storage is identity")

	b := NewStorage()
	b.InsertVecData(Position, OrderSecond, []geom.Vec{geom.V(1, 2, 3)})
	b.InsertScalar(Density, OrderFirst, 1000.0)

	e := NewStorage()
	e.Merge(b)
	chk.IntAssert(e.Size(), b.Size())
	chk.IntAssert(e.QuantityCnt(), b.QuantityCnt())
	chk.Vector(tst, "rho", 1e-17, e.Scalar(Density), b.Scalar(Density))
	r1 := e.Vec(Position)[0]
	r2 := b.Vec(Position)[0]
	chk.Vector(tst, "r", 1e-17, r1[:], r2[:])
}

func Test_storage05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("storage05. dependent storages")

	s := NewStorage()
	s.InsertVecData(Position, OrderSecond, make([]geom.Vec, 5))

	shadow := s.Clone(CloneAll)
	s.AddDependent(shadow)

	s.Resize(8, true)
	s.Propagate(func(d *Storage) { d.Resize(8, true) })
	chk.IntAssert(shadow.Size(), 8)
}

func Test_storage06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("storage06. swap selected buffers")

	a := NewStorage()
	a.InsertVecData(Position, OrderSecond, make([]geom.Vec, 3))
	a.InsertScalar(Density, OrderFirst, 1.0)

	b := a.Clone(CloneAll)
	b.Scalar(Density)[0] = 2.0
	b.ScalarDt(Density)[0] = -7.0

	// swapping only the highest derivatives leaves the values alone
	a.Swap(b, CloneHighestDt)
	chk.Scalar(tst, "value kept", 1e-17, a.Scalar(Density)[0], 1.0)
	chk.Scalar(tst, "derivative swapped", 1e-17, a.ScalarDt(Density)[0], -7.0)
	chk.Scalar(tst, "derivative swapped back", 1e-17, b.ScalarDt(Density)[0], 0.0)
}
