// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/stretchr/testify/assert"
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/quant"
)

// dumpStorage builds a storage exercising all value types
func dumpStorage() *quant.Storage {
	s := quant.NewStorage()
	s.InsertVecData(quant.Position, quant.OrderSecond, []geom.Vec{
		geom.VH(1, 2, 3, 0.1),
		geom.VH(4, 5, 6, 0.2),
	})
	v := s.VecDt(quant.Position)
	v[0] = geom.V(-1, 0, 1)
	s.InsertScalar(quant.Mass, quant.OrderZero, 2.5)
	s.InsertScalar(quant.Density, quant.OrderFirst, 2700.0)
	s.ScalarDt(quant.Density)[1] = -3.5
	s.InsertTraceless(quant.DeviatoricStress, quant.OrderFirst, geom.SymTensor{1, 1, -2, 0.5, 0, 0})
	s.InsertIndex(quant.Flag, quant.OrderZero, 7)
	s.AddMaterialRange(inp.DefaultBasalt(), 2)
	return s
}

func Test_out01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("out01. binary dump round trip")

	dir := tst.TempDir()
	path := filepath.Join(dir, "dump_0001.ssf")
	s := dumpStorage()
	meta := Metadata{Name: "impact-a", Time: 1.25, TimeStep: 1e-4, Type: RunSph}

	err := SaveBinary(path, s, meta)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	r, rmeta, err := LoadBinary(path)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	assert.Equal(tst, meta, rmeta)
	chk.IntAssert(r.Size(), s.Size())
	chk.IntAssert(r.QuantityCnt(), s.QuantityCnt())

	// values round trip bitwise
	assert.Equal(tst, s.Vec(quant.Position), r.Vec(quant.Position))
	assert.Equal(tst, s.VecDt(quant.Position), r.VecDt(quant.Position))
	assert.Equal(tst, s.Scalar(quant.Mass), r.Scalar(quant.Mass))
	assert.Equal(tst, s.Scalar(quant.Density), r.Scalar(quant.Density))
	assert.Equal(tst, s.ScalarDt(quant.Density), r.ScalarDt(quant.Density))
	assert.Equal(tst, s.SymTens(quant.DeviatoricStress), r.SymTens(quant.DeviatoricStress))
	assert.Equal(tst, s.Index(quant.Flag), r.Index(quant.Flag))

	// the material came back with its models allocated
	mats := r.Materials()
	chk.IntAssert(len(mats), 1)
	m := mats[0].Mat.(*inp.Material)
	chk.String(tst, m.Name, "basalt")
	if m.Eos == nil {
		tst.Errorf("equation of state was not reallocated")
	}
	chk.Scalar(tst, "rho0", 1e-17, m.Param("rho0"), 2700.0)
}

func Test_out02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("out02. unknown versions are rejected")

	dir := tst.TempDir()
	path := filepath.Join(dir, "dump_bad.ssf")
	s := dumpStorage()
	err := SaveBinary(path, s, Metadata{Name: "x"})
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	// corrupt the version field, right after the magic signature
	b, _ := os.ReadFile(path)
	b[len(Magic)] = 99
	os.WriteFile(path, b, 0644)

	_, _, err = LoadBinary(path)
	if err == nil {
		tst.Errorf("unknown version must be rejected")
	}

	// bad signature
	b[0] = 'X'
	os.WriteFile(path, b, 0644)
	_, _, err = LoadBinary(path)
	if err == nil {
		tst.Errorf("bad signature must be rejected")
	}
}

func Test_out03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("out03. text dump header")

	dir := tst.TempDir()
	path := filepath.Join(dir, "dump_0001.txt")
	s := dumpStorage()
	err := SaveText(path, s, Metadata{Name: "impact-a", Time: 0.5})
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	b, err := os.ReadFile(path)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	// two header lines plus one line per particle
	chk.IntAssert(len(lines), 2+s.Size())
	if !strings.Contains(lines[1], "position.x") || !strings.Contains(lines[1], "density") {
		tst.Errorf("header must name the columns: %q", lines[1])
	}
}

func Test_out04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("out04. summary round trip")

	dir := tst.TempDir()
	sum := &Summary{
		RunName:  "impact-a",
		OutTimes: []float64{0, 0.5, 1.0},
		OutFiles: []string{"a", "b", "c"},
		Counts:   []int{100, 98, 42},
		Phases:   []string{"stabilization", "fragmentation", "reaccumulation"},
		StepCnt:  1234,
	}
	err := sum.Save(dir, "impact-a")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	var got Summary
	err = got.Read(dir, "impact-a")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	assert.Equal(tst, *sum, got)
}
