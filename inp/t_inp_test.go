// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/stretchr/testify/assert"
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/quant"
)

func Test_inp01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("inp01. settings defaults and typed access")

	s := NewRunSettings()
	chk.Scalar(tst, "courant default", 1e-17, s.GetFloat("timestep.courant"), 0.2)
	chk.String(tst, s.GetString("sph.kernel"), "cubic-spline")

	s.SetFloat("timestep.courant", 0.1)
	chk.Scalar(tst, "courant set", 1e-17, s.GetFloat("timestep.courant"), 0.1)

	// clone carries overrides but shares defaults
	c := s.Clone()
	chk.Scalar(tst, "clone", 1e-17, c.GetFloat("timestep.courant"), 0.1)

	// unknown key panics
	defer func() {
		if r := recover(); r == nil {
			tst.Errorf("unknown key did not panic")
		}
	}()
	s.GetFloat("no.such.key")
}

func Test_inp02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("inp02. settings round trip")

	dir := tst.TempDir()
	path := filepath.Join(dir, "run.json")

	s := NewRunSettings()
	s.SetFloat("timestep.courant", 0.15)
	s.SetString("sph.kernel", "wendland-c2")
	s.SetVec("domain.size", geom.V(2, 3, 4))
	s.SetInterval("run.timerange", geom.Interval{Lo: 1, Hi: 9})
	s.SetBool("gravity.enable", true)
	s.SetInt("gravity.order", 2)

	err := s.Save(path)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	r := NewRunSettings()
	err = r.Load(path)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	assert.Equal(tst, s.GetFloat("timestep.courant"), r.GetFloat("timestep.courant"))
	assert.Equal(tst, s.GetString("sph.kernel"), r.GetString("sph.kernel"))
	assert.Equal(tst, s.GetVec("domain.size"), r.GetVec("domain.size"))
	assert.Equal(tst, s.GetInterval("run.timerange"), r.GetInterval("run.timerange"))
	assert.Equal(tst, s.GetBool("gravity.enable"), r.GetBool("gravity.enable"))
	assert.Equal(tst, s.GetInt("gravity.order"), r.GetInt("gravity.order"))

	// defaults survive the round trip
	assert.Equal(tst, 0.5, r.GetFloat("gravity.theta"))
}

func Test_inp03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("inp03. unknown keys are ignored with a warning")

	dir := tst.TempDir()
	path := filepath.Join(dir, "run.json")
	content := `[
	  {"key": "timestep.courant", "kind": "float", "value": 0.3},
	  {"key": "future.feature", "kind": "float", "value": 1.0}
	]`
	err := os.WriteFile(path, []byte(content), 0644)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	s := NewRunSettings()
	err = s.Load(path)
	if err != nil {
		tst.Errorf("unknown keys must not fail the load: %v\n", err)
		return
	}
	chk.Scalar(tst, "courant", 1e-17, s.GetFloat("timestep.courant"), 0.3)
}

func Test_inp04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("inp04. material database")

	mat := DefaultBasalt()
	chk.Scalar(tst, "rho0", 1e-17, mat.Param("rho0"), 2700.0)
	assert.True(tst, mat.HasParam("G"))
	chk.Scalar(tst, "fallback", 1e-17, mat.ParamOr("nope", 7.0), 7.0)

	// material strategies drive the storage
	s := quant.NewStorage()
	s.InsertVecData(quant.Position, quant.OrderSecond, []geom.Vec{geom.VH(0, 0, 0, 0.1)})
	s.InsertScalar(quant.Density, quant.OrderFirst, 2700.0)
	s.InsertScalar(quant.Energy, quant.OrderFirst, 0.0)
	s.InsertTraceless(quant.DeviatoricStress, quant.OrderFirst, geom.SymTensor{})
	mat.Create(s, 0, 1)
	chk.IntAssert(boolToInt(s.Has(quant.Pressure)), 1)
	chk.IntAssert(boolToInt(s.Has(quant.SoundSpeed)), 1)

	mat.Initialize(s, 0, 1)
	cs := s.Scalar(quant.SoundSpeed)
	if cs[0] <= 0 {
		tst.Errorf("sound speed must be positive after initialize")
	}

	// database round trip
	dir := tst.TempDir()
	path := filepath.Join(dir, "materials.json")
	db := &MatDb{Materials: MatsData{mat}}
	err := db.Save(path)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	rdb, err := ReadMat(path)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	got := rdb.Get("basalt")
	if got == nil {
		tst.Errorf("material lost in round trip")
		return
	}
	assert.Equal(tst, mat.Param("A"), got.Param("A"))
	assert.Equal(tst, mat.EosModel, got.EosModel)
}

func Test_inp05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("inp05. gcfg run configuration")

	dir := tst.TempDir()
	path := filepath.Join(dir, "run.cfg")
	content := `[run]
name = impact-a
timeend = 50

[sph]
kernel = wendland-c2

[gravity]
enable = true
theta = 0.7

[nbody]
handler = elastic-bounce
`
	err := os.WriteFile(path, []byte(content), 0644)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	s := NewRunSettings()
	err = ReadRunConfig(path, s)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.String(tst, s.GetString("run.name"), "impact-a")
	chk.String(tst, s.GetString("sph.kernel"), "wendland-c2")
	chk.Scalar(tst, "theta", 1e-17, s.GetFloat("gravity.theta"), 0.7)
	chk.String(tst, s.GetString("nbody.collision.handler"), "elastic-bounce")
	chk.Scalar(tst, "timeend", 1e-17, s.GetInterval("run.timerange").Hi, 50.0)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
