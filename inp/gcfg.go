// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"gopkg.in/gcfg.v1"

	"github.com/cpmech/gosl/chk"
	"github.com/xupeiwust/OpenSPH/geom"
)

// RunConfig mirrors the hand-written INI run configuration. Zero values mean
// "keep the compiled-in default".
type RunConfig struct {
	Run struct {
		Name           string
		TimeEnd        float64
		InitialDt      float64
		MaxDt          float64
		OutputInterval float64
		OutputType     string
		OutputPath     string
	}
	Sph struct {
		Kernel string
		Finder string
		Solver string
		Eta    float64
	}
	Gravity struct {
		Enable bool
		Theta  float64
		Order  int
	}
	Timestep struct {
		Integrator string
		Courant    float64
		Criteria   string
	}
	Nbody struct {
		Handler            string
		Overlap            string
		RestitutionNormal  float64
		RestitutionTangent float64
	}
	Domain struct {
		Type  string
		SizeX float64
		SizeY float64
		SizeZ float64
	}
}

// ReadRunConfig loads an INI-style run configuration and applies it over the
// given settings
func ReadRunConfig(path string, settings *Settings) (err error) {
	var cfg RunConfig
	err = gcfg.ReadFileInto(&cfg, path)
	if err != nil {
		return chk.Err("cannot read run config %q: %v", path, err)
	}

	if cfg.Run.Name != "" {
		settings.SetString("run.name", cfg.Run.Name)
	}
	if cfg.Run.TimeEnd > 0 {
		settings.SetInterval("run.timerange", geom.Interval{Lo: 0, Hi: cfg.Run.TimeEnd})
	}
	if cfg.Run.InitialDt > 0 {
		settings.SetFloat("run.timestep.initial", cfg.Run.InitialDt)
	}
	if cfg.Run.MaxDt > 0 {
		settings.SetFloat("run.timestep.max", cfg.Run.MaxDt)
	}
	if cfg.Run.OutputInterval > 0 {
		settings.SetFloat("run.output.interval", cfg.Run.OutputInterval)
	}
	if cfg.Run.OutputType != "" {
		settings.SetString("run.output.type", cfg.Run.OutputType)
	}
	if cfg.Run.OutputPath != "" {
		settings.SetString("run.output.path", cfg.Run.OutputPath)
	}
	if cfg.Sph.Kernel != "" {
		settings.SetString("sph.kernel", cfg.Sph.Kernel)
	}
	if cfg.Sph.Finder != "" {
		settings.SetString("sph.finder", cfg.Sph.Finder)
	}
	if cfg.Sph.Solver != "" {
		settings.SetString("sph.solver", cfg.Sph.Solver)
	}
	if cfg.Sph.Eta > 0 {
		settings.SetFloat("sph.eta", cfg.Sph.Eta)
	}
	if cfg.Gravity.Enable {
		settings.SetBool("gravity.enable", true)
	}
	if cfg.Gravity.Theta > 0 {
		settings.SetFloat("gravity.theta", cfg.Gravity.Theta)
	}
	if cfg.Gravity.Order > 0 {
		settings.SetInt("gravity.order", cfg.Gravity.Order)
	}
	if cfg.Timestep.Integrator != "" {
		settings.SetString("timestep.integrator", cfg.Timestep.Integrator)
	}
	if cfg.Timestep.Courant > 0 {
		settings.SetFloat("timestep.courant", cfg.Timestep.Courant)
	}
	if cfg.Timestep.Criteria != "" {
		settings.SetString("timestep.criteria", cfg.Timestep.Criteria)
	}
	if cfg.Nbody.Handler != "" {
		settings.SetString("nbody.collision.handler", cfg.Nbody.Handler)
	}
	if cfg.Nbody.Overlap != "" {
		settings.SetString("nbody.overlap", cfg.Nbody.Overlap)
	}
	if cfg.Nbody.RestitutionNormal > 0 {
		settings.SetFloat("nbody.restitution.normal", cfg.Nbody.RestitutionNormal)
	}
	if cfg.Nbody.RestitutionTangent > 0 {
		settings.SetFloat("nbody.restitution.tangent", cfg.Nbody.RestitutionTangent)
	}
	if cfg.Domain.Type != "" {
		settings.SetString("domain.type", cfg.Domain.Type)
		settings.SetVec("domain.size", geom.V(cfg.Domain.SizeX, cfg.Domain.SizeY, cfg.Domain.SizeZ))
	}
	return nil
}
