// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package run implements the time loop and the phase composition of impact
// simulations: stabilization of the rotating target, SPH fragmentation, and
// N-body reaccumulation of the fragments
package run

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/xupeiwust/OpenSPH/bnd"
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/out"
	"github.com/xupeiwust/OpenSPH/pool"
	"github.com/xupeiwust/OpenSPH/quant"
	"github.com/xupeiwust/OpenSPH/solver"
	"github.com/xupeiwust/OpenSPH/stat"
	"github.com/xupeiwust/OpenSPH/tint"
)

// Runner owns one time loop: the solver, integrator, timestep criterion,
// boundary condition and output control. The runner holds a non-owning
// handle to the scheduler, which outlives all runners.
type Runner struct {
	Settings  *inp.Settings
	Pool      *pool.Pool
	Solver    solver.Solver
	Integ     tint.Integrator
	Criterion *tint.MultiCriterion
	Boundary  bnd.Condition
	Stats     *stat.Statistics
	Summary   *out.Summary
	RunType   out.RunType
	Verbose   bool

	Time     float64 // current simulation time
	stop     int32   // cooperative stop flag, checked between steps
	stepCnt  int
	dumpCnt  int
	nextDump float64
}

// NewRunner builds a runner from settings; solverName selects the solver
// ("continuity", "asymmetric", "summation" or "hard-sphere")
func NewRunner(settings *inp.Settings, p *pool.Pool, solverName string) (o *Runner, err error) {
	o = &Runner{
		Settings: settings,
		Pool:     p,
		Stats:    stat.New(),
		Summary:  &out.Summary{RunName: settings.GetString("run.name")},
	}
	o.Solver, err = solver.New(solverName, p, settings)
	if err != nil {
		return nil, err
	}
	o.Integ, err = tint.New(settings.GetString("timestep.integrator"), settings)
	if err != nil {
		return nil, err
	}
	o.Criterion = tint.NewMultiCriterion(settings)

	// optional domain and boundary condition
	var domain geom.Domain
	if name := settings.GetString("domain.type"); name != "none" {
		domain, err = geom.NewDomain(name, settings.GetVec("domain.center"), settings.GetVec("domain.size"))
		if err != nil {
			return nil, err
		}
	}
	o.Boundary, err = bnd.New(settings.GetString("boundary.type"), domain, settings)
	if err != nil {
		return nil, err
	}
	return
}

// Setup ensures all required columns exist; must be called once before Run
func (o *Runner) Setup(s *quant.Storage) {
	for _, mr := range s.Materials() {
		o.Solver.Create(s, mr.Mat)
	}
	if len(s.Materials()) == 0 {
		o.Solver.Create(s, nil)
	}
}

// Stop requests a cooperative stop; the run ends cleanly at the next safe
// point between steps
func (o *Runner) Stop() {
	atomic.StoreInt32(&o.stop, 1)
}

// Run advances the storage over the configured time range, dumping state at
// the output interval; returns on completion, cancellation or exhausted
// budgets
func (o *Runner) Run(s *quant.Storage) (err error) {
	rng := o.Settings.GetInterval("run.timerange")
	o.Time = rng.Lo
	o.nextDump = rng.Lo
	dt := o.Settings.GetFloat("run.timestep.initial")
	maxDt := o.Settings.GetFloat("run.timestep.max")
	stepLimit := o.Settings.GetInt("run.step.limit")
	wallLimit := o.Settings.GetFloat("run.wallclock.limit")
	started := time.Now()

	for o.Time < rng.Hi {

		// cancellation and budgets are checked between steps only
		if atomic.LoadInt32(&o.stop) != 0 {
			if o.Verbose {
				io.Pfyel("> Run cancelled at t = %g\n", o.Time)
			}
			break
		}
		if stepLimit > 0 && o.stepCnt >= stepLimit {
			break
		}
		if wallLimit > 0 && time.Since(started).Seconds() > wallLimit {
			break
		}

		if err = o.dumpDue(s, dt); err != nil {
			return
		}

		if o.Boundary != nil {
			o.Boundary.Initialize(s)
		}
		used := o.Integ.Step(s, o.Solver, o.Stats, dt)
		if o.Boundary != nil {
			o.Boundary.Finalize(s)
		}
		o.Time += used
		o.stepCnt++
		o.Stats.SetFloat(stat.RunTime, o.Time)

		// keep shadow storages consistent with the particle count
		n := s.Size()
		s.Propagate(func(d *quant.Storage) {
			if d.Size() != n {
				d.Resize(n, false)
			}
		})

		dt, _, _ = o.Criterion.Compute(s, maxDt, o.Stats)
	}

	if err = o.dumpDue(s, dt); err != nil {
		return
	}
	o.Summary.StepCnt += o.stepCnt
	o.Summary.CpuSeconds += time.Since(started).Seconds()
	return
}

// dumpDue writes a state dump when the output interval elapsed
func (o *Runner) dumpDue(s *quant.Storage, dt float64) (err error) {
	if o.Time < o.nextDump {
		return
	}
	o.nextDump = o.Time + o.Settings.GetFloat("run.output.interval")

	kind := o.Settings.GetString("run.output.type")
	if kind == "none" {
		return
	}
	dir := o.Settings.GetString("run.output.path")
	if err = os.MkdirAll(dir, 0755); err != nil {
		return chk.Err("cannot create output directory %q: %v", dir, err)
	}
	name := io.Sf(o.Settings.GetString("run.output.name"), o.dumpCnt)
	meta := out.Metadata{
		Name:     o.Settings.GetString("run.name"),
		Time:     o.Time,
		TimeStep: dt,
		Type:     o.RunType,
	}
	var fn string
	switch kind {
	case "binary":
		fn = filepath.Join(dir, name+".ssf")
		err = out.SaveBinary(fn, s, meta)
	case "text":
		fn = filepath.Join(dir, name+".txt")
		err = out.SaveText(fn, s, meta)
	default:
		return chk.Err("output type %q is not available", kind)
	}
	if err != nil {
		return
	}
	o.Summary.OutTimes = append(o.Summary.OutTimes, o.Time)
	o.Summary.OutFiles = append(o.Summary.OutFiles, fn)
	o.Summary.Counts = append(o.Summary.Counts, s.Size())
	o.dumpCnt++
	if o.Verbose {
		io.Pf("> t = %-12g dump %q (N = %d)\n", o.Time, fn, s.Size())
	}
	return
}
