// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package run

import (
	"math"

	"github.com/cpmech/gosl/io"
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/inp"
	_ "github.com/xupeiwust/OpenSPH/nbody" // registers the hard-sphere solver
	"github.com/xupeiwust/OpenSPH/out"
	"github.com/xupeiwust/OpenSPH/pool"
	"github.com/xupeiwust/OpenSPH/quant"
	"github.com/xupeiwust/OpenSPH/solver"
	"github.com/xupeiwust/OpenSPH/stat"
)

// Phase is one stage of an impact simulation
type Phase interface {
	Name() string
	Run(s *quant.Storage) error
}

// Pipeline executes phases in order over the same storage, accumulating the
// run summary
type Pipeline struct {
	Phases  []Phase
	Summary *out.Summary
	Verbose bool
}

// Run executes all phases
func (o *Pipeline) Run(s *quant.Storage) (err error) {
	for _, p := range o.Phases {
		if o.Verbose {
			io.Pf("> Phase %q (N = %d)\n", p.Name(), s.Size())
		}
		if err = p.Run(s); err != nil {
			return
		}
		if o.Summary != nil {
			o.Summary.Phases = append(o.Summary.Phases, p.Name())
		}
	}
	return
}

// Stabilization relaxes a (rotating) target before the impact: an SPH run
// with internal friction and a velocity damping factor applied between
// steps, bleeding off the noise of the initial lattice
type Stabilization struct {
	Runner  *Runner
	damping float64
}

// NewStabilization builds the phase from settings
func NewStabilization(settings *inp.Settings, p *pool.Pool) (*Stabilization, error) {
	s := settings.Clone()
	s.SetBool("sph.friction.enable", true)
	s.SetInterval("run.timerange", geom.Interval{Lo: 0, Hi: settings.GetFloat("phase.stabilization.time")})
	r, err := NewRunner(s, p, s.GetString("sph.solver"))
	if err != nil {
		return nil, err
	}
	r.RunType = out.RunStabilization
	return &Stabilization{Runner: r, damping: settings.GetFloat("phase.stabilization.damping")}, nil
}

// Name returns the phase name
func (o *Stabilization) Name() string { return "stabilization" }

// Run executes the phase
func (o *Stabilization) Run(s *quant.Storage) error {
	o.Runner.Setup(s)

	// wrap the solver with a damping pass between steps
	inner := o.Runner.Solver
	o.Runner.Solver = &dampingSolver{Solver: inner, factor: o.damping}
	defer func() { o.Runner.Solver = inner }()
	return o.Runner.Run(s)
}

// dampingSolver multiplies velocities by a factor after every collide pass
type dampingSolver struct {
	Solver solver.Solver
	factor float64
}

func (o *dampingSolver) Create(s *quant.Storage, mat quant.Material) { o.Solver.Create(s, mat) }

func (o *dampingSolver) Integrate(s *quant.Storage, stats *stat.Statistics) {
	o.Solver.Integrate(s, stats)
}

func (o *dampingSolver) Collide(s *quant.Storage, stats *stat.Statistics, dt float64) {
	o.Solver.Collide(s, stats, dt)
	v := s.VecDt(quant.Position)
	for i := range v {
		v[i] = v[i].Scale(o.factor).WithH(v[i][3])
	}
}

// Fragmentation is the SPH phase resolving the impact itself
type Fragmentation struct {
	Runner *Runner
}

// NewFragmentation builds the phase from settings
func NewFragmentation(settings *inp.Settings, p *pool.Pool) (*Fragmentation, error) {
	s := settings.Clone()
	s.SetInterval("run.timerange", geom.Interval{Lo: 0, Hi: settings.GetFloat("phase.fragmentation.time")})
	r, err := NewRunner(s, p, s.GetString("sph.solver"))
	if err != nil {
		return nil, err
	}
	r.RunType = out.RunSph
	return &Fragmentation{Runner: r}, nil
}

// Name returns the phase name
func (o *Fragmentation) Name() string { return "fragmentation" }

// Run executes the phase
func (o *Fragmentation) Run(s *quant.Storage) error {
	o.Runner.Setup(s)
	return o.Runner.Run(s)
}

// Reaccumulation is the long-range N-body phase: SPH particles become hard
// spheres and evolve under mutual gravity with collisions and merging
type Reaccumulation struct {
	Runner *Runner
}

// NewReaccumulation builds the phase from settings
func NewReaccumulation(settings *inp.Settings, p *pool.Pool) (*Reaccumulation, error) {
	s := settings.Clone()
	s.SetBool("gravity.enable", true)
	s.SetInterval("run.timerange", geom.Interval{Lo: 0, Hi: settings.GetFloat("phase.reaccumulation.time")})
	r, err := NewRunner(s, p, "hard-sphere")
	if err != nil {
		return nil, err
	}
	r.RunType = out.RunNbody
	return &Reaccumulation{Runner: r}, nil
}

// Name returns the phase name
func (o *Reaccumulation) Name() string { return "reaccumulation" }

// Run converts the SPH state to hard spheres and executes the phase
func (o *Reaccumulation) Run(s *quant.Storage) error {
	HandoffToNbody(s)
	o.Runner.Setup(s)
	return o.Runner.Run(s)
}

// HandoffToNbody reinterprets the fourth position lane: the SPH smoothing
// length becomes the radius of a sphere with the particle's mass and
// density
func HandoffToNbody(s *quant.Storage) {
	r := s.Vec(quant.Position)
	m := s.Scalar(quant.Mass)
	var ρ []float64
	if s.Has(quant.Density) {
		ρ = s.Scalar(quant.Density)
	}
	for i := range r {
		ρi := 2700.0
		if ρ != nil && ρ[i] > 0 {
			ρi = ρ[i]
		}
		r[i][3] = math.Cbrt(3.0 * m[i] / (4.0 * math.Pi * ρi))
	}
}
