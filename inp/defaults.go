// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"math"

	"github.com/xupeiwust/OpenSPH/geom"
)

// helper constructors for default entries
func db(v bool) entry              { return entry{Kind: Bool, B: v} }
func di(v int) entry               { return entry{Kind: Int, I: v} }
func df(v float64) entry           { return entry{Kind: Float, F: v} }
func ds(v string) entry            { return entry{Kind: Str, S: v} }
func dv(x, y, z float64) entry     { return entry{Kind: Vector, V: geom.V(x, y, z)} }
func dr(lo, hi float64) entry      { return entry{Kind: Intv, R: geom.Interval{Lo: lo, Hi: hi}} }

// runDefaults is the compiled-in defaults table of the run namespace
var runDefaults = map[string]entry{

	// run control
	"run.name":            ds("unnamed"),
	"run.timerange":       dr(0, 10),
	"run.timestep.initial": df(0.01),
	"run.timestep.max":    df(1.0),
	"run.wallclock.limit": df(0),
	"run.step.limit":      di(0),
	"run.rng.seed":        di(1234),

	// output
	"run.output.type":     ds("binary"),
	"run.output.path":     ds("out"),
	"run.output.name":     ds("dump_%04d"),
	"run.output.interval": df(0.1),

	// SPH discretization
	"sph.kernel":                ds("cubic-spline"),
	"sph.finder":                ds("kd-tree"),
	"sph.finder.leaf-size":      di(25),
	"sph.solver":                ds("continuity"),
	"sph.eta":                   df(1.3),
	"sph.hmin":                  df(1e-8),
	"sph.smoothing-length":      ds("continuity"), // "const" or "continuity"
	"sph.neighbour.enforcing":   db(false),
	"sph.neighbour.range":       dr(25, 100),
	"sph.stress.enable":         db(true),
	"sph.av.type":               ds("standard"),
	"sph.av.alpha":              df(1.5),
	"sph.av.beta":               df(3.0),
	"sph.xsph.enable":           db(false),
	"sph.xsph.epsilon":          df(0.5),
	"sph.correction-tensor":     db(false),
	"sph.friction.enable":       db(false),
	"sph.friction.coefficient":  df(0.0),
	"sph.summation.iterations":  di(10),
	"sph.summation.tolerance":   df(1e-3),

	// rotating frame
	"frame.angular-frequency": dv(0, 0, 0),

	// gravity
	"gravity.enable":   db(false),
	"gravity.solver":   ds("barnes-hut"),
	"gravity.theta":    df(0.5),
	"gravity.order":    di(3),
	"gravity.constant": df(6.6743e-11),
	"gravity.kernel":   ds("point"),

	// time stepping
	"timestep.integrator":        ds("predictor-corrector"),
	"timestep.courant":           df(0.2),
	"timestep.criteria":          ds("courant derivatives acceleration"),
	"timestep.derivative-factor": df(0.2),
	"timestep.mean-power":        df(math.Inf(-1)),
	"timestep.ratio.min":         df(0.2),
	"timestep.ratio.max":         df(5.0),
	"timestep.bs.tolerance":      df(1e-6),

	// hard-sphere N-body
	"nbody.restitution.normal":  df(0.5),
	"nbody.restitution.tangent": df(1.0),
	"nbody.collision.handler":   ds("merge-or-bounce"),
	"nbody.overlap":             ds("repel"),
	"nbody.allowed-overlap":     df(1e-4),
	"nbody.merge.energy-limit":  df(1.0),
	"nbody.merge.spin-limit":    df(1.0),
	"nbody.rotation.enable":     db(false),
	"nbody.rotation.max-angle":  df(0.01),
	"nbody.conserve.tolerance":  df(1e-6),

	// boundary and domain
	"boundary.type":        ds("none"),
	"boundary.frozen.band": df(0.0),
	"domain.type":          ds("none"),
	"domain.center":        dv(0, 0, 0),
	"domain.size":          dv(1, 1, 1),

	// phase composition
	"phase.stabilization.damping": df(0.98),
	"phase.stabilization.time":    df(1.0),
	"phase.fragmentation.time":    df(10.0),
	"phase.reaccumulation.time":   df(1e5),

	// scheduler
	"pool.threads":     di(0),
	"pool.granularity": di(1000),
}

// bodyDefaults is the compiled-in defaults table of the body namespace
var bodyDefaults = map[string]entry{
	"body.particle.count": di(10000),
	"body.distribution":   ds("hcp"),
	"body.center":         dv(0, 0, 0),
	"body.velocity":       dv(0, 0, 0),
	"body.spin":           dv(0, 0, 0),
	"body.density":        df(2700),
	"body.energy":         df(0),
	"body.energy.range":   dr(0, math.Inf(1)),
	"body.density.range":  dr(1e-1, math.Inf(1)),
	"body.damage.range":   dr(0, 1),
	"body.eos":            ds("tillotson"),
	"body.rheology":       ds("von-mises"),
	"body.damage":         ds("none"),
	"body.shear-modulus":  df(2.27e10),
	"body.bulk-modulus":   df(2.67e10),
}

// NewRunSettings returns run settings with compiled-in defaults
func NewRunSettings() *Settings {
	return newSettings("run", runDefaults)
}

// NewBodySettings returns body settings with compiled-in defaults
func NewBodySettings() *Settings {
	return newSettings("body", bodyDefaults)
}
