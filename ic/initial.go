// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ic

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/quant"
)

// InitialConditions grows a storage body by body. Every added body appends
// particles, a material range and a fresh body flag.
type InitialConditions struct {
	run *inp.Settings
}

// New returns the initial-conditions stage over run settings
func New(run *inp.Settings) *InitialConditions {
	return &InitialConditions{run: run}
}

// AddBody fills the domain with particles of the given material and appends
// them to the storage; returns the index range of the new body
func (o *InitialConditions) AddBody(s *quant.Storage, mat *inp.Material, domain geom.Domain, body *inp.Settings) (from, to int, err error) {
	n := body.GetInt("body.particle.count")
	dist, err := NewDistribution(body.GetString("body.distribution"), o.run.GetInt("run.rng.seed"))
	if err != nil {
		return
	}
	pts := dist.Generate(n, domain)
	if len(pts) == 0 {
		err = chk.Err("distribution %q generated no particles", body.GetString("body.distribution"))
		return
	}

	ρ0 := body.GetFloat("body.density")
	u0 := body.GetFloat("body.energy")
	vol := domain.Volume()
	np := len(pts)
	m := ρ0 * vol / float64(np)
	η := o.run.GetFloat("sph.eta")
	h := η * math.Cbrt(vol/float64(np))
	for i := range pts {
		pts[i] = pts[i].WithH(h)
	}

	// bulk motion: translation plus solid-body rotation about the center
	vbulk := body.GetVec("body.velocity")
	spin := body.GetVec("body.spin")
	center := domain.Center()
	vel := make([]geom.Vec, np)
	for i := range pts {
		vel[i] = vbulk.Add(spin.Cross(pts[i].Sub(center)))
	}

	// append to the storage
	body0 := quant.NewStorage()
	body0.InsertVecData(quant.Position, quant.OrderSecond, pts)
	copy(body0.VecDt(quant.Position), vel)
	body0.InsertScalar(quant.Mass, quant.OrderZero, m)
	body0.InsertScalar(quant.Density, quant.OrderFirst, ρ0)
	body0.SetRange(quant.Density, body.GetInterval("body.density.range"), 0.05*ρ0)
	body0.InsertScalar(quant.Energy, quant.OrderFirst, u0)
	body0.SetRange(quant.Energy, body.GetInterval("body.energy.range"), 1.0)
	body0.InsertIndex(quant.Flag, quant.OrderZero, s.NextBodyFlag())
	body0.AddMaterialRange(mat, np)

	from = s.Size()
	s.Merge(body0)
	to = s.Size()

	// fragmentation models seed their flaws per body
	if mat.Damage != nil {
		mat.Damage.Seed(s, from, to, vol)
	}
	return
}

// AddImpactor places a spherical impactor body so that it touches the target
// surface at the given impact angle (measured from the surface normal) and
// approaches with the given speed along -x
func (o *InitialConditions) AddImpactor(s *quant.Storage, mat *inp.Material, target *geom.SphericalDomain, body *inp.Settings, radius, angle, speed float64) (from, to int, err error) {
	// center of the impactor just touching the target surface
	φ := angle
	d := target.R + radius
	center := target.Cen.Add(geom.V(d*math.Cos(φ), d*math.Sin(φ), 0))
	domain := &geom.SphericalDomain{Cen: center, R: radius}

	impactor := body.Clone()
	impactor.SetVec("body.velocity", geom.V(-speed, 0, 0))
	return o.AddBody(s, mat, domain, impactor)
}

// MoveToCenterOfMass shifts positions and velocities so that the total
// momentum vanishes and the center of mass sits at the origin
func MoveToCenterOfMass(s *quant.Storage) {
	r := s.Vec(quant.Position)
	v := s.VecDt(quant.Position)
	m := s.Scalar(quant.Mass)
	var com, mom geom.Vec
	mtot := 0.0
	for i := range r {
		com = com.AddScaled(m[i], r[i])
		mom = mom.AddScaled(m[i], v[i])
		mtot += m[i]
	}
	if mtot == 0 {
		return
	}
	com = com.Scale(1.0 / mtot)
	mom = mom.Scale(1.0 / mtot)
	for i := range r {
		r[i] = r[i].Sub(com)
		v[i] = v[i].Sub(mom)
	}
}
