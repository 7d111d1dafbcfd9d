// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package nbody implements the hard-sphere N-body solver used during
// gravitational reaccumulation: collision detection with exact collision
// times, configurable collision handlers and overlap policies, merging with
// full conservation, and rigid-body rotation
package nbody

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/inp"
)

// Outcome reports how a collision was resolved
type Outcome int

const (
	None   Outcome = iota // no interaction (e.g. zero-radius pair)
	Bounce                // velocities updated, both particles survive
	Merge                 // particles merged; the second one is to be removed
)

// State bundles the views a handler works on. Handlers mutate velocities and
// spins on bounce; merging is carried out by the solver so that the
// conservation bookkeeping lives in one place.
type State struct {
	R []geom.Vec       // positions; particle radius in the fourth lane
	V []geom.Vec       // velocities
	M []float64        // masses
	W []geom.Vec       // angular velocities
	I []geom.SymTensor // moments of inertia (world frame)
}

// Radius returns the radius of particle i
func (o *State) Radius(i int) float64 { return o.R[i].H() }

// Handler decides the outcome of a detected collision. Implementations must
// be pure in the sense that the outcome depends only on the two particle
// states, the contact normal and the restitution coefficients.
type Handler interface {
	Collide(st *State, i, j int, n geom.Vec) Outcome
}

// NewHandler returns a collision handler by name
func NewHandler(name string, settings *inp.Settings) (Handler, error) {
	allocator, ok := handlerAllocators[name]
	if !ok {
		return nil, chk.Err("collision handler %q is not available in database", name)
	}
	return allocator(settings), nil
}

// handlerAllocators holds all available collision handlers
var handlerAllocators = map[string]func(settings *inp.Settings) Handler{
	"elastic-bounce": func(settings *inp.Settings) Handler {
		return &ElasticBounce{
			En: settings.GetFloat("nbody.restitution.normal"),
			Et: settings.GetFloat("nbody.restitution.tangent"),
		}
	},
	"perfect-merge": func(settings *inp.Settings) Handler {
		return &PerfectMerge{}
	},
	"merge-or-bounce": func(settings *inp.Settings) Handler {
		return &MergeOrBounce{
			bounce: ElasticBounce{
				En: settings.GetFloat("nbody.restitution.normal"),
				Et: settings.GetFloat("nbody.restitution.tangent"),
			},
			EnergyLimit: settings.GetFloat("nbody.merge.energy-limit"),
			SpinLimit:   settings.GetFloat("nbody.merge.spin-limit"),
		}
	},
}

// ElasticBounce reflects the normal component of the relative velocity with
// restitution En and scales the tangential component by Et
type ElasticBounce struct {
	En float64 // normal restitution
	Et float64 // tangential restitution
}

// Collide resolves the collision
func (o *ElasticBounce) Collide(st *State, i, j int, n geom.Vec) Outcome {
	if st.Radius(i) == 0 || st.Radius(j) == 0 {
		return None
	}
	mi, mj := st.M[i], st.M[j]
	mu := mi * mj / (mi + mj)

	vij := st.V[i].Sub(st.V[j])
	vn := vij.Dot(n)
	if vn >= 0 {
		// receding pair, nothing to resolve
		return None
	}
	vnVec := n.Scale(vn)
	vtVec := vij.Sub(vnVec)

	// impulse producing the post-collision relative velocity
	// v' = -En vn n + Et vt
	dv := vnVec.Scale(1.0 + o.En).Add(vtVec.Scale(1.0 - o.Et))
	st.V[i] = st.V[i].AddScaled(-mu/mi, dv)
	st.V[j] = st.V[j].AddScaled(mu/mj, dv)

	// tangential friction exchanges orbital for spin angular momentum; the
	// impulse acts at the contact point, so the total stays conserved
	if o.Et != 1.0 {
		Jt := vtVec.Scale(-mu * (1.0 - o.Et))
		armI := n.Scale(-st.Radius(i))
		armJ := n.Scale(st.Radius(j))
		st.W[i] = st.W[i].Add(st.I[i].Inverse().MulVec(armI.Cross(Jt)))
		st.W[j] = st.W[j].Add(st.I[j].Inverse().MulVec(armJ.Cross(Jt.Scale(-1))))
	}
	return Bounce
}

// PerfectMerge always merges the pair
type PerfectMerge struct{}

// Collide resolves the collision
func (o *PerfectMerge) Collide(st *State, i, j int, n geom.Vec) Outcome {
	if st.Radius(i) == 0 || st.Radius(j) == 0 {
		return None
	}
	return Merge
}

// MergeOrBounce merges when the pair is gravitationally bound enough and the
// merged body would not spin apart; otherwise it bounces. The limits scale
// the critical values: larger limits make merging easier.
type MergeOrBounce struct {
	bounce      ElasticBounce
	EnergyLimit float64 // kinetic-to-binding energy ratio limit
	SpinLimit   float64 // merged spin limit as a fraction of the breakup frequency
}

// Collide resolves the collision
func (o *MergeOrBounce) Collide(st *State, i, j int, n geom.Vec) Outcome {
	if st.Radius(i) == 0 || st.Radius(j) == 0 {
		return None
	}
	mi, mj := st.M[i], st.M[j]
	mu := mi * mj / (mi + mj)
	vij := st.V[i].Sub(st.V[j])

	// impact kinetic energy against the mutual binding energy
	dist := st.Radius(i) + st.Radius(j)
	ekin := 0.5 * mu * vij.SqrLen()
	ebind := 6.6743e-11 * mi * mj / dist
	if ekin > o.EnergyLimit*ebind {
		return o.bounce.Collide(st, i, j, n)
	}

	// spin of the would-be merged body against its breakup frequency
	m := mi + mj
	com := st.R[i].Scale(mi).AddScaled(mj, st.R[j]).Scale(1.0 / m)
	L := mergedAngularMomentum(st, i, j, com)
	I := mergedInertia(st, i, j, com)
	ω := I.Inverse().MulVec(L)
	ρ := m / (4.0 / 3.0 * math.Pi * math.Pow(0.5*dist, 3))
	ωcrit := math.Sqrt(4.0 / 3.0 * math.Pi * 6.6743e-11 * ρ)
	if ω.Len() > o.SpinLimit*ωcrit {
		return o.bounce.Collide(st, i, j, n)
	}
	return Merge
}

// mergedAngularMomentum returns the total angular momentum of the pair about
// the given center
func mergedAngularMomentum(st *State, i, j int, com geom.Vec) geom.Vec {
	L := st.R[i].Sub(com).Cross(st.V[i]).Scale(st.M[i])
	L = L.Add(st.R[j].Sub(com).Cross(st.V[j]).Scale(st.M[j]))
	L = L.Add(st.I[i].MulVec(st.W[i]))
	L = L.Add(st.I[j].MulVec(st.W[j]))
	return L
}

// mergedInertia returns the inertia tensor of the pair about the given
// center (parallel-axis theorem)
func mergedInertia(st *State, i, j int, com geom.Vec) geom.SymTensor {
	return translateInertia(st.I[i], st.M[i], st.R[i].Sub(com)).
		Add(translateInertia(st.I[j], st.M[j], st.R[j].Sub(com)))
}

// translateInertia shifts an inertia tensor from the body's center of mass
// by d
func translateInertia(I geom.SymTensor, m float64, d geom.Vec) geom.SymTensor {
	d2 := d.SqrLen()
	shift := geom.SymTensor{
		m * (d2 - d[0]*d[0]),
		m * (d2 - d[1]*d[1]),
		m * (d2 - d[2]*d[2]),
		-m * d[0] * d[1],
		-m * d[0] * d[2],
		-m * d[1] * d[2],
	}
	return I.Add(shift)
}
