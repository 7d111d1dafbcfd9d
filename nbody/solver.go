// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nbody

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/grav"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/pool"
	"github.com/xupeiwust/OpenSPH/quant"
	"github.com/xupeiwust/OpenSPH/solver"
	"github.com/xupeiwust/OpenSPH/stat"
	"github.com/xupeiwust/OpenSPH/tree"
)

// OverlapPolicy decides what happens to pairs that end a step
// interpenetrating without a collision event
type OverlapPolicy int

const (
	OverlapNone       OverlapPolicy = iota // overlap is an invariant violation
	OverlapRepel                           // separate along the line of centers
	OverlapRepelMerge                      // merge bound pairs, repel the rest
	OverlapForceMerge                      // always merge
	OverlapBounce                          // treat the overlap as a bounce
)

// overlapByName maps setting strings to policies
var overlapByName = map[string]OverlapPolicy{
	"none":           OverlapNone,
	"repel":          OverlapRepel,
	"repel-or-merge": OverlapRepelMerge,
	"force-merge":    OverlapForceMerge,
	"internal-bounce": OverlapBounce,
}

// event is one collision candidate: pair (i, j) at collision time t within
// the step; overlap candidates carry t = dt, the step end
type event struct {
	i, j    int
	t       float64
	overlap bool
}

// HardSphere resolves gravity and contact between rigid spheres. The
// integrator advances candidate positions; Collide then detects collision
// events at the new positions, resolves them in time order through the
// configured handler, applies the overlap policy, compacts merged particles
// and advances rigid-body rotation.
type HardSphere struct {
	pool     *pool.Pool
	settings *inp.Settings
	handler  Handler
	policy   OverlapPolicy
	finder   *tree.KdTree
	gravity  grav.Solver
	rotation bool
	maxAngle float64
	safety   float64
	tol      float64
	gran     int

	removed []int
	neighs  [][]tree.Neighbour
}

func init() {
	solver.Register("hard-sphere", func(p *pool.Pool, settings *inp.Settings) solver.Solver {
		return NewHardSphere(p, settings)
	})
}

// NewHardSphere returns a hard-sphere solver configured from settings
func NewHardSphere(p *pool.Pool, settings *inp.Settings) *HardSphere {
	handler, err := NewHandler(settings.GetString("nbody.collision.handler"), settings)
	if err != nil {
		chk.Panic("%v", err)
	}
	policy, ok := overlapByName[settings.GetString("nbody.overlap")]
	if !ok {
		chk.Panic("overlap policy %q is not available", settings.GetString("nbody.overlap"))
	}
	o := &HardSphere{
		pool:     p,
		settings: settings,
		handler:  handler,
		policy:   policy,
		finder:   tree.NewKdTree(tree.DefaultLeafSize),
		rotation: settings.GetBool("nbody.rotation.enable"),
		maxAngle: settings.GetFloat("nbody.rotation.max-angle"),
		safety:   settings.GetFloat("nbody.allowed-overlap"),
		tol:      settings.GetFloat("nbody.conserve.tolerance"),
		gran:     settings.GetInt("pool.granularity"),
	}
	if settings.GetBool("gravity.enable") {
		o.gravity = grav.NewBarnesHut(
			settings.GetFloat("gravity.theta"),
			settings.GetFloat("gravity.constant"),
			settings.GetInt("gravity.order"),
		)
	}
	o.neighs = make([][]tree.Neighbour, p.Size())
	return o
}

// Create ensures all required columns exist
func (o *HardSphere) Create(s *quant.Storage, mat quant.Material) {
	if mat != nil {
		mat.Create(s, 0, s.Size())
	}
	s.InsertVec(quant.AngularVelocity, quant.OrderZero, geom.Vec{})
	s.InsertSymTens(quant.MomentOfInertia, quant.OrderZero, geom.SymTensor{})
	s.InsertTens(quant.LocalFrame, quant.OrderZero, geom.Mat3Identity())

	// default inertia of a homogeneous sphere
	r := s.Vec(quant.Position)
	m := s.Scalar(quant.Mass)
	I := s.SymTens(quant.MomentOfInertia)
	for i := range r {
		if I[i].Trace() == 0 {
			I[i] = sphereInertia(m[i], r[i].H())
		}
	}
}

// sphereInertia returns the inertia tensor of a homogeneous sphere
func sphereInertia(m, radius float64) geom.SymTensor {
	v := 0.4 * m * radius * radius
	return geom.SymTensor{v, v, v, 0, 0, 0}
}

// Integrate computes the continuous accelerations (gravity only)
func (o *HardSphere) Integrate(s *quant.Storage, stats *stat.Statistics) {
	n := s.Size()
	if n == 0 {
		return
	}
	s.ZeroHighestDerivatives()
	if o.gravity == nil {
		return
	}
	r := s.Vec(quant.Position)
	m := s.Scalar(quant.Mass)
	o.gravity.Build(r, m)
	dv := s.VecD2t(quant.Position)
	o.pool.RangeFor(n, o.gran, func(w, lo, hi int) {
		for i := lo; i < hi; i++ {
			dv[i] = dv[i].Add(o.gravity.Eval(i))
		}
	})
}

// Collide detects and resolves collision events over the last step of
// length dt, applies the overlap policy, removes merged particles and
// advances rotation
func (o *HardSphere) Collide(s *quant.Storage, stats *stat.Statistics, dt float64) {
	n := s.Size()
	if n == 0 {
		return
	}
	st := &State{
		R: s.Vec(quant.Position),
		V: s.VecDt(quant.Position),
		M: s.Scalar(quant.Mass),
		W: s.Vec(quant.AngularVelocity),
		I: s.SymTens(quant.MomentOfInertia),
	}

	// conserved totals before contact resolution
	m0, p0, l0 := totals(st)

	events := o.detect(st, dt)
	sort.Slice(events, func(a, b int) bool {
		if events[a].t != events[b].t {
			return events[a].t < events[b].t
		}
		if events[a].i != events[b].i {
			return events[a].i < events[b].i
		}
		return events[a].j < events[b].j
	})

	o.removed = o.removed[:0]
	repelled := false
	gone := make(map[int]bool)
	for _, ev := range events {
		if gone[ev.i] || gone[ev.j] {
			continue
		}
		if ev.overlap {
			if o.resolveOverlap(st, ev.i, ev.j, gone, stats) {
				repelled = true
			}
			continue
		}
		n := contactNormal(st, ev.i, ev.j)
		switch o.handler.Collide(st, ev.i, ev.j, n) {
		case Bounce:
			stats.AddInt(stat.BounceCnt, 1)
		case Merge:
			o.merge(st, ev.i, ev.j, gone)
			stats.AddInt(stat.MergeCnt, 1)
		}
		stats.AddInt(stat.CollisionCnt, 1)
	}

	// compaction once per step
	if len(o.removed) > 0 {
		s.Remove(o.removed)
		st.R = s.Vec(quant.Position)
		st.V = s.VecDt(quant.Position)
		st.M = s.Scalar(quant.Mass)
		st.W = s.Vec(quant.AngularVelocity)
		st.I = s.SymTens(quant.MomentOfInertia)
	}

	if o.rotation {
		o.advanceRotation(s, dt)
	}

	// conservation invariants at step end; merges and bounces preserve mass,
	// momentum and angular momentum by construction
	m1, p1, l1 := totals(st)
	scale := math.Max(m0, 1e-30)
	if math.Abs(m1-m0)/scale > o.tol {
		chk.Panic("mass not conserved: %g -> %g", m0, m1)
	}
	pscale := math.Max(p0.Len(), math.Max(m0, 1e-30))
	if p1.Sub(p0).Len()/pscale > o.tol {
		chk.Panic("momentum not conserved: %v -> %v", p0, p1)
	}
	// repelling shifts positions without impulses and is exempt from the
	// angular momentum check
	if !repelled {
		lscale := math.Max(l0.Len(), 1e-30)
		if l1.Sub(l0).Len()/lscale > o.tol {
			chk.Panic("angular momentum not conserved: %v -> %v", l0, l1)
		}
	}
}

// totals returns total mass, momentum and angular momentum about the origin
func totals(st *State) (m float64, p, l geom.Vec) {
	for i := range st.R {
		m += st.M[i]
		p = p.AddScaled(st.M[i], st.V[i])
		l = l.Add(st.R[i].Cross(st.V[i]).Scale(st.M[i]))
		l = l.Add(st.I[i].MulVec(st.W[i]))
	}
	return
}

// contactNormal returns the unit normal from j to i
func contactNormal(st *State, i, j int) geom.Vec {
	d := st.R[i].Sub(st.R[j])
	l := d.Len()
	if l == 0 {
		return geom.V(1, 0, 0)
	}
	return d.Scale(1.0 / l).WithH(0)
}

// detect queries the tree at the new positions and solves for exact
// collision times within [0, dt] assuming linear motion between endpoints
func (o *HardSphere) detect(st *State, dt float64) []event {
	n := len(st.R)
	maxRad := 0.0
	for i := range st.R {
		maxRad = math.Max(maxRad, st.Radius(i))
	}
	o.finder.Build(st.R)

	perThread := make([][]event, o.pool.Size())
	o.pool.RangeFor(n, o.gran, func(w, lo, hi int) {
		ns := o.neighs[w]
		for i := lo; i < hi; i++ {
			radius := st.Radius(i) + maxRad + o.safety
			ns = o.finder.FindAll(i, radius, ns)
			for _, nb := range ns {
				j := nb.Index
				if j < i {
					// each unordered pair reported once
					continue
				}
				if t, overlap, hit := collisionTime(st, i, j, dt); hit {
					perThread[w] = append(perThread[w], event{i: i, j: j, t: t, overlap: overlap})
				}
			}
		}
		o.neighs[w] = ns
	})

	var events []event
	for _, evs := range perThread {
		events = append(events, evs...)
	}
	return events
}

// collisionTime solves |p0ij + t vij| = R_i + R_j for t in [0, dt], where
// p0 are the positions at the step start (back-extrapolated); pairs still
// interpenetrating at the step end without a root are overlaps
func collisionTime(st *State, i, j int, dt float64) (t float64, overlap, hit bool) {
	sum := st.Radius(i) + st.Radius(j)
	if sum == 0 {
		// zero-radius pair: rejected
		return 0, false, false
	}
	dr := st.R[i].Sub(st.R[j])
	dv := st.V[i].Sub(st.V[j])
	p0 := dr.AddScaled(-dt, dv)

	// quadratic a t² + b t + c = 0
	a := dv.SqrLen()
	b := 2.0 * p0.Dot(dv)
	c := p0.SqrLen() - sum*sum

	if c <= 0 {
		// already interpenetrating at the step start: overlap
		if dr.SqrLen() < sum*sum {
			return dt, true, true
		}
		return 0, false, false
	}
	if a > 0 {
		disc := b*b - 4.0*a*c
		if disc >= 0 {
			root := (-b - math.Sqrt(disc)) / (2.0 * a)
			if root >= 0 && root <= dt {
				return root, false, true
			}
		}
	}
	// no contact during the step; report remaining interpenetration
	if dr.SqrLen() < sum*sum {
		return dt, true, true
	}
	return 0, false, false
}

// merge combines j into i conserving mass, momentum and angular momentum;
// the combined moment of inertia is taken about the new center of mass
func (o *HardSphere) merge(st *State, i, j int, gone map[int]bool) {
	mi, mj := st.M[i], st.M[j]
	m := mi + mj
	com := st.R[i].Scale(mi).AddScaled(mj, st.R[j]).Scale(1.0 / m)

	// angular momentum about the new center of mass
	L := mergedAngularMomentum(st, i, j, com)
	I := mergedInertia(st, i, j, com)
	ω := I.Inverse().MulVec(L)

	// volume-equivalent radius
	ri, rj := st.Radius(i), st.Radius(j)
	radius := math.Cbrt(ri*ri*ri + rj*rj*rj)

	st.V[i] = st.V[i].Scale(mi).AddScaled(mj, st.V[j]).Scale(1.0 / m)
	st.R[i] = com.WithH(radius)
	st.M[i] = m
	st.W[i] = ω
	st.I[i] = I

	gone[j] = true
	o.removed = append(o.removed, j)
}

// resolveOverlap applies the configured overlap policy to a pair still
// interpenetrating at the step end; reports whether positions were shifted
func (o *HardSphere) resolveOverlap(st *State, i, j int, gone map[int]bool, stats *stat.Statistics) bool {
	stats.AddInt(stat.OverlapCnt, 1)
	switch o.policy {
	case OverlapNone:
		chk.Panic("particles %d and %d overlap; the overlap policy forbids this", i, j)
	case OverlapRepel:
		o.repel(st, i, j)
		return true
	case OverlapForceMerge:
		o.merge(st, i, j, gone)
		stats.AddInt(stat.MergeCnt, 1)
	case OverlapRepelMerge:
		if o.handler.Collide(st, i, j, contactNormal(st, i, j)) == Merge {
			o.merge(st, i, j, gone)
			stats.AddInt(stat.MergeCnt, 1)
		} else {
			o.repel(st, i, j)
			return true
		}
	case OverlapBounce:
		if o.handler.Collide(st, i, j, contactNormal(st, i, j)) == Bounce {
			stats.AddInt(stat.BounceCnt, 1)
		}
		o.repel(st, i, j)
		return true
	}
	return false
}

// repel separates the pair along the line of centers, keeping the center of
// mass fixed
func (o *HardSphere) repel(st *State, i, j int) {
	mi, mj := st.M[i], st.M[j]
	n := contactNormal(st, i, j)
	dist := st.R[i].Sub(st.R[j]).Len()
	sum := st.Radius(i) + st.Radius(j)
	x := sum - dist
	if x <= 0 {
		return
	}
	// masses weight the displacements so the center of mass stays put
	st.R[i] = st.R[i].AddScaled(x*mj/(mi+mj), n)
	st.R[j] = st.R[j].AddScaled(-x*mi/(mi+mj), n)
}
