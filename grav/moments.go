// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package grav implements long-range self-gravity: a Barnes-Hut solver with
// traceless multipole moments up to octupole built on the k-d tree, and a
// brute-force reference solver
package grav

import "github.com/xupeiwust/OpenSPH/geom"

// quadrupole accumulates Q_ij = Σ m (3 x_i x_j - δ_ij |x|²) into q for one
// particle at offset x with mass m
func quadrupole(q *geom.SymTensor, m float64, x geom.Vec) {
	x2 := x.SqrLen()
	q[geom.XX] += m * (3.0*x[0]*x[0] - x2)
	q[geom.YY] += m * (3.0*x[1]*x[1] - x2)
	q[geom.ZZ] += m * (3.0*x[2]*x[2] - x2)
	q[geom.XY] += m * 3.0 * x[0] * x[1]
	q[geom.XZ] += m * 3.0 * x[0] * x[2]
	q[geom.YZ] += m * 3.0 * x[1] * x[2]
}

// octupole accumulates O_ijk = Σ m (5 x_i x_j x_k - |x|²(x_i δ_jk + x_j δ_ik
// + x_k δ_ij)) into t
func octupole(t *geom.Octupole, m float64, x geom.Vec) {
	x2 := x.SqrLen()
	for i := 0; i <= 2; i++ {
		for j := i; j <= 2; j++ {
			for k := j; k <= 2; k++ {
				v := 5.0 * x[i] * x[j] * x[k]
				if j == k {
					v -= x2 * x[i]
				}
				if i == k {
					v -= x2 * x[j]
				}
				if i == j {
					v -= x2 * x[k]
				}
				t.Set(i, j, k, t.Get(i, j, k)+m*v)
			}
		}
	}
}

// translateQuadrupole shifts a traceless quadrupole from its own center of
// mass by d (parallel-axis theorem)
func translateQuadrupole(q geom.SymTensor, m float64, d geom.Vec) geom.SymTensor {
	var shift geom.SymTensor
	quadrupole(&shift, m, d)
	return q.Add(shift)
}

// translateOctupole shifts a traceless octupole from its own center of mass
// by d; the coupling with the child's quadrupole survives detracing
func translateOctupole(t geom.Octupole, q geom.SymTensor, m float64, d geom.Vec) geom.Octupole {
	qd := q.MulVec(d)
	var out geom.Octupole
	for i := 0; i <= 2; i++ {
		for j := i; j <= 2; j++ {
			for k := j; k <= 2; k++ {
				v := t.Get(i, j, k)
				v += 5.0 / 3.0 * (d[i]*q.Get(j, k) + d[j]*q.Get(i, k) + d[k]*q.Get(i, j))
				if j == k {
					v -= 2.0 / 3.0 * qd[i]
				}
				if i == k {
					v -= 2.0 / 3.0 * qd[j]
				}
				if i == j {
					v -= 2.0 / 3.0 * qd[k]
				}
				out.Set(i, j, k, v)
			}
		}
	}
	var point geom.Octupole
	octupole(&point, m, d)
	return out.Add(point)
}

// evalMultipole returns the acceleration (without the gravitational constant)
// of the expansion (m, q2, q3) about com, evaluated at point p, to the given
// order
func evalMultipole(p, com geom.Vec, m float64, q2 geom.SymTensor, q3 geom.Octupole, order int) geom.Vec {
	s := p.Sub(com)
	r2 := s.SqrLen()
	if r2 == 0 {
		return geom.Vec{}
	}
	r := s.Len()
	n := s.Scale(1.0 / r)

	// monopole: -M n / r²
	a := n.Scale(-m / r2)
	if order < 2 {
		return a
	}

	// quadrupole: (2 Q·n - 5 (n·Q·n) n) / (2 r⁴)
	qn := q2.MulVec(n)
	A := qn.Dot(n)
	r4 := r2 * r2
	a = a.AddScaled(1.0/r4, qn)
	a = a.AddScaled(-2.5*A/r4, n)
	if order < 3 {
		return a
	}

	// octupole: (3 O:nn - 7 (O:nnn) n) / (2 r⁵)
	onn := q3.ContractTwice(n)
	B := onn.Dot(n)
	r5 := r4 * r
	a = a.AddScaled(1.5/r5, onn)
	a = a.AddScaled(-3.5*B/r5, n)
	return a
}
