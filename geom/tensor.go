// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"math"

	"github.com/cpmech/gosl/la"
)

// SymTensor holds a symmetric 3x3 tensor as {xx, yy, zz, xy, xz, yz}
type SymTensor [6]float64

// component indices of SymTensor
const (
	XX = 0
	YY = 1
	ZZ = 2
	XY = 3
	XZ = 4
	YZ = 5
)

// SymIdentity returns the identity tensor
func SymIdentity() SymTensor {
	return SymTensor{1, 1, 1, 0, 0, 0}
}

// Get returns component (i,j)
func (t SymTensor) Get(i, j int) float64 {
	if i == j {
		return t[i]
	}
	// off-diagonal lookup
	switch i + j {
	case 1:
		return t[XY]
	case 2:
		return t[XZ]
	default:
		return t[YZ]
	}
}

// Add returns t + s
func (t SymTensor) Add(s SymTensor) SymTensor {
	for i := 0; i < 6; i++ {
		t[i] += s[i]
	}
	return t
}

// Sub returns t - s
func (t SymTensor) Sub(s SymTensor) SymTensor {
	for i := 0; i < 6; i++ {
		t[i] -= s[i]
	}
	return t
}

// Scale returns a*t
func (t SymTensor) Scale(a float64) SymTensor {
	for i := 0; i < 6; i++ {
		t[i] *= a
	}
	return t
}

// MulVec returns t·v
func (t SymTensor) MulVec(v Vec) Vec {
	return Vec{
		t[XX]*v[0] + t[XY]*v[1] + t[XZ]*v[2],
		t[XY]*v[0] + t[YY]*v[1] + t[YZ]*v[2],
		t[XZ]*v[0] + t[YZ]*v[1] + t[ZZ]*v[2],
		0,
	}
}

// Trace returns t_xx + t_yy + t_zz
func (t SymTensor) Trace() float64 {
	return t[XX] + t[YY] + t[ZZ]
}

// Deviator returns the traceless part of t
func (t SymTensor) Deviator() SymTensor {
	tr := t.Trace() / 3.0
	t[XX] -= tr
	t[YY] -= tr
	t[ZZ] -= tr
	return t
}

// DoubleDot returns t:s = t_ij s_ij
func (t SymTensor) DoubleDot(s SymTensor) float64 {
	return t[XX]*s[XX] + t[YY]*s[YY] + t[ZZ]*s[ZZ] +
		2.0*(t[XY]*s[XY]+t[XZ]*s[XZ]+t[YZ]*s[YZ])
}

// SecondInvariant returns J2 = t:t / 2 of the deviatoric part
func (t SymTensor) SecondInvariant() float64 {
	d := t.Deviator()
	return 0.5 * d.DoubleDot(d)
}

// IsReal reports whether all components are finite
func (t SymTensor) IsReal() bool {
	for i := 0; i < 6; i++ {
		if math.IsNaN(t[i]) || math.IsInf(t[i], 0) {
			return false
		}
	}
	return true
}

// SymOuter returns the symmetrized outer product (u⊗v + v⊗u)/2
func SymOuter(u, v Vec) SymTensor {
	return SymTensor{
		u[0] * v[0],
		u[1] * v[1],
		u[2] * v[2],
		0.5 * (u[0]*v[1] + u[1]*v[0]),
		0.5 * (u[0]*v[2] + u[2]*v[0]),
		0.5 * (u[1]*v[2] + u[2]*v[1]),
	}
}

// Inverse returns the inverse of t; panics if t is singular
func (t SymTensor) Inverse() SymTensor {
	a, b, c := t[XX], t[YY], t[ZZ]
	d, e, f := t[XY], t[XZ], t[YZ]
	cofXX := b*c - f*f
	cofXY := f*e - d*c
	cofXZ := d*f - b*e
	det := a*cofXX + d*cofXY + e*cofXZ
	if det == 0 {
		panic("cannot invert singular tensor")
	}
	n := 1.0 / det
	return SymTensor{
		n * cofXX,
		n * (a*c - e*e),
		n * (a*b - d*d),
		n * cofXY,
		n * cofXZ,
		n * (e*d - a*f),
	}
}

// Eigen computes eigenvalues and eigenvectors of t using Jacobi rotations.
// Column i of vecs is the eigenvector of vals[i].
func (t SymTensor) Eigen() (vals Vec, vecs Mat3) {
	A := la.MatAlloc(3, 3)
	Q := la.MatAlloc(3, 3)
	v := make([]float64, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			A[i][j] = t.Get(i, j)
		}
	}
	err := la.Jacobi(Q, v, A)
	if err != nil {
		panic("eigen decomposition failed: " + err.Error())
	}
	for i := 0; i < 3; i++ {
		vals[i] = v[i]
		for j := 0; j < 3; j++ {
			vecs[3*i+j] = Q[i][j]
		}
	}
	return
}

// Mat3 holds a general 3x3 matrix in row-major order
type Mat3 [9]float64

// Mat3Identity returns the identity matrix
func Mat3Identity() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Get returns component (i,j)
func (m Mat3) Get(i, j int) float64 { return m[3*i+j] }

// Set sets component (i,j)
func (m *Mat3) Set(i, j int, v float64) { m[3*i+j] = v }

// MulVec returns m·v
func (m Mat3) MulVec(v Vec) Vec {
	return Vec{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
		0,
	}
}

// Mul returns m·n
func (m Mat3) Mul(n Mat3) (r Mat3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s := 0.0
			for k := 0; k < 3; k++ {
				s += m.Get(i, k) * n.Get(k, j)
			}
			r.Set(i, j, s)
		}
	}
	return
}

// Transpose returns mᵀ
func (m Mat3) Transpose() (r Mat3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r.Set(i, j, m.Get(j, i))
		}
	}
	return
}

// TransformSym returns m·t·mᵀ for a symmetric tensor t
func (m Mat3) TransformSym(t SymTensor) SymTensor {
	var full Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			full.Set(i, j, t.Get(i, j))
		}
	}
	r := m.Mul(full).Mul(m.Transpose())
	return SymTensor{
		r.Get(0, 0), r.Get(1, 1), r.Get(2, 2),
		0.5 * (r.Get(0, 1) + r.Get(1, 0)),
		0.5 * (r.Get(0, 2) + r.Get(2, 0)),
		0.5 * (r.Get(1, 2) + r.Get(2, 1)),
	}
}

// RotationAxisAngle returns the rotation matrix about the given unit axis by
// angle φ (Rodrigues formula)
func RotationAxisAngle(axis Vec, φ float64) Mat3 {
	s, c := math.Sin(φ), math.Cos(φ)
	t := 1.0 - c
	x, y, z := axis[0], axis[1], axis[2]
	return Mat3{
		t*x*x + c, t*x*y - s*z, t*x*z + s*y,
		t*x*y + s*z, t*y*y + c, t*y*z - s*x,
		t*x*z - s*y, t*y*z + s*x, t*z*z + c,
	}
}
