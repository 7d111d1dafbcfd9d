// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package geom implements the geometric primitives of the particle code:
// vectors with an attached length scale, 3x3 (symmetric) tensors, axis-aligned
// boxes, intervals and computational domains
package geom

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Vec holds a spatial vector. The fourth lane carries the smoothing length of
// SPH particles or the radius of hard spheres; it is ignored by all algebraic
// operations.
type Vec [4]float64

// V returns a new vector with zero fourth lane
func V(x, y, z float64) Vec {
	return Vec{x, y, z, 0}
}

// VH returns a new vector with given fourth lane
func VH(x, y, z, h float64) Vec {
	return Vec{x, y, z, h}
}

// H returns the fourth lane (smoothing length or particle radius)
func (u Vec) H() float64 { return u[3] }

// WithH returns a copy of u with the fourth lane set to h
func (u Vec) WithH(h float64) Vec {
	u[3] = h
	return u
}

// Add returns u + v. The fourth lane of u is kept.
func (u Vec) Add(v Vec) Vec {
	return Vec{u[0] + v[0], u[1] + v[1], u[2] + v[2], u[3]}
}

// Sub returns u - v. The fourth lane of u is kept.
func (u Vec) Sub(v Vec) Vec {
	return Vec{u[0] - v[0], u[1] - v[1], u[2] - v[2], u[3]}
}

// Scale returns s*u. The fourth lane of u is kept.
func (u Vec) Scale(s float64) Vec {
	return Vec{s * u[0], s * u[1], s * u[2], u[3]}
}

// AddScaled returns u + s*v. The fourth lane of u is kept.
func (u Vec) AddScaled(s float64, v Vec) Vec {
	return Vec{u[0] + s*v[0], u[1] + s*v[1], u[2] + s*v[2], u[3]}
}

// Dot returns the scalar product of the spatial components
func (u Vec) Dot(v Vec) float64 {
	return u[0]*v[0] + u[1]*v[1] + u[2]*v[2]
}

// Cross returns the vector product of the spatial components
func (u Vec) Cross(v Vec) Vec {
	return Vec{
		u[1]*v[2] - u[2]*v[1],
		u[2]*v[0] - u[0]*v[2],
		u[0]*v[1] - u[1]*v[0],
		0,
	}
}

// SqrLen returns |u|²
func (u Vec) SqrLen() float64 {
	return u.Dot(u)
}

// Len returns |u|
func (u Vec) Len() float64 {
	return math.Sqrt(u.SqrLen())
}

// Unit returns u/|u|; panics on zero vector
func (u Vec) Unit() Vec {
	l := u.Len()
	if l == 0 {
		chk.Panic("cannot normalize zero vector")
	}
	return u.Scale(1.0 / l)
}

// MaxAxis returns the index (0, 1 or 2) of the largest spatial component
func (u Vec) MaxAxis() int {
	axis := 0
	if u[1] > u[axis] {
		axis = 1
	}
	if u[2] > u[axis] {
		axis = 2
	}
	return axis
}

// IsReal reports whether all spatial components are finite
func (u Vec) IsReal() bool {
	for i := 0; i < 3; i++ {
		if math.IsNaN(u[i]) || math.IsInf(u[i], 0) {
			return false
		}
	}
	return true
}

// SqrDist returns |u - v|²
func SqrDist(u, v Vec) float64 {
	dx := u[0] - v[0]
	dy := u[1] - v[1]
	dz := u[2] - v[2]
	return dx*dx + dy*dy + dz*dz
}
