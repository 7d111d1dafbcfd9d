// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import "math"

// Box holds an axis-aligned bounding box. The zero value is the degenerate
// box holding only the origin; EmptyBox returns the empty box (Lo > Hi in all
// axes), which behaves as the neutral element of Extend.
type Box struct {
	Lo Vec // lower corner
	Hi Vec // upper corner
}

// EmptyBox returns a box containing no points
func EmptyBox() Box {
	inf := math.Inf(1)
	return Box{
		Lo: V(inf, inf, inf),
		Hi: V(-inf, -inf, -inf),
	}
}

// IsEmpty reports whether the box contains no points
func (o *Box) IsEmpty() bool {
	return o.Lo[0] > o.Hi[0] || o.Lo[1] > o.Hi[1] || o.Lo[2] > o.Hi[2]
}

// Extend grows the box to contain point p
func (o *Box) Extend(p Vec) {
	for i := 0; i < 3; i++ {
		o.Lo[i] = math.Min(o.Lo[i], p[i])
		o.Hi[i] = math.Max(o.Hi[i], p[i])
	}
}

// ExtendBox grows the box to contain another box
func (o *Box) ExtendBox(b Box) {
	if b.IsEmpty() {
		return
	}
	o.Extend(b.Lo)
	o.Extend(b.Hi)
}

// Size returns the edge lengths
func (o *Box) Size() Vec {
	if o.IsEmpty() {
		return V(0, 0, 0)
	}
	return o.Hi.Sub(o.Lo)
}

// Center returns the box center
func (o *Box) Center() Vec {
	return o.Lo.Add(o.Hi).Scale(0.5)
}

// Contains reports whether p lies inside the box (closed)
func (o *Box) Contains(p Vec) bool {
	for i := 0; i < 3; i++ {
		if p[i] < o.Lo[i] || p[i] > o.Hi[i] {
			return false
		}
	}
	return true
}

// SqrDist returns the squared distance from p to the box; zero if p is inside
func (o *Box) SqrDist(p Vec) float64 {
	d := 0.0
	for i := 0; i < 3; i++ {
		if p[i] < o.Lo[i] {
			e := o.Lo[i] - p[i]
			d += e * e
		} else if p[i] > o.Hi[i] {
			e := p[i] - o.Hi[i]
			d += e * e
		}
	}
	return d
}

// OverlapsSphere reports whether the sphere (c, r) intersects the box
func (o *Box) OverlapsSphere(c Vec, r float64) bool {
	return o.SqrDist(c) <= r*r
}
