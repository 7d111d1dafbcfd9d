// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kern

import "math"

// GravityKernel softens point-mass gravity inside the support of an SPH
// kernel: the attracting mass is reduced to the fraction enclosed within the
// separation. Outside the support it reduces to Newtonian point gravity.
type GravityKernel struct {
	radius float64   // support radius in units of h
	mLut   []float64 // enclosed mass fraction M(q)
}

// NewGravityKernel derives the softening kernel from an SPH kernel by
// integrating the enclosed mass fraction M(q) = 4π ∫ w(s) s² ds
func NewGravityKernel(k *Kernel) *GravityKernel {
	o := &GravityKernel{
		radius: k.radius,
		mLut:   make([]float64, LutSize+1),
	}
	dq := k.radius / float64(LutSize)
	sum := 0.0
	o.mLut[0] = 0
	for i := 1; i <= LutSize; i++ {
		qa := float64(i-1) * dq
		qb := float64(i) * dq
		sum += 0.5 * (k.wLut[i-1]*qa*qa + k.wLut[i]*qb*qb) * dq
		o.mLut[i] = 4.0 * math.Pi * sum
	}
	// the kernel integrates to one; force the boundary exactly so the
	// softened field joins the point-mass field continuously
	norm := o.mLut[LutSize]
	for i := range o.mLut {
		o.mLut[i] /= norm
	}
	return o
}

// Radius returns the support radius in units of h
func (o *GravityKernel) Radius() float64 { return o.radius }

// AccFactor returns the scalar f such that the acceleration towards a unit
// mass at separation d is d_vec · f; equals 1/|d|³ outside the support
func (o *GravityKernel) AccFactor(dLen, h float64) float64 {
	if dLen >= o.radius*h {
		return 1.0 / (dLen * dLen * dLen)
	}
	if dLen == 0 {
		return 0
	}
	q := dLen / h
	x := q / o.radius * float64(LutSize)
	i := int(x)
	f := x - float64(i)
	var m float64
	if i >= LutSize {
		m = 1
	} else {
		m = o.mLut[i]*(1.0-f) + o.mLut[i+1]*f
	}
	return m / (dLen * dLen * dLen)
}
