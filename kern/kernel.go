// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package kern implements SPH smoothing kernels. Kernels are precomputed into
// lookup tables over [0, R]; evaluation interpolates linearly. Symmetrized
// variants average the smoothing lengths of the two particles.
package kern

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/xupeiwust/OpenSPH/geom"
)

// LutSize is the number of lookup table intervals; each table holds
// LutSize+1 samples
const LutSize = 10000

// Kernel holds one smoothing kernel as a pair of lookup tables: the
// dimensionless value w(q) and the stable gradient ratio w'(q)/q, with
// q = |r|/h. Physical values scale as W = w(q)/h³ and ∇W = r·w'(q)/(q·h⁵).
type Kernel struct {
	name   string    // kernel name
	radius float64   // support radius in units of h
	wLut   []float64 // w(q) samples
	gLut   []float64 // w'(q)/q samples
}

// build fills the lookup tables from closed-form value and gradient-ratio
// functions; gradRatio must return w'(q)/q
func build(name string, radius float64, value, gradRatio func(q float64) float64) *Kernel {
	o := &Kernel{
		name:   name,
		radius: radius,
		wLut:   make([]float64, LutSize+1),
		gLut:   make([]float64, LutSize+1),
	}
	dq := radius / float64(LutSize)
	for i := 0; i <= LutSize; i++ {
		q := float64(i) * dq
		o.wLut[i] = value(q)
		o.gLut[i] = gradRatio(q)
	}
	// compact support exactly
	o.wLut[LutSize] = 0
	o.gLut[LutSize] = 0
	return o
}

// normalize scales the tables so that 4π ∫ w(q) q² dq = 1 within the table
// discretization
func (o *Kernel) normalize() {
	dq := o.radius / float64(LutSize)
	sum := 0.0
	for i := 1; i <= LutSize; i++ {
		qa := float64(i-1) * dq
		qb := float64(i) * dq
		sum += 0.5 * (o.wLut[i-1]*qa*qa + o.wLut[i]*qb*qb) * dq
	}
	n := 1.0 / (4.0 * math.Pi * sum)
	for i := range o.wLut {
		o.wLut[i] *= n
		o.gLut[i] *= n
	}
}

// Name returns the kernel name
func (o *Kernel) Name() string { return o.name }

// Radius returns the support radius in units of h
func (o *Kernel) Radius() float64 { return o.radius }

// lookup interpolates a table at q; zero outside the support
func (o *Kernel) lookup(lut []float64, q float64) float64 {
	if q >= o.radius || q < 0 {
		return 0
	}
	x := q / o.radius * float64(LutSize)
	i := int(x)
	if i >= LutSize {
		return 0
	}
	f := x - float64(i)
	return lut[i]*(1.0-f) + lut[i+1]*f
}

// ValueQ returns the dimensionless kernel value w(q)
func (o *Kernel) ValueQ(q float64) float64 {
	return o.lookup(o.wLut, q)
}

// GradQ returns the dimensionless gradient ratio w'(q)/q
func (o *Kernel) GradQ(q float64) float64 {
	return o.lookup(o.gLut, q)
}

// Value returns W(|r|, h) = w(q)/h³
func (o *Kernel) Value(rLen, h float64) float64 {
	return o.lookup(o.wLut, rLen/h) / (h * h * h)
}

// GradFactor returns the scalar f such that ∇W = r_vec · f
func (o *Kernel) GradFactor(rLen, h float64) float64 {
	h2 := h * h
	return o.lookup(o.gLut, rLen/h) / (h2 * h2 * h)
}

// symmetrized evaluation ////////////////////////////////////////////////////

// symH returns the averaged smoothing length of two particles
func symH(a, b geom.Vec) float64 {
	return 0.5 * (a.H() + b.H())
}

// SymValue returns the kernel value for the pair (a, b) using the averaged
// smoothing length
func (o *Kernel) SymValue(a, b geom.Vec) float64 {
	return o.Value(a.Sub(b).Len(), symH(a, b))
}

// SymGrad returns the kernel gradient ∇_a W for the pair (a, b) using the
// averaged smoothing length
func (o *Kernel) SymGrad(a, b geom.Vec) geom.Vec {
	d := a.Sub(b)
	return d.Scale(o.GradFactor(d.Len(), symH(a, b))).WithH(0)
}

// SupportRadius returns the physical interaction radius of the pair (a, b)
func (o *Kernel) SupportRadius(a, b geom.Vec) float64 {
	return o.radius * symH(a, b)
}

// registry //////////////////////////////////////////////////////////////////

// New returns a kernel by name
func New(name string) (*Kernel, error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("kernel %q is not available in database", name)
	}
	return allocator(), nil
}

// MustNew returns a kernel by name; panics on unknown names
func MustNew(name string) *Kernel {
	k, err := New(name)
	if err != nil {
		chk.Panic("%v", err)
	}
	return k
}

// allocators holds all available kernels; kernelname => allocator
var allocators = map[string]func() *Kernel{}
