// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package quant

import (
	"github.com/cpmech/gosl/chk"
	"github.com/xupeiwust/OpenSPH/geom"
)

// CloneFlag selects which derivative levels a clone copies
type CloneFlag int

const (
	CloneValues    CloneFlag = 1 << iota // value buffers
	CloneFirstDt                         // first derivatives
	CloneSecondDt                        // second derivatives
	CloneHighestDt                       // highest derivative of each quantity
	CloneAll       = CloneValues | CloneFirstDt | CloneSecondDt
)

// Has reports whether f contains flag g
func (f CloneFlag) Has(g CloneFlag) bool { return f&g != 0 }

// Quantity holds one named column of the storage: a value buffer and up to
// two derivative buffers, all of the same length. Only the highest derivative
// is written by derivative evaluators; integrators update the lower levels.
type Quantity struct {
	typ     ValueType     // value type of all buffers
	order   Order         // number of derivative levels
	bufs    [3]Buffer     // value, dt, d2t; nil above order
	rng     geom.Interval // allowed interval; scalar quantities only
	minimal float64       // minimal scale for the derivative criterion
}

// newQuantity allocates a quantity of the given type and order with n zero
// elements in each buffer
func newQuantity(t ValueType, order Order, n int) *Quantity {
	o := &Quantity{typ: t, order: order, rng: geom.Unbounded()}
	for lv := 0; lv <= int(order); lv++ {
		o.bufs[lv] = newBuffer(t)
		o.bufs[lv].Resize(n)
	}
	return o
}

// Type returns the value type
func (o *Quantity) Type() ValueType { return o.typ }

// Order returns the derivative order
func (o *Quantity) Order() Order { return o.order }

// Range returns the allowed interval of the values
func (o *Quantity) Range() geom.Interval { return o.rng }

// MinimalScale returns the minimal scale used by the derivative criterion
func (o *Quantity) MinimalScale() float64 { return o.minimal }

// SetRange sets the allowed interval and minimal scale
func (o *Quantity) SetRange(rng geom.Interval, minimal float64) {
	o.rng = rng
	o.minimal = minimal
}

// Buffer returns the buffer of derivative level lv; panics if lv exceeds the
// order
func (o *Quantity) Buffer(lv int) Buffer {
	if lv > int(o.order) {
		chk.Panic("quantity of order %d has no derivative level %d", int(o.order), lv)
	}
	return o.bufs[lv]
}

// HighestLevel returns the index of the highest derivative level
func (o *Quantity) HighestLevel() int { return int(o.order) }

// extendOrder raises the order, allocating missing derivative buffers with n
// zero elements
func (o *Quantity) extendOrder(order Order, n int) {
	for lv := int(o.order) + 1; lv <= int(order); lv++ {
		o.bufs[lv] = newBuffer(o.typ)
		o.bufs[lv].Resize(n)
	}
	if order > o.order {
		o.order = order
	}
}

// selected reports whether level lv of this quantity is selected by flags
func (o *Quantity) selected(lv int, flags CloneFlag) bool {
	if flags.Has(CloneHighestDt) && lv == int(o.order) {
		return true
	}
	switch lv {
	case 0:
		return flags.Has(CloneValues)
	case 1:
		return flags.Has(CloneFirstDt)
	default:
		return flags.Has(CloneSecondDt)
	}
}

// clone copies the selected levels deeply; unselected buffers are allocated
// with length zero
func (o *Quantity) clone(flags CloneFlag) *Quantity {
	c := &Quantity{typ: o.typ, order: o.order, rng: o.rng, minimal: o.minimal}
	for lv := 0; lv <= int(o.order); lv++ {
		if o.selected(lv, flags) {
			c.bufs[lv] = o.bufs[lv].Clone()
		} else {
			c.bufs[lv] = o.bufs[lv].CloneEmpty()
		}
	}
	return c
}

// swap exchanges the selected buffers with another quantity of the same type
// and order
func (o *Quantity) swap(other *Quantity, flags CloneFlag) {
	if o.typ != other.typ || o.order != other.order {
		chk.Panic("cannot swap quantities of different type or order")
	}
	for lv := 0; lv <= int(o.order); lv++ {
		if o.selected(lv, flags) {
			o.bufs[lv], other.bufs[lv] = other.bufs[lv], o.bufs[lv]
		}
	}
}

// resize sets all non-empty buffers to n elements; with growEmpty, empty
// buffers are grown as well
func (o *Quantity) resize(n int, growEmpty bool) {
	for lv := 0; lv <= int(o.order); lv++ {
		if o.bufs[lv].Len() > 0 || growEmpty {
			o.bufs[lv].Resize(n)
		}
	}
}
