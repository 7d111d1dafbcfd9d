// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package deriv implements the derivative layer of the SPH solvers: named
// per-thread accumulator buffers merged deterministically, and the equation
// terms writing them
package deriv

import (
	"github.com/cpmech/gosl/chk"
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/quant"
)

// BufSource describes who writes an accumulator buffer
type BufSource int

const (
	Unique BufSource = iota // a single term owns the buffer
	Shared                  // multiple terms add into the buffer
)

// accBuffer holds one accumulated quantity with per-thread copies
type accBuffer struct {
	id     quant.Id
	typ    quant.ValueType
	order  quant.Order
	source BufSource
	scal   [][]float64
	vec    [][]geom.Vec
	sym    [][]geom.SymTensor
}

// Accumulated is the set of thread-local output buffers of one derivative
// sweep. Each thread writes only its own copy; Sum reduces across threads in
// thread index order, which makes repeated runs bitwise identical at a fixed
// thread count.
type Accumulated struct {
	nthreads int
	n        int
	bufs     []*accBuffer
	index    map[quant.Id]*accBuffer
}

// NewAccumulated returns an accumulator set for the given number of threads
func NewAccumulated(nthreads int) *Accumulated {
	return &Accumulated{
		nthreads: nthreads,
		index:    make(map[quant.Id]*accBuffer),
	}
}

// insert registers a buffer; double insertion is allowed for Shared buffers
// and a programmer error for Unique ones
func (o *Accumulated) insert(id quant.Id, typ quant.ValueType, order quant.Order, source BufSource) {
	if b, ok := o.index[id]; ok {
		if b.source == Unique || source == Unique {
			chk.Panic("accumulator %q is unique but written by multiple terms", quant.Name(id))
		}
		if b.typ != typ || b.order != order {
			chk.Panic("accumulator %q re-registered with different type or order", quant.Name(id))
		}
		return
	}
	b := &accBuffer{id: id, typ: typ, order: order, source: source}
	switch typ {
	case quant.Scalar:
		b.scal = make([][]float64, o.nthreads)
	case quant.Vector:
		b.vec = make([][]geom.Vec, o.nthreads)
	case quant.SymTensor, quant.TracelessTensor:
		b.sym = make([][]geom.SymTensor, o.nthreads)
	default:
		chk.Panic("accumulator %q has unsupported type %v", quant.Name(id), typ)
	}
	o.bufs = append(o.bufs, b)
	o.index[id] = b
}

// InsertScalar registers a scalar accumulator
func (o *Accumulated) InsertScalar(id quant.Id, order quant.Order, source BufSource) {
	o.insert(id, quant.Scalar, order, source)
}

// InsertVec registers a vector accumulator
func (o *Accumulated) InsertVec(id quant.Id, order quant.Order, source BufSource) {
	o.insert(id, quant.Vector, order, source)
}

// InsertSymTens registers a symmetric tensor accumulator
func (o *Accumulated) InsertSymTens(id quant.Id, order quant.Order, source BufSource) {
	o.insert(id, quant.SymTensor, order, source)
}

// Resize grows all per-thread buffers to n particles and zeroes them; called
// at the start of every derivative sweep
func (o *Accumulated) Resize(n int) {
	o.n = n
	for _, b := range o.bufs {
		for w := 0; w < o.nthreads; w++ {
			switch b.typ {
			case quant.Scalar:
				if len(b.scal[w]) != n {
					b.scal[w] = make([]float64, n)
				} else {
					for i := range b.scal[w] {
						b.scal[w][i] = 0
					}
				}
			case quant.Vector:
				if len(b.vec[w]) != n {
					b.vec[w] = make([]geom.Vec, n)
				} else {
					for i := range b.vec[w] {
						b.vec[w][i] = geom.Vec{}
					}
				}
			default:
				if len(b.sym[w]) != n {
					b.sym[w] = make([]geom.SymTensor, n)
				} else {
					for i := range b.sym[w] {
						b.sym[w][i] = geom.SymTensor{}
					}
				}
			}
		}
	}
}

// buffer returns the registered buffer of an id
func (o *Accumulated) buffer(id quant.Id) *accBuffer {
	b, ok := o.index[id]
	if !ok {
		chk.Panic("accumulator %q was not registered", quant.Name(id))
	}
	return b
}

// ScalarBuf returns the scalar buffer of a thread
func (o *Accumulated) ScalarBuf(thread int, id quant.Id) []float64 {
	return o.buffer(id).scal[thread]
}

// VecBuf returns the vector buffer of a thread
func (o *Accumulated) VecBuf(thread int, id quant.Id) []geom.Vec {
	return o.buffer(id).vec[thread]
}

// SymBuf returns the symmetric tensor buffer of a thread
func (o *Accumulated) SymBuf(thread int, id quant.Id) []geom.SymTensor {
	return o.buffer(id).sym[thread]
}

// Sum reduces all buffers into the thread-0 copy, adding threads in index
// order
func (o *Accumulated) Sum() {
	for _, b := range o.bufs {
		for w := 1; w < o.nthreads; w++ {
			switch b.typ {
			case quant.Scalar:
				dst, src := b.scal[0], b.scal[w]
				for i := range dst {
					dst[i] += src[i]
				}
			case quant.Vector:
				dst, src := b.vec[0], b.vec[w]
				for i := range dst {
					dst[i] = dst[i].Add(src[i])
				}
			default:
				dst, src := b.sym[0], b.sym[w]
				for i := range dst {
					dst[i] = dst[i].Add(src[i])
				}
			}
		}
	}
}

// Store writes the reduced results into the storage: zero-order buffers
// overwrite values, higher orders overwrite the highest derivative. Missing
// quantities are created.
func (o *Accumulated) Store(s *quant.Storage) {
	for _, b := range o.bufs {
		switch b.typ {
		case quant.Scalar:
			if !s.Has(b.id) {
				s.InsertScalar(b.id, b.order, 0)
			}
			var dst []float64
			switch b.order {
			case quant.OrderZero:
				dst = s.Scalar(b.id)
			case quant.OrderFirst:
				dst = s.ScalarDt(b.id)
			default:
				dst = s.ScalarD2t(b.id)
			}
			copy(dst, b.scal[0])
		case quant.Vector:
			if !s.Has(b.id) {
				s.InsertVec(b.id, b.order, geom.Vec{})
			}
			var dst []geom.Vec
			switch b.order {
			case quant.OrderZero:
				dst = s.Vec(b.id)
			case quant.OrderFirst:
				dst = s.VecDt(b.id)
			default:
				dst = s.VecD2t(b.id)
			}
			// keep the fourth lane: it carries the smoothing length (values)
			// or its derivative (velocities)
			for i := range dst {
				h := dst[i][3]
				dst[i] = b.vec[0][i]
				dst[i][3] = h
			}
		default:
			if !s.Has(b.id) {
				s.InsertSymTens(b.id, b.order, geom.SymTensor{})
			}
			var dst []geom.SymTensor
			if b.order == quant.OrderZero {
				dst = s.SymTens(b.id)
			} else {
				dst = s.SymTensDt(b.id)
			}
			copy(dst, b.sym[0])
		}
	}
}
