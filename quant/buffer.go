// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package quant

import (
	"github.com/cpmech/gosl/chk"
	"github.com/xupeiwust/OpenSPH/geom"
)

// Buffer is one untyped view of a value or derivative array of a quantity.
// A buffer is either full (length == storage size) or empty (length zero,
// as produced by partial clones); it is never partially sized.
type Buffer interface {
	Type() ValueType     // value type of the elements
	Len() int            // number of elements
	Resize(n int)        // grows (zero-filling) or shrinks to n elements
	Clone() Buffer       // deep copy
	CloneEmpty() Buffer  // same type, zero length
	Zero()               // sets all elements to the type's zero
	Append(b Buffer)     // concatenates b (must have the same type)
	AppendZeros(n int)   // concatenates n zero elements
	Remove(idx []int)    // deletes elements at sorted indices, preserving order
	Gather(idx []int) Buffer // new buffer with the elements at idx, duplicates allowed
}

// newBuffer returns an empty buffer of the given type
func newBuffer(t ValueType) Buffer {
	switch t {
	case Scalar:
		return &scalarBuf{}
	case Vector:
		return &vecBuf{}
	case SymTensor, TracelessTensor:
		return &symTensBuf{typ: t}
	case DenseTensor:
		return &tensBuf{}
	case Index:
		return &indexBuf{}
	}
	chk.Panic("cannot allocate buffer of unknown type %d", int(t))
	return nil
}

// scalar buffer ///////////////////////////////////////////////////////////////

type scalarBuf struct {
	data []float64
}

func (o *scalarBuf) Type() ValueType { return Scalar }
func (o *scalarBuf) Len() int        { return len(o.data) }

func (o *scalarBuf) Resize(n int) {
	if n <= cap(o.data) {
		old := len(o.data)
		o.data = o.data[:n]
		for i := old; i < n; i++ {
			o.data[i] = 0
		}
		return
	}
	grown := make([]float64, n)
	copy(grown, o.data)
	o.data = grown
}

func (o *scalarBuf) Clone() Buffer {
	c := make([]float64, len(o.data))
	copy(c, o.data)
	return &scalarBuf{data: c}
}

func (o *scalarBuf) CloneEmpty() Buffer { return &scalarBuf{} }

func (o *scalarBuf) Zero() {
	for i := range o.data {
		o.data[i] = 0
	}
}

func (o *scalarBuf) Append(b Buffer) {
	o.data = append(o.data, b.(*scalarBuf).data...)
}

func (o *scalarBuf) AppendZeros(n int) {
	o.data = append(o.data, make([]float64, n)...)
}

func (o *scalarBuf) Remove(idx []int) {
	o.data = removeScalars(o.data, idx)
}

func removeScalars(data []float64, idx []int) []float64 {
	next := 0
	out := data[:0]
	for i := range data {
		if next < len(idx) && i == idx[next] {
			next++
			continue
		}
		out = append(out, data[i])
	}
	return out
}

// vector buffer ///////////////////////////////////////////////////////////////

type vecBuf struct {
	data []geom.Vec
}

func (o *vecBuf) Type() ValueType { return Vector }
func (o *vecBuf) Len() int        { return len(o.data) }

func (o *vecBuf) Resize(n int) {
	if n <= cap(o.data) {
		old := len(o.data)
		o.data = o.data[:n]
		for i := old; i < n; i++ {
			o.data[i] = geom.Vec{}
		}
		return
	}
	grown := make([]geom.Vec, n)
	copy(grown, o.data)
	o.data = grown
}

func (o *vecBuf) Clone() Buffer {
	c := make([]geom.Vec, len(o.data))
	copy(c, o.data)
	return &vecBuf{data: c}
}

func (o *vecBuf) CloneEmpty() Buffer { return &vecBuf{} }

func (o *vecBuf) Zero() {
	for i := range o.data {
		o.data[i] = geom.Vec{}
	}
}

func (o *vecBuf) Append(b Buffer) {
	o.data = append(o.data, b.(*vecBuf).data...)
}

func (o *vecBuf) AppendZeros(n int) {
	o.data = append(o.data, make([]geom.Vec, n)...)
}

func (o *vecBuf) Remove(idx []int) {
	next := 0
	out := o.data[:0]
	for i := range o.data {
		if next < len(idx) && i == idx[next] {
			next++
			continue
		}
		out = append(out, o.data[i])
	}
	o.data = out
}

// symmetric tensor buffer /////////////////////////////////////////////////////

type symTensBuf struct {
	typ  ValueType // SymTensor or TracelessTensor
	data []geom.SymTensor
}

func (o *symTensBuf) Type() ValueType { return o.typ }
func (o *symTensBuf) Len() int        { return len(o.data) }

func (o *symTensBuf) Resize(n int) {
	if n <= cap(o.data) {
		old := len(o.data)
		o.data = o.data[:n]
		for i := old; i < n; i++ {
			o.data[i] = geom.SymTensor{}
		}
		return
	}
	grown := make([]geom.SymTensor, n)
	copy(grown, o.data)
	o.data = grown
}

func (o *symTensBuf) Clone() Buffer {
	c := make([]geom.SymTensor, len(o.data))
	copy(c, o.data)
	return &symTensBuf{typ: o.typ, data: c}
}

func (o *symTensBuf) CloneEmpty() Buffer { return &symTensBuf{typ: o.typ} }

func (o *symTensBuf) Zero() {
	for i := range o.data {
		o.data[i] = geom.SymTensor{}
	}
}

func (o *symTensBuf) Append(b Buffer) {
	o.data = append(o.data, b.(*symTensBuf).data...)
}

func (o *symTensBuf) AppendZeros(n int) {
	o.data = append(o.data, make([]geom.SymTensor, n)...)
}

func (o *symTensBuf) Remove(idx []int) {
	next := 0
	out := o.data[:0]
	for i := range o.data {
		if next < len(idx) && i == idx[next] {
			next++
			continue
		}
		out = append(out, o.data[i])
	}
	o.data = out
}

// dense tensor buffer /////////////////////////////////////////////////////////

type tensBuf struct {
	data []geom.Mat3
}

func (o *tensBuf) Type() ValueType { return DenseTensor }
func (o *tensBuf) Len() int        { return len(o.data) }

func (o *tensBuf) Resize(n int) {
	if n <= cap(o.data) {
		old := len(o.data)
		o.data = o.data[:n]
		for i := old; i < n; i++ {
			o.data[i] = geom.Mat3{}
		}
		return
	}
	grown := make([]geom.Mat3, n)
	copy(grown, o.data)
	o.data = grown
}

func (o *tensBuf) Clone() Buffer {
	c := make([]geom.Mat3, len(o.data))
	copy(c, o.data)
	return &tensBuf{data: c}
}

func (o *tensBuf) CloneEmpty() Buffer { return &tensBuf{} }

func (o *tensBuf) Zero() {
	for i := range o.data {
		o.data[i] = geom.Mat3{}
	}
}

func (o *tensBuf) Append(b Buffer) {
	o.data = append(o.data, b.(*tensBuf).data...)
}

func (o *tensBuf) AppendZeros(n int) {
	o.data = append(o.data, make([]geom.Mat3, n)...)
}

func (o *tensBuf) Remove(idx []int) {
	next := 0
	out := o.data[:0]
	for i := range o.data {
		if next < len(idx) && i == idx[next] {
			next++
			continue
		}
		out = append(out, o.data[i])
	}
	o.data = out
}

// index buffer ////////////////////////////////////////////////////////////////

type indexBuf struct {
	data []int
}

func (o *indexBuf) Type() ValueType { return Index }
func (o *indexBuf) Len() int        { return len(o.data) }

func (o *indexBuf) Resize(n int) {
	if n <= cap(o.data) {
		old := len(o.data)
		o.data = o.data[:n]
		for i := old; i < n; i++ {
			o.data[i] = 0
		}
		return
	}
	grown := make([]int, n)
	copy(grown, o.data)
	o.data = grown
}

func (o *indexBuf) Clone() Buffer {
	c := make([]int, len(o.data))
	copy(c, o.data)
	return &indexBuf{data: c}
}

func (o *indexBuf) CloneEmpty() Buffer { return &indexBuf{} }

func (o *indexBuf) Zero() {
	for i := range o.data {
		o.data[i] = 0
	}
}

func (o *indexBuf) Append(b Buffer) {
	o.data = append(o.data, b.(*indexBuf).data...)
}

func (o *indexBuf) AppendZeros(n int) {
	o.data = append(o.data, make([]int, n)...)
}

func (o *indexBuf) Remove(idx []int) {
	next := 0
	out := o.data[:0]
	for i := range o.data {
		if next < len(idx) && i == idx[next] {
			next++
			continue
		}
		out = append(out, o.data[i])
	}
	o.data = out
}

// gather implementations /////////////////////////////////////////////////////

func (o *scalarBuf) Gather(idx []int) Buffer {
	c := make([]float64, len(idx))
	for k, i := range idx {
		c[k] = o.data[i]
	}
	return &scalarBuf{data: c}
}

func (o *vecBuf) Gather(idx []int) Buffer {
	c := make([]geom.Vec, len(idx))
	for k, i := range idx {
		c[k] = o.data[i]
	}
	return &vecBuf{data: c}
}

func (o *symTensBuf) Gather(idx []int) Buffer {
	c := make([]geom.SymTensor, len(idx))
	for k, i := range idx {
		c[k] = o.data[i]
	}
	return &symTensBuf{typ: o.typ, data: c}
}

func (o *tensBuf) Gather(idx []int) Buffer {
	c := make([]geom.Mat3, len(idx))
	for k, i := range idx {
		c[k] = o.data[i]
	}
	return &tensBuf{data: c}
}

func (o *indexBuf) Gather(idx []int) Buffer {
	c := make([]int, len(idx))
	for k, i := range idx {
		c[k] = o.data[i]
	}
	return &indexBuf{data: c}
}
