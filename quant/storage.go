// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package quant

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/xupeiwust/OpenSPH/geom"
)

// Material defines the strategies bound to a sub-range of particles: the
// equation of state and rheology closures plus a parameter bag. Concrete
// materials live in the inp package.
type Material interface {
	Create(s *Storage, from, to int)     // ensures required columns exist; called once before the first step
	Initialize(s *Storage, from, to int) // updates pressure/sound speed before derivative evaluation
	Finalize(s *Storage, from, to int)   // applies rheology after derivative evaluation
	Param(name string) float64           // parameter lookup; panics on unknown names
}

// MatRange binds a material to a contiguous particle sub-range [From, To)
type MatRange struct {
	From int      // first particle index
	To   int      // one-past-last particle index
	Mat  Material // bound material
}

// Storage is an ordered mapping from quantity ids to quantities, all holding
// the same number of particles, partitioned into contiguous material ranges.
// Dependent storages (shadow copies held by predictor-corrector) are kept
// size-consistent through Propagate.
type Storage struct {
	n        int               // particle count
	ids      []Id              // quantity ids in declaration order
	quants   map[Id]*Quantity  // id => quantity
	mats     []*MatRange       // material ranges partitioning [0, n)
	deps     []*Storage        // dependent storages
	nextFlag int               // next body flag handed out by AddBody
}

// NewStorage returns an empty storage
func NewStorage() *Storage {
	return &Storage{quants: make(map[Id]*Quantity)}
}

// Size returns the particle count
func (o *Storage) Size() int { return o.n }

// QuantityCnt returns the number of stored quantities
func (o *Storage) QuantityCnt() int { return len(o.ids) }

// Ids returns the quantity ids in declaration order
func (o *Storage) Ids() []Id { return o.ids }

// Has reports whether the storage holds the given quantity
func (o *Storage) Has(id Id) bool {
	_, ok := o.quants[id]
	return ok
}

// Quantity returns the quantity of the given id; panics if missing
func (o *Storage) Quantity(id Id) *Quantity {
	q, ok := o.quants[id]
	if !ok {
		chk.Panic("storage has no quantity %q", Name(id))
	}
	return q
}

// insert ////////////////////////////////////////////////////////////////////

// insert creates a quantity or extends the order of an existing one. It
// panics when the id already exists with a different type; inserting with a
// lower order than present is a no-op on the order. The returned flag
// reports whether the quantity is new: re-inserting never clobbers existing
// values.
func (o *Storage) insert(id Id, t ValueType, order Order) (*Quantity, bool) {
	if q, ok := o.quants[id]; ok {
		if q.typ != t {
			chk.Panic("quantity %q already exists with type %v; cannot insert as %v", Name(id), q.typ, t)
		}
		q.extendOrder(order, o.n)
		return q, false
	}
	if m := Meta(id); m.Type != t {
		chk.Panic("quantity %q must have type %v", m.Name, m.Type)
	}
	q := newQuantity(t, order, o.n)
	o.quants[id] = q
	o.ids = append(o.ids, id)
	return q, true
}

// InsertScalar creates a scalar quantity initialized to init
func (o *Storage) InsertScalar(id Id, order Order, init float64) {
	q, created := o.insert(id, Scalar, order)
	if !created {
		return
	}
	data := q.bufs[0].(*scalarBuf).data
	for i := range data {
		data[i] = init
	}
}

// InsertScalarData creates a scalar quantity taking ownership of data; the
// data length must match the storage size (or define it when first)
func (o *Storage) InsertScalarData(id Id, order Order, data []float64) {
	o.adoptSize(len(data))
	q, _ := o.insert(id, Scalar, order)
	q.bufs[0].(*scalarBuf).data = data
}

// InsertVec creates a vector quantity initialized to init
func (o *Storage) InsertVec(id Id, order Order, init geom.Vec) {
	q, created := o.insert(id, Vector, order)
	if !created {
		return
	}
	data := q.bufs[0].(*vecBuf).data
	for i := range data {
		data[i] = init
	}
}

// InsertVecData creates a vector quantity taking ownership of data
func (o *Storage) InsertVecData(id Id, order Order, data []geom.Vec) {
	o.adoptSize(len(data))
	q, _ := o.insert(id, Vector, order)
	q.bufs[0].(*vecBuf).data = data
}

// InsertSymTens creates a symmetric tensor quantity initialized to init
func (o *Storage) InsertSymTens(id Id, order Order, init geom.SymTensor) {
	q, created := o.insert(id, SymTensor, order)
	if !created {
		return
	}
	data := q.bufs[0].(*symTensBuf).data
	for i := range data {
		data[i] = init
	}
}

// InsertTraceless creates a traceless tensor quantity initialized to init
func (o *Storage) InsertTraceless(id Id, order Order, init geom.SymTensor) {
	q, created := o.insert(id, TracelessTensor, order)
	if !created {
		return
	}
	data := q.bufs[0].(*symTensBuf).data
	for i := range data {
		data[i] = init
	}
}

// InsertTens creates a dense tensor quantity initialized to init
func (o *Storage) InsertTens(id Id, order Order, init geom.Mat3) {
	q, created := o.insert(id, DenseTensor, order)
	if !created {
		return
	}
	data := q.bufs[0].(*tensBuf).data
	for i := range data {
		data[i] = init
	}
}

// InsertIndex creates an index quantity initialized to init
func (o *Storage) InsertIndex(id Id, order Order, init int) {
	q, created := o.insert(id, Index, order)
	if !created {
		return
	}
	data := q.bufs[0].(*indexBuf).data
	for i := range data {
		data[i] = init
	}
}

// adoptSize sets the particle count from the first inserted data column
func (o *Storage) adoptSize(n int) {
	if len(o.ids) == 0 {
		o.n = n
		return
	}
	if n != o.n {
		chk.Panic("data length %d does not match storage size %d", n, o.n)
	}
}

// SetRange sets the allowed interval and minimal scale of a quantity
func (o *Storage) SetRange(id Id, rng geom.Interval, minimal float64) {
	o.Quantity(id).SetRange(rng, minimal)
}

// typed views ///////////////////////////////////////////////////////////////

func (o *Storage) scalarLevel(id Id, lv int) []float64 {
	q := o.Quantity(id)
	if q.typ != Scalar {
		chk.Panic("quantity %q is %v, not scalar", Name(id), q.typ)
	}
	return q.Buffer(lv).(*scalarBuf).data
}

// Scalar returns the value buffer of a scalar quantity
func (o *Storage) Scalar(id Id) []float64 { return o.scalarLevel(id, 0) }

// ScalarDt returns the first-derivative buffer of a scalar quantity
func (o *Storage) ScalarDt(id Id) []float64 { return o.scalarLevel(id, 1) }

// ScalarD2t returns the second-derivative buffer of a scalar quantity
func (o *Storage) ScalarD2t(id Id) []float64 { return o.scalarLevel(id, 2) }

func (o *Storage) vecLevel(id Id, lv int) []geom.Vec {
	q := o.Quantity(id)
	if q.typ != Vector {
		chk.Panic("quantity %q is %v, not vector", Name(id), q.typ)
	}
	return q.Buffer(lv).(*vecBuf).data
}

// Vec returns the value buffer of a vector quantity
func (o *Storage) Vec(id Id) []geom.Vec { return o.vecLevel(id, 0) }

// VecDt returns the first-derivative buffer of a vector quantity
func (o *Storage) VecDt(id Id) []geom.Vec { return o.vecLevel(id, 1) }

// VecD2t returns the second-derivative buffer of a vector quantity
func (o *Storage) VecD2t(id Id) []geom.Vec { return o.vecLevel(id, 2) }

func (o *Storage) symLevel(id Id, lv int) []geom.SymTensor {
	q := o.Quantity(id)
	if q.typ != SymTensor && q.typ != TracelessTensor {
		chk.Panic("quantity %q is %v, not a symmetric tensor", Name(id), q.typ)
	}
	return q.Buffer(lv).(*symTensBuf).data
}

// SymTens returns the value buffer of a (traceless) symmetric tensor quantity
func (o *Storage) SymTens(id Id) []geom.SymTensor { return o.symLevel(id, 0) }

// SymTensDt returns the first-derivative buffer of a symmetric tensor quantity
func (o *Storage) SymTensDt(id Id) []geom.SymTensor { return o.symLevel(id, 1) }

// Tens returns the value buffer of a dense tensor quantity
func (o *Storage) Tens(id Id) []geom.Mat3 {
	q := o.Quantity(id)
	if q.typ != DenseTensor {
		chk.Panic("quantity %q is %v, not a dense tensor", Name(id), q.typ)
	}
	return q.Buffer(0).(*tensBuf).data
}

// Index returns the value buffer of an index quantity
func (o *Storage) Index(id Id) []int {
	q := o.Quantity(id)
	if q.typ != Index {
		chk.Panic("quantity %q is %v, not index", Name(id), q.typ)
	}
	return q.Buffer(0).(*indexBuf).data
}

// structural operations /////////////////////////////////////////////////////

// Resize sets the particle count. Buffers emptied by a partial clone stay
// empty unless growEmpty is set.
func (o *Storage) Resize(n int, growEmpty bool) {
	for _, id := range o.ids {
		o.quants[id].resize(n, growEmpty)
	}
	o.n = n
	if len(o.mats) > 0 {
		last := o.mats[len(o.mats)-1]
		if last.To > n {
			chk.Panic("cannot resize below the material partition (%d < %d)", n, last.To)
		}
		last.To = n
	}
}

// Clone returns a new storage with the selected buffers deep-copied;
// unselected buffers are allocated empty. Material ranges are shared.
func (o *Storage) Clone(flags CloneFlag) *Storage {
	c := NewStorage()
	c.n = o.n
	c.nextFlag = o.nextFlag
	for _, id := range o.ids {
		c.ids = append(c.ids, id)
		c.quants[id] = o.quants[id].clone(flags)
	}
	for _, mr := range o.mats {
		c.mats = append(c.mats, &MatRange{From: mr.From, To: mr.To, Mat: mr.Mat})
	}
	return c
}

// Swap exchanges the selected buffers with another storage holding the same
// quantities
func (o *Storage) Swap(other *Storage, flags CloneFlag) {
	if len(o.ids) != len(other.ids) {
		chk.Panic("cannot swap storages with different quantities")
	}
	for _, id := range o.ids {
		o.quants[id].swap(other.Quantity(id), flags)
	}
	o.n, other.n = other.n, o.n
}

// Merge appends all particles of another storage. Quantities present in only
// one side are zero-filled on the other. Material ranges are shifted and
// appended.
func (o *Storage) Merge(other *Storage) {
	oldN := o.n
	// quantities missing here are created empty with the other's type/order
	for _, id := range other.ids {
		oq := other.quants[id]
		if !o.Has(id) {
			q := newQuantity(oq.typ, oq.order, oldN)
			o.quants[id] = q
			o.ids = append(o.ids, id)
		} else {
			q := o.quants[id]
			if q.typ != oq.typ {
				chk.Panic("cannot merge: quantity %q has type %v here and %v there", Name(id), q.typ, oq.typ)
			}
			q.extendOrder(oq.order, oldN)
		}
	}
	for _, id := range o.ids {
		q := o.quants[id]
		for lv := 0; lv <= int(q.order); lv++ {
			var ob Buffer
			if other.Has(id) && lv <= other.quants[id].HighestLevel() {
				ob = other.quants[id].bufs[lv]
			}
			// buffers emptied by a partial clone count as missing and are
			// zero-filled on either side; two missing sides stay empty
			if q.bufs[lv].Len() == 0 {
				if ob == nil || ob.Len() == 0 {
					continue
				}
				q.bufs[lv].AppendZeros(oldN)
			}
			if ob != nil && ob.Len() > 0 {
				q.bufs[lv].Append(ob)
			} else {
				q.bufs[lv].AppendZeros(other.n)
			}
		}
	}
	for _, mr := range other.mats {
		o.mats = append(o.mats, &MatRange{From: mr.From + oldN, To: mr.To + oldN, Mat: mr.Mat})
	}
	o.n += other.n
	if other.nextFlag > o.nextFlag {
		o.nextFlag = other.nextFlag
	}
}

// Remove deletes the given particles, preserving the order of the remaining
// ones. Material ranges are recomputed; emptied materials are dropped.
func (o *Storage) Remove(indices []int) {
	if len(indices) == 0 {
		return
	}
	idx := append([]int(nil), indices...)
	sort.Ints(idx)
	for _, id := range o.ids {
		q := o.quants[id]
		for lv := 0; lv <= int(q.order); lv++ {
			if q.bufs[lv].Len() > 0 {
				q.bufs[lv].Remove(idx)
			}
		}
	}
	// re-range materials: count removed indices below each boundary
	var kept []*MatRange
	for _, mr := range o.mats {
		from := mr.From - countBelow(idx, mr.From)
		to := mr.To - countBelow(idx, mr.To)
		if to > from {
			kept = append(kept, &MatRange{From: from, To: to, Mat: mr.Mat})
		}
	}
	o.mats = kept
	o.n -= len(idx)
}

// countBelow returns the number of sorted indices strictly below x
func countBelow(idx []int, x int) int {
	return sort.SearchInts(idx, x)
}

// Gather returns a new storage holding the particles at the given indices in
// order; duplicates are allowed. Buffers emptied by a partial clone stay
// empty; material ranges are not carried over.
func (o *Storage) Gather(indices []int) *Storage {
	c := NewStorage()
	c.n = len(indices)
	c.nextFlag = o.nextFlag
	for _, id := range o.ids {
		q := o.quants[id]
		g := &Quantity{typ: q.typ, order: q.order, rng: q.rng, minimal: q.minimal}
		for lv := 0; lv <= int(q.order); lv++ {
			if q.bufs[lv].Len() > 0 {
				g.bufs[lv] = q.bufs[lv].Gather(indices)
			} else {
				g.bufs[lv] = q.bufs[lv].CloneEmpty()
			}
		}
		c.ids = append(c.ids, id)
		c.quants[id] = g
	}
	return c
}

// materials /////////////////////////////////////////////////////////////////

// AddMaterialRange binds a material to the count particles most recently
// appended to the storage
func (o *Storage) AddMaterialRange(mat Material, count int) {
	from := o.n - count
	if len(o.mats) > 0 && o.mats[len(o.mats)-1].To != from {
		chk.Panic("material ranges must partition the storage contiguously")
	}
	if len(o.mats) == 0 && from != 0 {
		chk.Panic("first material range must start at particle 0")
	}
	o.mats = append(o.mats, &MatRange{From: from, To: o.n, Mat: mat})
}

// Materials returns the material ranges in index order
func (o *Storage) Materials() []*MatRange { return o.mats }

// MaterialOf returns the material of particle i in O(log M)
func (o *Storage) MaterialOf(i int) Material {
	lo, hi := 0, len(o.mats)
	for lo < hi {
		mid := (lo + hi) / 2
		if i >= o.mats[mid].To {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == len(o.mats) || i < o.mats[lo].From {
		chk.Panic("particle %d belongs to no material range", i)
	}
	return o.mats[lo].Mat
}

// dependent storages ////////////////////////////////////////////////////////

// AddDependent registers a dependent storage kept size-consistent by
// Propagate
func (o *Storage) AddDependent(s *Storage) {
	o.deps = append(o.deps, s)
}

// Propagate applies fn to every dependent storage in the chain
func (o *Storage) Propagate(fn func(*Storage)) {
	for _, d := range o.deps {
		fn(d)
		d.Propagate(fn)
	}
}

// helpers ///////////////////////////////////////////////////////////////////

// ZeroHighestDerivatives clears the highest derivative buffer of every
// first- and second-order quantity
func (o *Storage) ZeroHighestDerivatives() {
	for _, id := range o.ids {
		q := o.quants[id]
		if q.order > OrderZero {
			q.bufs[q.HighestLevel()].Zero()
		}
	}
}

// NextBodyFlag returns a fresh body flag value
func (o *Storage) NextBodyFlag() int {
	f := o.nextFlag
	o.nextFlag++
	return f
}
