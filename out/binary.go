// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements the state dumps: a self-describing fixed-endian
// binary container, a human-readable text dump and the gob-encoded run
// summary
package out

import (
	"encoding/binary"
	goio "io"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/quant"
)

// Magic opens every binary dump
const Magic = "SPHDUMP1"

// Version is the current binary format version; readers reject dumps with a
// version they do not know
const Version int64 = 1

// RunType tags the phase that produced a dump
type RunType int64

const (
	RunSph RunType = iota
	RunNbody
	RunStabilization
)

// Metadata describes one dump
type Metadata struct {
	Name     string  // run name
	Time     float64 // simulation time of the dump
	TimeStep float64 // time step at the dump
	Type     RunType // producing phase
}

// quantity descriptor tags in the container
type descriptor struct {
	Id    int64
	Typ   int64
	Order int64
}

// wr writes a value in the container byte order
func wr(f *os.File, data interface{}) error {
	return binary.Write(f, binary.LittleEndian, data)
}

// rd reads a value in the container byte order
func rd(f *os.File, data interface{}) error {
	return binary.Read(f, binary.LittleEndian, data)
}

// writeString writes a length-prefixed string
func writeString(f *os.File, s string) error {
	if err := wr(f, int64(len(s))); err != nil {
		return err
	}
	_, err := f.Write([]byte(s))
	return err
}

// readString reads a length-prefixed string
func readString(f *os.File) (string, error) {
	var n int64
	if err := rd(f, &n); err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := goio.ReadFull(f, b); err != nil {
		return "", err
	}
	return string(b), nil
}

// SaveBinary writes the storage with metadata and material parameter blocks
// into a binary dump file
func SaveBinary(path string, s *quant.Storage, meta Metadata) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return chk.Err("cannot create dump file %q: %v", path, err)
	}
	defer f.Close()

	// header
	if _, err = f.Write([]byte(Magic)); err != nil {
		return
	}
	if err = wr(f, Version); err != nil {
		return
	}
	if err = writeString(f, meta.Name); err != nil {
		return
	}
	if err = wr(f, meta.Time); err != nil {
		return
	}
	if err = wr(f, meta.TimeStep); err != nil {
		return
	}
	if err = wr(f, int64(meta.Type)); err != nil {
		return
	}

	// material blocks: per range the sub-range bounds, the model names and
	// the parameter bag
	mats := s.Materials()
	if err = wr(f, int64(len(mats))); err != nil {
		return
	}
	for _, mr := range mats {
		if err = wr(f, int64(mr.From)); err != nil {
			return
		}
		if err = wr(f, int64(mr.To)); err != nil {
			return
		}
		if err = writeMaterial(f, mr.Mat); err != nil {
			return
		}
	}

	// particle count and quantity descriptors
	if err = wr(f, int64(s.Size())); err != nil {
		return
	}
	ids := s.Ids()
	if err = wr(f, int64(len(ids))); err != nil {
		return
	}
	for _, id := range ids {
		q := s.Quantity(id)
		d := descriptor{Id: int64(id), Typ: int64(q.Type()), Order: int64(q.Order())}
		if err = wr(f, d); err != nil {
			return
		}
	}

	// buffers in declaration order, each derivative level in turn; an empty
	// buffer (from a partial clone) is written with a zero count and is read
	// back zero-filled
	for _, id := range ids {
		q := s.Quantity(id)
		for lv := 0; lv <= int(q.Order()); lv++ {
			if err = writeBuffer(f, s, id, lv); err != nil {
				return
			}
		}
	}
	return
}

// writeBuffer writes one derivative level of a quantity
func writeBuffer(f *os.File, s *quant.Storage, id quant.Id, lv int) (err error) {
	q := s.Quantity(id)
	buf := q.Buffer(lv)
	if err = wr(f, int64(buf.Len())); err != nil {
		return
	}
	if buf.Len() == 0 {
		return
	}
	switch q.Type() {
	case quant.Scalar:
		return wr(f, scalarLevel(s, id, lv))
	case quant.Vector:
		data := vecLevel(s, id, lv)
		for i := range data {
			if err = wr(f, data[i]); err != nil {
				return
			}
		}
	case quant.SymTensor, quant.TracelessTensor:
		data := symLevel(s, id, lv)
		for i := range data {
			if err = wr(f, data[i]); err != nil {
				return
			}
		}
	case quant.DenseTensor:
		data := s.Tens(id)
		for i := range data {
			if err = wr(f, data[i]); err != nil {
				return
			}
		}
	case quant.Index:
		data := s.Index(id)
		tmp := make([]int64, len(data))
		for i, v := range data {
			tmp[i] = int64(v)
		}
		return wr(f, tmp)
	}
	return
}

// level accessors used by the writer and reader

func scalarLevel(s *quant.Storage, id quant.Id, lv int) []float64 {
	switch lv {
	case 0:
		return s.Scalar(id)
	case 1:
		return s.ScalarDt(id)
	}
	return s.ScalarD2t(id)
}

func vecLevel(s *quant.Storage, id quant.Id, lv int) []geom.Vec {
	switch lv {
	case 0:
		return s.Vec(id)
	case 1:
		return s.VecDt(id)
	}
	return s.VecD2t(id)
}

func symLevel(s *quant.Storage, id quant.Id, lv int) []geom.SymTensor {
	if lv == 0 {
		return s.SymTens(id)
	}
	return s.SymTensDt(id)
}

// LoadBinary reads a binary dump. Unknown versions are rejected. Unknown
// quantity ids are not skipped: every id in the dump must have metadata in
// this build, otherwise inserting it into the storage panics.
func LoadBinary(path string) (s *quant.Storage, meta Metadata, err error) {
	f, err := os.Open(path)
	if err != nil {
		err = chk.Err("cannot open dump file %q: %v", path, err)
		return
	}
	defer f.Close()

	magic := make([]byte, len(Magic))
	if _, err = goio.ReadFull(f, magic); err != nil {
		return
	}
	if string(magic) != Magic {
		err = chk.Err("file %q is not a state dump (bad signature)", path)
		return
	}
	var version int64
	if err = rd(f, &version); err != nil {
		return
	}
	if version != Version {
		err = chk.Err("dump %q has unsupported version %d (supported: %d)", path, version, Version)
		return
	}
	if meta.Name, err = readString(f); err != nil {
		return
	}
	if err = rd(f, &meta.Time); err != nil {
		return
	}
	if err = rd(f, &meta.TimeStep); err != nil {
		return
	}
	var rt int64
	if err = rd(f, &rt); err != nil {
		return
	}
	meta.Type = RunType(rt)

	var nmats int64
	if err = rd(f, &nmats); err != nil {
		return
	}
	ranges := make([][2]int64, nmats)
	mats := make([]*inp.Material, nmats)
	for k := range ranges {
		if err = rd(f, &ranges[k][0]); err != nil {
			return
		}
		if err = rd(f, &ranges[k][1]); err != nil {
			return
		}
		if mats[k], err = readMaterial(f); err != nil {
			return
		}
	}

	var n, nq int64
	if err = rd(f, &n); err != nil {
		return
	}
	if err = rd(f, &nq); err != nil {
		return
	}
	descs := make([]descriptor, nq)
	for k := range descs {
		if err = rd(f, &descs[k]); err != nil {
			return
		}
	}

	s = quant.NewStorage()
	for _, d := range descs {
		id := quant.Id(d.Id)
		typ := quant.ValueType(d.Typ)
		order := quant.Order(d.Order)
		for lv := 0; lv <= int(order); lv++ {
			var cnt int64
			if err = rd(f, &cnt); err != nil {
				return
			}
			if err = readLevel(f, s, id, typ, order, lv, int(cnt), int(n)); err != nil {
				return
			}
		}
	}

	// rebind the material ranges in index order
	for k, rng := range ranges {
		s.AddMaterialRange(mats[k], int(rng[1]-rng[0]))
	}
	return
}

// writeMaterial writes the model names and parameter bag of a material; only
// materials of the input layer carry parameters
func writeMaterial(f *os.File, mat quant.Material) (err error) {
	m, ok := mat.(*inp.Material)
	if !ok {
		return writeString(f, "")
	}
	if err = writeString(f, m.Name); err != nil {
		return
	}
	if err = writeString(f, m.EosModel); err != nil {
		return
	}
	if err = writeString(f, m.RheoModel); err != nil {
		return
	}
	if err = writeString(f, m.DamageModel); err != nil {
		return
	}
	if err = wr(f, int64(len(m.Prms))); err != nil {
		return
	}
	for _, p := range m.Prms {
		if err = writeString(f, p.N); err != nil {
			return
		}
		if err = wr(f, p.V); err != nil {
			return
		}
	}
	return
}

// readMaterial reads a material block and re-initialises its models
func readMaterial(f *os.File) (m *inp.Material, err error) {
	name, err := readString(f)
	if err != nil {
		return
	}
	m = &inp.Material{Name: name}
	if name == "" {
		return
	}
	if m.EosModel, err = readString(f); err != nil {
		return
	}
	if m.RheoModel, err = readString(f); err != nil {
		return
	}
	if m.DamageModel, err = readString(f); err != nil {
		return
	}
	var np int64
	if err = rd(f, &np); err != nil {
		return
	}
	for k := int64(0); k < np; k++ {
		var pn string
		var pv float64
		if pn, err = readString(f); err != nil {
			return
		}
		if err = rd(f, &pv); err != nil {
			return
		}
		m.Prms = append(m.Prms, &fun.Prm{N: pn, V: pv})
	}
	err = m.Init()
	return
}

// readLevel reads one derivative level into the storage
func readLevel(f *os.File, s *quant.Storage, id quant.Id, typ quant.ValueType, order quant.Order, lv, cnt, n int) (err error) {
	switch typ {
	case quant.Scalar:
		data := make([]float64, cnt)
		if cnt > 0 {
			if err = rd(f, data); err != nil {
				return
			}
		}
		switch {
		case lv == 0 && cnt > 0:
			s.InsertScalarData(id, order, data)
		case lv == 0:
			s.InsertScalar(id, order, 0)
		case cnt > 0:
			copy(scalarLevel(s, id, lv), data)
		}
	case quant.Vector:
		data := make([]geom.Vec, cnt)
		for i := 0; i < cnt; i++ {
			if err = rd(f, &data[i]); err != nil {
				return
			}
		}
		switch {
		case lv == 0 && cnt > 0:
			s.InsertVecData(id, order, data)
		case lv == 0:
			s.InsertVec(id, order, geom.Vec{})
		case cnt > 0:
			copy(vecLevel(s, id, lv), data)
		}
	case quant.SymTensor, quant.TracelessTensor:
		data := make([]geom.SymTensor, cnt)
		for i := 0; i < cnt; i++ {
			if err = rd(f, &data[i]); err != nil {
				return
			}
		}
		if lv == 0 {
			if typ == quant.TracelessTensor {
				s.InsertTraceless(id, order, geom.SymTensor{})
			} else {
				s.InsertSymTens(id, order, geom.SymTensor{})
			}
			copy(s.SymTens(id), data)
		} else if cnt > 0 {
			copy(symLevel(s, id, lv), data)
		}
	case quant.DenseTensor:
		data := make([]geom.Mat3, cnt)
		for i := 0; i < cnt; i++ {
			if err = rd(f, &data[i]); err != nil {
				return
			}
		}
		s.InsertTens(id, order, geom.Mat3{})
		copy(s.Tens(id), data)
	case quant.Index:
		tmp := make([]int64, cnt)
		if cnt > 0 {
			if err = rd(f, tmp); err != nil {
				return
			}
		}
		s.InsertIndex(id, order, 0)
		data := s.Index(id)
		for i := range tmp {
			data[i] = int(tmp[i])
		}
	}
	return
}
