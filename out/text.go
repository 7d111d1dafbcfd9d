// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"bytes"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/xupeiwust/OpenSPH/quant"
)

// SaveText writes a human-readable dump: a comment line with the run name,
// time and time step, a header line naming the columns, then one line per
// particle. Consumers must parse the header; no
// positional guarantees are made across versions.
func SaveText(path string, s *quant.Storage, meta Metadata) (err error) {
	var b bytes.Buffer

	// header
	io.Ff(&b, "# run %q  time = %g  dt = %g\n", meta.Name, meta.Time, meta.TimeStep)
	io.Ff(&b, "#")
	for _, id := range s.Ids() {
		q := s.Quantity(id)
		switch q.Type() {
		case quant.Scalar:
			io.Ff(&b, " %s", quant.Name(id))
		case quant.Vector:
			n := quant.Name(id)
			io.Ff(&b, " %s.x %s.y %s.z %s.h", n, n, n, n)
		case quant.SymTensor, quant.TracelessTensor:
			n := quant.Name(id)
			io.Ff(&b, " %s.xx %s.yy %s.zz %s.xy %s.xz %s.yz", n, n, n, n, n, n)
		case quant.Index:
			io.Ff(&b, " %s", quant.Name(id))
		case quant.DenseTensor:
			// dense tensors (local frames) are omitted from text dumps
		}
	}
	io.Ff(&b, "\n")

	// one line per particle
	for i := 0; i < s.Size(); i++ {
		for _, id := range s.Ids() {
			q := s.Quantity(id)
			switch q.Type() {
			case quant.Scalar:
				io.Ff(&b, " %23.15e", s.Scalar(id)[i])
			case quant.Vector:
				v := s.Vec(id)[i]
				io.Ff(&b, " %23.15e %23.15e %23.15e %23.15e", v[0], v[1], v[2], v[3])
			case quant.SymTensor, quant.TracelessTensor:
				t := s.SymTens(id)[i]
				io.Ff(&b, " %23.15e %23.15e %23.15e %23.15e %23.15e %23.15e", t[0], t[1], t[2], t[3], t[4], t[5])
			case quant.Index:
				io.Ff(&b, " %d", s.Index(id)[i])
			case quant.DenseTensor:
			}
		}
		io.Ff(&b, "\n")
	}

	err = os.WriteFile(path, b.Bytes(), 0644)
	if err != nil {
		return chk.Err("cannot write dump file %q: %v", path, err)
	}
	return
}
