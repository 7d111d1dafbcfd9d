// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// Summary records the progression of a run: output times and particle
// counts, the phases executed and the wall-clock spent
type Summary struct {
	RunName    string    // name of the run
	OutTimes   []float64 // times of the written dumps
	OutFiles   []string  // dump file names
	Counts     []int     // particle counts at each dump
	Phases     []string  // executed phases in order
	StepCnt    int       // total number of time steps
	CpuSeconds float64   // wall-clock time of the run
}

// Save writes the summary using gob encoding
func (o *Summary) Save(dirout, key string) (err error) {
	if err = os.MkdirAll(dirout, 0755); err != nil {
		return chk.Err("cannot create output directory %q: %v", dirout, err)
	}
	fn := filepath.Join(dirout, io.Sf("%s.sum", key))
	f, err := os.Create(fn)
	if err != nil {
		return chk.Err("cannot create summary file %q: %v", fn, err)
	}
	defer f.Close()
	enc := utl.GetEncoder(f, "gob")
	return enc.Encode(o)
}

// Read loads a summary written by Save
func (o *Summary) Read(dirout, key string) (err error) {
	fn := filepath.Join(dirout, io.Sf("%s.sum", key))
	f, err := os.Open(fn)
	if err != nil {
		return chk.Err("cannot open summary file %q: %v", fn, err)
	}
	defer f.Close()
	dec := utl.GetDecoder(f, "gob")
	return dec.Decode(o)
}
