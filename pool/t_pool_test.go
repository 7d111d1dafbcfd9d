// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pool

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_pool01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("pool01. range coverage")

	p := New(4)
	n := 10007
	hits := make([]int, n)
	// ranges are disjoint, so workers never write the same slot
	p.RangeFor(n, 0, func(w, lo, hi int) {
		for i := lo; i < hi; i++ {
			hits[i]++
		}
	})
	for i := 0; i < n; i++ {
		if hits[i] != 1 {
			tst.Errorf("index %d processed %d times", i, hits[i])
			return
		}
	}
}

func Test_pool02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("pool02. granularity")

	p := New(4)
	chk.IntAssert(p.Granularity(100), 25)
	chk.IntAssert(p.Granularity(100000), 1000)
	chk.IntAssert(p.Granularity(2), 1)
	chk.IntAssert(p.Size(), 4)
}

func Test_pool03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("pool03. deterministic per-worker accumulation")

	run := func() []float64 {
		p := New(3)
		n := 5000
		acc := make([][]float64, p.Size())
		for w := range acc {
			acc[w] = make([]float64, n)
		}
		p.RangeFor(n, 0, func(w, lo, hi int) {
			for i := lo; i < hi; i++ {
				acc[w][i] += float64(i) * 1.0e-3
			}
		})
		// reduce in worker index order
		out := make([]float64, n)
		for w := 0; w < p.Size(); w++ {
			for i := 0; i < n; i++ {
				out[i] += acc[w][i]
			}
		}
		return out
	}

	a := run()
	b := run()
	for i := range a {
		if a[i] != b[i] {
			tst.Errorf("reduction is not bitwise reproducible at %d", i)
			return
		}
	}
}

func Test_pool04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("pool04. per-worker rng slots")

	p := New(2)
	a := p.Rng(0).Float64()
	b := p.Rng(1).Float64()
	if a == b {
		tst.Errorf("worker rngs must be seeded differently")
	}
}
