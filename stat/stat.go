// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package stat implements run statistics: typed entries written by solvers,
// timestep criteria and the collision pipeline, and dumped with the run log
package stat

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// ids of commonly used statistics
const (
	RunTime           = "run.time"
	TimeStep          = "timestep.value"
	TimeStepCriterion = "timestep.criterion"
	TimeStepQuantity  = "timestep.quantity"
	TimeStepParticle  = "timestep.particle"
	NeighbourCnt      = "sph.neighbour.count"
	SummationIters    = "sph.summation.iterations"
	GravityNodes      = "gravity.nodes"
	CollisionCnt      = "nbody.collisions"
	MergeCnt          = "nbody.merges"
	BounceCnt         = "nbody.bounces"
	OverlapCnt        = "nbody.overlaps"
	BsRejectCnt       = "timestep.bs.rejections"
)

// Mean accumulates a running mean with extrema
type Mean struct {
	Sum   float64
	Min   float64
	Max   float64
	Count int
}

// Accum adds a sample
func (o *Mean) Accum(x float64) {
	if o.Count == 0 {
		o.Min, o.Max = x, x
	} else {
		if x < o.Min {
			o.Min = x
		}
		if x > o.Max {
			o.Max = x
		}
	}
	o.Sum += x
	o.Count++
}

// Average returns the mean of the accumulated samples
func (o *Mean) Average() float64 {
	if o.Count == 0 {
		return 0
	}
	return o.Sum / float64(o.Count)
}

// Statistics is a typed map of named entries. Reading a missing float entry
// panics; missing int, string and mean entries read as zero, "" and nil.
type Statistics struct {
	ints    map[string]int
	floats  map[string]float64
	strings map[string]string
	means   map[string]*Mean
}

// New returns empty statistics
func New() *Statistics {
	return &Statistics{
		ints:    make(map[string]int),
		floats:  make(map[string]float64),
		strings: make(map[string]string),
		means:   make(map[string]*Mean),
	}
}

// SetInt stores an integer entry
func (o *Statistics) SetInt(key string, v int) { o.ints[key] = v }

// AddInt increments an integer entry
func (o *Statistics) AddInt(key string, v int) { o.ints[key] += v }

// GetInt reads an integer entry; zero when absent
func (o *Statistics) GetInt(key string) int { return o.ints[key] }

// SetFloat stores a float entry
func (o *Statistics) SetFloat(key string, v float64) { o.floats[key] = v }

// GetFloat reads a float entry; panics when absent
func (o *Statistics) GetFloat(key string) float64 {
	v, ok := o.floats[key]
	if !ok {
		chk.Panic("statistics have no float entry %q", key)
	}
	return v
}

// HasFloat reports whether a float entry exists
func (o *Statistics) HasFloat(key string) bool {
	_, ok := o.floats[key]
	return ok
}

// SetString stores a string entry
func (o *Statistics) SetString(key string, v string) { o.strings[key] = v }

// GetString reads a string entry; empty when absent
func (o *Statistics) GetString(key string) string { return o.strings[key] }

// Accum adds a sample to a mean entry
func (o *Statistics) Accum(key string, x float64) {
	m, ok := o.means[key]
	if !ok {
		m = new(Mean)
		o.means[key] = m
	}
	m.Accum(x)
}

// GetMean reads a mean entry; nil when absent
func (o *Statistics) GetMean(key string) *Mean { return o.means[key] }

// Reset clears the per-step entries, keeping nothing
func (o *Statistics) Reset() {
	o.ints = make(map[string]int)
	o.floats = make(map[string]float64)
	o.strings = make(map[string]string)
	o.means = make(map[string]*Mean)
}

// Format renders the statistics as a compact log block
func (o *Statistics) Format() string {
	var keys []string
	for k := range o.floats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	l := ""
	for _, k := range keys {
		l += io.Sf("  %-28s = %23.15e\n", k, o.floats[k])
	}
	keys = keys[:0]
	for k := range o.ints {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		l += io.Sf("  %-28s = %d\n", k, o.ints[k])
	}
	keys = keys[:0]
	for k := range o.strings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		l += io.Sf("  %-28s = %s\n", k, o.strings[k])
	}
	keys = keys[:0]
	for k := range o.means {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m := o.means[k]
		l += io.Sf("  %-28s = %g (min=%g max=%g n=%d)\n", k, m.Average(), m.Min, m.Max, m.Count)
	}
	return l
}
