// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tint

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/quant"
	"github.com/xupeiwust/OpenSPH/stat"
)

// Criterion computes an upper bound of the next time step from the current
// state, reporting which quantity and particle dominated
type Criterion interface {
	Compute(s *quant.Storage, maxDt float64, stats *stat.Statistics) (dt float64, source string, particle int)
}

// Courant limits the step by the signal crossing time of the kernel support:
// dt_i = C h_i / cs_i, reduced across particles by the generalized mean with
// the configured exponent (minus infinity selects the minimum)
type Courant struct {
	C     float64 // Courant number
	Power float64 // exponent of the generalized mean
}

// Compute returns the criterion bound
func (o *Courant) Compute(s *quant.Storage, maxDt float64, stats *stat.Statistics) (float64, string, int) {
	r := s.Vec(quant.Position)
	cs := s.Scalar(quant.SoundSpeed)
	if len(r) == 0 {
		return maxDt, "courant", -1
	}
	if math.IsInf(o.Power, -1) {
		// minimum across particles
		dt := maxDt
		worst := -1
		for i := range r {
			if cs[i] <= 0 {
				continue
			}
			di := o.C * r[i].H() / cs[i]
			if di < dt {
				dt = di
				worst = i
			}
		}
		return dt, "courant", worst
	}
	// generalized mean with exponent p
	sum := 0.0
	n := 0
	for i := range r {
		if cs[i] <= 0 {
			continue
		}
		sum += math.Pow(o.C*r[i].H()/cs[i], o.Power)
		n++
	}
	if n == 0 {
		return maxDt, "courant", -1
	}
	dt := math.Pow(sum/float64(n), 1.0/o.Power)
	return math.Min(dt, maxDt), "courant", -1
}

// DerivativeRatio limits the step by the value-to-derivative ratio of every
// first-order quantity without a fixed step, clamped by the quantity's
// minimal scale
type DerivativeRatio struct {
	Factor float64 // safety factor k
}

// Compute returns the criterion bound
func (o *DerivativeRatio) Compute(s *quant.Storage, maxDt float64, stats *stat.Statistics) (float64, string, int) {
	const eps = 1e-30
	dt := maxDt
	source := "derivatives"
	worst := -1
	for _, id := range s.Ids() {
		q := s.Quantity(id)
		if q.Order() != quant.OrderFirst || q.Type() != quant.Scalar {
			continue
		}
		scale := q.MinimalScale()
		if scale <= 0 {
			continue
		}
		y := s.Scalar(id)
		dy := s.ScalarDt(id)
		for i := range y {
			di := o.Factor * (math.Abs(y[i]) + scale) / (math.Abs(dy[i]) + eps)
			if di < dt {
				dt = di
				source = quant.Name(id)
				worst = i
			}
		}
	}
	return dt, source, worst
}

// Acceleration limits the step by the time to cross the smoothing length
// under the current acceleration: dt_i = sqrt(h_i / |a_i|)
type Acceleration struct{}

// Compute returns the criterion bound
func (o *Acceleration) Compute(s *quant.Storage, maxDt float64, stats *stat.Statistics) (float64, string, int) {
	r := s.Vec(quant.Position)
	a := s.VecD2t(quant.Position)
	dt := maxDt
	worst := -1
	for i := range r {
		al := a[i].Len()
		if al == 0 {
			continue
		}
		di := math.Sqrt(r[i].H() / al)
		if di < dt {
			dt = di
			worst = i
		}
	}
	return dt, "acceleration", worst
}

// MultiCriterion takes the minimum over the enabled criteria and limits the
// ratio of successive steps into the configured band to avoid oscillation
type MultiCriterion struct {
	criteria []Criterion
	ratioLo  float64
	ratioHi  float64
	maxDt    float64
	prevDt   float64
}

// NewMultiCriterion builds the combined criterion from settings; the
// "timestep.criteria" setting lists the enabled criteria by name
func NewMultiCriterion(settings *inp.Settings) *MultiCriterion {
	o := &MultiCriterion{
		ratioLo: settings.GetFloat("timestep.ratio.min"),
		ratioHi: settings.GetFloat("timestep.ratio.max"),
		maxDt:   settings.GetFloat("run.timestep.max"),
		prevDt:  settings.GetFloat("run.timestep.initial"),
	}
	for _, name := range strings.Fields(settings.GetString("timestep.criteria")) {
		switch name {
		case "courant":
			o.criteria = append(o.criteria, &Courant{
				C:     settings.GetFloat("timestep.courant"),
				Power: settings.GetFloat("timestep.mean-power"),
			})
		case "derivatives":
			o.criteria = append(o.criteria, &DerivativeRatio{
				Factor: settings.GetFloat("timestep.derivative-factor"),
			})
		case "acceleration":
			o.criteria = append(o.criteria, &Acceleration{})
		case "none":
			// fixed step
		default:
			chk.Panic("timestep criterion %q is not available", name)
		}
	}
	return o
}

// Compute combines the criteria and records the dominating source
func (o *MultiCriterion) Compute(s *quant.Storage, maxDt float64, stats *stat.Statistics) (float64, string, int) {
	dt := maxDt
	source := "maximal value"
	worst := -1
	for _, c := range o.criteria {
		d, src, p := c.Compute(s, maxDt, stats)
		if d < dt {
			dt, source, worst = d, src, p
		}
	}

	// limit the change rate against the previous step
	if o.prevDt > 0 {
		lo := o.ratioLo * o.prevDt
		hi := o.ratioHi * o.prevDt
		if dt < lo {
			dt = lo
		} else if dt > hi {
			dt = hi
		}
	}
	if dt > o.maxDt {
		dt = o.maxDt
		source = "maximal value"
	}
	o.prevDt = dt

	stats.SetFloat(stat.TimeStep, dt)
	stats.SetString(stat.TimeStepCriterion, source)
	stats.SetInt(stat.TimeStepParticle, worst)
	return dt, source, worst
}
