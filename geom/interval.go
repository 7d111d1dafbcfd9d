// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import "math"

// Interval holds an allowed range of a scalar quantity. Unbounded sides are
// ±Inf. The zero value is the degenerate interval [0, 0]; use Unbounded for
// (-∞, ∞).
type Interval struct {
	Lo float64 `json:"lo"` // lower bound
	Hi float64 `json:"hi"` // upper bound
}

// Unbounded returns the interval (-∞, ∞)
func Unbounded() Interval {
	return Interval{Lo: math.Inf(-1), Hi: math.Inf(1)}
}

// Positive returns the interval [0, ∞)
func Positive() Interval {
	return Interval{Lo: 0, Hi: math.Inf(1)}
}

// IsUnbounded reports whether both sides are infinite
func (o Interval) IsUnbounded() bool {
	return math.IsInf(o.Lo, -1) && math.IsInf(o.Hi, 1)
}

// Contains reports whether x lies within the interval (closed)
func (o Interval) Contains(x float64) bool {
	return x >= o.Lo && x <= o.Hi
}

// Clamp returns x limited into the interval
func (o Interval) Clamp(x float64) float64 {
	if x < o.Lo {
		return o.Lo
	}
	if x > o.Hi {
		return o.Hi
	}
	return x
}

// Span returns Hi - Lo
func (o Interval) Span() float64 {
	return o.Hi - o.Lo
}
