// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package deriv

import (
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/quant"
)

// InertialForce adds the centrifugal and Coriolis accelerations of a frame
// co-rotating with angular frequency omega. With omega = 0 the term is an
// exact no-op, making the non-inertial frame equivalent to the inertial one.
type InertialForce struct {
	ω geom.Vec
}

// SetDerivatives registers pair derivatives (none; the term is pointwise)
func (o *InertialForce) SetDerivatives(h *Holder, settings *inp.Settings) {
	o.ω = settings.GetVec("frame.angular-frequency")
}

// Initialize runs before the derivative sweep
func (o *InertialForce) Initialize(s *quant.Storage) {}

// Finalize adds the frame accelerations
func (o *InertialForce) Finalize(s *quant.Storage) {
	if o.ω.SqrLen() == 0 {
		return
	}
	r := s.Vec(quant.Position)
	v := s.VecDt(quant.Position)
	dv := s.VecD2t(quant.Position)
	for i := range r {
		// a += -2 w x v - w x (w x r)
		coriolis := o.ω.Cross(v[i]).Scale(-2.0)
		centrifugal := o.ω.Cross(o.ω.Cross(r[i])).Scale(-1.0)
		dv[i] = dv[i].Add(coriolis).Add(centrifugal)
	}
}

// Create ensures quantities exist
func (o *InertialForce) Create(s *quant.Storage, mat quant.Material) {}
