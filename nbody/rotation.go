// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nbody

import (
	"math"

	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/quant"
)

// advanceRotation integrates the local frame of every particle over dt. The
// angular momentum L = I·w is the conserved quantity; after each frame
// rotation the inertia tensor follows the frame and the angular velocity is
// recomputed from L, which reproduces torque-free precession for triaxial
// bodies. The substep never rotates by more than maxAngle.
func (o *HardSphere) advanceRotation(s *quant.Storage, dt float64) {
	w := s.Vec(quant.AngularVelocity)
	I := s.SymTens(quant.MomentOfInertia)
	E := s.Tens(quant.LocalFrame)

	o.pool.RangeFor(s.Size(), o.gran, func(worker, lo, hi int) {
		for i := lo; i < hi; i++ {
			wl := w[i].Len()
			if wl == 0 {
				continue
			}
			// isotropic bodies spin without precession: a single rotation
			if isIsotropic(I[i]) {
				E[i] = geom.RotationAxisAngle(w[i].Scale(1.0/wl), wl*dt).Mul(E[i])
				continue
			}

			L := I[i].MulVec(w[i])
			steps := int(math.Ceil(wl * dt / o.maxAngle))
			if steps < 1 {
				steps = 1
			}
			h := dt / float64(steps)
			for k := 0; k < steps; k++ {
				wk := w[i]
				wkl := wk.Len()
				if wkl == 0 {
					break
				}
				rot := geom.RotationAxisAngle(wk.Scale(1.0/wkl), wkl*h)
				E[i] = rot.Mul(E[i])
				I[i] = rot.TransformSym(I[i])
				w[i] = I[i].Inverse().MulVec(L)
			}
		}
	})
}

// isIsotropic reports whether the inertia tensor is a multiple of identity
func isIsotropic(I geom.SymTensor) bool {
	d := I.Trace() / 3.0
	if d == 0 {
		return true
	}
	tol := 1e-12 * math.Abs(d)
	return math.Abs(I[geom.XX]-d) <= tol &&
		math.Abs(I[geom.YY]-d) <= tol &&
		math.Abs(I[geom.ZZ]-d) <= tol &&
		math.Abs(I[geom.XY]) <= tol &&
		math.Abs(I[geom.XZ]) <= tol &&
		math.Abs(I[geom.YZ]) <= tol
}
