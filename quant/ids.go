// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package quant implements the particle column store: named typed quantities
// with up to two derivative levels, grouped in a storage partitioned into
// material sub-ranges
package quant

import "github.com/cpmech/gosl/chk"

// Id identifies a quantity within a storage
type Id int

// catalogue of quantity ids
const (
	Position        Id = iota // particle position; h or radius in the fourth lane
	Mass                      // particle mass
	Density                   // mass density
	Pressure                  // pressure
	Energy                    // specific internal energy
	SoundSpeed                // local sound speed
	DeviatoricStress          // deviatoric stress tensor S
	Damage                    // scalar fragmentation damage
	EpsMin                    // activation strain of the weakest flaw
	NFlaws                    // number of flaws per particle
	VelocityGradient          // symmetrized velocity gradient
	VelocityDivergence        // divergence of velocity
	VelocityRotation          // rotation (curl) of velocity
	CorrectionTensor          // strain-rate gradient correction C_ij
	AvAlpha                   // artificial viscosity coefficient alpha
	AvBeta                    // artificial viscosity coefficient beta
	XsphVelocities            // XSPH velocity correction
	GradH                     // grad-h term Omega
	Flag                      // body flag distinguishing merged origins
	MaterialId                // index of the material of each particle
	NeighbourCnt              // number of neighbours
	AngularVelocity           // angular velocity of hard spheres
	AngularMomentum           // angular momentum of hard spheres
	MomentOfInertia           // moment of inertia tensor in the local frame
	LocalFrame                // orientation of the body frame
	StressReducing            // yielding reduction factor
)

// ValueType enumerates the value types a quantity may hold
type ValueType int

const (
	Scalar          ValueType = iota // float64
	Vector                           // geom.Vec
	SymTensor                        // geom.SymTensor
	TracelessTensor                  // geom.SymTensor with zero trace
	DenseTensor                      // geom.Mat3
	Index                            // int
)

// String returns a short tag of the value type
func (t ValueType) String() string {
	switch t {
	case Scalar:
		return "scalar"
	case Vector:
		return "vector"
	case SymTensor:
		return "symtensor"
	case TracelessTensor:
		return "traceless"
	case DenseTensor:
		return "tensor"
	case Index:
		return "index"
	}
	chk.Panic("unknown value type %d", int(t))
	return ""
}

// Order enumerates the number of derivative levels of a quantity
type Order int

const (
	OrderZero   Order = iota // value only
	OrderFirst               // value and first derivative
	OrderSecond              // value, first and second derivative
)

// Metadata holds the descriptive data of a quantity id
type Metadata struct {
	Name    string    // full name of the quantity
	DtName  string    // name of the first derivative
	D2tName string    // name of the second derivative
	Type    ValueType // expected value type
}

// metadata catalogue; entries without explicit derivative names fall back to
// "<name> derivative"
var metadata = map[Id]Metadata{
	Position:           {"position", "velocity", "acceleration", Vector},
	Mass:               {"mass", "", "", Scalar},
	Density:            {"density", "", "", Scalar},
	Pressure:           {"pressure", "", "", Scalar},
	Energy:             {"energy", "", "", Scalar},
	SoundSpeed:         {"sound speed", "", "", Scalar},
	DeviatoricStress:   {"deviatoric stress", "", "", TracelessTensor},
	Damage:             {"damage", "", "", Scalar},
	EpsMin:             {"activation strain", "", "", Scalar},
	NFlaws:             {"flaw count", "", "", Index},
	VelocityGradient:   {"velocity gradient", "", "", SymTensor},
	VelocityDivergence: {"velocity divergence", "", "", Scalar},
	VelocityRotation:   {"velocity rotation", "", "", Vector},
	CorrectionTensor:   {"correction tensor", "", "", SymTensor},
	AvAlpha:            {"AV alpha", "", "", Scalar},
	AvBeta:             {"AV beta", "", "", Scalar},
	XsphVelocities:     {"XSPH correction", "", "", Vector},
	GradH:              {"grad-h term", "", "", Scalar},
	Flag:               {"flag", "", "", Index},
	MaterialId:         {"material id", "", "", Index},
	NeighbourCnt:       {"neighbour count", "", "", Index},
	AngularVelocity:    {"angular velocity", "", "", Vector},
	AngularMomentum:    {"angular momentum", "", "", Vector},
	MomentOfInertia:    {"moment of inertia", "", "", SymTensor},
	LocalFrame:         {"local frame", "", "", DenseTensor},
	StressReducing:     {"yielding reduction", "", "", Scalar},
}

// Meta returns the metadata of an id; panics on unknown ids
func Meta(id Id) Metadata {
	m, ok := metadata[id]
	if !ok {
		chk.Panic("quantity id %d has no metadata", int(id))
	}
	if m.DtName == "" {
		m.DtName = m.Name + " derivative"
	}
	if m.D2tName == "" {
		m.D2tName = m.Name + " 2nd derivative"
	}
	return m
}

// Name returns the full name of an id
func Name(id Id) string {
	return Meta(id).Name
}
