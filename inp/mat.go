// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/xupeiwust/OpenSPH/mdl/eos"
	"github.com/xupeiwust/OpenSPH/mdl/rheo"
	"github.com/xupeiwust/OpenSPH/quant"
)

// Material holds material data: the parameter bag and the equation-of-state,
// rheology and damage strategies bound to a particle sub-range. Material
// implements quant.Material.
type Material struct {

	// input
	Name        string   `json:"name"`     // name of material
	EosModel    string   `json:"eos"`      // equation of state; e.g. "tillotson"
	RheoModel   string   `json:"rheology"` // yielding model; e.g. "von-mises"
	DamageModel string   `json:"damage"`   // damage model; "none" disables fragmentation
	Prms        fun.Prms `json:"prms"`     // all model parameters of this material

	// derived
	Eos    eos.Model        // allocated equation of state
	Rheo   rheo.Model       // allocated yielding model
	Damage rheo.DamageModel // allocated damage model; may be nil
}

// Init allocates and initialises the models
func (o *Material) Init() (err error) {
	if o.EosModel != "" {
		o.Eos, err = eos.New(o.EosModel)
		if err != nil {
			return
		}
		err = o.Eos.Init(o.Prms)
		if err != nil {
			return
		}
	}
	if o.RheoModel == "" {
		o.RheoModel = "elastic"
	}
	o.Rheo, err = rheo.New(o.RheoModel)
	if err != nil {
		return
	}
	err = o.Rheo.Init(o.Prms)
	if err != nil {
		return
	}
	if o.DamageModel != "" && o.DamageModel != "none" {
		o.Damage, err = rheo.NewDamage(o.DamageModel)
		if err != nil {
			return
		}
		err = o.Damage.Init(o.Prms)
		if err != nil {
			return
		}
	}
	return
}

// Param returns a parameter by name; panics on unknown names
func (o *Material) Param(name string) float64 {
	for _, p := range o.Prms {
		if p.N == name {
			return p.V
		}
	}
	chk.Panic("material %q has no parameter %q", o.Name, name)
	return 0
}

// HasParam reports whether a parameter exists
func (o *Material) HasParam(name string) bool {
	for _, p := range o.Prms {
		if p.N == name {
			return true
		}
	}
	return false
}

// ParamOr returns a parameter or a fallback value
func (o *Material) ParamOr(name string, fallback float64) float64 {
	for _, p := range o.Prms {
		if p.N == name {
			return p.V
		}
	}
	return fallback
}

// Create ensures the quantities required by this material exist in the
// storage; called once before the first integration
func (o *Material) Create(s *quant.Storage, from, to int) {
	s.InsertScalar(quant.Pressure, quant.OrderZero, 0.0)
	s.InsertScalar(quant.SoundSpeed, quant.OrderZero, 0.0)
	if o.Rheo != nil {
		o.Rheo.Create(s, from, to)
	}
}

// Initialize updates pressure and sound speed from the equation of state;
// called before derivative evaluation
func (o *Material) Initialize(s *quant.Storage, from, to int) {
	if o.Eos == nil {
		return
	}
	ρ := s.Scalar(quant.Density)
	u := s.Scalar(quant.Energy)
	p := s.Scalar(quant.Pressure)
	cs := s.Scalar(quant.SoundSpeed)
	for i := from; i < to; i++ {
		p[i], cs[i] = o.Eos.Eval(ρ[i], u[i])
	}
}

// Finalize applies yielding and damage; called after derivative evaluation
func (o *Material) Finalize(s *quant.Storage, from, to int) {
	if o.Rheo != nil && s.Has(quant.DeviatoricStress) {
		o.Rheo.Update(s, from, to)
	}
	if o.Damage != nil && s.Has(quant.Damage) {
		o.Damage.Update(s, from, to)
	}
}

// MatsData holds materials
type MatsData []*Material

// MatDb implements a database of materials
type MatDb struct {
	Materials MatsData `json:"materials"` // all materials
}

// ReadMat reads all materials data from a JSON file and initialises the
// models
func ReadMat(path string) (mdb *MatDb, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, chk.Err("cannot read materials file %q: %v", path, err)
	}
	mdb = new(MatDb)
	err = json.Unmarshal(b, mdb)
	if err != nil {
		return nil, chk.Err("cannot parse materials file %q: %v", path, err)
	}
	for _, m := range mdb.Materials {
		err = m.Init()
		if err != nil {
			return nil, err
		}
	}
	return
}

// Get returns a material by name
//  Note: returns nil if not found
func (o *MatDb) Get(name string) *Material {
	for _, mat := range o.Materials {
		if mat.Name == name {
			return mat
		}
	}
	return nil
}

// Save writes the material database to a JSON file
func (o *MatDb) Save(path string) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return
	}
	return os.WriteFile(path, b, 0644)
}

// DefaultBasalt returns a ready-to-use basalt material
func DefaultBasalt() *Material {
	m := &Material{
		Name:        "basalt",
		EosModel:    "tillotson",
		RheoModel:   "von-mises",
		DamageModel: "scalar-grady-kipp",
		Prms: []*fun.Prm{
			&fun.Prm{N: "rho0", V: 2700},
			&fun.Prm{N: "A", V: 2.67e10},
			&fun.Prm{N: "B", V: 2.67e10},
			&fun.Prm{N: "a", V: 0.5},
			&fun.Prm{N: "b", V: 1.5},
			&fun.Prm{N: "alpha", V: 5},
			&fun.Prm{N: "beta", V: 5},
			&fun.Prm{N: "u0", V: 4.87e8},
			&fun.Prm{N: "uiv", V: 4.72e6},
			&fun.Prm{N: "ucv", V: 1.82e7},
			&fun.Prm{N: "G", V: 2.27e10},
			&fun.Prm{N: "Y", V: 3.5e9},
			&fun.Prm{N: "weibull_m", V: 9},
			&fun.Prm{N: "weibull_k", V: 1e27},
			&fun.Prm{N: "E", V: 8.0e10},
			&fun.Prm{N: "cg", V: 0.4},
		},
	}
	if err := m.Init(); err != nil {
		chk.Panic("cannot initialise default basalt: %v", err)
	}
	return m
}
