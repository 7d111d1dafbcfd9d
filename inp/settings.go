// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input layer: typed run/body settings with
// compiled-in defaults and lossless save/load, and the material database
// binding equation-of-state and rheology models to particle sub-ranges
package inp

import (
	"encoding/json"
	"math"
	"os"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/xupeiwust/OpenSPH/geom"
)

// Kind enumerates the value types of a setting
type Kind int

const (
	Bool Kind = iota
	Int
	Float
	Str
	Vector
	Intv
	Tensor
)

// String returns the kind tag used in saved files
func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case Str:
		return "string"
	case Vector:
		return "vector"
	case Intv:
		return "interval"
	case Tensor:
		return "tensor"
	}
	chk.Panic("unknown setting kind %d", int(k))
	return ""
}

// entry holds one typed value
type entry struct {
	Kind Kind
	B    bool
	I    int
	F    float64
	S    string
	V    geom.Vec
	R    geom.Interval
	T    geom.SymTensor
}

// jsonEntry is the on-disk representation of one setting
type jsonEntry struct {
	Key   string      `json:"key"`
	Kind  string      `json:"kind"`
	Value interface{} `json:"value"`
}

// Settings holds a typed key-value namespace. Every key must exist in the
// defaults table of the namespace; values not explicitly set fall back to the
// compiled-in default. Reading a key with the wrong type is a programmer
// error and panics.
type Settings struct {
	name     string           // namespace name, e.g. "run" or "body"
	defaults map[string]entry // compiled-in defaults
	vals     map[string]entry // explicit overrides
}

// newSettings returns a settings namespace over a defaults table
func newSettings(name string, defaults map[string]entry) *Settings {
	return &Settings{
		name:     name,
		defaults: defaults,
		vals:     make(map[string]entry),
	}
}

// Clone returns a deep copy sharing the defaults table
func (o *Settings) Clone() *Settings {
	c := newSettings(o.name, o.defaults)
	for k, v := range o.vals {
		c.vals[k] = v
	}
	return c
}

// lookup returns the effective entry of a key, checking the expected kind
func (o *Settings) lookup(key string, kind Kind) entry {
	e, ok := o.vals[key]
	if !ok {
		e, ok = o.defaults[key]
		if !ok {
			chk.Panic("settings %q have no key %q", o.name, key)
		}
	}
	if e.Kind != kind {
		chk.Panic("setting %q is %v, not %v", key, e.Kind, kind)
	}
	return e
}

// set installs an override after checking the key and kind against defaults
func (o *Settings) set(key string, e entry) {
	d, ok := o.defaults[key]
	if !ok {
		chk.Panic("settings %q have no key %q", o.name, key)
	}
	if d.Kind != e.Kind {
		chk.Panic("setting %q is %v, cannot set %v", key, d.Kind, e.Kind)
	}
	o.vals[key] = e
}

// typed getters and setters

func (o *Settings) GetBool(key string) bool              { return o.lookup(key, Bool).B }
func (o *Settings) GetInt(key string) int                { return o.lookup(key, Int).I }
func (o *Settings) GetFloat(key string) float64          { return o.lookup(key, Float).F }
func (o *Settings) GetString(key string) string          { return o.lookup(key, Str).S }
func (o *Settings) GetVec(key string) geom.Vec           { return o.lookup(key, Vector).V }
func (o *Settings) GetInterval(key string) geom.Interval { return o.lookup(key, Intv).R }
func (o *Settings) GetTensor(key string) geom.SymTensor  { return o.lookup(key, Tensor).T }

func (o *Settings) SetBool(key string, v bool)              { o.set(key, entry{Kind: Bool, B: v}) }
func (o *Settings) SetInt(key string, v int)                { o.set(key, entry{Kind: Int, I: v}) }
func (o *Settings) SetFloat(key string, v float64)          { o.set(key, entry{Kind: Float, F: v}) }
func (o *Settings) SetString(key string, v string)          { o.set(key, entry{Kind: Str, S: v}) }
func (o *Settings) SetVec(key string, v geom.Vec)           { o.set(key, entry{Kind: Vector, V: v}) }
func (o *Settings) SetInterval(key string, v geom.Interval) { o.set(key, entry{Kind: Intv, R: v}) }
func (o *Settings) SetTensor(key string, v geom.SymTensor)  { o.set(key, entry{Kind: Tensor, T: v}) }

// save / load ///////////////////////////////////////////////////////////////

// floatOut keeps infinities representable; JSON has no Inf literal
func floatOut(f float64) interface{} {
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	return f
}

// floatIn parses a float or an infinity string
func floatIn(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case string:
		switch x {
		case "inf":
			return math.Inf(1), nil
		case "-inf":
			return math.Inf(-1), nil
		}
	}
	return 0, chk.Err("expected float, got %v", v)
}

// floatsOut encodes a list of floats
func floatsOut(vals ...float64) []interface{} {
	out := make([]interface{}, len(vals))
	for i, f := range vals {
		out[i] = floatOut(f)
	}
	return out
}

// encode converts an entry to its on-disk value
func (e entry) encode() interface{} {
	switch e.Kind {
	case Bool:
		return e.B
	case Int:
		return e.I
	case Float:
		return floatOut(e.F)
	case Str:
		return e.S
	case Vector:
		return floatsOut(e.V[0], e.V[1], e.V[2], e.V[3])
	case Intv:
		return floatsOut(e.R.Lo, e.R.Hi)
	case Tensor:
		return floatsOut(e.T[:]...)
	}
	return nil
}

// decode parses an on-disk value into an entry of the given kind
func decode(kind Kind, v interface{}) (e entry, err error) {
	e.Kind = kind
	switch kind {
	case Bool:
		b, ok := v.(bool)
		if !ok {
			return e, chk.Err("expected bool, got %v", v)
		}
		e.B = b
	case Int:
		f, ok := v.(float64)
		if !ok {
			return e, chk.Err("expected int, got %v", v)
		}
		e.I = int(f)
	case Float:
		if e.F, err = floatIn(v); err != nil {
			return
		}
	case Str:
		s, ok := v.(string)
		if !ok {
			return e, chk.Err("expected string, got %v", v)
		}
		e.S = s
	case Vector, Intv, Tensor:
		arr, ok := v.([]interface{})
		if !ok {
			return e, chk.Err("expected array, got %v", v)
		}
		vals := make([]float64, len(arr))
		for i, x := range arr {
			if vals[i], err = floatIn(x); err != nil {
				return e, chk.Err("expected numeric array, got %v", v)
			}
		}
		switch kind {
		case Vector:
			if len(vals) != 4 {
				return e, chk.Err("vector needs 4 components, got %d", len(vals))
			}
			copy(e.V[:], vals)
		case Intv:
			if len(vals) != 2 {
				return e, chk.Err("interval needs 2 components, got %d", len(vals))
			}
			e.R = geom.Interval{Lo: vals[0], Hi: vals[1]}
		case Tensor:
			if len(vals) != 6 {
				return e, chk.Err("tensor needs 6 components, got %d", len(vals))
			}
			copy(e.T[:], vals)
		}
	}
	return
}

// kindByName maps saved kind tags back to kinds
var kindByName = map[string]Kind{
	"bool": Bool, "int": Int, "float": Float, "string": Str,
	"vector": Vector, "interval": Intv, "tensor": Tensor,
}

// Save writes the effective settings (overrides and defaults) to a JSON file
func (o *Settings) Save(path string) (err error) {
	keys := make([]string, 0, len(o.defaults))
	for k := range o.defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	list := make([]jsonEntry, 0, len(keys))
	for _, k := range keys {
		e := o.vals[k]
		if _, ok := o.vals[k]; !ok {
			e = o.defaults[k]
		}
		list = append(list, jsonEntry{Key: k, Kind: e.Kind.String(), Value: e.encode()})
	}
	b, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return
	}
	return os.WriteFile(path, b, 0644)
}

// Load reads settings from a JSON file. Unknown keys are ignored with a
// warning; missing keys keep their defaults.
func (o *Settings) Load(path string) (err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return chk.Err("cannot read settings file %q: %v", path, err)
	}
	var list []jsonEntry
	err = json.Unmarshal(b, &list)
	if err != nil {
		return chk.Err("cannot parse settings file %q: %v", path, err)
	}
	for _, je := range list {
		d, ok := o.defaults[je.Key]
		if !ok {
			io.Pfred("warning: ignoring unknown setting %q in %q\n", je.Key, path)
			continue
		}
		kind, ok := kindByName[je.Kind]
		if !ok {
			return chk.Err("setting %q has unknown kind %q", je.Key, je.Kind)
		}
		if kind != d.Kind {
			return chk.Err("setting %q must be %v, not %v", je.Key, d.Kind, kind)
		}
		e, err := decode(kind, je.Value)
		if err != nil {
			return chk.Err("setting %q: %v", je.Key, err)
		}
		o.vals[je.Key] = e
	}
	return nil
}
