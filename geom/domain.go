// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Ghost holds a mirrored position generated by a domain boundary together
// with the index of the source particle
type Ghost struct {
	Position Vec // mirrored position; fourth lane copied from the source
	Index    int // index of the mirrored particle
}

// Domain defines a computational domain. Domains generate ghost positions for
// particles closer to the boundary than eps and project escaped particles
// back onto the boundary.
type Domain interface {
	Center() Vec                                   // center of the domain
	Volume() float64                               // volume of the domain
	Bounds() Box                                   // bounding box
	Contains(p Vec) bool                           // whether p lies inside
	Project(p Vec) Vec                             // closest point on the boundary
	AddGhosts(r []Vec, eps float64, out []Ghost) []Ghost // mirror particles near the boundary
}

// NewDomain returns a domain by name: "spherical", "block" or "cylinder"
func NewDomain(name string, center Vec, size Vec) (Domain, error) {
	switch name {
	case "spherical":
		return &SphericalDomain{Cen: center, R: 0.5 * size[0]}, nil
	case "block":
		return &BlockDomain{Box: Box{Lo: center.Sub(size.Scale(0.5)), Hi: center.Add(size.Scale(0.5))}}, nil
	case "cylinder":
		return &CylinderDomain{Cen: center, R: 0.5 * size[0], H: size[2]}, nil
	}
	return nil, chk.Err("domain %q is not available", name)
}

// SphericalDomain is a sphere of radius R centered at Cen
type SphericalDomain struct {
	Cen Vec     // center
	R   float64 // radius
}

func (o *SphericalDomain) Center() Vec { return o.Cen }

func (o *SphericalDomain) Volume() float64 {
	return 4.0 / 3.0 * math.Pi * o.R * o.R * o.R
}

func (o *SphericalDomain) Bounds() Box {
	d := V(o.R, o.R, o.R)
	return Box{Lo: o.Cen.Sub(d), Hi: o.Cen.Add(d)}
}

func (o *SphericalDomain) Contains(p Vec) bool {
	return SqrDist(p, o.Cen) <= o.R*o.R
}

func (o *SphericalDomain) Project(p Vec) Vec {
	d := p.Sub(o.Cen)
	l := d.Len()
	if l == 0 {
		return o.Cen.Add(V(o.R, 0, 0)).WithH(p.H())
	}
	return o.Cen.AddScaled(o.R/l, d).WithH(p.H())
}

func (o *SphericalDomain) AddGhosts(r []Vec, eps float64, out []Ghost) []Ghost {
	for i, p := range r {
		d := p.Sub(o.Cen)
		l := d.Len()
		if l > o.R || o.R-l > eps || l == 0 {
			continue
		}
		// mirror across the sphere surface
		g := o.Cen.AddScaled((2.0*o.R-l)/l, d).WithH(p.H())
		out = append(out, Ghost{Position: g, Index: i})
	}
	return out
}

// BlockDomain is an axis-aligned box domain
type BlockDomain struct {
	Box Box // extents
}

func (o *BlockDomain) Center() Vec { return o.Box.Center() }

func (o *BlockDomain) Volume() float64 {
	s := o.Box.Size()
	return s[0] * s[1] * s[2]
}

func (o *BlockDomain) Bounds() Box { return o.Box }

func (o *BlockDomain) Contains(p Vec) bool { return o.Box.Contains(p) }

func (o *BlockDomain) Project(p Vec) Vec {
	q := p
	if o.Box.Contains(p) {
		// interior point: move onto the nearest face
		ax, face, best := 0, o.Box.Lo[0], math.Inf(1)
		for i := 0; i < 3; i++ {
			if d := p[i] - o.Box.Lo[i]; d < best {
				ax, face, best = i, o.Box.Lo[i], d
			}
			if d := o.Box.Hi[i] - p[i]; d < best {
				ax, face, best = i, o.Box.Hi[i], d
			}
		}
		q[ax] = face
		return q
	}
	for i := 0; i < 3; i++ {
		if q[i] < o.Box.Lo[i] {
			q[i] = o.Box.Lo[i]
		} else if q[i] > o.Box.Hi[i] {
			q[i] = o.Box.Hi[i]
		}
	}
	return q
}

func (o *BlockDomain) AddGhosts(r []Vec, eps float64, out []Ghost) []Ghost {
	for i, p := range r {
		if !o.Box.Contains(p) {
			continue
		}
		// mirror across each nearby face independently
		for ax := 0; ax < 3; ax++ {
			if p[ax]-o.Box.Lo[ax] < eps {
				g := p
				g[ax] = 2.0*o.Box.Lo[ax] - p[ax]
				out = append(out, Ghost{Position: g, Index: i})
			}
			if o.Box.Hi[ax]-p[ax] < eps {
				g := p
				g[ax] = 2.0*o.Box.Hi[ax] - p[ax]
				out = append(out, Ghost{Position: g, Index: i})
			}
		}
	}
	return out
}

// CylinderDomain is a cylinder aligned with the z axis
type CylinderDomain struct {
	Cen Vec     // center
	R   float64 // radius
	H   float64 // height
}

func (o *CylinderDomain) Center() Vec { return o.Cen }

func (o *CylinderDomain) Volume() float64 {
	return math.Pi * o.R * o.R * o.H
}

func (o *CylinderDomain) Bounds() Box {
	d := V(o.R, o.R, 0.5*o.H)
	return Box{Lo: o.Cen.Sub(d), Hi: o.Cen.Add(d)}
}

func (o *CylinderDomain) Contains(p Vec) bool {
	d := p.Sub(o.Cen)
	if math.Abs(d[2]) > 0.5*o.H {
		return false
	}
	return d[0]*d[0]+d[1]*d[1] <= o.R*o.R
}

func (o *CylinderDomain) Project(p Vec) Vec {
	d := p.Sub(o.Cen)
	l := math.Sqrt(d[0]*d[0] + d[1]*d[1])
	if o.Contains(p) {
		// interior point: move onto the nearest of the mantle and the caps
		if o.R-l < 0.5*o.H-math.Abs(d[2]) {
			if l == 0 {
				d[0], l = 1, 1
			}
			d[0] *= o.R / l
			d[1] *= o.R / l
		} else {
			d[2] = math.Copysign(0.5*o.H, d[2])
		}
		return o.Cen.Add(d).WithH(p.H())
	}
	if l > o.R && l > 0 {
		s := o.R / l
		d[0] *= s
		d[1] *= s
	}
	if d[2] > 0.5*o.H {
		d[2] = 0.5 * o.H
	} else if d[2] < -0.5*o.H {
		d[2] = -0.5 * o.H
	}
	return o.Cen.Add(d).WithH(p.H())
}

func (o *CylinderDomain) AddGhosts(r []Vec, eps float64, out []Ghost) []Ghost {
	for i, p := range r {
		if !o.Contains(p) {
			continue
		}
		d := p.Sub(o.Cen)
		l := math.Sqrt(d[0]*d[0] + d[1]*d[1])
		if l > 0 && o.R-l < eps {
			s := (2.0*o.R - l) / l
			g := o.Cen.Add(V(s*d[0], s*d[1], d[2])).WithH(p.H())
			out = append(out, Ghost{Position: g, Index: i})
		}
		if 0.5*o.H-d[2] < eps {
			g := p
			g[2] = o.Cen[2] + o.H - d[2]
			out = append(out, Ghost{Position: g, Index: i})
		}
		if 0.5*o.H+d[2] < eps {
			g := p
			g[2] = o.Cen[2] - o.H - d[2]
			out = append(out, Ghost{Position: g, Index: i})
		}
	}
	return out
}
