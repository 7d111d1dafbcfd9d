// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

// Octupole holds a symmetric rank-3 tensor by its 10 independent components,
// ordered xxx, xxy, xxz, xyy, xyz, xzz, yyy, yyz, yzz, zzz
type Octupole [10]float64

// octIdx maps sorted component indices (i<=j<=k) to the flat slot
var octIdx = [3][3][3]int{}

func init() {
	order := [][3]int{
		{0, 0, 0}, {0, 0, 1}, {0, 0, 2}, {0, 1, 1}, {0, 1, 2},
		{0, 2, 2}, {1, 1, 1}, {1, 1, 2}, {1, 2, 2}, {2, 2, 2},
	}
	for slot, c := range order {
		i, j, k := c[0], c[1], c[2]
		// all permutations map to the same slot
		perms := [][3]int{
			{i, j, k}, {i, k, j}, {j, i, k}, {j, k, i}, {k, i, j}, {k, j, i},
		}
		for _, p := range perms {
			octIdx[p[0]][p[1]][p[2]] = slot
		}
	}
}

// Get returns component (i,j,k)
func (t Octupole) Get(i, j, k int) float64 {
	return t[octIdx[i][j][k]]
}

// Set sets component (i,j,k) and all its symmetric images
func (t *Octupole) Set(i, j, k int, v float64) {
	t[octIdx[i][j][k]] = v
}

// Add returns t + s
func (t Octupole) Add(s Octupole) Octupole {
	for i := 0; i < 10; i++ {
		t[i] += s[i]
	}
	return t
}

// Scale returns a*t
func (t Octupole) Scale(a float64) Octupole {
	for i := 0; i < 10; i++ {
		t[i] *= a
	}
	return t
}

// ContractTwice returns the vector v_i = t_ijk n_j n_k
func (t Octupole) ContractTwice(n Vec) Vec {
	var v Vec
	for i := 0; i < 3; i++ {
		s := 0.0
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				s += t.Get(i, j, k) * n[j] * n[k]
			}
		}
		v[i] = s
	}
	return v
}

// ContractThrice returns the scalar t_ijk n_i n_j n_k
func (t Octupole) ContractThrice(n Vec) float64 {
	return t.ContractTwice(n).Dot(n)
}
