// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kern

import "math"

// pow4 returns x⁴
func pow4(x float64) float64 {
	x *= x
	return x * x
}

func init() {

	// M4 B-spline (piecewise cubic), support radius 2
	allocators["cubic-spline"] = func() *Kernel {
		σ := 1.0 / math.Pi
		value := func(q float64) float64 {
			if q < 1.0 {
				return σ * (1.0 - 1.5*q*q + 0.75*q*q*q)
			}
			if q < 2.0 {
				e := 2.0 - q
				return σ * 0.25 * e * e * e
			}
			return 0
		}
		gradRatio := func(q float64) float64 {
			if q < 1.0 {
				return σ * (-3.0 + 2.25*q)
			}
			if q < 2.0 {
				e := 2.0 - q
				return σ * (-0.75 * e * e / q)
			}
			return 0
		}
		return build("cubic-spline", 2.0, value, gradRatio)
	}

	// M5 B-spline (piecewise quartic), support radius 2.5
	allocators["fourth-order-spline"] = func() *Kernel {
		σ := 1.0 / (20.0 * math.Pi)
		value := func(q float64) float64 {
			w := 0.0
			if q < 2.5 {
				w += pow4(2.5 - q)
			}
			if q < 1.5 {
				w -= 5.0 * pow4(1.5-q)
			}
			if q < 0.5 {
				w += 10.0 * pow4(0.5-q)
			}
			return σ * w
		}
		gradRatio := func(q float64) float64 {
			if q == 0 {
				return 0
			}
			g := 0.0
			if q < 2.5 {
				g -= 4.0 * math.Pow(2.5-q, 3)
			}
			if q < 1.5 {
				g += 20.0 * math.Pow(1.5-q, 3)
			}
			if q < 0.5 {
				g -= 40.0 * math.Pow(0.5-q, 3)
			}
			return σ * g / q
		}
		k := build("fourth-order-spline", 2.5, value, gradRatio)
		// w'(0) = 0; take the q->0 limit of w'(q)/q from the next sample
		k.gLut[0] = k.gLut[1]
		return k
	}

	// truncated Gaussian, support radius 3
	allocators["gaussian"] = func() *Kernel {
		σ := 1.0 / math.Pow(math.Pi, 1.5)
		value := func(q float64) float64 {
			if q >= 3.0 {
				return 0
			}
			return σ * math.Exp(-q*q)
		}
		gradRatio := func(q float64) float64 {
			if q >= 3.0 {
				return 0
			}
			return σ * (-2.0) * math.Exp(-q*q)
		}
		k := build("gaussian", 3.0, value, gradRatio)
		// renormalize for the truncation
		k.normalize()
		return k
	}

	// Wendland C2, support radius 2
	allocators["wendland-c2"] = func() *Kernel {
		σ := 21.0 / (16.0 * math.Pi)
		value := func(q float64) float64 {
			if q >= 2.0 {
				return 0
			}
			e := 1.0 - 0.5*q
			return σ * pow4(e) * (2.0*q + 1.0)
		}
		gradRatio := func(q float64) float64 {
			if q >= 2.0 {
				return 0
			}
			e := 1.0 - 0.5*q
			// d/dq [e⁴(2q+1)] = -5 q e³
			return σ * (-5.0) * e * e * e
		}
		return build("wendland-c2", 2.0, value, gradRatio)
	}

	// Wendland C4, support radius 2
	allocators["wendland-c4"] = func() *Kernel {
		σ := 495.0 / (256.0 * math.Pi)
		value := func(q float64) float64 {
			if q >= 2.0 {
				return 0
			}
			e := 1.0 - 0.5*q
			e2 := e * e
			return σ * e2 * e2 * e2 * (35.0/12.0*q*q + 3.0*q + 1.0)
		}
		gradRatio := func(q float64) float64 {
			if q >= 2.0 {
				return 0
			}
			e := 1.0 - 0.5*q
			e2 := e * e
			// d/dq [e⁶ p(q)] / q with p = 35q²/12 + 3q + 1
			return σ * e2 * e2 * e * (-14.0/3.0) * (1.0 + 2.5*q)
		}
		return build("wendland-c4", 2.0, value, gradRatio)
	}

	// Wendland C6, support radius 2
	allocators["wendland-c6"] = func() *Kernel {
		σ := 1365.0 / (512.0 * math.Pi)
		value := func(q float64) float64 {
			if q >= 2.0 {
				return 0
			}
			e := 1.0 - 0.5*q
			e4 := pow4(e)
			return σ * e4 * e4 * (4.0*q*q*q + 6.25*q*q + 4.0*q + 1.0)
		}
		gradRatio := func(q float64) float64 {
			if q >= 2.0 {
				return 0
			}
			e := 1.0 - 0.5*q
			e4 := pow4(e)
			// d/dq [e⁸ p(q)] = -5.5 q e⁷ (4q² + 3.5q + 1)
			return σ * e4 * e * e * e * (-5.5) * (4.0*q*q + 3.5*q + 1.0)
		}
		return build("wendland-c6", 2.0, value, gradRatio)
	}

	// Core Triangle kernel by Read et al. (2010): cubic spline outside the
	// core radius, constant gradient inside; normalized numerically
	allocators["core-triangle"] = func() *Kernel {
		α := 2.0 / 3.0
		spline := func(q float64) float64 {
			if q < 1.0 {
				return 1.0 - 1.5*q*q + 0.75*q*q*q
			}
			if q < 2.0 {
				e := 2.0 - q
				return 0.25 * e * e * e
			}
			return 0
		}
		splineD := func(q float64) float64 {
			if q < 1.0 {
				return -3.0*q + 2.25*q*q
			}
			if q < 2.0 {
				e := 2.0 - q
				return -0.75 * e * e
			}
			return 0
		}
		wα := spline(α)
		dα := splineD(α)
		value := func(q float64) float64 {
			if q < α {
				// linear core with the spline's slope at alpha
				return wα + dα*(q-α)
			}
			return spline(q)
		}
		gradRatio := func(q float64) float64 {
			if q < α {
				if q == 0 {
					return 0
				}
				return dα / q
			}
			if q == 0 {
				return 0
			}
			return splineD(q) / q
		}
		k := build("core-triangle", 2.0, value, gradRatio)
		k.normalize()
		return k
	}
}
