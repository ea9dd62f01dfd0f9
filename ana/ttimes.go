// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions for first-arrival
// traveltimes in simple media, used to verify the numerical solvers
package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Homogeneous computes traveltimes in a medium of constant slowness
type Homogeneous struct {
	S  float64 // slowness
	T0 float64 // origin time
}

// Traveltime returns the first arrival from src to rcv
func (o Homogeneous) Traveltime(src, rcv []float64) float64 {
	return o.T0 + o.S*dist(src, rcv)
}

// Layered computes straight-ray traveltimes in a two-layer medium split
// by the horizontal plane z = Zint: slowness Supper above and Slower
// below. Exact for normal incidence; for oblique paths it returns the
// straight-ray time, an upper bound on the first arrival.
type Layered struct {
	Supper float64 // slowness above the interface
	Slower float64 // slowness below the interface
	Zint   float64 // interface elevation
	T0     float64 // origin time
}

// Traveltime returns the straight-ray time from src to rcv
func (o Layered) Traveltime(src, rcv []float64) float64 {
	d := dist(src, rcv)
	za, zb := src[2], rcv[2]
	if za < zb {
		za, zb = zb, za
	}
	switch {
	case zb >= o.Zint: // entirely above
		return o.T0 + o.Supper*d
	case za <= o.Zint: // entirely below
		return o.T0 + o.Slower*d
	}
	if math.Abs(za-zb) < 1e-15 {
		chk.Panic("layered medium: cannot split a horizontal segment crossing the interface")
	}
	w := (za - o.Zint) / (za - zb) // fraction of the segment above the interface
	return o.T0 + o.Supper*w*d + o.Slower*(1-w)*d
}

func dist(a, b []float64) float64 {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	dz := b[2] - a[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
