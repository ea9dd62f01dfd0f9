// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eik

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/hbueno/ttcr/mesh"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// flatten converts fixture arrays into the boundary format of New
func flatten(verts [][]float64, cells [][]int) (xyz []float64, tets []int32) {
	for _, c := range verts {
		xyz = append(xyz, c...)
	}
	for _, vids := range cells {
		for _, v := range vids {
			tets = append(tets, int32(v))
		}
	}
	return
}

// cubeTracer builds a RayTracer on the five-tetrahedra unit cube
func cubeTracer(tst *testing.T, mods func(o *Opts)) *RayTracer {
	verts, cells := mesh.FiveTetCube()
	xyz, tets := flatten(verts, cells)
	opts := DefaultOpts()
	if mods != nil {
		mods(opts)
	}
	rt, err := New(xyz, tets, opts)
	if err != nil {
		tst.Fatalf("New failed:\n%v", err)
	}
	return rt
}

// gridTracer builds a RayTracer on the n*n*n Kuhn-subdivided unit cube
func gridTracer(tst *testing.T, n int, mods func(o *Opts)) *RayTracer {
	verts, cells := mesh.CubeGrid(n)
	xyz, tets := flatten(verts, cells)
	opts := DefaultOpts()
	if mods != nil {
		mods(opts)
	}
	rt, err := New(xyz, tets, opts)
	if err != nil {
		tst.Fatalf("New failed:\n%v", err)
	}
	return rt
}

// ones returns a homogeneous slowness field of the right length
func ones(rt *RayTracer) []float64 {
	s := make([]float64, rt.Nparams())
	for i := range s {
		s[i] = 1.0
	}
	return s
}

// layeredSlowness returns a per-cell field with slowness supper above
// z=zint (by cell centroid) and slower below
func layeredSlowness(rt *RayTracer, supper, slower, zint float64) []float64 {
	s := make([]float64, len(rt.G.Cells))
	for i := range s {
		if rt.G.CellCentroid(i)[2] > zint {
			s[i] = supper
		} else {
			s[i] = slower
		}
	}
	return s
}
