// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eik

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/hbueno/ttcr/ana"
	"github.com/hbueno/ttcr/geom"
)

func Test_spm01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("spm01. homogeneous cube: straight arrival")

	rt := cubeTracer(tst, func(o *Opts) {
		o.Method = SPMKind
		o.Nsecondary = 2
	})
	src := [][]float64{{0, 0, 0}}
	rcv := [][]float64{{1, 0, 0}}
	tt, _, err := rt.Raytrace(src, rcv, &RunArgs{Slowness: ones(rt), ThreadNo: -1})
	if err != nil {
		tst.Errorf("Raytrace failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "T", 0.01, tt[0], 1.0)
}

func Test_spm02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("spm02. homogeneous grid against the analytical solution")

	rt := gridTracer(tst, 3, func(o *Opts) {
		o.Method = SPMKind
		o.Nsecondary = 2
	})
	sol := ana.Homogeneous{S: 1}
	s := []float64{0, 0, 0}
	src := [][]float64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}
	rcv := [][]float64{{1, 1, 1}, {1, 0.5, 0.5}, {0.5, 1, 0}}
	tt, _, err := rt.Raytrace(src, rcv, &RunArgs{Slowness: ones(rt), ThreadNo: -1})
	if err != nil {
		tst.Errorf("Raytrace failed:\n%v", err)
		return
	}
	for i, r := range rcv {
		exact := sol.Traveltime(s, r)
		if tt[i] < exact-1e-12 {
			tst.Errorf("shortest-path arrival below the physical first arrival: %v < %v", tt[i], exact)
			return
		}
		chk.Scalar(tst, io.Sf("T%d", i), 0.06, tt[i], exact)
	}
}

func Test_spm03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("spm03. layered medium: vertical transmission")

	rt := gridTracer(tst, 4, func(o *Opts) {
		o.Method = SPMKind
		o.Nsecondary = 2
	})
	slow := layeredSlowness(rt, 1.0, 2.0, 0.5)
	src := [][]float64{{0.5, 0.5, 1.0}}
	rcv := [][]float64{{0.5, 0.5, 0.0}}
	tt, _, err := rt.Raytrace(src, rcv, &RunArgs{Slowness: slow, ThreadNo: -1})
	if err != nil {
		tst.Errorf("Raytrace failed:\n%v", err)
		return
	}
	sol := ana.Layered{Supper: 1, Slower: 2, Zint: 0.5}
	chk.Scalar(tst, "T", 0.05, tt[0], sol.Traveltime([]float64{0.5, 0.5, 1}, []float64{0.5, 0.5, 0}))
}

func Test_spm04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("spm04. triangle inequality between receivers")

	rt := gridTracer(tst, 3, func(o *Opts) {
		o.Method = SPMKind
		o.Nsecondary = 2
	})
	src := [][]float64{{0.1, 0.1, 0.1}, {0.1, 0.1, 0.1}, {0.1, 0.1, 0.1}}
	rcv := [][]float64{{1, 0, 0}, {1, 1, 0}, {0.5, 0.9, 0.7}}
	tt, _, err := rt.Raytrace(src, rcv, &RunArgs{Slowness: ones(rt), ThreadNo: -1})
	if err != nil {
		tst.Errorf("Raytrace failed:\n%v", err)
		return
	}
	smax := 1.0
	slack := 0.03 // discretization error of the graph
	for i := range rcv {
		for j := range rcv {
			if i == j {
				continue
			}
			d := geom.Dist(rcv[i], rcv[j])
			if tt[i] > tt[j]+smax*d+slack {
				tst.Errorf("triangle inequality violated: T%d=%v > T%d=%v + %v", i, tt[i], j, tt[j], smax*d)
				return
			}
		}
	}
}

func Test_spm05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("spm05. per-vertex slowness field")

	rt := cubeTracer(tst, func(o *Opts) {
		o.Method = SPMKind
		o.Nsecondary = 2
		o.CellSlowness = false
	})
	src := [][]float64{{0, 0, 0}}
	rcv := [][]float64{{1, 0, 0}}
	tt, _, err := rt.Raytrace(src, rcv, &RunArgs{Slowness: ones(rt), ThreadNo: -1})
	if err != nil {
		tst.Errorf("Raytrace failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "T", 0.01, tt[0], 1.0)
}
