// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eik

import (
	"errors"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

func Test_disp01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("disp01. out-of-grid points are rejected before computing")

	rt := cubeTracer(tst, nil)
	src := [][]float64{{2, 0, 0}}
	rcv := [][]float64{{1, 0, 0}}
	_, _, err := rt.Raytrace(src, rcv, &RunArgs{Slowness: ones(rt), ThreadNo: -1})
	if !errors.Is(err, ErrOutOfGrid) {
		tst.Errorf("ErrOutOfGrid expected. err=%v", err)
		return
	}

	src = [][]float64{{0, 0, 0}}
	rcv = [][]float64{{0.5, 0.5, -0.5}}
	_, _, err = rt.Raytrace(src, rcv, &RunArgs{Slowness: ones(rt), ThreadNo: -1})
	if !errors.Is(err, ErrOutOfGrid) {
		tst.Errorf("ErrOutOfGrid expected. err=%v", err)
	}
}

func Test_disp02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("disp02. size and thread validation")

	rt := cubeTracer(tst, nil)

	// pairwise mismatch
	src := [][]float64{{0, 0, 0}, {0, 0, 1}}
	rcv := [][]float64{{1, 0, 0}}
	_, _, err := rt.Raytrace(src, rcv, &RunArgs{Slowness: ones(rt), ThreadNo: -1})
	if !errors.Is(err, ErrWrongSize) {
		tst.Errorf("ErrWrongSize expected. err=%v", err)
		return
	}

	// wrong slowness length
	_, _, err = rt.Raytrace([][]float64{{0, 0, 0}}, rcv, &RunArgs{Slowness: []float64{1, 1}, ThreadNo: -1})
	if !errors.Is(err, ErrWrongSize) {
		tst.Errorf("ErrWrongSize expected. err=%v", err)
		return
	}

	// thread out of range
	_, _, err = rt.Raytrace([][]float64{{0, 0, 0}}, rcv, &RunArgs{Slowness: ones(rt), ThreadNo: 3})
	if !errors.Is(err, ErrThreadOutOfRange) {
		tst.Errorf("ErrThreadOutOfRange expected. err=%v", err)
	}
}

func Test_disp03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("disp03. parallel dispatch is deterministic")

	rt1 := gridTracer(tst, 2, func(o *Opts) { o.Nthreads = 1 })
	rt4 := gridTracer(tst, 2, func(o *Opts) { o.Nthreads = 4 })

	// 8 independent events, pairwise
	src := [][]float64{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1},
		{1, 1, 0}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
	}
	rcv := [][]float64{
		{0.5, 0.5, 0.5}, {0.5, 0.25, 0.5}, {0.25, 0.5, 0.75}, {0.75, 0.5, 0.25},
		{0.5, 0.5, 0.25}, {0.25, 0.25, 0.5}, {0.5, 0.75, 0.5}, {0.25, 0.75, 0.25},
	}

	tt1, _, err := rt1.Raytrace(src, rcv, &RunArgs{Slowness: ones(rt1), ThreadNo: -1})
	if err != nil {
		tst.Errorf("Raytrace failed:\n%v", err)
		return
	}
	tt4, _, err := rt4.Raytrace(src, rcv, &RunArgs{Slowness: ones(rt4), ThreadNo: -1})
	if err != nil {
		tst.Errorf("Raytrace failed:\n%v", err)
		return
	}

	// byte-identical results regardless of nthreads
	chk.Vector(tst, "tt", 0, tt4, tt1)

	// and identical across repeated calls
	tt4b, _, err := rt4.Raytrace(src, rcv, &RunArgs{Slowness: ones(rt4), ThreadNo: -1})
	if err != nil {
		tst.Errorf("Raytrace failed:\n%v", err)
		return
	}
	chk.Vector(tst, "tt (repeat)", 0, tt4b, tt4)
}

func Test_disp04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("disp04. aggregated sources form one compound wavefront")

	rt := gridTracer(tst, 2, nil)
	src := [][]float64{{0, 0, 0}, {1, 1, 1}}
	rcv := [][]float64{{0.5, 0.5, 0.5}, {1, 0, 0}, {0, 1, 1}}
	tt, _, err := rt.Raytrace(src, rcv, &RunArgs{Slowness: ones(rt), ThreadNo: -1, AggregateSrc: true})
	if err != nil {
		tst.Errorf("Raytrace failed:\n%v", err)
		return
	}
	chk.IntAssert(len(tt), 3)

	// the compound arrival is the minimum over individual sources
	for i, r := range rcv {
		ttA, _, errA := rt.Raytrace([][]float64{src[0]}, [][]float64{r}, &RunArgs{Slowness: ones(rt), ThreadNo: -1})
		ttB, _, errB := rt.Raytrace([][]float64{src[1]}, [][]float64{r}, &RunArgs{Slowness: ones(rt), ThreadNo: -1})
		if errA != nil || errB != nil {
			tst.Errorf("Raytrace failed:\n%v\n%v", errA, errB)
			return
		}
		chk.Scalar(tst, "T(min)", 1e-12, tt[i], utl.Min(ttA[0], ttB[0]))
	}
}

func Test_disp05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("disp05. explicit worker and traveltime field query")

	rt := gridTracer(tst, 2, func(o *Opts) { o.Nthreads = 2 })
	src := [][]float64{{0, 0, 0}}
	rcv := [][]float64{{1, 1, 1}}
	_, _, err := rt.Raytrace(src, rcv, &RunArgs{Slowness: ones(rt), ThreadNo: 1})
	if err != nil {
		tst.Errorf("Raytrace failed:\n%v", err)
		return
	}

	// worker 1 holds the field; worker 0 was never used
	tt, err := rt.TTField(1)
	if err != nil {
		tst.Errorf("TTField failed:\n%v", err)
		return
	}
	chk.IntAssert(len(tt), len(rt.G.Verts))
	chk.Scalar(tst, "T(origin vertex)", 1e-12, tt[0], 0.0)

	if _, err := rt.TTField(2); !errors.Is(err, ErrThreadOutOfRange) {
		tst.Errorf("ErrThreadOutOfRange expected. err=%v", err)
	}
}

func Test_disp06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("disp06. stop flag is reset at the start of each dispatch")

	rt := gridTracer(tst, 2, nil)
	rt.Stop()
	// the flag is reset at the start of each dispatch
	src := [][]float64{{0, 0, 0}}
	rcv := [][]float64{{1, 1, 1}}
	tt, _, err := rt.Raytrace(src, rcv, &RunArgs{Slowness: ones(rt), ThreadNo: -1})
	if err != nil {
		tst.Errorf("Raytrace failed after reset:\n%v", err)
		return
	}
	chk.IntAssert(len(tt), 1)
}
