// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eik

import (
	"errors"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_table01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("table01. source table shapes")

	// 3 columns: implicit origin time
	srcs, err := ParseSrcTable([][]float64{{1, 2, 3}})
	if err != nil {
		tst.Errorf("ParseSrcTable failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "t0", 1e-15, srcs[0].T0, 0)
	chk.Vector(tst, "x", 1e-15, srcs[0].X, []float64{1, 2, 3})

	// 4 columns
	srcs, err = ParseSrcTable([][]float64{{7, 1, 2, 3}})
	if err != nil {
		tst.Errorf("ParseSrcTable failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "t0", 1e-15, srcs[0].T0, 7)

	// 5 columns: event id
	srcs, err = ParseSrcTable([][]float64{{4, 7, 1, 2, 3}})
	if err != nil {
		tst.Errorf("ParseSrcTable failed:\n%v", err)
		return
	}
	chk.IntAssert(srcs[0].Ev, 4)
	if !srcs[0].HasEv {
		tst.Errorf("event id flag not set")
	}

	// wrong shapes
	if _, err = ParseSrcTable([][]float64{{1, 2}}); !errors.Is(err, ErrWrongSize) {
		tst.Errorf("ErrWrongSize expected. err=%v", err)
	}
	if _, err = ParseSrcTable([][]float64{{1, 2, 3}, {1, 2, 3, 4}}); !errors.Is(err, ErrWrongSize) {
		tst.Errorf("ErrWrongSize expected. err=%v", err)
	}
	if _, err = ParseSrcTable(nil); !errors.Is(err, ErrWrongSize) {
		tst.Errorf("ErrWrongSize expected. err=%v", err)
	}
}

func Test_table02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("table02. event grouping rules")

	// event ids: rows pair 1:1 and group by id
	srcRows := [][]float64{
		{1, 0, 0.0, 0, 0},
		{1, 0, 0.1, 0, 0},
		{2, 5, 0.2, 0, 0},
		{1, 0, 0.0, 0, 0}, // repeated position within event 1
	}
	rcvRows := [][]float64{
		{1, 1, 0, 0},
		{1, 1, 1, 0},
		{2, 1, 1, 1},
		{1, 0, 1, 1},
	}
	srcs, err := ParseSrcTable(srcRows)
	if err != nil {
		tst.Errorf("ParseSrcTable failed:\n%v", err)
		return
	}
	rcvs, err := ParseRcvTable(rcvRows)
	if err != nil {
		tst.Errorf("ParseRcvTable failed:\n%v", err)
		return
	}
	events, err := GroupEvents(srcs, rcvs, false)
	if err != nil {
		tst.Errorf("GroupEvents failed:\n%v", err)
		return
	}
	chk.IntAssert(len(events), 2)
	chk.IntAssert(len(events[0].Srcs), 2) // union drops the repeated position
	chk.IntAssert(len(events[0].Rcvs), 3)
	chk.Ints(tst, "idx(ev1)", events[0].Idx, []int{0, 1, 3})
	chk.IntAssert(len(events[1].Srcs), 1)
	chk.Ints(tst, "idx(ev2)", events[1].Idx, []int{2})

	// mismatched receiver event id
	badRcv, _ := ParseRcvTable([][]float64{{9, 1, 0, 0}, {1, 1, 1, 0}, {2, 1, 1, 1}, {1, 0, 1, 1}})
	if _, err = GroupEvents(srcs, badRcv, false); !errors.Is(err, ErrWrongSize) {
		tst.Errorf("ErrWrongSize expected. err=%v", err)
	}

	// pairwise: unique source rows define events
	s2, _ := ParseSrcTable([][]float64{{0, 0, 0}, {0, 0, 1}, {0, 0, 0}})
	r2, _ := ParseRcvTable([][]float64{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}})
	events, err = GroupEvents(s2, r2, false)
	if err != nil {
		tst.Errorf("GroupEvents failed:\n%v", err)
		return
	}
	chk.IntAssert(len(events), 2)
	chk.Ints(tst, "idx(src0)", events[0].Idx, []int{0, 2})

	// aggregated: one event with every receiver
	events, err = GroupEvents(s2, r2, true)
	if err != nil {
		tst.Errorf("GroupEvents failed:\n%v", err)
		return
	}
	chk.IntAssert(len(events), 1)
	chk.IntAssert(len(events[0].Srcs), 2)
	chk.IntAssert(len(events[0].Rcvs), 3)
}

func Test_table03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("table03. options validation")

	o := DefaultOpts()
	o.Method = "FMM"
	if err := o.Validate(); !errors.Is(err, ErrUnknownMethod) {
		tst.Errorf("ErrUnknownMethod expected. err=%v", err)
	}

	o = DefaultOpts()
	o.GradMethod = 7
	if err := o.Validate(); !errors.Is(err, ErrIncompatibleOpts) {
		tst.Errorf("ErrIncompatibleOpts expected. err=%v", err)
	}

	o = DefaultOpts()
	o.TTfromRP = true // FSM cannot integrate along rays
	if err := o.Validate(); !errors.Is(err, ErrIncompatibleOpts) {
		tst.Errorf("ErrIncompatibleOpts expected. err=%v", err)
	}

	o = DefaultOpts()
	o.InterpVel = true // requires per-vertex slowness
	if err := o.Validate(); !errors.Is(err, ErrIncompatibleOpts) {
		tst.Errorf("ErrIncompatibleOpts expected. err=%v", err)
	}

	o = DefaultOpts()
	o.Method = SPMKind
	o.TTfromRP = true
	o.CellSlowness = true
	if err := o.Validate(); err != nil {
		tst.Errorf("valid options rejected:\n%v", err)
	}
}
