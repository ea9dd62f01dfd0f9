// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eik

import "fmt"

// Src is one source point: an origin time, a position and an optional
// event identifier grouping it with other sources into one wavefront
type Src struct {
	Ev    int       // event id
	HasEv bool      // event id given in the input table
	T0    float64   // origin time
	X     []float64 // position
	Cid   int       // containing cell, filled during validation
}

// Rcv is one receiver point with an optional event identifier pairing it
// to a source group
type Rcv struct {
	Ev    int       // event id
	HasEv bool      // event id given in the input table
	X     []float64 // position
	Cid   int       // containing cell, filled during validation
}

// Event is one independent solve: a set of sources collectively defining
// one wavefront and the receivers recording it. Events are the unit of
// parallelism.
type Event struct {
	Srcs []*Src // sources (union of positions)
	Rcvs []*Rcv // receivers recording this event
	Idx  []int  // row of each receiver in the input table
}

// ParseSrcTable converts a numeric source table into typed records.
// Accepted row shapes:
//
//	3 columns: (x, y, z) with implicit origin time 0
//	4 columns: (t0, x, y, z)
//	5 columns: (event_id, t0, x, y, z)
func ParseSrcTable(rows [][]float64) (srcs []*Src, err error) {
	if len(rows) < 1 {
		return nil, fmt.Errorf("%w: source table is empty", ErrWrongSize)
	}
	ncol := len(rows[0])
	if ncol < 3 || ncol > 5 {
		return nil, fmt.Errorf("%w: source rows must have 3, 4 or 5 columns. %d is invalid", ErrWrongSize, ncol)
	}
	srcs = make([]*Src, len(rows))
	for i, row := range rows {
		if len(row) != ncol {
			return nil, fmt.Errorf("%w: source row %d has %d columns. %d expected", ErrWrongSize, i, len(row), ncol)
		}
		s := &Src{Cid: -1}
		switch ncol {
		case 3:
			s.X = []float64{row[0], row[1], row[2]}
		case 4:
			s.T0 = row[0]
			s.X = []float64{row[1], row[2], row[3]}
		case 5:
			s.Ev = int(row[0])
			s.HasEv = true
			s.T0 = row[1]
			s.X = []float64{row[2], row[3], row[4]}
		}
		srcs[i] = s
	}
	return
}

// ParseRcvTable converts a numeric receiver table into typed records.
// Accepted row shapes:
//
//	3 columns: (x, y, z)
//	4 columns: (event_id, x, y, z)
func ParseRcvTable(rows [][]float64) (rcvs []*Rcv, err error) {
	if len(rows) < 1 {
		return nil, fmt.Errorf("%w: receiver table is empty", ErrWrongSize)
	}
	ncol := len(rows[0])
	if ncol < 3 || ncol > 4 {
		return nil, fmt.Errorf("%w: receiver rows must have 3 or 4 columns. %d is invalid", ErrWrongSize, ncol)
	}
	rcvs = make([]*Rcv, len(rows))
	for i, row := range rows {
		if len(row) != ncol {
			return nil, fmt.Errorf("%w: receiver row %d has %d columns. %d expected", ErrWrongSize, i, len(row), ncol)
		}
		r := &Rcv{Cid: -1}
		switch ncol {
		case 3:
			r.X = []float64{row[0], row[1], row[2]}
		case 4:
			r.Ev = int(row[0])
			r.HasEv = true
			r.X = []float64{row[1], row[2], row[3]}
		}
		rcvs[i] = r
	}
	return
}

// srcKey identifies identical source rows for grouping
type srcKey struct {
	t0, x, y, z float64
}

// GroupEvents groups source and receiver rows into independent events.
// With event ids, rows sharing an id form one event whose sources are the
// union of their positions and whose receivers are the rows paired 1:1.
// With aggregate, all sources form one compound wavefront recorded by all
// receivers. Otherwise each unique source row defines its own event and
// rows pair 1:1 by index, which requires equal counts.
func GroupEvents(srcs []*Src, rcvs []*Rcv, aggregate bool) (events []*Event, err error) {

	// event ids given: pairwise rows grouped by id
	if srcs[0].HasEv {
		if len(srcs) != len(rcvs) {
			return nil, fmt.Errorf("%w: event tables require one receiver per source row. %d != %d", ErrWrongSize, len(srcs), len(rcvs))
		}
		ev2idx := make(map[int]int)
		for i, s := range srcs {
			r := rcvs[i]
			if r.HasEv && r.Ev != s.Ev {
				return nil, fmt.Errorf("%w: receiver row %d has event id %d. %d expected", ErrWrongSize, i, r.Ev, s.Ev)
			}
			j, ok := ev2idx[s.Ev]
			if !ok {
				j = len(events)
				ev2idx[s.Ev] = j
				events = append(events, new(Event))
			}
			e := events[j]
			e.Srcs = appendUniqueSrc(e.Srcs, s)
			e.Rcvs = append(e.Rcvs, r)
			e.Idx = append(e.Idx, i)
		}
		return
	}

	// aggregated sources: one compound wavefront, all receivers
	if aggregate {
		e := new(Event)
		for _, s := range srcs {
			e.Srcs = appendUniqueSrc(e.Srcs, s)
		}
		for i, r := range rcvs {
			e.Rcvs = append(e.Rcvs, r)
			e.Idx = append(e.Idx, i)
		}
		return []*Event{e}, nil
	}

	// pairwise: each unique source row defines its own event
	if len(srcs) != len(rcvs) {
		return nil, fmt.Errorf("%w: pairwise grouping requires equal source and receiver counts. %d != %d", ErrWrongSize, len(srcs), len(rcvs))
	}
	key2idx := make(map[srcKey]int)
	for i, s := range srcs {
		key := srcKey{s.T0, s.X[0], s.X[1], s.X[2]}
		j, ok := key2idx[key]
		if !ok {
			j = len(events)
			key2idx[key] = j
			events = append(events, &Event{Srcs: []*Src{s}})
		}
		e := events[j]
		e.Rcvs = append(e.Rcvs, rcvs[i])
		e.Idx = append(e.Idx, i)
	}
	return
}

// appendUniqueSrc appends s unless an identical source is present already
func appendUniqueSrc(list []*Src, s *Src) []*Src {
	for _, q := range list {
		if q.T0 == s.T0 && q.X[0] == s.X[0] && q.X[1] == s.X[1] && q.X[2] == s.X[2] {
			return list
		}
	}
	return append(list, s)
}
