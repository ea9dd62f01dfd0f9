// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eik

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cpmech/gosl/io"

	"github.com/hbueno/ttcr/geom"
)

// RunArgs holds the per-call arguments of Raytrace
type RunArgs struct {
	Slowness     []float64 // optional slowness field installed before the run
	ThreadNo     int       // explicit worker id; -1 lets the dispatcher choose
	AggregateSrc bool      // treat all source rows as one compound source
	ReturnRays   bool      // compute and return raypaths
}

// DefaultRunArgs returns run arguments with default values
func DefaultRunArgs() *RunArgs {
	return &RunArgs{ThreadNo: -1}
}

// Raytrace computes first-arrival traveltimes (and optionally raypaths)
// at the receivers. Source rows have 3, 4 or 5 columns and receiver rows
// 3 or 4 (see ParseSrcTable/ParseRcvTable). Outputs are indexed by
// receiver row. A wrapped ErrConvergence or ErrRaytrace is returned as a
// warning alongside usable results; a wrapped ErrCancelled reports a
// dispatch stopped by Stop, with the results of completed events kept;
// every other error aborts before any computation begins.
func (o *RayTracer) Raytrace(srcRows, rcvRows [][]float64, args *RunArgs) (tt []float64, rays [][][]float64, err error) {

	// arguments
	if args == nil {
		args = DefaultRunArgs()
	}
	atomic.StoreInt32(&o.stop, 0)

	// slowness
	if args.Slowness != nil {
		err = o.SetSlowness(args.Slowness)
		if err != nil {
			return
		}
	}
	if o.G.Slow == nil {
		err = fmt.Errorf("%w: slowness field has not been set", ErrWrongSize)
		return
	}

	// input conversion
	srcs, err := ParseSrcTable(srcRows)
	if err != nil {
		return
	}
	rcvs, err := ParseRcvTable(rcvRows)
	if err != nil {
		return
	}

	// locate all points before any computation
	for i, s := range srcs {
		s.Cid = o.G.Locate(s.X)
		if s.Cid < 0 {
			err = fmt.Errorf("%w: source %d at (%g,%g,%g)", ErrOutOfGrid, i, s.X[0], s.X[1], s.X[2])
			return
		}
	}
	for i, r := range rcvs {
		r.Cid = o.G.Locate(r.X)
		if r.Cid < 0 {
			err = fmt.Errorf("%w: receiver %d at (%g,%g,%g)", ErrOutOfGrid, i, r.X[0], r.X[1], r.X[2])
			return
		}
	}

	// grouping
	if args.AggregateSrc && o.O.Method == DSPMKind {
		err = fmt.Errorf("%w: DSPM cannot aggregate sources; tertiary nodes are keyed to a single source location", ErrIncompatibleOpts)
		return
	}
	events, err := GroupEvents(srcs, rcvs, args.AggregateSrc)
	if err != nil {
		return
	}

	// explicit worker
	if args.ThreadNo >= o.O.Nthreads {
		err = fmt.Errorf("%w: thread_no=%d. nthreads=%d", ErrThreadOutOfRange, args.ThreadNo, o.O.Nthreads)
		return
	}

	// results
	tt = make([]float64, len(rcvs))
	if args.ReturnRays {
		rays = make([][][]float64, len(rcvs))
	}

	// dispatch: sequential on the caller when an explicit worker is
	// requested, the pool has one worker, or there are fewer events than
	// workers; otherwise contiguous blocks of events across the pool
	nev := len(events)
	if args.ThreadNo >= 0 || o.O.Nthreads == 1 || nev < o.O.Nthreads {
		w := 0
		if args.ThreadNo >= 0 {
			w = args.ThreadNo
		}
		err = o.combine(o.runEvents(events, w, tt, rays, args.ReturnRays))
		return
	}
	nb := o.O.Nthreads
	chunk := (nev + nb - 1) / nb
	errsPerBlock := make([][]error, nb)
	var wg sync.WaitGroup
	for w := 0; w < nb; w++ {
		lo := w * chunk
		hi := lo + chunk
		if lo >= nev {
			break
		}
		if hi > nev {
			hi = nev
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			errsPerBlock[w] = o.runEvents(events[lo:hi], w, tt, rays, args.ReturnRays)
		}(w, lo, hi)
	}
	wg.Wait()
	var all []error
	for _, errs := range errsPerBlock {
		all = append(all, errs...)
	}
	err = o.combine(all)
	return
}

// runEvents solves a block of events on one worker and returns the
// warnings and errors collected. Output slices are written at disjoint
// receiver indices, so blocks never race.
func (o *RayTracer) runEvents(events []*Event, w int, tt []float64, rays [][][]float64, returnRays bool) (errs []error) {
	sol := o.solvers[w]
	for ie, e := range events {
		if stopped(&o.stop) {
			errs = append(errs, fmt.Errorf("%w: %d events pending", ErrCancelled, len(events)-ie))
			return
		}
		serr := sol.Solve(e.Srcs)
		if serr != nil {
			errs = append(errs, serr)
			if !errors.Is(serr, ErrConvergence) {
				continue // field unusable; receivers keep zero traveltimes
			}
		}
		if o.Verbose {
			io.Pf("event %d: %d sources, %d receivers (worker %d)\n", ie, len(e.Srcs), len(e.Rcvs), w)
		}
		field := sol.Field()
		for j, r := range e.Rcvs {
			gi := e.Idx[j]
			tt[gi] = sol.TT(r.X, r.Cid)
			if !returnRays && !o.O.TTfromRP {
				continue
			}
			ray, rerr := o.tracer.Trace(r, e.Srcs, field)
			if rerr != nil {
				// the traveltime survives a raytracing failure
				errs = append(errs, fmt.Errorf("receiver %d: %w", gi, rerr))
				ray = nil
			} else if o.O.TTfromRP {
				tt[gi] = o.tracer.Integrate(ray, rayT0(ray, e.Srcs, o.O.MinDist))
			}
			if returnRays {
				if ray == nil {
					ray = [][]float64{}
				}
				rays[gi] = ray
			}
		}
	}
	return
}

// rayT0 returns the origin time of the source the ray terminated at
func rayT0(ray [][]float64, srcs []*Src, tol float64) float64 {
	end := ray[len(ray)-1]
	t0 := srcs[0].T0
	for _, s := range srcs {
		if geom.Dist(end, s.X) <= tol {
			return s.T0
		}
	}
	return t0
}

// combine reduces the collected errors: a cancellation dominates, then
// the first hard failure, then the first warning; warnings never mask
// the computed results
func (o *RayTracer) combine(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	var warn, hard error
	for _, e := range errs {
		switch {
		case errors.Is(e, ErrCancelled):
			return e
		case errors.Is(e, ErrConvergence) || errors.Is(e, ErrRaytrace):
			if warn == nil {
				warn = e
			}
		default:
			if hard == nil {
				hard = e
			}
		}
	}
	if hard != nil {
		return hard
	}
	return warn
}
