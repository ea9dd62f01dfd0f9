// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eik

import (
	"fmt"
	"math"
	"sort"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"

	"github.com/hbueno/ttcr/geom"
	"github.com/hbueno/ttcr/mesh"
)

// FSM implements the fast sweeping method over primary vertices. Each
// pass visits the vertices in 8 alternating orderings, updating every
// vertex from its incident tetrahedra by solving the local planar eikonal
// with edge and vertex fallbacks.
type FSM struct {
	g    *mesh.Mesh    // shared mesh index
	o    *Opts         // configuration
	scr  *mesh.Scratch // this worker's scratch
	stop *int32        // shared stop flag
	ord  [8][]int      // vertex orderings, sorted by ±x±y±z
}

// register solver
func init() {
	allocators[FSMKind] = func(g *mesh.Mesh, o *Opts, w int, stop *int32) Solver {
		return NewFSM(g, o, w, stop)
	}
}

// NewFSM allocates a fast sweeping solver bound to worker w
func NewFSM(g *mesh.Mesh, o *Opts, w int, stop *int32) (s *FSM) {
	s = &FSM{g: g, o: o, scr: g.Scratch(w), stop: stop}
	nv := len(g.Verts)
	for k := 0; k < 8; k++ {
		sx := 1.0 - 2.0*float64(k&1)
		sy := 1.0 - 2.0*float64((k>>1)&1)
		sz := 1.0 - 2.0*float64((k>>2)&1)
		idx := utl.IntRange(nv)
		sort.SliceStable(idx, func(i, j int) bool {
			a, b := g.Verts[idx[i]].C, g.Verts[idx[j]].C
			return sx*a[0]+sy*a[1]+sz*a[2] < sx*b[0]+sy*b[1]+sz*b[2]
		})
		s.ord[k] = idx
	}
	return
}

// Solve computes the traveltime field from the given sources
func (o *FSM) Solve(srcs []*Src) (err error) {

	// initialize field and seed source cells
	o.scr.Reset(len(o.g.Verts))
	tt := o.scr.TT
	for _, src := range srcs {
		cid := src.Cid
		if cid < 0 {
			cid = o.g.Locate(src.X)
			if cid < 0 {
				return fmt.Errorf("%w: source at %v", ErrOutOfGrid, src.X)
			}
		}
		for _, vid := range o.g.Cells[cid].Verts {
			xv := o.g.Verts[vid].C
			t := src.T0 + o.g.SegSlow(cid, src.X, xv)*geom.Dist(src.X, xv)
			if t < tt[vid] {
				tt[vid] = t
			}
		}
	}

	// sweep passes
	for it := 1; it <= o.o.Maxit; it++ {
		maxdiff := 0.0
		for k := 0; k < 8; k++ {
			for _, v := range o.ord[k] {
				if diff := o.update(v); diff > maxdiff {
					maxdiff = diff
				}
			}
		}
		if stopped(o.stop) {
			return fmt.Errorf("%w: fast sweeping interrupted", ErrCancelled)
		}
		if o.o.Verbose {
			io.Pf("fsm: pass %d: maxdiff = %g\n", it, maxdiff)
		}
		if maxdiff <= o.o.Eps {
			return nil
		}
	}
	return fmt.Errorf("%w: fast sweeping did not reach eps=%g within %d passes", ErrConvergence, o.o.Eps, o.o.Maxit)
}

// update applies the local traveltime update at vertex v and returns the
// decrease achieved (zero if no candidate improves the current value)
func (o *FSM) update(v int) (diff float64) {
	tt := o.scr.TT
	best := tt[v]
	for _, cid := range o.g.Verts[v].Cells {
		var oth [3]int
		k := 0
		for _, vid := range o.g.Cells[cid].Verts {
			if vid != v {
				oth[k] = vid
				k++
			}
		}
		if t := o.updateTet(v, oth, cid); t < best {
			best = t
		}
	}
	if best < tt[v] {
		diff = tt[v] - best
		if math.IsInf(diff, 1) {
			diff = best // first finite value at this vertex
		}
		tt[v] = best
	}
	return
}

// updateTet computes the candidate traveltime at v from one incident
// tetrahedron with remaining vertices oth. The planar face update is
// tried first; when its characteristic misses the face, the edge and
// vertex subproblems take over. Per-vertex fields interpolate the
// slowness over the nodes involved in each subproblem.
func (o *FSM) updateTet(v int, oth [3]int, cid int) (cand float64) {
	tt := o.scr.TT
	xv := o.g.Verts[v].C
	cand = math.Inf(1)

	xa, xb, xc := o.g.Verts[oth[0]].C, o.g.Verts[oth[1]].C, o.g.Verts[oth[2]].C
	ta, tb, tc := tt[oth[0]], tt[oth[1]], tt[oth[2]]
	fa, fb, fc := !math.IsInf(ta, 1), !math.IsInf(tb, 1), !math.IsInf(tc, 1)

	// slowness of each subproblem
	s := o.g.TetSlow(cid)
	sab, sac, sbc := s, s, s
	sa, sb, sc := s, s, s
	if !o.g.CellSlowness {
		sab = o.g.MeanSlow(v, oth[0], oth[1])
		sac = o.g.MeanSlow(v, oth[0], oth[2])
		sbc = o.g.MeanSlow(v, oth[1], oth[2])
		sa = o.g.MeanSlow(v, oth[0])
		sb = o.g.MeanSlow(v, oth[1])
		sc = o.g.MeanSlow(v, oth[2])
	}

	// planar face update
	if fa && fb && fc {
		if t, ok := faceUpdate(xv, xa, xb, xc, ta, tb, tc, s, o.g.Btol); ok && t < cand {
			cand = t
		}
	}

	// edge updates
	if fa && fb {
		if t, ok := edgeUpdate(xv, xa, xb, ta, tb, sab); ok && t < cand {
			cand = t
		}
	}
	if fa && fc {
		if t, ok := edgeUpdate(xv, xa, xc, ta, tc, sac); ok && t < cand {
			cand = t
		}
	}
	if fb && fc {
		if t, ok := edgeUpdate(xv, xb, xc, tb, tc, sbc); ok && t < cand {
			cand = t
		}
	}

	// vertex updates
	if fa {
		if t := ta + sa*geom.Dist(xv, xa); t < cand {
			cand = t
		}
	}
	if fb {
		if t := tb + sb*geom.Dist(xv, xb); t < cand {
			cand = t
		}
	}
	if fc {
		if t := tc + sc*geom.Dist(xv, xc); t < cand {
			cand = t
		}
	}
	return
}

// faceUpdate solves the three-dimensional upwind triangle update: find
// the planar wavefront consistent with the arrivals at (a,b,c) and
// slowness s, and propagate it to v. The update is valid only when the
// characteristic from v crosses the triangle.
func faceUpdate(xv, xa, xb, xc []float64, ta, tb, tc, s, tol float64) (t float64, ok bool) {
	var e1, e2, n, gt, g, va [3]float64
	geom.Sub(e1[:], xb, xa)
	geom.Sub(e2[:], xc, xa)
	dT1, dT2 := tb-ta, tc-ta

	// tangential gradient from the two directional derivatives
	g11 := geom.Dot(e1[:], e1[:])
	g12 := geom.Dot(e1[:], e2[:])
	g22 := geom.Dot(e2[:], e2[:])
	det := g11*g22 - g12*g12
	if det < geom.MINDET {
		return 0, false
	}
	p := (g22*dT1 - g12*dT2) / det
	q := (g11*dT2 - g12*dT1) / det
	for i := 0; i < 3; i++ {
		gt[i] = p*e1[i] + q*e2[i]
	}

	// normal component from the eikonal constraint
	λ2 := s*s - geom.Dot(gt[:], gt[:])
	if λ2 < 0 {
		return 0, false
	}
	if !geom.TriUnitNormal(n[:], xa, xb, xc) {
		return 0, false
	}
	geom.Sub(va[:], xv, xa)
	h := geom.Dot(n[:], va[:])
	if h < 0 {
		h = -h
		n[0], n[1], n[2] = -n[0], -n[1], -n[2]
	}
	λ := math.Sqrt(λ2)
	if λ < geom.MINDET {
		return 0, false
	}
	for i := 0; i < 3; i++ {
		g[i] = gt[i] + λ*n[i]
	}

	// characteristic must cross the triangle
	μ := h / λ
	w1, w2 := 0.0, 0.0
	for i := 0; i < 3; i++ {
		d := va[i] - μ*g[i] // foot of the characteristic, relative to xa
		w1 += d * e1[i]
		w2 += d * e2[i]
	}
	α := (g22*w1 - g12*w2) / det
	β := (g11*w2 - g12*w1) / det
	if α < -tol || β < -tol || α+β > 1+tol {
		return 0, false
	}
	return ta + geom.Dot(g[:], va[:]), true
}

// edgeUpdate solves the two-dimensional subproblem on edge (a,b): the
// point ξ along the edge minimizing the arrival at v. Valid only when
// the minimum lies strictly inside the edge; the endpoints are handled
// by the vertex updates.
func edgeUpdate(xv, xa, xb []float64, ta, tb, s float64) (t float64, ok bool) {
	var u, e [3]float64
	geom.Sub(u[:], xv, xa)
	geom.Sub(e[:], xb, xa)
	L2 := geom.Dot(e[:], e[:])
	if L2 < geom.MINDET {
		return 0, false
	}
	w := geom.Dot(e[:], u[:])
	dT := tb - ta
	U := geom.Dot(u[:], u[:]) - w*w/L2 // squared distance from v to the edge line
	if U < 0 {
		U = 0
	}
	k := s*s*L2 - dT*dT
	if k < geom.MINDET {
		return 0, false
	}
	q := dT * math.Sqrt(U*L2/k)
	ξ := (w - q) / L2
	if ξ <= 0 || ξ >= 1 {
		return 0, false
	}
	r := math.Sqrt(U + q*q/L2)
	return ta + ξ*dT + s*r, true
}

// TT returns the traveltime at p inside cell cid by barycentric
// interpolation of the vertex field
func (o *FSM) TT(p []float64, cid int) float64 {
	var λ [4]float64
	if !o.g.Bary(λ[:], cid, p) {
		return math.Inf(1)
	}
	tt := o.scr.TT
	c := o.g.Cells[cid]
	t := 0.0
	for i, vid := range c.Verts {
		t += λ[i] * tt[vid]
	}
	return t
}

// Field returns the traveltimes at the primary vertices
func (o *FSM) Field() []float64 {
	return o.scr.TT[:len(o.g.Verts)]
}
