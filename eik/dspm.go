// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eik

import (
	"sort"

	"github.com/hbueno/ttcr/geom"
	"github.com/hbueno/ttcr/mesh"
)

// overlay holds the tertiary nodes of one DSPM solve. It augments the
// base graph without mutating the mesh and is replaced on the next solve.
type overlay struct {
	base int           // number of base graph nodes
	pos  [][]float64   // overlay node positions
	slow []float64     // overlay node slowness (per-vertex fields only)
	edge []int         // owner edge of each overlay node
	e2n  map[int][]int // edge id => overlay node ids
}

func (o *overlay) nnodes() int { return len(o.pos) }

// faceNodes returns the base nodes of face fid plus the overlay nodes on
// its three edges
func (o *overlay) faceNodes(g *mesh.Mesh, fid int, base []int) []int {
	f := g.Faces[fid]
	out := make([]int, len(base), len(base)+3*len(o.e2n))
	copy(out, base)
	for _, eid := range f.Edges {
		out = append(out, o.e2n[eid]...)
	}
	return out
}

// cellNodes returns the base nodes of cell cid plus the overlay nodes on
// its six edges
func (o *overlay) cellNodes(g *mesh.Mesh, cid int, base []int) []int {
	c := g.Cells[cid]
	out := make([]int, len(base), len(base)+6*len(o.e2n))
	copy(out, base)
	for _, eid := range c.Edges {
		out = append(out, o.e2n[eid]...)
	}
	return out
}

// DSPM implements the dynamic shortest-path method: before the search,
// tertiary nodes are inserted on every edge of every cell whose centroid
// lies within RadiusTertiary of a source, densifying the graph where the
// wavefront curvature is strongest
type DSPM struct {
	*SPM
}

// register solver
func init() {
	allocators[DSPMKind] = func(g *mesh.Mesh, o *Opts, w int, stop *int32) Solver {
		return NewDSPM(g, o, w, stop)
	}
}

// NewDSPM allocates a dynamic shortest-path solver bound to worker w
func NewDSPM(g *mesh.Mesh, o *Opts, w int, stop *int32) *DSPM {
	return &DSPM{NewSPM(g, o, w, stop)}
}

// Solve builds the tertiary overlay around the sources and runs the
// shortest-path search on the enlarged graph. The overlay lives on this
// worker until the next solve.
func (o *DSPM) Solve(srcs []*Src) (err error) {
	o.ov = o.buildOverlay(srcs)
	return o.search(srcs)
}

// buildOverlay creates the tertiary nodes for the given sources
func (o *DSPM) buildOverlay(srcs []*Src) *overlay {

	// edges of all cells whose centroid is near a source
	eset := make(map[int]bool)
	for _, c := range o.g.Cells {
		cen := o.g.CellCentroid(c.Id)
		for _, src := range srcs {
			if geom.Dist(cen, src.X) <= o.o.RadiusTertiary {
				for _, eid := range c.Edges {
					eset[eid] = true
				}
				break
			}
		}
	}
	eids := make([]int, 0, len(eset))
	for eid := range eset {
		eids = append(eids, eid)
	}
	sort.Ints(eids)

	// tertiary nodes, interleaved with the secondary nodes
	ov := &overlay{base: o.g.Nnodes(), e2n: make(map[int][]int, len(eids))}
	nt := o.o.Ntertiary
	for _, eid := range eids {
		e := o.g.Edges[eid]
		a, b := o.g.Verts[e.A].C, o.g.Verts[e.B].C
		ids := make([]int, nt)
		for k := 0; k < nt; k++ {
			w := float64(2*k+1) / float64(2*(nt+1))
			p := make([]float64, 3)
			geom.PointOnSeg(p, a, b, w)
			ids[k] = ov.base + len(ov.pos)
			ov.pos = append(ov.pos, p)
			ov.edge = append(ov.edge, eid)
			if !o.g.CellSlowness && o.g.Slow != nil {
				ov.slow = append(ov.slow, tertSlow(o.g, e, w))
			}
		}
		ov.e2n[eid] = ids
	}
	return ov
}

// tertSlow interpolates the vertex slowness field at fraction w along
// edge e, honoring velocity interpolation
func tertSlow(g *mesh.Mesh, e *mesh.Edge, w float64) float64 {
	sa, sb := g.Slow[e.A], g.Slow[e.B]
	if g.InterpVel {
		return 1.0 / ((1-w)/sa + w/sb)
	}
	return (1-w)*sa + w*sb
}
