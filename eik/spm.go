// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eik

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/hbueno/ttcr/geom"
	"github.com/hbueno/ttcr/mesh"
)

// qitem is one entry of the priority queue
type qitem struct {
	t float64 // tentative traveltime
	n int     // node id; breaks ties for determinism
}

// minq is a min-heap of queue items keyed by (traveltime, node id)
type minq []qitem

func (q minq) Len() int { return len(q) }
func (q minq) Less(i, j int) bool {
	if q[i].t != q[j].t {
		return q[i].t < q[j].t
	}
	return q[i].n < q[j].n
}
func (q minq) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *minq) Push(x interface{}) { *q = append(*q, x.(qitem)) }
func (q *minq) Pop() (x interface{}) {
	old := *q
	n := len(old)
	x = old[n-1]
	*q = old[:n-1]
	return
}

// SPM implements the shortest-path method: primary vertices and secondary
// nodes form a weighted graph with an edge between any two nodes lying on
// the same tetrahedron face; a best-first search yields the traveltime at
// every node. Decrease-key is simulated by pushing duplicates and
// skipping stale pops.
type SPM struct {
	g    *mesh.Mesh    // shared mesh index
	o    *Opts         // configuration
	scr  *mesh.Scratch // this worker's scratch
	stop *int32        // shared stop flag
	q    minq          // priority queue, reused between solves
	ov   *overlay      // tertiary overlay (DSPM only); nil otherwise
}

// register solver
func init() {
	allocators[SPMKind] = func(g *mesh.Mesh, o *Opts, w int, stop *int32) Solver {
		return NewSPM(g, o, w, stop)
	}
}

// NewSPM allocates a shortest-path solver bound to worker w
func NewSPM(g *mesh.Mesh, o *Opts, w int, stop *int32) *SPM {
	return &SPM{g: g, o: o, scr: g.Scratch(w), stop: stop}
}

// Solve computes the traveltime field from the given sources
func (o *SPM) Solve(srcs []*Src) (err error) {
	o.ov = nil
	return o.search(srcs)
}

// search runs the best-first search over the base graph plus the overlay
func (o *SPM) search(srcs []*Src) (err error) {

	// initialize field
	nn := o.g.Nnodes()
	if o.ov != nil {
		nn += o.ov.nnodes()
	}
	o.scr.Reset(nn)
	tt, known := o.scr.TT, o.scr.Known
	o.q = o.q[:0]

	// seed all nodes of each source cell
	for _, src := range srcs {
		cid := src.Cid
		if cid < 0 {
			cid = o.g.Locate(src.X)
			if cid < 0 {
				return fmt.Errorf("%w: source at %v", ErrOutOfGrid, src.X)
			}
		}
		for _, n := range o.cellNodes(cid) {
			xn := o.nodePos(n)
			t := src.T0 + o.g.SegSlow(cid, src.X, xn)*geom.Dist(src.X, xn)
			if t < tt[n] {
				tt[n] = t
				heap.Push(&o.q, qitem{t, n})
			}
		}
	}

	// best-first search
	for o.q.Len() > 0 {
		if stopped(o.stop) {
			return fmt.Errorf("%w: shortest-path search interrupted", ErrCancelled)
		}
		it := heap.Pop(&o.q).(qitem)
		if known[it.n] {
			continue // stale entry
		}
		known[it.n] = true
		for _, fid := range o.nodeFaces(it.n) {
			for _, m := range o.faceNodes(fid) {
				if m == it.n || known[m] {
					continue
				}
				t := it.t + o.segWeight(fid, it.n, m)
				if t < tt[m] {
					tt[m] = t
					heap.Push(&o.q, qitem{t, m})
				}
			}
		}
	}
	return
}

// nodePos returns the position of a base or overlay node
func (o *SPM) nodePos(n int) []float64 {
	if o.ov != nil && n >= o.ov.base {
		return o.ov.pos[n-o.ov.base]
	}
	return o.g.NodePos(n)
}

// nodeFaces returns the faces a base or overlay node lies on
func (o *SPM) nodeFaces(n int) []int {
	if o.ov != nil && n >= o.ov.base {
		return o.g.Edges[o.ov.edge[n-o.ov.base]].Faces
	}
	return o.g.NodeFaces(n)
}

// faceNodes returns the nodes on a face, including overlay nodes on the
// face's edges
func (o *SPM) faceNodes(fid int) []int {
	base := o.g.FaceNodes(fid)
	if o.ov == nil {
		return base
	}
	return o.ov.faceNodes(o.g, fid, base)
}

// cellNodes returns the nodes on a cell, including overlay nodes
func (o *SPM) cellNodes(cid int) []int {
	base := o.g.CellNodes(cid)
	if o.ov == nil {
		return base
	}
	return o.ov.cellNodes(o.g, cid, base)
}

// segWeight returns the weight of the graph segment between nodes n and m
// on face fid
func (o *SPM) segWeight(fid, n, m int) float64 {
	d := geom.Dist(o.nodePos(n), o.nodePos(m))
	if o.g.CellSlowness {
		return d * o.g.FaceSlow(fid)
	}
	return d * (o.nodeSlow(n) + o.nodeSlow(m)) / 2.0
}

// nodeSlow returns the slowness at a base or overlay node
func (o *SPM) nodeSlow(n int) float64 {
	if o.ov != nil && n >= o.ov.base {
		return o.ov.slow[n-o.ov.base]
	}
	return o.g.NodeSlow(n)
}

// TT returns the traveltime at p inside cell cid: the minimum over the
// cell's nodes of the node arrival plus the straight segment to p
func (o *SPM) TT(p []float64, cid int) float64 {
	tt := o.scr.TT
	best := math.Inf(1)
	for _, n := range o.cellNodes(cid) {
		xn := o.nodePos(n)
		if t := tt[n] + o.g.SegSlow(cid, p, xn)*geom.Dist(p, xn); t < best {
			best = t
		}
	}
	return best
}

// Field returns the traveltimes at the primary vertices
func (o *SPM) Field() []float64 {
	return o.scr.TT[:len(o.g.Verts)]
}
