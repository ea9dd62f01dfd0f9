// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eik

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/hbueno/ttcr/geom"
	"github.com/hbueno/ttcr/mesh"
)

// Tracer reconstructs raypaths by walking against the gradient of a
// converged traveltime field, from a receiver back to a source. It is
// stateless and safe for concurrent use by multiple workers.
type Tracer struct {
	g *mesh.Mesh // shared mesh index
	o *Opts      // configuration
}

// NewTracer allocates a raypath backtracer
func NewTracer(g *mesh.Mesh, o *Opts) *Tracer {
	return &Tracer{g: g, o: o}
}

// Trace walks from the receiver against the traveltime gradient until a
// source is reached. tt is the converged field at the primary vertices.
// The returned polyline starts at the receiver and ends at the source.
func (o *Tracer) Trace(rcv *Rcv, srcs []*Src, tt []float64) (path [][]float64, err error) {

	// start at the receiver
	cid := rcv.Cid
	if cid < 0 {
		cid = o.g.Locate(rcv.X)
		if cid < 0 {
			return nil, fmt.Errorf("%w: receiver at %v", ErrOutOfGrid, rcv.X)
		}
	}
	p := []float64{rcv.X[0], rcv.X[1], rcv.X[2]}
	path = append(path, []float64{p[0], p[1], p[2]})

	maxSteps := 2*len(o.g.Cells) + 100
	for step := 0; step < maxSteps; step++ {

		// terminate when the current cell holds a source or the walk is
		// within the termination tolerance of one
		for _, src := range srcs {
			if geom.Dist(p, src.X) <= o.o.MinDist || o.g.CellContains(cid, src.X) {
				path = append(path, []float64{src.X[0], src.X[1], src.X[2]})
				return path, nil
			}
		}

		// local gradient
		grad, ok := o.grad(cid, p, tt)
		if !ok {
			return nil, fmt.Errorf("%w: gradient vanished at %v", ErrRaytrace, p)
		}
		nrm := math.Sqrt(grad[0]*grad[0] + grad[1]*grad[1] + grad[2]*grad[2])
		if nrm < 1e-14 {
			return nil, fmt.Errorf("%w: gradient vanished at %v", ErrRaytrace, p)
		}
		dir := []float64{-grad[0] / nrm, -grad[1] / nrm, -grad[2] / nrm}

		// step to the nearest face of the current cell
		c := o.g.Cells[cid]
		tbest, iface := math.Inf(1), -1
		for i := 0; i < 4; i++ {
			f := o.g.Faces[c.Faces[i]]
			xa := o.g.Verts[f.Verts[0]].C
			xb := o.g.Verts[f.Verts[1]].C
			xc := o.g.Verts[f.Verts[2]].C
			if t, hit := geom.RayTri(p, dir, xa, xb, xc, o.g.Btol); hit && t > 1e-12 && t < tbest {
				tbest, iface = t, i
			}
		}
		if iface < 0 {
			return nil, fmt.Errorf("%w: no exit face from cell %d at %v", ErrRaytrace, cid, p)
		}
		geom.AddScaled(p, p, tbest, dir)
		path = append(path, []float64{p[0], p[1], p[2]})

		// cross into the neighbour
		next := c.Neighs[iface]
		if next < 0 {
			for _, src := range srcs {
				if geom.Dist(p, src.X) <= o.o.MinDist {
					path = append(path, []float64{src.X[0], src.X[1], src.X[2]})
					return path, nil
				}
			}
			return nil, fmt.Errorf("%w: ray left the grid at %v", ErrRaytrace, p)
		}
		cid = next
	}
	return nil, fmt.Errorf("%w: backward walk exceeded %d steps", ErrRaytrace, maxSteps)
}

// Integrate computes the traveltime along a raypath by integrating the
// slowness field over its segments
func (o *Tracer) Integrate(path [][]float64, t0 float64) float64 {
	t := t0
	mid := make([]float64, 3)
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		d := geom.Dist(a, b)
		if d == 0 {
			continue
		}
		geom.PointOnSeg(mid, a, b, 0.5)
		cid := o.g.Locate(mid)
		if cid < 0 {
			continue // grazing the hull within tolerance
		}
		t += d * o.g.SegSlow(cid, a, b)
	}
	return t
}

// grad estimates the traveltime gradient at point p inside cell cid
func (o *Tracer) grad(cid int, p []float64, tt []float64) (g [3]float64, ok bool) {
	switch o.o.GradMethod {
	case GradLS2:
		return o.gradLS2(cid, p, tt)
	case GradAve:
		return o.gradAve(cid, p, tt)
	}
	return o.gradLS1(cid, p, tt)
}

// gradLS1 fits a linear model through the four vertex traveltimes of the
// containing cell
func (o *Tracer) gradLS1(cid int, p []float64, tt []float64) ([3]float64, bool) {
	return fitLinear(o.g, o.g.Cells[cid].Verts, p, tt)
}

// gradLS2 fits a quadratic model over the first ring of neighbouring
// vertices; falls back to the linear fit when the ring is too small
func (o *Tracer) gradLS2(cid int, p []float64, tt []float64) ([3]float64, bool) {
	ring := o.ringVerts(cid)
	if len(ring) < 10 {
		return o.gradLS1(cid, p, tt)
	}
	m := len(ring)
	a := mat.NewDense(m, 10, nil)
	b := mat.NewVecDense(m, nil)
	for i, vid := range ring {
		x := o.g.Verts[vid].C
		dx, dy, dz := x[0]-p[0], x[1]-p[1], x[2]-p[2]
		a.SetRow(i, []float64{1, dx, dy, dz, dx * dx, dy * dy, dz * dz, dx * dy, dy * dz, dx * dz})
		b.SetVec(i, tt[vid])
	}
	coef, ok := lsqSolve(a, b, 10)
	if !ok {
		return o.gradLS1(cid, p, tt)
	}
	return [3]float64{coef[1], coef[2], coef[3]}, true
}

// gradAve averages per-vertex gradients with barycentric weights; each
// per-vertex gradient is a linear fit over that vertex's incident cells
func (o *Tracer) gradAve(cid int, p []float64, tt []float64) (g [3]float64, ok bool) {
	var λ [4]float64
	if !o.g.Bary(λ[:], cid, p) {
		return g, false
	}
	c := o.g.Cells[cid]
	for i, vid := range c.Verts {
		star := o.starVerts(vid)
		gv, okv := fitLinear(o.g, star, o.g.Verts[vid].C, tt)
		if !okv {
			return g, false
		}
		g[0] += λ[i] * gv[0]
		g[1] += λ[i] * gv[1]
		g[2] += λ[i] * gv[2]
	}
	return g, true
}

// ringVerts returns the vertices of all cells incident to the vertices of
// cell cid, sorted for determinism
func (o *Tracer) ringVerts(cid int) []int {
	set := make(map[int]bool)
	for _, vid := range o.g.Cells[cid].Verts {
		for _, nc := range o.g.Verts[vid].Cells {
			for _, w := range o.g.Cells[nc].Verts {
				set[w] = true
			}
		}
	}
	out := make([]int, 0, len(set))
	for vid := range set {
		out = append(out, vid)
	}
	sort.Ints(out)
	return out
}

// starVerts returns the vertices of all cells incident to vertex vid,
// sorted for determinism
func (o *Tracer) starVerts(vid int) []int {
	set := make(map[int]bool)
	for _, nc := range o.g.Verts[vid].Cells {
		for _, w := range o.g.Cells[nc].Verts {
			set[w] = true
		}
	}
	out := make([]int, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sort.Ints(out)
	return out
}

// fitLinear fits t = a + b·(x-origin) over the given vertices and
// returns the gradient b
func fitLinear(g *mesh.Mesh, vids []int, origin []float64, tt []float64) (grad [3]float64, ok bool) {
	m := len(vids)
	if m < 4 {
		return grad, false
	}
	a := mat.NewDense(m, 4, nil)
	b := mat.NewVecDense(m, nil)
	for i, vid := range vids {
		x := g.Verts[vid].C
		a.SetRow(i, []float64{1, x[0] - origin[0], x[1] - origin[1], x[2] - origin[2]})
		b.SetVec(i, tt[vid])
	}
	coef, okq := lsqSolve(a, b, 4)
	if !okq {
		return grad, false
	}
	return [3]float64{coef[1], coef[2], coef[3]}, true
}

// lsqSolve solves the least-squares problem a*x = b via QR factorization
func lsqSolve(a *mat.Dense, b *mat.VecDense, n int) (coef []float64, ok bool) {
	var qr mat.QR
	qr.Factorize(a)
	var x mat.VecDense
	if err := qr.SolveVecTo(&x, false, b); err != nil {
		if _, cond := err.(mat.Condition); !cond {
			return nil, false
		}
	}
	coef = make([]float64, n)
	for i := 0; i < n; i++ {
		coef[i] = x.AtVec(i)
	}
	return coef, true
}
