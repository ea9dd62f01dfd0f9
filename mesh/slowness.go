// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// Nparams returns the expected length of the slowness array: number of
// cells for per-cell fields and number of vertices for per-vertex fields
func (o *Mesh) Nparams() int {
	if o.CellSlowness {
		return len(o.Cells)
	}
	return len(o.Verts)
}

// SetSlowness validates and installs the slowness field. The replacement
// is atomic between solves; it must not overlap with an active solve.
func (o *Mesh) SetSlowness(vals []float64) (err error) {
	if len(vals) != o.Nparams() {
		return chk.Err("slowness array has wrong length. %d != %d", len(vals), o.Nparams())
	}
	for i, s := range vals {
		if s <= 0 || math.IsInf(s, 0) || math.IsNaN(s) {
			return chk.Err("slowness values must be positive and finite. vals[%d]=%v is invalid", i, s)
		}
	}
	slow := make([]float64, len(vals))
	copy(slow, vals)

	// slowness at secondary nodes, interpolated along their edges
	var sec []float64
	if !o.CellSlowness && o.Nsec > 0 {
		sec = make([]float64, len(o.Edges)*o.Nsec)
		for _, e := range o.Edges {
			for k := 0; k < o.Nsec; k++ {
				w := float64(k+1) / float64(o.Nsec+1)
				sec[e.Id*o.Nsec+k] = interp2(slow[e.A], slow[e.B], w, o.InterpVel)
			}
		}
	}
	o.Slow = slow
	o.SecSlow = sec
	return
}

// interp2 interpolates slowness between two values; with vel=true the
// interpolation is carried on velocity (reciprocal) instead
func interp2(sa, sb, w float64, vel bool) float64 {
	if vel {
		return 1.0 / ((1-w)/sa + w/sb)
	}
	return (1-w)*sa + w*sb
}

// TetSlow returns the representative slowness of one tetrahedron: the
// cell value for per-cell fields or the vertex average for per-vertex
// fields (velocity-averaged when InterpVel is on)
func (o *Mesh) TetSlow(cid int) float64 {
	if o.CellSlowness {
		return o.Slow[cid]
	}
	return o.MeanSlow(o.Cells[cid].Verts...)
}

// MeanSlow returns the average slowness over a set of vertices of a
// per-vertex field; with InterpVel the average is carried on velocity
func (o *Mesh) MeanSlow(vids ...int) float64 {
	if o.CellSlowness {
		chk.Panic("MeanSlow requires a per-vertex slowness field")
	}
	if o.InterpVel {
		v := 0.0
		for _, vid := range vids {
			v += 1.0 / o.Slow[vid]
		}
		return float64(len(vids)) / v
	}
	s := 0.0
	for _, vid := range vids {
		s += o.Slow[vid]
	}
	return s / float64(len(vids))
}

// PointSlow returns the slowness at point p inside cell cid: the cell
// value or the barycentric interpolation of the vertex field
func (o *Mesh) PointSlow(cid int, p []float64) float64 {
	if o.CellSlowness {
		return o.Slow[cid]
	}
	var λ [4]float64
	if !o.Bary(λ[:], cid, p) {
		return o.TetSlow(cid)
	}
	c := o.Cells[cid]
	if o.InterpVel {
		v := 0.0
		for i, vid := range c.Verts {
			v += λ[i] / o.Slow[vid]
		}
		return 1.0 / v
	}
	s := 0.0
	for i, vid := range c.Verts {
		s += λ[i] * o.Slow[vid]
	}
	return s
}

// SegSlow returns the average slowness along segment p-q inside cell cid
func (o *Mesh) SegSlow(cid int, p, q []float64) float64 {
	if o.CellSlowness {
		return o.Slow[cid]
	}
	sp, sq := o.PointSlow(cid, p), o.PointSlow(cid, q)
	if o.InterpVel {
		return 2.0 / (1.0/sp + 1.0/sq)
	}
	return (sp + sq) / 2.0
}

// NodeSlow returns the slowness at a graph node (per-vertex fields only)
func (o *Mesh) NodeSlow(n int) float64 {
	if o.CellSlowness {
		chk.Panic("NodeSlow requires a per-vertex slowness field")
	}
	if n < len(o.Verts) {
		return o.Slow[n]
	}
	return o.SecSlow[n-len(o.Verts)]
}

// FaceSlow returns the slowness governing segments lying on a face: the
// smaller of the two incident cell values, since the first arrival takes
// the faster side of an interface (per-cell fields only)
func (o *Mesh) FaceSlow(fid int) float64 {
	f := o.Faces[fid]
	s := o.Slow[f.Cells[0]]
	if len(f.Cells) == 2 {
		s = utl.Min(s, o.Slow[f.Cells[1]])
	}
	return s
}
