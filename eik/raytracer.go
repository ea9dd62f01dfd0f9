// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eik

import (
	"fmt"
	"sync/atomic"

	"github.com/cpmech/gosl/io"

	"github.com/hbueno/ttcr/mesh"
)

// RayTracer holds all data for traveltime computations on one mesh: the
// shared immutable grid index, the configuration, one solver instance per
// worker and the raypath backtracer
type RayTracer struct {
	G       *mesh.Mesh // mesh index; connectivity and slowness shared read-only
	O       *Opts      // configuration
	Verbose bool       // show messages

	solvers []Solver // one per worker
	tracer  *Tracer  // raypath backtracer
	stop    int32    // cooperative stop flag
}

// New builds a RayTracer from dense vertex coordinates (n*3 doubles) and
// tetrahedron connectivity (m*4 indices). opts may be nil for defaults.
func New(xyz []float64, tets []int32, opts *Opts) (o *RayTracer, err error) {

	// options
	if opts == nil {
		opts = DefaultOpts()
	}
	err = opts.Validate()
	if err != nil {
		return
	}

	// convert boundary arrays
	if len(xyz) == 0 || len(xyz)%3 != 0 {
		err = fmt.Errorf("%w: vertex array length must be a positive multiple of 3. %d is invalid", ErrWrongSize, len(xyz))
		return
	}
	if len(tets) == 0 || len(tets)%4 != 0 {
		err = fmt.Errorf("%w: tetrahedron array length must be a positive multiple of 4. %d is invalid", ErrWrongSize, len(tets))
		return
	}
	nv, nc := len(xyz)/3, len(tets)/4
	verts := make([][]float64, nv)
	for i := 0; i < nv; i++ {
		verts[i] = []float64{xyz[3*i], xyz[3*i+1], xyz[3*i+2]}
	}
	cells := make([][]int, nc)
	for i := 0; i < nc; i++ {
		cells[i] = []int{int(tets[4*i]), int(tets[4*i+1]), int(tets[4*i+2]), int(tets[4*i+3])}
	}

	// mesh index; the fast sweeping solver needs no secondary nodes
	nsec := opts.Nsecondary
	if opts.Method == FSMKind {
		nsec = 0
	}
	g, err := mesh.New(verts, cells, nsec, opts.CellSlowness, opts.InterpVel, opts.Btol, opts.Nthreads)
	if err != nil {
		return
	}

	// solvers and tracer
	o = &RayTracer{G: g, O: opts, Verbose: opts.Verbose}
	alloc := allocators[opts.Method]
	o.solvers = make([]Solver, opts.Nthreads)
	for w := 0; w < opts.Nthreads; w++ {
		o.solvers[w] = alloc(g, opts, w, &o.stop)
	}
	o.tracer = NewTracer(g, opts)
	if o.Verbose {
		io.Pf("mesh: %d vertices, %d cells, %d faces, %d edges\n",
			len(g.Verts), len(g.Cells), len(g.Faces), len(g.Edges))
	}
	return
}

// NewFromMesh builds a RayTracer reading the mesh from a JSON file
func NewFromMesh(fnamepath string, opts *Opts) (o *RayTracer, err error) {
	verts, cells, err := mesh.ReadMsh(fnamepath)
	if err != nil {
		return
	}
	xyz := make([]float64, 0, 3*len(verts))
	for _, c := range verts {
		xyz = append(xyz, c...)
	}
	tets := make([]int32, 0, 4*len(cells))
	for _, vids := range cells {
		for _, v := range vids {
			tets = append(tets, int32(v))
		}
	}
	return New(xyz, tets, opts)
}

// Nparams returns the expected length of the slowness array
func (o *RayTracer) Nparams() int {
	return o.G.Nparams()
}

// SetSlowness validates and installs the slowness field. Must not overlap
// with an active Raytrace call.
func (o *RayTracer) SetSlowness(vals []float64) (err error) {
	if len(vals) != o.G.Nparams() {
		return fmt.Errorf("%w: slowness array has length %d. %d expected", ErrWrongSize, len(vals), o.G.Nparams())
	}
	err = o.G.SetSlowness(vals)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrongSize, err)
	}
	return
}

// TTField returns a copy of the last traveltime field computed by one
// worker, at the primary vertices
func (o *RayTracer) TTField(w int) (tt []float64, err error) {
	if w < 0 || w >= o.O.Nthreads {
		return nil, fmt.Errorf("%w: worker %d. nthreads=%d", ErrThreadOutOfRange, w, o.O.Nthreads)
	}
	field := o.solvers[w].Field()
	tt = make([]float64, len(field))
	copy(tt, field)
	return
}

// Stop raises the cooperative stop flag; workers abandon their pending
// events and the running dispatch reports a cancellation
func (o *RayTracer) Stop() {
	atomic.StoreInt32(&o.stop, 1)
}
