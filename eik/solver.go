// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package eik implements first-arrival traveltime solvers for the eikonal
// equation on unstructured tetrahedral meshes (fast sweeping, shortest
// path and dynamic shortest path), a gradient raypath backtracer and the
// parallel dispatch of independent source problems
package eik

import (
	"sync/atomic"

	"github.com/hbueno/ttcr/mesh"
)

// Solver computes the first-arrival traveltime field for one event on one
// worker's scratch space. Implementations are single-threaded; one
// instance is allocated per worker.
type Solver interface {

	// Solve computes traveltimes from the event sources. A wrapped
	// ErrConvergence means the field is partial but usable.
	Solve(srcs []*Src) (err error)

	// TT returns the traveltime at point p inside cell cid, interpolated
	// from the converged field
	TT(p []float64, cid int) float64

	// Field returns the traveltimes at the primary vertices
	Field() []float64
}

// allocators holds all available solvers
var allocators = make(map[string]func(g *mesh.Mesh, o *Opts, w int, stop *int32) Solver)

// stopped tells whether the shared stop flag has been raised
func stopped(stop *int32) bool {
	return stop != nil && atomic.LoadInt32(stop) != 0
}
