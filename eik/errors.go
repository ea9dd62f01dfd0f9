// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eik

import "errors"

// error kinds. Callers discriminate with errors.Is; detail messages are
// attached by wrapping, e.g. fmt.Errorf("%w: source %d ...", ErrOutOfGrid, i)
var (

	// ErrWrongSize indicates a slowness array length mismatch or a
	// source/receiver count mismatch when pairwise grouping is required
	ErrWrongSize = errors.New("wrong size")

	// ErrOutOfGrid indicates a source or receiver outside the mesh
	ErrOutOfGrid = errors.New("out of grid")

	// ErrUnknownMethod indicates a solver name other than FSM/SPM/DSPM
	ErrUnknownMethod = errors.New("unknown method")

	// ErrIncompatibleOpts indicates an invalid option combination,
	// e.g. DSPM with aggregated sources
	ErrIncompatibleOpts = errors.New("incompatible options")

	// ErrConvergence indicates the fast sweeping solver exceeded maxit
	// without meeting eps; results are partial but usable
	ErrConvergence = errors.New("convergence failure")

	// ErrRaytrace indicates a vanished gradient or a backward walk that
	// could not reach the source; the receiver keeps its traveltime
	ErrRaytrace = errors.New("raytrace failure")

	// ErrThreadOutOfRange indicates an explicit thread number >= nthreads
	ErrThreadOutOfRange = errors.New("thread out of range")

	// ErrCancelled indicates the dispatch was stopped before completion
	ErrCancelled = errors.New("cancelled")
)
