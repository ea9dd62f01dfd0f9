// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eik

import "fmt"

// solver names
const (
	FSMKind  = "FSM"  // fast sweeping method
	SPMKind  = "SPM"  // shortest-path method
	DSPMKind = "DSPM" // dynamic shortest-path method
)

// gradient estimation strategies for the raypath backtracer
const (
	GradLS1 = 0 // least-squares linear fit over the containing cell
	GradLS2 = 1 // least-squares quadratic fit over the first vertex ring
	GradAve = 2 // barycentric average of per-vertex gradients
)

// Opts holds the configuration of a RayTracer
type Opts struct {
	CellSlowness   bool    `json:"cell_slowness"`   // slowness per cell (true) or per vertex (false)
	Method         string  `json:"method"`          // one of FSM, SPM, DSPM
	GradMethod     int     `json:"gradient_method"` // 0=LS1, 1=LS2, 2=average
	TTfromRP       bool    `json:"tt_from_rp"`      // integrate slowness along ray for reported traveltime (SPM/DSPM)
	InterpVel      bool    `json:"interp_vel"`      // interpolate velocity instead of slowness (per-vertex field)
	Eps            float64 `json:"eps"`             // FSM convergence tolerance
	Maxit          int     `json:"maxit"`           // FSM maximum number of passes
	MinDist        float64 `json:"min_dist"`        // raytracer termination tolerance
	Nsecondary     int     `json:"n_secondary"`     // secondary nodes per edge (SPM/DSPM)
	Ntertiary      int     `json:"n_tertiary"`      // tertiary nodes per edge (DSPM)
	RadiusTertiary float64 `json:"radius_tertiary"` // sphere radius around source for tertiary nodes
	Nthreads       int     `json:"nthreads"`        // worker pool size
	Btol           float64 `json:"btol"`            // bounding box and barycentric tolerance
	Verbose        bool    `json:"verbose"`         // show messages
}

// DefaultOpts returns options with default values
func DefaultOpts() *Opts {
	return &Opts{
		CellSlowness:   true,
		Method:         FSMKind,
		GradMethod:     GradLS1,
		Eps:            1e-15,
		Maxit:          20,
		MinDist:        1e-5,
		Nsecondary:     2,
		Ntertiary:      2,
		RadiusTertiary: 1e-3,
		Nthreads:       1,
		Btol:           1e-10,
	}
}

// Validate checks the options before construction of a RayTracer
func (o *Opts) Validate() (err error) {
	if _, ok := allocators[o.Method]; !ok {
		return fmt.Errorf("%w: %q is not one of FSM, SPM, DSPM", ErrUnknownMethod, o.Method)
	}
	if o.GradMethod < GradLS1 || o.GradMethod > GradAve {
		return fmt.Errorf("%w: gradient_method must be 0, 1 or 2. %d is invalid", ErrIncompatibleOpts, o.GradMethod)
	}
	if o.Nthreads < 1 {
		return fmt.Errorf("%w: nthreads must be at least 1. %d is invalid", ErrIncompatibleOpts, o.Nthreads)
	}
	if o.Method != FSMKind && o.Nsecondary < 0 {
		return fmt.Errorf("%w: n_secondary must be non-negative. %d is invalid", ErrIncompatibleOpts, o.Nsecondary)
	}
	if o.Method == DSPMKind && o.Ntertiary < 1 {
		return fmt.Errorf("%w: n_tertiary must be at least 1 for DSPM. %d is invalid", ErrIncompatibleOpts, o.Ntertiary)
	}
	if o.Method == FSMKind {
		if o.Eps <= 0 {
			return fmt.Errorf("%w: eps must be positive. %v is invalid", ErrIncompatibleOpts, o.Eps)
		}
		if o.Maxit < 1 {
			return fmt.Errorf("%w: maxit must be at least 1. %d is invalid", ErrIncompatibleOpts, o.Maxit)
		}
		if o.TTfromRP {
			return fmt.Errorf("%w: tt_from_rp requires SPM or DSPM", ErrIncompatibleOpts)
		}
	}
	if o.MinDist <= 0 {
		return fmt.Errorf("%w: min_dist must be positive. %v is invalid", ErrIncompatibleOpts, o.MinDist)
	}
	if o.InterpVel && o.CellSlowness {
		return fmt.Errorf("%w: interp_vel requires a per-vertex slowness field", ErrIncompatibleOpts)
	}
	return
}
