// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import "math"

// Scratch holds the mutable per-worker state of one solve: the traveltime
// array over graph nodes and the "known" flags of the best-first search.
// The mesh connectivity and the slowness field remain shared read-only.
type Scratch struct {
	TT    []float64 // current traveltimes; +∞ means not yet reached
	Known []bool    // node settled by the best-first search
}

func newScratch(nnodes int) *Scratch {
	return &Scratch{
		TT:    make([]float64, nnodes),
		Known: make([]bool, nnodes),
	}
}

// Reset grows the arrays to hold n nodes (base graph plus any overlay)
// and re-initializes traveltimes to +∞ and flags to false
func (o *Scratch) Reset(n int) {
	if cap(o.TT) < n {
		o.TT = make([]float64, n)
		o.Known = make([]bool, n)
	}
	o.TT = o.TT[:n]
	o.Known = o.Known[:n]
	for i := 0; i < n; i++ {
		o.TT[i] = math.Inf(1)
		o.Known[i] = false
	}
}
