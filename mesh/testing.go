// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

// FiveTetCube returns the unit cube split into 5 tetrahedra: one central
// regular tetrahedron and four corner tetrahedra
func FiveTetCube() (verts [][]float64, cells [][]int) {
	verts = [][]float64{
		{0, 0, 0}, // 0
		{1, 0, 0}, // 1
		{0, 1, 0}, // 2
		{1, 1, 0}, // 3
		{0, 0, 1}, // 4
		{1, 0, 1}, // 5
		{0, 1, 1}, // 6
		{1, 1, 1}, // 7
	}
	cells = [][]int{
		{0, 3, 5, 6}, // central
		{0, 1, 3, 5}, // corner at (1,0,0)
		{0, 2, 3, 6}, // corner at (0,1,0)
		{0, 4, 5, 6}, // corner at (0,0,1)
		{3, 5, 6, 7}, // corner at (1,1,1)
	}
	return
}

// axes permutations defining the Kuhn subdivision of a cube
var kuhnPerms = [6][3]int{
	{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
}

// CubeGrid returns the unit cube discretized as an n*n*n regular grid of
// hexahedra, each split into 6 tetrahedra sharing the main diagonal
// (Kuhn subdivision)
func CubeGrid(n int) (verts [][]float64, cells [][]int) {
	np := n + 1
	vid := func(i, j, k int) int { return (k*np+j)*np + i }
	h := 1.0 / float64(n)
	verts = make([][]float64, np*np*np)
	for k := 0; k < np; k++ {
		for j := 0; j < np; j++ {
			for i := 0; i < np; i++ {
				verts[vid(i, j, k)] = []float64{float64(i) * h, float64(j) * h, float64(k) * h}
			}
		}
	}
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				for _, perm := range kuhnPerms {
					ijk := [3]int{i, j, k}
					tet := make([]int, 4)
					tet[0] = vid(ijk[0], ijk[1], ijk[2])
					for m := 0; m < 3; m++ {
						ijk[perm[m]]++
						tet[m+1] = vid(ijk[0], ijk[1], ijk[2])
					}
					cells = append(cells, tet)
				}
			}
		}
	}
	return
}
