// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"encoding/json"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// mshVert is the JSON representation of a vertex
type mshVert struct {
	Id int       `json:"id"`
	C  []float64 `json:"c"`
}

// mshCell is the JSON representation of a tetrahedron
type mshCell struct {
	Id    int   `json:"id"`
	Verts []int `json:"verts"`
}

// mshData is the JSON representation of a tetrahedral mesh file
type mshData struct {
	Verts []mshVert `json:"verts"`
	Cells []mshCell `json:"cells"`
}

// ReadMsh reads vertex coordinates and tetrahedron connectivity from a
// JSON mesh file
func ReadMsh(fnamepath string) (verts [][]float64, cells [][]int, err error) {

	// read file
	b, err := io.ReadFile(fnamepath)
	if err != nil {
		return
	}

	// decode
	var data mshData
	err = json.Unmarshal(b, &data)
	if err != nil {
		return
	}

	// check ids coincide with order in lists
	verts = make([][]float64, len(data.Verts))
	for i, v := range data.Verts {
		if v.Id != i {
			err = chk.Err("vertices ids must coincide with order in \"verts\" list. %d != %d", v.Id, i)
			return
		}
		verts[i] = v.C
	}
	cells = make([][]int, len(data.Cells))
	for i, c := range data.Cells {
		if c.Id != i {
			err = chk.Err("cells ids must coincide with order in \"cells\" list. %d != %d", c.Id, i)
			return
		}
		cells[i] = c.Verts
	}
	return
}
