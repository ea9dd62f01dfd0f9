// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_read01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("read01. JSON mesh file")

	msh := `{
  "verts" : [
    { "id":0, "c":[0, 0, 0] },
    { "id":1, "c":[1, 0, 0] },
    { "id":2, "c":[0, 1, 0] },
    { "id":3, "c":[0, 0, 1] }
  ],
  "cells" : [
    { "id":0, "verts":[0, 1, 2, 3] }
  ]
}`
	io.WriteStringToFileD("/tmp/ttcr/mesh", "tet1.msh", msh)
	verts, cells, err := ReadMsh("/tmp/ttcr/mesh/tet1.msh")
	if err != nil {
		tst.Errorf("ReadMsh failed:\n%v", err)
		return
	}
	chk.IntAssert(len(verts), 4)
	chk.IntAssert(len(cells), 1)
	chk.Vector(tst, "vert1", 1e-15, verts[1], []float64{1, 0, 0})
	chk.Ints(tst, "cell0", cells[0], []int{0, 1, 2, 3})

	// dense ids are required
	bad := `{
  "verts" : [
    { "id":1, "c":[0, 0, 0] }
  ],
  "cells" : []
}`
	io.WriteStringToFileD("/tmp/ttcr/mesh", "bad.msh", bad)
	if _, _, err := ReadMsh("/tmp/ttcr/mesh/bad.msh"); err == nil {
		tst.Errorf("non-dense vertex ids not detected")
	}
}
