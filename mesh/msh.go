// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mesh implements the unstructured tetrahedral grid index holding
// vertices, cells, face/edge adjacency tables, the slowness field and the
// secondary-node layer used by the graph-based solvers
package mesh

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"

	"github.com/hbueno/ttcr/geom"
)

// Vert holds vertex data
type Vert struct {
	Id    int       // id
	C     []float64 // coordinates (size==3)
	Cells []int     // ids of cells sharing this vertex
	Faces []int     // ids of faces sharing this vertex
}

// Cell holds one tetrahedron
type Cell struct {
	Id     int    // id
	Verts  []int  // vertex ids (size==4)
	Faces  []int  // face ids; face i is opposite to local vertex i (size==4)
	Edges  []int  // edge ids (size==6)
	Neighs []int  // neighbour cell across face i; -1 if boundary (size==4)
}

// Face holds one unique triangular face
type Face struct {
	Id    int    // id
	Verts [3]int // vertex ids, sorted ascending
	Edges [3]int // edge ids
	Cells []int  // incident cells (size 1 or 2)
}

// Edge holds one unique cell edge
type Edge struct {
	Id    int   // id
	A, B  int   // vertex ids, A < B
	Faces []int // ids of faces sharing this edge
}

// local vertex indices of the four faces of a tetrahedron; face i is
// opposite to local vertex i
var tetFaces = [4][3]int{{1, 2, 3}, {0, 2, 3}, {0, 1, 3}, {0, 1, 2}}

// local vertex indices of the six edges of a tetrahedron
var tetEdges = [6][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}

// Mesh holds the immutable unstructured grid and its derived tables.
// Connectivity and the slowness field are shared read-only by all workers;
// each worker owns a private Scratch.
type Mesh struct {

	// essential
	Verts []*Vert // vertices
	Cells []*Cell // tetrahedra
	Faces []*Face // unique faces
	Edges []*Edge // unique edges

	// derived: limits
	Xmin, Xmax float64 // min and max x-coordinate
	Ymin, Ymax float64 // min and max y-coordinate
	Zmin, Zmax float64 // min and max z-coordinate
	Btol       float64 // bounding box and barycentric tolerance

	// parameters
	CellSlowness bool      // slowness given per cell; otherwise per vertex
	InterpVel    bool      // interpolate velocity instead of slowness (per-vertex field)
	Slow         []float64 // current slowness field; nil until SetSlowness

	// secondary nodes
	Nsec    int         // number of secondary nodes per edge
	SecPos  [][]float64 // positions of secondary nodes [nedges*Nsec]
	SecSlow []float64   // slowness at secondary nodes (per-vertex field only)

	// derived: node tables (primary + secondary)
	faceNodes [][]int // nodes lying on each face
	cellNodes [][]int // nodes lying on each cell

	// workers
	scratch []*Scratch // per-worker scratch spaces
}

// New builds a mesh index from dense vertex coordinates and tetrahedron
// connectivity. nsec is the number of secondary nodes per edge (zero for
// the fast sweeping solver). The mesh is immutable after construction,
// except for the slowness field which is replaced between solves.
func New(verts [][]float64, cells [][]int, nsec int, cellSlowness, interpVel bool, btol float64, nworkers int) (o *Mesh, err error) {

	// check
	if len(verts) < 4 {
		err = chk.Err("at least 4 vertices are required. %d is invalid", len(verts))
		return
	}
	if len(cells) < 1 {
		err = chk.Err("at least 1 tetrahedron is required")
		return
	}
	if nworkers < 1 {
		nworkers = 1
	}

	// new mesh
	o = new(Mesh)
	o.Btol = btol
	o.CellSlowness = cellSlowness
	o.InterpVel = interpVel
	o.Nsec = nsec

	// vertices and limits
	o.Verts = make([]*Vert, len(verts))
	o.Xmin, o.Ymin, o.Zmin = verts[0][0], verts[0][1], verts[0][2]
	o.Xmax, o.Ymax, o.Zmax = o.Xmin, o.Ymin, o.Zmin
	for i, c := range verts {
		if len(c) != 3 {
			err = chk.Err("vertex %d must have 3 coordinates. %d is invalid", i, len(c))
			return
		}
		o.Verts[i] = &Vert{Id: i, C: c}
		o.Xmin = utl.Min(o.Xmin, c[0])
		o.Xmax = utl.Max(o.Xmax, c[0])
		o.Ymin = utl.Min(o.Ymin, c[1])
		o.Ymax = utl.Max(o.Ymax, c[1])
		o.Zmin = utl.Min(o.Zmin, c[2])
		o.Zmax = utl.Max(o.Zmax, c[2])
	}

	// cells
	o.Cells = make([]*Cell, len(cells))
	seen := make(map[[4]int]bool)
	for i, vids := range cells {
		if len(vids) != 4 {
			err = chk.Err("cell %d must have 4 vertices. %d is invalid", i, len(vids))
			return
		}
		var key [4]int
		for j, v := range vids {
			if v < 0 || v >= len(o.Verts) {
				err = chk.Err("cell %d refers to inexistent vertex %d", i, v)
				return
			}
			key[j] = v
		}
		sort.Ints(key[:])
		if key[0] == key[1] || key[1] == key[2] || key[2] == key[3] {
			err = chk.Err("cell %d has repeated vertices: %v", i, vids)
			return
		}
		if seen[key] {
			err = chk.Err("cell %d is duplicated: %v", i, vids)
			return
		}
		seen[key] = true
		c := &Cell{Id: i, Verts: vids, Faces: make([]int, 4), Edges: make([]int, 6), Neighs: []int{-1, -1, -1, -1}}
		o.Cells[i] = c
		for _, v := range vids {
			o.Verts[v].Cells = append(o.Verts[v].Cells, i)
		}
	}

	// unique faces and neighbours
	fmap := make(map[[3]int]int)
	for _, c := range o.Cells {
		for i, lf := range tetFaces {
			key := [3]int{c.Verts[lf[0]], c.Verts[lf[1]], c.Verts[lf[2]]}
			utl.IntSort3(&key[0], &key[1], &key[2])
			fid, ok := fmap[key]
			if !ok {
				fid = len(o.Faces)
				fmap[key] = fid
				o.Faces = append(o.Faces, &Face{Id: fid, Verts: key})
			}
			f := o.Faces[fid]
			f.Cells = append(f.Cells, c.Id)
			c.Faces[i] = fid
		}
	}
	for _, f := range o.Faces {
		if len(f.Cells) > 2 {
			err = chk.Err("face %v is shared by more than 2 cells", f.Verts)
			return
		}
		for _, v := range f.Verts {
			o.Verts[v].Faces = append(o.Verts[v].Faces, f.Id)
		}
		if len(f.Cells) == 2 {
			a, b := o.Cells[f.Cells[0]], o.Cells[f.Cells[1]]
			for i := 0; i < 4; i++ {
				if a.Faces[i] == f.Id {
					a.Neighs[i] = b.Id
				}
				if b.Faces[i] == f.Id {
					b.Neighs[i] = a.Id
				}
			}
		}
	}

	// unique edges
	emap := make(map[[2]int]int)
	for _, c := range o.Cells {
		for i, le := range tetEdges {
			a, b := c.Verts[le[0]], c.Verts[le[1]]
			if a > b {
				a, b = b, a
			}
			key := [2]int{a, b}
			eid, ok := emap[key]
			if !ok {
				eid = len(o.Edges)
				emap[key] = eid
				o.Edges = append(o.Edges, &Edge{Id: eid, A: a, B: b})
			}
			c.Edges[i] = eid
		}
	}
	for _, f := range o.Faces {
		for i := 0; i < 3; i++ {
			a, b := f.Verts[i], f.Verts[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			eid := emap[[2]int{a, b}]
			f.Edges[i] = eid
			o.Edges[eid].Faces = append(o.Edges[eid].Faces, f.Id)
		}
	}

	// secondary nodes, placed uniformly along each unique edge
	if nsec > 0 {
		o.SecPos = make([][]float64, len(o.Edges)*nsec)
		for _, e := range o.Edges {
			a, b := o.Verts[e.A].C, o.Verts[e.B].C
			for k := 0; k < nsec; k++ {
				p := make([]float64, 3)
				geom.PointOnSeg(p, a, b, float64(k+1)/float64(nsec+1))
				o.SecPos[e.Id*nsec+k] = p
			}
		}
	}

	// node-on-face and node-on-cell tables
	o.faceNodes = make([][]int, len(o.Faces))
	for _, f := range o.Faces {
		nodes := []int{f.Verts[0], f.Verts[1], f.Verts[2]}
		for _, eid := range f.Edges {
			for k := 0; k < nsec; k++ {
				nodes = append(nodes, len(o.Verts)+eid*nsec+k)
			}
		}
		o.faceNodes[f.Id] = nodes
	}
	o.cellNodes = make([][]int, len(o.Cells))
	for _, c := range o.Cells {
		nodes := make([]int, 4, 4+6*nsec)
		copy(nodes, c.Verts)
		for _, eid := range c.Edges {
			for k := 0; k < nsec; k++ {
				nodes = append(nodes, len(o.Verts)+eid*nsec+k)
			}
		}
		o.cellNodes[c.Id] = nodes
	}

	// per-worker scratch
	o.scratch = make([]*Scratch, nworkers)
	for w := 0; w < nworkers; w++ {
		o.scratch[w] = newScratch(o.Nnodes())
	}
	return
}

// Nnodes returns the total number of graph nodes (primary + secondary)
func (o *Mesh) Nnodes() int {
	return len(o.Verts) + len(o.Edges)*o.Nsec
}

// Nworkers returns the number of per-worker scratch spaces
func (o *Mesh) Nworkers() int {
	return len(o.scratch)
}

// Scratch returns the scratch space of one worker
func (o *Mesh) Scratch(w int) *Scratch {
	return o.scratch[w]
}

// NodePos returns the position of a graph node (primary or secondary)
func (o *Mesh) NodePos(n int) []float64 {
	if n < len(o.Verts) {
		return o.Verts[n].C
	}
	return o.SecPos[n-len(o.Verts)]
}

// NodeFaces returns the ids of faces a node lies on
func (o *Mesh) NodeFaces(n int) []int {
	if n < len(o.Verts) {
		return o.Verts[n].Faces
	}
	return o.Edges[(n-len(o.Verts))/o.Nsec].Faces
}

// FaceNodes returns the nodes lying on a face (3 corners plus the
// secondary nodes of its 3 edges)
func (o *Mesh) FaceNodes(fid int) []int {
	return o.faceNodes[fid]
}

// CellNodes returns the nodes lying on a cell (4 corners plus the
// secondary nodes of its 6 edges)
func (o *Mesh) CellNodes(cid int) []int {
	return o.cellNodes[cid]
}

// IsInside tells whether p lies inside the mesh bounding box enlarged by
// the tolerance and inside some tetrahedron
func (o *Mesh) IsInside(p []float64) bool {
	return o.Locate(p) >= 0
}

// Locate returns the id of a tetrahedron containing p, or -1 if p lies
// outside the mesh (beyond tolerance). The search starts from the cells
// incident to the nearest vertex and falls back to a full scan.
func (o *Mesh) Locate(p []float64) int {

	// bounding box rejection
	tol := o.Btol
	if p[0] < o.Xmin-tol || p[0] > o.Xmax+tol ||
		p[1] < o.Ymin-tol || p[1] > o.Ymax+tol ||
		p[2] < o.Zmin-tol || p[2] > o.Zmax+tol {
		return -1
	}

	// cells around nearest vertex first
	dmin, vmin := math.MaxFloat64, 0
	for _, v := range o.Verts {
		if d := geom.Dist(p, v.C); d < dmin {
			dmin, vmin = d, v.Id
		}
	}
	for _, cid := range o.Verts[vmin].Cells {
		if o.CellContains(cid, p) {
			return cid
		}
	}

	// full scan
	for _, c := range o.Cells {
		if o.CellContains(c.Id, p) {
			return c.Id
		}
	}
	return -1
}

// CellContains tells whether cell cid contains point p within tolerance
func (o *Mesh) CellContains(cid int, p []float64) bool {
	c := o.Cells[cid]
	return geom.InTet(p,
		o.Verts[c.Verts[0]].C, o.Verts[c.Verts[1]].C,
		o.Verts[c.Verts[2]].C, o.Verts[c.Verts[3]].C, o.Btol)
}

// Bary computes the barycentric coordinates of p in cell cid
func (o *Mesh) Bary(λ []float64, cid int, p []float64) (ok bool) {
	c := o.Cells[cid]
	return geom.Bary(λ, p,
		o.Verts[c.Verts[0]].C, o.Verts[c.Verts[1]].C,
		o.Verts[c.Verts[2]].C, o.Verts[c.Verts[3]].C)
}

// CellCentroid returns the centroid of cell cid
func (o *Mesh) CellCentroid(cid int) []float64 {
	c := o.Cells[cid]
	return geom.Centroid(o.Verts[c.Verts[0]].C, o.Verts[c.Verts[1]].C,
		o.Verts[c.Verts[2]].C, o.Verts[c.Verts[3]].C)
}

// MaxEdgeLen returns the length of the longest edge in the mesh
func (o *Mesh) MaxEdgeLen() (l float64) {
	for _, e := range o.Edges {
		l = utl.Max(l, geom.Dist(o.Verts[e.A].C, o.Verts[e.B].C))
	}
	return
}
