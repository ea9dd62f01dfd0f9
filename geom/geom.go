// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package geom implements geometric primitives and predicates for
// tetrahedral meshes: distances, barycentric coordinates, point-in-cell
// tests and ray-face intersections
package geom

import (
	"math"

	"github.com/cpmech/gosl/utl"
)

// constants
const MINDET = 1.0e-14 // minimum determinant, volume or length below which a geometric quantity is degenerate

// Dist returns the Euclidean distance between two 3D points
func Dist(a, b []float64) float64 {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	dz := b[2] - a[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Dot returns the dot product of two 3D vectors
func Dot(u, v []float64) float64 {
	return u[0]*v[0] + u[1]*v[1] + u[2]*v[2]
}

// Sub computes w := u - v
func Sub(w, u, v []float64) {
	w[0] = u[0] - v[0]
	w[1] = u[1] - v[1]
	w[2] = u[2] - v[2]
}

// AddScaled computes w := u + α*v
func AddScaled(w, u []float64, α float64, v []float64) {
	w[0] = u[0] + α*v[0]
	w[1] = u[1] + α*v[1]
	w[2] = u[2] + α*v[2]
}

// Centroid computes the centroid of a set of 3D points
func Centroid(pts ...[]float64) (c []float64) {
	c = make([]float64, 3)
	for _, p := range pts {
		c[0] += p[0]
		c[1] += p[1]
		c[2] += p[2]
	}
	n := float64(len(pts))
	c[0] /= n
	c[1] /= n
	c[2] /= n
	return
}

// PointOnSeg computes res := a + w*(b-a)
func PointOnSeg(res, a, b []float64, w float64) {
	res[0] = a[0] + w*(b[0]-a[0])
	res[1] = a[1] + w*(b[1]-a[1])
	res[2] = a[2] + w*(b[2]-a[2])
}

// TetVolume returns the signed volume of tetrahedron (a,b,c,d)
func TetVolume(a, b, c, d []float64) float64 {
	var u, v, w, n [3]float64
	Sub(u[:], b, a)
	Sub(v[:], c, a)
	Sub(w[:], d, a)
	utl.Cross3d(n[:], u[:], v[:])
	return Dot(n[:], w[:]) / 6.0
}

// Bary computes the barycentric coordinates λ of point p with respect to
// tetrahedron (a,b,c,d). Returns false if the tetrahedron is degenerate.
func Bary(λ []float64, p, a, b, c, d []float64) (ok bool) {
	V := TetVolume(a, b, c, d)
	if math.Abs(V) < MINDET {
		return false
	}
	λ[0] = TetVolume(p, b, c, d) / V
	λ[1] = TetVolume(a, p, c, d) / V
	λ[2] = TetVolume(a, b, p, d) / V
	λ[3] = TetVolume(a, b, c, p) / V
	return true
}

// InTet tells whether point p lies inside (or on the boundary of)
// tetrahedron (a,b,c,d), within tolerance tol on the barycentric
// coordinates
func InTet(p, a, b, c, d []float64, tol float64) bool {
	var λ [4]float64
	if !Bary(λ[:], p, a, b, c, d) {
		return false
	}
	for i := 0; i < 4; i++ {
		if λ[i] < -tol {
			return false
		}
	}
	return true
}

// RayTri intersects the ray orig + t*dir (t > 0) with triangle (a,b,c)
// using the Möller-Trumbore algorithm. tol relaxes the in-triangle test.
// Returns the ray parameter t and whether an intersection exists.
func RayTri(orig, dir, a, b, c []float64, tol float64) (t float64, ok bool) {
	var e1, e2, pv, tv, qv [3]float64
	Sub(e1[:], b, a)
	Sub(e2[:], c, a)
	utl.Cross3d(pv[:], dir, e2[:])
	det := Dot(e1[:], pv[:])
	if math.Abs(det) < MINDET {
		return 0, false
	}
	Sub(tv[:], orig, a)
	u := Dot(tv[:], pv[:]) / det
	if u < -tol || u > 1+tol {
		return 0, false
	}
	utl.Cross3d(qv[:], tv[:], e1[:])
	v := Dot(dir, qv[:]) / det
	if v < -tol || u+v > 1+tol {
		return 0, false
	}
	t = Dot(e2[:], qv[:]) / det
	if t <= 0 {
		return 0, false
	}
	return t, true
}

// TriUnitNormal computes the unit normal n of triangle (a,b,c).
// Returns false for degenerate triangles.
func TriUnitNormal(n, a, b, c []float64) (ok bool) {
	var e1, e2 [3]float64
	Sub(e1[:], b, a)
	Sub(e2[:], c, a)
	utl.Cross3d(n, e1[:], e2[:])
	nrm := math.Sqrt(Dot(n, n))
	if nrm < MINDET {
		return false
	}
	n[0] /= nrm
	n[1] /= nrm
	n[2] /= nrm
	return true
}
