/*
 * lattice.go, part of kmcrecon.
 *
 * Copyright 2025 The kmcrecon authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package kmc

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// degenerateDet is the smallest |determinant| accepted for a lattice basis.
const degenerateDet = 1e-12

// Lattice holds the 3 lattice vectors as the rows of a 3x3 matrix and converts
// lattice indexes to cartesian positions. It is immutable once built.
type Lattice struct {
	m   *mat.Dense
	inv *mat.Dense
	det float64
}

// NewLattice builds a Lattice from the 9 components of the a, b and c vectors, row after row.
// It returns a DegenerateLatticeError if the vectors don't span 3D space.
func NewLattice(vecs [9]float64) (*Lattice, error) {
	for _, v := range vecs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &DegenerateLatticeError{Reason: "non-finite lattice vector component"}
		}
	}
	data := make([]float64, 9)
	copy(data, vecs[:])
	m := mat.NewDense(3, 3, data)
	det := mat.Det(m)
	if math.Abs(det) <= degenerateDet {
		return nil, &DegenerateLatticeError{Det: det}
	}
	inv := mat.NewDense(3, 3, nil)
	if err := inv.Inverse(m); err != nil {
		return nil, &DegenerateLatticeError{Det: det, Reason: err.Error()}
	}
	return &Lattice{m: m, inv: inv, det: det}, nil
}

// NewLatticeSlice is NewLattice for a slice, which must have exactly 9 elements.
func NewLatticeSlice(vecs []float64) (*Lattice, error) {
	if len(vecs) != 9 {
		return nil, &DegenerateLatticeError{Reason: "a lattice needs exactly 9 components"}
	}
	var a [9]float64
	copy(a[:], vecs)
	return NewLattice(a)
}

// Cartesian returns the cartesian position for the lattice coordinates f,
// i.e. f[0]*a + f[1]*b + f[2]*c.
func (L *Lattice) Cartesian(f [3]float64) [3]float64 {
	var r [3]float64
	for j := 0; j < 3; j++ {
		r[j] = f[0]*L.m.At(0, j) + f[1]*L.m.At(1, j) + f[2]*L.m.At(2, j)
	}
	return r
}

// Fractional is the inverse of Cartesian.
func (L *Lattice) Fractional(c [3]float64) [3]float64 {
	var r [3]float64
	for j := 0; j < 3; j++ {
		r[j] = c[0]*L.inv.At(0, j) + c[1]*L.inv.At(1, j) + c[2]*L.inv.At(2, j)
	}
	return r
}

// Vector returns the ith lattice vector (0=a, 1=b, 2=c).
func (L *Lattice) Vector(i int) [3]float64 {
	return [3]float64{L.m.At(i, 0), L.m.At(i, 1), L.m.At(i, 2)}
}

// Vectors returns the 9 components of the lattice vectors, row after row.
func (L *Lattice) Vectors() [9]float64 {
	var r [9]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[3*i+j] = L.m.At(i, j)
		}
	}
	return r
}

// Det returns the determinant of the lattice matrix.
func (L *Lattice) Det() float64 {
	return L.det
}

// Volume returns the volume of the cell.
func (L *Lattice) Volume() float64 {
	return math.Abs(L.det)
}

// Lengths returns the norms of a, b and c.
func (L *Lattice) Lengths() [3]float64 {
	var r [3]float64
	for i := 0; i < 3; i++ {
		r[i] = norm(L.Vector(i))
	}
	return r
}

// Angles returns alpha (b^c), beta (a^c) and gamma (a^b), in degrees.
func (L *Lattice) Angles() [3]float64 {
	a, b, c := L.Vector(0), L.Vector(1), L.Vector(2)
	return [3]float64{angle(b, c), angle(a, c), angle(a, b)}
}

func norm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func angle(u, v [3]float64) float64 {
	cos := (u[0]*v[0] + u[1]*v[1] + u[2]*v[2]) / (norm(u) * norm(v))
	//rounding could take us slightly out of [-1,1]
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}
