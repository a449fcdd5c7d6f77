/*
 * matrix.go, part of kmcrecon.
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

package v3

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a set of vectors in 3D space. Within the package a "vector" is a row,
// i.e. the cartesian coordinates of one point.
type Matrix struct {
	*mat.Dense
}

// NewMatrix generates and returns a Matrix with 3 columns from data.
// The slice is used as backing storage, not copied.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	if l%cols != 0 {
		return nil, Error{fmt.Sprintf("Input slice length %d not divisible by %d", l, cols), []string{"NewMatrix"}, true}
	}
	if l == 0 {
		return Zeros(0), nil
	}
	return &Matrix{mat.NewDense(l/cols, cols, data)}, nil
}

// Zeros returns a zero-filled Matrix with vecs vectors. Zeros(0) gives an empty
// Matrix, which gonum can't represent as a 0x3 Dense.
func Zeros(vecs int) *Matrix {
	if vecs == 0 {
		return &Matrix{new(mat.Dense)}
	}
	return &Matrix{mat.NewDense(vecs, 3, nil)}
}

// NVecs returns the number of vectors in F.
func (F *Matrix) NVecs() int {
	if F == nil || F.Dense == nil || F.IsEmpty() {
		return 0
	}
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

// Len is the same as NVecs.
func (F *Matrix) Len() int {
	return F.NVecs()
}

// Vec returns a copy of the ith vector as an array.
func (F *Matrix) Vec(i int) [3]float64 {
	if i < 0 || i >= F.NVecs() {
		panic(ErrIndexOutOfRange)
	}
	return [3]float64{F.At(i, 0), F.At(i, 1), F.At(i, 2)}
}

// SetVec sets the ith vector of F to v.
func (F *Matrix) SetVec(i int, v [3]float64) {
	if i < 0 || i >= F.NVecs() {
		panic(ErrIndexOutOfRange)
	}
	F.Set(i, 0, v[0])
	F.Set(i, 1, v[1])
	F.Set(i, 2, v[2])
}

// Copy returns a deep copy of F.
func (F *Matrix) Copy() *Matrix {
	n := F.NVecs()
	r := Zeros(n)
	if n > 0 {
		r.Dense.Copy(F.Dense)
	}
	return r
}

// AddVec adds vec to each vector of A, putting the result in the receiver.
// A and F may be the same Matrix. Panics if the shapes don't match.
func (F *Matrix) AddVec(A *Matrix, vec [3]float64) {
	n := A.NVecs()
	if F.NVecs() != n {
		panic(ErrShape)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			F.Set(i, j, A.At(i, j)+vec[j])
		}
	}
}

// Translate moves every vector of F by vec, in place.
func (F *Matrix) Translate(vec [3]float64) {
	F.AddVec(F, vec)
}

// SetMatrix puts the vectors of A in the receiver, starting from the ith vector.
func (F *Matrix) SetMatrix(i int, A *Matrix) {
	ar := A.NVecs()
	if i < 0 || ar+i > F.NVecs() {
		panic(ErrShape)
	}
	for k := 0; k < ar; k++ {
		for j := 0; j < 3; j++ {
			F.Set(i+k, j, A.At(k, j))
		}
	}
}

// Distance returns the euclidean distance between vectors i of F and j of A.
func (F *Matrix) Distance(i int, A *Matrix, j int) float64 {
	a := F.Vec(i)
	b := A.Vec(j)
	return math.Sqrt((a[0]-b[0])*(a[0]-b[0]) + (a[1]-b[1])*(a[1]-b[1]) + (a[2]-b[2])*(a[2]-b[2]))
}

// String returns a neat string representation of a Matrix.
func (F *Matrix) String() string {
	r := F.NVecs()
	if r == 0 {
		return "\n[ ]"
	}
	v := make([]string, r+2)
	v[0] = "\n["
	v[len(v)-1] = " ]"
	for i := 0; i < r; i++ {
		row := F.Vec(i)
		if i == r-1 {
			v[i+1] = fmt.Sprintf(" %6.2f %6.2f %6.2f", row[0], row[1], row[2])
			continue
		}
		v[i+1] = fmt.Sprintf(" %6.2f %6.2f %6.2f\n", row[0], row[1], row[2])
	}
	v[1] = strings.TrimPrefix(v[1], " ")
	return strings.Join(v, "")
}

//Errors

// Error is the error type of the package. It carries the chain of functions it
// was passed through.
type Error struct {
	message  string
	deco     []string
	critical bool
}

// Error returns a string with an error message.
func (err Error) Error() string {
	return err.message
}

// Decorate adds the dec string to the decoration slice of strings of the error,
// and returns the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical returns whether the error is critical or it can be ignored.
func (err Error) Critical() bool { return err.critical }

// PanicMsg is a message used for panics, even though it does satisfy the error interface.
// For errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix    = PanicMsg("kmcrecon/v3: A Matrix should have 3 columns")
	ErrShape           = PanicMsg("kmcrecon/v3: Dimension mismatch")
	ErrIndexOutOfRange = PanicMsg("kmcrecon/v3: index out of range")
)
