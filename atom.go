/*
 * atom.go, part of kmcrecon.
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
	"fmt"

	v3 "github.com/aldkmc/kmcrecon/v3"
)

// Atom contains the atom information except for the coordinates, which are kept in a
// v3.Matrix owned by the Template or Structure.
type Atom struct {
	Symbol string
	Name   string //label of the atom in its template, may be empty
	ID     int    //1-based position in the structure, set by the assembler
	Site   int    //ID of the lattice site the atom was placed for, 0 in templates
}

// Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	n := *A
	return &n
}

// Structure is one assembled frame: atoms, their cartesian coordinates, the periodic cell
// and the species code of the site each atom was placed for. A Structure is not modified
// after the assembler returns it.
type Structure struct {
	Atoms   []*Atom
	Coords  *v3.Matrix
	Species []int
	Cell    *Lattice
	PBC     [3]bool
	Time    int
}

// Atom returns the Atom with index i. Panics if out of range.
func (S *Structure) Atom(i int) *Atom {
	if i >= S.Len() {
		panic("Structure: Requested Atom out of bounds")
	}
	return S.Atoms[i]
}

// Len returns the number of atoms in the structure.
func (S *Structure) Len() int {
	return len(S.Atoms)
}

// Corrupted checks whether the structure is corrupted, i.e. the coordinates or the
// species don't match the number of atoms.
func (S *Structure) Corrupted() error {
	if S.Coords.NVecs() != len(S.Atoms) {
		return fmt.Errorf("Inconsistent coordinates/atoms in frame %d: Atoms %d, coords: %d", S.Time, len(S.Atoms), S.Coords.NVecs())
	}
	if len(S.Species) != len(S.Atoms) {
		return fmt.Errorf("Inconsistent species/atoms in frame %d: Atoms %d, species: %d", S.Time, len(S.Atoms), len(S.Species))
	}
	if S.Cell == nil {
		return fmt.Errorf("Structure for frame %d has no cell", S.Time)
	}
	return nil
}

// Formula returns the number of atoms per element symbol.
func (S *Structure) Formula() map[string]int {
	return Formula(S)
}

// Formula returns the number of atoms per element symbol in a set of atoms.
func Formula(A Atomer) map[string]int {
	ret := make(map[string]int)
	for i := 0; i < A.Len(); i++ {
		ret[A.Atom(i).Symbol]++
	}
	return ret
}
