/*
 * assemble.go, part of kmcrecon.
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
	"go.uber.org/zap"
)

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithLogger sets the logger used to warn about skipped sites.
func WithLogger(l *zap.Logger) AssemblerOption {
	return func(A *Assembler) {
		if l != nil {
			A.log = l
		}
	}
}

// WithReport sets the Report where skipped sites are recorded.
func WithReport(r *Report) AssemblerOption {
	return func(A *Assembler) {
		if r != nil {
			A.report = r
		}
	}
}

// Assembler turns frames into structures, putting a translated copy of the
// template for each site's species on the site. It doesn't change after
// NewAssembler, so one Assembler can be used from several goroutines.
type Assembler struct {
	lat    *Lattice
	cat    *Catalog
	log    *zap.Logger
	report *Report
}

// NewAssembler returns an Assembler for the given lattice and catalog. The catalog
// is sealed, so no more templates can be added to it.
func NewAssembler(lat *Lattice, cat *Catalog, opts ...AssemblerOption) (*Assembler, error) {
	if lat == nil {
		return nil, &DegenerateLatticeError{Reason: "nil lattice"}
	}
	if cat == nil {
		return nil, fmt.Errorf("kmc: NewAssembler: nil catalog")
	}
	A := &Assembler{lat: lat, cat: cat, log: zap.NewNop(), report: NewReport()}
	for _, o := range opts {
		o(A)
	}
	cat.seal()
	return A, nil
}

// Report returns the Report where the assembler records skipped sites.
func (A *Assembler) Report() *Report {
	return A.report
}

// Lattice returns the lattice of the assembler.
func (A *Assembler) Lattice() *Lattice {
	return A.lat
}

// Position returns the cartesian position of a site.
func (A *Assembler) Position(s *Site) [3]float64 {
	return A.lat.Cartesian(s.Index)
}

// Assemble builds the structure for f. Atoms come in site order, and within a site in
// template order. With the FailFast policy, a site with an unmapped species makes
// Assemble return an UnknownSpeciesError and no structure.
func (A *Assembler) Assemble(f *Frame) (*Structure, error) {
	templates := make([]*Template, len(f.Sites))
	natoms := 0
	for i := range f.Sites {
		s := &f.Sites[i]
		t, ok := A.cat.Lookup(s.Species)
		if !ok {
			err := &UnknownSpeciesError{Code: s.Species, Time: f.Time, Line: s.Line}
			if A.cat.Policy() == FailFast {
				err.Decorate("Assemble")
				return nil, err
			}
			A.report.UnknownSpecies(err)
			A.log.Warn("site skipped, no template for species",
				zap.Int("species", s.Species), zap.Int("time", f.Time), zap.Int("line", s.Line), zap.Int("site", s.ID))
			continue
		}
		templates[i] = t
		natoms += t.Len()
	}
	st := &Structure{
		Atoms:   make([]*Atom, 0, natoms),
		Coords:  v3.Zeros(natoms),
		Species: make([]int, 0, natoms),
		Cell:    A.lat,
		PBC:     [3]bool{true, true, true},
		Time:    f.Time,
	}
	row := 0
	for i, t := range templates {
		if t == nil {
			continue
		}
		s := &f.Sites[i]
		pos := A.lat.Cartesian(s.Index)
		anchor := t.AnchorPosition()
		tr := [3]float64{pos[0] - anchor[0], pos[1] - anchor[1], pos[2] - anchor[2]}
		placed := t.Coords.Copy()
		placed.Translate(tr)
		//the anchor goes exactly on the site, without the rounding of the subtraction above.
		placed.SetVec(t.Anchor, pos)
		st.Coords.SetMatrix(row, placed)
		for _, at := range t.Atoms {
			a := at.Copy()
			a.ID = len(st.Atoms) + 1
			a.Site = s.ID
			st.Atoms = append(st.Atoms, a)
			st.Species = append(st.Species, s.Species)
		}
		row += t.Len()
	}
	return st, nil
}
