/*
 * catalog.go, part of kmcrecon.
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
	"sort"
	"strings"
	"sync"

	v3 "github.com/aldkmc/kmcrecon/v3"
)

// Policy says what to do with a site whose species has no template.
type Policy int

const (
	FailFast Policy = iota //abort the assembly with an UnknownSpeciesError
	SkipWarn               //leave the site out, warn, and record it in the Report
)

func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail"
	case SkipWarn:
		return "skip"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy accepts "fail", "fail-fast", "skip" and "skip-warn" (any case).
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fail", "fail-fast", "failfast":
		return FailFast, nil
	case "skip", "skip-warn", "skipwarn":
		return SkipWarn, nil
	}
	return FailFast, fmt.Errorf("kmc: unknown species policy %q (want fail or skip)", s)
}

// Template is the atomic fragment for one species, plus the index of the atom that
// goes on the lattice site. Templates are not modified once built.
type Template struct {
	Name   string
	Atoms  []*Atom
	Coords *v3.Matrix
	Anchor int
}

// NewTemplate checks that atoms and coords match and that anchor is one of the atoms.
func NewTemplate(name string, atoms []*Atom, coords *v3.Matrix, anchor int) (*Template, error) {
	if len(atoms) == 0 {
		return nil, fmt.Errorf("kmc: template %s has no atoms", name)
	}
	if coords.NVecs() != len(atoms) {
		return nil, fmt.Errorf("kmc: template %s has %d atoms but %d coordinates", name, len(atoms), coords.NVecs())
	}
	if anchor < 0 || anchor >= len(atoms) {
		return nil, fmt.Errorf("kmc: anchor %d out of range for template %s (%d atoms)", anchor, name, len(atoms))
	}
	return &Template{Name: name, Atoms: atoms, Coords: coords, Anchor: anchor}, nil
}

// Len returns the number of atoms in the template.
func (T *Template) Len() int {
	return len(T.Atoms)
}

// Atom returns the ith atom of the template.
func (T *Template) Atom(i int) *Atom {
	return T.Atoms[i]
}

// AnchorPosition returns the template coordinates of the anchor atom.
func (T *Template) AnchorPosition() [3]float64 {
	return T.Coords.Vec(T.Anchor)
}

// Catalog maps species codes to ligand templates. It is filled before the first
// frame is assembled and sealed when an Assembler takes it.
type Catalog struct {
	mu        sync.RWMutex
	templates map[int]*Template
	policy    Policy
	sealed    bool
}

// NewCatalog returns an empty catalog with the given unknown-species policy.
func NewCatalog(policy Policy) *Catalog {
	return &Catalog{templates: make(map[int]*Template), policy: policy}
}

// Add maps code to t. Several codes may share one template. It is an error to map a
// code twice or to add to a sealed catalog.
func (C *Catalog) Add(code int, t *Template) error {
	if t == nil {
		return fmt.Errorf("kmc: nil template for species %d", code)
	}
	C.mu.Lock()
	defer C.mu.Unlock()
	if C.sealed {
		return fmt.Errorf("kmc: catalog is sealed, can't add species %d", code)
	}
	if old, ok := C.templates[code]; ok {
		return fmt.Errorf("kmc: species %d already mapped to %s", code, old.Name)
	}
	C.templates[code] = t
	return nil
}

// Lookup returns the template for code.
func (C *Catalog) Lookup(code int) (*Template, bool) {
	C.mu.RLock()
	t, ok := C.templates[code]
	C.mu.RUnlock()
	return t, ok
}

// Policy returns the unknown-species policy of the catalog.
func (C *Catalog) Policy() Policy {
	C.mu.RLock()
	defer C.mu.RUnlock()
	return C.policy
}

// SetPolicy replaces the unknown-species policy. It fails on a sealed catalog.
func (C *Catalog) SetPolicy(p Policy) error {
	C.mu.Lock()
	defer C.mu.Unlock()
	if C.sealed {
		return fmt.Errorf("kmc: catalog is sealed, can't change its policy")
	}
	C.policy = p
	return nil
}

// Len returns the number of mapped species codes.
func (C *Catalog) Len() int {
	C.mu.RLock()
	defer C.mu.RUnlock()
	return len(C.templates)
}

// Codes returns the mapped species codes in increasing order.
func (C *Catalog) Codes() []int {
	C.mu.RLock()
	ret := make([]int, 0, len(C.templates))
	for k := range C.templates {
		ret = append(ret, k)
	}
	C.mu.RUnlock()
	sort.Ints(ret)
	return ret
}

func (C *Catalog) seal() {
	C.mu.Lock()
	C.sealed = true
	C.mu.Unlock()
}
