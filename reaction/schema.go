/*
 * schema.go, part of kmcrecon.
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

package reaction

import (
	"fmt"
	"sort"
)

// Kind is the event kind of a rule: 1 is unary, 2 to 4 are binary.
type Kind int

// Binary is true for the kinds with two reactants and two products.
func (k Kind) Binary() bool {
	return k >= 2 && k <= 4
}

// Kinds are all the event kinds, in order.
var Kinds = []Kind{1, 2, 3, 4}

// DefaultKeyword starts every rule record.
const DefaultKeyword = "event"

// Layout gives the token offsets of the fields of one kind of rule. Offsets count
// the keyword (offset 0) and the kind (offset 1).
type Layout struct {
	Reactants []int
	Products  []int
	Energy    int
	Scope     []int //site-coordinate scope tokens, not part of the rule's identity
	MinTokens int
}

// Schema is the layout of every kind of rule record.
type Schema struct {
	Keyword       string
	Layouts       map[Kind]Layout
	AllowNegative bool //accept negative energies, only flagging them
}

// UnaryLayout is the default layout of kind 1 rules:
//
//	event 1 IN OUT A n E coord pressureOn [...] [label]
func UnaryLayout() Layout {
	return Layout{Reactants: []int{2}, Products: []int{3}, Energy: 6, Scope: []int{7}, MinTokens: 9}
}

// BinaryLayout is the default layout of kind 2, 3 and 4 rules:
//
//	event K IN1 OUT1 IN2 OUT2 A n E coord1 coord2 pressureOn [...] [label]
func BinaryLayout() Layout {
	return Layout{Reactants: []int{2, 4}, Products: []int{3, 5}, Energy: 8, Scope: []int{9, 10}, MinTokens: 12}
}

// DefaultSchema returns the schema of the rule files read by the ALD KMC application.
func DefaultSchema() Schema {
	return Schema{
		Keyword: DefaultKeyword,
		Layouts: map[Kind]Layout{1: UnaryLayout(), 2: BinaryLayout(), 3: BinaryLayout(), 4: BinaryLayout()},
	}
}

// Validate checks that the schema covers exactly the kinds 1 to 4, and that in every
// layout the offsets are inside the minimum token count and don't overlap.
func (S Schema) Validate() error {
	if S.Keyword == "" {
		return fmt.Errorf("reaction: empty rule keyword")
	}
	if len(S.Layouts) != len(Kinds) {
		return fmt.Errorf("reaction: schema has %d kinds, want kinds %v", len(S.Layouts), Kinds)
	}
	for _, k := range Kinds {
		l, ok := S.Layouts[k]
		if !ok {
			return fmt.Errorf("reaction: schema has no layout for kind %d", k)
		}
		if err := l.validate(); err != nil {
			return fmt.Errorf("reaction: kind %d: %w", k, err)
		}
	}
	return nil
}

func (l Layout) validate() error {
	if len(l.Reactants) == 0 || len(l.Products) == 0 {
		return fmt.Errorf("at least one reactant and one product needed")
	}
	used := make(map[int]string)
	check := func(what string, offs ...int) error {
		for _, o := range offs {
			if o < 2 {
				return fmt.Errorf("%s offset %d overlaps the keyword or the kind", what, o)
			}
			if o >= l.MinTokens {
				return fmt.Errorf("%s offset %d not below the minimum token count %d", what, o, l.MinTokens)
			}
			if prev, ok := used[o]; ok {
				return fmt.Errorf("%s offset %d already used by the %s", what, o, prev)
			}
			used[o] = what
		}
		return nil
	}
	if err := check("reactant", l.Reactants...); err != nil {
		return err
	}
	if err := check("product", l.Products...); err != nil {
		return err
	}
	if err := check("energy", l.Energy); err != nil {
		return err
	}
	return check("scope", l.Scope...)
}

// Offsets returns all the offsets used by the layout, sorted.
func (l Layout) Offsets() []int {
	var ret []int
	ret = append(ret, l.Reactants...)
	ret = append(ret, l.Products...)
	ret = append(ret, l.Energy)
	ret = append(ret, l.Scope...)
	sort.Ints(ret)
	return ret
}
