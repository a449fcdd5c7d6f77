/*
 * network.go, part of kmcrecon.
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

// Edge is one reaction step from a reactant species to a product species.
type Edge struct {
	From   string
	To     string
	Energy float64
	Label  string
	Kind   Kind
}

// Network is a directed multigraph of species, with the edges out of each species
// kept in insertion order. It is not modified after Build, so it can be searched
// from several goroutines.
type Network struct {
	species []string
	index   map[string]int
	adj     [][]Edge
	nedges  int
}

// Build adds one edge per reactant/product pair of each tuple, in tuple order.
// Every species in a tuple becomes a node, products included.
func Build(tuples []Tuple) *Network {
	N := &Network{index: make(map[string]int)}
	for i := range tuples {
		t := &tuples[i]
		for _, r := range t.Reactants {
			N.node(r)
		}
		for _, p := range t.Products {
			N.node(p)
		}
		for _, r := range t.Reactants {
			from := N.index[r]
			for _, p := range t.Products {
				N.adj[from] = append(N.adj[from], Edge{From: r, To: p, Energy: t.Energy, Label: t.Label, Kind: t.Kind})
				N.nedges++
			}
		}
	}
	return N
}

func (N *Network) node(s string) int {
	if i, ok := N.index[s]; ok {
		return i
	}
	N.index[s] = len(N.species)
	N.species = append(N.species, s)
	N.adj = append(N.adj, nil)
	return len(N.species) - 1
}

// Successors returns the edges out of s in insertion order, or nil if s is not in the network.
// The slice belongs to the network and must not be modified.
func (N *Network) Successors(s string) []Edge {
	i, ok := N.index[s]
	if !ok {
		return nil
	}
	return N.adj[i]
}

// Species returns the species in the order they were first seen.
func (N *Network) Species() []string {
	return append([]string(nil), N.species...)
}

// Has returns true if s is in the network.
func (N *Network) Has(s string) bool {
	_, ok := N.index[s]
	return ok
}

// Len returns the number of species.
func (N *Network) Len() int {
	return len(N.species)
}

// EdgeCount returns the number of edges.
func (N *Network) EdgeCount() int {
	return N.nedges
}

// Edges returns all the edges, grouped by source species in insertion order.
func (N *Network) Edges() []Edge {
	ret := make([]Edge, 0, N.nedges)
	for _, e := range N.adj {
		ret = append(ret, e...)
	}
	return ret
}

// Edge returns the first edge from one species to another.
func (N *Network) Edge(from, to string) (Edge, bool) {
	for _, e := range N.Successors(from) {
		if e.To == to {
			return e, true
		}
	}
	return Edge{}, false
}
