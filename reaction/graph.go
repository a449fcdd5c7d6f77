/*
 * graph.go, part of kmcrecon.
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
	"strconv"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/topo"
)

// SpeciesNode is a species in the gonum view of a Network. Its ID is the insertion index.
type SpeciesNode struct {
	id    int64
	Name  string
	Attrs encoding.Attributes
}

func (n *SpeciesNode) ID() int64 { return n.id }

// DOTID names the node after its species in DOT output.
func (n *SpeciesNode) DOTID() string { return n.Name }

// Attributes implements encoding.Attributer.
func (n *SpeciesNode) Attributes() []encoding.Attribute { return n.Attrs }

// ReactionLine is an edge in the gonum view of a Network, weighted by its energy.
type ReactionLine struct {
	F, T  graph.Node
	UID   int64
	Edge  Edge
	Attrs encoding.Attributes
}

func (l *ReactionLine) From() graph.Node { return l.F }
func (l *ReactionLine) To() graph.Node   { return l.T }
func (l *ReactionLine) ID() int64        { return l.UID }
func (l *ReactionLine) Weight() float64  { return l.Edge.Energy }

func (l *ReactionLine) ReversedLine() graph.Line {
	r := *l
	r.F, r.T = l.T, l.F
	return &r
}

// Attributes implements encoding.Attributer.
func (l *ReactionLine) Attributes() []encoding.Attribute { return l.Attrs }

// EdgeLabel is the text shown on a reaction edge in diagrams.
func EdgeLabel(e Edge) string {
	return fmt.Sprintf("E=%s eV\n%s", strconv.FormatFloat(e.Energy, 'g', -1, 64), e.Label)
}

// Graph returns the network as a gonum multigraph. Edges carry their energy as weight
// and a DOT label.
func (N *Network) Graph() *multi.WeightedDirectedGraph {
	return N.Subgraph(nil)
}

// Subgraph is Graph with only the edges for which keep returns true, and the species
// they join. Edges are offered to keep in insertion order. A nil keep keeps everything,
// isolated species included.
func (N *Network) Subgraph(keep func(Edge) bool) *multi.WeightedDirectedGraph {
	g := multi.NewWeightedDirectedGraph()
	nodes := make([]*SpeciesNode, len(N.species))
	for i, s := range N.species {
		nodes[i] = &SpeciesNode{id: int64(i), Name: s}
		if keep == nil {
			g.AddNode(nodes[i])
		}
	}
	for i, edges := range N.adj {
		for _, e := range edges {
			if keep != nil && !keep(e) {
				continue
			}
			f, t := nodes[i], nodes[N.index[e.To]]
			uid := g.NewWeightedLine(f, t, e.Energy).ID()
			g.SetWeightedLine(&ReactionLine{F: f, T: t, UID: uid, Edge: e,
				Attrs: encoding.Attributes{{Key: "label", Value: EdgeLabel(e)}}})
		}
	}
	return g
}

// Components returns the strongly connected components of the network with more
// than one species, or with a self loop. Species in each component keep their
// insertion order, and components are sorted by their first species.
func (N *Network) Components() [][]string {
	g := N.Graph()
	var ret [][]string
	for _, c := range topo.TarjanSCC(g) {
		if len(c) == 1 && !g.HasEdgeFromTo(c[0].ID(), c[0].ID()) {
			continue
		}
		sort.Slice(c, func(i, j int) bool { return c[i].ID() < c[j].ID() })
		names := make([]string, len(c))
		for i, n := range c {
			names[i] = N.species[n.ID()]
		}
		ret = append(ret, names)
	}
	sort.Slice(ret, func(i, j int) bool { return N.index[ret[i][0]] < N.index[ret[j][0]] })
	return ret
}
