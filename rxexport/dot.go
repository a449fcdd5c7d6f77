/*
 * dot.go, part of kmcrecon.
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

package rxexport

import (
	"github.com/aldkmc/kmcrecon/reaction"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/multi"
)

// SeedColor is the fill color of seed species in cycle diagrams.
const SeedColor = "gold"

var kindColors = map[reaction.Kind]string{1: "black", 2: "darkgreen", 3: "deeppink", 4: "darkcyan"}

// dotGraph adds the top level attributes to a network graph.
type dotGraph struct {
	*multi.WeightedDirectedGraph
	graph, node, edge encoding.Attributes
}

func (g dotGraph) DOTAttributers() (graph, node, edge encoding.Attributer) {
	return &g.graph, &g.node, &g.edge
}

func newDOTGraph(g *multi.WeightedDirectedGraph) dotGraph {
	return dotGraph{
		WeightedDirectedGraph: g,
		graph:                 encoding.Attributes{{Key: "rankdir", Value: "LR"}},
		node: encoding.Attributes{
			{Key: "shape", Value: "box"},
			{Key: "style", Value: "filled"},
			{Key: "fillcolor", Value: "lightblue"},
			{Key: "fontname", Value: "Arial"},
		},
		edge: encoding.Attributes{{Key: "fontname", Value: "Arial"}},
	}
}

// colorEdges sets the color of each edge after its event kind.
func colorEdges(g *multi.WeightedDirectedGraph) {
	lines := g.Edges()
	for lines.Next() {
		e := lines.Edge().(multi.WeightedEdge)
		for e.Next() {
			l := e.WeightedLine().(*reaction.ReactionLine)
			if c, ok := kindColors[l.Edge.Kind]; ok {
				l.Attrs = append(l.Attrs, encoding.Attribute{Key: "color", Value: c})
			}
		}
	}
}

// NetworkDOT returns the whole network in the DOT language. Edges are labelled with
// their energy and rule label, and colored after their kind.
func NetworkDOT(n *reaction.Network) ([]byte, error) {
	g := n.Graph()
	colorEdges(g)
	return dot.MarshalMulti(newDOTGraph(g), "reactions", "", "  ")
}

// CycleDOT returns the species and steps of the cycles in the DOT language, with
// the seed species highlighted. Each step is drawn once, with the first edge of the
// network between its two species.
func CycleDOT(n *reaction.Network, cycles []reaction.Path, seeds []string) ([]byte, error) {
	hops := make(map[[2]string]bool)
	for _, c := range cycles {
		for j := 0; j < c.Edges(); j++ {
			hops[[2]string{c[j], c[j+1]}] = true
		}
	}
	drawn := make(map[[2]string]bool)
	g := n.Subgraph(func(e reaction.Edge) bool {
		h := [2]string{e.From, e.To}
		if !hops[h] || drawn[h] {
			return false
		}
		drawn[h] = true
		return true
	})
	isSeed := make(map[string]bool)
	for _, s := range seeds {
		isSeed[s] = true
	}
	nodes := g.Nodes()
	for nodes.Next() {
		sn := nodes.Node().(*reaction.SpeciesNode)
		if isSeed[sn.Name] {
			sn.Attrs = append(sn.Attrs, encoding.Attribute{Key: "fillcolor", Value: SeedColor})
		}
	}
	colorEdges(g)
	return dot.MarshalMulti(newDOTGraph(g), "cycles", "", "  ")
}
