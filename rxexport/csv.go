/*
 * csv.go, part of kmcrecon.
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

// Package rxexport writes reaction rules, networks and cycles to tables, databases,
// diagrams and plots.
package rxexport

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/aldkmc/kmcrecon/reaction"
)

// CSVHeader are the columns written by WriteCSV.
var CSVHeader = []string{"Type", "Reactants", "Products", "Energy", "Label"}

// WriteCSV writes one row per rule, with the energy as written in the rule file.
func WriteCSV(w io.Writer, tuples []reaction.Tuple) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for i := range tuples {
		t := &tuples[i]
		rec := []string{strconv.Itoa(int(t.Kind)), t.ReactantLabel(), t.ProductLabel(), t.EnergyText, t.Label}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CyclesCSVHeader are the columns written by WriteCyclesCSV.
var CyclesCSVHeader = []string{"Cycle", "Step", "From", "To", "Energy", "Label"}

// WriteCyclesCSV writes one row per step of each cycle, annotated with the first
// edge of the network between the two species.
func WriteCyclesCSV(w io.Writer, n *reaction.Network, cycles []reaction.Path) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CyclesCSVHeader); err != nil {
		return err
	}
	for i, c := range cycles {
		for j := 0; j < c.Edges(); j++ {
			energy, label := "?", ""
			if e, ok := n.Edge(c[j], c[j+1]); ok {
				energy = strconv.FormatFloat(e.Energy, 'g', -1, 64)
				label = e.Label
			}
			rec := []string{strconv.Itoa(i + 1), strconv.Itoa(j + 1), c[j], c[j+1], energy, label}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
