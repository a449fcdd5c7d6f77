/*
 * frame.go, part of kmcrecon.
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

// Site is one lattice position at one time step.
type Site struct {
	ID      int                //from the id column if present, else the 1-based row in the frame
	Index   [3]float64         //lattice coordinates, integer or fractional
	Species int                //species code
	Fields  map[string]float64 //every other column of the record, by name
	Line    int                //source line
}

// Frame is the set of sites sharing one time step.
type Frame struct {
	Time       int //0-based count of frame headers seen before and including this one
	Columns    []string
	Sites      []Site
	HeaderLine int
}

// Len returns the number of sites in the frame.
func (F *Frame) Len() int {
	return len(F.Sites)
}

// Species returns the number of sites per species code.
func (F *Frame) Species() map[int]int {
	ret := make(map[int]int)
	for _, s := range F.Sites {
		ret[s.Species]++
	}
	return ret
}
