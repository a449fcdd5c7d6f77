/*
 * xyz.go, part of kmcrecon.
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

package structio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	kmc "github.com/aldkmc/kmcrecon"
	v3 "github.com/aldkmc/kmcrecon/v3"
)

// WriteXYZ writes st to w as extended XYZ. The comment line carries the cell, the
// periodicity and the time index, and each atom line has the species code of its site.
func WriteXYZ(w io.Writer, st *kmc.Structure) error {
	if err := st.Corrupted(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	v := st.Cell.Vectors()
	vs := make([]string, 9)
	for i, c := range v {
		vs[i] = strconv.FormatFloat(c, 'f', 8, 64)
	}
	fmt.Fprintf(bw, "%d\n", st.Len())
	fmt.Fprintf(bw, "Lattice=\"%s\" Properties=species:S:1:pos:R:3:site_species:I:1 pbc=\"%s %s %s\" Time=%d\n",
		strings.Join(vs, " "), tf(st.PBC[0]), tf(st.PBC[1]), tf(st.PBC[2]), st.Time)
	for i, a := range st.Atoms {
		c := st.Coords.Vec(i)
		fmt.Fprintf(bw, "%-2s %14.8f %14.8f %14.8f %4d\n", a.Symbol, c[0], c[1], c[2], st.Species[i])
	}
	return bw.Flush()
}

func tf(b bool) string {
	if b {
		return "T"
	}
	return "F"
}

// ReadXYZ reads the first structure of a plain or extended XYZ stream. Columns after the
// 4th are ignored. It returns the atoms, their coordinates and the comment line.
func ReadXYZ(r io.Reader) ([]*kmc.Atom, *v3.Matrix, string, error) {
	sc := bufio.NewScanner(r)
	line := 0
	nextLine := func() (string, bool) {
		ok := sc.Scan()
		if ok {
			line++
		}
		return sc.Text(), ok
	}
	first, ok := nextLine()
	if !ok {
		return nil, nil, "", ioErr(sc.Err(), "empty XYZ file")
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil || natoms < 0 {
		return nil, nil, "", fmt.Errorf("structio: ill formatted XYZ atom count %q", strings.TrimSpace(first))
	}
	comment, ok := nextLine()
	if !ok {
		return nil, nil, "", ioErr(sc.Err(), "XYZ file ends before the comment line")
	}
	atoms := make([]*kmc.Atom, 0, natoms)
	coords := make([]float64, 0, 3*natoms)
	for i := 0; i < natoms; i++ {
		text, ok := nextLine()
		if !ok {
			return nil, nil, "", ioErr(sc.Err(), fmt.Sprintf("XYZ file has %d of %d atoms", i, natoms))
		}
		fields := strings.Fields(text)
		if len(fields) < 4 {
			return nil, nil, "", fmt.Errorf("structio: line %d of XYZ file ill formed", line)
		}
		for _, f := range fields[1:4] {
			c, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, nil, "", fmt.Errorf("structio: line %d of XYZ file: %w", line, err)
			}
			coords = append(coords, c)
		}
		atoms = append(atoms, &kmc.Atom{Symbol: fields[0], Name: fmt.Sprintf("%s%d", fields[0], i+1)})
	}
	m, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, nil, "", err
	}
	return atoms, m, comment, nil
}

func ioErr(err error, msg string) error {
	if err != nil {
		return fmt.Errorf("structio: %s: %w", msg, err)
	}
	return fmt.Errorf("structio: %s", msg)
}
