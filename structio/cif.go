/*
 * cif.go, part of kmcrecon.
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
	"sort"
	"strings"

	kmc "github.com/aldkmc/kmcrecon"
)

// WriteCIF writes st to w as a P1 CIF block, with fractional coordinates.
func WriteCIF(w io.Writer, st *kmc.Structure) error {
	if err := st.Corrupted(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	l := st.Cell.Lengths()
	a := st.Cell.Angles()
	fmt.Fprintf(bw, "data_frame_%06d\n", st.Time)
	fmt.Fprintf(bw, "_chem_formula_sum '%s'\n", formula(st))
	fmt.Fprintf(bw, "_cell_length_a %.6f\n_cell_length_b %.6f\n_cell_length_c %.6f\n", l[0], l[1], l[2])
	fmt.Fprintf(bw, "_cell_angle_alpha %.6f\n_cell_angle_beta %.6f\n_cell_angle_gamma %.6f\n", a[0], a[1], a[2])
	bw.WriteString("\n_symmetry_space_group_name_H-M 'P 1'\n_symmetry_int_tables_number 1\n\n")
	bw.WriteString("loop_\n  _symmetry_equiv_pos_as_xyz\n  'x, y, z'\n\n")
	bw.WriteString("loop_\n  _atom_site_type_symbol\n  _atom_site_label\n  _atom_site_symmetry_multiplicity\n")
	bw.WriteString("  _atom_site_fract_x\n  _atom_site_fract_y\n  _atom_site_fract_z\n  _atom_site_occupancy\n")
	labels := make(map[string]int)
	for i, at := range st.Atoms {
		labels[at.Symbol]++
		f := st.Cell.Fractional(st.Coords.Vec(i))
		fmt.Fprintf(bw, "  %-2s %-6s 1 %10.6f %10.6f %10.6f 1.0\n", at.Symbol,
			fmt.Sprintf("%s%d", at.Symbol, labels[at.Symbol]), f[0], f[1], f[2])
	}
	return bw.Flush()
}

// formula returns the Hill-ordered formula of st.
func formula(st *kmc.Structure) string {
	f := st.Formula()
	if len(f) == 0 {
		return ""
	}
	syms := make([]string, 0, len(f))
	for s := range f {
		syms = append(syms, s)
	}
	_, hasC := f["C"]
	sort.Slice(syms, func(i, j int) bool {
		if hasC {
			if rank(syms[i]) != rank(syms[j]) {
				return rank(syms[i]) < rank(syms[j])
			}
		}
		return syms[i] < syms[j]
	})
	parts := make([]string, len(syms))
	for i, s := range syms {
		if f[s] == 1 {
			parts[i] = s
		} else {
			parts[i] = fmt.Sprintf("%s%d", s, f[s])
		}
	}
	return strings.Join(parts, " ")
}

func rank(s string) int {
	switch s {
	case "C":
		return 0
	case "H":
		return 1
	}
	return 2
}
