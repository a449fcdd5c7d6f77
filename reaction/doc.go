/*
 * doc.go, part of kmcrecon.
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

/*
Package reaction reads the event rules of a lattice KMC input file, folds them into
a network of species, and looks for reaction cycles in it.

A rule record is a line starting with the keyword "event", followed by the event
kind and the kind's fields. Kind 1 rules turn one species into another; kinds 2
to 4 turn a pair of species into another pair. The token offsets of the fields are
given by a Schema, and rules that differ only in their site-coordinate scope are
the same rule.
*/
package reaction
