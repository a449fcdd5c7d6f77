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
Package kmc is the main package of kmcrecon. It provides the lattice, site, frame,
ligand catalog and atomic structure types used to rebuild time-resolved atomic
structures from the dump output of a lattice kinetic Monte Carlo simulation, and the
assembler that turns one frame of lattice sites into one structure.

	**kmcrecon capabilities**

	Streams SPPARKS-style dump files (plain or compressed) frame by frame, honoring a
	start:end:stride time window, without keeping more than one frame in memory
	(see the dump package).

	Places a translated copy of a ligand template at each lattice site, anchored on
	the site's cartesian position, and writes one periodic structure per admitted
	frame (see the structio package for XYZ and CIF output).

	Parses reaction rule files, collapses rules that only differ in their coordinate
	scope, builds the species reaction network and searches it for reaction cycles
	that return to a set of seed species (see the reaction package).

	Exports reaction networks and cycles to CSV, SQLite, Graphviz DOT, Neo4j and
	barrier plots (see the rxexport package).

Unknown species are handled by an explicit Policy carried by the Catalog: FailFast
aborts on the first site whose species has no template, SkipWarn leaves the site out
and records it in a Report that is printed at the end of the run.
*/
package kmc
