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
Package dump reads the per-site dump files written by lattice KMC codes.

A dump file is line oriented. The 4th line holds the number of sites in each
frame. A line containing the frame marker (by default "ITEM: ATOMS") opens a
frame, and the rest of that line names the columns of the following site
records. Every header increments the time index, starting from 0, whether the
frame is admitted by the time Window or not. The next N lines, N being the site
count, are the site records, one whitespace-separated number per column.
Other lines (ITEM: TIMESTEP, box bounds and so on) are ignored.

The x, y and z columns are the lattice coordinates of the site, and the species
column (i1 by default) its species code.
*/
package dump
