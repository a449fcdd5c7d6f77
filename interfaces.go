/*
 * interfaces.go, part of kmcrecon.
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

// FrameSource is anything that yields lattice frames one at a time, like the dump parser.
type FrameSource interface {

	//Next fills f with the next admitted frame. At the normal end of the
	//stream it returns a LastFrameError.
	Next(f *Frame) error

	//Len returns the declared number of sites per frame, or -1 if
	//it is not known yet.
	Len() int
}

// Sink receives one assembled structure per admitted frame. The encoding
// is the sink's business.
type Sink interface {
	Write(s *Structure, dest string) error
}

// Atomer is the basic interface for a set of atoms.
type Atomer interface {

	//Atom returns the Atom corresponding to the index i.
	//Should panic if out of range.
	Atom(i int) *Atom

	Len() int
}

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and
// retrieve info from the error, without changing its type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call also returns the resulting decoration slice. An empty string only returns the current value.
	Critical() bool
}

// LastFrameError has a useless function to distinguish the harmless errors (i.e. last frame) so they can be
// filtered in a typeswitch that looks for this interface.
type LastFrameError interface {
	Error
	NormalLastFrameTermination() //does nothing, just to separate this interface from other Errors
}
