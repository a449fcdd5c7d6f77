/*
 * errors.go, part of kmcrecon.
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

import (
	"fmt"
	"io"
	"strings"
)

//All the error types here use pointer receivers, so Decorate really changes the
//error that gets passed up, and errors.As works with a **T target.

type deco []string

func (d *deco) add(s string) []string {
	if s != "" {
		*d = append(*d, s)
	}
	return *d
}

func (d deco) trace() string {
	if len(d) == 0 {
		return ""
	}
	return " (" + strings.Join(d, " <- ") + ")"
}

// TruncatedFrameError means that a dump stream ended in the middle of a frame.
// It is fatal, but the frames emitted before it are still good.
type TruncatedFrameError struct {
	File string
	Time int //time index of the open frame
	Have int //site records read
	Want int //declared site records
	Line int //last line read
	d    deco
}

func (e *TruncatedFrameError) Error() string {
	return fmt.Sprintf("kmc: %s: stream ended inside frame %d after line %d: %d of %d site records read%s",
		e.File, e.Time, e.Line, e.Have, e.Want, e.d.trace())
}

func (e *TruncatedFrameError) Decorate(s string) []string { return e.d.add(s) }
func (e *TruncatedFrameError) Critical() bool             { return true }

// UnknownSpeciesError is returned when a site has a species code with no ligand template.
type UnknownSpeciesError struct {
	Code int
	Time int
	Line int //source line of the site record, 0 if unknown
	d    deco
}

func (e *UnknownSpeciesError) Error() string {
	return fmt.Sprintf("kmc: unknown species code %d in frame %d (line %d)%s", e.Code, e.Time, e.Line, e.d.trace())
}

func (e *UnknownSpeciesError) Decorate(s string) []string { return e.d.add(s) }
func (e *UnknownSpeciesError) Critical() bool             { return true }

// MalformedRuleError describes a rule record that can't be decoded. The record is
// skipped and parsing goes on.
type MalformedRuleError struct {
	Line   int
	Kind   string //the kind token as written, may be empty
	Tokens int    //tokens found
	Want   int    //tokens required by the kind, 0 if the kind itself is bad
	Reason string
	d      deco
}

func (e *MalformedRuleError) Error() string {
	if e.Want > 0 && e.Tokens < e.Want {
		return fmt.Sprintf("kmc: malformed rule at line %d: kind %s needs %d tokens, got %d%s", e.Line, e.Kind, e.Want, e.Tokens, e.d.trace())
	}
	return fmt.Sprintf("kmc: malformed rule at line %d (kind %q): %s%s", e.Line, e.Kind, e.Reason, e.d.trace())
}

func (e *MalformedRuleError) Decorate(s string) []string { return e.d.add(s) }
func (e *MalformedRuleError) Critical() bool             { return false }

// DegenerateLatticeError means the lattice vectors don't span 3D space.
type DegenerateLatticeError struct {
	Det    float64
	Reason string
	d      deco
}

func (e *DegenerateLatticeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("kmc: degenerate lattice: %s%s", e.Reason, e.d.trace())
	}
	return fmt.Sprintf("kmc: degenerate lattice: determinant %g%s", e.Det, e.d.trace())
}

func (e *DegenerateLatticeError) Decorate(s string) []string { return e.d.add(s) }
func (e *DegenerateLatticeError) Critical() bool             { return true }

// FormatError is a malformed record in a dump stream, or in some other input file.
type FormatError struct {
	File string
	Line int
	Time int //-1 if the record is not inside a frame
	Msg  string
	d    deco
}

func (e *FormatError) Error() string {
	if e.Time >= 0 {
		return fmt.Sprintf("kmc: %s:%d (frame %d): %s%s", e.File, e.Line, e.Time, e.Msg, e.d.trace())
	}
	return fmt.Sprintf("kmc: %s:%d: %s%s", e.File, e.Line, e.Msg, e.d.trace())
}

func (e *FormatError) Decorate(s string) []string { return e.d.add(s) }
func (e *FormatError) Critical() bool             { return true }

// lastFrameError implements LastFrameError
type lastFrameError struct {
	fileName string
	d        deco
}

// NewLastFrameError returns the error that marks the normal end of a frame source.
func NewLastFrameError(filename, caller string) LastFrameError {
	e := &lastFrameError{fileName: filename}
	e.d.add(caller)
	return e
}

//NormalLastFrameTermination does nothing
func (e *lastFrameError) NormalLastFrameTermination() {}

func (e *lastFrameError) Error() string              { return "EOF" }
func (e *lastFrameError) Decorate(s string) []string { return e.d.add(s) }
func (e *lastFrameError) Critical() bool             { return false }

// FileName returns the file whose end was reached.
func (e *lastFrameError) FileName() string { return e.fileName }

// Is makes errors.Is(err, io.EOF) true for the end of a frame source.
func (e *lastFrameError) Is(target error) bool { return target == io.EOF }

// IsLastFrame returns true if err marks the normal end of a frame source.
func IsLastFrame(err error) bool {
	_, ok := err.(LastFrameError)
	return ok
}

// ErrDecorate decorates err with the caller's name if err implements Error, and returns it.
// Other errors are returned untouched.
func ErrDecorate(err error, caller string) error {
	if e, ok := err.(Error); ok {
		e.Decorate(caller)
	}
	return err
}
