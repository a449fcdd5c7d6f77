/*
 * sink.go, part of kmcrecon.
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

// Package structio writes assembled structures to files, and reads the XYZ files
// used as ligand templates.
package structio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	kmc "github.com/aldkmc/kmcrecon"
	"github.com/aldkmc/kmcrecon/fileio"
)

// Format is a structure file format.
type Format int

const (
	CIF Format = iota
	XYZ
)

func (f Format) String() string {
	if f == XYZ {
		return "xyz"
	}
	return "cif"
}

// ParseFormat accepts cif and xyz.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cif", "":
		return CIF, nil
	case "xyz", "extxyz":
		return XYZ, nil
	}
	return CIF, fmt.Errorf("structio: unknown format %q", s)
}

// Write writes st to w in format f.
func (f Format) Write(w io.Writer, st *kmc.Structure) error {
	if f == XYZ {
		return WriteXYZ(w, st)
	}
	return WriteCIF(w, st)
}

// FrameName is the destination name for the frame with time index t.
func FrameName(t int) string {
	return fmt.Sprintf("frame_%06d", t)
}

// DirSink writes each structure to its own file in a directory. The file name
// is the destination plus the format and compression suffixes.
type DirSink struct {
	Dir      string
	Format   Format
	Compress fileio.Codec
}

// NewDirSink creates dir if needed and returns a sink writing to it.
func NewDirSink(dir string, f Format, c fileio.Codec) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("structio: output directory: %w", err)
	}
	return &DirSink{Dir: dir, Format: f, Compress: c}, nil
}

// Path returns the file that Write would use for dest.
func (D *DirSink) Path(dest string) string {
	return filepath.Join(D.Dir, dest+"."+D.Format.String()+D.Compress.Ext())
}

// Write implements kmc.Sink. It is safe to call from several goroutines as long as
// the destinations differ.
func (D *DirSink) Write(st *kmc.Structure, dest string) error {
	name := D.Path(dest)
	w, err := fileio.Create(name)
	if err != nil {
		return err
	}
	if err := D.Format.Write(w, st); err != nil {
		w.Close()
		return fmt.Errorf("structio: writing %s: %w", name, err)
	}
	return w.Close()
}
