/*
 * open.go, part of kmcrecon.
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

package dump

import (
	"io"

	"github.com/aldkmc/kmcrecon/fileio"
)

// File is a Parser reading from a file opened by Open.
type File struct {
	*Parser
	c io.Closer
}

// Close closes the underlying file.
func (F *File) Close() error {
	return F.c.Close()
}

// Open opens the dump file name, which may be compressed (see fileio), and returns
// a parser for it.
func Open(name string, w Window, opts ...Option) (*File, error) {
	r, err := fileio.Open(name)
	if err != nil {
		return nil, err
	}
	return &File{Parser: NewParser(r, name, w, opts...), c: r}, nil
}
