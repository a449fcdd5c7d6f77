/*
 * fileio.go, part of kmcrecon.
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

// Package fileio opens and creates files that may be compressed. The codec is
// picked from the file suffix: .zst and .zstd for z-standard, .gz for gzip,
// .flate for raw deflate, .lzw and .Z for lzw. Anything else is read and
// written as is.
package fileio

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/lzw"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const (
	lzwLitwidth int = 8
)

// Codec is a compression format.
type Codec int

const (
	Plain Codec = iota
	Zstd
	Gzip
	Flate
	LZW
)

var codecNames = map[Codec]string{Plain: "none", Zstd: "zst", Gzip: "gz", Flate: "flate", LZW: "lzw"}

func (c Codec) String() string {
	if s, ok := codecNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Codec(%d)", int(c))
}

// Ext returns the file suffix for the codec, with the dot, or "" for Plain.
func (c Codec) Ext() string {
	if c == Plain {
		return ""
	}
	return "." + c.String()
}

// ParseCodec accepts the codec names used in the command line: none (or ""), zst,
// zstd, gz, gzip, flate, lzw.
func ParseCodec(s string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "plain":
		return Plain, nil
	case "zst", "zstd":
		return Zstd, nil
	case "gz", "gzip":
		return Gzip, nil
	case "flate", "deflate":
		return Flate, nil
	case "lzw", "z":
		return LZW, nil
	}
	return Plain, fmt.Errorf("fileio: unknown compression %q", s)
}

// CodecFor returns the codec for a file name, from its suffix.
func CodecFor(name string) Codec {
	ext := filepath.Ext(name)
	if ext == ".Z" {
		return LZW
	}
	switch strings.ToLower(ext) {
	case ".zst", ".zstd":
		return Zstd
	case ".gz":
		return Gzip
	case ".flate":
		return Flate
	case ".lzw":
		return LZW
	}
	return Plain
}

// Trim removes the compression suffix, if any, from name.
func Trim(name string) string {
	if CodecFor(name) == Plain {
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// zstd.Decoder's Close doesn't return an error, so it isn't an io.ReadCloser.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// NewReader returns a reader that decompresses r with the codec given by name's suffix.
// Closing the returned reader doesn't close r.
func NewReader(name string, r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	switch CodecFor(name) {
	case Zstd:
		d, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("fileio: zstd reader for %s: %w", name, err)
		}
		return zstdReadCloser{d}, nil
	case Gzip:
		g, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("fileio: gzip reader for %s: %w", name, err)
		}
		return g, nil
	case Flate:
		return flate.NewReader(br), nil
	case LZW:
		return lzw.NewReader(br, lzw.MSB, lzwLitwidth), nil
	}
	return io.NopCloser(br), nil
}

// NewWriter returns a writer that compresses into w with the codec given by name's suffix.
// Closing the returned writer flushes it, but doesn't close w.
func NewWriter(name string, w io.Writer) (io.WriteCloser, error) {
	switch CodecFor(name) {
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case Gzip:
		return gzip.NewWriterLevel(w, gzip.DefaultCompression)
	case Flate:
		return flate.NewWriter(w, flate.DefaultCompression)
	case LZW:
		return lzw.NewWriter(w, lzw.MSB, lzwLitwidth), nil
	}
	return nopWriteCloser{w}, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// file is an open file seen through its codec. Close closes both.
type file struct {
	codec io.Closer
	f     *os.File
}

func (F *file) Close() error {
	err := F.codec.Close()
	if err2 := F.f.Close(); err == nil {
		err = err2
	}
	return err
}

type readFile struct {
	io.ReadCloser
	file
}

func (R *readFile) Close() error { return R.file.Close() }

type writeFile struct {
	io.WriteCloser
	file
}

func (W *writeFile) Close() error { return W.file.Close() }

// Open opens the file name for reading, decompressing it if its suffix says so.
func Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(name, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &readFile{ReadCloser: r, file: file{codec: r, f: f}}, nil
}

// Create creates or truncates the file name for writing, compressing it if its suffix says so.
// The data is only complete after Close.
func Create(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(name, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &writeFile{WriteCloser: w, file: file{codec: w, f: f}}, nil
}
