/*
 * parser.go, part of kmcrecon.
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
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	kmc "github.com/aldkmc/kmcrecon"
	"go.uber.org/zap"
)

const (
	// DefaultMarker opens a frame. The rest of the header line are the column names.
	DefaultMarker = "ITEM: ATOMS"
	// DefaultSpeciesColumn is the column with the species code of each site.
	DefaultSpeciesColumn = "i1"

	countRecord = 3 //0-based record with the number of sites per frame
	idColumn    = "id"
	maxLine     = 1024 * 1024
)

var latticeColumns = [3]string{"x", "y", "z"}

// State is the state of the Parser.
type State int

const (
	AwaitingCount State = iota
	AwaitingHeader
	CollectingSites
	SkippingSites
	Done
)

func (s State) String() string {
	switch s {
	case AwaitingCount:
		return "AwaitingCount"
	case AwaitingHeader:
		return "AwaitingHeader"
	case CollectingSites:
		return "CollectingSites"
	case SkippingSites:
		return "SkippingSites"
	case Done:
		return "Done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Option configures a Parser.
type Option func(*Parser)

// WithMarker sets the text that opens a frame.
func WithMarker(m string) Option {
	return func(P *Parser) {
		if m != "" {
			P.marker = m
		}
	}
}

// WithSpeciesColumn sets the name of the species column.
func WithSpeciesColumn(c string) Option {
	return func(P *Parser) {
		if c != "" {
			P.species = c
		}
	}
}

// WithLogger sets the logger for the parser's debug messages.
func WithLogger(l *zap.Logger) Option {
	return func(P *Parser) {
		if l != nil {
			P.log = l
		}
	}
}

// columns is the layout of the site records of a frame.
type columns struct {
	names   []string
	lattice [3]int
	species int
	id      int //-1 if there is no id column
	extra   []int
}

// Parser reads a dump stream and returns the admitted frames one at a time.
// It is not restartable: reading the stream again needs a new Parser.
type Parser struct {
	sc      *bufio.Scanner
	name    string
	window  Window
	marker  string
	species string
	log     *zap.Logger

	state   State
	count   int
	line    int //lines read so far, i.e. the 1-based number of the current line
	time    int
	pending int //site records left to read or skip in the open frame
	cols    *columns
	header  string //last header line, so a repeated layout is not parsed again
	open    *kmc.Frame
	err     error
}

// NewParser returns a Parser for r. name is only used in errors and logs.
func NewParser(r io.Reader, name string, w Window, opts ...Option) *Parser {
	P := &Parser{
		sc:      bufio.NewScanner(r),
		name:    name,
		window:  w,
		marker:  DefaultMarker,
		species: DefaultSpeciesColumn,
		log:     zap.NewNop(),
		time:    -1,
		count:   -1,
	}
	P.sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for _, o := range opts {
		o(P)
	}
	return P
}

// State returns the current state of the parser.
func (P *Parser) State() State {
	return P.state
}

// Len returns the declared number of sites per frame, or -1 if it hasn't been read yet.
func (P *Parser) Len() int {
	return P.count
}

// Time returns the time index of the last frame header read, or -1.
func (P *Parser) Time() int {
	return P.time
}

// Line returns the number of lines read so far.
func (P *Parser) Line() int {
	return P.line
}

// Next fills f with the next admitted frame. At the normal end of the stream
// it returns a kmc.LastFrameError. Any other error is fatal, and all later calls
// return it again. f gets new slices every call, so frames returned earlier
// stay valid.
func (P *Parser) Next(f *kmc.Frame) error {
	if P.err != nil {
		return P.err
	}
	err := P.next(f)
	if err != nil {
		kmc.ErrDecorate(err, "Next")
		P.err = err
		P.state = Done
	}
	return err
}

func (P *Parser) next(f *kmc.Frame) error {
	for P.sc.Scan() {
		P.line++
		text := P.sc.Text()
		switch P.state {
		case AwaitingCount:
			if P.line-1 < countRecord {
				continue
			}
			if err := P.readCount(text); err != nil {
				return err
			}
			P.state = AwaitingHeader
		case AwaitingHeader:
			if !strings.Contains(text, P.marker) {
				continue
			}
			P.time++
			if P.window.Past(P.time) {
				P.log.Debug("past the time window, stopping", zap.String("file", P.name), zap.Int("time", P.time))
				return kmc.NewLastFrameError(P.name, "next")
			}
			if !P.window.Admit(P.time) {
				P.pending = P.count
				if P.pending > 0 {
					P.state = SkippingSites
				}
				continue
			}
			if err := P.readHeader(text); err != nil {
				return err
			}
			P.open = &kmc.Frame{
				Time:       P.time,
				Columns:    append([]string(nil), P.cols.names...),
				Sites:      make([]kmc.Site, 0, P.count),
				HeaderLine: P.line,
			}
			P.pending = P.count
			if P.pending == 0 {
				P.emit(f)
				return nil
			}
			P.state = CollectingSites
		case CollectingSites:
			s, err := P.readSite(text)
			if err != nil {
				return err
			}
			P.open.Sites = append(P.open.Sites, s)
			P.pending--
			if P.pending == 0 {
				P.emit(f)
				return nil
			}
		case SkippingSites:
			P.pending--
			if P.pending == 0 {
				P.state = AwaitingHeader
			}
		}
	}
	if err := P.sc.Err(); err != nil {
		return fmt.Errorf("dump: reading %s after line %d: %w", P.name, P.line, err)
	}
	switch P.state {
	case AwaitingCount:
		return &kmc.FormatError{File: P.name, Line: P.line, Time: -1, Msg: "missing atom count record"}
	case CollectingSites, SkippingSites:
		return &kmc.TruncatedFrameError{File: P.name, Time: P.time, Have: P.count - P.pending, Want: P.count, Line: P.line}
	}
	P.state = Done
	return kmc.NewLastFrameError(P.name, "next")
}

func (P *Parser) emit(f *kmc.Frame) {
	*f = *P.open
	P.open = nil
	P.state = AwaitingHeader
	P.log.Debug("frame read", zap.String("file", P.name), zap.Int("time", f.Time), zap.Int("sites", len(f.Sites)))
}

func (P *Parser) readCount(text string) error {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return &kmc.FormatError{File: P.name, Line: P.line, Time: -1, Msg: fmt.Sprintf("atom count %q is not an integer", strings.TrimSpace(text))}
	}
	if n < 0 {
		return &kmc.FormatError{File: P.name, Line: P.line, Time: -1, Msg: fmt.Sprintf("negative atom count %d", n)}
	}
	P.count = n
	return nil
}

func (P *Parser) readHeader(text string) error {
	if P.cols != nil && text == P.header {
		return nil
	}
	i := strings.Index(text, P.marker)
	names := strings.Fields(text[i+len(P.marker):])
	c := &columns{names: names, lattice: [3]int{-1, -1, -1}, species: -1, id: -1}
	seen := make(map[string]bool, len(names))
	for k, n := range names {
		if seen[n] {
			return &kmc.FormatError{File: P.name, Line: P.line, Time: P.time, Msg: fmt.Sprintf("repeated column %q", n)}
		}
		seen[n] = true
		switch n {
		case latticeColumns[0]:
			c.lattice[0] = k
		case latticeColumns[1]:
			c.lattice[1] = k
		case latticeColumns[2]:
			c.lattice[2] = k
		case P.species:
			c.species = k
		case idColumn:
			c.id = k
		default:
			c.extra = append(c.extra, k)
		}
	}
	for j, k := range c.lattice {
		if k < 0 {
			return &kmc.FormatError{File: P.name, Line: P.line, Time: P.time, Msg: fmt.Sprintf("no %s column in frame header", latticeColumns[j])}
		}
	}
	if c.species < 0 {
		return &kmc.FormatError{File: P.name, Line: P.line, Time: P.time, Msg: fmt.Sprintf("no species column %q in frame header", P.species)}
	}
	P.cols = c
	P.header = text
	return nil
}

func (P *Parser) readSite(text string) (kmc.Site, error) {
	var s kmc.Site
	c := P.cols
	tokens := strings.Fields(text)
	if len(tokens) != len(c.names) {
		return s, &kmc.FormatError{File: P.name, Line: P.line, Time: P.time,
			Msg: fmt.Sprintf("site record has %d fields, the header has %d columns", len(tokens), len(c.names))}
	}
	values := make([]float64, len(tokens))
	for i, t := range tokens {
		v, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return s, &kmc.FormatError{File: P.name, Line: P.line, Time: P.time,
				Msg: fmt.Sprintf("column %s: %q is not a number", c.names[i], t)}
		}
		values[i] = v
	}
	sp := values[c.species]
	if sp != math.Trunc(sp) || math.IsInf(sp, 0) {
		return s, &kmc.FormatError{File: P.name, Line: P.line, Time: P.time,
			Msg: fmt.Sprintf("species %q is not an integer", tokens[c.species])}
	}
	s.Species = int(sp)
	for j, k := range c.lattice {
		s.Index[j] = values[k]
	}
	if c.id >= 0 {
		s.ID = int(values[c.id])
	} else {
		s.ID = len(P.open.Sites) + 1
	}
	if len(c.extra) > 0 {
		s.Fields = make(map[string]float64, len(c.extra))
		for _, k := range c.extra {
			s.Fields[c.names[k]] = values[k]
		}
	}
	s.Line = P.line
	return s, nil
}
