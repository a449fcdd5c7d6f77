/*
 * window.go, part of kmcrecon.
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
	"fmt"
	"strconv"
	"strings"
)

// Unbounded is the End of a Window with no upper limit.
const Unbounded = -1

// Window selects the frames to materialize by their time index.
type Window struct {
	Start  int
	End    int //last admitted time index, inclusive, or Unbounded
	Stride int
}

// All returns a Window that admits every frame.
func All() Window {
	return Window{Start: 0, End: Unbounded, Stride: 1}
}

// Admit returns true if the frame with time index t is to be materialized.
// It depends only on t and the window.
func (w Window) Admit(t int) bool {
	if t < w.Start {
		return false
	}
	if w.End >= 0 && t > w.End {
		return false
	}
	stride := w.Stride
	if stride < 1 {
		stride = 1
	}
	return (t-w.Start)%stride == 0
}

// Past returns true if no frame with time index t or later can be admitted.
func (w Window) Past(t int) bool {
	return w.End >= 0 && t > w.End
}

// Validate checks that the window can admit something.
func (w Window) Validate() error {
	if w.Start < 0 {
		return fmt.Errorf("dump: negative window start %d", w.Start)
	}
	if w.Stride < 1 {
		return fmt.Errorf("dump: window stride must be at least 1, got %d", w.Stride)
	}
	if w.End != Unbounded && w.End < w.Start {
		return fmt.Errorf("dump: window end %d before start %d", w.End, w.Start)
	}
	return nil
}

func (w Window) String() string {
	end := ""
	if w.End >= 0 {
		end = strconv.Itoa(w.End)
	}
	return fmt.Sprintf("%d:%s:%d", w.Start, end, w.Stride)
}

// ParseWindow reads a window written as start:end:stride. Empty fields take the
// defaults 0, unbounded and 1, and a single number N means N:: (from N on).
// An empty string is All().
func ParseWindow(s string) (Window, error) {
	w := All()
	s = strings.TrimSpace(s)
	if s == "" {
		return w, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return w, fmt.Errorf("dump: window %q has more than 3 fields", s)
	}
	fields := []*int{&w.Start, &w.End, &w.Stride}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return w, fmt.Errorf("dump: bad window field %q in %q: %w", p, s, err)
		}
		*fields[i] = v
	}
	return w, w.Validate()
}
