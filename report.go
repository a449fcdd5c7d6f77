/*
 * report.go, part of kmcrecon.
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
	"sort"
	"strings"
	"sync"
)

// maxExamples is how many individual problems of each class a Report keeps.
const maxExamples = 10

// Report accumulates the problems that a skip policy lets through, so they can be
// printed once at the end of the run. It is safe for concurrent use.
type Report struct {
	mu              sync.Mutex
	unknown         map[int]int
	unknownExamples []string
	malformed       int
	malformedLines  []string
	negative        []int
}

// NewReport returns an empty Report.
func NewReport() *Report {
	return &Report{unknown: make(map[int]int)}
}

// UnknownSpecies records a site left out because its species had no template.
func (R *Report) UnknownSpecies(e *UnknownSpeciesError) {
	R.mu.Lock()
	defer R.mu.Unlock()
	R.unknown[e.Code]++
	if len(R.unknownExamples) < maxExamples {
		R.unknownExamples = append(R.unknownExamples, e.Error())
	}
}

// MalformedRule records a skipped rule record.
func (R *Report) MalformedRule(e *MalformedRuleError) {
	R.mu.Lock()
	defer R.mu.Unlock()
	R.malformed++
	if len(R.malformedLines) < maxExamples {
		R.malformedLines = append(R.malformedLines, e.Error())
	}
}

// NegativeEnergy flags a rule with a negative energy that was accepted anyway.
func (R *Report) NegativeEnergy(line int) {
	R.mu.Lock()
	R.negative = append(R.negative, line)
	R.mu.Unlock()
}

// UnknownSpeciesCounts returns the number of skipped sites per species code.
func (R *Report) UnknownSpeciesCounts() map[int]int {
	R.mu.Lock()
	defer R.mu.Unlock()
	ret := make(map[int]int, len(R.unknown))
	for k, v := range R.unknown {
		ret[k] = v
	}
	return ret
}

// SkippedSites returns the total number of sites left out.
func (R *Report) SkippedSites() int {
	R.mu.Lock()
	defer R.mu.Unlock()
	n := 0
	for _, v := range R.unknown {
		n += v
	}
	return n
}

// MalformedRules returns the number of skipped rule records.
func (R *Report) MalformedRules() int {
	R.mu.Lock()
	defer R.mu.Unlock()
	return R.malformed
}

// NegativeEnergies returns the lines of rules accepted with a negative energy.
func (R *Report) NegativeEnergies() []int {
	R.mu.Lock()
	defer R.mu.Unlock()
	return append([]int(nil), R.negative...)
}

// Empty is true if nothing was recorded.
func (R *Report) Empty() bool {
	R.mu.Lock()
	defer R.mu.Unlock()
	return len(R.unknown) == 0 && R.malformed == 0 && len(R.negative) == 0
}

// WriteTo writes a human readable summary of the report to w.
func (R *Report) WriteTo(w io.Writer) (int64, error) {
	R.mu.Lock()
	var b strings.Builder
	if len(R.unknown) == 0 && R.malformed == 0 && len(R.negative) == 0 {
		b.WriteString("no skipped records\n")
	}
	if len(R.unknown) > 0 {
		codes := make([]int, 0, len(R.unknown))
		for k := range R.unknown {
			codes = append(codes, k)
		}
		sort.Ints(codes)
		b.WriteString("sites skipped for unknown species:\n")
		for _, c := range codes {
			fmt.Fprintf(&b, "  species %d: %d sites\n", c, R.unknown[c])
		}
		for _, s := range R.unknownExamples {
			fmt.Fprintf(&b, "  e.g. %s\n", s)
		}
	}
	if R.malformed > 0 {
		fmt.Fprintf(&b, "malformed rule records skipped: %d\n", R.malformed)
		for _, s := range R.malformedLines {
			fmt.Fprintf(&b, "  %s\n", s)
		}
	}
	if len(R.negative) > 0 {
		fmt.Fprintf(&b, "rules accepted with negative energy at lines: %v\n", R.negative)
	}
	R.mu.Unlock()
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}
