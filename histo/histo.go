/*
 * histo.go, part of kmcrecon.
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

// Package histo bins values, like the activation energies of a rule set, into
// histograms with fixed dividers.
package histo

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Data is a histogram. Bin i counts the values v with dividers[i] <= v < dividers[i+1].
type Data struct {
	label      string
	normalized bool
	total      int
	dividers   []float64
	histo      []float64
}

type jsonData struct {
	Label      string    `json:"label"`
	Normalized bool      `json:"normalized"`
	Total      int       `json:"total"`
	Dividers   []float64 `json:"dividers"`
	Histo      []float64 `json:"histo"`
}

func (D *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonData{
		Label:      D.label,
		Normalized: D.normalized,
		Total:      D.total,
		Dividers:   D.dividers,
		Histo:      D.histo,
	})
}

func (D *Data) UnmarshalJSON(b []byte) error {
	var a jsonData
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if len(a.Dividers) < 2 || len(a.Histo) != len(a.Dividers)-1 {
		return fmt.Errorf("histo: %d bins for %d dividers", len(a.Histo), len(a.Dividers))
	}
	D.label = a.Label
	D.normalized = a.Normalized
	D.total = a.Total
	D.dividers = a.Dividers
	D.histo = a.Histo
	return nil
}

// Dividers returns n+1 evenly spaced dividers for n bins covering [min, max]. The
// last divider is nudged up so that max falls in the last bin. A single value gets a
// bin of width 1 centered on it.
func Dividers(min, max float64, n int) []float64 {
	if n < 1 {
		n = 1
	}
	if max <= min {
		min, max = min-0.5, min+0.5
	}
	d := floats.Span(make([]float64, n+1), min, max)
	d[n] = math.Nextafter(max, math.Inf(1))
	return d
}

// NewData returns a histogram with the given dividers holding rawdata, which can be nil.
// There must be at least 2 dividers, in increasing order.
func NewData(label string, dividers []float64, rawdata []float64) (*Data, error) {
	if len(dividers) < 2 {
		return nil, fmt.Errorf("histo: %s needs at least 2 dividers", label)
	}
	if !sort.Float64sAreSorted(dividers) {
		return nil, fmt.Errorf("histo: dividers of %s are not sorted", label)
	}
	D := &Data{label: label, dividers: append([]float64(nil), dividers...)}
	D.ReHisto(rawdata)
	return D, nil
}

// Label returns the name of the histogram.
func (D *Data) Label() string {
	return D.label
}

// Total is the number of values in the histogram. Values outside the dividers are not counted.
func (D *Data) Total() int {
	return D.total
}

func (D *Data) String() string {
	ret := fmt.Sprintf("%s: %d values, normalized: %v\n", D.label, D.total, D.normalized)
	d := make([]string, 0, len(D.histo))
	h := make([]string, 0, len(D.histo))
	for i, v := range D.histo {
		d = append(d, fmt.Sprintf("%4.2f-%4.2f", D.dividers[i], D.dividers[i+1]))
		h = append(h, fmt.Sprintf("%9.3f", v))
	}
	return ret + strings.Join(d, " ") + "\n" + strings.Join(h, " ")
}

// AddData adds the given values to the histogram.
func (D *Data) AddData(point ...float64) {
	norma := D.normalized
	if norma {
		D.UnNormalize()
	}
	last := len(D.dividers) - 1
	for _, v := range point {
		if v < D.dividers[0] || v >= D.dividers[last] {
			continue
		}
		//first divider larger than v
		j := sort.Search(len(D.dividers), func(i int) bool { return D.dividers[i] > v })
		D.histo[j-1]++
		D.total++
	}
	if norma {
		D.Normalize()
	}
}

// Normalized returns true if the histogram is normalized.
func (D *Data) Normalized() bool {
	return D.normalized
}

// Normalize divides every bin by the number of values.
func (D *Data) Normalize() {
	D.normaunnorma(true)
}

// UnNormalize turns a normalized histogram back into counts.
func (D *Data) UnNormalize() {
	D.normaunnorma(false)
}

func (D *Data) normaunnorma(normalize bool) {
	if D.total <= 0 || D.normalized == normalize {
		return
	}
	n := float64(D.total)
	if normalize {
		n = 1 / n
	}
	D.normalized = normalize
	floats.Scale(n, D.histo)
}

// Dividers returns a copy of the dividers of the histogram.
func (D *Data) Dividers() []float64 {
	return append([]float64(nil), D.dividers...)
}

// View returns the bins, not a copy.
func (D *Data) View() []float64 {
	return D.histo
}

// Sum returns the sum of the bins.
func (D *Data) Sum() float64 {
	return floats.Sum(D.histo)
}

// ReHisto replaces the contents of the histogram by rawdata.
func (D *Data) ReHisto(rawdata []float64) {
	data := append([]float64(nil), rawdata...)
	sort.Float64s(data)
	//stat.Histogram panics on values off the dividers, so those go first.
	maxi := sort.SearchFloat64s(data, D.dividers[len(D.dividers)-1])
	mini := sort.SearchFloat64s(data, D.dividers[0])
	data = data[mini:maxi]
	D.total = len(data)
	D.normalized = false
	D.histo = stat.Histogram(nil, D.dividers, data, nil)
}
