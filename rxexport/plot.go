/*
 * plot.go, part of kmcrecon.
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

package rxexport

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/aldkmc/kmcrecon/histo"
	"github.com/aldkmc/kmcrecon/reaction"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"
)

// KindStats summarizes the energies of the rules of one kind.
type KindStats struct {
	Kind reaction.Kind
	N    int
	Mean float64
	Std  float64 //0 for a single rule
	Min  float64
	Max  float64
}

func (k KindStats) String() string {
	return fmt.Sprintf("kind %d: %d rules, E = %.3f +- %.3f eV [%.3f, %.3f]", k.Kind, k.N, k.Mean, k.Std, k.Min, k.Max)
}

func energiesByKind(tuples []reaction.Tuple) map[reaction.Kind][]float64 {
	ret := make(map[reaction.Kind][]float64)
	for i := range tuples {
		ret[tuples[i].Kind] = append(ret[tuples[i].Kind], tuples[i].Energy)
	}
	return ret
}

func sortedKinds(m map[reaction.Kind][]float64) []reaction.Kind {
	ks := make([]reaction.Kind, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Slice(ks, func(i, j int) bool { return ks[i] < ks[j] })
	return ks
}

// Summarize returns the energy statistics of the rules, one entry per kind present, by kind.
func Summarize(tuples []reaction.Tuple) []KindStats {
	byKind := energiesByKind(tuples)
	var ret []KindStats
	for _, k := range sortedKinds(byKind) {
		e := byKind[k]
		mean, std := stat.MeanStdDev(e, nil)
		if len(e) < 2 {
			std = 0
		}
		ret = append(ret, KindStats{Kind: k, N: len(e), Mean: mean, Std: std, Min: floats.Min(e), Max: floats.Max(e)})
	}
	return ret
}

// BarrierPlot saves a histogram of the rule energies, one series per kind, to file.
// The format is taken from the file extension (png, svg, pdf...).
func BarrierPlot(tuples []reaction.Tuple, file string) error {
	if len(tuples) == 0 {
		return fmt.Errorf("rxexport: no rules to plot")
	}
	byKind := energiesByKind(tuples)
	p := plot.New()
	p.Title.Text = "Activation energies"
	p.Title.Padding = 3 * vg.Millimeter
	p.X.Label.Text = "E (eV)"
	p.Y.Label.Text = "Rules"
	p.Add(plotter.NewGrid())
	for i, k := range sortedKinds(byKind) {
		e := byKind[k]
		bins := int(math.Ceil(math.Sqrt(float64(len(e)))))
		h, err := plotter.NewHist(plotter.Values(e), bins)
		if err != nil {
			return fmt.Errorf("rxexport: histogram for kind %d: %w", k, err)
		}
		h.FillColor = plotutil.Color(i)
		p.Add(h)
		p.Legend.Add(fmt.Sprintf("kind %d", k), h)
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, file); err != nil {
		return fmt.Errorf("rxexport: saving %s: %w", file, err)
	}
	return nil
}

// EnergyHistograms bins the rule energies of each kind present, in kind order. All
// the histograms share the same dividers, spanning every energy.
func EnergyHistograms(tuples []reaction.Tuple, bins int) ([]*histo.Data, error) {
	if len(tuples) == 0 {
		return nil, nil
	}
	all := make([]float64, len(tuples))
	for i := range tuples {
		all[i] = tuples[i].Energy
	}
	div := histo.Dividers(floats.Min(all), floats.Max(all), bins)
	byKind := energiesByKind(tuples)
	var ret []*histo.Data
	for _, k := range sortedKinds(byKind) {
		h, err := histo.NewData(fmt.Sprintf("kind %d", k), div, byKind[k])
		if err != nil {
			return nil, fmt.Errorf("rxexport: %w", err)
		}
		ret = append(ret, h)
	}
	return ret, nil
}

// WriteHistogramsJSON writes the histograms as a JSON array.
func WriteHistogramsJSON(w io.Writer, hs []*histo.Data) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(hs)
}
