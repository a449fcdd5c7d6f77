/*
 * reactions.go, part of kmcrecon.
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

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	kmc "github.com/aldkmc/kmcrecon"
	"github.com/aldkmc/kmcrecon/metrics"
	"github.com/aldkmc/kmcrecon/reaction"
	"github.com/aldkmc/kmcrecon/rxexport"
	"go.uber.org/zap"
)

// Output file names of Reactions, inside the output directory.
const (
	RulesCSV    = "reactions.csv"
	CyclesCSV   = "cycles.csv"
	NetworkDOT  = "network.dot"
	CyclesDOT   = "cycles.dot"
	BarrierPlot = "barriers.png"
	BarrierJSON = "barriers.json"
)

// HistogramBins is the number of energy bins of the exported histograms.
const HistogramBins = 20

// GraphWriter stores a network and its cycles in a graph database.
type GraphWriter interface {
	WriteNetwork(ctx context.Context, n *reaction.Network) error
	WriteCycles(ctx context.Context, cycles []reaction.Path) error
}

// ReactionOptions configure Reactions.
type ReactionOptions struct {
	Rules    string
	Schema   reaction.Schema
	Seeds    []string
	MaxDepth int
	Workers  int

	Out    string //directory for the file exports, created if needed
	CSV    bool
	DOT    bool
	Plot   bool
	SQLite string      //database path; empty means none
	Graph  GraphWriter //nil means none

	Log     *zap.Logger
	Report  *kmc.Report
	Metrics *metrics.Metrics
}

// ReactionSummary is what Reactions found and wrote.
type ReactionSummary struct {
	Result  *reaction.Result
	Network *reaction.Network
	Cycles  []reaction.Path
	Stats   []rxexport.KindStats
	Files   []string
}

// Reactions parses the rule file, builds the network, finds the cycles through the
// seeds and runs the enabled exports.
func Reactions(ctx context.Context, o ReactionOptions) (*ReactionSummary, error) {
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = reaction.DefaultMaxDepth
	}
	p, err := reaction.NewParser(o.Schema, reaction.WithLogger(o.Log), reaction.WithReport(o.Report))
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	stop := o.Metrics.Stage("rules")
	res, err := p.ParseFile(o.Rules)
	stop()
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	for i := range res.Tuples {
		o.Metrics.Rule(int(res.Tuples[i].Kind))
	}
	o.Metrics.RuleFile(res.Skipped(), res.Duplicates)

	stop = o.Metrics.Stage("cycles")
	n := reaction.Build(res.Tuples)
	cycles, err := reaction.FindCyclesParallel(ctx, n, o.Seeds, o.MaxDepth, o.Workers)
	stop()
	if err != nil {
		return nil, fmt.Errorf("pipeline: cycle search: %w", err)
	}
	o.Metrics.Network(n.Len(), n.EdgeCount(), len(cycles))
	S := &ReactionSummary{Result: res, Network: n, Cycles: cycles, Stats: rxexport.Summarize(res.Tuples)}
	o.Log.Info("reaction network built", zap.Int("rules", len(res.Tuples)), zap.Int("malformed", res.Skipped()),
		zap.Int("duplicates", res.Duplicates), zap.Int("species", n.Len()), zap.Int("edges", n.EdgeCount()),
		zap.Int("cycles", len(cycles)))

	defer o.Metrics.Stage("export")()
	if err := exportFiles(o, S); err != nil {
		return S, err
	}
	if o.SQLite != "" {
		if err := exportSQLite(ctx, o.SQLite, S); err != nil {
			return S, err
		}
		S.Files = append(S.Files, o.SQLite)
	}
	if o.Graph != nil {
		if err := o.Graph.WriteNetwork(ctx, n); err != nil {
			return S, err
		}
		if err := o.Graph.WriteCycles(ctx, cycles); err != nil {
			return S, err
		}
	}
	return S, nil
}

func exportFiles(o ReactionOptions, S *ReactionSummary) error {
	if !o.CSV && !o.DOT && !o.Plot {
		return nil
	}
	if err := os.MkdirAll(o.Out, 0o755); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	write := func(name string, f func(w *os.File) error) error {
		path := filepath.Join(o.Out, name)
		w, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("pipeline: %w", err)
		}
		if err := f(w); err != nil {
			w.Close()
			return fmt.Errorf("pipeline: writing %s: %w", path, err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("pipeline: %w", err)
		}
		S.Files = append(S.Files, path)
		o.Log.Debug("written", zap.String("file", path))
		return nil
	}
	if o.CSV {
		if err := write(RulesCSV, func(w *os.File) error { return rxexport.WriteCSV(w, S.Result.Tuples) }); err != nil {
			return err
		}
		if err := write(CyclesCSV, func(w *os.File) error { return rxexport.WriteCyclesCSV(w, S.Network, S.Cycles) }); err != nil {
			return err
		}
	}
	if o.DOT {
		dot := func(b []byte, merr error) func(*os.File) error {
			return func(w *os.File) error {
				if merr != nil {
					return merr
				}
				_, err := w.Write(b)
				return err
			}
		}
		if err := write(NetworkDOT, dot(rxexport.NetworkDOT(S.Network))); err != nil {
			return err
		}
		if err := write(CyclesDOT, dot(rxexport.CycleDOT(S.Network, S.Cycles, o.Seeds))); err != nil {
			return err
		}
	}
	if o.Plot && len(S.Result.Tuples) > 0 {
		path := filepath.Join(o.Out, BarrierPlot)
		if err := rxexport.BarrierPlot(S.Result.Tuples, path); err != nil {
			return fmt.Errorf("pipeline: %w", err)
		}
		S.Files = append(S.Files, path)
		hs, err := rxexport.EnergyHistograms(S.Result.Tuples, HistogramBins)
		if err != nil {
			return fmt.Errorf("pipeline: %w", err)
		}
		if err := write(BarrierJSON, func(w *os.File) error { return rxexport.WriteHistogramsJSON(w, hs) }); err != nil {
			return err
		}
	}
	return nil
}

func exportSQLite(ctx context.Context, path string, S *ReactionSummary) error {
	st, err := rxexport.OpenStore(path)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	defer st.Close()
	if err := st.SaveReactions(ctx, S.Result.Tuples); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := st.SaveNetwork(ctx, S.Network); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := st.SaveCycles(ctx, S.Cycles); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	return nil
}
