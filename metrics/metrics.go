/*
 * metrics.go, part of kmcrecon.
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

// Package metrics holds the prometheus counters of a kmcrecon run. They live in a
// private registry and are written as a node_exporter textfile at the end of the run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kmcrecon"

// Metrics are the collectors updated by the pipelines. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	reg *prometheus.Registry

	FramesRead    prometheus.Counter
	FramesWritten prometheus.Counter
	Sites         prometheus.Counter
	Atoms         prometheus.Counter
	SkippedSites  *prometheus.CounterVec //by species code
	Rules         *prometheus.CounterVec //by kind
	RulesSkipped  prometheus.Counter
	Duplicates    prometheus.Counter
	Species       prometheus.Gauge
	Edges         prometheus.Gauge
	Cycles        prometheus.Gauge
	StageSeconds  *prometheus.HistogramVec
}

// New registers all the collectors in a new registry.
func New() *Metrics {
	M := &Metrics{
		reg: prometheus.NewRegistry(),
		FramesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "frames", Name: "read_total",
			Help: "Frames admitted by the time window."}),
		FramesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "frames", Name: "written_total",
			Help: "Structures written to the sink."}),
		Sites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "frames", Name: "sites_total",
			Help: "Sites in admitted frames."}),
		Atoms: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "frames", Name: "atoms_total",
			Help: "Atoms in written structures."}),
		SkippedSites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "frames", Name: "skipped_sites_total",
			Help: "Sites left out for lack of a template."}, []string{"species"}),
		Rules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "rules", Name: "parsed_total",
			Help: "Unique rules decoded."}, []string{"kind"}),
		RulesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "rules", Name: "malformed_total",
			Help: "Rule records skipped as malformed."}),
		Duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "rules", Name: "duplicates_total",
			Help: "Rule records collapsed into an earlier rule."}),
		Species: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "network", Name: "species",
			Help: "Species in the reaction network."}),
		Edges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "network", Name: "edges",
			Help: "Edges in the reaction network."}),
		Cycles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "network", Name: "cycles",
			Help: "Cycles found through the seed species."}),
		StageSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "stage_seconds",
			Help:    "Wall time of each pipeline stage.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10)}, []string{"stage"}),
	}
	M.reg.MustRegister(M.FramesRead, M.FramesWritten, M.Sites, M.Atoms, M.SkippedSites,
		M.Rules, M.RulesSkipped, M.Duplicates, M.Species, M.Edges, M.Cycles, M.StageSeconds)
	return M
}

// Registry returns the private registry of M.
func (M *Metrics) Registry() *prometheus.Registry {
	return M.reg
}

// Frame counts one admitted frame with n sites.
func (M *Metrics) Frame(n int) {
	if M == nil {
		return
	}
	M.FramesRead.Inc()
	M.Sites.Add(float64(n))
}

// Written counts one structure of n atoms written.
func (M *Metrics) Written(n int) {
	if M == nil {
		return
	}
	M.FramesWritten.Inc()
	M.Atoms.Add(float64(n))
}

// Skipped counts n sites of species code left out.
func (M *Metrics) Skipped(code, n int) {
	if M == nil || n == 0 {
		return
	}
	M.SkippedSites.WithLabelValues(fmt.Sprint(code)).Add(float64(n))
}

// Rule counts one unique rule of the given kind.
func (M *Metrics) Rule(kind int) {
	if M == nil {
		return
	}
	M.Rules.WithLabelValues(fmt.Sprint(kind)).Inc()
}

// RuleFile records the outcome of parsing a rule file.
func (M *Metrics) RuleFile(malformed, duplicates int) {
	if M == nil {
		return
	}
	M.RulesSkipped.Add(float64(malformed))
	M.Duplicates.Add(float64(duplicates))
}

// Network records the size of a reaction network and the number of cycles in it.
func (M *Metrics) Network(species, edges, cycles int) {
	if M == nil {
		return
	}
	M.Species.Set(float64(species))
	M.Edges.Set(float64(edges))
	M.Cycles.Set(float64(cycles))
}

// Stage starts timing a stage. The returned function stops it.
func (M *Metrics) Stage(name string) func() {
	if M == nil {
		return func() {}
	}
	t := prometheus.NewTimer(M.StageSeconds.WithLabelValues(name))
	return func() { t.ObserveDuration() }
}

// WriteFile writes every metric to path in the text exposition format. The file is
// written to a temporary name and then renamed.
func (M *Metrics) WriteFile(path string) error {
	if M == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, M.reg); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	return nil
}
