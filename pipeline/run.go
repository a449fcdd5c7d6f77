/*
 * run.go, part of kmcrecon.
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

	kmc "github.com/aldkmc/kmcrecon"
	"github.com/aldkmc/kmcrecon/config"
	"github.com/aldkmc/kmcrecon/dump"
	"github.com/aldkmc/kmcrecon/fileio"
	"github.com/aldkmc/kmcrecon/ligand"
	"github.com/aldkmc/kmcrecon/metrics"
	"github.com/aldkmc/kmcrecon/rxexport"
	"github.com/aldkmc/kmcrecon/structio"
	"go.uber.org/zap"
)

// RunFrames rebuilds the frames described by the frames section of c.
func RunFrames(ctx context.Context, c *config.Config, log *zap.Logger, m *metrics.Metrics, rep *kmc.Report) (*Summary, error) {
	if log == nil {
		log = zap.NewNop()
	}
	lat, err := c.Lattice()
	if err != nil {
		return nil, err
	}
	w, err := c.Window()
	if err != nil {
		return nil, err
	}
	cat, err := ligand.Load(c.Frames.Catalog, log)
	if err != nil {
		return nil, err
	}
	if c.Frames.UnknownSpecies != "" {
		p, err := kmc.ParsePolicy(c.Frames.UnknownSpecies)
		if err != nil {
			return nil, err
		}
		if err := cat.SetPolicy(p); err != nil {
			return nil, err
		}
	}
	opts := []kmc.AssemblerOption{kmc.WithLogger(log)}
	if rep != nil {
		opts = append(opts, kmc.WithReport(rep))
	}
	asm, err := kmc.NewAssembler(lat, cat, opts...)
	if err != nil {
		return nil, err
	}
	format, err := structio.ParseFormat(c.Frames.Format)
	if err != nil {
		return nil, err
	}
	codec, err := fileio.ParseCodec(c.Frames.Compress)
	if err != nil {
		return nil, err
	}
	sink, err := structio.NewDirSink(c.Frames.Out, format, codec)
	if err != nil {
		return nil, err
	}
	src, err := dump.Open(c.Frames.Dump, w,
		dump.WithMarker(c.Frames.Marker), dump.WithSpeciesColumn(c.Frames.SpeciesColumn), dump.WithLogger(log))
	if err != nil {
		return nil, err
	}
	defer src.Close()
	log.Info("rebuilding frames", zap.String("dump", c.Frames.Dump), zap.Stringer("window", w),
		zap.Int("species", cat.Len()), zap.Stringer("policy", cat.Policy()), zap.String("out", c.Frames.Out),
		zap.Stringer("format", format), zap.Stringer("compress", codec))
	return Reconstruct(ctx, Options{
		Source:    src,
		Assembler: asm,
		Sink:      sink,
		Workers:   c.Frames.Workers,
		Log:       log,
		Metrics:   m,
	})
}

// RunReactions runs the reaction analysis described by the reactions section of c.
// The Neo4j export runs when a URI is configured.
func RunReactions(ctx context.Context, c *config.Config, log *zap.Logger, m *metrics.Metrics, rep *kmc.Report) (*ReactionSummary, error) {
	r := c.Reactions
	o := ReactionOptions{
		Rules:    r.Rules,
		Schema:   c.Schema(),
		Seeds:    r.Seeds,
		MaxDepth: r.MaxDepth,
		Workers:  r.Workers,
		Out:      r.Out,
		CSV:      r.CSV,
		DOT:      r.DOT,
		Plot:     r.Plot,
		SQLite:   r.SQLite,
		Log:      log,
		Report:   rep,
		Metrics:  m,
	}
	if r.Neo4j.URI != "" {
		g, err := rxexport.DialNeo4j(ctx, rxexport.Neo4jConfig{
			URI: r.Neo4j.URI, Username: r.Neo4j.Username, Password: r.Neo4j.Password, Database: r.Neo4j.Database,
		})
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		defer g.Close(ctx)
		o.Graph = g
	}
	return Reactions(ctx, o)
}
