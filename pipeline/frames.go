/*
 * frames.go, part of kmcrecon.
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

// Package pipeline runs the two kmcrecon jobs: rebuilding atomistic frames from a
// lattice dump, and building the reaction network of a rule file.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	kmc "github.com/aldkmc/kmcrecon"
	"github.com/aldkmc/kmcrecon/metrics"
	"github.com/aldkmc/kmcrecon/structio"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options are the parts of a reconstruction.
type Options struct {
	Source    kmc.FrameSource
	Assembler *kmc.Assembler
	Sink      kmc.Sink
	Workers   int //frames assembled and written at once; the source is always read by one goroutine
	Log       *zap.Logger
	Metrics   *metrics.Metrics
}

// Summary tells what a reconstruction did.
type Summary struct {
	Frames  int
	Sites   int
	Atoms   int
	Skipped int
	First   int //time of the first written frame, -1 if none
	Last    int
	Report  *kmc.Report
}

func (S *Summary) add(f *kmc.Frame, st *kmc.Structure) {
	if S.Frames == 0 || f.Time < S.First {
		S.First = f.Time
	}
	if f.Time > S.Last {
		S.Last = f.Time
	}
	S.Frames++
	S.Sites += f.Len()
	S.Atoms += st.Len()
}

// Reconstruct reads every admitted frame from the source, assembles it and writes
// it to the sink under structio.FrameName(time). A fatal error stops the run;
// frames already written are left in place. With more than one worker, frames may
// reach the sink out of order.
func Reconstruct(ctx context.Context, o Options) (*Summary, error) {
	if o.Source == nil || o.Assembler == nil || o.Sink == nil {
		return nil, fmt.Errorf("pipeline: Reconstruct needs a source, an assembler and a sink")
	}
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	defer o.Metrics.Stage("frames")()
	S := &Summary{First: -1, Last: -1, Report: o.Assembler.Report()}
	var mu sync.Mutex
	do := func(f *kmc.Frame) error {
		st, err := o.Assembler.Assemble(f)
		if err != nil {
			return fmt.Errorf("pipeline: frame at time %d: %w", f.Time, err)
		}
		if err := st.Corrupted(); err != nil {
			return fmt.Errorf("pipeline: frame at time %d: %w", f.Time, err)
		}
		if err := o.Sink.Write(st, structio.FrameName(f.Time)); err != nil {
			return fmt.Errorf("pipeline: writing frame at time %d: %w", f.Time, err)
		}
		o.Metrics.Written(st.Len())
		mu.Lock()
		S.add(f, st)
		mu.Unlock()
		o.Log.Debug("frame written", zap.Int("time", f.Time), zap.Int("atoms", st.Len()))
		return nil
	}
	var err error
	if o.Workers <= 1 {
		err = sequential(ctx, o, do)
	} else {
		err = concurrent(ctx, o, do)
	}
	counts := S.Report.UnknownSpeciesCounts()
	for code, n := range counts {
		S.Skipped += n
		o.Metrics.Skipped(code, n)
	}
	if err != nil {
		return S, err
	}
	o.Log.Info("frames rebuilt", zap.Int("frames", S.Frames), zap.Int("atoms", S.Atoms),
		zap.Int("first", S.First), zap.Int("last", S.Last), zap.Int("skipped_sites", S.Skipped))
	return S, nil
}

// next reads one frame. It returns false and no error at the end of the stream.
func next(o Options, f *kmc.Frame) (bool, error) {
	err := o.Source.Next(f)
	if err == nil {
		o.Metrics.Frame(f.Len())
		return true, nil
	}
	var last kmc.LastFrameError
	if errors.As(err, &last) {
		return false, nil
	}
	return false, err
}

func sequential(ctx context.Context, o Options, do func(*kmc.Frame) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		f := new(kmc.Frame)
		ok, err := next(o, f)
		if err != nil || !ok {
			return err
		}
		if err := do(f); err != nil {
			return err
		}
	}
}

func concurrent(ctx context.Context, o Options, do func(*kmc.Frame) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Workers)
	var readErr error
	for {
		if gctx.Err() != nil {
			break
		}
		f := new(kmc.Frame)
		ok, err := next(o, f)
		if err != nil {
			readErr = err
			break
		}
		if !ok {
			break
		}
		g.Go(func() error { return do(f) })
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if readErr != nil {
		return readErr
	}
	return ctx.Err()
}
