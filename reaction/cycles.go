/*
 * cycles.go, part of kmcrecon.
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

package reaction

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxDepth is the largest number of edges in a cycle path when no other limit is given.
const DefaultMaxDepth = 10

// Path is a sequence of species, each one reacting to the next.
type Path []string

// Edges returns the number of steps in the path.
func (p Path) Edges() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

func (p Path) String() string {
	return strings.Join(p, " -> ")
}

func (p Path) key() string {
	return strings.Join(p, "\x00")
}

// searcher walks the network from one seed. Its state belongs to one goroutine.
type searcher struct {
	ctx      context.Context
	n        *Network
	seeds    map[string]bool
	maxDepth int
	path     []string
	onPath   map[string]bool
	found    []Path
	steps    int
}

func (s *searcher) dfs() error {
	s.steps++
	if s.steps%1024 == 0 {
		if err := s.ctx.Err(); err != nil {
			return err
		}
	}
	//one more edge would go over the limit
	if len(s.path) > s.maxDepth {
		return nil
	}
	cur := s.path[len(s.path)-1]
	for _, e := range s.n.Successors(cur) {
		next := e.To
		if s.seeds[next] && len(s.path)+1 > 2 {
			p := make(Path, len(s.path)+1)
			copy(p, s.path)
			p[len(s.path)] = next
			s.found = append(s.found, p)
			continue
		}
		if s.onPath[next] {
			continue
		}
		s.path = append(s.path, next)
		s.onPath[next] = true
		err := s.dfs()
		s.onPath[next] = false
		s.path = s.path[:len(s.path)-1]
		if err != nil {
			return err
		}
	}
	return nil
}

func uniqueSeeds(seeds []string) ([]string, map[string]bool) {
	set := make(map[string]bool, len(seeds))
	var ordered []string
	for _, s := range seeds {
		if !set[s] {
			set[s] = true
			ordered = append(ordered, s)
		}
	}
	return ordered, set
}

func searchSeed(ctx context.Context, n *Network, seed string, set map[string]bool, maxDepth int) ([]Path, error) {
	if !n.Has(seed) {
		return nil, nil
	}
	s := &searcher{
		ctx:      ctx,
		n:        n,
		seeds:    set,
		maxDepth: maxDepth,
		path:     []string{seed},
		onPath:   map[string]bool{seed: true},
	}
	err := s.dfs()
	return s.found, err
}

func merge(perSeed [][]Path) []Path {
	seen := make(map[string]bool)
	var ret []Path
	for _, ps := range perSeed {
		for _, p := range ps {
			k := p.key()
			if seen[k] {
				continue
			}
			seen[k] = true
			ret = append(ret, p)
		}
	}
	return ret
}

// FindCycles returns the paths that start at a seed and end at a seed after at
// least two steps, with at most maxDepth steps (DefaultMaxDepth if maxDepth <= 0).
// A species appears at most once in a path, except for the closing seed. Seeds are
// searched in the given order and edges in insertion order, and repeated paths are
// dropped, so the result only depends on the input order. Seeds not in the network
// give nothing.
func FindCycles(n *Network, seeds []string, maxDepth int) []Path {
	ret, _ := FindCyclesParallel(context.Background(), n, seeds, maxDepth, 1)
	return ret
}

// FindCyclesParallel is FindCycles with the search from each seed run in its own
// goroutine, at most workers at a time (no limit if workers <= 0). The result is the
// same as FindCycles'. It stops early with ctx's error.
func FindCyclesParallel(ctx context.Context, n *Network, seeds []string, maxDepth, workers int) ([]Path, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	ordered, set := uniqueSeeds(seeds)
	perSeed := make([][]Path, len(ordered))
	if workers == 1 {
		for i, s := range ordered {
			p, err := searchSeed(ctx, n, s, set, maxDepth)
			if err != nil {
				return nil, err
			}
			perSeed[i] = p
		}
		return merge(perSeed), nil
	}
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, s := range ordered {
		i, s := i, s
		g.Go(func() error {
			p, err := searchSeed(gctx, n, s, set, maxDepth)
			perSeed[i] = p
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return merge(perSeed), nil
}
