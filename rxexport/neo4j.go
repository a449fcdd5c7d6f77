/*
 * neo4j.go, part of kmcrecon.
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
	"context"
	"fmt"

	"github.com/aldkmc/kmcrecon/reaction"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Runner runs one write query. It hides the driver so the queries can be checked
// without a server.
type Runner interface {
	Run(ctx context.Context, cypher string, params map[string]any) error
}

// Neo4jConfig says where the graph goes.
type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	Database string
}

// Species nodes are merged. REACTS relationships and Cycle nodes are replaced on
// every write: parallel edges of the multigraph stay distinct through their idx
// (position in Network.Edges), and nothing is left over from an earlier run.
const (
	mergeSpeciesCypher = `UNWIND $species AS name MERGE (:Species {name: name})`
	deleteEdgesCypher  = `MATCH (:Species)-[r:REACTS]->(:Species) DELETE r`
	createEdgesCypher  = `UNWIND $edges AS e
MATCH (a:Species {name: e.from}), (b:Species {name: e.to})
CREATE (a)-[:REACTS {idx: e.idx, kind: e.kind, energy: e.energy, label: e.label}]->(b)`
	deleteCyclesCypher = `MATCH (y:Cycle) DETACH DELETE y`
	createCyclesCypher = `UNWIND $cycles AS c
CREATE (:Cycle {id: c.id, path: c.path, steps: c.steps})`
)

// Neo4jSink writes a reaction network as Species nodes joined by REACTS
// relationships, and cycles as Cycle nodes.
type Neo4jSink struct {
	r     Runner
	close func(context.Context) error
}

// NewNeo4jSink returns a sink that writes through r.
func NewNeo4jSink(r Runner) *Neo4jSink {
	return &Neo4jSink{r: r}
}

// DialNeo4j connects to the server in cfg.
func DialNeo4j(ctx context.Context, cfg Neo4jConfig) (*Neo4jSink, error) {
	auth := neo4j.NoAuth()
	if cfg.Username != "" {
		auth = neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	}
	d, err := neo4j.NewDriverWithContext(cfg.URI, auth)
	if err != nil {
		return nil, fmt.Errorf("rxexport: neo4j driver: %w", err)
	}
	if err := d.VerifyConnectivity(ctx); err != nil {
		_ = d.Close(ctx)
		return nil, fmt.Errorf("rxexport: neo4j %s: %w", cfg.URI, err)
	}
	return &Neo4jSink{r: &driverRunner{d: d, db: cfg.Database}, close: d.Close}, nil
}

// Close closes the connection, if the sink has one.
func (s *Neo4jSink) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// WriteNetwork merges the species of n and replaces the stored edges with
// those of n, one relationship per edge.
func (s *Neo4jSink) WriteNetwork(ctx context.Context, n *reaction.Network) error {
	if err := s.r.Run(ctx, mergeSpeciesCypher, map[string]any{"species": n.Species()}); err != nil {
		return fmt.Errorf("rxexport: neo4j species: %w", err)
	}
	if err := s.r.Run(ctx, deleteEdgesCypher, nil); err != nil {
		return fmt.Errorf("rxexport: neo4j old edges: %w", err)
	}
	edges := make([]map[string]any, 0, n.EdgeCount())
	for i, e := range n.Edges() {
		edges = append(edges, map[string]any{
			"idx":    int64(i),
			"from":   e.From,
			"to":     e.To,
			"kind":   int64(e.Kind),
			"energy": e.Energy,
			"label":  e.Label,
		})
	}
	if len(edges) == 0 {
		return nil
	}
	if err := s.r.Run(ctx, createEdgesCypher, map[string]any{"edges": edges}); err != nil {
		return fmt.Errorf("rxexport: neo4j edges: %w", err)
	}
	return nil
}

// WriteCycles replaces the stored Cycle nodes with one node per cycle.
func (s *Neo4jSink) WriteCycles(ctx context.Context, cycles []reaction.Path) error {
	if err := s.r.Run(ctx, deleteCyclesCypher, nil); err != nil {
		return fmt.Errorf("rxexport: neo4j old cycles: %w", err)
	}
	if len(cycles) == 0 {
		return nil
	}
	rows := make([]map[string]any, len(cycles))
	for i, c := range cycles {
		rows[i] = map[string]any{"id": int64(i + 1), "path": []string(c), "steps": int64(c.Edges())}
	}
	if err := s.r.Run(ctx, createCyclesCypher, map[string]any{"cycles": rows}); err != nil {
		return fmt.Errorf("rxexport: neo4j cycles: %w", err)
	}
	return nil
}

type driverRunner struct {
	d  neo4j.DriverWithContext
	db string
}

func (r *driverRunner) Run(ctx context.Context, cypher string, params map[string]any) error {
	session := r.d.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite, DatabaseName: r.db})
	defer session.Close(ctx)
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	return err
}
