/*
 * sqlite.go, part of kmcrecon.
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
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aldkmc/kmcrecon/reaction"
	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS reactions (
	id INTEGER PRIMARY KEY,
	kind INTEGER NOT NULL,
	reactants TEXT NOT NULL,
	products TEXT NOT NULL,
	energy REAL NOT NULL,
	energy_text TEXT NOT NULL,
	label TEXT NOT NULL,
	line INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS species (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS edges (
	id INTEGER PRIMARY KEY,
	source TEXT NOT NULL,
	target TEXT NOT NULL,
	kind INTEGER NOT NULL,
	energy REAL NOT NULL,
	label TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS cycles (
	cycle INTEGER NOT NULL,
	step INTEGER NOT NULL,
	species TEXT NOT NULL,
	PRIMARY KEY (cycle, step)
);
`

// Store keeps rules, networks and cycles in a SQLite database. Each Save call
// replaces what the previous one of the same kind stored.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the SQLite database at path and makes sure the tables exist.
func OpenStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("rxexport: sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("rxexport: open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("rxexport: ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("rxexport: create tables: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// tx runs f in a transaction, committing if f returns nil.
func (s *Store) tx(ctx context.Context, f func(*sql.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := f(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// SaveReactions stores the rules, in order.
func (s *Store) SaveReactions(ctx context.Context, tuples []reaction.Tuple) error {
	return s.tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM reactions`); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO reactions (id, kind, reactants, products, energy, energy_text, label, line)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i := range tuples {
			t := &tuples[i]
			if _, err := stmt.ExecContext(ctx, i+1, int(t.Kind), t.ReactantLabel(), t.ProductLabel(),
				t.Energy, t.EnergyText, t.Label, t.Line); err != nil {
				return fmt.Errorf("rxexport: insert rule at line %d: %w", t.Line, err)
			}
		}
		return nil
	})
}

// SaveNetwork stores the species and edges of n, in insertion order.
func (s *Store) SaveNetwork(ctx context.Context, n *reaction.Network) error {
	return s.tx(ctx, func(tx *sql.Tx) error {
		for _, q := range []string{`DELETE FROM species`, `DELETE FROM edges`} {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				return err
			}
		}
		for i, sp := range n.Species() {
			if _, err := tx.ExecContext(ctx, `INSERT INTO species (id, name) VALUES (?, ?)`, i+1, sp); err != nil {
				return fmt.Errorf("rxexport: insert species %s: %w", sp, err)
			}
		}
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO edges (id, source, target, kind, energy, label) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, e := range n.Edges() {
			if _, err := stmt.ExecContext(ctx, i+1, e.From, e.To, int(e.Kind), e.Energy, e.Label); err != nil {
				return fmt.Errorf("rxexport: insert edge %s->%s: %w", e.From, e.To, err)
			}
		}
		return nil
	})
}

// SaveCycles stores the cycles, one row per species.
func (s *Store) SaveCycles(ctx context.Context, cycles []reaction.Path) error {
	return s.tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cycles`); err != nil {
			return err
		}
		for i, c := range cycles {
			for j, sp := range c {
				if _, err := tx.ExecContext(ctx, `INSERT INTO cycles (cycle, step, species) VALUES (?, ?, ?)`, i+1, j, sp); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Reactions reads back the stored rules. Reactants and products are split at "+".
func (s *Store) Reactions(ctx context.Context) ([]reaction.Tuple, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, reactants, products, energy, energy_text, label, line FROM reactions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ret []reaction.Tuple
	for rows.Next() {
		var t reaction.Tuple
		var kind int
		var r, p string
		if err := rows.Scan(&kind, &r, &p, &t.Energy, &t.EnergyText, &t.Label, &t.Line); err != nil {
			return nil, err
		}
		t.Kind = reaction.Kind(kind)
		t.Reactants = strings.Split(r, "+")
		t.Products = strings.Split(p, "+")
		ret = append(ret, t)
	}
	return ret, rows.Err()
}

// Cycles reads back the stored cycles.
func (s *Store) Cycles(ctx context.Context) ([]reaction.Path, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT cycle, species FROM cycles ORDER BY cycle, step`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ret []reaction.Path
	last := 0
	for rows.Next() {
		var c int
		var sp string
		if err := rows.Scan(&c, &sp); err != nil {
			return nil, err
		}
		if c != last {
			ret = append(ret, nil)
			last = c
		}
		ret[len(ret)-1] = append(ret[len(ret)-1], sp)
	}
	return ret, rows.Err()
}

// EdgeCount returns the number of stored edges.
func (s *Store) EdgeCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM edges`).Scan(&n)
	return n, err
}
