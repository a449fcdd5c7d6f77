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

package main

import (
	"fmt"

	"github.com/aldkmc/kmcrecon/pipeline"
	"github.com/spf13/cobra"
)

func newReactionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reactions",
		Short: "Build the reaction network of a rule file and find its cycles",
		Example: "  kmcrecon reactions --rules in.ald --seeds OH,O --max-depth 10 --out reactions --sqlite rules.db",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			S, err := pipeline.RunReactions(cmd.Context(), a.cfg, a.log, a.metrics, a.report)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%d rules (%d malformed, %d duplicates), %d species, %d edges, %d cycles\n",
				len(S.Result.Tuples), S.Result.Skipped(), S.Result.Duplicates, S.Network.Len(), S.Network.EdgeCount(), len(S.Cycles))
			for _, s := range S.Stats {
				fmt.Fprintln(w, s)
			}
			for i, c := range S.Cycles {
				fmt.Fprintf(w, "cycle %d: %s\n", i+1, c)
			}
			for _, f := range S.Files {
				fmt.Fprintln(w, "written", f)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.String("rules", "", "rule file, may be compressed")
	f.StringSlice("seeds", nil, "species where cycles start and end")
	f.Int("max-depth", 0, "largest number of steps in a cycle")
	f.Int("workers", 0, "seeds searched at once")
	f.StringP("out", "o", "", "output directory for the file exports")
	f.Bool("csv", false, "write the rules and cycles as CSV")
	f.Bool("dot", false, "write the network and cycles in the DOT language")
	f.Bool("plot", false, "plot the energy histogram per kind")
	f.String("sqlite", "", "store rules, network and cycles in this SQLite database")
	f.Bool("allow-negative", false, "accept rules with negative energies")
	f.String("neo4j-uri", "", "merge the network into this Neo4j server")
	f.String("neo4j-user", "", "Neo4j user")
	f.String("neo4j-password", "", "Neo4j password")
	f.String("neo4j-database", "", "Neo4j database")
	a.bind(f, map[string]string{
		"reactions.rules":                 "rules",
		"reactions.seeds":                 "seeds",
		"reactions.max_depth":             "max-depth",
		"reactions.workers":               "workers",
		"reactions.out":                   "out",
		"reactions.csv":                   "csv",
		"reactions.dot":                   "dot",
		"reactions.plot":                  "plot",
		"reactions.sqlite":                "sqlite",
		"reactions.schema.allow_negative": "allow-negative",
		"reactions.neo4j.uri":             "neo4j-uri",
		"reactions.neo4j.username":        "neo4j-user",
		"reactions.neo4j.password":        "neo4j-password",
		"reactions.neo4j.database":        "neo4j-database",
	})
	return cmd
}
