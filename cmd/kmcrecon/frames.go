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

package main

import (
	"fmt"

	"github.com/aldkmc/kmcrecon/pipeline"
	"github.com/spf13/cobra"
)

func newFramesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frames",
		Short: "Rebuild atomistic structures from a lattice dump",
		Long: `Reads the frames of a KMC lattice dump inside a time window, puts the
ligand template of each site's species on the site, and writes one CIF or
extended XYZ file per frame, named frame_<time>.`,
		Example: "  kmcrecon frames --dump dump.ald --catalog configs/species.yaml --time 100:500:10 --out frames",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			S, err := pipeline.RunFrames(cmd.Context(), a.cfg, a.log, a.metrics, a.report)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d frames (%d atoms) written to %s\n", S.Frames, S.Atoms, a.cfg.Frames.Out)
			return nil
		},
	}
	f := cmd.Flags()
	f.String("dump", "", "lattice dump file, may be compressed")
	f.String("catalog", "", "species manifest (YAML)")
	f.StringP("out", "o", "", "output directory")
	f.StringP("time", "t", "", "time window start:end:step")
	f.String("format", "", "cif or xyz")
	f.String("compress", "", "none, zst, gz, flate or lzw")
	f.StringSlice("lattice", nil, "the 9 components of the lattice vectors, row by row")
	f.String("unknown-species", "", "fail or skip, overrides the manifest policy")
	f.Int("workers", 0, "frames assembled at once")
	f.String("marker", "", "text marking a frame header line")
	f.String("species-column", "", "name of the species column")
	a.bind(f, map[string]string{
		"frames.dump":            "dump",
		"frames.catalog":         "catalog",
		"frames.out":             "out",
		"frames.time":            "time",
		"frames.format":          "format",
		"frames.compress":        "compress",
		"frames.lattice":         "lattice",
		"frames.unknown_species": "unknown-species",
		"frames.workers":         "workers",
		"frames.marker":          "marker",
		"frames.species_column":  "species-column",
	})
	return cmd
}
