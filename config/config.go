/*
 * config.go, part of kmcrecon.
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

// Package config loads the kmcrecon settings from a YAML file and KMCRECON_*
// environment variables.
package config

import (
	"fmt"
	"strings"

	kmc "github.com/aldkmc/kmcrecon"
	"github.com/aldkmc/kmcrecon/dump"
	"github.com/aldkmc/kmcrecon/fileio"
	"github.com/aldkmc/kmcrecon/logging"
	"github.com/aldkmc/kmcrecon/reaction"
	"github.com/aldkmc/kmcrecon/structio"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the environment variables read by Load.
const EnvPrefix = "KMCRECON"

// DefaultLattice is the cell of the ALD simulations, row by row, in Å.
var DefaultLattice = []float64{
	24.0251361, 0, 0,
	-12.012568049999997, 20.806378191978606, 0,
	0, 0, 65.08907438726766,
}

// Log configures the logger.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Frames configures the trajectory reconstruction.
type Frames struct {
	Dump           string    `mapstructure:"dump"`
	Catalog        string    `mapstructure:"catalog"`
	Out            string    `mapstructure:"out"`
	Time           string    `mapstructure:"time"`
	Format         string    `mapstructure:"format"`
	Compress       string    `mapstructure:"compress"`
	Lattice        []float64 `mapstructure:"lattice"`
	UnknownSpecies string    `mapstructure:"unknown_species"`
	Marker         string    `mapstructure:"marker"`
	SpeciesColumn  string    `mapstructure:"species_column"`
	Workers        int       `mapstructure:"workers"`
}

// Schema overrides parts of the default rule layout.
type Schema struct {
	Keyword       string `mapstructure:"keyword"`
	UnaryEnergy   int    `mapstructure:"unary_energy"`
	BinaryEnergy  int    `mapstructure:"binary_energy"`
	AllowNegative bool   `mapstructure:"allow_negative"`
}

// Neo4j is where the reaction network is merged, if URI is set.
type Neo4j struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// Reactions configures the reaction network analysis.
type Reactions struct {
	Rules    string   `mapstructure:"rules"`
	Seeds    []string `mapstructure:"seeds"`
	MaxDepth int      `mapstructure:"max_depth"`
	Workers  int      `mapstructure:"workers"`
	Out      string   `mapstructure:"out"`
	CSV      bool     `mapstructure:"csv"`
	DOT      bool     `mapstructure:"dot"`
	Plot     bool     `mapstructure:"plot"`
	SQLite   string   `mapstructure:"sqlite"`
	Schema   Schema   `mapstructure:"schema"`
	Neo4j    Neo4j    `mapstructure:"neo4j"`
}

// Config is the whole configuration.
type Config struct {
	Log         Log       `mapstructure:"log"`
	MetricsFile string    `mapstructure:"metrics_file"`
	Frames      Frames    `mapstructure:"frames"`
	Reactions   Reactions `mapstructure:"reactions"`
}

// New returns a viper instance with the defaults, the KMCRECON_ environment
// prefix and the "." to "_" key replacer, so frames.dump is KMCRECON_FRAMES_DUMP.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// SetDefaults registers every key with its default value. Keys must be known to
// viper for AutomaticEnv to reach them through Unmarshal.
func SetDefaults(v *viper.Viper) {
	s := reaction.DefaultSchema()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("metrics_file", "")
	v.SetDefault("frames.dump", "dump.ald")
	v.SetDefault("frames.catalog", "configs/species.yaml")
	v.SetDefault("frames.out", "frames")
	v.SetDefault("frames.time", "")
	v.SetDefault("frames.format", "cif")
	v.SetDefault("frames.compress", "none")
	v.SetDefault("frames.lattice", DefaultLattice)
	v.SetDefault("frames.unknown_species", "")
	v.SetDefault("frames.marker", dump.DefaultMarker)
	v.SetDefault("frames.species_column", dump.DefaultSpeciesColumn)
	v.SetDefault("frames.workers", 1)
	v.SetDefault("reactions.rules", "in.ald")
	v.SetDefault("reactions.seeds", []string{"OH", "O"})
	v.SetDefault("reactions.max_depth", reaction.DefaultMaxDepth)
	v.SetDefault("reactions.workers", 1)
	v.SetDefault("reactions.out", "reactions")
	v.SetDefault("reactions.csv", true)
	v.SetDefault("reactions.dot", true)
	v.SetDefault("reactions.plot", false)
	v.SetDefault("reactions.sqlite", "")
	v.SetDefault("reactions.schema.keyword", s.Keyword)
	v.SetDefault("reactions.schema.unary_energy", s.Layouts[1].Energy)
	v.SetDefault("reactions.schema.binary_energy", s.Layouts[2].Energy)
	v.SetDefault("reactions.schema.allow_negative", false)
	v.SetDefault("reactions.neo4j.uri", "")
	v.SetDefault("reactions.neo4j.username", "")
	v.SetDefault("reactions.neo4j.password", "")
	v.SetDefault("reactions.neo4j.database", "")
}

// Load reads the YAML file at path, if path is not empty, on top of the defaults
// and the environment, and validates the result.
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %q: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates the settings held by v. The command line flags
// are bound to v, so they take precedence over the file.
func FromViper(v *viper.Viper) (*Config, error) {
	c := new(Config)
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every setting that can be checked without touching the file system.
func (C *Config) Validate() error {
	if _, err := logging.ParseLevel(C.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch strings.ToLower(C.Log.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("config: log.format must be json or console, not %q", C.Log.Format)
	}
	if _, err := C.Window(); err != nil {
		return fmt.Errorf("config: frames.time: %w", err)
	}
	if _, err := structio.ParseFormat(C.Frames.Format); err != nil {
		return fmt.Errorf("config: frames.format: %w", err)
	}
	if _, err := fileio.ParseCodec(C.Frames.Compress); err != nil {
		return fmt.Errorf("config: frames.compress: %w", err)
	}
	if _, err := C.Lattice(); err != nil {
		return fmt.Errorf("config: frames.lattice: %w", err)
	}
	if C.Frames.UnknownSpecies != "" {
		if _, err := kmc.ParsePolicy(C.Frames.UnknownSpecies); err != nil {
			return fmt.Errorf("config: frames.unknown_species: %w", err)
		}
	}
	if strings.TrimSpace(C.Frames.Marker) == "" {
		return fmt.Errorf("config: frames.marker is empty")
	}
	if strings.TrimSpace(C.Frames.SpeciesColumn) == "" {
		return fmt.Errorf("config: frames.species_column is empty")
	}
	if C.Frames.Workers < 1 {
		return fmt.Errorf("config: frames.workers must be at least 1, not %d", C.Frames.Workers)
	}
	if len(C.Reactions.Seeds) == 0 {
		return fmt.Errorf("config: reactions.seeds is empty")
	}
	if C.Reactions.MaxDepth < 2 {
		return fmt.Errorf("config: reactions.max_depth must be at least 2, not %d", C.Reactions.MaxDepth)
	}
	if C.Reactions.Workers < 1 {
		return fmt.Errorf("config: reactions.workers must be at least 1, not %d", C.Reactions.Workers)
	}
	if err := C.Schema().Validate(); err != nil {
		return fmt.Errorf("config: reactions.schema: %w", err)
	}
	return nil
}

// Lattice returns the frames lattice.
func (C *Config) Lattice() (*kmc.Lattice, error) {
	return kmc.NewLatticeSlice(C.Frames.Lattice)
}

// Window returns the frames time window.
func (C *Config) Window() (dump.Window, error) {
	return dump.ParseWindow(C.Frames.Time)
}

// Schema returns the default rule schema with the configured overrides.
func (C *Config) Schema() reaction.Schema {
	s := reaction.DefaultSchema()
	sc := C.Reactions.Schema
	if sc.Keyword != "" {
		s.Keyword = sc.Keyword
	}
	s.AllowNegative = sc.AllowNegative
	for k, l := range s.Layouts {
		switch {
		case !k.Binary() && sc.UnaryEnergy > 0:
			l.Energy = sc.UnaryEnergy
		case k.Binary() && sc.BinaryEnergy > 0:
			l.Energy = sc.BinaryEnergy
		}
		s.Layouts[k] = l
	}
	return s
}
