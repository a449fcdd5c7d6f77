/*
 * root.go, part of kmcrecon.
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
	"io"

	kmc "github.com/aldkmc/kmcrecon"
	"github.com/aldkmc/kmcrecon/config"
	"github.com/aldkmc/kmcrecon/logging"
	"github.com/aldkmc/kmcrecon/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app is what the subcommands share once the configuration is loaded.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Metrics
	report  *kmc.Report
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New(), report: kmc.NewReport()}
	root := &cobra.Command{
		Use:           "kmcrecon",
		Short:         "Rebuild atomistic frames and reaction networks from ALD KMC runs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.finish(cmd.ErrOrStderr())
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "YAML configuration file")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.String("log-format", "", "console or json")
	pf.String("metrics-file", "", "write prometheus metrics to this file at the end")
	a.bind(pf, map[string]string{
		"log.level":    "log-level",
		"log.format":   "log-format",
		"metrics_file": "metrics-file",
	})
	root.AddCommand(newFramesCmd(a), newReactionsCmd(a), newVersionCmd())
	return root
}

// bind makes the flags override the configuration keys.
func (a *app) bind(fs *pflag.FlagSet, keys map[string]string) {
	for key, flag := range keys {
		if err := a.v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func (a *app) setup() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return err
		}
	}
	cfg, err := config.FromViper(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log, err = logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.metrics = metrics.New()
	return nil
}

// finish writes the problems let through by the skip policies, and the metrics.
func (a *app) finish(w io.Writer) error {
	if a.log != nil {
		defer a.log.Sync()
	}
	if !a.report.Empty() {
		if _, err := a.report.WriteTo(w); err != nil {
			return err
		}
	}
	if a.cfg != nil && a.cfg.MetricsFile != "" {
		return a.metrics.WriteFile(a.cfg.MetricsFile)
	}
	return nil
}
