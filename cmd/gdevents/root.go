/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"github.com/mikeb26/gamedayevents/internal"
	"github.com/mikeb26/gamedayevents/internal/config"
	"github.com/mikeb26/gamedayevents/internal/logger"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Format     string // "jsonl" | "text"

	cfg *config.Config
}

// NewRootCommand creates the gdevents command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   internal.AppName,
		Short: "Reconstruct play-by-play event records from gameday XML",
		Long: `gdevents reads MLB gameday documents (players.xml, inning_all.xml,
inning_hip.xml, miniscoreboard.xml) from local directories and writes flat
records annotated with the game state before and after every event.`,
		Version:       internal.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "",
		"path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "",
		"log level (trace|debug|info|warn|error|off)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "",
		"output format (jsonl|text)")

	cmd.AddCommand(NewEventsCommand(opts))
	cmd.AddCommand(NewBatchCommand(opts))
	cmd.AddCommand(NewGamesCommand(opts))
	cmd.AddCommand(NewHIPsCommand(opts))

	return cmd
}

// load reads the config file, applies flag overrides and initializes the
// logger.
func (opts *RootOptions) load() error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.Format != "" {
		cfg.Output.Format = opts.Format
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Init(cfg.LoggerOptions())
	opts.cfg = cfg
	return nil
}

func (opts *RootOptions) settings() *config.Config {
	if opts.cfg == nil {
		return config.Default()
	}
	return opts.cfg
}
