/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/mikeb26/gamedayevents/gameday"
	"github.com/mikeb26/gamedayevents/internal"
	"github.com/mikeb26/gamedayevents/internal/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type batchOptions struct {
	workers    int
	finalOnly  bool
	withRoster bool
	withHIPs   bool
}

// BatchSummary reports the outcome of one batch run.
type BatchSummary struct {
	RunID     string
	Games     int
	Failed    []string
	Skipped   int
	Rows      int
	Ambiguous int
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch [day-dir]",
		Short: "Build the event records of every game in a day directory",
		Long: `Process every gid_* directory under [day-dir] (or batch.root from the
config) in parallel. When the directory holds the day's miniscoreboard.xml,
game_pk and venue_id are taken from it. A game that fails is reported and
skipped; the remaining games are still written.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.settings()
			root := cfg.Batch.Root
			if len(args) == 1 {
				root = args[0]
			}
			if root == "" {
				return fmt.Errorf("no day directory given and batch.root is unset")
			}
			if !cmd.Flags().Changed("workers") {
				opts.workers = cfg.Batch.Workers
			}
			if !cmd.Flags().Changed("final-only") {
				opts.finalOnly = cfg.Batch.FinalOnly
			}

			summary, err := runBatch(cmd.Context(), rootOpts, opts, root, cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(),
				"run %v: %d games, %d failed, %d skipped, %d rows\n",
				summary.RunID, summary.Games, len(summary.Failed),
				summary.Skipped, summary.Rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.workers, "workers", 1, "games processed concurrently")
	cmd.Flags().BoolVar(&opts.finalOnly, "final-only", false,
		"skip games the scoreboard does not mark final")
	cmd.Flags().BoolVar(&opts.withRoster, "with-roster", false,
		"also emit player, coach and umpire records")
	cmd.Flags().BoolVar(&opts.withHIPs, "with-hips", false,
		"also emit hit-in-play records when inning_hip.xml is present")

	return cmd
}

type batchGame struct {
	info gameday.GameInfo
	dir  string
	rows []gameday.Row
	err  error
}

func runBatch(ctx context.Context, rootOpts *RootOptions, opts *batchOptions,
	root string, cmd *cobra.Command) (*BatchSummary, error) {

	if ctx == nil {
		ctx = context.Background()
	}
	summary := &BatchSummary{RunID: uuid.NewString()}
	ctx = logger.WithRunID(ctx, summary.RunID)
	log := logger.C(ctx)

	games, skipped, err := discoverGames(root, opts.finalOnly)
	if err != nil {
		return nil, err
	}
	summary.Skipped = skipped
	log.Info().Str("root", root).Int("games", len(games)).
		Int("workers", opts.workers).Msg("batch starting")

	var ambiguous atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.workers, 1))
	for _, bg := range games {
		bg := bg
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows, res, err := gameRows(bg.info, bg.dir, opts.withRoster)
			if res != nil {
				ambiguous.Add(int64(len(res.Ambiguities)))
			}
			if err == nil && opts.withHIPs {
				rows, err = appendHIPs(bg.info, bg.dir, rows)
			}
			if err != nil {
				bg.err = err
				logger.C(gctx).Error().Err(err).Str("gid", bg.info.GID).
					Msg("game failed; skipping")
				return nil
			}
			bg.rows = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch %v interrupted: %w", summary.RunID, err)
	}

	w := newRowWriter(rootOpts.settings().Output.Format, cmd.OutOrStdout())
	for _, bg := range games {
		summary.Games++
		if bg.err != nil {
			summary.Failed = append(summary.Failed, bg.info.GID)
			continue
		}
		if err := w.Write(bg.rows); err != nil {
			return nil, err
		}
		summary.Rows += len(bg.rows)
	}
	summary.Ambiguous = int(ambiguous.Load())
	log.Info().Int("games", summary.Games).Int("failed", len(summary.Failed)).
		Int("rows", summary.Rows).Int("ambiguities", summary.Ambiguous).
		Msg("batch finished")

	return summary, nil
}

// appendHIPs adds hit-in-play rows when the game has an inning_hip.xml.
func appendHIPs(info gameday.GameInfo, dir string,
	rows []gameday.Row) ([]gameday.Row, error) {

	hips, err := gameday.ProcessHIPDir(info, dir)
	if errors.Is(err, os.ErrNotExist) {
		return rows, nil
	}
	if err != nil {
		return nil, err
	}
	return append(rows, gameday.HIPRows(hips)...), nil
}

// discoverGames lists the gid_* directories under root in name order. The
// day's scoreboard, when present, supplies game_pk and venue_id and lets
// non-final games be skipped.
func discoverGames(root string, finalOnly bool) ([]*batchGame, int, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, 0, fmt.Errorf("unable to read %v: %w", root, err)
	}

	board := make(map[string]gameday.Game)
	if path, err := gameday.FindDocument(root, internal.ScoreboardFile); err == nil {
		games, err := scoreboardGames(path, "")
		if err != nil {
			return nil, 0, err
		}
		for _, g := range games {
			board[g.GID] = g
		}
	}

	var ret []*batchGame
	skipped := 0
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), internal.GIDDirPrefix) {
			continue
		}
		dir := filepath.Join(root, e.Name())
		info, err := gameday.GameInfoFromDir(dir)
		if err != nil {
			logger.Named("gdevents").Warn().Err(err).Str("dir", dir).
				Msg("skipping directory")
			skipped++
			continue
		}
		if g, ok := board[info.GID]; ok {
			if finalOnly && !g.Final() {
				skipped++
				continue
			}
			info = g.Info()
		}
		ret = append(ret, &batchGame{info: info, dir: dir})
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].info.GID < ret[j].info.GID
	})

	return ret, skipped, nil
}
