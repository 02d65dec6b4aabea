/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"fmt"

	"github.com/mikeb26/gamedayevents/gameday"
	"github.com/mikeb26/gamedayevents/internal/logger"
	"github.com/spf13/cobra"
)

type eventsOptions struct {
	gamePK     int
	venueID    int
	withRoster bool
}

// NewEventsCommand creates the events command.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &eventsOptions{}

	cmd := &cobra.Command{
		Use:   "events <gid-dir>",
		Short: "Build the event records of one game",
		Long: `Build the event, pitch, runner and pickoff records of the game whose
players.xml and inning_all.xml live in <gid-dir>. The game id and date are
taken from the directory name (gid_YYYY_MM_DD_...).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvents(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.gamePK, "game-pk", 0, "game_pk to stamp on records")
	cmd.Flags().IntVar(&opts.venueID, "venue", 0, "venue_id to stamp on records")
	cmd.Flags().BoolVar(&opts.withRoster, "with-roster", false,
		"also emit player, coach and umpire records")

	return cmd
}

func runEvents(rootOpts *RootOptions, opts *eventsOptions, dir string,
	cmd *cobra.Command) error {

	info, err := gameday.GameInfoFromDir(dir)
	if err != nil {
		return fmt.Errorf("unable to identify game: %w", err)
	}
	info.GamePK = opts.gamePK
	info.VenueID = opts.venueID

	rows, res, err := gameRows(info, dir, opts.withRoster)
	if err != nil {
		return err
	}
	reportResult(res)

	return newRowWriter(rootOpts.settings().Output.Format,
		cmd.OutOrStdout()).Write(rows)
}

// gameRows processes one game directory into its flattened rows.
func gameRows(info gameday.GameInfo, dir string, withRoster bool) ([]gameday.Row,
	*gameday.GameResult, error) {

	res, err := gameday.ProcessGameDir(info, dir)
	if err != nil {
		return nil, nil, err
	}
	rows, err := gameday.Flatten(res.Events)
	if err != nil {
		return nil, res, &gameday.GameError{GID: info.GID, Err: err}
	}
	if withRoster {
		rows = append(gameday.RosterRows(info, res.Roster), rows...)
	}

	return rows, res, nil
}

func reportResult(res *gameday.GameResult) {
	log := logger.Named("gdevents")
	for _, a := range res.Ambiguities {
		log.Warn().Str("gid", res.Game.GID).Int("event", a.EventNumber).
			Int("runner", int(a.Runner)).Str("reason", a.Reason).
			Msg("reconciliation ambiguity")
	}
	log.Info().Str("gid", res.Game.GID).Int("events", len(res.Events)).
		Int("ambiguities", len(res.Ambiguities)).
		Int("dropped", len(res.Dropped)).
		Msg("game processed")
}
