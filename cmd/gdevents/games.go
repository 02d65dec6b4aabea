/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"fmt"
	"time"

	"github.com/mikeb26/gamedayevents/gameday"
	"github.com/spf13/cobra"
)

type gamesOptions struct {
	date      string
	finalOnly bool
}

// NewGamesCommand creates the games command.
func NewGamesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &gamesOptions{}

	cmd := &cobra.Command{
		Use:   "games <miniscoreboard.xml>",
		Short: "List the games of a day's scoreboard",
		Long: `Emit one game record per game on a miniscoreboard document. The
date defaults to the document's year, month and day attributes; games whose
gid carries another date are left out.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			games, err := scoreboardGames(args[0], opts.date)
			if err != nil {
				return err
			}
			if opts.finalOnly {
				kept := games[:0]
				for _, g := range games {
					if g.Final() {
						kept = append(kept, g)
					}
				}
				games = kept
			}

			return newRowWriter(rootOpts.settings().Output.Format,
				cmd.OutOrStdout()).Write(gameday.GameRows(games))
		},
	}

	cmd.Flags().StringVar(&opts.date, "date", "",
		"date of the board (YYYY-MM-DD); defaults to the document's own")
	cmd.Flags().BoolVar(&opts.finalOnly, "final-only", false,
		"only list games that were played to completion")

	return cmd
}

// scoreboardGames loads a miniscoreboard document and returns its games
// for date, or for the date the document declares when date is empty.
func scoreboardGames(path string, date string) ([]gameday.Game, error) {
	doc, err := gameday.OpenDocument(path)
	if err != nil {
		return nil, err
	}

	var day time.Time
	if date != "" {
		day, err = time.Parse("2006-01-02", date)
	} else {
		day, err = time.Parse("2006-01-02", fmt.Sprintf("%v-%v-%v",
			doc.Attrs["year"], doc.Attrs["month"], doc.Attrs["day"]))
	}
	if err != nil {
		return nil, fmt.Errorf("unable to determine scoreboard date for %v: %w",
			path, err)
	}

	return gameday.ParseScoreboard(doc, day)
}
