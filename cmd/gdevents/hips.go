/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"fmt"

	"github.com/mikeb26/gamedayevents/gameday"
	"github.com/spf13/cobra"
)

// NewHIPsCommand creates the hips command.
func NewHIPsCommand(rootOpts *RootOptions) *cobra.Command {
	var gamePK int

	cmd := &cobra.Command{
		Use:           "hips <gid-dir>",
		Short:         "Emit the hit-in-play records of one game",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := gameday.GameInfoFromDir(args[0])
			if err != nil {
				return fmt.Errorf("unable to identify game: %w", err)
			}
			info.GamePK = gamePK

			hips, err := gameday.ProcessHIPDir(info, args[0])
			if err != nil {
				return err
			}
			return newRowWriter(rootOpts.settings().Output.Format,
				cmd.OutOrStdout()).Write(gameday.HIPRows(hips))
		},
	}

	cmd.Flags().IntVar(&gamePK, "game-pk", 0, "game_pk to stamp on records")

	return cmd
}
