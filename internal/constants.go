/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

const (
	AppName    = "gdevents"
	AppVersion = "0.4.0"

	// per-game document names inside a gid_* directory
	PlayersFile    = "players.xml"
	InningAllFile  = "inning_all.xml"
	InningHIPFile  = "inning_hip.xml"
	InningSubdir   = "inning"
	ScoreboardFile = "miniscoreboard.xml"
	GIDDirPrefix   = "gid_"

	EnvPrefix = "GDEVENTS_"
)
