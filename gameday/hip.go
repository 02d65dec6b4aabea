/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package gameday

import (
	"fmt"

	"github.com/mikeb26/gamedayevents/internal"
	"github.com/mikeb26/gamedayevents/internal/logger"
)

// HIP is one hit-in-play location from inning_hip.xml.
type HIP struct {
	Game  GameInfo
	Attrs Attrs
}

// ParseHIPs reads the hit-in-play records of a game. Records that fail
// normalization are skipped.
func ParseHIPs(game GameInfo, doc *Node) ([]HIP, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: empty hip document", ErrMalformedDocument)
	}

	var hips []HIP
	for _, elem := range doc.FindAll("hip") {
		a, err := Normalize(KindHIP, elem.Attrs)
		if err != nil {
			logger.Named("hip").Warn().Err(err).Str("gid", game.GID).
				Msg("skipping hit in play")
			continue
		}
		hips = append(hips, HIP{Game: game, Attrs: a})
	}

	return hips, nil
}

// ProcessHIPDir loads inning_hip.xml from a gid_* directory.
func ProcessHIPDir(game GameInfo, dir string) ([]HIP, error) {
	path, err := FindDocument(dir, internal.InningHIPFile,
		internal.InningSubdir)
	if err != nil {
		return nil, &GameError{GID: game.GID, Err: err}
	}
	doc, err := OpenDocument(path)
	if err != nil {
		return nil, &GameError{GID: game.GID, Err: err}
	}
	hips, err := ParseHIPs(game, doc)
	if err != nil {
		return nil, &GameError{GID: game.GID, Err: err}
	}
	return hips, nil
}

func HIPRows(hips []HIP) []Row {
	rows := make([]Row, 0, len(hips))
	for _, h := range hips {
		cols := gameColumns(h.Game)
		putAttrs(cols, h.Attrs)
		rows = append(rows, Row{Table: TableHIP, Columns: cols})
	}
	return rows
}
