/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package gameday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScoreboard(t *testing.T) {
	day := time.Date(2016, 4, 3, 0, 0, 0, 0, time.UTC)
	games, err := ParseScoreboard(loadTestDoc(t, "miniscoreboard.xml"), day)
	require.NoError(t, err)
	require.Len(t, games, 2)

	g := games[0]
	assert.Equal(t, "2016_04_03_tormlb_tbamlb_1", g.GID)
	assert.Equal(t, 446877, g.GamePK)
	assert.Equal(t, 12, g.VenueID)
	assert.True(t, g.Final())
	assert.Equal(t, time.Date(2016, 4, 3, 16, 5, 0, 0, time.UTC), g.DateTimeLocal)
	assert.Equal(t, time.Date(2016, 4, 3, 16, 5, 0, 0, time.UTC), g.DateTimeET)
	assert.True(t, g.Attrs.IsNull("away_games_back"))
	gb, ok := g.Attrs.Float("home_games_back")
	assert.True(t, ok)
	assert.Equal(t, 1.0, gb)
	od, ok := g.Attrs.Time("original_date")
	assert.True(t, ok)
	assert.Equal(t, day, od)
	for _, k := range []string{"id", "game_id", "time", "ampm", "gameday_link", "time_zone"} {
		assert.False(t, g.Attrs.Has(k), "unexpected %v", k)
	}
	assert.Equal(t, GameInfo{GID: g.GID, GamePK: 446877, VenueID: 12,
		GameDate: day}, g.Info())

	pp := games[1]
	assert.False(t, pp.Final())
	assert.True(t, pp.DateTimeET.IsZero())
	assert.Equal(t, time.Date(2016, 4, 3, 19, 37, 0, 0, time.UTC), pp.DateTimeLocal)
	rt, ok := pp.Attrs.Time("resume_time_date")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2016, 4, 5, 19, 15, 0, 0, time.UTC), rt)

	rows := GameRows(games)
	require.Len(t, rows, 2)
	assert.Equal(t, TableGame, rows[0].Table)
	assert.Equal(t, "Tropicana Field", rows[0].Columns["venue"])
	assert.Nil(t, rows[1].Columns["datetime_et"])

	_, err = ParseScoreboard(nil, day)
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestParseScoreboardOtherDay(t *testing.T) {
	day := time.Date(2016, 4, 2, 0, 0, 0, 0, time.UTC)
	games, err := ParseScoreboard(loadTestDoc(t, "miniscoreboard.xml"), day)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "2016_04_02_seamlb_texmlb_1", games[0].GID)
	assert.True(t, games[0].Final())
}
