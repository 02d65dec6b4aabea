/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package gameday

import (
	"fmt"
	"strings"
	"time"

	"github.com/mikeb26/gamedayevents/internal"
	"github.com/mikeb26/gamedayevents/internal/logger"
)

// scoreboardDisplayAttrs are presentation attributes of a scoreboard game
// that carry nothing worth keeping.
var scoreboardDisplayAttrs = []string{
	"id", "game_id", "time", "time_date", "time_date_aw_lg",
	"time_date_hm_lg", "time_zone", "ampm", "time_zone_aw_lg",
	"time_zone_hm_lg", "time_aw_lg", "aw_lg_ampm", "tz_aw_lg_gen",
	"time_hm_lg", "hm_lg_ampm", "tz_hm_lg_gen", "venue_w_chan_loc",
	"top_inning", "inning", "outs", "mlbtv_link", "wrapup_link",
	"home_audio_link", "away_audio_link", "home_preview_link",
	"away_preview_link", "preview_link", "postseason_tv_link",
	"game_data_directory", "resume_time_date_aw_lg",
	"resume_time_date_hm_lg", "resume_time", "resume_away_ampm",
	"runner_on_base_status",
}

// Game is one scheduled game from a day's miniscoreboard.
type Game struct {
	GID           string
	GamePK        int
	VenueID       int
	Date          time.Time
	Status        string
	DateTimeLocal time.Time
	DateTimeET    time.Time
	Attrs         Attrs
}

func (g Game) Info() GameInfo {
	return GameInfo{
		GID:      g.GID,
		GamePK:   g.GamePK,
		VenueID:  g.VenueID,
		GameDate: g.Date,
	}
}

// Final reports whether the game was played to completion, which is when
// its play by play documents are worth processing.
func (g Game) Final() bool {
	return g.Status == "Final" || g.Status == "Completed Early"
}

// ParseScoreboard returns the games of a miniscoreboard document that
// belong to date. Games listed on the day's board but carrying another
// date in their gid (resumed or postponed games) are skipped.
func ParseScoreboard(doc *Node, date time.Time) ([]Game, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: empty scoreboard document",
			ErrMalformedDocument)
	}
	log := logger.Named("scoreboard")
	day := date.Format("2006-01-02")

	var games []Game
	for _, elem := range doc.FindAll("game") {
		raw := make(map[string]string, len(elem.Attrs))
		for k, v := range elem.Attrs {
			raw[k] = v
		}
		gid := raw["gameday_link"]
		delete(raw, "gameday_link")

		gidDate, err := internal.ParseGIDDate(gid)
		if err != nil {
			log.Warn().Err(err).Msg("skipping scoreboard game")
			continue
		}
		if gidDate.Format("2006-01-02") != day {
			log.Debug().Str("gid", gid).Str("date", day).
				Msg("skipping game from another date")
			continue
		}

		g := Game{GID: gid, Date: gidDate, Status: raw["status"]}
		g.DateTimeLocal, err = internal.ParseClockOnDate(gidDate,
			raw["home_time"], raw["home_ampm"])
		if err != nil {
			log.Debug().Err(err).Str("gid", gid).Msg("no local start time")
		}
		if strings.Contains(raw["time"], ":") {
			g.DateTimeET, err = internal.ParseClockOnDate(gidDate, raw["time"],
				raw["ampm"])
			if err != nil {
				log.Debug().Err(err).Str("gid", gid).Msg("no eastern start time")
			}
		}
		for _, k := range scoreboardDisplayAttrs {
			delete(raw, k)
		}

		g.Attrs, err = Normalize(KindGame, raw)
		if err != nil {
			log.Warn().Err(err).Str("gid", gid).Msg("skipping scoreboard game")
			continue
		}
		g.GamePK, _ = g.Attrs.Int("game_pk")
		g.VenueID, _ = g.Attrs.Int("venue_id")
		games = append(games, g)
	}

	return games, nil
}

// GameRows maps scoreboard games to game rows.
func GameRows(games []Game) []Row {
	rows := make([]Row, 0, len(games))
	for _, g := range games {
		cols := gameColumns(g.Info())
		cols["datetime_local"] = nullTime(g.DateTimeLocal)
		cols["datetime_et"] = nullTime(g.DateTimeET)
		putAttrs(cols, g.Attrs)
		rows = append(rows, Row{Table: TableGame, Columns: cols})
	}
	return rows
}
