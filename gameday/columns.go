/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package gameday

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	TableAtBat   = "atbat"
	TableAction  = "action"
	TablePitch   = "pitch"
	TableRunner  = "runner"
	TablePickoff = "pickoff"
	TableHIP     = "hip"
	TableGame    = "game"
	TablePlayer  = "player"
	TableCoach   = "coach"
	TableUmpire  = "umpire"
)

// Row is one flat record ready for bulk insertion.
type Row struct {
	Table   string         `json:"table"`
	Columns map[string]any `json:"columns"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterStructValidation(validateEvent, Event{})
		validate.RegisterStructValidation(validateRunner, RunnerMovement{})
	})
	return validate
}

func validateEvent(sl validator.StructLevel) {
	ev := sl.Current().Interface().(Event)
	if ev.After.HomeRuns < ev.Before.HomeRuns {
		sl.ReportError(ev.After.HomeRuns, "After.HomeRuns", "HomeRuns",
			"runs_nondecreasing", "")
	}
	if ev.After.AwayRuns < ev.Before.AwayRuns {
		sl.ReportError(ev.After.AwayRuns, "After.AwayRuns", "AwayRuns",
			"runs_nondecreasing", "")
	}
}

func validateRunner(sl validator.StructLevel) {
	rm := sl.Current().Interface().(RunnerMovement)
	if rm.Scored != (rm.End == Home) {
		sl.ReportError(rm.Scored, "Scored", "Scored", "scored_at_home", "")
	}
}

// ValidateEvent checks the invariants of a finished event and its
// children.
func ValidateEvent(ev *Event) error {
	if err := recordValidator().Struct(ev); err != nil {
		return fmt.Errorf("invalid event %d: %w", ev.Number, err)
	}
	return nil
}

// Flatten validates each event and maps it and its pitches, runner
// movements and pickoffs to rows.
func Flatten(events []*Event) ([]Row, error) {
	var rows []Row
	for _, ev := range events {
		if err := ValidateEvent(ev); err != nil {
			return nil, err
		}

		table := TableAtBat
		if ev.Type == ActionEvent {
			table = TableAction
		}
		cols := eventColumns(ev)
		putSnapshots(cols, ev.Before, ev.After)
		putAttrs(cols, ev.Attrs, "home_team_runs", "away_team_runs")
		rows = append(rows, Row{Table: table, Columns: cols})

		for _, p := range ev.Pitches {
			cols := eventColumns(ev)
			cols["game_pitch_count"] = p.Number
			putSnapshots(cols, p.Before, p.After)
			putAttrs(cols, p.Attrs)
			rows = append(rows, Row{Table: TablePitch, Columns: cols})
		}
		for _, r := range ev.Runners {
			cols := eventColumns(ev)
			cols["game_runner_count"] = r.Number
			cols["attributed_event_number"] = r.AttributedEventNumber
			cols["reattributed"] = r.Reattributed
			putSnapshots(cols, r.Before, r.After)
			putAttrs(cols, r.Attrs)
			rows = append(rows, Row{Table: TableRunner, Columns: cols})
		}
		for _, p := range ev.Pickoffs {
			cols := eventColumns(ev)
			cols["game_pickoff_count"] = p.Number
			cols["atbat_pickoff_number"] = p.AtBatNumber
			putSnapshots(cols, p.Before, p.After)
			putAttrs(cols, p.Attrs)
			rows = append(rows, Row{Table: TablePickoff, Columns: cols})
		}
	}

	return rows, nil
}

func gameColumns(g GameInfo) map[string]any {
	return map[string]any{
		"gid":       g.GID,
		"game_pk":   nullInt(g.GamePK),
		"venue_id":  nullInt(g.VenueID),
		"game_date": nullTime(g.GameDate),
	}
}

func eventColumns(ev *Event) map[string]any {
	cols := gameColumns(ev.Game)
	cols["inning"] = ev.Inning
	cols["inning_topbot"] = ev.Half.String()
	cols["game_event_number"] = ev.Number
	cols["event_type"] = ev.Type.String()
	cols["pitcher"] = nullPlayer(ev.Pitcher)
	cols["batter"] = nullPlayer(ev.Batter)
	cols["catcher"] = nullPlayer(ev.Catcher)
	cols["umpire"] = ev.Umpire
	return cols
}

func putSnapshots(cols map[string]any, before Snapshot, after Snapshot) {
	for prefix, s := range map[string]Snapshot{"start_": before, "end_": after} {
		cols[prefix+"outs"] = s.Outs
		cols[prefix+"base_state"] = s.BaseState()
		cols[prefix+"out_base_state"] = s.OutBaseState()
		cols[prefix+"home_team_runs"] = s.HomeRuns
		cols[prefix+"away_team_runs"] = s.AwayRuns
		for _, b := range []Base{First, Second, Third} {
			cols[prefix+b.String()] = nullPlayer(s.Occupant(b))
		}
	}
}

// putAttrs copies pass-through attributes that do not collide with a
// column already set. Keys in skip are left out.
func putAttrs(cols map[string]any, attrs Attrs, skip ...string) {
	for k, v := range attrs {
		if _, ok := cols[k]; ok {
			continue
		}
		if contains(skip, k) {
			continue
		}
		cols[k] = v.Interface()
	}
}

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}

func nullInt(i int) any {
	if i == 0 {
		return nil
	}
	return i
}

func nullPlayer(p PlayerID) any {
	if p == NoPlayer {
		return nil
	}
	return int(p)
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// RosterRows maps a roster to player, coach and umpire rows.
func RosterRows(game GameInfo, r *Roster) []Row {
	var rows []Row
	for _, p := range r.Players {
		cols := gameColumns(game)
		cols["home_flag"] = p.Home
		putAttrs(cols, p.Attrs)
		cols["first"] = p.First
		cols["last"] = p.Last
		rows = append(rows, Row{Table: TablePlayer, Columns: cols})
	}
	for _, c := range r.Coaches {
		cols := gameColumns(game)
		cols["home_flag"] = c.Home
		putAttrs(cols, c.Attrs)
		cols["first"] = c.First
		cols["last"] = c.Last
		rows = append(rows, Row{Table: TableCoach, Columns: cols})
	}
	for _, u := range r.Umpires {
		cols := gameColumns(game)
		putAttrs(cols, u.Attrs)
		cols["name"] = u.Name
		rows = append(rows, Row{Table: TableUmpire, Columns: cols})
	}

	return rows
}
