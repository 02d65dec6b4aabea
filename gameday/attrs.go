/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package gameday

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mikeb26/gamedayevents/internal"
	"github.com/mikeb26/gamedayevents/internal/logger"
)

// EntityKind names the kind of element whose attributes are normalized.
// It drives key renaming and a few per-kind coercion exceptions.
type EntityKind string

const (
	KindGame    EntityKind = "game"
	KindPlayer  EntityKind = "player"
	KindPitch   EntityKind = "pitch"
	KindRunner  EntityKind = "runner"
	KindPickoff EntityKind = "pickoff"
	KindHIP     EntityKind = "hip"
	KindCoach   EntityKind = "coach"
	KindUmpire  EntityKind = "umpire"
	KindAction  EntityKind = "action"
	KindAtBat   EntityKind = "atbat"
)

var ErrFieldCoercion = errors.New("field coercion failure")

// svIDLayout is the YYMMDD_HHMMSS layout of pitch sv_id stamps.
const svIDLayout = "060102_150405"

type ValueKind int

const (
	NullValue ValueKind = iota
	StringValue
	IntValue
	FloatValue
	TimeValue
)

func (k ValueKind) String() string {
	switch k {
	case NullValue:
		return "null"
	case StringValue:
		return "string"
	case IntValue:
		return "int"
	case FloatValue:
		return "float"
	case TimeValue:
		return "time"
	}

	panic(fmt.Sprintf("unknown ValueKind %d", int(k)))
}

// Value is one normalized attribute.
type Value struct {
	kind ValueKind
	s    string
	i    int
	f    float64
	t    time.Time
}

func Null() Value               { return Value{} }
func StringOf(s string) Value   { return Value{kind: StringValue, s: s} }
func IntOf(i int) Value         { return Value{kind: IntValue, i: i} }
func FloatOf(f float64) Value   { return Value{kind: FloatValue, f: f} }
func TimeOf(t time.Time) Value  { return Value{kind: TimeValue, t: t} }
func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNull() bool    { return v.kind == NullValue }

// Interface returns the underlying Go value, nil for null.
func (v Value) Interface() any {
	switch v.kind {
	case StringValue:
		return v.s
	case IntValue:
		return v.i
	case FloatValue:
		return v.f
	case TimeValue:
		return v.t
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case StringValue:
		return v.s
	case IntValue:
		return strconv.Itoa(v.i)
	case FloatValue:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case TimeValue:
		return v.t.Format(time.RFC3339)
	}
	return "null"
}

// Attrs is the normalized attribute set of one element.
type Attrs map[string]Value

// Int returns the integer value of key; ok is false when the key is
// missing, null or not an integer.
func (a Attrs) Int(key string) (int, bool) {
	v, ok := a[key]
	if !ok || v.kind != IntValue {
		return 0, false
	}
	return v.i, true
}

func (a Attrs) Float(key string) (float64, bool) {
	v, ok := a[key]
	if !ok || v.kind != FloatValue {
		return 0, false
	}
	return v.f, true
}

func (a Attrs) Time(key string) (time.Time, bool) {
	v, ok := a[key]
	if !ok || v.kind != TimeValue {
		return time.Time{}, false
	}
	return v.t, true
}

// Str returns the raw string value of key or "" if it is not a string.
func (a Attrs) Str(key string) string {
	v, ok := a[key]
	if !ok || v.kind != StringValue {
		return ""
	}
	return v.s
}

func (a Attrs) Has(key string) bool {
	_, ok := a[key]
	return ok
}

func (a Attrs) IsNull(key string) bool {
	v, ok := a[key]
	return ok && v.kind == NullValue
}

func setOf(keys ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}

var intFields = setOf(
	// game
	"venue_id", "home_team_id", "home_league_id", "away_team_id",
	"away_league_id", "home_win", "home_loss", "away_win", "away_loss",
	"home_team_runs", "away_team_runs", "home_team_hits", "away_team_hits",
	"home_team_errors", "away_team_errors", "home_team_hr", "away_team_hr",
	"home_team_sb", "away_team_sb", "home_team_so", "away_team_so",
	"series_num", "ser_home_nbr", "ser_games", "scheduled_innings",
	// people
	"id", "game_pk", "num", "team_id", "parent_team_id", "hr", "rbi",
	"wins", "losses", "bat_order",
	// play by play
	"event_num", "o", "b", "s", "pitcher", "batter", "player", "zone",
	"nasty", "inning",
)

var floatFields = setOf(
	"home_games_back", "away_games_back", "home_games_back_wildcard",
	"away_games_back_wildcard", "avg", "era",
	// pitch tracking
	"x", "y", "start_speed", "end_speed", "sz_top", "sz_bot", "pfx_x",
	"pfx_z", "px", "pz", "x0", "y0", "z0", "vx0", "vy0", "vz0", "ax", "ay",
	"az", "break_y", "break_angle", "break_length", "type_confidence",
	"spin_dir", "spin_rate",
)

var gameDateFields = setOf("original_date", "resume_date", "resume_time_date")

// Normalize coerces the raw attributes of one element of the given kind
// into typed values and renames the ambiguous id and type keys.
//
// Integer and float coercion never fails: unusable values become null.
// A malformed sv_id is the one hard failure and is reported as
// ErrFieldCoercion; the returned Attrs is nil in that case.
func Normalize(kind EntityKind, raw map[string]string) (Attrs, error) {
	out := make(Attrs, len(raw))
	for key, val := range raw {
		if key == "sv_id" {
			v, err := coerceSVID(val)
			if err != nil {
				return nil, fmt.Errorf("unable to normalize %v sv_id %q: %w: %v",
					kind, val, ErrFieldCoercion, err)
			}
			out[key] = v
			continue
		}
		if kind == KindRunner && key == "rbi" {
			// runner rbi is a T/F flag, not a count
			out[key] = StringOf(val)
			continue
		}
		if kind == KindGame {
			if _, ok := gameDateFields[key]; ok {
				out[key] = coerceDate(kind, key, val)
				continue
			}
		}
		if _, ok := intFields[key]; ok {
			out[key] = coerceInt(kind, key, val)
			continue
		}
		if _, ok := floatFields[key]; ok {
			out[key] = coerceFloat(kind, key, val)
			continue
		}
		out[key] = StringOf(val)
	}

	if v, ok := out["id"]; ok {
		delete(out, "id")
		out[string(kind)+"_id"] = v
	}
	if v, ok := out["type"]; ok {
		delete(out, "type")
		if kind == KindPitch {
			out["p_type"] = v
		} else {
			out[string(kind)+"_type"] = v
		}
	}

	return out, nil
}

func isMissingInt(s string) bool {
	return s == "" || strings.Contains(s, " ") || strings.Contains(s, "-") ||
		strings.Contains(s, "null")
}

// errMissingMarker reports a non-empty value that only marks a missing
// number, such as "-" or "null".
var errMissingMarker = errors.New("missing-value marker")

func coerceInt(kind EntityKind, key string, s string) Value {
	if s == "" {
		return Null()
	}
	if isMissingInt(s) {
		coercionFailure(kind, key, s, errMissingMarker)
		return Null()
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		coercionFailure(kind, key, s, err)
		return Null()
	}
	return IntOf(i)
}

func coerceFloat(kind EntityKind, key string, s string) Value {
	if s == "" {
		return Null()
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		coercionFailure(kind, key, s, err)
		return Null()
	}
	return FloatOf(f)
}

func coerceDate(kind EntityKind, key string, s string) Value {
	t, err := internal.ParseDateOrZero(s)
	if err != nil {
		coercionFailure(kind, key, s, err)
		return Null()
	}
	if t.IsZero() {
		return Null()
	}
	return TimeOf(t)
}

func coerceSVID(s string) (Value, error) {
	if s == "" {
		return Null(), nil
	}
	t, err := time.Parse(svIDLayout, s)
	if err != nil {
		return Null(), err
	}
	return TimeOf(t), nil
}

// normalizeLog is resolved on first use so that it picks up the root
// logger configured by the caller.
var normalizeLog = sync.OnceValue(func() *logger.Logger {
	return logger.Named("normalize")
})

func coercionFailure(kind EntityKind, key string, s string, err error) {
	normalizeLog().Debug().
		Str("kind", string(kind)).
		Str("field", key).
		Str("raw", s).
		Err(err).
		Msg("field coercion failed; using null")
}
