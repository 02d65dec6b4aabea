/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package gameday

import (
	"fmt"
	"strconv"
	"strings"
)

type Half int

const (
	Top Half = iota
	Bottom
)

// String returns the persisted inning_topbot value.
func (h Half) String() string {
	switch h {
	case Top:
		return "top"
	case Bottom:
		return "bot"
	}

	panic(fmt.Sprintf("unknown Half %d", int(h)))
}

// Tag is the element name of the half inside an inning element.
func (h Half) Tag() string {
	if h == Bottom {
		return "bottom"
	}
	return "top"
}

type Base int

const (
	NoBase Base = iota
	First
	Second
	Third
	Home
)

func (b Base) String() string {
	switch b {
	case NoBase:
		return ""
	case First:
		return "1B"
	case Second:
		return "2B"
	case Third:
		return "3B"
	case Home:
		return "4B"
	}

	panic(fmt.Sprintf("unknown Base %d", int(b)))
}

// ParseBase maps a runner start/end attribute to a Base. The empty string
// and anything unrecognized mean no base: a batter who has not reached,
// or a runner who was put out.
func ParseBase(s string) Base {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "1B":
		return First
	case "2B":
		return Second
	case "3B":
		return Third
	case "4B", "H", "HOME", "HP":
		return Home
	}
	return NoBase
}

// PlayerID is an MLB person id. NoPlayer marks an empty base.
type PlayerID int

const NoPlayer PlayerID = 0

// Snapshot is the game state at one instant.
type Snapshot struct {
	Outs     int         `validate:"min=0,max=2"`
	Bases    [3]PlayerID // 1B, 2B, 3B
	HomeRuns int         `validate:"min=0"`
	AwayRuns int         `validate:"min=0"`
}

// Occupant returns the runner on b, NoPlayer for an empty base or for
// NoBase and Home.
func (s Snapshot) Occupant(b Base) PlayerID {
	if b < First || b > Third {
		return NoPlayer
	}
	return s.Bases[b-First]
}

// BaseState renders occupancy of 1B, 2B and 3B as three '0'/'1' digits.
func (s Snapshot) BaseState() string {
	var sb strings.Builder
	for _, p := range s.Bases {
		if p == NoPlayer {
			sb.WriteByte('0')
		} else {
			sb.WriteByte('1')
		}
	}
	return sb.String()
}

// OutBaseState prefixes BaseState with the out count, e.g. "2100".
func (s Snapshot) OutBaseState() string {
	return strconv.Itoa(s.Outs) + s.BaseState()
}

// move applies one runner movement to s for a batting team in half h and
// reports whether it scored a run. start is only vacated when occupant (or
// nobody known) holds it; a base already taken by another runner listed
// earlier in the same play is left alone.
func (s *Snapshot) move(h Half, start Base, end Base, occupant PlayerID) bool {
	if start >= First && start <= Third {
		held := s.Bases[start-First]
		if held == occupant || occupant == NoPlayer {
			s.Bases[start-First] = NoPlayer
		}
	}
	switch {
	case end == Home:
		if h == Top {
			s.AwayRuns++
		} else {
			s.HomeRuns++
		}
		return true
	case end >= First && end <= Third:
		s.Bases[end-First] = occupant
	}
	return false
}

// Tracker holds the running state of one game traversal.
type Tracker struct {
	half Half
	cur  Snapshot
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// ResetHalfInning clears the bases and outs at the start of a half. Run
// totals carry over.
func (t *Tracker) ResetHalfInning(h Half) {
	t.half = h
	t.cur.Outs = 0
	t.cur.Bases = [3]PlayerID{}
}

func (t *Tracker) Half() Half {
	return t.half
}

func (t *Tracker) Snapshot() Snapshot {
	return t.cur
}

// ApplyMovement clears start when occupant holds it and then either
// occupies end or, when end is Home, credits a run to the team batting in
// the current half.
func (t *Tracker) ApplyMovement(start Base, end Base, occupant PlayerID) bool {
	return t.cur.move(t.half, start, end, occupant)
}

// ApplyOutDelta sets the out count from an authoritative cumulative value.
// A third out retires the side: the bases and the out counter are cleared
// so that no snapshot ever reports three outs.
func (t *Tracker) ApplyOutDelta(outs int) {
	if outs >= 3 {
		t.cur.Outs = 0
		t.cur.Bases = [3]PlayerID{}
		return
	}
	if outs < 0 {
		outs = 0
	}
	t.cur.Outs = outs
}
