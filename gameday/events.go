/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package gameday

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mikeb26/gamedayevents/internal"
	"github.com/mikeb26/gamedayevents/internal/logger"
)

type EventType int

const (
	AtBatEvent EventType = iota
	ActionEvent
)

func (t EventType) String() string {
	switch t {
	case AtBatEvent:
		return "atbat"
	case ActionEvent:
		return "action"
	}

	panic(fmt.Sprintf("unknown EventType %d", int(t)))
}

// GameInfo identifies the game being traversed. It is supplied by the
// caller, typically from the day's scoreboard.
type GameInfo struct {
	GID      string `validate:"required"`
	GamePK   int
	VenueID  int
	GameDate time.Time
}

// Event is one plate appearance or action together with the game state
// immediately before and after it.
type Event struct {
	Game        GameInfo
	Inning      int       `validate:"min=1"`
	Half        Half      `validate:"min=0,max=1"`
	Number      int       `validate:"min=1"`
	Type        EventType `validate:"min=0,max=1"`
	Pitcher     PlayerID
	Batter      PlayerID
	Catcher     PlayerID
	Umpire      int `validate:"required"`
	Description string
	Before      Snapshot
	After       Snapshot
	Attrs       Attrs

	Pitches  []*Pitch          `validate:"dive"`
	Runners  []*RunnerMovement `validate:"dive"`
	Pickoffs []*Pickoff        `validate:"dive"`
}

type Pitch struct {
	Number int `validate:"min=1"`
	Before Snapshot
	After  Snapshot
	Attrs  Attrs
}

type RunnerMovement struct {
	Number int `validate:"min=1"`
	Runner PlayerID
	Start  Base `validate:"min=0,max=4"`
	End    Base `validate:"min=0,max=4"`
	Scored bool
	Earned bool
	RBI    bool
	// AttributedEventNumber is the event whose state the movement changed.
	// It differs from the parent event when the movement was reattributed
	// to the preceding event.
	AttributedEventNumber int `validate:"min=1"`
	Reattributed          bool
	Before                Snapshot
	After                 Snapshot
	Attrs                 Attrs

	finalized bool
}

type Pickoff struct {
	Number      int `validate:"min=1"`
	AtBatNumber int `validate:"min=1"`
	Before      Snapshot
	After       Snapshot
	Attrs       Attrs
}

// ReconciliationAmbiguity records a runner movement that the sibling rule
// placed on the preceding event when there was no such event in the same
// half-inning. The movement is applied to the current at-bat instead.
type ReconciliationAmbiguity struct {
	Inning       int
	Half         Half
	EventNumber  int
	RunnerNumber int
	Runner       PlayerID
	Reason       string
}

// DroppedRecord is a child element discarded because its attributes could
// not be normalized.
type DroppedRecord struct {
	Inning      int
	Half        Half
	EventNumber int
	Kind        EntityKind
	Err         error
}

type GameResult struct {
	Game        GameInfo
	Roster      *Roster
	Events      []*Event
	Ambiguities []ReconciliationAmbiguity
	Dropped     []DroppedRecord
}

// GameError is a failure that stops the traversal of one game.
type GameError struct {
	GID string
	Err error
}

func (e *GameError) Error() string {
	return fmt.Sprintf("game %v: %v", e.GID, e.Err)
}

func (e *GameError) Unwrap() error {
	return e.Err
}

// ProcessGameDir loads players.xml and inning_all.xml from a gid_*
// directory and builds the game's event stream.
func ProcessGameDir(game GameInfo, dir string) (*GameResult, error) {
	rosterPath, err := FindDocument(dir, internal.PlayersFile)
	if err != nil {
		return nil, &GameError{GID: game.GID, Err: err}
	}
	inningsPath, err := FindDocument(dir, internal.InningAllFile,
		internal.InningSubdir)
	if err != nil {
		return nil, &GameError{GID: game.GID, Err: err}
	}

	rosterDoc, err := OpenDocument(rosterPath)
	if err != nil {
		return nil, &GameError{GID: game.GID, Err: err}
	}
	inningsDoc, err := OpenDocument(inningsPath)
	if err != nil {
		return nil, &GameError{GID: game.GID, Err: err}
	}

	return BuildEvents(game, rosterDoc, inningsDoc)
}

// GameInfoFromDir derives the game identifier and date from a gid_*
// directory name. GamePK and VenueID are left for the caller to fill.
func GameInfoFromDir(dir string) (GameInfo, error) {
	gid := strings.TrimPrefix(filepath.Base(filepath.Clean(dir)),
		internal.GIDDirPrefix)
	date, err := internal.ParseGIDDate(gid)
	if err != nil {
		return GameInfo{}, err
	}
	return GameInfo{GID: gid, GameDate: date}, nil
}

// BuildEvents walks an innings document in order and returns one Event per
// at-bat and action. A roster without a home plate umpire fails the game.
func BuildEvents(game GameInfo, rosterDoc *Node, inningsDoc *Node) (*GameResult,
	error) {

	roster, err := ParseRoster(rosterDoc)
	if err != nil {
		return nil, &GameError{GID: game.GID, Err: err}
	}
	assign, err := roster.Resolve()
	if err != nil {
		return nil, &GameError{GID: game.GID, Err: err}
	}
	if inningsDoc == nil {
		return nil, &GameError{GID: game.GID,
			Err: fmt.Errorf("%w: empty innings document", ErrMalformedDocument)}
	}

	b := newBuilder(game, assign)
	b.result.Roster = roster
	b.walk(inningsDoc)

	return b.result, nil
}

type builder struct {
	game    GameInfo
	assign  Assignments
	tracker *Tracker
	log     *logger.Logger
	result  *GameResult

	// pending is the most recently emitted event. It stays open to
	// correction by the runner movements of the event that follows it and
	// is closed once that event is emitted or the half ends.
	pending *Event

	nextEvent   int
	nextPitch   int
	nextRunner  int
	nextPickoff int
}

func newBuilder(game GameInfo, assign Assignments) *builder {
	l := logger.Named("events").With().Str("gid", game.GID).Logger()
	return &builder{
		game:        game,
		assign:      assign,
		tracker:     NewTracker(),
		log:         &l,
		result:      &GameResult{Game: game},
		nextEvent:   1,
		nextPitch:   1,
		nextRunner:  1,
		nextPickoff: 1,
	}
}

func (b *builder) walk(doc *Node) {
	for i, inning := range doc.FindAll("inning") {
		num, err := strconv.Atoi(inning.Attrs["num"])
		if err != nil || num < 1 {
			num = i + 1
			b.log.Warn().Str("num", inning.Attrs["num"]).Int("inning", num).
				Msg("inning without usable number; using position")
		}

		for _, half := range []Half{Top, Bottom} {
			b.tracker.ResetHalfInning(half)
			b.pending = nil

			halfNode := inning.Find(half.Tag())
			if halfNode == nil {
				continue
			}
			for _, node := range halfNode.Children {
				switch node.Tag {
				case "atbat":
					b.atBat(num, half, node)
				case "action":
					b.action(num, half, node)
				default:
					b.log.Debug().Str("tag", node.Tag).Msg("ignoring element")
				}
			}
		}
	}
	b.pending = nil
}

func (b *builder) newEvent(inning int, half Half, typ EventType,
	attrs Attrs) *Event {

	ev := &Event{
		Game:        b.game,
		Inning:      inning,
		Half:        half,
		Number:      b.nextEvent,
		Type:        typ,
		Catcher:     b.assign.Catcher(half),
		Umpire:      b.assign.HomeUmpire,
		Description: attrs.Str("des"),
		Before:      b.tracker.Snapshot(),
		Attrs:       attrs,
	}
	if id, ok := attrs.Int("pitcher"); ok {
		ev.Pitcher = PlayerID(id)
	}
	if id, ok := attrs.Int("batter"); ok {
		ev.Batter = PlayerID(id)
	}

	return ev
}

// normalizeEvent normalizes an at-bat or action element. Unlike child
// records the event itself is never dropped; a failing field is left out.
func (b *builder) normalizeEvent(kind EntityKind, node *Node) Attrs {
	attrs, err := Normalize(kind, node.Attrs)
	if err == nil {
		return attrs
	}
	b.log.Warn().Err(err).Str("kind", string(kind)).
		Msg("event attributes degraded")
	raw := make(map[string]string, len(node.Attrs))
	for k, v := range node.Attrs {
		if k != "sv_id" {
			raw[k] = v
		}
	}
	attrs, _ = Normalize(kind, raw)
	attrs["sv_id"] = Null()

	return attrs
}

func (b *builder) atBat(inning int, half Half, node *Node) {
	ev := b.newEvent(inning, half, AtBatEvent, b.normalizeEvent(KindAtBat, node))

	pickoffs := 0
	cur := newCursor(node.Children)
	for {
		child, ok := cur.Next()
		if !ok {
			break
		}
		switch child.Tag {
		case "pitch":
			attrs, err := Normalize(KindPitch, child.Attrs)
			if err != nil {
				b.drop(ev, KindPitch, err)
				continue
			}
			ev.Pitches = append(ev.Pitches, &Pitch{
				Number: b.nextPitch,
				Before: b.tracker.Snapshot(),
				Attrs:  attrs,
			})
			b.nextPitch++
		case "po":
			attrs, err := Normalize(KindPickoff, child.Attrs)
			if err != nil {
				b.drop(ev, KindPickoff, err)
				continue
			}
			pickoffs++
			ev.Pickoffs = append(ev.Pickoffs, &Pickoff{
				Number:      b.nextPickoff,
				AtBatNumber: pickoffs,
				Before:      b.tracker.Snapshot(),
				Attrs:       attrs,
			})
			b.nextPickoff++
		case "runner":
			b.runner(ev, child, cur)
		default:
			b.log.Debug().Str("tag", child.Tag).Int("event", ev.Number).
				Msg("ignoring at-bat child")
		}
	}

	b.finish(ev)
}

func (b *builder) action(inning int, half Half, node *Node) {
	ev := b.newEvent(inning, half, ActionEvent, b.normalizeEvent(KindAction, node))
	b.finish(ev)
}

// runner applies one runner movement. It belongs to the current at-bat
// when it is the last child or is followed by another runner; otherwise it
// describes a play of the preceding event and that event is corrected.
func (b *builder) runner(ev *Event, node *Node, cur *cursor) {
	attrs, err := Normalize(KindRunner, node.Attrs)
	if err != nil {
		b.drop(ev, KindRunner, err)
		return
	}

	id, _ := attrs.Int("runner_id")
	rm := &RunnerMovement{
		Number:                b.nextRunner,
		Runner:                PlayerID(id),
		Start:                 ParseBase(attrs.Str("start")),
		End:                   ParseBase(attrs.Str("end")),
		Earned:                attrs.Str("earned") == "T",
		RBI:                   attrs.Str("rbi") == "T",
		AttributedEventNumber: ev.Number,
		Attrs:                 attrs,
	}
	if attrs.Str("score") == "T" {
		rm.End = Home
	}
	rm.Scored = rm.End == Home
	b.nextRunner++
	ev.Runners = append(ev.Runners, rm)

	next, hasNext := cur.Peek()
	if !hasNext || next.Tag == "runner" {
		rm.Before = b.tracker.Snapshot()
		b.tracker.ApplyMovement(rm.Start, rm.End, rm.Runner)
		return
	}

	prev := b.pending
	if prev == nil {
		b.ambiguity(ev, rm, "no preceding event in this half-inning")
		rm.Before = b.tracker.Snapshot()
		b.tracker.ApplyMovement(rm.Start, rm.End, rm.Runner)
		return
	}

	rm.Before = prev.After
	b.tracker.ApplyMovement(rm.Start, rm.End, rm.Runner)
	b.reattribute(prev, ev, rm)
}

// reattribute moves the effect of rm onto prev: prev's after state and
// that of its open children, ev's before state and that of the children
// ev has collected so far. A prev without a pitcher inherits ev's.
func (b *builder) reattribute(prev *Event, ev *Event, rm *RunnerMovement) {
	move := func(s *Snapshot) {
		s.move(ev.Half, rm.Start, rm.End, rm.Runner)
	}

	move(&prev.After)
	for _, p := range prev.Pitches {
		p.After = prev.After
	}
	for _, r := range prev.Runners {
		if !r.finalized {
			r.After = prev.After
		}
	}
	for _, p := range prev.Pickoffs {
		p.After = prev.After
	}

	move(&ev.Before)
	for _, p := range ev.Pitches {
		move(&p.Before)
	}
	for _, p := range ev.Pickoffs {
		move(&p.Before)
	}
	for _, r := range ev.Runners {
		if r != rm && !r.finalized {
			move(&r.Before)
		}
	}

	// actions name their subject in player, so a stolen base or wild pitch
	// takes its pitcher from the at-bat that reports the advance
	if prev.Pitcher == NoPlayer {
		prev.Pitcher = ev.Pitcher
	}

	rm.After = prev.After
	rm.finalized = true
	rm.Reattributed = true
	rm.AttributedEventNumber = prev.Number

	b.log.Debug().Int("event", ev.Number).Int("previous", prev.Number).
		Int("runner", int(rm.Runner)).Str("start", rm.Start.String()).
		Str("end", rm.End.String()).
		Msg("runner movement reattributed to previous event")
}

// finish applies the event's authoritative out count, records the after
// state on the event and its open children, and emits it.
func (b *builder) finish(ev *Event) {
	if outs, ok := ev.Attrs.Int("o"); ok {
		tracked := b.tracker.Snapshot().Outs
		if outs < tracked {
			b.log.Warn().Int("event", ev.Number).Int("o", outs).
				Int("tracked", tracked).
				Msg("authoritative out count below tracked count; trusting o")
		}
		b.tracker.ApplyOutDelta(outs)
	} else if ev.Type == AtBatEvent {
		b.log.Debug().Int("event", ev.Number).Msg("at-bat has no out count")
	}

	ev.After = b.tracker.Snapshot()
	for _, p := range ev.Pitches {
		p.After = ev.After
	}
	for _, r := range ev.Runners {
		if !r.finalized {
			r.After = ev.After
		}
	}
	for _, p := range ev.Pickoffs {
		p.After = ev.After
	}
	b.checkRuns(ev)

	b.result.Events = append(b.result.Events, ev)
	b.pending = ev
	b.nextEvent++
}

// checkRuns compares the tracked score with run totals the element
// reports. Only movements change the score, so a difference is logged and
// otherwise ignored.
func (b *builder) checkRuns(ev *Event) {
	home, hasHome := ev.Attrs.Int("home_team_runs")
	away, hasAway := ev.Attrs.Int("away_team_runs")
	if (hasHome && home != ev.After.HomeRuns) ||
		(hasAway && away != ev.After.AwayRuns) {
		b.log.Debug().Int("event", ev.Number).
			Int("home_team_runs", home).Int("away_team_runs", away).
			Int("tracked_home", ev.After.HomeRuns).
			Int("tracked_away", ev.After.AwayRuns).
			Msg("element run totals differ from tracked score")
	}
}

func (b *builder) drop(ev *Event, kind EntityKind, err error) {
	b.log.Warn().Err(err).Int("event", ev.Number).Str("kind", string(kind)).
		Msg("dropping record")
	b.result.Dropped = append(b.result.Dropped, DroppedRecord{
		Inning:      ev.Inning,
		Half:        ev.Half,
		EventNumber: ev.Number,
		Kind:        kind,
		Err:         err,
	})
}

func (b *builder) ambiguity(ev *Event, rm *RunnerMovement, reason string) {
	b.log.Warn().Int("event", ev.Number).Int("runner", int(rm.Runner)).
		Int("inning", ev.Inning).Str("half", ev.Half.String()).
		Msg("runner movement has no preceding event; applied to current at-bat")
	b.result.Ambiguities = append(b.result.Ambiguities,
		ReconciliationAmbiguity{
			Inning:       ev.Inning,
			Half:         ev.Half,
			EventNumber:  ev.Number,
			RunnerNumber: rm.Number,
			Runner:       rm.Runner,
			Reason:       reason,
		})
}
