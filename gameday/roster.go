/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package gameday

import (
	"errors"
	"fmt"

	"github.com/mikeb26/gamedayevents/internal/logger"
	"golang.org/x/text/unicode/norm"
)

var ErrMissingHomeUmpire = errors.New("no umpire holds the home position")

type Team struct {
	ID   string
	Name string
	Home bool
}

type Player struct {
	ID              PlayerID
	First           string
	Last            string
	Boxname         string
	Position        string
	CurrentPosition string
	BatOrder        int
	Home            bool
	Attrs           Attrs
}

type Coach struct {
	ID       int
	First    string
	Last     string
	Position string
	Home     bool
	Attrs    Attrs
}

type Umpire struct {
	ID       int
	Name     string
	First    string
	Last     string
	Position string
	Attrs    Attrs
}

// Roster is the parsed content of a game's players.xml.
type Roster struct {
	Teams   []Team
	Players []Player
	Coaches []Coach
	Umpires []Umpire
}

// Assignments are the per-game annotations every event carries.
type Assignments struct {
	HomeUmpire int
	catchers   [2]PlayerID // indexed by Half
}

// Catcher returns the catcher of the team fielding during h.
func (a Assignments) Catcher(h Half) PlayerID {
	return a.catchers[h]
}

func nfc(a Attrs, key string) string {
	return norm.NFC.String(a.Str(key))
}

// ParseRoster reads teams, players, coaches and umpires from a roster
// document. People whose attributes cannot be normalized are skipped.
func ParseRoster(doc *Node) (*Roster, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: empty roster document", ErrMalformedDocument)
	}
	log := logger.Named("roster")

	roster := &Roster{}
	for _, elem := range doc.Children {
		switch elem.Tag {
		case "team":
			home := elem.Attrs["type"] == "home"
			roster.Teams = append(roster.Teams, Team{
				ID:   elem.Attrs["id"],
				Name: norm.NFC.String(elem.Attrs["name"]),
				Home: home,
			})
			for _, p := range elem.FindAll("player") {
				a, err := Normalize(KindPlayer, p.Attrs)
				if err != nil {
					log.Warn().Err(err).Msg("skipping player")
					continue
				}
				id, _ := a.Int("player_id")
				order, _ := a.Int("bat_order")
				roster.Players = append(roster.Players, Player{
					ID:              PlayerID(id),
					First:           nfc(a, "first"),
					Last:            nfc(a, "last"),
					Boxname:         nfc(a, "boxname"),
					Position:        a.Str("position"),
					CurrentPosition: a.Str("current_position"),
					BatOrder:        order,
					Home:            home,
					Attrs:           a,
				})
			}
			for _, c := range elem.FindAll("coach") {
				a, err := Normalize(KindCoach, c.Attrs)
				if err != nil {
					log.Warn().Err(err).Msg("skipping coach")
					continue
				}
				id, _ := a.Int("coach_id")
				roster.Coaches = append(roster.Coaches, Coach{
					ID:       id,
					First:    nfc(a, "first"),
					Last:     nfc(a, "last"),
					Position: a.Str("position"),
					Home:     home,
					Attrs:    a,
				})
			}
		case "umpires":
			for _, u := range elem.FindAll("umpire") {
				a, err := Normalize(KindUmpire, u.Attrs)
				if err != nil {
					log.Warn().Err(err).Msg("skipping umpire")
					continue
				}
				id, _ := a.Int("umpire_id")
				roster.Umpires = append(roster.Umpires, Umpire{
					ID:       id,
					Name:     nfc(a, "name"),
					First:    nfc(a, "first"),
					Last:     nfc(a, "last"),
					Position: a.Str("position"),
					Attrs:    a,
				})
			}
		}
	}

	return roster, nil
}

// Resolve finds the home plate umpire and the catcher of each side. The
// top half is caught by the home team and the bottom half by the visitors.
// Substitutions are not modelled: the last player listed at C wins.
func (r *Roster) Resolve() (Assignments, error) {
	var ret Assignments

	found := false
	for _, u := range r.Umpires {
		if u.Position != "home" {
			continue
		}
		if u.ID == 0 {
			return ret, fmt.Errorf("%w: home umpire %q has no id",
				ErrMissingHomeUmpire, u.Name)
		}
		ret.HomeUmpire = u.ID
		found = true
	}
	if !found {
		return ret, ErrMissingHomeUmpire
	}

	for _, p := range r.Players {
		if p.CurrentPosition != "C" {
			continue
		}
		if p.Home {
			ret.catchers[Top] = p.ID
		} else {
			ret.catchers[Bottom] = p.ID
		}
	}

	return ret, nil
}
