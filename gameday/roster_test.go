/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package gameday

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestDoc(t *testing.T, name string) *Node {
	t.Helper()
	doc, err := OpenDocument(filepath.Join("testdata", name))
	require.NoError(t, err)
	return doc
}

func TestParseRoster(t *testing.T) {
	r, err := ParseRoster(loadTestDoc(t, "players.xml"))
	require.NoError(t, err)

	require.Len(t, r.Teams, 2)
	assert.False(t, r.Teams[0].Home)
	assert.True(t, r.Teams[1].Home)
	assert.Len(t, r.Players, 11)
	assert.Len(t, r.Coaches, 2)
	assert.Len(t, r.Umpires, 3)

	var bautista Player
	for _, p := range r.Players {
		if p.ID == 102 {
			bautista = p
		}
	}
	assert.Equal(t, "José", bautista.First)
	assert.Equal(t, 3, bautista.BatOrder)
	assert.False(t, bautista.Home)

	// an umpire with an empty id keeps a zero id
	assert.Equal(t, 0, r.Umpires[2].ID)
	assert.Equal(t, "Gabe Morales", r.Umpires[2].Name)
}

func TestParseRosterNFC(t *testing.T) {
	// "e" followed by a combining acute accent
	doc, err := ParseDocument(strings.NewReader(
		"<game><team type=\"home\"><player id=\"1\" first=\"Jose\u0301\"/></team></game>"))
	require.NoError(t, err)

	r, err := ParseRoster(doc)
	require.NoError(t, err)
	require.Len(t, r.Players, 1)
	assert.Equal(t, "Jos\u00e9", r.Players[0].First)
}

func TestResolve(t *testing.T) {
	r, err := ParseRoster(loadTestDoc(t, "players.xml"))
	require.NoError(t, err)

	a, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 900, a.HomeUmpire)
	// top half: home team fields
	assert.Equal(t, PlayerID(250), a.Catcher(Top))
	assert.Equal(t, PlayerID(150), a.Catcher(Bottom))
}

func TestResolveLastCatcherWins(t *testing.T) {
	r := &Roster{
		Players: []Player{
			{ID: 1, CurrentPosition: "C", Home: true},
			{ID: 2, CurrentPosition: "C", Home: true},
		},
		Umpires: []Umpire{{ID: 9, Position: "home"}},
	}
	a, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, PlayerID(2), a.Catcher(Top))
	assert.Equal(t, NoPlayer, a.Catcher(Bottom))
}

func TestResolveMissingHomeUmpire(t *testing.T) {
	r, err := ParseRoster(loadTestDoc(t, "players_no_home_umpire.xml"))
	require.NoError(t, err)
	_, err = r.Resolve()
	assert.ErrorIs(t, err, ErrMissingHomeUmpire)

	r = &Roster{Umpires: []Umpire{{Name: "No Id", Position: "home"}}}
	_, err = r.Resolve()
	assert.ErrorIs(t, err, ErrMissingHomeUmpire)

	_, err = ParseRoster(nil)
	assert.ErrorIs(t, err, ErrMalformedDocument)
}
