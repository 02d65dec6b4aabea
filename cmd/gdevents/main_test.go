/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGID = "2016_04_03_tormlb_tbamlb_1"

type jsonRow struct {
	Table   string         `json:"table"`
	Columns map[string]any `json:"columns"`
}

func copyFixture(t *testing.T, name string, dst string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "gameday", "testdata",
		name))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
	require.NoError(t, os.WriteFile(dst, data, 0o644))
}

func makeGameDir(t *testing.T, root string, gid string) string {
	t.Helper()
	dir := filepath.Join(root, "gid_"+gid)
	copyFixture(t, "players.xml", filepath.Join(dir, "players.xml"))
	copyFixture(t, "inning_all.xml", filepath.Join(dir, "inning",
		"inning_all.xml"))
	copyFixture(t, "inning_hip.xml", filepath.Join(dir, "inning",
		"inning_hip.xml"))
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--log-level", "off"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func decodeRows(t *testing.T, out string) []jsonRow {
	t.Helper()
	var rows []jsonRow
	sc := bufio.NewScanner(strings.NewReader(out))
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	for sc.Scan() {
		var r jsonRow
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r), sc.Text())
		rows = append(rows, r)
	}
	require.NoError(t, sc.Err())
	return rows
}

func countTables(rows []jsonRow) map[string]int {
	ret := make(map[string]int)
	for _, r := range rows {
		ret[r.Table]++
	}
	return ret
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "gdevents", cmd.Use)

	for _, name := range []string{"events", "batch", "games", "hips"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	for _, name := range []string{"config", "log-level", "format"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestEventsCommand(t *testing.T) {
	dir := makeGameDir(t, t.TempDir(), testGID)

	out, _, err := execute(t, "events", dir, "--game-pk", "446877")
	require.NoError(t, err)

	rows := decodeRows(t, out)
	counts := countTables(rows)
	assert.Equal(t, 10, counts["atbat"])
	assert.Equal(t, 2, counts["action"])
	assert.Equal(t, 1, counts["pickoff"])
	assert.Zero(t, counts["player"])

	require.NotEmpty(t, rows)
	assert.Equal(t, "atbat", rows[0].Table)
	assert.Equal(t, testGID, rows[0].Columns["gid"])
	assert.EqualValues(t, 446877, rows[0].Columns["game_pk"])
	assert.EqualValues(t, 1, rows[0].Columns["game_event_number"])
}

func TestEventsCommandWithRoster(t *testing.T) {
	dir := makeGameDir(t, t.TempDir(), testGID)

	out, _, err := execute(t, "events", dir, "--with-roster")
	require.NoError(t, err)

	rows := decodeRows(t, out)
	counts := countTables(rows)
	assert.NotZero(t, counts["player"])
	assert.NotZero(t, counts["umpire"])
	assert.NotZero(t, counts["coach"])
	assert.Equal(t, 10, counts["atbat"])
}

func TestEventsCommandText(t *testing.T) {
	dir := makeGameDir(t, t.TempDir(), testGID)

	out, _, err := execute(t, "--format", "text", "events", dir)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "atbat"), lines[0])
	assert.Contains(t, lines[0], "gid="+testGID)
}

func TestEventsCommandErrors(t *testing.T) {
	_, _, err := execute(t, "events", filepath.Join(t.TempDir(), "nogame"))
	assert.Error(t, err)

	dir := filepath.Join(t.TempDir(), "gid_"+testGID)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	_, _, err = execute(t, "events", dir)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = execute(t, "--format", "xml", "events", dir)
	assert.Error(t, err)
}

func TestBatchCommand(t *testing.T) {
	root := t.TempDir()
	copyFixture(t, "miniscoreboard.xml", filepath.Join(root,
		"miniscoreboard.xml"))
	makeGameDir(t, root, testGID)
	// postponed on the board and missing its documents
	require.NoError(t, os.MkdirAll(filepath.Join(root,
		"gid_2016_04_03_nynmlb_kcamlb_1"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "notagame"), 0o755))

	out, stderr, err := execute(t, "batch", root, "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "2 games, 1 failed, 0 skipped")

	rows := decodeRows(t, out)
	assert.Equal(t, 10, countTables(rows)["atbat"])
	for _, r := range rows {
		assert.Equal(t, testGID, r.Columns["gid"])
		assert.EqualValues(t, 446877, r.Columns["game_pk"])
		assert.EqualValues(t, 12, r.Columns["venue_id"])
	}

	out, stderr, err = execute(t, "batch", root, "--final-only", "--with-hips")
	require.NoError(t, err)
	assert.Contains(t, stderr, "1 games, 0 failed, 1 skipped")
	assert.Equal(t, 3, countTables(decodeRows(t, out))["hip"])
}

func TestBatchCommandNoRoot(t *testing.T) {
	t.Setenv("GDEVENTS_BATCH_ROOT", "")
	_, _, err := execute(t, "batch")
	assert.Error(t, err)

	_, _, err = execute(t, "batch", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestGamesCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "miniscoreboard.xml")
	copyFixture(t, "miniscoreboard.xml", path)

	out, _, err := execute(t, "games", path)
	require.NoError(t, err)
	rows := decodeRows(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, "game", rows[0].Table)
	assert.Equal(t, testGID, rows[0].Columns["gid"])

	out, _, err = execute(t, "games", path, "--final-only")
	require.NoError(t, err)
	assert.Len(t, decodeRows(t, out), 1)

	out, _, err = execute(t, "games", path, "--date", "2016-04-02")
	require.NoError(t, err)
	rows = decodeRows(t, out)
	require.Len(t, rows, 1)
	assert.Equal(t, "2016_04_02_seamlb_texmlb_1", rows[0].Columns["gid"])

	_, _, err = execute(t, "games", path, "--date", "April 2")
	assert.Error(t, err)
}

func TestHIPsCommand(t *testing.T) {
	dir := makeGameDir(t, t.TempDir(), testGID)

	out, _, err := execute(t, "hips", dir, "--game-pk", "446877")
	require.NoError(t, err)
	rows := decodeRows(t, out)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, "hip", r.Table)
		assert.EqualValues(t, 446877, r.Columns["game_pk"])
	}
}
