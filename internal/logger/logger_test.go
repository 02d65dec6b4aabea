/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"  nonsense ", zerolog.InfoLevel},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			assert.Equal(t, c.want, parseLevel(c.in))
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GDEVENTS_LOG_LEVEL", "DEBUG")
	t.Setenv("GDEVENTS_LOG_FORMAT", "json")

	opt := FromEnv()
	assert.Equal(t, "debug", opt.Level)
	assert.Equal(t, "json", opt.Format)
}

func TestInitNamedAndRunID(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "debug", Format: "json", Writer: &buf})

	// Init is once-only; a second call must not replace the root logger
	Init(Options{Level: "error", Format: "console"})
	require.NotNil(t, Get())

	Named("builder").Info().Str("gid", "2016_04_03_tormlb_tbamlb_1").Msg("named-msg")
	ctx := WithRunID(context.Background(), "run-123")
	C(ctx).Warn().Msg("ctx-msg")
	C(context.Background()).Info().Msg("plain-msg")

	out := buf.String()
	assert.Contains(t, out, `"component":"builder"`)
	assert.Contains(t, out, `"gid":"2016_04_03_tormlb_tbamlb_1"`)
	assert.Contains(t, out, `"run_id":"run-123"`)
	assert.Contains(t, out, "named-msg")
	assert.Contains(t, out, "plain-msg")
	assert.Contains(t, out, `"app":"gdevents"`)
}

func TestWithRunIDEmpty(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, WithRunID(ctx, ""))
}
