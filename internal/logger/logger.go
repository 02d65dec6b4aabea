/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package logger wraps zerolog with the process-wide defaults used by the
// gdevents tools.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mikeb26/gamedayevents/internal"
	"github.com/rs/zerolog"
)

// Options configures the root logger
type Options struct {
	Level     string
	Format    string // "console" | "json"
	Component string
	Writer    io.Writer
}

// FromEnv builds Options from GDEVENTS_LOG_LEVEL and GDEVENTS_LOG_FORMAT.
func FromEnv() Options {
	return Options{
		Level:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		Format: strings.ToLower(getenv("LOG_FORMAT", "console")),
	}
}

func getenv(key string, def string) string {
	if v, ok := os.LookupEnv(internal.EnvPrefix + key); ok && v != "" {
		return v
	}
	return def
}

var (
	once   sync.Once
	root   atomic.Pointer[zerolog.Logger]
	inited atomic.Bool
)

type Logger = zerolog.Logger

// Get returns the root logger, initializing it from the environment on
// first use.
func Get() *Logger {
	if !inited.Load() {
		Init(FromEnv())
	}
	return root.Load()
}

// Init builds the root logger. Only the first call has any effect.
func Init(opt Options) {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		var w io.Writer = os.Stderr
		if opt.Writer != nil {
			w = opt.Writer
		}
		if opt.Format != "json" {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339,
				NoColor: opt.Writer != nil}
		}

		ctx := zerolog.New(w).Level(parseLevel(opt.Level)).With().
			Timestamp().Str("app", internal.AppName)
		if opt.Component != "" {
			ctx = ctx.Str("component", opt.Component)
		}
		log := ctx.Logger()

		root.Store(&log)
		inited.Store(true)
	})
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Named returns a child logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	ll := Get().With().Str("component", component).Logger()
	return &ll
}

type ctxKey struct{ name string }

var keyRunID = ctxKey{"run_id"}

// WithRunID annotates ctx with the identifier of a batch run.
func WithRunID(ctx context.Context, runID string) context.Context {
	if runID == "" {
		return ctx
	}
	return context.WithValue(ctx, keyRunID, runID)
}

// C returns a child logger enriched with the run id carried by ctx, if any.
func C(ctx context.Context) *Logger {
	l := Get()
	v, ok := ctx.Value(keyRunID).(string)
	if !ok || v == "" {
		return l
	}
	ll := l.With().Str("run_id", v).Logger()
	return &ll
}
