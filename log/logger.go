// Copyright 2024 The ddc Authors
// This file is part of the ddc library.
//
// The ddc library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ddc library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ddc library. If not, see <http://www.gnu.org/licenses/>.

// Package log provides key/value structured logging on top of zerolog.
//
// Call sites pass a message followed by alternating keys and values:
//
//	log.Info("Bonded stash", "stash", stash, "amount", amount)
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Lvl is a logging verbosity level.
type Lvl int

const (
	LvlCrit Lvl = iota
	LvlError
	LvlWarn
	LvlInfo
	LvlDebug
	LvlTrace
)

func (l Lvl) String() string {
	switch l {
	case LvlTrace:
		return "trace"
	case LvlDebug:
		return "debug"
	case LvlInfo:
		return "info"
	case LvlWarn:
		return "warn"
	case LvlError:
		return "error"
	case LvlCrit:
		return "crit"
	default:
		return "unknown"
	}
}

// LvlFromString returns the level for a name or a geth-style verbosity digit.
func LvlFromString(s string) (Lvl, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace", "trce", "5":
		return LvlTrace, nil
	case "debug", "dbug", "4":
		return LvlDebug, nil
	case "info", "3":
		return LvlInfo, nil
	case "warn", "2":
		return LvlWarn, nil
	case "error", "eror", "1":
		return LvlError, nil
	case "crit", "0":
		return LvlCrit, nil
	default:
		return LvlInfo, fmt.Errorf("unknown level: %q", s)
	}
}

func (l Lvl) zerolog() zerolog.Level {
	switch l {
	case LvlTrace:
		return zerolog.TraceLevel
	case LvlDebug:
		return zerolog.DebugLevel
	case LvlInfo:
		return zerolog.InfoLevel
	case LvlWarn:
		return zerolog.WarnLevel
	case LvlError:
		return zerolog.ErrorLevel
	default:
		return zerolog.FatalLevel
	}
}

// Logger writes key/value pairs to a zerolog backend.
type Logger interface {
	// New returns a child logger that prepends ctx to every record.
	New(ctx ...interface{}) Logger

	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
}

type logger struct {
	zl zerolog.Logger
}

// NewLogger creates a logger writing to w at verbosity lvl. Records are JSON
// lines when json is set and human-readable console lines otherwise.
func NewLogger(w io.Writer, lvl Lvl, json, color bool) Logger {
	out := w
	if !json {
		out = zerolog.ConsoleWriter{Out: w, NoColor: !color, TimeFormat: time.RFC3339}
	}
	return &logger{zl: zerolog.New(out).Level(lvl.zerolog()).With().Timestamp().Logger()}
}

func (l *logger) New(ctx ...interface{}) Logger {
	return &logger{zl: l.zl.With().Fields(normalize(ctx)).Logger()}
}

func (l *logger) Trace(msg string, ctx ...interface{}) { l.write(l.zl.Trace(), msg, ctx) }
func (l *logger) Debug(msg string, ctx ...interface{}) { l.write(l.zl.Debug(), msg, ctx) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.write(l.zl.Info(), msg, ctx) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.write(l.zl.Warn(), msg, ctx) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.write(l.zl.Error(), msg, ctx) }

func (l *logger) write(ev *zerolog.Event, msg string, ctx []interface{}) {
	if ev == nil {
		return
	}
	if len(ctx) > 0 {
		ev = ev.Fields(normalize(ctx))
	}
	ev.Msg(msg)
}

// normalize pads a dangling key so every key has a value.
func normalize(ctx []interface{}) []interface{} {
	if len(ctx)%2 != 0 {
		ctx = append(ctx, nil)
	}
	for i := 0; i < len(ctx); i += 2 {
		if _, ok := ctx[i].(string); !ok {
			ctx[i] = fmt.Sprint(ctx[i])
		}
	}
	return ctx
}

var root atomic.Value

func init() {
	root.Store(loggerHolder{NewLogger(os.Stderr, LvlInfo, false, false)})
}

type loggerHolder struct{ Logger }

// Root returns the process-wide default logger.
func Root() Logger { return root.Load().(loggerHolder).Logger }

// SetDefault replaces the process-wide default logger.
func SetDefault(l Logger) { root.Store(loggerHolder{l}) }

// New returns a child of the root logger carrying ctx.
func New(ctx ...interface{}) Logger { return Root().New(ctx...) }

func Trace(msg string, ctx ...interface{}) { Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...interface{}) { Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...interface{})  { Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...interface{})  { Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...interface{}) { Root().Error(msg, ctx...) }

// Crit logs at error level and terminates the process.
func Crit(msg string, ctx ...interface{}) {
	Root().Error(msg, ctx...)
	os.Exit(1)
}
