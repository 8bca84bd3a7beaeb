// Copyright 2014 by the Authors
// This file is part of the go-avm library.
//
// The go-avm library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-avm library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-avm library. If not, see <http://www.gnu.org/licenses/>.

// Package avmlog is go-core's log15-derived structured logger, unchanged
// in shape from the teacher's own "log" package: leveled, contextual
// key/value records passed through a swappable Handler chain, terminal
// output colorized with fatih/color when the destination is a tty
// (detected with mattn/go-isatty, written through mattn/go-colorable on
// Windows), caller frames captured with go-stack/stack.
package avmlog

import (
	"fmt"
	"time"

	"github.com/go-stack/stack"
)

// Lvl is a logging level, ordered from most to least severe exactly like
// the teacher's own log.Lvl.
type Lvl int

const (
	LvlCrit Lvl = iota
	LvlError
	LvlWarn
	LvlInfo
	LvlDebug
	LvlTrace
)

// String returns the upper-case, space-padded level name used by
// TerminalFormat.
func (l Lvl) String() string {
	switch l {
	case LvlTrace:
		return "TRACE"
	case LvlDebug:
		return "DEBUG"
	case LvlInfo:
		return "INFO "
	case LvlWarn:
		return "WARN "
	case LvlError:
		return "ERROR"
	case LvlCrit:
		return "CRIT "
	default:
		panic("avmlog: bad level")
	}
}

// AlignedString returns the level's four-letter lowercase abbreviation
// ("trce", "dbug", ...), for non-terminal formats.
func (l Lvl) AlignedString() string {
	switch l {
	case LvlTrace:
		return "trce"
	case LvlDebug:
		return "dbug"
	case LvlInfo:
		return "info"
	case LvlWarn:
		return "warn"
	case LvlError:
		return "eror"
	case LvlCrit:
		return "crit"
	default:
		panic("avmlog: bad level")
	}
}

// LvlFromString parses s the way the teacher's --verbosity flag does
// (cmd/cvm's flag parsing).
func LvlFromString(s string) (Lvl, error) {
	switch s {
	case "trace", "trce":
		return LvlTrace, nil
	case "debug", "dbug":
		return LvlDebug, nil
	case "info":
		return LvlInfo, nil
	case "warn":
		return LvlWarn, nil
	case "error", "eror":
		return LvlError, nil
	case "crit":
		return LvlCrit, nil
	default:
		return LvlDebug, fmt.Errorf("avmlog: unknown level %q", s)
	}
}

// Ctx is a list of alternating key, value pairs, the same shape the
// teacher's log.Ctx uses for With/New calls.
type Ctx []interface{}

// Record is one fully assembled log entry.
type Record struct {
	Time  time.Time
	Lvl   Lvl
	Msg   string
	Ctx   []interface{}
	Call  stack.Call
	KeyNames RecordKeyNames
}

// RecordKeyNames lets a Format find the reserved fields of a Record
// inside Ctx after flattening, mirroring log15's own RecordKeyNames.
type RecordKeyNames struct {
	Time string
	Msg  string
	Lvl  string
}

var defaultKeyNames = RecordKeyNames{Time: "t", Msg: "msg", Lvl: "lvl"}

// Logger is the logging interface every component in this module takes
// instead of reaching for the package-level functions directly, so a
// caller can inject a sub-logger with extra context (spec section 9's
// ambient logging convention, carried from the teacher's own log.Logger
// interface).
type Logger interface {
	New(ctx ...interface{}) Logger

	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	Crit(msg string, ctx ...interface{})

	SetHandler(h Handler)
	GetHandler() Handler
}

type logger struct {
	ctx []interface{}
	h   *swapHandler
}

// swapHandler lets SetHandler replace the active handler without
// requiring every logger derived via New to be re-pointed.
type swapHandler struct {
	handler Handler
}

func (s *swapHandler) Log(r *Record) error { return s.handler.Log(r) }

func newLogger(ctx []interface{}) *logger {
	return &logger{ctx: ctx, h: new(swapHandler)}
}

func (l *logger) write(msg string, lvl Lvl, ctx []interface{}, skip int) {
	l.h.Log(&Record{
		Time:     time.Now(),
		Lvl:      lvl,
		Msg:      msg,
		Ctx:      newContext(l.ctx, ctx),
		Call:     stack.Caller(skip),
		KeyNames: defaultKeyNames,
	})
}

func (l *logger) New(ctx ...interface{}) Logger {
	child := &logger{ctx: newContext(l.ctx, ctx), h: new(swapHandler)}
	child.SetHandler(l.h)
	return child
}

func (l *logger) Trace(msg string, ctx ...interface{}) { l.write(msg, LvlTrace, ctx, 2) }
func (l *logger) Debug(msg string, ctx ...interface{}) { l.write(msg, LvlDebug, ctx, 2) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.write(msg, LvlInfo, ctx, 2) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.write(msg, LvlWarn, ctx, 2) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.write(msg, LvlError, ctx, 2) }
func (l *logger) Crit(msg string, ctx ...interface{})  { l.write(msg, LvlCrit, ctx, 2) }

func (l *logger) SetHandler(h Handler) { l.h.handler = h }
func (l *logger) GetHandler() Handler  { return l.h.handler }

// newContext appends ctx to prefix, filling in a placeholder key for an
// odd trailing value exactly like log15's normalize.
func newContext(prefix, ctx []interface{}) []interface{} {
	normalized := normalize(ctx)
	combined := make([]interface{}, 0, len(prefix)+len(normalized))
	combined = append(combined, prefix...)
	combined = append(combined, normalized...)
	return combined
}

func normalize(ctx []interface{}) []interface{} {
	if len(ctx)%2 != 0 {
		ctx = append(ctx, "avmlog_error", "odd number of arguments")
	}
	return ctx
}
