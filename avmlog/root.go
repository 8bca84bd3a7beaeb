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

package avmlog

import (
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

var root = newLogger(nil)

func init() {
	root.SetHandler(defaultStderrHandler())
}

// defaultStderrHandler mirrors cmd/cvm's startup logging: color when
// stderr is a tty (go-isatty), routed through go-colorable so the ANSI
// codes still render on a Windows console, plain logfmt otherwise.
func defaultStderrHandler() Handler {
	useColor := isatty.IsTerminal(os.Stderr.Fd())
	out := colorable.NewColorableStderr()
	if useColor {
		return StreamHandler(out, TerminalFormat(true))
	}
	return StreamHandler(out, LogfmtFormat())
}

// Root returns the package's root Logger.
func Root() Logger { return root }

// New returns a child of the root logger carrying the given context.
func New(ctx ...interface{}) Logger { return root.New(ctx...) }

// Trace logs at LvlTrace against the root logger.
func Trace(msg string, ctx ...interface{}) { root.write(msg, LvlTrace, ctx, 3) }

// Debug logs at LvlDebug against the root logger.
func Debug(msg string, ctx ...interface{}) { root.write(msg, LvlDebug, ctx, 3) }

// Info logs at LvlInfo against the root logger.
func Info(msg string, ctx ...interface{}) { root.write(msg, LvlInfo, ctx, 3) }

// Warn logs at LvlWarn against the root logger.
func Warn(msg string, ctx ...interface{}) { root.write(msg, LvlWarn, ctx, 3) }

// Error logs at LvlError against the root logger.
func Error(msg string, ctx ...interface{}) { root.write(msg, LvlError, ctx, 3) }

// Crit logs at LvlCrit against the root logger and exits the process,
// the same fatal-by-definition semantics as the teacher's log.Crit.
func Crit(msg string, ctx ...interface{}) {
	root.write(msg, LvlCrit, ctx, 3)
	os.Exit(1)
}
