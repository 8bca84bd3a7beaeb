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
	"io"
	"sync"
)

// Handler writes, filters or otherwise dispatches a Record — the
// teacher's own log.Handler shape, kept as a one-method interface so
// handlers compose.
type Handler interface {
	Log(r *Record) error
}

// FuncHandler turns a plain function into a Handler.
type FuncHandler func(r *Record) error

func (h FuncHandler) Log(r *Record) error { return h(r) }

// StreamHandler writes every record to wr, formatted by fmt, and
// serializes concurrent writers — the teacher's own StreamHandler plus
// its SyncHandler wrapper collapsed into one, since every call site in
// this module wants both.
func StreamHandler(wr io.Writer, fmt Format) Handler {
	var mu sync.Mutex
	return FuncHandler(func(r *Record) error {
		mu.Lock()
		defer mu.Unlock()
		_, err := wr.Write(fmt.Format(r))
		return err
	})
}

// DiscardHandler discards every record — used by components under test
// that don't want log output on stdout/stderr.
func DiscardHandler() Handler {
	return FuncHandler(func(r *Record) error { return nil })
}

// LvlFilterHandler returns a Handler that only forwards records at or
// above the more-severe-than-or-equal-to maxLvl (numerically <=, since
// Lvl is ordered most to least severe) down to h.
func LvlFilterHandler(maxLvl Lvl, h Handler) Handler {
	return FuncHandler(func(r *Record) error {
		if r.Lvl > maxLvl {
			return nil
		}
		return h.Log(r)
	})
}

// MultiHandler fans one record out to every handler in hs, returning the
// first error encountered (if any) after attempting all of them.
func MultiHandler(hs ...Handler) Handler {
	return FuncHandler(func(r *Record) error {
		var firstErr error
		for _, h := range hs {
			if err := h.Log(r); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	})
}
