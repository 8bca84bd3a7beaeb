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
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLvlFromString(t *testing.T) {
	lvl, err := LvlFromString("warn")
	require.NoError(t, err)
	assert.Equal(t, LvlWarn, lvl)

	_, err = LvlFromString("bogus")
	assert.Error(t, err)
}

func TestLoggerWritesThroughHandler(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(nil)
	l.SetHandler(StreamHandler(&buf, LogfmtFormat()))

	l.Info("hydrated dapp", "address", "0x01", "instances", 3)

	out := buf.String()
	assert.Contains(t, out, "msg=\"hydrated dapp\"")
	assert.Contains(t, out, "address=0x01")
	assert.Contains(t, out, "instances=3")
}

func TestNewChildInheritsContextAndHandler(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(nil)
	l.SetHandler(StreamHandler(&buf, LogfmtFormat()))

	child := l.New("component", "executor")
	child.Warn("energy low")

	assert.Contains(t, buf.String(), "component=executor")
	assert.Contains(t, buf.String(), "msg=\"energy low\"")
}

func TestLvlFilterHandlerDropsLessSevere(t *testing.T) {
	var buf bytes.Buffer
	inner := StreamHandler(&buf, LogfmtFormat())
	filtered := LvlFilterHandler(LvlWarn, inner)

	l := newLogger(nil)
	l.SetHandler(filtered)
	l.Debug("should be dropped")
	l.Warn("should pass")

	out := buf.String()
	assert.NotContains(t, out, "should be dropped")
	assert.Contains(t, out, "should pass")
}

func TestMultiHandlerFansOutToAll(t *testing.T) {
	var a, b bytes.Buffer
	l := newLogger(nil)
	l.SetHandler(MultiHandler(StreamHandler(&a, LogfmtFormat()), StreamHandler(&b, LogfmtFormat())))

	l.Info("fanned out")

	assert.Contains(t, a.String(), "fanned out")
	assert.Contains(t, b.String(), "fanned out")
}

func TestNormalizeHandlesOddContext(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(nil)
	l.SetHandler(StreamHandler(&buf, LogfmtFormat()))

	l.Info("odd", "onlykey")

	assert.True(t, strings.Contains(buf.String(), "avmlog_error"))
}

func TestJSONFormatIncludesReservedFields(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(nil)
	l.SetHandler(StreamHandler(&buf, JSONFormat()))

	l.Error("bad energy", "code", 7)

	out := buf.String()
	assert.Contains(t, out, `"msg":"bad energy"`)
	assert.Contains(t, out, `"code":7`)
}

func TestDiscardHandlerDropsEverything(t *testing.T) {
	l := newLogger(nil)
	l.SetHandler(DiscardHandler())
	l.Info("never seen", "k", "v")
	assert.Nil(t, l.GetHandler().Log(&Record{Lvl: LvlInfo, Msg: "direct"}))
}
