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
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Format renders one Record to bytes ready to write.
type Format interface {
	Format(r *Record) []byte
}

type formatFunc func(*Record) []byte

func (f formatFunc) Format(r *Record) []byte { return f(r) }

var levelColor = map[Lvl]*color.Color{
	LvlCrit:  color.New(color.FgMagenta, color.Bold),
	LvlError: color.New(color.FgRed),
	LvlWarn:  color.New(color.FgYellow),
	LvlInfo:  color.New(color.FgGreen),
	LvlDebug: color.New(color.FgCyan),
	LvlTrace: color.New(color.FgWhite),
}

// TerminalFormat renders a human-oriented single line per record,
// colorizing the level tag when useColor is set — the shape of the
// teacher's own TerminalFormat, used for cmd/avm's default stderr
// handler when attached to a tty.
func TerminalFormat(useColor bool) Format {
	return formatFunc(func(r *Record) []byte {
		var buf bytes.Buffer
		lvl := r.Lvl.String()
		if useColor {
			lvl = levelColor[r.Lvl].Sprint(lvl)
		}
		fmt.Fprintf(&buf, "%s[%s] %s", r.Time.Format("01-02|15:04:05.000"), lvl, r.Msg)
		writeContext(&buf, r.Ctx, useColor)
		buf.WriteByte('\n')
		return buf.Bytes()
	})
}

func writeContext(buf *bytes.Buffer, ctx []interface{}, useColor bool) {
	for i := 0; i < len(ctx); i += 2 {
		k := fmt.Sprint(ctx[i])
		v := formatValue(ctx[i+1])
		if useColor {
			k = color.New(color.FgBlue).Sprint(k)
		}
		fmt.Fprintf(buf, " %s=%s", k, v)
	}
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		if strings.ContainsAny(x, " \t\n\"=") {
			return strconv.Quote(x)
		}
		return x
	case error:
		return strconv.Quote(x.Error())
	case fmt.Stringer:
		return strconv.Quote(x.String())
	default:
		return fmt.Sprintf("%v", x)
	}
}

// LogfmtFormat renders key=value pairs with no color, the form the
// teacher uses for non-tty log files.
func LogfmtFormat() Format {
	return formatFunc(func(r *Record) []byte {
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "t=%s lvl=%s msg=%s", r.Time.Format("2006-01-02T15:04:05-0700"), r.Lvl.AlignedString(), strconv.Quote(r.Msg))
		writeContext(&buf, r.Ctx, false)
		buf.WriteByte('\n')
		return buf.Bytes()
	})
}

// JSONFormat renders one Record per line as a JSON object, the shape
// used for --log.json output.
func JSONFormat() Format {
	return formatFunc(func(r *Record) []byte {
		m := make(map[string]interface{}, 3+len(r.Ctx)/2)
		m[r.KeyNames.Time] = r.Time
		m[r.KeyNames.Lvl] = r.Lvl.AlignedString()
		m[r.KeyNames.Msg] = r.Msg
		for i := 0; i < len(r.Ctx); i += 2 {
			m[fmt.Sprint(r.Ctx[i])] = r.Ctx[i+1]
		}
		b, err := json.Marshal(m)
		if err != nil {
			b, _ = json.Marshal(map[string]string{"avmlog_error": err.Error()})
		}
		return append(b, '\n')
	})
}
