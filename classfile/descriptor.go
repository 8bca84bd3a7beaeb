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

package classfile

import (
	"errors"
	"strings"
)

// ErrMalformedDescriptor is returned by RewriteDescriptor
// when the input does not match the grammar described in spec section
// 4.1: primitive letters, 'L...;' references, '[' array prefixes, and
// '(...)R' method signatures.
var ErrMalformedDescriptor = errors.New("classfile: malformed descriptor")

const primitiveLetters = "BCDFIJSZV"

// RewriteDescriptor walks d token by token and rewrites every reference
// type name with rename, leaving primitives, array prefixes and method
// signature punctuation untouched (spec section 4.1). It is total over
// both field descriptors ("Lfoo/Bar;", "[I", ...) and method descriptors
// ("(Lfoo/Bar;I)Lbaz/Qux;").
func RewriteDescriptor(d string, rename func(internalName string) string) (string, error) {
	var out strings.Builder
	i := 0
	n := len(d)
	for i < n {
		c := d[i]
		switch {
		case c == '(' || c == ')':
			out.WriteByte(c)
			i++
		case c == '[':
			out.WriteByte(c)
			i++
		case c == 'L':
			end := strings.IndexByte(d[i:], ';')
			if end < 0 {
				return "", ErrMalformedDescriptor
			}
			name := d[i+1 : i+end]
			out.WriteByte('L')
			out.WriteString(rename(name))
			out.WriteByte(';')
			i += end + 1
		case strings.IndexByte(primitiveLetters, c) >= 0:
			out.WriteByte(c)
			i++
		default:
			return "", ErrMalformedDescriptor
		}
	}
	return out.String(), nil
}

// IdempotentOnRewrite reports whether applying rewrite twice to d yields
// the same result as applying it once, the property required of the
// type-name mapper by spec section 8 ("descriptor rewrite correctness").
func IdempotentOnRewrite(d string, rewrite func(string) (string, error)) (bool, error) {
	once, err := rewrite(d)
	if err != nil {
		return false, err
	}
	twice, err := rewrite(once)
	if err != nil {
		return false, err
	}
	return once == twice, nil
}
