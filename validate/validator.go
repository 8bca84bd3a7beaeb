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

// Package validate rejects disallowed opcodes, reserved package names,
// native methods and malformed class files before a DApp ever reaches
// the transformation chain (spec section 4.5/2), mirroring the
// sentinel-error style of core/vm/errors.go and the ancestor-walk shape
// of core/block_validator.go.
package validate

import (
	"fmt"
	"strings"

	"github.com/core-coin/go-avm/classfile"
)

// Options configures what the validator rejects; the zero value uses
// Default.
type Options struct {
	DisallowedOpcodes map[classfile.OpCode]bool
	ReservedPrefixes  []string
}

// Default returns the options a production deployment would use: no
// method handles or dynamic invocation (section 4.1's fatal edge cases
// are rejected even earlier, at validation time, so malformed DApps never
// reach the costlier transform passes), and user code may not declare
// classes inside the shadow runtime's own reserved namespace.
func Default() Options {
	return Options{
		DisallowedOpcodes: map[classfile.OpCode]bool{
			classfile.INVOKEDYNAMIC: true,
			classfile.INVOKEHANDLE:  true,
			classfile.ARRAYSORT:     true,
		},
		ReservedPrefixes: []string{"shadow/", "avm/"},
	}
}

// Error reports one validation failure with enough context to diagnose
// it without a debugger attached.
type Error struct {
	Class  string
	Method string
	Reason string
}

func (e *Error) Error() string {
	if e.Method != "" {
		return fmt.Sprintf("validate: %s.%s: %s", e.Class, e.Method, e.Reason)
	}
	return fmt.Sprintf("validate: %s: %s", e.Class, e.Reason)
}

// Validate checks one class file against opts, returning the first
// violation found.
func Validate(c *classfile.ClassFile, opts Options) error {
	if opts.DisallowedOpcodes == nil && opts.ReservedPrefixes == nil {
		opts = Default()
	}
	if c.Name == "" {
		return &Error{Class: "<unnamed>", Reason: "class file has no name"}
	}
	for _, prefix := range opts.ReservedPrefixes {
		if strings.HasPrefix(c.Name, prefix) {
			return &Error{Class: c.Name, Reason: fmt.Sprintf("declares into reserved namespace %q", prefix)}
		}
	}
	seenFields := map[string]bool{}
	for _, f := range c.Fields {
		key := f.Name + " " + f.Descriptor
		if seenFields[key] {
			return &Error{Class: c.Name, Reason: fmt.Sprintf("duplicate field %s %s", f.Name, f.Descriptor)}
		}
		seenFields[key] = true
	}
	seenMethods := map[string]bool{}
	for _, m := range c.Methods {
		key := m.Name + m.Descriptor
		if seenMethods[key] {
			return &Error{Class: c.Name, Method: m.Name, Reason: "duplicate method signature"}
		}
		seenMethods[key] = true

		if m.IsNative {
			return &Error{Class: c.Name, Method: m.Name, Reason: "native methods are not permitted"}
		}
		for _, ins := range m.Code {
			if opts.DisallowedOpcodes[ins.Op] {
				return &Error{Class: c.Name, Method: m.Name, Reason: fmt.Sprintf("disallowed opcode %s", ins.Op)}
			}
		}
		for _, h := range m.Handlers {
			if h.StartPC < 0 || h.EndPC > len(m.Code) || h.StartPC >= h.EndPC || h.HandlerPC < 0 || h.HandlerPC >= len(m.Code) {
				return &Error{Class: c.Name, Method: m.Name, Reason: "malformed exception handler range"}
			}
		}
	}
	return nil
}

// ValidateAll validates every class in the set, returning the first
// violation found across the whole DApp.
func ValidateAll(classes map[string]*classfile.ClassFile, opts Options) error {
	for _, c := range classes {
		if err := Validate(c, opts); err != nil {
			return err
		}
	}
	return nil
}
