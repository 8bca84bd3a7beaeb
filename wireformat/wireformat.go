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

// Package wireformat implements the fixed-width big-endian integer and
// length-prefixed UTF-8 string encodings mandated by spec section 6: wire
// integers are big-endian 1/2/4/8 byte and strings are length-prefixed
// UTF-8. Both the class-file codec and the reflection structure codec build
// on these primitives.
package wireformat

import (
	"encoding/binary"
	"errors"
)

// ErrTruncated is returned when a Reader runs out of bytes mid-value.
var ErrTruncated = errors.New("wireformat: truncated input")

// Writer accumulates a big-endian, length-prefixed byte stream.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer { return &Writer{} }

func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) WriteUint8(v uint8) { w.buf = append(w.buf, v) }

func (w *Writer) WriteUint16(v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *Writer) WriteUint32(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *Writer) WriteUint64(v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}

// WriteBytes writes a uint32 length prefix followed by the raw bytes.
func (w *Writer) WriteBytes(b []byte) {
	w.WriteUint32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

// WriteString writes a length-prefixed UTF-8 string.
func (w *Writer) WriteString(s string) { w.WriteBytes([]byte(s)) }

// Reader consumes a stream produced by Writer.
type Reader struct {
	buf []byte
	pos int
}

func NewReader(b []byte) *Reader { return &Reader{buf: b} }

func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

func (r *Reader) need(n int) error {
	if r.Remaining() < n {
		return ErrTruncated
	}
	return nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadUint8()
	return v != 0, err
}

func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if err := r.need(int(n)); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+int(n)])
	r.pos += int(n)
	return out, nil
}

func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// EncodeEnvironment renders the reserved 12-byte environment record: an
// 8-byte next-instance-id counter followed by a 4-byte next-hashcode
// counter (section 6).
func EncodeEnvironment(nextInstanceID uint64, nextHashCode int32) []byte {
	w := NewWriter()
	w.WriteUint64(nextInstanceID)
	w.WriteUint32(uint32(nextHashCode))
	return w.Bytes()
}

// DecodeEnvironment parses the 12-byte environment record written by
// EncodeEnvironment.
func DecodeEnvironment(b []byte) (nextInstanceID uint64, nextHashCode int32, err error) {
	if len(b) != 12 {
		return 0, 0, errors.New("wireformat: environment record must be 12 bytes")
	}
	r := NewReader(b)
	nextInstanceID, err = r.ReadUint64()
	if err != nil {
		return 0, 0, err
	}
	nh, err := r.ReadUint32()
	if err != nil {
		return 0, 0, err
	}
	return nextInstanceID, int32(nh), nil
}
