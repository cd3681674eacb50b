// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlv

import (
	"errors"
	"io"
	"strconv"
)

var (
	// ErrOverflow is matched by every [OverflowError].
	ErrOverflow = errors.New("tlv: encoding overflow")

	// ErrNegativeLength is returned when encoding a negative length.
	ErrNegativeLength = errors.New("tlv: negative length")

	// ErrInvalidFlags is returned when a flags byte has any of its low five bits
	// set.
	ErrInvalidFlags = errors.New("tlv: invalid identifier flags")

	// ErrRange is returned when a value sub-range lies outside of its buffer.
	ErrRange = errors.New("tlv: value range out of bounds")

	errEmptyTag         = errors.New("tlv: empty identifier octets")
	errIndefiniteLength = errors.New("indefinite length")
	errReservedLength   = errors.New("reserved length octet 0xFF")
	errNonMinimalLength = errors.New("length is not minimally encoded")
	errNonMinimalTag    = errors.New("tag number is not minimally encoded")
)

// OverflowError indicates that a length or tag number does not fit into the
// number of octets permitted by [Limits].
type OverflowError struct {
	What  string // "length" or "tag number"
	Limit int    // permitted number of octets
}

func (e *OverflowError) Error() string {
	return "tlv: " + e.What + " exceeds " + strconv.Itoa(e.Limit) + " octets"
}

// Is makes errors.Is(err, ErrOverflow) match any OverflowError.
func (e *OverflowError) Is(target error) bool {
	return target == ErrOverflow
}

// ioError represents an error that occurred when reading from or writing to an
// underlying data stream.
type ioError struct {
	action string // either "read" or "write"
	err    error
}

func (e *ioError) Unwrap() error { return e.err }
func (e *ioError) Error() string { return "tlv: " + e.action + " error: " + e.err.Error() }

// IsIOError reports whether err originates from the underlying reader or
// writer rather than from the encoding itself.
func IsIOError(err error) bool {
	var e *ioError
	return errors.As(err, &e)
}

// SyntaxError represents an error in the DER encoding. The error value contains
// the location of the error within the input.
type SyntaxError struct {
	Err error // underlying error

	// ByteOffset is the location of the error. The location is the start of the
	// TLV header containing the error.
	ByteOffset int64

	// Header is the header of the TLV that contained the malformed data, if it
	// could be decoded.
	Header Header
}

func (e *SyntaxError) Unwrap() error { return e.Err }
func (e *SyntaxError) Error() string {
	b := []byte("tlv: syntax error")
	if e.Header != (Header{}) {
		b = append(b, " within "...)
		b = append(b, e.Header.String()...)
	}
	b = strconv.AppendInt(append(b, " at offset "...), e.ByteOffset, 10)
	if e.Err != nil {
		b = append(b, ": "...)
		b = append(b, e.Err.Error()...)
	}
	return string(b)
}

// noEOF returns err, unless err == io.EOF, in which case it returns io.ErrUnexpectedEOF.
func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
