// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vlq implements [Variable-length quantity] encoding as used by DER for
// high tag numbers and object identifier arcs. A VLQ is a base-128
// representation of an unsigned integer, most significant group first, where
// the eighth bit of every octet except the last marks continuation.
//
// Only minimal encodings are produced and accepted. The number of octets a
// reader is willing to consume can be bounded, so that a hostile input cannot
// make a decoder spin on an endless run of continuation octets.
//
// [Variable-length quantity]: https://en.wikipedia.org/wiki/Variable-length_quantity
package vlq

import (
	"errors"
	"io"
	"math/bits"
	"unsafe"

	"golang.org/x/exp/constraints"
)

var (
	// ErrNotMinimal indicates a VLQ with a leading 0x80 octet.
	ErrNotMinimal = errors.New("vlq is not minimally encoded")
	// ErrOverflow indicates a VLQ whose value does not fit the target type.
	ErrOverflow = errors.New("vlq too large for target type")
	// ErrTooLong indicates a VLQ with more octets than the caller allows.
	ErrTooLong = errors.New("vlq exceeds maximum number of octets")
)

// Read parses a minimally encoded VLQ from r. The value is limited by the size
// of T. If maxOctets is positive, reading stops with [ErrTooLong] as soon as
// the VLQ turns out to be longer than maxOctets.
//
// Read will only read bytes belonging to the encoded VLQ. If r returns io.EOF
// on the first read, the returned error will be io.EOF as well.
func Read[T constraints.Unsigned](r io.ByteReader, maxOctets int) (ret T, err error) {
	b, err := r.ReadByte()
	if err != nil {
		// io.EOF stays io.EOF
		return 0, err
	}
	if b == 0x80 {
		return 0, ErrNotMinimal
	}

	ret = T(b & 0x7f)
	numBits := bits.Len8(b & 0x7f)
	n := 1

	for b&0x80 != 0 {
		if maxOctets > 0 && n >= maxOctets {
			return 0, ErrTooLong
		}
		if b, err = r.ReadByte(); err != nil {
			break
		}
		n++
		ret <<= 7
		ret |= T(b & 0x7f)
		numBits += 7
		if numBits > int(unsafe.Sizeof(ret)*8) {
			return 0, ErrOverflow
		}
	}
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return ret, err
}

// Size returns the number of bytes needed to encode n as a VLQ.
func Size[T constraints.Unsigned](n T) int {
	if n == 0 {
		return 1
	}
	return (bits.Len64(uint64(n)) + 6) / 7
}

// Append encodes n as a VLQ and appends it to dst.
func Append[T constraints.Unsigned](dst []byte, n T) []byte {
	for j := Size(n) - 1; j >= 0; j-- {
		b := byte(uint64(n)>>(j*7)) & 0x7f
		if j > 0 {
			b |= 0x80
		}
		dst = append(dst, b)
	}
	return dst
}
