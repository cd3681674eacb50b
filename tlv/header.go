// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlv

import (
	"errors"
	"io"
	"math"
	"math/bits"

	"codello.dev/der/internal/vlq"
)

//region length octets

// LengthSize returns the number of octets needed to encode the length n.
// LengthSize returns 0 if n is negative.
func LengthSize(n int) int {
	switch {
	case n < 0:
		return 0
	case n < 0x80:
		return 1
	default:
		return 1 + (bits.Len(uint(n))+7)/8
	}
}

// AppendLength appends the DER length octets of n to dst using [DefaultLimits].
func AppendLength(dst []byte, n int) ([]byte, error) {
	return DefaultLimits.AppendLength(dst, n)
}

// AppendLength appends the DER length octets of n to dst. Lengths up to 127 use
// the short form. Longer lengths use the long form with the minimum number of
// octets. If that number exceeds l.MaxLengthOctets, an [OverflowError] is
// returned and dst is returned unchanged.
func (l Limits) AppendLength(dst []byte, n int) ([]byte, error) {
	if n < 0 {
		return dst, ErrNegativeLength
	}
	if n < 0x80 {
		return append(dst, byte(n)), nil
	}
	numBytes := (bits.Len(uint(n)) + 7) / 8
	if numBytes > l.lengthOctets() {
		return dst, &OverflowError{What: "length", Limit: l.lengthOctets()}
	}
	dst = append(dst, 0x80|byte(numBytes))
	for ; numBytes > 0; numBytes-- {
		dst = append(dst, byte(n>>uint((numBytes-1)*8)))
	}
	return dst, nil
}

// ReadLength parses DER length octets from r. The indefinite form, the
// reserved octet 0xFF and non-minimal encodings are rejected. A long form
// announcing more octets than l.MaxLengthOctets is rejected with an
// [OverflowError] before any of these octets are read.
//
// If r returns io.EOF, ReadLength returns io.ErrUnexpectedEOF since length
// octets never start a TLV.
func (l Limits) ReadLength(r io.ByteReader) (int, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, noEOF(err)
	}
	switch {
	case b < 0x80:
		return int(b), nil
	case b == 0x80:
		return 0, errIndefiniteLength
	case b == 0xFF:
		return 0, errReservedLength
	}

	numBytes := int(b & 0x7f)
	if numBytes > l.lengthOctets() {
		return 0, &OverflowError{What: "length", Limit: l.lengthOctets()}
	}
	var n uint64
	for i := 0; i < numBytes; i++ {
		if b, err = r.ReadByte(); err != nil {
			return 0, noEOF(err)
		}
		if i == 0 && b == 0 {
			return 0, errNonMinimalLength
		}
		n = n<<8 | uint64(b)
	}
	if n < 0x80 {
		return 0, errNonMinimalLength
	}
	if n > math.MaxInt {
		return 0, &OverflowError{What: "length", Limit: l.lengthOctets()}
	}
	return int(n), nil
}

//endregion

//region identifier octets

// TagSize returns the number of identifier octets needed for tag number n.
func TagSize(n uint) int {
	if n < highTagNumber {
		return 1
	}
	return 1 + vlq.Size(n)
}

// AppendTag appends the identifier octets for flags and number to dst using
// [DefaultLimits].
func AppendTag(dst []byte, flags byte, number uint) ([]byte, error) {
	return DefaultLimits.AppendTag(dst, flags, number)
}

// AppendTag appends the identifier octets for flags and number to dst. Tag
// numbers below 31 are encoded into the initial octet. Larger numbers use the
// high tag number form. If the high tag number needs more than
// l.MaxTagOctets octets, an [OverflowError] is returned and dst is returned
// unchanged.
func (l Limits) AppendTag(dst []byte, flags byte, number uint) ([]byte, error) {
	if flags&highTagNumber != 0 {
		return dst, ErrInvalidFlags
	}
	if number < highTagNumber {
		return append(dst, flags|byte(number)), nil
	}
	if vlq.Size(number) > l.tagOctets() {
		return dst, &OverflowError{What: "tag number", Limit: l.tagOctets()}
	}
	dst = append(dst, flags|highTagNumber)
	return vlq.Append(dst, number), nil
}

// ReadTag parses DER identifier octets from r and returns the flags (class and
// constructed bits) and tag number. The high tag number form must be minimal
// and must not be used for numbers below 31.
//
// If r returns io.EOF on the first read, the returned error is io.EOF as well.
func (l Limits) ReadTag(r io.ByteReader) (flags byte, number uint, err error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	flags = b &^ highTagNumber
	if b&highTagNumber != highTagNumber {
		return flags, uint(b & highTagNumber), nil
	}

	number, err = vlq.Read[uint](r, l.tagOctets())
	switch {
	case err == nil:
	case errors.Is(err, vlq.ErrNotMinimal):
		return flags, 0, errNonMinimalTag
	case errors.Is(err, vlq.ErrTooLong), errors.Is(err, vlq.ErrOverflow):
		return flags, 0, &OverflowError{What: "tag number", Limit: l.tagOctets()}
	default:
		return flags, 0, noEOF(err)
	}
	if number < highTagNumber {
		return flags, 0, errNonMinimalTag
	}
	return flags, number, nil
}

//endregion

// AppendHeader appends the identifier and length octets of h to dst.
func (l Limits) AppendHeader(dst []byte, h Header) ([]byte, error) {
	dst, err := l.AppendTag(dst, h.Flags, h.Number)
	if err != nil {
		return dst, err
	}
	n := len(dst)
	dst, err = l.AppendLength(dst, h.Length)
	if err != nil {
		// drop the identifier octets again
		return dst[:n-TagSize(h.Number)], err
	}
	return dst, nil
}

// ReadHeader parses the identifier and length octets of the next TLV from r.
//
// If r returns io.EOF before the first octet, the returned error is io.EOF. If
// r produces a valid header, ReadHeader does not read any bytes past it.
func (l Limits) ReadHeader(r io.ByteReader) (h Header, err error) {
	if h.Flags, h.Number, err = l.ReadTag(r); err != nil {
		return h, err
	}
	h.Length, err = l.ReadLength(r)
	return h, err
}
