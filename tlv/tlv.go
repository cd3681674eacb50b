// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tlv implements the tag-length-value (TLV) layer of the Distinguished
// Encoding Rules (DER) as specified in [Rec. ITU-T X.690].
// See also “[A Layman's Guide to a Subset of ASN.1, BER, and DER]”.
//
// The package deals with the syntactic layer only: encoding and decoding of
// identifier octets (tags) and length octets, and a [Writer] that emits
// complete TLVs onto an [io.Writer]. The semantic layer (values, nesting,
// typed views) lives in [codello.dev/der].
//
// # Identifier Octets
//
// This package works on the raw flags of an identifier octet: the two class
// bits ([ClassUniversal], [ClassApplication], [ClassContextSpecific],
// [ClassPrivate]) and the [Constructed] bit. Tag numbers below 31 are encoded
// in the low five bits of the identifier octet. Larger numbers use the high tag
// number form: the low five bits are all set and the number follows as a
// base-128 integer, most significant group first.
//
// # Length Octets
//
// DER requires the definite form with the minimum number of octets. Lengths up
// to 127 use a single octet. Larger lengths use an initial octet 0x80|k,
// followed by k big-endian octets without leading zeros.
//
// # Limits
//
// The number of octets used for long lengths and high tag numbers is bounded by
// [Limits]. Exceeding a limit yields an [OverflowError] on both the encoding
// and the decoding side.
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
// [A Layman's Guide to a Subset of ASN.1, BER, and DER]: http://luca.ntop.org/Teaching/Appunti/asn1.html
package tlv

import (
	"math/bits"
	"strconv"
)

// Flags of the identifier octet. A flags byte is the bitwise OR of exactly one
// class and optionally [Constructed]. The low five bits of a flags byte must be
// zero.
const (
	ClassUniversal       byte = 0x00
	ClassApplication     byte = 0x40
	ClassContextSpecific byte = 0x80
	ClassPrivate         byte = 0xC0

	// Constructed marks a constructed encoding.
	Constructed byte = 0x20

	// ClassMask selects the class bits of a flags byte.
	ClassMask byte = 0xC0
)

// highTagNumber is the value of the low five bits of the identifier octet
// indicating the high tag number form.
const highTagNumber = 0x1f

// tagNull is the universal tag number of the NULL type.
const tagNull = 5

// Limits bounds the width of encoded lengths and tag numbers. A zero field
// imposes no restriction beyond what fits into an int (lengths) or a uint (tag
// numbers).
type Limits struct {
	// MaxLengthOctets is the maximum number of octets following the initial
	// octet of a long form length.
	MaxLengthOctets int

	// MaxTagOctets is the maximum number of base-128 octets following the
	// initial identifier octet of a high tag number.
	MaxTagOctets int
}

// DefaultLimits allows value lengths below 4 GiB and tag numbers below 2^28.
var DefaultLimits = Limits{MaxLengthOctets: 4, MaxTagOctets: 4}

// lengthOctets returns the effective maximum number of long form length octets.
func (l Limits) lengthOctets() int {
	const word = bits.UintSize / 8
	if l.MaxLengthOctets <= 0 || l.MaxLengthOctets > word {
		return word
	}
	return l.MaxLengthOctets
}

// tagOctets returns the effective maximum number of high tag number octets.
func (l Limits) tagOctets() int {
	const word = (bits.UintSize + 6) / 7
	if l.MaxTagOctets <= 0 || l.MaxTagOctets > word {
		return word
	}
	return l.MaxTagOctets
}

// Option configures a [Writer] or [Reader].
type Option func(*options)

type options struct {
	limits Limits
}

func applyOptions(opts []Option) options {
	o := options{limits: DefaultLimits}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLimits sets the limits applied to lengths and tag numbers.
func WithLimits(l Limits) Option {
	return func(o *options) { o.limits = l }
}

// Header represents the identifier and length octets of a TLV.
type Header struct {
	Flags  byte // class and constructed bits
	Number uint // tag number
	Length int  // number of content octets
}

// Constructed reports whether h uses the constructed encoding.
func (h Header) Constructed() bool {
	return h.Flags&Constructed != 0
}

// Size returns the number of octets needed to encode h.
func (h Header) Size() int {
	return TagSize(h.Number) + LengthSize(h.Length)
}

var classNames = [4]string{"UNIVERSAL", "APPLICATION", "CONTEXT", "PRIVATE"}

// String returns a string representation of h, for example
// "[UNIVERSAL 16]/c:42".
func (h Header) String() string {
	b := []byte{'['}
	b = append(b, classNames[h.Flags>>6]...)
	b = append(b, ' ')
	b = strconv.AppendUint(b, uint64(h.Number), 10)
	b = append(b, ']')
	if h.Constructed() {
		b = append(b, "/c:"...)
	} else {
		b = append(b, "/p:"...)
	}
	b = strconv.AppendInt(b, int64(h.Length), 10)
	return string(b)
}
