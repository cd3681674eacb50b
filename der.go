// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package der implements a minimal codec for the Distinguished Encoding Rules
// (DER) as defined in [Rec. ITU-T X.690]. It is built around a structural
// representation of ASN.1 data: every encoding is a tree of [Value] nodes,
// either a [*Primitive] (tag and content octets) or a [*Constructed] (tag and
// an ordered list of child values).
//
// # Encoding
//
// Domain types participate in encoding by implementing [Encodable]. The
// ToValue method of an Encodable produces the structural form of the value,
// which is then written by an [Encoder]. The content of a constructed value is
// the concatenation of the encodings of its elements, so nested structures need
// no special support:
//
//	type Pair struct {
//		Name  der.IA5String
//		Count der.Integer
//	}
//
//	func (p *Pair) ToValue() (der.Value, error) {
//		return der.NewSequence(p.Name, p.Count)
//	}
//
// A nil Encodable is encoded as ASN.1 NULL. The elements of a universal SET are
// written in ascending order of their encodings, as required by DER.
//
// # Decoding and Typed Views
//
// [Unmarshal] and [Decoder] turn DER bytes back into a [Value]. A typed view is
// a domain type that wraps a decoded SEQUENCE and exposes its elements through
// accessors. Views are created by a conversion function built on [FromValue]
// and [Field]. A view keeps the exact [*Constructed] it was created from and
// returns it from ToValue, so decoding and re-encoding a view always yields the
// original bytes.
//
// See the [codello.dev/der/mozilla] package for a complete example.
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
package der

import (
	"strconv"
	"strings"

	"codello.dev/der/tlv"
)

// Tag constitutes an ASN.1 tag, consisting of its class and number. For
// details, see Section 8 of Rec. ITU-T X.680.
type Tag struct {
	Class  Class
	Number uint
}

// Class holds the class part of an ASN.1 tag. The class acts as a namespace for
// the tag number. A Class value is an unsigned 2-bit integer. Class values
// whose value exceeds 2 bits are invalid.
//
//go:generate stringer -type=Class -trimprefix=Class
type Class uint8

// IsValid reports whether c is a valid Class value.
func (c Class) IsValid() bool {
	return c <= 3
}

// Predefined [Class] constants. These are all the possible values that can be
// encoded in the [Class] type.
const (
	ClassUniversal Class = iota
	ClassApplication
	ClassContextSpecific
	ClassPrivate
)

// Universal returns the tag with the given number in the [ClassUniversal]
// namespace.
func Universal(number uint) Tag {
	return Tag{ClassUniversal, number}
}

// String returns a string representation t in a format similar to the one used
// in ASN.1 notation. The tag number is enclosed by square brackets and prefixed
// with the class used. To avoid ambiguity the UNIVERSAL word is used for
// universal tags, although this is not valid ASN.1 syntax.
func (t Tag) String() string {
	if t.Class == ClassContextSpecific {
		return "[" + strconv.FormatUint(uint64(t.Number), 10) + "]"
	}
	return "[" + strings.ToUpper(t.Class.String()) + " " + strconv.FormatUint(uint64(t.Number), 10) + "]"
}

// Flags returns the class and constructed bits of the identifier octet for t,
// as used by the [tlv] package.
func (t Tag) Flags(constructed bool) byte {
	flags := byte(t.Class&3) << 6
	if constructed {
		flags |= tlv.Constructed
	}
	return flags
}

// tagOf returns the tag described by h.
func tagOf(h tlv.Header) Tag {
	return Tag{Class(h.Flags >> 6), h.Number}
}

// These are some ASN.1 tag numbers are defined in the [ClassUniversal]
// namespace. These assignments are defined in Rec. ITU-T X.680, Section 8, Table
// 1.
const (
	TagBoolean         uint = 1
	TagInteger         uint = 2
	TagBitString       uint = 3
	TagOctetString     uint = 4
	TagNull            uint = 5
	TagOID             uint = 6
	TagEnumerated      uint = 10
	TagUTF8String      uint = 12
	TagSequence        uint = 16
	TagSet             uint = 17
	TagPrintableString uint = 19
	TagIA5String       uint = 22
	TagUTCTime         uint = 23
	TagGeneralizedTime uint = 24
)

var (
	sequenceTag = Universal(TagSequence)
	setTag      = Universal(TagSet)
	nullTag     = Universal(TagNull)
)

// universalNames holds the ASN.1 type names of the universal tags used in
// diagnostics.
var universalNames = map[uint]string{
	TagBoolean:         "BOOLEAN",
	TagInteger:         "INTEGER",
	TagBitString:       "BIT STRING",
	TagOctetString:     "OCTET STRING",
	TagNull:            "NULL",
	TagOID:             "OBJECT IDENTIFIER",
	TagEnumerated:      "ENUMERATED",
	TagUTF8String:      "UTF8String",
	TagSequence:        "SEQUENCE",
	TagSet:             "SET",
	TagPrintableString: "PrintableString",
	TagIA5String:       "IA5String",
	TagUTCTime:         "UTCTime",
	TagGeneralizedTime: "GeneralizedTime",
}

// TypeName returns the ASN.1 name of the universal type identified by t, for
// example "SEQUENCE". For other tags it returns the empty string.
func (t Tag) TypeName() string {
	if t.Class != ClassUniversal {
		return ""
	}
	return universalNames[t.Number]
}
