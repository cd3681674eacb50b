// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"bytes"
	"math"
	"slices"
	"strconv"
	"strings"

	"codello.dev/der/internal/vlq"
)

// universalPrimitive returns e as a primitive value with the given universal
// tag number. Any other value results in a [*TypeMismatchError] for typ.
func universalPrimitive(e Encodable, typ string, number uint) (*Primitive, error) {
	p, ok := e.(*Primitive)
	if !ok || p == nil || p.tag != Universal(number) {
		return nil, &TypeMismatchError{Type: typ, Got: describe(e)}
	}
	return p, nil
}

//region [UNIVERSAL 2] INTEGER

// Integer implements the ASN.1 INTEGER type for values that fit into an int64.
type Integer int64

// ToValue returns the minimal two's complement encoding of i.
func (i Integer) ToValue() (Value, error) {
	n := int64(i)
	l := 1
	for v := n; v > 127 || v < -128; v >>= 8 {
		l++
	}
	content := make([]byte, l)
	for j := range content {
		content[j] = byte(n >> (8 * (l - 1 - j)))
	}
	return &Primitive{tag: Universal(TagInteger), content: content}, nil
}

// IntegerFrom converts e into an [Integer].
func IntegerFrom(e Encodable) (Integer, error) {
	if i, ok := e.(Integer); ok {
		return i, nil
	}
	p, err := universalPrimitive(e, "INTEGER", TagInteger)
	if err != nil {
		return 0, err
	}
	c := p.content
	switch {
	case len(c) == 0:
		return 0, errInvalidInteger
	case len(c) > 1 && (c[0] == 0x00 && c[1]&0x80 == 0 || c[0] == 0xff && c[1]&0x80 != 0):
		return 0, errInvalidInteger
	case len(c) > 8:
		return 0, errIntegerTooLarge
	}
	var n int64
	for _, b := range c {
		n = n<<8 | int64(b)
	}
	// sign extension
	shift := 64 - 8*len(c)
	return Integer(n << shift >> shift), nil
}

//endregion

//region [UNIVERSAL 3] BIT STRING

// BitString implements the ASN.1 BIT STRING type. A bit string is padded up to
// the nearest byte in memory and the number of valid bits is recorded. Padding
// bits will be encoded as zero bits.
//
// See also section 22 of Rec. ITU-T X.680.
type BitString struct {
	Bytes     []byte // bits packed into bytes.
	BitLength int    // length in bits.
}

// IsValid reports whether there are enough bytes in s for the indicated
// BitLength.
func (s BitString) IsValid() bool {
	return s.BitLength >= 0 && len(s.Bytes) >= (s.BitLength+8-1)/8
}

// Len returns the number of bits in s.
func (s BitString) Len() int {
	return s.BitLength
}

// At returns the bit at the given index. If the index is out of range At panics.
func (s BitString) At(i int) int {
	if i < 0 || i >= s.BitLength {
		panic("index out of range")
	}
	x := i / 8
	y := 7 - uint(i%8)
	return int(s.Bytes[x]>>y) & 1
}

// String formats s into a readable binary representation. Bits will be grouped
// into bytes. The last group may have fewer than 8 characters. An invalid s
// yields the empty string.
func (s BitString) String() string {
	if !s.IsValid() {
		return ""
	}
	var sb strings.Builder
	sb.Grow(s.BitLength + s.BitLength/8)
	for i := range s.BitLength {
		if i > 0 && i%8 == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('0' + byte(s.At(i)))
	}
	return sb.String()
}

// ToValue returns the DER encoding of s. Padding bits are cleared.
func (s BitString) ToValue() (Value, error) {
	if !s.IsValid() {
		return nil, errInvalidBitString
	}
	n := (s.BitLength + 7) / 8
	pad := byte(n*8 - s.BitLength)
	content := make([]byte, 1+n)
	content[0] = pad
	copy(content[1:], s.Bytes[:n])
	if n > 0 {
		content[n] &= 0xff << pad
	}
	return &Primitive{tag: Universal(TagBitString), content: content}, nil
}

// BitStringFrom converts e into a [BitString]. The returned bytes do not share
// memory with e.
func BitStringFrom(e Encodable) (BitString, error) {
	if s, ok := e.(BitString); ok {
		return s, nil
	}
	p, err := universalPrimitive(e, "BIT STRING", TagBitString)
	if err != nil {
		return BitString{}, err
	}
	c := p.content
	if len(c) == 0 || c[0] > 7 || (len(c) == 1 && c[0] != 0) {
		return BitString{}, errInvalidBitString
	}
	pad := c[0]
	if len(c) > 1 && c[len(c)-1]&(1<<pad-1) != 0 {
		return BitString{}, errInvalidBitString
	}
	return BitString{
		Bytes:     slices.Clone(c[1:]),
		BitLength: (len(c)-1)*8 - int(pad),
	}, nil
}

//endregion

//region [UNIVERSAL 4] OCTET STRING

// OctetString implements the ASN.1 OCTET STRING type.
type OctetString []byte

// ToValue returns the DER encoding of s.
func (s OctetString) ToValue() (Value, error) {
	return NewPrimitive(Universal(TagOctetString), s), nil
}

// OctetStringFrom converts e into an [OctetString]. The returned bytes do not
// share memory with e.
func OctetStringFrom(e Encodable) (OctetString, error) {
	if s, ok := e.(OctetString); ok {
		return s, nil
	}
	p, err := universalPrimitive(e, "OCTET STRING", TagOctetString)
	if err != nil {
		return nil, err
	}
	return slices.Clone(p.content), nil
}

//endregion

//region [UNIVERSAL 5] NULL

// Null represents the ASN.1 NULL type. If your data structure contains fixed
// NULL elements this type offers a convenient way to indicate their presence.
//
// See also section 24 of Rec. ITU-T X.680.
type Null struct{}

// ToValue returns the structural form of NULL.
func (Null) ToValue() (Value, error) {
	return null, nil
}

// NullFrom converts e into a [Null]. A nil e is accepted as well.
func NullFrom(e Encodable) (Null, error) {
	if e == nil {
		return Null{}, nil
	}
	if n, ok := e.(Null); ok {
		return n, nil
	}
	if p, ok := e.(*Primitive); ok && p != nil && p.IsNull() {
		return Null{}, nil
	}
	return Null{}, &TypeMismatchError{Type: "NULL", Got: describe(e)}
}

//endregion

//region [UNIVERSAL 6] OBJECT IDENTIFIER

// An ObjectIdentifier represents an ASN.1 OBJECT IDENTIFIER. The semantics of an object identifier are specified in [Rec. ITU-T X.660].
//
// See also section 32 of Rec. ITU-T X.680.
//
// [Rec. ITU-T X.660]: https://www.itu.int/rec/T-REC-X.660
type ObjectIdentifier []uint

// Equal reports whether oid and other represent the same identifier.
func (oid ObjectIdentifier) Equal(other ObjectIdentifier) bool {
	return slices.Equal(oid, other)
}

// String returns the dot-separated notation of oid.
func (oid ObjectIdentifier) String() string {
	var s strings.Builder
	s.Grow(32)

	buf := make([]byte, 0, 19)
	for i, v := range oid {
		if i > 0 {
			s.WriteByte('.')
		}
		s.Write(strconv.AppendUint(buf, uint64(v), 10))
	}

	return s.String()
}

// IsValid reports whether oid can be encoded. An object identifier needs at
// least two arcs, the first arc must be 0, 1 or 2 and the second arc must be
// below 40 unless the first arc is 2.
func (oid ObjectIdentifier) IsValid() bool {
	if len(oid) < 2 || oid[0] > 2 {
		return false
	}
	if oid[0] < 2 {
		return oid[1] < 40
	}
	return oid[1] <= math.MaxUint-80
}

// ToValue returns the DER encoding of oid.
func (oid ObjectIdentifier) ToValue() (Value, error) {
	if !oid.IsValid() {
		return nil, errInvalidOID
	}
	content := vlq.Append(make([]byte, 0, len(oid)+4), oid[0]*40+oid[1])
	for _, arc := range oid[2:] {
		content = vlq.Append(content, arc)
	}
	return &Primitive{tag: Universal(TagOID), content: content}, nil
}

// ObjectIdentifierFrom converts e into an [ObjectIdentifier].
func ObjectIdentifierFrom(e Encodable) (ObjectIdentifier, error) {
	if oid, ok := e.(ObjectIdentifier); ok {
		return oid, nil
	}
	p, err := universalPrimitive(e, "OBJECT IDENTIFIER", TagOID)
	if err != nil {
		return nil, err
	}
	if len(p.content) == 0 {
		return nil, errInvalidOID
	}
	r := bytes.NewReader(p.content)
	oid := make(ObjectIdentifier, 1, 8)
	for r.Len() > 0 {
		arc, err := vlq.Read[uint](r, 0)
		if err != nil {
			return nil, errInvalidOID
		}
		oid = append(oid, arc)
	}
	// split the first subidentifier into the first two arcs
	switch first := oid[1]; {
	case first < 40:
		oid[0], oid[1] = 0, first
	case first < 80:
		oid[0], oid[1] = 1, first-40
	default:
		oid[0], oid[1] = 2, first-80
	}
	return oid, nil
}

//endregion

//region [UNIVERSAL 22] IA5String

// IA5String represents the ASN.1 IA5String type. An IA5String can only contain
// ASCII characters.
//
// See also section 41 of Rec. ITU-T X.680.
type IA5String string

// IsValid reports whether s only contains ASCII characters.
func (s IA5String) IsValid() bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}

// ToValue returns the DER encoding of s.
func (s IA5String) ToValue() (Value, error) {
	if !s.IsValid() {
		return nil, errInvalidIA5String
	}
	return &Primitive{tag: Universal(TagIA5String), content: []byte(s)}, nil
}

// IA5StringFrom converts e into an [IA5String].
func IA5StringFrom(e Encodable) (IA5String, error) {
	if s, ok := e.(IA5String); ok {
		return s, nil
	}
	p, err := universalPrimitive(e, "IA5String", TagIA5String)
	if err != nil {
		return "", err
	}
	s := IA5String(p.content)
	if !s.IsValid() {
		return "", errInvalidIA5String
	}
	return s, nil
}

//endregion
