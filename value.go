// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"iter"
	"slices"

	"codello.dev/der/tlv"
)

// Encodable is implemented by types that can produce their DER structure. The
// ToValue method must return the same structure every time it is called on an
// unchanged receiver. A nil Value returned without an error is encoded as NULL.
type Encodable interface {
	ToValue() (Value, error)
}

// Kind identifies the variant of a [Value].
//
//go:generate stringer -type=Kind -trimprefix=Kind
type Kind uint8

// Possible values of [Kind].
const (
	KindPrimitive Kind = iota + 1
	KindConstructed
)

// Value is the structural form of a DER encoding. The only implementations are
// [*Primitive] and [*Constructed]. Values are immutable and may be shared
// between goroutines.
type Value interface {
	Encodable

	// Kind reports whether the value is primitive or constructed.
	Kind() Kind

	// Tag returns the tag of the value.
	Tag() Tag

	// EncodedLen returns the number of octets of the complete TLV.
	EncodedLen() int

	// encode writes the TLV of the value to w.
	encode(w *tlv.Writer) error
}

//region Primitive

// Primitive is a leaf of a DER structure: a tag and its content octets.
type Primitive struct {
	tag     Tag
	content []byte
}

// null is the structural form of an ASN.1 NULL.
var null = &Primitive{tag: nullTag}

// NewPrimitive returns a primitive value with the given tag. The content is
// copied.
func NewPrimitive(tag Tag, content []byte) *Primitive {
	if tag == nullTag && len(content) == 0 {
		return null
	}
	return &Primitive{tag: tag, content: slices.Clone(content)}
}

// ToValue returns p. A nil *Primitive yields NULL.
func (p *Primitive) ToValue() (Value, error) {
	if p == nil {
		return null, nil
	}
	return p, nil
}

func (p *Primitive) Kind() Kind { return KindPrimitive }
func (p *Primitive) Tag() Tag   { return p.tag }

// Bytes returns the content octets of p. The returned slice must not be
// modified.
func (p *Primitive) Bytes() []byte { return p.content }

// IsNull reports whether p is an ASN.1 NULL.
func (p *Primitive) IsNull() bool {
	return p.tag == nullTag && len(p.content) == 0
}

func (p *Primitive) EncodedLen() int {
	return tlv.TagSize(p.tag.Number) + tlv.LengthSize(len(p.content)) + len(p.content)
}

func (p *Primitive) encode(w *tlv.Writer) error {
	if p.IsNull() {
		return w.WriteNull()
	}
	return w.WriteTagged(p.tag.Flags(false), p.tag.Number, p.content)
}

//endregion

//region Constructed

// Constructed is an inner node of a DER structure: a tag and an ordered list
// of elements.
type Constructed struct {
	tag   Tag
	elems []Value
	size  int // length of the content octets
}

// NewConstructed returns a constructed value with the given tag and elements.
// The elems slice is copied. Nil elements, including nil *Primitive and
// *Constructed values, are replaced by NULL.
func NewConstructed(tag Tag, elems ...Value) *Constructed {
	c := &Constructed{tag: tag, elems: make([]Value, len(elems))}
	for i, el := range elems {
		if el == nil || isNilValue(el) {
			el = null
		}
		c.elems[i] = el
		c.size += el.EncodedLen()
	}
	return c
}

// NewSequence returns a universal SEQUENCE holding the structural forms of
// elems, in order. Nil elements are encoded as NULL.
func NewSequence(elems ...Encodable) (*Constructed, error) {
	return newFromEncodables(sequenceTag, elems)
}

// NewSet returns a universal SET holding the structural forms of elems. The
// elements are written in canonical DER order regardless of their order here.
func NewSet(elems ...Encodable) (*Constructed, error) {
	return newFromEncodables(setTag, elems)
}

func newFromEncodables(tag Tag, elems []Encodable) (*Constructed, error) {
	vals := make([]Value, len(elems))
	for i, e := range elems {
		v, err := toValue(e)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return NewConstructed(tag, vals...), nil
}

// ToValue returns c. A nil *Constructed yields NULL.
func (c *Constructed) ToValue() (Value, error) {
	if c == nil {
		return null, nil
	}
	return c, nil
}

func (c *Constructed) Kind() Kind { return KindConstructed }
func (c *Constructed) Tag() Tag   { return c.tag }

// Len returns the number of elements of c.
func (c *Constructed) Len() int { return len(c.elems) }

// At returns the i-th element of c. At panics if i is out of range.
func (c *Constructed) At(i int) Value { return c.elems[i] }

// All returns an iterator over the indexes and elements of c.
func (c *Constructed) All() iter.Seq2[int, Value] {
	return slices.All(c.elems)
}

func (c *Constructed) EncodedLen() int {
	return tlv.TagSize(c.tag.Number) + tlv.LengthSize(c.size) + c.size
}

func (c *Constructed) encode(w *tlv.Writer) error {
	content, err := c.content(w.Limits())
	if err != nil {
		return err
	}
	return w.WriteTagged(c.tag.Flags(true), c.tag.Number, content)
}

//endregion

// toValue returns the structural form of e. A nil e or a nil Value yields
// NULL.
func toValue(e Encodable) (Value, error) {
	if e == nil {
		return null, nil
	}
	v, err := e.ToValue()
	if err != nil {
		return nil, &EncodeError{Type: typeName(e), Err: err}
	}
	if v == nil {
		return null, nil
	}
	return v, nil
}
