// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"bytes"
	"io"

	"codello.dev/der/tlv"
)

// DefaultMaxDepth is the default nesting limit of a [Decoder].
const DefaultMaxDepth = 64

// DecodeOption configures a [Decoder].
type DecodeOption func(*Decoder)

// WithDecodeLimits sets the limits applied to lengths and tag numbers.
func WithDecodeLimits(l tlv.Limits) DecodeOption {
	return func(d *Decoder) { d.limits = l }
}

// WithMaxDepth sets the maximum nesting depth of constructed values. The
// top-level value has depth 0. Non-positive values restore [DefaultMaxDepth].
func WithMaxDepth(n int) DecodeOption {
	return func(d *Decoder) {
		if n <= 0 {
			n = DefaultMaxDepth
		}
		d.maxDepth = n
	}
}

// A Decoder reads DER encoded values from an input stream. The decoder only
// accepts the definite, minimal encodings required by DER. Malformed input is
// reported as a [*tlv.SyntaxError] carrying the offset of the TLV header that
// contains the error.
//
// A Decoder must not be used concurrently.
type Decoder struct {
	r        *tlv.Reader
	limits   tlv.Limits
	maxDepth int
}

// NewDecoder returns a new [Decoder] reading from r. If r does not implement
// [io.ByteReader], the decoder may read data from r beyond the values it
// returns.
func NewDecoder(r io.Reader, opts ...DecodeOption) *Decoder {
	d := &Decoder{limits: tlv.DefaultLimits, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(d)
	}
	d.r = tlv.NewReader(r, tlv.WithLimits(d.limits))
	return d
}

// InputOffset returns the number of bytes consumed from the input so far.
func (d *Decoder) InputOffset() int64 { return d.r.Offset() }

// Decode reads the next top-level value from the input. At the end of the input
// Decode returns io.EOF.
func (d *Decoder) Decode() (Value, error) {
	return d.decode(0, -1)
}

// Unmarshal parses the DER encoded data b. The data must contain exactly one
// value.
func Unmarshal(b []byte, opts ...DecodeOption) (Value, error) {
	d := NewDecoder(bytes.NewReader(b), opts...)
	v, err := d.Decode()
	if err == io.EOF {
		return nil, &tlv.SyntaxError{Err: io.ErrUnexpectedEOF}
	} else if err != nil {
		return nil, err
	}
	if off := d.InputOffset(); off != int64(len(b)) {
		return nil, &tlv.SyntaxError{Err: errTrailingData, ByteOffset: off}
	}
	return v, nil
}

// decode reads a single TLV at the given nesting depth. If remaining is not
// negative, the TLV must fit into the next remaining bytes.
func (d *Decoder) decode(depth int, remaining int64) (Value, error) {
	start := d.r.Offset()
	h, err := d.r.ReadHeader()
	if err != nil {
		return nil, err
	}
	synErr := func(err error) error {
		return &tlv.SyntaxError{Err: err, ByteOffset: start, Header: h}
	}
	size := d.r.Offset() - start + int64(h.Length)
	if remaining >= 0 && size > remaining {
		return nil, synErr(errExceedsParent)
	}
	tag := tagOf(h)

	if !h.Constructed() {
		switch {
		case tag == sequenceTag || tag == setTag:
			return nil, synErr(errPrimitiveStruct)
		case tag == nullTag && h.Length != 0:
			return nil, synErr(errNullContent)
		}
		if tag == nullTag {
			return null, nil
		}
		content, err := d.r.ReadContent(h, h.Length)
		if err != nil {
			return nil, err
		}
		return &Primitive{tag: tag, content: content}, nil
	}

	if tag == nullTag {
		return nil, synErr(errConstructedNull)
	}
	if depth >= d.maxDepth {
		return nil, synErr(errMaxDepth)
	}
	end := d.r.Offset() + int64(h.Length)
	var elems []Value
	var prev, curr bytes.Buffer // encodings of SET elements
	for d.r.Offset() < end {
		el, err := d.decode(depth+1, end-d.r.Offset())
		if err == io.EOF {
			return nil, synErr(io.ErrUnexpectedEOF)
		} else if err != nil {
			return nil, err
		}
		if tag == setTag {
			curr.Reset()
			if err = el.encode(tlv.NewWriter(&curr, tlv.WithLimits(d.limits))); err != nil {
				return nil, err
			}
			if len(elems) > 0 && bytes.Compare(prev.Bytes(), curr.Bytes()) > 0 {
				return nil, synErr(errUnsortedSet)
			}
			prev, curr = curr, prev
		}
		elems = append(elems, el)
	}
	return &Constructed{tag: tag, elems: elems, size: h.Length}, nil
}
