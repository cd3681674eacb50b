// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"bytes"
	"io"
	"slices"

	"codello.dev/der/tlv"
)

// An Encoder writes DER encoded values to an output stream. Every call to
// [Encoder.Encode] writes exactly one TLV. Output is not buffered beyond the
// content of the value being written.
//
// An Encoder must not be used concurrently.
type Encoder struct {
	w *tlv.Writer
}

// NewEncoder returns a new [Encoder] that writes to w. The options configure
// the underlying [tlv.Writer].
func NewEncoder(w io.Writer, opts ...tlv.Option) *Encoder {
	return &Encoder{w: tlv.NewWriter(w, opts...)}
}

// Encode writes the DER encoding of v to the stream. If v is nil, an ASN.1 NULL
// is written.
//
// Errors returned from v.ToValue are wrapped in an [*EncodeError]. Errors of
// the underlying writer are returned wrapped as well, see [tlv.IsIOError].
func (e *Encoder) Encode(v Encodable) error {
	val, err := toValue(v)
	if err != nil {
		return err
	}
	return val.encode(e.w)
}

// Marshal returns the DER encoding of v.
func Marshal(v Encodable, opts ...tlv.Option) ([]byte, error) {
	val, err := toValue(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(val.EncodedLen())
	if err = val.encode(tlv.NewWriter(&buf, opts...)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// content returns the concatenated encodings of the elements of c. The
// elements of a universal SET are sorted by their encodings.
func (c *Constructed) content(limits tlv.Limits) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(c.size)
	w := tlv.NewWriter(&buf, tlv.WithLimits(limits))
	ends := make([]int, len(c.elems))
	for i, el := range c.elems {
		if err := el.encode(w); err != nil {
			return nil, err
		}
		ends[i] = buf.Len()
	}
	if c.tag != setTag || len(c.elems) < 2 {
		return buf.Bytes(), nil
	}

	data := buf.Bytes()
	encs := make([][]byte, len(ends))
	start := 0
	for i, end := range ends {
		encs[i] = data[start:end]
		start = end
	}
	slices.SortStableFunc(encs, bytes.Compare)
	return bytes.Join(encs, nil), nil
}
