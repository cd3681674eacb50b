// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlv

import (
	"io"
)

// nullTLV is the complete encoding of an ASN.1 NULL.
var nullTLV = [2]byte{tagNull, 0x00}

// Writer emits complete TLVs onto an underlying [io.Writer]. For every TLV the
// identifier and length octets are handed to the underlying writer in a single
// Write call, followed by the content octets in another. Writer does not do any
// buffering of its own. Callers that need the encoding in memory should write
// into a [bytes.Buffer].
//
// Errors of the underlying writer are returned wrapped. The original error is
// available through [errors.Unwrap]. Writer never retries a failed write.
//
// A Writer must not be used concurrently. Interleaving TLVs of different
// goroutines would corrupt the output.
type Writer struct {
	w      io.Writer
	limits Limits
	offset int64

	// scratch space for identifier and length octets: 1 identifier octet, up to
	// 10 tag number octets, 1 initial length octet and up to 8 length octets.
	tagBuf [11]byte
	hdrBuf [24]byte
}

// NewWriter creates a new [Writer] writing to w. Unless configured otherwise
// via [WithLimits], [DefaultLimits] apply.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	return &Writer{w: w, limits: applyOptions(opts).limits}
}

// Limits returns the limits in effect for w.
func (w *Writer) Limits() Limits { return w.limits }

// Offset returns the number of bytes handed to the underlying writer so far.
func (w *Writer) Offset() int64 { return w.offset }

// WriteTLV writes the already encoded identifier octets tag, the length octets
// for len(value), and value.
func (w *Writer) WriteTLV(tag []byte, value []byte) error {
	return w.WriteTLVRange(tag, value, 0, len(value))
}

// WriteTLVRange works like [Writer.WriteTLV] but only writes the length
// bytes of value starting at offset. If the range does not lie within value,
// [ErrRange] is returned and nothing is written.
func (w *Writer) WriteTLVRange(tag []byte, value []byte, offset, length int) error {
	if offset < 0 || length < 0 || offset > len(value) || length > len(value)-offset {
		return ErrRange
	}
	if len(tag) == 0 {
		return errEmptyTag
	}
	hdr := append(w.hdrBuf[:0], tag...)
	hdr, err := w.limits.AppendLength(hdr, length)
	if err != nil {
		return err
	}
	if err = w.write(hdr); err != nil {
		return err
	}
	return w.write(value[offset : offset+length])
}

// WriteTagged encodes the identifier octets for flags and number and writes
// them together with value as a single TLV.
func (w *Writer) WriteTagged(flags byte, number uint, value []byte) error {
	tag, err := w.limits.AppendTag(w.tagBuf[:0], flags, number)
	if err != nil {
		return err
	}
	return w.WriteTLV(tag, value)
}

// WriteNull writes the two octets 05 00 of an ASN.1 NULL.
func (w *Writer) WriteNull() error {
	return w.write(nullTLV[:])
}

// write hands p to the underlying writer.
func (w *Writer) write(p []byte) error {
	if len(p) == 0 {
		return nil // avoid empty writes
	}
	n, err := w.w.Write(p)
	w.offset += int64(n)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &ioError{"write", err}
	}
	return nil
}
