// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlv

import (
	"bufio"
	"bytes"
	"io"
)

//region Read Helpers

// byteReader is the base reader type needed for [Reader].
type byteReader interface {
	io.Reader
	io.ByteReader
}

// byteReaderFunc is a function that can read a single byte from an underlying
// byte stream. It implements [io.ByteReader].
type byteReaderFunc func() (byte, error)

func (f byteReaderFunc) ReadByte() (byte, error) { return f() }

// smallContent is the largest content length that is allocated up front. Larger
// contents are read incrementally so that a forged length cannot cause a large
// allocation before the data actually arrives.
const smallContent = 4096

//endregion

//region Reader

// Reader reads TLVs from an underlying [io.Reader]. It enforces the DER rules
// for identifier and length octets and keeps track of its position within the
// input.
//
// If the underlying reader does not implement [io.ByteReader], Reader wraps it
// in a [bufio.Reader] and may read past the last TLV it returned.
//
// Errors in the encoding are reported as [*SyntaxError] values. Errors of the
// underlying reader are returned wrapped and can be detected via [IsIOError].
type Reader struct {
	r      byteReader
	limits Limits
	offset int64
}

// NewReader creates a new [Reader] reading from r. Unless configured otherwise
// via [WithLimits], [DefaultLimits] apply.
func NewReader(r io.Reader, opts ...Option) *Reader {
	br, ok := r.(byteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{r: br, limits: applyOptions(opts).limits}
}

// Limits returns the limits in effect for r.
func (r *Reader) Limits() Limits { return r.limits }

// Offset returns the number of bytes consumed from the input so far.
func (r *Reader) Offset() int64 { return r.offset }

// ReadHeader reads the identifier and length octets of the next TLV. If the
// input ends cleanly before the first identifier octet, io.EOF is returned.
func (r *Reader) ReadHeader() (Header, error) {
	start := r.offset
	h, err := r.limits.ReadHeader(byteReaderFunc(r.readByte))
	if err == nil {
		return h, nil
	}
	if (err == io.EOF && r.offset == start) || IsIOError(err) {
		return Header{}, err
	}
	return Header{}, &SyntaxError{Err: err, ByteOffset: start}
}

// ReadContent reads exactly n content octets of the TLV with header h. The
// header must be the one just returned by [Reader.ReadHeader].
func (r *Reader) ReadContent(h Header, n int) ([]byte, error) {
	start := r.offset
	var (
		buf []byte
		err error
	)
	if n <= smallContent {
		buf = make([]byte, n)
		var m int
		m, err = io.ReadFull(r.r, buf)
		r.offset += int64(m)
	} else {
		var b bytes.Buffer
		var m int64
		m, err = io.CopyN(&b, r.r, int64(n))
		r.offset += m
		buf = b.Bytes()
		if err == nil && m < int64(n) {
			err = io.ErrUnexpectedEOF
		}
	}
	switch {
	case err == nil:
		return buf, nil
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		return nil, &SyntaxError{Err: io.ErrUnexpectedEOF, ByteOffset: start - int64(h.Size()), Header: h}
	default:
		return nil, &ioError{"read", err}
	}
}

// readByte reads a single byte and updates the offset of r.
func (r *Reader) readByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err == nil {
		r.offset++
		return b, nil
	}
	if err != io.EOF {
		err = &ioError{"read", err}
	}
	return b, err
}

//endregion
