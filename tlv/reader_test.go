// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlv

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"testing"
	"testing/iotest"
)

func TestReader_ReadHeader(t *testing.T) {
	tests := map[string]struct {
		data       []byte
		want       Header
		wantOffset int64
		wantErr    error
	}{
		"Empty":        {nil, Header{}, 0, io.EOF},
		"Null":         {[]byte{0x05, 0x00}, Header{0x00, 5, 0}, 2, nil},
		"Sequence":     {[]byte{0x30, 0x2A}, Header{Constructed, 16, 42}, 2, nil},
		"HighTag":      {[]byte{0xBF, 0x81, 0x2D, 0x81, 0x80}, Header{ClassContextSpecific | Constructed, 173, 128}, 5, nil},
		"Truncated":    {[]byte{0x30}, Header{}, 1, io.ErrUnexpectedEOF},
		"Indefinite":   {[]byte{0x30, 0x80}, Header{}, 2, errIndefiniteLength},
		"NonMinimal":   {[]byte{0x04, 0x81, 0x05}, Header{}, 3, errNonMinimalLength},
		"LongOverflow": {[]byte{0x04, 0x85, 0x01, 0x00, 0x00, 0x00, 0x00}, Header{}, 2, ErrOverflow},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r := NewReader(bytes.NewReader(tc.data))
			got, err := r.ReadHeader()
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("ReadHeader() error = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ReadHeader() = %v, want %v", got, tc.want)
			}
			if r.Offset() != tc.wantOffset {
				t.Errorf("Offset() = %d, want %d", r.Offset(), tc.wantOffset)
			}
			if tc.wantErr != nil && tc.wantErr != io.EOF {
				var synErr *SyntaxError
				if !errors.As(err, &synErr) {
					t.Errorf("ReadHeader() error = %T, want *SyntaxError", err)
				} else if synErr.ByteOffset != 0 {
					t.Errorf("SyntaxError.ByteOffset = %d, want 0", synErr.ByteOffset)
				}
			}
		})
	}
}

func TestReader_ReadContent(t *testing.T) {
	long := bytes.Repeat([]byte{0x5A}, 3*smallContent)
	tests := map[string]struct {
		data    []byte
		n       int
		want    []byte
		wantErr error
	}{
		"Empty":         {nil, 0, []byte{}, nil},
		"Short":         {[]byte("abcdef"), 3, []byte("abc"), nil},
		"Long":          {long, len(long), long, nil},
		"Truncated":     {[]byte("ab"), 3, nil, io.ErrUnexpectedEOF},
		"TruncatedLong": {long[:smallContent+1], len(long), nil, io.ErrUnexpectedEOF},
		"ForgedLength":  {[]byte{0x01}, 1 << 30, nil, io.ErrUnexpectedEOF},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r := NewReader(bytes.NewReader(tc.data))
			got, err := r.ReadContent(Header{Length: tc.n}, tc.n)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("ReadContent() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr == nil && !slices.Equal(got, tc.want) {
				t.Errorf("ReadContent() = % X, want % X", got, tc.want)
			}
		})
	}
}

func TestReader_IOError(t *testing.T) {
	broken := errors.New("connection reset")
	r := NewReader(io.MultiReader(bytes.NewReader([]byte{0x30}), iotest.ErrReader(broken)))
	_, err := r.ReadHeader()
	if !errors.Is(err, broken) {
		t.Fatalf("ReadHeader() error = %v, want %v", err, broken)
	}
	if !IsIOError(err) {
		t.Errorf("IsIOError(%v) = false, want true", err)
	}
	var synErr *SyntaxError
	if errors.As(err, &synErr) {
		t.Errorf("ReadHeader() error = %v, want no *SyntaxError", err)
	}
}

func TestReader_Sequential(t *testing.T) {
	data := []byte{0x02, 0x01, 0x2A, 0x05, 0x00}
	r := NewReader(iotest.OneByteReader(bytes.NewReader(data)))
	h, err := r.ReadHeader()
	if err != nil {
		t.Fatalf("ReadHeader() error = %v", err)
	}
	content, err := r.ReadContent(h, h.Length)
	if err != nil || !slices.Equal(content, []byte{0x2A}) {
		t.Fatalf("ReadContent() = % X, %v, want 2A, <nil>", content, err)
	}
	if h, err = r.ReadHeader(); err != nil || h != (Header{0x00, 5, 0}) {
		t.Fatalf("ReadHeader() = %v, %v, want NULL header", h, err)
	}
	if _, err = r.ReadHeader(); err != io.EOF {
		t.Errorf("ReadHeader() error = %v, want io.EOF", err)
	}
	if r.Offset() != int64(len(data)) {
		t.Errorf("Offset() = %d, want %d", r.Offset(), len(data))
	}
}
