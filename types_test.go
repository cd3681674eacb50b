// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"testing"
)

func TestBitString_At(t *testing.T) {
	s := BitString{Bytes: []byte{0xA5, 0xC0}, BitLength: 10}
	want := []int{1, 0, 1, 0, 0, 1, 0, 1, 1, 1}
	for i, w := range want {
		if got := s.At(i); got != w {
			t.Errorf("BitString.At(%d) = %d, want %d", i, got, w)
		}
	}
}

func TestBitString_String(t *testing.T) {
	tests := map[string]struct {
		s    BitString
		want string
	}{
		"Empty":   {BitString{}, ""},
		"Short":   {BitString{Bytes: []byte{0xE0}, BitLength: 3}, "111"},
		"Padded":  {BitString{Bytes: []byte{0xA5, 0xC0}, BitLength: 10}, "10100101 11"},
		"Aligned": {BitString{Bytes: []byte{0xA5, 0x0F}, BitLength: 16}, "10100101 00001111"},
		"Invalid": {BitString{Bytes: []byte{0xA5}, BitLength: 10}, ""},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.s.String(); got != tt.want {
				t.Errorf("BitString.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestObjectIdentifier_IsValid(t *testing.T) {
	tests := map[string]struct {
		oid  ObjectIdentifier
		want bool
	}{
		"Empty":        {ObjectIdentifier{}, false},
		"SingleArc":    {ObjectIdentifier{1}, false},
		"FirstTooBig":  {ObjectIdentifier{3, 1}, false},
		"SecondTooBig": {ObjectIdentifier{1, 40}, false},
		"MaxSecond":    {ObjectIdentifier{1, 39}, true},
		"JointISO":     {ObjectIdentifier{2, 100, 3}, true},
		"Ed25519":      {ObjectIdentifier{1, 3, 101, 112}, true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.oid.IsValid(); got != tt.want {
				t.Errorf("ObjectIdentifier.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestObjectIdentifier_String(t *testing.T) {
	oid := ObjectIdentifier{1, 2, 840, 113549}
	if got, want := oid.String(), "1.2.840.113549"; got != want {
		t.Errorf("ObjectIdentifier.String() = %q, want %q", got, want)
	}
	if !oid.Equal(ObjectIdentifier{1, 2, 840, 113549}) || oid.Equal(ObjectIdentifier{1, 2, 840}) {
		t.Errorf("ObjectIdentifier.Equal() returned an unexpected result")
	}
}

func TestIA5String_IsValid(t *testing.T) {
	tests := map[string]struct {
		s    IA5String
		want bool
	}{
		"Empty":   {"", true},
		"ASCII":   {"abc 123\n", true},
		"Latin1":  {"\xe4", false},
		"Unicode": {"äöü", false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.s.IsValid(); got != tt.want {
				t.Errorf("IA5String.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}
