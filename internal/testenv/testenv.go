// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package testenv provides test utilities shared by the packages of this
// module.
package testenv

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MakeAR creates testify assert and require objects.
func MakeAR(t require.TestingT) (*assert.Assertions, *require.Assertions) {
	return assert.New(t), require.New(t)
}

// hexDigits returns the upper case hex digits of s. Everything else, including
// spaces between TLVs and lower case annotations, is dropped.
func hexDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; '0' <= c && c <= '9' || 'A' <= c && c <= 'F' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// BytesFromHex decodes DER written as upper case hex, for example
// "3003 020105". It panics on an odd number of digits.
func BytesFromHex(s string) []byte {
	b, err := hex.DecodeString(hexDigits(s))
	if err != nil {
		panic(fmt.Sprintf("testenv: invalid hex %q: %v", s, err))
	}
	return b
}

// HexEqual asserts that actual is the encoding written in expected, which uses
// the notation of [BytesFromHex]. Both sides are compared as hex strings so
// that failures show readable octets.
func HexEqual(a *assert.Assertions, expected string, actual []byte, msgAndArgs ...any) bool {
	return a.Equal(hexDigits(expected), fmt.Sprintf("%X", actual), msgAndArgs...)
}
