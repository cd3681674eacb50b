// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fingerprint computes digests of DER encodings.
package fingerprint

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"golang.org/x/crypto/sha3"
)

// Algorithm names a fingerprint function.
type Algorithm string

// Supported algorithms.
const (
	SHA256   Algorithm = "sha256"
	SHA512   Algorithm = "sha512"
	SHA3_256 Algorithm = "sha3-256"
	CID      Algorithm = "cid"
)

var algorithms = map[Algorithm]func([]byte) (string, error){
	SHA256: func(b []byte) (string, error) {
		sum := sha256.Sum256(b)
		return hex.EncodeToString(sum[:]), nil
	},
	SHA512: func(b []byte) (string, error) {
		sum := sha512.Sum512(b)
		return hex.EncodeToString(sum[:]), nil
	},
	SHA3_256: func(b []byte) (string, error) {
		sum := sha3.Sum256(b)
		return hex.EncodeToString(sum[:]), nil
	},
	CID: func(b []byte) (string, error) {
		c, err := CIDv1(b)
		if err != nil {
			return "", err
		}
		return c.String(), nil
	},
}

// Algorithms returns the names of all supported algorithms in sorted order.
func Algorithms() []Algorithm {
	list := make([]Algorithm, 0, len(algorithms))
	for alg := range algorithms {
		list = append(list, alg)
	}
	slices.Sort(list)
	return list
}

// Sum computes the fingerprint of b using alg. Hash algorithms produce lower
// case hex, [CID] produces the string form of [CIDv1].
func Sum(alg Algorithm, b []byte) (string, error) {
	f, ok := algorithms[alg]
	if !ok {
		return "", fmt.Errorf("fingerprint: unknown algorithm %q", alg)
	}
	return f(b)
}

// CIDv1 returns a CIDv1 using the raw multicodec and a sha2-256 multihash of b.
func CIDv1(b []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(b, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}
