// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pkix implements typed views of the public key structures defined in
// [RFC 5280] and [RFC 8410].
//
// [RFC 5280]: https://www.rfc-editor.org/rfc/rfc5280
// [RFC 8410]: https://www.rfc-editor.org/rfc/rfc8410
package pkix

import (
	"errors"
	"slices"

	"github.com/cloudflare/circl/sign/ed25519"

	"codello.dev/der"
)

// OIDEd25519 identifies the Ed25519 signature algorithm and its keys
// (RFC 8410, Section 3).
var OIDEd25519 = der.ObjectIdentifier{1, 3, 101, 112}

var (
	// ErrUnsupportedAlgorithm indicates a key or signature algorithm that is not
	// implemented.
	ErrUnsupportedAlgorithm = errors.New("pkix: unsupported algorithm")

	errInvalidKey = errors.New("pkix: invalid public key")
)

//region AlgorithmIdentifier

var algorithmIdentifierShape = der.Shape{
	Name:     "AlgorithmIdentifier",
	Fields:   []string{"algorithm", "parameters"},
	Required: 1,
}

// AlgorithmIdentifier is a typed view of
//
//	AlgorithmIdentifier ::= SEQUENCE {
//		algorithm  OBJECT IDENTIFIER,
//		parameters ANY DEFINED BY algorithm OPTIONAL
//	}
type AlgorithmIdentifier struct {
	seq        *der.Constructed
	algorithm  der.ObjectIdentifier
	parameters der.Value
}

// NewAlgorithmIdentifier creates an [AlgorithmIdentifier]. If parameters is nil,
// the parameters are omitted. Use [der.Null] for explicit NULL parameters.
func NewAlgorithmIdentifier(algorithm der.ObjectIdentifier, parameters der.Encodable) (*AlgorithmIdentifier, error) {
	elems := []der.Encodable{algorithm}
	if parameters != nil {
		elems = append(elems, parameters)
	}
	seq, err := der.NewSequence(elems...)
	if err != nil {
		return nil, err
	}
	return AlgorithmIdentifierFrom(seq)
}

// AlgorithmIdentifierFrom converts e into an [*AlgorithmIdentifier].
func AlgorithmIdentifierFrom(e der.Encodable) (*AlgorithmIdentifier, error) {
	return der.FromValue(e, algorithmIdentifierShape, func(seq *der.Constructed) (*AlgorithmIdentifier, error) {
		a := &AlgorithmIdentifier{seq: seq}
		var err error
		a.algorithm, err = der.Field(seq, algorithmIdentifierShape, 0, der.ObjectIdentifierFrom)
		if err != nil {
			return nil, err
		}
		if seq.Len() > 1 {
			a.parameters = seq.At(1)
		}
		return a, nil
	})
}

// Algorithm returns the algorithm identifier of a.
func (a *AlgorithmIdentifier) Algorithm() der.ObjectIdentifier { return a.algorithm }

// Parameters returns the parameters of a, or nil if they are absent.
func (a *AlgorithmIdentifier) Parameters() der.Value { return a.parameters }

// ToValue returns the SEQUENCE a was created from.
func (a *AlgorithmIdentifier) ToValue() (der.Value, error) {
	if a == nil {
		return nil, nil
	}
	return a.seq, nil
}

//endregion

//region SubjectPublicKeyInfo

var subjectPublicKeyInfoShape = der.Shape{
	Name:   "SubjectPublicKeyInfo",
	Fields: []string{"algorithm", "subjectPublicKey"},
}

// SubjectPublicKeyInfo is a typed view of
//
//	SubjectPublicKeyInfo ::= SEQUENCE {
//		algorithm        AlgorithmIdentifier,
//		subjectPublicKey BIT STRING
//	}
type SubjectPublicKeyInfo struct {
	seq       *der.Constructed
	algorithm *AlgorithmIdentifier
	publicKey der.BitString
}

// NewSubjectPublicKeyInfo creates a [SubjectPublicKeyInfo] from its elements.
func NewSubjectPublicKeyInfo(algorithm *AlgorithmIdentifier, publicKey der.BitString) (*SubjectPublicKeyInfo, error) {
	seq, err := der.NewSequence(algorithm, publicKey)
	if err != nil {
		return nil, err
	}
	return SubjectPublicKeyInfoFrom(seq)
}

// NewEd25519SubjectPublicKeyInfo creates the [SubjectPublicKeyInfo] of an
// Ed25519 public key as specified in RFC 8410.
func NewEd25519SubjectPublicKeyInfo(pub ed25519.PublicKey) (*SubjectPublicKeyInfo, error) {
	if len(pub) != ed25519.PublicKeySize {
		return nil, errInvalidKey
	}
	alg, err := NewAlgorithmIdentifier(OIDEd25519, nil)
	if err != nil {
		return nil, err
	}
	return NewSubjectPublicKeyInfo(alg, der.BitString{Bytes: pub, BitLength: 8 * len(pub)})
}

// SubjectPublicKeyInfoFrom converts e into a [*SubjectPublicKeyInfo].
func SubjectPublicKeyInfoFrom(e der.Encodable) (*SubjectPublicKeyInfo, error) {
	return der.FromValue(e, subjectPublicKeyInfoShape, func(seq *der.Constructed) (*SubjectPublicKeyInfo, error) {
		s := &SubjectPublicKeyInfo{seq: seq}
		var err error
		if s.algorithm, err = der.Field(seq, subjectPublicKeyInfoShape, 0, AlgorithmIdentifierFrom); err != nil {
			return nil, err
		}
		if s.publicKey, err = der.Field(seq, subjectPublicKeyInfoShape, 1, der.BitStringFrom); err != nil {
			return nil, err
		}
		return s, nil
	})
}

// Algorithm returns the algorithm of the key.
func (s *SubjectPublicKeyInfo) Algorithm() *AlgorithmIdentifier { return s.algorithm }

// PublicKey returns the encoded public key.
func (s *SubjectPublicKeyInfo) PublicKey() der.BitString { return s.publicKey }

// Ed25519PublicKey returns the public key of s if it is an Ed25519 key.
// Otherwise, an error wrapping [ErrUnsupportedAlgorithm] is returned.
func (s *SubjectPublicKeyInfo) Ed25519PublicKey() (ed25519.PublicKey, error) {
	if !s.algorithm.Algorithm().Equal(OIDEd25519) {
		return nil, &AlgorithmError{Algorithm: s.algorithm.Algorithm()}
	}
	if s.algorithm.Parameters() != nil || s.publicKey.BitLength != 8*ed25519.PublicKeySize {
		return nil, errInvalidKey
	}
	return ed25519.PublicKey(slices.Clone(s.publicKey.Bytes)), nil
}

// ToValue returns the SEQUENCE s was created from.
func (s *SubjectPublicKeyInfo) ToValue() (der.Value, error) {
	if s == nil {
		return nil, nil
	}
	return s.seq, nil
}

//endregion

// An AlgorithmError reports an algorithm that is not supported.
type AlgorithmError struct {
	Algorithm der.ObjectIdentifier
}

func (e *AlgorithmError) Error() string {
	return "pkix: unsupported algorithm " + e.Algorithm.String()
}

// Is makes errors.Is(err, ErrUnsupportedAlgorithm) match any AlgorithmError.
func (e *AlgorithmError) Is(target error) bool {
	return target == ErrUnsupportedAlgorithm
}
