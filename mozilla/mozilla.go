// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mozilla implements the PublicKeyAndChallenge structure created by the
// KEYGEN element of Mozilla based browsers, and its signed form known as SPKAC
// (signed public key and challenge).
//
//	PublicKeyAndChallenge ::= SEQUENCE {
//		spki      SubjectPublicKeyInfo,
//		challenge IA5STRING
//	}
//
//	SignedPublicKeyAndChallenge ::= SEQUENCE {
//		publicKeyAndChallenge PublicKeyAndChallenge,
//		signatureAlgorithm    AlgorithmIdentifier,
//		signature             BIT STRING
//	}
//
// Signatures are computed over the DER encoding of the PublicKeyAndChallenge.
// Because a decoded PublicKeyAndChallenge re-encodes to exactly the bytes it
// was decoded from, a signature can be verified without access to the original
// input.
package mozilla

import (
	"errors"

	"github.com/cloudflare/circl/sign/ed25519"

	"codello.dev/der"
	"codello.dev/der/pkix"
)

var (
	// ErrUnsupportedAlgorithm is returned by [SignedPublicKeyAndChallenge.Verify]
	// for signature or key algorithms other than Ed25519.
	ErrUnsupportedAlgorithm = pkix.ErrUnsupportedAlgorithm

	// ErrInvalidSignature indicates a signature that does not match the signed
	// data.
	ErrInvalidSignature = errors.New("mozilla: invalid signature")
)

//region PublicKeyAndChallenge

var publicKeyAndChallengeShape = der.Shape{
	Name:   "PublicKeyAndChallenge",
	Fields: []string{"spki", "challenge"},
}

// PublicKeyAndChallenge is a typed view of a PublicKeyAndChallenge SEQUENCE.
type PublicKeyAndChallenge struct {
	seq       *der.Constructed
	spki      *pkix.SubjectPublicKeyInfo
	challenge der.IA5String
}

// NewPublicKeyAndChallenge creates a [PublicKeyAndChallenge] for the given key
// and challenge.
func NewPublicKeyAndChallenge(spki *pkix.SubjectPublicKeyInfo, challenge der.IA5String) (*PublicKeyAndChallenge, error) {
	seq, err := der.NewSequence(spki, challenge)
	if err != nil {
		return nil, err
	}
	return PublicKeyAndChallengeFrom(seq)
}

// PublicKeyAndChallengeFrom converts e into a [*PublicKeyAndChallenge]. If e
// already is a *PublicKeyAndChallenge, it is returned as is.
func PublicKeyAndChallengeFrom(e der.Encodable) (*PublicKeyAndChallenge, error) {
	return der.FromValue(e, publicKeyAndChallengeShape, func(seq *der.Constructed) (*PublicKeyAndChallenge, error) {
		p := &PublicKeyAndChallenge{seq: seq}
		var err error
		if p.spki, err = der.Field(seq, publicKeyAndChallengeShape, 0, pkix.SubjectPublicKeyInfoFrom); err != nil {
			return nil, err
		}
		if p.challenge, err = der.Field(seq, publicKeyAndChallengeShape, 1, der.IA5StringFrom); err != nil {
			return nil, err
		}
		return p, nil
	})
}

// SubjectPublicKeyInfo returns the public key of p.
func (p *PublicKeyAndChallenge) SubjectPublicKeyInfo() *pkix.SubjectPublicKeyInfo { return p.spki }

// Challenge returns the challenge string of p.
func (p *PublicKeyAndChallenge) Challenge() der.IA5String { return p.challenge }

// ToValue returns the SEQUENCE p was created from. A nil p is encoded as NULL.
func (p *PublicKeyAndChallenge) ToValue() (der.Value, error) {
	if p == nil {
		return nil, nil
	}
	return p.seq, nil
}

//endregion

//region SignedPublicKeyAndChallenge

var signedPublicKeyAndChallengeShape = der.Shape{
	Name:   "SignedPublicKeyAndChallenge",
	Fields: []string{"publicKeyAndChallenge", "signatureAlgorithm", "signature"},
}

// SignedPublicKeyAndChallenge is a typed view of a SignedPublicKeyAndChallenge
// SEQUENCE.
type SignedPublicKeyAndChallenge struct {
	seq       *der.Constructed
	pkac      *PublicKeyAndChallenge
	algorithm *pkix.AlgorithmIdentifier
	signature der.BitString
}

// SignEd25519 signs pkac with priv. The public key in pkac should belong to
// priv, otherwise the result will not verify.
func SignEd25519(pkac *PublicKeyAndChallenge, priv ed25519.PrivateKey) (*SignedPublicKeyAndChallenge, error) {
	msg, err := der.Marshal(pkac)
	if err != nil {
		return nil, err
	}
	sig := ed25519.Sign(priv, msg)
	alg, err := pkix.NewAlgorithmIdentifier(pkix.OIDEd25519, nil)
	if err != nil {
		return nil, err
	}
	seq, err := der.NewSequence(pkac, alg, der.BitString{Bytes: sig, BitLength: 8 * len(sig)})
	if err != nil {
		return nil, err
	}
	s, err := SignedPublicKeyAndChallengeFrom(seq)
	if err != nil {
		return nil, err
	}
	s.pkac, s.algorithm = pkac, alg
	return s, nil
}

// SignedPublicKeyAndChallengeFrom converts e into a
// [*SignedPublicKeyAndChallenge].
func SignedPublicKeyAndChallengeFrom(e der.Encodable) (*SignedPublicKeyAndChallenge, error) {
	shape := signedPublicKeyAndChallengeShape
	return der.FromValue(e, shape, func(seq *der.Constructed) (*SignedPublicKeyAndChallenge, error) {
		s := &SignedPublicKeyAndChallenge{seq: seq}
		var err error
		if s.pkac, err = der.Field(seq, shape, 0, PublicKeyAndChallengeFrom); err != nil {
			return nil, err
		}
		if s.algorithm, err = der.Field(seq, shape, 1, pkix.AlgorithmIdentifierFrom); err != nil {
			return nil, err
		}
		if s.signature, err = der.Field(seq, shape, 2, der.BitStringFrom); err != nil {
			return nil, err
		}
		return s, nil
	})
}

// ParseSignedPublicKeyAndChallenge parses a DER encoded SPKAC. The signature is
// not verified.
func ParseSignedPublicKeyAndChallenge(b []byte, opts ...der.DecodeOption) (*SignedPublicKeyAndChallenge, error) {
	v, err := der.Unmarshal(b, opts...)
	if err != nil {
		return nil, err
	}
	return SignedPublicKeyAndChallengeFrom(v)
}

// PublicKeyAndChallenge returns the signed data of s.
func (s *SignedPublicKeyAndChallenge) PublicKeyAndChallenge() *PublicKeyAndChallenge { return s.pkac }

// SignatureAlgorithm returns the algorithm used to sign s.
func (s *SignedPublicKeyAndChallenge) SignatureAlgorithm() *pkix.AlgorithmIdentifier {
	return s.algorithm
}

// Signature returns the signature of s.
func (s *SignedPublicKeyAndChallenge) Signature() der.BitString { return s.signature }

// Verify checks the signature of s against the public key contained in s. Only
// Ed25519 is supported. Other algorithms yield an error matching
// [ErrUnsupportedAlgorithm].
func (s *SignedPublicKeyAndChallenge) Verify() error {
	if alg := s.algorithm.Algorithm(); !alg.Equal(pkix.OIDEd25519) {
		return &pkix.AlgorithmError{Algorithm: alg}
	}
	pub, err := s.pkac.SubjectPublicKeyInfo().Ed25519PublicKey()
	if err != nil {
		return err
	}
	msg, err := der.Marshal(s.pkac)
	if err != nil {
		return err
	}
	if s.signature.BitLength != 8*ed25519.SignatureSize || !ed25519.Verify(pub, msg, s.signature.Bytes) {
		return ErrInvalidSignature
	}
	return nil
}

// ToValue returns the SEQUENCE s was created from. A nil s is encoded as NULL.
func (s *SignedPublicKeyAndChallenge) ToValue() (der.Value, error) {
	if s == nil {
		return nil, nil
	}
	return s.seq, nil
}

//endregion
