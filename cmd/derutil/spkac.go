// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"codello.dev/der"
	"codello.dev/der/internal/fingerprint"
	"codello.dev/der/mozilla"
	"codello.dev/der/pkix"
)

func init() {
	defineCommand(&cli.Command{
		Name:  "spkac",
		Usage: "Create a signed public key and challenge for a new Ed25519 key.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "challenge",
				Usage:    "Challenge `string`, ASCII only.",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "seed",
				Usage: "Derive the key from a 32 byte `seed` in hex instead of generating one.",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Output `file`. Defaults to standard output.",
			},
			&cli.BoolFlag{
				Name:  "hex",
				Usage: "Write hexadecimal text instead of binary DER.",
			},
		},
		Action: func(c *cli.Context) error {
			priv, err := signingKey(c.String("seed"))
			if err != nil {
				return err
			}
			spkac, err := newSPKAC(priv, der.IA5String(c.String("challenge")))
			if err != nil {
				return err
			}
			b, err := der.Marshal(spkac, tlvOptions(c)...)
			if err != nil {
				return errors.Wrap(err, "encode spkac")
			}
			if fp, err := fingerprint.Sum(fingerprint.SHA256, b); err == nil {
				logger.Info("created spkac", zap.Int("bytes", len(b)), zap.String("sha256", fp))
			}
			if c.Bool("hex") {
				b = []byte(hex.EncodeToString(b) + "\n")
			}
			return writeOutput(c, c.String("out"), b)
		},
	})
}

func signingKey(seed string) (ed25519.PrivateKey, error) {
	if seed == "" {
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		return priv, errors.Wrap(err, "generate key")
	}
	b, err := hex.DecodeString(seed)
	if err != nil {
		return nil, errors.Wrap(err, "invalid seed")
	}
	if len(b) != ed25519.SeedSize {
		return nil, errors.Errorf("invalid seed: expected %d bytes, got %d", ed25519.SeedSize, len(b))
	}
	return ed25519.NewKeyFromSeed(b), nil
}

func newSPKAC(priv ed25519.PrivateKey, challenge der.IA5String) (*mozilla.SignedPublicKeyAndChallenge, error) {
	if !challenge.IsValid() {
		return nil, errors.New("challenge must be ASCII")
	}
	spki, err := pkix.NewEd25519SubjectPublicKeyInfo(priv.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	pkac, err := mozilla.NewPublicKeyAndChallenge(spki, challenge)
	if err != nil {
		return nil, err
	}
	return mozilla.SignEd25519(pkac, priv)
}
