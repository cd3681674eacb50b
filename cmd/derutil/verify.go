// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"codello.dev/der"
	"codello.dev/der/internal/fingerprint"
	"codello.dev/der/mozilla"
)

func init() {
	defineCommand(&cli.Command{
		Name:      "verify",
		Usage:     "Verify the signature of a signed public key and challenge.",
		ArgsUsage: "FILE",
		Flags:     []cli.Flag{hexFlag},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("expected exactly one input file")
			}
			path := c.Args().First()
			spkac, err := parseSPKAC(c, path)
			if err != nil {
				return err
			}
			if err := spkac.Verify(); err != nil {
				logger.Warn("verification failed", zap.String("file", path), zap.Error(err))
				return errors.Wrap(err, path)
			}
			pkac := spkac.PublicKeyAndChallenge()
			b, err := der.Marshal(pkac.SubjectPublicKeyInfo(), tlvOptions(c)...)
			if err != nil {
				return err
			}
			fp, err := fingerprint.Sum(fingerprint.SHA256, b)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "challenge: %s\nspki-sha256: %s\n", pkac.Challenge(), fp)
			return nil
		},
	})

	defineCommand(&cli.Command{
		Name:      "fingerprint",
		Usage:     "Fingerprint the public key of a signed public key and challenge, or any DER value.",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			hexFlag,
			&cli.StringFlag{
				Name:  "alg",
				Usage: fmt.Sprintf("Fingerprint `algorithm`, one of %v.", fingerprint.Algorithms()),
				Value: string(fingerprint.SHA256),
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("expected exactly one input file")
			}
			path := c.Args().First()
			b, err := readInput(c, path)
			if err != nil {
				return errors.Wrap(err, path)
			}
			if spkac, err := mozilla.ParseSignedPublicKeyAndChallenge(b, decodeOptions(c)...); err == nil {
				if b, err = der.Marshal(spkac.PublicKeyAndChallenge().SubjectPublicKeyInfo(), tlvOptions(c)...); err != nil {
					return err
				}
			} else {
				logger.Debug("fingerprinting whole input", zap.String("file", path), zap.Error(err))
			}
			fp, err := fingerprint.Sum(fingerprint.Algorithm(c.String("alg")), b)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, fp)
			return nil
		},
	})
}

func parseSPKAC(c *cli.Context, path string) (*mozilla.SignedPublicKeyAndChallenge, error) {
	b, err := readInput(c, path)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	spkac, err := mozilla.ParseSignedPublicKeyAndChallenge(b, decodeOptions(c)...)
	return spkac, errors.Wrap(err, path)
}
