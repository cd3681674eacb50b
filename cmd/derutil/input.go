// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var hexFlag = &cli.BoolFlag{
	Name:  "hex",
	Usage: "Input is hexadecimal text. Whitespace is ignored.",
}

// readInput reads the file at path, or standard input if path is "-".
func readInput(c *cli.Context, path string) ([]byte, error) {
	var b []byte
	var err error
	if path == "-" {
		b, err = io.ReadAll(c.App.Reader)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if !c.Bool("hex") {
		return b, nil
	}
	b, err = hex.DecodeString(strings.Join(strings.Fields(string(b)), ""))
	return b, errors.Wrap(err, "invalid hex input")
}

// writeOutput writes b to the file at path, or standard output if path is empty
// or "-".
func writeOutput(c *cli.Context, path string, b []byte) error {
	if path == "" || path == "-" {
		_, err := c.App.Writer.Write(b)
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
