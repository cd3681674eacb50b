// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"codello.dev/der"
)

func init() {
	defineCommand(&cli.Command{
		Name:      "dump",
		Usage:     "Print the structure of DER encoded values.",
		ArgsUsage: "FILE...",
		Flags:     []cli.Flag{hexFlag},
		Action: func(c *cli.Context) (err error) {
			if c.NArg() == 0 {
				return errors.New("no input files")
			}
			for _, path := range c.Args().Slice() {
				if e := dumpFile(c, path); e != nil {
					logger.Warn("dump failed", zap.String("file", path), zap.Error(e))
					err = multierr.Append(err, errors.Wrap(e, path))
				}
			}
			return err
		},
	})
}

// dumpFile prints every top-level value in the file at path.
func dumpFile(c *cli.Context, path string) error {
	b, err := readInput(c, path)
	if err != nil {
		return err
	}
	d := der.NewDecoder(bytes.NewReader(b), decodeOptions(c)...)
	n := 0
	for {
		v, err := d.Decode()
		if err == io.EOF {
			break
		} else if err != nil {
			return err
		}
		printValue(c.App.Writer, v, 0)
		n++
	}
	logger.Debug("dumped", zap.String("file", path), zap.Int("values", n), zap.Int64("bytes", d.InputOffset()))
	return nil
}

func printValue(w io.Writer, v der.Value, depth int) {
	line := strings.Repeat("  ", depth) + v.Tag().String()
	if name := v.Tag().TypeName(); name != "" {
		line += " " + name
	}
	switch v := v.(type) {
	case *der.Constructed:
		fmt.Fprintf(w, "%s (%d bytes)\n", line, v.EncodedLen())
		for _, child := range v.All() {
			printValue(w, child, depth+1)
		}
	case *der.Primitive:
		if s := formatPrimitive(v); s != "" {
			line += " " + s
		}
		fmt.Fprintln(w, line)
	}
}

// maxBinaryBits is the largest BIT STRING printed as binary digits. Longer ones,
// such as keys and signatures, are printed in hex.
const maxBinaryBits = 32

// formatPrimitive returns a readable form of the content of p.
func formatPrimitive(p *der.Primitive) string {
	if p.Tag().Class == der.ClassUniversal {
		switch p.Tag().Number {
		case der.TagNull:
			return ""
		case der.TagInteger:
			if i, err := der.IntegerFrom(p); err == nil {
				return strconv.FormatInt(int64(i), 10)
			}
		case der.TagOID:
			if oid, err := der.ObjectIdentifierFrom(p); err == nil {
				return oid.String()
			}
		case der.TagIA5String:
			if s, err := der.IA5StringFrom(p); err == nil {
				return strconv.Quote(string(s))
			}
		case der.TagBitString:
			if s, err := der.BitStringFrom(p); err == nil && s.Len() <= maxBinaryBits {
				return fmt.Sprintf("(%d bits) %s", s.Len(), s)
			} else if err == nil {
				return fmt.Sprintf("(%d bits) %X", s.Len(), s.Bytes)
			}
		}
	}
	return fmt.Sprintf("%X", p.Bytes())
}
