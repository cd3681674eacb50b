// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command derutil inspects, creates and verifies DER encoded structures.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/urfave/cli/v2"

	"codello.dev/der"
	"codello.dev/der/internal/logging"
	"codello.dev/der/tlv"
)

var logger = logging.New("derutil")

var commands []*cli.Command

func defineCommand(command *cli.Command) {
	commands = append(commands, command)
}

var globalFlags = []cli.Flag{
	&cli.IntFlag{
		Name:    "max-length-octets",
		Usage:   "Maximum `count` of long form length octets.",
		Value:   tlv.DefaultLimits.MaxLengthOctets,
		EnvVars: []string{"DERUTIL_MAX_LENGTH_OCTETS"},
	},
	&cli.IntFlag{
		Name:    "max-tag-octets",
		Usage:   "Maximum `count` of high tag number octets.",
		Value:   tlv.DefaultLimits.MaxTagOctets,
		EnvVars: []string{"DERUTIL_MAX_TAG_OCTETS"},
	},
	&cli.IntFlag{
		Name:    "max-depth",
		Usage:   "Maximum nesting `depth` of constructed values.",
		Value:   der.DefaultMaxDepth,
		EnvVars: []string{"DERUTIL_MAX_DEPTH"},
	},
}

func newApp(in io.Reader, out, errOut io.Writer) *cli.App {
	app := &cli.App{
		Name:      "derutil",
		Usage:     "Inspect, create and verify DER encoded structures.",
		Flags:     globalFlags,
		Commands:  commands,
		Reader:    in,
		Writer:    out,
		ErrWriter: errOut,
		// errors are reported by run
		ExitErrHandler: func(*cli.Context, error) {},
	}
	sort.Sort(cli.CommandsByName(app.Commands))
	return app
}

// limits returns the encoding limits configured by the global flags.
func limits(c *cli.Context) tlv.Limits {
	return tlv.Limits{
		MaxLengthOctets: c.Int("max-length-octets"),
		MaxTagOctets:    c.Int("max-tag-octets"),
	}
}

// decodeOptions returns the decoder configuration selected by the global flags.
func decodeOptions(c *cli.Context) []der.DecodeOption {
	return []der.DecodeOption{
		der.WithDecodeLimits(limits(c)),
		der.WithMaxDepth(c.Int("max-depth")),
	}
}

// tlvOptions returns the encoder configuration selected by the global flags.
func tlvOptions(c *cli.Context) []tlv.Option {
	return []tlv.Option{tlv.WithLimits(limits(c))}
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	if err := newApp(in, out, errOut).Run(args); err != nil {
		fmt.Fprintln(errOut, "derutil:", err)
		return 1
	}
	return 0
}

func main() {
	code := run(os.Args, os.Stdin, os.Stdout, os.Stderr)
	logger.Sync()
	os.Exit(code)
}
