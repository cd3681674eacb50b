// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logging is a thin wrapper of the zap logging library.
//
// The level of each named logger is read from the environment variable
// DERUTIL_LOG_<name>, falling back to DERUTIL_LOG. The first letter of the
// value selects the level: D for debug, I for info, W for warn, E for error.
package logging

import (
	"os"
	"unicode"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix is the prefix of the environment variables controlling log levels.
const EnvPrefix = "DERUTIL_LOG"

var root = func() *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		os.Stderr,
		zap.DebugLevel,
	)
	return zap.New(core)
}()

// New creates a logger initialized with the configured log level.
// By convention, this should appear in the same .go file as the package docstring:
//
//	var logger = logging.New("Foo")
func New(pkg string) *zap.Logger {
	return NewWithCore(root.Core(), pkg)
}

// NewWithCore creates a logger writing to core instead of standard error.
func NewWithCore(core zapcore.Core, pkg string) *zap.Logger {
	return zap.New(core).Named(pkg).
		WithOptions(zap.IncreaseLevel(zap.NewAtomicLevelAt(ParseLevel(GetLevel(pkg)))))
}

// GetLevel returns the configured log level of a package as an upper case
// letter, or 0 if none is configured. Both "DEBUG" and "debug" yield 'D'.
func GetLevel(pkg string) rune {
	lvl, ok := os.LookupEnv(EnvPrefix + "_" + pkg)
	if !ok {
		lvl, ok = os.LookupEnv(EnvPrefix)
	}
	if !ok || len(lvl) == 0 {
		return 0
	}
	return unicode.ToUpper(rune(lvl[0]))
}

// ParseLevel converts a level letter into a zap level. Unknown letters select
// the info level.
func ParseLevel(lvl rune) zapcore.Level {
	switch lvl {
	case 'V', 'D':
		return zapcore.DebugLevel
	case 'I':
		return zapcore.InfoLevel
	case 'W':
		return zapcore.WarnLevel
	case 'E':
		return zapcore.ErrorLevel
	case 'F', 'N':
		return zapcore.DPanicLevel
	}
	return zapcore.InfoLevel
}
