// Package logging builds the console logger used by vstyle.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Levels accepted by New
const (
	LevelNone   = "none"
	LevelNormal = "normal"
	LevelDebug  = "debug"
)

// New returns a console logger. Messages below error go to stdout, errors
// go to stderr; "none" discards everything.
func New(level string) (*zap.Logger, error) {
	return NewWithWriters(level, os.Stdout, os.Stderr)
}

// NewWithWriters is New with explicit destinations
func NewWithWriters(level string, stdout, stderr io.Writer) (*zap.Logger, error) {
	var lowest zapcore.Level
	switch level {
	case LevelNone:
		return zap.NewNop(), nil
	case LevelNormal, "":
		lowest = zapcore.InfoLevel
	case LevelDebug:
		lowest = zapcore.DebugLevel
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	ec.TimeKey = zapcore.OmitKey
	enc := zapcore.NewConsoleEncoder(ec)

	lowPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lowest <= lvl && lvl < zapcore.ErrorLevel
	})
	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(stdout)), lowPriority),
		zapcore.NewCore(enc.Clone(), zapcore.Lock(zapcore.AddSync(stderr)), highPriority),
	)
	return zap.New(core), nil
}
