// Package logging builds the zap loggers used by the command line tools
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Formats accepted by New
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// ParseLevel converts a level name such as "debug" or "WARN"
func ParseLevel(name string) (zapcore.Level, error) {
	if name == "" {
		return zap.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zap.InfoLevel, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// New creates a logger writing to stderr
func New(level, format string) (*zap.Logger, error) {
	return NewWithWriter(level, format, os.Stderr)
}

// NewWithWriter creates a logger writing to w at the named level, encoded
// as console text or JSON
func NewWithWriter(level, format string, w io.Writer) (*zap.Logger, error) {
	zapLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch strings.ToLower(format) {
	case "", FormatConsole:
		config.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(config)
	case FormatJSON:
		encoder = zapcore.NewJSONEncoder(config)
	default:
		return nil, fmt.Errorf("log format %q: want %s or %s", format, FormatConsole, FormatJSON)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zap.NewAtomicLevelAt(zapLevel))
	return zap.New(core), nil
}
