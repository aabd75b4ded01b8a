// Package logging builds the process logger.
//
// The root logger writes ISO8601-stamped entries to stdout in console or JSON
// form and, when a file is configured, tees JSON entries into a size-rotated
// log file. The returned zap.AtomicLevel is shared by every core, so changing
// it (for instance through the web API's /log/level handler) affects all
// outputs at once.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Rotation defaults for the log file.
const (
	DefaultMaxSizeMB  = 100
	DefaultMaxAgeDays = 28
	DefaultMaxBackups = 3
)

// ErrUnknownFormat is returned for a format other than console or json.
var ErrUnknownFormat = errors.New("logging: unknown format")

// Options configures New.
type Options struct {
	// Level is a zap level name ("debug", "info", ...). Empty means info.
	Level string
	// Format is FormatConsole or FormatJSON. Empty means console.
	Format string
	// File, when set, receives a JSON copy of every entry with rotation.
	File       string
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int

	// Stdout overrides os.Stdout; used by tests.
	Stdout io.Writer
}

// New returns the atomic level and the logger built from opts.
func New(opts Options) (zap.AtomicLevel, *zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return level, nil, fmt.Errorf("logging: level %q: %w", opts.Level, err)
		}
		level.SetLevel(parsed)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var stdoutEnc zapcore.Encoder
	switch opts.Format {
	case "", FormatConsole:
		consoleCfg := encCfg
		consoleCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		stdoutEnc = zapcore.NewConsoleEncoder(consoleCfg)
	case FormatJSON:
		stdoutEnc = zapcore.NewJSONEncoder(encCfg)
	default:
		return level, nil, fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}

	var stdout io.Writer = os.Stdout
	if opts.Stdout != nil {
		stdout = opts.Stdout
	}
	cores := []zapcore.Core{
		zapcore.NewCore(stdoutEnc, zapcore.AddSync(stdout), level),
	}
	if opts.File != "" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encCfg),
			zapcore.AddSync(RotatingFile(opts)),
			level,
		))
	}

	logger := zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel))

	return level, logger, nil
}

// RotatingFile returns the lumberjack writer for opts.File, filling in the
// rotation defaults.
func RotatingFile(opts Options) *lumberjack.Logger {
	l := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB, // megabytes
		MaxAge:     opts.MaxAgeDays,
		MaxBackups: opts.MaxBackups,
	}
	if l.MaxSize <= 0 {
		l.MaxSize = DefaultMaxSizeMB
	}
	if l.MaxAge <= 0 {
		l.MaxAge = DefaultMaxAgeDays
	}
	if l.MaxBackups <= 0 {
		l.MaxBackups = DefaultMaxBackups
	}

	return l
}
