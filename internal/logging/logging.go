// Package logging builds the console's zap logger. The terminal belongs to
// the UI, so log output goes to a size-rotated file instead of stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	File       string // log file path; ignored when Writer is set
	Level      string // debug, info, warn or error
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int

	Writer io.Writer // overrides File, mostly for tests
}

const (
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 3
	defaultMaxAgeDays = 14
)

// ParseLevel maps a level name to a zap level. Unknown names are info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New returns a JSON logger writing to opts.Writer or to a rotating file at
// opts.File. The caller should Sync the logger on exit.
func New(opts Options) (*zap.Logger, error) {
	var sink zapcore.WriteSyncer
	switch {
	case opts.Writer != nil:
		sink = zapcore.AddSync(opts.Writer)
	case strings.TrimSpace(opts.File) != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, defaultMaxSizeMB),
			MaxBackups: orDefault(opts.MaxBackups, defaultMaxBackups),
			MaxAge:     orDefault(opts.MaxAgeDays, defaultMaxAgeDays),
			Compress:   true,
		})
	default:
		return zap.NewNop(), nil
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), sink, ParseLevel(opts.Level))
	return zap.New(core).With(zap.String("app", "pawndesk")), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
