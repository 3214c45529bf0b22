package utilities

import (
	"fmt"
	"os"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level string
	Dev   bool
	// File, when set, also receives every log line. It is a symlink to the
	// current day's file.
	File string
}

// ConfigFromEnv reads LOG_DEV, LOG_LEVEL and LOG_FILE. The level defaults to
// debug in dev mode and info otherwise.
func ConfigFromEnv() Config {
	cfg := Config{
		Level: os.Getenv("LOG_LEVEL"),
		Dev:   os.Getenv("LOG_DEV") == "1",
		File:  os.Getenv("LOG_FILE"),
	}
	if cfg.Level == "" {
		cfg.Level = "info"
		if cfg.Dev {
			cfg.Level = "debug"
		}
	}
	return cfg
}

// levelFromString accepts zap's level names plus "warning". Unknown names
// fall back to info.
func levelFromString(l string) zapcore.Level {
	if strings.EqualFold(l, "warning") {
		return zapcore.WarnLevel
	}
	lvl, err := zapcore.ParseLevel(l)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// Init builds the process logger. Without a log file, dev mode uses zap's
// console config; otherwise lines are JSON on stdout, teed to the file.
func Init(cfg Config) (*zap.Logger, error) {
	lvl := levelFromString(cfg.Level)
	if cfg.Dev && cfg.File == "" {
		c := zap.NewDevelopmentConfig()
		c.Level = zap.NewAtomicLevelAt(lvl)
		return c.Build()
	}

	sink := zapcore.AddSync(os.Stdout)
	if cfg.File != "" {
		rl, err := newRotatingFile(cfg.File)
		if err != nil {
			return nil, err
		}
		sink = zapcore.NewMultiWriteSyncer(sink, zapcore.AddSync(rl))
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), sink, lvl)
	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.Dev {
		opts = append(opts, zap.Development())
	}
	return zap.New(core, opts...), nil
}

// newRotatingFile rotates daily and keeps a week of files next to path.
func newRotatingFile(path string) (*rotatelogs.RotateLogs, error) {
	rl, err := rotatelogs.New(
		path+".%Y%m%d",
		rotatelogs.WithLinkName(path),
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithMaxAge(7*24*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return rl, nil
}
