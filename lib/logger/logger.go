// Package logger builds the zap logger used by the compiler front end.
package logger

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level string `yaml:"level" mapstructure:"level"`
	// Format is "console" or "json".
	Format string `yaml:"format" mapstructure:"format"`
	// File enables rotated file output; empty means stderr.
	File       string `yaml:"file" mapstructure:"file"`
	MaxSize    int    `yaml:"maxSize" mapstructure:"maxsize"`
	MaxAge     int    `yaml:"maxAge" mapstructure:"maxage"`
	MaxBackups int    `yaml:"maxBackups" mapstructure:"maxbackups"`
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
}

func DefaultConfig() Config {
	return Config{
		Level:      "warn",
		Format:     "console",
		MaxSize:    100,
		MaxAge:     30,
		MaxBackups: 3,
	}
}

func (c Config) Validate() error {
	if _, err := c.level(); err != nil {
		return err
	}
	switch c.Format {
	case "", "console", "json":
		return nil
	}
	return errors.Errorf("unknown log format %q", c.Format)
}

func (c Config) level() (zapcore.Level, error) {
	level := zapcore.WarnLevel
	if c.Level == "" {
		return level, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToLower(c.Level))); err != nil {
		return level, errors.Wrapf(err, "log level %q", c.Level)
	}
	return level, nil
}

// New builds a logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	level, err := cfg.level()
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(getEncoder(cfg.Format), getLogWriter(cfg), level)
	return zap.New(core, zap.AddCaller()), nil
}

func getEncoder(format string) zapcore.Encoder {
	encodeConfig := zap.NewProductionEncoderConfig()
	encodeConfig.TimeKey = "time"
	encodeConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encodeConfig.EncodeDuration = zapcore.StringDurationEncoder
	encodeConfig.EncodeCaller = zapcore.ShortCallerEncoder
	if format == "json" {
		encodeConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewJSONEncoder(encodeConfig)
	}
	encodeConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(encodeConfig)
}

func getLogWriter(cfg Config) zapcore.WriteSyncer {
	if cfg.File == "" {
		return zapcore.Lock(os.Stderr)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxAge,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	})
}
