// Package logger provides a structured logging interface for applications.
package logger

import (
	"github.com/code19m/errx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	messageKey = "msg"
	levelKey   = "level"
	nameKey    = "logger"
	timeKey    = "time"

	encJSON    = "json"
	encPretty  = "pretty"
	levelDebug = "debug"
)

// Config defines configuration options for the logger.
type Config struct {
	// Level is the minimum level to emit: "debug", "info", "warn" or "error".
	Level string `yaml:"level" validate:"oneof=debug info warn error" default:"info"`

	// Encoding is "json" for compact machine-readable lines or "pretty"
	// for colorized, indented terminal output.
	Encoding string `yaml:"encoding" validate:"oneof=json pretty" default:"json"`

	// Disable creates a no-op logger.
	Disable bool `yaml:"disable" default:"false"`
}

func (c Config) level() (zap.AtomicLevel, error) {
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return lvl, errx.Wrap(err)
	}
	return lvl, nil
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     messageKey,
		LevelKey:       levelKey,
		NameKey:        nameKey,
		TimeKey:        timeKey,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
}

func (c Config) zapConfig() (*zap.Config, error) {
	lvl, err := c.level()
	if err != nil {
		return nil, err
	}

	return &zap.Config{
		Level:            lvl,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		Encoding:         encJSON,
		EncoderConfig:    encoderConfig(),
	}, nil
}
