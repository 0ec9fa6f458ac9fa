// Package logger собирает zap логгер сервиса.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "hk-smart-transport"

// Форматы вывода
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New создает логгер с полем service. Неизвестный уровень заменяется на info.
// Пустой format выбирает console для debug и json для остальных уровней.
func New(level, format string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatJSON
		if zapLevel == zapcore.DebugLevel {
			format = FormatConsole
		}
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Encoding:         FormatJSON,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields:    map[string]interface{}{"service": serviceName},
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if format == FormatConsole {
		config.Development = true
		config.Encoding = FormatConsole
		config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return config.Build()
}
