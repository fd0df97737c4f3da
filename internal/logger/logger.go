// Package logger owns the process-wide zap logger. Until Initialize runs every
// call is discarded, which keeps packages quiet under test.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "decentralizeit"

var (
	log   = zap.NewNop()
	files []*os.File
)

type Configuration struct {
	LogFile   string
	ErrorFile string
	Level     string
	Console   bool
}

// Initialize replaces the logger. LogFile receives everything at Level,
// ErrorFile only errors, and Console mirrors LogFile to stdout.
func Initialize(configuration Configuration) error {
	level := parseLevel(configuration.Level)

	var (
		cores  []zapcore.Core
		opened []*os.File
	)
	sinks := []struct {
		path  string
		level zapcore.LevelEnabler
	}{
		{configuration.LogFile, level},
		{configuration.ErrorFile, zapcore.ErrorLevel},
	}
	for _, sink := range sinks {
		if sink.path == "" {
			continue
		}
		f, err := os.OpenFile(sink.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			closeAll(opened)
			return fmt.Errorf("open log file %s: %w", sink.path, err)
		}
		opened = append(opened, f)
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(f), sink.level))
	}

	if configuration.Console {
		console := encoderConfig()
		console.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(console), zapcore.Lock(os.Stdout), level))
	}

	_ = log.Sync()
	closeAll(files)
	files = opened

	log = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)).
		With(zap.String("service", serviceName))
	return nil
}

// parseLevel falls back to info for empty or unknown names.
func parseLevel(name string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func closeAll(fs []*os.File) {
	for _, f := range fs {
		_ = f.Close()
	}
}

func Sync() {
	_ = log.Sync()
}

func Debug(message string, fields ...zap.Field) {
	log.Debug(message, fields...)
}

func Info(message string, fields ...zap.Field) {
	log.Info(message, fields...)
}

func Warn(message string, fields ...zap.Field) {
	log.Warn(message, fields...)
}

func Error(message string, fields ...zap.Field) {
	log.Error(message, fields...)
}

func Fatal(message string, fields ...zap.Field) {
	log.Fatal(message, fields...)
}
