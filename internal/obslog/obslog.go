/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package obslog is the server's structured logging layer: a thin zap
// wrapper with log rotation, in the shape of packetd's logger package,
// the sibling example this teacher has no logging package of its own to
// draw from.
package obslog

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level names a logging verbosity, matched case-insensitively against
// Options.Level.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

func toZapLevel(l string) zapcore.Level {
	levels := map[Level]zapcore.Level{
		LevelDebug: zapcore.DebugLevel,
		LevelInfo:  zapcore.InfoLevel,
		LevelWarn:  zapcore.WarnLevel,
		LevelError: zapcore.ErrorLevel,
	}
	if level, ok := levels[Level(strings.ToLower(strings.TrimSpace(l)))]; ok {
		return level
	}
	return zapcore.InfoLevel
}

// Options configures New. It mirrors the config fields svcconfig reads
// out of the server's configuration file.
type Options struct {
	Stdout     bool   `config:"stdout"`
	Level      string `config:"level"`
	Filename   string `config:"filename"`
	MaxSize    int    `config:"maxSize"` // megabytes
	MaxAge     int    `config:"maxAge"`  // days
	MaxBackups int    `config:"maxBackups"`
}

// Logger is the server-wide structured logger. The zero value is not
// usable; construct one with New.
type Logger struct {
	sugared *zap.SugaredLogger
}

// Debug, Info, Warn and Error log msg with an even list of key/value
// fields, matching zap's SugaredLogger.*w calling convention
// (internal/connio.Logger is satisfied by Warn alone).
func (l Logger) Debug(msg string, fields ...any) { l.sugared.Debugw(msg, fields...) }
func (l Logger) Info(msg string, fields ...any)  { l.sugared.Infow(msg, fields...) }
func (l Logger) Warn(msg string, fields ...any)  { l.sugared.Warnw(msg, fields...) }
func (l Logger) Error(msg string, fields ...any) { l.sugared.Errorw(msg, fields...) }

// Sync flushes any buffered log entries. Call it once at shutdown.
func (l Logger) Sync() error { return l.sugared.Sync() }

// New builds a Logger from opt: console-encoded to stdout, or JSON to a
// lumberjack-rotated file.
func New(opt Options) (Logger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Local().Format("2006-01-02 15:04:05.000"))
	}
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	var (
		w       zapcore.WriteSyncer
		encoder zapcore.Encoder
	)
	switch {
	case opt.Stdout:
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
		w = zapcore.AddSync(os.Stdout)
	default:
		if err := os.MkdirAll(filepath.Dir(opt.Filename), 0o755); err != nil {
			return Logger{}, err
		}
		encoder = zapcore.NewJSONEncoder(encoderConfig)
		w = zapcore.AddSync(&lumberjack.Logger{
			Filename:   opt.Filename,
			MaxSize:    opt.MaxSize,
			MaxBackups: opt.MaxBackups,
			MaxAge:     opt.MaxAge,
			LocalTime:  true,
		})
	}

	core := zapcore.NewCore(encoder, w, toZapLevel(opt.Level))
	return Logger{sugared: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()}, nil
}
