// Package log wraps go.uber.org/zap with the level selection and output
// format spec.md's ambient stack calls for: a single global logger
// configured once at startup from cmn.Config.LogLevel, in the same
// construct-once-at-entrypoint spirit as the teacher's glog setup in
// ais/earlystart.go (not present in this retrieval, so the next best
// corpus match -- go.uber.org/zap, already a direct dependency of two
// other repos in this pack -- replaces it).
/*
 * Copyright (c) 2018-2020, NVIDIA CORPORATION. All rights reserved.
 */
package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global *zap.SugaredLogger = mustBuild("INFO")

func mustBuild(level string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.EncoderConfig.TimeKey = "ts"
	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return l.Sugar()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Init rebuilds the global logger at the given level, called once from
// cmd/bucketsd after config load.
func Init(level string) {
	global = mustBuild(level)
}

func Infof(format string, args ...interface{})  { global.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { global.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { global.Errorf(format, args...) }
func Debugf(format string, args ...interface{}) { global.Debugf(format, args...) }

// Sync flushes any buffered log entries; call before process exit.
func Sync() { _ = global.Sync() }
