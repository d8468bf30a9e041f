package main

import (
	"os"

	"github.com/kiteco/pycall/kite-golib/kitelog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger logs JSON lines with RFC3339 timestamps to stderr, leaving stdout
// for diagnostics. Levels below error are dropped unless debug is set.
func newLogger(debug bool) *zap.Logger {
	isErrorLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})
	isInfoLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return debug && lvl < zapcore.ErrorLevel
	})

	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.RFC3339TimeEncoder
	encoder := zapcore.NewJSONEncoder(config)

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), isErrorLevel),
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), isInfoLevel),
	)
	return zap.New(core, zap.AddCaller())
}

// contextLogger routes the library logging carried by kitectx through zap
func contextLogger(l *zap.Logger, debug bool) *kitelog.Logger {
	return &kitelog.Logger{
		Default: zap.NewStdLog(l),
		Verbose: debug,
	}
}
