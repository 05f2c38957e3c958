// Package logging sets up the process-wide logger.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init builds a zap logger and redirects the stdlib log package into it so
// every package logs through one sink. When file is non-empty, output goes to
// a rotating log file; otherwise to stderr. Returns a flush function for
// shutdown.
func Init(level, file string) func() {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var sink zapcore.WriteSyncer
	if file != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     14, // days
		})
	} else {
		sink = zapcore.Lock(os.Stderr)
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), sink, ParseLevel(level))
	logger := zap.New(core)

	zap.ReplaceGlobals(logger)
	restore := zap.RedirectStdLog(logger)

	return func() {
		restore()
		logger.Sync()
	}
}

// ParseLevel converts a level string to a zap level. Unknown strings default
// to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
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
