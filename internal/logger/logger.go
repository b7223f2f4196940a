package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

// Init builds the process-wide JSON logger. Level comes from LOG_LEVEL
// (default info).
func Init() {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(os.Stdout),
		levelFromEnv(),
	)

	log = zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))
}

func levelFromEnv() zapcore.Level {
	switch os.Getenv("LOG_LEVEL") {
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

func Info(msg string, fields map[string]any) {
	log.Info(msg, zapFields(fields)...)
}

func Warn(msg string, fields map[string]any) {
	log.Warn(msg, zapFields(fields)...)
}

func Error(msg string, fields map[string]any) {
	log.Error(msg, zapFields(fields)...)
}

func Fatal(msg string, fields map[string]any) {
	log.Fatal(msg, zapFields(fields)...)
}

// Sync flushes buffered entries. Safe to call on shutdown.
func Sync() {
	_ = log.Sync()
}

func zapFields(fields map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}
