package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"docstore/internal/config"
)

// New builds the application JSON logger writing to stdout.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	return NewWithWriter(os.Stdout, cfg.Level, cfg.Location())
}

// NewWithWriter builds a JSON logger writing to w. Timestamps are rendered
// in loc as RFC 3339 with nanoseconds under the "ts" key.
func NewWithWriter(w io.Writer, level string, loc *time.Location) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.In(loc).Format(time.RFC3339Nano))
	}
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(w), lvl)
	return zap.New(core, zap.AddCaller()), nil
}
