package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config mirrors config.LoggerConfig but avoids importing the config package here.
type Config struct {
	Level    string
	Encoding string
}

// New builds a zap.Logger writing to stderr, keeping stdout for command output.
func New(cfg Config) *zap.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter builds a zap.Logger writing to w.
func NewWithWriter(cfg Config, w io.Writer) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.WarnLevel
	if err := level.Set(cfg.Level); err != nil {
		// fall back to warn level if parsing fails
		level = zapcore.WarnLevel
	}

	var encoder zapcore.Encoder
	switch cfg.Encoding {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	default:
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(
		encoder,
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)

	return zap.New(core, zap.AddCaller())
}
