package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logging contract used across all adapters and
// services. Details may be nil.
type Logger interface {
	Info(action, message, requestID string, details map[string]interface{})
	Debug(action, message, requestID string, details map[string]interface{})
	Error(action, message, requestID string, details map[string]interface{}, err error)
}

type zapLogger struct {
	z *zap.Logger
}

// New builds a JSON logger for the given service mode. Log level comes from
// LOG_LEVEL, defaulting to info.
func New(service string) Logger {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))))); err != nil {
		level.SetLevel(zapcore.InfoLevel)
	}

	encoderCfg := zapcore.EncoderConfig{
		MessageKey: "message",
		TimeKey:    "timestamp",
		LevelKey:   "level",
		EncodeTime: zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(strings.ToUpper(l.String()))
		},
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.Lock(os.Stdout), level)

	hostname, _ := os.Hostname()
	z := zap.New(core).With(
		zap.String("service", service),
		zap.String("hostname", hostname),
	)

	return &zapLogger{z: z}
}

func (l *zapLogger) Info(action, message, requestID string, details map[string]interface{}) {
	l.z.Info(message, fields(action, requestID, details)...)
}

func (l *zapLogger) Debug(action, message, requestID string, details map[string]interface{}) {
	l.z.Debug(message, fields(action, requestID, details)...)
}

func (l *zapLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
	fs := fields(action, requestID, details)
	if err != nil {
		fs = append(fs, zap.Error(err))
	}
	l.z.Error(message, fs...)
}

func fields(action, requestID string, details map[string]interface{}) []zap.Field {
	fs := []zap.Field{zap.String("action", action)}
	if requestID != "" {
		fs = append(fs, zap.String("request_id", requestID))
	}
	if len(details) > 0 {
		fs = append(fs, zap.Any("details", details))
	}
	return fs
}

// Nop returns a logger that discards everything. Useful in tests.
func Nop() Logger {
	return &zapLogger{z: zap.NewNop()}
}
