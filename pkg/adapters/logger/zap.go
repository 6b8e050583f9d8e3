package logger

import (
	"github.com/ideamans/go-l10n"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/user/maskpaint/pkg/ports"
)

// ZapLogger adapts a zap.Logger to ports.Logger for the proxy server.
type ZapLogger struct {
	z *zap.Logger
}

// NewZap builds a zap logger for the gin mode: production JSON for "release",
// coloured development output otherwise.
func NewZap(mode string) (*ZapLogger, error) {
	var cfg zap.Config
	if mode == "release" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &ZapLogger{z: z}, nil
}

// WrapZap wraps an existing zap.Logger.
func WrapZap(z *zap.Logger) *ZapLogger {
	return &ZapLogger{z: z}
}

// Zap exposes the underlying logger for structured fields.
func (l *ZapLogger) Zap() *zap.Logger {
	return l.z
}

func (l *ZapLogger) Debug(msg string, args ...interface{}) {
	l.z.Debug(l10n.F(msg, args...))
}

func (l *ZapLogger) Info(msg string, args ...interface{}) {
	l.z.Info(l10n.F(msg, args...))
}

func (l *ZapLogger) Warn(msg string, args ...interface{}) {
	l.z.Warn(l10n.F(msg, args...))
}

func (l *ZapLogger) Error(msg string, args ...interface{}) {
	l.z.Error(l10n.F(msg, args...))
}

// WithComponent returns a logger carrying a "component" field.
func (l *ZapLogger) WithComponent(component string) ports.Logger {
	return &ZapLogger{z: l.z.With(zap.String("component", component))}
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() {
	_ = l.z.Sync()
}

var _ ports.Logger = (*ZapLogger)(nil)
