package logging

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts a *zap.SugaredLogger to Logger. The context is accepted
// for interface parity; zap does not read from it.
type ZapLogger struct {
	l *zap.SugaredLogger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{l: l.Sugar()}
}

// NewZapLoggerFromOptions builds a production (json) or development (text)
// zap logger writing to opts.Output, or stderr when Output is nil.
func NewZapLoggerFromOptions(opts Options) (*ZapLogger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	var encCfg zapcore.EncoderConfig
	var enc zapcore.Encoder
	if strings.EqualFold(opts.Format, "json") {
		encCfg = zap.NewProductionEncoderConfig()
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg = zap.NewDevelopmentEncoderConfig()
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	var ws zapcore.WriteSyncer
	if opts.Output != nil {
		ws = zapcore.AddSync(opts.Output)
	} else {
		ws = zapcore.Lock(os.Stderr)
	}

	core := zapcore.NewCore(enc, ws, zap.NewAtomicLevelAt(level))
	return NewZapLogger(zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))), nil
}

func (z *ZapLogger) Debug(_ context.Context, msg string, args ...any) {
	z.l.Debugw(msg, args...)
}

func (z *ZapLogger) Info(_ context.Context, msg string, args ...any) {
	z.l.Infow(msg, args...)
}

func (z *ZapLogger) Warn(_ context.Context, msg string, args ...any) {
	z.l.Warnw(msg, args...)
}

func (z *ZapLogger) Error(_ context.Context, msg string, args ...any) {
	z.l.Errorw(msg, args...)
}

func (z *ZapLogger) With(args ...any) Logger {
	return &ZapLogger{l: z.l.With(args...)}
}

// Sync flushes buffered entries.
func (z *ZapLogger) Sync() error {
	return z.l.Sync()
}
