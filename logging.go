package udc

import "go.uber.org/zap"

// Logger is the ambient logging surface the engine accepts. A nil Logger is
// valid everywhere and falls back to a no-op, keeping the core package
// usable without any logging dependency configured by the caller.
type Logger struct {
	sugar *zap.SugaredLogger
}

// NewLogger wraps a zap.SugaredLogger. Pass nil to get a logger whose calls
// are all no-ops.
func NewLogger(sugar *zap.SugaredLogger) *Logger {
	return &Logger{sugar: sugar}
}

// NewProductionLogger builds a Logger backed by zap's production config
// (JSON output, info level) for use by cmd/udc.
func NewProductionLogger() (*Logger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &Logger{sugar: z.Sugar()}, nil
}

func (l *Logger) debugf(phase Phase, format string, args ...any) {
	if l == nil || l.sugar == nil {
		return
	}
	l.sugar.Debugw("phase", "phase", string(phase), "message_format", format, "args", args)
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	if l == nil || l.sugar == nil {
		return nil
	}
	return l.sugar.Sync()
}
