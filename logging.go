package rig

import "go.uber.org/zap"

// Logger is the seam the resolver and assembler log through. Like the
// teacher's GetLogger helper, logging is treated as a collaborator the
// pipeline is handed rather than a package-level global.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field is one structured key-value pair attached to a log line.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, value any) Field { return Field{Key: key, Value: value} }

// nopLogger discards everything; it is the default when no Logger is wired.
type nopLogger struct{}

func (nopLogger) Debug(string, ...Field) {}
func (nopLogger) Info(string, ...Field)  {}
func (nopLogger) Warn(string, ...Field)  {}
func (nopLogger) Error(string, ...Field) {}

// NewNopLogger returns a Logger that discards every line.
func NewNopLogger() Logger { return nopLogger{} }

// zapLogger adapts *zap.Logger to Logger.
type zapLogger struct {
	z *zap.Logger
}

// NewZapLogger wraps an existing *zap.Logger.
func NewZapLogger(z *zap.Logger) Logger {
	if z == nil {
		return NewNopLogger()
	}
	return &zapLogger{z: z}
}

func toZapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		out[i] = zap.Any(f.Key, f.Value)
	}
	return out
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.z.Debug(msg, toZapFields(fields)...) }
func (l *zapLogger) Info(msg string, fields ...Field)  { l.z.Info(msg, toZapFields(fields)...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, toZapFields(fields)...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.z.Error(msg, toZapFields(fields)...) }

// logDiagnostic logs a diagnostic at a severity matching its taxonomy kind.
func logDiagnostic(logger Logger, d *Diagnostic) {
	fields := []Field{F("code", d.Code)}
	if d.Part != "" {
		fields = append(fields, F("part", string(d.Part)))
	}
	switch d.Code {
	case CodeCycleError, CodeConstructionFailure, CodeNotificationFailure:
		logger.Error(d.Message, fields...)
	default:
		logger.Warn(d.Message, fields...)
	}
}
