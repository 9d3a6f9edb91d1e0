package logger

import (
	"context"
	"fmt"
	"strings"

	"github.com/muhammadchandra19/signal-engine/pkg/errors"
	"github.com/muhammadchandra19/signal-engine/pkg/util"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Interface is the structured logger every component receives.
//
//go:generate mockgen -source log.go -destination=mock/log_mock.go -package=logger_mock
type Interface interface {
	Debug(message string, fields ...Field)
	DebugContext(ctx context.Context, message string, fields ...Field)
	Info(message string, fields ...Field)
	InfoContext(ctx context.Context, message string, fields ...Field)
	Warn(message string, fields ...Field)
	WarnContext(ctx context.Context, message string, fields ...Field)
	Error(err error, fields ...Field)
	ErrorContext(ctx context.Context, err error, fields ...Field)
	WithFields(fields ...Field) Interface
	Sync() error
}

// Logger writes JSON entries through zap.
type Logger struct {
	logger *zap.Logger
}

var _ Interface = (*Logger)(nil)

// Field holds key-value to be written to log.
type Field struct {
	Key   string
	Value any
}

// NewField returns Field with given key and value.
func NewField(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Level represents the severity level of the log.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

var zapLevels = map[Level]zapcore.Level{
	DebugLevel: zapcore.DebugLevel,
	InfoLevel:  zapcore.InfoLevel,
	WarnLevel:  zapcore.WarnLevel,
	ErrorLevel: zapcore.ErrorLevel,
}

// ParseLevel maps a configuration string to a Level, falling back to InfoLevel.
func ParseLevel(level string) Level {
	l := Level(strings.ToLower(strings.TrimSpace(level)))
	if _, ok := zapLevels[l]; ok {
		return l
	}
	return InfoLevel
}

type options struct {
	level       Level
	outputPaths []string
	encoding    string
	fields      []Field
}

// Option configures NewLogger.
type Option func(*options)

// WithLoggingLevel sets the minimum level written. Info is used when unset.
func WithLoggingLevel(level Level) Option {
	return func(o *options) { o.level = level }
}

// WithOutputPaths replaces stdout with the given zap sinks ("stdout", "stderr" or file paths).
func WithOutputPaths(paths ...string) Option {
	return func(o *options) { o.outputPaths = paths }
}

// WithConsoleEncoding switches from JSON to the human readable console encoder.
func WithConsoleEncoding() Option {
	return func(o *options) { o.encoding = "console" }
}

// WithInitialFields attaches fields to every entry, e.g. the service name and environment.
func WithInitialFields(fields ...Field) Option {
	return func(o *options) { o.fields = append(o.fields, fields...) }
}

// NewLogger builds a production zap logger adjusted by opts.
func NewLogger(opts ...Option) (*Logger, error) {
	o := options{level: InfoLevel}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevels[ParseLevel(string(o.level))])
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if o.outputPaths != nil {
		cfg.OutputPaths = o.outputPaths
	}
	if o.encoding != "" {
		cfg.Encoding = o.encoding
	}

	zl, err := cfg.Build(zap.Fields(toZap(o.fields)...))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &Logger{logger: zl}, nil
}

// NewNop returns a Logger that discards every entry.
func NewNop() *Logger {
	return &Logger{logger: zap.NewNop()}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.logger.Sync()
}

func (l *Logger) Debug(message string, fields ...Field) {
	l.logger.Debug(message, toZap(fields)...)
}

func (l *Logger) DebugContext(ctx context.Context, message string, fields ...Field) {
	l.Debug(message, withContext(ctx, fields)...)
}

func (l *Logger) Info(message string, fields ...Field) {
	l.logger.Info(message, toZap(fields)...)
}

func (l *Logger) InfoContext(ctx context.Context, message string, fields ...Field) {
	l.Info(message, withContext(ctx, fields)...)
}

func (l *Logger) Warn(message string, fields ...Field) {
	l.logger.Warn(message, toZap(fields)...)
}

func (l *Logger) WarnContext(ctx context.Context, message string, fields ...Field) {
	l.Warn(message, withContext(ctx, fields)...)
}

// Error logs err as the message. When err carries a pkg/errors stack trace
// it replaces the one zap would capture at the call site.
func (l *Logger) Error(err error, fields ...Field) {
	ce := l.logger.Check(zapcore.ErrorLevel, err.Error())
	if ce == nil {
		return
	}
	if tracer, ok := err.(errors.StackTracer); ok {
		if stack := strings.TrimSpace(fmt.Sprintf("%+v", tracer.StackTrace())); stack != "" {
			ce.Stack = stack
		}
	}
	ce.Write(toZap(fields)...)
}

func (l *Logger) ErrorContext(ctx context.Context, err error, fields ...Field) {
	l.Error(err, withContext(ctx, fields)...)
}

// WithFields returns a child logger with additional fields.
func (l *Logger) WithFields(fields ...Field) Interface {
	return &Logger{logger: l.logger.With(toZap(fields)...)}
}

func toZap(fields []Field) []zapcore.Field {
	zapFields := make([]zapcore.Field, 0, len(fields))
	for _, field := range fields {
		zapFields = append(zapFields, zap.Any(field.Key, field.Value))
	}
	return zapFields
}

// withContext appends the request id and, when set, the symbol carried by ctx.
func withContext(ctx context.Context, fields []Field) []Field {
	fields = append(fields, NewField("request_id", util.GetRequestID(ctx)))
	if symbol := util.GetSymbol(ctx); symbol != "" {
		fields = append(fields, NewField("symbol", symbol))
	}
	return fields
}
