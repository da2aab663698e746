// Package logging is the structured logger every thumblens component takes.
// Callers build fields through this package and never import zap.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Field is one key-value pair of a log entry.
type Field = zap.Field

func String(key, val string) Field                 { return zap.String(key, val) }
func Int(key string, val int) Field                { return zap.Int(key, val) }
func Int64(key string, val int64) Field            { return zap.Int64(key, val) }
func Uint64(key string, val uint64) Field          { return zap.Uint64(key, val) }
func Float64(key string, val float64) Field        { return zap.Float64(key, val) }
func Bool(key string, val bool) Field              { return zap.Bool(key, val) }
func Strings(key string, val []string) Field       { return zap.Strings(key, val) }
func Duration(key string, val time.Duration) Field { return zap.Duration(key, val) }
func Any(key string, val interface{}) Field        { return zap.Any(key, val) }

// Err logs err's message under "error".  A nil err adds nothing.
func Err(err error) Field { return zap.Error(err) }

// Logger is what components log through.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	// Named appends to the logger name, dot separated.
	Named(name string) Logger
}

// LogConfig mirrors the log section of the config file.
type LogConfig struct {
	Level            string   `yaml:"level" json:"level"`
	Format           string   `yaml:"format" json:"format"` // json (default) or console
	OutputPaths      []string `yaml:"output_paths" json:"output_paths"`
	ErrorOutputPaths []string `yaml:"error_output_paths" json:"error_output_paths"`
}

type zapLogger struct{ z *zap.Logger }

func (l zapLogger) Debug(msg string, fields ...Field) { l.z.Debug(msg, fields...) }
func (l zapLogger) Info(msg string, fields ...Field)  { l.z.Info(msg, fields...) }
func (l zapLogger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, fields...) }
func (l zapLogger) Error(msg string, fields ...Field) { l.z.Error(msg, fields...) }
func (l zapLogger) With(fields ...Field) Logger       { return zapLogger{l.z.With(fields...)} }
func (l zapLogger) Named(name string) Logger          { return zapLogger{l.z.Named(name)} }

// ParseLevel maps a level name to zap's; unknown names are info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func encoderConfig(console bool) zapcore.EncoderConfig {
	enc := zap.NewProductionEncoderConfig()
	if console {
		enc = zap.NewDevelopmentEncoderConfig()
	}
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	return enc
}

// NewLogger builds the dashboard server's logger.  Output paths default to
// stdout and stderr; one that cannot be opened is an error.
func NewLogger(cfg LogConfig) (Logger, error) {
	if len(cfg.OutputPaths) == 0 {
		cfg.OutputPaths = []string{"stdout"}
	}
	if len(cfg.ErrorOutputPaths) == 0 {
		cfg.ErrorOutputPaths = []string{"stderr"}
	}
	console := cfg.Format == "console"
	encoding := "json"
	if console {
		encoding = "console"
	}

	z, err := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(cfg.Level)),
		Development:      console,
		Encoding:         encoding,
		EncoderConfig:    encoderConfig(console),
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: cfg.ErrorOutputPaths,
	}.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return zapLogger{z}, nil
}

// NewLoggerFromCore wraps core; tests pass a zaptest buffer core.
func NewLoggerFromCore(core zapcore.Core) Logger {
	return zapLogger{zap.New(core, zap.AddCallerSkip(1))}
}

// NewWriterLogger is the CLI's logger: console lines at level and above
// on w.
func NewWriterLogger(w io.Writer, level string) Logger {
	return NewLoggerFromCore(zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig(true)), zapcore.AddSync(w), ParseLevel(level)))
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...Field) {}
func (nopLogger) Info(string, ...Field)  {}
func (nopLogger) Warn(string, ...Field)  {}
func (nopLogger) Error(string, ...Field) {}
func (n nopLogger) With(...Field) Logger { return n }
func (n nopLogger) Named(string) Logger  { return n }

func NewNopLogger() Logger { return nopLogger{} }

// PrintfLogger is the printf-style logger pkg/client accepts.
type PrintfLogger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type printf struct{ l Logger }

func (p printf) Debugf(format string, args ...interface{}) { p.l.Debug(fmt.Sprintf(format, args...)) }
func (p printf) Infof(format string, args ...interface{})  { p.l.Info(fmt.Sprintf(format, args...)) }
func (p printf) Errorf(format string, args ...interface{}) { p.l.Error(fmt.Sprintf(format, args...)) }

// Printf adapts l for pkg/client.  A nil l discards.
func Printf(l Logger) PrintfLogger {
	if l == nil {
		l = nopLogger{}
	}
	return printf{l}
}
