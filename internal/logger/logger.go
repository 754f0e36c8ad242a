package logger

import (
	"fmt"
	"io"
	"log"
	"os"
)

type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelNone:
		return "none"
	case LogLevelError:
		return "error"
	case LogLevelWarning:
		return "warn"
	case LogLevelInfo:
		return "info"
	case LogLevelDebug:
		return "debug"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

type Logger struct {
	base  *log.Logger
	level LogLevel
	tag   string
}

// NewLogger wraps base with level filtering. A nil base discards everything.
func NewLogger(base *log.Logger, level LogLevel) *Logger {
	if base == nil {
		base = log.New(io.Discard, "", 0)
	}
	return &Logger{base: base, level: level}
}

// NewStdLogger builds the service logger on stdout. Under systemd the
// journal adds its own timestamps, so none are printed.
func NewStdLogger(level LogLevel) *Logger {
	if os.Getenv("INVOCATION_ID") != "" {
		return NewLogger(log.New(os.Stdout, "", 0), level)
	}
	return NewLogger(log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds|log.Lmsgprefix), level)
}

// WithTag creates a new logger with a tag prefix
func (l *Logger) WithTag(tag string) *Logger {
	return &Logger{base: l.base, level: l.level, tag: tag}
}

func (l *Logger) Level() LogLevel {
	return l.level
}

func (l *Logger) prefix(level string, format string) string {
	switch {
	case l.tag != "" && level != "":
		return "[" + l.tag + "] " + level + " " + format
	case l.tag != "":
		return "[" + l.tag + "] " + format
	case level != "":
		return level + " " + format
	}
	return format
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	if l.level >= LogLevelDebug {
		l.base.Printf(l.prefix("DEBUG:", format), v...)
	}
}

func (l *Logger) Infof(format string, v ...interface{}) {
	if l.level >= LogLevelInfo {
		l.base.Printf(l.prefix("", format), v...)
	}
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	if l.level >= LogLevelWarning {
		l.base.Printf(l.prefix("WARN:", format), v...)
	}
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	if l.level >= LogLevelError {
		l.base.Printf(l.prefix("ERROR:", format), v...)
	}
}

func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.base.Fatalf(l.prefix("FATAL:", format), v...)
}
