package log

import (
	"fmt"
	"io"
	"strings"
)

// Logger filters and prints messages to a destination
type Logger struct {
	output io.Writer
	trace  bool
	info   bool
	warn   bool
	err    bool
}

// New returns an instance of Logger
func New(output io.Writer) *Logger {
	return &Logger{output, false, false, false, false}
}

// SetTrace activates/deactivates trace level
func (l *Logger) SetTrace(value bool) {
	l.trace = value
}

// SetInfo activates/deactivates info level
func (l *Logger) SetInfo(value bool) {
	l.info = value
}

// SetWarn activates/deactivates warn level
func (l *Logger) SetWarn(value bool) {
	l.warn = value
}

// SetError activates/deactivates error level
func (l *Logger) SetError(value bool) {
	l.err = value
}

func (l *Logger) logLevel(level Level, format string, a ...interface{}) {
	msg := strings.TrimSuffix(fmt.Sprintf(format, a...), "\n")
	fmt.Fprintf(l.output, "%s: %s\n", level.Tag(), msg)
}

// Trace checks trace level is activated to write the message
func (l *Logger) Trace(a ...interface{}) {
	if l.trace {
		l.logLevel(LevelTrace, "%s", fmt.Sprint(a...))
	}
}

// Tracef checks trace level is activated to write the formatted message
func (l *Logger) Tracef(format string, a ...interface{}) {
	if l.trace {
		l.logLevel(LevelTrace, format, a...)
	}
}

// Info checks info level is activated to write the message
func (l *Logger) Info(a ...interface{}) {
	if l.info {
		l.logLevel(LevelInfo, "%s", fmt.Sprint(a...))
	}
}

// Infof checks info level is activated to write the formatted message
func (l *Logger) Infof(format string, a ...interface{}) {
	if l.info {
		l.logLevel(LevelInfo, format, a...)
	}
}

// Warn checks warn level is activated to write the message
func (l *Logger) Warn(a ...interface{}) {
	if l.warn {
		l.logLevel(LevelWarn, "%s", fmt.Sprint(a...))
	}
}

// Warnf checks warn level is activated to write the formatted message
func (l *Logger) Warnf(format string, a ...interface{}) {
	if l.warn {
		l.logLevel(LevelWarn, format, a...)
	}
}

// Error checks error level is activated to write error object
func (l *Logger) Error(err error) {
	if l.err {
		l.logLevel(LevelError, "%s", err.Error())
	}
}

// Errorf checks error level is activated to write the formatted message
func (l *Logger) Errorf(format string, a ...interface{}) {
	if l.err {
		l.logLevel(LevelError, format, a...)
	}
}

// Fatalf writes the formatted message regardless of the active levels
func (l *Logger) Fatalf(format string, a ...interface{}) {
	l.logLevel(LevelFatal, format, a...)
}
