package log

import (
	"fmt"
	"io"
	"os"

	"github.com/cryptix-os/helix/types"
)

var defaultLogger *Logger

// exit is swapped in tests
var exit = os.Exit

// Make sure default logger instantiated by default.
func init() {
	defaultLogger = New(os.Stdout)
	defaultLogger.SetInfo(true)
	defaultLogger.SetWarn(true)
	defaultLogger.SetError(true)
}

// InitDefault creates default logger for package-level logging access.
func InitDefault(output io.Writer, config *types.Config) {
	defaultLogger = New(output)
	defaultLogger.SetInfo(true)
	defaultLogger.SetWarn(true)
	defaultLogger.SetError(true)

	if config == nil {
		return
	}

	if config.RunConfig.ShowDebug {
		defaultLogger.SetTrace(true)
		defaultLogger.SetWarn(true)
		defaultLogger.SetError(true)
	} else {
		defaultLogger.SetWarn(config.RunConfig.ShowWarnings)
		defaultLogger.SetError(config.RunConfig.ShowErrors)
	}

	if config.RunConfig.Quiet {
		defaultLogger.SetInfo(false)
	}
}

// Trace logs trace-level message using default logger.
func Trace(message string, a ...interface{}) {
	defaultLogger.Tracef(message, a...)
}

// Info logs info-level message using default logger.
func Info(message string, a ...interface{}) {
	defaultLogger.Infof(message, a...)
}

// Warn logs warning-level message using default logger.
func Warn(message string, a ...interface{}) {
	defaultLogger.Warnf(message, a...)
}

// Errorf logs error-level formatted string message using default logger.
func Errorf(message string, a ...interface{}) {
	defaultLogger.Errorf(message, a...)
}

// Error logs error-level message using default logger.
func Error(err error) {
	defaultLogger.Error(err)
}

// Fatal logs fatal-level message using default logger then calls os.Exit(1).
func Fatal(message string, a ...interface{}) {
	defaultLogger.Fatalf(message, a...)
	exit(1)
}

// Panic logs fatal-level message using default logger then calls panic().
func Panic(message string, a ...interface{}) {
	defaultLogger.Fatalf(message, a...)
	panic(fmt.Sprintf(message+"\n", a...))
}
