// Package log defines the logger interface used in rsyncgen.
package log

import (
	"log"

	"go.uber.org/zap"
)

// Logger logs messages.
type Logger interface {
	// Printf logs message to the underlaying log output. Arguments are handled in the manner of fmt.Printf.
	Printf(msg string, a ...interface{})
}

// instance is the global instance of the logger.
// Default logger is log.Logger.
var instance Logger = log.Default()

// Default returns the logger currently installed with SetLogger.
func Default() Logger { return instance }

// Printf logs message to the default logger.
func Printf(msg string, a ...interface{}) {
	instance.Printf(msg, a...)
}

// SetLogger overrides the default logger to use in rsyncgen.
// This should be call from the very beggining of the program.
func SetLogger(logger Logger) {
	instance = logger
}

type zapLogger struct {
	s *zap.SugaredLogger
}

func (z zapLogger) Printf(msg string, a ...interface{}) {
	z.s.Infof(msg, a...)
}

// FromZap adapts a zap logger to the Logger interface. Messages are logged at
// info level.
func FromZap(l *zap.Logger) Logger {
	return zapLogger{s: l.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}
