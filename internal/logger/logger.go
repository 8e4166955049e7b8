// Package logger adapts op/go-logging to the leveled printf logger used by
// the service packages.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/op/go-logging"
)

const (
	// Module is the go-logging module all service loggers write under
	Module     = "enroll"
	timeFormat = "2006/01/02 15:04:05"
)

// Logger implements auth.Logger and the other package logger interfaces.
type Logger struct {
	log   *logging.Logger
	scope string
}

// New builds a logger writing to w at level. Unknown levels fall back to INFO.
func New(level string, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}

	backend := logging.NewLogBackend(w, "", 0)
	format := logging.MustStringFormatter(`%{time:` + timeFormat + `} %{level:.4s} %{module} %{message}`)
	leveled := logging.AddModuleLevel(logging.NewBackendFormatter(backend, format))
	leveled.SetLevel(ParseLevel(level), Module)

	l := logging.MustGetLogger(Module)
	l.SetBackend(leveled)

	return &Logger{log: l}
}

// ParseLevel maps names such as "debug" or "WARNING" to a go-logging level
func ParseLevel(level string) logging.Level {
	name := strings.ToUpper(strings.TrimSpace(level))
	if name == "WARN" {
		name = "WARNING"
	}
	lvl, err := logging.LogLevel(name)
	if err != nil {
		return logging.INFO
	}
	return lvl
}

// Named returns a logger that prefixes messages with scope
func (l *Logger) Named(scope string) *Logger {
	return &Logger{log: l.log, scope: scope}
}

func (l *Logger) Debug(format string, args ...any) {
	l.log.Debugf(l.prefix(format), args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.log.Infof(l.prefix(format), args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.log.Warningf(l.prefix(format), args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.log.Errorf(l.prefix(format), args...)
}

func (l *Logger) prefix(format string) string {
	if l.scope == "" {
		return format
	}
	return "[" + l.scope + "] " + format
}
