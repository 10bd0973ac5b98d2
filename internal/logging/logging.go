// File: internal/logging/logging.go (complete file)

package logging

import (
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/discard"
)

// Logger is the logging surface the rest of the module depends on.
// It is satisfied out of the box by log.Log and by *log.Logger.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

// Discard drops everything.
var Discard Logger = &log.Logger{Handler: discard.Default, Level: log.FatalLevel}

// Setup installs a CLI handler writing to w (stderr when nil) as the
// process-wide apex logger and returns it. Packages that are not handed an
// explicit Logger fall back to log.Log.
func Setup(w io.Writer, level string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := New(w, level)
	log.Log = l
	return l
}

func New(w io.Writer, level string) *log.Logger {
	return &log.Logger{
		Handler: cli.New(w),
		Level:   ParseLevel(level),
	}
}

// ParseLevel maps a user supplied level to an apex level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// OrDefault returns l, or the process-wide apex logger when l is nil.
func OrDefault(l Logger) Logger {
	if l != nil {
		return l
	}
	return log.Log
}
