// Package diag provides clox's opt-in diagnostic logger: a stderr-only
// logrus.Logger used for --trace instruction logging and GC cycle
// summaries. It never touches the stdout/stderr streams `print` and
// script-level errors write to — those go through the writers engine.Run
// was given directly, so a script's observable behavior never depends on
// whether this logger is enabled.
package diag

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus.Logger configured for clox's diagnostic output.
type Logger struct {
	log *logrus.Logger
}

// New returns a Logger writing to w at level (logrus.WarnLevel when enabled
// is false, logrus.DebugLevel when --trace turns tracing on).
func New(w io.Writer, enabled bool) *Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: false})
	if enabled {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return &Logger{log: log}
}

// Tracef logs one instruction-trace or GC line at debug level. cmd/clox
// installs it as the engine's trace callback only when --trace is set;
// without it the VM and GC keep a nil callback and log nothing.
func (l *Logger) Tracef(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}
