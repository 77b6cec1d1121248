// Package shared holds the logger, error kinds, configuration and small helpers used across plsaver.
package shared

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger returns a [log.Logger] on w, or stderr when w is nil.
//
// Info level with a short clock; see [EnableDebug].
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "plsaver",
		Level:           log.InfoLevel,
	})
}

// EnableDebug lowers l to debug level and adds caller locations.
func EnableDebug(l *log.Logger) {
	l.SetLevel(log.DebugLevel)
	l.SetReportCaller(true)
}

// GenerateState returns a fresh OAuth state token.
func GenerateState() string {
	return uuid.NewString()
}
