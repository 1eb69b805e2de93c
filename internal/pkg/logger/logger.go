// Package logger adapts logrus to ports.Logger.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/doeshing/alfred-sf/internal/ports"
)

// LogrusLogger routes application logs to stderr through logrus.
type LogrusLogger struct {
	entry *logrus.Entry
}

// New creates a logger writing to stderr. Verbose enables debug and info output;
// otherwise only warnings and errors are emitted.
func New(verbose bool) *LogrusLogger {
	return NewWithWriter(os.Stderr, verbose)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, verbose bool) *LogrusLogger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	l.SetLevel(logrus.WarnLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return &LogrusLogger{entry: logrus.NewEntry(l)}
}

// NewNop returns a logger that discards everything.
func NewNop() *LogrusLogger {
	return NewWithWriter(io.Discard, false)
}

// With returns a logger that attaches fields to every record.
func (l *LogrusLogger) With(fields map[string]interface{}) *LogrusLogger {
	return &LogrusLogger{entry: l.entry.WithFields(fields)}
}

func (l *LogrusLogger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Debug(msg)
}

func (l *LogrusLogger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Info(msg)
}

func (l *LogrusLogger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Warn(msg)
}

func (l *LogrusLogger) Error(msg string, err error, fields map[string]interface{}) {
	l.entry.WithFields(fields).WithError(err).Error(msg)
}

var _ ports.Logger = (*LogrusLogger)(nil)
