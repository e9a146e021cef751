// Package logging routes run progress to logrus, on the console and
// optionally appended to a log file.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/handiism/studio-images/internal/download"
)

// Logger is a logrus logger with an optional file sink.
type Logger struct {
	*logrus.Logger
	file *os.File
}

// New creates a Logger writing to console and, when logFile is set, to
// logFile (created with its parent directory and appended to). A nil
// console discards console output. Verbose enables debug level.
func New(logFile string, verbose bool, console io.Writer) (*Logger, error) {
	l := &Logger{Logger: logrus.New()}
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l.SetLevel(logrus.InfoLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}

	var writers []io.Writer
	if console != nil {
		writers = append(writers, console)
	}

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		l.file = f
		writers = append(writers, f)
	}

	switch len(writers) {
	case 0:
		l.SetOutput(io.Discard)
	case 1:
		l.SetOutput(writers[0])
	default:
		l.SetOutput(io.MultiWriter(writers...))
	}
	return l, nil
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Handle logs a progress event at the matching level. It has the signature
// expected by download.NewManager.
func (l *Logger) Handle(event download.ProgressEvent) {
	switch event.Level {
	case download.LevelVerbose:
		l.Debug(event.Message)
	case download.LevelWarning:
		l.Warn(event.Message)
	case download.LevelError:
		l.Error(event.Message)
	case download.LevelSuccess:
		l.WithField("status", "ok").Info(event.Message)
	default:
		l.Info(event.Message)
	}
}
