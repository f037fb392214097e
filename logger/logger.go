package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger to write to out at level,
// as text or json.
func Setup(level, format string, out io.Writer) error {
	var logLevel logrus.Level
	switch strings.ToLower(level) {
	case "trace":
		logLevel = logrus.TraceLevel
	case "debug":
		logLevel = logrus.DebugLevel
	case "info", "":
		logLevel = logrus.InfoLevel
	case "warn", "warning":
		logLevel = logrus.WarnLevel
	case "error":
		logLevel = logrus.ErrorLevel
	default:
		return fmt.Errorf("logger: unknown level %q", level)
	}

	var formatter logrus.Formatter
	switch strings.ToLower(format) {
	case "json":
		formatter = &logrus.JSONFormatter{}
	case "text", "":
		formatter = &logrus.TextFormatter{FullTimestamp: true}
	default:
		return fmt.Errorf("logger: unknown format %q", format)
	}

	std := logrus.StandardLogger()
	std.SetLevel(logLevel)
	std.SetFormatter(formatter)
	std.SetOutput(out)
	return nil
}

// WithComponent returns a logger with a component field
func WithComponent(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}

// Discard returns a logger that writes nowhere.
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
