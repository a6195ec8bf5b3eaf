package logger

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/SyntropyNet/nethealth/internal/env"
)

const (
	DebugLevel = iota
	InfoLevel
	WarningLevel
	ErrorLevel
	logLevelsCount // actually not a real log level, but simplifies some code
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

var logrusLevels = [logLevelsCount]logrus.Level{
	DebugLevel:   logrus.DebugLevel,
	InfoLevel:    logrus.InfoLevel,
	WarningLevel: logrus.WarnLevel,
	ErrorLevel:   logrus.ErrorLevel,
}

func logLevelString(level int) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarningLevel:
		return "WARNING"
	case ErrorLevel:
		return "ERROR"
	default:
		return "?????"
	}
}

// ParseLevel converts level name to level. Unknown names fall back to warning.
func ParseLevel(name string) int {
	switch strings.ToUpper(name) {
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARNING", "WARN":
		return WarningLevel
	case "ERROR":
		return ErrorLevel
	default:
		return WarningLevel
	}
}

// LogrusLevel maps level to logrus level. Out of range levels are clamped.
func LogrusLevel(level int) logrus.Level {
	level = min(max(level, DebugLevel), ErrorLevel)
	return logrusLevels[level]
}

// New creates a logger writing to all writers. Without writers everything
// is discarded.
func New(level int, format string, writers ...io.Writer) *logrus.Logger {
	lgr := logrus.New()
	lgr.SetLevel(LogrusLevel(level))
	lgr.SetFormatter(newFormatter(format))

	switch len(writers) {
	case 0:
		lgr.SetOutput(io.Discard)
	case 1:
		lgr.SetOutput(writers[0])
	default:
		lgr.SetOutput(io.MultiWriter(writers...))
	}
	return lgr
}

func newFormatter(format string) logrus.Formatter {
	if strings.EqualFold(format, FormatJSON) {
		return &logrus.JSONFormatter{
			TimestampFormat: env.TimeFormat,
		}
	}
	return &logrus.TextFormatter{
		TimestampFormat: env.TimeFormat,
		FullTimestamp:   true,
		DisableColors:   true,
	}
}
