package logger

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var global atomic.Pointer[logrus.Logger]

func init() {
	// Start with error+warning level to stderr
	SetupGlobalLogger(WarningLevel, FormatText, os.Stderr)
}

func SetupGlobalLogger(level int, format string, writers ...io.Writer) *logrus.Logger {
	lgr := New(level, format, writers...)
	global.Store(lgr)
	return lgr
}

func Global() *logrus.Logger {
	return global.Load()
}

// Level returns configured level name of the global logger
func Level() string {
	return logLevelString(levelOf(Global().GetLevel()))
}

func levelOf(l logrus.Level) int {
	for i, ll := range logrusLevels {
		if ll == l {
			return i
		}
	}
	return ErrorLevel
}
