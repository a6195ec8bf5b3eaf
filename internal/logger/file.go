package logger

import (
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileWriter returns a size rotated log file writer.
// Terminal output is owned by the screen, so logs go to a file when one is set.
func FileWriter(path string, maxSizeMB, maxBackups int) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}
}
