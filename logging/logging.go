package logging

import (
	"fmt"
	"io"
	"os"
)

var initErrors []string

func initError(message string) {
	initErrors = append(initErrors, message)
}

// New builds a logger writing to syslog at syslogLevel and to logPath (stderr when empty)
// at logLevel. Levels are NEVER, DEBUG, INFO, WARN, ERROR or CRITICAL; formats are
// text, json or human.
func New(syslogLevel, logLevel, logPath, logFormat string) Logger {
	out := openOutput(logLevel, logPath)
	return flushInitErrors(newLogger(
		levelStringToLevel(syslogLevel),
		out,
		levelStringToLevel(logLevel),
		formatToEnum(logFormat),
	))
}

// NewWithWriter builds a logger that only writes to w.
func NewWithWriter(w io.Writer, logLevel, logFormat string) Logger {
	return flushInitErrors(newLogger(levelNever, w, levelStringToLevel(logLevel), formatToEnum(logFormat)))
}

func flushInitErrors(l Logger) Logger {
	for _, message := range initErrors {
		l.Error(message, Fields{})
	}
	initErrors = nil
	return l
}

func openOutput(logLevel, logPath string) io.Writer {
	if levelStringToLevel(logLevel) == levelNever {
		return nil
	}
	if len(logPath) == 0 {
		return os.Stderr
	}
	file, err := os.OpenFile(logPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		initError(fmt.Sprintf("Unable to open file for logging: %v.", err))
		return os.Stderr
	}
	return file
}
