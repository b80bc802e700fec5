package logging

import (
	"fmt"
	"io"
	golog "log"
	"log/syslog"
)

type Logger interface {
	Debug(message string, fields Fields)
	Info(message string, fields Fields)
	Warn(message string, fields Fields)
	Error(message string, fields Fields)
	Critical(message string, fields Fields)

	IsDebug() bool
	IsInfo() bool
	IsWarn() bool
	IsError() bool
	IsCritical() bool

	Named(name string) Logger
}

type logger struct {
	name        string
	out         *golog.Logger
	outLevel    level
	syslog      io.Writer
	syslogLevel level
	format      format

	minLevel level
}

func newLogger(syslogLevel level, out io.Writer, outLevel level, format format) *logger {
	if out == nil {
		outLevel = levelNever
	}

	minLevel := syslogLevel
	if outLevel < minLevel {
		minLevel = outLevel
	}

	l := &logger{
		name:        "",
		outLevel:    outLevel,
		syslogLevel: syslogLevel,
		format:      format,
		minLevel:    minLevel,
	}

	if syslogLevel != levelNever {
		syslogger, err := syslog.New(syslog.LOG_USER|syslog.LOG_NOTICE, "")
		if err != nil {
			initError(fmt.Sprintf("Unable to open syslog: %v.", err))
			l.syslogLevel = levelNever
		} else {
			l.syslog = syslogger
		}
	}

	if outLevel != levelNever {
		flags := 0
		if format == formatHuman {
			flags = golog.LstdFlags
		}
		l.out = golog.New(out, "", flags)
	}

	return l
}

func (l *logger) Named(name string) Logger {
	if len(l.name) > 0 && len(name) > 0 {
		name = l.name + "." + name
	}
	return &logger{
		name:        name,
		out:         l.out,
		outLevel:    l.outLevel,
		syslog:      l.syslog,
		syslogLevel: l.syslogLevel,
		format:      l.format,
		minLevel:    l.minLevel,
	}
}

func (l *logger) Debug(message string, fields Fields) {
	l.logAtLevel(levelDebug, message, fields)
}

func (l *logger) Info(message string, fields Fields) {
	l.logAtLevel(levelInfo, message, fields)
}

func (l *logger) Warn(message string, fields Fields) {
	l.logAtLevel(levelWarn, message, fields)
}

func (l *logger) Error(message string, fields Fields) {
	l.logAtLevel(levelError, message, fields)
}

func (l *logger) Critical(message string, fields Fields) {
	l.logAtLevel(levelCritical, message, fields)
}

func (l *logger) IsDebug() bool {
	return l.minLevel <= levelDebug
}

func (l *logger) IsInfo() bool {
	return l.minLevel <= levelInfo
}

func (l *logger) IsWarn() bool {
	return l.minLevel <= levelWarn
}

func (l *logger) IsError() bool {
	return l.minLevel <= levelError
}

func (l *logger) IsCritical() bool {
	return l.minLevel <= levelCritical
}

func (l *logger) logAtLevel(lvl level, message string, fields Fields) {
	if l.minLevel > lvl {
		return
	}

	if l.out != nil && l.outLevel <= lvl {
		switch l.format {
		case formatJSON:
			l.out.Println(jsonFormatter(lvl, l.name, message, fields))
		case formatText:
			l.out.Println(textFormatter(lvl, l.name, message, fields))
		case formatHuman:
			l.out.Println(humanFormatter(lvl, l.name, message, fields))
		}
	}

	if l.syslog != nil && l.syslogLevel <= lvl {
		_, _ = io.WriteString(l.syslog, "graphite "+jsonFormatter(lvl, l.name, message, fields))
	}
}
