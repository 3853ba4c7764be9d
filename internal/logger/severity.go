package logger

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Severity is a syslog priority, lower is more severe.
type Severity int

const (
	SevNone Severity = iota - 1
	SevEmerg
	SevAlert
	SevCrit
	SevErr
	SevWarning
	SevNotice
	SevInfo
	SevDebug
)

// DefaultSeverity is used when no log level is given.
const DefaultSeverity = SevNotice

var severityNames = map[string]Severity{
	"none":    SevNone,
	"emerg":   SevEmerg,
	"panic":   SevEmerg,
	"alert":   SevAlert,
	"crit":    SevCrit,
	"err":     SevErr,
	"error":   SevErr,
	"warning": SevWarning,
	"warn":    SevWarning,
	"notice":  SevNotice,
	"info":    SevInfo,
	"debug":   SevDebug,
}

// ParseSeverity accepts a syslog priority name or number.
func ParseSeverity(s string) (Severity, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if sev, ok := severityNames[s]; ok {
		return sev, true
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < int(SevEmerg) || n > int(SevDebug) {
		return SevNone, false
	}

	return Severity(n), true
}

func (s Severity) String() string {
	switch s {
	case SevNone:
		return "none"
	case SevEmerg:
		return "emerg"
	case SevAlert:
		return "alert"
	case SevCrit:
		return "crit"
	case SevErr:
		return "err"
	case SevWarning:
		return "warning"
	case SevNotice:
		return "notice"
	case SevInfo:
		return "info"
	case SevDebug:
		return "debug"
	}

	return strconv.Itoa(int(s))
}

// zerolog has no notice level, so every syslog priority is shifted one
// zerolog level down: debug is trace, info is debug and notice is info.
func (s Severity) level() zerolog.Level {
	switch {
	case s == SevNone:
		return zerolog.Disabled
	case s >= SevDebug:
		return zerolog.TraceLevel
	case s == SevInfo:
		return zerolog.DebugLevel
	case s == SevNotice:
		return zerolog.InfoLevel
	case s == SevWarning:
		return zerolog.WarnLevel
	case s == SevErr:
		return zerolog.ErrorLevel
	case s == SevCrit:
		return zerolog.FatalLevel
	default:
		// alert and emerg share the highest level zerolog has
		return zerolog.PanicLevel
	}
}

func levelName(l zerolog.Level) string {
	switch l {
	case zerolog.TraceLevel:
		return SevDebug.String()
	case zerolog.DebugLevel:
		return SevInfo.String()
	case zerolog.InfoLevel:
		return SevNotice.String()
	case zerolog.WarnLevel:
		return SevWarning.String()
	case zerolog.ErrorLevel:
		return SevErr.String()
	case zerolog.FatalLevel:
		return SevCrit.String()
	case zerolog.PanicLevel:
		return SevEmerg.String()
	}

	return ""
}
