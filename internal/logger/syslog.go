package logger

import (
	"bytes"
	"log/syslog"
	"sync"

	"github.com/rs/zerolog"
)

// syslogWriter renders events like the console does, without time and
// level, and hands them to syslog at the matching priority.
type syslogWriter struct {
	mu  sync.Mutex
	w   *syslog.Writer
	buf bytes.Buffer
	fmt zerolog.ConsoleWriter
}

func newSyslogWriter(ident string) (*syslogWriter, error) {
	w, err := syslog.New(syslog.LOG_NOTICE|syslog.LOG_DAEMON, ident)
	if err != nil {
		return nil, err
	}

	sw := &syslogWriter{w: w}
	sw.fmt = zerolog.ConsoleWriter{
		Out:          &sw.buf,
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName, zerolog.LevelFieldName},
	}

	return sw, nil
}

func (s *syslogWriter) Write(p []byte) (int, error) {
	return s.WriteLevel(zerolog.NoLevel, p)
}

func (s *syslogWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf.Reset()
	if _, err := s.fmt.Write(p); err != nil {
		return 0, err
	}
	msg := string(bytes.TrimSpace(s.buf.Bytes()))

	var err error
	switch l {
	case zerolog.TraceLevel:
		err = s.w.Debug(msg)
	case zerolog.DebugLevel:
		err = s.w.Info(msg)
	case zerolog.InfoLevel:
		err = s.w.Notice(msg)
	case zerolog.WarnLevel:
		err = s.w.Warning(msg)
	case zerolog.ErrorLevel:
		err = s.w.Err(msg)
	case zerolog.FatalLevel:
		err = s.w.Crit(msg)
	case zerolog.PanicLevel:
		err = s.w.Emerg(msg)
	default:
		_, err = s.w.Write([]byte(msg))
	}
	if err != nil {
		return 0, err
	}

	return len(p), nil
}
