package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/troglobit/temp/internal/errors"
)

var (
	log       = zerolog.Nop()
	mu        sync.Mutex
	syslogged bool
)

type LogEvent struct {
	*zerolog.Event
}

func (e *LogEvent) Msg(msg string) {
	e.Event.Msg(msg)
}

func (e *LogEvent) Send() {
	e.Event.Send()
}

// Options selects the log destination and threshold.
type Options struct {
	Level   Severity
	Syslog  bool
	Service bool
	Ident   string
	Stdout  io.Writer
	Stderr  io.Writer
}

// Init initializes the logger based on the given options
func Init(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	zerolog.LevelFieldMarshalFunc = levelName

	var w zerolog.LevelWriter
	if opts.Syslog {
		sw, err := newSyslogWriter(opts.Ident)
		if err != nil {
			return errors.New().Wrap(errors.ErrInitLogger, err)
		}
		w = sw
	} else {
		w = newConsoleWriter(opts)
	}

	ctx := zerolog.New(w).With()
	if !opts.Service && !opts.Syslog {
		ctx = ctx.Timestamp()
	}
	log = ctx.Logger()
	syslogged = opts.Syslog

	SetLevel(opts.Level)

	return nil
}

// ToSyslog reports whether the current sink is syslog.
func ToSyslog() bool {
	mu.Lock()
	defer mu.Unlock()

	return syslogged
}

// SetLevel sets the global log threshold
func SetLevel(sev Severity) {
	zerolog.SetGlobalLevel(sev.level())
}

func newConsoleWriter(opts Options) zerolog.LevelWriter {
	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &splitWriter{
		out: consoleFormat(stdout, opts.Service),
		err: consoleFormat(stderr, opts.Service),
	}
}

func consoleFormat(out io.Writer, service bool) zerolog.ConsoleWriter {
	cw := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    service,
		FormatLevel: func(i interface{}) string {
			s, _ := i.(string)
			return strings.ToUpper(s)
		},
	}

	if service {
		cw.PartsExclude = []string{zerolog.TimestampFieldName}
	}

	return cw
}

// splitWriter sends warnings and worse to stderr, the rest to stdout.
type splitWriter struct {
	out io.Writer
	err io.Writer
}

func (w *splitWriter) Write(p []byte) (int, error) {
	return w.out.Write(p)
}

func (w *splitWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l >= zerolog.WarnLevel && l < zerolog.NoLevel {
		return w.err.Write(p)
	}

	return w.out.Write(p)
}

// IsService checks if the application is running as a service
func IsService() bool {
	if _, err := os.Stdin.Stat(); err != nil {
		return true
	}

	return isService(os.Getenv, os.Getppid(), isatty.IsTerminal(os.Stdout.Fd()))
}

// isService treats a process started by systemd or init, or one whose
// stdout is not a terminal, as a service.
func isService(getenv func(string) string, ppid int, tty bool) bool {
	if getenv("INVOCATION_ID") != "" || getenv("NOTIFY_SOCKET") != "" {
		return true
	}
	if ppid == 1 {
		return true
	}

	return !tty
}

// Debug logs a debug message
func Debug() *LogEvent {
	return &LogEvent{log.Trace()}
}

// Info logs an informational message
func Info() *LogEvent {
	return &LogEvent{log.Debug()}
}

// Notice logs a normal but significant message, e.g. sensor readings
func Notice() *LogEvent {
	return &LogEvent{log.Info()}
}

// Warn logs a warning message
func Warn() *LogEvent {
	return &LogEvent{log.Warn()}
}

// Error logs an error message
func Error() *LogEvent {
	return &LogEvent{log.Error()}
}

// ErrorWithCode logs an error message with a specific error code
func ErrorWithCode(err errors.Error) *LogEvent {
	return &LogEvent{log.Error().
		Str("error_code", string(err.Code())).
		AnErr("error", err.Unwrap()).
		Str("error_message", err.Error())}
}
