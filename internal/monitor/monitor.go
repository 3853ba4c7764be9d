// Package monitor drives sensor polling, snapshots and shutdown on a
// single event loop.
package monitor

import (
	"context"
	"os"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"

	"github.com/troglobit/temp/internal/errors"
	"github.com/troglobit/temp/internal/logger"
	"github.com/troglobit/temp/internal/loop"
	"github.com/troglobit/temp/internal/sensor"
	"github.com/troglobit/temp/internal/snapshot"
)

// Monitor owns the sensor registry for the lifetime of the process.
type Monitor struct {
	cfg       Config
	reg       *sensor.Registry
	loop      *loop.Loop
	fs        afero.Fs
	log       logger.Logger
	notifier  Notifier
	collector snapshot.Collector
	poller    *Poller

	snapTimer *loop.Timer
	runTimer  *loop.Timer
	watchers  []*loop.Signal
	state     State
}

type Option func(*Monitor)

// WithClock sets the loop clock.
func WithClock(c clockwork.Clock) Option {
	return func(m *Monitor) {
		m.loop = loop.New(loop.WithClock(c))
	}
}

// WithFs sets the filesystem snapshots are written to.
func WithFs(fs afero.Fs) Option {
	return func(m *Monitor) {
		m.fs = fs
	}
}

func WithLogger(l logger.Logger) Option {
	return func(m *Monitor) {
		m.log = l
	}
}

// WithNotifier reports readiness and shutdown to a service manager.
func WithNotifier(n Notifier) Option {
	return func(m *Monitor) {
		m.notifier = n
	}
}

// New validates cfg and prepares a monitor for the sensors in reg.
func New(cfg Config, reg *sensor.Registry, opts ...Option) (*Monitor, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}
	if reg == nil || reg.Len() == 0 {
		return nil, errFactory.New(ErrNoSensors)
	}

	m := &Monitor{
		cfg:      cfg,
		reg:      reg,
		fs:       afero.NewOsFs(),
		log:      logger.Default(),
		notifier: noopNotifier{},
		state:    StateConfiguring,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.loop == nil {
		m.loop = loop.New()
	}

	collector, err := snapshot.NewService(m.fs, cfg.Snapshot)
	if err != nil {
		return nil, err
	}
	m.collector = collector
	m.poller = NewPoller(cfg.Interval, cfg.Quiet, cfg.Strict, m.log)

	return m, nil
}

// State returns the current lifecycle phase.
func (m *Monitor) State() State {
	return m.state
}

// Signal delivers sig to the monitor as if sent by the OS. Safe to call
// from any goroutine.
func (m *Monitor) Signal(sig os.Signal) {
	m.loop.Notify(sig)
}

// Run starts polling and blocks until a signal, the run time limit or
// ctx ends it. Every trigger takes the same shutdown path, after which
// the registry is empty.
func (m *Monitor) Run(ctx context.Context) error {
	errFactory := errors.New()

	if m.state != StateConfiguring {
		return errFactory.New(ErrAlreadyStarted)
	}

	m.poller.Start(m.loop, m.reg)
	if m.collector.Enabled() {
		m.snapTimer = loop.AddTimer(m.loop, startDelay, m.cfg.Interval, m.writeSnapshot, ctx)
	}
	if m.cfg.Runtime > 0 {
		m.runTimer = loop.AddTimer(m.loop, m.cfg.Runtime, 0, m.timeout, struct{}{})
	}
	for _, sig := range []os.Signal{syscall.SIGTERM, syscall.SIGINT} {
		m.watchers = append(m.watchers, m.loop.AddSignal(sig, m.terminate))
	}

	m.state = StateRunning
	m.log.Info().
		Int("sensors", m.reg.Len()).
		Dur("interval", m.cfg.Interval).
		Dur("runtime", m.cfg.Runtime).
		Bool("snapshot", m.collector.Enabled()).
		Msg("Monitor running")
	if err := m.notifier.Ready(); err != nil {
		m.log.Debug().Err(err).Msg("Failed notifying readiness")
	}

	err := m.loop.Run(ctx)
	if ctx.Err() != nil {
		m.log.Info().Msg("Context done, exiting ...")
		m.shutdown()
		err = nil
	}

	if cerr := m.collector.Close(); cerr != nil {
		m.log.Debug().Err(cerr).Msg("Failed closing snapshot collector")
	}
	m.state = StateTerminated

	if err != nil {
		return errFactory.Wrap(ErrMainLoop, err)
	}

	return nil
}

func (m *Monitor) terminate(w *loop.Signal) {
	m.log.Info().Str("signal", w.Signo().String()).Msg("Received signal, exiting ...")
	m.shutdown()
}

func (m *Monitor) timeout(_ *loop.Timer, _ struct{}) {
	m.log.Info().Msg("Run time over, exiting ...")
	m.shutdown()
}

func (m *Monitor) writeSnapshot(_ *loop.Timer, ctx context.Context) {
	if err := m.collector.Write(ctx, m.reg); err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			m.log.ErrorWithCode(appErr).Send()
			return
		}
		m.log.Error().Err(err).Msg("Failed writing snapshot")
	}
}

// shutdown is the one teardown path. Later triggers are ignored.
func (m *Monitor) shutdown() {
	if m.state >= StateShuttingDown {
		return
	}
	m.state = StateShuttingDown

	m.poller.Stop()
	m.reg.Drain(nil)
	if m.snapTimer != nil {
		m.snapTimer.Stop()
	}
	if m.runTimer != nil {
		m.runTimer.Stop()
	}
	for _, w := range m.watchers {
		w.Stop()
	}
	m.watchers = nil
	m.loop.Exit()

	if err := m.notifier.Stopping(); err != nil {
		m.log.Debug().Err(err).Msg("Failed notifying shutdown")
	}
}
