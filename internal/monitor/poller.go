package monitor

import (
	"strconv"
	"time"

	"github.com/troglobit/temp/internal/logger"
	"github.com/troglobit/temp/internal/loop"
	"github.com/troglobit/temp/internal/sensor"
)

// Poller samples every sensor of a registry on its own loop timer.
type Poller struct {
	interval time.Duration
	quiet    bool
	strict   bool
	log      logger.Logger
	timers   []*loop.Timer
}

func NewPoller(interval time.Duration, quiet, strict bool, log logger.Logger) *Poller {
	return &Poller{
		interval: interval,
		quiet:    quiet,
		strict:   strict,
		log:      log,
	}
}

// Start arms one timer per sensor, first tick after startDelay.
func (p *Poller) Start(l *loop.Loop, reg *sensor.Registry) {
	for _, s := range reg.Sensors() {
		p.timers = append(p.timers, loop.AddTimer(l, startDelay, p.interval, p.tick, s))
	}
}

// Stop disarms all sensor timers.
func (p *Poller) Stop() {
	for _, t := range p.timers {
		t.Stop()
	}
	p.timers = nil
}

func (p *Poller) tick(_ *loop.Timer, s *sensor.Sensor) {
	v, err := s.Sample()
	if err != nil {
		p.log.Debug().Err(err).Str("sensor", s.Name).Str("path", s.Path).Msg("Failed reading sensor")
	}

	if p.quiet {
		return
	}

	mean, ok := p.mean(s.Samples())
	ev := p.log.Notice().
		Str("sensor", s.Name).
		Str("current", celsius(v))
	if ok {
		ev = ev.Str("mean", celsius(mean))
	} else {
		ev = ev.Str("mean", "n/a")
	}
	if crit, known := s.Critical(); known {
		ev = ev.Str("critical", celsius(crit))
	}
	ev.Msg("Temperature")
}

func (p *Poller) mean(w *sensor.Window) (float64, bool) {
	if p.strict {
		return w.ValidMean()
	}

	return w.Mean()
}

func celsius(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
