// Package loop is a small single-threaded event loop. Timers and signal
// watchers registered on a Loop fire one at a time on the goroutine
// calling Run, each callback runs to completion before the next one is
// dispatched.
package loop

import (
	"container/heap"
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/jonboulle/clockwork"
)

const signalBuffer = 4

// Loop owns timers and signal watchers. It is not safe for concurrent
// use, except for Notify.
type Loop struct {
	clock    clockwork.Clock
	timers   timerQueue
	seq      uint64
	sigc     chan os.Signal
	watchers map[os.Signal]*Signal
	exit     bool
}

type Option func(*Loop)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c clockwork.Clock) Option {
	return func(l *Loop) {
		l.clock = c
	}
}

// New creates an event loop context.
func New(opts ...Option) *Loop {
	l := &Loop{
		clock:    clockwork.NewRealClock(),
		sigc:     make(chan os.Signal, signalBuffer),
		watchers: make(map[os.Signal]*Signal),
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Timer fires once after a delay, then every period if period > 0.
type Timer struct {
	loop   *Loop
	when   time.Time
	period time.Duration
	seq    uint64
	index  int
	fire   func(*Timer)
}

// AddTimer arms a timer that calls fn with arg after delay, and then
// every period. A zero period makes it a one-shot timer.
func AddTimer[T any](l *Loop, delay, period time.Duration, fn func(*Timer, T), arg T) *Timer {
	t := &Timer{
		loop:   l,
		period: period,
		index:  -1,
		fire:   func(t *Timer) { fn(t, arg) },
	}
	l.arm(t, l.clock.Now().Add(delay))

	return t
}

func (l *Loop) arm(t *Timer, when time.Time) {
	l.seq++
	t.when = when
	t.seq = l.seq
	heap.Push(&l.timers, t)
}

// Stop disarms the timer. Stopping a stopped timer is a no-op.
func (t *Timer) Stop() {
	if t.index < 0 {
		return
	}
	heap.Remove(&t.loop.timers, t.index)
}

// Signal watches for one OS signal.
type Signal struct {
	loop *Loop
	sig  os.Signal
	fire func(*Signal)
}

// AddSignal calls fn on the loop goroutine each time sig arrives.
func (l *Loop) AddSignal(sig os.Signal, fn func(*Signal)) *Signal {
	w := &Signal{loop: l, sig: sig, fire: fn}
	l.watchers[sig] = w
	signal.Notify(l.sigc, sig)

	return w
}

// Signo returns the watched signal.
func (w *Signal) Signo() os.Signal {
	return w.sig
}

// Stop stops watching the signal and restores its default behaviour.
func (w *Signal) Stop() {
	if w.loop.watchers[w.sig] != w {
		return
	}
	delete(w.loop.watchers, w.sig)
	signal.Reset(w.sig)
}

// Notify queues sig as if it had been delivered by the OS. It may be
// called from any goroutine and drops the signal if the queue is full.
func (l *Loop) Notify(sig os.Signal) {
	select {
	case l.sigc <- sig:
	default:
	}
}

// Exit makes Run return once the current callback completes.
func (l *Loop) Exit() {
	l.exit = true
}

// Run dispatches timers and signals until Exit is called, ctx is done,
// or nothing is left to wait for.
func (l *Loop) Run(ctx context.Context) error {
	defer signal.Stop(l.sigc)

	l.exit = false
	for !l.exit {
		next := l.timers.peek()
		if next == nil && len(l.watchers) == 0 {
			return nil
		}

		if next != nil {
			if d := next.when.Sub(l.clock.Now()); d <= 0 {
				l.dispatch(next)
				continue
			}
		}

		if err := l.wait(ctx, next); err != nil {
			return err
		}
	}

	return nil
}

// wait blocks until next is due, a signal arrives or ctx is done.
func (l *Loop) wait(ctx context.Context, next *Timer) error {
	var due <-chan time.Time
	if next != nil {
		tm := l.clock.NewTimer(next.when.Sub(l.clock.Now()))
		defer tm.Stop()
		due = tm.Chan()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case sig := <-l.sigc:
		if w, ok := l.watchers[sig]; ok {
			w.fire(w)
		}
	case <-due:
	}

	return nil
}

func (l *Loop) dispatch(t *Timer) {
	heap.Pop(&l.timers)

	if t.period > 0 {
		// Missed periods are coalesced into one firing.
		when := t.when.Add(t.period)
		if now := l.clock.Now(); !when.After(now) {
			when = now.Add(t.period)
		}
		l.arm(t, when)
	}

	t.fire(t)
}
