package monitor

import (
	"time"

	"github.com/troglobit/temp/internal/errors"
	"github.com/troglobit/temp/internal/snapshot"
)

const (
	DefaultInterval = 2 * time.Second
	MinInterval     = 100 * time.Millisecond
	MinRuntime      = time.Second

	// startDelay is how long after start the first sample is taken.
	startDelay = 100 * time.Millisecond
)

type Config struct {
	// Interval between two samples of the same sensor.
	Interval time.Duration
	// Runtime limits how long the monitor runs, zero means forever.
	Runtime time.Duration
	// Quiet suppresses the per-sample log line.
	Quiet bool
	// Strict computes the mean from successful reads only, so a
	// genuine 0.0 counts and failed reads do not.
	Strict   bool
	Snapshot snapshot.Config
}

func DefaultConfig() Config {
	return Config{
		Interval: DefaultInterval,
		Snapshot: snapshot.DefaultConfig(),
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.Interval < MinInterval {
		return errFactory.New(ErrInvalidInterval)
	}
	if c.Runtime != 0 && c.Runtime < MinRuntime {
		return errFactory.New(ErrInvalidRuntime)
	}

	return c.Snapshot.Validate()
}
