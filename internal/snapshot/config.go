package snapshot

import (
	"time"

	"github.com/troglobit/temp/internal/errors"
)

const (
	defaultFilePerm = 0o644
	minInterval     = 100 * time.Millisecond
)

type Config struct {
	// Path is the JSON file rewritten on every tick.
	Path     string
	Interval time.Duration
	Enabled  bool
}

// DefaultConfig returns a disabled snapshot configuration.
func DefaultConfig() Config {
	return Config{
		Interval: 2 * time.Second,
		Enabled:  false,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	// Nothing to check when disabled
	if !c.Enabled {
		return nil
	}
	if c.Path == "" {
		return errFactory.New(ErrInvalidPath)
	}
	if c.Interval < minInterval {
		return errFactory.New(ErrInvalidInterval)
	}

	return nil
}
