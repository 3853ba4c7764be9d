package sensor

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/troglobit/temp/internal/errors"
	"github.com/troglobit/temp/internal/logger"
)

const (
	hwmonInputFmt = "%s%s/temp%d_input"

	// Indexes probed per hwmon device, inclusive.
	firstProbeIndex = 1
	lastProbeIndex  = 9
)

// Register classifies path and appends the sensor to reg. Explicitly
// configured sensors are logged when dropped, probes fail silently.
func (c *Classifier) Register(reg *Registry, path string, probe bool) (*Sensor, error) {
	if ok, _ := afero.Exists(c.fs, path); !ok {
		if !probe {
			logger.Error().Str("path", path).Msg("Missing sensor, skipping")
		}
		return nil, fmt.Errorf("%w: %s", ErrMissing, path)
	}

	s, err := c.Classify(path)
	if err != nil {
		if !probe {
			logger.Info().Err(err).Str("path", path).Msg("Cannot find sensor, skipping")
		}
		return nil, err
	}

	reg.Add(s)

	crit, ok := s.Critical()
	logger.Debug().
		Str("sensor", s.Name).
		Str("kind", s.Kind.String()).
		Int("id", s.ID).
		Str("path", s.Path).
		Bool("has_critical", ok).
		Float64("critical", crit).
		Msg("Registered sensor")

	return s, nil
}

// Discover probes every hwmon device link, in name order, for
// temp1_input through temp9_input and registers what classifies. It
// fails only when reg is still empty afterwards.
func (c *Classifier) Discover(reg *Registry) error {
	entries, err := afero.ReadDir(c.fs, c.hwmonRoot)
	if err != nil {
		logger.Debug().Err(err).Str("dir", c.hwmonRoot).Msg("Cannot list hwmon devices")
	}

	for _, e := range entries {
		if e.Mode()&os.ModeSymlink == 0 {
			continue
		}

		logger.Debug().Str("device", e.Name()).Msg("Probing sensor")
		for i := firstProbeIndex; i <= lastProbeIndex; i++ {
			_, _ = c.Register(reg, fmt.Sprintf(hwmonInputFmt, c.hwmonRoot, e.Name(), i), true)
		}
	}

	if reg.Len() == 0 {
		return errors.New().New(errors.ErrNoSensors)
	}

	return nil
}

// Populate registers the explicitly configured paths and falls back to
// discovery when the registry is still empty, also when every explicit
// path was dropped.
func (c *Classifier) Populate(reg *Registry, paths []string) error {
	for _, p := range paths {
		_, _ = c.Register(reg, p, false)
	}

	if reg.Len() > 0 {
		return nil
	}

	return c.Discover(reg)
}
