// Package snapshot periodically dumps the sensor registry to a JSON file.
package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"strconv"

	"github.com/spf13/afero"

	"github.com/troglobit/temp/internal/errors"
	"github.com/troglobit/temp/internal/logger"
	"github.com/troglobit/temp/internal/sensor"
)

type service struct {
	fs  afero.Fs
	cfg Config
}

// No-op implementation
type noopCollector struct{}

// NewService returns a collector writing to cfg.Path through fs, or a
// no-op collector when snapshots are disabled.
func NewService(fs afero.Fs, cfg Config) (Collector, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		logger.Debug().Msg("Snapshot disabled, using no-op collector")
		return &noopCollector{}, nil
	}

	logger.Debug().
		Str("path", cfg.Path).
		Dur("interval", cfg.Interval).
		Msg("Snapshot service initialized")

	return &service{fs: fs, cfg: cfg}, nil
}

// records converts the registry to snapshot records, in registry order.
func records(reg *sensor.Registry, interval int64) []Record {
	records := make([]Record, 0, reg.Len())
	for _, s := range reg.Sensors() {
		rec := Record{
			Name:        s.Name,
			File:        s.Path,
			Temperature: make([]string, 0, sensor.WindowSize),
			Interval:    interval,
		}
		if crit, ok := s.Critical(); ok {
			rec.Critical = format(crit)
		}
		for _, v := range s.Samples().Values() {
			rec.Temperature = append(rec.Temperature, format(v))
		}
		records = append(records, rec)
	}

	return records
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func (s *service) Write(ctx context.Context, reg *sensor.Registry) error {
	errFactory := errors.New()

	if reg == nil {
		return errFactory.New(ErrNoRegistry)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrWriteCanceled, ctx.Err())
	default:
	}

	data, err := json.MarshalIndent(records(reg, s.cfg.Interval.Milliseconds()), "", "  ")
	if err != nil {
		return errFactory.Wrap(ErrEncode, err)
	}
	data = append(data, '\n')

	f, err := s.fs.OpenFile(s.cfg.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, defaultFilePerm)
	if err != nil {
		return errFactory.Wrap(ErrWrite, err)
	}

	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errFactory.Wrap(ErrWrite, err)
	}

	return nil
}

func (s *service) Enabled() bool {
	return true
}

func (s *service) Close() error {
	return nil
}

func (*noopCollector) Write(_ context.Context, _ *sensor.Registry) error {
	return nil
}

func (*noopCollector) Enabled() bool {
	return false
}

func (*noopCollector) Close() error {
	return nil
}
