package config

import (
	"time"

	"github.com/spf13/afero"

	"github.com/troglobit/temp/internal/errors"
	"github.com/troglobit/temp/internal/logger"
	"github.com/troglobit/temp/internal/monitor"
)

// Provider gives read access to the loaded configuration. Values are
// immutable after Load.
type Provider interface {
	// GetSensors returns the explicitly configured sensor paths
	GetSensors() []string

	// GetSnapshotFile returns the JSON snapshot target, empty when disabled
	GetSnapshotFile() string

	GetPollInterval() time.Duration

	// GetRuntime returns the run time limit, zero means forever
	GetRuntime() time.Duration

	GetLogLevel() logger.Severity
	IsForeground() bool
	UseSyslog() bool
	IsQuiet() bool

	// GetSysfs returns the sysfs mount point sensors are read from
	GetSysfs() string

	// GetThresholds returns the hwmon threshold suffixes in priority order
	GetThresholds() []string

	// GetPidFile returns the lock file path, empty when disabled
	GetPidFile() string

	Monitor() monitor.Config
}

var _ Provider = (*Config)(nil)

// Option defines a configuration option that can be passed to Load
type Option func(*options) error

type options struct {
	configPath string
	envPrefix  string
	fs         afero.Fs
}

// WithConfigFile specifies an explicit configuration file path
func WithConfigFile(path string) Option {
	return func(o *options) error {
		o.configPath = path
		return nil
	}
}

// WithEnvPrefix specifies a custom environment variable prefix.
// Default is "TEMPD"
func WithEnvPrefix(prefix string) Option {
	return func(o *options) error {
		if prefix == "" {
			return errors.New().WithMessage(errors.ErrInvalidArgument, "empty environment prefix")
		}
		o.envPrefix = prefix
		return nil
	}
}

// WithFs reads the config file from fs instead of the OS filesystem
func WithFs(fs afero.Fs) Option {
	return func(o *options) error {
		o.fs = fs
		return nil
	}
}
