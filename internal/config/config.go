// Package config merges command line flags, an optional TOML file and
// TEMPD_* environment variables into one validated Config.
package config

import (
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/troglobit/temp/internal/errors"
	"github.com/troglobit/temp/internal/logger"
	"github.com/troglobit/temp/internal/monitor"
	"github.com/troglobit/temp/internal/sensor"
	"github.com/troglobit/temp/internal/snapshot"
)

const (
	DefaultConfigFile = "/etc/tempd.conf"
	DefaultEnvPrefix  = "TEMPD"
	DefaultInterval   = 2000
	DefaultLogLevel   = "notice"
)

// Flag names, also used as config file and environment keys.
const (
	keyConfig     = "config"
	keySensor     = "sensor"
	keyFile       = "file"
	keyInterval   = "interval"
	keyRuntime    = "runtime"
	keyLogLevel   = "log-level"
	keyForeground = "foreground"
	keySyslog     = "syslog"
	keyQuiet      = "quiet"
	keySysfs      = "sysfs"
	keyPidFile    = "pidfile"
	keyStrict     = "strict-samples"
	keyThreshold  = "threshold"
)

// Interval (msec) and Runtime (sec) are capped so they still fit a
// time.Duration.
type Config struct {
	Sensors    []string `mapstructure:"sensor"`
	File       string   `mapstructure:"file"`
	Interval   int      `mapstructure:"interval" validate:"gte=100,lte=9223372036854"`
	Runtime    int      `mapstructure:"runtime" validate:"gte=0,lte=9223372036"`
	LogLevel   string   `mapstructure:"log-level" validate:"loglevel"`
	Foreground bool     `mapstructure:"foreground"`
	Syslog     bool     `mapstructure:"syslog"`
	Quiet      bool     `mapstructure:"quiet"`
	Sysfs      string   `mapstructure:"sysfs" validate:"required"`
	PidFile    string   `mapstructure:"pidfile"`
	Strict     bool     `mapstructure:"strict-samples"`
	Thresholds []string `mapstructure:"threshold" validate:"min=1,dive,required,excludesall=/"`

	runtimeSet bool
}

var valid = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		_, ok := logger.ParseSeverity(fl.Field().String())
		return ok
	})

	return v
}

// RegisterFlags adds every option to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP(keyConfig, "c", "", "Config file, default: "+DefaultConfigFile)
	flags.StringArrayP(keySensor, "t", nil, "Path to temperature sensor, may be given multiple times")
	flags.StringP(keyFile, "f", "", "File to save temperature sensor data in JSON format")
	flags.IntP(keyInterval, "i", DefaultInterval, "Poll interval in milliseconds")
	flags.IntP(keyRuntime, "r", 0, "Run time, in seconds, before program stops, default: forever")
	flags.StringP(keyLogLevel, "l", DefaultLogLevel, "Set log level: none, err, notice, info, debug")
	flags.BoolP(keyForeground, "n", false, "Run in foreground, do not detach from controlling terminal")
	flags.BoolP(keySyslog, "s", false, "Use syslog, even if running in foreground, default w/o -n")
	flags.BoolP(keyQuiet, "q", false, "Quiet mode, useful with -f option")
	flags.String(keySysfs, sensor.DefaultSysfs, "Root of the sysfs tree to read sensors from")
	flags.String(keyPidFile, "", "Lock file guarding against a second instance, default: none")
	flags.Bool(keyStrict, false, "Compute the mean from successful reads only")
	flags.StringSlice(keyThreshold, sensor.DefaultThresholds, "hwmon threshold suffixes, in priority order")
}

// Load merges flags, TEMPD_* environment variables and the config file,
// in falling priority, and validates the result.
func Load(flags *pflag.FlagSet, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := options{envPrefix: DefaultEnvPrefix, fs: afero.NewOsFs()}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidArgument, err)
		}
	}

	v := viper.New()
	v.SetFs(o.fs)
	if err := v.BindPFlags(flags); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, o.configPath); err != nil {
		return nil, err
	}

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrInternal, err)
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}
	cfg.runtimeSet = v.IsSet(keyRuntime)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// readConfigFile loads the TOML file named by --config, TEMPD_CONFIG
// or an option, else the default file if it exists.
func readConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		path = v.GetString(keyConfig)
	}
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.New().Wrap(errors.ErrReadConfig, err)
	}

	return nil
}

// Validate checks value ranges. A run time given explicitly must be at
// least one second.
func (c *Config) Validate() error {
	if c.runtimeSet && c.Runtime < 1 {
		return errors.New().New(errors.ErrInvalidRuntime)
	}

	if err := valid.Struct(c); err != nil {
		return fieldError(err)
	}

	return c.Monitor().Validate()
}

func fieldError(err error) error {
	errFactory := errors.New()

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	fe := verrs[0]
	switch fe.StructField() {
	case "Interval":
		return errFactory.Wrap(errors.ErrInvalidInterval, fe)
	case "Runtime":
		return errFactory.Wrap(errors.ErrInvalidRuntime, fe)
	case "LogLevel":
		return errFactory.WithData(errors.ErrInvalidLogLevel, fe.Value())
	default:
		return errFactory.Wrap(errors.ErrInvalidConfig, fe)
	}
}

func (c *Config) GetSensors() []string {
	return c.Sensors
}

func (c *Config) GetSnapshotFile() string {
	return c.File
}

func (c *Config) GetPollInterval() time.Duration {
	return time.Duration(c.Interval) * time.Millisecond
}

func (c *Config) GetRuntime() time.Duration {
	return time.Duration(c.Runtime) * time.Second
}

// GetLogLevel returns the parsed severity. Load has already rejected
// unknown names.
func (c *Config) GetLogLevel() logger.Severity {
	sev, ok := logger.ParseSeverity(c.LogLevel)
	if !ok {
		return logger.DefaultSeverity
	}

	return sev
}

func (c *Config) IsForeground() bool {
	return c.Foreground
}

// UseSyslog is true unless running in the foreground, --syslog forces it.
func (c *Config) UseSyslog() bool {
	return !c.Foreground || c.Syslog
}

func (c *Config) IsQuiet() bool {
	return c.Quiet
}

func (c *Config) GetSysfs() string {
	return c.Sysfs
}

func (c *Config) GetThresholds() []string {
	return c.Thresholds
}

func (c *Config) GetPidFile() string {
	return c.PidFile
}

// Monitor returns the lifecycle settings, snapshot included.
func (c *Config) Monitor() monitor.Config {
	return monitor.Config{
		Interval: c.GetPollInterval(),
		Runtime:  c.GetRuntime(),
		Quiet:    c.Quiet,
		Strict:   c.Strict,
		Snapshot: snapshot.Config{
			Path:     c.File,
			Interval: c.GetPollInterval(),
			Enabled:  c.File != "",
		},
	}
}
