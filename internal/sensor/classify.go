package sensor

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/troglobit/temp/internal/logger"
)

const (
	DefaultSysfs = "/sys"

	hwmonDir     = "class/hwmon"
	thermalDir   = "class/thermal"
	hwmonLabel   = "temp%d_label"
	hwmonTrip    = "temp%d_%s"
	hwmonName    = "name"
	thermalType  = "type"
	thermalTrip  = "trip_point_0_temp"
	dirSeparator = "/"
)

var (
	hwmonInput   = regexp.MustCompile(`^temp(\d+)_input$`)
	thermalInput = regexp.MustCompile(`^thermal_zone(\d+)/temp$`)

	// DefaultThresholds is the hwmon threshold lookup order.
	DefaultThresholds = []string{"crit"}
)

// Classifier turns the path of a raw value file into a Sensor.
type Classifier struct {
	fs          afero.Fs
	hwmonRoot   string
	thermalRoot string
	thresholds  []string
}

type ClassifierOption func(*Classifier)

// WithThresholds sets the hwmon threshold file suffixes to look for, in
// priority order, e.g. "max", "crit".
func WithThresholds(suffixes ...string) ClassifierOption {
	return func(c *Classifier) {
		if len(suffixes) > 0 {
			c.thresholds = suffixes
		}
	}
}

// NewClassifier returns a classifier for sensors below sysfs, usually /sys.
func NewClassifier(fs afero.Fs, sysfs string, opts ...ClassifierOption) *Classifier {
	if sysfs == "" {
		sysfs = DefaultSysfs
	}

	c := &Classifier{
		fs:          fs,
		hwmonRoot:   filepath.Join(sysfs, hwmonDir) + dirSeparator,
		thermalRoot: filepath.Join(sysfs, thermalDir) + dirSeparator,
		thresholds:  DefaultThresholds,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// HwmonRoot is the directory auto-discovery scans, with trailing slash.
func (c *Classifier) HwmonRoot() string {
	return c.hwmonRoot
}

// ThermalRoot is the thermal zone directory, with trailing slash.
func (c *Classifier) ThermalRoot() string {
	return c.thermalRoot
}

// Classify validates path and resolves the sensor's ID, name and
// critical threshold.
func (c *Classifier) Classify(path string) (*Sensor, error) {
	i := strings.LastIndex(path, dirSeparator)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnrecognized, path)
	}
	dir := path[:i+1]

	logger.Debug().Str("path", path).Str("dir", dir).Msg("Checking sensor")

	var (
		s   *Sensor
		err error
	)
	switch {
	case strings.HasPrefix(dir, c.hwmonRoot):
		s, err = c.hwmon(path, dir)
	case strings.HasPrefix(dir, c.thermalRoot):
		s, err = c.thermal(path, dir)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnrecognized, path)
	}
	if err != nil {
		return nil, err
	}

	if s.Name == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoName, path)
	}

	return s, nil
}

func (c *Classifier) hwmon(path, dir string) (*Sensor, error) {
	m := hwmonInput.FindStringSubmatch(path[len(dir):])
	if m == nil {
		return nil, fmt.Errorf("%w: %s", ErrBadIndex, path)
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadIndex, path)
	}

	logger.Debug().Int("id", id).Msg("Got ID")
	if _, err := checkPlausible(c.fs, path); err != nil {
		return nil, err
	}

	s := c.newSensor(KindHwmon, id, path)
	s.Name, err = readName(c.fs, dir+fmt.Sprintf(hwmonLabel, id))
	if err != nil {
		s.Name, _ = readName(c.fs, dir+hwmonName)
	}

	for _, suffix := range c.thresholds {
		trip := dir + fmt.Sprintf(hwmonTrip, id, suffix)
		if ok, _ := afero.Exists(c.fs, trip); ok {
			c.setThreshold(s, trip)
			break
		}
	}

	return s, nil
}

func (c *Classifier) thermal(path, dir string) (*Sensor, error) {
	m := thermalInput.FindStringSubmatch(strings.TrimPrefix(path, c.thermalRoot))
	if m == nil {
		return nil, fmt.Errorf("%w: %s", ErrBadIndex, path)
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadIndex, path)
	}

	logger.Debug().Int("id", id).Msg("Got ID")
	if _, err := checkPlausible(c.fs, path); err != nil {
		return nil, err
	}

	s := c.newSensor(KindThermal, id, path)
	s.Name, _ = readName(c.fs, dir+thermalType)

	trip := dir + thermalTrip
	if ok, _ := afero.Exists(c.fs, trip); ok {
		c.setThreshold(s, trip)
	}

	return s, nil
}

func (c *Classifier) newSensor(kind Kind, id int, path string) *Sensor {
	return &Sensor{
		ID:   id,
		Kind: kind,
		Path: path,
		fs:   c.fs,
	}
}

// setThreshold accepts trip only if its reading is plausible.
func (c *Classifier) setThreshold(s *Sensor, trip string) {
	v, err := checkPlausible(c.fs, trip)
	if err != nil {
		logger.Debug().Err(err).Str("sensor", s.Name).Msg("Ignoring critical threshold")
		s.clearThreshold()
		return
	}

	s.CritPath = trip
	s.crit = v
}
