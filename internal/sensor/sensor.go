// Package sensor discovers and reads temperature sensors exposed by the
// kernel through hwmon (/sys/class/hwmon) and thermal zones
// (/sys/class/thermal).
package sensor

import (
	"github.com/spf13/afero"
)

// Kind tells which sysfs convention a sensor was classified under.
type Kind int

const (
	KindHwmon Kind = iota + 1
	KindThermal
)

func (k Kind) String() string {
	switch k {
	case KindHwmon:
		return "hwmon"
	case KindThermal:
		return "thermal"
	}

	return "unknown"
}

// Sensor is one monitored temperature input.
type Sensor struct {
	ID   int
	Kind Kind
	Name string
	// Path is the file holding the current reading.
	Path string
	// CritPath is empty unless the critical threshold validated.
	CritPath string

	crit    float64
	samples Window
	fs      afero.Fs
}

// Critical returns the critical temperature, ok is false when unknown.
func (s *Sensor) Critical() (float64, bool) {
	return s.crit, s.CritPath != ""
}

// Samples returns the sensor's sample window.
func (s *Sensor) Samples() *Window {
	return &s.samples
}

// Sample takes one reading and stores it in the window. A failed read
// stores the 0.0 sentinel and is retried on the next call.
func (s *Sensor) Sample() (float64, error) {
	v, err := ReadTemp(s.fs, s.Path)
	s.samples.Push(v, err == nil)

	return v, err
}

// Release drops everything the sensor owns. The sensor must not be
// sampled afterwards.
func (s *Sensor) Release() {
	s.Path = ""
	s.CritPath = ""
	s.crit = 0
	s.samples.Reset()
	s.fs = nil
}

func (s *Sensor) clearThreshold() {
	s.CritPath = ""
	s.crit = 0
}
