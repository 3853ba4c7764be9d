package sensor_test

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/troglobit/temp/internal/sensor"
)

const (
	hwmon0   = "/sys/class/hwmon/hwmon0"
	zone0    = "/sys/class/thermal/thermal_zone0"
	hwmonIn1 = hwmon0 + "/temp1_input"
	zoneTemp = zone0 + "/temp"
)

func TestClassifyHwmon(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, hwmon0, map[string]string{
		"temp1_input": "45000\n",
		"temp1_label": "CPU\n",
		"temp1_crit":  "95000\n",
		"name":        "coretemp\n",
	})

	s, err := sensor.NewClassifier(fs, "/sys").Classify(hwmonIn1)
	require.NoError(t, err)

	assert.Equal(t, sensor.KindHwmon, s.Kind)
	assert.Equal(t, 1, s.ID)
	assert.Equal(t, "CPU", s.Name)
	assert.Equal(t, hwmonIn1, s.Path)
	assert.Equal(t, hwmon0+"/temp1_crit", s.CritPath)

	crit, ok := s.Critical()
	assert.True(t, ok)
	assert.Equal(t, 95.0, crit)

	v, err := s.Sample()
	require.NoError(t, err)
	assert.Equal(t, 45.0, v)
}

func TestClassifyHwmonNameFallback(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, hwmon0, map[string]string{
		"temp3_input": "51000\n",
		"name":        "acpitz\n",
	})

	s, err := sensor.NewClassifier(fs, "/sys").Classify(hwmon0 + "/temp3_input")
	require.NoError(t, err)

	assert.Equal(t, 3, s.ID)
	assert.Equal(t, "acpitz", s.Name)
	_, ok := s.Critical()
	assert.False(t, ok)
	assert.Empty(t, s.CritPath)
}

func TestClassifyHwmonThresholdPriority(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, hwmon0, map[string]string{
		"temp1_input": "45000\n",
		"temp1_label": "Package id 0\n",
		"temp1_max":   "84000\n",
		"temp1_crit":  "100000\n",
	})

	s, err := sensor.NewClassifier(fs, "/sys").Classify(hwmonIn1)
	require.NoError(t, err)
	crit, _ := s.Critical()
	assert.Equal(t, 100.0, crit, "crit only by default")

	s, err = sensor.NewClassifier(fs, "/sys", sensor.WithThresholds("max", "crit")).Classify(hwmonIn1)
	require.NoError(t, err)
	crit, _ = s.Critical()
	assert.Equal(t, 84.0, crit, "max wins when listed first")
	assert.Equal(t, hwmon0+"/temp1_max", s.CritPath)
}

func TestClassifyImplausibleThresholdCleared(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, hwmon0, map[string]string{
		"temp1_input": "45000\n",
		"temp1_label": "CPU\n",
		"temp1_crit":  "0\n",
	})

	s, err := sensor.NewClassifier(fs, "/sys").Classify(hwmonIn1)
	require.NoError(t, err)

	_, ok := s.Critical()
	assert.False(t, ok)
	assert.Empty(t, s.CritPath)
}

func TestClassifyThermal(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/sys/class/thermal/thermal_zone2", map[string]string{
		"temp":              "38500\n",
		"type":              "x86_pkg_temp\n",
		"trip_point_0_temp": "105000\n",
	})

	s, err := sensor.NewClassifier(fs, "/sys").Classify("/sys/class/thermal/thermal_zone2/temp")
	require.NoError(t, err)

	assert.Equal(t, sensor.KindThermal, s.Kind)
	assert.Equal(t, 2, s.ID)
	assert.Equal(t, "x86_pkg_temp", s.Name)
	crit, ok := s.Critical()
	assert.True(t, ok)
	assert.Equal(t, 105.0, crit)
}

func TestClassifyThermalNameFromTypeOnly(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, zone0, map[string]string{
		"temp": "38500\n",
		"name": "ignored\n",
	})

	_, err := sensor.NewClassifier(fs, "/sys").Classify(zoneTemp)
	assert.ErrorIs(t, err, sensor.ErrNoName)
}

func TestClassifyRejects(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		path  string
		want  error
	}{
		{
			name:  "zero reading",
			files: map[string]string{zone0 + "/temp": "0\n", zone0 + "/type": "acpitz\n"},
			path:  zoneTemp,
			want:  sensor.ErrImprobable,
		},
		{
			name:  "too hot",
			files: map[string]string{hwmonIn1: "150000\n", hwmon0 + "/temp1_label": "CPU\n"},
			path:  hwmonIn1,
			want:  sensor.ErrImprobable,
		},
		{
			name:  "unreadable",
			files: map[string]string{hwmonIn1: "n/a\n", hwmon0 + "/temp1_label": "CPU\n"},
			path:  hwmonIn1,
			want:  sensor.ErrImprobable,
		},
		{
			name:  "unknown convention",
			files: map[string]string{"/tmp/temp1_input": "45000\n"},
			path:  "/tmp/temp1_input",
			want:  sensor.ErrUnrecognized,
		},
		{
			name:  "no separator",
			files: map[string]string{},
			path:  "temp1_input",
			want:  sensor.ErrUnrecognized,
		},
		{
			name:  "hwmon file without index",
			files: map[string]string{hwmon0 + "/fan1_input": "1200\n"},
			path:  hwmon0 + "/fan1_input",
			want:  sensor.ErrBadIndex,
		},
		{
			name:  "thermal file without zone",
			files: map[string]string{"/sys/class/thermal/cooling_device0/cur_state": "1\n"},
			path:  "/sys/class/thermal/cooling_device0/cur_state",
			want:  sensor.ErrBadIndex,
		},
		{
			name:  "no name",
			files: map[string]string{hwmonIn1: "45000\n"},
			path:  hwmonIn1,
			want:  sensor.ErrNoName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			for p, c := range tt.files {
				writeFile(t, fs, p, c)
			}

			s, err := sensor.NewClassifier(fs, "/sys").Classify(tt.path)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClassifyNameTruncated(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, hwmon0, map[string]string{
		"temp1_input": "45000\n",
		"temp1_label": strings.Repeat("x", 40) + "\n",
	})

	s, err := sensor.NewClassifier(fs, "/sys").Classify(hwmonIn1)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 31), s.Name)
}

func TestClassifierCustomSysfs(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/host/sys/class/hwmon/hwmon0", map[string]string{
		"temp1_input": "45000\n",
		"name":        "k10temp\n",
	})

	c := sensor.NewClassifier(fs, "/host/sys")
	assert.Equal(t, "/host/sys/class/hwmon/", c.HwmonRoot())
	assert.Equal(t, "/host/sys/class/thermal/", c.ThermalRoot())

	s, err := c.Classify("/host/sys/class/hwmon/hwmon0/temp1_input")
	require.NoError(t, err)
	assert.Equal(t, "k10temp", s.Name)

	_, err = c.Classify(hwmonIn1)
	assert.ErrorIs(t, err, sensor.ErrUnrecognized)
}
