package snapshot_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/troglobit/temp/internal/errors"
	"github.com/troglobit/temp/internal/sensor"
	"github.com/troglobit/temp/internal/snapshot"
)

const (
	hwmon0 = "/sys/class/hwmon/hwmon0"
	target = "/run/temp.json"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

// cpuRegistry registers one hwmon sensor labelled CPU with a known
// critical temperature.
func cpuRegistry(t *testing.T, fs afero.Fs) *sensor.Registry {
	t.Helper()

	require.NoError(t, fs.MkdirAll(hwmon0, 0o755))
	writeFile(t, fs, hwmon0+"/temp1_input", "45000\n")
	writeFile(t, fs, hwmon0+"/temp1_label", "CPU\n")
	writeFile(t, fs, hwmon0+"/temp1_crit", "95000\n")
	writeFile(t, fs, hwmon0+"/name", "coretemp\n")

	reg := sensor.NewRegistry()
	_, err := sensor.NewClassifier(fs, "/sys").Register(reg, hwmon0+"/temp1_input", false)
	require.NoError(t, err)

	return reg
}

func enabled() snapshot.Config {
	return snapshot.Config{Path: target, Interval: 2 * time.Second, Enabled: true}
}

func TestWriteSingleSensor(t *testing.T) {
	fs := afero.NewMemMapFs()
	reg := cpuRegistry(t, fs)

	s := reg.Sensors()[0]
	_, err := s.Sample()
	require.NoError(t, err)
	writeFile(t, fs, s.Path, "46500\n")
	_, err = s.Sample()
	require.NoError(t, err)

	c, err := snapshot.NewService(fs, enabled())
	require.NoError(t, err)
	assert.True(t, c.Enabled())
	require.NoError(t, c.Write(context.Background(), reg))

	data, err := afero.ReadFile(fs, target)
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 1)

	obj := got[0]
	assert.Equal(t, "CPU", obj["name"])
	assert.Equal(t, hwmon0+"/temp1_input", obj["file"])
	assert.Equal(t, "95.0", obj["critical"])
	assert.Equal(t, 2000.0, obj["interval"])

	temps, ok := obj["temperature"].([]any)
	require.True(t, ok)
	require.Len(t, temps, sensor.WindowSize)
	assert.Equal(t, "45.0", temps[0])
	assert.Equal(t, "46.5", temps[1])
	for _, v := range temps[2:] {
		assert.Equal(t, "0.0", v)
	}
}

func TestWriteOmitsUnknownCritical(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(hwmon0, 0o755))
	writeFile(t, fs, hwmon0+"/temp2_input", "38000\n")
	writeFile(t, fs, hwmon0+"/name", "nvme\n")

	reg := sensor.NewRegistry()
	_, err := sensor.NewClassifier(fs, "/sys").Register(reg, hwmon0+"/temp2_input", false)
	require.NoError(t, err)

	c, err := snapshot.NewService(fs, enabled())
	require.NoError(t, err)
	require.NoError(t, c.Write(context.Background(), reg))

	data, err := afero.ReadFile(fs, target)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "critical")
	assert.Contains(t, string(data), `"name": "nvme"`)
}

func TestWriteTruncatesPrevious(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, target, "this used to be a much longer file than the new one")

	c, err := snapshot.NewService(fs, enabled())
	require.NoError(t, err)
	require.NoError(t, c.Write(context.Background(), sensor.NewRegistry()))

	data, err := afero.ReadFile(fs, target)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestWriteFailure(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())

	c, err := snapshot.NewService(fs, enabled())
	require.NoError(t, err)

	err = c.Write(context.Background(), sensor.NewRegistry())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, snapshot.ErrWrite))
	assert.Contains(t, err.Error(), "Failed writing snapshot")
}

func TestWriteCanceled(t *testing.T) {
	fs := afero.NewMemMapFs()
	c, err := snapshot.NewService(fs, enabled())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = c.Write(ctx, sensor.NewRegistry())
	assert.True(t, errors.HasCode(err, snapshot.ErrWriteCanceled))

	exists, _ := afero.Exists(fs, target)
	assert.False(t, exists)
}

func TestDisabledIsNoop(t *testing.T) {
	fs := afero.NewMemMapFs()

	c, err := snapshot.NewService(fs, snapshot.DefaultConfig())
	require.NoError(t, err)
	assert.False(t, c.Enabled())
	require.NoError(t, c.Write(context.Background(), cpuRegistry(t, fs)))
	require.NoError(t, c.Close())

	exists, _ := afero.Exists(fs, target)
	assert.False(t, exists)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  snapshot.Config
		code errors.ErrorCode
	}{
		{"disabled", snapshot.Config{}, ""},
		{"enabled", enabled(), ""},
		{"no path", snapshot.Config{Interval: time.Second, Enabled: true}, snapshot.ErrInvalidPath},
		{"short interval", snapshot.Config{Path: target, Interval: 50 * time.Millisecond, Enabled: true}, snapshot.ErrInvalidInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.HasCode(err, tt.code))
		})
	}

	_, err := snapshot.NewService(afero.NewMemMapFs(), snapshot.Config{Enabled: true})
	assert.True(t, errors.HasCode(err, snapshot.ErrInvalidConfig))
}
