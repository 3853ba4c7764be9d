package sensor_test

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()

	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

// writeFiles creates name => content pairs below dir.
func writeFiles(t *testing.T, fs afero.Fs, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		writeFile(t, fs, filepath.Join(dir, name), content)
	}
}
