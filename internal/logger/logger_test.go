package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesJSONFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	cleanup, err := Setup(Config{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "bistro.log"), Path())

	L().Info("restaurant.committed", "name", "Cozy Bistro")
	L().Debug("hidden at info level")
	require.NoError(t, cleanup())

	assert.Empty(t, Path())

	data, err := os.ReadFile(filepath.Join(dir, "bistro.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rec))
	assert.Equal(t, "restaurant.committed", rec["msg"])
	assert.Equal(t, "Cozy Bistro", rec["name"])
}

func TestNewDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Debug("image.discarded", "generation", 3)
	assert.Contains(t, buf.String(), `"generation":3`)

	buf.Reset()
	New(&buf, false).Debug("image.discarded")
	assert.Empty(t, buf.String())
}
