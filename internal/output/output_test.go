package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/sysfacts/internal/errors"
	"github.com/Guliveer/sysfacts/internal/models"
)

func TestWriteCreatesDirectoryAndIndents(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w := New(dir, nil)

	report := models.Report{
		System: models.Section{"cpu": models.Failed("lscpu exited with status 1")},
	}
	path, err := w.Write("", report)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultFilename), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \"system\": {\n    \"cpu\": {"))
	assert.True(t, strings.HasSuffix(string(data), "}\n"))

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.JSONEq(t, "null", string(doc["python"]))
	assert.JSONEq(t, "null", string(doc["javascript"]))
}

func TestWriteReplacesAndLeavesNoTemporaries(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, nil)

	_, err := w.Write("report.json", models.Report{System: models.Section{"run": 1}})
	require.NoError(t, err)
	path, err := w.Write("report.json", models.Report{System: models.Section{"run": 2}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run": 2`)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "report.json", entries[0].Name())
}

func TestWriteUnwritableIsFatalIO(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	_, err := New(filepath.Join(blocker, "sub"), nil).Write("", models.Report{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeFatalIO))
}
