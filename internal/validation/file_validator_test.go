package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelcli/internal/shared/testutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateFile(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)
	dir := t.TempDir()

	t.Run("existing file", func(t *testing.T) {
		path := writeFile(t, dir, "export.csv", "caseid,wave\n")
		assert.NoError(t, v.ValidateFile(path))
	})

	t.Run("missing file", func(t *testing.T) {
		err := v.ValidateFile(filepath.Join(dir, "nope.csv"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("directory", func(t *testing.T) {
		err := v.ValidateFile(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "directory")
	})
}

func TestValidateExportFile(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)
	dir := t.TempDir()

	t.Run("csv accepted", func(t *testing.T) {
		path := writeFile(t, dir, "export.csv", "caseid,wave\n")
		assert.NoError(t, v.ValidateExportFile(path))
	})

	t.Run("xlsx accepted", func(t *testing.T) {
		path := writeFile(t, dir, "export.xlsx", "not really a workbook")
		assert.NoError(t, v.ValidateExportFile(path))
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, dir, "export.sav", "spss")
		err := v.ValidateExportFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a supported survey export")
	})

	t.Run("excel lock file rejected", func(t *testing.T) {
		path := writeFile(t, dir, "~$export.xlsx", "")
		err := v.ValidateExportFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "temporary Excel file")
	})
}

func TestValidateOutputDirectory(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)

	dir := filepath.Join(t.TempDir(), "derived", "nested")
	require.NoError(t, v.ValidateOutputDirectory(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// The writability probe cleans up after itself.
	_, err = os.Stat(filepath.Join(dir, ".write_test"))
	assert.True(t, os.IsNotExist(err))

	assert.True(t, handler.ContainsMessage("Output directory validated"))
}
