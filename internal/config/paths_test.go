package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	cfg := Default()

	paths, err := NewPaths(cfg)
	require.NoError(t, err)

	assert.NotEmpty(t, paths.ExecutableDir)
	assert.Equal(t, filepath.Join(paths.ExecutableDir, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(paths.DataDir, "reports"), paths.ReportsDir)
	assert.Equal(t, filepath.Join(paths.DataDir, "street.csv"), paths.RawIncidentsCSV)
	assert.Equal(t, filepath.Join(paths.DataDir, "outcomes.csv"), paths.OutcomesCSV)
	assert.Equal(t, filepath.Join(paths.ReportsDir, "staged_street.csv"), paths.StagedCSV)
	assert.Equal(t, filepath.Join(paths.ReportsDir, "primary_street.csv"), paths.PrimaryCSV)
	assert.Equal(t, filepath.Join(paths.ReportsDir, "reporting_street.csv"), paths.ReportingCSV)
	assert.Equal(t, filepath.Join(paths.ReportsDir, "reporting_street.xlsx"), paths.ReportingXLSX)
}

func TestNewPathsAbsoluteOverride(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.Paths.DataDir = dir

	paths, err := NewPaths(cfg)
	require.NoError(t, err)

	assert.Equal(t, dir, paths.DataDir)
	assert.Equal(t, filepath.Join(dir, "street.csv"), paths.RawIncidentsCSV)
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.ReportsDir = filepath.Join(dir, "data", "reports")
	cfg.Paths.LogsDir = filepath.Join(dir, "logs")

	paths, err := NewPaths(cfg)
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	for _, d := range []string{paths.DataDir, paths.ReportsDir, paths.LogsDir} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestGetLogPath(t *testing.T) {
	paths := &Paths{LogsDir: "/var/log/crimeflow"}
	assert.Equal(t, filepath.Join("/var/log/crimeflow", "pipeline.log"), paths.GetLogPath("pipeline.log"))
}
