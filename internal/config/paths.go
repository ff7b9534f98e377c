package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the resolved application paths.
// This is the single source of truth for file locations in the pipeline.
type Paths struct {
	ExecutableDir string
	DataDir       string
	ReportsDir    string
	LogsDir       string

	// Input files
	RawIncidentsCSV string
	OutcomesCSV     string

	// Stage checkpoint files (durable artifacts written after each stage)
	StagedCSV     string
	PrimaryCSV    string
	ReportingCSV  string
	ReportingXLSX string
}

// NewPaths resolves all paths from the configuration. Relative directories are
// anchored at the executable directory so runs behave the same regardless of
// the current working directory.
//
// Directory structure:
//
//	<exe dir>/
//	  ├── data/
//	  │   ├── street.csv          (raw incidents input)
//	  │   ├── outcomes.csv        (outcomes input)
//	  │   └── reports/            (stage outputs)
//	  │       ├── staged_street.csv
//	  │       ├── primary_street.csv
//	  │       ├── reporting_street.csv
//	  │       └── reporting_street.xlsx
//	  └── logs/
func NewPaths(cfg *Config) (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}
	exeDir := filepath.Dir(exe)

	dataDir := resolveDir(exeDir, cfg.Paths.DataDir)
	reportsDir := resolveDir(exeDir, cfg.Paths.ReportsDir)
	logsDir := resolveDir(exeDir, cfg.Paths.LogsDir)

	return &Paths{
		ExecutableDir: exeDir,
		DataDir:       dataDir,
		ReportsDir:    reportsDir,
		LogsDir:       logsDir,

		RawIncidentsCSV: filepath.Join(dataDir, cfg.Pipeline.RawFile),
		OutcomesCSV:     filepath.Join(dataDir, cfg.Pipeline.OutcomesFile),

		StagedCSV:     filepath.Join(reportsDir, "staged_street.csv"),
		PrimaryCSV:    filepath.Join(reportsDir, "primary_street.csv"),
		ReportingCSV:  filepath.Join(reportsDir, "reporting_street.csv"),
		ReportingXLSX: filepath.Join(reportsDir, "reporting_street.xlsx"),
	}, nil
}

// resolveDir anchors a relative directory at the base directory
func resolveDir(baseDir, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(baseDir, dir)
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.ReportsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetLogPath returns the path for a log file inside the logs directory
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetReportPath returns the path for a file inside the reports directory
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}
