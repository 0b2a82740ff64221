package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for ALL file paths in the application.
type Paths struct {
	ExecutableDir string
	DataDir       string
	RawDir        string
	DerivedDir    string
	LogsDir       string

	// Well-known data files
	RawExportCSV  string
	RawWorkbook   string
	PanelCSV      string
	EmotionsCSV   string
}

// GetPaths returns the application paths relative to the executable location.
// All paths are ALWAYS relative to the executable directory, never the current
// working directory, so the tool behaves the same wherever it is launched.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)

	// Directory structure:
	//   data/
	//     raw/       (survey exports as delivered)
	//     derived/   (normalized panel outputs)
	//   logs/
	dataDir := filepath.Join(exeDir, "data")
	rawDir := filepath.Join(dataDir, "raw")
	derivedDir := filepath.Join(dataDir, "derived")

	paths := &Paths{
		ExecutableDir: exeDir,
		DataDir:       dataDir,
		RawDir:        rawDir,
		DerivedDir:    derivedDir,
		LogsDir:       filepath.Join(exeDir, "logs"),

		RawExportCSV: filepath.Join(rawDir, RawExportFileName),
		RawWorkbook:  filepath.Join(rawDir, RawWorkbookName),
		PanelCSV:     filepath.Join(derivedDir, PanelOutputName),
		EmotionsCSV:  filepath.Join(derivedDir, LongOutputName),
	}

	return paths, nil
}

// EnsureDirectories creates all required directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.RawDir,
		p.DerivedDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// GetRawPath returns a path inside the raw data directory.
func (p *Paths) GetRawPath(name string) string {
	return filepath.Join(p.RawDir, name)
}

// GetDerivedPath returns a path inside the derived data directory.
func (p *Paths) GetDerivedPath(name string) string {
	return filepath.Join(p.DerivedDir, name)
}

// GetLogPath returns a path inside the logs directory.
func (p *Paths) GetLogPath(name string) string {
	return filepath.Join(p.LogsDir, name)
}

// GetRelativePath returns a path relative to the executable directory.
func (p *Paths) GetRelativePath(subpath string) string {
	return filepath.Join(p.ExecutableDir, subpath)
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved paths for debugging.
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}
	logger.Info("Resolved application paths",
		slog.Group("paths",
			slog.String("executable_dir", p.ExecutableDir),
			slog.String("raw_dir", p.RawDir),
			slog.String("derived_dir", p.DerivedDir),
			slog.String("logs_dir", p.LogsDir),
		),
		slog.Group("files",
			slog.String("raw_export", p.RawExportCSV),
			slog.String("panel_output", p.PanelCSV),
		),
	)
}
