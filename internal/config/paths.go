package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved file system locations used by the tools.
// Relative configuration values are resolved against the working directory,
// which is where bikeshare datasets are conventionally kept.
type Paths struct {
	WorkDir string
	DataDir string
	LogsDir string
	LogFile string
}

// GetPaths resolves the configured data directory and log file
func GetPaths(cfg *Config) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	logFile := resolve(wd, cfg.Logging.FilePath)
	return &Paths{
		WorkDir: wd,
		DataDir: resolve(wd, cfg.Data.Dir),
		LogsDir: filepath.Dir(logFile),
		LogFile: logFile,
	}, nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// EnsureDirectories creates the directories the tools write to. The data
// directory is read-only input and is never created.
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.LogsDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.LogsDir, err)
	}
	return nil
}

// GetDataPath returns the full path of a dataset file
func (p *Paths) GetDataPath(filename string) string {
	return resolve(p.DataDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs all resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Path resolution",
		slog.String("work_dir", p.WorkDir),
		slog.String("data_dir", p.DataDir),
		slog.Bool("data_dir_exists", FileExists(p.DataDir)),
		slog.String("logs_dir", p.LogsDir),
		slog.String("log_file", p.LogFile))
}
