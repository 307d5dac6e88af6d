package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every BIKESHARE_* variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, EnvPrefix+"_") {
			t.Setenv(key, "")
			require.NoError(t, os.Unsetenv(key))
		}
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bikeshare.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env and no file",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name: "environment overrides defaults",
			env: map[string]string{
				"BIKESHARE_DATA_DIR":                  "/srv/trips",
				"BIKESHARE_SERVER_PORT":               "9090",
				"BIKESHARE_LOGGING_LEVEL":             "debug",
				"BIKESHARE_DATA_CITIES":               "chicago:chi.csv,washington:dc.xlsx",
				"BIKESHARE_SERVER_RATE_LIMIT_ENABLED": "false",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/srv/trips", cfg.Data.Dir)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, map[string]string{"chicago": "chi.csv", "washington": "dc.xlsx"}, cfg.Data.Cities)
				assert.False(t, cfg.Server.RateLimit.Enabled)
			},
		},
		{
			name: "file overrides defaults",
			file: `
data:
  dir: fixtures
  cities:
    chicago: chicago.csv
server:
  port: 7070
  read_timeout: 5s
display:
  color: never
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "fixtures", cfg.Data.Dir)
				assert.Equal(t, map[string]string{"chicago": "chicago.csv"}, cfg.Data.Cities)
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, "never", cfg.Display.Color)
			},
		},
		{
			name: "file turns off defaults that are on",
			file: `
logging:
  development: true
server:
  rate_limit:
    enabled: false
telemetry:
  sample_ratio: 0
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.Server.RateLimit.Enabled)
				assert.Equal(t, 0.0, cfg.Telemetry.SampleRatio)
				assert.True(t, cfg.Logging.Development)
				assert.Equal(t, 20.0, cfg.Server.RateLimit.RPS)
			},
		},
		{
			name: "environment beats explicit file booleans",
			env:  map[string]string{"BIKESHARE_SERVER_RATE_LIMIT_ENABLED": "true"},
			file: "server:\n  rate_limit:\n    enabled: false\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Server.RateLimit.Enabled)
			},
		},
		{
			name: "environment beats file",
			env:  map[string]string{"BIKESHARE_SERVER_PORT": "9191"},
			file: "server:\n  port: 7070\nlogging:\n  level: warn\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9191, cfg.Server.Port)
				assert.Equal(t, "warn", cfg.Logging.Level)
			},
		},
		{
			name:    "invalid yaml",
			file:    "server: [unclosed",
			wantErr: "failed to load config from file",
		},
		{
			name:    "invalid env value",
			env:     map[string]string{"BIKESHARE_SERVER_PORT": "not-a-port"},
			wantErr: "failed to load config from env",
		},
		{
			name:    "validation failure",
			env:     map[string]string{"BIKESHARE_DISPLAY_COLOR": "sometimes"},
			wantErr: "config validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFrom(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFrom_MissingFileIsIgnored(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.Data.Dir)
}

func TestLoad_FindsWorkingDirectoryFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bikeshare.yaml"), []byte("data:\n  dir: local\n"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	assert.Equal(t, "bikeshare.yaml", getConfigFilePath())
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Data.Dir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "default is valid", modify: func(*Config) {}},
		{name: "empty data dir", modify: func(c *Config) { c.Data.Dir = " " }, wantErr: "data directory"},
		{name: "blank catalog file", modify: func(c *Config) { c.Data.Cities = map[string]string{"chicago": ""} }, wantErr: "city catalog"},
		{name: "port zero", modify: func(c *Config) { c.Server.Port = 0 }, wantErr: "invalid server port"},
		{name: "port too large", modify: func(c *Config) { c.Server.Port = 70000 }, wantErr: "invalid server port"},
		{name: "read timeout", modify: func(c *Config) { c.Server.ReadTimeout = 0 }, wantErr: "read timeout"},
		{name: "write timeout", modify: func(c *Config) { c.Server.WriteTimeout = -time.Second }, wantErr: "write timeout"},
		{name: "rate limit burst", modify: func(c *Config) { c.Server.RateLimit.Burst = 0 }, wantErr: "rate limit"},
		{name: "disabled rate limit ignores values", modify: func(c *Config) {
			c.Server.RateLimit.Enabled = false
			c.Server.RateLimit.RPS = 0
		}},
		{name: "trace exporter", modify: func(c *Config) { c.Telemetry.TraceExporter = "jaeger" }, wantErr: "trace exporter"},
		{name: "metric exporter", modify: func(c *Config) { c.Telemetry.MetricExporter = "otlp" }, wantErr: "metric exporter"},
		{name: "sample ratio", modify: func(c *Config) { c.Telemetry.SampleRatio = 1.5 }, wantErr: "sample ratio"},
		{name: "color mode", modify: func(c *Config) { c.Display.Color = "rainbow" }, wantErr: "invalid color mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_NormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "file", cfg.Logging.Output)
	assert.Equal(t, DefaultLogFile, cfg.Logging.FilePath)
}

func TestMergeConfigs(t *testing.T) {
	clearEnv(t)
	t.Setenv("BIKESHARE_LOGGING_LEVEL", "debug")

	fileConfig := Config{
		Data:    DataConfig{Dir: "file-data", Cities: map[string]string{"chicago": "c.csv"}},
		Logging: LoggingConfig{Level: "error", Development: true},
		Server:  ServerConfig{Port: 6060, ReadTimeout: 20 * time.Second},
	}
	envConfig := *Default()
	envConfig.Logging.Level = "debug"

	merged := mergeConfigs(fileConfig, envConfig)

	// Explicit environment wins
	assert.Equal(t, "debug", merged.Logging.Level)

	// File beats defaults
	assert.Equal(t, "file-data", merged.Data.Dir)
	assert.Equal(t, map[string]string{"chicago": "c.csv"}, merged.Data.Cities)
	assert.Equal(t, 6060, merged.Server.Port)
	assert.Equal(t, 20*time.Second, merged.Server.ReadTimeout)

	// Zero file values leave defaults alone
	assert.Equal(t, 30*time.Second, merged.Server.WriteTimeout)
	assert.Equal(t, "auto", merged.Display.Color)
}
