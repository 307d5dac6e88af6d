package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Display   DisplayConfig   `yaml:"display" envconfig:"DISPLAY"`
}

// DataConfig locates the trip datasets
type DataConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR" default:"data"`
	// Cities overrides the built-in city catalog (city name -> file name).
	Cities map[string]string `yaml:"cities" envconfig:"CITIES"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"file"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/bikeshare.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	RequestTimeout  time.Duration   `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"30s"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"20"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"40"`
}

// TelemetryConfig selects OpenTelemetry exporters
type TelemetryConfig struct {
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" default:"prometheus"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1.0"`
}

// DisplayConfig controls terminal rendering
type DisplayConfig struct {
	Color string `yaml:"color" envconfig:"COLOR" default:"auto"`
}

// Load loads configuration from environment variables and the first config
// file found in the well-known locations.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom loads configuration from environment variables and the given YAML
// file. An empty path skips the file layer. Environment variables take
// precedence over the file, which takes precedence over defaults.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileConfig, explicit, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = mergeConfigs(*fileConfig, cfg)
			mergeExplicit(explicit, &cfg)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// fileSettings holds the file fields whose zero value is a valid setting.
// A nil pointer means the key is absent from the file.
type fileSettings struct {
	Logging struct {
		Development *bool `yaml:"development"`
	} `yaml:"logging"`
	Server struct {
		RateLimit struct {
			Enabled *bool `yaml:"enabled"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Telemetry struct {
		SampleRatio *float64 `yaml:"sample_ratio"`
	} `yaml:"telemetry"`
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, *fileSettings, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, nil, err
	}
	var explicit fileSettings
	if err := yaml.Unmarshal(data, &explicit); err != nil {
		return nil, nil, err
	}

	return &cfg, &explicit, nil
}

// envSet reports whether BIKESHARE_<key> is present in the environment
func envSet(key string) bool {
	_, ok := os.LookupEnv(EnvPrefix + "_" + key)
	return ok
}

// mergeExplicit applies the booleans and ratios the file sets, including
// false and 0, unless their environment variable is set
func mergeExplicit(explicit *fileSettings, cfg *Config) {
	if v := explicit.Logging.Development; v != nil && !envSet("LOGGING_DEVELOPMENT") {
		cfg.Logging.Development = *v
	}
	if v := explicit.Server.RateLimit.Enabled; v != nil && !envSet("SERVER_RATE_LIMIT_ENABLED") {
		cfg.Server.RateLimit.Enabled = *v
	}
	if v := explicit.Telemetry.SampleRatio; v != nil && !envSet("TELEMETRY_SAMPLE_RATIO") {
		cfg.Telemetry.SampleRatio = *v
	}
}

// mergeConfigs overlays non-zero file values onto envConfig for every field
// whose environment variable was not explicitly set.
func mergeConfigs(fileConfig, envConfig Config) Config {
	mergeString := func(dst *string, src, key string) {
		if src != "" && !envSet(key) {
			*dst = src
		}
	}
	mergeDuration := func(dst *time.Duration, src time.Duration, key string) {
		if src != 0 && !envSet(key) {
			*dst = src
		}
	}

	// Data
	mergeString(&envConfig.Data.Dir, fileConfig.Data.Dir, "DATA_DIR")
	if len(fileConfig.Data.Cities) > 0 && !envSet("DATA_CITIES") {
		envConfig.Data.Cities = fileConfig.Data.Cities
	}

	// Logging
	mergeString(&envConfig.Logging.Level, fileConfig.Logging.Level, "LOGGING_LEVEL")
	mergeString(&envConfig.Logging.Format, fileConfig.Logging.Format, "LOGGING_FORMAT")
	mergeString(&envConfig.Logging.Output, fileConfig.Logging.Output, "LOGGING_OUTPUT")
	mergeString(&envConfig.Logging.FilePath, fileConfig.Logging.FilePath, "LOGGING_FILE_PATH")

	// Server
	if fileConfig.Server.Port != 0 && !envSet("SERVER_PORT") {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	mergeDuration(&envConfig.Server.ReadTimeout, fileConfig.Server.ReadTimeout, "SERVER_READ_TIMEOUT")
	mergeDuration(&envConfig.Server.WriteTimeout, fileConfig.Server.WriteTimeout, "SERVER_WRITE_TIMEOUT")
	mergeDuration(&envConfig.Server.IdleTimeout, fileConfig.Server.IdleTimeout, "SERVER_IDLE_TIMEOUT")
	mergeDuration(&envConfig.Server.ShutdownTimeout, fileConfig.Server.ShutdownTimeout, "SERVER_SHUTDOWN_TIMEOUT")
	mergeDuration(&envConfig.Server.RequestTimeout, fileConfig.Server.RequestTimeout, "SERVER_REQUEST_TIMEOUT")
	if fileConfig.Server.RateLimit.RPS != 0 && !envSet("SERVER_RATE_LIMIT_RPS") {
		envConfig.Server.RateLimit.RPS = fileConfig.Server.RateLimit.RPS
	}
	if fileConfig.Server.RateLimit.Burst != 0 && !envSet("SERVER_RATE_LIMIT_BURST") {
		envConfig.Server.RateLimit.Burst = fileConfig.Server.RateLimit.Burst
	}

	// Telemetry
	mergeString(&envConfig.Telemetry.Environment, fileConfig.Telemetry.Environment, "TELEMETRY_ENVIRONMENT")
	mergeString(&envConfig.Telemetry.TraceExporter, fileConfig.Telemetry.TraceExporter, "TELEMETRY_TRACE_EXPORTER")
	mergeString(&envConfig.Telemetry.MetricExporter, fileConfig.Telemetry.MetricExporter, "TELEMETRY_METRIC_EXPORTER")

	// Display
	mergeString(&envConfig.Display.Color, fileConfig.Display.Color, "DISPLAY_COLOR")

	return envConfig
}

// validate validates the configuration and normalizes logging settings
func (c *Config) validate() error {
	if strings.TrimSpace(c.Data.Dir) == "" {
		return fmt.Errorf("data directory must be set")
	}
	for city, file := range c.Data.Cities {
		if strings.TrimSpace(city) == "" || strings.TrimSpace(file) == "" {
			return fmt.Errorf("city catalog entries need a name and a file: %q -> %q", city, file)
		}
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}
	if c.Server.RateLimit.Enabled && (c.Server.RateLimit.RPS <= 0 || c.Server.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive when enabled")
	}

	switch c.Telemetry.TraceExporter {
	case "stdout", "none":
	default:
		return fmt.Errorf("unsupported trace exporter: %s", c.Telemetry.TraceExporter)
	}
	switch c.Telemetry.MetricExporter {
	case "prometheus", "none":
	default:
		return fmt.Errorf("unsupported metric exporter: %s", c.Telemetry.MetricExporter)
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry sample ratio must be within [0, 1]: %v", c.Telemetry.SampleRatio)
	}

	switch c.Display.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color mode %q: must be auto, always, or never", c.Display.Color)
	}

	// Logs are always JSON
	c.Logging.Format = "json"
	switch c.Logging.Output {
	case "file", "both", "console":
	default:
		c.Logging.Output = "file"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"bikeshare.yaml",
		"configs/bikeshare.yaml",
		"../configs/bikeshare.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dir: "data",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "file",
			FilePath: DefaultLogFile,
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
		Display: DisplayConfig{
			Color: "auto",
		},
	}
}
