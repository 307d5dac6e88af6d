// Package config provides centralized configuration management for the
// bikeshare tools. It loads configuration from multiple sources, validates it,
// and resolves the file system paths the tools read from and write to.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. YAML configuration file (bikeshare.yaml or configs/bikeshare.yaml)
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern BIKESHARE_* for namespacing:
//
//	BIKESHARE_DATA_DIR=/srv/bikeshare
//	BIKESHARE_DATA_CITIES=chicago:chicago.csv,washington:washington.xlsx
//	BIKESHARE_LOGGING_LEVEL=debug
//	BIKESHARE_SERVER_PORT=9090
//	BIKESHARE_TELEMETRY_TRACE_EXPORTER=stdout
//	BIKESHARE_DISPLAY_COLOR=never
//
// # Configuration File
//
//	data:
//	  dir: data
//	  cities:
//	    chicago: chicago.csv
//	    new york city: new_york_city.csv
//	logging:
//	  level: info
//	  output: file
//	server:
//	  port: 8080
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	paths, err := config.GetPaths(cfg)
//
// For tests, config.Default() returns a configuration that needs no
// environment or files.
package config
