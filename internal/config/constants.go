package config

import "github.com/Jtofah/pdsnd-github/pkg/contracts"

// Application constants
const (
	AppName    = "bikeshare"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable (BIKESHARE_DATA_DIR, ...)
	EnvPrefix = "BIKESHARE"

	DefaultLogFile = "logs/bikeshare.log"
)
