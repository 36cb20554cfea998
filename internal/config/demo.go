// Demo-mode configuration. The demo server runs against the in-memory store
// with a bundled example case, so it needs no database, redis or observation
// service and is configured from the environment alone.
package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// DemoSettings configure the standalone demo server.
type DemoSettings struct {
	// DataDir holds the bundled demo fixtures (case config, panels, VCF
	// derived variant documents).
	DataDir string

	HTTPPort int

	// Institute and case the fixtures are loaded under.
	Institute string
	CaseName  string

	LogLevel  string
	LogFormat string
}

// DefaultDemoSettings returns the demo defaults.
func DefaultDemoSettings() *DemoSettings {
	homeDir, _ := os.UserHomeDir()
	return &DemoSettings{
		DataDir:   filepath.Join(homeDir, ".scout", "demo"),
		HTTPPort:  8080,
		Institute: "cust000",
		CaseName:  "internal_id_1",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// LoadDemoSettings loads the demo settings from environment variables,
// falling back to defaults.
func LoadDemoSettings() *DemoSettings {
	settings := DefaultDemoSettings()

	if v := os.Getenv("SCOUT_DEMO_DATA_DIR"); v != "" {
		settings.DataDir = v
	}
	if v := os.Getenv("SCOUT_DEMO_HTTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			settings.HTTPPort = n
		}
	}
	if v := os.Getenv("SCOUT_DEMO_INSTITUTE"); v != "" {
		settings.Institute = v
	}
	if v := os.Getenv("SCOUT_DEMO_CASE"); v != "" {
		settings.CaseName = v
	}
	if v := os.Getenv("SCOUT_DEMO_LOG_LEVEL"); v != "" {
		settings.LogLevel = v
	}
	if v := os.Getenv("SCOUT_DEMO_LOG_FORMAT"); v != "" {
		settings.LogFormat = v
	}

	return settings
}

// FixturePath returns the path of one bundled fixture file.
func (s *DemoSettings) FixturePath(name string) string {
	return filepath.Join(s.DataDir, name)
}
