// Package setup scaffolds a deployment: a starter configuration file and the
// demo data directory, plus a sanity check over an existing installation.
package setup

import (
	"fmt"
	"os"
	"path/filepath"
)

// Options control scaffolding.
type Options struct {
	// Dir is where scout.yaml is written. Defaults to the working directory.
	Dir string
	// DataDir is the demo fixture directory to create. Empty skips it.
	DataDir string
	// Force overwrites an existing configuration file.
	Force bool
}

const configTemplate = `environment: development

server:
  host: 0.0.0.0
  port: 8080

database:
  host: localhost
  port: 5432
  database: scout
  username: postgres
  password: ""
  ssl_mode: disable
  migrations_path: migrations

# redis_url: redis://localhost:6379/0

# loqus:
#   - id: default
#     api_url: http://localhost:9000

rank_model:
  link_prefix: ""
  sv_link_prefix: ""
  file_extension: .ini

logging:
  level: info
  format: json
`

// WriteConfig writes a starter scout.yaml and returns its path. An existing
// file is left alone unless Force is set.
func WriteConfig(opts Options) (string, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, "scout.yaml")

	if _, err := os.Stat(path); err == nil && !opts.Force {
		return path, fmt.Errorf("%s already exists, use force to overwrite", path)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// EnsureDataDir creates the demo fixture directory.
func EnsureDataDir(dataDir string) error {
	if dataDir == "" {
		return nil
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}
	return nil
}

// Validate checks an installation directory and returns human readable
// issues. An empty slice means the directory looks serviceable.
func Validate(dir string) []string {
	if dir == "" {
		dir = "."
	}

	var issues []string
	if _, err := os.Stat(filepath.Join(dir, "scout.yaml")); err != nil {
		issues = append(issues, "scout.yaml not found, run setup or set SCOUT_* environment variables")
	}
	migrations := filepath.Join(dir, "migrations")
	entries, err := os.ReadDir(migrations)
	if err != nil {
		issues = append(issues, "migrations directory not found, database schema cannot be applied")
	} else if len(entries) == 0 {
		issues = append(issues, "migrations directory is empty")
	}
	return issues
}
