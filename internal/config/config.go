// Package config loads and validates the server settings from file and
// environment via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/scout-genomics/scout/pkg/loqus"
)

// ServerSettings configure the HTTP listener.
type ServerSettings struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseSettings configure the Postgres pool.
type DatabaseSettings struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Database    string        `mapstructure:"database"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	SSLMode     string        `mapstructure:"ssl_mode"`
	MaxConns    int32         `mapstructure:"max_conns"`
	MinConns    int32         `mapstructure:"min_conns"`
	MaxConnLife time.Duration `mapstructure:"conn_max_lifetime"`
	MaxConnIdle time.Duration `mapstructure:"conn_max_idle_time"`
	Migrations  string        `mapstructure:"migrations_path"`
}

// URL renders the settings as a postgres:// URL.
func (d DatabaseSettings) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.Username), url.QueryEscape(d.Password),
		d.Host, d.Port, d.Database, d.SSLMode)
}

// RankModelSettings locate the rank model definition files referenced by
// loaded cases.
type RankModelSettings struct {
	LinkPrefix    string `mapstructure:"link_prefix"`
	SVLinkPrefix  string `mapstructure:"sv_link_prefix"`
	FileExtension string `mapstructure:"file_extension"`
}

// LoggingSettings configure logrus.
type LoggingSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Settings is the complete server configuration.
type Settings struct {
	Environment string                 `mapstructure:"environment"`
	Server      ServerSettings         `mapstructure:"server"`
	Database    DatabaseSettings       `mapstructure:"database"`
	RedisURL    string                 `mapstructure:"redis_url"`
	Loqus       []loqus.InstanceConfig `mapstructure:"loqus"`
	RankModel   RankModelSettings      `mapstructure:"rank_model"`
	Logging     LoggingSettings        `mapstructure:"logging"`
}

// Manager loads and holds the settings.
type Manager struct {
	settings *Settings
}

// NewManager loads the configuration from file, environment and defaults.
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.load(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

func (m *Manager) load() error {
	viper.SetConfigName("scout")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/scout/")

	viper.SetEnvPrefix("SCOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	m.setDefaults()

	// The config file is optional; defaults and environment suffice for a
	// local setup.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.settings = settings
	return nil
}

func (m *Manager) setDefaults() {
	viper.SetDefault("environment", "development")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.database", "scout")
	viper.SetDefault("database.username", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_conns", 25)
	viper.SetDefault("database.min_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", "5m")
	viper.SetDefault("database.conn_max_idle_time", "30m")
	viper.SetDefault("database.migrations_path", "migrations")

	viper.SetDefault("redis_url", "")

	viper.SetDefault("rank_model.link_prefix", "")
	viper.SetDefault("rank_model.sv_link_prefix", "")
	viper.SetDefault("rank_model.file_extension", ".ini")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

// GetSettings returns the complete configuration.
func (m *Manager) GetSettings() *Settings {
	return m.settings
}

// Reload re-reads the configuration from all sources.
func (m *Manager) Reload() error {
	return m.load()
}

// Validate checks the loaded configuration for obvious mistakes.
func (m *Manager) Validate() error {
	settings := m.settings

	if settings.Server.Port <= 0 || settings.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", settings.Server.Port)
	}

	if settings.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if settings.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if settings.Database.Username == "" {
		return fmt.Errorf("database username is required")
	}

	for _, instance := range settings.Loqus {
		if instance.URL == "" && instance.Binary == "" {
			return fmt.Errorf("observation instance %q needs an api_url or a binary_path", instance.ID)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(settings.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", settings.Logging.Level)
	}

	return nil
}

// DatabaseURL returns the postgres:// URL used by the migration runner.
func (m *Manager) DatabaseURL() string {
	return m.settings.Database.URL()
}

// IsProduction reports whether the server runs in production mode.
func (m *Manager) IsProduction() bool {
	return m.settings.IsProduction()
}

// IsProduction reports whether the settings select production mode.
func (s *Settings) IsProduction() bool {
	return strings.ToLower(s.Environment) == "production"
}
