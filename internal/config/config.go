package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config contains runtime configuration required by the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Auth      AuthConfig      `koanf:"auth"`
	Logging   LoggingConfig   `koanf:"logging"`
	Analytics AnalyticsConfig `koanf:"analytics"`
}

type ServerConfig struct {
	Port int `koanf:"port" validate:"min=1,max=65535"`
}

// DatabaseConfig selects the record store backend.
type DatabaseConfig struct {
	Driver string `koanf:"driver" validate:"oneof=postgres memory"`
	URL    string `koanf:"url" validate:"required_if=Driver postgres"`
}

// AuthConfig holds API keys as "role:key,role:key".
type AuthConfig struct {
	APIKeys string `koanf:"api_keys"`

	// Keys maps apiKey -> role. Filled by Load.
	Keys map[string]string `koanf:"-"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// AnalyticsConfig tunes the aggregation engine.
type AnalyticsConfig struct {
	HeatmapCellSize int    `koanf:"heatmap_cell_size" validate:"min=1"`
	JourneyLength   int    `koanf:"journey_length" validate:"min=1"`
	DefaultEntrance string `koanf:"default_entrance" validate:"required"`
	PrivilegedRole  string `koanf:"privileged_role" validate:"required"`
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{"config.yaml", "config.yml", "/etc/venue-analytics/config.yaml"}

// Roles known to the service.
const (
	RoleOfficer        = "officer"
	RoleCenterManager  = "center-manager"
	RoleGeneralManager = "general-manager"
)

func defaultConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "postgres"},
		Logging:  LoggingConfig{Level: "info", Format: "json"},
		Analytics: AnalyticsConfig{
			HeatmapCellSize: 50,
			JourneyLength:   3,
			DefaultEntrance: "Main Entrance",
			PrivilegedRole:  RoleGeneralManager,
		},
	}
}

// envMappings maps the flat environment variable names onto config keys.
var envMappings = map[string]string{
	"db_url":                    "database.url",
	"db_driver":                 "database.driver",
	"api_keys":                  "auth.api_keys",
	"http_port":                 "server.port",
	"log_level":                 "logging.level",
	"log_format":                "logging.format",
	"heatmap_cell_size":         "analytics.heatmap_cell_size",
	"journey_length":            "analytics.journey_length",
	"default_entrance_area":     "analytics.default_entrance",
	"analytics_privileged_role": "analytics.privileged_role",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// Load reads configuration with precedence ENV > config file > defaults.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	keys, err := ParseAPIKeys(cfg.Auth.APIKeys)
	if err != nil {
		return Config{}, err
	}
	// Local dev fallback so the service runs out-of-the-box.
	if len(keys) == 0 {
		keys["local-dev-key"] = RoleCenterManager
	}
	cfg.Auth.Keys = keys

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// ParseAPIKeys parses "role:key,role:key" into apiKey -> role.
func ParseAPIKeys(raw string) (map[string]string, error) {
	keys := map[string]string{}
	for _, p := range strings.Split(strings.TrimSpace(raw), ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parts := strings.SplitN(p, ":", 2)
		if len(parts) != 2 {
			return nil, errors.New(`API_KEYS must be "role:key,role:key"`)
		}
		role := strings.TrimSpace(parts[0])
		key := strings.TrimSpace(parts[1])
		if role == "" || key == "" {
			return nil, errors.New(`API_KEYS must be "role:key,role:key"`)
		}
		keys[key] = role
	}
	return keys, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
