package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	SPAPI       SPAPIConfig   `toml:"spapi"`
	Auth        AuthConfig    `toml:"auth"`
	Demo        DemoConfig    `toml:"demo"`
	Cache       CacheConfig   `toml:"cache"`
	Storage     StorageConfig `toml:"storage"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// SPAPIConfig contains Selling Partner API credentials and endpoints.
// Credential fields are normally supplied via environment variables rather
// than TOML; both are accepted, with environment winning.
type SPAPIConfig struct {
	ClientID      string `toml:"client_id"`
	ClientSecret  string `toml:"client_secret"`
	RefreshToken  string `toml:"refresh_token"`
	SellerID      string `toml:"seller_id"`
	MarketplaceID string `toml:"marketplace_id"`

	// Optional AWS role fields. The LWA bearer path does not need them but
	// a role-signed deployment can carry them.
	AWSAccessKeyID     string `toml:"aws_access_key_id"`
	AWSSecretAccessKey string `toml:"aws_secret_access_key"`
	AWSRegion          string `toml:"aws_region"`
	AWSRoleARN         string `toml:"aws_role_arn"`

	Endpoint       string `toml:"endpoint"`
	LWAURL         string `toml:"lwa_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// AuthConfig contains dashboard access gating settings.
type AuthConfig struct {
	AppPassword     string `toml:"app_password"`
	JWTSecret       string `toml:"jwt_secret"`
	SessionTTLHours int    `toml:"session_ttl_hours"`
}

// DemoConfig contains demo data generation settings.
type DemoConfig struct {
	Seed int64 `toml:"seed"`
}

// CacheConfig contains snapshot cache settings.
type CacheConfig struct {
	TTLSeconds int `toml:"ttl_seconds"`
	MaxEntries int `toml:"max_entries"`
}

// StorageConfig contains storage layer settings.
type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
// SP-API and app credentials use their conventional flat names; server and
// logging settings are namespaced under VIKTORY_*.
func applyEnvOverrides(config *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&config.SPAPI.ClientID, "SP_API_CLIENT_ID")
	setString(&config.SPAPI.ClientSecret, "SP_API_CLIENT_SECRET")
	setString(&config.SPAPI.RefreshToken, "SP_API_REFRESH_TOKEN")
	setString(&config.SPAPI.SellerID, "SELLER_ID")
	setString(&config.SPAPI.MarketplaceID, "MARKETPLACE_ID")
	setString(&config.SPAPI.AWSAccessKeyID, "AWS_ACCESS_KEY_ID")
	setString(&config.SPAPI.AWSSecretAccessKey, "AWS_SECRET_ACCESS_KEY")
	setString(&config.SPAPI.AWSRegion, "AWS_REGION")
	setString(&config.SPAPI.AWSRoleARN, "AWS_ROLE_ARN")
	setString(&config.Auth.AppPassword, "APP_PASSWORD")
	setString(&config.Auth.JWTSecret, "VIKTORY_JWT_SECRET")

	if port := os.Getenv("VIKTORY_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	setString(&config.Server.Host, "VIKTORY_SERVER_HOST")
	setString(&config.Storage.Badger.Path, "VIKTORY_BADGER_PATH")
	setString(&config.Logging.Level, "VIKTORY_LOG_LEVEL")
	setString(&config.Logging.Format, "VIKTORY_LOG_FORMAT")

	if seed := os.Getenv("VIKTORY_DEMO_SEED"); seed != "" {
		if s, err := strconv.ParseInt(seed, 10, 64); err == nil {
			config.Demo.Seed = s
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks mandatory configuration and returns a list of issues.
// An empty slice means the configuration is usable.
func (c *Config) Validate() []string {
	var issues []string

	if c.Auth.AppPassword == "" {
		issues = append(issues, "auth.app_password is required (or set APP_PASSWORD)")
	}
	if c.Auth.JWTSecret == "" {
		issues = append(issues, "auth.jwt_secret is required (or set VIKTORY_JWT_SECRET)")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}

	return issues
}

// IsDevMode returns true when the environment is set to dev.
func (c *Config) IsDevMode() bool {
	return c.Environment == "dev" || c.Environment == "development"
}
