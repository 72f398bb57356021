package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "ANYAPI"

// ConfigFileEnv names a config file to read instead of ./config.yaml.
const ConfigFileEnv = "ANYAPI_CONFIG_FILE"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(ConfigFileEnv))
}

// LoadFile is Load with an explicit config file. An empty path falls back to
// an optional ./config.yaml.
func LoadFile(explicitFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("upstream.timeout_seconds", 30)
	v.SetDefault("upstream.user_agent", "AnyAPI-Proxy/1.0.0")
	v.SetDefault("upstream.max_body_bytes", 10<<20)
	v.SetDefault("catalog.include_builtin", true)
	v.SetDefault("catalog.files", []string{})
	v.SetDefault("catalog.from_database", false)
	v.SetDefault("database.url", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.client_key_hashes", []string{})
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("events.workers", 2)
	v.SetDefault("events.queue_size", 100)

	if explicitFile != "" {
		v.SetConfigFile(explicitFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicitFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags and the rules that span sections.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if cfg.Catalog.FromDatabase && cfg.Database.URL == "" {
		return errors.New("config validation failed: database.url is required when catalog.from_database is set")
	}
	return nil
}
