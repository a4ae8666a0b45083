package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"vpn-coordination-portal/internal/email"
)

type Config struct {
	LogLevel string `mapstructure:"log_level"`

	// Public base URL used when building the tokenized links sent by email.
	// May be absolute, e.g. https://vpn.example.com, without a trailing slash.
	BaseURL string `mapstructure:"base_url"`

	// Comma separated list of CIDR networks allowed to reach /admin.
	// Empty means no restriction.
	AdminNetworks string `mapstructure:"admin_networks"`

	Storage Storage `mapstructure:"storage"`

	Email email.SMTPConfig `mapstructure:"email"`
}

// Check if running in Docker container by checking for the presence of /.dockerenv file
func runningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}

func getConfigPath() string {
	if runningInDocker() {
		return "/app/instance"
	}
	return "./instance"
}

// LoadConfig reads configuration from an optional config file and environment
// variables and returns a Config struct.
func LoadConfig(configFile ...string) (*Config, error) {
	var cfg Config

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(getConfigPath())
	v.AddConfigPath(".")
	v.SetEnvPrefix("")

	explicitFile := len(configFile) > 0
	if explicitFile {
		for _, path := range configFile {
			v.SetConfigFile(path)
		}
	}

	for k, val := range Defaults() {
		v.SetDefault(k, val)
	}

	if err := v.ReadInConfig(); err != nil {
		// No config file is fine; a named one that cannot be read is not.
		var notFound viper.ConfigFileNotFoundError
		if explicitFile || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	// Load configuration from environment variables
	v.AutomaticEnv()

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %v", err)
	}

	// Convert relative sqlite path to the instance folder
	if cfg.Storage.SQLite != nil && cfg.Storage.SQLite.Path != "" {
		if cfg.Storage.SQLite.Path == ":memory:" {
			// In-memory database, do nothing
		} else if !os.IsPathSeparator(cfg.Storage.SQLite.Path[0]) {
			cfg.Storage.SQLite.Path = fmt.Sprintf("%s/%s", getConfigPath(), cfg.Storage.SQLite.Path)
		}
	}

	return &cfg, nil
}
