// Package config loads settings from defaults, an optional config file,
// a .env file and EXPENSES_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"expense-manager/internal/auth"
	"expense-manager/internal/storage"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds the application settings.
type Config struct {
	DBPath     string `mapstructure:"db_path"`
	LogLevel   string `mapstructure:"log_level"`
	HashScheme string `mapstructure:"hash_scheme"`
	ListLimit  int    `mapstructure:"list_limit"`
}

// Scheme returns the parsed hash scheme.
func (c *Config) Scheme() (auth.Scheme, error) {
	return auth.ParseScheme(c.HashScheme)
}

// Validate checks the settings that cannot be corrected silently.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, "db_path is empty")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log_level %q", c.LogLevel))
	}
	if _, err := c.Scheme(); err != nil {
		problems = append(problems, err.Error())
	}
	if c.ListLimit < 0 {
		problems = append(problems, fmt.Sprintf("invalid list_limit %d", c.ListLimit))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Load reads the configuration. configPath may be empty, in which case a
// config.yaml is looked up in the working directory and next to the
// database. A missing .env or config file is not an error.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	defaultPath, err := storage.DefaultPath()
	if err != nil {
		defaultPath = "expenses.db"
	}
	// DB_PATH is still honored for compatibility with older setups, below
	// EXPENSES_DB_PATH and the config file.
	dbPath := defaultPath
	if path := os.Getenv("DB_PATH"); path != "" {
		dbPath = path
	}
	v.SetDefault("db_path", dbPath)
	v.SetDefault("log_level", "warn")
	v.SetDefault("hash_scheme", string(auth.SchemePlain))
	v.SetDefault("list_limit", storage.DefaultLimit)

	v.SetEnvPrefix("EXPENSES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Dir(defaultPath))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, cfg.Validate()
}
