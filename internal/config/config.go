// Package config reads the application settings from environment variables.
package config

import (
	"fmt"
	"slices"

	"github.com/caarlos0/env/v11"
)

// Backends are the supported storage backends.
var Backends = []string{"csv", "mysql", "sqlite"}

// Config holds all settings. The database variables are only needed for the mysql backend.
//
// Usage example:
// > FRIENDS_BACKEND=mysql DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 friends serve
type Config struct {
	Backend    string `env:"FRIENDS_BACKEND"     envDefault:"csv"`
	File       string `env:"FRIENDS_FILE"        envDefault:"friends_database.csv"`
	SQLitePath string `env:"FRIENDS_SQLITE_PATH" envDefault:"friends.db"`

	DBUser string `env:"DBUSER"`
	DBPwd  string `env:"DBPWD"`
	DBHost string `env:"DBHOST" envDefault:"localhost:3306"`
	DBName string `env:"DBNAME" envDefault:"test"`

	Port       int    `env:"PORT"        envDefault:"8080"`
	GinLogging string `env:"GIN_LOGGING" envDefault:"on"`

	LogFile  string `env:"LOG_FILE"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings that cannot be defaulted.
func (c Config) Validate() error {
	if !slices.Contains(Backends, c.Backend) {
		return fmt.Errorf("FRIENDS_BACKEND must be one of %v, got %q", Backends, c.Backend)
	}
	if c.Backend == "csv" && c.File == "" {
		return fmt.Errorf("FRIENDS_FILE is required for the csv backend")
	}
	if c.Backend == "sqlite" && c.SQLitePath == "" {
		return fmt.Errorf("FRIENDS_SQLITE_PATH is required for the sqlite backend")
	}
	if c.Backend == "mysql" && c.DBUser == "" {
		return fmt.Errorf("DBUSER is required for the mysql backend")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}
