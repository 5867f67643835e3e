package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, name := range []string{"FRIENDS_BACKEND", "FRIENDS_FILE", "PORT", "LOG_LEVEL", "DBHOST"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Backend)
	assert.Equal(t, "friends_database.csv", cfg.File)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "localhost:3306", cfg.DBHost)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("FRIENDS_BACKEND", "mysql")
	t.Setenv("DBUSER", "dirk")
	t.Setenv("DBPWD", "bullo92")
	t.Setenv("DBHOST", "db:3306")
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_LOGGING", "OFF")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Backend)
	assert.Equal(t, "dirk", cfg.DBUser)
	assert.Equal(t, "bullo92", cfg.DBPwd)
	assert.Equal(t, "db:3306", cfg.DBHost)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "OFF", cfg.GinLogging)
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("PORT", "eighty")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{Backend: "csv", File: "friends.csv", Port: 8080}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"unknown backend", func(c *Config) { c.Backend = "postgres" }},
		{"csv without file", func(c *Config) { c.File = "" }},
		{"sqlite without path", func(c *Config) { c.Backend = "sqlite" }},
		{"mysql without user", func(c *Config) { c.Backend = "mysql" }},
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
