package config

import (
	"os"
	"path/filepath"
	"testing"

	"expense-manager/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into a fresh directory so no stray config.yaml or .env is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)
	t.Setenv("DB_PATH", "")
	t.Setenv("EXPENSES_DB_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "expenses.db", filepath.Base(cfg.DBPath))
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 50, cfg.ListLimit)

	scheme, err := cfg.Scheme()
	require.NoError(t, err)
	assert.Equal(t, auth.SchemePlain, scheme)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t)
	t.Setenv("DB_PATH", "/legacy/expenses.db")
	t.Setenv("EXPENSES_HASH_SCHEME", "bcrypt")
	t.Setenv("EXPENSES_LIST_LIMIT", "10")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/legacy/expenses.db", cfg.DBPath)
	assert.Equal(t, "bcrypt", cfg.HashScheme)
	assert.Equal(t, 10, cfg.ListLimit)

	// The prefixed variable wins over the legacy one
	t.Setenv("EXPENSES_DB_PATH", "/new/expenses.db")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "/new/expenses.db", cfg.DBPath)
}

func TestLoadConfigFile(t *testing.T) {
	dir := chdir(t)
	t.Setenv("EXPENSES_DB_PATH", "")
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: /tmp/x.db\nlog_level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("EXPENSES_LOG_LEVEL=info\n"), 0o644))
	t.Setenv("EXPENSES_LOG_LEVEL", "")
	os.Unsetenv("EXPENSES_LOG_LEVEL")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMissingConfigFile(t *testing.T) {
	chdir(t)
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DBPath: "x.db", LogLevel: "loud", HashScheme: "md5", ListLimit: -1}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
	assert.Contains(t, err.Error(), "md5")
	assert.Contains(t, err.Error(), "list_limit")
}
