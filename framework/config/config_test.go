package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-nest/framework/config"
)

func TestAppSource_Defaults(t *testing.T) {
	for _, key := range []string{"APP_NAME", "APP_ENV", "APP_DEBUG", "APP_ADDR", "APP_PORT", "APP_SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := loadApp(t)

	assert.Equal(t, "go-nest", cfg.Name)
	assert.Equal(t, "local", cfg.Env)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "127.0.0.1:3000", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestAppSource_ReadsEnvironment(t *testing.T) {
	t.Setenv("APP_NAME", "orders")
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_DEBUG", "false")
	t.Setenv("APP_ADDR", "0.0.0.0:8080")
	t.Setenv("APP_SHUTDOWN_TIMEOUT", "30s")

	cfg := loadApp(t)

	assert.Equal(t, "orders", cfg.Name)
	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestAppSource_RejectsUnknownEnvName(t *testing.T) {
	t.Setenv("APP_ENV", "staging")

	_, err := config.AppSource{}.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(config.TokenApp), "error should name the token")
}

func TestValidate_NamesToken(t *testing.T) {
	type dbConfig struct {
		DSN string `validate:"required"`
	}

	err := config.Validate("config.db", &dbConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.db")

	require.NoError(t, config.Validate("config.db", &dbConfig{DSN: "postgres://localhost"}))
}

func TestGetHelpers(t *testing.T) {
	t.Setenv("SOME_INT", "7")
	t.Setenv("SOME_BOOL", "true")

	assert.Equal(t, 7, config.GetInt("SOME_INT", 0))
	assert.Equal(t, 3, config.GetInt("MISSING_INT", 3))
	assert.True(t, config.GetBool("SOME_BOOL", false))
	assert.Equal(t, "fallback", config.Get("MISSING_STR", "fallback"))
}

func loadApp(t *testing.T) *config.App {
	t.Helper()
	raw, err := config.AppSource{}.Load()
	require.NoError(t, err)
	cfg, ok := raw.(*config.App)
	require.True(t, ok)
	return cfg
}
