// Package config produces validated configuration objects keyed by container
// token. Sources load eagerly during the config phase of bootstrap — before
// any provider initializes — because provider constructors routinely depend
// on them.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/km-arc/go-nest/framework/container"
)

// TokenApp is the container token of the built-in application config.
const TokenApp container.Token = "config.app"

// Source materializes one validated configuration object for a token.
type Source interface {
	Token() container.Token
	Load() (any, error)
}

// App is the central typed application configuration.
type App struct {
	Name            string        `validate:"required"`
	Env             string        `validate:"oneof=local production testing"`
	Debug           bool          ``
	Addr            string        `validate:"required,hostname_port"`
	ShutdownTimeout time.Duration `validate:"min=0"`
}

// LoadEnv reads .env files into the process environment. Missing files are
// not fatal — production deployments usually set real environment variables.
func LoadEnv(envFiles ...string) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	_ = godotenv.Load(files...)
}

var validate = validator.New()

// AppSource loads App from the environment and validates it.
type AppSource struct {
	EnvFiles []string
}

func (s AppSource) Token() container.Token { return TokenApp }

func (s AppSource) Load() (any, error) {
	LoadEnv(s.EnvFiles...)

	cfg := &App{
		Name:            env("APP_NAME", "go-nest"),
		Env:             env("APP_ENV", "local"),
		Debug:           envBool("APP_DEBUG", true),
		Addr:            env("APP_ADDR", "127.0.0.1:"+env("APP_PORT", "3000")),
		ShutdownTimeout: envDuration("APP_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config [%s]: %w", TokenApp, err)
	}
	return cfg, nil
}

// Validate checks any tagged config struct, for custom Sources that build
// their objects by hand.
func Validate(token container.Token, cfg any) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config [%s]: %w", token, err)
	}
	return nil
}

// ── env helpers ──────────────────────────────────────────────────────────────

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
