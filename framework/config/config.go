package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/km-arc/go-autowire/framework/http/validation"
)

// Config is the central typed configuration struct.
type Config struct {
	App      AppConfig
	Autowire AutowireConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	Port  string
}

// AutowireConfig drives the auto-wiring service provider.
type AutowireConfig struct {
	Rules           string // path to an HCL rules file; empty uses the built-in conventions
	LogLevel        string // debug | info | warn | error
	LogFormat       string // text | json
	DefaultLifetime string // lifetime for rules that do not name one
	ExcludeSystem   bool   // drop standard-library-like modules
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "GoAutowire"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", true),
			Port:  env("APP_PORT", "8000"),
		},
		Autowire: AutowireConfig{
			Rules:           env("AUTOWIRE_RULES", ""),
			LogLevel:        env("AUTOWIRE_LOG_LEVEL", "info"),
			LogFormat:       env("AUTOWIRE_LOG_FORMAT", "text"),
			DefaultLifetime: env("AUTOWIRE_DEFAULT_LIFETIME", "transient"),
			ExcludeSystem:   envBool("AUTOWIRE_EXCLUDE_SYSTEM", true),
		},
	}
}

// Validate checks the loaded values. Custom lifetimes are accepted as long
// as they look like identifiers; the container rejects unknown ones later.
func (c *Config) Validate() error {
	return validation.Make(map[string]string{
		"APP_ENV":                   c.App.Env,
		"APP_PORT":                  c.App.Port,
		"AUTOWIRE_LOG_LEVEL":        c.Autowire.LogLevel,
		"AUTOWIRE_LOG_FORMAT":       c.Autowire.LogFormat,
		"AUTOWIRE_DEFAULT_LIFETIME": c.Autowire.DefaultLifetime,
	}, validation.Rules{
		"APP_ENV":                   "required|in:local,production,testing",
		"APP_PORT":                  "required|integer|between:1,65535",
		"AUTOWIRE_LOG_LEVEL":        "required|in:debug,info,warn,warning,error",
		"AUTOWIRE_LOG_FORMAT":       "required|in:text,json",
		"AUTOWIRE_DEFAULT_LIFETIME": "required|alpha_dash",
	}).Validate()
}

// ── helpers ─────────────────────────────────────────────────────────────────

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
