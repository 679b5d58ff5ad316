package providers

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/km-arc/go-autowire/framework/config"
	"github.com/km-arc/go-autowire/framework/container"
	"github.com/km-arc/go-autowire/framework/logging"
	"github.com/km-arc/go-autowire/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// binds it into the container as "config". Invalid values fail Register.
//
// Bound abstracts:
//   - "config"         → *config.Config
//   - "configuration"  → alias of "config"
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	cfg := config.Load(p.EnvFiles...)
	if err := cfg.Validate(); err != nil {
		return err
	}
	app.Instance("config", cfg)
	app.Alias("config", "configuration")
	return nil
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider builds the structured logger from AUTOWIRE_LOG_LEVEL
// and AUTOWIRE_LOG_FORMAT. It is deferred: nothing is built until "log" is
// first resolved.
//
// Bound abstracts:
//   - "log"  → *log.Logger (github.com/charmbracelet/log)
type LogServiceProvider struct {
	container.BaseProvider
	Writer io.Writer // default: os.Stderr
}

func (p *LogServiceProvider) Register(app *container.Container) error {
	w := p.Writer
	if w == nil {
		w = os.Stderr
	}
	app.Singleton("log", func(c *container.Container) any {
		cfg := container.Resolve[*config.Config](c, "config")
		return logging.New(cfg.Autowire.LogLevel, cfg.Autowire.LogFormat, w)
	})
	return nil
}

func (p *LogServiceProvider) IsDeferred() bool   { return true }
func (p *LogServiceProvider) Provides() []string { return []string{"log"} }

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router. Requests are logged
// through "log" when the application runs in debug mode, and per-thread
// instances are released after every request.
//
// Bound abstracts:
//   - "router"  → *routing.Router
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	app.Singleton("router", func(c *container.Container) any {
		var logger *log.Logger
		if container.Resolve[*config.Config](c, "config").App.Debug {
			logger = container.Resolve[*log.Logger](c, "log")
		}
		router := routing.New(logger)
		router.Middleware(routing.ReleaseAfter(c.ReleaseThread))
		return router
	})
	return nil
}
