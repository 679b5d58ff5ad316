package providers

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/km-arc/go-autowire/framework/autowire"
	"github.com/km-arc/go-autowire/framework/config"
	"github.com/km-arc/go-autowire/framework/container"
	"github.com/km-arc/go-autowire/framework/inspector"
	"github.com/km-arc/go-autowire/framework/metadata"
	"github.com/km-arc/go-autowire/framework/routing"
	"github.com/km-arc/go-autowire/framework/rulefile"
)

// ── AutoWireServiceProvider ───────────────────────────────────────────────────

// AutoWireServiceProvider binds the types of Universe into the container by
// convention. The rules come from Rules when set, else from the file named
// by AUTOWIRE_RULES, else from the built-in conventions. Configure, when
// set, adds rules in code after the file's.
//
// The pass runs in Boot, so providers registered later can resolve the
// auto-wired services from their own Boot.
//
// Bound abstracts:
//   - "autowire"           → *autowire.Engine
//   - "autowire.universe"  → *metadata.Universe
type AutoWireServiceProvider struct {
	container.BaseProvider
	Universe  *metadata.Universe
	Rules     *rulefile.File
	Configure func(e *autowire.Engine)
}

func (p *AutoWireServiceProvider) Register(app *container.Container) error {
	if p.Universe == nil {
		return &autowire.NullArgumentError{Arg: "universe"}
	}
	app.Instance("autowire.universe", p.Universe)
	return nil
}

func (p *AutoWireServiceProvider) Boot(app *container.Container) error {
	cfg := container.Resolve[*config.Config](app, "config")
	logger := container.Resolve[*log.Logger](app, "log")

	rules, err := p.rules(cfg)
	if err != nil {
		return err
	}

	e := autowire.New(app, autowire.WithLogger(logger))
	if err := rules.Configure(e, p.Universe); err != nil {
		return err
	}
	if p.Configure != nil {
		p.Configure(e)
	}
	app.Instance("autowire", e)
	app.AfterResolving(func(abstract string, _ any) {
		logger.Debug("resolved", "abstract", abstract)
	})

	logger.Info("auto-wiring", "rules", rules.Filename, "modules", len(e.EligibleModules(p.Universe)))
	return e.Apply(p.Universe)
}

func (p *AutoWireServiceProvider) rules(cfg *config.Config) (*rulefile.File, error) {
	if p.Rules != nil {
		return p.Rules, nil
	}
	opts := RuleOptions(cfg)
	if cfg.Autowire.Rules == "" {
		return rulefile.Conventions(opts), nil
	}
	f, err := rulefile.Load(cfg.Autowire.Rules, opts)
	if err != nil {
		return nil, fmt.Errorf("AUTOWIRE_RULES: %w", err)
	}
	return f, nil
}

// RuleOptions derives rules-file options from the configuration.
func RuleOptions(cfg *config.Config) rulefile.Options {
	return rulefile.Options{
		DefaultLifetime: container.Lifetime(cfg.Autowire.DefaultLifetime),
		ExcludeSystem:   cfg.Autowire.ExcludeSystem,
	}
}

// ── InspectorServiceProvider ──────────────────────────────────────────────────

// InspectorServiceProvider mounts the binding inspector on the router under
// Prefix (default "/_autowire"). It must be registered after
// AutoWireServiceProvider to serve /plan and /modules.
type InspectorServiceProvider struct {
	container.BaseProvider
	Prefix string
}

func (p *InspectorServiceProvider) Register(_ *container.Container) error { return nil }

func (p *InspectorServiceProvider) Boot(app *container.Container) error {
	prefix := p.Prefix
	if prefix == "" {
		prefix = "/_autowire"
	}
	engine, _ := container.TryResolve[*autowire.Engine](app, "autowire")
	var universe autowire.Universe
	if u, ok := container.TryResolve[*metadata.Universe](app, "autowire.universe"); ok {
		universe = u
	}

	router := container.Resolve[*routing.Router](app, "router")
	router.Prefix(prefix, inspector.New(app, engine, universe).Routes)
	return nil
}
