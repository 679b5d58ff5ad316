package cmd

import (
	"os"
	"regexp"

	"github.com/charmbracelet/log"

	"github.com/km-arc/go-autowire/app"
	"github.com/km-arc/go-autowire/framework/autowire"
	"github.com/km-arc/go-autowire/framework/config"
	"github.com/km-arc/go-autowire/framework/container"
	"github.com/km-arc/go-autowire/framework/logging"
	"github.com/km-arc/go-autowire/framework/metadata"
	"github.com/km-arc/go-autowire/framework/providers"
	"github.com/km-arc/go-autowire/framework/rulefile"
)

// session is what plan and validate work on.
type session struct {
	cfg      *config.Config
	logger   *log.Logger
	universe *metadata.Universe
	rules    *rulefile.File
}

func newSession(envFiles []string, rulesPath string) (*session, error) {
	cfg := config.Load(envFiles...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rulesPath == "" {
		rulesPath = cfg.Autowire.Rules
	}
	rules, err := loadRules(rulesPath, providers.RuleOptions(cfg))
	if err != nil {
		return nil, err
	}
	u, _ := app.Universe()
	return &session{
		cfg:      cfg,
		logger:   logging.New(cfg.Autowire.LogLevel, cfg.Autowire.LogFormat, os.Stderr),
		universe: u,
		rules:    rules,
	}, nil
}

// loadRules reads path, or the shop's embedded rules when path is empty.
func loadRules(path string, opts rulefile.Options) (*rulefile.File, error) {
	if path != "" {
		return rulefile.Load(path, opts)
	}
	return rulefile.Parse(app.Rules, "app/autowire.hcl", opts)
}

// engine configures an engine over an empty container. plan and validate
// only ever call Plan on it, which checks each binding against the
// container the way serve will, without storing it.
func (s *session) engine() (*autowire.Engine, error) {
	e := autowire.New(container.New(), autowire.WithLogger(s.logger))
	if err := s.rules.Configure(e, s.universe); err != nil {
		return nil, err
	}
	return e, nil
}

var pkgDirs = regexp.MustCompile(`(?:[\w.-]+/)+`)

// short drops package directories from a canonical type name, keeping the
// package name: "github.com/acme/shop.ICache" becomes "shop.ICache".
func short(name string) string {
	return pkgDirs.ReplaceAllString(name, "")
}
