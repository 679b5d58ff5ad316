package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/km-arc/go-autowire/framework/autowire"
	"github.com/km-arc/go-autowire/framework/config"
	"github.com/km-arc/go-autowire/framework/container"
	"github.com/km-arc/go-autowire/framework/metadata"
	"github.com/km-arc/go-autowire/framework/providers"
	"github.com/km-arc/go-autowire/framework/routing"
)

// Version of the framework.
const Version = "0.1.0"

// Application is the top-level application container.
// It embeds the IoC Container and ProviderRegistry so user code can
// call app.Bind(), app.Singleton(), app.Make() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	// AutoWire is the auto-wiring provider. Set its Rules or Configure
	// before Boot to change what gets bound.
	AutoWire *providers.AutoWireServiceProvider
}

// New creates the application for the types declared in universe and
// registers the framework providers:
//
//	config → log (deferred) → router → autowire → inspector (debug only)
//
// It fails when the configuration does not validate.
func New(universe *metadata.Universe, envFiles ...string) (*Application, error) {
	c := container.New()
	app := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
		AutoWire:  &providers.AutoWireServiceProvider{Universe: universe},
	}
	app.Instance("app", app)

	if err := app.Register(&providers.ConfigServiceProvider{EnvFiles: envFiles}); err != nil {
		return nil, err
	}
	core := []container.ServiceProvider{
		&providers.LogServiceProvider{},
		&providers.RoutingServiceProvider{},
		app.AutoWire,
	}
	if app.IsDebug() {
		core = append(core, &providers.InspectorServiceProvider{})
	}
	for _, p := range core {
		if err := app.Register(p); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers. Auto-wiring happens here.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.Resolve[*config.Config](a.Container, "config")
}

// Logger resolves the application logger.
func (a *Application) Logger() *log.Logger {
	return container.Resolve[*log.Logger](a.Container, "log")
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.Resolve[*routing.Router](a.Container, "router")
}

// Engine returns the auto-wiring engine, or nil before Boot.
func (a *Application) Engine() *autowire.Engine {
	e, _ := container.TryResolve[*autowire.Engine](a.Container, "autowire")
	return e
}

// Universe returns the types the application was created with.
func (a *Application) Universe() *metadata.Universe { return a.AutoWire.Universe }

// Run boots the application (if needed) and serves HTTP on APP_PORT until
// ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.Boot(); err != nil {
		return err
	}
	cfg, logger := a.Config(), a.Logger()

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.App.Port),
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "app", cfg.App.Name, "addr", "http://localhost"+srv.Addr, "env", cfg.App.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
