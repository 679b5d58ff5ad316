package providers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-autowire/framework/autowire"
	"github.com/km-arc/go-autowire/framework/config"
	"github.com/km-arc/go-autowire/framework/container"
	"github.com/km-arc/go-autowire/framework/metadata"
	"github.com/km-arc/go-autowire/framework/providers"
	"github.com/km-arc/go-autowire/framework/routing"
	"github.com/km-arc/go-autowire/framework/rulefile"
)

// ── helpers ──────────────────────────────────────────────────────────────────

var envKeys = []string{
	"APP_NAME", "APP_ENV", "APP_DEBUG", "APP_PORT",
	"AUTOWIRE_RULES", "AUTOWIRE_LOG_LEVEL", "AUTOWIRE_LOG_FORMAT",
	"AUTOWIRE_DEFAULT_LIFETIME", "AUTOWIRE_EXCLUDE_SYSTEM",
}

// cleanEnv clears the configuration keys for the duration of the test.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

type shop struct {
	u                      *metadata.Universe
	iCache, iLogger        *metadata.Type
	redisCache, fileLogger *metadata.Type
	logger                 *metadata.Type
}

func newShop() *shop {
	s := &shop{u: metadata.NewUniverse()}
	m := s.u.Module("github.com/acme/shop")
	s.iCache = m.Interface("ICache")
	s.iLogger = m.Interface("ILogger")
	s.redisCache = m.Struct("RedisCache", metadata.Implements(s.iCache),
		metadata.WithConstructor(func(metadata.Resolver) any { return "redis" }))
	s.logger = m.Struct("Logger", metadata.Implements(s.iLogger),
		metadata.WithConstructor(func(metadata.Resolver) any { return "logger" }))
	s.fileLogger = m.Struct("FileLogger", metadata.Implements(s.iLogger), metadata.Marked("autowire:ignore"))
	return s
}

func boot(t *testing.T, ps ...container.ServiceProvider) *container.Container {
	t.Helper()
	app := container.New()
	registry := container.NewProviderRegistry(app)
	for _, p := range ps {
		require.NoError(t, registry.Register(p))
	}
	require.NoError(t, registry.Boot())
	return app
}

// ── ConfigServiceProvider ────────────────────────────────────────────────────

func TestConfigServiceProvider_BindsConfig(t *testing.T) {
	cleanEnv(t)
	t.Setenv("APP_NAME", "Shop")

	app := boot(t, &providers.ConfigServiceProvider{EnvFiles: []string{"testdata/missing.env"}})

	cfg := container.Resolve[*config.Config](app, "config")
	assert.Equal(t, "Shop", cfg.App.Name)
	assert.Same(t, cfg, container.Resolve[*config.Config](app, "configuration"))
}

func TestConfigServiceProvider_InvalidConfigFailsRegister(t *testing.T) {
	cleanEnv(t)
	t.Setenv("APP_PORT", "http")

	registry := container.NewProviderRegistry(container.New())
	err := registry.Register(&providers.ConfigServiceProvider{EnvFiles: []string{"testdata/missing.env"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ConfigServiceProvider")
	assert.Contains(t, err.Error(), "APP_PORT")
}

// ── LogServiceProvider ───────────────────────────────────────────────────────

func TestLogServiceProvider_IsDeferred(t *testing.T) {
	cleanEnv(t)
	t.Setenv("AUTOWIRE_LOG_LEVEL", "warn")
	var buf bytes.Buffer

	app := boot(t,
		&providers.ConfigServiceProvider{EnvFiles: []string{"testdata/missing.env"}},
		&providers.LogServiceProvider{Writer: &buf})

	assert.False(t, app.Bound("log"), "not registered until first resolved")

	logger := container.Resolve[*log.Logger](app, "log")
	assert.True(t, app.Bound("log"))
	assert.Equal(t, log.WarnLevel, logger.GetLevel())

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

// ── RoutingServiceProvider ───────────────────────────────────────────────────

func TestRoutingServiceProvider_Singleton(t *testing.T) {
	cleanEnv(t)
	t.Setenv("APP_DEBUG", "false")

	app := boot(t,
		&providers.ConfigServiceProvider{EnvFiles: []string{"testdata/missing.env"}},
		&providers.RoutingServiceProvider{})

	r := container.Resolve[*routing.Router](app, "router")
	assert.Same(t, r, container.Resolve[*routing.Router](app, "router"))
}

func TestRoutingServiceProvider_ReleasesPerThreadInstances(t *testing.T) {
	cleanEnv(t)
	t.Setenv("APP_DEBUG", "false")

	app := boot(t,
		&providers.ConfigServiceProvider{EnvFiles: []string{"testdata/missing.env"}},
		&providers.RoutingServiceProvider{})

	m := metadata.NewUniverse().Module("github.com/acme/shop")
	session := m.Interface("ISession")
	n := 0
	impl := m.Struct("Session", metadata.Implements(session), metadata.WithConstructor(func(metadata.Resolver) any {
		n++
		return n
	}))
	require.NoError(t, app.Register(session, impl, "", container.PerThread))

	var seen []any
	r := container.Resolve[*routing.Router](app, "router")
	r.Get("/session", func(w http.ResponseWriter, _ *http.Request) {
		seen = append(seen, app.Make(container.Key(session, "")), app.Make(container.Key(session, "")))
		w.WriteHeader(http.StatusNoContent)
	})
	for range 2 {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/session", nil))
	}

	assert.Equal(t, []any{1, 1, 2, 2}, seen, "one instance per request")
}

// ── AutoWireServiceProvider ──────────────────────────────────────────────────

func autowireProviders(aw *providers.AutoWireServiceProvider, w *bytes.Buffer) []container.ServiceProvider {
	return []container.ServiceProvider{
		&providers.ConfigServiceProvider{EnvFiles: []string{"testdata/missing.env"}},
		&providers.LogServiceProvider{Writer: w},
		aw,
	}
}

func TestAutoWireServiceProvider_Conventions(t *testing.T) {
	cleanEnv(t)
	s := newShop()
	var buf bytes.Buffer

	app := boot(t, autowireProviders(&providers.AutoWireServiceProvider{Universe: s.u}, &buf)...)

	assert.Equal(t, "logger", app.Make(container.Key(s.iLogger, "")))
	assert.Len(t, app.All(s.iLogger), 1, "marked types are excluded")
	assert.False(t, app.Bound(container.Key(s.iCache, "")), "RedisCache has no conventional contract")

	e := container.Resolve[*autowire.Engine](app, "autowire")
	assert.True(t, e.Applied())
	assert.Same(t, s.u, container.Resolve[*metadata.Universe](app, "autowire.universe"))
	assert.Contains(t, buf.String(), "auto-wiring applied")
}

func TestAutoWireServiceProvider_LogsResolutionsAtDebug(t *testing.T) {
	cleanEnv(t)
	t.Setenv("AUTOWIRE_LOG_LEVEL", "debug")
	s := newShop()
	var buf bytes.Buffer

	app := boot(t, autowireProviders(&providers.AutoWireServiceProvider{Universe: s.u}, &buf)...)
	buf.Reset()
	app.Make(container.Key(s.iLogger, ""))

	assert.Contains(t, buf.String(), "resolved")
	assert.Contains(t, buf.String(), s.iLogger.String())
}

func TestAutoWireServiceProvider_RulesFromEnv(t *testing.T) {
	cleanEnv(t)
	t.Setenv("AUTOWIRE_RULES", "testdata/rules.hcl")
	s := newShop()

	app := boot(t, autowireProviders(&providers.AutoWireServiceProvider{Universe: s.u}, &bytes.Buffer{})...)

	key := container.Key(s.iCache, "RedisCache")
	assert.Equal(t, "redis", app.Make(key))
	require.Len(t, app.Entries(), 1)
	assert.Equal(t, container.Singleton, app.Entries()[0].Lifetime)
}

func TestAutoWireServiceProvider_RulesOverrideAndHook(t *testing.T) {
	cleanEnv(t)
	t.Setenv("AUTOWIRE_RULES", "testdata/does-not-exist.hcl")
	s := newShop()

	rules, err := rulefile.Parse([]byte(`
modules {
  include = ["github.com/acme/shop"]
}
`), "inline.hcl", rulefile.Options{})
	require.NoError(t, err)

	aw := &providers.AutoWireServiceProvider{
		Universe: s.u,
		Rules:    rules,
		Configure: func(e *autowire.Engine) {
			e.Include(autowire.IsExactType(s.redisCache), autowire.Register().WithName("hook"))
		},
	}
	app := boot(t, autowireProviders(aw, &bytes.Buffer{})...)

	assert.Equal(t, "redis", app.Make(container.Key(s.iCache, "hook")))
}

func TestAutoWireServiceProvider_BadRulesFileFailsBoot(t *testing.T) {
	cleanEnv(t)
	t.Setenv("AUTOWIRE_RULES", "testdata/does-not-exist.hcl")

	app := container.New()
	registry := container.NewProviderRegistry(app)
	for _, p := range autowireProviders(&providers.AutoWireServiceProvider{Universe: newShop().u}, &bytes.Buffer{}) {
		require.NoError(t, registry.Register(p))
	}

	err := registry.Boot()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTOWIRE_RULES")
}

func TestAutoWireServiceProvider_RequiresUniverse(t *testing.T) {
	registry := container.NewProviderRegistry(container.New())
	err := registry.Register(&providers.AutoWireServiceProvider{})

	var null *autowire.NullArgumentError
	require.ErrorAs(t, err, &null)
	assert.Equal(t, "universe", null.Arg)
}

// ── InspectorServiceProvider ─────────────────────────────────────────────────

func TestInspectorServiceProvider_MountsRoutes(t *testing.T) {
	cleanEnv(t)
	t.Setenv("APP_DEBUG", "false")
	s := newShop()

	ps := append(autowireProviders(&providers.AutoWireServiceProvider{Universe: s.u}, &bytes.Buffer{}),
		&providers.RoutingServiceProvider{},
		&providers.InspectorServiceProvider{})
	app := boot(t, ps...)
	router := container.Resolve[*routing.Router](app, "router")

	for _, path := range []string{"/_autowire/bindings", "/_autowire/modules", "/_autowire/plan"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestInspectorServiceProvider_WithoutEngine(t *testing.T) {
	cleanEnv(t)
	t.Setenv("APP_DEBUG", "false")

	app := boot(t,
		&providers.ConfigServiceProvider{EnvFiles: []string{"testdata/missing.env"}},
		&providers.RoutingServiceProvider{},
		&providers.InspectorServiceProvider{Prefix: "/debug"})
	router := container.Resolve[*routing.Router](app, "router")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/plan", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/bindings", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
