package metadata_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-autowire/framework/metadata"
)

// ── Go fixtures ───────────────────────────────────────────────────────────────

type Cache interface{ Get(key string) string }

type Closer interface{ Close() error }

type memoryCache struct{ hits int }

func (c *memoryCache) Get(string) string { c.hits++; return "" }
func (c *memoryCache) Close() error      { return nil }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ── Declaration ───────────────────────────────────────────────────────────────

func TestModule_DeclaresTypesInOrder(t *testing.T) {
	u := metadata.NewUniverse()
	shop := u.Module("shop")

	cache := shop.Interface("ICache")
	disposable := shop.Interface("IDisposable")
	impl := shop.Struct("TestCache", metadata.Implements(cache, disposable), metadata.Marked("cache"))

	assert.Equal(t, []*metadata.Type{cache, disposable, impl}, shop.Types())
	assert.Equal(t, []*metadata.Type{cache, disposable}, impl.Contracts())
	assert.True(t, impl.HasMarker("cache"))
	assert.False(t, impl.HasMarker("logger"))
	assert.True(t, shop.Declares(impl))
	assert.Equal(t, "shop.TestCache", impl.String())
	assert.Equal(t, metadata.Struct, impl.Kind())
	assert.True(t, cache.IsInterface())
}

func TestModule_DuplicateDeclarationPanics(t *testing.T) {
	shop := metadata.NewUniverse().Module("shop")
	shop.Struct("TestCache")

	assert.Panics(t, func() { shop.Struct("TestCache") })
}

func TestModule_NonInterfaceContractPanics(t *testing.T) {
	shop := metadata.NewUniverse().Module("shop")
	notAContract := shop.Struct("Plain")

	assert.Panics(t, func() { shop.Struct("Broken", metadata.Implements(notAContract)) })
}

func TestModule_DuplicateContractsCollapse(t *testing.T) {
	shop := metadata.NewUniverse().Module("shop")
	cache := shop.Interface("ICache")

	impl := shop.Struct("TestCache", metadata.Implements(cache, cache))
	assert.Len(t, impl.Contracts(), 1)
}

func TestUniverse_ModuleIsGetOrCreate(t *testing.T) {
	u := metadata.NewUniverse()
	a := u.Module("a")
	b := u.Module("b")

	assert.Same(t, a, u.Module("a"))
	assert.Equal(t, []*metadata.Module{a, b}, u.Modules())
}

func TestUniverse_Lookup(t *testing.T) {
	u := metadata.NewUniverse()
	shop := u.Module("shop")
	cache := shop.Interface("ICache")
	handler := shop.GenericInterface("IHandlerFor", []string{"TEvent"})

	got, ok := u.Lookup("shop.ICache")
	require.True(t, ok)
	assert.Same(t, cache, got)

	got, ok = u.Lookup("shop.IHandlerFor")
	require.True(t, ok)
	assert.Same(t, handler, got)

	got, ok = u.Lookup("shop.IHandlerFor[TEvent]")
	require.True(t, ok)
	assert.Same(t, handler, got)

	_, ok = u.Lookup("shop.Missing")
	assert.False(t, ok)
}

// ── Generics ──────────────────────────────────────────────────────────────────

func TestUniverse_InstantiateInterns(t *testing.T) {
	u := metadata.NewUniverse()
	shop := u.Module("shop")
	handlerFor := shop.GenericInterface("IHandlerFor", []string{"TEvent"})
	event := shop.Struct("DomainEvent")

	a := u.Instantiate(handlerFor, event)
	b := u.Instantiate(handlerFor, event)

	assert.Same(t, a, b)
	assert.True(t, a.IsGenericInstance())
	assert.False(t, a.IsGenericDefinition())
	assert.True(t, handlerFor.IsGenericDefinition())
	assert.Same(t, handlerFor, a.Definition())
	assert.Equal(t, "shop.IHandlerFor[shop.DomainEvent]", a.String())
	assert.Equal(t, "IHandlerFor", a.Name())

	got, ok := u.Lookup("shop.IHandlerFor[shop.DomainEvent]")
	require.True(t, ok)
	assert.Same(t, a, got)
}

func TestUniverse_InstantiateRejectsBadShapes(t *testing.T) {
	u := metadata.NewUniverse()
	shop := u.Module("shop")
	plain := shop.Interface("ICache")
	pair := shop.GenericInterface("IPair", []string{"K", "V"})

	assert.Panics(t, func() { u.Instantiate(plain, plain) })
	assert.Panics(t, func() { u.Instantiate(pair, plain) })
}

func TestType_InstancesOf(t *testing.T) {
	u := metadata.NewUniverse()
	shop := u.Module("shop")
	handlerFor := shop.GenericInterface("IHandlerFor", []string{"TEvent"})
	created := shop.Struct("Created")
	deleted := shop.Struct("Deleted")
	other := shop.Interface("IOther")

	h := shop.Struct("Handler", metadata.Implements(
		u.Instantiate(handlerFor, created), other, u.Instantiate(handlerFor, deleted)))

	got := h.InstancesOf(handlerFor)
	require.Len(t, got, 2)
	assert.Equal(t, "shop.IHandlerFor[shop.Created]", got[0].String())
	assert.Equal(t, "shop.IHandlerFor[shop.Deleted]", got[1].String())
}

// ── Reflection ────────────────────────────────────────────────────────────────

func TestModule_ReflectDetectsContracts(t *testing.T) {
	u := metadata.NewUniverse()
	m := u.Module("github.com/km-arc/go-autowire/framework/metadata_test")

	cache := m.Reflect(reflect.TypeFor[Cache]())
	closer := m.Reflect(reflect.TypeFor[Closer]())
	impl := m.Reflect(reflect.TypeFor[*memoryCache]())
	nop := m.Reflect(reflect.TypeFor[nopCloser]())

	assert.True(t, cache.IsInterface())
	assert.Equal(t, "memoryCache", impl.Name())
	assert.Equal(t, []*metadata.Type{cache, closer}, impl.Contracts())
	assert.Equal(t, []*metadata.Type{closer}, nop.Contracts())

	got, ok := u.TypeOf(reflect.TypeFor[*memoryCache]())
	require.True(t, ok)
	assert.Same(t, impl, got)
}

func TestModule_ReflectZeroConstructor(t *testing.T) {
	m := metadata.NewUniverse().Module("m")
	m.Reflect(reflect.TypeFor[Cache]())
	impl := m.Reflect(reflect.TypeFor[*memoryCache]())
	nop := m.Reflect(reflect.TypeFor[nopCloser]())

	require.NotNil(t, impl.Constructor())
	a := impl.Constructor()(nil)
	b := impl.Constructor()(nil)
	assert.IsType(t, &memoryCache{}, a)
	assert.NotSame(t, a, b)

	assert.IsType(t, nopCloser{}, nop.Constructor()(nil))
}

func TestModule_ReflectHonoursConstructorOption(t *testing.T) {
	m := metadata.NewUniverse().Module("m")
	shared := &memoryCache{hits: 7}
	impl := m.Reflect(reflect.TypeFor[*memoryCache](),
		metadata.WithConstructor(func(metadata.Resolver) any { return shared }))

	assert.Same(t, shared, impl.Constructor()(nil))
}
