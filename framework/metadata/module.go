package metadata

import (
	"fmt"
	"reflect"
	"slices"
)

// Module is a named unit of declared types, the analogue of a loaded
// library.
type Module struct {
	name     string
	universe *Universe
	types    []*Type
	index    map[string]*Type
}

func (m *Module) Name() string { return m.name }

// Types returns the declared types in declaration order.
func (m *Module) Types() []*Type { return slices.Clone(m.types) }

// Lookup finds a type declared by this module by its unqualified name.
func (m *Module) Lookup(name string) (*Type, bool) {
	t, ok := m.index[name]
	return t, ok
}

// Declares reports whether t originates from this module.
func (m *Module) Declares(t *Type) bool { return t != nil && t.module == m }

// Interface declares a contract.
func (m *Module) Interface(name string, opts ...Option) *Type {
	return m.declare(&Type{name: name, kind: Interface}, opts)
}

// GenericInterface declares an open-generic contract such as
// IHandlerFor[TEvent].
func (m *Module) GenericInterface(name string, params []string, opts ...Option) *Type {
	if len(params) == 0 {
		panic(fmt.Sprintf("metadata: generic interface [%s] needs at least one parameter", name))
	}
	return m.declare(&Type{name: name, kind: Interface, params: slices.Clone(params)}, opts)
}

// Struct declares a concrete type.
func (m *Module) Struct(name string, opts ...Option) *Type {
	return m.declare(&Type{name: name, kind: Struct}, opts)
}

// GenericStruct declares an open-generic concrete type such as Filter[T].
func (m *Module) GenericStruct(name string, params []string, opts ...Option) *Type {
	if len(params) == 0 {
		panic(fmt.Sprintf("metadata: generic struct [%s] needs at least one parameter", name))
	}
	return m.declare(&Type{name: name, kind: Struct, params: slices.Clone(params)}, opts)
}

// Reflect declares a type from its Go representation. Interfaces become
// contracts; anything else becomes a struct that implements every
// reflected interface of the universe its Go type satisfies. Pointer types
// are named after their element. Structs get a zero-value constructor
// unless WithConstructor is given.
//
//	shop.Reflect(reflect.TypeFor[Cache]())
//	shop.Reflect(reflect.TypeFor[*RedisCache]())
func (m *Module) Reflect(rt reflect.Type, opts ...Option) *Type {
	if rt == nil {
		panic("metadata: Reflect called with nil type")
	}
	named := rt
	if named.Kind() == reflect.Pointer {
		named = named.Elem()
	}
	t := &Type{name: named.Name(), pkg: named.PkgPath(), goType: rt}
	if rt.Kind() == reflect.Interface {
		t.kind = Interface
		return m.declare(t, opts)
	}

	t.kind = Struct
	for _, iface := range m.universe.interfaces {
		if rt.Implements(iface.goType) {
			t.contracts = append(t.contracts, iface)
		}
	}
	t.ctor = zeroConstructor(rt)
	return m.declare(t, opts)
}

func zeroConstructor(rt reflect.Type) Constructor {
	if rt.Kind() == reflect.Pointer {
		elem := rt.Elem()
		return func(Resolver) any { return reflect.New(elem).Interface() }
	}
	return func(Resolver) any { return reflect.New(rt).Elem().Interface() }
}

func (m *Module) declare(t *Type, opts []Option) *Type {
	t.module = m
	if t.pkg == "" {
		t.pkg = m.name
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.name == "" {
		panic(fmt.Sprintf("metadata: unnamed type declared in module %s", m.name))
	}
	if _, dup := m.index[t.name]; dup {
		panic(fmt.Sprintf("metadata: [%s] declared twice in module %s", t.name, m.name))
	}
	for _, c := range t.contracts {
		if c == nil || !c.IsInterface() {
			panic(fmt.Sprintf("metadata: [%s] declares non-interface contract [%v]", t.name, c))
		}
	}
	t.contracts = dedupe(t.contracts)

	m.types = append(m.types, t)
	m.index[t.name] = t
	m.universe.index(t)
	return t
}

func dedupe(ts []*Type) []*Type {
	out := ts[:0]
	seen := make(map[*Type]bool, len(ts))
	for _, t := range ts {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
