package metadata

import (
	"fmt"
	"reflect"
	"slices"
)

// Universe is the ordered set of modules the engine scans.
//
// A Universe is built once at startup and read afterwards; it is not safe
// for concurrent declaration.
type Universe struct {
	modules []*Module
	byName  map[string]*Module

	// qualified name and canonical String() → type
	types map[string]*Type
	// canonical String() → interned instantiation
	instances map[string]*Type

	reflected  map[reflect.Type]*Type
	interfaces []*Type // reflected interfaces, in declaration order
}

// NewUniverse creates an empty universe.
func NewUniverse() *Universe {
	return &Universe{
		byName:    make(map[string]*Module),
		types:     make(map[string]*Type),
		instances: make(map[string]*Type),
		reflected: make(map[reflect.Type]*Type),
	}
}

// Module returns the module called name, creating it on first use.
// Modules are discovered in creation order.
func (u *Universe) Module(name string) *Module {
	if m, ok := u.byName[name]; ok {
		return m
	}
	m := &Module{name: name, universe: u, index: make(map[string]*Type)}
	u.modules = append(u.modules, m)
	u.byName[name] = m
	return m
}

// Modules returns the modules in discovery order.
func (u *Universe) Modules() []*Module { return slices.Clone(u.modules) }

// Types returns every declared type, module by module.
func (u *Universe) Types() []*Type {
	var out []*Type
	for _, m := range u.modules {
		out = append(out, m.types...)
	}
	return out
}

// Lookup finds a type by qualified name ("pkg.Name") or canonical string
// ("pkg.Name[Arg]"), including interned instantiations.
func (u *Universe) Lookup(name string) (*Type, bool) {
	if t, ok := u.types[name]; ok {
		return t, true
	}
	t, ok := u.instances[name]
	return t, ok
}

// TypeOf returns the descriptor reflected from rt.
func (u *Universe) TypeOf(rt reflect.Type) (*Type, bool) {
	t, ok := u.reflected[rt]
	return t, ok
}

// Instantiate returns the interned instantiation of def with args.
// It panics when def is not an open-generic definition or the number of
// arguments does not match its parameters.
func (u *Universe) Instantiate(def *Type, args ...*Type) *Type {
	if def == nil || !def.IsGenericDefinition() {
		panic(fmt.Sprintf("metadata: cannot instantiate [%v]: not an open-generic definition", def))
	}
	if len(args) != len(def.params) {
		panic(fmt.Sprintf("metadata: [%s] takes %d type arguments, got %d", def, len(def.params), len(args)))
	}
	inst := &Type{
		name:       def.name,
		pkg:        def.pkg,
		kind:       def.kind,
		module:     def.module,
		definition: def,
		args:       slices.Clone(args),
	}
	key := inst.String()
	if existing, ok := u.instances[key]; ok {
		return existing
	}
	u.instances[key] = inst
	return inst
}

func (u *Universe) index(t *Type) {
	u.types[t.Qualified()] = t
	if s := t.String(); s != t.Qualified() {
		u.types[s] = t
	}
	if t.goType != nil {
		u.reflected[t.goType] = t
		if t.kind == Interface {
			u.interfaces = append(u.interfaces, t)
		}
	}
}
