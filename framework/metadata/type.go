package metadata

import (
	"reflect"
	"slices"
	"strings"
)

// Kind distinguishes concrete types from contracts.
type Kind uint8

const (
	// Struct is a concrete, constructible type.
	Struct Kind = iota
	// Interface is a contract a struct can be bound to.
	Interface
)

func (k Kind) String() string {
	if k == Interface {
		return "interface"
	}
	return "struct"
}

// Marker is an opaque tag attached to a type, the equivalent of an
// annotation. The engine only ever asks whether a type carries one.
type Marker string

// Resolver is the slice of a container a Constructor may use to pull its
// own dependencies.
type Resolver interface {
	Make(abstract string) any
}

// Constructor builds a new instance of a concrete type.
type Constructor func(r Resolver) any

// Type describes a struct or interface known to a Universe.
type Type struct {
	name   string
	pkg    string
	kind   Kind
	module *Module

	contracts []*Type
	markers   []Marker

	// params is set on open-generic definitions only.
	params []string
	// definition and args are set on instantiations only.
	definition *Type
	args       []*Type

	goType reflect.Type
	ctor   Constructor
}

// Name returns the unqualified name. Instantiations report the name of
// their definition.
func (t *Type) Name() string { return t.name }

// PkgPath returns the package the type belongs to.
func (t *Type) PkgPath() string { return t.pkg }

// Qualified returns "pkg.Name" without generic parameters or arguments.
func (t *Type) Qualified() string {
	if t.pkg == "" {
		return t.name
	}
	return t.pkg + "." + t.name
}

// String returns the canonical key of the type, e.g.
// "shop.IHandlerFor[TEvent]" for a definition and
// "shop.IHandlerFor[shop.DomainEvent]" for an instantiation.
func (t *Type) String() string {
	switch {
	case t.definition != nil:
		parts := make([]string, len(t.args))
		for i, a := range t.args {
			parts[i] = a.String()
		}
		return t.Qualified() + "[" + strings.Join(parts, ",") + "]"
	case len(t.params) > 0:
		return t.Qualified() + "[" + strings.Join(t.params, ",") + "]"
	default:
		return t.Qualified()
	}
}

func (t *Type) Kind() Kind        { return t.kind }
func (t *Type) IsInterface() bool { return t.kind == Interface }
func (t *Type) Module() *Module   { return t.module }

// Contracts returns the declared contracts in declaration order.
func (t *Type) Contracts() []*Type { return slices.Clone(t.contracts) }

// Markers returns the markers attached to the type.
func (t *Type) Markers() []Marker { return slices.Clone(t.markers) }

// HasMarker reports whether the type carries m.
func (t *Type) HasMarker(m Marker) bool { return slices.Contains(t.markers, m) }

// Implements reports whether c is one of the declared contracts.
func (t *Type) Implements(c *Type) bool { return slices.Contains(t.contracts, c) }

// IsGenericDefinition reports whether the type is an open-generic
// definition such as IHandlerFor[TEvent].
func (t *Type) IsGenericDefinition() bool {
	return len(t.params) > 0 && t.definition == nil
}

// IsGenericInstance reports whether the type instantiates a definition.
func (t *Type) IsGenericInstance() bool { return t.definition != nil }

// Definition returns the open-generic definition of an instantiation, or nil.
func (t *Type) Definition() *Type { return t.definition }

// Params returns the parameter names of an open-generic definition.
func (t *Type) Params() []string { return slices.Clone(t.params) }

// Args returns the type arguments of an instantiation.
func (t *Type) Args() []*Type { return slices.Clone(t.args) }

// InstancesOf returns the declared contracts that instantiate def.
func (t *Type) InstancesOf(def *Type) []*Type {
	var out []*Type
	for _, c := range t.contracts {
		if c.definition == def {
			out = append(out, c)
		}
	}
	return out
}

// GoType returns the Go type the descriptor was reflected from, or nil.
func (t *Type) GoType() reflect.Type { return t.goType }

// Constructor returns the constructor, or nil when the type cannot be
// built (interfaces, open generics, declared-only structs).
func (t *Type) Constructor() Constructor { return t.ctor }

// ── Options ───────────────────────────────────────────────────────────────────

// Option customises a type at declaration.
type Option func(*Type)

// Implements appends declared contracts. Every contract must be an interface.
func Implements(contracts ...*Type) Option {
	return func(t *Type) { t.contracts = append(t.contracts, contracts...) }
}

// Marked attaches markers.
func Marked(markers ...Marker) Option {
	return func(t *Type) { t.markers = append(t.markers, markers...) }
}

// WithConstructor sets the function used to build instances.
func WithConstructor(ctor Constructor) Option {
	return func(t *Type) { t.ctor = ctor }
}

// InPackage overrides the package path, which defaults to the module name.
func InPackage(pkg string) Option {
	return func(t *Type) { t.pkg = pkg }
}
