package autowire

import (
	"path"
	"strings"

	"github.com/km-arc/go-autowire/framework/metadata"
)

// TypePredicate selects types. Predicates must be pure.
type TypePredicate func(t *metadata.Type) bool

// ModulePredicate selects modules. Predicates must be pure.
type ModulePredicate func(m *metadata.Module) bool

// ── Type predicates ───────────────────────────────────────────────────────────

// IsExactType matches want and nothing else.
func IsExactType(want *metadata.Type) TypePredicate {
	return func(t *metadata.Type) bool { return t == want }
}

// ImplementsContract matches types that declare contract c.
func ImplementsContract(c *metadata.Type) TypePredicate {
	return func(t *metadata.Type) bool { return t.Implements(c) }
}

// ImplementsOpenGeneric matches types that declare any instantiation of
// the open-generic interface g. It panics with *InvalidContractShapeError
// when g is not one.
func ImplementsOpenGeneric(g *metadata.Type) TypePredicate {
	mustBeOpenGeneric(g)
	return func(t *metadata.Type) bool { return len(t.InstancesOf(g)) > 0 }
}

// HasMarker matches types carrying m.
func HasMarker(m metadata.Marker) TypePredicate {
	return func(t *metadata.Type) bool { return t.HasMarker(m) }
}

// NameHasSuffix matches types whose name ends in suffix, e.g. "Repository".
func NameHasSuffix(suffix string) TypePredicate {
	return func(t *metadata.Type) bool { return strings.HasSuffix(t.Name(), suffix) }
}

// InPackage matches types of package pkg.
func InPackage(pkg string) TypePredicate {
	return func(t *metadata.Type) bool { return t.PkgPath() == pkg }
}

// ImplementsSingleContract matches types declaring exactly one contract.
func ImplementsSingleContract(t *metadata.Type) bool {
	return len(t.Contracts()) == 1
}

// MatchesNameConvention matches a type T that declares a contract named
// "I" + T's name, e.g. Logger implementing ILogger.
func MatchesNameConvention(t *metadata.Type) bool {
	return conventionContract(t) != nil
}

// IsStruct matches concrete types.
func IsStruct(t *metadata.Type) bool { return t.Kind() == metadata.Struct }

// AnyType matches everything.
func AnyType(*metadata.Type) bool { return true }

func conventionContract(t *metadata.Type) *metadata.Type {
	want := "I" + t.Name()
	for _, c := range t.Contracts() {
		if c.Name() == want {
			return c
		}
	}
	return nil
}

// ── Module predicates ─────────────────────────────────────────────────────────

// ModuleDeclares matches the module t originates from.
func ModuleDeclares(t *metadata.Type) ModulePredicate {
	return func(m *metadata.Module) bool { return m.Declares(t) }
}

// ModuleNamed matches module names against a path.Match pattern. A
// malformed pattern panics.
func ModuleNamed(pattern string) ModulePredicate {
	if _, err := path.Match(pattern, ""); err != nil {
		panic("autowire: bad module pattern " + pattern + ": " + err.Error())
	}
	return func(m *metadata.Module) bool {
		ok, _ := path.Match(pattern, m.Name())
		return ok
	}
}

// SystemModule matches standard-library-like modules: those whose first
// path element has no dot ("fmt", "net/http").
func SystemModule(m *metadata.Module) bool {
	first, _, _ := strings.Cut(m.Name(), "/")
	return !strings.Contains(first, ".")
}

// AnyModule matches every module.
func AnyModule(*metadata.Module) bool { return true }

// ── Combinators ───────────────────────────────────────────────────────────────

// And matches when every predicate matches.
func And[P ~func(T) bool, T any](ps ...P) P {
	return func(v T) bool {
		for _, p := range ps {
			if !p(v) {
				return false
			}
		}
		return true
	}
}

// Or matches when any predicate matches.
func Or[P ~func(T) bool, T any](ps ...P) P {
	return func(v T) bool {
		for _, p := range ps {
			if p(v) {
				return true
			}
		}
		return false
	}
}

// Not inverts a predicate.
func Not[P ~func(T) bool, T any](p P) P {
	return func(v T) bool { return !p(v) }
}

func mustBeOpenGeneric(g *metadata.Type) {
	switch {
	case g == nil:
		panic(&NullArgumentError{Arg: "open-generic contract"})
	case !g.IsInterface():
		panic(&InvalidContractShapeError{Type: g.String(), Reason: "not an interface"})
	case !g.IsGenericDefinition():
		panic(&InvalidContractShapeError{Type: g.String(), Reason: "not an open-generic definition"})
	}
}
