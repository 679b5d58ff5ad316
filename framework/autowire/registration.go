package autowire

import (
	"strings"

	"github.com/km-arc/go-autowire/framework/container"
	"github.com/km-arc/go-autowire/framework/metadata"
)

// Registration describes how a matched type is bound: which contracts,
// under what name, with what lifetime. Every setter replaces the previous
// choice for its aspect; calling AsSingleContract after AsFirstContract
// leaves only AsSingleContract in effect.
//
// Engine.Include copies the registration, so changing it afterwards does
// not affect rules already added.
type Registration struct {
	lifetime  func(*metadata.Type) container.Lifetime
	name      func(*metadata.Type) string
	contracts ContractsResolver
}

// Register starts a registration with the defaults: all declared
// contracts, empty name, transient lifetime.
//
//	e.Include(autowire.ImplementsContract(repo),
//	    autowire.Register().AsSingleContract().WithTypeName().UsingPerThreadMode())
func Register() *Registration {
	return &Registration{
		lifetime:  func(*metadata.Type) container.Lifetime { return container.Transient },
		name:      func(*metadata.Type) string { return "" },
		contracts: AllContracts,
	}
}

// ── Lifetime ──────────────────────────────────────────────────────────────────

// UsingLifetime binds with lifetime l.
func (r *Registration) UsingLifetime(l container.Lifetime) *Registration {
	r.lifetime = func(*metadata.Type) container.Lifetime { return l }
	return r
}

// UsingLifetimeFunc picks the lifetime per matched type.
func (r *Registration) UsingLifetimeFunc(fn func(*metadata.Type) container.Lifetime) *Registration {
	if fn == nil {
		panic(&NullArgumentError{Arg: "lifetime resolver"})
	}
	r.lifetime = fn
	return r
}

func (r *Registration) UsingSingletonMode() *Registration {
	return r.UsingLifetime(container.Singleton)
}
func (r *Registration) UsingPerCallMode() *Registration { return r.UsingLifetime(container.Transient) }
func (r *Registration) UsingPerThreadMode() *Registration {
	return r.UsingLifetime(container.PerThread)
}

// ── Name ──────────────────────────────────────────────────────────────────────

// WithName binds under a fixed name.
func (r *Registration) WithName(name string) *Registration {
	r.name = func(*metadata.Type) string { return name }
	return r
}

// WithNameFunc computes the name from the matched type.
func (r *Registration) WithNameFunc(fn func(*metadata.Type) string) *Registration {
	if fn == nil {
		panic(&NullArgumentError{Arg: "name resolver"})
	}
	r.name = fn
	return r
}

// WithTypeName binds under the matched type's name.
func (r *Registration) WithTypeName() *Registration {
	return r.WithNameFunc(func(t *metadata.Type) string { return t.Name() })
}

// WithPartName binds under the type name minus a well-known suffix:
// WithPartName("Repository") names CustomerRepository "Customer". Types
// without the suffix keep their full name.
func (r *Registration) WithPartName(part string) *Registration {
	return r.WithNameFunc(func(t *metadata.Type) string {
		return strings.TrimSuffix(t.Name(), part)
	})
}

// ── Contracts ─────────────────────────────────────────────────────────────────

// As binds to exactly the given contracts. Nothing checks that the type
// implements them; the registry may reject the binding.
func (r *Registration) As(contracts ...*metadata.Type) *Registration {
	r.contracts = ExplicitContracts(contracts...)
	return r
}

// AsResolved binds to whatever resolver returns for the matched type.
func (r *Registration) AsResolved(resolver ContractsResolver) *Registration {
	if resolver == nil {
		panic(&NullArgumentError{Arg: "contracts resolver"})
	}
	r.contracts = resolver
	return r
}

func (r *Registration) AsAllContracts() *Registration   { return r.AsResolved(AllContracts) }
func (r *Registration) AsFirstContract() *Registration  { return r.AsResolved(FirstContract) }
func (r *Registration) AsSingleContract() *Registration { return r.AsResolved(SingleContract) }

// AsNameConventionContract binds Logger to ILogger; types without such a
// contract are skipped.
func (r *Registration) AsNameConventionContract() *Registration {
	return r.AsResolved(NameConventionContract)
}

// AsOpenGeneric binds to the instantiations of g the type implements. It
// panics with *InvalidContractShapeError immediately when g is not an
// open-generic interface.
func (r *Registration) AsOpenGeneric(g *metadata.Type) *Registration {
	return r.AsResolved(OpenGenericContract(g))
}

// ── Evaluation ────────────────────────────────────────────────────────────────

// Lifetime returns the lifetime t would be bound with.
func (r *Registration) Lifetime(t *metadata.Type) container.Lifetime { return r.lifetime(t) }

// Name returns the name t would be bound under.
func (r *Registration) Name(t *metadata.Type) string { return r.name(t) }

// Contracts returns the contracts t would be bound to.
func (r *Registration) Contracts(t *metadata.Type) ([]*metadata.Type, error) {
	return r.contracts(t)
}

// Action returns the binding action for a snapshot of r: one
// Registry.Register call per resolved contract.
func (r *Registration) Action() Action {
	snap := *r
	return func(t *metadata.Type, reg Registry) error {
		contracts, err := snap.contracts(t)
		if err != nil {
			return err
		}
		if len(contracts) == 0 {
			return nil
		}
		name, lifetime := snap.name(t), snap.lifetime(t)
		for _, c := range contracts {
			if err := reg.Register(c, t, name, lifetime); err != nil {
				return err
			}
		}
		return nil
	}
}
