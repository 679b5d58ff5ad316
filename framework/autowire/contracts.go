package autowire

import (
	"slices"

	"github.com/km-arc/go-autowire/framework/metadata"
)

// ContractsResolver derives the contracts a matched type is bound to.
// It runs when the rule fires, not when it is configured.
type ContractsResolver func(t *metadata.Type) ([]*metadata.Type, error)

// AllContracts resolves to every declared contract. A type declaring none
// yields no bindings.
func AllContracts(t *metadata.Type) ([]*metadata.Type, error) {
	return t.Contracts(), nil
}

// FirstContract resolves to the first declared contract.
func FirstContract(t *metadata.Type) ([]*metadata.Type, error) {
	contracts := t.Contracts()
	if len(contracts) == 0 {
		return nil, &NoContractsDeclaredError{Type: t.String()}
	}
	return contracts[:1], nil
}

// SingleContract resolves to the only declared contract.
func SingleContract(t *metadata.Type) ([]*metadata.Type, error) {
	contracts := t.Contracts()
	switch len(contracts) {
	case 0:
		return nil, &NoContractsDeclaredError{Type: t.String()}
	case 1:
		return contracts, nil
	default:
		names := make([]string, len(contracts))
		for i, c := range contracts {
			names[i] = c.String()
		}
		return nil, &AmbiguousContractsError{Type: t.String(), Contracts: names}
	}
}

// NameConventionContract resolves to the contract named "I" + the type's
// name, or to nothing when there is none.
func NameConventionContract(t *metadata.Type) ([]*metadata.Type, error) {
	if c := conventionContract(t); c != nil {
		return []*metadata.Type{c}, nil
	}
	return nil, nil
}

// OpenGenericContract resolves to the instantiations of g the type
// declares: OrderHandler implementing IHandlerFor[OrderPlaced] resolves to
// IHandlerFor[OrderPlaced]. It panics with *InvalidContractShapeError when
// g is not an open-generic interface definition.
func OpenGenericContract(g *metadata.Type) ContractsResolver {
	mustBeOpenGeneric(g)
	return func(t *metadata.Type) ([]*metadata.Type, error) {
		return t.InstancesOf(g), nil
	}
}

// ExplicitContracts resolves to exactly contracts, whatever the type
// declares.
func ExplicitContracts(contracts ...*metadata.Type) ContractsResolver {
	contracts = slices.Clone(contracts)
	return func(*metadata.Type) ([]*metadata.Type, error) {
		return slices.Clone(contracts), nil
	}
}
