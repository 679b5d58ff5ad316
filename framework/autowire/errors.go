package autowire

import (
	"fmt"
	"strings"
)

// NullArgumentError reports a missing predicate, action, registration or
// registry. Configuration methods panic with it; the engine is left as it
// was before the call.
type NullArgumentError struct {
	Arg string
}

func (e *NullArgumentError) Error() string {
	return fmt.Sprintf("autowire: %s must not be nil", e.Arg)
}

// AmbiguousContractsError is returned when a rule expecting exactly one
// contract fires on a type that declares several.
type AmbiguousContractsError struct {
	Type      string
	Contracts []string
}

func (e *AmbiguousContractsError) Error() string {
	return fmt.Sprintf("autowire: [%s] declares %d contracts (%s), expected exactly one",
		e.Type, len(e.Contracts), strings.Join(e.Contracts, ", "))
}

// NoContractsDeclaredError is returned when a rule expecting at least one
// contract fires on a type that declares none.
type NoContractsDeclaredError struct {
	Type string
}

func (e *NoContractsDeclaredError) Error() string {
	return fmt.Sprintf("autowire: [%s] declares no contracts", e.Type)
}

// InvalidContractShapeError reports an open-generic strategy or predicate
// configured with something that is not an open-generic interface.
type InvalidContractShapeError struct {
	Type   string
	Reason string
}

func (e *InvalidContractShapeError) Error() string {
	return fmt.Sprintf("autowire: [%s] is not usable as an open-generic contract: %s", e.Type, e.Reason)
}
