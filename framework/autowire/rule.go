package autowire

import (
	"fmt"

	"github.com/km-arc/go-autowire/framework/container"
	"github.com/km-arc/go-autowire/framework/metadata"
)

// Registry is where bindings go. *container.Container implements it.
type Registry interface {
	Register(contract, concrete *metadata.Type, name string, lifetime container.Lifetime) error
}

// Action binds a matched type.
type Action func(t *metadata.Type, r Registry) error

// Rule pairs a type predicate with the action run for every eligible type
// it matches.
type Rule struct {
	predicate TypePredicate
	action    Action
}

// NewRule builds a rule. It panics with *NullArgumentError when either
// argument is nil.
func NewRule(predicate TypePredicate, action Action) Rule {
	if predicate == nil {
		panic(&NullArgumentError{Arg: "type predicate"})
	}
	if action == nil {
		panic(&NullArgumentError{Arg: "action"})
	}
	return Rule{predicate: predicate, action: action}
}

// Matches reports whether the rule applies to t.
func (r Rule) Matches(t *metadata.Type) bool { return r.predicate(t) }

// Fire runs the action for t when the rule matches it.
func (r Rule) Fire(t *metadata.Type, reg Registry) (bool, error) {
	if !r.predicate(t) {
		return false, nil
	}
	return true, r.action(t, reg)
}

// ── Recorder ──────────────────────────────────────────────────────────────────

// Binding is one (contract, concrete, name, lifetime) decision.
type Binding struct {
	Contract *metadata.Type
	Concrete *metadata.Type
	Name     string
	Lifetime container.Lifetime
}

func (b Binding) String() string {
	s := fmt.Sprintf("%s -> %s", b.Contract, b.Concrete)
	if b.Name != "" {
		s += fmt.Sprintf(" %q", b.Name)
	}
	return s + " (" + b.Lifetime.String() + ")"
}

// Recorder is a Registry that keeps every binding in memory. Reject, when
// set, can refuse a binding the way a real registry would.
type Recorder struct {
	Bindings []Binding
	Reject   func(b Binding) error
}

func (r *Recorder) Register(contract, concrete *metadata.Type, name string, lifetime container.Lifetime) error {
	b := Binding{Contract: contract, Concrete: concrete, Name: name, Lifetime: lifetime}
	if r.Reject != nil {
		if err := r.Reject(b); err != nil {
			return err
		}
	}
	r.Bindings = append(r.Bindings, b)
	return nil
}
