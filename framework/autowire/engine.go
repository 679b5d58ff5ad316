package autowire

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/km-arc/go-autowire/framework/container"
	"github.com/km-arc/go-autowire/framework/metadata"
)

// Universe supplies the modules the engine scans. *metadata.Universe
// implements it.
type Universe interface {
	Modules() []*metadata.Module
}

// Engine collects module filters, type filters and rules, then binds every
// eligible type against a Registry.
//
// A module is eligible when no ModuleExclude matches it and at least one
// ModuleInclude does. With no includes at all, nothing is eligible. A type
// is eligible when its module is and no type exclude matches it.
//
// Engines are configured and applied from one goroutine during startup.
type Engine struct {
	registry Registry
	logger   *log.Logger

	moduleIncludes []ModulePredicate
	moduleExcludes []ModulePredicate
	typeExcludes   []TypePredicate
	rules          []Rule

	applied bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger logs the pass to l. Engines log nothing by default.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine binding into registry. It panics with
// *NullArgumentError when registry is nil.
func New(registry Registry, opts ...Option) *Engine {
	if registry == nil {
		panic(&NullArgumentError{Arg: "registry"})
	}
	e := &Engine{registry: registry, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ── Configuration ─────────────────────────────────────────────────────────────

// IncludeModules makes modules matching p eligible.
func (e *Engine) IncludeModules(p ModulePredicate) *Engine {
	if p == nil {
		panic(&NullArgumentError{Arg: "module predicate"})
	}
	e.moduleIncludes = append(e.moduleIncludes, p)
	return e
}

// IncludeAllModules makes every module eligible, subject to excludes.
func (e *Engine) IncludeAllModules() *Engine {
	e.moduleIncludes = slices.Insert(e.moduleIncludes, 0, ModulePredicate(AnyModule))
	return e
}

// ExcludeModules removes modules matching p, whatever the includes say.
func (e *Engine) ExcludeModules(p ModulePredicate) *Engine {
	if p == nil {
		panic(&NullArgumentError{Arg: "module predicate"})
	}
	e.moduleExcludes = append(e.moduleExcludes, p)
	return e
}

// ExcludeSystemModules removes standard-library-like modules.
func (e *Engine) ExcludeSystemModules() *Engine {
	return e.ExcludeModules(SystemModule)
}

// Exclude removes types matching p.
func (e *Engine) Exclude(p TypePredicate) *Engine {
	if p == nil {
		panic(&NullArgumentError{Arg: "type predicate"})
	}
	e.typeExcludes = append(e.typeExcludes, p)
	return e
}

// Include adds a rule binding every eligible type matching p as described
// by r. r is copied; later changes to it are not seen by this rule.
func (e *Engine) Include(p TypePredicate, r *Registration) *Engine {
	if r == nil {
		panic(&NullArgumentError{Arg: "registration"})
	}
	return e.IncludeRule(NewRule(p, r.Action()))
}

// IncludeFunc adds a rule running action for every eligible type matching p.
func (e *Engine) IncludeFunc(p TypePredicate, action Action) *Engine {
	return e.IncludeRule(NewRule(p, action))
}

// IncludeRule adds a prebuilt rule.
func (e *Engine) IncludeRule(r Rule) *Engine {
	if r.predicate == nil || r.action == nil {
		panic(&NullArgumentError{Arg: "rule"})
	}
	e.rules = append(e.rules, r)
	return e
}

// ── Execution ─────────────────────────────────────────────────────────────────

// Applied reports whether Apply has run at least once.
func (e *Engine) Applied() bool { return e.applied }

// Rules returns the number of rules added so far.
func (e *Engine) Rules() int { return len(e.rules) }

// EligibleModules returns the modules of u that pass the module filters,
// in discovery order.
func (e *Engine) EligibleModules(u Universe) []*metadata.Module {
	if u == nil {
		panic(&NullArgumentError{Arg: "universe"})
	}
	var out []*metadata.Module
	for _, m := range u.Modules() {
		if e.moduleEligible(m) {
			out = append(out, m)
		}
	}
	return out
}

// EligibleTypes returns the types of u the rules will be tried against,
// in module discovery order then declaration order.
func (e *Engine) EligibleTypes(u Universe) []*metadata.Type {
	var out []*metadata.Type
	for _, m := range e.EligibleModules(u) {
		for _, t := range m.Types() {
			if e.typeEligible(t) {
				out = append(out, t)
			}
		}
	}
	return out
}

// Apply binds every eligible type of u. Each type is tried against every
// rule in the order the rules were added. The first error stops the pass
// and is returned as is; bindings made before it stay in the registry.
func (e *Engine) Apply(u Universe) error {
	e.applied = true
	if len(e.moduleIncludes) == 0 {
		e.logger.Warn("no module includes configured, nothing will be bound")
	}
	n, types, err := e.pass(u, e.registry, "bound")
	if err != nil {
		e.logger.Error("auto-wiring aborted", "err", err)
		return err
	}
	e.logger.Info("auto-wiring applied", "types", types, "rules", len(e.rules), "bindings", n)
	return nil
}

// Plan runs the same pass as Apply against an in-memory recorder and
// returns the bindings Apply would make. The registry is not touched and
// the engine is not marked applied. When the registry can check a binding
// without storing it (as *container.Container does) or is itself a
// *Recorder, Plan refuses what the registry would refuse.
func (e *Engine) Plan(u Universe) ([]Binding, error) {
	rec := &Recorder{Reject: e.rejecter()}
	n, types, err := e.pass(u, rec, "planned")
	if err != nil {
		e.logger.Debug("auto-wiring plan failed", "err", err)
		return rec.Bindings, err
	}
	e.logger.Debug("auto-wiring planned", "types", types, "rules", len(e.rules), "bindings", n)
	return rec.Bindings, nil
}

// checker is implemented by registries that can validate a binding
// without storing it.
type checker interface {
	Check(contract, concrete *metadata.Type, name string, lifetime container.Lifetime) error
}

func (e *Engine) rejecter() func(Binding) error {
	switch reg := e.registry.(type) {
	case checker:
		return func(b Binding) error { return reg.Check(b.Contract, b.Concrete, b.Name, b.Lifetime) }
	case *Recorder:
		return reg.Reject
	}
	return nil
}

// pass fires every rule for every eligible type and returns the number of
// bindings made and of types tried. Each binding is logged at debug as msg.
func (e *Engine) pass(u Universe, reg Registry, msg string) (int, int, error) {
	counter := &loggingRegistry{next: reg, logger: e.logger, msg: msg}
	types := e.EligibleTypes(u)
	for _, t := range types {
		for _, r := range e.rules {
			if _, err := r.Fire(t, counter); err != nil {
				e.logger.Debug("rule failed", "type", t.String(), "err", err)
				return counter.count, len(types), err
			}
		}
	}
	return counter.count, len(types), nil
}

func (e *Engine) moduleEligible(m *metadata.Module) bool {
	for _, p := range e.moduleExcludes {
		if p(m) {
			return false
		}
	}
	for _, p := range e.moduleIncludes {
		if p(m) {
			return true
		}
	}
	return false
}

func (e *Engine) typeEligible(t *metadata.Type) bool {
	for _, p := range e.typeExcludes {
		if p(t) {
			return false
		}
	}
	return true
}

// loggingRegistry counts and logs the bindings that reach the registry.
type loggingRegistry struct {
	next   Registry
	logger *log.Logger
	msg    string
	count  int
}

func (r *loggingRegistry) Register(contract, concrete *metadata.Type, name string, lifetime container.Lifetime) error {
	if err := r.next.Register(contract, concrete, name, lifetime); err != nil {
		return err
	}
	r.count++
	r.logger.Debug(r.msg, "contract", contract.String(), "concrete", concrete.String(), "name", name, "lifetime", lifetime)
	return nil
}
