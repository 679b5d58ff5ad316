// Package rulefile configures an auto-wiring engine from an HCL file.
//
//	modules {
//	  include        = ["github.com/acme/*"]
//	  exclude        = ["github.com/acme/legacy"]
//	  exclude_system = true
//	}
//
//	exclude "ignored" {
//	  marker = "autowire:ignore"
//	}
//
//	rule "repositories" {
//	  suffix    = "Repository"
//	  contracts = "single"
//	  name      = "part:Repository"
//	  lifetime  = "per-thread"
//	}
//
// Module patterns use path.Match syntax; "*" alone includes every module.
// Rules only consider concrete types. Their match attributes (type,
// implements, open_generic, marker, suffix, package, single_contract,
// name_convention) must all hold. contracts is one of all (the default),
// first, single, convention, open-generic (with generic) or explicit (with
// as). name is "", "type", "part:<suffix>" or "literal:<name>". Expressions
// can read environment variables as env.NAME.
package rulefile

import (
	_ "embed"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/km-arc/go-autowire/framework/autowire"
	"github.com/km-arc/go-autowire/framework/container"
	"github.com/km-arc/go-autowire/framework/http/validation"
	"github.com/km-arc/go-autowire/framework/metadata"
)

//go:embed conventions.hcl
var conventions []byte

// Options tune how a rules file is turned into engine configuration.
type Options struct {
	// DefaultLifetime applies to rules without a lifetime. Empty means transient.
	DefaultLifetime container.Lifetime
	// ExcludeSystem applies when the modules block does not set exclude_system.
	ExcludeSystem bool
	// Env backs env.NAME in expressions. Nil reads the process environment.
	Env map[string]string
}

// Universe resolves the type names a rules file mentions.
type Universe interface {
	Lookup(name string) (*metadata.Type, bool)
}

// File is a parsed and validated rules file.
type File struct {
	Filename string

	opts Options
	doc  document
}

// Load reads and parses the rules file at path.
func Load(path string, opts Options) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rulefile: %w", err)
	}
	return Parse(src, path, opts)
}

// Conventions returns the built-in rules: every non-system module, types
// marked autowire:ignore skipped, and each type bound to its "I" + name
// contract.
func Conventions(opts Options) *File {
	f, err := Parse(conventions, "conventions.hcl", opts)
	if err != nil {
		panic(err)
	}
	return f
}

// Parse decodes and validates src. Type names are not resolved until
// Configure.
func Parse(src []byte, filename string, opts Options) (*File, error) {
	parser := hclparse.NewParser()
	hf, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("rulefile: failed to parse %s: %w", filename, diags)
	}

	ctx := evalContext(opts.Env)
	f := &File{Filename: filename, opts: opts}
	if diags := gohcl.DecodeBody(hf.Body, ctx, &f.doc); diags.HasErrors() {
		return nil, fmt.Errorf("rulefile: failed to decode %s: %w", filename, diags)
	}

	if m := f.doc.Modules; m != nil {
		for _, p := range append(m.Include, m.Exclude...) {
			if _, err := path.Match(p, ""); err != nil {
				return nil, &BlockError{Block: "modules", Err: fmt.Errorf("bad pattern %q: %w", p, err)}
			}
		}
	}
	for _, b := range f.doc.Excludes {
		block := fmt.Sprintf("exclude %q", b.Label)
		if diags := gohcl.DecodeBody(b.Remain, ctx, &b.match); diags.HasErrors() {
			return nil, &BlockError{Block: block, Err: diags}
		}
		if b.match.empty() {
			return nil, &BlockError{Block: block, Err: fmt.Errorf("needs at least one match attribute")}
		}
		if err := validateMatch(b.match); err != nil {
			return nil, &BlockError{Block: block, Err: err}
		}
	}
	for _, b := range f.doc.Rules {
		block := fmt.Sprintf("rule %q", b.Label)
		if diags := gohcl.DecodeBody(b.Remain, ctx, &b.match); diags.HasErrors() {
			return nil, &BlockError{Block: block, Err: diags}
		}
		if err := validateRule(b); err != nil {
			return nil, &BlockError{Block: block, Err: err}
		}
	}
	return f, nil
}

// Rules returns the rule labels in file order.
func (f *File) Rules() []string {
	out := make([]string, len(f.doc.Rules))
	for i, b := range f.doc.Rules {
		out[i] = b.Label
	}
	return out
}

// Configure adds the file's module filters, type excludes and rules to e.
// Every type name is resolved against u first; on error e is left as it was.
func (f *File) Configure(e *autowire.Engine, u Universe) error {
	var steps []func()

	excludeSystem := f.opts.ExcludeSystem
	if m := f.doc.Modules; m != nil {
		if m.ExcludeSystem != nil {
			excludeSystem = *m.ExcludeSystem
		}
		for _, p := range m.Include {
			if p == "*" {
				steps = append(steps, func() { e.IncludeAllModules() })
				continue
			}
			steps = append(steps, func() { e.IncludeModules(autowire.ModuleNamed(p)) })
		}
		for _, p := range m.Exclude {
			steps = append(steps, func() { e.ExcludeModules(autowire.ModuleNamed(p)) })
		}
	}
	if excludeSystem {
		steps = append(steps, func() { e.ExcludeSystemModules() })
	}

	for _, b := range f.doc.Excludes {
		p, err := predicate(b.match, fmt.Sprintf("exclude %q", b.Label), u)
		if err != nil {
			return err
		}
		steps = append(steps, func() { e.Exclude(p) })
	}

	for _, b := range f.doc.Rules {
		block := fmt.Sprintf("rule %q", b.Label)
		p, err := predicate(b.match, block, u)
		if err != nil {
			return err
		}
		reg, err := f.registration(b, block, u)
		if err != nil {
			return err
		}
		steps = append(steps, func() { e.Include(autowire.And(autowire.TypePredicate(autowire.IsStruct), p), reg) })
	}

	for _, step := range steps {
		step()
	}
	return nil
}

// ── Validation ───────────────────────────────────────────────────────────────

var contractStrategies = []string{"all", "first", "single", "convention", "open-generic", "explicit"}

func validateMatch(m matchAttrs) error {
	return validation.Make(map[string]string{
		"suffix": m.Suffix,
		"marker": m.Marker,
	}, validation.Rules{
		"suffix": "nullable|alpha_dash",
		"marker": "nullable|max:128",
	}).Validate()
}

func validateRule(b *ruleBlock) error {
	if err := validateMatch(b.match); err != nil {
		return err
	}
	if err := validation.Make(map[string]string{
		"contracts": b.Contracts,
		"lifetime":  b.Lifetime,
		"name":      b.Name,
	}, validation.Rules{
		"contracts": "nullable|in:" + strings.Join(contractStrategies, ","),
		"lifetime":  "nullable|alpha_dash",
		"name":      "nullable|starts_with:type,part:,literal:",
	}).Validate(); err != nil {
		return err
	}

	switch b.strategy() {
	case "explicit":
		if len(b.As) == 0 {
			return fmt.Errorf(`contracts = "explicit" needs as`)
		}
	case "open-generic":
		if b.Generic == "" {
			return fmt.Errorf(`contracts = "open-generic" needs generic`)
		}
	}
	if _, err := nameMode(b.Name); err != nil {
		return err
	}
	return nil
}

// strategy infers explicit and open-generic from as and generic when
// contracts is omitted.
func (b *ruleBlock) strategy() string {
	switch {
	case b.Contracts != "":
		return b.Contracts
	case len(b.As) > 0:
		return "explicit"
	case b.Generic != "":
		return "open-generic"
	default:
		return "all"
	}
}

func nameMode(name string) (func(*autowire.Registration), error) {
	switch {
	case name == "":
		return func(*autowire.Registration) {}, nil
	case name == "type":
		return func(r *autowire.Registration) { r.WithTypeName() }, nil
	case strings.HasPrefix(name, "part:") && len(name) > len("part:"):
		part := strings.TrimPrefix(name, "part:")
		return func(r *autowire.Registration) { r.WithPartName(part) }, nil
	case strings.HasPrefix(name, "literal:") && len(name) > len("literal:"):
		literal := strings.TrimPrefix(name, "literal:")
		return func(r *autowire.Registration) { r.WithName(literal) }, nil
	default:
		return nil, fmt.Errorf("invalid name %q", name)
	}
}

// ── Building ─────────────────────────────────────────────────────────────────

func predicate(m matchAttrs, block string, u Universe) (autowire.TypePredicate, error) {
	ps := []autowire.TypePredicate{autowire.AnyType}

	if m.Type != "" {
		t, err := lookup(u, block, "type", m.Type)
		if err != nil {
			return nil, err
		}
		ps = append(ps, autowire.IsExactType(t))
	}
	if m.Implements != "" {
		c, err := lookupContract(u, block, "implements", m.Implements)
		if err != nil {
			return nil, err
		}
		ps = append(ps, autowire.ImplementsContract(c))
	}
	if m.OpenGeneric != "" {
		g, err := lookupGeneric(u, block, "open_generic", m.OpenGeneric)
		if err != nil {
			return nil, err
		}
		ps = append(ps, autowire.ImplementsOpenGeneric(g))
	}
	if m.Marker != "" {
		ps = append(ps, autowire.HasMarker(metadata.Marker(m.Marker)))
	}
	if m.Suffix != "" {
		ps = append(ps, autowire.NameHasSuffix(m.Suffix))
	}
	if m.Package != "" {
		ps = append(ps, autowire.InPackage(m.Package))
	}
	if m.SingleContract {
		ps = append(ps, autowire.ImplementsSingleContract)
	}
	if m.NameConvention {
		ps = append(ps, autowire.MatchesNameConvention)
	}
	return autowire.And(ps...), nil
}

func (f *File) registration(b *ruleBlock, block string, u Universe) (*autowire.Registration, error) {
	lifetime := container.Lifetime(b.Lifetime)
	if lifetime == "" {
		lifetime = f.opts.DefaultLifetime
	}
	if lifetime == "" {
		lifetime = container.Transient
	}
	r := autowire.Register().UsingLifetime(lifetime)

	switch b.strategy() {
	case "all":
		r.AsAllContracts()
	case "first":
		r.AsFirstContract()
	case "single":
		r.AsSingleContract()
	case "convention":
		r.AsNameConventionContract()
	case "open-generic":
		g, err := lookupGeneric(u, block, "generic", b.Generic)
		if err != nil {
			return nil, err
		}
		r.AsOpenGeneric(g)
	case "explicit":
		contracts := make([]*metadata.Type, 0, len(b.As))
		for _, name := range b.As {
			c, err := lookupContract(u, block, "as", name)
			if err != nil {
				return nil, err
			}
			contracts = append(contracts, c)
		}
		r.As(contracts...)
	}

	setName, err := nameMode(b.Name)
	if err != nil {
		return nil, &BlockError{Block: block, Err: err}
	}
	setName(r)
	return r, nil
}

func lookup(u Universe, block, attr, name string) (*metadata.Type, error) {
	t, ok := u.Lookup(name)
	if !ok {
		return nil, &UnknownTypeError{Block: block, Attr: attr, Name: name}
	}
	return t, nil
}

func lookupContract(u Universe, block, attr, name string) (*metadata.Type, error) {
	t, err := lookup(u, block, attr, name)
	if err != nil {
		return nil, err
	}
	if !t.IsInterface() {
		return nil, &BlockError{Block: block, Err: fmt.Errorf("%s = %q is not an interface", attr, name)}
	}
	return t, nil
}

func lookupGeneric(u Universe, block, attr, name string) (*metadata.Type, error) {
	t, err := lookupContract(u, block, attr, name)
	if err != nil {
		return nil, err
	}
	if !t.IsGenericDefinition() {
		return nil, &BlockError{Block: block, Err: fmt.Errorf("%s = %q is not an open-generic interface", attr, name)}
	}
	return t, nil
}

// evalContext exposes env as the env object.
func evalContext(env map[string]string) *hcl.EvalContext {
	if env == nil {
		env = make(map[string]string)
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok {
				env[k] = v
			}
		}
	}
	vals := make(map[string]cty.Value, len(env))
	for k, v := range env {
		vals[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(vals)},
	}
}
