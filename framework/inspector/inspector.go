// Package inspector serves the container's typed bindings and the engine's
// plan as JSON.
//
//	GET /bindings                  every typed binding, in registration order
//	GET /bindings?lifetime=singleton&name=redis&module=github.com/acme/shop
//	GET /bindings/{contract}       the bindings of one contract
//	GET /modules                   modules the engine considers eligible
//	GET /plan                      what applying the engine would bind now
package inspector

import (
	"net/http"
	"sync"

	"github.com/km-arc/go-autowire/framework/autowire"
	"github.com/km-arc/go-autowire/framework/container"
	gohttp "github.com/km-arc/go-autowire/framework/http"
	"github.com/km-arc/go-autowire/framework/http/validation"
	"github.com/km-arc/go-autowire/framework/routing"
)

// Binding is the JSON view of a binding.
type Binding struct {
	Contract string `json:"contract"`
	Concrete string `json:"concrete"`
	Name     string `json:"name,omitempty"`
	Lifetime string `json:"lifetime"`
	Module   string `json:"module"`
}

// Inspector answers read-only queries about a container and the engine
// that populated it.
type Inspector struct {
	app      *container.Container
	engine   *autowire.Engine
	universe autowire.Universe

	// Plan and EligibleModules are not safe for concurrent use.
	mu sync.Mutex
}

// New creates an inspector. engine and universe may be nil, in which case
// /plan and /modules answer 404.
func New(app *container.Container, engine *autowire.Engine, universe autowire.Universe) *Inspector {
	return &Inspector{app: app, engine: engine, universe: universe}
}

// Routes registers the endpoints on r.
func (i *Inspector) Routes(r *routing.Router) {
	r.Get("/bindings", i.index)
	r.Get("/bindings/*", i.show)
	r.Get("/modules", i.modules)
	r.Get("/plan", i.plan)
}

// ── Handlers ─────────────────────────────────────────────────────────────────

func (i *Inspector) index(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)

	filters := req.Filters("lifetime", "name", "module")
	if err := validation.Make(filters, validation.Rules{
		"lifetime": "nullable|alpha_dash",
		"name":     "nullable|max:255",
		"module":   "nullable|max:255",
	}).Validate(); err != nil {
		res.Fail(err)
		return
	}

	entries := i.app.Entries()
	var out []Binding
	for _, e := range entries {
		b := fromEntry(e)
		if v, ok := filters["lifetime"]; ok && b.Lifetime != v {
			continue
		}
		if v, ok := filters["name"]; ok && b.Name != v {
			continue
		}
		if v, ok := filters["module"]; ok && b.Module != v {
			continue
		}
		out = append(out, b)
	}
	gohttp.List(res, out, len(entries))
}

func (i *Inspector) show(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)

	contract, err := req.Wildcard()
	if err != nil || contract == "" {
		res.BadRequest("Invalid contract.")
		return
	}

	var out []Binding
	for _, e := range i.app.Entries() {
		if e.Contract.String() == contract {
			out = append(out, fromEntry(e))
		}
	}
	if len(out) == 0 {
		res.NotFound("No bindings for [" + contract + "].")
		return
	}
	res.Success(out)
}

func (i *Inspector) modules(w http.ResponseWriter, _ *http.Request) {
	res := gohttp.NewResponse(w)
	if i.engine == nil || i.universe == nil {
		res.NotFound("No auto-wiring engine configured.")
		return
	}

	i.mu.Lock()
	mods := i.engine.EligibleModules(i.universe)
	i.mu.Unlock()

	names := make([]string, len(mods))
	for n, m := range mods {
		names[n] = m.Name()
	}
	gohttp.List(res, names, len(i.universe.Modules()))
}

func (i *Inspector) plan(w http.ResponseWriter, _ *http.Request) {
	res := gohttp.NewResponse(w)
	if i.engine == nil || i.universe == nil {
		res.NotFound("No auto-wiring engine configured.")
		return
	}

	i.mu.Lock()
	bindings, err := i.engine.Plan(i.universe)
	types := len(i.engine.EligibleTypes(i.universe))
	i.mu.Unlock()
	if err != nil {
		res.Fail(err)
		return
	}

	out := make([]Binding, len(bindings))
	for n, b := range bindings {
		out[n] = FromPlan(b)
	}
	gohttp.List(res, out, types)
}

// ── Views ────────────────────────────────────────────────────────────────────

func fromEntry(e container.Entry) Binding {
	return Binding{
		Contract: e.Contract.String(),
		Concrete: e.Concrete.String(),
		Name:     e.Name,
		Lifetime: e.Lifetime.String(),
		Module:   e.Concrete.Module().Name(),
	}
}

// FromPlan converts a planned binding to its JSON view.
func FromPlan(b autowire.Binding) Binding {
	return fromEntry(container.Entry{Contract: b.Contract, Concrete: b.Concrete, Name: b.Name, Lifetime: b.Lifetime})
}
