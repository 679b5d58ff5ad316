package container

import "sync"

// Lifetime names the policy governing how many instances a binding yields.
type Lifetime string

const (
	// Transient builds a new instance on every Make. It is the default.
	Transient Lifetime = "transient"
	// Singleton builds once and reuses the instance for the container's life.
	Singleton Lifetime = "singleton"
	// PerThread builds once per goroutine. The cache entry lives until
	// Container.ReleaseThread runs on that goroutine.
	PerThread Lifetime = "per-thread"
)

func (l Lifetime) String() string { return string(l) }

// LifetimeManager implements a custom lifetime. Get returns the instance
// for key, calling build when a new one is needed.
//
//	c.RegisterLifetime("request", requestScope)
//	c.Register(contract, concrete, "", "request")
type LifetimeManager interface {
	Get(key string, build func() any) any
}

// perThread caches one instance per (goroutine, key).
type perThread struct {
	mu        sync.Mutex
	instances map[int64]map[string]any
}

func newPerThread() *perThread {
	return &perThread{instances: make(map[int64]map[string]any)}
}

func (p *perThread) Get(key string, build func() any) any {
	id := goid()

	p.mu.Lock()
	if inst, ok := p.instances[id][key]; ok {
		p.mu.Unlock()
		return inst
	}
	p.mu.Unlock()

	inst := build()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.instances[id] == nil {
		p.instances[id] = make(map[string]any)
	}
	p.instances[id][key] = inst
	return inst
}

// release drops the instances cached for the calling goroutine.
func (p *perThread) release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.instances, goid())
}
