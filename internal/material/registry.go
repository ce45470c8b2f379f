package material

import "sync"

// Resolver looks up a surface by name. Resolving the same name twice must
// return the same surface while the scene is unchanged.
type Resolver interface {
	Resolve(name string) (Surface, bool)
}

// Registry is an in-memory Resolver filled by the scene owner.
type Registry struct {
	mu       sync.RWMutex
	surfaces map[string]Surface
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{surfaces: make(map[string]Surface)}
}

// Register adds s under its name. The first surface registered for a name
// wins; later ones are ignored and Register reports false.
func (r *Registry) Register(s Surface) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.surfaces[s.Name()]; ok {
		return false
	}
	r.surfaces[s.Name()] = s
	r.order = append(r.order, s.Name())
	return true
}

func (r *Registry) Resolve(name string) (Surface, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.surfaces[name]
	return s, ok
}

// Names returns the registered surface names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}
