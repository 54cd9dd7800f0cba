package circuitbreaker

import (
	"sync"
)

// Registry is a process-wide directory of breakers keyed by dependency name.
// It owns the canonical instances; any code that names the same dependency
// gets the same breaker. Construct one at process start and pass it to
// everything that builds breakers or reports health.
type Registry struct {
	mu       sync.RWMutex
	breakers map[string]*Breaker
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{
		breakers: make(map[string]*Breaker),
	}
}

// GetOrCreate returns the breaker registered under name, building and
// inserting it on first use. Lookup and insert happen under the registry's
// lock, so concurrent callers for one name all receive the same instance.
//
// If name is already registered, the existing breaker is returned unchanged
// and opts are ignored.
func (r *Registry) GetOrCreate(name string, opts ...Option) (*Breaker, error) {
	r.mu.RLock()
	b, ok := r.breakers[name]
	r.mu.RUnlock()

	if ok {
		return b, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok = r.breakers[name]; ok {
		return b, nil
	}

	b, err := New(name, opts...)
	if err != nil {
		return nil, err
	}

	r.breakers[name] = b
	r.order = append(r.order, name)

	return b, nil
}

func (r *Registry) Lookup(name string) (*Breaker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.breakers[name]
	return b, ok
}

// All returns the registered breakers in registration order.
func (r *Registry) All() []*Breaker {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Breaker, 0, len(r.order))
	for _, name := range r.order {
		all = append(all, r.breakers[name])
	}

	return all
}

// Snapshots returns a status copy of every registered breaker in
// registration order, for the health reporting collaborator.
func (r *Registry) Snapshots() []Status {
	all := r.All()

	statuses := make([]Status, 0, len(all))
	for _, b := range all {
		statuses = append(statuses, b.Snapshot())
	}

	return statuses
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.breakers)
}

// Clear removes every entry. Test isolation only; never reachable from a
// production request path.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.breakers = make(map[string]*Breaker)
	r.order = nil
}
