// Package registry is the bookkeeping set of discovered component classes.
//
// Module load hooks (usually generated files) push component descriptors here
// as a side effect of discovery; the orchestrator later drains the sets in
// discovery order. The registry performs no resolution — it is pure
// bookkeeping with set semantics, keyed by token.
package registry

import (
	"sync"

	"github.com/km-arc/go-nest/framework/container"
)

// Registry tracks discovered component classes by role: ordinary providers,
// declarative value providers, and request-handling controllers.
type Registry struct {
	mu          sync.Mutex
	providers   descriptorSet
	custom      descriptorSet
	controllers descriptorSet
}

// New creates an empty registry.
func New() *Registry { return &Registry{} }

// defaultRegistry backs the module load hooks, which have no other way to
// reach the application's registry at load time.
var defaultRegistry = New()

// Default returns the package-level registry used by module load hooks.
func Default() *Registry { return defaultRegistry }

// ── Registration (idempotent, set semantics) ─────────────────────────────────

// RegisterProvider records an ordinary provider class. Re-registering the
// same token is a no-op.
func (r *Registry) RegisterProvider(desc *container.Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers.add(desc)
}

// RegisterCustomProvider records a declarative value-provider class.
func (r *Registry) RegisterCustomProvider(desc *container.Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.custom.add(desc)
}

// RegisterController records a request-handling controller class.
func (r *Registry) RegisterController(desc *container.Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.controllers.add(desc)
}

// ── Snapshots ────────────────────────────────────────────────────────────────

// Providers returns a snapshot of provider descriptors in discovery order.
func (r *Registry) Providers() []*container.Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.providers.snapshot()
}

// CustomProviders returns a snapshot of value-provider descriptors.
func (r *Registry) CustomProviders() []*container.Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.custom.snapshot()
}

// Controllers returns a snapshot of controller descriptors.
func (r *Registry) Controllers() []*container.Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.controllers.snapshot()
}

// Reset clears all sets. Test isolation only.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = descriptorSet{}
	r.custom = descriptorSet{}
	r.controllers = descriptorSet{}
}

// ── descriptorSet ────────────────────────────────────────────────────────────

// descriptorSet keeps insertion order — the orchestrator's stable sort breaks
// priority ties by discovery order, so order matters here.
type descriptorSet struct {
	order []*container.Descriptor
	index map[container.Token]struct{}
}

func (s *descriptorSet) add(desc *container.Descriptor) {
	if desc == nil || desc.Token == "" {
		return
	}
	if s.index == nil {
		s.index = make(map[container.Token]struct{})
	}
	if _, seen := s.index[desc.Token]; seen {
		return
	}
	s.index[desc.Token] = struct{}{}
	s.order = append(s.order, desc)
}

func (s *descriptorSet) snapshot() []*container.Descriptor {
	out := make([]*container.Descriptor, len(s.order))
	copy(out, s.order)
	return out
}
