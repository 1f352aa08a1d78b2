package container

import (
	"sync"

	"github.com/google/uuid"
)

// RequestContext carries the per-request instance cache for request-scoped
// bindings. The application creates one per incoming request and passes it to
// ResolveRequest; when the context is dropped, every instance built for it
// goes with it.
type RequestContext struct {
	id string

	mu        sync.Mutex
	instances map[Token]any
}

// NewRequestContext creates an empty request context with a unique identity.
func NewRequestContext() *RequestContext {
	return &RequestContext{
		id:        uuid.NewString(),
		instances: make(map[Token]any),
	}
}

// ID returns the request context's unique identifier.
func (rc *RequestContext) ID() string { return rc.id }

func (rc *RequestContext) get(token Token) (any, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	v, ok := rc.instances[token]
	return v, ok
}

func (rc *RequestContext) put(token Token, instance any) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.instances[token] = instance
}
