package container

import (
	"fmt"
	"sync"
)

// ── Binding records ───────────────────────────────────────────────────────────

// Factory builds a concrete value from the container.
type Factory func(c *Container) (any, error)

type defKind int

const (
	kindClass defKind = iota
	kindFactory
	kindValue
)

// definition is one registration record: token → class, factory or literal
// value, plus its scope. Re-registration overwrites.
type definition struct {
	kind    defKind
	desc    *Descriptor
	factory Factory
	value   any
	scope   Scope
}

// ── Container ─────────────────────────────────────────────────────────────────

// TokenContainer is the token under which every container registers itself,
// so components can depend on the container directly.
const TokenContainer Token = "container"

// Container is the dependency injection container. It resolves tokens to
// instances, honoring scope and abstract-contract bindings and detecting
// construction cycles.
//
// One container is constructed per Application; there is no process-wide
// global. Reset exists for test isolation only.
type Container struct {
	mu sync.RWMutex

	// token → binding record
	definitions map[Token]*definition

	// token → resolved singleton instance
	instances map[Token]any

	// abstract contract → concrete implementer descriptors, registration order
	implementers map[Token][]*Descriptor
}

// New creates an empty container bound to itself under TokenContainer.
func New() *Container {
	c := &Container{
		definitions:  make(map[Token]*definition),
		instances:    make(map[Token]any),
		implementers: make(map[Token][]*Descriptor),
	}
	c.RegisterInstance(TokenContainer, c)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Register binds a component descriptor under its token. Registering a second
// primary implementer for the same abstract contract is rejected immediately
// rather than silently letting the last registration win.
func (c *Container) Register(desc *Descriptor) error {
	if desc == nil || desc.Token == "" {
		return fmt.Errorf("container: descriptor with empty token")
	}
	if desc.Construct == nil {
		return fmt.Errorf("container: descriptor [%s] has no constructor", desc.Token)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if desc.Implements != "" {
		if desc.Primary {
			for _, existing := range c.implementers[desc.Implements] {
				if existing.Primary && existing.Token != desc.Token {
					return &DuplicatePrimaryError{
						Contract: desc.Implements,
						Existing: existing.Token,
						Incoming: desc.Token,
					}
				}
			}
		}
		c.addImplementer(desc)
	}

	// Drop a stale singleton so the token rebuilds with the new descriptor.
	delete(c.instances, desc.Token)
	c.definitions[desc.Token] = &definition{kind: kindClass, desc: desc, scope: desc.Scope}
	return nil
}

// addImplementer replaces a re-registered descriptor in place, otherwise
// appends (must hold mu).
func (c *Container) addImplementer(desc *Descriptor) {
	impls := c.implementers[desc.Implements]
	for i, existing := range impls {
		if existing.Token == desc.Token {
			impls[i] = desc
			return
		}
	}
	c.implementers[desc.Implements] = append(impls, desc)
}

// RegisterFactory binds a factory function under a token with the given scope.
func (c *Container) RegisterFactory(token Token, scope Scope, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.instances, token)
	c.definitions[token] = &definition{kind: kindFactory, factory: factory, scope: scope}
}

// RegisterValue binds a literal value under a token.
func (c *Container) RegisterValue(token Token, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.instances, token)
	c.definitions[token] = &definition{kind: kindValue, value: value, scope: ScopeSingleton}
}

// RegisterInstance places a pre-built instance directly into the singleton
// cache, like Nest's { provide, useValue } with an existing object.
func (c *Container) RegisterInstance(token Token, instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.definitions, token)
	c.instances[token] = instance
}

// Bound reports whether a token has a binding, cached instance or implementer.
func (c *Container) Bound(token Token) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.definitions[token]; ok {
		return true
	}
	if _, ok := c.instances[token]; ok {
		return true
	}
	return len(c.implementers[token]) > 0
}

// Tokens returns all registered tokens (for debugging).
func (c *Container) Tokens() []Token {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Token, 0, len(c.definitions)+len(c.instances))
	for t := range c.definitions {
		out = append(out, t)
	}
	for t := range c.instances {
		if _, already := c.definitions[t]; !already {
			out = append(out, t)
		}
	}
	return out
}

// Reset clears all bindings, instances and implementer indexes, then rebinds
// the container to itself. Test isolation only.
func (c *Container) Reset() {
	c.mu.Lock()
	c.definitions = make(map[Token]*definition)
	c.instances = make(map[Token]any)
	c.implementers = make(map[Token][]*Descriptor)
	c.mu.Unlock()
	c.RegisterInstance(TokenContainer, c)
}

// ── Resolution ────────────────────────────────────────────────────────────────

// resolution is the ephemeral per-call state: the stack of tokens currently
// under construction (cycle detection) and the active request context, if any.
// It never outlives a single Resolve call tree.
type resolution struct {
	stack []Token
	req   *RequestContext
}

func (rs *resolution) current() Token {
	if len(rs.stack) == 0 {
		return ""
	}
	return rs.stack[len(rs.stack)-1]
}

// Resolve resolves a token to an instance.
func (c *Container) Resolve(token Token) (any, error) {
	return c.resolve(token, "", &resolution{})
}

// ResolveNamed resolves an abstract contract to the implementer registered
// under the given name.
func (c *Container) ResolveNamed(token Token, name string) (any, error) {
	return c.resolve(token, name, &resolution{})
}

// ResolveRequest resolves a token within an active request context. Request-
// scoped instances produced along the way live exactly as long as req.
func (c *Container) ResolveRequest(token Token, req *RequestContext) (any, error) {
	return c.resolve(token, "", &resolution{req: req})
}

func (c *Container) resolve(token Token, name string, rs *resolution) (any, error) {
	// Singleton cache first — before cycle detection, so a component still
	// under field injection is already reachable by its peers.
	c.mu.RLock()
	inst, cached := c.instances[token]
	c.mu.RUnlock()
	if cached {
		return inst, nil
	}
	if rs.req != nil {
		if inst, ok := rs.req.get(token); ok {
			return inst, nil
		}
	}

	c.mu.RLock()
	impls := c.implementers[token]
	def, bound := c.definitions[token]
	c.mu.RUnlock()

	// Abstract contract: redirect to the selected concrete implementer.
	if len(impls) > 0 && !bound {
		chosen, err := selectImplementer(token, impls, name)
		if err != nil {
			return nil, err
		}
		return c.resolve(chosen.Token, "", rs)
	}

	if !bound {
		return nil, &UnregisteredTokenError{Token: token}
	}

	switch def.kind {
	case kindValue:
		return def.value, nil
	case kindFactory:
		return c.buildFactory(token, def, rs)
	default:
		return c.buildClass(def.desc, rs)
	}
}

// selectImplementer applies the disambiguation rules: explicit name, single
// implementer, primary marker — in that order — else the lookup is ambiguous.
func selectImplementer(contract Token, impls []*Descriptor, name string) (*Descriptor, error) {
	candidates := func() []Token {
		out := make([]Token, len(impls))
		for i, d := range impls {
			out[i] = d.Token
		}
		return out
	}

	if name != "" {
		for _, d := range impls {
			if d.Name == name {
				return d, nil
			}
		}
		return nil, &AmbiguousDependencyError{Contract: contract, Candidates: candidates(), Name: name}
	}
	if len(impls) == 1 {
		return impls[0], nil
	}
	for _, d := range impls {
		if d.Primary {
			return d, nil
		}
	}
	return nil, &AmbiguousDependencyError{Contract: contract, Candidates: candidates()}
}

func (c *Container) buildFactory(token Token, def *definition, rs *resolution) (any, error) {
	if def.scope == ScopeRequest && rs.req == nil {
		return nil, &ScopeMismatchError{Token: token, From: rs.current()}
	}
	if err := rs.push(token); err != nil {
		return nil, err
	}
	inst, err := def.factory(c)
	rs.pop()
	if err != nil {
		return nil, err
	}
	switch def.scope {
	case ScopeSingleton:
		c.mu.Lock()
		c.instances[token] = inst
		c.mu.Unlock()
	case ScopeRequest:
		rs.req.put(token, inst)
	}
	return inst, nil
}

// buildClass runs the full construction algorithm for a descriptor:
// constructor dependencies, instantiation, early caching, then deferred field
// injection. The token stays on the resolution stack while fields resolve, so
// a pure constructor cycle still trips detection while a mutual field cycle
// finds the freshly cached peer instead.
func (c *Container) buildClass(desc *Descriptor, rs *resolution) (any, error) {
	if desc.Scope == ScopeRequest && rs.req == nil {
		return nil, &ScopeMismatchError{Token: desc.Token, From: rs.current()}
	}

	if err := rs.push(desc.Token); err != nil {
		return nil, err
	}
	defer rs.pop()

	args := make([]any, len(desc.Dependencies))
	for i, dep := range desc.Dependencies {
		v, err := c.resolve(dep, "", rs)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	inst, err := desc.Construct(args)
	if err != nil {
		return nil, fmt.Errorf("container: constructing [%s]: %w", desc.Token, err)
	}

	// Cache before field injection. A transient never caches, so a transient
	// field cycle is still caught by the stack.
	switch desc.Scope {
	case ScopeSingleton:
		c.mu.Lock()
		c.instances[desc.Token] = inst
		c.mu.Unlock()
	case ScopeRequest:
		rs.req.put(desc.Token, inst)
	}

	for _, f := range desc.Fields {
		v, err := c.resolve(f.Token, "", rs)
		if err != nil {
			return nil, err
		}
		f.Assign(inst, v)
	}

	return inst, nil
}

// push adds a token to the resolution stack, failing with the full chain when
// the token is already under construction.
func (rs *resolution) push(token Token) error {
	for i, t := range rs.stack {
		if t == token {
			chain := make([]Token, 0, len(rs.stack)-i+1)
			chain = append(chain, rs.stack[i:]...)
			chain = append(chain, token)
			return &CircularDependencyError{Chain: chain}
		}
	}
	rs.stack = append(rs.stack, token)
	return nil
}

func (rs *resolution) pop() {
	rs.stack = rs.stack[:len(rs.stack)-1]
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Resolve is a generic helper that resolves a token and type-asserts the
// result.
//
//	db, err := container.Resolve[*Db](c, TokenDb)
func Resolve[T any](c *Container, token Token) (T, error) {
	var zero T
	inst, err := c.resolve(token, "", &resolution{})
	if err != nil {
		return zero, err
	}
	typed, ok := inst.(T)
	if !ok {
		return zero, fmt.Errorf("container: Resolve[%T]: [%s] resolved to %T", zero, token, inst)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error — for wiring code that runs
// once at startup where a failure is fatal anyway.
func MustResolve[T any](c *Container, token Token) T {
	v, err := Resolve[T](c, token)
	if err != nil {
		panic(err)
	}
	return v
}
