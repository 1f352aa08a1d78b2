package container

// ── Tokens & scopes ───────────────────────────────────────────────────────────

// Token is the opaque key identifying a dependency binding.
//
// Tokens are typically defined as package-level constants:
//
//	const TokenUsers container.Token = "users.Service"
type Token string

// Scope is the lifetime policy of a binding.
type Scope int

const (
	// ScopeSingleton caches the instance after first resolution —
	// the default, like Nest's @Injectable().
	ScopeSingleton Scope = iota
	// ScopeTransient builds a fresh instance on every resolution.
	ScopeTransient
	// ScopeRequest binds the instance lifetime to a RequestContext.
	ScopeRequest
)

func (s Scope) String() string {
	switch s {
	case ScopeSingleton:
		return "singleton"
	case ScopeTransient:
		return "transient"
	case ScopeRequest:
		return "request"
	default:
		return "unknown"
	}
}

// ── Component descriptor ──────────────────────────────────────────────────────

// FieldDependency describes one field injection: the dependency under Token is
// resolved after construction completes and handed to Assign. Deferring the
// assignment is what lets two components field-inject each other.
type FieldDependency struct {
	Field  string
	Token  Token
	Assign func(instance, dep any)
}

// EventHandler declares one event-handler method of a component. Bind adapts
// the method of a concrete instance into a plain listener; the orchestrator
// registers it on the event bus tagged with the component's name as owner.
type EventHandler struct {
	Event string
	Bind  func(instance any) func(payload any) error
}

// Descriptor is the Component Descriptor: everything the container needs to
// build a component, populated explicitly at registration time.
//
// In Nest this data comes out of decorators read via reflection
// (@Injectable(), @Inject(), constructor parameter metadata). Here it is a
// plain read-only struct — the container never introspects anything at
// runtime, it only walks the descriptor.
//
//	container.Descriptor{
//	    Token:        TokenUsers,
//	    Priority:     0,
//	    Dependencies: []container.Token{TokenDb, TokenCache},
//	    Construct: func(deps []any) (any, error) {
//	        return NewUsers(deps[0].(*Db), deps[1].(*Cache)), nil
//	    },
//	}
type Descriptor struct {
	// Token identifies the component. Required.
	Token Token

	// Scope is the lifetime policy. Zero value is ScopeSingleton.
	Scope Scope

	// Priority orders provider initialization, highest first.
	Priority int

	// Name disambiguates implementers of the same abstract contract.
	Name string

	// Implements binds this component to an abstract contract token.
	Implements Token

	// Primary prefers this implementer when the contract has several and the
	// caller did not request a name.
	Primary bool

	// Dependencies are the constructor dependency tokens, in argument order.
	Dependencies []Token

	// Construct builds the instance from the resolved dependencies. deps has
	// exactly len(Dependencies) entries, in the same order. Required.
	Construct func(deps []any) (any, error)

	// Fields are assigned after construction completes.
	Fields []FieldDependency

	// EventHandlers are registered on the event bus when the provider
	// initializes and removed by owner when it is destroyed.
	EventHandlers []EventHandler

	// Provides marks a value provider: after the component itself is resolved,
	// Produce is invoked and its result registered under the Provides token.
	Provides Token
	Produce  func(instance any) (any, error)
}

// ComponentName returns the name the orchestrator uses for records, events and
// event-bus ownership: the explicit Name if set, otherwise the token.
func (d *Descriptor) ComponentName() string {
	if d.Name != "" {
		return d.Name
	}
	return string(d.Token)
}
