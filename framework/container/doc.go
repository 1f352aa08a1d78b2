// Package container provides a NestJS-style dependency injection container
// for Go: token-based bindings, singleton/transient/request scopes, abstract
// contracts with primary and named implementers, and cycle detection.
//
// # Overview
//
// The container resolves opaque Tokens to instances. Components are described
// by an explicit Descriptor — the data Nest would read from decorators via
// reflection is instead populated as a plain struct at registration time,
// usually from a generated module file. The container treats descriptors as
// read-only input and never introspects anything at runtime.
//
// # Bindings
//
//	// Class — built from a descriptor
//	// Nest: @Injectable() class UsersService { constructor(db: Db) {} }
//	c.Register(&container.Descriptor{
//	    Token:        "users.Service",
//	    Dependencies: []container.Token{"db.Conn"},
//	    Construct: func(deps []any) (any, error) {
//	        return NewUsers(deps[0].(*Db)), nil
//	    },
//	})
//
//	// Factory
//	// Nest: { provide: TOKEN, useFactory: ... }
//	c.RegisterFactory("clock", container.ScopeSingleton,
//	    func(c *container.Container) (any, error) { return time.Now, nil })
//
//	// Literal value
//	// Nest: { provide: TOKEN, useValue: ... }
//	c.RegisterValue("config.app", cfg)
//
//	// Pre-built instance, straight into the singleton cache
//	c.RegisterInstance("logger", zapLogger)
//
// # Resolving
//
//	raw, err := c.Resolve("users.Service")
//
//	// Generic (preferred — no type assertion required)
//	users, err := container.Resolve[*Users](c, "users.Service")
//
// # Abstract contracts
//
// A contract token is never instantiated itself; concrete descriptors bind to
// it via Implements. One implementer resolves directly, several need either a
// Primary marker or an explicit name:
//
//	c.Register(&container.Descriptor{Token: "mail.smtp", Implements: "mail.Sender", Primary: true, ...})
//	c.Register(&container.Descriptor{Token: "mail.log", Implements: "mail.Sender", Name: "log", ...})
//
//	sender, _ := c.Resolve("mail.Sender")            // → mail.smtp (primary)
//	logging, _ := c.ResolveNamed("mail.Sender", "log") // → mail.log
//
// # Scopes
//
// Singleton tokens are built exactly once per container lifetime. Transient
// tokens are built fresh on every call. Request tokens live in a
// RequestContext supplied by the caller:
//
//	req := container.NewRequestContext()
//	session, err := c.ResolveRequest("http.Session", req)
//
// Resolving a request-scoped token without an active RequestContext fails
// with ScopeMismatchError.
//
// # Cycles
//
// A pure constructor cycle A → B → A fails with CircularDependencyError
// carrying the full chain. Two components that field-inject each other do
// resolve: field assignment is deferred until after construction, so the
// partially built instance is already cached when its peer asks for it.
package container
