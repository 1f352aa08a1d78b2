package app

// Lifecycle hooks are optional: the orchestrator checks each resolved
// provider with a type assertion and skips hooks it does not implement.
// They are the Go counterparts of Nest's OnModuleInit, OnApplicationBootstrap,
// OnApplicationShutdown and OnModuleDestroy interfaces.

// Initializer runs right after the provider is constructed, in priority
// order. An error aborts the remaining bootstrap.
type Initializer interface {
	OnInit() error
}

// Bootstrapper runs after every provider initialized and all routes are
// registered, in initialization order.
type Bootstrapper interface {
	OnBootstrap() error
}

// ListenerHook runs once the transport is bound, with the bound address.
type ListenerHook interface {
	OnListening(addr string) error
}

// ShutdownHook runs during Close, in reverse initialization order, with the
// triggering signal. Errors are logged, never fatal — one broken provider
// must not block the others' teardown.
type ShutdownHook interface {
	OnShutdown(signal string) error
}

// Destroyer runs after OnShutdown, immediately before the provider's event
// subscriptions are removed.
type Destroyer interface {
	OnDestroy() error
}
