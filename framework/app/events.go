package app

import (
	"time"

	"github.com/km-arc/go-nest/framework/container"
)

// Framework collaborators bound into every application's container, so
// providers and controllers can inject them like any other dependency.
const (
	TokenEvents container.Token = "events"
	TokenRouter container.Token = "router"
)

// Lifecycle event names emitted on the application's event bus.
const (
	EventDiscoveryCompleted  = "lifecycle.discovery.completed"
	EventProviderInitialized = "lifecycle.provider.initialized"
	EventRoutesRegistered    = "lifecycle.routes.registered"
	EventBootstrapCompleted  = "lifecycle.bootstrap.completed"
	EventListening           = "lifecycle.listening"
	EventShutdownBegin       = "lifecycle.shutdown.begin"
	EventDestroyed           = "lifecycle.destroyed"
)

// DiscoveryPayload accompanies EventDiscoveryCompleted.
type DiscoveryPayload struct {
	Files []string
}

// ProviderPayload accompanies EventProviderInitialized.
type ProviderPayload struct {
	Name     string
	Priority int
}

// RoutesPayload accompanies EventRoutesRegistered.
type RoutesPayload struct {
	Count int
}

// ListeningPayload accompanies EventListening.
type ListeningPayload struct {
	Addr string
}

// ShutdownPayload accompanies EventShutdownBegin.
type ShutdownPayload struct {
	Signal string
}

// DestroyedPayload accompanies EventDestroyed.
type DestroyedPayload struct {
	Signal string
	Uptime time.Duration
}
