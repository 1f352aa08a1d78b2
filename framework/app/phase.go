package app

import "fmt"

// Phase is the lifecycle state of the application. Transitions are strictly
// forward; only Listen is idempotent while already listening.
type Phase int

const (
	PhaseCreated Phase = iota
	PhaseDiscovering
	PhaseProvidersInitializing
	PhaseRoutesRegistering
	PhaseBootstrapped
	PhaseListening
	PhaseShuttingDown
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseCreated:
		return "created"
	case PhaseDiscovering:
		return "discovering"
	case PhaseProvidersInitializing:
		return "providersInitializing"
	case PhaseRoutesRegistering:
		return "routesRegistering"
	case PhaseBootstrapped:
		return "bootstrapped"
	case PhaseListening:
		return "listening"
	case PhaseShuttingDown:
		return "shuttingDown"
	case PhaseClosed:
		return "closed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}
