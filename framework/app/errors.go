package app

import "fmt"

// ProviderInitializationError wraps any hook or factory failure during
// bootstrap, annotated with the provider name and the phase that failed.
type ProviderInitializationError struct {
	Provider string
	Phase    string
	Err      error
}

func (e *ProviderInitializationError) Error() string {
	return fmt.Sprintf("app: provider %q failed during %s: %v", e.Provider, e.Phase, e.Err)
}

func (e *ProviderInitializationError) Unwrap() error { return e.Err }
