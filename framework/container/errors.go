package container

import (
	"fmt"
	"strings"
)

// All container errors are programming-error signals: a wiring mistake in the
// application, never a transient condition. None of them should be retried.

// UnregisteredTokenError is returned when Resolve is called with a token that
// has no binding and no implementer.
type UnregisteredTokenError struct {
	Token Token
}

func (e *UnregisteredTokenError) Error() string {
	return fmt.Sprintf("container: no binding registered for [%s]", e.Token)
}

// AmbiguousDependencyError is returned when an abstract contract has several
// implementers and neither a primary marker nor an explicit name picks one.
// It is also returned at registration time when two implementers of the same
// contract are both marked primary.
type AmbiguousDependencyError struct {
	Contract   Token
	Candidates []Token
	Name       string // requested name, if any
}

func (e *AmbiguousDependencyError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = string(c)
	}
	if e.Name != "" {
		return fmt.Sprintf("container: no implementer of [%s] registered under name %q (candidates: %s)",
			e.Contract, e.Name, strings.Join(names, ", "))
	}
	return fmt.Sprintf("container: ambiguous dependency [%s]: %d implementers, none primary (%s)",
		e.Contract, len(e.Candidates), strings.Join(names, ", "))
}

// CircularDependencyError is returned when a token is resolved while it is
// already under construction. Chain carries the full loop starting at the
// first occurrence, e.g. [A, B, A].
type CircularDependencyError struct {
	Chain []Token
}

func (e *CircularDependencyError) Error() string {
	parts := make([]string, len(e.Chain))
	for i, t := range e.Chain {
		parts[i] = string(t)
	}
	return "container: circular dependency " + strings.Join(parts, " -> ")
}

// ScopeMismatchError is returned when a request-scoped token is resolved
// without an active request context.
type ScopeMismatchError struct {
	Token Token
	From  Token // the component under construction when the mismatch occurred
}

func (e *ScopeMismatchError) Error() string {
	if e.From != "" {
		return fmt.Sprintf("container: request-scoped [%s] resolved from [%s] without an active request context",
			e.Token, e.From)
	}
	return fmt.Sprintf("container: request-scoped [%s] resolved outside a request context", e.Token)
}

// DuplicatePrimaryError is returned by Register when a second implementer of
// the same abstract contract is marked primary. Rejecting it at registration
// surfaces the wiring mistake at startup instead of letting the last
// registration silently win.
type DuplicatePrimaryError struct {
	Contract Token
	Existing Token
	Incoming Token
}

func (e *DuplicatePrimaryError) Error() string {
	return fmt.Sprintf("container: [%s] and [%s] are both marked primary for contract [%s]",
		e.Existing, e.Incoming, e.Contract)
}
