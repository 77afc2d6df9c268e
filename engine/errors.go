package engine

import "errors"

// PhaseError means the operation was attempted outside its time window.
// It carries a user-facing message and is not a server failure.
type PhaseError struct {
	Message string
}

func (e *PhaseError) Error() string { return e.Message }

// ConfigError means the deployment is misconfigured in a way that must
// abort the operation, such as an invite URL pointing at localhost.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// ValidationError means the caller's input failed a domain check, such
// as an out-of-range rank or a malformed identity.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ErrForbidden is returned when a role or session check fails.
var ErrForbidden = errors.New("forbidden")
