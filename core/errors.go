package core

import "errors"

// Sentinel errors a caller may want to check for with errors.Is.
var (
	ErrShortRead         = errors.New("tsetlin-go: short read")
	ErrShortWrite        = errors.New("tsetlin-go: short write")
	ErrBadSentinel       = errors.New("tsetlin-go: missing or malformed clause sentinel")
	ErrNonIncreasingTAID = errors.New("tsetlin-go: automaton ids in a clause are not strictly increasing")
)

// ConfigError reports a misconfiguration caught at construction or at the
// point of use (e.g. an output activation that expects a different y_size).
// It is always returned, never panicked, since it can stem from caller input.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "tsetlin-go: " + e.Field + ": " + e.Reason
}
