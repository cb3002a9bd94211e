package console

import (
	"errors"
	"fmt"
)

// ErrNoConsole indicates that no console is attached to the process, e.g.
// output has been redirected and no controlling terminal exists. It is
// surfaced at construction time, wrapped with platform detail.
var ErrNoConsole = errors.New("no console is attached to the process")

// NotSupportedError is returned when a capability this backend cannot
// faithfully provide is queried or set. It carries the specific capability
// so callers can produce an actionable message.
type NotSupportedError struct {
	Capability Capability
}

// Error implements the error interface.
func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("the terminal does not have the %q capability", e.Capability)
}

// notSupported is a shorthand used by backends and the facade.
func notSupported(c Capability) error {
	return &NotSupportedError{Capability: c}
}

// IsNotSupported reports whether err is a NotSupportedError. This is an
// expected, recoverable condition; callers in capability-sensitive paths
// should check HasCapability first, but every operation still fails
// explicitly rather than silently doing nothing.
func IsNotSupported(err error) bool {
	var nse *NotSupportedError
	return errors.As(err, &nse)
}
