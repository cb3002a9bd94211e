//go:build !unix && !windows

package console

import (
	"fmt"
	"io"
	"runtime"
)

// No console backend exists for this platform; construction always fails.
func newConsole(w io.Writer, opts Options) (backend, error) {
	return nil, fmt.Errorf("%w: no console backend for %s", ErrNoConsole, runtime.GOOS)
}
