package console

import "io"

// backend is the platform-specific console implementation behind a
// Terminal. Exactly one implementation is compiled in per platform; the
// build-tagged newConsole factory selects it at construction time. Adding a
// platform means adding a new build-tagged file with its own newConsole —
// callers and the facade never change.
//
// A backend owns the buffered output stream and the live console handle,
// and is the only component performing platform I/O for attributes, cursor
// movement and dimension queries. It tracks the current foreground and
// background colors along with the defaults captured at construction, so
// reset restores what the terminal actually had rather than a hardcoded
// value.
type backend interface {
	io.Writer

	// Flush flushes buffered text to the underlying stream.
	Flush() error

	// foregroundColor and backgroundColor report the last successfully
	// applied colors.
	foregroundColor() Color
	backgroundColor() Color

	// setAttr applies a single attribute change. Buffered text is flushed
	// first so attribute changes never retroactively affect already
	// written output. On failure the in-memory current state is left
	// untouched.
	setAttr(a attr) error

	// hasCapability reports whether this backend faithfully implements
	// the capability. Pure predicate; performs no platform I/O beyond the
	// handle established at construction.
	hasCapability(c Capability) bool

	// reset restores the construction-time default colors and applies
	// them.
	reset() error

	cursorUp() error
	carriageReturn() error
	deleteLine() error

	position() (Position, error)
	setPosition(p Position) error
	dimensions() (Dimensions, error)

	// inner returns the wrapped stream without the attribute machinery.
	inner() io.Writer
}
