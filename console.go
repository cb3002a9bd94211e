// Package console provides stateful, capability-aware terminal control.
//
// A Terminal wraps an output stream and exposes operations for querying and
// changing console presentation attributes (colors and style flags), cursor
// position and window dimensions. Terminals differ in what they can do, so
// every feature is modeled as a Capability that can be tested for up front;
// operations on capabilities the current backend cannot faithfully provide
// fail with a NotSupportedError instead of being approximated.
//
// The Terminal is stateful: set attributes, write text, and restore the
// terminal's own defaults with Reset. Stateless helpers can be built on top.
package console

import (
	"io"
	"log/slog"
	"os"
)

// Options control Terminal construction. The zero value detects everything
// from the environment.
type Options struct {
	// ForceColor advertises the color capabilities regardless of
	// environment detection. It wins over DisableColor if both are set.
	ForceColor bool

	// DisableColor withdraws the color capabilities regardless of
	// environment detection.
	DisableColor bool

	// Term overrides the TERM environment variable for terminal type
	// lookup. Ignored on platforms that do not consult TERM.
	Term string

	// Logger, when non-nil, receives capability detection details at
	// debug level during construction. The library never logs afterwards.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Terminal is the caller-facing console type. It implements io.Writer, so
// ordinary text output and attribute changes can be interleaved through one
// handle; writes are buffered and flushed automatically before any
// attribute or cursor operation takes effect.
//
// A Terminal is exclusively owned by one goroutine; sharing one across
// goroutines requires external synchronization. Dropping a Terminal leaves
// the console in whatever state it was last set to — call Reset first when
// giving up ownership.
type Terminal struct {
	con backend
}

// New creates a Terminal over stream. It fails with an error wrapping
// ErrNoConsole when no console backend can be constructed for the current
// platform and stream, e.g. when output is redirected and the process has
// no controlling terminal.
func New(stream io.Writer) (*Terminal, error) {
	return NewWithOptions(stream, Options{})
}

// NewWithOptions creates a Terminal over stream with explicit options.
func NewWithOptions(stream io.Writer, opts Options) (*Terminal, error) {
	con, err := newConsole(stream, opts)
	if err != nil {
		return nil, err
	}
	return &Terminal{con: con}, nil
}

// Stdout creates a Terminal over the process's standard output.
func Stdout() (*Terminal, error) {
	return New(os.Stdout)
}

// Stderr creates a Terminal over the process's standard error.
func Stderr() (*Terminal, error) {
	return New(os.Stderr)
}

// HasCapability reports whether this terminal supports c.
func (t *Terminal) HasCapability(c Capability) bool {
	return t.con.hasCapability(c)
}

// HasCapabilities reports whether this terminal supports every one of the
// given capabilities. It short-circuits on the first unsupported one.
//
//	if !term.HasCapabilities(console.CapPosition, console.CapDimensions) {
//		// fall back to plain line output
//	}
func (t *Terminal) HasCapabilities(caps ...Capability) bool {
	for _, c := range caps {
		if !t.con.hasCapability(c) {
			return false
		}
	}
	return true
}

// Capabilities returns the supported subset of the capability catalog, in
// catalog order. Useful for diagnostics.
func (t *Terminal) Capabilities() []Capability {
	var caps []Capability
	for _, c := range AllCapabilities {
		if t.con.hasCapability(c) {
			caps = append(caps, c)
		}
	}
	return caps
}

// ForegroundColor returns the color that will be used to draw text.
func (t *Terminal) ForegroundColor() (Color, error) {
	if !t.con.hasCapability(CapForegroundColor) {
		return 0, notSupported(CapForegroundColor)
	}
	return t.con.foregroundColor(), nil
}

// SetForegroundColor sets the color used to draw text.
func (t *Terminal) SetForegroundColor(c Color) error {
	return t.con.setAttr(foregroundAttr(c))
}

// BackgroundColor returns the color that will be used behind text.
func (t *Terminal) BackgroundColor() (Color, error) {
	if !t.con.hasCapability(CapBackgroundColor) {
		return 0, notSupported(CapBackgroundColor)
	}
	return t.con.backgroundColor(), nil
}

// SetBackgroundColor sets the color used behind text.
func (t *Terminal) SetBackgroundColor(c Color) error {
	return t.con.setAttr(backgroundAttr(c))
}

// Bold reports whether text will be written in bold. The Terminal does not
// track style-flag state, so this always fails with a NotSupportedError;
// only the color pair is tracked.
func (t *Terminal) Bold() (bool, error) {
	return false, notSupported(CapBold)
}

// SetBold turns bold text on or off.
func (t *Terminal) SetBold(on bool) error {
	return t.con.setAttr(flagAttr(attrBold, on))
}

// Dim reports whether text will be written with reduced brightness. Style
// state is not tracked; see Bold.
func (t *Terminal) Dim() (bool, error) {
	return false, notSupported(CapDim)
}

// SetDim turns dim text on or off.
func (t *Terminal) SetDim(on bool) error {
	return t.con.setAttr(flagAttr(attrDim, on))
}

// Italic reports whether text will be written in italics. Style state is
// not tracked; see Bold.
func (t *Terminal) Italic() (bool, error) {
	return false, notSupported(CapItalic)
}

// SetItalic turns italic text on or off.
func (t *Terminal) SetItalic(on bool) error {
	return t.con.setAttr(flagAttr(attrItalic, on))
}

// Underline reports whether text will be underlined. Style state is not
// tracked; see Bold.
func (t *Terminal) Underline() (bool, error) {
	return false, notSupported(CapUnderline)
}

// SetUnderline turns underlined text on or off.
func (t *Terminal) SetUnderline(on bool) error {
	return t.con.setAttr(flagAttr(attrUnderline, on))
}

// Blink reports whether text will blink. Style state is not tracked; see
// Bold.
func (t *Terminal) Blink() (bool, error) {
	return false, notSupported(CapBlink)
}

// SetBlink turns blinking text on or off.
func (t *Terminal) SetBlink(on bool) error {
	return t.con.setAttr(flagAttr(attrBlink, on))
}

// Standout reports whether text will be written in standout mode. Style
// state is not tracked; see Bold.
func (t *Terminal) Standout() (bool, error) {
	return false, notSupported(CapStandout)
}

// SetStandout turns standout mode on or off.
func (t *Terminal) SetStandout(on bool) error {
	return t.con.setAttr(flagAttr(attrStandout, on))
}

// Reverse reports whether text will be written with colors swapped. Style
// state is not tracked; see Bold.
func (t *Terminal) Reverse() (bool, error) {
	return false, notSupported(CapReverse)
}

// SetReverse turns reverse video on or off.
func (t *Terminal) SetReverse(on bool) error {
	return t.con.setAttr(flagAttr(attrReverse, on))
}

// Secure reports whether text will be accepted without being echoed. Style
// state is not tracked; see Bold.
func (t *Terminal) Secure() (bool, error) {
	return false, notSupported(CapSecure)
}

// SetSecure turns secure (non-echoed) text on or off.
func (t *Terminal) SetSecure(on bool) error {
	return t.con.setAttr(flagAttr(attrSecure, on))
}

// Reset restores the foreground and background colors to the values the
// terminal had when this Terminal was constructed, and clears any style
// attributes.
func (t *Terminal) Reset() error {
	return t.con.reset()
}

// CursorUp moves the cursor up one row, keeping the column. Already being
// on the top row is a successful no-op, not an error.
func (t *Terminal) CursorUp() error {
	return t.con.cursorUp()
}

// CarriageReturn moves the cursor to column 0 of the current row. Already
// being at column 0 is a successful no-op.
func (t *Terminal) CarriageReturn() error {
	return t.con.carriageReturn()
}

// DeleteLine blanks everything from the cursor to the end of the current
// line, with cleared attributes. To blank the whole line, call
// CarriageReturn first.
func (t *Terminal) DeleteLine() error {
	return t.con.deleteLine()
}

// Position returns the cursor position, relative to the top-left corner of
// the visible window.
func (t *Terminal) Position() (Position, error) {
	return t.con.position()
}

// SetPosition moves the cursor to p, relative to the top-left corner of the
// visible window.
func (t *Terminal) SetPosition(p Position) error {
	return t.con.setPosition(p)
}

// Dimensions returns the size of the visible window.
func (t *Terminal) Dimensions() (Dimensions, error) {
	return t.con.dimensions()
}

// Write buffers p for the wrapped stream. It never touches attributes.
func (t *Terminal) Write(p []byte) (int, error) {
	return t.con.Write(p)
}

// Flush flushes buffered text to the wrapped stream.
func (t *Terminal) Flush() error {
	return t.con.Flush()
}

// Inner returns the wrapped stream, bypassing the buffered attribute
// machinery. Text written directly to it is not ordered with respect to
// buffered Terminal writes until Flush is called.
func (t *Terminal) Inner() io.Writer {
	return t.con.inner()
}

// Unwrap flushes buffered output and returns the wrapped stream,
// discarding the Terminal. The terminal's attribute state is left as-is;
// call Reset first if the defaults should be restored. The Terminal must
// not be used afterwards.
func (t *Terminal) Unwrap() (io.Writer, error) {
	if err := t.con.Flush(); err != nil {
		return nil, err
	}
	w := t.con.inner()
	t.con = nil
	return w, nil
}
