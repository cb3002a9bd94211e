//go:build windows

package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"unsafe"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/windows"

	"github.com/isseis/go-console/internal/colorpref"
)

var (
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procSetConsoleTextAttribute    = kernel32.NewProc("SetConsoleTextAttribute")
	procFillConsoleOutputCharacter = kernel32.NewProc("FillConsoleOutputCharacterW")
	procFillConsoleOutputAttribute = kernel32.NewProc("FillConsoleOutputAttribute")
)

// winConsole is the Windows backend, built on the Win32 console API. The
// wrapped stream only carries text; attribute and cursor operations go
// through the console handle for the current process.
type winConsole struct {
	buf *bufio.Writer
	w   io.Writer

	handle  windows.Handle
	colorOK bool

	defForeground Color
	defBackground Color
	foreground    Color
	background    Color
}

func newConsole(w io.Writer, opts Options) (backend, error) {
	handle, err := conout()
	if err != nil {
		return nil, err
	}
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(handle, &info); err != nil {
		return nil, fmt.Errorf("%w: query console attributes: %w", ErrNoConsole, err)
	}
	fg := bitsToColor(uint16(info.Attributes) & 0xf)
	bg := bitsToColor((uint16(info.Attributes) >> 4) & 0xf)

	streamIsTTY := false
	if f, ok := w.(*os.File); ok {
		streamIsTTY = isatty.IsTerminal(f.Fd())
	}
	colorOK := colorpref.Enabled(colorpref.Options{
		ForceColor:   opts.ForceColor,
		DisableColor: opts.DisableColor,
	}, "", streamIsTTY)

	opts.logger().Debug("console constructed",
		"foreground", fg, "background", bg, "color", colorOK)
	return &winConsole{
		buf:           bufio.NewWriter(w),
		w:             w,
		handle:        handle,
		colorOK:       colorOK,
		defForeground: fg,
		defBackground: bg,
		foreground:    fg,
		background:    bg,
	}, nil
}

// conout opens the console buffer for the current process, whatever the
// wrapped stream points at.
func conout() (windows.Handle, error) {
	name, err := windows.UTF16PtrFromString("CONOUT$")
	if err != nil {
		return windows.InvalidHandle, err
	}
	handle, err := windows.CreateFile(name,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		0,
		0)
	if err != nil {
		return windows.InvalidHandle, fmt.Errorf("%w: open CONOUT$: %w", ErrNoConsole, err)
	}
	return handle, nil
}

// colorToBits converts a color to the console's 4-bit attribute encoding:
// one bit each for blue, green, red and intensity.
func colorToBits(color Color) uint16 {
	const (
		blue      = 0x1
		green     = 0x2
		red       = 0x4
		intensity = 0x8
	)
	var bits uint16
	switch color.base() {
	case ColorBlack:
	case ColorBlue:
		bits = blue
	case ColorGreen:
		bits = green
	case ColorRed:
		bits = red
	case ColorYellow:
		bits = green | red
	case ColorMagenta:
		bits = blue | red
	case ColorCyan:
		bits = blue | green
	case ColorWhite:
		bits = blue | green | red
	}
	if color.bright() {
		bits |= intensity
	}
	return bits
}

// bitsToColor decodes a 4-bit console attribute channel. Values above 0xf
// cannot come out of a masked channel; seeing one is a programming error.
func bitsToColor(bits uint16) Color {
	switch bits {
	case 0x0, 0x8:
		return ColorBlack
	case 0x1:
		return ColorBlue
	case 0x2:
		return ColorGreen
	case 0x4:
		return ColorRed
	case 0x6:
		return ColorYellow
	case 0x5:
		return ColorMagenta
	case 0x3:
		return ColorCyan
	case 0x7:
		return ColorWhite
	case 0x9:
		return ColorBrightBlue
	case 0xA:
		return ColorBrightGreen
	case 0xC:
		return ColorBrightRed
	case 0xE:
		return ColorBrightYellow
	case 0xD:
		return ColorBrightMagenta
	case 0xB:
		return ColorBrightCyan
	case 0xF:
		return ColorBrightWhite
	default:
		panic(fmt.Sprintf("console: unrecognized color bits %#x", bits))
	}
}

func (c *winConsole) Write(p []byte) (int, error) {
	return c.buf.Write(p)
}

func (c *winConsole) Flush() error {
	return c.buf.Flush()
}

func (c *winConsole) inner() io.Writer {
	return c.w
}

func (c *winConsole) foregroundColor() Color { return c.foreground }
func (c *winConsole) backgroundColor() Color { return c.background }

// hasCapability reports the console's faithful feature set. The API claims
// support for underscore and reverse video, but they render as nothing.
func (c *winConsole) hasCapability(cap Capability) bool {
	switch cap {
	case CapForegroundColor, CapBackgroundColor:
		return c.colorOK
	case CapPosition, CapDimensions:
		return true
	default:
		return false
	}
}

// apply flushes buffered text and pushes the combined foreground/background
// encoding to the console in one call.
func (c *winConsole) apply(fg, bg Color) error {
	if err := c.buf.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	accum := colorToBits(fg) | colorToBits(bg)<<4
	if err := setConsoleTextAttribute(c.handle, accum); err != nil {
		return fmt.Errorf("set console attributes: %w", err)
	}
	return nil
}

func (c *winConsole) setAttr(a attr) error {
	if !c.hasCapability(a.capability()) {
		return notSupported(a.capability())
	}
	switch a.kind {
	case attrForeground:
		if err := c.apply(a.color, c.background); err != nil {
			return err
		}
		c.foreground = a.color
		return nil
	case attrBackground:
		if err := c.apply(c.foreground, a.color); err != nil {
			return err
		}
		c.background = a.color
		return nil
	default:
		return notSupported(a.capability())
	}
}

func (c *winConsole) reset() error {
	if err := c.apply(c.defForeground, c.defBackground); err != nil {
		return err
	}
	c.foreground = c.defForeground
	c.background = c.defBackground
	return nil
}

func (c *winConsole) cursorUp() error {
	pos, err := c.position()
	if err != nil {
		return err
	}
	// The top row is a successful no-op so callers animating upwards do
	// not have to bounds-check.
	if pos.Row == 0 {
		return nil
	}
	return c.setPosition(Position{Row: pos.Row - 1, Column: pos.Column})
}

func (c *winConsole) carriageReturn() error {
	pos, err := c.position()
	if err != nil {
		return err
	}
	if pos.Column == 0 {
		return nil
	}
	return c.setPosition(Position{Row: pos.Row, Column: 0})
}

func (c *winConsole) deleteLine() error {
	if err := c.buf.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(c.handle, &info); err != nil {
		return fmt.Errorf("query console: %w", err)
	}
	pos := info.CursorPosition
	n := uint32(info.Size.X - pos.X)
	if err := fillConsoleOutputCharacter(c.handle, ' ', n, pos); err != nil {
		return fmt.Errorf("blank line: %w", err)
	}
	if err := fillConsoleOutputAttribute(c.handle, 0, n, pos); err != nil {
		return fmt.Errorf("clear line attributes: %w", err)
	}
	return nil
}

// position reports the cursor relative to the visible window's top-left;
// the console API works in scroll-back buffer coordinates, so the window
// origin is subtracted per axis.
func (c *winConsole) position() (Position, error) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(c.handle, &info); err != nil {
		return Position{}, fmt.Errorf("query console: %w", err)
	}
	return Position{
		Row:    max(0, int(info.CursorPosition.Y)-int(info.Window.Top)),
		Column: max(0, int(info.CursorPosition.X)-int(info.Window.Left)),
	}, nil
}

// setPosition translates the window-relative position back into buffer
// coordinates, the inverse of position.
func (c *winConsole) setPosition(pos Position) error {
	if err := c.buf.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(c.handle, &info); err != nil {
		return fmt.Errorf("query console: %w", err)
	}
	coord := windows.Coord{
		X: int16(pos.Column) + info.Window.Left,
		Y: int16(pos.Row) + info.Window.Top,
	}
	if err := windows.SetConsoleCursorPosition(c.handle, coord); err != nil {
		return fmt.Errorf("set cursor position: %w", err)
	}
	return nil
}

func (c *winConsole) dimensions() (Dimensions, error) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(c.handle, &info); err != nil {
		return Dimensions{}, fmt.Errorf("query console: %w", err)
	}
	return Dimensions{
		Rows:    int(info.Window.Bottom-info.Window.Top) + 1,
		Columns: int(info.Window.Right-info.Window.Left) + 1,
	}, nil
}

func setConsoleTextAttribute(handle windows.Handle, attrs uint16) error {
	r, _, err := procSetConsoleTextAttribute.Call(uintptr(handle), uintptr(attrs))
	if r == 0 {
		return err
	}
	return nil
}

// packCoord packs a COORD into the uintptr the fill functions take by value.
func packCoord(pos windows.Coord) uintptr {
	return uintptr(uint32(uint16(pos.X)) | uint32(uint16(pos.Y))<<16)
}

func fillConsoleOutputCharacter(handle windows.Handle, ch rune, n uint32, pos windows.Coord) error {
	var written uint32
	r, _, err := procFillConsoleOutputCharacter.Call(
		uintptr(handle),
		uintptr(uint16(ch)),
		uintptr(n),
		packCoord(pos),
		uintptr(unsafe.Pointer(&written)))
	if r == 0 {
		return err
	}
	return nil
}

func fillConsoleOutputAttribute(handle windows.Handle, attrs uint16, n uint32, pos windows.Coord) error {
	var written uint32
	r, _, err := procFillConsoleOutputAttribute.Call(
		uintptr(handle),
		uintptr(attrs),
		uintptr(n),
		packCoord(pos),
		uintptr(unsafe.Pointer(&written)))
	if r == 0 {
		return err
	}
	return nil
}
