//go:build unix

package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2/terminfo"
	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/isseis/go-console/internal/ansi"
	"github.com/isseis/go-console/internal/capdb"
	"github.com/isseis/go-console/internal/colorpref"

	// Register terminfo entries for the common terminal families.
	_ "github.com/gdamore/tcell/v2/terminfo/base"
)

// ansiConsole is the Unix backend. Text goes through a buffered writer over
// the wrapped stream; control sequences go to the console's tty handle,
// after flushing buffered text so attribute changes never affect output
// already written. Attribute sequences come from the terminfo entry for
// TERM; the cursor is queried with a DSR report and dimensions with the
// TIOCGWINSZ ioctl, both on the tty handle.
type ansiConsole struct {
	buf *bufio.Writer
	w   io.Writer

	// tty is the live console handle: the wrapped stream itself when it
	// is a terminal, otherwise the process's controlling terminal.
	tty *os.File

	ti   *terminfo.Terminfo
	caps map[Capability]bool

	defForeground Color
	defBackground Color
	foreground    Color
	background    Color
}

func newConsole(w io.Writer, opts Options) (backend, error) {
	tty, streamIsTTY, err := controlTTY(w)
	if err != nil {
		return nil, err
	}

	termName := opts.Term
	if termName == "" {
		termName = os.Getenv("TERM")
	}
	ti, err := terminfo.LookupTerminfo(termName)
	if err != nil {
		// No terminfo entry: the console still supports cursor and
		// dimension queries, just no attribute sequences.
		ti = nil
	}

	colorOK := colorpref.Enabled(colorpref.Options{
		ForceColor:   opts.ForceColor,
		DisableColor: opts.DisableColor,
	}, termName, streamIsTTY)

	caps := detectCapabilities(ti, termName, colorOK)

	c := &ansiConsole{
		buf:           bufio.NewWriter(w),
		w:             w,
		tty:           tty,
		ti:            ti,
		caps:          caps,
		defForeground: ColorWhite,
		defBackground: ColorBlack,
		foreground:    ColorWhite,
		background:    ColorBlack,
	}

	opts.logger().Debug("console constructed",
		"term", termName,
		"terminfo", ti != nil,
		"color", colorOK,
		"stream_is_tty", streamIsTTY)
	return c, nil
}

// controlTTY picks the console handle for stream: the stream itself when it
// is a terminal (which keeps the backend usable over a pty), otherwise the
// process's controlling terminal.
func controlTTY(stream io.Writer) (tty *os.File, streamIsTTY bool, err error) {
	if f, ok := stream.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return f, true, nil
	}
	f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrNoConsole, err)
	}
	return f, false, nil
}

// detectCapabilities derives the supported set from the terminfo entry, the
// color preference gate, and the corrections table for terminals whose
// terminfo entries are known to deviate from reality.
func detectCapabilities(ti *terminfo.Terminfo, termName string, colorOK bool) map[Capability]bool {
	caps := map[Capability]bool{
		CapReset:      true,
		CapPosition:   true,
		CapDimensions: true,
	}
	if ti != nil {
		caps[CapBold] = ti.Bold != ""
		caps[CapDim] = ti.Dim != ""
		caps[CapItalic] = ti.Italic != ""
		caps[CapUnderline] = ti.Underline != ""
		caps[CapBlink] = ti.Blink != ""
		caps[CapReverse] = ti.Reverse != ""
		if colorOK && ti.Colors > 0 {
			caps[CapForegroundColor] = true
			caps[CapBackgroundColor] = true
		}
	}

	enable, disable := capdb.Corrections(termName)
	for _, name := range enable {
		// Enabling still requires a terminfo entry to source the off
		// sequences and color encodings from.
		if c, ok := capabilityByName(name); ok && ti != nil {
			caps[c] = true
		}
	}
	for _, name := range disable {
		if c, ok := capabilityByName(name); ok {
			caps[c] = false
		}
	}

	// There is no faithful sequence for these on any terminal we can
	// describe; the corrections table must not resurrect them.
	caps[CapStandout] = false
	caps[CapSecure] = false
	return caps
}

func (c *ansiConsole) Write(p []byte) (int, error) {
	return c.buf.Write(p)
}

func (c *ansiConsole) Flush() error {
	return c.buf.Flush()
}

func (c *ansiConsole) inner() io.Writer {
	return c.w
}

func (c *ansiConsole) foregroundColor() Color { return c.foreground }
func (c *ansiConsole) backgroundColor() Color { return c.background }

func (c *ansiConsole) hasCapability(cap Capability) bool {
	return c.caps[cap]
}

// emit flushes buffered text, then writes a control sequence to the console
// handle. The flush keeps text and attribute changes ordered.
func (c *ansiConsole) emit(seq string) error {
	if err := c.buf.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	if _, err := c.tty.WriteString(seq); err != nil {
		return fmt.Errorf("write console: %w", err)
	}
	return nil
}

func (c *ansiConsole) setAttr(a attr) error {
	capability := a.capability()
	if !c.caps[capability] {
		return notSupported(capability)
	}
	switch a.kind {
	case attrForeground:
		if err := c.applyColors(a.color, c.background); err != nil {
			return err
		}
		c.foreground = a.color
		return nil
	case attrBackground:
		if err := c.applyColors(c.foreground, a.color); err != nil {
			return err
		}
		c.background = a.color
		return nil
	default:
		return c.emit(c.flagSequence(a))
	}
}

// applyColors pushes both channels in one sequence. The in-memory state is
// updated by the caller only after a successful apply.
func (c *ansiConsole) applyColors(fg, bg Color) error {
	return c.emit(c.ti.TColor(c.colorIndex(fg), c.colorIndex(bg)))
}

// colorIndex maps a Color onto the palette the terminal actually has;
// bright variants fold onto their base hue on 8-color terminals.
func (c *ansiConsole) colorIndex(col Color) int {
	if c.ti.Colors >= 16 {
		return col.ansiIndex()
	}
	return int(col.base())
}

// flagSequence returns the sequence turning a style flag on or off. The on
// sequence comes from terminfo, falling back to the standard SGR code for
// attributes the corrections table enabled past an incomplete entry.
func (c *ansiConsole) flagSequence(a attr) string {
	if a.on {
		switch a.kind {
		case attrBold:
			return firstSequence(c.ti.Bold, ansi.BoldOn)
		case attrDim:
			return firstSequence(c.ti.Dim, ansi.DimOn)
		case attrItalic:
			return firstSequence(c.ti.Italic, ansi.ItalicOn)
		case attrUnderline:
			return firstSequence(c.ti.Underline, ansi.UnderlineOn)
		case attrBlink:
			return firstSequence(c.ti.Blink, ansi.BlinkOn)
		case attrReverse:
			return firstSequence(c.ti.Reverse, ansi.ReverseOn)
		}
		panic("console: no sequence for supported attribute")
	}
	switch a.kind {
	case attrBold, attrDim:
		return ansi.IntensityOff
	case attrItalic:
		return ansi.ItalicOff
	case attrUnderline:
		return ansi.UnderlineOff
	case attrBlink:
		return ansi.BlinkOff
	case attrReverse:
		return ansi.ReverseOff
	}
	panic("console: no sequence for supported attribute")
}

func firstSequence(seqs ...string) string {
	for _, s := range seqs {
		if s != "" {
			return s
		}
	}
	return ""
}

func (c *ansiConsole) reset() error {
	seq := ansi.AttrOff
	if c.ti != nil && c.ti.AttrOff != "" {
		seq = c.ti.AttrOff
	}
	if err := c.emit(seq); err != nil {
		return err
	}
	c.foreground = c.defForeground
	c.background = c.defBackground
	return nil
}

func (c *ansiConsole) cursorUp() error {
	pos, err := c.position()
	if err != nil {
		return err
	}
	// Top row is a successful no-op, so callers animating upwards do not
	// have to bounds-check.
	if pos.Row == 0 {
		return nil
	}
	return c.emit(c.gotoSequence(Position{Row: pos.Row - 1, Column: pos.Column}))
}

func (c *ansiConsole) carriageReturn() error {
	pos, err := c.position()
	if err != nil {
		return err
	}
	if pos.Column == 0 {
		return nil
	}
	return c.emit(c.gotoSequence(Position{Row: pos.Row, Column: 0}))
}

func (c *ansiConsole) deleteLine() error {
	return c.emit(ansi.ClearToEOL)
}

// position queries the cursor with a DSR report. The tty is switched to raw
// mode for the exchange so the report is neither echoed nor line-buffered.
func (c *ansiConsole) position() (Position, error) {
	if err := c.buf.Flush(); err != nil {
		return Position{}, fmt.Errorf("flush output: %w", err)
	}
	fd := int(c.tty.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return Position{}, fmt.Errorf("enter raw mode: %w", err)
	}
	defer term.Restore(fd, oldState) //nolint:errcheck // best effort restore

	if _, err := c.tty.WriteString(ansi.CursorPositionQuery); err != nil {
		return Position{}, fmt.Errorf("write console: %w", err)
	}
	report, err := readCursorReport(c.tty)
	if err != nil {
		return Position{}, err
	}
	row, column, err := ansi.ParseCursorReport(report)
	if err != nil {
		return Position{}, err
	}
	return Position{Row: row, Column: column}, nil
}

// readCursorReport reads the tty byte by byte until the report terminator.
func readCursorReport(r io.Reader) (string, error) {
	var b [1]byte
	var sb strings.Builder
	for sb.Len() < 32 {
		if _, err := r.Read(b[:]); err != nil {
			return "", fmt.Errorf("read cursor report: %w", err)
		}
		sb.WriteByte(b[0])
		if b[0] == 'R' {
			return sb.String(), nil
		}
	}
	return "", fmt.Errorf("%w: report not terminated", ansi.ErrBadReport)
}

func (c *ansiConsole) setPosition(pos Position) error {
	return c.emit(c.gotoSequence(pos))
}

func (c *ansiConsole) gotoSequence(pos Position) string {
	if c.ti != nil {
		return c.ti.TGoto(pos.Column, pos.Row)
	}
	return ansi.Goto(pos.Row, pos.Column)
}

func (c *ansiConsole) dimensions() (Dimensions, error) {
	ws, err := unix.IoctlGetWinsize(int(c.tty.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return Dimensions{}, fmt.Errorf("query window size: %w", err)
	}
	return Dimensions{Rows: int(ws.Row), Columns: int(ws.Col)}, nil
}
