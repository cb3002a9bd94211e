package console

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConsole is an in-memory backend used to test the facade contract.
// Control operations append readable markers to the stream so ordering
// between text and attribute changes can be asserted.
type fakeConsole struct {
	stream  bytes.Buffer
	pending bytes.Buffer

	supported map[Capability]bool
	queried   []Capability

	defForeground Color
	defBackground Color
	foreground    Color
	background    Color

	pos  Position
	dims Dimensions

	applyErr error // when set, attribute pushes fail without state change
}

func newFakeConsole(caps ...Capability) *fakeConsole {
	supported := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		supported[c] = true
	}
	return &fakeConsole{
		supported:     supported,
		defForeground: ColorWhite,
		defBackground: ColorBlack,
		foreground:    ColorWhite,
		background:    ColorBlack,
		dims:          Dimensions{Rows: 24, Columns: 80},
	}
}

func (f *fakeConsole) Write(p []byte) (int, error) {
	return f.pending.Write(p)
}

func (f *fakeConsole) Flush() error {
	_, err := f.pending.WriteTo(&f.stream)
	return err
}

func (f *fakeConsole) inner() io.Writer { return &f.stream }

func (f *fakeConsole) foregroundColor() Color { return f.foreground }
func (f *fakeConsole) backgroundColor() Color { return f.background }

func (f *fakeConsole) hasCapability(c Capability) bool {
	f.queried = append(f.queried, c)
	return f.supported[c]
}

func (f *fakeConsole) setAttr(a attr) error {
	if !f.supported[a.capability()] {
		return notSupported(a.capability())
	}
	if err := f.Flush(); err != nil {
		return err
	}
	if f.applyErr != nil {
		return f.applyErr
	}
	switch a.kind {
	case attrForeground:
		f.foreground = a.color
		fmt.Fprintf(&f.stream, "<fg %s>", a.color)
	case attrBackground:
		f.background = a.color
		fmt.Fprintf(&f.stream, "<bg %s>", a.color)
	default:
		fmt.Fprintf(&f.stream, "<%s %v>", a.capability(), a.on)
	}
	return nil
}

func (f *fakeConsole) reset() error {
	if err := f.Flush(); err != nil {
		return err
	}
	if f.applyErr != nil {
		return f.applyErr
	}
	f.foreground = f.defForeground
	f.background = f.defBackground
	f.stream.WriteString("<reset>")
	return nil
}

func (f *fakeConsole) cursorUp() error {
	if f.pos.Row > 0 {
		f.pos.Row--
	}
	return nil
}

func (f *fakeConsole) carriageReturn() error {
	f.pos.Column = 0
	return nil
}

func (f *fakeConsole) deleteLine() error {
	fmt.Fprintf(&f.stream, "<el %d,%d>", f.pos.Row, f.pos.Column)
	return nil
}

func (f *fakeConsole) position() (Position, error) { return f.pos, nil }

func (f *fakeConsole) setPosition(p Position) error {
	f.pos = p
	return nil
}

func (f *fakeConsole) dimensions() (Dimensions, error) { return f.dims, nil }

func newTestTerminal(f *fakeConsole) *Terminal { return &Terminal{con: f} }

var colorOnlyCaps = []Capability{
	CapForegroundColor, CapBackgroundColor, CapPosition, CapDimensions,
}

func TestTerminal_StyleGettersNotTracked(t *testing.T) {
	// Style getters fail even when the backend claims support: the
	// Terminal only tracks the color pair.
	term := newTestTerminal(newFakeConsole(AllCapabilities...))

	tests := []struct {
		capability Capability
		get        func() (bool, error)
	}{
		{CapBold, term.Bold},
		{CapDim, term.Dim},
		{CapItalic, term.Italic},
		{CapUnderline, term.Underline},
		{CapBlink, term.Blink},
		{CapStandout, term.Standout},
		{CapReverse, term.Reverse},
		{CapSecure, term.Secure},
	}
	for _, tt := range tests {
		t.Run(tt.capability.String(), func(t *testing.T) {
			_, err := tt.get()
			require.Error(t, err)
			var nse *NotSupportedError
			require.ErrorAs(t, err, &nse)
			assert.Equal(t, tt.capability, nse.Capability)
		})
	}
}

func TestTerminal_SetStyleNotSupported(t *testing.T) {
	term := newTestTerminal(newFakeConsole(colorOnlyCaps...))

	tests := []struct {
		capability Capability
		set        func(bool) error
	}{
		{CapBold, term.SetBold},
		{CapDim, term.SetDim},
		{CapItalic, term.SetItalic},
		{CapUnderline, term.SetUnderline},
		{CapBlink, term.SetBlink},
		{CapStandout, term.SetStandout},
		{CapReverse, term.SetReverse},
		{CapSecure, term.SetSecure},
	}
	for _, tt := range tests {
		t.Run(tt.capability.String(), func(t *testing.T) {
			err := tt.set(true)
			require.Error(t, err)
			assert.True(t, IsNotSupported(err))
			var nse *NotSupportedError
			require.ErrorAs(t, err, &nse)
			assert.Equal(t, tt.capability, nse.Capability,
				"error must carry the exact capability that was refused")
		})
	}
}

func TestTerminal_ColorScenario(t *testing.T) {
	fake := newFakeConsole(colorOnlyCaps...)
	term := newTestTerminal(fake)

	fg, err := term.ForegroundColor()
	require.NoError(t, err)
	assert.Equal(t, ColorWhite, fg)

	require.NoError(t, term.SetForegroundColor(ColorCyan))
	fg, err = term.ForegroundColor()
	require.NoError(t, err)
	assert.Equal(t, ColorCyan, fg)

	require.NoError(t, term.Reset())
	fg, err = term.ForegroundColor()
	require.NoError(t, err)
	assert.Equal(t, ColorWhite, fg)
}

func TestTerminal_ResetRestoresDefaultsAfterAnySequence(t *testing.T) {
	fake := newFakeConsole(colorOnlyCaps...)
	term := newTestTerminal(fake)

	sequence := []Color{
		ColorRed, ColorBrightBlue, ColorYellow, ColorBrightWhite, ColorBlack,
	}
	for _, col := range sequence {
		require.NoError(t, term.SetForegroundColor(col))
		require.NoError(t, term.SetBackgroundColor(col))
	}

	require.NoError(t, term.Reset())
	fg, err := term.ForegroundColor()
	require.NoError(t, err)
	bg, err := term.BackgroundColor()
	require.NoError(t, err)
	assert.Equal(t, ColorWhite, fg)
	assert.Equal(t, ColorBlack, bg)
}

func TestTerminal_FailedApplyKeepsState(t *testing.T) {
	fake := newFakeConsole(colorOnlyCaps...)
	fake.applyErr = errors.New("console unplugged")
	term := newTestTerminal(fake)

	require.Error(t, term.SetForegroundColor(ColorCyan))

	fg, err := term.ForegroundColor()
	require.NoError(t, err)
	assert.Equal(t, ColorWhite, fg,
		"a failed apply must not update the in-memory current color")
}

func TestTerminal_ColorGettersNotSupported(t *testing.T) {
	term := newTestTerminal(newFakeConsole(CapPosition, CapDimensions))

	_, err := term.ForegroundColor()
	var nse *NotSupportedError
	require.ErrorAs(t, err, &nse)
	assert.Equal(t, CapForegroundColor, nse.Capability)

	_, err = term.BackgroundColor()
	require.ErrorAs(t, err, &nse)
	assert.Equal(t, CapBackgroundColor, nse.Capability)
}

func TestTerminal_HasCapabilities(t *testing.T) {
	fake := newFakeConsole(CapForegroundColor, CapBackgroundColor, CapPosition)
	term := newTestTerminal(fake)

	// Aggregate support must match the conjunction of individual checks
	// for every pair drawn from the catalog.
	for _, a := range AllCapabilities {
		for _, b := range AllCapabilities {
			want := term.HasCapability(a) && term.HasCapability(b)
			assert.Equal(t, want, term.HasCapabilities(a, b), "pair (%s, %s)", a, b)
		}
	}

	assert.True(t, term.HasCapabilities(), "empty query is vacuously satisfied")
}

func TestTerminal_HasCapabilitiesShortCircuits(t *testing.T) {
	fake := newFakeConsole(CapForegroundColor)
	term := newTestTerminal(fake)

	fake.queried = nil
	assert.False(t, term.HasCapabilities(CapBold, CapForegroundColor, CapDim))
	assert.Equal(t, []Capability{CapBold}, fake.queried,
		"aggregate query must stop at the first unsupported capability")
}

func TestTerminal_CapabilitiesCatalogOrder(t *testing.T) {
	term := newTestTerminal(newFakeConsole(
		// Deliberately not in catalog order.
		CapDimensions, CapForegroundColor, CapPosition, CapBackgroundColor,
	))

	assert.Equal(t, []Capability{
		CapForegroundColor, CapBackgroundColor, CapPosition, CapDimensions,
	}, term.Capabilities())
}

func TestTerminal_CursorUp(t *testing.T) {
	tests := []struct {
		name  string
		start Position
		want  Position
	}{
		{"top row is a no-op", Position{Row: 0, Column: 3}, Position{Row: 0, Column: 3}},
		{"decrements row only", Position{Row: 5, Column: 3}, Position{Row: 4, Column: 3}},
		{"row one reaches the top", Position{Row: 1, Column: 0}, Position{Row: 0, Column: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeConsole(colorOnlyCaps...)
			fake.pos = tt.start
			term := newTestTerminal(fake)

			require.NoError(t, term.CursorUp())
			got, err := term.Position()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTerminal_CarriageReturn(t *testing.T) {
	tests := []struct {
		name  string
		start Position
		want  Position
	}{
		{"column zero is a no-op", Position{Row: 2, Column: 0}, Position{Row: 2, Column: 0}},
		{"rewinds to column zero", Position{Row: 2, Column: 7}, Position{Row: 2, Column: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeConsole(colorOnlyCaps...)
			fake.pos = tt.start
			term := newTestTerminal(fake)

			require.NoError(t, term.CarriageReturn())
			got, err := term.Position()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTerminal_PositionRoundTrip(t *testing.T) {
	fake := newFakeConsole(colorOnlyCaps...)
	term := newTestTerminal(fake)

	dims, err := term.Dimensions()
	require.NoError(t, err)

	for _, pos := range []Position{
		{Row: 0, Column: 0},
		{Row: 0, Column: dims.Columns - 1},
		{Row: dims.Rows - 1, Column: 0},
		{Row: dims.Rows / 2, Column: dims.Columns / 2},
		{Row: dims.Rows - 1, Column: dims.Columns - 1},
	} {
		require.NoError(t, term.SetPosition(pos))
		got, err := term.Position()
		require.NoError(t, err)
		assert.Equal(t, pos, got)
	}
}

func TestTerminal_WriteOrderingWithAttributes(t *testing.T) {
	fake := newFakeConsole(colorOnlyCaps...)
	term := newTestTerminal(fake)

	_, err := io.WriteString(term, "plain ")
	require.NoError(t, err)
	require.NoError(t, term.SetForegroundColor(ColorGreen))
	_, err = io.WriteString(term, "green")
	require.NoError(t, err)
	require.NoError(t, term.Flush())

	// Text written before the color change must land before it; text
	// written after must land after.
	assert.Equal(t, "plain <fg green>green", fake.stream.String())
}

func TestTerminal_InnerAndUnwrap(t *testing.T) {
	fake := newFakeConsole(colorOnlyCaps...)
	term := newTestTerminal(fake)

	assert.Same(t, io.Writer(&fake.stream), term.Inner())

	_, err := io.WriteString(term, "tail")
	require.NoError(t, err)

	w, err := term.Unwrap()
	require.NoError(t, err)
	assert.Same(t, io.Writer(&fake.stream), w)
	assert.Equal(t, "tail", fake.stream.String(), "Unwrap flushes buffered output")
}
