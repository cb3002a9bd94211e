package console

import "fmt"

// Color is one of the fifteen primary terminal colors: black plus seven
// hues, each hue with a bright variant. A color is one bit each for red,
// green and blue plus a brightness bit, which is why there is no "bright
// black".
type Color int

// The fixed terminal color palette.
const (
	ColorBlack Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
)

// String returns the human-readable color name, e.g. "bright cyan".
func (c Color) String() string {
	switch c {
	case ColorBlack:
		return "black"
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorYellow:
		return "yellow"
	case ColorBlue:
		return "blue"
	case ColorMagenta:
		return "magenta"
	case ColorCyan:
		return "cyan"
	case ColorWhite:
		return "white"
	case ColorBrightRed:
		return "bright red"
	case ColorBrightGreen:
		return "bright green"
	case ColorBrightYellow:
		return "bright yellow"
	case ColorBrightBlue:
		return "bright blue"
	case ColorBrightMagenta:
		return "bright magenta"
	case ColorBrightCyan:
		return "bright cyan"
	case ColorBrightWhite:
		return "bright white"
	default:
		return fmt.Sprintf("Color(%d)", int(c))
	}
}

// bright reports whether the color carries the brightness bit.
func (c Color) bright() bool {
	return c >= ColorBrightRed
}

// base returns the color with the brightness bit cleared.
func (c Color) base() Color {
	if !c.bright() {
		return c
	}
	return c - ColorBrightRed + ColorRed
}

// ansiIndex returns the color's index in the standard 16-color ANSI
// palette: 0-7 for the normal colors, 8-15 for the bright variants.
func (c Color) ansiIndex() int {
	if c.bright() {
		return int(c.base()) + 8
	}
	return int(c)
}
