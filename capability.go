package console

import "fmt"

// Capability identifies a terminal feature that can be tested for before
// use. Not every backend supports every capability; operations on an
// unsupported capability fail with a NotSupportedError carrying the
// capability in question.
type Capability int

// The fixed set of terminal capabilities.
const (
	// CapBold indicates text can be written in bold.
	CapBold Capability = iota
	// CapDim indicates text can be written with reduced brightness.
	CapDim
	// CapItalic indicates text can be written in italics.
	CapItalic
	// CapUnderline indicates text can be underlined.
	CapUnderline
	// CapBlink indicates text can blink on and off.
	CapBlink
	// CapStandout indicates text can be written in the terminal's
	// standout mode.
	CapStandout
	// CapReverse indicates text can be written with foreground and
	// background swapped.
	CapReverse
	// CapSecure indicates text can be accepted without being echoed
	// (for passwords).
	CapSecure
	// CapForegroundColor indicates the text color can be changed.
	CapForegroundColor
	// CapBackgroundColor indicates the color behind text can be changed.
	CapBackgroundColor
	// CapReset indicates attributes can be restored to their defaults.
	CapReset
	// CapPosition indicates the cursor position can be queried and set.
	CapPosition
	// CapDimensions indicates the visible window size can be queried.
	CapDimensions
)

// AllCapabilities is the ordered catalog of every capability. Terminal's
// Capabilities method reports supported capabilities in this order.
var AllCapabilities = []Capability{
	CapBold, CapDim, CapItalic, CapUnderline, CapBlink, CapStandout,
	CapReverse, CapSecure, CapForegroundColor, CapBackgroundColor,
	CapReset, CapPosition, CapDimensions,
}

// String returns the human-readable capability name used in error messages.
func (c Capability) String() string {
	switch c {
	case CapBold:
		return "bold"
	case CapDim:
		return "dim"
	case CapItalic:
		return "italic"
	case CapUnderline:
		return "underline"
	case CapBlink:
		return "blink"
	case CapStandout:
		return "standout"
	case CapReverse:
		return "reverse"
	case CapSecure:
		return "secure"
	case CapForegroundColor:
		return "foreground color"
	case CapBackgroundColor:
		return "background color"
	case CapReset:
		return "reset"
	case CapPosition:
		return "position"
	case CapDimensions:
		return "dimensions"
	default:
		return fmt.Sprintf("Capability(%d)", int(c))
	}
}

// capabilityByName resolves a human-readable capability name back to its
// value. Used when reading capability names from configuration.
func capabilityByName(name string) (Capability, bool) {
	for _, c := range AllCapabilities {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}
