// Package ansi holds the small set of raw ANSI/ECMA-48 control sequences
// the Unix backend needs beyond what the terminfo database provides, plus
// parsing for the cursor position report.
package ansi

import (
	"errors"
	"fmt"
)

// Control sequences. Kept as constants so backends never rebuild them.
const (
	// CursorPositionQuery is the DSR request; the terminal answers on its
	// input side with a CursorPositionReport.
	CursorPositionQuery = "\x1b[6n"

	// ClearToEOL blanks from the cursor to the end of the line (EL).
	ClearToEOL = "\x1b[K"

	// AttrOff resets all presentation attributes (SGR 0).
	AttrOff = "\x1b[0m"

	// Standard SGR on codes, used when a terminal supports an attribute
	// its terminfo entry fails to advertise.
	BoldOn      = "\x1b[1m"
	DimOn       = "\x1b[2m"
	ItalicOn    = "\x1b[3m"
	UnderlineOn = "\x1b[4m"
	BlinkOn     = "\x1b[5m"
	ReverseOn   = "\x1b[7m"

	// Per-attribute SGR off codes. There is deliberately no BoldOff
	// distinct from DimOff: SGR 22 clears both intensity attributes.
	IntensityOff = "\x1b[22m"
	ItalicOff    = "\x1b[23m"
	UnderlineOff = "\x1b[24m"
	BlinkOff     = "\x1b[25m"
	ReverseOff   = "\x1b[27m"
)

// Goto returns the cursor addressing sequence for a zero-based row and
// column. CUP coordinates on the wire are one-based.
func Goto(row, column int) string {
	return fmt.Sprintf("\x1b[%d;%dH", row+1, column+1)
}

// ErrBadReport indicates bytes that do not form a cursor position report.
var ErrBadReport = errors.New("malformed cursor position report")

// ParseCursorReport parses a DSR cursor position report ("\x1b[<r>;<c>R",
// one-based) into a zero-based row and column.
func ParseCursorReport(report string) (row, column int, err error) {
	var r, c int
	if _, err := fmt.Sscanf(report, "\x1b[%d;%dR", &r, &c); err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadReport, report)
	}
	if r < 1 || c < 1 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadReport, report)
	}
	return r - 1, c - 1, nil
}
