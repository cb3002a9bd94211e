package console

// Position is a cursor location, zero-based, measured from the top-left
// corner of the visible window (not the scroll-back buffer).
type Position struct {
	Row    int
	Column int
}

// Dimensions is the size of the visible window in character cells.
type Dimensions struct {
	Rows    int
	Columns int
}
