package console

// attrKind discriminates the variants of an attribute-set request.
type attrKind int

const (
	attrBold attrKind = iota
	attrDim
	attrItalic
	attrUnderline
	attrBlink
	attrStandout
	attrReverse
	attrSecure
	attrForeground
	attrBackground
)

// attr is a single attribute change request: either a boolean style flag or
// a color for one of the two color channels. It is the sole parameter to a
// backend's setAttr.
type attr struct {
	kind  attrKind
	on    bool
	color Color
}

func foregroundAttr(c Color) attr { return attr{kind: attrForeground, color: c} }
func backgroundAttr(c Color) attr { return attr{kind: attrBackground, color: c} }

func flagAttr(kind attrKind, on bool) attr { return attr{kind: kind, on: on} }

// capability returns the capability governing this request. The mapping is
// total: every attribute variant has exactly one capability, so a failed
// request can always name what was missing.
func (a attr) capability() Capability {
	switch a.kind {
	case attrBold:
		return CapBold
	case attrDim:
		return CapDim
	case attrItalic:
		return CapItalic
	case attrUnderline:
		return CapUnderline
	case attrBlink:
		return CapBlink
	case attrStandout:
		return CapStandout
	case attrReverse:
		return CapReverse
	case attrSecure:
		return CapSecure
	case attrForeground:
		return CapForegroundColor
	case attrBackground:
		return CapBackgroundColor
	default:
		panic("console: unknown attribute kind")
	}
}
