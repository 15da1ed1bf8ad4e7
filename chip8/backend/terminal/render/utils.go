package render

// Half block glyphs used to pack two pixel rows into one terminal row.
const (
	FullBlock  = '█'
	UpperHalf  = '▀'
	LowerHalf  = '▄'
	EmptyBlock = ' '
)

// GetHalfBlockChar returns the glyph that shows the top and bottom pixel of
// a cell when drawn in the foreground color over the background color.
func GetHalfBlockChar(top, bottom bool) rune {
	switch {
	case top && bottom:
		return FullBlock
	case top:
		return UpperHalf
	case bottom:
		return LowerHalf
	default:
		return EmptyBlock
	}
}
