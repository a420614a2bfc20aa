package model

// Palette is a fixed, ordered set of display colors used to visually
// distinguish repositories on the timeline.
type Palette []string

// DefaultPalette returns the standard 15-color palette. Colors are assigned
// to repositories by insertion order and cycle once the palette is exhausted.
func DefaultPalette() Palette {
	return Palette{
		"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7",
		"#DDA0DD", "#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9",
		"#F8C471", "#82E0AA", "#F1948A", "#85C1E9", "#D2B4DE",
	}
}

// ColorAt returns the palette color for the given insertion index,
// cycling with modulo when the index exceeds the palette size.
func (p Palette) ColorAt(index int) string {
	return p[index%len(p)]
}
