package setrules

import (
	"strings"

	"github.com/pterm/pterm"
)

// Feature indexes into the array returned by Features.
const (
	Number  = 0
	Color   = 1
	Shading = 2
	Shape   = 3
)

// glyphs[shape][shading]
var glyphs = [FeatureSize][FeatureSize]string{
	{"◆", "◈", "◇"}, // diamond
	{"●", "◍", "○"}, // oval
	{"■", "▣", "□"}, // squiggle, drawn as a square on terminals
}

// String returns a human-readable, colored representation of a card:
// one to three copies of its shape glyph, colored red, green or purple.
func String(card int) string {
	if card < 0 || card >= DeckSize {
		return "?"
	}
	f := Features(card)
	s := strings.Repeat(glyphs[f[Shape]][f[Shading]], f[Number]+1)
	switch f[Color] {
	case 0:
		return pterm.LightRed(s)
	case 1:
		return pterm.LightGreen(s)
	default:
		return pterm.LightMagenta(s)
	}
}
