package figure

import (
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// DefaultPaletteNames is the color cycle used for successive log files.
var DefaultPaletteNames = []string{
	"blue", "red", "green", "orange", "purple",
	"brown", "pink", "gray", "olive", "cyan",
}

// namedColors maps CSS color names to their hex values.
var namedColors = map[string]string{
	"black":   "000000",
	"blue":    "0000ff",
	"brown":   "a52a2a",
	"cyan":    "00ffff",
	"gray":    "808080",
	"green":   "008000",
	"grey":    "808080",
	"magenta": "ff00ff",
	"olive":   "808000",
	"orange":  "ffa500",
	"pink":    "ffc0cb",
	"navy":    "000080",
	"purple":  "800080",
	"red":     "ff0000",
	"teal":    "008080",
	"white":   "ffffff",
	"yellow":  "ffff00",
}

// ParseColor resolves a color name or a #rrggbb literal.
func ParseColor(s string) (drawing.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[s]; ok {
		return drawing.ColorFromHex(hex), nil
	}

	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 6 && strings.Trim(hex, "0123456789abcdef") == "" {
			return drawing.ColorFromHex(hex), nil
		}
	}

	return drawing.Color{}, fmt.Errorf("unknown color %q", s)
}

// Hex formats c as a lowercase "#rrggbb" string, ignoring alpha.
func Hex(c drawing.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Palette is an ordered color cycle.
type Palette []drawing.Color

// NewPalette resolves names into a Palette.
func NewPalette(names []string) (Palette, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("palette is empty")
	}

	p := make(Palette, 0, len(names))
	for _, name := range names {
		c, err := ParseColor(name)
		if err != nil {
			return nil, err
		}
		p = append(p, c)
	}
	return p, nil
}

// DefaultPalette returns the ten-color default cycle.
func DefaultPalette() Palette {
	p, _ := NewPalette(DefaultPaletteNames)
	return p
}

// At returns the color for position i, cycling through the palette.
func (p Palette) At(i int) drawing.Color {
	return p[i%len(p)]
}
