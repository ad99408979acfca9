// Package palette holds the static colour tables particles draw their
// spawn colours from.
package palette

import (
	"errors"
	"fmt"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB is a linear colour with components in [0, 1].
type RGB struct {
	R, G, B float32
}

// Default is the palette used when none is configured.
const Default = "sacredFire"

// ErrUnknownPalette is returned by Lookup for a name not in the table.
var ErrUnknownPalette = errors.New("unknown palette")

var hexTable = map[string][]string{
	"sacredFire": {"#FF006E", "#FB5607", "#FFBE0B", "#8338EC", "#3A86FF"},
	"chakra": {
		"#FF0000", // root
		"#FF7F00", // sacral
		"#FFFF00", // solar plexus
		"#00FF00", // heart
		"#0000FF", // throat
		"#4B0082", // third eye
		"#8F00FF", // crown
	},
	"goldenRatio": {"#F3E5AB", "#DEB887", "#C48A5A", "#AB5C2D", "#922E00"},
	"elemental": {
		"#A52A2A", // earth
		"#0000FF", // water
		"#FF4500", // fire
		"#87CEEB", // air
	},
}

var table = mustParse(hexTable)

func mustParse(src map[string][]string) map[string][]RGB {
	out := make(map[string][]RGB, len(src))
	for name, hexes := range src {
		colors, err := ParseHex(hexes)
		if err != nil {
			panic(fmt.Sprintf("palette %s: %v", name, err))
		}
		out[name] = colors
	}
	return out
}

// ParseHex converts "#RRGGBB" strings to RGB.
func ParseHex(hexes []string) ([]RGB, error) {
	colors := make([]RGB, 0, len(hexes))
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", h, err)
		}
		colors = append(colors, FromColorful(c))
	}
	return colors, nil
}

// FromColorful converts a go-colorful colour, clamping out-of-gamut values.
func FromColorful(c colorful.Color) RGB {
	c = c.Clamped()
	return RGB{R: float32(c.R), G: float32(c.G), B: float32(c.B)}
}

// Lookup returns a copy of the ordered colour list for name.
func Lookup(name string) ([]RGB, error) {
	colors, ok := table[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
	}
	out := make([]RGB, len(colors))
	copy(out, colors)
	return out, nil
}

// Names returns all palette names in sorted order.
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Next returns the palette name after current in sorted order, wrapping.
// Used by hosts that cycle palettes from a single button or key.
func Next(current string) string {
	names := Names()
	for i, n := range names {
		if n == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

// Hues generates n evenly spaced HSV colours. Not part of the named table;
// hosts use it for previews and debug layers.
func Hues(n int, saturation, value float64) []RGB {
	if n <= 0 {
		return nil
	}
	out := make([]RGB, n)
	for i := range out {
		hue := float64(i) / float64(n) * 360
		out[i] = FromColorful(colorful.Hsv(hue, saturation, value))
	}
	return out
}
