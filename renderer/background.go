package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/glowfield/palette"
)

// Background clears the frame to a solid color.
type Background struct {
	color rl.Color
}

// NewBackground parses a hex color; an invalid value falls back to black.
func NewBackground(hex string) *Background {
	cs, err := palette.ParseHex([]string{hex})
	if err != nil {
		return &Background{color: rl.Black}
	}
	c := cs[0]
	return &Background{color: rl.Color{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: 255}}
}

// Color returns the clear color.
func (b *Background) Color() rl.Color {
	return b.color
}

// Draw clears the frame.
func (b *Background) Draw() {
	rl.ClearBackground(b.color)
}
