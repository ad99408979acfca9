package termview

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/glowfield/camera"
	"github.com/pthm-cable/glowfield/palette"
	"github.com/pthm-cable/glowfield/particles"
)

// View draws frames onto a tcell screen. The bottom row is reserved for
// the status line.
type View struct {
	screen tcell.Screen
	frame  *Frame
	cam    *camera.Camera
}

// NewView wraps an initialized screen.
func NewView(screen tcell.Screen, cam *camera.Camera) *View {
	w, h := screen.Size()
	return &View{
		screen: screen,
		frame:  NewFrame(w, h-1),
		cam:    cam,
	}
}

// Frame returns the accumulation grid.
func (v *View) Frame() *Frame {
	return v.frame
}

// Resize matches the grid to the screen after a resize event.
func (v *View) Resize() {
	w, h := v.screen.Size()
	v.frame.Resize(w, h-1)
	v.screen.Sync()
}

// Draw projects every pool, paints the grid and the status line, and shows
// the result. Returns the number of particles plotted.
func (v *View) Draw(pools []*particles.Pool, status string) int {
	v.frame.Clear()
	plotted := 0
	for _, p := range pools {
		plotted += v.frame.Project(v.cam, p)
	}

	v.screen.Clear()
	for y := 0; y < v.frame.H; y++ {
		for x := 0; x < v.frame.W; x++ {
			c := v.frame.At(x, y)
			if c.Hits == 0 {
				continue
			}
			v.screen.SetContent(x, y, Glyph(c.Hits), nil, tcell.StyleDefault.Foreground(CellColor(c.Color)))
		}
	}

	statusStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	line := fmt.Sprintf(" %-*s", v.frame.W-1, status)
	for x, r := range []rune(line) {
		if x >= v.frame.W {
			break
		}
		v.screen.SetContent(x, v.frame.H, r, nil, statusStyle)
	}

	v.screen.Show()
	return plotted
}

// CellColor clamps an accumulated colour to a terminal RGB colour.
func CellColor(c palette.RGB) tcell.Color {
	return tcell.NewRGBColor(channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float32) int32 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return int32(v*255 + 0.5)
}
