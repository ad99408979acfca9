package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/glowfield/palette"
	"github.com/pthm-cable/glowfield/particles"
)

// Changes reports what the user touched during one panel draw.
type Changes struct {
	Params      bool // a live parameter moved
	Rebuild     bool // Count changed; the pool must be reallocated
	Snapshot    bool
	ResetCamera bool
}

// Any reports whether anything changed.
func (c Changes) Any() bool {
	return c.Params || c.Rebuild || c.Snapshot || c.ResetCamera
}

// ControlsPanel renders the left-side parameter panel.
type ControlsPanel struct {
	renderer *Renderer
	sliders  []SliderDescriptor
	x, y     int32
	width    int32
	visible  bool

	// pendingCount tracks the count slider; it is only applied on "Apply"
	// so dragging does not reallocate the pool every frame.
	pendingCount int
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		sliders:  ParamSliders(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Height returns the panel height for the current layout.
func (c *ControlsPanel) Height() int32 {
	t := c.renderer.Theme
	rowH := t.LineHeight + t.SliderHeight + 4
	h := t.Padding*2 + t.LineHeight + 6
	h += int32(len(c.sliders)) * rowH
	// count slider, apply, three button rows and swatches
	h += rowH + t.ButtonHeight + 6
	h += (t.ButtonHeight+6)*3 + t.LineHeight
	return h
}

// Contains reports whether a screen point falls on the visible panel.
func (c *ControlsPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return x >= float32(c.x) && x < float32(c.x+c.width) &&
		y >= float32(c.y) && y < float32(c.y+c.Height())
}

// ApplyCount commits the pending count to p. Returns true if it differs.
func (c *ControlsPanel) ApplyCount(p *particles.Params) bool {
	if c.pendingCount == 0 || c.pendingCount == p.Count {
		return false
	}
	p.Count = c.pendingCount
	return true
}

// Draw renders the panel and applies any edits to p.
func (c *ControlsPanel) Draw(p *particles.Params) Changes {
	var ch Changes
	if !c.visible {
		return ch
	}
	if c.pendingCount == 0 {
		c.pendingCount = p.Count
	}

	r := c.renderer
	t := r.Theme
	x := c.x + t.Padding
	inner := c.width - t.Padding*2

	r.DrawPanel(c.x, c.y, c.width, c.Height())
	y := c.y + t.Padding
	rl.DrawText("Particles", x, y, 16, rl.White)
	y += t.LineHeight + 6

	for _, d := range c.sliders {
		v := d.Get(p)
		r.DrawLabelValue(x, y, d.Label, fmt.Sprintf(d.Format, v))
		y += t.LineHeight
		nv := gui.SliderBar(
			rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(inner), Height: float32(t.SliderHeight)},
			"", "",
			float32(v), d.Min, d.Max,
		)
		if nv != float32(v) && d.Apply(p, float64(nv)) {
			ch.Params = true
		}
		y += t.SliderHeight + 4
	}

	countColor := t.ValueColor
	if c.pendingCount != p.Count {
		countColor = t.WarnColor
	}
	rl.DrawText("Count:", x, y, t.FontSize, t.LabelColor)
	rl.DrawText(fmt.Sprintf("%d", c.pendingCount), x+t.LabelWidth, y, t.FontSize, countColor)
	y += t.LineHeight
	nc := gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(inner), Height: float32(t.SliderHeight)},
		"", "",
		float32(c.pendingCount), MinCount, MaxCount,
	)
	c.pendingCount = SnapCount(nc)
	y += t.SliderHeight + 4
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(inner), Height: float32(t.ButtonHeight)}, "Apply count") {
		ch.Rebuild = c.ApplyCount(p)
	}
	y += t.ButtonHeight + 6

	half := float32(inner-6) / 2
	playLabel := "Pause"
	if !p.Playing {
		playLabel = "Play"
	}
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: float32(t.ButtonHeight)}, playLabel) {
		p.Playing = !p.Playing
		ch.Params = true
	}
	if gui.Button(rl.Rectangle{X: float32(x) + half + 6, Y: float32(y), Width: half, Height: float32(t.ButtonHeight)}, "Snapshot") {
		ch.Snapshot = true
	}
	y += t.ButtonHeight + 6

	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: float32(t.ButtonHeight)}, p.Palette) {
		p.Palette = palette.Next(p.Palette)
		ch.Params = true
	}
	if gui.Button(rl.Rectangle{X: float32(x) + half + 6, Y: float32(y), Width: half, Height: float32(t.ButtonHeight)}, p.Shape.String()) {
		p.Shape = p.Shape.Next()
		ch.Params = true
	}
	y += t.ButtonHeight + 6

	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(inner), Height: float32(t.ButtonHeight)}, "Reset camera") {
		ch.ResetCamera = true
	}
	y += t.ButtonHeight + 6

	if colors, err := palette.Lookup(p.Palette); err == nil {
		r.DrawSwatches(x, y, colors)
	}
	return ch
}
