package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/roshambo/components"
	"github.com/pthm-cable/roshambo/game"
)

// toggle is one row of the controls panel.
type toggle struct {
	label string
	key   string
	get   func(c *game.Controls) bool
	flip  func(c *game.Controls)
}

// panelToggles lists the rows in display order.
func panelToggles() []toggle {
	rows := []toggle{
		{"Paused", "Space", func(c *game.Controls) bool { return c.Paused }, (*game.Controls).TogglePause},
		{"Sound", "S", func(c *game.Controls) bool { return c.Sound }, (*game.Controls).ToggleSound},
		{"Regions", "D", func(c *game.Controls) bool { return c.ShowRegions }, (*game.Controls).ToggleRegions},
	}
	for i, k := range components.AllKinds {
		rows = append(rows, toggle{
			label: "Show " + k.String(),
			key:   fmt.Sprintf("%d", i+1),
			get:   func(c *game.Controls) bool { return c.ShowKind[k] },
			flip:  func(c *game.Controls) { c.ToggleKind(k) },
		})
	}
	for i, k := range components.AllKinds {
		rows = append(rows, toggle{
			label: k.String() + " vision",
			key:   fmt.Sprintf("Shift+%d", i+1),
			get:   func(c *game.Controls) bool { return c.ShowVision[k] },
			flip:  func(c *game.Controls) { c.ToggleVision(k) },
		})
	}
	return rows
}

// ControlsPanel renders the left-side toggle panel.
type ControlsPanel struct {
	renderer *Renderer
	toggles  []toggle
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		toggles:  panelToggles(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
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

// Draw renders the panel and applies clicked toggles to ctl.
func (c *ControlsPanel) Draw(ctl *game.Controls) {
	if !c.visible {
		return
	}

	r := c.renderer
	padding := r.Theme.Padding
	rowHeight := r.Theme.LineHeight + 6
	panelHeight := int32(len(c.toggles))*rowHeight + padding*2 + r.Theme.LineHeight + 4

	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Controls", c.x+padding, y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	buttonW := float32(c.width - padding*3 - 8)
	for _, t := range c.toggles {
		r.DrawToggleState(c.x+padding, y+6, t.get(ctl))
		bounds := rl.Rectangle{
			X:      float32(c.x + padding*2 + 8),
			Y:      float32(y),
			Width:  buttonW,
			Height: float32(rowHeight - 2),
		}
		if gui.Button(bounds, fmt.Sprintf("%s [%s]", t.label, t.key)) {
			t.flip(ctl)
		}
		y += rowHeight
	}
}
