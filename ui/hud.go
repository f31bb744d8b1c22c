package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/roshambo/components"
	"github.com/pthm-cable/roshambo/game"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title   string
	Counts  [components.NumKinds]int
	Tick    int32
	SimTime float64
	FPS     int32
	Paused  bool
	Sound   bool
	Winner  string
}

// HUDDataFrom collects HUD data from the game.
func HUDDataFrom(g *game.Game, title string) HUDData {
	ctl := g.Controls()
	d := HUDData{
		Title:   title,
		Counts:  g.Counts(),
		Tick:    g.Tick(),
		SimTime: float64(g.Tick()) * g.Config().Physics.DT,
		FPS:     rl.GetFPS(),
		Paused:  ctl.Paused,
		Sound:   ctl.Sound,
	}
	if k, ok := g.Winner(); ok {
		d.Winner = k.String()
	}
	return d
}

// HUD renders the population panel and status line.
type HUD struct {
	renderer *Renderer
	width    int32
}

// NewHUD creates a new HUD renderer.
func NewHUD(width int32) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		width:    width,
	}
}

// Draw renders the HUD in the top right corner.
func (h *HUD) Draw(data HUDData, screenWidth int32) {
	r := h.renderer
	padding := r.Theme.Padding
	x := screenWidth - h.width - padding
	y := padding

	panelHeight := r.Theme.LineHeight*8 + padding*2
	r.DrawPanel(x, y, h.width, panelHeight)

	y += padding
	y = r.DrawSectionHeader(x+padding, y, data.Title)

	total := 0
	for _, n := range data.Counts {
		total += n
	}
	for _, k := range components.AllKinds {
		y = r.DrawShareBar(x+padding, y, k.String(), data.Counts[k], total, KindColor(k), h.width-padding*2)
	}

	y = r.DrawLabelValue(x+padding, y, "Tick", fmt.Sprintf("%d (%.1fs)", data.Tick, data.SimTime))
	y = r.DrawLabelValue(x+padding, y, "FPS", fmt.Sprintf("%d", data.FPS))

	status := "Running"
	if data.Paused {
		status = "PAUSED"
	}
	if data.Winner != "" {
		status = data.Winner + " wins"
	}
	if !data.Sound {
		status += " (muted)"
	}
	rl.DrawText(status, x+padding, y, r.Theme.FontSize+2, rl.Yellow)
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32) {
	rl.DrawText("Space pause | S sound | D regions | 1-3 kinds | Shift+1-3 vision | Tab panel | Wheel/RMB/R camera | Click inspect | F5 snapshot",
		10, screenHeight-25, 14, rl.Gray)
}
