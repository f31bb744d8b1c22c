package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/roshambo/game"
)

// InspectorWidth is the inspector panel width in pixels.
const InspectorWidth = 220

// Inspector manages agent selection and its detail panel.
type Inspector struct {
	renderer    *Renderer
	selected    ecs.Entity
	hasSelected bool
}

// NewInspector creates a new inspector instance.
func NewInspector() *Inspector {
	return &Inspector{renderer: NewRenderer()}
}

// HandleInput selects the agent under a left click. Escape deselects.
func (ins *Inspector) HandleInput(g *game.Game, arena *ArenaRenderer) {
	if rl.IsKeyPressed(rl.KeyEscape) {
		ins.Deselect()
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	mouse := rl.GetMousePosition()
	if e, ok := arena.Pick(g, mouse.X, mouse.Y); ok {
		ins.selected = e
		ins.hasSelected = true
	}
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the currently selected entity.
func (ins *Inspector) Selected() (ecs.Entity, bool) {
	return ins.selected, ins.hasSelected
}

// Draw renders the panel for the selected agent at (x, y).
func (ins *Inspector) Draw(g *game.Game, x, y int32) {
	if !ins.hasSelected {
		return
	}

	agent, pos, ok := g.Agent(ins.selected)
	if !ok || !agent.Alive {
		ins.Deselect()
		return
	}
	vel, _ := g.Velocity(ins.selected)

	r := ins.renderer
	padding := r.Theme.Padding
	panelHeight := r.Theme.LineHeight*7 + padding*2
	r.DrawPanel(x, y, InspectorWidth, panelHeight)

	ly := r.DrawSectionHeader(x+padding, y+padding, fmt.Sprintf("Agent #%d", ins.selected.ID()))
	rl.DrawRectangle(x+InspectorWidth-padding-10, y+padding+2, 10, 10, KindColor(agent.Kind))

	ly = r.DrawLabelValue(x+padding, ly, "Kind", agent.Kind.String())
	ly = r.DrawLabelValue(x+padding, ly, "Hunts", agent.Kind.Prey().String())
	ly = r.DrawLabelValue(x+padding, ly, "Flees", agent.Kind.Predator().String())
	ly = r.DrawLabelValue(x+padding, ly, "Position", fmt.Sprintf("%.1f, %.1f", pos.X, pos.Y))
	ly = r.DrawLabelValue(x+padding, ly, "Speed", fmt.Sprintf("%.1f", math.Hypot(vel.X, vel.Y)))
	r.DrawLabelValue(x+padding, ly, "Vision", fmt.Sprintf("%.1f", agent.Vision))
}
