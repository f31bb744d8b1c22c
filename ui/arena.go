package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/roshambo/camera"
	"github.com/pthm-cable/roshambo/components"
	"github.com/pthm-cable/roshambo/game"
)

// ArenaRenderer draws regions, agents and vision rings through a camera.
type ArenaRenderer struct {
	host  *Host
	cam   *camera.Camera
	theme Theme
}

// NewArenaRenderer creates an arena renderer drawing textures loaded by host.
func NewArenaRenderer(host *Host, g *game.Game) *ArenaRenderer {
	cfg := g.Config()
	cam := camera.New(
		float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()),
		float32(cfg.Derived.HalfWidth), float32(cfg.Derived.HalfHeight),
	)
	return &ArenaRenderer{host: host, cam: cam, theme: DefaultTheme()}
}

// Camera returns the arena camera.
func (a *ArenaRenderer) Camera() *camera.Camera {
	return a.cam
}

func (a *ArenaRenderer) toScreen(p components.Position) rl.Vector2 {
	x, y := a.cam.WorldToScreen(float32(p.X), float32(p.Y))
	return rl.Vector2{X: x, Y: y}
}

// Draw renders the arena according to the game's controls.
func (a *ArenaRenderer) Draw(g *game.Game, selected ecs.Entity, hasSelected bool) {
	cfg := g.Config()
	ctl := g.Controls()
	a.cam.Resize(
		float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()),
		float32(cfg.Derived.HalfWidth), float32(cfg.Derived.HalfHeight),
	)

	hw, hh := cfg.Derived.HalfWidth, cfg.Derived.HalfHeight
	corner := a.toScreen(components.Position{X: -hw, Y: hh})
	rl.DrawRectangleLinesEx(rl.Rectangle{
		X:      corner.X,
		Y:      corner.Y,
		Width:  a.cam.Scale(float32(2 * hw)),
		Height: a.cam.Scale(float32(2 * hh)),
	}, 1, a.theme.ArenaBorder)

	if ctl.ShowRegions {
		for _, r := range g.Regions() {
			c := a.toScreen(components.Position{X: r.X, Y: r.Y})
			rl.DrawCircleLinesV(c, a.cam.Scale(float32(r.Radius)), a.theme.RegionColor)
		}
	}

	var textures [components.NumKinds]rl.Texture2D
	var loaded [components.NumKinds]bool
	for _, k := range components.AllKinds {
		textures[k], loaded[k] = a.host.Texture(g.Image(k))
	}

	size := float32(cfg.Agent.SpriteSize)
	px := a.cam.Scale(size)
	g.ForEachAgent(func(e ecs.Entity, pos components.Position, agent components.Agent) {
		k := agent.Kind
		if !k.Valid() || !ctl.ShowKind[k] {
			return
		}
		if !a.cam.IsVisible(float32(pos.X), float32(pos.Y), float32(agent.Vision)) {
			return
		}
		c := a.toScreen(pos)

		if ctl.ShowVision[k] {
			rl.DrawCircleLinesV(c, a.cam.Scale(float32(agent.Vision)), rl.Fade(KindColor(k), 0.4))
		}

		if loaded[k] {
			tex := textures[k]
			src := rl.Rectangle{Width: float32(tex.Width), Height: float32(tex.Height)}
			dst := rl.Rectangle{X: c.X, Y: c.Y, Width: px, Height: px}
			rl.DrawTexturePro(tex, src, dst, rl.Vector2{X: px / 2, Y: px / 2}, 0, rl.White)
		} else {
			rl.DrawCircleV(c, px/2, KindColor(k))
		}

		if n := a.host.flash(e); n > 0 {
			alpha := float32(n) / flashFrames
			rl.DrawCircleLinesV(c, px*0.75, rl.Fade(KindColor(k), alpha))
		}
		if hasSelected && e == selected {
			rl.DrawCircleLinesV(c, px*0.8, rl.Yellow)
		}
	})

	a.host.ageFlashes()
}

// Pick returns the agent whose sprite covers the screen point (sx, sy),
// preferring the closest one.
func (a *ArenaRenderer) Pick(g *game.Game, sx, sy float32) (ecs.Entity, bool) {
	wx, wy := a.cam.ScreenToWorld(sx, sy)
	half := g.Config().Agent.SpriteSize / 2
	return nearestAgent(g, components.Position{X: float64(wx), Y: float64(wy)}, half*half)
}

func nearestAgent(g *game.Game, p components.Position, maxDistSq float64) (ecs.Entity, bool) {
	var best ecs.Entity
	found := false
	bestDist := maxDistSq
	g.ForEachAgent(func(e ecs.Entity, pos components.Position, _ components.Agent) {
		dx, dy := pos.X-p.X, pos.Y-p.Y
		if d := dx*dx + dy*dy; d <= bestDist {
			best, bestDist, found = e, d, true
		}
	})
	return best, found
}
