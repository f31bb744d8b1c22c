package ui

import (
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/roshambo/components"
	"github.com/pthm-cable/roshambo/game"
)

// keyKinds maps the number keys to kinds.
var keyKinds = map[int32]components.Kind{
	rl.KeyOne:   components.KindRock,
	rl.KeyTwo:   components.KindPaper,
	rl.KeyThree: components.KindScissors,
}

// applyKey applies a key press to c. It reports whether the key is bound.
func applyKey(c *game.Controls, key int32, shift bool) bool {
	switch key {
	case rl.KeySpace:
		c.TogglePause()
	case rl.KeyS:
		c.ToggleSound()
	case rl.KeyD:
		c.ToggleRegions()
	default:
		k, ok := keyKinds[key]
		if !ok {
			return false
		}
		if shift {
			c.ToggleVision(k)
		} else {
			c.ToggleKind(k)
		}
	}
	return true
}

// zoomStep is the zoom factor applied per mouse wheel notch.
const zoomStep = 1.1

// HandleInput polls the keyboard and mouse: Space pause, S sound, D regions,
// 1/2/3 kinds, Shift+1/2/3 vision rings, Tab control panel, F5 snapshot,
// wheel zoom, right drag pan, R camera reset.
func HandleInput(g *game.Game, panel *ControlsPanel, arena *ArenaRenderer) {
	shift := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	for _, key := range []int32{rl.KeySpace, rl.KeyS, rl.KeyD, rl.KeyOne, rl.KeyTwo, rl.KeyThree} {
		if rl.IsKeyPressed(key) {
			applyKey(g.Controls(), key, shift)
		}
	}

	if rl.IsKeyPressed(rl.KeyTab) && panel != nil {
		panel.Toggle()
	}

	if arena != nil {
		cam := arena.Camera()
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			mouse := rl.GetMousePosition()
			cam.ZoomAt(mouse.X, mouse.Y, float32(math.Pow(zoomStep, float64(wheel))))
		}
		if rl.IsMouseButtonDown(rl.MouseButtonRight) {
			d := rl.GetMouseDelta()
			cam.Pan(-d.X, -d.Y)
		}
		if rl.IsKeyPressed(rl.KeyR) {
			cam.Reset()
		}
	}

	if rl.IsKeyPressed(rl.KeyF5) {
		path, err := g.SaveSnapshot()
		if err != nil {
			slog.Error("failed to save snapshot", "error", err)
			return
		}
		slog.Info("snapshot saved", "path", path, "tick", g.Tick())
	}
}
