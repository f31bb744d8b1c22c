package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/roshambo/components"
	"github.com/pthm-cable/roshambo/config"
	"github.com/pthm-cable/roshambo/game"
)

func TestApplyKey(t *testing.T) {
	tests := []struct {
		name  string
		key   int32
		shift bool
		check func(c game.Controls) bool
	}{
		{"space pauses", rl.KeySpace, false, func(c game.Controls) bool { return c.Paused }},
		{"s mutes", rl.KeyS, false, func(c game.Controls) bool { return !c.Sound }},
		{"d shows regions", rl.KeyD, false, func(c game.Controls) bool { return c.ShowRegions }},
		{"2 hides paper", rl.KeyTwo, false, func(c game.Controls) bool {
			return !c.ShowKind[components.KindPaper] && c.ShowKind[components.KindRock]
		}},
		{"shift+3 shows scissors vision", rl.KeyThree, true, func(c game.Controls) bool {
			return c.ShowVision[components.KindScissors] && c.ShowKind[components.KindScissors]
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := game.DefaultControls()
			if !applyKey(&c, tt.key, tt.shift) {
				t.Fatal("key not bound")
			}
			if !tt.check(c) {
				t.Errorf("unexpected controls %+v", c)
			}
		})
	}
}

func TestApplyKeyUnbound(t *testing.T) {
	c := game.DefaultControls()
	if applyKey(&c, rl.KeyQ, false) {
		t.Error("Q should not be bound")
	}
	if c != game.DefaultControls() {
		t.Errorf("controls changed: %+v", c)
	}
}

func TestPanelTogglesFlip(t *testing.T) {
	rows := panelToggles()
	if len(rows) != 3+2*components.NumKinds {
		t.Fatalf("got %d rows", len(rows))
	}
	c := game.DefaultControls()
	for _, row := range rows {
		before := row.get(&c)
		row.flip(&c)
		if row.get(&c) == before {
			t.Errorf("%s did not flip", row.label)
		}
	}
}

func TestNearestAgent(t *testing.T) {
	cfg := config.Default()
	cfg.Population.Groups = 0
	cfg.Regions.Count = 0
	g, err := game.NewGameWithOptions(game.Options{
		Config: cfg,
		Host:   game.NewHeadlessHost(800, 600),
		Seed:   1,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Unload()

	near := g.SpawnAgent(components.KindRock, components.Position{X: 10, Y: 0})
	g.SpawnAgent(components.KindPaper, components.Position{X: 30, Y: 0})

	tests := []struct {
		name  string
		p     components.Position
		want  ecs.Entity
		found bool
	}{
		{"closest wins", components.Position{X: 12, Y: 1}, near, true},
		{"outside radius", components.Position{X: 100, Y: 100}, ecs.Entity{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := nearestAgent(g, tt.p, 20*20)
			if ok != tt.found || (ok && e != tt.want) {
				t.Errorf("nearestAgent = (%v, %v), want (%v, %v)", e, ok, tt.want, tt.found)
			}
		})
	}
}
