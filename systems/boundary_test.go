package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/roshambo/components"
	"github.com/pthm-cable/roshambo/config"
)

func testContainment(policy string) Containment {
	return Containment{
		HalfWidth:  100,
		HalfHeight: 50,
		Policy:     policy,
		Epsilon:    0.1,
		Nudge:      1.0,
		Gap:        2.0,
	}
}

func TestReflectInPlace(t *testing.T) {
	c := testContainment(config.PolicyReflectInPlace)

	tests := []struct {
		name    string
		pos     components.Position
		vel     components.Velocity
		wantHit bool
		wantPos components.Position
	}{
		{"inside", components.Position{X: 10, Y: 10}, components.Velocity{X: 5, Y: 5}, false, components.Position{X: 10, Y: 10}},
		{"right edge", components.Position{X: 100, Y: 0}, components.Velocity{X: 5, Y: 0}, true, components.Position{X: 98.9, Y: 0}},
		{"past left", components.Position{X: -130, Y: 0}, components.Velocity{X: -5, Y: 0}, true, components.Position{X: -98.9, Y: 0}},
		{"past top", components.Position{X: 0, Y: 60}, components.Velocity{X: 0, Y: 3}, true, components.Position{X: 0, Y: 48.9}},
		{"corner", components.Position{X: -101, Y: -51}, components.Velocity{X: -1, Y: -1}, true, components.Position{X: -98.9, Y: -48.9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, vel := tt.pos, tt.vel
			var agent components.Agent
			hit := c.Apply(&pos, &vel, &agent)
			if hit != tt.wantHit {
				t.Fatalf("hit = %v, want %v", hit, tt.wantHit)
			}
			if math.Abs(pos.X-tt.wantPos.X) > 1e-9 || math.Abs(pos.Y-tt.wantPos.Y) > 1e-9 {
				t.Errorf("pos = %+v, want %+v", pos, tt.wantPos)
			}
			if hit {
				if pos.X != 0 && tt.pos.X != pos.X && sign(vel.X) == sign(pos.X) {
					t.Errorf("x velocity %f points outward", vel.X)
				}
				if pos.Y != 0 && tt.pos.Y != pos.Y && sign(vel.Y) == sign(pos.Y) {
					t.Errorf("y velocity %f points outward", vel.Y)
				}
			}
			if agent.Bounce != 0 {
				t.Errorf("reflect_in_place set bounce flags %b", agent.Bounce)
			}
		})
	}
}

func TestReflectInPlaceNarrowArena(t *testing.T) {
	c := testContainment(config.PolicyReflectInPlace)
	c.HalfWidth = 0.5

	pos := components.Position{X: 3}
	vel := components.Velocity{X: 1}
	var agent components.Agent
	c.Apply(&pos, &vel, &agent)
	if math.Abs(pos.X) > c.HalfWidth {
		t.Errorf("pos.x = %f escaped arena of half width %f", pos.X, c.HalfWidth)
	}
}

func TestReflectOnly(t *testing.T) {
	c := testContainment(config.PolicyReflectOnly)

	pos := components.Position{X: 101, Y: 0}
	vel := components.Velocity{X: 4, Y: 0}
	var agent components.Agent
	if c.Apply(&pos, &vel, &agent) {
		t.Fatal("overshoot within gap should not trigger")
	}

	pos.X = 103
	if !c.Apply(&pos, &vel, &agent) {
		t.Fatal("overshoot past gap should trigger")
	}
	if pos.X != 103 {
		t.Errorf("reflect_only moved position to %f", pos.X)
	}
	if vel.X != -4 {
		t.Errorf("vel.x = %f, want -4", vel.X)
	}
	if agent.Bounce&components.BounceX == 0 || agent.Bounce&components.BounceY != 0 {
		t.Errorf("bounce = %b, want x only", agent.Bounce)
	}
}

// TestContainmentHoldsUnderSteering pushes agents toward a prey parked outside
// the arena and checks positions stay within tolerance for every policy.
func TestContainmentHoldsUnderSteering(t *testing.T) {
	for _, policy := range []string{config.PolicyReflectInPlace, config.PolicyReflectOnly} {
		t.Run(policy, func(t *testing.T) {
			c := testContainment(policy)
			p := testSteeringParams()
			p.QueryDanger = false
			c.MaxStep = p.BaseSpeed * p.DT
			ki := stagedIndex(t, []placed{
				{components.KindScissors, components.Position{X: 400, Y: 300}},
			})

			rng := rand.New(rand.NewSource(3))
			for i := 0; i < 20; i++ {
				snap := Snapshot{
					Kind: components.KindRock,
					Pos:  components.Position{X: uniform(rng, -100, 100), Y: uniform(rng, -50, 50)},
				}
				var agent components.Agent
				for tick := 0; tick < 600; tick++ {
					snap.Bounce = agent.Bounce
					intent, _ := Steer(&p, ki, &snap, nil)
					pos, vel := intent.Pos, intent.Vel
					c.Apply(&pos, &vel, &agent)
					snap.Pos, snap.Vel = pos, vel

					tol := c.Tolerance()
					if math.Abs(pos.X) > c.HalfWidth+tol || math.Abs(pos.Y) > c.HalfHeight+tol {
						t.Fatalf("tick %d: position %+v escaped arena", tick, pos)
					}
				}
			}
		})
	}
}

func TestReflectOnlyClearsBounceInside(t *testing.T) {
	c := testContainment(config.PolicyReflectOnly)
	agent := components.Agent{Bounce: components.BounceX | components.BounceY}

	pos := components.Position{X: 50, Y: 50.5}
	vel := components.Velocity{}
	c.Apply(&pos, &vel, &agent)
	if agent.Bounce != components.BounceY {
		t.Errorf("bounce = %b, want y only while y is in the gap", agent.Bounce)
	}
}

func TestContainmentTolerance(t *testing.T) {
	cfg := config.Default()
	cfg.Boundary.Policy = config.PolicyReflectOnly
	c := NewContainment(cfg)

	step := (cfg.Derived.FleeSpeed + cfg.Steering.BaseSpeed + cfg.Steering.Jitter*math.Sqrt2) * cfg.Physics.DT
	if math.Abs(c.MaxStep-step) > 1e-9 {
		t.Errorf("max step = %v, want %v", c.MaxStep, step)
	}
	if got, want := c.Tolerance(), cfg.Boundary.Gap+step; math.Abs(got-want) > 1e-9 {
		t.Errorf("reflect_only tolerance = %v, want %v", got, want)
	}

	c.Policy = config.PolicyReflectInPlace
	if c.Tolerance() != cfg.Boundary.Epsilon {
		t.Errorf("reflect_in_place tolerance = %v, want %v", c.Tolerance(), cfg.Boundary.Epsilon)
	}
}
