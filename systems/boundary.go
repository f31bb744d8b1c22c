package systems

import (
	"math"

	"github.com/pthm-cable/roshambo/components"
	"github.com/pthm-cable/roshambo/config"
)

// Containment keeps agents inside the arena [-HalfWidth, HalfWidth] x [-HalfHeight, HalfHeight].
type Containment struct {
	HalfWidth  float64
	HalfHeight float64
	Policy     string
	Epsilon    float64
	Nudge      float64
	Gap        float64
	MaxStep    float64 // largest per-tick displacement from steering
}

// NewContainment builds containment from the loaded config.
func NewContainment(cfg *config.Config) Containment {
	return Containment{
		HalfWidth:  cfg.Derived.HalfWidth,
		HalfHeight: cfg.Derived.HalfHeight,
		Policy:     cfg.Boundary.Policy,
		Epsilon:    cfg.Boundary.Epsilon,
		Nudge:      cfg.Boundary.Nudge,
		Gap:        cfg.Boundary.Gap,
		MaxStep:    (cfg.Derived.FleeSpeed + cfg.Steering.BaseSpeed + cfg.Steering.Jitter*math.Sqrt2) * cfg.Physics.DT,
	}
}

// Tolerance is how far outside the arena a contained agent may be observed.
// reflect_only lets an agent cross W + gap by up to one step before it turns.
func (c Containment) Tolerance() float64 {
	if c.Policy == config.PolicyReflectOnly {
		return c.Gap + c.MaxStep
	}
	return c.Epsilon
}

// Apply contains one agent and reports whether a boundary event occurred.
// After an event the velocity on that axis points inward.
func (c Containment) Apply(pos *components.Position, vel *components.Velocity, agent *components.Agent) bool {
	hitX := c.axis(&pos.X, &vel.X, c.HalfWidth, agent, components.BounceX)
	hitY := c.axis(&pos.Y, &vel.Y, c.HalfHeight, agent, components.BounceY)
	return hitX || hitY
}

func (c Containment) axis(p, v *float64, half float64, agent *components.Agent, bounce uint8) bool {
	if c.Policy == config.PolicyReflectOnly {
		if math.Abs(*p) < half {
			agent.Bounce &^= bounce
		}
		if math.Abs(*p) < half+c.Gap {
			return false
		}
		dir := sign(*p)
		*v = -dir * math.Abs(*v)
		agent.Bounce |= bounce
		return true
	}

	if math.Abs(*p) < half {
		return false
	}
	dir := sign(*p)
	*p = dir * (half - c.Epsilon)
	*v = -dir * math.Abs(*v)
	*p -= dir * c.Nudge
	if math.Abs(*p) > half {
		// Arena narrower than the inset.
		*p = 0
	}
	return true
}
