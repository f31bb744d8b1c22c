package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/roshambo/components"
	"github.com/pthm-cable/roshambo/config"
)

// SteeringParams holds the per-tick steering constants.
type SteeringParams struct {
	DT            float64
	BaseSpeed     float64 // pursuit speed, units per second
	FleeSpeed     float64 // evasion speed, units per second
	ContactDistSq float64
	Inertia       float64
	FleeExclusive bool
	QueryDanger   bool // find threats in the index instead of from danger events
}

// SteeringParamsFrom extracts steering constants from config.
func SteeringParamsFrom(cfg *config.Config) SteeringParams {
	return SteeringParams{
		DT:            cfg.Physics.DT,
		BaseSpeed:     cfg.Steering.BaseSpeed,
		FleeSpeed:     cfg.Derived.FleeSpeed,
		ContactDistSq: cfg.Derived.ContactDistSq,
		Inertia:       cfg.Steering.Inertia,
		FleeExclusive: cfg.Steering.FleeExclusive,
		QueryDanger:   cfg.Steering.DangerSource == config.DangerQuery,
	}
}

// Snapshot captures the read-only state steering needs for one agent.
type Snapshot struct {
	E      ecs.Entity
	Kind   components.Kind
	Pos    components.Position
	Vel    components.Velocity
	Vision float64
	Bounce uint8

	// Jitter is the pre-drawn random velocity offset for this tick.
	Jitter r2.Vec

	// Threat is the predator reported by a danger event, used when
	// SteeringParams.QueryDanger is false.
	Threat    components.Position
	HasThreat bool
}

// Intent is the steering result for one agent, applied after all agents are computed.
type Intent struct {
	Pos      components.Position
	Vel      components.Velocity
	Pursuing bool
	Fleeing  bool
}

// Steer computes one agent's next position and velocity. Pursuit heads for the
// nearest prey outside contact distance; flee heads away from the nearest
// predator in vision. Both displacements add unless FleeExclusive is set.
// scratch is reused across calls and returned for the caller to keep.
func Steer(p *SteeringParams, index *KindIndex, snap *Snapshot, scratch []Entry) (Intent, []Entry) {
	var intent Intent
	var pursuit, flee r2.Vec

	if target, ok := index.QueryNearest(snap.Kind.Prey(), snap.Pos); ok {
		if distanceSq(snap.Pos, target.Pos) > p.ContactDistSq {
			pursuit = r2.Scale(p.BaseSpeed*p.DT, direction(snap.Pos, target.Pos))
			pursuit = r2.Add(pursuit, r2.Scale(p.DT, snap.Jitter))
			intent.Pursuing = true
		}
	}

	var threat components.Position
	var threatened bool
	if p.QueryDanger {
		var e Entry
		e, threatened, scratch = NearestThreat(index, snap.Kind, snap.Pos, snap.Vision, scratch)
		threat = e.Pos
	} else {
		threat, threatened = snap.Threat, snap.HasThreat
	}
	if threatened {
		flee = r2.Scale(p.FleeSpeed*p.DT, direction(threat, snap.Pos))
		intent.Fleeing = true
		if p.FleeExclusive {
			pursuit = r2.Vec{}
			intent.Pursuing = false
		}
	}

	desired := r2.Scale(1/p.DT, r2.Add(pursuit, flee))

	// Reflect-only containment flagged these axes last tick; keep heading inward.
	if snap.Bounce&components.BounceX != 0 && desired.X != 0 && sign(desired.X) == sign(snap.Pos.X) {
		desired.X = -desired.X
	}
	if snap.Bounce&components.BounceY != 0 && desired.Y != 0 && sign(desired.Y) == sign(snap.Pos.Y) {
		desired.Y = -desired.Y
	}

	vel := r2.Add(r2.Scale(p.Inertia, r2.Vec{X: snap.Vel.X, Y: snap.Vel.Y}), r2.Scale(1-p.Inertia, desired))
	if math.IsNaN(vel.X) || math.IsNaN(vel.Y) {
		vel = r2.Vec{}
	}

	intent.Vel = components.Velocity{X: vel.X, Y: vel.Y}
	intent.Pos = components.Position{
		X: snap.Pos.X + vel.X*p.DT,
		Y: snap.Pos.Y + vel.Y*p.DT,
	}
	return intent, scratch
}

// NearestThreat returns the closest predator of kind within vision of pos.
// Ties keep the first entry returned by the index.
func NearestThreat(index *KindIndex, kind components.Kind, pos components.Position, vision float64, scratch []Entry) (Entry, bool, []Entry) {
	scratch = index.QueryWithin(scratch[:0], kind.Predator(), pos, vision)

	var best Entry
	bestSq := math.Inf(1)
	found := false
	for _, e := range scratch {
		if d := distanceSq(pos, e.Pos); d < bestSq {
			best, bestSq, found = e, d, true
		}
	}
	return best, found, scratch
}
