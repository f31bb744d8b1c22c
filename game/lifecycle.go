package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/roshambo/components"
)

// spawnInitialPopulation creates Groups rounds of PerKind agents of each kind.
func (g *Game) spawnInitialPopulation() {
	pop := g.cfg.Population
	for round := 0; round < pop.Groups; round++ {
		for _, kind := range components.AllKinds {
			for i := 0; i < pop.PerKind; i++ {
				g.SpawnAgent(kind, g.spawnPosition())
			}
		}
	}
}

// spawnPosition picks a region uniformly and samples inside it, or samples the
// whole arena when there are no regions.
func (g *Game) spawnPosition() components.Position {
	hw, hh := g.cfg.Derived.HalfWidth, g.cfg.Derived.HalfHeight
	if len(g.regions) > 0 {
		r := g.regions[g.rng.Intn(len(g.regions))]
		return r.Sample(g.rng, hw, hh)
	}
	return components.Position{
		X: g.uniform(-hw, hw),
		Y: g.uniform(-hh, hh),
	}
}

// SpawnAgent registers a new agent of kind at pos and notifies the host.
func (g *Game) SpawnAgent(kind components.Kind, pos components.Position) ecs.Entity {
	agentCfg := g.cfg.Agent
	vel := components.Velocity{X: agentCfg.InitialSpeed, Y: agentCfg.InitialSpeed}
	agent := components.Agent{
		Kind:   kind,
		Vision: g.uniform(agentCfg.VisionMin, agentCfg.VisionMax),
		Alive:  true,
	}

	e := g.agentMapper.NewEntity(&pos, &vel, &agent)
	g.counts[kind]++
	g.host.Spawn(e, kind, pos)
	return e
}

// Agent returns e's agent component and position, or false if e is gone.
func (g *Game) Agent(e ecs.Entity) (components.Agent, components.Position, bool) {
	if !g.world.Alive(e) {
		return components.Agent{}, components.Position{}, false
	}
	return *g.agentMap.Get(e), *g.posMap.Get(e), true
}

// Velocity returns e's velocity, or false if e is gone.
func (g *Game) Velocity(e ecs.Entity) (components.Velocity, bool) {
	if !g.world.Alive(e) {
		return components.Velocity{}, false
	}
	return *g.velMap.Get(e), true
}

// Counts returns the number of agents of each kind.
func (g *Game) Counts() [components.NumKinds]int {
	return g.counts
}

// Population returns the total number of agents.
func (g *Game) Population() int {
	total := 0
	for _, n := range g.counts {
		total += n
	}
	return total
}

// Winner reports the remaining kind once every agent shares it.
func (g *Game) Winner() (components.Kind, bool) {
	var winner components.Kind
	alive := 0
	for _, k := range components.AllKinds {
		if g.counts[k] > 0 {
			winner = k
			alive++
		}
	}
	return winner, alive == 1
}

// Done reports whether a run configured to stop on a winner has one.
func (g *Game) Done() bool {
	return g.stopOnWinner && g.winner
}

// uniform draws from [lo, hi) with the game's RNG.
func (g *Game) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}
