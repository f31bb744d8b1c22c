package game

import "log/slog"

// rebuildIndex re-indexes every live agent by kind at its current position.
func (g *Game) rebuildIndex() {
	g.index.Reset()

	query := g.agentFilter.Query()
	for query.Next() {
		pos, _, agent := query.Get()
		if agent.Alive {
			g.index.Stage(agent.Kind, query.Entity(), *pos)
		}
	}

	g.index.Commit()
	g.indexStale = false
}

// resolveCollisions converts prey in contact and records danger events for
// the next steering pass.
func (g *Game) resolveCollisions() {
	res := g.resolver.Resolve(g.index)
	if len(res.Conversions) > 0 {
		// Converted agents are still indexed under their old kind.
		g.indexStale = true
	}

	for _, c := range res.Conversions {
		g.counts[c.From]--
		g.counts[c.To]++
		g.collector.RecordConversion(c.To)

		g.host.Convert(c.E, c.To)
		if g.controls.Sound {
			g.host.Play(g.assets.sounds[c.To])
		}
		slog.Debug("conversion",
			"tick", g.tick,
			"entity", c.E,
			"from", c.From.String(),
			"to", c.To.String(),
			"by", c.By,
		)
	}
	g.collector.RecordSkipped(res.Skipped)

	clear(g.dangers)
	for _, d := range res.Dangers {
		g.dangers[d.Actor] = d.Threat
	}

	if len(res.Conversions) > 0 && !g.winner {
		if kind, ok := g.Winner(); ok {
			g.winner = true
			slog.Info("dominance reached", "kind", kind.String(), "tick", g.tick, "agents", g.counts[kind])
		}
	}
}

// containAgents applies boundary containment to every agent.
func (g *Game) containAgents() {
	events := 0

	query := g.agentFilter.Query()
	for query.Next() {
		pos, vel, agent := query.Get()
		if agent.Alive && g.containment.Apply(pos, vel, agent) {
			events++
		}
	}

	g.collector.RecordBoundary(events)
}
