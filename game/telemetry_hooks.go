package game

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/roshambo/telemetry"
)

// flushTelemetry flushes the stats window when due and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.counts, g.sampleSpeeds())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// sampleSpeeds collects agent speeds for the window distribution.
func (g *Game) sampleSpeeds() []float64 {
	speeds := make([]float64, 0, g.Population())
	query := g.agentFilter.Query()
	for query.Next() {
		_, vel, agent := query.Get()
		if agent.Alive {
			speeds = append(speeds, math.Hypot(vel.X, vel.Y))
		}
	}
	return speeds
}

// Snapshot captures the current simulation state.
func (g *Game) Snapshot() *telemetry.Snapshot {
	s := &telemetry.Snapshot{
		Version:    telemetry.SnapshotVersion,
		Seed:       g.seed,
		Tick:       g.tick,
		HalfWidth:  g.cfg.Derived.HalfWidth,
		HalfHeight: g.cfg.Derived.HalfHeight,
		Regions:    g.regions,
	}

	query := g.agentFilter.Query()
	for query.Next() {
		pos, vel, agent := query.Get()
		if !agent.Alive {
			continue
		}
		s.Agents = append(s.Agents, telemetry.AgentState{
			ID:     query.Entity().ID(),
			Kind:   agent.Kind,
			X:      pos.X,
			Y:      pos.Y,
			VelX:   vel.X,
			VelY:   vel.Y,
			Vision: agent.Vision,
		})
	}
	return s
}

// SaveSnapshot writes the current state to the snapshot directory, or the
// working directory when none is set.
func (g *Game) SaveSnapshot() (string, error) {
	dir := g.snapshotDir
	if dir == "" {
		dir = "."
	}
	return telemetry.SaveSnapshot(g.Snapshot(), dir)
}

func (g *Game) saveSnapshot(bm *telemetry.Bookmark) {
	s := g.Snapshot()
	s.Bookmark = bm
	path, err := telemetry.SaveSnapshot(s, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "bookmark", string(bm.Type))
}
