package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSpatialIndex)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseSteering)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.PhaseAvg[PhaseSpatialIndex] <= 0 {
		t.Error("expected spatial_index phase to be tracked")
	}
	if stats.PhaseAvg[PhaseSteering] <= 0 {
		t.Error("expected steering phase to be tracked")
	}
	if stats.PhaseAvg[PhaseCollisions] != 0 {
		t.Error("collisions phase was never started")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSpatialIndex)
		time.Sleep(10 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
	if stats.MinTickDuration > stats.MaxTickDuration {
		t.Errorf("min %v > max %v", stats.MinTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseBoundary)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseCollisions)
		time.Sleep(500 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	fast := stats.PhasePct[PhaseBoundary]
	slow := stats.PhasePct[PhaseCollisions]
	if slow <= fast {
		t.Errorf("expected collisions (%v%%) > boundary (%v%%)", slow, fast)
	}
	if slow > 100 {
		t.Errorf("phase share %v%% exceeds the tick", slow)
	}

	csv := stats.ToCSV(600)
	if csv.WindowEnd != 600 || csv.CollisionsPct != slow {
		t.Errorf("unexpected csv row %+v", csv)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Error("expected zero stats for empty collector")
	}
}

func TestPhaseString(t *testing.T) {
	if got := PhaseSteering.String(); got != "steering" {
		t.Errorf("PhaseSteering = %q", got)
	}
	if got := Phase(200).String(); got != "unknown" {
		t.Errorf("out of range phase = %q", got)
	}
}
