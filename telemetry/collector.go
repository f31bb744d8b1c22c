// Package telemetry provides window statistics, performance tracking, bookmarks and snapshots.
package telemetry

import "github.com/pthm-cable/roshambo/components"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	windowStartTick int32

	// Event counters for current window
	wins           [components.NumKinds]int
	skippedPairs   int
	dangerEvents   int
	boundaryEvents int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordConversion records an agent converted to kind to.
func (c *Collector) RecordConversion(to components.Kind) {
	if to.Valid() {
		c.wins[to]++
	}
}

// RecordSkipped records candidate pairs dropped as stale.
func (c *Collector) RecordSkipped(n int) {
	c.skippedPairs += n
}

// RecordDangers records danger events from one resolver pass.
func (c *Collector) RecordDangers(n int) {
	c.dangerEvents += n
}

// RecordBoundary records containment events from one tick.
func (c *Collector) RecordBoundary(n int) {
	c.boundaryEvents += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// counts is the population per kind at currentTick; speeds are agent speeds
// sampled at the same time.
func (c *Collector) Flush(currentTick int32, counts [components.NumKinds]int, speeds []float64) WindowStats {
	speedMean, speedP10, speedP50, speedP90 := ComputeDistStats(speeds)

	kindsAlive := 0
	for _, n := range counts {
		if n > 0 {
			kindsAlive++
		}
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Rock:     counts[components.KindRock],
		Paper:    counts[components.KindPaper],
		Scissors: counts[components.KindScissors],

		Conversions:  c.wins[components.KindRock] + c.wins[components.KindPaper] + c.wins[components.KindScissors],
		RockWins:     c.wins[components.KindRock],
		PaperWins:    c.wins[components.KindPaper],
		ScissorsWins: c.wins[components.KindScissors],
		SkippedPairs: c.skippedPairs,

		DangerEvents:   c.dangerEvents,
		BoundaryEvents: c.boundaryEvents,

		SpeedMean: speedMean,
		SpeedP10:  speedP10,
		SpeedP50:  speedP50,
		SpeedP90:  speedP90,

		KindsAlive: kindsAlive,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.wins = [components.NumKinds]int{}
	c.skippedPairs = 0
	c.dangerEvents = 0
	c.boundaryEvents = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
