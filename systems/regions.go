package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/roshambo/components"
)

// Region is a spawn disc.
type Region struct {
	X, Y   float64
	Radius float64
}

// GenerateRegions samples count disc centres uniformly inside the arena inset
// by radius. Regions may overlap.
func GenerateRegions(rng *rand.Rand, halfWidth, halfHeight float64, count int, radius float64) []Region {
	insetW := math.Max(halfWidth-radius, 0)
	insetH := math.Max(halfHeight-radius, 0)
	count = max(count, 0)

	regions := make([]Region, 0, count)
	for i := 0; i < count; i++ {
		regions = append(regions, Region{
			X:      uniform(rng, -insetW, insetW),
			Y:      uniform(rng, -insetH, insetH),
			Radius: radius,
		})
	}
	return regions
}

// Sample returns a uniformly distributed point inside the disc, clamped to the arena.
func (r Region) Sample(rng *rand.Rand, halfWidth, halfHeight float64) components.Position {
	angle := rng.Float64() * 2 * math.Pi
	dist := r.Radius * math.Sqrt(rng.Float64())
	return components.Position{
		X: clamp(r.X+dist*math.Cos(angle), -halfWidth, halfWidth),
		Y: clamp(r.Y+dist*math.Sin(angle), -halfHeight, halfHeight),
	}
}
