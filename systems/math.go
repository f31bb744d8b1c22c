package systems

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/roshambo/components"
)

// vec converts a position to an r2 vector.
func vec(p components.Position) r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// distanceSq returns the squared distance between two positions.
func distanceSq(a, b components.Position) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// direction returns the unit vector from 'from' towards 'to'.
// Coincident points yield the zero vector rather than NaN.
func direction(from, to components.Position) r2.Vec {
	d := r2.Sub(vec(to), vec(from))
	n := r2.Norm(d)
	if n == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/n, d)
}

// uniform returns a sample in [lo, hi). Empty ranges collapse to lo.
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

// sign returns -1 for negative values and 1 otherwise.
func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
