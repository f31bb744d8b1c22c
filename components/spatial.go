package components

// Position represents an agent's arena position. The arena is centred on the origin.
type Position struct {
	X, Y float64
}

// Velocity represents an agent's velocity in units per second.
type Velocity struct {
	X, Y float64
}
