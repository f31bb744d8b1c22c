package components

// Bounce axes recorded by reflect-only containment.
const (
	BounceX uint8 = 1 << iota
	BounceY
)

// Agent holds the rock-paper-scissors state of an entity.
type Agent struct {
	Kind   Kind
	Vision float64 // outer sensor radius
	Alive  bool
	Bounce uint8 // axes reflected since the agent last stood inside the arena
}

// Convert changes the agent's kind in place. Converting to the current kind is
// a no-op and reports false.
func (a *Agent) Convert(to Kind) bool {
	if a.Kind == to {
		return false
	}
	a.Kind = to
	return true
}
