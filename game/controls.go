package game

import "github.com/pthm-cable/roshambo/components"

// Controls are the runtime toggles. The simulation reads Paused and Sound;
// the rest only affect drawing.
type Controls struct {
	Paused      bool
	Sound       bool
	ShowRegions bool
	ShowKind    [components.NumKinds]bool
	ShowVision  [components.NumKinds]bool
}

// DefaultControls returns controls with sound on and every kind visible.
func DefaultControls() Controls {
	c := Controls{Sound: true}
	for i := range c.ShowKind {
		c.ShowKind[i] = true
	}
	return c
}

func (c *Controls) TogglePause()   { c.Paused = !c.Paused }
func (c *Controls) ToggleSound()   { c.Sound = !c.Sound }
func (c *Controls) ToggleRegions() { c.ShowRegions = !c.ShowRegions }

// ToggleKind shows or hides agents of kind k.
func (c *Controls) ToggleKind(k components.Kind) {
	if k.Valid() {
		c.ShowKind[k] = !c.ShowKind[k]
	}
}

// ToggleVision shows or hides the vision ring of agents of kind k.
func (c *Controls) ToggleVision(k components.Kind) {
	if k.Valid() {
		c.ShowVision[k] = !c.ShowVision[k]
	}
}
