package game

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/roshambo/components"
)

// ImageHandle identifies an image loaded by a Host.
type ImageHandle uint32

// SoundHandle identifies a sound loaded by a Host.
type SoundHandle uint32

// Host is the presentation side of the simulation. Asset names are relative
// paths such as "sprites/rock.png"; resolving them is up to the host.
type Host interface {
	LoadImage(name string) (ImageHandle, error)
	LoadSound(name string) (SoundHandle, error)
	Play(sound SoundHandle)

	// Spawn and Convert mirror registry changes.
	Spawn(e ecs.Entity, kind components.Kind, pos components.Position)
	Convert(e ecs.Entity, kind components.Kind)

	// Viewport returns the drawable size the arena is derived from.
	Viewport() (width, height int)
}

// HeadlessHost is a Host with no side effects.
type HeadlessHost struct {
	width, height int
	next          uint32
}

// NewHeadlessHost returns a host reporting the given viewport.
func NewHeadlessHost(width, height int) *HeadlessHost {
	return &HeadlessHost{width: width, height: height}
}

func (h *HeadlessHost) LoadImage(string) (ImageHandle, error) {
	h.next++
	return ImageHandle(h.next), nil
}

func (h *HeadlessHost) LoadSound(string) (SoundHandle, error) {
	h.next++
	return SoundHandle(h.next), nil
}

func (h *HeadlessHost) Play(SoundHandle)                                       {}
func (h *HeadlessHost) Spawn(ecs.Entity, components.Kind, components.Position) {}
func (h *HeadlessHost) Convert(ecs.Entity, components.Kind)                    {}

func (h *HeadlessHost) Viewport() (int, int) {
	return h.width, h.height
}

// assets holds the per-kind handles loaded at startup.
type assets struct {
	images [components.NumKinds]ImageHandle
	sounds [components.NumKinds]SoundHandle
}

func (a *assets) load(host Host) error {
	for _, k := range components.AllKinds {
		img, err := host.LoadImage(k.Image())
		if err != nil {
			return fmt.Errorf("loading %s image: %w", k, err)
		}
		snd, err := host.LoadSound(k.Sound())
		if err != nil {
			return fmt.Errorf("loading %s sound: %w", k, err)
		}
		a.images[k] = img
		a.sounds[k] = snd
	}
	return nil
}
