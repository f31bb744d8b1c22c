package ui

import (
	"fmt"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/roshambo/components"
	"github.com/pthm-cable/roshambo/game"
)

// flashFrames is how many frames a freshly converted agent is outlined.
const flashFrames = 20

// Host implements game.Host with raylib textures and sounds. It needs an
// initialized window and audio device.
type Host struct {
	root     string
	textures []rl.Texture2D
	sounds   []rl.Sound

	// Frames left to outline recently converted agents.
	flashes map[ecs.Entity]int
}

// NewHost creates a host resolving asset names under root.
func NewHost(root string) *Host {
	return &Host{
		root:    root,
		flashes: make(map[ecs.Entity]int),
	}
}

func (h *Host) resolve(name string) (string, error) {
	path := filepath.Join(h.root, name)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

// LoadImage loads a texture. Handles start at 1.
func (h *Host) LoadImage(name string) (game.ImageHandle, error) {
	path, err := h.resolve(name)
	if err != nil {
		return 0, err
	}
	tex := rl.LoadTexture(path)
	if tex.ID == 0 {
		return 0, fmt.Errorf("raylib could not load texture %s", path)
	}
	rl.SetTextureFilter(tex, rl.FilterBilinear)
	h.textures = append(h.textures, tex)
	return game.ImageHandle(len(h.textures)), nil
}

// LoadSound loads a sound. Handles start at 1.
func (h *Host) LoadSound(name string) (game.SoundHandle, error) {
	path, err := h.resolve(name)
	if err != nil {
		return 0, err
	}
	snd := rl.LoadSound(path)
	if snd.FrameCount == 0 {
		return 0, fmt.Errorf("raylib could not load sound %s", path)
	}
	h.sounds = append(h.sounds, snd)
	return game.SoundHandle(len(h.sounds)), nil
}

func (h *Host) Play(sound game.SoundHandle) {
	if i := int(sound) - 1; i >= 0 && i < len(h.sounds) {
		rl.PlaySound(h.sounds[i])
	}
}

func (h *Host) Spawn(ecs.Entity, components.Kind, components.Position) {}

func (h *Host) Convert(e ecs.Entity, _ components.Kind) {
	h.flashes[e] = flashFrames
}

func (h *Host) Viewport() (int, int) {
	return rl.GetScreenWidth(), rl.GetScreenHeight()
}

// Texture returns the texture for handle, or false for an unknown handle.
func (h *Host) Texture(handle game.ImageHandle) (rl.Texture2D, bool) {
	i := int(handle) - 1
	if i < 0 || i >= len(h.textures) {
		return rl.Texture2D{}, false
	}
	return h.textures[i], true
}

// flash reports frames left for e's conversion outline.
func (h *Host) flash(e ecs.Entity) int {
	return h.flashes[e]
}

// ageFlashes counts every outline down by one frame.
func (h *Host) ageFlashes() {
	for e, n := range h.flashes {
		if n <= 1 {
			delete(h.flashes, e)
			continue
		}
		h.flashes[e] = n - 1
	}
}

// Unload releases every texture and sound.
func (h *Host) Unload() {
	for _, tex := range h.textures {
		rl.UnloadTexture(tex)
	}
	for _, snd := range h.sounds {
		rl.UnloadSound(snd)
	}
	h.textures = nil
	h.sounds = nil
}
