// Package ui draws the arena with raylib and implements the game host on top
// of raylib textures and sounds.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/roshambo/components"
)

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	ArenaBorder    rl.Color
	RegionColor    rl.Color
	ToggleOn       rl.Color
	ToggleOff      rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		ArenaBorder:    rl.Color{R: 70, G: 80, B: 90, A: 255},
		RegionColor:    rl.Color{R: 120, G: 120, B: 200, A: 160},
		ToggleOn:       rl.Color{R: 100, G: 200, B: 100, A: 255},
		ToggleOff:      rl.Color{R: 80, G: 80, B: 80, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     70,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// kindColors tints vision rings, bars and conversion flashes.
var kindColors = [components.NumKinds]rl.Color{
	components.KindRock:     {R: 170, G: 140, B: 110, A: 255},
	components.KindPaper:    {R: 220, G: 220, B: 235, A: 255},
	components.KindScissors: {R: 220, G: 90, B: 90, A: 255},
}

// KindColor returns the display color for kind.
func KindColor(k components.Kind) rl.Color {
	if !k.Valid() {
		return rl.Gray
	}
	return kindColors[k]
}
