// Package components defines ECS components for the simulation.
package components

import "fmt"

// Kind is one of the three agent kinds.
type Kind uint8

const (
	KindRock Kind = iota
	KindPaper
	KindScissors

	NumKinds = 3
)

type kindInfo struct {
	name     string
	prey     Kind
	predator Kind
	image    string
	sound    string
}

// kinds is the dominance table: Rock beats Scissors, Paper beats Rock,
// Scissors beats Paper.
var kinds = [NumKinds]kindInfo{
	KindRock:     {name: "rock", prey: KindScissors, predator: KindPaper, image: "sprites/rock.png", sound: "sounds/rock.ogg"},
	KindPaper:    {name: "paper", prey: KindRock, predator: KindScissors, image: "sprites/paper.png", sound: "sounds/paper.ogg"},
	KindScissors: {name: "scissors", prey: KindPaper, predator: KindRock, image: "sprites/scissors.png", sound: "sounds/scissors.ogg"},
}

// AllKinds lists every kind in table order.
var AllKinds = [NumKinds]Kind{KindRock, KindPaper, KindScissors}

// Prey returns the kind that k converts on contact.
func (k Kind) Prey() Kind { return kinds[k].prey }

// Predator returns the kind that converts k on contact.
func (k Kind) Predator() Kind { return kinds[k].predator }

// Beats reports whether k converts other on contact.
func (k Kind) Beats(other Kind) bool { return kinds[k].prey == other }

// Image returns the sprite asset name for k.
func (k Kind) Image() string { return kinds[k].image }

// Sound returns the conversion sound asset name for k.
func (k Kind) Sound() string { return kinds[k].sound }

// Valid reports whether k is one of the three kinds.
func (k Kind) Valid() bool { return k < NumKinds }

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kinds[k].name
}

// ParseKind parses a kind name as produced by String.
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds {
		if kinds[k].name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}
