package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/roshambo/components"
	"github.com/pthm-cable/roshambo/config"
)

// testArena is a small registry plus index for resolver tests.
type testArena struct {
	world  *ecs.World
	mapper *ecs.Map3[components.Position, components.Velocity, components.Agent]
	agents *ecs.Map1[components.Agent]
	index  *KindIndex
}

func newTestArena(t *testing.T) *testArena {
	t.Helper()
	world := ecs.NewWorld()
	ki, err := NewKindIndex(config.BackendKDTree, 0)
	if err != nil {
		t.Fatal(err)
	}
	return &testArena{
		world:  world,
		mapper: ecs.NewMap3[components.Position, components.Velocity, components.Agent](world),
		agents: ecs.NewMap1[components.Agent](world),
		index:  ki,
	}
}

func (a *testArena) spawn(kind components.Kind, x, y, vision float64) ecs.Entity {
	return a.mapper.NewEntity(
		&components.Position{X: x, Y: y},
		&components.Velocity{},
		&components.Agent{Kind: kind, Vision: vision, Alive: true},
	)
}

// rebuild indexes every agent at its current position.
func (a *testArena) rebuild() {
	a.index.Reset()
	filter := ecs.NewFilter2[components.Position, components.Agent](a.world)
	query := filter.Query()
	for query.Next() {
		pos, agent := query.Get()
		a.index.Stage(agent.Kind, query.Entity(), *pos)
	}
	a.index.Commit()
}

func (a *testArena) kind(e ecs.Entity) components.Kind {
	return a.agents.Get(e).Kind
}

func TestResolveConvertsPreyInContact(t *testing.T) {
	a := newTestArena(t)
	rock := a.spawn(components.KindRock, 0, 0, 50)
	scissors := a.spawn(components.KindScissors, 0.5, 0, 50)
	a.rebuild()

	res := NewResolver(a.world, 1.0, false).Resolve(a.index)

	if got := a.kind(scissors); got != components.KindRock {
		t.Fatalf("scissors kind = %v, want rock", got)
	}
	if got := a.kind(rock); got != components.KindRock {
		t.Errorf("rock kind = %v, want rock", got)
	}
	pos := ecs.NewMap1[components.Position](a.world).Get(scissors)
	if pos.X != 0.5 || pos.Y != 0 {
		t.Errorf("converted agent moved to %+v", *pos)
	}
	if len(res.Conversions) != 1 {
		t.Fatalf("conversions = %d, want 1", len(res.Conversions))
	}
	c := res.Conversions[0]
	if c.E != scissors || c.By != rock || c.From != components.KindScissors || c.To != components.KindRock {
		t.Errorf("unexpected conversion record %+v", c)
	}
}

func TestResolveIgnoresDistantPrey(t *testing.T) {
	a := newTestArena(t)
	a.spawn(components.KindRock, 0, 0, 50)
	scissors := a.spawn(components.KindScissors, 1.5, 0, 50)
	a.rebuild()

	res := NewResolver(a.world, 1.0, false).Resolve(a.index)
	if got := a.kind(scissors); got != components.KindScissors {
		t.Errorf("scissors converted from distance 1.5 with contact 1.0")
	}
	if len(res.Conversions) != 0 {
		t.Errorf("conversions = %d, want 0", len(res.Conversions))
	}
}

func TestResolveConvertsTargetOnce(t *testing.T) {
	a := newTestArena(t)
	a.spawn(components.KindRock, -0.3, 0, 50)
	a.spawn(components.KindRock, 0.3, 0, 50)
	target := a.spawn(components.KindScissors, 0, 0, 50)
	a.rebuild()

	res := NewResolver(a.world, 1.0, false).Resolve(a.index)

	converted := 0
	for _, c := range res.Conversions {
		if c.E == target {
			converted++
		}
	}
	if converted != 1 {
		t.Errorf("target converted %d times, want 1", converted)
	}
	if res.Skipped == 0 {
		t.Error("second aggressor's pair should be skipped")
	}
}

func TestResolveThreeWayContact(t *testing.T) {
	a := newTestArena(t)
	rock := a.spawn(components.KindRock, 0, 0, 50)
	paper := a.spawn(components.KindPaper, 0.2, 0, 50)
	scissors := a.spawn(components.KindScissors, 0, 0.2, 50)
	a.rebuild()

	NewResolver(a.world, 1.0, false).Resolve(a.index)

	// Whatever order pairs apply in, no agent converts twice and every
	// surviving kind came from a legal conversion.
	for _, e := range []ecs.Entity{rock, paper, scissors} {
		if !a.kind(e).Valid() {
			t.Errorf("entity %v has invalid kind", e)
		}
	}
}

func TestResolveSkipsRemovedAgents(t *testing.T) {
	a := newTestArena(t)
	a.spawn(components.KindRock, 0, 0, 50)
	scissors := a.spawn(components.KindScissors, 0.5, 0, 50)
	a.rebuild()

	// The index still holds the removed entity.
	a.world.RemoveEntity(scissors)

	res := NewResolver(a.world, 1.0, false).Resolve(a.index)
	if len(res.Conversions) != 0 {
		t.Errorf("conversions = %d, want 0", len(res.Conversions))
	}
	if res.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", res.Skipped)
	}
}

func TestResolveChecksLivePositions(t *testing.T) {
	a := newTestArena(t)
	a.spawn(components.KindRock, 0, 0, 50)
	scissors := a.spawn(components.KindScissors, 0.5, 0, 50)
	a.rebuild()

	// Moved away after the index was built.
	ecs.NewMap1[components.Position](a.world).Get(scissors).X = 1.8

	NewResolver(a.world, 1.0, false).Resolve(a.index)
	if got := a.kind(scissors); got != components.KindScissors {
		t.Errorf("stale index position caused conversion")
	}
}

func TestResolveLeavesNoContactBehind(t *testing.T) {
	const contact = 3.0
	rng := rand.New(rand.NewSource(7))
	a := newTestArena(t)

	var entities []ecs.Entity
	before := map[ecs.Entity]components.Kind{}
	for i := 0; i < 150; i++ {
		kind := components.AllKinds[rng.Intn(components.NumKinds)]
		e := a.spawn(kind, rng.Float64()*40, rng.Float64()*40, 50)
		entities = append(entities, e)
		before[e] = kind
	}
	a.rebuild()

	res := NewResolver(a.world, contact, false).Resolve(a.index)
	if len(res.Conversions) == 0 {
		t.Fatal("expected at least one conversion in a dense population")
	}

	converted := map[ecs.Entity]bool{}
	for _, c := range res.Conversions {
		converted[c.E] = true
	}

	// Every contact present at the start of the pass was resolved, unless the
	// aggressor itself was converted first.
	posMap := ecs.NewMap1[components.Position](a.world)
	for _, x := range entities {
		for _, y := range entities {
			if x == y || !before[x].Beats(before[y]) {
				continue
			}
			if distanceSq(*posMap.Get(x), *posMap.Get(y)) > contact*contact {
				continue
			}
			if !converted[y] && !converted[x] {
				t.Errorf("%v at %+v left %v at %+v unresolved",
					before[x], *posMap.Get(x), before[y], *posMap.Get(y))
			}
		}
	}
}

func TestResolveEmitsDangerEvents(t *testing.T) {
	a := newTestArena(t)
	paper := a.spawn(components.KindPaper, 0, 0, 50)
	near := a.spawn(components.KindScissors, 10, 0, 50)
	a.spawn(components.KindScissors, 20, 0, 50)
	a.spawn(components.KindScissors, 80, 0, 50) // outside vision
	a.rebuild()

	res := NewResolver(a.world, 1.0, true).Resolve(a.index)

	var found bool
	for _, d := range res.Dangers {
		if d.Actor == paper {
			if found {
				t.Error("more than one danger event for one actor")
			}
			found = true
			if d.Threat != near {
				t.Errorf("threat = %v, want nearest scissors %v", d.Threat, near)
			}
		}
	}
	if !found {
		t.Error("no danger event for paper")
	}

	if res := NewResolver(a.world, 1.0, false).Resolve(a.index); len(res.Dangers) != 0 {
		t.Errorf("danger events emitted while disabled: %d", len(res.Dangers))
	}
}
