package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/roshambo/components"
)

// CollisionPair is an aggressor in inner contact with an agent of its prey kind.
type CollisionPair struct {
	Aggressor ecs.Entity
	Target    ecs.Entity
}

// DangerEvent reports a predator inside an agent's outer sensor.
type DangerEvent struct {
	Actor  ecs.Entity
	Threat ecs.Entity
}

// Conversion records one applied kind change.
type Conversion struct {
	E    ecs.Entity
	From components.Kind
	To   components.Kind
	By   ecs.Entity
}

// ResolveResult holds the outcome of one resolver pass. Slices are reused by
// the next pass.
type ResolveResult struct {
	Pairs       []CollisionPair
	Conversions []Conversion
	Dangers     []DangerEvent
	Skipped     int // pairs dropped as stale
}

// Resolver detects inner contacts (conversion) and outer sensor contacts
// (danger) against the spatial index and applies conversions in a single
// serial pass.
type Resolver struct {
	world    *ecs.World
	filter   *ecs.Filter2[components.Position, components.Agent]
	posMap   *ecs.Map1[components.Position]
	agentMap *ecs.Map1[components.Agent]

	contact    float64
	contactSq  float64
	slack      float64 // index query radius multiplier, covers stale positions
	emitDanger bool
	result     ResolveResult
	converted  map[ecs.Entity]struct{}
	scratch    []Entry
}

// NewResolver creates a resolver over the world's agents.
// contactDist is the inner contact threshold; emitDanger enables outer sensor events.
func NewResolver(world *ecs.World, contactDist float64, emitDanger bool) *Resolver {
	return &Resolver{
		world:      world,
		filter:     ecs.NewFilter2[components.Position, components.Agent](world),
		posMap:     ecs.NewMap1[components.Position](world),
		agentMap:   ecs.NewMap1[components.Agent](world),
		contact:    contactDist,
		contactSq:  contactDist * contactDist,
		slack:      2,
		emitDanger: emitDanger,
		converted:  make(map[ecs.Entity]struct{}),
	}
}

// Resolve runs one pass. Candidate pairs come from the index; each is checked
// against live registry state when applied, so a target converts at most once
// per pass and pairs whose agents changed or vanished are skipped.
func (r *Resolver) Resolve(index *KindIndex) *ResolveResult {
	res := &r.result
	res.Pairs = res.Pairs[:0]
	res.Conversions = res.Conversions[:0]
	res.Dangers = res.Dangers[:0]
	res.Skipped = 0
	clear(r.converted)

	query := r.filter.Query()
	for query.Next() {
		e := query.Entity()
		pos, agent := query.Get()
		if !agent.Alive {
			continue
		}

		r.scratch = r.scratch[:0]
		if prey := agent.Kind.Prey(); index.Len(prey) > 0 {
			r.scratch = index.QueryWithin(r.scratch, prey, *pos, r.contact*r.slack)
		}
		for _, cand := range r.scratch {
			if cand.E == e {
				continue
			}
			// Out of contact at live positions: not a pair. Removed targets
			// stay in so apply can count them as stale.
			if r.world.Alive(cand.E) && distanceSq(*pos, *r.posMap.Get(cand.E)) > r.contactSq {
				continue
			}
			res.Pairs = append(res.Pairs, CollisionPair{Aggressor: e, Target: cand.E})
		}

		if r.emitDanger {
			var threat Entry
			var ok bool
			threat, ok, r.scratch = NearestThreat(index, agent.Kind, *pos, agent.Vision, r.scratch)
			if ok && threat.E != e {
				res.Dangers = append(res.Dangers, DangerEvent{Actor: e, Threat: threat.E})
			}
		}
	}

	for _, pair := range res.Pairs {
		if c, ok := r.apply(pair); ok {
			res.Conversions = append(res.Conversions, c)
		} else {
			res.Skipped++
		}
	}

	return res
}

// apply converts the pair's target if the contact still holds.
func (r *Resolver) apply(pair CollisionPair) (Conversion, bool) {
	if _, done := r.converted[pair.Target]; done {
		return Conversion{}, false
	}
	if !r.world.Alive(pair.Aggressor) || !r.world.Alive(pair.Target) {
		return Conversion{}, false
	}

	aggressor := r.agentMap.Get(pair.Aggressor)
	target := r.agentMap.Get(pair.Target)
	aPos := r.posMap.Get(pair.Aggressor)
	tPos := r.posMap.Get(pair.Target)
	if aggressor == nil || target == nil || aPos == nil || tPos == nil {
		return Conversion{}, false
	}
	if !aggressor.Alive || !target.Alive || !aggressor.Kind.Beats(target.Kind) {
		return Conversion{}, false
	}
	if distanceSq(*aPos, *tPos) > r.contactSq {
		return Conversion{}, false
	}

	from := target.Kind
	if !target.Convert(aggressor.Kind) {
		return Conversion{}, false
	}
	r.converted[pair.Target] = struct{}{}

	return Conversion{E: pair.Target, From: from, To: target.Kind, By: pair.Aggressor}, true
}
