package game

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/roshambo/systems"
)

// workerScratch holds per-worker reusable buffers.
type workerScratch struct {
	entries []systems.Entry
}

// workChunk represents a range of snapshots for a worker to process.
type workChunk struct {
	start, end int
}

// parallelState holds resources for parallel steering.
// Below threshold agents, single-threaded is faster than dispatching.
type parallelState struct {
	threshold  int
	snapshots  []systems.Snapshot
	intents    []systems.Intent
	scratches  []workerScratch
	numWorkers int

	// Worker pool channels
	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newParallelState(threshold int) *parallelState {
	numWorkers := runtime.GOMAXPROCS(0)
	scratches := make([]workerScratch, numWorkers)
	for i := range scratches {
		scratches[i].entries = make([]systems.Entry, 0, 32)
	}
	return &parallelState{
		threshold:  threshold,
		numWorkers: numWorkers,
		scratches:  scratches,
		snapshots:  make([]systems.Snapshot, 0, 64),
		intents:    make([]systems.Intent, 0, 64),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(g *Game) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(g, i)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *parallelState) worker(g *Game, workerID int) {
	defer p.wg.Done()
	scratch := &p.scratches[workerID]

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			g.computeChunk(chunk.start, chunk.end, scratch)
			p.doneChan <- struct{}{}
		}
	}
}

// updateSteering snapshots every agent, computes intents (in parallel above
// the threshold) against the read-only index, then applies them in order.
func (g *Game) updateSteering() {
	p := g.parallel
	jitter := g.cfg.Steering.Jitter

	// Phase A: snapshots (single-threaded; draws all randomness)
	p.snapshots = p.snapshots[:0]
	query := g.agentFilter.Query()
	for query.Next() {
		pos, vel, agent := query.Get()
		if !agent.Alive {
			continue
		}
		snap := systems.Snapshot{
			E:      query.Entity(),
			Kind:   agent.Kind,
			Pos:    *pos,
			Vel:    *vel,
			Vision: agent.Vision,
			Bounce: agent.Bounce,
			Jitter: r2.Vec{X: g.uniform(-jitter, jitter), Y: g.uniform(-jitter, jitter)},
		}
		if !g.steering.QueryDanger {
			g.lookupThreat(&snap)
		}
		p.snapshots = append(p.snapshots, snap)
	}

	n := len(p.snapshots)
	if n == 0 {
		return
	}
	if cap(p.intents) < n {
		p.intents = make([]systems.Intent, n)
	}
	p.intents = p.intents[:n]

	// Phase B: compute
	if n < p.threshold || p.numWorkers < 2 {
		g.computeChunk(0, n, &p.scratches[0])
	} else {
		g.computeParallel(n)
	}

	// Phase C: apply (single-threaded, preserves determinism)
	g.applyIntents()
}

// lookupThreat fills the snapshot's threat from the last danger events,
// skipping threats that vanished or stopped being this agent's predator.
func (g *Game) lookupThreat(snap *systems.Snapshot) {
	threat, ok := g.dangers[snap.E]
	if !ok || !g.world.Alive(threat) {
		return
	}
	agent := g.agentMap.Get(threat)
	pos := g.posMap.Get(threat)
	if agent == nil || pos == nil || agent.Kind != snap.Kind.Predator() {
		return
	}
	snap.Threat = *pos
	snap.HasThreat = true
}

// computeParallel dispatches work to the worker pool.
func (g *Game) computeParallel(n int) {
	p := g.parallel
	if !p.running {
		p.startWorkers(g)
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}

// computeChunk steers snapshots [i0, i1). Workers write only their own intent slots.
func (g *Game) computeChunk(i0, i1 int, scratch *workerScratch) {
	p := g.parallel
	for i := i0; i < i1; i++ {
		p.intents[i], scratch.entries = systems.Steer(&g.steering, g.index, &p.snapshots[i], scratch.entries)
	}
}

// applyIntents writes computed results back to the registry.
func (g *Game) applyIntents() {
	p := g.parallel
	fleeing := 0
	for i := range p.snapshots {
		snap := &p.snapshots[i]
		intent := &p.intents[i]

		pos := g.posMap.Get(snap.E)
		vel := g.velMap.Get(snap.E)
		if pos == nil || vel == nil {
			continue
		}
		*pos = intent.Pos
		*vel = intent.Vel
		if intent.Fleeing {
			fleeing++
		}
	}
	g.collector.RecordDangers(fleeing)
}
