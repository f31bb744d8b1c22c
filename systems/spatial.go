// Package systems provides the spatial interaction core: per-kind spatial
// indexes, steering, contact resolution, boundary containment and spawn regions.
package systems

import (
	"fmt"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/roshambo/components"
	"github.com/pthm-cable/roshambo/config"
)

// Entry is one indexed agent: its position as of the last rebuild and its identity.
type Entry struct {
	Pos components.Position
	E   ecs.Entity
}

// Index is a point set supporting nearest and radius queries.
// Implementations are read-only between rebuilds and safe for concurrent queries.
type Index interface {
	// Rebuild replaces the indexed points. The index may retain entries.
	Rebuild(entries []Entry)
	// Nearest returns the closest entry to p, or false if the index is empty.
	Nearest(p components.Position) (Entry, bool)
	// Within appends every entry within radius of p to dst, in no particular order.
	Within(dst []Entry, p components.Position, radius float64) []Entry
	Len() int
}

// NewIndex creates an empty index for the named backend.
func NewIndex(backend string, cellSize float64) (Index, error) {
	switch backend {
	case config.BackendKDTree:
		return &KDIndex{}, nil
	case config.BackendQuadtree:
		return &QuadIndex{}, nil
	case config.BackendGrid:
		if cellSize <= 0 {
			return nil, fmt.Errorf("grid cell size must be positive, got %v", cellSize)
		}
		return NewSpatialGrid(cellSize), nil
	default:
		return nil, fmt.Errorf("unknown spatial backend %q", backend)
	}
}

// KindIndex keeps one index per kind.
type KindIndex struct {
	byKind  [components.NumKinds]Index
	scratch [components.NumKinds][]Entry
}

// NewKindIndex creates one empty index per kind using the given backend.
func NewKindIndex(backend string, cellSize float64) (*KindIndex, error) {
	ki := &KindIndex{}
	for _, k := range components.AllKinds {
		idx, err := NewIndex(backend, cellSize)
		if err != nil {
			return nil, err
		}
		ki.byKind[k] = idx
	}
	return ki, nil
}

// Reset clears the staged entries ahead of a rebuild.
func (ki *KindIndex) Reset() {
	for k := range ki.scratch {
		ki.scratch[k] = ki.scratch[k][:0]
	}
}

// Stage queues an agent for the next Commit.
func (ki *KindIndex) Stage(kind components.Kind, e ecs.Entity, p components.Position) {
	ki.scratch[kind] = append(ki.scratch[kind], Entry{Pos: p, E: e})
}

// Commit rebuilds every per-kind index from the staged entries.
func (ki *KindIndex) Commit() {
	for k, idx := range ki.byKind {
		// Backends may keep the slice, so hand over a copy.
		entries := make([]Entry, len(ki.scratch[k]))
		copy(entries, ki.scratch[k])
		idx.Rebuild(entries)
	}
}

// QueryNearest returns the closest agent of kind to p.
func (ki *KindIndex) QueryNearest(kind components.Kind, p components.Position) (Entry, bool) {
	return ki.byKind[kind].Nearest(p)
}

// QueryWithin appends agents of kind within radius of p to dst.
// The querying agent is included if it is of that kind.
func (ki *KindIndex) QueryWithin(dst []Entry, kind components.Kind, p components.Position, radius float64) []Entry {
	return ki.byKind[kind].Within(dst, p, radius)
}

// Len returns the number of indexed agents of kind.
func (ki *KindIndex) Len(kind components.Kind) int {
	return ki.byKind[kind].Len()
}

// SpatialGrid is a uniform cell grid sized to the bounds of its last rebuild.
type SpatialGrid struct {
	cellSize   float64
	cols, rows int
	minX, minY float64
	cells      [][]Entry
	count      int
}

// NewSpatialGrid creates an empty grid with the given cell size.
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	return &SpatialGrid{cellSize: cellSize}
}

// Rebuild re-buckets all entries.
func (g *SpatialGrid) Rebuild(entries []Entry) {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.count = len(entries)
	if len(entries) == 0 {
		return
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, e := range entries {
		minX = math.Min(minX, e.Pos.X)
		minY = math.Min(minY, e.Pos.Y)
		maxX = math.Max(maxX, e.Pos.X)
		maxY = math.Max(maxY, e.Pos.Y)
	}

	g.minX, g.minY = minX, minY
	g.cols = int((maxX-minX)/g.cellSize) + 1
	g.rows = int((maxY-minY)/g.cellSize) + 1

	n := g.cols * g.rows
	if cap(g.cells) < n {
		g.cells = make([][]Entry, n)
	}
	g.cells = g.cells[:n]
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}

	for _, e := range entries {
		col, row := g.cellCoords(e.Pos)
		idx := row*g.cols + col
		g.cells[idx] = append(g.cells[idx], e)
	}
}

// Len returns the number of indexed entries.
func (g *SpatialGrid) Len() int {
	return g.count
}

// Within appends entries within radius of p to dst.
func (g *SpatialGrid) Within(dst []Entry, p components.Position, radius float64) []Entry {
	if g.count == 0 {
		return dst
	}

	radiusSq := radius * radius
	c0, r0 := g.cellCoords(components.Position{X: p.X - radius, Y: p.Y - radius})
	c1, r1 := g.cellCoords(components.Position{X: p.X + radius, Y: p.Y + radius})

	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			for _, e := range g.cells[row*g.cols+col] {
				if distanceSq(p, e.Pos) <= radiusSq {
					dst = append(dst, e)
				}
			}
		}
	}

	return dst
}

// Nearest searches rings of cells outward from p's cell until no unvisited
// ring can hold a closer entry.
func (g *SpatialGrid) Nearest(p components.Position) (Entry, bool) {
	if g.count == 0 {
		return Entry{}, false
	}

	col, row := g.cellCoords(p)
	outside := g.outsideDistance(p)

	var best Entry
	bestSq := math.Inf(1)
	maxRing := max(g.cols, g.rows)

	for ring := 0; ring <= maxRing; ring++ {
		for dr := -ring; dr <= ring; dr++ {
			for dc := -ring; dc <= ring; dc++ {
				if max(abs(dr), abs(dc)) != ring {
					continue
				}
				c, r := col+dc, row+dr
				if c < 0 || c >= g.cols || r < 0 || r >= g.rows {
					continue
				}
				for _, e := range g.cells[r*g.cols+c] {
					if d := distanceSq(p, e.Pos); d < bestSq {
						best, bestSq = e, d
					}
				}
			}
		}
		// Anything in ring+1 or beyond is at least ring*cellSize away along
		// one axis and at least outside away along the other.
		reach := float64(ring) * g.cellSize
		if !math.IsInf(bestSq, 1) && reach*reach+outside*outside >= bestSq {
			break
		}
	}

	return best, true
}

// cellCoords returns the clamped cell column and row for a position.
func (g *SpatialGrid) cellCoords(p components.Position) (col, row int) {
	col = int((p.X - g.minX) / g.cellSize)
	row = int((p.Y - g.minY) / g.cellSize)

	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}

// outsideDistance is how far p lies outside the grid bounds along its worst axis.
func (g *SpatialGrid) outsideDistance(p components.Position) float64 {
	maxX := g.minX + float64(g.cols)*g.cellSize
	maxY := g.minY + float64(g.rows)*g.cellSize
	var d float64
	if p.X < g.minX {
		d = math.Max(d, g.minX-p.X)
	} else if p.X > maxX {
		d = math.Max(d, p.X-maxX)
	}
	if p.Y < g.minY {
		d = math.Max(d, g.minY-p.Y)
	} else if p.Y > maxY {
		d = math.Max(d, p.Y-maxY)
	}
	return d
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
