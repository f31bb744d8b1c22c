package systems

import (
	"log/slog"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"

	"github.com/pthm-cable/roshambo/components"
)

// quadPoint adapts an Entry to orb.Pointer.
type quadPoint Entry

func (q quadPoint) Point() orb.Point { return orb.Point{q.Pos.X, q.Pos.Y} }

// QuadIndex is a point quadtree bounded by the extent of its last rebuild.
type QuadIndex struct {
	tree *quadtree.Quadtree
	n    int
}

// Rebuild inserts entries into a quadtree covering exactly their extent.
func (q *QuadIndex) Rebuild(entries []Entry) {
	q.n = 0
	if len(entries) == 0 {
		q.tree = nil
		return
	}

	points := make(orb.MultiPoint, len(entries))
	for i, e := range entries {
		points[i] = orb.Point{e.Pos.X, e.Pos.Y}
	}
	q.tree = quadtree.New(points.Bound().Pad(1))

	for _, e := range entries {
		if err := q.tree.Add(quadPoint(e)); err != nil {
			// Unreachable for a bound built from the same points.
			slog.Warn("quadtree insert failed", "entity", e.E, "error", err)
			continue
		}
		q.n++
	}
}

// Len returns the number of indexed entries.
func (q *QuadIndex) Len() int {
	return q.n
}

// Nearest returns the closest entry to p.
func (q *QuadIndex) Nearest(p components.Position) (Entry, bool) {
	if q.tree == nil {
		return Entry{}, false
	}
	found := q.tree.Find(orb.Point{p.X, p.Y})
	if found == nil {
		return Entry{}, false
	}
	return Entry(found.(quadPoint)), true
}

// Within appends entries within radius of p to dst. The square bound query is
// refined to the disc.
func (q *QuadIndex) Within(dst []Entry, p components.Position, radius float64) []Entry {
	if q.tree == nil || radius < 0 {
		return dst
	}
	bound := orb.Bound{
		Min: orb.Point{p.X - radius, p.Y - radius},
		Max: orb.Point{p.X + radius, p.Y + radius},
	}
	found := q.tree.InBound(nil, bound)
	radiusSq := radius * radius
	for _, f := range found {
		e := Entry(f.(quadPoint))
		if distanceSq(p, e.Pos) <= radiusSq {
			dst = append(dst, e)
		}
	}
	return dst
}
