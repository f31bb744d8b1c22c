package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/pthm-cable/roshambo/components"
)

// kdPoint adapts an Entry to kdtree.Comparable.
type kdPoint Entry

// Compare returns the signed distance of p from the plane through c along d.
func (p kdPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(kdPoint)
	if d == 0 {
		return p.Pos.X - q.Pos.X
	}
	return p.Pos.Y - q.Pos.Y
}

// Dims returns the number of dimensions.
func (p kdPoint) Dims() int { return 2 }

// Distance returns the squared Euclidean distance.
func (p kdPoint) Distance(c kdtree.Comparable) float64 {
	return distanceSq(p.Pos, c.(kdPoint).Pos)
}

// kdPoints is the kdtree.Interface collection of entries.
type kdPoints []kdPoint

func (p kdPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p kdPoints) Len() int                      { return len(p) }
func (p kdPoints) Pivot(d kdtree.Dim) int        { return kdPlane{kdPoints: p, Dim: d}.Pivot() }
func (p kdPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}

// kdPlane sorts entries along one dimension for median partitioning.
type kdPlane struct {
	kdtree.Dim
	kdPoints
}

func (p kdPlane) Less(i, j int) bool {
	if p.Dim == 0 {
		return p.kdPoints[i].Pos.X < p.kdPoints[j].Pos.X
	}
	return p.kdPoints[i].Pos.Y < p.kdPoints[j].Pos.Y
}
func (p kdPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.kdPoints = p.kdPoints[start:end]
	return p
}
func (p kdPlane) Swap(i, j int) {
	p.kdPoints[i], p.kdPoints[j] = p.kdPoints[j], p.kdPoints[i]
}

// KDIndex is a static 2-d tree rebuilt wholesale.
type KDIndex struct {
	tree *kdtree.Tree
	n    int
}

// Rebuild builds a balanced tree over entries.
func (k *KDIndex) Rebuild(entries []Entry) {
	k.n = len(entries)
	if len(entries) == 0 {
		k.tree = nil
		return
	}
	pts := make(kdPoints, len(entries))
	for i, e := range entries {
		pts[i] = kdPoint(e)
	}
	k.tree = kdtree.New(pts, false)
}

// Len returns the number of indexed entries.
func (k *KDIndex) Len() int {
	return k.n
}

// Nearest returns the closest entry to p.
func (k *KDIndex) Nearest(p components.Position) (Entry, bool) {
	if k.tree == nil {
		return Entry{}, false
	}
	c, _ := k.tree.Nearest(kdPoint{Pos: p})
	if c == nil {
		return Entry{}, false
	}
	return Entry(c.(kdPoint)), true
}

// Within appends entries within radius of p to dst.
func (k *KDIndex) Within(dst []Entry, p components.Position, radius float64) []Entry {
	if k.tree == nil || radius < 0 || math.IsNaN(radius) {
		return dst
	}
	keep := kdtree.NewDistKeeper(radius * radius)
	k.tree.NearestSet(keep, kdPoint{Pos: p})
	for _, cd := range keep.Heap {
		// The keeper may retain its sentinel, which carries no point.
		if cd.Comparable == nil {
			continue
		}
		dst = append(dst, Entry(cd.Comparable.(kdPoint)))
	}
	return dst
}
