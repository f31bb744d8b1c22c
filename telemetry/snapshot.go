package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/pthm-cable/roshambo/components"
	"github.com/pthm-cable/roshambo/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Feature roles in a snapshot collection.
const (
	roleAgent  = "agent"
	roleRegion = "region"
)

// Snapshot is the simulation state at one tick. It is stored as a GeoJSON
// FeatureCollection in arena coordinates: one point feature per agent and per
// spawn region, with run metadata as foreign members.
type Snapshot struct {
	Version    int
	Seed       int64
	Tick       int32
	HalfWidth  float64
	HalfHeight float64

	Agents  []AgentState
	Regions []systems.Region

	Bookmark *Bookmark
}

// AgentState holds one agent's state.
type AgentState struct {
	ID     uint32
	Kind   components.Kind
	X, Y   float64
	VelX   float64
	VelY   float64
	Vision float64
}

// FeatureCollection encodes the snapshot as GeoJSON.
func (s *Snapshot) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.ExtraMembers = geojson.Properties{
		"version":     s.Version,
		"seed":        strconv.FormatInt(s.Seed, 10),
		"tick":        int(s.Tick),
		"half_width":  s.HalfWidth,
		"half_height": s.HalfHeight,
	}
	if s.Bookmark != nil {
		fc.ExtraMembers["bookmark"] = string(s.Bookmark.Type)
		fc.ExtraMembers["bookmark_description"] = s.Bookmark.Description
	}

	for _, a := range s.Agents {
		f := geojson.NewFeature(orb.Point{a.X, a.Y})
		f.ID = int(a.ID)
		f.Properties["role"] = roleAgent
		f.Properties["kind"] = a.Kind.String()
		f.Properties["vel_x"] = a.VelX
		f.Properties["vel_y"] = a.VelY
		f.Properties["vision"] = a.Vision
		fc.Append(f)
	}
	for _, r := range s.Regions {
		f := geojson.NewFeature(orb.Point{r.X, r.Y})
		f.Properties["role"] = roleRegion
		f.Properties["radius"] = r.Radius
		fc.Append(f)
	}
	return fc
}

// SnapshotFromFeatureCollection decodes a snapshot written by FeatureCollection.
func SnapshotFromFeatureCollection(fc *geojson.FeatureCollection) (*Snapshot, error) {
	meta := fc.ExtraMembers
	s := &Snapshot{
		Version:    meta.MustInt("version", 0),
		Tick:       int32(meta.MustInt("tick", 0)),
		HalfWidth:  meta.MustFloat64("half_width", 0),
		HalfHeight: meta.MustFloat64("half_height", 0),
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	seed, err := strconv.ParseInt(meta.MustString("seed", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	s.Seed = seed
	if typ := meta.MustString("bookmark", ""); typ != "" {
		s.Bookmark = &Bookmark{
			Type:        BookmarkType(typ),
			Tick:        s.Tick,
			Description: meta.MustString("bookmark_description", ""),
		}
	}

	for i, f := range fc.Features {
		p, ok := f.Geometry.(orb.Point)
		if !ok {
			return nil, fmt.Errorf("feature %d: geometry %s is not a point", i, f.Geometry.GeoJSONType())
		}
		switch role := f.Properties.MustString("role", ""); role {
		case roleAgent:
			kind, err := components.ParseKind(f.Properties.MustString("kind", ""))
			if err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
			id, _ := f.ID.(float64)
			s.Agents = append(s.Agents, AgentState{
				ID:     uint32(id),
				Kind:   kind,
				X:      p.X(),
				Y:      p.Y(),
				VelX:   f.Properties.MustFloat64("vel_x", 0),
				VelY:   f.Properties.MustFloat64("vel_y", 0),
				Vision: f.Properties.MustFloat64("vision", 0),
			})
		case roleRegion:
			s.Regions = append(s.Regions, systems.Region{
				X:      p.X(),
				Y:      p.Y(),
				Radius: f.Properties.MustFloat64("radius", 0),
			})
		default:
			return nil, fmt.Errorf("feature %d: unknown role %q", i, role)
		}
	}
	return s, nil
}

// SaveSnapshot writes a snapshot to dir as GeoJSON.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	path := filepath.Join(dir, name+".geojson")

	data, err := snapshot.FeatureCollection().MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return SnapshotFromFeatureCollection(fc)
}
