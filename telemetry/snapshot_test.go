package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/roshambo/components"
	"github.com/pthm-cable/roshambo/systems"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:    SnapshotVersion,
		Seed:       1739912345678901234,
		Tick:       1000,
		HalfWidth:  620,
		HalfHeight: 340,
		Agents: []AgentState{
			{ID: 1, Kind: components.KindRock, X: 150, Y: -250, VelX: 0.5, VelY: -0.3, Vision: 80},
			{ID: 7, Kind: components.KindScissors, X: -12.5, Y: 3, Vision: 120},
		},
		Regions: []systems.Region{
			{X: 100, Y: 200, Radius: 80},
		},
		Bookmark: &Bookmark{
			Type:        BookmarkDominance,
			Tick:        1000,
			Description: "rock holds all 9 agents",
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if !strings.HasSuffix(path, "snapshot_1000_dominance.geojson") {
		t.Errorf("unexpected path %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"FeatureCollection"`) {
		t.Error("snapshot is not a GeoJSON FeatureCollection")
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Seed != snapshot.Seed || loaded.Tick != snapshot.Tick {
		t.Errorf("metadata = seed %d tick %d, want %d %d", loaded.Seed, loaded.Tick, snapshot.Seed, snapshot.Tick)
	}
	if loaded.HalfWidth != 620 || loaded.HalfHeight != 340 {
		t.Errorf("arena = %v x %v", loaded.HalfWidth, loaded.HalfHeight)
	}
	if len(loaded.Agents) != len(snapshot.Agents) {
		t.Fatalf("agents = %d, want %d", len(loaded.Agents), len(snapshot.Agents))
	}
	for i, want := range snapshot.Agents {
		if got := loaded.Agents[i]; got != want {
			t.Errorf("agent %d = %+v, want %+v", i, got, want)
		}
	}
	if len(loaded.Regions) != 1 || loaded.Regions[0] != snapshot.Regions[0] {
		t.Errorf("regions = %+v", loaded.Regions)
	}
	if loaded.Bookmark == nil || loaded.Bookmark.Type != BookmarkDominance {
		t.Errorf("bookmark = %+v", loaded.Bookmark)
	}
}

func TestLoadSnapshotRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.geojson")
	data := `{"type":"FeatureCollection","features":[],"version":99}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected version error")
	}
}
