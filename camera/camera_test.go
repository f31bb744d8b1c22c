package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(1280, 720, 620, 340)

	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("expected camera at origin, got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestWorldToScreen(t *testing.T) {
	cam := New(1280, 720, 620, 340)

	tests := []struct {
		wx, wy float32
		sx, sy float32
	}{
		{0, 0, 640, 360},
		{100, 0, 740, 360},
		{0, 100, 640, 260}, // y up
		{-620, -340, 20, 700},
	}
	for _, tt := range tests {
		sx, sy := cam.WorldToScreen(tt.wx, tt.wy)
		if !near(sx, tt.sx) || !near(sy, tt.sy) {
			t.Errorf("WorldToScreen(%v, %v) = (%v, %v), want (%v, %v)", tt.wx, tt.wy, sx, sy, tt.sx, tt.sy)
		}
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 620, 340)
	cam.SetZoom(2)
	cam.Pan(50, -30)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},
		{100, 100},
		{1200, 600},
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanClampsToArena(t *testing.T) {
	cam := New(1280, 720, 620, 340)

	cam.Pan(100, 40)
	if !near(cam.X, 100) || !near(cam.Y, -40) {
		t.Errorf("expected (100, -40), got (%f, %f)", cam.X, cam.Y)
	}

	cam.Pan(5000, -5000)
	if cam.X != 620 || cam.Y != 340 {
		t.Errorf("expected center clamped to (620, 340), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 620, 340)

	cam.SetZoom(0.1)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.SetZoom(10.0)
	if cam.Zoom != 4.0 {
		t.Errorf("expected zoom clamped to 4.0, got %f", cam.Zoom)
	}
}

func TestZoomAtKeepsCursorPoint(t *testing.T) {
	cam := New(1280, 720, 620, 340)

	wx, wy := cam.ScreenToWorld(900, 200)
	cam.ZoomAt(900, 200, 2)

	if cam.Zoom != 2 {
		t.Fatalf("expected zoom 2, got %f", cam.Zoom)
	}
	gx, gy := cam.ScreenToWorld(900, 200)
	if !near(gx, wx) || !near(gy, wy) {
		t.Errorf("cursor point moved from (%f, %f) to (%f, %f)", wx, wy, gx, gy)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 620, 340)
	cam.SetZoom(2)

	// Visible range at zoom 2: x in [-320, 320], y in [-180, 180]
	if !cam.IsVisible(0, 0, 10) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(500, 300, 10) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(400, 0, 100) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 620, 340)
	cam.Pan(200, 200)
	cam.SetZoom(2.5)

	cam.Reset()

	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("expected origin, got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestResizeClampsCenter(t *testing.T) {
	cam := New(1280, 720, 620, 340)
	cam.Pan(600, 0)

	cam.Resize(800, 600, 380, 280)

	if cam.X != 380 {
		t.Errorf("expected X clamped to 380, got %f", cam.X)
	}
	if cam.ViewportW != 800 || cam.HalfH != 280 {
		t.Errorf("resize not applied: %+v", cam)
	}
}
