package camera

import (
	"math"
	"testing"
)

// 3 m x 1.5 m domain at 400 px/m.
func newTestCamera() *Camera {
	return New(1200, 600, 3, 1.5)
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := newTestCamera()

	if cam.X != 1.5 || cam.Y != 0.75 {
		t.Errorf("expected camera at (1.5, 0.75), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
	if cam.Scale != 400 {
		t.Errorf("expected scale 400, got %f", cam.Scale)
	}
}

func TestWorldToScreenCorners(t *testing.T) {
	cam := newTestCamera()

	tests := []struct {
		name         string
		wx, wy       float32
		wantX, wantY float32
	}{
		{"origin", 0, 0, 0, 0},
		{"center", 1.5, 0.75, 600, 300},
		{"far corner", 3, 1.5, 1200, 600},
		{"bottom left", 0, 1.5, 0, 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sx, sy := cam.WorldToScreen(tt.wx, tt.wy)
			if !near(sx, tt.wantX) || !near(sy, tt.wantY) {
				t.Errorf("WorldToScreen(%v, %v) = (%f, %f), want (%f, %f)",
					tt.wx, tt.wy, sx, sy, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := newTestCamera()
	cam.SetZoom(2)
	cam.Pan(100, 50)

	testCases := []struct{ sx, sy float32 }{
		{600, 300},
		{100, 100},
		{1150, 550},
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

func TestScreenToWorldMouse(t *testing.T) {
	// A click at pixel (400, 200) is 1 m right, 0.5 m down.
	cam := newTestCamera()
	wx, wy := cam.ScreenToWorld(400, 200)
	if !near(wx, 1) || !near(wy, 0.5) {
		t.Errorf("got (%f, %f), want (1, 0.5)", wx, wy)
	}
}

func TestFitScaleLimitingAxis(t *testing.T) {
	// Viewport is relatively taller than the domain: width limits.
	cam := New(800, 800, 3, 1.5)
	if !near(cam.Scale, 800.0/3) {
		t.Errorf("expected scale %f, got %f", 800.0/3, cam.Scale)
	}

	cam.Resize(1200, 300)
	if cam.Scale != 200 {
		t.Errorf("expected scale 200 after resize, got %f", cam.Scale)
	}
}

func TestPanClampsToDomain(t *testing.T) {
	cam := newTestCamera()

	// Whole domain visible: panning has no effect.
	cam.Pan(-500, 300)
	if cam.X != 1.5 || cam.Y != 0.75 {
		t.Errorf("expected centered camera at zoom 1, got (%f, %f)", cam.X, cam.Y)
	}

	cam.SetZoom(2)
	cam.Pan(-10000, -10000)
	minX, minY, _, _ := cam.VisibleWorldBounds()
	if !near(minX, 0) || !near(minY, 0) {
		t.Errorf("expected view clamped at origin, got min (%f, %f)", minX, minY)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := newTestCamera()

	cam.SetZoom(0.1)
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom clamped to 1.0, got %f", cam.Zoom)
	}

	cam.SetZoom(100)
	if cam.Zoom != 8.0 {
		t.Errorf("expected zoom clamped to 8.0, got %f", cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := newTestCamera()
	cam.SetZoom(2)

	// Visible range is (0.75, 0.375) to (2.25, 1.125).
	if !cam.IsVisible(1.5, 0.75, 0.01) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(2.9, 1.4, 0.01) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(0.7, 0.75, 0.1) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestWorldLength(t *testing.T) {
	cam := newTestCamera()
	if got := cam.WorldLength(0.5 / 70); !near(got, 400*0.5/70) {
		t.Errorf("WorldLength = %f", got)
	}
}

func TestReset(t *testing.T) {
	cam := newTestCamera()
	cam.SetZoom(3)
	cam.Pan(200, 200)

	cam.Reset()

	if cam.X != 1.5 || cam.Y != 0.75 {
		t.Errorf("expected position (1.5, 0.75), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
