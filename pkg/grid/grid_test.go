package grid

import "testing"

func TestGetGridCoords(t *testing.T) {
	tests := []struct {
		index int
		cols  int
		wantX int
		wantY int
	}{
		// 64 cols (Standard)
		{0, 64, 0, 0},
		{1, 64, 1, 0},
		{63, 64, 63, 0},
		{64, 64, 0, 1},
		{65, 64, 1, 1},
		{127, 64, 63, 1},
		{128, 64, 0, 2},
		{1023, 64, 63, 15},

		// 32 cols (Low Res)
		{0, 32, 0, 0},
		{31, 32, 31, 0},
		{32, 32, 0, 1},
		{63, 32, 31, 1},
		{1023, 32, 31, 31},
	}

	for _, tc := range tests {
		gotX, gotY := GetGridCoords(tc.index, tc.cols)
		if gotX != tc.wantX || gotY != tc.wantY {
			t.Errorf("GetGridCoords(%d, %d) = (%d, %d); want (%d, %d)", tc.index, tc.cols, gotX, gotY, tc.wantX, tc.wantY)
		}
	}
}

func TestLayout(t *testing.T) {
	l := Fit(3, 200, 20, 10, 40)
	if l.GatesPerBand != 8 {
		t.Fatalf("GatesPerBand: expected 8, got %d", l.GatesPerBand)
	}

	tests := []struct {
		gate      int
		wantBand  int
		wantX     int
		wantLine0 int
	}{
		{0, 0, 50, 5},
		{7, 0, 190, 5},
		{8, 1, 50, 45},
		{17, 2, 70, 85},
	}
	for _, tc := range tests {
		band, x := l.GateX(tc.gate)
		if band != tc.wantBand || x != tc.wantX {
			t.Errorf("GateX(%d) = (%d, %d); want (%d, %d)", tc.gate, band, x, tc.wantBand, tc.wantX)
		}
		if y := l.LineY(band, 0); y != tc.wantLine0 {
			t.Errorf("LineY(%d, 0) = %d; want %d", band, y, tc.wantLine0)
		}
	}

	if got := l.LineY(0, 2); got != 25 {
		t.Errorf("LineY(0, 2) = %d; want 25", got)
	}
	if got := l.Bands(0); got != 1 {
		t.Errorf("Bands(0) = %d; want 1", got)
	}
	if got := l.Bands(16); got != 2 {
		t.Errorf("Bands(16) = %d; want 2", got)
	}
	if w, h := l.Size(3); w != 100 || h != 40 {
		t.Errorf("Size(3) = (%d, %d); want (100, 40)", w, h)
	}
	if w, h := l.Size(20); w != 200 || h != 120 {
		t.Errorf("Size(20) = (%d, %d); want (200, 120)", w, h)
	}
}

func TestFitNarrowWindow(t *testing.T) {
	l := Fit(2, 10, 20, 10, 40)
	if l.GatesPerBand != 1 {
		t.Errorf("GatesPerBand: expected 1, got %d", l.GatesPerBand)
	}
}
