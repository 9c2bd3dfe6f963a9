package adaptive

import "testing"

func TestBuildSpreadTableRadiusTransitions(t *testing.T) {
	cases := []struct {
		stepQ  float64
		radius int
	}{
		{0, 8},
		{0.49, 8},
		{0.5, 4},
		{1.99, 4},
		{2.0, 2},
		{3.99, 2},
		{4.0, 1},
		{100, 1},
	}

	for _, c := range cases {
		entries := BuildSpreadTable(c.stepQ)
		for _, e := range entries {
			if e.DX < -c.radius || e.DX > c.radius || e.DY < -c.radius || e.DY > c.radius {
				t.Fatalf("stepQ=%v: entry %+v exceeds radius %d", c.stepQ, e, c.radius)
			}
			if e.Div != 2 {
				t.Fatalf("stepQ=%v: entry %+v has div %v, want 2", c.stepQ, e, e.Div)
			}
		}
	}
}

func TestBuildSpreadTableExcludesOrigin(t *testing.T) {
	for _, stepQ := range []float64{0, 1, 3, 5} {
		for _, e := range BuildSpreadTable(stepQ) {
			if e.DX == 0 && e.DY == 0 {
				t.Fatalf("stepQ=%v: spread table includes the origin", stepQ)
			}
		}
	}
}

func TestBuildSpreadTableS4RadiusTwoHasTwelveEntries(t *testing.T) {
	entries := BuildSpreadTable(2.0)
	if len(entries) != 12 {
		t.Fatalf("stepQ=2.0: got %d entries, want 12", len(entries))
	}
}

func TestBuildSpreadTableRadiusOneIsFullSquare(t *testing.T) {
	entries := BuildSpreadTable(100)
	if len(entries) != 8 {
		t.Fatalf("radius 1: got %d entries, want 8 (3x3 minus origin)", len(entries))
	}
}
