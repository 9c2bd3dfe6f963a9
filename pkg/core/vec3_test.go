package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestVec3Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -1, 2)

	if got := a.Add(b); got != NewVec3(5, 1, 5) {
		t.Errorf("Add: got %v", got)
	}
	if got := a.Subtract(b); got != NewVec3(-3, 3, 1) {
		t.Errorf("Subtract: got %v", got)
	}
	if got := a.MultiplyVec(b); got != NewVec3(4, -2, 6) {
		t.Errorf("MultiplyVec: got %v", got)
	}
	if got := a.Dot(b); got != 4-2+6 {
		t.Errorf("Dot: got %f", got)
	}
}

func TestVec3Max(t *testing.T) {
	if got := NewVec3(1, 9, 3).Max(); got != 9 {
		t.Errorf("Max: got %f, want 9", got)
	}
	if got := NewVec3(-1, -9, -3).Max(); got != -1 {
		t.Errorf("Max: got %f, want -1", got)
	}
}

func TestVec3IsFinite(t *testing.T) {
	if !NewVec3(1, 2, 3).IsFinite() {
		t.Error("expected finite vector to report finite")
	}
	if NewVec3(math.NaN(), 0, 0).IsFinite() {
		t.Error("expected NaN component to report non-finite")
	}
	if NewVec3(math.Inf(1), 0, 0).IsFinite() {
		t.Error("expected +Inf component to report non-finite")
	}
}

func TestVec3Clamp(t *testing.T) {
	got := NewVec3(-1, 0.5, 5).Clamp(0, 1)
	if got != NewVec3(0, 0.5, 1) {
		t.Errorf("Clamp: got %v", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("Normalize of zero vector should stay zero, got %v", got)
	}
	got := NewVec3(3, 0, 4).Normalize()
	if math.Abs(got.Length()-1) > 1e-9 {
		t.Errorf("Normalize: length %f, want 1", got.Length())
	}
}

func TestRayAt(t *testing.T) {
	r := NewRay(NewVec3(0, 0, 0), NewVec3(1, 0, 0))
	if got := r.At(2); got != NewVec3(2, 0, 0) {
		t.Errorf("Ray.At(2): got %v", got)
	}
}

func TestSampleCosineHemisphereStaysInHemisphere(t *testing.T) {
	normal := NewVec3(0, 1, 0)
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 200; i++ {
		sample := NewVec2(rng.Float64(), rng.Float64())
		dir := SampleCosineHemisphere(normal, sample)
		if dir.Dot(normal) < -1e-9 {
			t.Fatalf("sampled direction %v fell below the hemisphere around %v", dir, normal)
		}
	}
}

func TestSamplePointInUnitDiskBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		p := SamplePointInUnitDisk(NewVec2(rng.Float64(), rng.Float64()))
		if p.Length() > 1.0+1e-9 {
			t.Fatalf("point %v fell outside the unit disk", p)
		}
	}
}

func TestTentFilterRemapFixedPoints(t *testing.T) {
	if math.Abs(TentFilterRemap(0.5)-0.5) > 1e-9 {
		t.Errorf("expected the midpoint to remain fixed, got %f", TentFilterRemap(0.5))
	}
	if v := TentFilterRemap(0); v < -1e-9 || v > 1e-9 {
		t.Errorf("expected TentFilterRemap(0) near 0, got %f", v)
	}
	if v := TentFilterRemap(1); math.Abs(v-1) > 1e-9 {
		t.Errorf("expected TentFilterRemap(1) near 1, got %f", v)
	}
}
