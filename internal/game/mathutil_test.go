package game

import (
	"math"
	"testing"
)

// --- Vec2 ---

func TestVec2_AddSubScale(t *testing.T) {
	v := Vec2{3, 4}.Add(Vec2{1, -2})
	if v != (Vec2{4, 2}) {
		t.Fatalf("add: got %+v", v)
	}
	v = Vec2{3, 4}.Sub(Vec2{1, 1})
	if v != (Vec2{2, 3}) {
		t.Fatalf("sub: got %+v", v)
	}
	v = Vec2{2, -3}.Scale(2)
	if v != (Vec2{4, -6}) {
		t.Fatalf("scale: got %+v", v)
	}
}

func TestVec2_Len(t *testing.T) {
	if l := (Vec2{3, 4}).Len(); math.Abs(l-5) > 1e-9 {
		t.Fatalf("expected 5, got %.4f", l)
	}
}

func TestVec2_Normalized(t *testing.T) {
	n := Vec2{10, 0}.Normalized()
	if math.Abs(n.X-1) > 1e-9 || math.Abs(n.Y) > 1e-9 {
		t.Fatalf("expected unit x, got %+v", n)
	}
}

func TestVec2_NormalizedZero(t *testing.T) {
	n := Vec2{}.Normalized()
	if n != (Vec2{}) {
		t.Fatalf("zero vector should normalize to zero, got %+v", n)
	}
}

func TestVec2_Rotated(t *testing.T) {
	r := Vec2{1, 0}.Rotated(math.Pi / 2)
	if math.Abs(r.X) > 1e-9 || math.Abs(r.Y-1) > 1e-9 {
		t.Fatalf("quarter turn of +x should give +y, got %+v", r)
	}
}

// --- Scalars ---

func TestClamp(t *testing.T) {
	if clamp(-1, 0, 10) != 0 {
		t.Fatal("clamp should floor at lo")
	}
	if clamp(11, 0, 10) != 10 {
		t.Fatal("clamp should ceil at hi")
	}
	if clamp(5, 0, 10) != 5 {
		t.Fatal("clamp should pass through mid-range values")
	}
}

func TestLerp(t *testing.T) {
	if lerp(0, 10, 0.5) != 5 {
		t.Fatal("lerp midpoint should be 5")
	}
	if lerp(2, 4, 0) != 2 || lerp(2, 4, 1) != 4 {
		t.Fatal("lerp should hit both endpoints")
	}
}

// --- Segment distance ---

func TestPointToSegmentDist_Perpendicular(t *testing.T) {
	d := pointToSegmentDist(Vec2{5, 3}, Vec2{0, 0}, Vec2{10, 0})
	if math.Abs(d-3) > 1e-9 {
		t.Fatalf("expected 3, got %.4f", d)
	}
}

func TestPointToSegmentDist_BeyondEnd(t *testing.T) {
	d := pointToSegmentDist(Vec2{14, 3}, Vec2{0, 0}, Vec2{10, 0})
	if math.Abs(d-5) > 1e-9 {
		t.Fatalf("expected 5 (distance to endpoint), got %.4f", d)
	}
}

func TestPointToSegmentDist_Degenerate(t *testing.T) {
	d := pointToSegmentDist(Vec2{3, 4}, Vec2{0, 0}, Vec2{0, 0})
	if math.Abs(d-5) > 1e-9 {
		t.Fatalf("zero-length segment should use point distance, got %.4f", d)
	}
}

// --- Steering ---

func TestSteerToward_PreservesSpeed(t *testing.T) {
	vel := Vec2{100, 0}
	out := steerToward(vel, Vec2{0, 0}, Vec2{0, 100}, 3.0, 1.0/60)
	if math.Abs(out.Len()-100) > 1e-6 {
		t.Fatalf("steering should preserve speed: got %.4f", out.Len())
	}
	if out.Y <= 0 {
		t.Fatalf("velocity should bend toward target below, got %+v", out)
	}
}

func TestSteerToward_ZeroVelocityUnchanged(t *testing.T) {
	out := steerToward(Vec2{}, Vec2{0, 0}, Vec2{50, 50}, 3.0, 1.0/60)
	if out != (Vec2{}) {
		t.Fatalf("zero velocity should stay zero, got %+v", out)
	}
}
