package game

import (
	"math"
	"testing"
)

func TestLaneX_EndpointMapping(t *testing.T) {
	// 720 wide, 120 pad, step (720-240)/5 = 96.
	f := Field{W: 720, H: 1080}
	if pad := f.LanePad(); math.Abs(pad-120) > 1e-9 {
		t.Fatalf("expected pad 120, got %.2f", pad)
	}
	if x := f.LaneX(1); math.Abs(x-120) > 1e-9 {
		t.Fatalf("lane 1 should map to x=120, got %.2f", x)
	}
	if x := f.LaneX(6); math.Abs(x-600) > 1e-9 {
		t.Fatalf("lane 6 should map to x=600, got %.2f", x)
	}
}

func TestLaneX_EvenSpacing(t *testing.T) {
	f := Field{W: 720, H: 1080}
	step := f.LaneX(2) - f.LaneX(1)
	for lane := 2; lane < laneCount; lane++ {
		d := f.LaneX(lane+1) - f.LaneX(lane)
		if math.Abs(d-step) > 1e-9 {
			t.Fatalf("lanes not evenly spaced: step %.4f vs %.4f at lane %d", step, d, lane)
		}
	}
}

func TestLaneX_ClampsOutOfRange(t *testing.T) {
	f := Field{W: 720, H: 1080}
	if f.LaneX(0) != f.LaneX(1) {
		t.Fatal("lane below 1 should clamp to lane 1")
	}
	if f.LaneX(99) != f.LaneX(laneCount) {
		t.Fatal("lane above max should clamp to last lane")
	}
}

func TestSafetyY_AboveBottom(t *testing.T) {
	f := DefaultField()
	if f.SafetyY() >= f.H {
		t.Fatal("safety line must sit above the bottom edge")
	}
	if f.SafetyY() <= 0 {
		t.Fatal("safety line must be inside the field")
	}
}

func TestCannonPos_BottomCentre(t *testing.T) {
	f := DefaultField()
	p := f.CannonPos()
	if math.Abs(p.X-f.W/2) > 1e-9 {
		t.Fatalf("cannon should sit at horizontal centre, got x=%.2f", p.X)
	}
	if p.Y <= f.SafetyY() {
		t.Fatal("cannon should sit below the safety line")
	}
}
