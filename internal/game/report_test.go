package game

import (
	"fmt"
	"strings"
	"testing"
)

// --- Debug report ---

func TestDebugReport_CoversRecentWindow(t *testing.T) {
	s := NewSession(WithSeed(31), WithRunStarted())
	for i := 0; i < 1300; i++ {
		autoplayTick(s, i)
	}

	rpt := s.DebugReport(600)
	for _, want := range []string{
		"--- Orbfall debug report ---",
		"summary: kills=",
		"state=",
		"=== Combat Report",
	} {
		if !strings.Contains(rpt, want) {
			t.Fatalf("report missing %q:\n%s", want, rpt)
		}
	}
	to := s.TickCount()
	wantRange := fmt.Sprintf("tick_range=[%d..%d]", to-599, to)
	if !strings.Contains(rpt, wantRange) {
		t.Fatalf("report missing %q", wantRange)
	}
}

func TestDebugReport_EmptySessionStillRenders(t *testing.T) {
	s := NewSession(WithSeed(1))
	rpt := s.DebugReport(0)
	if !strings.Contains(rpt, "--- Orbfall debug report ---") {
		t.Fatalf("missing header:\n%s", rpt)
	}
	if !strings.Contains(rpt, "kills=0") || !strings.Contains(rpt, "breaches=0") {
		t.Fatalf("idle session should report zero counters:\n%s", rpt)
	}
	if !strings.Contains(rpt, "No data collected yet.") {
		t.Fatalf("missing empty-window notice:\n%s", rpt)
	}
}

// --- Window summary ---

func TestWindowSummary_AveragesTheRecentField(t *testing.T) {
	s := NewSession(WithSeed(32), WithRunStarted())
	s.RunTicks(600)

	wr := s.Reporter().WindowSummary()
	if wr == nil {
		t.Fatal("no window summary after 600 ticks")
	}
	if wr.SampleCount != 10 {
		t.Fatalf("sample count = %d, want 10", wr.SampleCount)
	}
	if wr.AvgEnemies <= 0 {
		t.Fatalf("wave 1 should keep enemies on the field: avg=%.2f", wr.AvgEnemies)
	}
	if wr.AvgDepth <= 0 || wr.AvgDepth > 1 {
		t.Fatalf("descent fraction out of range: %.3f", wr.AvgDepth)
	}
	// Wave 1 fields only zigzags.
	if wr.KindPct[EnemyZigzag] < 50 {
		t.Fatalf("zigzag share = %.1f%%, want the bulk of the field", wr.KindPct[EnemyZigzag])
	}
	if wr.ScoreDelta != 0 || wr.LivesLost != 0 {
		t.Fatalf("idle cannon should not move score or lives: delta=%d lost=%d", wr.ScoreDelta, wr.LivesLost)
	}

	out := wr.Format()
	if !strings.Contains(out, "Enemy Mix") || !strings.Contains(out, "Field Pressure") {
		t.Fatalf("summary format missing sections:\n%s", out)
	}
}

func TestBuildRunStages_GroupsLikeSamples(t *testing.T) {
	snaps := []FieldReport{
		{Tick: 60, Wave: 1, Lives: 3, EnemiesAlive: 0},
		{Tick: 120, Wave: 1, Lives: 3, EnemiesAlive: 0},
		{Tick: 180, Wave: 1, Lives: 3, EnemiesAlive: 4, DepthFrac: 0.30},
		{Tick: 240, Wave: 1, Lives: 3, EnemiesAlive: 5, DepthFrac: 0.35},
	}
	stages := buildRunStages(snaps)
	if len(stages) != 2 {
		t.Fatalf("got %d stages, want 2", len(stages))
	}
	if !stages[0].quiet || stages[0].count != 2 || stages[0].first.Tick != 60 || stages[0].last.Tick != 120 {
		t.Fatalf("bad quiet stage: %+v", stages[0])
	}
	if stages[1].quiet || stages[1].count != 2 {
		t.Fatalf("busy stretch marked quiet: %+v", stages[1])
	}
}
