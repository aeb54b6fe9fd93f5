package game

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func perfNear(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

// craftTwoWaveLog writes a synthetic run into the session log: wave 1 swept
// clean with a high combo, wave 2 left open with two breaches.
func craftTwoWaveLog(s *Session) {
	s.log.Add(0, 0, "run", "start", "seed=41 difficulty=normal", 0)

	s.log.Add(100, 1, "wave", "start", "w1-standard mutation=none enemies=8", 8)
	for i := 0; i < 8; i++ {
		s.log.Add(150+i*50, 1, "combat", "kill", fmt.Sprintf("zigzag +10 heat=%d", i+2), 10)
	}
	s.log.Add(800, 1, "wave", "complete", "score=80", 80)

	s.log.Add(900, 2, "wave", "start", "w2-standard mutation=none enemies=6", 6)
	s.log.Add(1000, 2, "combat", "kill", "zigzag +10 heat=1", 10)
	s.log.Add(1100, 2, "combat", "breach", "zigzag lane 2, 2 lives left", 0)
	s.log.Add(1500, 2, "combat", "breach", "zigzag lane 4, 1 lives left", 0)
}

func TestWaveGrades_ClearedWave(t *testing.T) {
	s := NewSession(WithSeed(41))
	craftTwoWaveLog(s)

	grades := s.WaveGrades()
	if len(grades) != 2 {
		t.Fatalf("graded %d waves, want 2", len(grades))
	}

	g := grades[0]
	if g.Label != "w01" || g.Wave != 1 {
		t.Fatalf("first grade is %s (wave %d), want w01", g.Label, g.Wave)
	}
	if !g.Cleared {
		t.Fatal("wave 1 should grade as cleared")
	}
	if g.Kills != 8 || g.Breaches != 0 || g.Spawned != 8 {
		t.Fatalf("counts: kills=%d breaches=%d spawned=%d", g.Kills, g.Breaches, g.Spawned)
	}
	if g.DurationTicks != 700 {
		t.Fatalf("duration = %d ticks, want 700", g.DurationTicks)
	}
	if g.PeakHeat != 9 {
		t.Fatalf("peak heat = %d, want 9", g.PeakHeat)
	}

	if !perfNear(g.ContainmentScore, 100) {
		t.Fatalf("containment = %.2f, want 100", g.ContainmentScore)
	}
	// 700 ticks / 8 enemies = 87.5 per enemy, well ahead of the baseline.
	if !perfNear(g.TempoScore, 50+(perfBaselineTicksPerEnemy-87.5)*0.35) {
		t.Fatalf("tempo = %.2f", g.TempoScore)
	}
	if !perfNear(g.MomentumScore, 84) {
		t.Fatalf("momentum = %.2f, want 84", g.MomentumScore)
	}
	if g.Grade != "A" {
		t.Fatalf("grade = %s (score %.2f), want A", g.Grade, g.Score)
	}

	wantGood := map[string]bool{"clean_sweep": true, "combo_held": true}
	for _, tr := range g.GoodTraits {
		if !wantGood[tr] {
			t.Fatalf("unexpected good trait %q", tr)
		}
		delete(wantGood, tr)
	}
	if len(wantGood) > 0 {
		t.Fatalf("missing good traits: %v", wantGood)
	}
	if len(g.BadTraits) != 0 {
		t.Fatalf("unexpected bad traits: %v", g.BadTraits)
	}
}

func TestWaveGrades_OpenWave(t *testing.T) {
	s := NewSession(WithSeed(41))
	craftTwoWaveLog(s)

	g := s.WaveGrades()[1]
	if g.Label != "w02" || g.Cleared {
		t.Fatalf("second grade is %s cleared=%v, want open w02", g.Label, g.Cleared)
	}
	// Duration runs to the last recorded tick when the wave never completed.
	if g.DurationTicks != 600 {
		t.Fatalf("duration = %d ticks, want 600", g.DurationTicks)
	}
	if !perfNear(g.ContainmentScore, 100.0/3.0) {
		t.Fatalf("containment = %.2f, want 33.33", g.ContainmentScore)
	}
	if g.TempoScore >= 0 {
		t.Fatalf("tempo should be ungraded for an open wave, got %.2f", g.TempoScore)
	}
	if g.MomentumScore >= 0 {
		t.Fatalf("momentum needs %d kills, got graded at %.2f", perfMinKillsForMomentum, g.MomentumScore)
	}
	if g.Grade != "F" {
		t.Fatalf("grade = %s (score %.2f), want F", g.Grade, g.Score)
	}

	wantBad := map[string]bool{"leaky_lane": true, "left_unfinished": true}
	for _, tr := range g.BadTraits {
		if !wantBad[tr] {
			t.Fatalf("unexpected bad trait %q", tr)
		}
		delete(wantBad, tr)
	}
	if len(wantBad) > 0 {
		t.Fatalf("missing bad traits: %v", wantBad)
	}
}

func TestWaveGrades_EmptyLog(t *testing.T) {
	s := NewSession(WithSeed(41))
	if grades := s.WaveGrades(); len(grades) != 0 {
		t.Fatalf("empty log graded %d waves", len(grades))
	}
}

func TestRunEntries_ScopedToLatestRun(t *testing.T) {
	s := NewSession(WithSeed(42))
	s.log.Add(0, 0, "run", "start", "seed=42 difficulty=normal", 0)
	s.log.Add(10, 1, "combat", "kill", "zigzag +10 heat=1", 10)
	s.log.Add(500, 0, "run", "start", "seed=42 difficulty=normal", 0)
	s.log.Add(510, 1, "combat", "kill", "zigzag +10 heat=1", 10)

	entries := s.runEntries()
	if len(entries) != 2 {
		t.Fatalf("scoped to %d entries, want 2 (latest run only)", len(entries))
	}
	if entries[0].Tick != 500 {
		t.Fatalf("scope starts at tick %d, want 500", entries[0].Tick)
	}
}

func TestParseHeat(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"zigzag +10 heat=7", 7},
		{"warden +120 heat=12", 12},
		{"no marker here", 0},
		{"heat=", 0},
		{"heat=bad", 0},
	}
	for _, c := range cases {
		if got := parseHeat(c.in); got != c.want {
			t.Errorf("parseHeat(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestPerfLetterGrade_Boundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{100, "A+"},
		{93, "A+"},
		{92.9, "A"},
		{85, "A"},
		{78, "B+"},
		{70, "B"},
		{62, "C+"},
		{55, "C"},
		{45, "D"},
		{44.9, "F"},
		{0, "F"},
	}
	for _, c := range cases {
		if got := PerfLetterGrade(c.score); got != c.want {
			t.Errorf("PerfLetterGrade(%.1f) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestFormatGrades_Report(t *testing.T) {
	s := NewSession(WithSeed(41))
	craftTwoWaveLog(s)
	grades := s.WaveGrades()

	out := FormatGrades(grades)
	for _, want := range []string{
		"=== Wave Performance Grades ===",
		"w01", "[cleared]",
		"w02", "[OPEN]",
		"clean_sweep", "leaky_lane",
		"Contain=100",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	sum := FormatGradesSummary(grades)
	for _, want := range []string{
		"RUN: avg_score=",
		"cleared=1/2",
		"kills=9 breaches=2",
		"Top good:",
		"Top bad:",
	} {
		if !strings.Contains(sum, want) {
			t.Errorf("summary missing %q:\n%s", want, sum)
		}
	}

	if empty := FormatGradesSummary(nil); !strings.Contains(empty, "no waves graded") {
		t.Errorf("empty summary = %q", empty)
	}
}
