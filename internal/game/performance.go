package game

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Wave grading thresholds.
const (
	perfBaselineTicksPerEnemy = 140.0
	perfMinKillsForMomentum   = 3
)

// runEntries returns the log entries belonging to the current run:
// everything from the most recent run/start marker onward.
func (s *Session) runEntries() []RunLogEntry {
	entries := s.log.Entries()
	start := 0
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Category == "run" && entries[i].Key == "start" {
			start = i
			break
		}
	}
	return entries[start:]
}

// ---------------------------------------------------------------------------
// WaveGrade — computed performance result
// ---------------------------------------------------------------------------

// WaveGrade is the computed performance grade for one wave of a run.
type WaveGrade struct {
	Label   string // w01, w02, ...
	Wave    int
	Grade   string  // A+, A, B+, B, C+, C, D, F
	Score   float64 // 0-100
	Cleared bool

	// Situation scores (0-100; -1 = not enough data to grade).
	ContainmentScore float64
	TempoScore       float64
	MomentumScore    float64

	// Observed traits.
	GoodTraits []string
	BadTraits  []string

	// Key stats.
	Kills         int
	Breaches      int
	Spawned       int
	DurationTicks int
	PeakHeat      int
}

// waveTracker accumulates per-wave counters scanned from the run log.
type waveTracker struct {
	wave      int
	startTick int
	endTick   int
	spawned   int
	kills     int
	breaches  int
	peakHeat  int
	cleared   bool
	started   bool
}

// ---------------------------------------------------------------------------
// Grading logic
// ---------------------------------------------------------------------------

// WaveGrades computes a grade for each wave of the current run from its log.
// The final wave of a run that ended mid-wave is graded as uncleared, with
// its duration cut off at the last recorded tick.
func (s *Session) WaveGrades() []WaveGrade {
	entries := s.runEntries()

	trackers := map[int]*waveTracker{}
	var order []int
	tracker := func(wave int) *waveTracker {
		wt, ok := trackers[wave]
		if !ok {
			wt = &waveTracker{wave: wave}
			trackers[wave] = wt
			order = append(order, wave)
		}
		return wt
	}

	lastTick := 0
	for _, e := range entries {
		if e.Tick > lastTick {
			lastTick = e.Tick
		}
		switch {
		case e.Category == "wave" && e.Key == "start":
			wt := tracker(e.Wave)
			wt.started = true
			wt.startTick = e.Tick
			wt.spawned = int(e.NumVal)
		case e.Category == "wave" && e.Key == "complete":
			wt := tracker(e.Wave)
			wt.cleared = true
			wt.endTick = e.Tick
		case e.Category == "combat" && e.Key == "kill":
			if e.Wave == 0 {
				continue
			}
			wt := tracker(e.Wave)
			wt.kills++
			if h := parseHeat(e.Value); h > wt.peakHeat {
				wt.peakHeat = h
			}
		case e.Category == "combat" && e.Key == "breach":
			if e.Wave == 0 {
				continue
			}
			tracker(e.Wave).breaches++
		}
	}

	grades := make([]WaveGrade, 0, len(order))
	for _, wave := range order {
		wt := trackers[wave]
		if !wt.started {
			continue
		}
		if !wt.cleared {
			wt.endTick = lastTick
		}
		grades = append(grades, computeWaveGrade(wt))
	}
	sort.Slice(grades, func(i, j int) bool {
		return grades[i].Wave < grades[j].Wave
	})
	return grades
}

// parseHeat pulls the trailing heat=N out of a kill log value.
func parseHeat(v string) int {
	idx := strings.LastIndex(v, "heat=")
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v[idx+len("heat="):]))
	if err != nil {
		return 0
	}
	return n
}

func computeWaveGrade(wt *waveTracker) WaveGrade {
	g := WaveGrade{
		Label:            fmt.Sprintf("w%02d", wt.wave),
		Wave:             wt.wave,
		Cleared:          wt.cleared,
		Kills:            wt.kills,
		Breaches:         wt.breaches,
		Spawned:          wt.spawned,
		PeakHeat:         wt.peakHeat,
		ContainmentScore: -1,
		TempoScore:       -1,
		MomentumScore:    -1,
	}
	if wt.endTick > wt.startTick {
		g.DurationTicks = wt.endTick - wt.startTick
	}

	// --- Containment: how much of the wave died before the safety line ---
	if wt.kills+wt.breaches > 0 {
		g.ContainmentScore = perfClamp(100 * perfFrac(wt.kills, wt.kills+wt.breaches))
	}

	// --- Tempo: clear speed per enemy against the baseline ---
	if wt.cleared && wt.spawned > 0 {
		perEnemy := float64(g.DurationTicks) / float64(wt.spawned)
		g.TempoScore = perfClamp(50 + (perfBaselineTicksPerEnemy-perEnemy)*0.35)
	}

	// --- Momentum: how high the combo heat climbed ---
	if wt.kills >= perfMinKillsForMomentum {
		g.MomentumScore = perfClamp(30 + 6*float64(wt.peakHeat))
	}

	// --- Overall weighted average ---
	type scoredWeight struct {
		score  float64
		weight float64
	}
	var items []scoredWeight
	if g.ContainmentScore >= 0 {
		items = append(items, scoredWeight{g.ContainmentScore, 0.50})
	}
	if g.TempoScore >= 0 {
		items = append(items, scoredWeight{g.TempoScore, 0.30})
	}
	if g.MomentumScore >= 0 {
		items = append(items, scoredWeight{g.MomentumScore, 0.20})
	}

	if len(items) > 0 {
		totalW := 0.0
		totalS := 0.0
		for _, it := range items {
			totalW += it.weight
			totalS += it.score * it.weight
		}
		g.Score = totalS / totalW
	} else {
		g.Score = 50.0
	}

	if wt.cleared {
		g.Score = math.Min(100, g.Score+5)
	}

	g.Grade = PerfLetterGrade(g.Score)
	g.GoodTraits, g.BadTraits = waveDetectTraits(wt, g)
	return g
}

// ---------------------------------------------------------------------------
// Trait detection
// ---------------------------------------------------------------------------

func waveDetectTraits(wt *waveTracker, g WaveGrade) (good, bad []string) {
	// ----- GOOD traits -----

	// Clean sweep: a full wave stopped without a single breach.
	if wt.breaches == 0 && wt.spawned >= 6 {
		good = append(good, "clean_sweep")
	}

	// Quick clear: well ahead of the tempo baseline.
	if g.TempoScore >= 78 {
		good = append(good, "quick_clear")
	}

	// Combo held: the heat chain reached deep-tier territory.
	if wt.peakHeat >= 8 {
		good = append(good, "combo_held")
	}

	// Heavy wave: cleared despite a large spawn count.
	if wt.spawned >= 14 && wt.cleared {
		good = append(good, "heavy_wave")
	}

	// ----- BAD traits -----

	// Leaky lane: multiple enemies reached the safety line.
	if wt.breaches >= 2 {
		bad = append(bad, "leaky_lane")
	}

	// Slow grind: far behind the tempo baseline.
	if g.TempoScore >= 0 && g.TempoScore <= 30 {
		bad = append(bad, "slow_grind")
	}

	// Combo dropped: plenty of kills but the chain never built.
	if wt.kills >= 5 && wt.peakHeat <= 2 {
		bad = append(bad, "combo_dropped")
	}

	// Left unfinished: the run ended mid-wave with enemies through.
	if !wt.cleared && wt.breaches > 0 {
		bad = append(bad, "left_unfinished")
	}

	return
}

// ---------------------------------------------------------------------------
// Formatting
// ---------------------------------------------------------------------------

// FormatGrades returns a human-readable per-wave performance report.
func FormatGrades(grades []WaveGrade) string {
	var sb strings.Builder
	sb.WriteString("\n=== Wave Performance Grades ===\n")

	for _, g := range grades {
		status := "cleared"
		if !g.Cleared {
			status = "OPEN"
		}
		fmt.Fprintf(&sb, "  %-3s  %-4s  [%s]  kills=%d breach=%d dur=%.1fs peak_heat=%d\n",
			g.Grade, g.Label, status, g.Kills, g.Breaches, float64(g.DurationTicks)*TickSeconds, g.PeakHeat)

		if len(g.GoodTraits) > 0 {
			fmt.Fprintf(&sb, "       Good: %s\n", strings.Join(g.GoodTraits, ", "))
		}
		if len(g.BadTraits) > 0 {
			fmt.Fprintf(&sb, "       Bad:  %s\n", strings.Join(g.BadTraits, ", "))
		}

		var scores []string
		if g.ContainmentScore >= 0 {
			scores = append(scores, fmt.Sprintf("Contain=%.0f", g.ContainmentScore))
		}
		if g.TempoScore >= 0 {
			scores = append(scores, fmt.Sprintf("Tempo=%.0f", g.TempoScore))
		}
		if g.MomentumScore >= 0 {
			scores = append(scores, fmt.Sprintf("Momentum=%.0f", g.MomentumScore))
		}
		if len(scores) > 0 {
			fmt.Fprintf(&sb, "       Scores: %s\n", strings.Join(scores, "  "))
		}
	}

	return sb.String()
}

// FormatGradesSummary returns a compact run-level summary.
func FormatGradesSummary(grades []WaveGrade) string {
	var sb strings.Builder

	count := 0
	scoreSum := 0.0
	cleared := 0
	kills := 0
	breaches := 0
	goodCount := map[string]int{}
	badCount := map[string]int{}
	for _, g := range grades {
		count++
		scoreSum += g.Score
		if g.Cleared {
			cleared++
		}
		kills += g.Kills
		breaches += g.Breaches
		for _, t := range g.GoodTraits {
			goodCount[t]++
		}
		for _, t := range g.BadTraits {
			badCount[t]++
		}
	}
	if count == 0 {
		return "  RUN: no waves graded\n"
	}

	avg := scoreSum / float64(count)
	fmt.Fprintf(&sb, "  RUN: avg_score=%.1f (%s)  cleared=%d/%d  kills=%d breaches=%d\n",
		avg, PerfLetterGrade(avg), cleared, count, kills, breaches)

	if len(goodCount) > 0 {
		fmt.Fprintf(&sb, "    Top good: %s\n", perfTopTraits(goodCount, 4))
	}
	if len(badCount) > 0 {
		fmt.Fprintf(&sb, "    Top bad:  %s\n", perfTopTraits(badCount, 4))
	}

	return sb.String()
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func perfFrac(num, denom int) float64 {
	if denom <= 0 {
		return 0
	}
	return float64(num) / float64(denom)
}

func perfClamp(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// PerfLetterGrade maps a 0-100 score to a letter grade.
func PerfLetterGrade(score float64) string {
	switch {
	case score >= 93:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 78:
		return "B+"
	case score >= 70:
		return "B"
	case score >= 62:
		return "C+"
	case score >= 55:
		return "C"
	case score >= 45:
		return "D"
	default:
		return "F"
	}
}

func perfTopTraits(counts map[string]int, n int) string {
	type kv struct {
		trait string
		count int
	}
	var items []kv
	for k, v := range counts {
		items = append(items, kv{k, v})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].count > items[j].count
	})
	if len(items) > n {
		items = items[:n]
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s(%d)", it.trait, it.count)
	}
	return strings.Join(parts, ", ")
}
