package game

import (
	"fmt"
	"strings"
)

// reportWindowTicks is the default sliding window for recent-behaviour reports (~10s at 60TPS).
const reportWindowTicks = 600

// --- Snapshot types ---

// FieldReport is a full snapshot of the combat field at one tick.
type FieldReport struct {
	Tick  int
	Wave  int
	State RunState

	// Enemy population.
	EnemiesAlive  int
	EnemiesByKind map[EnemyKind]int
	Shielded      int     // enemies with shield remaining
	Slowed        int     // enemies under a slow
	DeepestY      float64 // furthest descent in px
	DepthFrac     float64 // DeepestY over the safety line, 0..1

	// Player side.
	OrbsInFlight int
	AvgBounces   float64
	Charges      int
	Focus        float64
	Special      float64

	// Run totals.
	Score     int
	Lives     int
	ComboHeat int

	// Enemy detail (optional, for verbose mode).
	Enemies []EnemySnapshot
}

// --- Reporter ---

// RunReporter collects periodic reports from the session and can produce
// summaries over sliding time windows.
type RunReporter struct {
	history     []FieldReport
	windowTicks int
	verbose     bool
}

// NewRunReporter creates a reporter with the given window size.
func NewRunReporter(windowTicks int, verbose bool) *RunReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &RunReporter{
		windowTicks: windowTicks,
		verbose:     verbose,
	}
}

// Collect gathers a snapshot from the current session state.
// Call this periodically (e.g. every 60 ticks / 1s).
func (r *RunReporter) Collect(s *Session) {
	report := FieldReport{
		Tick:          s.tick,
		Wave:          s.waveNumber,
		State:         s.state,
		EnemiesByKind: make(map[EnemyKind]int),
		Charges:       s.charges,
		Focus:         s.focus,
		Special:       s.special,
		Score:         s.score,
		Lives:         s.lives,
		ComboHeat:     s.comboHeat,
	}

	for _, e := range s.enemies {
		if !e.Alive {
			continue
		}
		report.EnemiesAlive++
		report.EnemiesByKind[e.Kind]++
		if e.Shield > 0 {
			report.Shielded++
		}
		if d, _ := e.SlowRemaining(); d > 0 {
			report.Slowed++
		}
		if e.Pos.Y > report.DeepestY {
			report.DeepestY = e.Pos.Y
		}
		if r.verbose {
			report.Enemies = append(report.Enemies, EnemySnapshot{
				Kind:   e.Kind,
				X:      e.Pos.X,
				Y:      e.Pos.Y,
				Hp:     e.Hp,
				Shield: e.Shield,
				Lane:   e.Lane,
				Elite:  e.Elite,
				Boss:   e.Boss,
			})
		}
	}
	if safety := s.field.SafetyY(); safety > 0 {
		report.DepthFrac = clamp01(report.DeepestY / safety)
	}

	bounces := 0
	for _, o := range s.orbs {
		if !o.Alive {
			continue
		}
		report.OrbsInFlight++
		bounces += o.BounceCount
	}
	if report.OrbsInFlight > 0 {
		report.AvgBounces = float64(bounces) / float64(report.OrbsInFlight)
	}

	r.history = append(r.history, report)

	// Prune old history beyond 2x window to prevent unbounded growth.
	maxKeep := r.windowTicks / 60 * 2 // reports per second * 2 windows
	if maxKeep < 100 {
		maxKeep = 100
	}
	if len(r.history) > maxKeep {
		r.history = r.history[len(r.history)-maxKeep:]
	}
}

// Latest returns the most recent report, or nil if none collected yet.
func (r *RunReporter) Latest() *FieldReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// WindowSummary returns an aggregated summary over the recent time window.
// It averages enemy mix, field pressure, and player meters across all
// reports in the window.
func (r *RunReporter) WindowSummary() *RunWindowReport {
	if len(r.history) == 0 {
		return nil
	}

	// Find reports within the window.
	latestTick := r.history[len(r.history)-1].Tick
	cutoff := latestTick - r.windowTicks
	var window []FieldReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Tick < cutoff {
			break
		}
		window = append(window, r.history[i])
	}
	if len(window) == 0 {
		return nil
	}

	// window is newest-first; oldest sample sits at the end.
	n := float64(len(window))
	oldest := window[len(window)-1]
	newest := window[0]
	wr := &RunWindowReport{
		FromTick:    oldest.Tick,
		ToTick:      newest.Tick,
		SampleCount: len(window),
		KindPct:     make(map[EnemyKind]float64),
		ScoreDelta:  newest.Score - oldest.Score,
		LivesLost:   oldest.Lives - newest.Lives,
	}

	kindTotal := make(map[EnemyKind]float64)
	var popTotal float64
	for _, rpt := range window {
		for k, c := range rpt.EnemiesByKind {
			kindTotal[k] += float64(c)
			popTotal += float64(c)
		}
		wr.AvgEnemies += float64(rpt.EnemiesAlive)
		wr.AvgShielded += float64(rpt.Shielded)
		wr.AvgSlowed += float64(rpt.Slowed)
		wr.AvgDepth += rpt.DepthFrac
		wr.AvgOrbs += float64(rpt.OrbsInFlight)
		wr.AvgBounces += rpt.AvgBounces
		wr.AvgCharges += float64(rpt.Charges)
		wr.AvgFocus += rpt.Focus
		wr.AvgSpecial += rpt.Special
		wr.AvgHeat += float64(rpt.ComboHeat)
	}

	if popTotal > 0 {
		for k, c := range kindTotal {
			wr.KindPct[k] = c / popTotal * 100
		}
	}

	wr.AvgEnemies /= n
	wr.AvgShielded /= n
	wr.AvgSlowed /= n
	wr.AvgDepth /= n
	wr.AvgOrbs /= n
	wr.AvgBounces /= n
	wr.AvgCharges /= n
	wr.AvgFocus /= n
	wr.AvgSpecial /= n
	wr.AvgHeat /= n

	return wr
}

// RunWindowReport is an aggregated summary over a time window.
type RunWindowReport struct {
	FromTick, ToTick int
	SampleCount      int

	// Enemy mix as percentages (0-100).
	KindPct map[EnemyKind]float64

	// Averages over the window.
	AvgEnemies  float64
	AvgShielded float64
	AvgSlowed   float64
	AvgDepth    float64 // 0 at spawn row, 1 at the safety line
	AvgOrbs     float64
	AvgBounces  float64
	AvgCharges  float64
	AvgFocus    float64
	AvgSpecial  float64
	AvgHeat     float64

	// Cumulative over the window.
	ScoreDelta int
	LivesLost  int
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *RunWindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Combat Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)

	sb.WriteString("\n--- Enemy Mix ---\n")
	for _, k := range allEnemyKinds {
		if pct, ok := wr.KindPct[k]; ok && pct > 0.5 {
			fmt.Fprintf(&sb, "  %-14s %5.1f%%\n", k, pct)
		}
	}

	sb.WriteString("\n--- Field Pressure ---\n")
	fmt.Fprintf(&sb, "  enemies=%.1f  shielded=%.1f  slowed=%.1f\n",
		wr.AvgEnemies, wr.AvgShielded, wr.AvgSlowed)
	fmt.Fprintf(&sb, "  descent=%.0f%% of the way down (%s)\n",
		wr.AvgDepth*100, pressureLabel(wr.AvgDepth))

	sb.WriteString("\n--- Player ---\n")
	fmt.Fprintf(&sb, "  orbs=%.1f  avg bounces=%.2f  charges=%.1f\n",
		wr.AvgOrbs, wr.AvgBounces, wr.AvgCharges)
	fmt.Fprintf(&sb, "  heat=%.1f  focus=%.0f  special=%.0f\n",
		wr.AvgHeat, wr.AvgFocus, wr.AvgSpecial)

	sb.WriteString("\n--- Score & Lives ---\n")
	fmt.Fprintf(&sb, "  score +%d over window  lives lost=%d\n",
		wr.ScoreDelta, wr.LivesLost)

	return sb.String()
}

func pressureLabel(depth float64) string {
	switch {
	case depth > 0.85:
		return "critical"
	case depth > 0.6:
		return "contested"
	case depth > 0.3:
		return "light"
	default:
		return "clear"
	}
}

// FormatLatest returns a concise snapshot of the most recent collected report.
func (r *RunReporter) FormatLatest() string {
	rpt := r.Latest()
	if rpt == nil {
		return "No data.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Snapshot T=%d wave=%d (%s) ---\n", rpt.Tick, rpt.Wave, rpt.State)
	fmt.Fprintf(&sb, "Enemies: alive=%d shielded=%d slowed=%d depth=%.0f%%\n",
		rpt.EnemiesAlive, rpt.Shielded, rpt.Slowed, rpt.DepthFrac*100)
	fmt.Fprintf(&sb, "Player:  orbs=%d charges=%d focus=%.0f special=%.0f heat=%d\n",
		rpt.OrbsInFlight, rpt.Charges, rpt.Focus, rpt.Special, rpt.ComboHeat)
	fmt.Fprintf(&sb, "Run:     score=%d lives=%d\n", rpt.Score, rpt.Lives)

	sb.WriteString("Mix: ")
	for _, k := range allEnemyKinds {
		if c, ok := rpt.EnemiesByKind[k]; ok && c > 0 {
			fmt.Fprintf(&sb, "%s=%d ", k, c)
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}

// History returns all collected reports.
func (r *RunReporter) History() []FieldReport {
	return r.history
}

// KindProportions computes the share of each enemy kind among live enemies
// at the current moment. Returns a map of EnemyKind → fraction (0-1).
func KindProportions(enemies []*Enemy) map[EnemyKind]float64 {
	counts := make(map[EnemyKind]int)
	total := 0
	for _, e := range enemies {
		if !e.Alive {
			continue
		}
		counts[e.Kind]++
		total++
	}
	props := make(map[EnemyKind]float64, len(counts))
	if total > 0 {
		for k, c := range counts {
			props[k] = float64(c) / float64(total)
		}
	}
	return props
}

// DescentPressure returns the deepest live enemy's Y and its fraction of
// the way to the safety line.
func DescentPressure(enemies []*Enemy, f Field) (float64, float64) {
	deepest := 0.0
	for _, e := range enemies {
		if !e.Alive {
			continue
		}
		if e.Pos.Y > deepest {
			deepest = e.Pos.Y
		}
	}
	frac := 0.0
	if safety := f.SafetyY(); safety > 0 {
		frac = clamp01(deepest / safety)
	}
	return deepest, frac
}
