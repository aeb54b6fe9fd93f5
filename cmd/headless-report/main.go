package main

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"orbfall/internal/game"
)

type runStats struct {
	runIndex int
	seed     int64

	firstKillTick    int
	firstBreachTick  int
	firstDraftTick   int
	firstSpecialTick int
	gameOverTick     int

	kills    int
	breaches int
	launches int
	specials int
	drafts   int

	wavesCompleted int
	finalScore     int
	bestCombo      int
	livesLeft      int

	outcome       game.RunOutcomeReason
	windowSummary *game.RunWindowReport
	grades        []game.WaveGrade
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var difficulty string

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&difficulty, "difficulty", "normal", "difficulty tier (normal, hard, brutal)")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	diff, ok := game.DifficultyByName(difficulty)
	if !ok {
		fmt.Printf("error: unknown difficulty %q (supported: normal, hard, brutal)\n", difficulty)
		return
	}

	fmt.Printf("=== Headless Combat Report ===\n")
	fmt.Printf("difficulty=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", diff.Name, runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runAutoDefense(i+1, seed, ticks, diff)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

// runAutoDefense drives one session with a simple scripted defender: take
// the first card of every draft, volley at the deepest live enemy, fire the
// special burst whenever it has charged.
func runAutoDefense(runIndex int, seed int64, ticks int, diff game.Difficulty) runStats {
	s := game.NewSession(
		game.WithSeed(seed),
		game.WithDifficulty(diff),
		game.WithRunStarted(),
	)

	launches := 0
	for i := 0; i < ticks; i++ {
		if d := s.Draft(); d != nil {
			d.Choose(0)
		}
		if i%12 == 0 && s.Launch(deepestAlive(s)) {
			launches++
		}
		if i%30 == 0 {
			s.FireSpecial()
		}
		s.Tick()
	}

	entries := s.Log().Entries()
	return runStats{
		runIndex:         runIndex,
		seed:             seed,
		firstKillTick:    firstTick(entries, "combat", "kill", ""),
		firstBreachTick:  firstTick(entries, "combat", "breach", ""),
		firstDraftTick:   firstTick(entries, "draft", "open", ""),
		firstSpecialTick: firstTick(entries, "special", "fired", ""),
		gameOverTick:     firstTick(entries, "run", "over", ""),
		kills:            s.Log().CountCategory("combat", "kill"),
		breaches:         s.Log().CountCategory("combat", "breach"),
		launches:         launches,
		specials:         s.Log().CountCategory("special", "fired"),
		drafts:           s.Log().CountCategory("draft", "resolved"),
		wavesCompleted:   s.CompletedWaves(),
		finalScore:       s.Score(),
		bestCombo:        s.BestCombo(),
		livesLeft:        s.Lives(),
		outcome:          game.DetermineRunOutcome(s),
		windowSummary:    s.Reporter().WindowSummary(),
		grades:           s.WaveGrades(),
	}
}

// deepestAlive aims at the lowest live enemy, or mid-field when none exist.
func deepestAlive(s *game.Session) game.Vec2 {
	f := s.Field()
	best := game.Vec2{X: f.W / 2, Y: 300}
	found := false
	for _, e := range s.Enemies() {
		if !e.Alive {
			continue
		}
		if !found || e.Pos.Y > best.Y {
			best = e.Pos
			found = true
		}
	}
	return best
}

func firstTick(entries []game.RunLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: first_kill=%d first_breach=%d first_draft=%d first_special=%d game_over=%d\n",
		rs.firstKillTick, rs.firstBreachTick, rs.firstDraftTick, rs.firstSpecialTick, rs.gameOverTick)
	fmt.Printf("event_totals: kills=%d breaches=%d launches=%d specials=%d drafts=%d\n",
		rs.kills, rs.breaches, rs.launches, rs.specials, rs.drafts)
	fmt.Printf("run_result: waves_completed=%d score=%d best_combo=%d lives_left=%d/%d\n",
		rs.wavesCompleted, rs.finalScore, rs.bestCombo, rs.livesLeft, rs.outcome.MaxLives)
	fmt.Printf("outcome: %s (%s)\n", rs.outcome.Outcome, rs.outcome.Description)
	if rs.windowSummary != nil {
		fmt.Printf("window_samples=%d window_tick_range=%d..%d\n",
			rs.windowSummary.SampleCount, rs.windowSummary.FromTick, rs.windowSummary.ToTick)
		fmt.Printf("window_field_avg: enemies=%.1f shielded=%.1f slowed=%.1f depth=%.2f\n",
			rs.windowSummary.AvgEnemies,
			rs.windowSummary.AvgShielded,
			rs.windowSummary.AvgSlowed,
			rs.windowSummary.AvgDepth,
		)
		fmt.Printf("window_cannon_avg: orbs=%.1f bounces=%.1f charges=%.1f focus=%.1f special=%.1f heat=%.1f\n",
			rs.windowSummary.AvgOrbs,
			rs.windowSummary.AvgBounces,
			rs.windowSummary.AvgCharges,
			rs.windowSummary.AvgFocus,
			rs.windowSummary.AvgSpecial,
			rs.windowSummary.AvgHeat,
		)
		fmt.Printf("window_deltas: score=%d lives_lost=%d\n",
			rs.windowSummary.ScoreDelta, rs.windowSummary.LivesLost)
	}
	fmt.Print(game.FormatGrades(rs.grades))
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalKills := 0
	totalBreaches := 0
	totalLaunches := 0
	totalSpecials := 0
	totalDrafts := 0
	totalWaves := 0
	totalScore := 0
	totalCombo := 0

	killTicks := make([]int, 0, len(all))
	breachTicks := make([]int, 0, len(all))
	draftTicks := make([]int, 0, len(all))
	specialTicks := make([]int, 0, len(all))
	overTicks := make([]int, 0, len(all))

	// Aggregate per-wave-slot scores across runs.
	type waveAgg struct {
		scoreSum float64
		count    int
		cleared  int
		good     map[string]int
		bad      map[string]int
	}
	waveAggs := map[string]*waveAgg{}

	for _, rs := range all {
		totalKills += rs.kills
		totalBreaches += rs.breaches
		totalLaunches += rs.launches
		totalSpecials += rs.specials
		totalDrafts += rs.drafts
		totalWaves += rs.wavesCompleted
		totalScore += rs.finalScore
		totalCombo += rs.bestCombo
		if rs.firstKillTick >= 0 {
			killTicks = append(killTicks, rs.firstKillTick)
		}
		if rs.firstBreachTick >= 0 {
			breachTicks = append(breachTicks, rs.firstBreachTick)
		}
		if rs.firstDraftTick >= 0 {
			draftTicks = append(draftTicks, rs.firstDraftTick)
		}
		if rs.firstSpecialTick >= 0 {
			specialTicks = append(specialTicks, rs.firstSpecialTick)
		}
		if rs.gameOverTick >= 0 {
			overTicks = append(overTicks, rs.gameOverTick)
		}
		for _, g := range rs.grades {
			ag, ok := waveAggs[g.Label]
			if !ok {
				ag = &waveAgg{good: map[string]int{}, bad: map[string]int{}}
				waveAggs[g.Label] = ag
			}
			ag.scoreSum += g.Score
			ag.count++
			if g.Cleared {
				ag.cleared++
			}
			for _, t := range g.GoodTraits {
				ag.good[t]++
			}
			for _, t := range g.BadTraits {
				ag.bad[t]++
			}
		}
	}

	fmt.Println("=== Aggregate Run Inputs ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("avg_events_per_run: kills=%.1f breaches=%.1f launches=%.1f specials=%.1f drafts=%.1f\n",
		avg(totalKills, len(all)), avg(totalBreaches, len(all)), avg(totalLaunches, len(all)), avg(totalSpecials, len(all)), avg(totalDrafts, len(all)))
	fmt.Printf("avg_run_result: waves_completed=%.1f score=%.1f best_combo=%.1f\n",
		avg(totalWaves, len(all)), avg(totalScore, len(all)), avg(totalCombo, len(all)))
	fmt.Printf("phase_marker_avg_ticks: first_kill=%s first_breach=%s first_draft=%s first_special=%s game_over=%s\n",
		avgTickString(killTicks), avgTickString(breachTicks), avgTickString(draftTicks), avgTickString(specialTicks), avgTickString(overTicks))

	counts := outcomeCounts(all)
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, counts[name]))
	}
	fmt.Printf("outcomes: %s\n", strings.Join(parts, " "))

	// Per-wave-slot aggregate performance.
	fmt.Println("\n=== Aggregate Wave Performance ===")
	type labelScore struct {
		label     string
		avgScore  float64
		clearRate float64
		topGood   string
		topBad    string
	}
	var rows []labelScore
	for label, ag := range waveAggs {
		avgS := 0.0
		if ag.count > 0 {
			avgS = ag.scoreSum / float64(ag.count)
		}
		clearR := 0.0
		if ag.count > 0 {
			clearR = float64(ag.cleared) / float64(ag.count) * 100
		}
		tg := topTrait(ag.good)
		tb := topTrait(ag.bad)
		rows = append(rows, labelScore{label, avgS, clearR, tg, tb})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].label < rows[j].label
	})
	for _, r := range rows {
		grade := game.PerfLetterGrade(r.avgScore)
		fmt.Printf("  %s  %s (avg=%.1f)  clear_rate=%.0f%%", r.label, grade, r.avgScore, r.clearRate)
		if r.topGood != "" {
			fmt.Printf("  good=%s", r.topGood)
		}
		if r.topBad != "" {
			fmt.Printf("  bad=%s", r.topBad)
		}
		fmt.Println()
	}

	if len(all) > 0 {
		fmt.Println("\n--- Run Summary (across all runs) ---")
		fmt.Print(game.FormatGradesSummary(collectAllGrades(all)))
	}
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func topTrait(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	best := ""
	bestN := 0
	for k, v := range counts {
		if v > bestN {
			best = k
			bestN = v
		}
	}
	return fmt.Sprintf("%s(%d)", best, bestN)
}

func outcomeCounts(all []runStats) map[string]int {
	counts := map[string]int{}
	for _, rs := range all {
		counts[rs.outcome.Outcome.String()]++
	}
	return counts
}

func collectAllGrades(all []runStats) []game.WaveGrade {
	var out []game.WaveGrade
	for _, rs := range all {
		out = append(out, rs.grades...)
	}
	return out
}
