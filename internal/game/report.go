package game

import (
	"fmt"
	"strings"
)

// DebugReport builds a paste-friendly text report covering the last
// lastTicks of the run: header, log-derived counters, an event timeline,
// run-length stages from the reporter history, and the sliding window
// summary. The app layer copies it to the clipboard.
func (s *Session) DebugReport(lastTicks int) string {
	if lastTicks <= 0 {
		lastTicks = reportWindowTicks
	}
	toTick := s.tick
	fromTick := toTick - lastTicks + 1
	if fromTick < 0 {
		fromTick = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- Orbfall debug report ---\n")
	fmt.Fprintf(&b, "seed=%d difficulty=%s tick_range=[%d..%d] ticks=%d\n",
		s.seed, s.diff.Name, fromTick, toTick, toTick-fromTick+1)
	fmt.Fprintf(&b, "state=%s wave=%d score=%d lives=%d heat=%d best_combo=%d\n\n",
		s.state, s.waveNumber, s.score, s.lives, s.comboHeat, s.bestCombo)

	entries := s.log.FilterTickRange(fromTick, toTick)
	counts := map[string]int{}
	for _, e := range entries {
		counts[e.Category+"/"+e.Key]++
	}
	fmt.Fprintf(&b,
		"summary: kills=%d breaches=%d waves_started=%d waves_cleared=%d drafts=%d specials=%d\n",
		counts["combat/kill"],
		counts["combat/breach"],
		counts["wave/start"],
		counts["wave/complete"],
		counts["draft/resolved"],
		counts["special/fired"],
	)

	events := storyLines(entries)
	if len(events) > 0 {
		b.WriteString("events:\n")
		for _, e := range events {
			b.WriteString("  - ")
			b.WriteString(e)
			b.WriteByte('\n')
		}
	}

	snaps := historyInRange(s.reporter.History(), fromTick, toTick)
	if len(snaps) > 0 {
		stages := buildRunStages(snaps)
		b.WriteString("stages:\n")
		for i, st := range stages {
			tag := ""
			if st.quiet {
				tag = " [QUIET]"
			}
			fmt.Fprintf(&b,
				"  %02d) T=%d..%d (%d samples)%s wave:%d->%d state:%s enemies:%d->%d depth:%.0f%%->%.0f%% score:%d->%d lives:%d->%d\n",
				i+1,
				st.first.Tick,
				st.last.Tick,
				st.count,
				tag,
				st.first.Wave,
				st.last.Wave,
				st.first.State,
				st.first.EnemiesAlive,
				st.last.EnemiesAlive,
				st.first.DepthFrac*100,
				st.last.DepthFrac*100,
				st.first.Score,
				st.last.Score,
				st.first.Lives,
				st.last.Lives,
			)
		}
	}

	b.WriteByte('\n')
	b.WriteString(s.reporter.WindowSummary().Format())
	return b.String()
}

// storyLines extracts the narrative entries from a log slice, capped so a
// long range cannot flood the report.
func storyLines(entries []RunLogEntry) []string {
	var out []string
	for _, e := range entries {
		switch {
		case e.Category == "wave" || e.Category == "draft" || e.Category == "run" || e.Category == "special":
			out = append(out, fmt.Sprintf("T=%d %s/%s %s", e.Tick, e.Category, e.Key, e.Value))
		case e.Category == "combat" && e.Key == "breach":
			out = append(out, fmt.Sprintf("T=%d breach %s", e.Tick, e.Value))
		}
	}
	if len(out) > 24 {
		out = append(out[:24], fmt.Sprintf("... (%d more events)", len(out)-24))
	}
	return out
}

func historyInRange(history []FieldReport, fromTick, toTick int) []FieldReport {
	var out []FieldReport
	for _, r := range history {
		if r.Tick >= fromTick && r.Tick <= toTick {
			out = append(out, r)
		}
	}
	return out
}

type runStage struct {
	startIdx int
	endIdx   int
	count    int
	first    FieldReport
	last     FieldReport
	quiet    bool
}

// buildRunStages groups consecutive reporter samples that look alike, so
// the report reads as a handful of phases instead of a sample-per-line dump.
func buildRunStages(snaps []FieldReport) []runStage {
	if len(snaps) == 0 {
		return nil
	}
	keyOf := func(r FieldReport) string {
		enemyBand := r.EnemiesAlive / 3
		if enemyBand > 6 {
			enemyBand = 6
		}
		depthBand := int(r.DepthFrac * 4)
		return fmt.Sprintf("st=%d|w=%d|l=%d|eb=%d|db=%d",
			r.State, r.Wave, r.Lives, enemyBand, depthBand)
	}

	stages := make([]runStage, 0, 16)
	start := 0
	curKey := keyOf(snaps[0])
	for i := 1; i < len(snaps); i++ {
		k := keyOf(snaps[i])
		if k == curKey {
			continue
		}
		stages = append(stages, makeRunStage(snaps, start, i-1))
		start = i
		curKey = k
	}
	stages = append(stages, makeRunStage(snaps, start, len(snaps)-1))
	return stages
}

func makeRunStage(snaps []FieldReport, start, end int) runStage {
	quiet := true
	for i := start; i <= end; i++ {
		if snaps[i].EnemiesAlive > 0 {
			quiet = false
			break
		}
	}
	return runStage{
		startIdx: start,
		endIdx:   end,
		count:    end - start + 1,
		first:    snaps[start],
		last:     snaps[end],
		quiet:    quiet,
	}
}
