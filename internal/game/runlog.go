package game

import (
	"fmt"
	"strings"
)

// RunLogEntry is one recorded event during a combat run.
type RunLogEntry struct {
	Tick     int
	Wave     int     // wave in progress, 0 before the first
	Category string  // combat, orb, wave, draft, special, run
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=0420] w03  combat  kill            zigzag +145
func (e RunLogEntry) String() string {
	return fmt.Sprintf("[T=%04d] w%02d  %-8s %-16s %s",
		e.Tick, e.Wave, e.Category, e.Key, e.Value)
}

// RunLog collects structured events during a run. It is unbounded and
// machine-readable, meant for headless tests and the report tool rather
// than the HUD.
type RunLog struct {
	entries []RunLogEntry
	verbose bool
}

// NewRunLog creates a RunLog. If verbose is true, per-tick telemetry
// entries are also recorded (useful for detailed debugging).
func NewRunLog(verbose bool) *RunLog {
	return &RunLog{verbose: verbose}
}

// Add records a new entry.
func (rl *RunLog) Add(tick, wave int, category, key, value string, numVal float64) {
	rl.entries = append(rl.entries, RunLogEntry{
		Tick:     tick,
		Wave:     wave,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (rl *RunLog) AddVerbose(tick, wave int, category, key, value string, numVal float64) {
	if !rl.verbose {
		return
	}
	rl.Add(tick, wave, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (rl *RunLog) Entries() []RunLogEntry {
	return rl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (rl *RunLog) Filter(category, key string) []RunLogEntry {
	var out []RunLogEntry
	for _, e := range rl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterWave returns entries recorded during a specific wave.
func (rl *RunLog) FilterWave(wave int) []RunLogEntry {
	var out []RunLogEntry
	for _, e := range rl.entries {
		if e.Wave == wave {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (rl *RunLog) FilterTickRange(fromTick, toTick int) []RunLogEntry {
	var out []RunLogEntry
	for _, e := range rl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (rl *RunLog) CountCategory(category, key string) int {
	return len(rl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (rl *RunLog) LastOf(category, key string) (RunLogEntry, bool) {
	entries := rl.Filter(category, key)
	if len(entries) == 0 {
		return RunLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (rl *RunLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range rl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (rl *RunLog) Format() string {
	var sb strings.Builder
	for _, e := range rl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a tick range.
func (rl *RunLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range rl.FilterTickRange(fromTick, toTick) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable snapshot of the field.
func (rl *RunLog) Summary(tick int, orbs []*Orb, enemies []*Enemy) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%04d ---\n", tick)

	kindCount := map[EnemyKind]int{}
	alive := 0
	for _, e := range enemies {
		if !e.Alive {
			continue
		}
		alive++
		kindCount[e.Kind]++
	}
	fmt.Fprintf(&sb, "Enemies alive: %d\n", alive)
	if alive > 0 {
		sb.WriteString("Kinds: ")
		for _, k := range allEnemyKinds {
			if n := kindCount[k]; n > 0 {
				fmt.Fprintf(&sb, "%s=%d  ", k, n)
			}
		}
		sb.WriteByte('\n')
	}

	flying := 0
	for _, o := range orbs {
		if o.Alive {
			flying++
		}
	}
	fmt.Fprintf(&sb, "Orbs in flight: %d\n", flying)
	return sb.String()
}
