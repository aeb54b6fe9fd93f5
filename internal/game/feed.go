package game

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	feedPanelWidth = 300
	feedMaxEntries = 64
	feedLineHeight = 11
)

// feedTone picks the indicator colour for a feed line.
type feedTone int

const (
	toneInfo feedTone = iota
	toneGood
	toneBad
	toneDraft
)

var feedToneColors = map[feedTone]color.RGBA{
	toneInfo:  {R: 120, G: 130, B: 170, A: 255},
	toneGood:  {R: 110, G: 220, B: 160, A: 255},
	toneBad:   {R: 225, G: 80, B: 90, A: 255},
	toneDraft: {R: 200, G: 160, B: 255, A: 255},
}

// FeedEntry is a single line in the combat feed.
type FeedEntry struct {
	Tick int
	Wave int
	Tone feedTone
	Text string
}

// EventFeed is a ring buffer of noteworthy combat events rendered on-screen.
type EventFeed struct {
	entries []FeedEntry
	head    int
	count   int
}

// NewEventFeed creates a feed with a fixed capacity.
func NewEventFeed() *EventFeed {
	return &EventFeed{
		entries: make([]FeedEntry, feedMaxEntries),
	}
}

// Add appends an entry to the feed.
func (ef *EventFeed) Add(tick, wave int, tone feedTone, text string) {
	ef.entries[ef.head] = FeedEntry{Tick: tick, Wave: wave, Tone: tone, Text: text}
	ef.head = (ef.head + 1) % feedMaxEntries
	if ef.count < feedMaxEntries {
		ef.count++
	}
}

// Recent returns entries in chronological order (oldest first).
func (ef *EventFeed) Recent() []FeedEntry {
	result := make([]FeedEntry, ef.count)
	for i := 0; i < ef.count; i++ {
		idx := (ef.head - ef.count + i + feedMaxEntries) % feedMaxEntries
		result[i] = ef.entries[idx]
	}
	return result
}

// Observe turns a session event into a feed line. High-frequency events
// (launches, shield hits, routine kills) are skipped to keep the feed legible.
func (ef *EventFeed) Observe(tick, wave int, ev Event) {
	switch e := ev.(type) {
	case KillEvent:
		switch {
		case e.Boss:
			ef.Add(tick, wave, toneGood, fmt.Sprintf("boss %s down +%d", e.Kind, e.Score))
		case e.Elite:
			ef.Add(tick, wave, toneGood, fmt.Sprintf("elite %s down +%d", e.Kind, e.Score))
		case e.ComboTier >= 2:
			ef.Add(tick, wave, toneGood, fmt.Sprintf("%s down +%d (tier %d)", e.Kind, e.Score, e.ComboTier))
		}
	case BreachEvent:
		ef.Add(tick, wave, toneBad, fmt.Sprintf("%s breached lane %d (%d lives left)", e.Kind, e.Lane, e.LivesLeft))
	case WaveStartEvent:
		ef.Add(tick, wave, toneInfo, fmt.Sprintf("wave %02d  %s", e.Wave, e.Blueprint))
	case WaveCompleteEvent:
		ef.Add(tick, wave, toneGood, fmt.Sprintf("wave %02d cleared, score %d", e.Wave, e.Score))
	case DraftOpenEvent:
		ef.Add(tick, wave, toneDraft, fmt.Sprintf("draft %d: %s", e.Serial, strings.Join(e.Choices, " / ")))
	case DraftResolvedEvent:
		if e.Skipped {
			ef.Add(tick, wave, toneDraft, "draft skipped")
		} else {
			ef.Add(tick, wave, toneDraft, fmt.Sprintf("picked %s", e.Pick))
		}
	case RunOverEvent:
		ef.Add(tick, wave, toneBad, fmt.Sprintf("run over at wave %d, score %d", e.Wave, e.Score))
	case SpecialFiredEvent:
		ef.Add(tick, wave, toneGood, fmt.Sprintf("special burst staggered %d", e.Hit))
	case SpecialReadyEvent:
		ef.Add(tick, wave, toneInfo, "special charged")
	}
}

// Draw renders the feed panel on the right side of the screen.
func (ef *EventFeed) Draw(screen *ebiten.Image, panelX int, panelH int) {
	// Panel background.
	vector.FillRect(screen, float32(panelX), 0, float32(feedPanelWidth), float32(panelH), color.RGBA{R: 10, G: 11, B: 16, A: 248}, false)
	// Left separator line.
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 55, G: 60, B: 90, A: 255}, false)

	// Title bar background.
	vector.FillRect(screen, float32(panelX), 0, float32(feedPanelWidth), 16, color.RGBA{R: 20, G: 23, B: 36, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "COMBAT FEED", panelX+8, 2)
	// Title separator.
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+feedPanelWidth), 16, 1.0, color.RGBA{R: 55, G: 65, B: 100, A: 200}, false)

	entries := ef.Recent()

	// Draw from bottom up so newest is at bottom.
	maxVisible := (panelH - 24) / feedLineHeight
	startIdx := 0
	if len(entries) > maxVisible {
		startIdx = len(entries) - maxVisible
	}

	visible := entries[startIdx:]
	recent := 3 // how many latest entries to highlight

	y := 20
	for i, e := range visible {
		isRecent := i >= len(visible)-recent

		// Highlight row background for recent entries.
		if isRecent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(feedPanelWidth-4), float32(feedLineHeight), color.RGBA{R: 26, G: 30, B: 46, A: 160}, false)
		}

		// Tone indicator dot.
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, feedToneColors[e.Tone], false)

		// Tick + wave + message.
		line := fmt.Sprintf("%5d w%02d %s", e.Tick, e.Wave, e.Text)
		ebitenutil.DebugPrintAt(screen, line, panelX+12, y)
		y += feedLineHeight
	}
}
