package game

import "math/rand"

// --- Session construction ---

// sessionOptionKind controls the pass in which an option is applied.
type sessionOptionKind int

const (
	sessOptConfig sessionOptionKind = iota // seed, field, difficulty, verbose — applied first
	sessOptStart                           // begin the run — applied once infrastructure exists
	sessOptTweak                           // adjust run state — applied last, survives the start reset
)

// SessionOption is a builder function applied to a Session during construction.
type SessionOption struct {
	kind sessionOptionKind
	fn   func(*Session)
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SessionOption {
	return SessionOption{sessOptConfig, func(s *Session) {
		s.seed = seed
	}}
}

// WithDifficulty selects a difficulty preset.
func WithDifficulty(d Difficulty) SessionOption {
	return SessionOption{sessOptConfig, func(s *Session) {
		s.diff = d
	}}
}

// WithFieldSize sets the playfield dimensions.
func WithFieldSize(w, h float64) SessionOption {
	return SessionOption{sessOptConfig, func(s *Session) {
		s.field = Field{W: w, H: h}
	}}
}

// WithVerboseLog enables per-tick telemetry entries in the run log.
func WithVerboseLog() SessionOption {
	return SessionOption{sessOptConfig, func(s *Session) {
		s.log = NewRunLog(true)
	}}
}

// WithRunStarted begins wave 1 immediately, so callers skip the idle state.
func WithRunStarted() SessionOption {
	return SessionOption{sessOptStart, func(s *Session) {
		s.StartRun()
	}}
}

// WithLives overrides the life pool.
func WithLives(n int) SessionOption {
	return SessionOption{sessOptTweak, func(s *Session) {
		s.maxLives = n
		s.lives = n
	}}
}

// WithModifiers edits the modifier state, for tests that need a drafted
// loadout without walking the draft flow. Combine with WithRunStarted; a
// later StartRun resets the loadout.
func WithModifiers(fn func(*ModifierState)) SessionOption {
	return SessionOption{sessOptTweak, func(s *Session) {
		fn(s.mods)
	}}
}

// NewSession constructs a Session from the given options in three ordered
// passes:
//  1. Configuration (seed, field, difficulty, verbose log)
//  2. Run start
//  3. State tweaks (lives, modifier loadout)
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		field:    DefaultField(),
		diff:     DifficultyNormal,
		seed:     1,
		log:      NewRunLog(false),
		state:    RunIdle,
		maxLives: livesStart,
	}
	for _, o := range opts {
		if o.kind == sessOptConfig {
			o.fn(s)
		}
	}
	s.rng = rand.New(rand.NewSource(s.seed)) // #nosec G404 -- game only
	s.mods = NewModifierState()
	s.tuner = NewTuningBuilder(s.rng)
	s.reporter = NewRunReporter(reportWindowTicks, false)
	s.lives = s.maxLives
	s.charges = launchChargesMax
	s.focusMax = focusStartMax
	s.focus = s.focusMax
	for _, o := range opts {
		if o.kind == sessOptStart {
			o.fn(s)
		}
	}
	for _, o := range opts {
		if o.kind == sessOptTweak {
			o.fn(s)
		}
	}
	return s
}

// --- Harness helpers ---

// RunTicks advances the session n ticks.
func (s *Session) RunTicks(n int) {
	for i := 0; i < n; i++ {
		s.Tick()
	}
}

// RunUntil advances the session up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (s *Session) RunUntil(predicate func(*Session) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		s.Tick()
		if predicate(s) {
			return s.tick
		}
	}
	return -1
}

// --- Snapshots ---

// SessionSnapshot captures a lightweight state summary.
type SessionSnapshot struct {
	Tick    int
	State   RunState
	Wave    int
	Score   int
	Lives   int
	Heat    int
	Orbs    []OrbSnapshot
	Enemies []EnemySnapshot
}

// OrbSnapshot is a lightweight copy of one orb in flight.
type OrbSnapshot struct {
	X, Y    float64
	Radius  float64
	Bounces int
}

// EnemySnapshot is a lightweight copy of one live enemy.
type EnemySnapshot struct {
	Kind   EnemyKind
	X, Y   float64
	Hp     float64
	Shield float64
	Lane   int
	Elite  bool
	Boss   bool
}

// Snapshot returns the current state of the field.
func (s *Session) Snapshot() SessionSnapshot {
	snap := SessionSnapshot{
		Tick:  s.tick,
		State: s.state,
		Wave:  s.waveNumber,
		Score: s.score,
		Lives: s.lives,
		Heat:  s.comboHeat,
	}
	for _, o := range s.orbs {
		if !o.Alive {
			continue
		}
		snap.Orbs = append(snap.Orbs, OrbSnapshot{
			X:       o.Pos.X,
			Y:       o.Pos.Y,
			Radius:  o.Radius,
			Bounces: o.BounceCount,
		})
	}
	for _, e := range s.enemies {
		if !e.Alive {
			continue
		}
		snap.Enemies = append(snap.Enemies, EnemySnapshot{
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
	return snap
}
