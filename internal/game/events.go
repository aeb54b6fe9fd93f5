package game

// --- Events ---
//
// Typed notifications emitted by the session during a tick. The run log
// records every event by name; the app layer consumes the slice returned
// from Session.DrainEvents for popups, flashes, and sound hooks.

type Event interface {
	eventName() string
}

type LaunchEvent struct {
	Pos   Vec2
	Count int
}

type KillEvent struct {
	Kind      EnemyKind
	Pos       Vec2
	Score     int
	ComboTier int
	Elite     bool
	Boss      bool
}

type BreachEvent struct {
	Kind      EnemyKind
	Lane      int
	LivesLeft int
}

type ShieldHitEvent struct {
	Pos Vec2
}

type ShieldBreakEvent struct {
	Pos Vec2
}

type OrbLostEvent struct {
	Pos Vec2
}

type WaveStartEvent struct {
	Wave      int
	Blueprint string
	Groups    int
}

type WaveCompleteEvent struct {
	Wave  int
	Score int
}

type DraftOpenEvent struct {
	Serial  int
	Kind    DraftKind
	Choices []string
}

type DraftResolvedEvent struct {
	Serial  int
	Pick    string
	Skipped bool
}

type RunOverEvent struct {
	Wave      int
	Score     int
	BestCombo int
}

type SpecialReadyEvent struct{}

type SpecialFiredEvent struct {
	Hit int
}

type SporeCloudEvent struct {
	Pos    Vec2
	Radius float64
}

type AuraPulseEvent struct {
	Pos    Vec2
	Radius float64
}

type ChainArcEvent struct {
	From   Vec2
	To     Vec2
	Damage float64
}

type ExplosionEvent struct {
	Pos    Vec2
	Radius float64
	Hit    int
}

type ToastEvent struct {
	Text string
	Pos  Vec2
}

func (LaunchEvent) eventName() string        { return "launch" }
func (KillEvent) eventName() string          { return "kill" }
func (BreachEvent) eventName() string        { return "breach" }
func (ShieldHitEvent) eventName() string     { return "shield_hit" }
func (ShieldBreakEvent) eventName() string   { return "shield_break" }
func (OrbLostEvent) eventName() string       { return "orb_lost" }
func (WaveStartEvent) eventName() string     { return "wave_start" }
func (WaveCompleteEvent) eventName() string  { return "wave_complete" }
func (DraftOpenEvent) eventName() string     { return "draft_open" }
func (DraftResolvedEvent) eventName() string { return "draft_resolved" }
func (RunOverEvent) eventName() string       { return "run_over" }
func (SpecialReadyEvent) eventName() string  { return "special_ready" }
func (SpecialFiredEvent) eventName() string  { return "special_fired" }
func (SporeCloudEvent) eventName() string    { return "spore_cloud" }
func (AuraPulseEvent) eventName() string     { return "aura_pulse" }
func (ChainArcEvent) eventName() string      { return "chain_arc" }
func (ExplosionEvent) eventName() string     { return "explosion" }
func (ToastEvent) eventName() string         { return "toast" }
