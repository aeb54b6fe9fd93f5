package game

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// --- Run state ---

type RunState int

const (
	RunIdle RunState = iota
	RunActive
	RunPausedManual
	RunPausedDraft
	RunOver
)

func (s RunState) String() string {
	switch s {
	case RunIdle:
		return "idle"
	case RunActive:
		return "active"
	case RunPausedManual:
		return "paused"
	case RunPausedDraft:
		return "drafting"
	case RunOver:
		return "over"
	default:
		return "unknown"
	}
}

// --- Session tuning ---

const (
	// TickSeconds is the fixed simulation step. The session has no notion
	// of wall time; callers decide how often to tick.
	TickSeconds = 1.0 / 60

	livesStart = 3

	launchChargesMax   = 3
	chargeRegenSeconds = 1.6
	minAimAbove        = 40.0 // px above the cannon the aim point is clamped to

	comboGraceSeconds   = 2.0
	comboDecayPerSecond = 2.0

	killScoreBase      = 100.0
	killScorePerHp     = 15.0
	killScoreTierBonus = 0.1

	focusStartMax    = 100.0
	focusDrainPerSec = 35.0
	focusRegenPerSec = 12.0
	aftertouchAccel  = 520.0 // px/s^2 applied to every orb while steering

	specialMaxCharge   = 100.0
	specialPerKill     = 4.0
	specialKnockback   = 420.0
	specialSlowSeconds = 1.8
	specialSlowFactor  = 0.45

	interWaveSeconds      = 1.5
	majorDraftEvery       = 3 // every Nth completed wave offers majors instead of upgrades
	draftChoiceCount      = 3
	gameOverFreezeSeconds = 3.5

	reportEveryTicks = 60
)

// Session is the headless combat core: one instance owns the full run state
// and advances it in fixed ticks. The app layer wraps it for rendering and
// input; tests and the report tool drive it directly.
type Session struct {
	field Field
	rng   *rand.Rand
	seed  int64
	log   *RunLog
	diff  Difficulty

	state RunState
	tick  int

	tuner          *TuningBuilder
	mods           *ModifierState
	spawner        *WaveSpawner
	waveNumber     int
	completedWaves int
	intermission   float64

	orbs          []*Orb
	enemies       []*Enemy
	pendingSpawns []*Enemy
	impacts       []impactMark // this tick's impacts, feeds chain lightning

	lives    int
	maxLives int
	score    int

	comboHeat  int
	bestCombo  int
	sinceKill  float64
	decayAccum float64

	charges     int
	chargeAccum float64

	focus      float64
	focusMax   float64
	aftertouch int // -1 left, 0 off, +1 right

	special       float64
	chainCooldown float64

	draft       *DraftOffer
	draftSerial int

	gameOverTimer float64

	events   []Event
	reporter *RunReporter
}

// --- Player operations ---

// StartRun resets all run state and begins wave 1. An open draft offer is
// abandoned; a response sent to it afterwards lands nowhere.
func (s *Session) StartRun() {
	s.draft = nil
	s.orbs = nil
	s.enemies = nil
	s.pendingSpawns = nil
	s.mods = NewModifierState()
	s.tuner = NewTuningBuilder(s.rng)
	s.spawner = nil
	s.waveNumber = 0
	s.completedWaves = 0
	s.intermission = 0
	s.lives = s.maxLives
	s.score = 0
	s.comboHeat = 0
	s.bestCombo = 0
	s.sinceKill = 0
	s.decayAccum = 0
	s.charges = launchChargesMax
	s.chargeAccum = 0
	s.focusMax = focusStartMax
	s.focus = s.focusMax
	s.aftertouch = 0
	s.special = 0
	s.chainCooldown = 0
	s.gameOverTimer = 0
	s.state = RunActive
	s.log.Add(s.tick, 0, "run", "start",
		fmt.Sprintf("seed=%d difficulty=%s", s.seed, s.diff.Name), 0)
	s.beginNextWave()
}

// Launch spends one charge to fire at the aim point. Returns false when the
// run is not active or no charge is banked.
func (s *Session) Launch(target Vec2) bool {
	if s.state != RunActive || s.charges <= 0 {
		return false
	}
	from := s.field.CannonPos()
	if target.Y > from.Y-minAimAbove {
		target.Y = from.Y - minAimAbove
	}
	orbs := launchOrbs(from, target, s.mods)
	s.orbs = append(s.orbs, orbs...)
	s.charges--
	s.emit(LaunchEvent{Pos: from, Count: len(orbs)})
	s.log.AddVerbose(s.tick, s.waveNumber, "orb", "launch",
		fmt.Sprintf("x%d toward (%.0f,%.0f)", len(orbs), target.X, target.Y), float64(len(orbs)))
	return true
}

// SetAftertouch sets the steering direction: negative bends orbs left,
// positive right, zero releases and lets focus regenerate.
func (s *Session) SetAftertouch(dir int) {
	switch {
	case dir < 0:
		s.aftertouch = -1
	case dir > 0:
		s.aftertouch = 1
	default:
		s.aftertouch = 0
	}
}

// FireSpecial releases the burst when the meter is full: every enemy on the
// field is shoved back up and chilled.
func (s *Session) FireSpecial() bool {
	if s.state != RunActive || s.special < specialMaxCharge {
		return false
	}
	hit := 0
	for _, e := range s.enemies {
		if !e.Alive {
			continue
		}
		e.ApplyKnockback(specialKnockback)
		e.ApplySlow(specialSlowSeconds, specialSlowFactor)
		hit++
	}
	s.special = 0
	s.emit(SpecialFiredEvent{Hit: hit})
	s.log.Add(s.tick, s.waveNumber, "special", "fired",
		fmt.Sprintf("%d enemies staggered", hit), float64(hit))
	return true
}

// TogglePause flips between active and manually paused. Draft pauses and
// the game-over freeze are not affected.
func (s *Session) TogglePause() {
	switch s.state {
	case RunActive:
		s.state = RunPausedManual
	case RunPausedManual:
		s.state = RunActive
	}
}

// --- Tick ---

// Tick advances the session one fixed step.
func (s *Session) Tick() {
	switch s.state {
	case RunIdle, RunPausedManual:
		return
	case RunPausedDraft:
		s.pollDraft()
		return
	case RunOver:
		s.gameOverTimer -= TickSeconds
		if s.gameOverTimer <= 0 {
			s.state = RunIdle
		}
		return
	}

	s.tick++
	dt := TickSeconds

	// 1. Meters and cooldowns.
	s.tickCharges(dt)
	if s.chainCooldown > 0 {
		s.chainCooldown -= dt
	}

	// 2. Scheduled spawns.
	if s.spawner != nil {
		s.spawner.Advance(dt, s.spawnFromGroup)
	}

	// 3. Aftertouch and focus.
	s.tickAftertouch(dt)

	// 4. Motion.
	ctx := s.enemyCtx()
	for _, o := range s.orbs {
		o.Advance(dt, s.field, s.enemies, s.mods)
	}
	for _, e := range s.enemies {
		e.Advance(dt, ctx)
	}

	// 5. Impacts and drafted on-hit effects.
	s.tickImpacts()
	s.tickChain()

	// 6. Cull, refunds, breaches.
	s.cullOrbs()
	s.cullEnemies()
	s.enemies = append(s.enemies, s.pendingSpawns...)
	s.pendingSpawns = nil
	if s.state != RunActive { // a breach may have ended the run
		return
	}

	// 7. Wave flow.
	s.tickWaveFlow(dt)

	// 8. Combo decay.
	s.tickCombo(dt)

	// 9. Telemetry.
	if s.tick%reportEveryTicks == 0 {
		s.reporter.Collect(s)
		s.log.AddVerbose(s.tick, s.waveNumber, "run", "field",
			fmt.Sprintf("orbs=%d enemies=%d score=%d heat=%d",
				len(s.orbs), len(s.enemies), s.score, s.comboHeat),
			float64(len(s.enemies)))
	}
}

// --- Tick phases ---

func (s *Session) tickCharges(dt float64) {
	if s.charges >= launchChargesMax {
		s.chargeAccum = 0
		return
	}
	s.chargeAccum += dt
	for s.chargeAccum >= chargeRegenSeconds && s.charges < launchChargesMax {
		s.chargeAccum -= chargeRegenSeconds
		s.charges++
	}
}

func (s *Session) tickAftertouch(dt float64) {
	steering := s.aftertouch != 0 && s.focus > 0 && s.anyOrbAlive()
	if steering {
		ax := aftertouchAccel * float64(s.aftertouch)
		for _, o := range s.orbs {
			if o.Alive {
				o.Vel.X += ax * dt
			}
		}
		s.focus = math.Max(0, s.focus-focusDrainPerSec*dt)
		return
	}
	if s.aftertouch == 0 {
		s.focus = math.Min(s.focusMax, s.focus+focusRegenPerSec*dt)
	}
}

func (s *Session) anyOrbAlive() bool {
	for _, o := range s.orbs {
		if o.Alive {
			return true
		}
	}
	return false
}

func (s *Session) spawnFromGroup(g EnemySpawnGroup) {
	hp := math.Round(float64(g.Hp) * s.diff.HpScale)
	if hp < 1 {
		hp = 1
	}
	speedMul := 1.0
	if s.spawner != nil {
		speedMul = s.spawner.Blueprint().SpeedMul
	}
	e := NewEnemy(g.Kind, g.Lane, s.field, hp, speedMul, g.Elite, g.Boss, s.rng)
	s.enemies = append(s.enemies, e)
}

func (s *Session) enemyCtx() *enemyCtx {
	return &enemyCtx{
		field:   s.field,
		orbs:    s.orbs,
		enemies: s.enemies,
		rng:     s.rng,
		spawn:   func(e *Enemy) { s.pendingSpawns = append(s.pendingSpawns, e) },
		emit:    s.emit,
	}
}

// tickImpacts resolves orb-enemy overlap: damage, kill bookkeeping, drafted
// on-hit effects, and the orb's own reaction. One impact per orb per tick;
// splitting takes precedence over deflection.
func (s *Session) tickImpacts() {
	s.impacts = s.impacts[:0]
	var spawned []*Orb
	for _, o := range s.orbs {
		if !o.Alive {
			continue
		}
		for _, e := range s.enemies {
			if !e.Alive {
				continue
			}
			rr := o.Radius + e.Radius
			if o.Pos.Sub(e.Pos).LenSq() > rr*rr {
				continue
			}
			s.impacts = append(s.impacts, impactMark{pos: o.Pos, target: e})
			dmg := s.mods.orbDamage(o, e, s.comboHeat, s.diff.DamageScale)
			res := e.TakeDamage(dmg)
			if res.ShieldHit {
				s.emit(ShieldHitEvent{Pos: e.Pos})
				if res.ShieldBroken {
					s.emit(ShieldBreakEvent{Pos: e.Pos})
				}
			}
			if s.mods.Slow != nil {
				e.ApplySlow(s.mods.Slow.Duration, s.mods.Slow.Factor)
			}
			if s.mods.KnockbackForce > 0 {
				e.ApplyKnockback(s.mods.KnockbackForce)
			}
			if res.Killed {
				s.handleKill(e)
			}
			if s.mods.Explosion != nil {
				s.explodeAt(o.Pos, e)
			}
			if o.SplitOnImpact {
				kids := o.splitChildren()
				spawned = append(spawned, kids[0], kids[1])
			} else {
				o.deflectFrom(e.Pos, rr+1)
			}
			break
		}
	}
	s.orbs = append(s.orbs, spawned...)
}

// explodeAt damages every enemy around an impact except the one the orb
// itself already hit.
func (s *Session) explodeAt(pos Vec2, struck *Enemy) {
	ex := s.mods.Explosion
	hit := 0
	for _, e := range s.enemies {
		if !e.Alive || e == struck {
			continue
		}
		if e.Pos.Dist(pos) > ex.Radius+e.Radius {
			continue
		}
		hit++
		if res := e.TakeDamage(ex.Damage); res.Killed {
			s.handleKill(e)
		}
	}
	s.emit(ExplosionEvent{Pos: pos, Radius: ex.Radius, Hit: hit})
}

// impactMark remembers where an orb struck and whom, so chain lightning can
// arc outward instead of back into the enemy that was just hit.
type impactMark struct {
	pos    Vec2
	target *Enemy
}

// tickChain arcs lightning from the first impact of the tick to the nearest
// other live enemy in range, throttled by the chain interval.
func (s *Session) tickChain() {
	ch := s.mods.Chain
	if ch == nil || s.chainCooldown > 0 || len(s.impacts) == 0 {
		return
	}
	first := s.impacts[0]
	var target *Enemy
	bestSq := ch.Range * ch.Range
	for _, e := range s.enemies {
		if !e.Alive || e == first.target {
			continue
		}
		if dSq := e.Pos.Sub(first.pos).LenSq(); dSq <= bestSq {
			bestSq = dSq
			target = e
		}
	}
	if target == nil {
		return
	}
	if res := target.TakeDamage(ch.Damage); res.Killed {
		s.handleKill(target)
	}
	s.chainCooldown = ch.Interval
	s.emit(ChainArcEvent{From: first.pos, To: target.Pos, Damage: ch.Damage})
}

// handleKill runs once per kill at the moment hp reaches zero: score with
// the tier held at kill time, then heat, special charge, and death hooks.
func (s *Session) handleKill(e *Enemy) {
	tier := s.comboHeat / comboTierSize
	points := int(math.Round((killScoreBase + killScorePerHp*e.MaxHp) * (1 + killScoreTierBonus*float64(tier))))
	s.score += points
	s.comboHeat++
	if s.comboHeat > s.bestCombo {
		s.bestCombo = s.comboHeat
	}
	s.sinceKill = 0
	s.decayAccum = 0
	wasReady := s.special >= specialMaxCharge
	s.special = math.Min(specialMaxCharge, s.special+specialPerKill)
	if !wasReady && s.special >= specialMaxCharge {
		s.emit(SpecialReadyEvent{})
	}
	if prof := e.Kind.Profile(); prof.OnDeath != nil {
		prof.OnDeath(e, s.enemyCtx())
	}
	s.emit(KillEvent{Kind: e.Kind, Pos: e.Pos, Score: points, ComboTier: tier, Elite: e.Elite, Boss: e.Boss})
	s.log.Add(s.tick, s.waveNumber, "combat", "kill",
		fmt.Sprintf("%s +%d heat=%d", e.Kind, points, s.comboHeat), float64(points))
}

func (s *Session) cullOrbs() {
	kept := s.orbs[:0]
	for _, o := range s.orbs {
		if o.Alive {
			kept = append(kept, o)
			continue
		}
		if o.lost {
			if s.charges < launchChargesMax {
				s.charges++
			}
			s.emit(OrbLostEvent{Pos: o.Pos})
		}
	}
	s.orbs = kept
}

func (s *Session) cullEnemies() {
	kept := s.enemies[:0]
	for _, e := range s.enemies {
		if e.Alive {
			kept = append(kept, e)
			continue
		}
		if e.Breached() {
			if s.lives > 0 {
				s.lives--
			}
			s.emit(BreachEvent{Kind: e.Kind, Lane: e.Lane, LivesLeft: s.lives})
			s.log.Add(s.tick, s.waveNumber, "combat", "breach",
				fmt.Sprintf("%s lane %d, %d lives left", e.Kind, e.Lane, s.lives), float64(s.lives))
			if s.lives <= 0 {
				s.triggerGameOver()
			}
		}
	}
	s.enemies = kept
}

func (s *Session) triggerGameOver() {
	if s.state == RunOver {
		return
	}
	s.state = RunOver
	s.gameOverTimer = gameOverFreezeSeconds
	s.emit(RunOverEvent{Wave: s.waveNumber, Score: s.score, BestCombo: s.bestCombo})
	s.log.Add(s.tick, s.waveNumber, "run", "over",
		fmt.Sprintf("wave=%d score=%d best_combo=%d", s.waveNumber, s.score, s.bestCombo), float64(s.score))
}

func (s *Session) tickWaveFlow(dt float64) {
	if s.spawner != nil {
		if !s.spawner.Done() || len(s.enemies) > 0 || len(s.pendingSpawns) > 0 {
			return
		}
		wave := s.waveNumber
		s.spawner = nil
		s.completedWaves++
		s.intermission = interWaveSeconds
		s.emit(WaveCompleteEvent{Wave: wave, Score: s.score})
		s.log.Add(s.tick, wave, "wave", "complete", fmt.Sprintf("score=%d", s.score), float64(s.score))
		if s.completedWaves%majorDraftEvery == 0 {
			s.openDraft(DraftMajors)
		} else {
			s.openDraft(DraftUpgrades)
		}
		return
	}
	s.intermission -= dt
	if s.intermission <= 0 {
		s.beginNextWave()
	}
}

func (s *Session) beginNextWave() {
	s.waveNumber++
	bp := generateWave(s.waveNumber, s.tuner, s.rng)
	s.spawner = NewWaveSpawner(bp)
	s.emit(WaveStartEvent{Wave: s.waveNumber, Blueprint: bp.ID, Groups: len(bp.Groups)})
	s.log.Add(s.tick, s.waveNumber, "wave", "start",
		fmt.Sprintf("%s mutation=%s enemies=%d", bp.ID, bp.Mutation, s.spawner.Total()),
		float64(s.spawner.Total()))
}

// openDraft pauses the run behind an offer. When no card is currently
// offerable the draft is skipped outright.
func (s *Session) openDraft(kind DraftKind) {
	var choices []ModifierCard
	if kind == DraftMajors {
		choices = s.pickMajors(draftChoiceCount)
	} else {
		choices = s.pickUpgrades(draftChoiceCount)
	}
	if len(choices) == 0 {
		return
	}
	s.draftSerial++
	s.draft = newDraftOffer(s.draftSerial, kind, choices)
	s.state = RunPausedDraft
	s.emit(DraftOpenEvent{Serial: s.draft.Serial, Kind: kind, Choices: s.draft.choiceNames()})
	s.log.Add(s.tick, s.waveNumber, "draft", "open",
		fmt.Sprintf("%s: %s", kind, strings.Join(s.draft.choiceNames(), " / ")), float64(len(choices)))
}

func (s *Session) pollDraft() {
	r, ok := s.draft.poll()
	if !ok {
		return
	}
	pick := ""
	if !r.skipped {
		c := s.draft.Choices[r.index]
		s.applyCard(c)
		pick = c.Name
		s.emit(ToastEvent{Text: c.Name, Pos: s.field.CannonPos()})
	}
	s.emit(DraftResolvedEvent{Serial: s.draft.Serial, Pick: pick, Skipped: r.skipped})
	s.log.Add(s.tick, s.waveNumber, "draft", "resolved",
		fmt.Sprintf("serial=%d pick=%q", s.draft.Serial, pick), 0)
	s.draft = nil
	s.state = RunActive
}

// tickCombo cools heat after the grace window. Decay is lossy: the timer is
// never rebased, so heat bleeds at a steady rate until the next kill.
func (s *Session) tickCombo(dt float64) {
	s.sinceKill += dt
	if s.sinceKill <= comboGraceSeconds || s.comboHeat == 0 {
		return
	}
	s.decayAccum += comboDecayPerSecond * dt
	drop := int(s.decayAccum)
	if drop == 0 {
		return
	}
	s.decayAccum -= float64(drop)
	s.comboHeat -= drop
	if s.comboHeat < 0 {
		s.comboHeat = 0
	}
}

func (s *Session) emit(ev Event) {
	s.events = append(s.events, ev)
}

// DrainEvents returns the events queued since the last drain and clears
// the queue.
func (s *Session) DrainEvents() []Event {
	out := s.events
	s.events = nil
	return out
}

// --- Queries ---

// HUDSnapshot is a lightweight copy of everything the HUD renders.
type HUDSnapshot struct {
	State      RunState
	Wave       int
	Stage      int
	WaveID     string
	Mutation   string
	Score      int
	Lives      int
	MaxLives   int
	Charges    int
	ChargeFill float64 // 0..1 progress toward the next charge
	ComboHeat  int
	ComboTier  int
	BestCombo  int
	Focus      float64
	FocusMax   float64
	Special    float64
	SpecialMax float64
	Enemies    int
	Incoming   int // scheduled but not yet spawned
	LastPick   string
	DraftOpen  bool
}

func (s *Session) HUDSnapshot() HUDSnapshot {
	h := HUDSnapshot{
		State:      s.state,
		Wave:       s.waveNumber,
		Stage:      stageForWave(s.waveNumber),
		Score:      s.score,
		Lives:      s.lives,
		MaxLives:   s.maxLives,
		Charges:    s.charges,
		ComboHeat:  s.comboHeat,
		ComboTier:  s.comboHeat / comboTierSize,
		BestCombo:  s.bestCombo,
		Focus:      s.focus,
		FocusMax:   s.focusMax,
		Special:    s.special,
		SpecialMax: specialMaxCharge,
		LastPick:   s.mods.LastPick,
		DraftOpen:  s.draft != nil,
	}
	if s.charges < launchChargesMax {
		h.ChargeFill = clamp01(s.chargeAccum / chargeRegenSeconds)
	}
	for _, e := range s.enemies {
		if e.Alive {
			h.Enemies++
		}
	}
	if s.spawner != nil {
		h.Incoming = s.spawner.Total() - s.spawner.Spawned()
		bp := s.spawner.Blueprint()
		h.WaveID = bp.ID
		h.Mutation = bp.Mutation
	}
	return h
}

func (s *Session) State() RunState          { return s.state }
func (s *Session) TickCount() int           { return s.tick }
func (s *Session) Score() int               { return s.score }
func (s *Session) Lives() int               { return s.lives }
func (s *Session) Charges() int             { return s.charges }
func (s *Session) ComboHeat() int           { return s.comboHeat }
func (s *Session) BestCombo() int           { return s.bestCombo }
func (s *Session) Focus() float64           { return s.focus }
func (s *Session) Special() float64         { return s.special }
func (s *Session) WaveNumber() int          { return s.waveNumber }
func (s *Session) CompletedWaves() int      { return s.completedWaves }
func (s *Session) Orbs() []*Orb             { return s.orbs }
func (s *Session) Enemies() []*Enemy        { return s.enemies }
func (s *Session) Draft() *DraftOffer       { return s.draft }
func (s *Session) Log() *RunLog             { return s.log }
func (s *Session) Field() Field             { return s.field }
func (s *Session) Seed() int64              { return s.seed }
func (s *Session) Difficulty() Difficulty   { return s.diff }
func (s *Session) Reporter() *RunReporter   { return s.reporter }
