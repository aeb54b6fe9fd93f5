package game

import (
	"math"
	"math/rand"
)

const (
	knockbackDecayPerSec = 5.0 // fraction of remaining knockback shed per second
	knockbackFloor       = 1.0 // px/s below which knockback snaps to zero
)

// enemyCtx carries the per-tick surroundings a variant behavior may touch.
type enemyCtx struct {
	field   Field
	orbs    []*Orb
	enemies []*Enemy
	rng     *rand.Rand
	spawn   func(*Enemy)
	emit    func(Event)
}

// Enemy is one live adversary descending toward the safety line. Variant
// behavior lives in the EnemyKind hook table; this struct owns the shared
// timer/shield/slow/knockback/death machinery.
type Enemy struct {
	Kind   EnemyKind
	Pos    Vec2
	Vel    Vec2 // desired velocity, set by the variant behavior each tick
	Radius float64
	Hp     float64
	MaxHp  float64
	Shield float64
	Alive  bool
	Elite  bool
	Boss   bool
	Lane   int

	speed float64 // descent speed in px/s after wave scaling

	slowTimer  float64
	slowFactor float64
	knockback  float64 // upward push in px/s, decays
	hasteTimer float64 // warden aura speed boost

	age        float64
	phase      float64 // per-enemy sway offset
	pulseTimer float64 // shield regen / spore burst / warden pulse countdown
	dashTimer  float64 // dasher cooldown countdown
	dashLeft   float64 // seconds remaining in the current dash
	dashVX     float64

	breached bool
}

// NewEnemy spawns a live enemy of the given kind at the top of its lane.
// hp arrives already wave-scaled; speedMul is the wave's speed multiplier.
func NewEnemy(kind EnemyKind, lane int, f Field, hp, speedMul float64, elite, boss bool, rng *rand.Rand) *Enemy {
	prof := kind.Profile()
	radius := prof.Radius
	if boss {
		radius *= bossRadiusMul
	}
	e := &Enemy{
		Kind:       kind,
		Pos:        Vec2{X: f.LaneX(lane) + (rng.Float64()*2-1)*spawnJitterX, Y: spawnRowY - rng.Float64()*12},
		Radius:     radius,
		Hp:         hp,
		MaxHp:      hp,
		Shield:     prof.BaseShield,
		Alive:      true,
		Elite:      elite,
		Boss:       boss,
		Lane:       lane,
		speed:      prof.BaseSpeed * speedMul,
		slowFactor: 1,
		phase:      rng.Float64() * 2 * math.Pi,
		pulseTimer: prof.PulsePeriod,
		dashTimer:  prof.DashCooldown,
	}
	return e
}

// Advance runs one tick: variant behavior, then knockback decay, slow
// damping, position integration, and the breach check.
func (e *Enemy) Advance(dt float64, ctx *enemyCtx) {
	if !e.Alive {
		return
	}
	e.age += dt

	prof := e.Kind.Profile()
	if prof.Behavior != nil {
		prof.Behavior(e, dt, ctx)
	}

	if e.knockback > 0 {
		e.Pos.Y -= e.knockback * dt
		e.knockback *= 1 - clamp01(knockbackDecayPerSec*dt)
		if e.knockback < knockbackFloor {
			e.knockback = 0
		}
	}

	speedMul := 1.0
	if e.slowTimer > 0 {
		e.slowTimer -= dt
		speedMul = e.slowFactor
		if e.slowTimer <= 0 {
			e.slowTimer = 0
			e.slowFactor = 1
		}
	}
	if e.hasteTimer > 0 {
		e.hasteTimer -= dt
		speedMul *= wardenHasteMul
	}

	e.Pos = e.Pos.Add(e.Vel.Scale(speedMul * dt))
	e.Pos.X = clamp(e.Pos.X, e.Radius, ctx.field.W-e.Radius)

	if e.Pos.Y >= ctx.field.SafetyY() {
		e.Alive = false
		e.breached = true
	}
}

// DamageResult reports what a single TakeDamage call did.
type DamageResult struct {
	ShieldHit    bool
	ShieldBroken bool
	Killed       bool
	HpDealt      float64
}

// TakeDamage drains shield before hp; overflow past the shield carries into
// hp in the same hit. Marks the enemy dead exactly once when hp reaches 0.
func (e *Enemy) TakeDamage(amount float64) DamageResult {
	var res DamageResult
	if !e.Alive || amount <= 0 {
		return res
	}
	if e.Shield > 0 {
		res.ShieldHit = true
		if amount >= e.Shield {
			amount -= e.Shield
			e.Shield = 0
			res.ShieldBroken = true
		} else {
			e.Shield -= amount
			amount = 0
		}
	}
	if amount > 0 {
		e.Hp -= amount
		res.HpDealt = amount
		if e.Hp <= 0 {
			e.Hp = 0
			e.Alive = false
			res.Killed = true
		}
	}
	if res.HpDealt > 0 {
		if hook := e.Kind.Profile().OnDamaged; hook != nil {
			hook(e, res.HpDealt)
		}
	}
	return res
}

// ApplySlow uses max-wins semantics: duration is the max of current and
// incoming, factor is the min. The slower effect always wins.
func (e *Enemy) ApplySlow(duration, factor float64) {
	if duration <= 0 {
		return
	}
	if e.slowTimer <= 0 {
		e.slowFactor = factor
	} else if factor < e.slowFactor {
		e.slowFactor = factor
	}
	if duration > e.slowTimer {
		e.slowTimer = duration
	}
}

// ApplyKnockback keeps the stronger of the current and incoming push.
// Heavy variants resist a fraction of the force.
func (e *Enemy) ApplyKnockback(force float64) {
	force *= 1 - e.Kind.Profile().KnockbackResist
	if force > e.knockback {
		e.knockback = force
	}
}

// heal raises hp toward MaxHp. Only the warden aura calls this; every other
// path through the framework lowers hp.
func (e *Enemy) heal(amount float64) {
	if !e.Alive || amount <= 0 {
		return
	}
	e.Hp = math.Min(e.MaxHp, e.Hp+amount)
}

// SlowRemaining exposes the active slow for the HUD and for tests.
func (e *Enemy) SlowRemaining() (duration, factor float64) {
	return e.slowTimer, e.slowFactor
}

// Knockback exposes the current knockback magnitude.
func (e *Enemy) Knockback() float64 {
	return e.knockback
}

// Breached reports whether the enemy crossed the safety line.
func (e *Enemy) Breached() bool {
	return e.breached
}
