package game

import (
	"image/color"
	"math"
)

// Variant tuning. Distances in px, rates per second.
const (
	zigzagFreq      = 2.2  // rad/s of lane sway
	zigzagWidth     = 46.0 // px of sway either side of the lane
	zigzagTrackRate = 3.0  // proportional pull toward the sway target

	splitChildHpFrac  = 0.35
	splitChildOffsetX = 18.0

	shieldRegenAmount = 1.0

	spawnlingWobbleHz  = 5.0
	spawnlingWobblePx  = 14.0
	pullRadius         = 150.0
	pullStrength       = 2.4
	sporeRadius        = 120.0
	sporeDampFactor    = 0.55 // orb velocity multiplier inside a burst
	sporeDeathRadius   = 160.0
	bossRadiusMul      = 1.7
	dashSpeed          = 360.0
	dashDuration       = 0.35 // s
	wardenAuraRadius   = 140.0
	wardenHealAmount   = 1.0
	wardenHasteMul     = 1.25
	wardenHasteSeconds = 0.8
)

// EnemyKind is the closed set of adversary variants.
type EnemyKind int

const (
	EnemyZigzag EnemyKind = iota
	EnemySplitter
	EnemyShieldbearer
	EnemySpawnling
	EnemyPuller
	EnemySpore
	EnemyBulwark
	EnemyDasher
	EnemyWarden
)

var allEnemyKinds = []EnemyKind{
	EnemyZigzag, EnemySplitter, EnemyShieldbearer, EnemySpawnling,
	EnemyPuller, EnemySpore, EnemyBulwark, EnemyDasher, EnemyWarden,
}

func (k EnemyKind) String() string {
	switch k {
	case EnemyZigzag:
		return "zigzag"
	case EnemySplitter:
		return "splitter"
	case EnemyShieldbearer:
		return "shieldbearer"
	case EnemySpawnling:
		return "spawnling"
	case EnemyPuller:
		return "puller"
	case EnemySpore:
		return "spore"
	case EnemyBulwark:
		return "bulwark"
	case EnemyDasher:
		return "dasher"
	case EnemyWarden:
		return "warden"
	default:
		return "unknown"
	}
}

// EnemyProfile holds a variant's fixed parameters and behavior hooks.
// Variants are strategy entries in this table, not subtypes.
type EnemyProfile struct {
	Radius          float64
	BaseSpeed       float64 // px/s descent before wave scaling
	BaseShield      float64
	HpWeight        float64 // relative toughness, folded into template hp
	KnockbackResist float64 // 0..1 fraction of incoming knockback ignored
	PulsePeriod     float64 // s between regen/burst/aura pulses (0 = none)
	DashCooldown    float64 // s between dashes (0 = never dashes)
	Color           color.RGBA

	Behavior  func(e *Enemy, dt float64, ctx *enemyCtx)
	OnDeath   func(e *Enemy, ctx *enemyCtx)
	OnDamaged func(e *Enemy, amount float64)
}

// Assigned in init rather than statically: onDeathSplitter reaches back
// into this table via NewEnemy, which the compiler rejects as an
// initialization cycle in a static initializer.
var enemyProfiles map[EnemyKind]EnemyProfile

func init() {
	enemyProfiles = map[EnemyKind]EnemyProfile{
		EnemyZigzag: {
			Radius: 14, BaseSpeed: 42, HpWeight: 1.0,
			Color:    color.RGBA{0x3f, 0xc4, 0xb4, 0xff},
			Behavior: behaviorZigzag,
		},
		EnemySplitter: {
			Radius: 17, BaseSpeed: 34, HpWeight: 1.4,
			Color:    color.RGBA{0xe8, 0x8a, 0x2d, 0xff},
			Behavior: behaviorSplitter,
			OnDeath:  onDeathSplitter,
		},
		EnemyShieldbearer: {
			Radius: 15, BaseSpeed: 36, BaseShield: 3, HpWeight: 1.2, PulsePeriod: 3.5,
			Color:    color.RGBA{0x4a, 0x7f, 0xe0, 0xff},
			Behavior: behaviorShieldbearer,
		},
		EnemySpawnling: {
			Radius: 9, BaseSpeed: 64, HpWeight: 0.5,
			Color:    color.RGBA{0xe3, 0xd4, 0x4a, 0xff},
			Behavior: behaviorSpawnling,
		},
		EnemyPuller: {
			Radius: 15, BaseSpeed: 30, HpWeight: 1.3,
			Color:    color.RGBA{0x9a, 0x5c, 0xd8, 0xff},
			Behavior: behaviorPuller,
		},
		EnemySpore: {
			Radius: 16, BaseSpeed: 32, HpWeight: 1.1, PulsePeriod: 2.8,
			Color:    color.RGBA{0x6f, 0xb5, 0x4b, 0xff},
			Behavior: behaviorSpore,
			OnDeath:  onDeathSpore,
		},
		EnemyBulwark: {
			Radius: 24, BaseSpeed: 20, HpWeight: 3.2, KnockbackResist: 0.75,
			Color:    color.RGBA{0xa8, 0x44, 0x47, 0xff},
			Behavior: behaviorBulwark,
		},
		EnemyDasher: {
			Radius: 12, BaseSpeed: 48, HpWeight: 0.8, DashCooldown: 2.2,
			Color:    color.RGBA{0xd8, 0x41, 0x41, 0xff},
			Behavior: behaviorDasher,
		},
		EnemyWarden: {
			Radius: 16, BaseSpeed: 26, HpWeight: 1.6, PulsePeriod: 3.0,
			Color:    color.RGBA{0xd9, 0xb4, 0x3a, 0xff},
			Behavior: behaviorWarden,
		},
	}
}

// Profile returns the variant's parameter/hook table entry.
func (k EnemyKind) Profile() EnemyProfile {
	return enemyProfiles[k]
}

// --- Behaviors ---

// behaviorZigzag sways sinusoidally around the lane centre while descending.
func behaviorZigzag(e *Enemy, _ float64, ctx *enemyCtx) {
	targetX := ctx.field.LaneX(e.Lane) + math.Sin(e.age*zigzagFreq+e.phase)*zigzagWidth
	e.Vel.X = (targetX - e.Pos.X) * zigzagTrackRate
	e.Vel.Y = e.speed
}

// behaviorSplitter descends with a narrower sway than zigzag.
func behaviorSplitter(e *Enemy, _ float64, ctx *enemyCtx) {
	targetX := ctx.field.LaneX(e.Lane) + math.Sin(e.age*zigzagFreq*0.6+e.phase)*zigzagWidth*0.5
	e.Vel.X = (targetX - e.Pos.X) * zigzagTrackRate
	e.Vel.Y = e.speed
}

func onDeathSplitter(e *Enemy, ctx *enemyCtx) {
	childHp := math.Max(1, math.Round(e.MaxHp*splitChildHpFrac))
	for _, dx := range []float64{-splitChildOffsetX, splitChildOffsetX} {
		child := NewEnemy(EnemySpawnling, e.Lane, ctx.field, childHp, 1.0, false, false, ctx.rng)
		child.Pos = Vec2{X: clamp(e.Pos.X+dx, child.Radius, ctx.field.W-child.Radius), Y: e.Pos.Y}
		ctx.spawn(child)
	}
}

// behaviorShieldbearer descends steadily and regenerates shield on a period.
func behaviorShieldbearer(e *Enemy, dt float64, ctx *enemyCtx) {
	targetX := ctx.field.LaneX(e.Lane)
	e.Vel.X = (targetX - e.Pos.X) * zigzagTrackRate * 0.5
	e.Vel.Y = e.speed

	e.pulseTimer -= dt
	if e.pulseTimer <= 0 {
		e.pulseTimer += e.Kind.Profile().PulsePeriod
		base := e.Kind.Profile().BaseShield
		if e.Shield < base {
			e.Shield = math.Min(base, e.Shield+shieldRegenAmount)
		}
	}
}

// behaviorSpawnling is a fast, fragile wobbling descent.
func behaviorSpawnling(e *Enemy, _ float64, _ *enemyCtx) {
	e.Vel.X = math.Sin(e.age*spawnlingWobbleHz+e.phase) * spawnlingWobblePx
	e.Vel.Y = e.speed
}

// behaviorPuller bends nearby orbs' velocity toward itself while descending.
func behaviorPuller(e *Enemy, dt float64, ctx *enemyCtx) {
	targetX := ctx.field.LaneX(e.Lane)
	e.Vel.X = (targetX - e.Pos.X) * zigzagTrackRate * 0.4
	e.Vel.Y = e.speed

	for _, o := range ctx.orbs {
		if !o.Alive {
			continue
		}
		if o.Pos.Dist(e.Pos) <= pullRadius {
			o.Vel = steerToward(o.Vel, o.Pos, e.Pos, pullStrength, dt)
		}
	}
}

// behaviorSpore descends and periodically damps every orb caught in its burst.
func behaviorSpore(e *Enemy, dt float64, ctx *enemyCtx) {
	e.Vel.X = math.Sin(e.age*zigzagFreq*0.4+e.phase) * 10
	e.Vel.Y = e.speed

	e.pulseTimer -= dt
	if e.pulseTimer <= 0 {
		e.pulseTimer += e.Kind.Profile().PulsePeriod
		hit := false
		for _, o := range ctx.orbs {
			if o.Alive && o.Pos.Dist(e.Pos) <= sporeRadius {
				o.Vel = o.Vel.Scale(sporeDampFactor)
				hit = true
			}
		}
		if hit {
			ctx.emit(SporeCloudEvent{Pos: e.Pos, Radius: sporeRadius})
		}
	}
}

func onDeathSpore(e *Enemy, ctx *enemyCtx) {
	ctx.emit(SporeCloudEvent{Pos: e.Pos, Radius: sporeDeathRadius})
}

// behaviorBulwark is a heavy straight descent; it holds its lane.
func behaviorBulwark(e *Enemy, _ float64, ctx *enemyCtx) {
	targetX := ctx.field.LaneX(e.Lane)
	e.Vel.X = (targetX - e.Pos.X) * zigzagTrackRate * 0.25
	e.Vel.Y = e.speed
}

// behaviorDasher descends normally and periodically dashes toward the
// nearest orb's column to body-block it.
func behaviorDasher(e *Enemy, dt float64, ctx *enemyCtx) {
	e.Vel.Y = e.speed

	if e.dashLeft > 0 {
		e.dashLeft -= dt
		e.Vel.X = e.dashVX
		return
	}
	e.Vel.X = math.Sin(e.age*zigzagFreq+e.phase) * 12

	e.dashTimer -= dt
	if e.dashTimer > 0 {
		return
	}
	if o, ok := nearestOrb(e.Pos, ctx.orbs); ok {
		e.dashVX = dashSpeed
		if o.Pos.X < e.Pos.X {
			e.dashVX = -dashSpeed
		}
		e.dashLeft = dashDuration
		e.dashTimer = e.Kind.Profile().DashCooldown
	}
}

// behaviorWarden descends slowly and pulses a heal-and-haste aura over
// nearby allies. This is the one path that can raise ally hp.
func behaviorWarden(e *Enemy, dt float64, ctx *enemyCtx) {
	targetX := ctx.field.LaneX(e.Lane)
	e.Vel.X = (targetX - e.Pos.X) * zigzagTrackRate * 0.3
	e.Vel.Y = e.speed

	e.pulseTimer -= dt
	if e.pulseTimer <= 0 {
		e.pulseTimer += e.Kind.Profile().PulsePeriod
		touched := false
		for _, ally := range ctx.enemies {
			if ally == e || !ally.Alive {
				continue
			}
			if ally.Pos.Dist(e.Pos) <= wardenAuraRadius {
				ally.heal(wardenHealAmount)
				ally.hasteTimer = wardenHasteSeconds
				touched = true
			}
		}
		if touched {
			ctx.emit(AuraPulseEvent{Pos: e.Pos, Radius: wardenAuraRadius})
		}
	}
}

// nearestOrb returns the closest live orb to p.
func nearestOrb(p Vec2, orbs []*Orb) (*Orb, bool) {
	var best *Orb
	bestSq := 0.0
	for _, o := range orbs {
		if !o.Alive {
			continue
		}
		dSq := o.Pos.Sub(p).LenSq()
		if best == nil || dSq < bestSq {
			best = o
			bestSq = dSq
		}
	}
	return best, best != nil
}
