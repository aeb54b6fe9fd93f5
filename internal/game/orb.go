package game

// Orb tuning. Velocities in px/s, accelerations in px/s².
const (
	orbRadius        = 9.0
	orbBaseDamage    = 1.0
	orbGravity       = 420.0
	orbDragPerSec    = 0.18 // horizontal velocity lost per second
	orbWallDamping   = 0.98
	orbRicochetBoost = 1.0 // damping while a bounce-damage buff is active
	orbImpactDamping = 0.90
	orbLossMargin    = 48.0 // px past the bottom edge before the orb is lost
	orbLaunchSpeed   = 640.0
	tripleSpreadRad  = 0.26
	splitAngleRad    = 0.38
)

// Orb tints, used by the presentation layer to colour projectiles.
const (
	TintLaunch = iota
	TintSplit
)

// Orb is one live projectile. Alive flips true→false exactly once; a dead
// orb is never reused, only replaced (splitting destroys the original and
// creates two children).
type Orb struct {
	Pos    Vec2
	Vel    Vec2
	Radius float64
	Damage float64 // base damage before run modifiers
	Tint   int
	Alive  bool

	BounceCount   int
	SplitOnImpact bool // from ModifierState at spawn; updated if the state changes

	wallBonusArmed bool // one-shot damage bonus from the last wall hit
	lost           bool // fell past the bottom margin
}

// NewOrb spawns a live orb with the run's current size and split settings.
func NewOrb(pos, vel Vec2, ms *ModifierState) *Orb {
	return &Orb{
		Pos:           pos,
		Vel:           vel,
		Radius:        orbRadius * ms.SizeMultiplier,
		Damage:        orbBaseDamage,
		Alive:         true,
		SplitOnImpact: ms.SplitOnImpact,
	}
}

// launchOrbs builds the volley for one launch action: a single orb toward
// the target, or three in a fan when triple launch is active.
func launchOrbs(from, target Vec2, ms *ModifierState) []*Orb {
	dir := target.Sub(from).Normalized()
	if dir == (Vec2{}) {
		dir = Vec2{0, -1}
	}
	vel := dir.Scale(orbLaunchSpeed)
	if !ms.TripleLaunch {
		return []*Orb{NewOrb(from, vel, ms)}
	}
	return []*Orb{
		NewOrb(from, vel.Rotated(-tripleSpreadRad), ms),
		NewOrb(from, vel, ms),
		NewOrb(from, vel.Rotated(tripleSpreadRad), ms),
	}
}

// Advance integrates one tick of orb motion: homing steer, gravity,
// horizontal drag, wall reflection, and bottom-loss detection.
func (o *Orb) Advance(dt float64, f Field, enemies []*Enemy, ms *ModifierState) {
	if !o.Alive {
		return
	}

	if ms.HomingStrength > 0 {
		if target, ok := nearestEnemy(o.Pos, enemies); ok {
			o.Vel = steerToward(o.Vel, o.Pos, target.Pos, ms.HomingStrength, dt)
		}
	}

	o.Vel.Y += orbGravity * dt
	o.Vel.X *= 1 - clamp01(orbDragPerSec*dt)
	o.Pos = o.Pos.Add(o.Vel.Scale(dt))

	damping := orbWallDamping
	if ms.BounceDamagePercent > 0 {
		// Ricochet-style buffs keep bounces lively.
		damping = orbRicochetBoost
	}
	if o.Pos.X-o.Radius < 0 {
		o.Pos.X = o.Radius
		o.Vel.X = -o.Vel.X * damping
		o.recordBounce(ms)
	} else if o.Pos.X+o.Radius > f.W {
		o.Pos.X = f.W - o.Radius
		o.Vel.X = -o.Vel.X * damping
		o.recordBounce(ms)
	}
	if o.Pos.Y-o.Radius < 0 {
		o.Pos.Y = o.Radius
		o.Vel.Y = -o.Vel.Y * damping
		o.recordBounce(ms)
	}

	if o.Pos.Y-o.Radius > f.H+orbLossMargin {
		o.Alive = false
		o.lost = true
	}
}

func (o *Orb) recordBounce(ms *ModifierState) {
	o.BounceCount++
	if ms.WallBonusPercent > 0 {
		o.wallBonusArmed = true
	}
}

// consumeWallBonus reports whether a one-shot wall-hit bonus was armed,
// clearing it either way.
func (o *Orb) consumeWallBonus() bool {
	armed := o.wallBonusArmed
	o.wallBonusArmed = false
	return armed
}

// splitChildren destroys the orb and derives two children with velocity
// fanned to either side. Children cannot split again.
func (o *Orb) splitChildren() [2]*Orb {
	o.Alive = false
	mk := func(vel Vec2) *Orb {
		return &Orb{
			Pos:    o.Pos.Add(vel.Normalized().Scale(o.Radius * 0.5)),
			Vel:    vel,
			Radius: o.Radius,
			Damage: o.Damage,
			Tint:   TintSplit,
			Alive:  true,
		}
	}
	return [2]*Orb{
		mk(o.Vel.Rotated(-splitAngleRad)),
		mk(o.Vel.Rotated(splitAngleRad)),
	}
}

// deflectFrom reflects the orb's velocity off an impact point with a little
// energy loss, and separates the orb from the struck body.
func (o *Orb) deflectFrom(point Vec2, separation float64) {
	n := o.Pos.Sub(point).Normalized()
	if n == (Vec2{}) {
		n = Vec2{0, -1}
	}
	o.Vel = o.Vel.Sub(n.Scale(2 * o.Vel.Dot(n))).Scale(orbImpactDamping)
	o.Pos = point.Add(n.Scale(separation))
}

// nearestEnemy returns the closest live enemy to p.
func nearestEnemy(p Vec2, enemies []*Enemy) (*Enemy, bool) {
	var best *Enemy
	bestSq := 0.0
	for _, e := range enemies {
		if !e.Alive {
			continue
		}
		dSq := e.Pos.Sub(p).LenSq()
		if best == nil || dSq < bestSq {
			best = e
			bestSq = dSq
		}
	}
	return best, best != nil
}
