package game

import "math"

// --- Modifier state ---

const (
	comboTierSize       = 5    // heat per combo tier
	comboHeatDamageBase = 0.01 // damage bonus per point of heat
)

// SlowEffect is applied to enemies on orb impact.
type SlowEffect struct {
	Duration float64 // seconds
	Factor   float64 // speed multiplier, 0..1
}

// ExplosionEffect detonates around each orb impact.
type ExplosionEffect struct {
	Radius float64
	Damage float64
}

// ChainEffect arcs lightning between enemies after impacts.
type ChainEffect struct {
	Range    float64 // max arc distance
	Damage   float64
	Interval float64 // min seconds between arcs
}

// ModifierState accumulates every drafted modifier for the current run.
// A nil effect pointer means the corresponding major was never picked.
type ModifierState struct {
	SizeMultiplier         float64
	DamageMultiplier       float64
	ComboDamagePerTier     float64
	ComboHeatDamagePercent float64
	BounceDamagePercent    float64
	BossDamageMultiplier   float64
	WallBonusPercent       float64
	KnockbackForce         float64
	HomingStrength         float64
	TripleLaunch           bool
	SplitOnImpact          bool
	Slow                   *SlowEffect
	Explosion              *ExplosionEffect
	Chain                  *ChainEffect

	LastPick string
	picks    map[string]int
}

func NewModifierState() *ModifierState {
	return &ModifierState{
		SizeMultiplier:         1,
		DamageMultiplier:       1,
		BossDamageMultiplier:   1,
		ComboHeatDamagePercent: comboHeatDamageBase,
		picks:                  map[string]int{},
	}
}

func (ms *ModifierState) ownedCount(id string) int { return ms.picks[id] }

// orbDamage resolves the damage one orb impact deals to e. The multiplicative
// stack applies first, the flat combo-tier bonus after, and the difficulty's
// damage scale last. The wall bonus is consumed by the call that cashes it in.
func (ms *ModifierState) orbDamage(o *Orb, e *Enemy, heat int, damageScale float64) float64 {
	dmg := o.Damage * ms.DamageMultiplier
	dmg *= 1 + float64(heat)*ms.ComboHeatDamagePercent
	dmg *= 1 + float64(o.BounceCount)*ms.BounceDamagePercent
	if e != nil && (e.Elite || e.Boss) {
		dmg *= ms.BossDamageMultiplier
	}
	if o.consumeWallBonus() {
		dmg *= 1 + ms.WallBonusPercent
	}
	dmg += float64(heat/comboTierSize) * ms.ComboDamagePerTier
	return dmg * damageScale
}

// --- Effect stacking ---

// StackSlow merges a repeat pick: the longest duration and the strongest
// (lowest) factor both win.
func StackSlow(cur *SlowEffect, add SlowEffect) *SlowEffect {
	if cur == nil {
		c := add
		return &c
	}
	return &SlowEffect{
		Duration: math.Max(cur.Duration, add.Duration),
		Factor:   math.Min(cur.Factor, add.Factor),
	}
}

// StackExplosion keeps the larger radius and the larger damage.
func StackExplosion(cur *ExplosionEffect, add ExplosionEffect) *ExplosionEffect {
	if cur == nil {
		c := add
		return &c
	}
	return &ExplosionEffect{
		Radius: math.Max(cur.Radius, add.Radius),
		Damage: math.Max(cur.Damage, add.Damage),
	}
}

// StackChain keeps the longer range, sums damage, and keeps the shorter
// interval between arcs.
func StackChain(cur *ChainEffect, add ChainEffect) *ChainEffect {
	if cur == nil {
		c := add
		return &c
	}
	return &ChainEffect{
		Range:    math.Max(cur.Range, add.Range),
		Damage:   cur.Damage + add.Damage,
		Interval: math.Min(cur.Interval, add.Interval),
	}
}

// --- Rarity ---

type Rarity int

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
)

func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "common"
	case RarityUncommon:
		return "uncommon"
	case RarityRare:
		return "rare"
	default:
		return "unknown"
	}
}

// Rarity roll: 60% common, 30% uncommon, 10% rare.
const (
	rarityCommonCeil   = 60
	rarityUncommonCeil = 90
)

// wideningOrder lists which rarities to try, in order, when the rolled
// rarity has no cards left to offer.
func wideningOrder(r Rarity) [3]Rarity {
	switch r {
	case RarityRare:
		return [3]Rarity{RarityRare, RarityUncommon, RarityCommon}
	case RarityUncommon:
		return [3]Rarity{RarityUncommon, RarityCommon, RarityRare}
	default:
		return [3]Rarity{RarityCommon, RarityUncommon, RarityRare}
	}
}

// --- Draft catalogs ---

// ModifierCard is one draftable choice. Majors carry a rarity and may be
// unique; upgrades are uniform draws. Available gates cards that need
// something to amplify (nil means always offerable).
type ModifierCard struct {
	ID        string
	Name      string
	Desc      string
	Rarity    Rarity
	Unique    bool
	Available func(s *Session) bool
	Apply     func(s *Session)
}

var majorCards = []ModifierCard{
	{
		ID: "cryo", Name: "Cryo Coating", Rarity: RarityCommon,
		Desc: "Impacts chill enemies, slowing their descent.",
		Apply: func(s *Session) {
			s.mods.Slow = StackSlow(s.mods.Slow, SlowEffect{Duration: 1.5, Factor: 0.65})
		},
	},
	{
		ID: "driver", Name: "Impact Driver", Rarity: RarityCommon,
		Desc: "Impacts shove enemies back up the field.",
		Apply: func(s *Session) { s.mods.KnockbackForce += 240 },
	},
	{
		ID: "ricochet", Name: "Ricochet Rounds", Rarity: RarityCommon,
		Desc: "Each wall bounce adds damage to the next hit.",
		Apply: func(s *Session) { s.mods.BounceDamagePercent += 0.08 },
	},
	{
		ID: "momentum", Name: "Momentum Engine", Rarity: RarityCommon,
		Desc: "Every combo tier adds flat damage.",
		Apply: func(s *Session) { s.mods.ComboDamagePerTier += 0.5 },
	},
	{
		ID: "seeker", Name: "Seeker Fins", Rarity: RarityUncommon,
		Desc: "Orbs curve toward the nearest enemy.",
		Apply: func(s *Session) { s.mods.HomingStrength += 1.6 },
	},
	{
		ID: "arc", Name: "Arc Lattice", Rarity: RarityUncommon,
		Desc: "Impacts arc lightning to a nearby enemy.",
		Apply: func(s *Session) {
			s.mods.Chain = StackChain(s.mods.Chain, ChainEffect{Range: 140, Damage: 1, Interval: 0.5})
		},
	},
	{
		ID: "blast", Name: "Blast Payload", Rarity: RarityUncommon,
		Desc: "Impacts detonate, damaging everything nearby.",
		Apply: func(s *Session) {
			s.mods.Explosion = StackExplosion(s.mods.Explosion, ExplosionEffect{Radius: 90, Damage: 2})
		},
	},
	{
		ID: "bank", Name: "Bank Shot", Rarity: RarityUncommon,
		Desc: "The first hit after a wall bounce deals bonus damage.",
		Apply: func(s *Session) { s.mods.WallBonusPercent += 0.35 },
	},
	{
		ID: "mitosis", Name: "Mitosis Shot", Rarity: RarityRare, Unique: true,
		Desc:      "Orbs split in two on their first impact.",
		Available: func(s *Session) bool { return !s.mods.SplitOnImpact },
		Apply:     func(s *Session) { s.mods.SplitOnImpact = true },
	},
	{
		ID: "trident", Name: "Trident Launch", Rarity: RarityRare, Unique: true,
		Desc:      "Every launch fires a fan of three orbs.",
		Available: func(s *Session) bool { return !s.mods.TripleLaunch },
		Apply:     func(s *Session) { s.mods.TripleLaunch = true },
	},
}

var upgradeCards = []ModifierCard{
	{
		ID: "whetstone", Name: "Whetstone",
		Desc:  "+10% orb damage.",
		Apply: func(s *Session) { s.mods.DamageMultiplier *= 1.10 },
	},
	{
		ID: "mass", Name: "Mass Former",
		Desc: "+15% orb size, including orbs in flight.",
		Apply: func(s *Session) {
			s.mods.SizeMultiplier *= 1.15
			for _, o := range s.orbs {
				o.Radius = orbRadius * s.mods.SizeMultiplier
			}
		},
	},
	{
		ID: "heatsink", Name: "Heatsink Bypass",
		Desc:  "+1% damage per point of combo heat.",
		Apply: func(s *Session) { s.mods.ComboHeatDamagePercent += 0.01 },
	},
	{
		ID: "gearing", Name: "Tier Gearing",
		Desc:  "+0.25 flat damage per combo tier.",
		Apply: func(s *Session) { s.mods.ComboDamagePerTier += 0.25 },
	},
	{
		ID: "giantsbane", Name: "Giantsbane",
		Desc:  "+20% damage to elites and bosses.",
		Apply: func(s *Session) { s.mods.BossDamageMultiplier *= 1.2 },
	},
	{
		ID: "patch", Name: "Patch Kit",
		Desc:      "Restore one life.",
		Available: func(s *Session) bool { return s.lives < s.maxLives },
		Apply:     func(s *Session) { s.lives++ },
	},
	{
		ID: "reserves", Name: "Deep Reserves",
		Desc: "+20 maximum focus, refilled.",
		Apply: func(s *Session) {
			s.focusMax += 20
			s.focus = s.focusMax
		},
	},
	{
		ID: "arcamp", Name: "Longer Arcs",
		Desc:      "Chain lightning reaches further and hits harder.",
		Available: func(s *Session) bool { return s.mods.Chain != nil },
		Apply: func(s *Session) {
			s.mods.Chain.Range += 30
			s.mods.Chain.Damage += 0.5
		},
	},
	{
		ID: "freezeamp", Name: "Deep Freeze",
		Desc:      "Chill lasts longer and bites deeper.",
		Available: func(s *Session) bool { return s.mods.Slow != nil },
		Apply: func(s *Session) {
			s.mods.Slow.Duration += 0.4
			s.mods.Slow.Factor = math.Max(0.25, s.mods.Slow.Factor*0.85)
		},
	},
	{
		ID: "blastamp", Name: "Bigger Payload",
		Desc:      "Explosions grow wider and stronger.",
		Available: func(s *Session) bool { return s.mods.Explosion != nil },
		Apply: func(s *Session) {
			s.mods.Explosion.Radius += 25
			s.mods.Explosion.Damage += 1
		},
	},
}

// --- Draft sampling ---

func (s *Session) cardOfferable(c ModifierCard, taken map[string]bool) bool {
	if taken[c.ID] {
		return false
	}
	if c.Unique && s.mods.ownedCount(c.ID) > 0 {
		return false
	}
	if c.Available != nil && !c.Available(s) {
		return false
	}
	return true
}

// pickMajors draws up to n distinct major cards. Each slot rolls a rarity
// (60/30/10), then widens to neighbouring rarities if that tier has nothing
// left to offer.
func (s *Session) pickMajors(n int) []ModifierCard {
	picked := make([]ModifierCard, 0, n)
	taken := map[string]bool{}
	for len(picked) < n {
		roll := s.rng.Intn(100)
		rolled := RarityRare
		switch {
		case roll < rarityCommonCeil:
			rolled = RarityCommon
		case roll < rarityUncommonCeil:
			rolled = RarityUncommon
		}

		var pool []ModifierCard
		for _, r := range wideningOrder(rolled) {
			for _, c := range majorCards {
				if c.Rarity == r && s.cardOfferable(c, taken) {
					pool = append(pool, c)
				}
			}
			if len(pool) > 0 {
				break
			}
		}
		if len(pool) == 0 {
			break
		}
		c := pool[s.rng.Intn(len(pool))]
		taken[c.ID] = true
		picked = append(picked, c)
	}
	return picked
}

// pickUpgrades draws up to n distinct upgrade cards, uniformly.
func (s *Session) pickUpgrades(n int) []ModifierCard {
	picked := make([]ModifierCard, 0, n)
	taken := map[string]bool{}
	for len(picked) < n {
		var pool []ModifierCard
		for _, c := range upgradeCards {
			if s.cardOfferable(c, taken) {
				pool = append(pool, c)
			}
		}
		if len(pool) == 0 {
			break
		}
		c := pool[s.rng.Intn(len(pool))]
		taken[c.ID] = true
		picked = append(picked, c)
	}
	return picked
}

func (s *Session) applyCard(c ModifierCard) {
	c.Apply(s)
	s.mods.picks[c.ID]++
	s.mods.LastPick = c.Name
}
