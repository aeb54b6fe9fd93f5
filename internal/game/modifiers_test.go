package game

import (
	"math"
	"testing"
)

func cardByID(t *testing.T, cards []ModifierCard, id string) ModifierCard {
	t.Helper()
	for _, c := range cards {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("no card %q in catalog", id)
	return ModifierCard{}
}

// --- Defaults ---

func TestNewModifierState_Defaults(t *testing.T) {
	ms := NewModifierState()
	if ms.SizeMultiplier != 1 || ms.DamageMultiplier != 1 || ms.BossDamageMultiplier != 1 {
		t.Fatal("fresh state should start with neutral multipliers")
	}
	if ms.ComboHeatDamagePercent != comboHeatDamageBase {
		t.Fatalf("heat damage should start at the base rate, got %.4f", ms.ComboHeatDamagePercent)
	}
	if ms.Slow != nil || ms.Explosion != nil || ms.Chain != nil {
		t.Fatal("fresh state should carry no on-hit effects")
	}
}

// --- Damage formula ---

func TestOrbDamage_Base(t *testing.T) {
	ms := NewModifierState()
	o := NewOrb(Vec2{X: 360, Y: 500}, Vec2{}, ms)
	dmg := ms.orbDamage(o, nil, 0, 1.0)
	if math.Abs(dmg-1.0) > 1e-9 {
		t.Fatalf("unmodified orb should deal base damage 1.0, got %.4f", dmg)
	}
}

func TestOrbDamage_HeatScaling(t *testing.T) {
	ms := NewModifierState()
	o := NewOrb(Vec2{}, Vec2{}, ms)
	dmg := ms.orbDamage(o, nil, 12, 1.0)
	// 1.0 * (1 + 12*0.01) = 1.12
	if math.Abs(dmg-1.12) > 1e-9 {
		t.Fatalf("expected 1.12 at 12 heat, got %.4f", dmg)
	}
}

func TestOrbDamage_TierBonusAddedAfterMultipliers(t *testing.T) {
	ms := NewModifierState()
	ms.ComboDamagePerTier = 0.5
	o := NewOrb(Vec2{}, Vec2{}, ms)
	dmg := ms.orbDamage(o, nil, 10, 1.0)
	// 1.0*(1+0.10) + 2*0.5 = 2.1
	if math.Abs(dmg-2.1) > 1e-9 {
		t.Fatalf("expected 2.1, got %.4f", dmg)
	}
}

func TestOrbDamage_DifficultyScalesTierBonusToo(t *testing.T) {
	ms := NewModifierState()
	ms.ComboDamagePerTier = 0.5
	o := NewOrb(Vec2{}, Vec2{}, ms)
	dmg := ms.orbDamage(o, nil, 10, 0.85)
	// (1.1 + 1.0) * 0.85 = 1.785
	if math.Abs(dmg-1.785) > 1e-9 {
		t.Fatalf("expected 1.785, got %.4f", dmg)
	}
}

func TestOrbDamage_BounceBonus(t *testing.T) {
	ms := NewModifierState()
	ms.BounceDamagePercent = 0.08
	o := NewOrb(Vec2{}, Vec2{}, ms)
	o.BounceCount = 3
	dmg := ms.orbDamage(o, nil, 0, 1.0)
	if math.Abs(dmg-1.24) > 1e-9 {
		t.Fatalf("three bounces at 8%% each should give 1.24, got %.4f", dmg)
	}
}

func TestOrbDamage_BossMultiplierOnlyForHeavies(t *testing.T) {
	ms := NewModifierState()
	ms.BossDamageMultiplier = 1.2
	o := NewOrb(Vec2{}, Vec2{}, ms)
	plain := spawnTestEnemy(EnemyZigzag, 5)
	if d := ms.orbDamage(o, plain, 0, 1.0); math.Abs(d-1.0) > 1e-9 {
		t.Fatalf("plain enemy should not trigger the boss multiplier, got %.4f", d)
	}
	elite := spawnTestEnemy(EnemyZigzag, 5)
	elite.Elite = true
	if d := ms.orbDamage(o, elite, 0, 1.0); math.Abs(d-1.2) > 1e-9 {
		t.Fatalf("elite should take 1.2x, got %.4f", d)
	}
}

func TestOrbDamage_WallBonusConsumedOnce(t *testing.T) {
	ms := NewModifierState()
	ms.WallBonusPercent = 0.35
	o := NewOrb(Vec2{}, Vec2{}, ms)
	o.wallBonusArmed = true
	first := ms.orbDamage(o, nil, 0, 1.0)
	if math.Abs(first-1.35) > 1e-9 {
		t.Fatalf("armed wall bonus should give 1.35, got %.4f", first)
	}
	second := ms.orbDamage(o, nil, 0, 1.0)
	if math.Abs(second-1.0) > 1e-9 {
		t.Fatalf("wall bonus should be spent after one hit, got %.4f", second)
	}
}

// --- Effect stacking ---

func TestStackSlow_LongestAndStrongestWin(t *testing.T) {
	cur := StackSlow(nil, SlowEffect{Duration: 1.5, Factor: 0.65})
	cur = StackSlow(cur, SlowEffect{Duration: 1.0, Factor: 0.5})
	if cur.Duration != 1.5 {
		t.Fatalf("longest duration should win, got %.2f", cur.Duration)
	}
	if cur.Factor != 0.5 {
		t.Fatalf("strongest factor should win, got %.2f", cur.Factor)
	}
}

func TestStackExplosion_LargerValuesWin(t *testing.T) {
	cur := StackExplosion(nil, ExplosionEffect{Radius: 90, Damage: 2})
	cur = StackExplosion(cur, ExplosionEffect{Radius: 70, Damage: 3})
	if cur.Radius != 90 || cur.Damage != 3 {
		t.Fatalf("expected radius 90 damage 3, got %.0f/%.0f", cur.Radius, cur.Damage)
	}
}

func TestStackChain_DamageSums(t *testing.T) {
	cur := StackChain(nil, ChainEffect{Range: 140, Damage: 1, Interval: 0.5})
	cur = StackChain(cur, ChainEffect{Range: 120, Damage: 1, Interval: 0.4})
	if cur.Range != 140 {
		t.Fatalf("longer range should win, got %.0f", cur.Range)
	}
	if cur.Damage != 2 {
		t.Fatalf("chain damage should sum, got %.0f", cur.Damage)
	}
	if cur.Interval != 0.4 {
		t.Fatalf("shorter interval should win, got %.2f", cur.Interval)
	}
}

// --- Rarity ---

func TestWideningOrder_PerRarity(t *testing.T) {
	if got := wideningOrder(RarityCommon); got != [3]Rarity{RarityCommon, RarityUncommon, RarityRare} {
		t.Fatalf("common widening wrong: %v", got)
	}
	if got := wideningOrder(RarityUncommon); got != [3]Rarity{RarityUncommon, RarityCommon, RarityRare} {
		t.Fatalf("uncommon widening wrong: %v", got)
	}
	if got := wideningOrder(RarityRare); got != [3]Rarity{RarityRare, RarityUncommon, RarityCommon} {
		t.Fatalf("rare widening wrong: %v", got)
	}
}

// --- Draft sampling ---

func TestPickMajors_DistinctChoices(t *testing.T) {
	s := NewSession(WithSeed(11))
	picked := s.pickMajors(3)
	if len(picked) != 3 {
		t.Fatalf("expected 3 majors, got %d", len(picked))
	}
	seen := map[string]bool{}
	for _, c := range picked {
		if seen[c.ID] {
			t.Fatalf("duplicate card %q in one draft", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestPickMajors_CommonsDominate(t *testing.T) {
	s := NewSession(WithSeed(23))
	counts := map[Rarity]int{}
	for i := 0; i < 300; i++ {
		for _, c := range s.pickMajors(1) {
			counts[c.Rarity]++
		}
	}
	if counts[RarityCommon] <= counts[RarityRare] {
		t.Fatalf("commons should outnumber rares over many drafts, got %d vs %d",
			counts[RarityCommon], counts[RarityRare])
	}
}

func TestPickMajors_UniqueNeverReoffered(t *testing.T) {
	s := NewSession(WithSeed(5))
	s.applyCard(cardByID(t, majorCards, "mitosis"))
	for i := 0; i < 50; i++ {
		for _, c := range s.pickMajors(3) {
			if c.ID == "mitosis" {
				t.Fatal("unique card offered again after being taken")
			}
		}
	}
}

func TestPickUpgrades_GatedCardsStayHidden(t *testing.T) {
	s := NewSession(WithSeed(9))
	for i := 0; i < 50; i++ {
		for _, c := range s.pickUpgrades(3) {
			switch c.ID {
			case "arcamp", "freezeamp", "blastamp":
				t.Fatalf("amplifier %q offered without its base effect", c.ID)
			case "patch":
				t.Fatal("patch offered at full lives")
			}
		}
	}
}

func TestPickUpgrades_PatchNeedsMissingLife(t *testing.T) {
	s := NewSession(WithSeed(9))
	s.lives--
	found := false
	for i := 0; i < 50 && !found; i++ {
		for _, c := range s.pickUpgrades(3) {
			if c.ID == "patch" {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("patch never offered with a life missing")
	}
}

// --- Applying cards ---

func TestApplyCard_RecordsPick(t *testing.T) {
	s := NewSession(WithSeed(1))
	s.applyCard(cardByID(t, upgradeCards, "whetstone"))
	if math.Abs(s.mods.DamageMultiplier-1.10) > 1e-9 {
		t.Fatalf("whetstone should raise the damage multiplier to 1.10, got %.4f", s.mods.DamageMultiplier)
	}
	if s.mods.LastPick != "Whetstone" {
		t.Fatalf("last pick should be recorded by name, got %q", s.mods.LastPick)
	}
	if s.mods.ownedCount("whetstone") != 1 {
		t.Fatalf("pick count should be 1, got %d", s.mods.ownedCount("whetstone"))
	}
}

func TestUpgrade_MassRescalesOrbsInFlight(t *testing.T) {
	s := NewSession(WithSeed(1))
	o := NewOrb(Vec2{X: 360, Y: 500}, Vec2{Y: -100}, s.mods)
	s.orbs = append(s.orbs, o)
	s.applyCard(cardByID(t, upgradeCards, "mass"))
	want := orbRadius * 1.15
	if math.Abs(o.Radius-want) > 1e-9 {
		t.Fatalf("in-flight orb should grow to %.2f, got %.2f", want, o.Radius)
	}
}

func TestUpgrade_AmplifierBuildsOnBase(t *testing.T) {
	s := NewSession(WithSeed(1))
	s.applyCard(cardByID(t, majorCards, "arc"))
	s.applyCard(cardByID(t, upgradeCards, "arcamp"))
	if s.mods.Chain.Range != 170 {
		t.Fatalf("arc amplifier should extend range to 170, got %.0f", s.mods.Chain.Range)
	}
	if math.Abs(s.mods.Chain.Damage-1.5) > 1e-9 {
		t.Fatalf("arc amplifier should raise damage to 1.5, got %.2f", s.mods.Chain.Damage)
	}
}
