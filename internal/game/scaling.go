package game

import (
	"math"
	"math/rand"
)

// --- Wave scaling ---

// Scaling growth per wave and the hard clamps that keep late runs sane.
const (
	scaleHpPerWave      = 0.07
	scaleSpeedPerWave   = 0.006
	scaleCountPerWave   = 0.05
	scaleCadencePerWave = 0.025

	scaleHpMax      = 5.0
	scaleSpeedMin   = 0.5
	scaleSpeedMax   = 3.0
	scaleCountMax   = 3.5
	scaleCadenceMin = 0.35

	minHpWaveDiv = 3 // every 3 waves the hp floor rises by 1
)

// EnemyWaveScaling holds the multipliers applied to a wave blueprint's
// baseline numbers. MinHpBonus is added to each enemy's base hp to form a
// floor that multiplier rounding can never dip below.
type EnemyWaveScaling struct {
	HpMul      float64
	SpeedMul   float64
	CountMul   float64
	CadenceMul float64
	HpBonus    int
	MinHpBonus int
}

func baseScalingForWave(wave int) EnemyWaveScaling {
	w := float64(wave)
	return EnemyWaveScaling{
		HpMul:      1 + scaleHpPerWave*w,
		SpeedMul:   1 + scaleSpeedPerWave*w,
		CountMul:   1 + scaleCountPerWave*w,
		CadenceMul: 1 / (1 + scaleCadencePerWave*w),
		MinHpBonus: wave / minHpWaveDiv,
	}
}

func (sc *EnemyWaveScaling) clamp() {
	sc.HpMul = clamp(sc.HpMul, 1, scaleHpMax)
	sc.SpeedMul = clamp(sc.SpeedMul, scaleSpeedMin, scaleSpeedMax)
	sc.CountMul = clamp(sc.CountMul, 1, scaleCountMax)
	sc.CadenceMul = clamp(sc.CadenceMul, scaleCadenceMin, 1)
	if sc.HpBonus < 0 {
		sc.HpBonus = 0
	}
}

// ApplyHp scales a base hp value, honouring the flat bonus and the floor.
func (sc EnemyWaveScaling) ApplyHp(base int) int {
	hp := int(math.Round(float64(base)*sc.HpMul)) + sc.HpBonus
	if floor := base + sc.MinHpBonus; hp < floor {
		hp = floor
	}
	if hp < 1 {
		hp = 1
	}
	return hp
}

// ApplyCount scales a group's enemy count.
func (sc EnemyWaveScaling) ApplyCount(base int) int {
	n := int(math.Round(float64(base) * sc.CountMul))
	if n < 1 {
		n = 1
	}
	return n
}

// ApplyCadence scales the gap between spawns in a group. Smaller is faster.
func (sc EnemyWaveScaling) ApplyCadence(base float64) float64 {
	return base * sc.CadenceMul
}

// --- Tuning mutations ---

// Each wave draws one mutation from a shuffled deck. The deck persists
// across waves and reshuffles only when exhausted, so a run sees every
// mutation before it sees any of them twice.

type tuningMutation struct {
	Name  string
	apply func(*EnemyWaveScaling)
}

var tuningDeck = []tuningMutation{
	{"steady", func(sc *EnemyWaveScaling) {}},
	{"swift", func(sc *EnemyWaveScaling) { sc.SpeedMul *= 1.15 }},
	{"hardened", func(sc *EnemyWaveScaling) { sc.HpMul *= 1.2 }},
	{"dense", func(sc *EnemyWaveScaling) { sc.CountMul *= 1.25 }},
	{"rapid", func(sc *EnemyWaveScaling) { sc.CadenceMul *= 0.85 }},
	{"veteran", func(sc *EnemyWaveScaling) { sc.HpBonus++ }},
	{"plated", func(sc *EnemyWaveScaling) {
		sc.HpBonus += 2
		sc.SpeedMul *= 0.9
	}},
	{"sparse", func(sc *EnemyWaveScaling) {
		sc.CountMul *= 0.8
		sc.HpMul *= 1.3
	}},
}

// TuningBuilder produces the final scaling for each wave: deterministic
// growth for the wave number plus one drawn mutation, clamped.
type TuningBuilder struct {
	rng   *rand.Rand
	order []int
	next  int
}

func NewTuningBuilder(rng *rand.Rand) *TuningBuilder {
	b := &TuningBuilder{rng: rng, order: make([]int, len(tuningDeck))}
	for i := range b.order {
		b.order[i] = i
	}
	b.reshuffle()
	return b
}

func (b *TuningBuilder) reshuffle() {
	b.rng.Shuffle(len(b.order), func(i, j int) {
		b.order[i], b.order[j] = b.order[j], b.order[i]
	})
	b.next = 0
}

func (b *TuningBuilder) draw() tuningMutation {
	if b.next >= len(b.order) {
		b.reshuffle()
	}
	m := tuningDeck[b.order[b.next]]
	b.next++
	return m
}

// ScalingFor builds the clamped scaling for one wave and reports the name
// of the mutation that shaped it.
func (b *TuningBuilder) ScalingFor(wave int) (EnemyWaveScaling, string) {
	sc := baseScalingForWave(wave)
	m := b.draw()
	m.apply(&sc)
	sc.clamp()
	return sc, m.Name
}
