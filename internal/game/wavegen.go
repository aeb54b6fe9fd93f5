package game

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// --- Wave blueprints ---

const (
	stageWaves     = 5 // waves per stage
	eliteWaveEvery = 5
	enemyBaseHp    = 3.0

	groupBaseCount = 2
	groupWaveDiv   = 3
	groupBonusOdds = 0.35
	groupMaxCount  = 6

	spawnWindowBase     = 5.0
	spawnWindowPerGroup = 1.6
	spawnWindowPerStage = 0.8
	spawnWindowMin      = 6.0
	spawnWindowMax      = 24.0
)

// EnemySpawnGroup is one scheduled cluster of a wave: Count enemies of one
// kind dropped into one lane, Cadence seconds apart.
type EnemySpawnGroup struct {
	Kind    EnemyKind
	Lane    int
	Hp      int
	Count   int
	Cadence float64
	Elite   bool
	Boss    bool
}

// WaveBlueprint is the fully resolved plan for one wave.
type WaveBlueprint struct {
	Wave         int
	Stage        int
	ID           string
	Mutation     string
	Groups       []EnemySpawnGroup
	SpeedMul     float64 // applied to every enemy spawned this wave
	SpawnSeconds float64 // stagger window across groups
}

func stageForWave(wave int) int {
	if wave < 1 {
		return 1
	}
	return (wave-1)/stageWaves + 1
}

func targetGroupCount(wave int, rng *rand.Rand) int {
	n := groupBaseCount + wave/groupWaveDiv
	if rng.Float64() < groupBonusOdds {
		n++
	}
	if n > groupMaxCount {
		n = groupMaxCount
	}
	if n < groupBaseCount {
		n = groupBaseCount
	}
	return n
}

func baseHpFor(kind EnemyKind) int {
	hp := int(math.Round(enemyBaseHp * kind.Profile().HpWeight))
	if hp < 1 {
		hp = 1
	}
	return hp
}

// --- Lane strategies ---

var mirrorPairs = [3][2]int{{1, 6}, {2, 5}, {3, 4}}

type waveGen struct {
	wave      int
	stage     int
	sc        EnemyWaveScaling
	rng       *rand.Rand
	usedLanes map[int]bool
}

// pickLane prefers lanes no group has claimed yet.
func (g *waveGen) pickLane() int {
	free := make([]int, 0, laneCount)
	for l := 1; l <= laneCount; l++ {
		if !g.usedLanes[l] {
			free = append(free, l)
		}
	}
	var lane int
	if len(free) > 0 {
		lane = free[g.rng.Intn(len(free))]
	} else {
		lane = 1 + g.rng.Intn(laneCount)
	}
	g.usedLanes[lane] = true
	return lane
}

func (g *waveGen) mirroredPair() (int, int) {
	p := mirrorPairs[g.rng.Intn(len(mirrorPairs))]
	g.usedLanes[p[0]] = true
	g.usedLanes[p[1]] = true
	return p[0], p[1]
}

func (g *waveGen) adjacentLane(lane int) int {
	switch {
	case lane <= 1:
		lane = 2
	case lane >= laneCount:
		lane = laneCount - 1
	case g.rng.Intn(2) == 0:
		lane--
	default:
		lane++
	}
	g.usedLanes[lane] = true
	return lane
}

// centeredBlock returns n adjacent lanes. Even n sits symmetrically around
// the field centre; odd n falls back to a random contiguous run.
func (g *waveGen) centeredBlock(n int) []int {
	if n < 1 {
		n = 1
	}
	if n > laneCount {
		n = laneCount
	}
	start := 1
	if n%2 == 0 {
		start = (laneCount-n)/2 + 1
	} else if laneCount > n {
		start = 1 + g.rng.Intn(laneCount-n+1)
	}
	lanes := make([]int, n)
	for i := range lanes {
		lanes[i] = start + i
		g.usedLanes[start+i] = true
	}
	return lanes
}

func (g *waveGen) group(kind EnemyKind, lane, baseCount int, baseCadence float64) EnemySpawnGroup {
	return EnemySpawnGroup{
		Kind:    kind,
		Lane:    lane,
		Hp:      g.sc.ApplyHp(baseHpFor(kind)),
		Count:   g.sc.ApplyCount(baseCount),
		Cadence: g.sc.ApplyCadence(baseCadence),
	}
}

func (g *waveGen) defaultGroup() EnemySpawnGroup {
	return g.group(EnemyZigzag, g.pickLane(), 3, 0.9)
}

// --- Template catalog ---

type waveTemplate struct {
	ID      string
	Name    string
	MinWave int
	MaxUses int // per wave, 0 = unlimited
	Weight  int
	Groups  int
	build   func(g *waveGen) []EnemySpawnGroup
}

var waveTemplates = []waveTemplate{
	{
		ID: "zf", Name: "zigzag file", MinWave: 1, Weight: 10, Groups: 1,
		build: func(g *waveGen) []EnemySpawnGroup {
			return []EnemySpawnGroup{g.group(EnemyZigzag, g.pickLane(), 3, 0.9)}
		},
	},
	{
		ID: "zp", Name: "zigzag pair", MinWave: 2, Weight: 8, Groups: 2,
		build: func(g *waveGen) []EnemySpawnGroup {
			a, b := g.mirroredPair()
			return []EnemySpawnGroup{
				g.group(EnemyZigzag, a, 2, 1.0),
				g.group(EnemyZigzag, b, 2, 1.0),
			}
		},
	},
	{
		ID: "sr", Name: "spawnling rush", MinWave: 3, Weight: 7, Groups: 1,
		build: func(g *waveGen) []EnemySpawnGroup {
			return []EnemySpawnGroup{g.group(EnemySpawnling, g.pickLane(), 5, 0.45)}
		},
	},
	{
		ID: "se", Name: "splitter escort", MinWave: 4, Weight: 6, Groups: 2,
		build: func(g *waveGen) []EnemySpawnGroup {
			lane := g.pickLane()
			return []EnemySpawnGroup{
				g.group(EnemySplitter, lane, 1, 1.2),
				g.group(EnemyZigzag, g.adjacentLane(lane), 2, 0.9),
			}
		},
	},
	{
		ID: "sl", Name: "shield line", MinWave: 5, Weight: 6, Groups: 2,
		build: func(g *waveGen) []EnemySpawnGroup {
			lanes := g.centeredBlock(2)
			return []EnemySpawnGroup{
				g.group(EnemyShieldbearer, lanes[0], 1, 1.3),
				g.group(EnemyShieldbearer, lanes[1], 1, 1.3),
			}
		},
	},
	{
		ID: "pa", Name: "puller ambush", MinWave: 6, Weight: 5, Groups: 2,
		build: func(g *waveGen) []EnemySpawnGroup {
			lane := g.pickLane()
			return []EnemySpawnGroup{
				g.group(EnemyPuller, lane, 1, 1.0),
				g.group(EnemySpawnling, g.adjacentLane(lane), 3, 0.5),
			}
		},
	},
	{
		ID: "sd", Name: "spore drift", MinWave: 7, Weight: 5, Groups: 1,
		build: func(g *waveGen) []EnemySpawnGroup {
			return []EnemySpawnGroup{g.group(EnemySpore, g.pickLane(), 2, 1.4)}
		},
	},
	{
		ID: "df", Name: "dasher flank", MinWave: 8, Weight: 5, Groups: 2,
		build: func(g *waveGen) []EnemySpawnGroup {
			a, b := g.mirroredPair()
			return []EnemySpawnGroup{
				g.group(EnemyDasher, a, 2, 0.8),
				g.group(EnemyDasher, b, 2, 0.8),
			}
		},
	},
	{
		ID: "wc", Name: "warden column", MinWave: 9, Weight: 4, Groups: 2,
		build: func(g *waveGen) []EnemySpawnGroup {
			lane := g.pickLane()
			return []EnemySpawnGroup{
				g.group(EnemyWarden, lane, 1, 1.0),
				g.group(EnemyZigzag, lane, 3, 0.8),
			}
		},
	},
	{
		ID: "bv", Name: "bulwark van", MinWave: 10, MaxUses: 1, Weight: 4, Groups: 2,
		build: func(g *waveGen) []EnemySpawnGroup {
			lane := g.pickLane()
			return []EnemySpawnGroup{
				g.group(EnemyBulwark, lane, 1, 1.0),
				g.group(EnemyZigzag, g.adjacentLane(lane), 2, 0.9),
			}
		},
	},
	{
		ID: "sf", Name: "spawnling flood", MinWave: 11, MaxUses: 1, Weight: 3, Groups: 2,
		build: func(g *waveGen) []EnemySpawnGroup {
			return []EnemySpawnGroup{
				g.group(EnemySpawnling, g.pickLane(), 4, 0.4),
				g.group(EnemySpawnling, g.pickLane(), 4, 0.4),
			}
		},
	},
	{
		ID: "sp", Name: "shield phalanx", MinWave: 13, Weight: 3, Groups: 2,
		build: func(g *waveGen) []EnemySpawnGroup {
			a, b := g.mirroredPair()
			return []EnemySpawnGroup{
				g.group(EnemyShieldbearer, a, 2, 1.2),
				g.group(EnemyShieldbearer, b, 2, 1.2),
			}
		},
	},
	{
		ID: "ds", Name: "dasher swarm", MinWave: 15, Weight: 3, Groups: 2,
		build: func(g *waveGen) []EnemySpawnGroup {
			return []EnemySpawnGroup{
				g.group(EnemyDasher, g.pickLane(), 3, 0.6),
				g.group(EnemyDasher, g.pickLane(), 3, 0.6),
			}
		},
	},
	{
		ID: "bb", Name: "bulwark boss", MinWave: 20, MaxUses: 1, Weight: 2, Groups: 1,
		build: func(g *waveGen) []EnemySpawnGroup {
			hp := g.sc.ApplyHp(baseHpFor(EnemyBulwark) * 4)
			return []EnemySpawnGroup{{
				Kind:    EnemyBulwark,
				Lane:    g.pickLane(),
				Hp:      hp,
				Count:   1,
				Cadence: 1,
				Boss:    true,
			}}
		},
	},
}

// --- Template selection ---

func templateCandidates(wave int, uses map[string]int, budget int, fitBudget bool) []waveTemplate {
	var out []waveTemplate
	for _, t := range waveTemplates {
		if t.MinWave > wave {
			continue
		}
		if t.MaxUses > 0 && uses[t.ID] >= t.MaxUses {
			continue
		}
		if fitBudget && t.Groups > budget {
			continue
		}
		out = append(out, t)
	}
	return out
}

func weightedPick(rng *rand.Rand, pool []waveTemplate) (waveTemplate, bool) {
	total := 0
	for _, t := range pool {
		total += t.Weight
	}
	if total <= 0 {
		return waveTemplate{}, false
	}
	r := rng.Intn(total)
	for _, t := range pool {
		r -= t.Weight
		if r < 0 {
			return t, true
		}
	}
	return pool[len(pool)-1], true
}

// chooseTemplate walks the fallback ladder: weighted within budget, weighted
// ignoring budget, then uniform over anything unlocked.
func chooseTemplate(g *waveGen, uses map[string]int, budget int) (waveTemplate, bool) {
	if t, ok := weightedPick(g.rng, templateCandidates(g.wave, uses, budget, true)); ok {
		return t, true
	}
	if t, ok := weightedPick(g.rng, templateCandidates(g.wave, uses, budget, false)); ok {
		return t, true
	}
	var any []waveTemplate
	for _, t := range waveTemplates {
		if t.MinWave <= g.wave {
			any = append(any, t)
		}
	}
	if len(any) > 0 {
		return any[g.rng.Intn(len(any))], true
	}
	return waveTemplate{}, false
}

// generateWave assembles the blueprint for one wave: scaled numbers from the
// tuning builder, templates drawn until the group target is met, and the
// elite promotion on every 5th wave.
func generateWave(wave int, tb *TuningBuilder, rng *rand.Rand) WaveBlueprint {
	sc, mutation := tb.ScalingFor(wave)
	g := &waveGen{
		wave:      wave,
		stage:     stageForWave(wave),
		sc:        sc,
		rng:       rng,
		usedLanes: map[int]bool{},
	}

	target := targetGroupCount(wave, rng)
	groups := make([]EnemySpawnGroup, 0, target)
	ids := make([]string, 0, target)
	uses := map[string]int{}
	for len(groups) < target {
		t, ok := chooseTemplate(g, uses, target-len(groups))
		if !ok {
			groups = append(groups, g.defaultGroup())
			ids = append(ids, "zf")
			continue
		}
		uses[t.ID]++
		groups = append(groups, t.build(g)...)
		ids = append(ids, t.ID)
	}

	if wave%eliteWaveEvery == 0 {
		best := -1
		for i, gr := range groups {
			if gr.Boss {
				continue
			}
			if best < 0 || gr.Hp > groups[best].Hp {
				best = i
			}
		}
		if best >= 0 {
			groups[best].Elite = true
			groups[best].Hp *= 2
		}
	}

	window := clamp(
		spawnWindowBase+spawnWindowPerGroup*float64(len(groups))+spawnWindowPerStage*float64(g.stage),
		spawnWindowMin, spawnWindowMax)

	return WaveBlueprint{
		Wave:         wave,
		Stage:        g.stage,
		ID:           fmt.Sprintf("s%dw%d-%s", g.stage, wave, strings.Join(ids, "")),
		Mutation:     mutation,
		Groups:       groups,
		SpeedMul:     sc.SpeedMul,
		SpawnSeconds: window,
	}
}
