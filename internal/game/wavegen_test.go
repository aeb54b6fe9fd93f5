package game

import (
	"math/rand"
	"strings"
	"testing"
)

func genTestWave(seed int64, wave int) WaveBlueprint {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- test only
	tb := NewTuningBuilder(rng)
	return generateWave(wave, tb, rng)
}

// --- Stages and group targets ---

func TestStageForWave_FiveWaveStages(t *testing.T) {
	cases := []struct{ wave, stage int }{
		{1, 1}, {5, 1}, {6, 2}, {10, 2}, {11, 3}, {0, 1},
	}
	for _, c := range cases {
		if got := stageForWave(c.wave); got != c.stage {
			t.Fatalf("wave %d: expected stage %d, got %d", c.wave, c.stage, got)
		}
	}
}

func TestTargetGroupCount_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(6)) // #nosec G404 -- test only
	for wave := 1; wave <= 40; wave++ {
		for i := 0; i < 20; i++ {
			n := targetGroupCount(wave, rng)
			if n < groupBaseCount || n > groupMaxCount {
				t.Fatalf("wave %d: group target %d out of range", wave, n)
			}
		}
	}
}

func TestTargetGroupCount_WaveOneSmall(t *testing.T) {
	rng := rand.New(rand.NewSource(3)) // #nosec G404 -- test only
	for i := 0; i < 50; i++ {
		if n := targetGroupCount(1, rng); n > 3 {
			t.Fatalf("wave 1 should never target more than 3 groups, got %d", n)
		}
	}
}

// --- Lane strategies ---

func TestMirroredPair_SumsToSeven(t *testing.T) {
	g := &waveGen{rng: rand.New(rand.NewSource(12)), usedLanes: map[int]bool{}} // #nosec G404 -- test only
	for i := 0; i < 20; i++ {
		a, b := g.mirroredPair()
		if a+b != laneCount+1 {
			t.Fatalf("mirrored lanes should straddle the centre, got %d and %d", a, b)
		}
	}
}

func TestAdjacentLane_StaysInside(t *testing.T) {
	g := &waveGen{rng: rand.New(rand.NewSource(12)), usedLanes: map[int]bool{}} // #nosec G404 -- test only
	if got := g.adjacentLane(1); got != 2 {
		t.Fatalf("lane 1's neighbour should be 2, got %d", got)
	}
	if got := g.adjacentLane(laneCount); got != laneCount-1 {
		t.Fatalf("last lane's neighbour should be %d, got %d", laneCount-1, got)
	}
	for i := 0; i < 20; i++ {
		got := g.adjacentLane(3)
		if got != 2 && got != 4 {
			t.Fatalf("lane 3's neighbour should be 2 or 4, got %d", got)
		}
	}
}

func TestCenteredBlock_EvenSitsAroundCentre(t *testing.T) {
	g := &waveGen{rng: rand.New(rand.NewSource(12)), usedLanes: map[int]bool{}} // #nosec G404 -- test only
	got := g.centeredBlock(2)
	if got[0] != 3 || got[1] != 4 {
		t.Fatalf("a 2-lane block should sit on lanes 3,4, got %v", got)
	}
	got = g.centeredBlock(4)
	if got[0] != 2 || got[3] != 5 {
		t.Fatalf("a 4-lane block should span lanes 2..5, got %v", got)
	}
}

func TestCenteredBlock_OddContiguousInside(t *testing.T) {
	g := &waveGen{rng: rand.New(rand.NewSource(12)), usedLanes: map[int]bool{}} // #nosec G404 -- test only
	for i := 0; i < 20; i++ {
		got := g.centeredBlock(3)
		if got[0] < 1 || got[2] > laneCount {
			t.Fatalf("block %v leaves the field", got)
		}
		if got[1] != got[0]+1 || got[2] != got[1]+1 {
			t.Fatalf("block %v should be contiguous", got)
		}
	}
}

// --- Template selection ---

func TestTemplateCandidates_MinWaveGates(t *testing.T) {
	pool := templateCandidates(1, map[string]int{}, 6, true)
	if len(pool) != 1 || pool[0].ID != "zf" {
		t.Fatalf("wave 1 should only unlock the zigzag file, got %d candidates", len(pool))
	}
}

func TestTemplateCandidates_MaxUsesExhausts(t *testing.T) {
	uses := map[string]int{"bb": 1}
	for _, c := range templateCandidates(25, uses, 6, true) {
		if c.ID == "bb" {
			t.Fatal("a used-up template should not be offered again")
		}
	}
}

func TestChooseTemplate_RespectsBudget(t *testing.T) {
	g := &waveGen{wave: 30, rng: rand.New(rand.NewSource(19)), usedLanes: map[int]bool{}} // #nosec G404 -- test only
	for i := 0; i < 30; i++ {
		tmpl, ok := chooseTemplate(g, map[string]int{}, 1)
		if !ok {
			t.Fatal("template selection should never fail mid-run")
		}
		if tmpl.Groups > 1 {
			t.Fatalf("budget 1 should restrict selection to single-group templates, got %q", tmpl.ID)
		}
	}
}

func TestWeightedPick_EmptyPool(t *testing.T) {
	rng := rand.New(rand.NewSource(1)) // #nosec G404 -- test only
	if _, ok := weightedPick(rng, nil); ok {
		t.Fatal("an empty pool should report no pick")
	}
}

// --- Generated blueprints ---

func TestGenerateWave_GroupCountInRange(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		for wave := 1; wave <= 30; wave++ {
			bp := genTestWave(seed, wave)
			if len(bp.Groups) < groupBaseCount || len(bp.Groups) > groupMaxCount {
				t.Fatalf("seed %d wave %d: %d groups out of range", seed, wave, len(bp.Groups))
			}
		}
	}
}

func TestGenerateWave_GroupsWellFormed(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		for wave := 1; wave <= 30; wave++ {
			bp := genTestWave(seed, wave)
			for _, gr := range bp.Groups {
				if gr.Lane < 1 || gr.Lane > laneCount {
					t.Fatalf("seed %d wave %d: lane %d out of range", seed, wave, gr.Lane)
				}
				if gr.Hp < 1 {
					t.Fatalf("seed %d wave %d: hp %d below 1", seed, wave, gr.Hp)
				}
				if gr.Count < 1 {
					t.Fatalf("seed %d wave %d: count %d below 1", seed, wave, gr.Count)
				}
				if gr.Cadence <= 0 {
					t.Fatalf("seed %d wave %d: cadence %.2f not positive", seed, wave, gr.Cadence)
				}
			}
			if bp.SpawnSeconds < spawnWindowMin || bp.SpawnSeconds > spawnWindowMax {
				t.Fatalf("seed %d wave %d: spawn window %.1f out of range", seed, wave, bp.SpawnSeconds)
			}
			if bp.SpeedMul < scaleSpeedMin || bp.SpeedMul > scaleSpeedMax {
				t.Fatalf("seed %d wave %d: speed mul %.3f out of range", seed, wave, bp.SpeedMul)
			}
			if bp.Mutation == "" {
				t.Fatalf("seed %d wave %d: mutation missing", seed, wave)
			}
		}
	}
}

func TestGenerateWave_WaveOneIsZigzagsOnly(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		bp := genTestWave(seed, 1)
		for _, gr := range bp.Groups {
			if gr.Kind != EnemyZigzag {
				t.Fatalf("seed %d: wave 1 spawned %v before it unlocks", seed, gr.Kind)
			}
		}
	}
}

func TestGenerateWave_EarlyWavesSkipLateKinds(t *testing.T) {
	late := map[EnemyKind]bool{
		EnemyPuller: true, EnemySpore: true, EnemyDasher: true,
		EnemyWarden: true, EnemyBulwark: true,
	}
	for seed := int64(1); seed <= 10; seed++ {
		bp := genTestWave(seed, 5)
		for _, gr := range bp.Groups {
			if late[gr.Kind] {
				t.Fatalf("seed %d: wave 5 spawned %v before it unlocks", seed, gr.Kind)
			}
		}
	}
}

func TestGenerateWave_EliteEveryFifthWave(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		bp := genTestWave(seed, 5)
		elites := 0
		for _, gr := range bp.Groups {
			if gr.Elite {
				elites++
			}
		}
		if elites != 1 {
			t.Fatalf("seed %d: wave 5 should promote exactly one elite group, got %d", seed, elites)
		}
	}
}

func TestGenerateWave_NoEliteOffCycle(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		bp := genTestWave(seed, 4)
		for _, gr := range bp.Groups {
			if gr.Elite {
				t.Fatalf("seed %d: wave 4 should have no elites", seed)
			}
		}
	}
}

func TestGenerateWave_ElitePromotionDoublesHp(t *testing.T) {
	bp := genTestWave(3, 5)
	for _, gr := range bp.Groups {
		if !gr.Elite {
			continue
		}
		if gr.Hp%2 != 0 {
			t.Fatalf("elite hp should be doubled and therefore even, got %d", gr.Hp)
		}
		return
	}
	t.Fatal("wave 5 produced no elite group")
}

func TestGenerateWave_BossShowsUpInLateWaves(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		bp := genTestWave(seed, 20)
		for _, gr := range bp.Groups {
			if !gr.Boss {
				continue
			}
			if gr.Count != 1 {
				t.Fatalf("a boss group should hold a single enemy, got %d", gr.Count)
			}
			if gr.Kind != EnemyBulwark {
				t.Fatalf("the boss should be a bulwark, got %v", gr.Kind)
			}
			if gr.Elite {
				t.Fatal("a boss group should not also carry the elite promotion")
			}
			return
		}
	}
	t.Fatal("no boss appeared at wave 20 across 200 seeds")
}

func TestGenerateWave_BlueprintID(t *testing.T) {
	bp := genTestWave(7, 7)
	if !strings.HasPrefix(bp.ID, "s2w7-") {
		t.Fatalf("blueprint id should carry stage and wave, got %q", bp.ID)
	}
	if bp.ID == "s2w7-" {
		t.Fatal("blueprint id should list the templates used")
	}
}

func TestGenerateWave_DeterministicPerSeed(t *testing.T) {
	a := genTestWave(42, 12)
	b := genTestWave(42, 12)
	if a.ID != b.ID || len(a.Groups) != len(b.Groups) {
		t.Fatalf("same seed should build the same wave: %q vs %q", a.ID, b.ID)
	}
	for i := range a.Groups {
		if a.Groups[i] != b.Groups[i] {
			t.Fatalf("group %d differs between identical seeds", i)
		}
	}
}

// --- Base hp ---

func TestBaseHpFor_WeightedByKind(t *testing.T) {
	if baseHpFor(EnemyZigzag) < 1 {
		t.Fatal("base hp should never drop below 1")
	}
	if baseHpFor(EnemyBulwark) <= baseHpFor(EnemySpawnling) {
		t.Fatal("a bulwark should carry more base hp than a spawnling")
	}
}
