package game

import "sort"

// --- Wave spawner ---

// spawnSlot is one scheduled enemy: the group it belongs to and the moment
// it drops, in seconds from wave start.
type spawnSlot struct {
	group EnemySpawnGroup
	due   float64
}

// WaveSpawner walks a blueprint's schedule. Groups start staggered across
// the blueprint's spawn window; enemies within a group follow its cadence.
type WaveSpawner struct {
	blueprint WaveBlueprint
	slots     []spawnSlot
	elapsed   float64
	next      int
}

func NewWaveSpawner(bp WaveBlueprint) *WaveSpawner {
	stagger := 0.0
	if len(bp.Groups) > 0 {
		stagger = bp.SpawnSeconds / float64(len(bp.Groups))
	}
	var slots []spawnSlot
	for i, g := range bp.Groups {
		start := float64(i) * stagger
		for k := 0; k < g.Count; k++ {
			slots = append(slots, spawnSlot{group: g, due: start + float64(k)*g.Cadence})
		}
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].due < slots[j].due })
	return &WaveSpawner{blueprint: bp, slots: slots}
}

// Advance moves the schedule forward and hands every newly due enemy to
// spawn. Each call delivers at most the enemies that became due this tick.
func (ws *WaveSpawner) Advance(dt float64, spawn func(EnemySpawnGroup)) {
	ws.elapsed += dt
	for ws.next < len(ws.slots) && ws.slots[ws.next].due <= ws.elapsed {
		spawn(ws.slots[ws.next].group)
		ws.next++
	}
}

// Done reports whether every scheduled enemy has spawned.
func (ws *WaveSpawner) Done() bool { return ws.next >= len(ws.slots) }

// Total is the number of enemies the blueprint schedules.
func (ws *WaveSpawner) Total() int { return len(ws.slots) }

// Spawned is how many have dropped so far.
func (ws *WaveSpawner) Spawned() int { return ws.next }

// Blueprint returns the plan this spawner is executing.
func (ws *WaveSpawner) Blueprint() WaveBlueprint { return ws.blueprint }
