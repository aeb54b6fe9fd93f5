package game

// --- Difficulty ---

// Difficulty scales the run without touching wave generation: DamageScale
// multiplies every point of player damage, HpScale multiplies enemy hp at
// spawn time.
type Difficulty struct {
	Name        string
	DamageScale float64
	HpScale     float64
}

var (
	DifficultyNormal = Difficulty{Name: "normal", DamageScale: 1, HpScale: 1}
	DifficultyHard   = Difficulty{Name: "hard", DamageScale: 0.85, HpScale: 1.35}
	DifficultyBrutal = Difficulty{Name: "brutal", DamageScale: 0.7, HpScale: 1.8}
)

// DifficultyByName resolves a preset by its flag spelling.
func DifficultyByName(name string) (Difficulty, bool) {
	switch name {
	case "normal":
		return DifficultyNormal, true
	case "hard":
		return DifficultyHard, true
	case "brutal":
		return DifficultyBrutal, true
	default:
		return Difficulty{}, false
	}
}
