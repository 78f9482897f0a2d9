package balance

// DifficultyProfile bundles the multipliers that a selected difficulty
// applies to enemy attributes, rewards, and encounter rates. Profiles are
// immutable; one is selected per run and stored by key.
type DifficultyProfile struct {
	Key         string
	Name        string
	Description string

	EnemyHPMult      float64
	EnemyAttackMult  float64
	EnemyDefenseMult float64
	XPRewardMult     float64
	CoinDropMult     float64
	EncounterMult    float64
	// ConsumableBonus is added to the base consumable-swap chance.
	ConsumableBonus float64
}

// DefaultDifficulty is the profile key used when none was selected.
const DefaultDifficulty = "normal"

// profiles holds the three fixed difficulty profiles. Easy enemies must
// never be stronger than normal, and normal never stronger than hard, so
// that difficulty stays monotonic for the same template and depth.
var profiles = map[string]DifficultyProfile{
	"facil": {
		Key:              "facil",
		Name:             "Explorador",
		Description:      "Inimigos mais fracos, recompensas generosas. Para conhecer a masmorra.",
		EnemyHPMult:      0.80,
		EnemyAttackMult:  0.80,
		EnemyDefenseMult: 0.90,
		XPRewardMult:     1.25,
		CoinDropMult:     1.25,
		EncounterMult:    0.80,
		ConsumableBonus:  0.10,
	},
	"normal": {
		Key:              "normal",
		Name:             "Aventureiro",
		Description:      "A experiência clássica, como a masmorra foi concebida.",
		EnemyHPMult:      1.0,
		EnemyAttackMult:  1.0,
		EnemyDefenseMult: 1.0,
		XPRewardMult:     1.0,
		CoinDropMult:     1.0,
		EncounterMult:    1.0,
		ConsumableBonus:  0,
	},
	"dificil": {
		Key:              "dificil",
		Name:             "Lenda",
		Description:      "Inimigos brutais e recompensas escassas. A masmorra cobra um preço.",
		EnemyHPMult:      1.25,
		EnemyAttackMult:  1.20,
		EnemyDefenseMult: 1.10,
		XPRewardMult:     0.85,
		CoinDropMult:     0.90,
		EncounterMult:    1.20,
		ConsumableBonus:  -0.05,
	},
}

// difficultyOrder is the menu presentation order.
var difficultyOrder = []string{"facil", "normal", "dificil"}

// Difficulty returns the profile for key, falling back to the normal
// profile for unknown keys.
func Difficulty(key string) DifficultyProfile {
	if p, ok := profiles[key]; ok {
		return p
	}
	return profiles[DefaultDifficulty]
}

// KnownDifficulty reports whether key names one of the fixed profiles.
func KnownDifficulty(key string) bool {
	_, ok := profiles[key]
	return ok
}

// Difficulties returns the fixed profiles in presentation order.
func Difficulties() []DifficultyProfile {
	out := make([]DifficultyProfile, 0, len(difficultyOrder))
	for _, key := range difficultyOrder {
		out = append(out, profiles[key])
	}
	return out
}
