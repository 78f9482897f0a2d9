// Package balance holds the numeric tuning of the game: attribute scaling
// by dungeon depth, boss bonuses, difficulty profiles, level-up gains, and
// drop rates. Everything here is a pure function of its inputs.
package balance

// Map dimensions and generation tuning.
const (
	MapWidth  = 10
	MapHeight = 10
	// SideRoomRatio controls how many side-room carve attempts are made
	// relative to the grid area.
	SideRoomRatio = 0.25
	// EventProbability is the chance a generated corridor room carries an event.
	EventProbability = 0.12
)

// Enemy scaling.
const (
	// EnemyGrowthPerLevel is the per-depth attribute growth factor.
	EnemyGrowthPerLevel = 0.25
	// AttributeJitter is the uniform ± fraction applied independently to
	// generated HP, attack, and defense.
	AttributeJitter = 0.12
	// ThemeWeight is the selection weight of enemy/room templates tagged
	// with the active plot theme, versus 1 for untagged templates.
	ThemeWeight = 3
)

// Encounter probability tuning.
const (
	encounterBase     = 0.5
	encounterPerLevel = 0.05
	encounterMin      = 0.20
	encounterMax      = 0.90
)

// Level-up progression.
const (
	LevelUpHPGain      = 10
	LevelUpAttackGain  = 2
	LevelUpDefenseGain = 1
	// XPThresholdGrowth multiplies the XP-to-next-level threshold on each
	// level gained; the result is floored to an int.
	XPThresholdGrowth = 1.5
	// InitialXPThreshold is the XP required to reach level 2.
	InitialXPThreshold = 100
	// DescentHealFraction of max HP is restored when taking the staircase.
	DescentHealFraction = 0.25
)

// EnemyLevelFactor returns the attribute multiplier for enemies at the given
// dungeon depth: 1 + 0.25 per depth beyond the first.
//
// Postcondition: Returns >= 1.0.
func EnemyLevelFactor(depth int) float64 {
	extra := depth - 1
	if extra < 0 {
		extra = 0
	}
	return 1 + float64(extra)*EnemyGrowthPerLevel
}

// EncounterProbability returns the chance that a corridor room holds an
// enemy at the given depth under the given profile.
//
// Postcondition: Returns a value in [0.20, 0.90].
func EncounterProbability(depth int, profile DifficultyProfile) float64 {
	extra := depth - 1
	if extra < 0 {
		extra = 0
	}
	p := (encounterBase + float64(extra)*encounterPerLevel) * profile.EncounterMult
	if p < encounterMin {
		return encounterMin
	}
	if p > encounterMax {
		return encounterMax
	}
	return p
}

// BossBonus returns the fractional HP/attack/defense bonuses and the XP
// multiplier applied on top of normal scaling for boss enemies at the
// given depth. Each component is capped independently.
func BossBonus(depth int) (hp, atk, def, xpMult float64) {
	extra := float64(depth - 1)
	if extra < 0 {
		extra = 0
	}
	bonus := func(base, step, cap float64) float64 {
		v := base + extra*step
		if v > cap {
			return cap
		}
		return v
	}
	hp = bonus(0.5, 0.10, 1.5)
	atk = bonus(0.3, 0.05, 1.0)
	def = bonus(0.2, 0.05, 0.8)
	xpMult = bonus(1.5, 0.10, 3.0)
	return hp, atk, def, xpMult
}

// coinRange is an inclusive coin drop range in bronze.
type coinRange struct{ Min, Max int }

// coinDropRanges maps drop rarity to its base coin range.
var coinDropRanges = map[string]coinRange{
	"comum":   {4, 12},
	"incomum": {10, 24},
	"raro":    {20, 40},
	"chefe":   {30, 60},
	"default": {3, 10},
}

// CoinDropScaling is the per-depth fractional bonus on coin drops.
const CoinDropScaling = 0.25

// CoinDropRange returns the base coin range for the given rarity, falling
// back to the default range for unknown rarities.
func CoinDropRange(rarity string) (minCoins, maxCoins int) {
	r, ok := coinDropRanges[rarity]
	if !ok {
		r = coinDropRanges["default"]
	}
	return r.Min, r.Max
}

// ConsumableSwapChance returns the base probability that an item drop of the
// given rarity is replaced by a consumable. Unknown rarities never swap.
func ConsumableSwapChance(rarity string) float64 {
	switch rarity {
	case "comum":
		return 0.35
	case "incomum":
		return 0.25
	case "raro":
		return 0.15
	default:
		return 0
	}
}
